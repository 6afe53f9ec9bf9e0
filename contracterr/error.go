package contracterr

import (
	"strings"
)

// Error is a contract failure with the context needed to act on it.
type Error struct {
	Kind   Kind
	Type   string // declaring type, as printed by the host (e.g. "shapes.Circle")
	Member string // member, wire or parameter name the failure is about (if any)
	Detail string
	Err    error // underlying cause (if any)
}

// New returns an *Error of the given kind for typeName.
func New(kind Kind, typeName, member, detail string) *Error {
	return &Error{
		Kind:   kind,
		Type:   typeName,
		Member: member,
		Detail: detail,
	}
}

// Wrap returns an *Error of the given kind wrapping err.
func Wrap(kind Kind, typeName string, err error) *Error {
	return &Error{
		Kind: kind,
		Type: typeName,
		Err:  err,
	}
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(e.Kind.Error())

	if e.Type != "" {
		b.WriteString(": type ")
		b.WriteString(e.Type)
	}

	if e.Member != "" {
		b.WriteString(": member ")
		b.WriteString(`"` + e.Member + `"`)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

// KindOf returns the Kind carried by err, or 0 when err is not a contract error.
func KindOf(err error) Kind {
	for err != nil {
		switch e := err.(type) {
		case Kind:
			return e
		case *Error:
			return e.Kind
		case interface{ Unwrap() error }:
			err = e.Unwrap()
		case interface{ Unwrap() []error }:
			for _, inner := range e.Unwrap() {
				if k := KindOf(inner); k != 0 {
					return k
				}
			}

			return 0
		default:
			return 0
		}
	}

	return 0
}
