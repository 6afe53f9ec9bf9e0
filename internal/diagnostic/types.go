package diagnostic

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"typecontract/contracterr"
	"typecontract/internal/common"
	"typecontract/naming"
)

// Diagnostics holds all findings of a check.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic is a single finding.
type Diagnostic struct {
	Severity Severity
	// Code is a stable identifier of the kind of finding.
	Code    string
	Message string
	// Type is the type the finding concerns (if any).
	Type string
	// Member is the Go member name the finding concerns (if any).
	Member string
	// Suggestion is a likely intended spelling.
	Suggestion string
}

// Severity of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Code returns the diagnostic code of a contract failure kind, e.g.
// "duplicate_property_name".
func Code(kind contracterr.Kind) string {
	return naming.SnakeCaseLower(kind.String())
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, typ, member string) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  message,
		Type:     typ,
		Member:   member,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, typ, member string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  message,
		Type:     typ,
		Member:   member,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, typ, member string) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity: SeverityInfo,
		Code:     code,
		Message:  message,
		Type:     typ,
		Member:   member,
	})
}

// AddSuggestion attaches a suggestion to the last error.
func (d *Diagnostics) AddSuggestion(s string) {
	if len(d.Errors) > 0 {
		d.Errors[len(d.Errors)-1].Suggestion = s
	}
}

// AddFailure records err as an error diagnostic. Contract errors keep
// their kind, type and member; anything else is reported under fallback
// with typ as its type.
func (d *Diagnostics) AddFailure(err error, fallback, typ string) {
	var cerr *contracterr.Error
	if errors.As(err, &cerr) {
		msg := cerr.Detail
		if msg == "" {
			msg = cerr.Kind.Error()
		}

		if cerr.Err != nil {
			msg = fmt.Sprintf("%s: %v", msg, cerr.Err)
		}

		d.AddError(Code(cerr.Kind), msg, cerr.Type, cerr.Member)

		return
	}

	d.AddError(fallback, err.Error(), typ, "")
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// Sort orders every severity by type, member and code so reports of
// concurrent checks are stable.
func (d *Diagnostics) Sort() {
	for _, list := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
		slices.SortStableFunc(list, func(a, b Diagnostic) int {
			return strings.Compare(a.key(), b.key())
		})
	}
}

func (d Diagnostic) key() string {
	return d.Type + "\x00" + d.Member + "\x00" + d.Code
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// All returns errors, then warnings, then infos.
func (d *Diagnostics) All() []Diagnostic {
	return slices.Concat(d.Errors, d.Warnings, d.Infos)
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Type != "" {
		prefix = append(prefix, "["+d.Type+"]")
	}

	if d.Member != "" {
		prefix = append(prefix, d.Member)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if d.Suggestion != "" {
		msg = fmt.Sprintf("%s (did you mean %q?)", msg, d.Suggestion)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
