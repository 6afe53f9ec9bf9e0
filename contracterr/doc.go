// Package contracterr defines the error taxonomy reported while building
// serialization contracts.
//
// Every Kind is itself an error, so callers match with errors.Is:
//
//	if errors.Is(err, contracterr.DuplicatePropertyName) { ... }
//
// and recover the context (declaring type, member, detail) with errors.As
// against *Error.
package contracterr
