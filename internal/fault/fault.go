// Package fault holds the fill error taxonomy shared by the internal
// components. The root package re-exports it.
package fault

import (
	"errors"
	"strings"
)

// Error kinds. Every fill failure matches exactly one of them via errors.Is.
var (
	ErrNoMappingKeyFound = errors.New("dataobj: no mapping key found")
	ErrInvalidCast       = errors.New("dataobj: invalid cast")
	ErrStrictnessFailed  = errors.New("dataobj: strict property missing")
	ErrValidationFailed  = errors.New("dataobj: validation failed")
	ErrConfiguration     = errors.New("dataobj: invalid configuration")
)

// Error describes a failure tied to a target type and optionally one of its
// fields.
type Error struct {
	Kind  error  // One of the Err* sentinels.
	Type  string // Target type name.
	Field string // Go field name, empty for type-level failures.
	Msg   string
	Cause error // Optional: underlying error.
}

func (e *Error) Error() string {
	b := &strings.Builder{}
	b.WriteString(e.Kind.Error())
	if e.Type != "" {
		b.WriteString(": ")
		b.WriteString(e.Type)
		if e.Field != "" {
			b.WriteString(".")
			b.WriteString(e.Field)
		}
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// New builds an Error of the given kind.
func New(kind error, typ, field, msg string) *Error {
	return &Error{Kind: kind, Type: typ, Field: field, Msg: msg}
}

// Wrap builds an Error of the given kind carrying cause.
func Wrap(kind error, typ, field, msg string, cause error) *Error {
	return &Error{Kind: kind, Type: typ, Field: field, Msg: msg, Cause: cause}
}
