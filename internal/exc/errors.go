// Package exc holds the named error kinds of the runtime, the structured error type
// returned by operators and builtins, and the try/catch context record that raises
// write into.
package exc

import (
	"errors"
	"fmt"

	"pyrt/internal/value"
)

// Error kind labels. They are plain String values and carry no behavior.
var (
	ValueError        = value.NewString("ValueError")
	TypeError         = value.NewString("TypeError")
	ZeroDivisionError = value.NewString("ZeroDivisionError")
	IndexError        = value.NewString("IndexError")
	AssertionError    = value.NewString("AssertionError")
	RuntimeError      = value.NewString("RuntimeError")
)

// Sentinels for errors.Is matching by kind.
var (
	ErrValue        = &Error{Kind: ValueError.Str()}
	ErrType         = &Error{Kind: TypeError.Str()}
	ErrZeroDivision = &Error{Kind: ZeroDivisionError.Str()}
	ErrIndex        = &Error{Kind: IndexError.Str()}
	ErrAssertion    = &Error{Kind: AssertionError.Str()}
	ErrRuntime      = &Error{Kind: RuntimeError.Str()}
)

// Error is a raised condition: an error kind name plus a description.
type Error struct {
	Kind    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind
	}
	return e.Kind + ": " + e.Message
}

// Is matches on kind. A target without a message matches every error of its kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func Errorf(kind value.Value, format string, args ...any) *Error {
	return &Error{Kind: kind.String(), Message: fmt.Sprintf(format, args...)}
}

func TypeErrorf(format string, args ...any) *Error  { return Errorf(TypeError, format, args...) }
func ValueErrorf(format string, args ...any) *Error { return Errorf(ValueError, format, args...) }
func IndexErrorf(format string, args ...any) *Error { return Errorf(IndexError, format, args...) }

// From converts any error into an *Error, mapping value model failures onto their
// scripting-level kinds.
func From(err error) *Error {
	var e *Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &e):
		return e
	case errors.Is(err, value.ErrIndexOutOfRange):
		return Errorf(IndexError, "%s", err.Error())
	case errors.Is(err, value.ErrNotIndexable):
		return Errorf(TypeError, "%s", err.Error())
	}
	return Errorf(RuntimeError, "%s", err.Error())
}
