package exc

import (
	"fmt"
	"io"

	"pyrt/internal/value"
)

// Raise formats "name: message" into ctx, writes it to the diagnostic stream of the
// context's unit and terminates that unit with status 1. It does not return.
func Raise(ctx *Context, name value.Value, message string) {
	raise(ctx, fmt.Sprintf("%s: %s", name, message))
}

// RaiseWithValue appends the to_string form of v to the message.
func RaiseWithValue(ctx *Context, name value.Value, message string, v value.Value) {
	raise(ctx, fmt.Sprintf("%s: %s (value: %s)", name, message, v))
}

// RaiseWithContext chains the message captured by an earlier catch.
func RaiseWithContext(ctx *Context, name value.Value, message string, other *Context) {
	raise(ctx, fmt.Sprintf("%s: %s", name, message)+during(other))
}

// RaiseFull combines free-form extra text, a payload value and an earlier catch.
func RaiseFull(ctx *Context, name value.Value, message string, v value.Value, other *Context, extra string) {
	raise(ctx, fmt.Sprintf("%s: %s | Extra: %s | Value: %s", name, message, extra, v)+during(other))
}

// Throw raises err, converted to its scripting-level kind.
func Throw(ctx *Context, err error) {
	raise(ctx, From(err).Error())
}

// Fatal reports err on the process diagnostic stream and exits with status 1.
func Fatal(err error) {
	Throw(nil, err)
}

func during(other *Context) string {
	if other == nil || !other.Triggered || other.Message[0] == 0 {
		return ""
	}
	return " (during handling of: " + other.Text() + ")"
}

type flusher interface {
	Flush() error
}

func raise(ctx *Context, text string) {
	if ctx != nil {
		ctx.Triggered = true
		ctx.SetText(text)
	}
	u := ctx.Unit()
	w := u.Diagnostics()
	_, _ = io.WriteString(w, text+"\n")
	if f, ok := w.(flusher); ok {
		_ = f.Flush()
	}
	u.Exit(1)
}
