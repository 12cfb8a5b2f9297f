package exc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"pyrt/internal/value"
)

type exitSignal int

// recordingUnit captures diagnostics and turns Exit into a panic so tests can observe
// a terminated unit.
type recordingUnit struct {
	buf bytes.Buffer
}

func (u *recordingUnit) Diagnostics() io.Writer { return &u.buf }
func (u *recordingUnit) Exit(code int)          { panic(exitSignal(code)) }

func runUnit(t *testing.T, fn func(ctx *Context)) (*Context, *recordingUnit, int) {
	t.Helper()
	u := &recordingUnit{}
	ctx := NewContext().Bind(u)
	code := -1
	func() {
		defer func() {
			if r := recover(); r != nil {
				sig, ok := r.(exitSignal)
				if !ok {
					panic(r)
				}
				code = int(sig)
			}
		}()
		fn(ctx)
	}()
	return ctx, u, code
}

func TestErrorFormatting(t *testing.T) {
	err := TypeErrorf("unsupported operand type(s) for -: '%s' and '%s'", "str", "int")
	if got, want := err.Error(), "TypeError: unsupported operand type(s) for -: 'str' and 'int'"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrType) {
		t.Errorf("errors.Is by kind failed")
	}
	if errors.Is(err, ErrValue) {
		t.Errorf("matched the wrong kind")
	}
	wrapped := fmt.Errorf("while adding: %w", err)
	if !errors.Is(wrapped, ErrType) {
		t.Errorf("wrapped error lost its kind")
	}
}

func TestFrom(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"structured", ValueErrorf("bad"), "ValueError: bad"},
		{"dict full", value.ErrDictFull, "RuntimeError: dictionary is full"},
		{"index", fmt.Errorf("list %w", value.ErrIndexOutOfRange), "IndexError: list index out of range"},
		{"plain", errors.New("boom"), "RuntimeError: boom"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := From(c.err).Error(); got != c.want {
				t.Errorf("From = %q, want %q", got, c.want)
			}
		})
	}
	if From(nil) != nil {
		t.Errorf("From(nil) should be nil")
	}
}

func TestRaiseTerminatesUnit(t *testing.T) {
	reached := false
	ctx, u, code := runUnit(t, func(ctx *Context) {
		Raise(ctx, ZeroDivisionError, "division by zero")
		reached = true
	})
	if reached {
		t.Fatalf("code after Raise ran")
	}
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !ctx.Triggered || ctx.Text() != "ZeroDivisionError: division by zero" {
		t.Fatalf("context = %v %q", ctx.Triggered, ctx.Text())
	}
	if got := u.buf.String(); got != "ZeroDivisionError: division by zero\n" {
		t.Fatalf("diagnostics = %q", got)
	}
}

func TestRaiseVariants(t *testing.T) {
	earlier := NewContext()
	earlier.Triggered = true
	earlier.SetText("ValueError: first")

	cases := []struct {
		name  string
		raise func(ctx *Context)
		want  string
	}{
		{"with value", func(ctx *Context) {
			RaiseWithValue(ctx, ValueError, "bad input", value.NewInt(7))
		}, "ValueError: bad input (value: 7)"},
		{"with context", func(ctx *Context) {
			RaiseWithContext(ctx, TypeError, "second", earlier)
		}, "TypeError: second (during handling of: ValueError: first)"},
		{"with untriggered context", func(ctx *Context) {
			RaiseWithContext(ctx, TypeError, "alone", NewContext())
		}, "TypeError: alone"},
		{"full", func(ctx *Context) {
			RaiseFull(ctx, RuntimeError, "broken", value.NewString("x"), nil, "note")
		}, "RuntimeError: broken | Extra: note | Value: x"},
		{"must", func(ctx *Context) {
			ctx.Must(value.None, IndexErrorf("list index out of range"))
		}, "IndexError: list index out of range"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx, _, code := runUnit(t, c.raise)
			if code != 1 || ctx.Text() != c.want {
				t.Errorf("got code=%d text=%q, want %q", code, ctx.Text(), c.want)
			}
		})
	}
}

func TestMustPassesThrough(t *testing.T) {
	_, u, code := runUnit(t, func(ctx *Context) {
		v := ctx.Must(value.NewInt(3), nil)
		ctx.Check(nil)
		if v.Int() != 3 {
			t.Errorf("Must changed the value")
		}
	})
	if code != -1 || u.buf.Len() != 0 {
		t.Fatalf("unit terminated without an error: code=%d", code)
	}
}

func TestSetTextTruncates(t *testing.T) {
	ctx := NewContext()
	ctx.SetText(strings.Repeat("x", 2*MessageSize))
	if got := len(ctx.Text()); got != MessageSize-1 {
		t.Fatalf("text length = %d, want %d", got, MessageSize-1)
	}
	ctx.SetText("short")
	if ctx.Text() != "short" {
		t.Fatalf("shorter text not terminated: %q", ctx.Text())
	}
}

func TestClearPrintValueOf(t *testing.T) {
	ctx := NewContext()
	if !ValueOf(ctx).IsNone() {
		t.Fatalf("untriggered context should materialize None")
	}
	ctx.Triggered = true
	ctx.SetText("TypeError: nope")

	var out bytes.Buffer
	Print(ctx, &out)
	if out.String() != "TypeError: nope\n" {
		t.Fatalf("Print wrote %q", out.String())
	}
	if v := ValueOf(ctx); v.Str() != "TypeError: nope" {
		t.Fatalf("ValueOf = %s", v)
	}

	Clear(ctx)
	if ctx.Triggered || ctx.Text() != "" {
		t.Fatalf("Clear left %v %q", ctx.Triggered, ctx.Text())
	}
}

func TestContextWireRecord(t *testing.T) {
	ctx := NewContext()
	ctx.Triggered = true
	ctx.StatusCode = -3
	ctx.SetText("ValueError: wire")

	data, err := ctx.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 4+MessageSize+4 {
		t.Fatalf("record is %d bytes", len(data))
	}

	var got Context
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatal(err)
	}
	if !got.Triggered || got.StatusCode != -3 || got.Text() != "ValueError: wire" {
		t.Fatalf("decoded %v %d %q", got.Triggered, got.StatusCode, got.Text())
	}
	if err := got.UnmarshalBinary(data[:10]); err == nil {
		t.Fatalf("short record accepted")
	}
}
