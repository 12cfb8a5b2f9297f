package trycatch

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"pyrt/internal/exc"
	"pyrt/internal/util/future"
	"pyrt/internal/value"
)

// panicStatus is the exit status of a unit that panicked.
const panicStatus = 2

// goroutineUnit is a protected unit running on its own goroutine. Exit ends the
// goroutine; deferred calls still run.
type goroutineUnit struct {
	diag *io.PipeWriter
	code int
}

func (u *goroutineUnit) Diagnostics() io.Writer { return u.diag }

func (u *goroutineUnit) Exit(code int) {
	u.code = code
	runtime.Goexit()
}

// runGoroutine runs body on a new goroutine against deep copies of args. The unit
// only isolates values passed through args; package state stays shared.
func runGoroutine(body Body, args []value.Value) ([]byte, int, error) {
	copies := make([]value.Value, len(args))
	for i, a := range args {
		copies[i] = value.Copy(a)
	}

	rd, wr := io.Pipe()
	defer rd.Close()
	u := &goroutineUnit{diag: wr}

	fut := future.New(func() (struct{}, error) {
		defer wr.Close()
		body(exc.NewContext().Bind(u), copies)
		return struct{}{}, nil
	})

	captured, readErr := capture(rd)
	_, err := fut.Await()
	var panicked *future.PanicError
	switch {
	case err == nil, errors.Is(err, future.ErrExited):
	case errors.As(err, &panicked):
		u.code = panicStatus
		captured = appendCapped(captured, fmt.Sprintf("panic: %v\n", panicked.Value))
	default:
		return nil, 0, fmt.Errorf("trycatch: join unit: %w", err)
	}
	if readErr != nil {
		return nil, 0, readErr
	}
	return captured, u.code, nil
}

// appendCapped appends text to captured diagnostics without exceeding what capture
// would have kept.
func appendCapped(captured []byte, text string) []byte {
	room := exc.MessageSize - 1 - len(captured)
	if room <= 0 {
		return captured
	}
	if len(text) > room {
		text = text[:room]
	}
	return append(captured, text...)
}
