// Package future joins a goroutine that may end without returning normally.
package future

import (
	"errors"
	"fmt"
	"sync"
)

// ErrExited is reported when the goroutine ended through runtime.Goexit.
var ErrExited = errors.New("future: goroutine exited before returning")

// PanicError carries the value a goroutine panicked with.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("future: goroutine panicked: %v", e.Value)
}

type result[T any] struct {
	v   T
	err error
}

// Future is a single-shot result that completes exactly once.
type Future[T any] struct {
	doneChannel chan struct{}
	res         result[T]
	once        sync.Once
}

// New runs fn in a goroutine and completes the Future however fn ends: by returning,
// by panicking (*PanicError) or through runtime.Goexit (ErrExited).
func New[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{doneChannel: make(chan struct{})}
	go func() {
		var (
			v        T
			err      error
			returned bool
		)
		defer func() {
			if !returned {
				if p := recover(); p != nil {
					err = &PanicError{Value: p}
				} else {
					err = ErrExited
				}
			}
			f.complete(v, err)
		}()
		v, err = fn()
		returned = true
	}()
	return f
}

// Await blocks until completion and returns the result.
func (f *Future[T]) Await() (T, error) {
	<-f.doneChannel
	return f.res.v, f.res.err
}

// complete sets the result exactly once and closes doneChannel.
func (f *Future[T]) complete(v T, err error) {
	f.once.Do(func() {
		f.res = result[T]{v: v, err: err}
		close(f.doneChannel)
	})
}
