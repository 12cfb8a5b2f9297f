// Package log wires log/slog for the pyrt binary: level names, a JSON handler and a
// log file that is reopened on SIGHUP.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
)

const (
	LevelTrace = slog.LevelDebug - 4
	// LevelNone is above every level that is ever logged.
	LevelNone = slog.LevelError + 8
)

// ParseLevel maps trace, debug, info, warn, error and none to slog levels. Unknown
// names disable logging.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return LevelNone
	}
}

// New returns a JSON logger writing to w.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: false,
		Level:     ParseLevel(level),
	}))
}

// FileWriter appends to a log file and can reopen it after rotation.
type FileWriter struct {
	mu   sync.Mutex
	path string
	f    *os.File
}

// OpenFile opens path for appending, creating parent directories as needed.
func OpenFile(path string) (*FileWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("log: create directory for %s: %w", path, err)
	}
	w := &FileWriter{path: path}
	if err := w.Reopen(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *FileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return 0, os.ErrClosed
	}
	return w.f.Write(p)
}

// Reopen closes the current handle and opens the path again.
func (w *FileWriter) Reopen() error {
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("log: open %s: %w", w.path, err)
	}
	w.mu.Lock()
	old := w.f
	w.f = f
	w.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	return nil
}

func (w *FileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}

// ReopenOnHangup reopens the file whenever the process receives SIGHUP, e.g.
//
//	mv pyrt.log pyrt.bak && kill -HUP <pid>
//
// The returned function stops watching.
func (w *FileWriter) ReopenOnHangup() (stop func()) {
	sigs := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigs, syscall.SIGHUP)
	go func() {
		for {
			select {
			case <-sigs:
				if err := w.Reopen(); err != nil {
					fmt.Fprintf(os.Stderr, "could not reopen log file: %v\n", err)
				}
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sigs)
			close(done)
		})
	}
}

// Configure installs the default slog logger. With an empty path logs go to stderr;
// a file that cannot be opened falls back to stderr with a warning. The returned
// function releases the file.
func Configure(level, path string) (closeFn func()) {
	if path == "" {
		slog.SetDefault(New(os.Stderr, level))
		return func() {}
	}
	w, err := OpenFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v; falling back to stderr\n", err)
		slog.SetDefault(New(os.Stderr, level))
		return func() {}
	}
	stop := w.ReopenOnHangup()
	slog.SetDefault(New(w, level))
	return func() {
		stop()
		_ = w.Close()
	}
}
