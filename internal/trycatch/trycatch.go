// Package trycatch runs a named region of code as an isolated unit and reports
// whether it failed.
//
// A supervisor starts the unit, captures what the unit writes to its diagnostic
// stream and waits for its exit status. The unit shares no mutable state with the
// supervisor: arguments are copied in and only text and a status come back. A
// region is caught when the unit exits non-zero or writes any diagnostics.
package trycatch

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"pyrt/internal/exc"
	"pyrt/internal/value"
)

// Body is the code of a region. ctx is bound to the unit running it, so raises
// inside the body end that unit only.
type Body func(ctx *exc.Context, args []value.Value)

type Mode int

const (
	// ProcessMode runs each region in a child process of the current binary.
	ProcessMode Mode = iota
	// GoroutineMode runs each region on its own goroutine inside this process.
	GoroutineMode
)

func (m Mode) String() string {
	switch m {
	case ProcessMode:
		return "process"
	case GoroutineMode:
		return "goroutine"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "process", "":
		return ProcessMode, nil
	case "goroutine":
		return GoroutineMode, nil
	}
	return 0, fmt.Errorf("trycatch: unknown isolation mode %q", s)
}

// ErrUnknownRegion is returned when a region name has no registered body.
var ErrUnknownRegion = errors.New("trycatch: unknown region")

var (
	regionsMu sync.RWMutex
	regions   = map[string]Body{}
)

// Register makes body runnable under name. It panics if name is empty or already
// registered. Regions must be registered during package initialization so that a
// re-executed child process sees the same table.
func Register(name string, body Body) {
	regionsMu.Lock()
	defer regionsMu.Unlock()
	if name == "" || body == nil {
		panic("trycatch: Register needs a name and a body")
	}
	if _, dup := regions[name]; dup {
		panic("trycatch: region registered twice: " + name)
	}
	regions[name] = body
}

// Regions lists the registered region names in order.
func Regions() []string {
	regionsMu.RLock()
	defer regionsMu.RUnlock()
	names := make([]string, 0, len(regions))
	for name := range regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookup(name string) (Body, error) {
	regionsMu.RLock()
	defer regionsMu.RUnlock()
	body, ok := regions[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownRegion, name)
	}
	return body, nil
}

// Runner supervises protected regions.
type Runner struct {
	Mode Mode
	// OnCatch, when set, is called in the supervisor after a region is caught and
	// before any catch callback runs.
	OnCatch func(name string, ctx *exc.Context)
	Logger  *slog.Logger
}

func NewRunner(mode Mode) *Runner {
	return &Runner{Mode: mode}
}

// Default is the runner used by the package-level functions.
var Default = NewRunner(ProcessMode)

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Run executes the named region as an isolated unit and records the outcome in ctx:
// StatusCode is the unit's exit status, Message holds the first MessageSize-1 bytes
// of its diagnostics and Triggered is set when either is non-empty. An error is
// returned only when the unit could not be started or joined.
func (r *Runner) Run(ctx *exc.Context, name string, args ...value.Value) error {
	body, err := lookup(name)
	if err != nil {
		return err
	}
	log := r.logger().With("region", name, "mode", r.Mode.String())
	log.Debug("region started")

	var (
		captured []byte
		status   int
	)
	switch r.Mode {
	case GoroutineMode:
		captured, status, err = runGoroutine(body, args)
	default:
		captured, status, err = runProcess(name, args)
	}
	if err != nil {
		log.Debug("region could not run", "error", err)
		return err
	}

	ctx.StatusCode = status
	ctx.Triggered = status != 0 || len(captured) > 0
	ctx.SetText(strings.TrimSuffix(string(captured), "\n"))

	if !ctx.Triggered {
		log.Debug("region passed")
		return nil
	}
	log.Debug("region caught", "status", status, "message", ctx.Text())
	if r.OnCatch != nil {
		r.OnCatch(name, ctx)
	}
	return nil
}

// Try runs the region and reports whether it was caught. Failing to start the unit
// is fatal to the unit ctx belongs to.
func (r *Runner) Try(ctx *exc.Context, name string, args ...value.Value) bool {
	if err := r.Run(ctx, name, args...); err != nil {
		exc.Throw(ctx, exc.Errorf(exc.RuntimeError, "%v", err))
	}
	return ctx.Triggered
}

// TryCatch runs the region and then, if it was caught, calls catch in the
// supervisor with the filled context.
func (r *Runner) TryCatch(ctx *exc.Context, name string, catch func(ctx *exc.Context), args ...value.Value) bool {
	caught := r.Try(ctx, name, args...)
	if caught && catch != nil {
		catch(ctx)
	}
	return caught
}

func Try(ctx *exc.Context, name string, args ...value.Value) bool {
	return Default.Try(ctx, name, args...)
}

func TryCatch(ctx *exc.Context, name string, catch func(ctx *exc.Context), args ...value.Value) bool {
	return Default.TryCatch(ctx, name, catch, args...)
}

// capture reads at most MessageSize-1 bytes from r and discards the rest, so a
// unit that writes more than that never blocks on a full stream.
func capture(r io.Reader) ([]byte, error) {
	buf := make([]byte, exc.MessageSize-1)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("trycatch: read diagnostics: %w", err)
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, fmt.Errorf("trycatch: drain diagnostics: %w", err)
	}
	return buf[:n], nil
}
