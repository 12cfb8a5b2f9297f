package exc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"pyrt/internal/value"
)

// MessageSize is the size of the captured message buffer, terminator included.
const MessageSize = 1024

// wireSize is the encoded size of a Context: int32 flag, message, int32 status.
const wireSize = 4 + MessageSize + 4

// Unit is a running unit of execution: where its diagnostics go and how it ends.
type Unit interface {
	Diagnostics() io.Writer
	Exit(code int)
}

type processUnit struct{}

func (processUnit) Diagnostics() io.Writer { return os.Stderr }
func (processUnit) Exit(code int)          { os.Exit(code) }

// Process is the unit of the whole program.
var Process Unit = processUnit{}

// Context is the try/catch record shared by a supervisor and its protected unit.
// Message is zero-terminated; longer text is silently truncated.
type Context struct {
	Triggered  bool
	Message    [MessageSize]byte
	StatusCode int

	unit Unit
}

func NewContext() *Context {
	return &Context{}
}

// Bind returns a fresh context for code running inside u.
func (c *Context) Bind(u Unit) *Context {
	return &Context{unit: u}
}

// Unit returns the running unit the context belongs to.
func (c *Context) Unit() Unit {
	if c == nil || c.unit == nil {
		return Process
	}
	return c.unit
}

// Diagnostics is the diagnostic stream of the context's unit.
func (c *Context) Diagnostics() io.Writer {
	return c.Unit().Diagnostics()
}

// Text returns the message up to its terminator.
func (c *Context) Text() string {
	if i := bytes.IndexByte(c.Message[:], 0); i >= 0 {
		return string(c.Message[:i])
	}
	return string(c.Message[:])
}

// SetText stores s, truncated to MessageSize-1 bytes, and zero-fills the rest.
func (c *Context) SetText(s string) {
	n := copy(c.Message[:MessageSize-1], s)
	clear(c.Message[n:])
}

// Must returns v, or raises err inside the context's unit.
func (c *Context) Must(v value.Value, err error) value.Value {
	if err != nil {
		Throw(c, err)
	}
	return v
}

// Check raises err inside the context's unit when it is non-nil.
func (c *Context) Check(err error) {
	if err != nil {
		Throw(c, err)
	}
}

// Clear resets the triggered flag and the message buffer.
func Clear(c *Context) {
	clear(c.Message[:])
	c.Triggered = false
}

// Print writes the captured message of a triggered context to w.
func Print(c *Context, w io.Writer) {
	if c.Triggered && c.Message[0] != 0 {
		fmt.Fprintln(w, c.Text())
	}
}

// ValueOf materializes the captured message as a String, or None when nothing was
// captured.
func ValueOf(c *Context) value.Value {
	if c.Triggered && c.Message[0] != 0 {
		return value.NewString(c.Text())
	}
	return value.None
}

// MarshalBinary encodes exactly the three record fields, little endian.
func (c *Context) MarshalBinary() ([]byte, error) {
	buf := make([]byte, wireSize)
	if c.Triggered {
		binary.LittleEndian.PutUint32(buf[0:4], 1)
	}
	copy(buf[4:4+MessageSize], c.Message[:])
	buf[4+MessageSize-1] = 0
	binary.LittleEndian.PutUint32(buf[4+MessageSize:], uint32(int32(c.StatusCode)))
	return buf, nil
}

func (c *Context) UnmarshalBinary(data []byte) error {
	if len(data) != wireSize {
		return fmt.Errorf("exc: context record is %d bytes, want %d", len(data), wireSize)
	}
	c.Triggered = binary.LittleEndian.Uint32(data[0:4]) != 0
	copy(c.Message[:], data[4:4+MessageSize])
	c.Message[MessageSize-1] = 0
	c.StatusCode = int(int32(binary.LittleEndian.Uint32(data[4+MessageSize:])))
	return nil
}
