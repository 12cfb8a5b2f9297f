// Package console is the text input and output used by translated scripts.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"pyrt/internal/value"
)

// Print writes items rendered structurally, separated by sep and followed by end.
// A sep or end that is not a String falls back to " " and "\n". Items stay owned by
// the caller.
func Print(w io.Writer, items []value.Value, sep, end value.Value) error {
	separator, terminator := " ", "\n"
	if sep.Kind() == value.StringKind {
		separator = sep.Str()
	}
	if end.Kind() == value.StringKind {
		terminator = end.Str()
	}

	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString(separator)
		}
		b.WriteString(item.Inspect())
	}
	b.WriteString(terminator)
	_, err := io.WriteString(w, b.String())
	return err
}

// Println is Print with the default separator and terminator.
func Println(w io.Writer, items ...value.Value) error {
	return Print(w, items, value.None, value.None)
}

// LineReader reads one line per call, without its line ending. It returns io.EOF
// when input is exhausted.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// NewLineReader returns a line-editing reader when in is a terminal and a plain
// buffered reader otherwise.
func NewLineReader(in *os.File, out io.Writer) LineReader {
	if isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd()) {
		ln := liner.NewLiner()
		ln.SetCtrlCAborts(true)
		return &terminalReader{ln: ln}
	}
	return NewBufferedReader(in, out)
}

type terminalReader struct {
	ln *liner.State
}

func (r *terminalReader) ReadLine(prompt string) (string, error) {
	line, err := r.ln.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	if line != "" {
		r.ln.AppendHistory(line)
	}
	return line, nil
}

func (r *terminalReader) Close() error { return r.ln.Close() }

type bufferedReader struct {
	in  *bufio.Reader
	out io.Writer
}

// NewBufferedReader reads lines from in and writes prompts to out.
func NewBufferedReader(in io.Reader, out io.Writer) LineReader {
	return &bufferedReader{in: bufio.NewReader(in), out: out}
}

func (r *bufferedReader) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		if _, err := fmt.Fprint(r.out, prompt); err != nil {
			return "", err
		}
	}
	line, err := r.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

func (r *bufferedReader) Close() error { return nil }

// Input prompts with the to_string form of prompt and returns the next line as a
// String. At end of input the result is the empty String.
func Input(r LineReader, prompt value.Value) (value.Value, error) {
	text := ""
	if !prompt.IsNone() {
		text = prompt.String()
	}
	line, err := r.ReadLine(text)
	if errors.Is(err, io.EOF) {
		return value.NewString(""), nil
	}
	if err != nil {
		return value.None, fmt.Errorf("console: read line: %w", err)
	}
	return value.NewString(line), nil
}
