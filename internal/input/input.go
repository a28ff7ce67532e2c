// Package input reads lines of grammar and parser input from the CLI or any
// other stream.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Reader reads trimmed lines of input one at a time.
type Reader interface {
	// ReadLine blocks until a line is read. If at end of input, it returns
	// io.EOF.
	ReadLine() (string, error)

	// AllowBlank sets whether ReadLine may return a blank line.
	AllowBlank(allow bool)

	// SetPrompt sets the text shown before each line is read.
	SetPrompt(p string)

	Close() error
}

// DirectReader reads lines from any generic input stream directly. It does
// not sanitize the input of control and escape sequences.
//
// DirectReader should not be used directly; instead, create one with
// [NewDirectReader].
type DirectReader struct {
	r             *bufio.Reader
	out           io.Writer
	prompt        string
	blanksAllowed bool
}

// InteractiveReader reads lines from stdin using a go implementation of the
// GNU Readline library, which keeps input clear of editing escape sequences
// and enables history. It should in general only be used when directly
// connected to a TTY.
//
// InteractiveReader should not be used directly; instead, create one with
// [NewInteractiveReader].
type InteractiveReader struct {
	rl            *readline.Instance
	blanksAllowed bool
}

// NewDirectReader creates a DirectReader on r. Prompts are written to out; if
// out is nil, no prompt is ever shown.
func NewDirectReader(r io.Reader, out io.Writer) *DirectReader {
	return &DirectReader{
		r:   bufio.NewReader(r),
		out: out,
	}
}

// NewInteractiveReader creates an InteractiveReader and initializes readline.
// The returned InteractiveReader must have Close() called on it before
// disposal to properly teardown readline resources.
func NewInteractiveReader(prompt string) (*InteractiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveReader{rl: rl}, nil
}

// Close does nothing; it exists so DirectReader implements Reader.
func (dr *DirectReader) Close() error {
	return nil
}

// Close cleans up readline resources.
func (ir *InteractiveReader) Close() error {
	return ir.rl.Close()
}

// ReadLine reads the next line. Unless blanks are allowed, lines that are
// empty or whitespace-only are skipped.
//
// If at end of input, the returned string will be empty and error will be
// io.EOF. A final line with no newline is returned before io.EOF is.
func (dr *DirectReader) ReadLine() (string, error) {
	for {
		if dr.prompt != "" && dr.out != nil {
			if _, err := io.WriteString(dr.out, dr.prompt); err != nil {
				return "", fmt.Errorf("write prompt: %w", err)
			}
		}

		line, err := dr.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)
		if line != "" || dr.blanksAllowed {
			return line, nil
		}
	}
}

// ReadLine reads the next line from the terminal. Unless blanks are allowed,
// lines that are empty or whitespace-only are skipped. Ctrl-C is reported as
// io.EOF.
func (ir *InteractiveReader) ReadLine() (string, error) {
	for {
		line, err := ir.rl.Readline()
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)
		if line != "" || ir.blanksAllowed {
			return line, nil
		}
	}
}

// AllowBlank sets whether blank lines are returned. By default they are not.
func (dr *DirectReader) AllowBlank(allow bool) {
	dr.blanksAllowed = allow
}

// AllowBlank sets whether blank lines are returned. By default they are not.
func (ir *InteractiveReader) AllowBlank(allow bool) {
	ir.blanksAllowed = allow
}

func (dr *DirectReader) SetPrompt(p string) {
	dr.prompt = p
}

func (ir *InteractiveReader) SetPrompt(p string) {
	ir.rl.SetPrompt(p)
}
