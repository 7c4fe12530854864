// Package prompt reads passwords and confirmations from the terminal.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/erikgeiser/promptkit/confirmation"
	"golang.org/x/term"
)

// Reader prompts on a single input stream. Several answers can be read
// from the same Reader without losing buffered input.
type Reader struct {
	in  io.Reader
	buf *bufio.Reader
}

func NewReader(in io.Reader) *Reader {
	return &Reader{in: in, buf: bufio.NewReader(in)}
}

// Password prompts for a secret. Input is hidden when the stream is a
// terminal, otherwise the value is read as a plain line.
func (r *Reader) Password(out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)

	if f, ok := r.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return readLine(r.buf)
}

// Line prompts for a single line of input.
func (r *Reader) Line(out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	return readLine(r.buf)
}

// Password prompts for a secret on stdin.
func Password(out io.Writer, label string) (string, error) {
	return NewReader(os.Stdin).Password(out, label)
}

// Line prompts for a single line of input.
func Line(out io.Writer, in io.Reader, label string) (string, error) {
	return NewReader(in).Line(out, label)
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Confirm asks a yes/no question, defaulting to no.
func Confirm(question string) (bool, error) {
	return confirmation.New(question, confirmation.No).RunPrompt()
}
