// Package prompt reads passwords from the terminal without echo.
package prompt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrMismatch is returned when a password and its confirmation differ.
var ErrMismatch = errors.New("passwords do not match")

// ErrNoTerminal is returned when no terminal is available to prompt on.
var ErrNoTerminal = errors.New("no terminal available for password prompt")

// Reader reads a single secret after showing a prompt.
type Reader interface {
	ReadPassword(prompt string) ([]byte, error)
}

// Terminal prompts on standard input when it is a terminal, and on /dev/tty otherwise,
// so that piped plaintext and an interactive password can be combined.
type Terminal struct {
	// Out receives the prompt text
	Out io.Writer
}

// ReadPassword shows prompt and reads a line with echo disabled.
func (t Terminal) ReadPassword(prompt string) ([]byte, error) {
	out := t.Out
	if out == nil {
		out = os.Stderr
	}

	fmt.Fprint(out, prompt)

	fd := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in int

	if !term.IsTerminal(fd) {
		tty, err := os.Open("/dev/tty")
		if err != nil {
			fmt.Fprintln(out)

			return nil, fmt.Errorf("%w: standard input is not a terminal and /dev/tty is unavailable", ErrNoTerminal)
		}
		defer tty.Close()

		fd = int(tty.Fd()) //nolint:gosec // file descriptors fit in int
	}

	password, err := term.ReadPassword(fd)

	fmt.Fprintln(out)

	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}

	return password, nil
}

// Confirmed asks twice and returns the password only if both answers match.
func Confirmed(r Reader, prompt, confirmPrompt string) ([]byte, error) {
	password, err := r.ReadPassword(prompt)
	if err != nil {
		return nil, err
	}

	confirm, err := r.ReadPassword(confirmPrompt)
	if err != nil {
		clear(password)

		return nil, err
	}
	defer clear(confirm)

	if !bytes.Equal(password, confirm) {
		clear(password)

		return nil, ErrMismatch
	}

	return password, nil
}

// Static is a Reader that replays fixed answers in order, for scripted input.
type Static struct {
	Answers []string
	next    int
}

// ReadPassword returns the next answer.
func (s *Static) ReadPassword(string) ([]byte, error) {
	if s.next >= len(s.Answers) {
		return nil, io.EOF
	}

	answer := s.Answers[s.next]
	s.next++

	return []byte(answer), nil
}
