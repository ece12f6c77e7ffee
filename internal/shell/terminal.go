package shell

import (
	"errors"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
)

// Terminal is the interactive UI, drawing arrow-key menus and masked prompts.
// Nil streams default to the process' standard input and output.
type Terminal struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

// Select shows items as a menu and returns the index of the chosen one.
func (t Terminal) Select(label string, items []string) (int, error) {
	sel := promptui.Select{
		Label:    label,
		Items:    items,
		HideHelp: true,
		Stdin:    t.Stdin,
		Stdout:   t.Stdout,
	}

	index, _, err := sel.Run()

	return index, eof(err)
}

// Prompt reads a line, re-asking while validate rejects it.
func (t Terminal) Prompt(label string, validate func(string) error) (string, error) {
	p := promptui.Prompt{
		Label:    label,
		Validate: validate,
		Stdin:    t.Stdin,
		Stdout:   t.Stdout,
	}

	answer, err := p.Run()

	return answer, eof(err)
}

// ReadPassword reads a masked line.
func (t Terminal) ReadPassword(label string) ([]byte, error) {
	p := promptui.Prompt{
		Label:       strings.TrimSuffix(strings.TrimSpace(label), ":"),
		Mask:        '*',
		HideEntered: true,
		Validate:    notEmpty,
		Stdin:       t.Stdin,
		Stdout:      t.Stdout,
	}

	password, err := p.Run()
	if err != nil {
		return nil, eof(err)
	}

	return []byte(password), nil
}

// eof maps Ctrl-D and Ctrl-C to io.EOF, which ends the shell.
func eof(err error) error {
	if errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrInterrupt) {
		return io.EOF
	}

	return err
}
