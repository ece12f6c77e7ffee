// Package shell provides the interactive encrypt/decrypt menu.
package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/idelchi/vault/internal/config"
	"github.com/idelchi/vault/internal/encryption"
	"github.com/idelchi/vault/internal/logic"
	"github.com/idelchi/vault/internal/prompt"
)

// consoleTerminator ends console text entry when alone on a line.
const consoleTerminator = "."

var errEmptyAnswer = errors.New("an answer is required")

// UI asks the questions of the menu. Implementations return io.EOF when the user
// ends input, and keep asking until validate accepts the answer.
type UI interface {
	prompt.Reader

	// Select returns the index of the chosen item.
	Select(label string, items []string) (int, error)

	// Prompt returns a free-form answer. validate may be nil.
	Prompt(label string, validate func(string) error) (string, error)
}

var (
	menuItems        = []string{"Encrypt", "Decrypt", "Exit"}
	sourceItems      = []string{"Text (console)", "File"}
	destinationItems = []string{"Print to screen", "Save to a file"}
)

// Shell runs the interactive menu until the user exits or input ends.
type Shell struct {
	cfg      *config.Config
	ui       UI
	out      io.Writer
	pipeline *encryption.Pipeline
	log      logrus.FieldLogger

	title *color.Color
	fail  *color.Color
}

// New creates a Shell asking its questions through ui and writing results to out.
// Passwords come from cfg when set and from ui otherwise.
func New(cfg *config.Config, ui UI, out io.Writer, log logrus.FieldLogger) *Shell {
	return &Shell{
		cfg:      cfg,
		ui:       ui,
		out:      out,
		pipeline: encryption.New(encryption.WithLogger(log)),
		log:      log,
		title:    color.New(color.FgCyan, color.Bold),
		fail:     color.New(color.FgRed),
	}
}

// Run shows the menu repeatedly. Failed operations are reported and the loop continues.
func (s *Shell) Run() error {
	s.title.Fprintln(s.out, "vault: password-based file encryption")

	for {
		choice, err := s.ui.Select("Choose an option", menuItems)
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return err
		}

		switch choice {
		case 0:
			err = s.encrypt()
		case 1:
			err = s.decrypt()
		default:
			fmt.Fprintln(s.out, "Bye.")

			return nil
		}

		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			s.log.WithError(err).Debug("shell operation failed")
			s.fail.Fprintf(s.out, "Error: %v\n", err)
		}
	}
}

func (s *Shell) encrypt() error {
	output, err := s.ask("Output file", notEmpty)
	if err != nil {
		return err
	}

	source, err := s.ui.Select("Source", sourceItems)
	if err != nil {
		return err
	}

	proc := encryption.NewProcessor(s.cfg, s.pipeline, logic.Credentials(s.cfg, s.ui, true), s.log, s.out)

	var (
		header encryption.Header
		size   int64
	)

	if source == 0 {
		text, err := s.readConsole()
		if err != nil {
			return err
		}

		header, size, err = proc.EncryptSource(encryption.BytesSource(text), output, time.Time{})
		if err != nil {
			return err
		}
	} else {
		input, err := s.ask("Input file", existingFile)
		if err != nil {
			return err
		}

		header, size, err = proc.EncryptFile(input, output)
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(s.out)
	logic.Report(s.out, header, output)
	fmt.Fprintf(s.out, "Wrote %s\n", humanize.IBytes(uint64(max(0, size)))) //nolint:gosec // non-negative

	return nil
}

func (s *Shell) decrypt() error {
	input, err := s.ask("Encrypted file", existingFile)
	if err != nil {
		return err
	}

	destination, err := s.ui.Select("Destination", destinationItems)
	if err != nil {
		return err
	}

	creds := logic.Credentials(s.cfg, s.ui, false)

	if destination == 1 {
		output, err := s.ask("Output file", notEmpty)
		if err != nil {
			return err
		}

		proc := encryption.NewProcessor(s.cfg, s.pipeline, creds, s.log, s.out)

		_, size, err := proc.DecryptFile(input, output)
		if err != nil {
			return err
		}

		fmt.Fprintf(s.out, "Decrypted %q -> %q (%s)\n", input, output, humanize.IBytes(uint64(max(0, size)))) //nolint:gosec

		return nil
	}

	file, err := os.Open(filepath.Clean(input))
	if err != nil {
		return fmt.Errorf("opening input file: %w", err)
	}
	defer file.Close()

	plaintext, err := s.pipeline.Decrypt(file, creds)
	if err != nil {
		return err
	}

	s.title.Fprintln(s.out, "Decrypted text:")
	fmt.Fprintln(s.out, string(plaintext))

	return nil
}

// ask returns the trimmed answer to a question that validate accepted.
func (s *Shell) ask(label string, validate func(string) error) (string, error) {
	answer, err := s.ui.Prompt(label, validate)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(answer), nil
}

// readConsole collects lines until one holds only the terminator or input ends.
// Line endings are normalized to "\n".
func (s *Shell) readConsole() ([]byte, error) {
	fmt.Fprintf(s.out, "Enter text, finish with a line containing only %q:\n", consoleTerminator)

	var lines []string

	for {
		line, err := s.ui.Prompt(">", nil)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("reading console input: %w", err)
		}

		line = strings.TrimRight(line, "\r")
		if line == consoleTerminator {
			break
		}

		lines = append(lines, line)
	}

	return []byte(strings.Join(lines, "\n")), nil
}

func notEmpty(answer string) error {
	if strings.TrimSpace(answer) == "" {
		return errEmptyAnswer
	}

	return nil
}

// existingFile accepts paths naming a regular file.
func existingFile(answer string) error {
	if err := notEmpty(answer); err != nil {
		return err
	}

	info, err := os.Stat(strings.TrimSpace(answer))
	if err != nil {
		return fmt.Errorf("input file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("input file: %q is a directory", answer)
	}

	return nil
}
