package shell_test

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/vault/internal/config"
	"github.com/idelchi/vault/internal/shell"
)

func init() {
	color.NoColor = true
}

// scripted replays answers in order. Menu answers match an item by case-insensitive prefix.
// Like the terminal, Prompt skips answers that validate rejects.
type scripted struct {
	answers   []string
	passwords []string
	rejected  int
}

func (s *scripted) next() (string, error) {
	if len(s.answers) == 0 {
		return "", io.EOF
	}

	answer := s.answers[0]
	s.answers = s.answers[1:]

	return answer, nil
}

func (s *scripted) Select(_ string, items []string) (int, error) {
	answer, err := s.next()
	if err != nil {
		return 0, err
	}

	for i, item := range items {
		if strings.HasPrefix(strings.ToLower(item), strings.ToLower(answer)) {
			return i, nil
		}
	}

	return 0, fmt.Errorf("no item %q in %v", answer, items)
}

func (s *scripted) Prompt(_ string, validate func(string) error) (string, error) {
	for {
		answer, err := s.next()
		if err != nil {
			return "", err
		}

		if validate != nil && validate(answer) != nil {
			s.rejected++

			continue
		}

		return answer, nil
	}
}

func (s *scripted) ReadPassword(string) ([]byte, error) {
	if len(s.passwords) == 0 {
		return nil, io.EOF
	}

	password := s.passwords[0]
	s.passwords = s.passwords[1:]

	return []byte(password), nil
}

func run(t *testing.T, ui *scripted) string {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	var out bytes.Buffer

	cfg := &config.Config{Suffixes: config.Suffixes{Encrypt: ".enc"}}

	require.NoError(t, shell.New(cfg, ui, &out, log).Run())

	return out.String()
}

func TestConsoleRoundTrip(t *testing.T) {
	t.Parallel()

	container := filepath.Join(t.TempDir(), "note.enc")

	ui := &scripted{
		answers: []string{
			"encrypt", container, "text", "hello vault", "second line", ".",
			"decrypt", container, "print",
			"exit",
		},
		passwords: []string{"correct-horse", "correct-horse", "correct-horse"},
	}

	out := run(t, ui)

	assert.Contains(t, out, "| Salt")
	assert.Contains(t, out, container)
	assert.Contains(t, out, "Decrypted text:\nhello vault\nsecond line\n")
	assert.Contains(t, out, "Bye.")
	assert.NotContains(t, out, "Error:")
}

func TestFileRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.txt")
	container := filepath.Join(dir, "plain.enc")
	restored := filepath.Join(dir, "restored.txt")

	require.NoError(t, os.WriteFile(plain, []byte("file contents\n"), 0o600))

	ui := &scripted{
		answers: []string{
			"encrypt", container, "file", plain,
			"decrypt", container, "save", restored,
		},
		passwords: []string{"pw", "pw", "pw"},
	}

	out := run(t, ui)
	assert.NotContains(t, out, "Error:")

	data, err := os.ReadFile(restored)
	require.NoError(t, err)
	assert.Equal(t, "file contents\n", string(data))
}

func TestInvalidPathsAreAskedAgain(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.txt")
	container := filepath.Join(dir, "plain.enc")

	require.NoError(t, os.WriteFile(plain, []byte("x"), 0o600))

	ui := &scripted{
		answers: []string{
			"encrypt", "", container, "file", filepath.Join(dir, "missing.txt"), plain,
			"decrypt", dir, container, "print",
			"exit",
		},
		passwords: []string{"pw", "pw", "pw"},
	}

	out := run(t, ui)

	assert.Equal(t, 3, ui.rejected)
	assert.NotContains(t, out, "Error:")
	assert.Contains(t, out, "Decrypted text:\nx\n")
}

func TestConsoleStripsCarriageReturns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	container := filepath.Join(dir, "note.enc")
	restored := filepath.Join(dir, "note.txt")

	ui := &scripted{
		answers: []string{
			"encrypt", container, "text", "line one\r", "line two\r", ".\r",
			"decrypt", container, "save", restored,
			"exit",
		},
		passwords: []string{"pw", "pw", "pw"},
	}

	out := run(t, ui)
	assert.NotContains(t, out, "Error:")

	data, err := os.ReadFile(restored)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", string(data))
}

func TestErrorsKeepLooping(t *testing.T) {
	t.Parallel()

	container := filepath.Join(t.TempDir(), "note.enc")

	ui := &scripted{
		answers: []string{
			"encrypt", container, "text", "secret", ".",
			"decrypt", container, "print",
			"exit",
		},
		passwords: []string{"right", "right", "wrong"},
	}

	out := run(t, ui)

	assert.NotContains(t, out, "secret")
	assert.FileExists(t, container)
	assert.Contains(t, out, "Bye.")
}

func TestConfirmationMismatch(t *testing.T) {
	t.Parallel()

	container := filepath.Join(t.TempDir(), "note.enc")

	ui := &scripted{
		answers:   []string{"encrypt", container, "text", "text", ".", "exit"},
		passwords: []string{"one", "two"},
	}

	out := run(t, ui)

	assert.Contains(t, out, "Error:")
	assert.Contains(t, out, "passwords do not match")
	assert.NoFileExists(t, container)
}

func TestEndOfInputExits(t *testing.T) {
	t.Parallel()

	container := filepath.Join(t.TempDir(), "note.enc")

	// Console text ends at end of input, after which the menu sees EOF.
	ui := &scripted{
		answers:   []string{"encrypt", container, "text", "unterminated"},
		passwords: []string{"pw", "pw"},
	}

	out := run(t, ui)

	assert.NotContains(t, out, "Error:")
	assert.FileExists(t, container)
}
