// Package logic implements the core business logic for the encryption/decryption.
package logic

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/idelchi/vault/internal/config"
	"github.com/idelchi/vault/internal/encryption"
	"github.com/idelchi/vault/internal/logging"
	"github.com/idelchi/vault/internal/prompt"
)

// Streams are the process streams a run reads from and writes to.
type Streams struct {
	// In supplies console plaintext
	In io.Reader

	// Out receives results and printed plaintext
	Out io.Writer

	// Err receives logs, prompts and statistics
	Err io.Writer

	// Prompt reads passwords when none is configured
	Prompt prompt.Reader
}

// Run is the main logic of the application.
func Run(cfg *config.Config, streams Streams) error {
	start := time.Now()

	log := logging.New(streams.Err, cfg.Verbose, cfg.Quiet)

	creds := Credentials(cfg, streams.Prompt, !cfg.Decrypt)
	pipeline := encryption.New(encryption.WithLogger(log))

	var (
		processed, errored int
		totalSize          int64
		err                error
	)

	switch {
	case cfg.Console():
		processed, totalSize, err = encryptConsole(cfg, pipeline, creds, log, streams)
	case cfg.Print:
		processed, errored, err = printPlaintext(cfg, pipeline, creds, log, streams.Out)
	default:
		proc := encryption.NewProcessor(cfg, pipeline, creds, log, streams.Out)

		processed, errored, totalSize, err = proc.ProcessFiles()
	}

	if err != nil && cfg.Console() {
		errored++
	}

	if cfg.Stats {
		printStats(streams.Err, processed, errored, totalSize, time.Since(start))
	}

	if err != nil {
		return fmt.Errorf("running logic: %w", err)
	}

	return nil
}

// Credentials selects the password source: --password, then --password-file, then an
// interactive prompt. The result asks at most once per run.
func Credentials(cfg *config.Config, reader prompt.Reader, confirm bool) encryption.CredentialSource {
	switch {
	case cfg.Password != "":
		return encryption.StaticPassword(cfg.Password)
	case cfg.PasswordFile != "":
		return encryption.CachedCredentials(encryption.PasswordFunc(func() ([]byte, error) {
			return readPasswordFile(cfg.PasswordFile)
		}))
	case reader == nil:
		return nil
	}

	return encryption.CachedCredentials(encryption.PasswordFunc(func() ([]byte, error) {
		if confirm {
			return prompt.Confirmed(reader, "Password: ", "Confirm password: ")
		}

		return reader.ReadPassword("Password: ")
	}))
}

// readPasswordFile returns the first line of path without its line ending.
func readPasswordFile(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading password file: %w", err)
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		clear(data[i:])
		data = data[:i]
	}

	return data, nil
}

// encryptConsole reads standard input to its end and encrypts it into cfg.Output.
func encryptConsole(
	cfg *config.Config,
	pipeline *encryption.Pipeline,
	creds encryption.CredentialSource,
	log logrus.FieldLogger,
	streams Streams,
) (int, int64, error) {
	src, err := encryption.NewBufferedSource(streams.In)
	if err != nil {
		return 0, 0, err
	}

	proc := encryption.NewProcessor(cfg, pipeline, creds, log, streams.Out)

	header, size, err := proc.EncryptSource(src, cfg.Output, time.Time{})
	if err != nil {
		return 0, 0, err
	}

	if !cfg.Quiet {
		Report(streams.Out, header, cfg.Output)
	}

	return 1, size, nil
}

// printPlaintext decrypts every file fully in memory and writes the plaintext to out.
// Nothing is written for a file whose padding check fails.
func printPlaintext(
	cfg *config.Config,
	pipeline *encryption.Pipeline,
	creds encryption.CredentialSource,
	log logrus.FieldLogger,
	out io.Writer,
) (processed, errored int, err error) {
	creds, release, err := encryption.Prefetch(creds)
	if err != nil {
		return 0, len(cfg.Files), err
	}
	defer release()

	for _, file := range cfg.Files {
		plaintext, decErr := decryptFile(pipeline, file, creds)
		if decErr != nil {
			errored++

			log.WithField("file", file).WithError(decErr).Error("processing failed")

			if err == nil {
				err = decErr
			}

			continue
		}

		if _, werr := out.Write(plaintext); werr != nil {
			return processed, errored + 1, fmt.Errorf("writing plaintext: %w", werr)
		}

		processed++
	}

	if err != nil {
		return processed, errored, fmt.Errorf("printing files: %w", err)
	}

	return processed, errored, nil
}

func decryptFile(pipeline *encryption.Pipeline, path string, creds encryption.CredentialSource) ([]byte, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("opening input file: %w", err)
	}
	defer file.Close()

	plaintext, err := pipeline.Decrypt(file, creds)
	if err != nil {
		return nil, fmt.Errorf("decrypting %q: %w", path, err)
	}

	return plaintext, nil
}

func printStats(w io.Writer, processed, errored int, totalSize int64, duration time.Duration) {
	fmt.Fprintf(w, "\nStats\n")
	fmt.Fprintf(w, "  Processed: %d\n", processed)
	fmt.Fprintf(w, "  Errors:    %d\n", errored)
	//nolint:gosec // totalSize is always non-negative (sum of file sizes)
	fmt.Fprintf(w, "  Size:      %s\n", humanize.IBytes(uint64(max(0, totalSize))))
	fmt.Fprintf(w, "  Duration:  %s\n", duration.Round(time.Millisecond))
}
