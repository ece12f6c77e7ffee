package encryption

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/idelchi/vault/internal/config"
	"github.com/idelchi/vault/internal/fileutil"
)

const defaultBufferSize = 32 * 1024 // 32KB write buffer for output files

var (
	// ErrSameFile is returned when the output path resolves to the input path.
	ErrSameFile = errors.New("output would overwrite input")
	// ErrDuplicateOutput is returned when two inputs of a batch map to the same output.
	ErrDuplicateOutput = errors.New("inputs share an output path")
)

// Processor handles the encryption and decryption of files.
type Processor struct {
	// cfg contains runtime configuration options
	cfg *config.Config

	// pipeline performs the container operations
	pipeline *Pipeline

	// creds supplies the password, once per file
	creds CredentialSource

	// log receives per-file failures
	log logrus.FieldLogger

	// out receives progress lines
	out io.Writer

	// results channels processing outcomes to the printer goroutine
	results chan Result
}

// NewProcessor creates a new Processor with the given configuration.
// creds is asked for a password once per file; wrap it with CachedCredentials to prompt once.
func NewProcessor(
	cfg *config.Config,
	pipeline *Pipeline,
	creds CredentialSource,
	log logrus.FieldLogger,
	out io.Writer,
) *Processor {
	return &Processor{
		cfg:      cfg,
		pipeline: pipeline,
		creds:    creds,
		log:      log,
		out:      out,
		results:  make(chan Result, len(cfg.Files)),
	}
}

// ProcessFiles concurrently processes all files specified in the configuration.
// It encrypts or decrypts files based on the configuration settings.
// Returns the number of successfully processed files and the number of errors.
//
//nolint:cyclop,gocognit
func (p *Processor) ProcessFiles() (processed, errored int, totalSize int64, err error) {
	if err := p.checkOutputs(); err != nil {
		return 0, len(p.cfg.Files), 0, err
	}

	// A failed prompt aborts the batch before any file is touched.
	creds, release, err := Prefetch(p.creds)
	if err != nil {
		return 0, len(p.cfg.Files), 0, err
	}
	defer release()

	group := errgroup.Group{}
	group.SetLimit(p.cfg.Parallel)

	done := make(chan struct{})

	go func() {
		defer close(done)

		for result := range p.results {
			if result.Error != nil {
				errored++

				p.log.WithField("file", result.Input).WithError(result.Error).Error("processing failed")

				continue
			}

			processed++

			totalSize += result.OutputSize

			if !p.cfg.Quiet {
				fmt.Fprintf(p.out, "Processed %q -> %q\n", result.Input, result.Output)

				if !p.cfg.Decrypt {
					fmt.Fprintf(p.out, "  salt: %s\n  iv:   %s\n", result.Header.SaltString(), result.Header.IVString())
				}
			}

			if p.cfg.Delete {
				if err := os.Remove(result.Input); err != nil {
					p.log.WithField("file", result.Input).WithError(err).Error("deleting input failed")
				} else if !p.cfg.Quiet {
					fmt.Fprintf(p.out, "Deleted %q\n", result.Input)
				}
			}
		}
	}()

	for _, file := range p.cfg.Files {
		group.Go(func() error {
			outPath := p.OutputPath(file)

			header, size, err := p.processFile(file, outPath, creds)
			if err != nil {
				p.results <- Result{Input: file, Error: err}

				return err
			}

			p.results <- Result{Input: file, Output: outPath, OutputSize: size, Header: header}

			return nil
		})
	}

	err = group.Wait()

	close(p.results)

	<-done // Wait for printer to finish

	if err != nil {
		return processed, errored, totalSize, fmt.Errorf("processing files: %w", err)
	}

	return processed, errored, totalSize, nil
}

// checkOutputs rejects batches in which two inputs would be written to the same file.
func (p *Processor) checkOutputs() error {
	seen := make(map[string]string, len(p.cfg.Files))

	for _, file := range p.cfg.Files {
		out, err := filepath.Abs(p.OutputPath(file))
		if err != nil {
			return fmt.Errorf("resolving output of %q: %w", file, err)
		}

		if other, ok := seen[out]; ok {
			return fmt.Errorf("%w: %q and %q both write %q", ErrDuplicateOutput, other, file, out)
		}

		seen[out] = file
	}

	return nil
}

// processFile handles the encryption or decryption of a single file.
func (p *Processor) processFile(filename, outPath string, creds CredentialSource) (Header, int64, error) {
	if p.cfg.Decrypt {
		return p.decryptFile(filename, outPath, creds)
	}

	return p.encryptFile(filename, outPath, creds)
}

// EncryptFile encrypts the file at inPath into a container at outPath.
func (p *Processor) EncryptFile(inPath, outPath string) (Header, int64, error) {
	return p.encryptFile(inPath, outPath, p.creds)
}

func (p *Processor) encryptFile(inPath, outPath string, creds CredentialSource) (Header, int64, error) {
	inFile, info, err := openInput(inPath, outPath)
	if err != nil {
		return Header{}, 0, err
	}
	defer inFile.Close()

	return p.encryptSource(NewStreamingSource(inFile), outPath, info.ModTime(), creds)
}

// EncryptSource encrypts src into a container at outPath.
// The container only appears at outPath once encryption succeeded.
func (p *Processor) EncryptSource(src PlaintextSource, outPath string, modTime time.Time) (Header, int64, error) {
	return p.encryptSource(src, outPath, modTime, p.creds)
}

func (p *Processor) encryptSource(
	src PlaintextSource,
	outPath string,
	modTime time.Time,
	creds CredentialSource,
) (Header, int64, error) {
	var header Header

	size, err := p.writeAtomic(outPath, modTime, func(w io.Writer) error {
		var err error

		header, err = p.pipeline.Encrypt(src, w, creds)
		if err != nil {
			return fmt.Errorf("encrypting file: %w", err)
		}

		return nil
	})

	return header, size, err
}

// DecryptFile decrypts the container at inPath into outPath.
// Plaintext is streamed into a temporary file that is discarded if the final
// padding check fails.
func (p *Processor) DecryptFile(inPath, outPath string) (Header, int64, error) {
	return p.decryptFile(inPath, outPath, p.creds)
}

func (p *Processor) decryptFile(inPath, outPath string, creds CredentialSource) (Header, int64, error) {
	inFile, info, err := openInput(inPath, outPath)
	if err != nil {
		return Header{}, 0, err
	}
	defer inFile.Close()

	var header Header

	size, err := p.writeAtomic(outPath, info.ModTime(), func(w io.Writer) error {
		var err error

		header, err = p.pipeline.DecryptTo(bufio.NewReaderSize(inFile, defaultBufferSize), w, creds)
		if err != nil {
			return fmt.Errorf("decrypting file: %w", err)
		}

		return nil
	})

	return header, size, err
}

// writeAtomic runs fn against a buffered temporary file and renames it to outPath on success.
func (p *Processor) writeAtomic(outPath string, modTime time.Time, fn func(io.Writer) error) (size int64, err error) {
	tc, err := fileutil.NewTempContext(outPath)
	if err != nil {
		return 0, fmt.Errorf("preparing atomic write: %w", err)
	}

	defer tc.CleanupOnError(&err)

	buffered := bufio.NewWriterSize(tc.TmpFile, defaultBufferSize)

	if err = fn(buffered); err != nil {
		return 0, err
	}

	if err = buffered.Flush(); err != nil {
		return 0, fmt.Errorf("flushing output: %w", err)
	}

	if err = tc.Commit(); err != nil {
		return 0, err
	}

	size, err = fileutil.FinalizeOutput(outPath, p.cfg.PreserveTimestamps, modTime)
	if err != nil {
		return 0, fmt.Errorf("finalizing output: %w", err)
	}

	return size, nil
}

// OutputPath generates the output file path based on the input filename
// and the configured suffixes for encryption/decryption.
func (p *Processor) OutputPath(filename string) string {
	if p.cfg.Output != "" {
		return p.cfg.Output
	}

	ext := p.cfg.Suffixes.Encrypt

	if p.cfg.Decrypt {
		filename = strings.TrimSuffix(filename, p.cfg.Suffixes.Encrypt)
		ext = p.cfg.Suffixes.Decrypt
	}

	return filepath.Join(filepath.Dir(filename),
		filepath.Base(filename)+ext)
}

// openInput opens inPath for reading after checking it is a regular file distinct from outPath.
func openInput(inPath, outPath string) (*os.File, os.FileInfo, error) {
	inFile, err := os.Open(filepath.Clean(inPath))
	if err != nil {
		return nil, nil, fmt.Errorf("opening input file: %w", err)
	}

	info, err := inFile.Stat()
	if err != nil {
		inFile.Close()

		return nil, nil, fmt.Errorf("getting file info for %q: %w", inPath, err)
	}

	if info.IsDir() {
		inFile.Close()

		return nil, nil, fmt.Errorf("opening input file: %q is a directory", inPath)
	}

	if err := checkDistinct(inPath, outPath, info); err != nil {
		inFile.Close()

		return nil, nil, err
	}

	return inFile, info, nil
}

// checkDistinct fails when outPath names the same file as inPath,
// either by absolute path or, if outPath exists, by identity (hard links, symlinks).
func checkDistinct(inPath, outPath string, inInfo os.FileInfo) error {
	inAbs, err := filepath.Abs(inPath)
	if err != nil {
		return fmt.Errorf("resolving %q: %w", inPath, err)
	}

	outAbs, err := filepath.Abs(outPath)
	if err != nil {
		return fmt.Errorf("resolving %q: %w", outPath, err)
	}

	if inAbs == outAbs {
		return fmt.Errorf("%w: %q", ErrSameFile, inPath)
	}

	outInfo, err := os.Stat(outAbs)
	if err == nil && os.SameFile(inInfo, outInfo) {
		return fmt.Errorf("%w: %q is %q", ErrSameFile, outPath, inPath)
	}

	return nil
}
