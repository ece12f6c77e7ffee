// Package config holds the runtime configuration of vault.
package config

import (
	"errors"
	"fmt"

	"github.com/idelchi/gogen/pkg/validator"
)

// ErrUsage indicates an error in command-line usage or configuration.
var ErrUsage = errors.New("usage error")

// Suffixes controls how output file names are derived from input names.
type Suffixes struct {
	// Encrypt is appended to encrypted files and stripped again on decryption
	Encrypt string `mapstructure:"encrypt-ext" validate:"required" label:"--encrypt-ext"`

	// Decrypt is appended to decrypted files after stripping Encrypt
	Decrypt string `mapstructure:"decrypt-ext" label:"--decrypt-ext"`
}

// Config is populated from flags and VAULT_* environment variables.
type Config struct {
	// Show prints the configuration and exits
	Show bool `mapstructure:"show"`

	// Password sources, at most one may be set
	Password     string `mapstructure:"password"      validate:"exclusive=PasswordFile" label:"--password"      mask:"filled"`
	PasswordFile string `mapstructure:"password-file" validate:"omitempty,file"          label:"--password-file"`

	// Output controls
	Verbose bool `mapstructure:"verbose" validate:"exclusive=Quiet" label:"--verbose"`
	Quiet   bool `mapstructure:"quiet"   label:"--quiet"`
	Stats   bool `mapstructure:"stats"`

	// Batch processing
	Parallel           int  `mapstructure:"parallel"            validate:"min=1" label:"--parallel"`
	Delete             bool `mapstructure:"delete"`
	PreserveTimestamps bool `mapstructure:"preserve-timestamps"`

	Suffixes Suffixes `mapstructure:",squash"`

	// Single-output controls
	Output string `mapstructure:"output" validate:"exclusive=Print" label:"--output"`
	Print  bool   `mapstructure:"print"  label:"--print"`

	// Set by the subcommand
	Decrypt bool `mapstructure:"-"`
	Shell   bool `mapstructure:"-"`

	// Positional arguments
	Files []string `mapstructure:"-"`
}

// Console reports whether plaintext is read from standard input instead of files.
func (c Config) Console() bool {
	return !c.Shell && !c.Decrypt && len(c.Files) == 0
}

// Display returns the value of the Show field.
func (c Config) Display() bool {
	return c.Show
}

// Validate checks config against the struct tags, then c against the rules spanning
// several flags and the positional arguments.
// It returns a wrapped ErrUsage if any rule is violated.
func (c Config) Validate(config any) error {
	validator := validator.NewValidator()

	if err := registerExclusive(validator); err != nil {
		return fmt.Errorf("registering exclusive: %w", err)
	}

	errs := validator.Validate(config)

	switch {
	case len(errs) == 1:
		return fmt.Errorf("%w: %w", ErrUsage, errs[0])
	case len(errs) > 1:
		return fmt.Errorf("%ws:\n%w", ErrUsage, errors.Join(errs...))
	}

	if err := c.crossCheck(); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	return nil
}

func (c Config) crossCheck() error {
	switch {
	case c.Output != "" && len(c.Files) > 1:
		return errors.New("--output can only be used with a single input")
	case c.Print && !c.Decrypt:
		return errors.New("--print is only valid when decrypting")
	case c.Decrypt && len(c.Files) == 0:
		return errors.New("decrypt: at least one encrypted file is required")
	case c.Console() && c.Output == "":
		return errors.New("encrypt: --output is required when reading from the console")
	}

	return nil
}
