// Package commands provides the command-line interface for the vault tool.
//
// It implements commands for:
//   - encryption
//   - decryption
//   - the interactive shell
//
// The package handles command-line parsing, configuration validation,
// and environment variable binding through cobra and viper.
// Passing --show prints the resolved configuration, with the password masked, and exits.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"

	"github.com/idelchi/vault/internal/config"
	"github.com/idelchi/vault/internal/logic"
	"github.com/idelchi/vault/internal/prompt"
)

// validate records the positional args in cfg.Files, loads the bound flags and
// VAULT_* variables into cfg and validates the result.
func validate(cfg *config.Config, args []string) error {
	cfg.Files = args

	return cobraext.Validate(cfg, cfg) //nolint:wrapcheck
}

// streams connects a run to the process.
func streams(cmd *cobra.Command) logic.Streams {
	return logic.Streams{
		In:     cmd.InOrStdin(),
		Out:    cmd.OutOrStdout(),
		Err:    cmd.ErrOrStderr(),
		Prompt: prompt.Terminal{Out: cmd.ErrOrStderr()},
	}
}
