package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/vault/internal/config"
	"github.com/idelchi/vault/internal/logging"
	"github.com/idelchi/vault/internal/shell"
)

// NewShellCommand creates a new cobra command for the interactive menu.
func NewShellCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Encrypt and decrypt interactively",
		Args:  cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, args []string) error {
			cfg.Shell = true

			return validate(cfg, args)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logging.New(cmd.ErrOrStderr(), cfg.Verbose, cfg.Quiet)

			return shell.New(cfg, shell.Terminal{}, cmd.OutOrStdout(), log).Run()
		},
	}
}
