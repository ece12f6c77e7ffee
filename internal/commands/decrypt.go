package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/vault/internal/config"
	"github.com/idelchi/vault/internal/logic"
)

// NewDecryptCommand creates a new cobra command for the decrypt subcommand.
func NewDecryptCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "decrypt [flags] files...",
		Aliases: []string{"dec"},
		Short:   "Decrypt files",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: func(_ *cobra.Command, args []string) error {
			cfg.Decrypt = true

			return validate(cfg, args)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.Run(cfg, streams(cmd))
		},
	}

	outputFlags(cmd)
	cmd.Flags().Bool("print", false, "Write the decrypted content to standard output instead of files")

	return cmd
}
