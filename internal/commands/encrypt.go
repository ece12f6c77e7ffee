package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/vault/internal/config"
	"github.com/idelchi/vault/internal/logic"
)

// NewEncryptCommand creates a new cobra command for the encrypt subcommand.
func NewEncryptCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "encrypt [flags] [files...]",
		Aliases: []string{"enc"},
		Short:   "Encrypt files, or standard input when no files are given",
		Args:    cobra.ArbitraryArgs,
		PreRunE: func(_ *cobra.Command, args []string) error {
			return validate(cfg, args)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.Run(cfg, streams(cmd))
		},
	}

	outputFlags(cmd)

	return cmd
}
