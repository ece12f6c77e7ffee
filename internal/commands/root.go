package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"

	"github.com/idelchi/vault/internal/config"
)

// NewRootCommand creates the root command with common configuration.
// Flags are bound to viper together with their VAULT_* environment variables.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	root := cobraext.NewDefaultRootCommand(version)

	root.Use = "vault [flags] command [flags]"
	root.Short = "Password-based file encryption utility"
	root.Long = `A file encryption utility deriving AES-256 keys from a password (PBKDF2-HMAC-SHA256).
Encrypted files hold a random salt and IV followed by AES-256-CBC ciphertext.
Provides commands for encryption, decryption and an interactive shell.`

	root.PersistentFlags().BoolP("show", "s", false, "Show the configuration and exit")

	root.PersistentFlags().BoolP("verbose", "v", false, "Log debug details")
	root.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-error output")
	root.PersistentFlags().Bool("stats", false, "Print statistics when done")
	root.PersistentFlags().IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")

	root.PersistentFlags().StringP("password", "p", "", "Password, prompted for when neither this nor --password-file is set")
	root.PersistentFlags().StringP("password-file", "f", "", "Path to a file whose first line is the password")

	root.PersistentFlags().String("encrypt-ext", ".enc", "Suffix to append to encrypted files")
	root.PersistentFlags().
		String("decrypt-ext", "", "Suffix to append to decrypted files, after stripping the encrypted suffix")

	root.AddCommand(NewEncryptCommand(cfg), NewDecryptCommand(cfg), NewShellCommand(cfg))

	return root
}

// outputFlags registers the flags shared by encrypt and decrypt.
func outputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Output file, only valid with a single input")
	cmd.Flags().BoolP("delete", "d", false, "Delete the original file after successful encryption/decryption")
	cmd.Flags().Bool("preserve-timestamps", false, "Copy the modification time of the input to the output")
}
