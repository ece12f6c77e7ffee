// Command vault encrypts and decrypts files with a password.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/idelchi/gogen/pkg/cobraext"

	"github.com/idelchi/vault/internal/commands"
	"github.com/idelchi/vault/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "unknown - unofficial & generated by unknown"

func main() {
	cfg := &config.Config{}

	if err := commands.NewRootCommand(cfg, version).Execute(); err != nil {
		if errors.Is(err, cobraext.ErrExitGracefully) {
			return
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
