// Package cli implements palettectl, the command line companion to the
// paletteview server.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the palettectl command tree.
func NewRootCmd() *cobra.Command {
	opts := &storeOptions{}

	root := &cobra.Command{
		Use:   "palettectl",
		Short: "Inspect palettes, share codes and renders",
		Long: `palettectl works with the same palettes the paletteview server serves.

It reads the built-in palettes and the custom palettes saved in the server's
data directory, encodes and decodes share links, and renders palettes to PNG
without a running server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.backend, "storage-backend", "memory", "Storage backend: badger, sqlite or memory")
	root.PersistentFlags().StringVar(&opts.dataPath, "data-path", "", "Server data directory (badger and sqlite)")
	root.PersistentFlags().StringVar(&opts.bundledPath, "bundled-palettes", "", "JSON file replacing the built-in palettes")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	root.AddCommand(newStylesCmd())
	root.AddCommand(newPalettesCmd(opts))
	root.AddCommand(newShareCmd())
	root.AddCommand(newRenderCmd(opts))

	return root
}

// Execute runs palettectl and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
