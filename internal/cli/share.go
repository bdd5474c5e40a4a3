package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paletteview/paletteview-server/internal/domain"
	"github.com/paletteview/paletteview-server/internal/sharecode"
)

func newShareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Encode and decode palette share codes",
	}
	cmd.AddCommand(newShareEncodeCmd(), newShareDecodeCmd())
	return cmd
}

func newShareEncodeCmd() *cobra.Command {
	var p domain.Palette

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the share code of a palette",
		Long: `Print the customData code that opens a palette in a view link.

Example:
  palettectl share encode --name Dusk --bg '#1d1d1d' --colors '#ff0000,#00ff00'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			code, err := sharecode.Encode(p)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), code)
			return nil
		},
	}

	cmd.Flags().StringVar(&p.Name, "name", "", "Palette name")
	cmd.Flags().StringVar(&p.BgColor, "bg", "", "Background color")
	cmd.Flags().StringSliceVar(&p.Colors, "colors", nil, "Comma-separated swatch colors")
	_ = cmd.MarkFlagRequired("colors")
	return cmd
}

func newShareDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <code>",
		Short: "Print the palette inside a share code as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := sharecode.Decode(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		},
	}
}
