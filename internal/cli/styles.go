package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/paletteview/paletteview-server/internal/domain"
	"github.com/paletteview/paletteview-server/internal/style"
)

func newStylesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "styles",
		Short: "List swatch styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, s := range domain.Styles() {
				marker := ""
				if s == domain.DefaultStyle() {
					marker = " (default)"
				}
				fmt.Fprintf(out, "%s%s\n", s, marker)
			}
			return nil
		},
	}
	cmd.AddCommand(newStyleAttrsCmd())
	return cmd
}

func newStyleAttrsCmd() *cobra.Command {
	var (
		color string
		index int
		size  int
	)

	cmd := &cobra.Command{
		Use:   "attrs <style>",
		Short: "Print the CSS of one swatch drawn in a style",
		Long: `Print the CSS declarations of one swatch.

Examples:
  palettectl styles attrs circles --color '#ff0000'
  palettectl styles attrs big-pills --size 3 --index 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var indexPtr, sizePtr *int
			if cmd.Flags().Changed("index") {
				indexPtr = &index
			}
			if cmd.Flags().Changed("size") {
				sizePtr = &size
			}

			css := style.Resolve(domain.Style(args[0]), color, indexPtr, sizePtr).CSS()
			if len(css) == 0 {
				return fmt.Errorf("unknown style %q", args[0])
			}

			props := make([]string, 0, len(css))
			for p := range css {
				props = append(props, p)
			}
			sort.Strings(props)
			for _, p := range props {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s;\n", p, css[p])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "Swatch color")
	cmd.Flags().IntVar(&index, "index", 0, "Swatch position")
	cmd.Flags().IntVar(&size, "size", 0, "Palette size hint; 0 means "+strconv.Itoa(style.DefaultSize))
	return cmd
}
