package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/paletteview/paletteview-server/internal/search"
	"github.com/paletteview/paletteview-server/internal/service"
)

func newPalettesCmd(opts *storeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "palettes",
		Short: "Inspect the palette collection",
	}
	cmd.AddCommand(newPalettesListCmd(opts), newPalettesSearchCmd(opts))
	return cmd
}

func newPalettesListCmd(opts *storeOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List built-in and saved palettes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()

			return writePalettes(cmd.OutOrStdout(), app.palettes.List())
		},
	}
}

func newPalettesSearchCmd(opts *storeOptions) *cobra.Command {
	var (
		kind  string
		color string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search palettes by name or color",
		Long: `Search palettes by name, kind or a color they contain.

Examples:
  palettectl palettes search ocean
  palettectl palettes search --color '#606c38'
  palettectl palettes search --kind custom`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := search.DefaultParams()
			if len(args) == 1 {
				params.Query = args[0]
			}
			params.Kind = search.Kind(kind)
			params.Color = color
			if limit > 0 {
				params.Limit = limit
			}

			app, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()

			entries, total, err := app.palettes.Search(cmd.Context(), params)
			if err != nil {
				return err
			}
			if err := writePalettes(cmd.OutOrStdout(), entries); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d matches\n", len(entries), total)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Restrict to builtin or custom palettes")
	cmd.Flags().StringVar(&color, "color", "", "Hex color the palette must contain")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")
	return cmd
}

func writePalettes(out io.Writer, entries []service.PaletteEntry) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tKIND\tNAME\tBACKGROUND\tCOLORS")
	for _, e := range entries {
		kind := search.KindCustom
		if e.Builtin {
			kind = search.KindBuiltin
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			e.Index, kind, e.Palette.Name, e.Palette.BgColor, strings.Join(e.Palette.Colors, " "))
	}
	return tw.Flush()
}
