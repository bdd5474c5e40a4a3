package cli

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/paletteview/paletteview-server/internal/export"
	"github.com/paletteview/paletteview-server/internal/viewstate"
)

func newRenderCmd(opts *storeOptions) *cobra.Command {
	var (
		index  int
		code   string
		style  string
		width  int
		height int
		output string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a palette to a PNG file",
		Long: `Render a palette the way a fullscreen view draws it.

Examples:
  palettectl render --palette 2 --style circles -o palette.png
  palettectl render --code <customData> --width 3840 --height 2160`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := url.Values{}
			switch {
			case code != "":
				q.Set(viewstate.ParamCustomData, code)
			case cmd.Flags().Changed("palette"):
				q.Set(viewstate.ParamPalette, strconv.Itoa(index))
			}
			if style != "" {
				q.Set(viewstate.ParamStyle, style)
			}

			app, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()

			res, err := app.views.Render(cmd.Context(), q, width, height)
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = res.Filename
			}
			if err := os.WriteFile(path, res.PNG, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			b := res.Image.Bounds()
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d)\n", path, b.Dx(), b.Dy())
			return nil
		},
	}

	def := export.DefaultPreset()
	cmd.Flags().IntVar(&index, "palette", 0, "Palette index")
	cmd.Flags().StringVar(&code, "code", "", "Share code of a palette; wins over --palette")
	cmd.Flags().StringVar(&style, "style", "", "Swatch style")
	cmd.Flags().IntVar(&width, "width", def.Width, "Image width in pixels")
	cmd.Flags().IntVar(&height, "height", def.Height, "Image height in pixels")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file; defaults to "+export.Filename)
	return cmd
}
