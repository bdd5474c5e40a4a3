package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/paletteview/paletteview-server/internal/export"
	"github.com/paletteview/paletteview-server/internal/viewstate"
)

func (s *Server) registerExportRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listExportPresets",
		Method:      http.MethodGet,
		Path:        "/api/v1/export/presets",
		Summary:     "List export presets",
		Description: "Returns the offered export resolutions and the default one",
		Tags:        []string{"Export"},
	}, s.handleListExportPresets)

	huma.Register(s.api, huma.Operation{
		OperationID: "renderLink",
		Method:      http.MethodGet,
		Path:        "/api/v1/render",
		Summary:     "Render share link",
		Description: "Resolves a share link without opening a view and returns it as a PNG",
		Tags:        []string{"Export"},
		Middlewares: huma.Middlewares{s.exportRateLimit},
	}, s.handleRenderLink)
}

// === DTOs ===

type ExportPresetsResponse struct {
	Presets      []export.Preset `json:"presets" doc:"Resolutions in display order"`
	Default      export.Preset   `json:"default" doc:"Resolution used when none is chosen"`
	MaxDimension int             `json:"maxDimension" doc:"Largest accepted width or height"`
}

type ExportPresetsOutput struct {
	Body ExportPresetsResponse
}

type RenderLinkInput struct {
	Palette    string `query:"palette" doc:"Palette index"`
	CustomData string `query:"customData" doc:"Share code; wins over palette"`
	Style      string `query:"style" doc:"Swatch style"`
	Width      int    `query:"width" minimum:"0" doc:"Output width; default preset when 0"`
	Height     int    `query:"height" minimum:"0" doc:"Output height; default preset when 0"`
}

// === Handlers ===

func (s *Server) handleListExportPresets(_ context.Context, _ *struct{}) (*ExportPresetsOutput, error) {
	return &ExportPresetsOutput{Body: ExportPresetsResponse{
		Presets:      export.Presets(),
		Default:      export.DefaultPreset(),
		MaxDimension: s.exporter.MaxDimension(),
	}}, nil
}

func (s *Server) handleRenderLink(ctx context.Context, input *RenderLinkInput) (*huma.StreamResponse, error) {
	q := url.Values{}
	if input.Palette != "" {
		q.Set(viewstate.ParamPalette, input.Palette)
	}
	if input.CustomData != "" {
		q.Set(viewstate.ParamCustomData, input.CustomData)
	}
	if input.Style != "" {
		q.Set(viewstate.ParamStyle, input.Style)
	}

	w, h := exportSize(input.Width, input.Height)
	res, err := s.services.Views.Render(ctx, q, w, h)
	if err != nil {
		return nil, s.fail(err, "failed to render link", "width", w, "height", h)
	}
	return pngResponse(res, false, ""), nil
}

// exportSize fills an unset dimension pair from the default preset.
func exportSize(w, h int) (int, int) {
	if w == 0 && h == 0 {
		p := export.DefaultPreset()
		return p.Width, p.Height
	}
	return w, h
}

// pngResponse streams an export. Downloads get an attachment disposition
// named after the export; inline renders do not.
func pngResponse(res export.Result, download bool, placeholder string) *huma.StreamResponse {
	return &huma.StreamResponse{
		Body: func(ctx huma.Context) {
			ctx.SetHeader("Content-Type", "image/png")
			ctx.SetHeader("Content-Length", strconv.Itoa(len(res.PNG)))
			if download {
				ctx.SetHeader("Content-Disposition", "attachment; filename=\""+res.Filename+"\"")
			}
			if placeholder != "" {
				ctx.SetHeader("X-Blurhash", placeholder)
			}
			_, _ = ctx.BodyWriter().Write(res.PNG)
		},
	}
}
