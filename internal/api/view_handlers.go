package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/paletteview/paletteview-server/internal/domain"
	domainerrors "github.com/paletteview/paletteview-server/internal/errors"
	"github.com/paletteview/paletteview-server/internal/export"
	"github.com/paletteview/paletteview-server/internal/service"
)

func (s *Server) registerViewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createView",
		Method:        http.MethodPost,
		Path:          "/api/v1/views",
		Summary:       "Open view",
		Description:   "Opens a view session resolved from a share link query",
		Tags:          []string{"Views"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateView)

	huma.Register(s.api, huma.Operation{
		OperationID: "getView",
		Method:      http.MethodGet,
		Path:        "/api/v1/views/{id}",
		Summary:     "Get view",
		Description: "Returns the view's resolved state, link and draft",
		Tags:        []string{"Views"},
	}, s.handleGetView)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteView",
		Method:      http.MethodDelete,
		Path:        "/api/v1/views/{id}",
		Summary:     "Close view",
		Description: "Closes the view and disconnects its event streams",
		Tags:        []string{"Views"},
	}, s.handleDeleteView)

	huma.Register(s.api, huma.Operation{
		OperationID: "selectViewPalette",
		Method:      http.MethodPut,
		Path:        "/api/v1/views/{id}/palette",
		Summary:     "Select palette",
		Description: "Selects a palette by collection index",
		Tags:        []string{"Views"},
	}, s.handleSelectPalette)

	huma.Register(s.api, huma.Operation{
		OperationID: "selectViewStyle",
		Method:      http.MethodPut,
		Path:        "/api/v1/views/{id}/style",
		Summary:     "Select style",
		Description: "Selects the swatch style",
		Tags:        []string{"Views"},
	}, s.handleSelectStyle)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleViewFullscreen",
		Method:      http.MethodPost,
		Path:        "/api/v1/views/{id}/fullscreen/toggle",
		Summary:     "Toggle fullscreen",
		Description: "Asks the view's connected client to enter or leave fullscreen",
		Tags:        []string{"Views"},
	}, s.handleToggleFullscreen)

	huma.Register(s.api, huma.Operation{
		OperationID: "reportViewFullscreen",
		Method:      http.MethodPost,
		Path:        "/api/v1/views/{id}/fullscreen/status",
		Summary:     "Report fullscreen",
		Description: "Reports the client's actual fullscreen state",
		Tags:        []string{"Views"},
	}, s.handleReportFullscreen)

	huma.Register(s.api, huma.Operation{
		OperationID: "setViewPanel",
		Method:      http.MethodPut,
		Path:        "/api/v1/views/{id}/panel",
		Summary:     "Open or close panel",
		Description: "Shows or hides the palette editing panel",
		Tags:        []string{"Views"},
	}, s.handleSetPanel)

	huma.Register(s.api, huma.Operation{
		OperationID: "exportView",
		Method:      http.MethodPost,
		Path:        "/api/v1/views/{id}/export",
		Summary:     "Export view",
		Description: "Captures the view without its controls and downloads it as a PNG",
		Tags:        []string{"Views", "Export"},
		Middlewares: huma.Middlewares{s.exportRateLimit},
	}, s.handleExportView)

	huma.Register(s.api, huma.Operation{
		OperationID: "previewView",
		Method:      http.MethodGet,
		Path:        "/api/v1/views/{id}/preview",
		Summary:     "Preview view",
		Description: "Returns a BlurHash placeholder of the view as displayed",
		Tags:        []string{"Views"},
		Middlewares: huma.Middlewares{s.exportRateLimit},
	}, s.handlePreviewView)
}

// === DTOs ===

type ViewportBody struct {
	Width  int `json:"width" doc:"Viewport width in pixels"`
	Height int `json:"height" doc:"Viewport height in pixels"`
}

type DraftBody struct {
	Name    string   `json:"name" doc:"Draft name"`
	BgColor string   `json:"bgColor" doc:"Draft background"`
	Colors  []string `json:"colors" doc:"Draft swatches; never empty"`
}

// ViewResponse is a view session's state.
type ViewResponse struct {
	ID         string       `json:"id" doc:"View ID"`
	Index      int          `json:"index" doc:"Selected palette index, -1 when the collection is empty"`
	Style      string       `json:"style" doc:"Swatch style"`
	Fullscreen bool         `json:"fullscreen" doc:"Whether the client is fullscreen"`
	PanelOpen  bool         `json:"panelOpen" doc:"Whether the editing panel is open"`
	Palette    *PaletteBody `json:"palette,omitempty" doc:"Selected palette"`
	Builtin    bool         `json:"builtin" doc:"Selected palette ships with the server"`
	Query      string       `json:"query" doc:"Share link query for the current state"`
	Palettes   int          `json:"palettes" doc:"Collection size as seen by this view"`
	Draft      DraftBody    `json:"draft" doc:"Palette under construction"`
	Viewport   ViewportBody `json:"viewport" doc:"Layout size"`
}

type ViewOutput struct {
	Body ViewResponse
}

type ViewIDInput struct {
	ID string `path:"id" doc:"View ID"`
}

type CreateViewRequest struct {
	Query  string `json:"query,omitempty" doc:"Share link query, with or without the leading ?"`
	Width  int    `json:"width,omitempty" minimum:"0" doc:"Viewport width; server default when 0"`
	Height int    `json:"height,omitempty" minimum:"0" doc:"Viewport height; server default when 0"`
}

type CreateViewInput struct {
	Body CreateViewRequest `required:"false"`
}

type SelectPaletteRequest struct {
	Index int `json:"index" doc:"Collection index; out of range selects the first palette"`
}

type SelectPaletteInput struct {
	ID   string `path:"id" doc:"View ID"`
	Body SelectPaletteRequest
}

type SelectStyleRequest struct {
	Style string `json:"style" enum:"circles,cubes,medium-circles,big-circles,big-pills,diamonds,vertical-pills,big-diamonds" doc:"Swatch style"`
}

type SelectStyleInput struct {
	ID   string `path:"id" doc:"View ID"`
	Body SelectStyleRequest
}

type ReportFullscreenRequest struct {
	Active bool `json:"active" doc:"Whether the client is now fullscreen"`
}

type ReportFullscreenInput struct {
	ID   string `path:"id" doc:"View ID"`
	Body ReportFullscreenRequest
}

type SetPanelRequest struct {
	Open bool `json:"open" doc:"Show the panel"`
}

type SetPanelInput struct {
	ID   string `path:"id" doc:"View ID"`
	Body SetPanelRequest
}

type ExportViewRequest struct {
	Preset string `json:"preset,omitempty" doc:"Preset label such as 4K; overrides width and height"`
	Width  int    `json:"width,omitempty" minimum:"0" doc:"Output width"`
	Height int    `json:"height,omitempty" minimum:"0" doc:"Output height"`
}

type ExportViewInput struct {
	ID   string `path:"id" doc:"View ID"`
	Body ExportViewRequest `required:"false"`
}

type PreviewResponse struct {
	Blurhash string `json:"blurhash" doc:"BlurHash of the view as displayed"`
	Width    int    `json:"width" doc:"Captured width"`
	Height   int    `json:"height" doc:"Captured height"`
}

type PreviewOutput struct {
	Body PreviewResponse
}

// === Handlers ===

func (s *Server) handleCreateView(ctx context.Context, input *CreateViewInput) (*ViewOutput, error) {
	q, err := url.ParseQuery(strings.TrimPrefix(input.Body.Query, "?"))
	if err != nil {
		return nil, s.fail(domainerrors.Validationf("query is not a valid link query: %v", err), "invalid query")
	}

	v, err := s.services.Views.Create(ctx, service.CreateViewInput{
		Query:  q,
		Width:  input.Body.Width,
		Height: input.Body.Height,
	})
	if err != nil {
		return nil, s.fail(err, "failed to open view")
	}
	return &ViewOutput{Body: mapViewResponse(v)}, nil
}

func (s *Server) handleGetView(_ context.Context, input *ViewIDInput) (*ViewOutput, error) {
	v, err := s.services.Views.Get(input.ID)
	if err != nil {
		return nil, s.fail(err, "failed to get view", "view_id", input.ID)
	}
	return &ViewOutput{Body: mapViewResponse(v)}, nil
}

func (s *Server) handleDeleteView(_ context.Context, input *ViewIDInput) (*MessageOutput, error) {
	if err := s.services.Views.Delete(input.ID); err != nil {
		return nil, s.fail(err, "failed to close view", "view_id", input.ID)
	}
	return &MessageOutput{Body: MessageResponse{Message: "View closed"}}, nil
}

func (s *Server) handleSelectPalette(_ context.Context, input *SelectPaletteInput) (*ViewOutput, error) {
	v, err := s.services.Views.SelectPalette(input.ID, input.Body.Index)
	if err != nil {
		return nil, s.fail(err, "failed to select palette", "view_id", input.ID)
	}
	return &ViewOutput{Body: mapViewResponse(v)}, nil
}

func (s *Server) handleSelectStyle(_ context.Context, input *SelectStyleInput) (*ViewOutput, error) {
	v, err := s.services.Views.SelectStyle(input.ID, domain.Style(input.Body.Style))
	if err != nil {
		return nil, s.fail(err, "failed to select style", "view_id", input.ID)
	}
	return &ViewOutput{Body: mapViewResponse(v)}, nil
}

func (s *Server) handleToggleFullscreen(_ context.Context, input *ViewIDInput) (*ViewOutput, error) {
	v, err := s.services.Views.ToggleFullscreen(input.ID)
	if err != nil {
		return nil, s.fail(err, "failed to toggle fullscreen", "view_id", input.ID)
	}
	return &ViewOutput{Body: mapViewResponse(v)}, nil
}

func (s *Server) handleReportFullscreen(_ context.Context, input *ReportFullscreenInput) (*ViewOutput, error) {
	v, err := s.services.Views.ReportFullscreen(input.ID, input.Body.Active)
	if err != nil {
		return nil, s.fail(err, "failed to report fullscreen", "view_id", input.ID)
	}
	return &ViewOutput{Body: mapViewResponse(v)}, nil
}

func (s *Server) handleSetPanel(_ context.Context, input *SetPanelInput) (*ViewOutput, error) {
	v, err := s.services.Views.SetPanelOpen(input.ID, input.Body.Open)
	if err != nil {
		return nil, s.fail(err, "failed to set panel", "view_id", input.ID)
	}
	return &ViewOutput{Body: mapViewResponse(v)}, nil
}

func (s *Server) handleExportView(ctx context.Context, input *ExportViewInput) (*huma.StreamResponse, error) {
	w, h := exportSize(input.Body.Width, input.Body.Height)
	if input.Body.Preset != "" {
		p, ok := findPreset(input.Body.Preset)
		if !ok {
			return nil, s.fail(domainerrors.NotFoundf("no export preset %q", input.Body.Preset), "unknown preset")
		}
		w, h = p.Width, p.Height
	}

	res, err := s.services.Views.Export(ctx, input.ID, w, h)
	if err != nil {
		return nil, s.fail(err, "failed to export view", "view_id", input.ID, "width", w, "height", h)
	}

	hash, err := export.Placeholder(res.Image)
	if err != nil {
		// The download is still good without a placeholder.
		s.logger.Warn("placeholder failed", "view_id", input.ID, "error", err)
		hash = ""
	}
	return pngResponse(res, true, hash), nil
}

func (s *Server) handlePreviewView(ctx context.Context, input *ViewIDInput) (*PreviewOutput, error) {
	frame, err := s.services.Views.Preview(ctx, input.ID)
	if err != nil {
		return nil, s.fail(err, "failed to preview view", "view_id", input.ID)
	}
	hash, err := export.Placeholder(frame.Image)
	if err != nil {
		return nil, s.fail(err, "failed to encode placeholder", "view_id", input.ID)
	}

	b := frame.Image.Bounds()
	return &PreviewOutput{Body: PreviewResponse{Blurhash: hash, Width: b.Dx(), Height: b.Dy()}}, nil
}

func findPreset(label string) (export.Preset, bool) {
	for _, p := range export.Presets() {
		if strings.EqualFold(p.Label, label) {
			return p, true
		}
	}
	return export.Preset{}, false
}

func mapViewResponse(v service.View) ViewResponse {
	resp := ViewResponse{
		ID:         v.ID,
		Index:      int(v.State.Index),
		Style:      string(v.State.Style),
		Fullscreen: v.State.Fullscreen,
		PanelOpen:  v.State.PanelOpen,
		Builtin:    v.State.Builtin,
		Query:      v.State.Query.Encode(),
		Palettes:   v.State.Palettes,
		Draft: DraftBody{
			Name:    v.State.Draft.Name,
			BgColor: v.State.Draft.BgColor,
			Colors:  nonNil(v.State.Draft.Colors),
		},
		Viewport: ViewportBody{Width: v.Viewport.Width, Height: v.Viewport.Height},
	}
	if v.State.Palette != nil {
		p := mapPaletteBody(*v.State.Palette)
		resp.Palette = &p
	}
	return resp
}
