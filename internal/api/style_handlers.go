package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/paletteview/paletteview-server/internal/domain"
	domainerrors "github.com/paletteview/paletteview-server/internal/errors"
	"github.com/paletteview/paletteview-server/internal/style"
)

func (s *Server) registerStyleRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listStyles",
		Method:      http.MethodGet,
		Path:        "/api/v1/styles",
		Summary:     "List styles",
		Description: "Returns the swatch styles in menu order. The first is the default.",
		Tags:        []string{"Styles"},
	}, s.handleListStyles)

	huma.Register(s.api, huma.Operation{
		OperationID: "getStyleAttributes",
		Method:      http.MethodGet,
		Path:        "/api/v1/styles/{style}/attributes",
		Summary:     "Get swatch attributes",
		Description: "Returns the visual attributes of one swatch drawn in a style. Unknown styles give an empty record.",
		Tags:        []string{"Styles"},
	}, s.handleGetStyleAttributes)
}

// === DTOs ===

type ListStylesResponse struct {
	Styles  []string `json:"styles" doc:"Style identifiers in menu order"`
	Default string   `json:"default" doc:"Style used when none is chosen"`
}

type ListStylesOutput struct {
	Body ListStylesResponse
}

type GetStyleAttributesInput struct {
	Style string `path:"style" doc:"Style identifier"`
	Color string `query:"color" doc:"Swatch color, copied to backgroundColor"`
	Index string `query:"index" doc:"Swatch position; sets zIndex"`
	Size  string `query:"size" doc:"Palette size hint; 0 or absent means 5"`
}

type StyleAttributesResponse struct {
	Style      string            `json:"style" doc:"Requested style"`
	Attributes style.Attributes  `json:"attributes" doc:"Typed attribute record"`
	CSS        map[string]string `json:"css" doc:"The record as CSS declarations"`
}

type StyleAttributesOutput struct {
	Body StyleAttributesResponse
}

// === Handlers ===

func (s *Server) handleListStyles(_ context.Context, _ *struct{}) (*ListStylesOutput, error) {
	styles := domain.Styles()
	names := make([]string, len(styles))
	for i, st := range styles {
		names[i] = string(st)
	}
	return &ListStylesOutput{Body: ListStylesResponse{
		Styles:  names,
		Default: string(domain.DefaultStyle()),
	}}, nil
}

func (s *Server) handleGetStyleAttributes(_ context.Context, input *GetStyleAttributesInput) (*StyleAttributesOutput, error) {
	index, err := optionalInt("index", input.Index)
	if err != nil {
		return nil, s.fail(err, "invalid index")
	}
	size, err := optionalInt("size", input.Size)
	if err != nil {
		return nil, s.fail(err, "invalid size")
	}

	attrs := style.Resolve(domain.Style(input.Style), input.Color, index, size)
	return &StyleAttributesOutput{Body: StyleAttributesResponse{
		Style:      input.Style,
		Attributes: attrs,
		CSS:        attrs.CSS(),
	}}, nil
}

// optionalInt parses an optional integer query parameter; empty is nil.
func optionalInt(name, raw string) (*int, error) {
	if raw == "" {
		return nil, nil //nolint:nilnil // absent is not an error
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domainerrors.Validationf("%s must be an integer", name)
	}
	return &n, nil
}
