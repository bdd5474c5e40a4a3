package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/paletteview/paletteview-server/internal/domain"
	"github.com/paletteview/paletteview-server/internal/search"
	"github.com/paletteview/paletteview-server/internal/service"
)

func (s *Server) registerPaletteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPalettes",
		Method:      http.MethodGet,
		Path:        "/api/v1/palettes",
		Summary:     "List palettes",
		Description: "Returns built-in palettes followed by saved ones. Any filter switches to a ranked search.",
		Tags:        []string{"Palettes"},
	}, s.handleListPalettes)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPalette",
		Method:      http.MethodGet,
		Path:        "/api/v1/palettes/{index}",
		Summary:     "Get palette",
		Description: "Returns one palette with its share code",
		Tags:        []string{"Palettes"},
	}, s.handleGetPalette)

	huma.Register(s.api, huma.Operation{
		OperationID: "decodePalette",
		Method:      http.MethodPost,
		Path:        "/api/v1/palettes/decode",
		Summary:     "Decode share code",
		Description: "Decodes a customData share code into the palette it carries",
		Tags:        []string{"Palettes"},
	}, s.handleDecodePalette)
}

// === DTOs ===

type ListPalettesInput struct {
	Query  string `query:"q" doc:"Full-text search on palette names"`
	Kind   string `query:"kind" enum:"builtin,custom" doc:"Only built-in or only saved palettes"`
	Color  string `query:"color" doc:"Only palettes using this color, as #rgb or #rrggbb"`
	Limit  int    `query:"limit" minimum:"0" maximum:"200" doc:"Page size for searches (default 20)"`
	Offset int    `query:"offset" minimum:"0" doc:"Search offset"`
}

// PaletteResponse is a palette and its place in the collection.
type PaletteResponse struct {
	Index     int      `json:"index" doc:"Position in the collection"`
	Builtin   bool     `json:"builtin" doc:"Shipped with the server rather than saved"`
	Slug      string   `json:"slug" doc:"URL-safe name"`
	Name      string   `json:"name" doc:"Display name"`
	BgColor   string   `json:"bgColor" doc:"Background color"`
	Colors    []string `json:"colors" doc:"Swatch colors in draw order"`
	ShareCode string   `json:"shareCode,omitempty" doc:"customData value that links to this palette"`
}

type ListPalettesResponse struct {
	Palettes []PaletteResponse `json:"palettes" doc:"Palettes in collection or rank order"`
	Total    uint64            `json:"total" doc:"Total matches, ignoring paging"`
}

type ListPalettesOutput struct {
	Body ListPalettesResponse
}

type GetPaletteInput struct {
	Index int `path:"index" minimum:"0" doc:"Palette index"`
}

type PaletteOutput struct {
	Body PaletteResponse
}

type DecodePaletteRequest struct {
	Code string `json:"code" minLength:"1" doc:"customData share code"`
}

type DecodePaletteInput struct {
	Body DecodePaletteRequest
}

// PaletteBody is a bare palette.
type PaletteBody struct {
	Name    string   `json:"name" doc:"Display name"`
	BgColor string   `json:"bgColor" doc:"Background color"`
	Colors  []string `json:"colors" doc:"Swatch colors in draw order"`
}

type DecodePaletteOutput struct {
	Body PaletteBody
}

// === Handlers ===

func (s *Server) handleListPalettes(ctx context.Context, input *ListPalettesInput) (*ListPalettesOutput, error) {
	if input.Query == "" && input.Kind == "" && input.Color == "" {
		entries := s.services.Palettes.List()
		resp := make([]PaletteResponse, len(entries))
		for i, e := range entries {
			resp[i] = mapPaletteResponse(e)
		}
		return &ListPalettesOutput{Body: ListPalettesResponse{Palettes: resp, Total: uint64(len(resp))}}, nil
	}

	params := search.DefaultParams()
	params.Query = input.Query
	params.Kind = search.Kind(input.Kind)
	params.Color = input.Color
	params.Offset = input.Offset
	if input.Limit > 0 {
		params.Limit = input.Limit
	}

	entries, total, err := s.services.Palettes.Search(ctx, params)
	if err != nil {
		return nil, s.fail(err, "failed to search palettes", "query", input.Query)
	}

	resp := make([]PaletteResponse, len(entries))
	for i, e := range entries {
		resp[i] = mapPaletteResponse(e)
	}
	return &ListPalettesOutput{Body: ListPalettesResponse{Palettes: resp, Total: total}}, nil
}

func (s *Server) handleGetPalette(_ context.Context, input *GetPaletteInput) (*PaletteOutput, error) {
	e, err := s.services.Palettes.Get(input.Index)
	if err != nil {
		return nil, s.fail(err, "failed to get palette", "index", input.Index)
	}
	code, err := s.services.Palettes.ShareCode(input.Index)
	if err != nil {
		return nil, s.fail(err, "failed to encode share code", "index", input.Index)
	}

	resp := mapPaletteResponse(e)
	resp.ShareCode = code
	return &PaletteOutput{Body: resp}, nil
}

func (s *Server) handleDecodePalette(_ context.Context, input *DecodePaletteInput) (*DecodePaletteOutput, error) {
	p, err := s.services.Palettes.Decode(input.Body.Code)
	if err != nil {
		return nil, s.fail(err, "failed to decode share code")
	}
	return &DecodePaletteOutput{Body: mapPaletteBody(p)}, nil
}

func mapPaletteResponse(e service.PaletteEntry) PaletteResponse {
	return PaletteResponse{
		Index:   e.Index,
		Builtin: e.Builtin,
		Slug:    e.Slug,
		Name:    e.Palette.Name,
		BgColor: e.Palette.BgColor,
		Colors:  nonNil(e.Palette.Colors),
	}
}

func mapPaletteBody(p domain.Palette) PaletteBody {
	return PaletteBody{Name: p.Name, BgColor: p.BgColor, Colors: nonNil(p.Colors)}
}

// nonNil keeps empty lists as [] rather than null on the wire.
func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
