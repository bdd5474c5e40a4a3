package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/paletteview/paletteview-server/internal/palette"
	"github.com/paletteview/paletteview-server/internal/service"
)

func (s *Server) registerDraftRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "addDraftColor",
		Method:      http.MethodPost,
		Path:        "/api/v1/views/{id}/draft/colors",
		Summary:     "Add draft color",
		Description: "Appends a black swatch to the draft",
		Tags:        []string{"Drafts"},
	}, s.handleAddDraftColor)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeDraftColor",
		Method:      http.MethodDelete,
		Path:        "/api/v1/views/{id}/draft/colors/{index}",
		Summary:     "Remove draft color",
		Description: "Removes a swatch from the draft. Removing the last swatch does nothing.",
		Tags:        []string{"Drafts"},
	}, s.handleRemoveDraftColor)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateDraft",
		Method:      http.MethodPut,
		Path:        "/api/v1/views/{id}/draft",
		Summary:     "Update draft",
		Description: "Edits the draft name, background or swatches. Omitted fields are left alone.",
		Tags:        []string{"Drafts"},
	}, s.handleUpdateDraft)

	huma.Register(s.api, huma.Operation{
		OperationID: "saveDraft",
		Method:      http.MethodPost,
		Path:        "/api/v1/views/{id}/draft/save",
		Summary:     "Save draft",
		Description: "Saves the draft as a custom palette and selects it, or selects the saved palette with the same colors",
		Tags:        []string{"Drafts"},
	}, s.handleSaveDraft)
}

// === DTOs ===

type RemoveDraftColorInput struct {
	ID    string `path:"id" doc:"View ID"`
	Index int    `path:"index" doc:"Swatch position"`
}

type DraftColorEdit struct {
	Index int    `json:"index" doc:"Swatch position"`
	Color string `json:"color" validate:"rgbhex" doc:"New swatch color"`
}

type UpdateDraftRequest struct {
	Name     *string         `json:"name,omitempty" validate:"omitempty,max=100" doc:"Draft name"`
	BgColor  *string         `json:"bgColor,omitempty" validate:"omitempty,rgbhex" doc:"Background color"`
	Colors   []string        `json:"colors,omitempty" validate:"omitempty,min=1,max=64,dive,rgbhex" doc:"Replaces every swatch"`
	SetColor *DraftColorEdit `json:"setColor,omitempty" doc:"Replaces one swatch, after colors is applied"`
}

type UpdateDraftInput struct {
	ID   string `path:"id" doc:"View ID"`
	Body UpdateDraftRequest
}

type SaveResultBody struct {
	Index  int    `json:"index" doc:"Index of the saved or matching palette"`
	Status string `json:"status" enum:"added,already_exists" doc:"Whether a palette was added"`
	Notice string `json:"notice" doc:"Message to show the user"`
}

type SaveDraftResponse struct {
	View   ViewResponse   `json:"view" doc:"View after the save"`
	Result SaveResultBody `json:"result" doc:"Save outcome"`
}

type SaveDraftOutput struct {
	Body SaveDraftResponse
}

// === Handlers ===

func (s *Server) handleAddDraftColor(_ context.Context, input *ViewIDInput) (*ViewOutput, error) {
	v, err := s.services.Views.AddDraftColor(input.ID)
	if err != nil {
		return nil, s.fail(err, "failed to add draft color", "view_id", input.ID)
	}
	return &ViewOutput{Body: mapViewResponse(v)}, nil
}

func (s *Server) handleRemoveDraftColor(_ context.Context, input *RemoveDraftColorInput) (*ViewOutput, error) {
	v, err := s.services.Views.RemoveDraftColor(input.ID, input.Index)
	if err != nil {
		return nil, s.fail(err, "failed to remove draft color", "view_id", input.ID)
	}
	return &ViewOutput{Body: mapViewResponse(v)}, nil
}

func (s *Server) handleUpdateDraft(_ context.Context, input *UpdateDraftInput) (*ViewOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, s.fail(err, "invalid draft")
	}

	upd := service.DraftUpdate{
		Name:    input.Body.Name,
		BgColor: input.Body.BgColor,
		Colors:  input.Body.Colors,
	}
	if e := input.Body.SetColor; e != nil {
		upd.SetColor = &service.ColorEdit{Index: e.Index, Color: e.Color}
	}

	v, err := s.services.Views.UpdateDraft(input.ID, upd)
	if err != nil {
		return nil, s.fail(err, "failed to update draft", "view_id", input.ID)
	}
	return &ViewOutput{Body: mapViewResponse(v)}, nil
}

func (s *Server) handleSaveDraft(ctx context.Context, input *ViewIDInput) (*SaveDraftOutput, error) {
	v, res, err := s.services.Views.SaveDraft(ctx, input.ID)
	if err != nil {
		return nil, s.fail(err, "failed to save draft", "view_id", input.ID)
	}

	notice := "Palette saved"
	if res.Status == palette.StatusAlreadyExists {
		notice = "A palette with these colors already exists"
	}
	return &SaveDraftOutput{Body: SaveDraftResponse{
		View: mapViewResponse(v),
		Result: SaveResultBody{
			Index:  res.Index,
			Status: string(res.Status),
			Notice: notice,
		},
	}}, nil
}
