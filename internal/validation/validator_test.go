package validation_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/paletteview/paletteview-server/internal/errors"
	"github.com/paletteview/paletteview-server/internal/validation"
)

type paletteRequest struct {
	Name    string   `json:"name" validate:"notblank,max=100"`
	BgColor string   `json:"bgColor" validate:"required,rgbhex"`
	Colors  []string `json:"colors" validate:"min=1,max=64,dive,rgbhex"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(paletteRequest{Name: "Sunset", BgColor: "#fff5e6", Colors: []string{"#ff6b6b", "#F7B731"}})
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       paletteRequest
		wantField string
	}{
		{"blank name", paletteRequest{Name: "   ", BgColor: "#fff", Colors: []string{"#000"}}, "name"},
		{"bad background", paletteRequest{Name: "a", BgColor: "white", Colors: []string{"#000"}}, "bgColor"},
		{"no colors", paletteRequest{Name: "a", BgColor: "#fff", Colors: nil}, "colors"},
		{"bad color entry", paletteRequest{Name: "a", BgColor: "#fff", Colors: []string{"#000", "#12"}}, "colors[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())
			assert.Contains(t, domainErr.Message, tt.wantField)

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tt.wantField)
		})
	}
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(paletteRequest{Name: "a", BgColor: "", Colors: []string{"#000"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bgColor")
	assert.NotContains(t, err.Error(), "BgColor")
}

func TestValidator_Var(t *testing.T) {
	v := validation.New()
	assert.NoError(t, v.Var("color", "#abc", "rgbhex"))

	err := v.Var("color", "nope", "rgbhex")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
