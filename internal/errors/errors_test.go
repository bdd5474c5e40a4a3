package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeAlreadyExists, http.StatusConflict},
		{CodeValidation, http.StatusBadRequest},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeUnsupported, http.StatusNotImplemented},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := Validation("palette name is required")

	assert.True(t, Is(err, ErrValidation))
	assert.False(t, Is(err, ErrNotFound))

	wrapped := fmt.Errorf("save draft: %w", err)
	assert.True(t, Is(wrapped, ErrValidation))
}

func TestError_WrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(cause, CodeInternal, "persist custom palettes")

	assert.Equal(t, "persist custom palettes: disk full", err.Error())
	assert.Equal(t, cause, Unwrap(err))
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
}

func TestError_WithDetails(t *testing.T) {
	base := Validation("validation failed")
	detailed := base.WithDetails(map[string]string{"name": "is required"})

	assert.Nil(t, base.Details)
	assert.Equal(t, map[string]string{"name": "is required"}, detailed.Details)
	assert.True(t, Is(detailed, ErrValidation))
}
