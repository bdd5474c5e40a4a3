package api

import (
	"errors"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// EnvelopeVersion is bumped on incompatible envelope changes.
const EnvelopeVersion = 1

// APIEnvelope wraps every JSON response.
type APIEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// APIErrorEnvelope carries a coded error so clients can branch on it.
type APIErrorEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer is a huma transformer that wraps response bodies.
// Error bodies with a code become an APIErrorEnvelope; anything else at
// 400 and above becomes an APIEnvelope with only Error set.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	code, err := strconv.Atoi(status)
	if err != nil {
		code = 200
	}

	if code < 400 {
		return APIEnvelope{Version: EnvelopeVersion, Success: true, Data: v}, nil
	}

	var apiErr *APIError
	if e, ok := v.(error); ok && errors.As(e, &apiErr) && (apiErr.Code != "" || apiErr.Details != nil) {
		return APIErrorEnvelope{
			Version: EnvelopeVersion,
			Success: false,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}, nil
	}

	msg := ""
	switch e := v.(type) {
	case error:
		msg = e.Error()
	case string:
		msg = e
	}
	return APIEnvelope{Version: EnvelopeVersion, Success: false, Error: msg}, nil
}
