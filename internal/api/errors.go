package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/paletteview/paletteview-server/internal/errors"
)

// APIError implements huma.StatusError for domain errors.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler makes huma render domain errors with their own
// status and code. Call it before registering routes.
func RegisterErrorHandler() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		for _, err := range errs {
			var domainErr *domainerrors.Error
			if errors.As(err, &domainErr) {
				return &APIError{
					status:  domainErr.HTTPStatus(),
					Code:    string(domainErr.Code),
					Message: domainErr.Message,
					Details: domainErr.Details,
				}
			}
		}

		// huma's own request validation failures.
		var details []string
		for _, err := range errs {
			if err != nil {
				details = append(details, err.Error())
			}
		}

		apiErr := &APIError{
			status:  status,
			Code:    statusToCode(status),
			Message: message,
		}
		if len(details) > 0 {
			apiErr.Details = details
		}
		return apiErr
	}
}

// statusToCode maps HTTP status codes to domain error codes.
func statusToCode(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return string(domainerrors.CodeValidation)
	case http.StatusNotFound:
		return string(domainerrors.CodeNotFound)
	case http.StatusConflict:
		return string(domainerrors.CodeAlreadyExists)
	case http.StatusTooManyRequests:
		return string(domainerrors.CodeRateLimited)
	case http.StatusNotImplemented:
		return string(domainerrors.CodeUnsupported)
	default:
		return string(domainerrors.CodeInternal)
	}
}

// fail converts a service error into the huma error returned from a
// handler. Unexpected errors are logged and hidden behind a generic 500.
func (s *Server) fail(err error, msg string, args ...any) error {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) && domainErr.Code != domainerrors.CodeInternal {
		return huma.NewError(domainErr.HTTPStatus(), domainErr.Message, domainErr)
	}
	s.logger.Error(msg, append(args, "error", err)...)
	return huma.Error500InternalServerError(msg)
}

// writeError renders a domain error for routes served outside huma.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err *domainerrors.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus())
	if encErr := json.NewEncoder(w).Encode(APIErrorEnvelope{
		Version: EnvelopeVersion,
		Success: false,
		Code:    string(err.Code),
		Message: err.Message,
		Details: err.Details,
	}); encErr != nil {
		s.logger.Warn("failed to write error response", "path", r.URL.Path, "error", encErr)
	}
}
