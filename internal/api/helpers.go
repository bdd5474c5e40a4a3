package api

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message" doc:"What happened"`
}

// MessageOutput wraps a MessageResponse for Huma.
type MessageOutput struct {
	Body MessageResponse
}
