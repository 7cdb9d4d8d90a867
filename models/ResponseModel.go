package models

// ErrorResponse is the standard error body returned by all handlers.
type ErrorResponse struct {
	Error string `json:"error" example:"ratios not found"`
}

// MessageResponse is the standard acknowledgement body.
type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}
