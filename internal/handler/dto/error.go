// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// ErrorResponse is the envelope for every error body:
// {"error":{"code":"...","message":"..."}}.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes one error. Field names the offending input, if any.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
