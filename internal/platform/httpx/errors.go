package httpx

import (
	"errors"
	"log/slog"
	"net/http"
)

// Error is the API error envelope. Every failure a client can see carries a
// machine-readable code next to the human message.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// BadRequest builds a 400 validation error.
func BadRequest(code, message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: code, Message: message}
}

// NotFound builds a 404 error.
func NotFound(code, message string) *Error {
	return &Error{Status: http.StatusNotFound, Code: code, Message: message}
}

// Unauthorized builds a 401 error.
func Unauthorized(code, message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: code, Message: message}
}

// Conflict builds a 409 error.
func Conflict(code, message string) *Error {
	return &Error{Status: http.StatusConflict, Code: code, Message: message}
}

// Internal builds a 500 error with a generic message. The underlying cause
// is expected to be logged at the boundary, never returned to the client.
func Internal() *Error {
	return &Error{Status: http.StatusInternalServerError, Code: "INTERNAL", Message: "internal server error"}
}

// RespondError writes err to the client. Coded errors pass through with
// their status; anything else is logged and surfaced as a generic 500.
func RespondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		JSON(w, apiErr.Status, apiErr)
		return
	}
	if logger != nil {
		logger.Error("unexpected error", slog.Any("error", err))
	}
	JSON(w, http.StatusInternalServerError, Internal())
}
