package response

import (
	"encoding/json"
	"net/http"

	"github.com/renoflade/renoflade-api/pkg/logger"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Stable machine-readable error codes.
const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeRateLimit     = "RATE_LIMIT_EXCEEDED"
	CodeInvalidToken  = "INVALID_TOKEN"
	CodeInternalError = "INTERNAL_ERROR"
)

// InvalidLinkMessage is the one public message for every manage-link failure;
// forged, expired, and malformed tokens are indistinguishable to the caller.
const InvalidLinkMessage = "This link is invalid or has expired."

func JSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func WriteError(w http.ResponseWriter, statusCode int, message, code string) {
	JSON(w, statusCode, ErrorBody{Error: message, Code: code})
}

func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

func Conflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message, CodeConflict)
}

func InvalidLink(w http.ResponseWriter) {
	WriteError(w, http.StatusNotFound, InvalidLinkMessage, CodeInvalidToken)
}

func RateLimited(w http.ResponseWriter) {
	WriteError(w, http.StatusTooManyRequests, "Too many requests. Try again later.", CodeRateLimit)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message, CodeInternalError)
}
