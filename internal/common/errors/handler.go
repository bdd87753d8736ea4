// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	"net/http"
	"time"
)

// APIError is the wire representation returned to HTTP clients.
type APIError struct {
	OK      bool      `json:"ok"`
	Code    ErrorCode `json:"error"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// statusByCode maps internal error codes to HTTP status codes.
var statusByCode = map[ErrorCode]int{
	ErrCodeInvalidOrder:       http.StatusBadRequest,
	ErrCodeValidationFailed:   http.StatusBadRequest,
	ErrCodeMethodNotAllowed:   http.StatusMethodNotAllowed,
	ErrCodeRoutingNoMatch:     http.StatusNotFound,
	ErrCodeIndexNotFound:      http.StatusNotFound,
	ErrCodeStoreUnavailable:   http.StatusServiceUnavailable,
	ErrCodeQueryTimeout:       http.StatusGatewayTimeout,
	ErrCodeSearchTimeout:      http.StatusGatewayTimeout,
	ErrCodeLLMTimeout:         http.StatusGatewayTimeout,
	ErrCodeTTSNotConfigured:   http.StatusInternalServerError,
	ErrCodeCategoryFetchError: http.StatusInternalServerError,
}

// HTTPStatus returns the HTTP status code for an error code, defaulting to 500.
func HTTPStatus(code ErrorCode) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorHandler writes errors as JSON responses with standardized shapes.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// WriteError normalizes err to a StandardError and writes the JSON response.
func (h *ErrorHandler) WriteError(w http.ResponseWriter, err error) {
	stdErr := h.normalizeError(err)

	h.logger.Error("request failed", map[string]interface{}{
		"errorCode": string(stdErr.Code),
		"message":   stdErr.Message,
		"details":   stdErr.Details,
		"retryable": stdErr.Retryable,
	})

	WriteJSONError(w, stdErr)
}

// normalizeError ensures we always have a StandardError.
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// WriteJSONError writes a StandardError as an APIError response.
func WriteJSONError(w http.ResponseWriter, stdErr *StandardError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatus(stdErr.Code))
	_ = json.NewEncoder(w).Encode(APIError{
		OK:      false,
		Code:    stdErr.Code,
		Message: stdErr.Message,
		Details: stdErr.Details,
	})
}
