package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ai-mall/backend/internal/model"
)

// ErrorResponse is the JSON error body every handler in this service emits.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// WriteJSON serializes data as the response body under the given status.
// An encoding failure degrades to a plain-text 500.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("encode response body failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// WriteError emits an ErrorResponse carrying the status text plus a
// caller-supplied message.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Code:    statusCode,
		Message: message,
	}
	WriteJSON(w, statusCode, response)
}

// WriteBadRequest reports invalid input, status 400.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// WriteNotFound reports a missing entity, status 404.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

// WriteForbidden reports a failed authorization gate, status 403.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message)
}

// WriteConflict reports a state collision such as a duplicate purchase,
// status 409.
func WriteConflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message)
}

// WriteInternalError reports an unclassified failure, status 500.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}

// WriteServiceError maps domain sentinel errors to HTTP statuses.
// Anything unrecognized reports 500 without leaking internals.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrNotFound):
		WriteNotFound(w, err.Error())
	case errors.Is(err, model.ErrForbidden):
		WriteForbidden(w, err.Error())
	case errors.Is(err, model.ErrConflict):
		WriteConflict(w, err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		WriteInternalError(w, "internal error")
	}
}
