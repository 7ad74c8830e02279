package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/AdamBeresnev/courtkeeper/internal/apperr"
	"github.com/AdamBeresnev/courtkeeper/internal/middleware"
)

type errorBody struct {
	Code      apperr.Code `json:"code"`
	Message   string      `json:"message"`
	Retryable bool        `json:"retryable"`
}

// StatusFor maps an error kind onto its HTTP status.
func StatusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeInvalidArgument:
		return http.StatusBadRequest
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeDuplicatePlayer, apperr.CodeInvalidStateTransition, apperr.CodeStorageConflict:
		return http.StatusConflict
	case apperr.CodeNotEnoughPlayers:
		return http.StatusUnprocessableEntity
	case apperr.CodeStorageUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes err as a JSON error body with the status of its kind. Errors without a
// kind are hidden behind a generic 500.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.CodeOf(err)
	status := StatusFor(code)
	if code == "" {
		InternalServerError(w, "Unhandled error", err)
		return
	}

	logger := middleware.LoggerFromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "code", code, "error", err)
	} else {
		logger.Warn("request rejected", "method", r.Method, "path", r.URL.Path, "code", code, "error", err)
	}
	WriteJSON(w, status, errorBody{Code: code, Message: err.Error(), Retryable: code.Retryable()})
}

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	WriteJSON(w, http.StatusInternalServerError, errorBody{Code: "INTERNAL", Message: "Internal Server Error"})
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("bad request", "message", msg, "error", err)
	} else {
		slog.Warn("bad request", "message", msg)
	}
	WriteJSON(w, http.StatusBadRequest, errorBody{Code: apperr.CodeInvalidArgument, Message: msg})
}
