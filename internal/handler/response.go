package handler

// RESPONSE HELPERS:
// Every error response from the API has the same shape:
//
//	{"error": "not_found", "message": "Snippet not found"}
//
// Validation failures add the per-field list:
//
//	{"error": "validation_error", "message": "...",
//	 "errors": [{"field": "title", "message": "Title is required"}]}

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sakif/snippet-manager/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string                `json:"error"`            // Machine-readable kind, e.g. "not_found"
	Message string                `json:"message"`          // Human-readable description
	Errors  []apperror.FieldError `json:"errors,omitempty"` // Every invalid field, validation only
}

const (
	msgInvalidJSON   = "Invalid JSON body"
	msgTooLarge      = "Request body too large"
	msgInternalError = "Server Error"
)

// writeJSON sends a JSON response with the given status code.
// Headers must be set before WriteHeader; once the body starts they are sent.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already out, so all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// errorStatus maps an error to its HTTP status and machine-readable kind.
// Anything that is not an *apperror.AppError is an internal failure.
func errorStatus(err error) (int, string) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, "internal_error"
	}

	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperror.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, apperror.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid_token"
	case errors.Is(err, apperror.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden, "access_denied"
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// writeError maps a domain error to an HTTP response.
//
// Internal failures are logged with full detail and answered with a generic
// message; the raw error may contain SQL, file paths or driver text.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, kind := errorStatus(err)

	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeJSON(w, status, ErrorResponse{Error: kind, Message: msgInternalError})
		return
	}

	var appErr *apperror.AppError
	errors.As(err, &appErr)
	writeJSON(w, status, ErrorResponse{
		Error:   kind,
		Message: appErr.Message,
		Errors:  appErr.Fields,
	})
}

// decodeJSON reads a single JSON value from the request body into dst.
//
// An empty body decodes as {} so that validation can report every missing
// field. It writes the error response itself and returns false when the
// body is over the size limit (413) or is not valid JSON (400). The limit
// is enforced upstream by http.MaxBytesReader (chi's RequestSize middleware).
func decodeJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		logger.Warn("request body too large",
			slog.String("path", r.URL.Path),
			slog.Int64("limit", tooLarge.Limit),
		)
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:   "payload_too_large",
			Message: msgTooLarge,
		})
		return false
	}

	logger.Debug("invalid request JSON", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: msgInvalidJSON,
	})
	return false
}
