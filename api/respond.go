package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"deadpigeons/domain/apperror"

	log "github.com/sirupsen/logrus"
)

// errorResponse is the JSON shape of every non-2xx response
type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			log.WithError(err).Error("Failed to encode response body")
		}
	}
}

// writeError maps a domain error onto an HTTP status. Raw internal errors
// are logged but never exposed in the response body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		writeJSON(w, statusFor(appErr.Kind), errorResponse{
			Error:  appErr.Message,
			Reason: string(appErr.Reason),
		})
		return
	}

	log.WithError(err).WithFields(log.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}).Error("Unhandled error")
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindInsufficientBalance:
		return http.StatusPaymentRequired
	case apperror.KindState, apperror.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
