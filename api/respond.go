package api

import (
	"chat-presence/errors"
	"encoding/json"
	stderrors "errors"
	"net/http"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps an outcome of the services to its HTTP status code.
func statusFor(err error) int {
	switch {
	case stderrors.Is(err, errors.ErrValidationFailed),
		stderrors.Is(err, errors.ErrUnprocessableState),
		stderrors.Is(err, errors.ErrInvalidArgument):
		return http.StatusUnprocessableEntity
	case stderrors.Is(err, errors.ErrConflict):
		return http.StatusConflict
	case stderrors.Is(err, errors.ErrNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, errors.ErrForbidden):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondFailure writes err with its mapped status.
// Internal failures never leak their detail to the client.
func (h *Handler) respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		respondError(w, status, "internal error")
		return
	}
	h.log.Debug("Request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	respondError(w, status, err.Error())
}
