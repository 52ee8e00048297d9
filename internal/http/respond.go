package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"budgetbook/internal/core"
	"budgetbook/internal/middleware/trace"
	"budgetbook/internal/reconcile"
	"budgetbook/internal/session"
	"budgetbook/internal/store"
)

type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	s.writeJSON(w, status, errorResponse{Error: errorBody{
		Code:      code,
		Message:   message,
		RequestID: trace.GetRequestID(r.Context()),
	}})
}

// writeDomainError maps domain errors to HTTP statuses. Validation problems
// are the client's fault; a missing remote configuration is a deliberate
// conflict; everything else is a storage-level 500.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case isValidationError(err):
		s.writeError(w, r, http.StatusUnprocessableEntity, "invalid_input", err.Error())
	case errors.Is(err, reconcile.ErrNotConfigured):
		s.writeError(w, r, http.StatusConflict, "not_configured", err.Error())
	case errors.Is(err, session.ErrNotLoggedIn):
		s.writeError(w, r, http.StatusUnauthorized, "not_logged_in", err.Error())
	default:
		var serr *store.StorageError
		if errors.As(err, &serr) {
			s.logger.ErrorContext(r.Context(), "storage failure", "error", err)
			s.writeError(w, r, http.StatusInternalServerError, "storage_failed", "local storage failed")
			return
		}
		s.logger.ErrorContext(r.Context(), "request failed", "error", err)
		s.writeError(w, r, http.StatusInternalServerError, "internal", "internal error")
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidDate, core.ErrInvalidAmount, core.ErrInvalidKind,
		core.ErrEmptyDescription, core.ErrEmptyCategory,
		session.ErrEmptyEmail, session.ErrEmptyPassword,
		session.ErrEmptyName, session.ErrEmptyToken,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
