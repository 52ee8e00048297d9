package http

import (
	"net/http"

	"budgetbook/internal/session"
	"budgetbook/internal/store"
)

type authResponse struct {
	User  session.User `json:"user"`
	Token string       `json:"token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	user, token, err := s.sess.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	user, token, err := s.sess.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sess.Logout(r.Context()); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		LoggedOut bool `json:"logged_out"`
	}{true})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := s.sess.User()
	if !ok {
		s.writeDomainError(w, r, session.ErrNotLoggedIn)
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		User            session.User `json:"user"`
		SheetsConnected bool         `json:"sheets_connected"`
	}{user, s.sess.SheetsConnected()})
}

func (s *Server) handleConnectSheets(w http.ResponseWriter, r *http.Request) {
	var req connectSheetsRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := s.sess.ConnectOAuth(r.Context(), req.Token); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		SheetsConnected bool `json:"sheets_connected"`
	}{true})
}

type preferencesDTO struct {
	DarkMode      bool `json:"dark_mode"`
	Notifications bool `json:"notifications"`
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs := preferencesDTO{Notifications: true}
	if _, err := store.GetJSON(r.Context(), s.st, store.KeyDarkMode, &prefs.DarkMode); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if _, err := store.GetJSON(r.Context(), s.st, store.KeyNotifications, &prefs.Notifications); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, prefs)
}

func (s *Server) handleSetPreferences(w http.ResponseWriter, r *http.Request) {
	var req preferencesRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.DarkMode != nil {
		if err := store.SetJSON(r.Context(), s.st, store.KeyDarkMode, *req.DarkMode); err != nil {
			s.writeDomainError(w, r, err)
			return
		}
	}
	if req.Notifications != nil {
		if err := store.SetJSON(r.Context(), s.st, store.KeyNotifications, *req.Notifications); err != nil {
			s.writeDomainError(w, r, err)
			return
		}
	}
	s.handleGetPreferences(w, r)
}
