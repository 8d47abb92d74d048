package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// LoginRequest represents the admin login form
type LoginRequest struct {
	Password string `json:"password"`
}

// Login checks the admin password and sets the session cookie on a match.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cookie, err := h.auth.Login(req.Password)
	if err != nil {
		log.Ctx(r.Context()).Warn().Msg("Admin login rejected")
		writeAppError(w, err, "Invalid password")
		return
	}

	http.SetCookie(w, cookie)
	writeJSON(w, http.StatusOK, APIResponse{Success: true})
}

// Logout always succeeds and expires the session cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.auth.ClearedCookie())
	writeJSON(w, http.StatusOK, APIResponse{Success: true})
}
