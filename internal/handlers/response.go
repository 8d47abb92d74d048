package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/AnshRaj112/bellaciao-guestbook/pkg/errors"
)

// APIResponse is the envelope every JSON endpoint answers with
type APIResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIResponse{Success: false, Error: message})
}

// writeAppError converts a service error into the client envelope. Causes
// wrapped inside storage errors stay in the logs.
func writeAppError(w http.ResponseWriter, err error, fallback string) {
	writeError(w, apperrors.HTTPStatus(err), apperrors.PublicMessage(err, fallback))
}
