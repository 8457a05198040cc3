package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"myks/internal/log"
	"myks/internal/settings"
)

type settingsPayload struct {
	WebAppURL string `json:"webAppUrl"`
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	u, err := s.settings.WebAppURL(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Read settings failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, settingsPayload{WebAppURL: u})
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var payload settingsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := s.settings.SetWebAppURL(r.Context(), payload.WebAppURL); err != nil {
		if errors.Is(err, settings.ErrInvalidURL) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.logger.ErrorContext(r.Context(), "Save settings failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, settingsPayload{WebAppURL: payload.WebAppURL})
}
