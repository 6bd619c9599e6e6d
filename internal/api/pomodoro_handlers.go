package api

import (
	"net/http"

	"github.com/studyflow/studyflow/internal/models"
)

func (s *Server) handlePomodoroState(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())
	respondJSON(w, r, http.StatusOK, s.PomodoroService.State(r.Context(), profile.ID))
}

func (s *Server) handlePomodoroStart(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	var req struct {
		ItemID                int64  `json:"item_id"`
		ItemType              string `json:"item_type"`
		CustomDurationSeconds int    `json:"custom_duration_seconds"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	state, err := s.PomodoroService.Start(r.Context(), profile.ID, req.ItemID, models.ItemType(req.ItemType), req.CustomDurationSeconds)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

func (s *Server) handlePomodoroPause(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())
	respondJSON(w, r, http.StatusOK, s.PomodoroService.Pause(r.Context(), profile.ID))
}

func (s *Server) handlePomodoroResume(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())
	respondJSON(w, r, http.StatusOK, s.PomodoroService.Resume(r.Context(), profile.ID))
}

func (s *Server) handlePomodoroAdvance(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())
	respondJSON(w, r, http.StatusOK, s.PomodoroService.AdvanceCycle(r.Context(), profile.ID))
}

func (s *Server) handlePomodoroContinue(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	state, err := s.PomodoroService.ContinueToBreak(r.Context(), profile.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

func (s *Server) handlePomodoroSkip(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())
	respondJSON(w, r, http.StatusOK, s.PomodoroService.SkipToBreak(r.Context(), profile.ID))
}

func (s *Server) handlePomodoroEnd(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())
	respondJSON(w, r, http.StatusOK, s.PomodoroService.EndSession(r.Context(), profile.ID))
}

func (s *Server) handlePomodoroSettings(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	settings, err := s.PomodoroService.GetSettings(r.Context(), profile.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, settings)
}

func (s *Server) handleSavePomodoroSettings(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	var settings models.PomodoroSettings
	if err := decodeJSON(r, &settings); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.PomodoroService.SaveSettings(r.Context(), profile.ID, settings); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, settings)
}
