package api

import (
	"net/http"

	"github.com/studyflow/studyflow/internal/allocator"
	"github.com/studyflow/studyflow/internal/models"
)

func (s *Server) handleAllocate(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	var req struct {
		Mode         string `json:"mode"`
		TotalMinutes int    `json:"total_minutes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.PlannerService.Allocate(r.Context(), profile.ID, allocator.DistributionMode(req.Mode), req.TotalMinutes)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, result)
}

func (s *Server) handlePlanSessions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TotalWeeklyMinutes     int   `json:"total_weekly_minutes"`
		SessionDurationMinutes int   `json:"session_duration_minutes"`
		Requested              []int `json:"requested"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	plan, err := s.PlannerService.PlanSessions(r.Context(), req.TotalWeeklyMinutes, req.SessionDurationMinutes, req.Requested)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, plan)
}

func (s *Server) handleSequence(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	snap, err := s.PlannerService.ActiveSequence(r.Context(), profile.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if snap == nil {
		respondJSON(w, r, http.StatusOK, map[string]any{"sequence": nil})
		return
	}
	respondJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleSaveSequence(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	var seq models.StudySequence
	if err := decodeJSON(r, &seq); err != nil {
		handleError(w, r, err)
		return
	}

	snap, err := s.PlannerService.SaveSequence(r.Context(), profile.ID, seq)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleResetSequence(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	snap, err := s.PlannerService.ResetSequence(r.Context(), profile.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleDeleteSequence(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	if err := s.PlannerService.DeleteSequence(r.Context(), profile.ID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusNoContent, nil)
}
