package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/studyflow/studyflow/internal/errors"
	"github.com/studyflow/studyflow/internal/models"
)

// logFilterFromQuery builds a study-log filter from query parameters.
// Dates are expected as YYYY-MM-DD.
func logFilterFromQuery(r *http.Request, profileID int64) (models.StudyLogFilter, error) {
	q := r.URL.Query()
	filter := models.StudyLogFilter{ProfileID: profileID}

	if v := q.Get("subject_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, errors.NewBadRequestError("invalid subject_id: " + v)
		}
		filter.SubjectID = id
	}
	filter.Source = q.Get("source")

	if v := q.Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, errors.NewBadRequestError("invalid from date: " + v)
		}
		filter.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, errors.NewBadRequestError("invalid to date: " + v)
		}
		filter.To = &t
	}

	filter.Limit = 100
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 && v <= 500 {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		filter.Offset = v
	}
	return filter, nil
}

func (s *Server) handleStudyLogs(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	filter, err := logFilterFromQuery(r, profile.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	entries, err := s.StudyService.ListLogs(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"logs": entries})
}

func (s *Server) handleCreateStudyLog(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	var entry models.StudyLogEntry
	if err := decodeJSON(r, &entry); err != nil {
		handleError(w, r, err)
		return
	}
	entry.ProfileID = profile.ID

	created, err := s.StudyService.AppendLog(r.Context(), entry)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, created)
}

func (s *Server) handleUpdateStudyLog(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var entry models.StudyLogEntry
	if err := decodeJSON(r, &entry); err != nil {
		handleError(w, r, err)
		return
	}
	entry.ID = id

	if err := s.StudyService.UpdateLog(r.Context(), entry); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, entry)
}

func (s *Server) handleDeleteStudyLog(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.StudyService.DeleteLog(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusNoContent, nil)
}

// handleStudyStats aggregates studied minutes per subject over the
// filtered window.
func (s *Server) handleStudyStats(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	filter, err := logFilterFromQuery(r, profile.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	stats, err := s.StudyService.SubjectTimeStats(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"stats": stats})
}
