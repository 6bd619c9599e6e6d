package api

import (
	"net/http"

	"github.com/studyflow/studyflow/internal/models"
)

func (s *Server) handleSubjects(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	subjects, err := s.StudyService.ListSubjects(r.Context(), profile.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"subjects": subjects})
}

func (s *Server) handleSubjectDetail(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	subject, err := s.StudyService.GetSubject(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, subject)
}

func (s *Server) handleCreateSubject(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	var subject models.Subject
	if err := decodeJSON(r, &subject); err != nil {
		handleError(w, r, err)
		return
	}
	subject.ProfileID = profile.ID

	created, err := s.StudyService.CreateSubject(r.Context(), subject)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, created)
}

func (s *Server) handleUpdateSubject(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var subject models.Subject
	if err := decodeJSON(r, &subject); err != nil {
		handleError(w, r, err)
		return
	}
	subject.ID = id
	subject.ProfileID = profileFromContext(r.Context()).ID

	if err := s.StudyService.UpdateSubject(r.Context(), subject); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, subject)
}

func (s *Server) handleDeleteSubject(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.StudyService.DeleteSubject(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleCreateTopic(w http.ResponseWriter, r *http.Request) {
	subjectID, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var topic models.Topic
	if err := decodeJSON(r, &topic); err != nil {
		handleError(w, r, err)
		return
	}
	topic.SubjectID = subjectID

	created, err := s.StudyService.CreateTopic(r.Context(), topic)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, created)
}

func (s *Server) handleUpdateTopic(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var topic models.Topic
	if err := decodeJSON(r, &topic); err != nil {
		handleError(w, r, err)
		return
	}
	topic.ID = id

	if err := s.StudyService.UpdateTopic(r.Context(), topic); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, topic)
}

func (s *Server) handleDeleteTopic(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.StudyService.DeleteTopic(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusNoContent, nil)
}
