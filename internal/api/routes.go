package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(s.profileMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Get("/profiles", s.handleProfiles)
	r.Post("/profiles", s.handleCreateProfile)
	r.Post("/profiles/{id}/select", s.handleSelectProfile)
	r.Delete("/profiles/{id}", s.handleDeleteProfile)

	r.Get("/subjects", s.handleSubjects)
	r.Post("/subjects", s.handleCreateSubject)
	r.Get("/subjects/{id}", s.handleSubjectDetail)
	r.Put("/subjects/{id}", s.handleUpdateSubject)
	r.Delete("/subjects/{id}", s.handleDeleteSubject)
	r.Post("/subjects/{id}/topics", s.handleCreateTopic)
	r.Put("/topics/{id}", s.handleUpdateTopic)
	r.Delete("/topics/{id}", s.handleDeleteTopic)

	r.Get("/logs", s.handleStudyLogs)
	r.Post("/logs", s.handleCreateStudyLog)
	r.Put("/logs/{id}", s.handleUpdateStudyLog)
	r.Delete("/logs/{id}", s.handleDeleteStudyLog)
	r.Get("/stats/subjects", s.handleStudyStats)

	r.Post("/plan/allocate", s.handleAllocate)
	r.Post("/plan/sessions", s.handlePlanSessions)
	r.Get("/sequence", s.handleSequence)
	r.Put("/sequence", s.handleSaveSequence)
	r.Post("/sequence/reset", s.handleResetSequence)
	r.Delete("/sequence", s.handleDeleteSequence)

	r.Get("/flashcards", s.handleFlashcards)
	r.Get("/flashcards/next", s.handleNextFlashcard)
	r.Post("/flashcards", s.handleCreateFlashcard)
	r.Post("/flashcards/{id}/review", s.handleReviewFlashcard)
	r.Delete("/flashcards/{id}", s.handleDeleteFlashcard)

	r.Get("/pomodoro", s.handlePomodoroState)
	r.Post("/pomodoro/start", s.handlePomodoroStart)
	r.Post("/pomodoro/pause", s.handlePomodoroPause)
	r.Post("/pomodoro/resume", s.handlePomodoroResume)
	r.Post("/pomodoro/advance", s.handlePomodoroAdvance)
	r.Post("/pomodoro/continue", s.handlePomodoroContinue)
	r.Post("/pomodoro/skip", s.handlePomodoroSkip)
	r.Post("/pomodoro/end", s.handlePomodoroEnd)
	r.Get("/pomodoro/settings", s.handlePomodoroSettings)
	r.Put("/pomodoro/settings", s.handleSavePomodoroSettings)

	return r
}
