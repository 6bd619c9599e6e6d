package worker

import (
	"context"

	"github.com/studyflow/studyflow/internal/logger"
	"github.com/studyflow/studyflow/internal/models"
)

// LogAppender persists a study-log entry together with its side effects
// (sequence credit, revision progress).
type LogAppender interface {
	AppendLog(ctx context.Context, entry models.StudyLogEntry) (*models.StudyLogEntry, error)
}

// PersistStudyLogJob writes a confirmed pomodoro focus segment to the
// study log. The pomodoro state machine advances without waiting for it;
// a failure here is logged but never blocks the session.
type PersistStudyLogJob struct {
	Appender LogAppender
	Entry    models.StudyLogEntry
}

func (j *PersistStudyLogJob) Name() string { return "persist_study_log" }

func (j *PersistStudyLogJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"profile_id": j.Entry.ProfileID,
		"subject_id": j.Entry.SubjectID,
	})

	entry, err := j.Appender.AppendLog(ctx, j.Entry)
	if err != nil {
		log.Error("failed to persist pomodoro study log: %v", err)
		return err
	}
	log.Debug("persisted pomodoro study log: id=%d duration=%dm", entry.ID, entry.DurationMinutes)
	return nil
}
