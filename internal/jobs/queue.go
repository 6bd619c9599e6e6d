package jobs

import "github.com/studyflow/studyflow/internal/models"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueStudyLog(entry models.StudyLogEntry) error
}
