package jobs

import (
	"github.com/studyflow/studyflow/internal/models"
	"github.com/studyflow/studyflow/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	pool     *worker.Pool
	appender worker.LogAppender
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, appender worker.LogAppender) JobQueue {
	return &WorkerQueue{
		pool:     pool,
		appender: appender,
	}
}

func (q *WorkerQueue) EnqueueStudyLog(entry models.StudyLogEntry) error {
	q.pool.Submit(&worker.PersistStudyLogJob{
		Appender: q.appender,
		Entry:    entry,
	})
	return nil
}
