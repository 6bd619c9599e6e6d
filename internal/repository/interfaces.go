package repository

import (
	"context"

	"github.com/studyflow/studyflow/internal/models"
)

// ProfileRepository handles profile data access
type ProfileRepository interface {
	Get(ctx context.Context, id int64) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Upsert(ctx context.Context, username string) (*models.Profile, error)
	Delete(ctx context.Context, id int64) error
}

// SubjectRepository handles subject and topic data access
type SubjectRepository interface {
	Get(ctx context.Context, id int64) (*models.Subject, error)
	List(ctx context.Context, profileID int64) ([]models.Subject, error)
	Insert(ctx context.Context, subject models.Subject) (int64, error)
	Update(ctx context.Context, subject models.Subject) error
	Delete(ctx context.Context, id int64) error
	IncrementRevisionProgress(ctx context.Context, id int64) error

	TopicsForSubject(ctx context.Context, subjectID int64) ([]models.Topic, error)
	GetTopic(ctx context.Context, id int64) (*models.Topic, error)
	InsertTopic(ctx context.Context, topic models.Topic) (int64, error)
	UpdateTopic(ctx context.Context, topic models.Topic) error
	// DeleteTopic removes a topic and reassigns the remaining topics'
	// order values so they stay dense and contiguous from 0.
	DeleteTopic(ctx context.Context, id int64) error
}

// StudyLogRepository handles study-log data access
type StudyLogRepository interface {
	Get(ctx context.Context, id int64) (*models.StudyLogEntry, error)
	List(ctx context.Context, filter models.StudyLogFilter) ([]models.StudyLogEntry, error)
	Insert(ctx context.Context, entry models.StudyLogEntry) (int64, error)
	Update(ctx context.Context, entry models.StudyLogEntry) error
	Delete(ctx context.Context, id int64) error
	SubjectTimeStats(ctx context.Context, filter models.StudyLogFilter) ([]models.SubjectTimeStat, error)
}

// SequenceRepository handles study-sequence data access. A profile has at
// most one active sequence; Save replaces it wholesale.
type SequenceRepository interface {
	GetActive(ctx context.Context, profileID int64) (*models.StudySequence, int, error)
	Save(ctx context.Context, profileID int64, seq models.StudySequence, cursor int) (int64, error)
	UpdateProgress(ctx context.Context, seq models.StudySequence, cursor int) error
	Delete(ctx context.Context, profileID int64) error
}

// SettingsRepository handles pomodoro settings data access
type SettingsRepository interface {
	Get(ctx context.Context, profileID int64) (*models.PomodoroSettings, error)
	Save(ctx context.Context, profileID int64, settings models.PomodoroSettings) error
}

// FlashcardRepository handles flashcard data access
type FlashcardRepository interface {
	Get(ctx context.Context, id int64) (*models.Flashcard, error)
	Due(ctx context.Context, profileID int64, limit int) ([]models.Flashcard, error)
	Insert(ctx context.Context, card models.Flashcard) (int64, error)
	Update(ctx context.Context, card models.Flashcard) error
	Delete(ctx context.Context, id int64) error
	InsertReviewHistory(ctx context.Context, flashcardID int64, rating models.Rating, timeSeconds float64) error
}
