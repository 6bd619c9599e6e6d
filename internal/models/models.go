package models

import "time"

type Profile struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// KnowledgeLevel ranks how familiar the user already is with a subject.
// It drives the priority cascade in the automatic allocator.
type KnowledgeLevel string

const (
	LevelBeginner     KnowledgeLevel = "beginner"
	LevelIntermediate KnowledgeLevel = "intermediate"
	LevelAdvanced     KnowledgeLevel = "advanced"
)

// Valid reports whether the level is one of the three known values.
func (k KnowledgeLevel) Valid() bool {
	switch k {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

type Subject struct {
	ID               int64          `json:"id"`
	ProfileID        int64          `json:"profile_id"`
	Name             string         `json:"name"`
	Color            string         `json:"color"`
	Description      string         `json:"description"`
	MaterialURL      string         `json:"material_url"`
	StudyDuration    int            `json:"study_duration"` // minutes; per-session completion goal
	KnowledgeLevel   KnowledgeLevel `json:"knowledge_level"`
	Weight           float64        `json:"weight"` // manual allocation multiplier, default 1
	RevisionProgress int            `json:"revision_progress"`
	CreatedAt        time.Time      `json:"created_at"`
	Topics           []Topic        `json:"topics,omitempty"`
}

type Topic struct {
	ID          int64  `json:"id"`
	SubjectID   int64  `json:"subject_id"`
	Name        string `json:"name"`
	Order       int    `json:"order"` // dense, contiguous from 0 within the subject
	IsCompleted bool   `json:"is_completed"`
}

// StudyLogEntry records a completed interval of study time.
// SequenceItemIndex, when set, attributes the entry to an item of the
// active study sequence.
type StudyLogEntry struct {
	ID                int64     `json:"id"`
	ProfileID         int64     `json:"profile_id"`
	SubjectID         int64     `json:"subject_id"`
	TopicID           int64     `json:"topic_id"`
	Date              time.Time `json:"date"`
	DurationMinutes   int       `json:"duration_minutes"`
	StartPage         int       `json:"start_page,omitempty"`
	EndPage           int       `json:"end_page,omitempty"`
	Questions         int       `json:"questions,omitempty"`
	Correct           int       `json:"correct,omitempty"`
	Source            string    `json:"source"`
	SequenceItemIndex *int      `json:"sequence_item_index,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// Log sources.
const (
	LogSourceManual   = "manual"
	LogSourcePomodoro = "pomodoro"

	// RevisionSourcePrefix marks entries produced by a revision-cycle step,
	// e.g. "revision:2". Appending one bumps the subject's RevisionProgress.
	RevisionSourcePrefix = "revision:"
)

type StudySequenceItem struct {
	SubjectID        int64 `json:"subject_id"`
	TotalTimeStudied int   `json:"total_time_studied"` // accumulated minutes
}

type StudySequence struct {
	ID    int64               `json:"id"`
	Name  string              `json:"name"`
	Items []StudySequenceItem `json:"items"`
}

type StudyLogFilter struct {
	ProfileID int64
	SubjectID int64
	Source    string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// SubjectTimeStat aggregates studied minutes per subject over a window.
type SubjectTimeStat struct {
	SubjectID    int64  `json:"subject_id"`
	SubjectName  string `json:"subject_name"`
	TotalMinutes int    `json:"total_minutes"`
	Entries      int    `json:"entries"`
}
