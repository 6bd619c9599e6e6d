package models

// PomodoroTask is one ordered focus segment of a pomodoro session.
type PomodoroTask struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	DurationSeconds int    `json:"duration_seconds"`
}

// PomodoroSettings configures the focus/break cycle.
type PomodoroSettings struct {
	Tasks                []PomodoroTask `json:"tasks"`
	ShortBreakSeconds    int            `json:"short_break_seconds"`
	LongBreakSeconds     int            `json:"long_break_seconds"`
	CyclesUntilLongBreak int            `json:"cycles_until_long_break"` // >= 1
}

// ItemType identifies what a pomodoro session is associated with.
type ItemType string

const (
	ItemTypeTopic    ItemType = "topic"
	ItemTypeRevision ItemType = "revision"
)
