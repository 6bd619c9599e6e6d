package pomodoro

import (
	"github.com/studyflow/studyflow/internal/errors"
	"github.com/studyflow/studyflow/internal/models"
)

// Status is the phase of the pomodoro state machine.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusFocus      Status = "focus"
	StatusShortBreak Status = "short_break"
	StatusLongBreak  Status = "long_break"
	StatusPaused     Status = "paused"
)

// running reports whether the countdown is live in this status.
func (s Status) running() bool {
	return s == StatusFocus || s == StatusShortBreak || s == StatusLongBreak
}

// PendingLog is a focus completion awaiting the user's confirmation.
// The elapsed time is captured at the moment the phase completed, before
// the remaining time was zeroed; recomputing later would misreport a
// skipped-forward session as a full one.
type PendingLog struct {
	ElapsedSeconds int             `json:"elapsed_seconds"`
	ItemID         int64           `json:"item_id"`
	ItemType       models.ItemType `json:"item_type"`
	TaskIndex      int             `json:"task_index"` // -1 for custom-duration sessions
}

// LogRequest asks the caller to append a study-log entry for a confirmed
// focus segment.
type LogRequest struct {
	ItemID          int64
	ItemType        models.ItemType
	DurationSeconds int
}

// State is an immutable snapshot of the machine. All transitions return a
// new State. Key is a generation counter: it changes whenever the ticking
// loop must be restarted, so a stale timer can recognize itself and stop.
type State struct {
	Status           Status          `json:"status"`
	TimeRemaining    int             `json:"time_remaining"` // seconds
	CurrentTaskIndex int             `json:"current_task_index"` // -1 when custom or not in a task
	CurrentCycle     int             `json:"current_cycle"`
	ItemID           int64           `json:"item_id"`
	ItemType         models.ItemType `json:"item_type"`
	PreviousStatus   Status          `json:"previous_status,omitempty"` // set only while paused
	OriginalDuration int             `json:"original_duration"`
	IsCustomDuration bool            `json:"is_custom_duration"`
	Key              uint64          `json:"key"`
	CompletedToday   int             `json:"completed_today"` // reset at day rollover by the caller; the engine is clock-free
	Pending          *PendingLog     `json:"pending,omitempty"`
}

// Idle is the initial state.
func Idle() State {
	return State{Status: StatusIdle, CurrentTaskIndex: -1}
}

// Engine applies transitions against a fixed settings snapshot. It owns no
// mutable state; the caller holds the State and the timer.
type Engine struct {
	Settings models.PomodoroSettings
}

func NewEngine(settings models.PomodoroSettings) Engine {
	if settings.CyclesUntilLongBreak < 1 {
		settings.CyclesUntilLongBreak = 1
	}
	return Engine{Settings: settings}
}

// Start begins a focus session for an item. It requires either a
// configured task list or an explicit custom duration; otherwise it fails
// with a configuration error and the state is unchanged. Starting while a
// session is already running is a no-op.
func (e Engine) Start(s State, itemID int64, itemType models.ItemType, customDurationSeconds int) (State, error) {
	if s.Status != StatusIdle {
		return s, nil
	}
	if customDurationSeconds <= 0 && len(e.Settings.Tasks) == 0 {
		return s, errors.NewConfigurationError("no pomodoro tasks configured and no custom duration given")
	}

	next := s
	next.Status = StatusFocus
	next.ItemID = itemID
	next.ItemType = itemType
	next.CurrentCycle = 0
	next.Pending = nil
	next.PreviousStatus = ""
	next.Key = s.Key + 1

	if customDurationSeconds > 0 {
		next.IsCustomDuration = true
		next.CurrentTaskIndex = -1
		next.TimeRemaining = customDurationSeconds
		next.OriginalDuration = customDurationSeconds
	} else {
		next.IsCustomDuration = false
		next.CurrentTaskIndex = 0
		next.TimeRemaining = e.Settings.Tasks[0].DurationSeconds
		next.OriginalDuration = e.Settings.Tasks[0].DurationSeconds
	}
	return next, nil
}

// Pause freezes a running countdown, remembering the phase to resume into.
// A no-op unless the machine is in a running phase.
func (e Engine) Pause(s State) State {
	if !s.Status.running() {
		return s
	}
	next := s
	next.PreviousStatus = s.Status
	next.Status = StatusPaused
	next.Key = s.Key + 1
	return next
}

// Resume returns a paused machine to the phase it was in. The generation
// key changes so the ticking loop restarts cleanly. A no-op when not paused.
func (e Engine) Resume(s State) State {
	if s.Status != StatusPaused || s.PreviousStatus == "" {
		return s
	}
	next := s
	next.Status = s.PreviousStatus
	next.PreviousStatus = ""
	next.Key = s.Key + 1
	return next
}

// Tick advances the countdown by one second. Ticks are no-ops outside
// running phases and while a confirmation is pending, so a stale timer
// firing after a manual transition mutates nothing. Reaching zero
// triggers the phase-completion transition.
func (e Engine) Tick(s State) State {
	if !s.Status.running() || s.Pending != nil {
		return s
	}
	next := s
	next.TimeRemaining = s.TimeRemaining - 1
	if next.TimeRemaining > 0 {
		return next
	}
	next.TimeRemaining = 0
	return e.completePhase(next, e.elapsedSeconds(next))
}

// AdvanceCycle skips the rest of the current phase, triggering the same
// completion logic as a natural timeout. For a focus phase the elapsed
// time is captured at the moment of the call, not after the jump to zero.
func (e Engine) AdvanceCycle(s State) State {
	if !s.Status.running() || s.Pending != nil {
		return s
	}
	elapsed := e.elapsedSeconds(s)
	next := s
	next.TimeRemaining = 0
	return e.completePhase(next, elapsed)
}

// ContinueToBreak resolves a pending focus confirmation by logging the
// elapsed time: it returns a LogRequest the caller must append, then
// advances to the next task, or to a break when the task list is
// exhausted. A no-op without a pending confirmation.
func (e Engine) ContinueToBreak(s State) (State, *LogRequest) {
	if s.Pending == nil {
		return s, nil
	}
	req := &LogRequest{
		ItemID:          s.Pending.ItemID,
		ItemType:        s.Pending.ItemType,
		DurationSeconds: s.Pending.ElapsedSeconds,
	}
	return e.afterFocus(s), req
}

// SkipToBreak resolves a pending focus confirmation without logging.
func (e Engine) SkipToBreak(s State) State {
	if s.Pending == nil {
		return s
	}
	return e.afterFocus(s)
}

// EndSession abandons the session and returns to idle. A confirmation
// that was awaiting resolution is cancelled, never auto-resolved, so no
// log is emitted. The daily completion counter survives.
func (e Engine) EndSession(s State) State {
	next := Idle()
	next.Key = s.Key + 1
	next.CompletedToday = s.CompletedToday
	return next
}

// elapsedSeconds is how much of the current phase has been consumed.
func (e Engine) elapsedSeconds(s State) int {
	return s.OriginalDuration - s.TimeRemaining
}

// completePhase handles a countdown reaching zero. Breaks flow straight
// back into focus; focus completions park in a pending confirmation until
// the caller resolves them.
func (e Engine) completePhase(s State, elapsedFocusSeconds int) State {
	if s.Status == StatusShortBreak || s.Status == StatusLongBreak {
		return e.backToFocus(s)
	}

	next := s
	next.Pending = &PendingLog{
		ElapsedSeconds: elapsedFocusSeconds,
		ItemID:         s.ItemID,
		ItemType:       s.ItemType,
		TaskIndex:      s.CurrentTaskIndex,
	}
	return next
}

// afterFocus moves past a resolved focus completion: next task if any
// remain, otherwise the cycle's break.
func (e Engine) afterFocus(s State) State {
	next := s
	next.Pending = nil

	if !s.IsCustomDuration && s.CurrentTaskIndex+1 < len(e.Settings.Tasks) {
		task := e.Settings.Tasks[s.CurrentTaskIndex+1]
		next.CurrentTaskIndex = s.CurrentTaskIndex + 1
		next.Status = StatusFocus
		next.TimeRemaining = task.DurationSeconds
		next.OriginalDuration = task.DurationSeconds
		next.Key = s.Key + 1
		return next
	}

	if (s.CurrentCycle+1)%e.Settings.CyclesUntilLongBreak == 0 {
		next.Status = StatusLongBreak
		next.TimeRemaining = e.Settings.LongBreakSeconds
		next.OriginalDuration = e.Settings.LongBreakSeconds
	} else {
		next.Status = StatusShortBreak
		next.TimeRemaining = e.Settings.ShortBreakSeconds
		next.OriginalDuration = e.Settings.ShortBreakSeconds
	}
	next.CurrentCycle = s.CurrentCycle + 1
	next.CompletedToday = s.CompletedToday + 1
	next.CurrentTaskIndex = -1
	next.Key = s.Key + 1
	return next
}

// backToFocus is the automatic transition out of a finished break. Breaks
// have no loggable content, so no confirmation is involved. Without a
// task list (custom-duration session) there is nothing to return to and
// the machine goes idle.
func (e Engine) backToFocus(s State) State {
	if len(e.Settings.Tasks) == 0 {
		next := Idle()
		next.Key = s.Key + 1
		next.CompletedToday = s.CompletedToday
		return next
	}
	next := s
	next.Status = StatusFocus
	next.CurrentTaskIndex = 0
	next.TimeRemaining = e.Settings.Tasks[0].DurationSeconds
	next.OriginalDuration = e.Settings.Tasks[0].DurationSeconds
	next.IsCustomDuration = false
	next.Key = s.Key + 1
	return next
}
