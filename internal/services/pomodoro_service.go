package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/studyflow/studyflow/internal/errors"
	"github.com/studyflow/studyflow/internal/jobs"
	"github.com/studyflow/studyflow/internal/logger"
	"github.com/studyflow/studyflow/internal/models"
	"github.com/studyflow/studyflow/internal/pomodoro"
	"github.com/studyflow/studyflow/internal/repository"
)

// PomodoroService owns the live pomodoro state machines, one per
// profile. All state lives behind a single mutex; the per-session
// ticker goroutine is the only clock, and it checks the state's
// generation key on every tick so a stale timer left over from a
// manual transition stops itself instead of double-ticking.
type PomodoroService interface {
	State(ctx context.Context, profileID int64) pomodoro.State
	Start(ctx context.Context, profileID, itemID int64, itemType models.ItemType, customDurationSeconds int) (pomodoro.State, error)
	Pause(ctx context.Context, profileID int64) pomodoro.State
	Resume(ctx context.Context, profileID int64) pomodoro.State
	AdvanceCycle(ctx context.Context, profileID int64) pomodoro.State
	ContinueToBreak(ctx context.Context, profileID int64) (pomodoro.State, error)
	SkipToBreak(ctx context.Context, profileID int64) pomodoro.State
	EndSession(ctx context.Context, profileID int64) pomodoro.State

	GetSettings(ctx context.Context, profileID int64) (*models.PomodoroSettings, error)
	SaveSettings(ctx context.Context, profileID int64, settings models.PomodoroSettings) error
}

type pomodoroSession struct {
	engine pomodoro.Engine
	state  pomodoro.State
	day    string // calendar day the completion counter belongs to
}

type pomodoroService struct {
	mu       sync.Mutex
	sessions map[int64]*pomodoroSession

	settingsRepo repository.SettingsRepository
	subjectRepo  repository.SubjectRepository
	seqRepo      repository.SequenceRepository
	queue        jobs.JobQueue
	defaults     models.PomodoroSettings
	log          *logger.Logger
}

// NewPomodoroService creates a new PomodoroService. defaults fills in
// break lengths and cycle count for profiles that never saved settings.
func NewPomodoroService(
	settingsRepo repository.SettingsRepository,
	subjectRepo repository.SubjectRepository,
	seqRepo repository.SequenceRepository,
	queue jobs.JobQueue,
	defaults models.PomodoroSettings,
) PomodoroService {
	return &pomodoroService{
		sessions:     make(map[int64]*pomodoroSession),
		settingsRepo: settingsRepo,
		subjectRepo:  subjectRepo,
		seqRepo:      seqRepo,
		queue:        queue,
		defaults:     defaults,
		log:          logger.Default().WithPrefix("pomodoro"),
	}
}

func (s *pomodoroService) State(ctx context.Context, profileID int64) pomodoro.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[profileID]; ok {
		s.rolloverLocked(sess)
		return sess.state
	}
	return pomodoro.Idle()
}

func (s *pomodoroService) Start(ctx context.Context, profileID, itemID int64, itemType models.ItemType, customDurationSeconds int) (pomodoro.State, error) {
	settings, err := s.GetSettings(ctx, profileID)
	if err != nil {
		return pomodoro.Idle(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[profileID]
	if !ok {
		sess = &pomodoroSession{state: pomodoro.Idle()}
		s.sessions[profileID] = sess
	}
	s.rolloverLocked(sess)
	// Settings are snapshotted per session; edits apply from the next start.
	if sess.state.Status == pomodoro.StatusIdle {
		sess.engine = pomodoro.NewEngine(*settings)
	}

	next, err := sess.engine.Start(sess.state, itemID, itemType, customDurationSeconds)
	if err != nil {
		return sess.state, err
	}
	s.applyLocked(profileID, sess, next)
	return sess.state, nil
}

func (s *pomodoroService) Pause(ctx context.Context, profileID int64) pomodoro.State {
	return s.transition(profileID, func(sess *pomodoroSession) pomodoro.State {
		return sess.engine.Pause(sess.state)
	})
}

func (s *pomodoroService) Resume(ctx context.Context, profileID int64) pomodoro.State {
	return s.transition(profileID, func(sess *pomodoroSession) pomodoro.State {
		return sess.engine.Resume(sess.state)
	})
}

func (s *pomodoroService) AdvanceCycle(ctx context.Context, profileID int64) pomodoro.State {
	return s.transition(profileID, func(sess *pomodoroSession) pomodoro.State {
		return sess.engine.AdvanceCycle(sess.state)
	})
}

func (s *pomodoroService) ContinueToBreak(ctx context.Context, profileID int64) (pomodoro.State, error) {
	s.mu.Lock()
	sess, ok := s.sessions[profileID]
	if !ok {
		s.mu.Unlock()
		return pomodoro.Idle(), nil
	}
	s.rolloverLocked(sess)
	next, req := sess.engine.ContinueToBreak(sess.state)
	s.applyLocked(profileID, sess, next)
	state := sess.state
	s.mu.Unlock()

	if req != nil {
		// The state machine has already advanced; the log write rides the
		// worker pool and must not block or fail the transition.
		if err := s.enqueueLog(ctx, profileID, *req); err != nil {
			logger.FromContext(ctx).Warn("failed to enqueue pomodoro log: %v", err)
		}
	}
	return state, nil
}

func (s *pomodoroService) SkipToBreak(ctx context.Context, profileID int64) pomodoro.State {
	return s.transition(profileID, func(sess *pomodoroSession) pomodoro.State {
		return sess.engine.SkipToBreak(sess.state)
	})
}

func (s *pomodoroService) EndSession(ctx context.Context, profileID int64) pomodoro.State {
	return s.transition(profileID, func(sess *pomodoroSession) pomodoro.State {
		return sess.engine.EndSession(sess.state)
	})
}

func (s *pomodoroService) GetSettings(ctx context.Context, profileID int64) (*models.PomodoroSettings, error) {
	log := logger.FromContext(ctx)

	settings, err := s.settingsRepo.Get(ctx, profileID)
	if err != nil {
		log.Error("failed to load pomodoro settings: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if settings == nil {
		defaults := s.defaults
		return &defaults, nil
	}
	if settings.ShortBreakSeconds <= 0 {
		settings.ShortBreakSeconds = s.defaults.ShortBreakSeconds
	}
	if settings.LongBreakSeconds <= 0 {
		settings.LongBreakSeconds = s.defaults.LongBreakSeconds
	}
	if settings.CyclesUntilLongBreak < 1 {
		settings.CyclesUntilLongBreak = s.defaults.CyclesUntilLongBreak
	}
	return settings, nil
}

func (s *pomodoroService) SaveSettings(ctx context.Context, profileID int64, settings models.PomodoroSettings) error {
	log := logger.FromContext(ctx)
	log.Debug("saving pomodoro settings: profile_id=%d tasks=%d", profileID, len(settings.Tasks))

	for _, task := range settings.Tasks {
		if task.DurationSeconds <= 0 {
			return errors.NewValidationError("tasks", "task durations must be positive")
		}
	}
	if settings.CyclesUntilLongBreak < 1 {
		return errors.NewValidationError("cycles_until_long_break", "must be at least 1")
	}

	if err := s.settingsRepo.Save(ctx, profileID, settings); err != nil {
		log.Error("failed to save pomodoro settings: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

// transition applies an engine transition under the lock and restarts
// the ticker if the resulting state needs one.
func (s *pomodoroService) transition(profileID int64, fn func(*pomodoroSession) pomodoro.State) pomodoro.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[profileID]
	if !ok {
		return pomodoro.Idle()
	}
	s.rolloverLocked(sess)
	s.applyLocked(profileID, sess, fn(sess))
	return sess.state
}

// rolloverLocked zeroes the daily completion counter when the calendar
// day has changed since the session was last touched. The engine is
// deliberately clock-free; the service owns wall time.
func (s *pomodoroService) rolloverLocked(sess *pomodoroSession) {
	today := time.Now().Format("2006-01-02")
	if sess.day != today {
		sess.day = today
		sess.state.CompletedToday = 0
	}
}

// applyLocked commits a new state and spawns a ticker for it when the
// countdown should be live. Old tickers key off the previous generation
// and exit on their next tick.
func (s *pomodoroService) applyLocked(profileID int64, sess *pomodoroSession, next pomodoro.State) {
	prevKey := sess.state.Key
	sess.state = next
	if next.Key != prevKey && s.tickable(next) {
		go s.runTicker(profileID, next.Key)
	}
}

func (s *pomodoroService) tickable(state pomodoro.State) bool {
	switch state.Status {
	case pomodoro.StatusFocus, pomodoro.StatusShortBreak, pomodoro.StatusLongBreak:
		return state.Pending == nil
	}
	return false
}

// runTicker drives one generation of a session's countdown at one tick
// per second. It holds the mutex only for the duration of each tick, so
// API transitions interleave cleanly; any transition bumps the
// generation key and orphans this loop.
func (s *pomodoroService) runTicker(profileID int64, key uint64) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		sess, ok := s.sessions[profileID]
		if !ok || sess.state.Key != key || !s.tickable(sess.state) {
			s.mu.Unlock()
			return
		}

		next := sess.engine.Tick(sess.state)
		s.applyLocked(profileID, sess, next)

		// A focus phase that ran out parks in a pending confirmation;
		// a finished break bumps the key and hands off to a new ticker.
		done := !s.tickable(sess.state) || sess.state.Key != key
		s.mu.Unlock()
		if done {
			return
		}
	}
}

// enqueueLog turns a confirmed focus segment into a study-log entry and
// hands it to the worker pool. The entry is attributed to the active
// sequence's cursor item when the studied subject matches it.
func (s *pomodoroService) enqueueLog(ctx context.Context, profileID int64, req pomodoro.LogRequest) error {
	minutes := req.DurationSeconds / 60
	if minutes <= 0 {
		s.log.Debug("focus segment under a minute, not logging: profile_id=%d", profileID)
		return nil
	}

	entry := models.StudyLogEntry{
		ProfileID:       profileID,
		Date:            time.Now(),
		DurationMinutes: minutes,
		Source:          models.LogSourcePomodoro,
	}

	switch req.ItemType {
	case models.ItemTypeTopic:
		topic, err := s.subjectRepo.GetTopic(ctx, req.ItemID)
		if err != nil {
			return err
		}
		if topic == nil {
			return errors.NewNotFoundError("topic", req.ItemID)
		}
		entry.SubjectID = topic.SubjectID
		entry.TopicID = topic.ID
	case models.ItemTypeRevision:
		subject, err := s.subjectRepo.Get(ctx, req.ItemID)
		if err != nil {
			return err
		}
		if subject == nil {
			return errors.NewNotFoundError("subject", req.ItemID)
		}
		entry.SubjectID = subject.ID
		entry.Source = fmt.Sprintf("%s%d", models.RevisionSourcePrefix, subject.RevisionProgress+1)
	default:
		return errors.NewValidationError("item_type", "must be topic or revision")
	}

	seq, cursor, err := s.seqRepo.GetActive(ctx, profileID)
	if err != nil {
		s.log.Warn("failed to load active sequence for attribution: %v", err)
	} else if seq != nil && cursor < len(seq.Items) && seq.Items[cursor].SubjectID == entry.SubjectID {
		idx := cursor
		entry.SequenceItemIndex = &idx
	}

	return s.queue.EnqueueStudyLog(entry)
}
