package services

import (
	"context"

	"github.com/studyflow/studyflow/internal/allocator"
	"github.com/studyflow/studyflow/internal/errors"
	"github.com/studyflow/studyflow/internal/logger"
	"github.com/studyflow/studyflow/internal/models"
	"github.com/studyflow/studyflow/internal/repository"
	"github.com/studyflow/studyflow/internal/sequence"
)

// SessionPlan is the result of manual session-count assignment: each
// requested count clamped so the total never exceeds the weekly budget.
type SessionPlan struct {
	MaxSessions int   `json:"max_sessions"`
	Assigned    []int `json:"assigned"`
	Remaining   int   `json:"remaining"`
}

// PlannerService handles schedule allocation and the study-sequence
// lifecycle.
type PlannerService interface {
	Allocate(ctx context.Context, profileID int64, mode allocator.DistributionMode, totalMinutes int) (*allocator.Result, error)
	PlanSessions(ctx context.Context, totalWeeklyMinutes, sessionDurationMinutes int, requested []int) (*SessionPlan, error)

	ActiveSequence(ctx context.Context, profileID int64) (*sequence.Snapshot, error)
	SaveSequence(ctx context.Context, profileID int64, seq models.StudySequence) (*sequence.Snapshot, error)
	ResetSequence(ctx context.Context, profileID int64) (*sequence.Snapshot, error)
	DeleteSequence(ctx context.Context, profileID int64) error
}

type plannerService struct {
	subjectRepo repository.SubjectRepository
	seqRepo     repository.SequenceRepository
}

// NewPlannerService creates a new PlannerService
func NewPlannerService(subjectRepo repository.SubjectRepository, seqRepo repository.SequenceRepository) PlannerService {
	return &plannerService{
		subjectRepo: subjectRepo,
		seqRepo:     seqRepo,
	}
}

func (s *plannerService) Allocate(ctx context.Context, profileID int64, mode allocator.DistributionMode, totalMinutes int) (*allocator.Result, error) {
	log := logger.FromContext(ctx)
	log.Debug("allocating study time: profile_id=%d mode=%s total=%dm", profileID, mode, totalMinutes)

	subjects, err := s.subjectRepo.List(ctx, profileID)
	if err != nil {
		log.Error("failed to list subjects: %v", err)
		return nil, errors.NewInternalError(err)
	}

	var result allocator.Result
	switch mode {
	case allocator.ModeAutomatic:
		result, err = allocator.Automatic(totalMinutes, subjects)
	case allocator.ModeManual:
		result, err = allocator.ManualWeighted(totalMinutes, subjects)
	default:
		return nil, errors.NewValidationError("mode", "must be automatic or manual")
	}
	if err != nil {
		return nil, err
	}

	if result.OverBudget {
		log.Warn("allocation exceeds budget: distributed=%dm budget=%dm", result.Distributed, result.TotalBudget)
	}
	return &result, nil
}

func (s *plannerService) PlanSessions(ctx context.Context, totalWeeklyMinutes, sessionDurationMinutes int, requested []int) (*SessionPlan, error) {
	log := logger.FromContext(ctx)

	if sessionDurationMinutes <= 0 {
		return nil, errors.NewValidationError("session_duration_minutes", "must be positive")
	}
	if totalWeeklyMinutes < 0 {
		return nil, errors.NewValidationError("total_weekly_minutes", "must not be negative")
	}

	maxSessions := allocator.SessionBudget(totalWeeklyMinutes, sessionDurationMinutes)

	// Clamp in list order: earlier subjects get first claim on the budget.
	assigned := make([]int, len(requested))
	used := 0
	for i, want := range requested {
		got := allocator.ClampAssignment(want, used, maxSessions)
		assigned[i] = got
		used += got
	}

	log.Debug("planned sessions: max=%d used=%d", maxSessions, used)
	return &SessionPlan{
		MaxSessions: maxSessions,
		Assigned:    assigned,
		Remaining:   allocator.SessionsRemaining(assigned, maxSessions),
	}, nil
}

func (s *plannerService) ActiveSequence(ctx context.Context, profileID int64) (*sequence.Snapshot, error) {
	log := logger.FromContext(ctx)

	seq, cursor, err := s.seqRepo.GetActive(ctx, profileID)
	if err != nil {
		log.Error("failed to load active sequence: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if seq == nil {
		return nil, nil
	}
	return &sequence.Snapshot{Sequence: *seq, Index: cursor}, nil
}

func (s *plannerService) SaveSequence(ctx context.Context, profileID int64, seq models.StudySequence) (*sequence.Snapshot, error) {
	log := logger.FromContext(ctx)
	log.Debug("saving sequence: profile_id=%d items=%d", profileID, len(seq.Items))

	if len(seq.Items) == 0 {
		return nil, errors.NewValidationError("items", "cannot be empty")
	}
	for _, item := range seq.Items {
		subject, err := s.subjectRepo.Get(ctx, item.SubjectID)
		if err != nil {
			log.Error("failed to get subject: %v", err)
			return nil, errors.NewInternalError(err)
		}
		if subject == nil {
			return nil, errors.NewNotFoundError("subject", item.SubjectID)
		}
	}

	current, cursor, err := s.seqRepo.GetActive(ctx, profileID)
	if err != nil {
		log.Error("failed to load active sequence: %v", err)
		return nil, errors.NewInternalError(err)
	}

	var next sequence.Snapshot
	if current != nil {
		snap := sequence.Snapshot{Sequence: *current, Index: cursor}
		next = snap.Replace(seq)
	} else {
		next = sequence.New(seq)
	}

	id, err := s.seqRepo.Save(ctx, profileID, next.Sequence, next.Index)
	if err != nil {
		log.Error("failed to save sequence: %v", err)
		return nil, errors.NewInternalError(err)
	}
	next.Sequence.ID = id
	return &next, nil
}

func (s *plannerService) ResetSequence(ctx context.Context, profileID int64) (*sequence.Snapshot, error) {
	log := logger.FromContext(ctx)
	log.Debug("resetting sequence: profile_id=%d", profileID)

	seq, cursor, err := s.seqRepo.GetActive(ctx, profileID)
	if err != nil {
		log.Error("failed to load active sequence: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if seq == nil {
		return nil, errors.NewNotFoundError("sequence", profileID)
	}

	snap := sequence.Snapshot{Sequence: *seq, Index: cursor}
	next := snap.Reset()

	if err := s.seqRepo.UpdateProgress(ctx, next.Sequence, next.Index); err != nil {
		log.Error("failed to persist sequence reset: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return &next, nil
}

func (s *plannerService) DeleteSequence(ctx context.Context, profileID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting sequence: profile_id=%d", profileID)

	if err := s.seqRepo.Delete(ctx, profileID); err != nil {
		log.Error("failed to delete sequence: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}
