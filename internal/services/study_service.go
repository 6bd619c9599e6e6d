package services

import (
	"context"
	"strings"
	"time"

	"github.com/studyflow/studyflow/internal/allocator"
	"github.com/studyflow/studyflow/internal/errors"
	"github.com/studyflow/studyflow/internal/logger"
	"github.com/studyflow/studyflow/internal/models"
	"github.com/studyflow/studyflow/internal/repository"
	"github.com/studyflow/studyflow/internal/sequence"
)

// StudyService handles subject, topic, and study-log business logic.
// Log mutations keep the active study sequence consistent: appending a
// log credits its attributed sequence item, editing or deleting one
// reverses the credit symmetrically.
type StudyService interface {
	ListSubjects(ctx context.Context, profileID int64) ([]models.Subject, error)
	GetSubject(ctx context.Context, id int64) (*models.Subject, error)
	CreateSubject(ctx context.Context, subject models.Subject) (*models.Subject, error)
	UpdateSubject(ctx context.Context, subject models.Subject) error
	DeleteSubject(ctx context.Context, id int64) error

	CreateTopic(ctx context.Context, topic models.Topic) (*models.Topic, error)
	UpdateTopic(ctx context.Context, topic models.Topic) error
	DeleteTopic(ctx context.Context, id int64) error

	AppendLog(ctx context.Context, entry models.StudyLogEntry) (*models.StudyLogEntry, error)
	UpdateLog(ctx context.Context, entry models.StudyLogEntry) error
	DeleteLog(ctx context.Context, id int64) error
	ListLogs(ctx context.Context, filter models.StudyLogFilter) ([]models.StudyLogEntry, error)
	SubjectTimeStats(ctx context.Context, filter models.StudyLogFilter) ([]models.SubjectTimeStat, error)
}

type studyService struct {
	subjectRepo repository.SubjectRepository
	logRepo     repository.StudyLogRepository
	seqRepo     repository.SequenceRepository
}

// NewStudyService creates a new StudyService
func NewStudyService(
	subjectRepo repository.SubjectRepository,
	logRepo repository.StudyLogRepository,
	seqRepo repository.SequenceRepository,
) StudyService {
	return &studyService{
		subjectRepo: subjectRepo,
		logRepo:     logRepo,
		seqRepo:     seqRepo,
	}
}

func (s *studyService) ListSubjects(ctx context.Context, profileID int64) ([]models.Subject, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing subjects: profile_id=%d", profileID)

	subjects, err := s.subjectRepo.List(ctx, profileID)
	if err != nil {
		log.Error("failed to list subjects: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return subjects, nil
}

func (s *studyService) GetSubject(ctx context.Context, id int64) (*models.Subject, error) {
	log := logger.FromContext(ctx)

	subject, err := s.subjectRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get subject: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if subject == nil {
		return nil, errors.NewNotFoundError("subject", id)
	}

	topics, err := s.subjectRepo.TopicsForSubject(ctx, id)
	if err != nil {
		log.Error("failed to load topics for subject: %v", err)
		return nil, errors.NewInternalError(err)
	}
	subject.Topics = topics
	return subject, nil
}

func (s *studyService) CreateSubject(ctx context.Context, subject models.Subject) (*models.Subject, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating subject: name=%s profile_id=%d", subject.Name, subject.ProfileID)

	if err := validateSubject(&subject); err != nil {
		return nil, err
	}

	id, err := s.subjectRepo.Insert(ctx, subject)
	if err != nil {
		log.Error("failed to insert subject: %v", err)
		return nil, errors.NewInternalError(err)
	}
	subject.ID = id
	return &subject, nil
}

func (s *studyService) UpdateSubject(ctx context.Context, subject models.Subject) error {
	log := logger.FromContext(ctx)
	log.Debug("updating subject: id=%d", subject.ID)

	if err := validateSubject(&subject); err != nil {
		return err
	}

	existing, err := s.subjectRepo.Get(ctx, subject.ID)
	if err != nil {
		log.Error("failed to get subject: %v", err)
		return errors.NewInternalError(err)
	}
	if existing == nil {
		return errors.NewNotFoundError("subject", subject.ID)
	}

	if err := s.subjectRepo.Update(ctx, subject); err != nil {
		log.Error("failed to update subject: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *studyService) DeleteSubject(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting subject: id=%d", id)

	if err := s.subjectRepo.Delete(ctx, id); err != nil {
		log.Error("failed to delete subject: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *studyService) CreateTopic(ctx context.Context, topic models.Topic) (*models.Topic, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating topic: name=%s subject_id=%d", topic.Name, topic.SubjectID)

	if topic.Name == "" {
		return nil, errors.NewValidationError("name", "cannot be empty")
	}

	subject, err := s.subjectRepo.Get(ctx, topic.SubjectID)
	if err != nil {
		log.Error("failed to get subject: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if subject == nil {
		return nil, errors.NewNotFoundError("subject", topic.SubjectID)
	}

	id, err := s.subjectRepo.InsertTopic(ctx, topic)
	if err != nil {
		log.Error("failed to insert topic: %v", err)
		return nil, errors.NewInternalError(err)
	}
	topic.ID = id
	return &topic, nil
}

func (s *studyService) UpdateTopic(ctx context.Context, topic models.Topic) error {
	log := logger.FromContext(ctx)
	log.Debug("updating topic: id=%d", topic.ID)

	if topic.Name == "" {
		return errors.NewValidationError("name", "cannot be empty")
	}

	existing, err := s.subjectRepo.GetTopic(ctx, topic.ID)
	if err != nil {
		log.Error("failed to get topic: %v", err)
		return errors.NewInternalError(err)
	}
	if existing == nil {
		return errors.NewNotFoundError("topic", topic.ID)
	}

	if err := s.subjectRepo.UpdateTopic(ctx, topic); err != nil {
		log.Error("failed to update topic: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *studyService) DeleteTopic(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting topic: id=%d", id)

	existing, err := s.subjectRepo.GetTopic(ctx, id)
	if err != nil {
		log.Error("failed to get topic: %v", err)
		return errors.NewInternalError(err)
	}
	if existing == nil {
		return errors.NewNotFoundError("topic", id)
	}

	// The repository reassigns the remaining topics' order values so
	// they stay dense after the removal.
	if err := s.subjectRepo.DeleteTopic(ctx, id); err != nil {
		log.Error("failed to delete topic: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *studyService) AppendLog(ctx context.Context, entry models.StudyLogEntry) (*models.StudyLogEntry, error) {
	log := logger.FromContext(ctx)
	log.Debug("appending study log: profile_id=%d subject_id=%d duration=%dm",
		entry.ProfileID, entry.SubjectID, entry.DurationMinutes)

	if entry.DurationMinutes <= 0 {
		return nil, errors.NewValidationError("duration_minutes", "must be positive")
	}
	if entry.Source == "" {
		entry.Source = models.LogSourceManual
	}
	if entry.Date.IsZero() {
		entry.Date = time.Now()
	}

	subject, err := s.subjectRepo.Get(ctx, entry.SubjectID)
	if err != nil {
		log.Error("failed to get subject: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if subject == nil {
		return nil, errors.NewNotFoundError("subject", entry.SubjectID)
	}

	id, err := s.logRepo.Insert(ctx, entry)
	if err != nil {
		log.Error("failed to insert study log: %v", err)
		return nil, errors.NewInternalError(err)
	}
	entry.ID = id

	if entry.SequenceItemIndex != nil {
		s.adjustSequence(ctx, entry.ProfileID, func(snap sequence.Snapshot) (sequence.Snapshot, sequence.Outcome) {
			return snap.AdvanceOnLog(entry, subject.StudyDuration)
		})
	}

	// Revision-cycle entries advance the subject's revision progress.
	if strings.HasPrefix(entry.Source, models.RevisionSourcePrefix) {
		if err := s.subjectRepo.IncrementRevisionProgress(ctx, entry.SubjectID); err != nil {
			log.Warn("failed to bump revision progress: %v", err)
		}
	}

	return &entry, nil
}

func (s *studyService) UpdateLog(ctx context.Context, entry models.StudyLogEntry) error {
	log := logger.FromContext(ctx)
	log.Debug("updating study log: id=%d", entry.ID)

	if entry.DurationMinutes <= 0 {
		return errors.NewValidationError("duration_minutes", "must be positive")
	}

	old, err := s.logRepo.Get(ctx, entry.ID)
	if err != nil {
		log.Error("failed to get study log: %v", err)
		return errors.NewInternalError(err)
	}
	if old == nil {
		return errors.NewNotFoundError("study log", entry.ID)
	}

	// Attribution is fixed at append time; edits change the recorded
	// duration and metadata, not which sequence item gets the credit.
	entry.ProfileID = old.ProfileID
	entry.SubjectID = old.SubjectID
	entry.SequenceItemIndex = old.SequenceItemIndex

	if err := s.logRepo.Update(ctx, entry); err != nil {
		log.Error("failed to update study log: %v", err)
		return errors.NewInternalError(err)
	}

	if old.SequenceItemIndex != nil {
		s.adjustSequence(ctx, old.ProfileID, func(snap sequence.Snapshot) (sequence.Snapshot, sequence.Outcome) {
			return snap.ReverseOnLogEdit(*old, entry)
		})
	}
	return nil
}

func (s *studyService) DeleteLog(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting study log: id=%d", id)

	old, err := s.logRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get study log: %v", err)
		return errors.NewInternalError(err)
	}
	if old == nil {
		return errors.NewNotFoundError("study log", id)
	}

	if err := s.logRepo.Delete(ctx, id); err != nil {
		log.Error("failed to delete study log: %v", err)
		return errors.NewInternalError(err)
	}

	if old.SequenceItemIndex != nil {
		s.adjustSequence(ctx, old.ProfileID, func(snap sequence.Snapshot) (sequence.Snapshot, sequence.Outcome) {
			return snap.ReverseOnLogDelete(*old)
		})
	}
	return nil
}

func (s *studyService) ListLogs(ctx context.Context, filter models.StudyLogFilter) ([]models.StudyLogEntry, error) {
	log := logger.FromContext(ctx)

	entries, err := s.logRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list study logs: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return entries, nil
}

func (s *studyService) SubjectTimeStats(ctx context.Context, filter models.StudyLogFilter) ([]models.SubjectTimeStat, error) {
	log := logger.FromContext(ctx)

	stats, err := s.logRepo.SubjectTimeStats(ctx, filter)
	if err != nil {
		log.Error("failed to compute subject time stats: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return stats, nil
}

// adjustSequence loads the active sequence, applies a tracker operation,
// and persists the result. Mismatched attributions are logged, never
// fatal: the study log itself is already the source of truth.
func (s *studyService) adjustSequence(ctx context.Context, profileID int64, op func(sequence.Snapshot) (sequence.Snapshot, sequence.Outcome)) {
	log := logger.FromContext(ctx)

	seq, cursor, err := s.seqRepo.GetActive(ctx, profileID)
	if err != nil {
		log.Warn("failed to load active sequence: %v", err)
		return
	}
	if seq == nil {
		log.Warn("log attributed to a sequence item but no sequence is active: profile_id=%d", profileID)
		return
	}

	snap := sequence.Snapshot{Sequence: *seq, Index: cursor}
	next, out := op(snap)
	if !out.Matched {
		log.Warn("log attribution did not match the active sequence: profile_id=%d", profileID)
		return
	}
	if out.Completed {
		log.Info("study sequence completed: profile_id=%d sequence_id=%d", profileID, next.Sequence.ID)
	}

	if err := s.seqRepo.UpdateProgress(ctx, next.Sequence, next.Index); err != nil {
		log.Warn("failed to persist sequence progress: %v", err)
	}
}

func validateSubject(subject *models.Subject) error {
	if subject.Name == "" {
		return errors.NewValidationError("name", "cannot be empty")
	}
	if subject.KnowledgeLevel == "" {
		subject.KnowledgeLevel = models.LevelBeginner
	}
	if !subject.KnowledgeLevel.Valid() {
		return errors.NewValidationError("knowledge_level", "must be beginner, intermediate, or advanced")
	}
	if subject.StudyDuration <= 0 {
		return errors.NewValidationError("study_duration", "must be positive")
	}
	if subject.Weight == 0 {
		subject.Weight = 1
	}
	if subject.Weight < allocator.MinWeight || subject.Weight > allocator.MaxWeight {
		return errors.NewValidationError("weight", "must be between 0.1 and 2.0")
	}
	return nil
}
