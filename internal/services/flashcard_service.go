package services

import (
	"context"
	"time"

	"github.com/studyflow/studyflow/internal/errors"
	"github.com/studyflow/studyflow/internal/logger"
	"github.com/studyflow/studyflow/internal/models"
	"github.com/studyflow/studyflow/internal/repository"
	"github.com/studyflow/studyflow/internal/review"
)

// FlashcardService handles flashcard-related business logic
type FlashcardService interface {
	CreateFlashcard(ctx context.Context, profileID int64, question, answer string) (*models.Flashcard, error)
	GetNextFlashcard(ctx context.Context, profileID int64) (*models.Flashcard, error)
	DueFlashcards(ctx context.Context, profileID int64, limit int) ([]models.Flashcard, error)
	ReviewFlashcard(ctx context.Context, flashcardID, profileID int64, rating models.Rating, timeSeconds float64) (*models.Flashcard, error)
	DeleteFlashcard(ctx context.Context, id, profileID int64) error
}

type flashcardService struct {
	cardRepo  repository.FlashcardRepository
	scheduler review.Scheduler
}

// NewFlashcardService creates a new FlashcardService
func NewFlashcardService(cardRepo repository.FlashcardRepository, scheduler review.Scheduler) FlashcardService {
	return &flashcardService{cardRepo: cardRepo, scheduler: scheduler}
}

func (s *flashcardService) CreateFlashcard(ctx context.Context, profileID int64, question, answer string) (*models.Flashcard, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating flashcard: profile_id=%d", profileID)

	if question == "" {
		return nil, errors.NewValidationError("question", "cannot be empty")
	}
	if answer == "" {
		return nil, errors.NewValidationError("answer", "cannot be empty")
	}

	card := review.NewCard(profileID, question, answer, time.Now())
	id, err := s.cardRepo.Insert(ctx, card)
	if err != nil {
		log.Error("failed to insert flashcard: %v", err)
		return nil, errors.NewInternalError(err)
	}
	card.ID = id
	return &card, nil
}

func (s *flashcardService) GetNextFlashcard(ctx context.Context, profileID int64) (*models.Flashcard, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting next flashcard: profile_id=%d", profileID)

	cards, err := s.cardRepo.Due(ctx, profileID, 1)
	if err != nil {
		log.Error("failed to get due flashcards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if len(cards) == 0 {
		log.Debug("no flashcards due for review")
		return nil, nil
	}
	return &cards[0], nil
}

func (s *flashcardService) DueFlashcards(ctx context.Context, profileID int64, limit int) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx)

	cards, err := s.cardRepo.Due(ctx, profileID, limit)
	if err != nil {
		log.Error("failed to get due flashcards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

func (s *flashcardService) ReviewFlashcard(ctx context.Context, flashcardID, profileID int64, rating models.Rating, timeSeconds float64) (*models.Flashcard, error) {
	log := logger.FromContext(ctx)
	log.Debug("reviewing flashcard: flashcard_id=%d rating=%d", flashcardID, rating)

	if !rating.Valid() {
		return nil, errors.NewValidationError("rating", "must be between 1 and 4")
	}

	card, err := s.cardRepo.Get(ctx, flashcardID)
	if err != nil {
		log.Error("failed to get flashcard: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if card == nil || card.ProfileID != profileID {
		return nil, errors.NewNotFoundError("flashcard", flashcardID)
	}

	updated, err := s.scheduler.Apply(*card, rating, time.Now())
	if err != nil {
		return nil, err
	}

	log.Debug("applied review: stability=%.2f difficulty=%.2f next_review=%s",
		updated.Stability, updated.Difficulty, updated.NextReview.Format("2006-01-02"))

	if err := s.cardRepo.Update(ctx, updated); err != nil {
		log.Error("failed to update flashcard: %v", err)
		return nil, errors.NewInternalError(err)
	}

	// Store review history with timing data (non-blocking)
	if timeSeconds > 0 {
		if err := s.cardRepo.InsertReviewHistory(ctx, card.ID, rating, timeSeconds); err != nil {
			log.Warn("failed to store review history: %v", err)
			// Don't fail the review if history storage fails
		}
	}

	return &updated, nil
}

func (s *flashcardService) DeleteFlashcard(ctx context.Context, id, profileID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting flashcard: id=%d", id)

	card, err := s.cardRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get flashcard: %v", err)
		return errors.NewInternalError(err)
	}
	if card == nil || card.ProfileID != profileID {
		return errors.NewNotFoundError("flashcard", id)
	}

	if err := s.cardRepo.Delete(ctx, id); err != nil {
		log.Error("failed to delete flashcard: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}
