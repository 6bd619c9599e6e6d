package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apperrors "github.com/studyflow/studyflow/internal/errors"
	"github.com/studyflow/studyflow/internal/models"
	"github.com/studyflow/studyflow/internal/review"
	"github.com/studyflow/studyflow/internal/testutil/mocks"
)

func newFlashcardFixture() (*mocks.MockFlashcardRepository, FlashcardService) {
	cardRepo := new(mocks.MockFlashcardRepository)
	return cardRepo, NewFlashcardService(cardRepo, review.NewScheduler())
}

func TestCreateFlashcard_NewCardDefaults(t *testing.T) {
	cardRepo, svc := newFlashcardFixture()

	cardRepo.On("Insert", mock.Anything, mock.MatchedBy(func(c models.Flashcard) bool {
		return c.Difficulty == 5.0 && c.Stability == 1.0 && c.ReviewCount == 0
	})).Return(int64(3), nil)

	card, err := svc.CreateFlashcard(context.Background(), 1, "What is a closure?", "A function plus its environment")
	require.NoError(t, err)
	assert.Equal(t, int64(3), card.ID)
	// A brand-new card is due immediately.
	assert.Equal(t, card.CreatedAt, card.NextReview)
}

func TestCreateFlashcard_RejectsEmptyFields(t *testing.T) {
	_, svc := newFlashcardFixture()
	ctx := context.Background()

	_, err := svc.CreateFlashcard(ctx, 1, "", "answer")
	assert.Error(t, err)

	_, err = svc.CreateFlashcard(ctx, 1, "question", "")
	assert.Error(t, err)
}

func TestReviewFlashcard_UpdatesCardAndHistory(t *testing.T) {
	cardRepo, svc := newFlashcardFixture()

	card := &models.Flashcard{
		ID:         3,
		ProfileID:  1,
		Difficulty: 5,
		Stability:  1,
		NextReview: time.Now().Add(-time.Hour),
	}
	cardRepo.On("Get", mock.Anything, int64(3)).Return(card, nil)
	cardRepo.On("Update", mock.Anything, mock.MatchedBy(func(c models.Flashcard) bool {
		return c.ReviewCount == 1 && c.LastRating == models.RatingGood && c.NextReview.After(time.Now())
	})).Return(nil)
	cardRepo.On("InsertReviewHistory", mock.Anything, int64(3), models.RatingGood, 12.5).Return(nil)

	updated, err := svc.ReviewFlashcard(context.Background(), 3, 1, models.RatingGood, 12.5)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.ReviewCount)
	cardRepo.AssertExpectations(t)
}

func TestReviewFlashcard_SkipsHistoryWithoutTiming(t *testing.T) {
	cardRepo, svc := newFlashcardFixture()

	card := &models.Flashcard{ID: 3, ProfileID: 1, Difficulty: 5, Stability: 1}
	cardRepo.On("Get", mock.Anything, int64(3)).Return(card, nil)
	cardRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.ReviewFlashcard(context.Background(), 3, 1, models.RatingEasy, 0)
	require.NoError(t, err)
	cardRepo.AssertNotCalled(t, "InsertReviewHistory", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewFlashcard_RejectsInvalidRating(t *testing.T) {
	cardRepo, svc := newFlashcardFixture()

	_, err := svc.ReviewFlashcard(context.Background(), 3, 1, models.Rating(5), 1)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	cardRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestReviewFlashcard_WrongProfileIsNotFound(t *testing.T) {
	cardRepo, svc := newFlashcardFixture()

	card := &models.Flashcard{ID: 3, ProfileID: 2}
	cardRepo.On("Get", mock.Anything, int64(3)).Return(card, nil)

	_, err := svc.ReviewFlashcard(context.Background(), 3, 1, models.RatingGood, 1)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}

func TestGetNextFlashcard_NoneDue(t *testing.T) {
	cardRepo, svc := newFlashcardFixture()

	cardRepo.On("Due", mock.Anything, int64(1), 1).Return([]models.Flashcard{}, nil)

	card, err := svc.GetNextFlashcard(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, card)
}
