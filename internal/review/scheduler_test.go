package review_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyflow/studyflow/internal/models"
	"github.com/studyflow/studyflow/internal/review"
)

func seasonedCard(now time.Time) models.Flashcard {
	return models.Flashcard{
		Difficulty:     5.0,
		Stability:      5.0,
		Retrievability: 0.9,
		ReviewCount:    3,
		LastReview:     now.AddDate(0, 0, -4),
		CreatedAt:      now.AddDate(0, 0, -30),
	}
}

func TestApply_InvalidRating(t *testing.T) {
	s := review.NewScheduler()
	now := time.Now()
	card := seasonedCard(now)

	for _, rating := range []models.Rating{-1, 0, 5, 42} {
		_, err := s.Apply(card, rating, now)
		assert.Error(t, err, "rating %d must be rejected", rating)
	}
}

func TestApply_AgainCollapsesStabilityBelowEasy(t *testing.T) {
	s := review.NewScheduler()
	now := time.Now()
	card := seasonedCard(now)

	again, err := s.Apply(card, models.RatingAgain, now)
	require.NoError(t, err)
	easy, err := s.Apply(card, models.RatingEasy, now)
	require.NoError(t, err)

	assert.Less(t, again.Stability, easy.Stability,
		"Again must yield strictly lower stability than Easy on the same card")
	assert.Less(t, again.Stability, card.Stability,
		"Again must collapse stability")
	assert.Greater(t, easy.Stability, card.Stability,
		"Easy must grow stability when the review is overdue")
}

func TestApply_ClampsUnderRepeatedReviews(t *testing.T) {
	s := review.NewScheduler()
	now := time.Now()

	for _, rating := range []models.Rating{models.RatingAgain, models.RatingHard, models.RatingGood, models.RatingEasy} {
		card := seasonedCard(now)
		at := now
		for i := 0; i < 50; i++ {
			at = at.AddDate(0, 0, 1)
			var err error
			card, err = s.Apply(card, rating, at)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, card.Difficulty, 1.0)
			assert.LessOrEqual(t, card.Difficulty, 10.0)
			assert.GreaterOrEqual(t, card.Stability, 0.1)
			assert.GreaterOrEqual(t, card.Retrievability, 0.0)
			assert.LessOrEqual(t, card.Retrievability, 1.0)
		}
	}
}

func TestApply_FirstReviewUsesInitialTables(t *testing.T) {
	s := review.NewScheduler()
	now := time.Now()

	tests := []struct {
		rating        models.Rating
		wantStability float64
	}{
		{models.RatingAgain, review.Weights[0] + review.Weights[13]},
		{models.RatingHard, review.Weights[0] + review.Weights[14]},
		{models.RatingGood, review.Weights[0] + review.Weights[15]},
		{models.RatingEasy, review.Weights[0] + review.Weights[16]},
	}

	for _, tt := range tests {
		card := review.NewCard(1, "q", "a", now)
		updated, err := s.Apply(card, tt.rating, now)
		require.NoError(t, err)

		assert.InDelta(t, tt.wantStability, updated.Stability, 1e-9)
		assert.InDelta(t, 0.9, updated.Retrievability, 1e-9)
		assert.Equal(t, 1, updated.ReviewCount)
		assert.Equal(t, tt.rating, updated.LastRating)
	}
}

func TestApply_FirstReviewDifficulty(t *testing.T) {
	s := review.NewScheduler()
	now := time.Now()

	// difficulty = w1 - w2*(rating-1), clamped to [1, 10]
	for rating := models.RatingAgain; rating <= models.RatingEasy; rating++ {
		card := review.NewCard(1, "q", "a", now)
		updated, err := s.Apply(card, rating, now)
		require.NoError(t, err)

		want := review.Weights[1] - review.Weights[2]*float64(rating-1)
		if want < 1 {
			want = 1
		}
		assert.InDelta(t, want, updated.Difficulty, 1e-9, "rating %d", rating)
	}
}

func TestApply_NextReviewRoundsToMidnight(t *testing.T) {
	s := review.NewScheduler()
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	card := seasonedCard(now)

	updated, err := s.Apply(card, models.RatingGood, now)
	require.NoError(t, err)

	assert.Equal(t, 0, updated.NextReview.Hour())
	assert.Equal(t, 0, updated.NextReview.Minute())
	assert.Equal(t, 0, updated.NextReview.Second())
	assert.False(t, updated.NextReview.Before(now.Truncate(24*time.Hour)),
		"next review must not land in the past")
}

func TestApply_IntervalCapped(t *testing.T) {
	s := review.NewScheduler()
	s.MaximumInterval = 30
	now := time.Now()

	card := seasonedCard(now)
	card.Stability = 10000

	updated, err := s.Apply(card, models.RatingEasy, now)
	require.NoError(t, err)

	maxDue := now.AddDate(0, 0, 31)
	assert.True(t, updated.NextReview.Before(maxDue), "interval must honor the cap")
}

func TestApply_ConsecutiveFailures(t *testing.T) {
	s := review.NewScheduler()
	now := time.Now()
	card := seasonedCard(now)

	card, err := s.Apply(card, models.RatingAgain, now)
	require.NoError(t, err)
	assert.Equal(t, 1, card.ConsecutiveFailures)

	card, err = s.Apply(card, models.RatingAgain, now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, card.ConsecutiveFailures)

	card, err = s.Apply(card, models.RatingGood, now.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, 0, card.ConsecutiveFailures, "any non-Again rating resets the streak")
}

func TestApply_RetrievabilityNudge(t *testing.T) {
	s := review.NewScheduler()
	now := time.Now()

	// Reviewed exactly on time: elapsed == stability, so the forgetting
	// curve gives 0.9 before the nudge.
	card := seasonedCard(now)
	card.Stability = 4.0

	good, err := s.Apply(card, models.RatingGood, now)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, good.Retrievability, 1e-9, "Good leaves retrievability at the curve value")

	easy, err := s.Apply(card, models.RatingEasy, now)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, easy.Retrievability, 1e-9, "Easy nudges up by 0.1")

	hard, err := s.Apply(card, models.RatingHard, now)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, hard.Retrievability, 1e-9, "Hard nudges down by 0.1")

	again, err := s.Apply(card, models.RatingAgain, now)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, again.Retrievability, 1e-9, "Again nudges down by 0.2")
}

func TestNewCard_Defaults(t *testing.T) {
	now := time.Now()
	card := review.NewCard(7, "What is spaced repetition?", "A review scheduling technique", now)

	assert.Equal(t, now, card.NextReview, "a new card is due immediately")
	assert.Equal(t, now, card.LastReview)
	assert.Equal(t, 0, card.ReviewCount)
	assert.Equal(t, models.RatingUnrated, card.LastRating)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	s := review.NewScheduler()
	now := time.Now()
	card := seasonedCard(now)
	before := card

	_, err := s.Apply(card, models.RatingGood, now)
	require.NoError(t, err)
	assert.Equal(t, before, card)
}
