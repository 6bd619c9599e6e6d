package review

import (
	"math"
	"time"

	"github.com/studyflow/studyflow/internal/errors"
	"github.com/studyflow/studyflow/internal/models"
)

// Weights drives the simplified FSRS variant used by the scheduler.
// Index layout:
//
//	w[0]        base initial stability
//	w[1], w[2]  first-review difficulty: w[1] - w[2]*(rating-1)
//	w[5]        stability reset factor on Again: w[5] * difficulty
//	w[6/8/10/12] difficulty delta for Again/Hard/Good/Easy
//	w[7/9/11]   stability growth constant for Hard/Good/Easy
//	w[13..16]   per-rating initial stability offset, added to w[0]
//
// The retrievability update is a coarse linear nudge, not the canonical
// FSRS power-law recomputation. Downstream review dates depend on this
// exact arithmetic; changing it invalidates every stored schedule.
var Weights = [17]float64{
	0.5,  // 0: base initial stability
	7.5,  // 1: first-review difficulty intercept
	1.2,  // 2: first-review difficulty slope
	0,    // 3: unused
	0,    // 4: unused
	0.1,  // 5: Again stability reset factor
	0.8,  // 6: Again difficulty delta
	0.02, // 7: Hard stability growth
	0.3,  // 8: Hard difficulty delta
	0.06, // 9: Good stability growth
	-0.1, // 10: Good difficulty delta
	0.12, // 11: Easy stability growth
	-0.5, // 12: Easy difficulty delta
	0.1,  // 13: Again initial stability offset
	1.2,  // 14: Hard initial stability offset
	3.0,  // 15: Good initial stability offset
	7.0,  // 16: Easy initial stability offset
}

const (
	minDifficulty = 1.0
	maxDifficulty = 10.0
	minStability  = 0.1
)

// Scheduler computes the next review state of a flashcard from its current
// state and a rating. It is pure: no I/O, no randomness, no clock access
// beyond the instant passed in.
type Scheduler struct {
	RequestRetention float64 // target recall probability, default 0.9
	MaximumInterval  int     // cap on the computed interval in days
}

// NewScheduler returns a scheduler with the default retention and interval cap.
func NewScheduler() Scheduler {
	return Scheduler{RequestRetention: 0.9, MaximumInterval: 36500}
}

// NewCard creates a flashcard in its pre-review state. The next review is
// due immediately (NextReview == CreatedAt).
func NewCard(profileID int64, question, answer string, now time.Time) models.Flashcard {
	return models.Flashcard{
		ProfileID:      profileID,
		Question:       question,
		Answer:         answer,
		CreatedAt:      now,
		LastReview:     now,
		NextReview:     now,
		Difficulty:     5.0,
		Stability:      1.0,
		Retrievability: 1.0,
		ReviewCount:    0,
		LastRating:     models.RatingUnrated,
	}
}

// Apply computes the card's state after a review at the given instant.
// The input card is not mutated. Ratings outside 1-4 are rejected.
func (s Scheduler) Apply(card models.Flashcard, rating models.Rating, now time.Time) (models.Flashcard, error) {
	if !rating.Valid() {
		return models.Flashcard{}, errors.NewValidationError("rating", "must be between 1 and 4")
	}

	elapsedDays := now.Sub(card.LastReview).Hours() / 24
	if elapsedDays < 0 {
		elapsedDays = 0
	}

	next := card
	next.Difficulty = nextDifficulty(card, rating)

	if card.ReviewCount == 0 {
		next.Stability = Weights[0] + Weights[13+int(rating)-1]
		next.Retrievability = 0.9
	} else {
		rBefore := math.Pow(0.9, elapsedDays/card.Stability)
		if rating == models.RatingAgain {
			next.Stability = Weights[5] * next.Difficulty
		} else {
			growth := growthWeight(rating)
			next.Stability = card.Stability * (1 + growth*next.Difficulty*math.Sqrt(elapsedDays/card.Stability))
		}
		next.Retrievability = clamp(rBefore+float64(rating-3)*0.1, 0, 1)
	}
	if next.Stability < minStability {
		next.Stability = minStability
	}

	intervalDays := int(math.Round(next.Stability * math.Log(s.RequestRetention) / math.Log(0.9)))
	if intervalDays > s.MaximumInterval {
		intervalDays = s.MaximumInterval
	}
	next.NextReview = startOfDay(now).AddDate(0, 0, intervalDays)

	next.LastReview = now
	next.ReviewCount = card.ReviewCount + 1
	next.LastRating = rating
	if rating == models.RatingAgain {
		next.ConsecutiveFailures = card.ConsecutiveFailures + 1
	} else {
		next.ConsecutiveFailures = 0
	}
	return next, nil
}

func nextDifficulty(card models.Flashcard, rating models.Rating) float64 {
	var d float64
	if card.ReviewCount == 0 {
		d = Weights[1] - Weights[2]*float64(rating-1)
	} else {
		d = card.Difficulty + difficultyDelta(rating)
	}
	return clamp(d, minDifficulty, maxDifficulty)
}

func difficultyDelta(rating models.Rating) float64 {
	switch rating {
	case models.RatingAgain:
		return Weights[6]
	case models.RatingHard:
		return Weights[8]
	case models.RatingGood:
		return Weights[10]
	default:
		return Weights[12]
	}
}

func growthWeight(rating models.Rating) float64 {
	switch rating {
	case models.RatingHard:
		return Weights[7]
	case models.RatingGood:
		return Weights[9]
	default:
		return Weights[11]
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
