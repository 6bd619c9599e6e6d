package models

import "time"

// Rating is the user's answer quality on a flashcard review.
type Rating int

const (
	RatingUnrated Rating = 0 // new card, never reviewed
	RatingAgain   Rating = 1
	RatingHard    Rating = 2
	RatingGood    Rating = 3
	RatingEasy    Rating = 4
)

// Valid reports whether the rating is usable for a review (1-4).
func (r Rating) Valid() bool {
	return r >= RatingAgain && r <= RatingEasy
}

type Flashcard struct {
	ID                  int64     `json:"id"`
	ProfileID           int64     `json:"profile_id"`
	Question            string    `json:"question"`
	Answer              string    `json:"answer"`
	CreatedAt           time.Time `json:"created_at"`
	LastReview          time.Time `json:"last_review"`
	NextReview          time.Time `json:"next_review"`
	Difficulty          float64   `json:"difficulty"`     // clamped to [1, 10]
	Stability           float64   `json:"stability"`      // days, floored at 0.1
	Retrievability      float64   `json:"retrievability"` // [0, 1]
	ReviewCount         int       `json:"review_count"`
	LastRating          Rating    `json:"last_rating"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
}

type ReviewHistory struct {
	ID          int64     `json:"id"`
	FlashcardID int64     `json:"flashcard_id"`
	Rating      Rating    `json:"rating"`
	TimeSeconds float64   `json:"time_seconds"`
	ReviewedAt  time.Time `json:"reviewed_at"`
}
