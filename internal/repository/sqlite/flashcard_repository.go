package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/studyflow/studyflow/internal/logger"
	"github.com/studyflow/studyflow/internal/models"
	"github.com/studyflow/studyflow/internal/repository"
)

type flashcardRepository struct {
	db *sql.DB
}

// NewFlashcardRepository creates a new FlashcardRepository implementation
func NewFlashcardRepository(db *sql.DB) repository.FlashcardRepository {
	return &flashcardRepository{db: db}
}

const flashcardColumns = `id, profile_id, question, answer, created_at, last_review, next_review, difficulty, stability, retrievability, review_count, last_rating, consecutive_failures`

func scanFlashcard(row interface{ Scan(...any) error }) (models.Flashcard, error) {
	var c models.Flashcard
	err := row.Scan(&c.ID, &c.ProfileID, &c.Question, &c.Answer, &c.CreatedAt, &c.LastReview,
		&c.NextReview, &c.Difficulty, &c.Stability, &c.Retrievability, &c.ReviewCount,
		&c.LastRating, &c.ConsecutiveFailures)
	return c, err
}

func (r *flashcardRepository) Get(ctx context.Context, id int64) (*models.Flashcard, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+flashcardColumns+` FROM flashcards WHERE id = ?`, id)
	c, err := scanFlashcard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Due returns cards whose next review is not in the future, most overdue
// first.
func (r *flashcardRepository) Due(ctx context.Context, profileID int64, limit int) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("fetching due flashcards: profile_id=%d, limit=%d", profileID, limit)

	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT `+flashcardColumns+`
FROM flashcards
WHERE profile_id = ? AND next_review <= CURRENT_TIMESTAMP
ORDER BY next_review
LIMIT ?
`, profileID, limit)
	if err != nil {
		log.Error("failed to query due flashcards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Flashcard
	for rows.Next() {
		c, err := scanFlashcard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	log.Debug("found %d due flashcards", len(cards))
	return cards, rows.Err()
}

func (r *flashcardRepository) Insert(ctx context.Context, c models.Flashcard) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("inserting flashcard: profile_id=%d", c.ProfileID)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO flashcards (profile_id, question, answer, created_at, last_review, next_review, difficulty, stability, retrievability, review_count, last_rating, consecutive_failures)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, c.ProfileID, c.Question, c.Answer, c.CreatedAt, c.LastReview, c.NextReview,
		c.Difficulty, c.Stability, c.Retrievability, c.ReviewCount, c.LastRating, c.ConsecutiveFailures)
	if err != nil {
		log.Error("failed to insert flashcard: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *flashcardRepository) Update(ctx context.Context, c models.Flashcard) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("updating flashcard: id=%d, stability=%.2f, difficulty=%.2f", c.ID, c.Stability, c.Difficulty)

	_, err := r.db.ExecContext(ctx, `
UPDATE flashcards
SET question = ?, answer = ?, last_review = ?, next_review = ?, difficulty = ?, stability = ?, retrievability = ?, review_count = ?, last_rating = ?, consecutive_failures = ?
WHERE id = ?
`, c.Question, c.Answer, c.LastReview, c.NextReview, c.Difficulty, c.Stability,
		c.Retrievability, c.ReviewCount, c.LastRating, c.ConsecutiveFailures, c.ID)
	if err != nil {
		log.Error("failed to update flashcard: %v", err)
	}
	return err
}

func (r *flashcardRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM flashcards WHERE id = ?`, id)
	return err
}

func (r *flashcardRepository) InsertReviewHistory(ctx context.Context, flashcardID int64, rating models.Rating, timeSeconds float64) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("inserting review history: flashcard_id=%d, rating=%d, time=%.2fs", flashcardID, rating, timeSeconds)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO review_history (flashcard_id, rating, time_seconds)
		VALUES (?, ?, ?)
	`, flashcardID, rating, timeSeconds)
	if err != nil {
		log.Error("failed to insert review history: %v", err)
	}
	return err
}
