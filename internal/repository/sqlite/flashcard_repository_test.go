package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/studyflow/studyflow/internal/models"
	"github.com/studyflow/studyflow/internal/repository"
	"github.com/studyflow/studyflow/internal/repository/sqlite"
	"github.com/studyflow/studyflow/internal/testutil"
)

type FlashcardRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.FlashcardRepository
}

func (s *FlashcardRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewFlashcardRepository(s.db)
}

func (s *FlashcardRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *FlashcardRepositorySuite) setupProfile() int64 {
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx, `INSERT INTO profiles (username) VALUES (?)`, "testuser")
	s.Require().NoError(err)

	var profileID int64
	err = s.db.QueryRowContext(ctx, `SELECT id FROM profiles WHERE username = ?`, "testuser").Scan(&profileID)
	s.Require().NoError(err)
	return profileID
}

func (s *FlashcardRepositorySuite) newCard(profileID int64, question string, nextReview time.Time) models.Flashcard {
	now := time.Now().UTC()
	return models.Flashcard{
		ProfileID:  profileID,
		Question:   question,
		Answer:     "answer",
		CreatedAt:  now,
		LastReview: now,
		NextReview: nextReview,
		Difficulty: 5,
		Stability:  1,
	}
}

func (s *FlashcardRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()
	profileID := s.setupProfile()

	next := time.Now().UTC().Add(24 * time.Hour)
	id, err := s.repo.Insert(ctx, s.newCard(profileID, "What is FSRS?", next))
	s.Require().NoError(err)
	s.Require().NotZero(id)

	card, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(card)
	s.Equal("What is FSRS?", card.Question)
	s.Equal(5.0, card.Difficulty)
	s.Equal(1.0, card.Stability)
	s.Equal(models.RatingUnrated, card.LastRating)
}

func (s *FlashcardRepositorySuite) TestGetMissingReturnsNil() {
	card, err := s.repo.Get(context.Background(), 999)
	s.Require().NoError(err)
	s.Nil(card)
}

func (s *FlashcardRepositorySuite) TestDueOrdering() {
	ctx := context.Background()
	profileID := s.setupProfile()

	now := time.Now().UTC()
	_, err := s.repo.Insert(ctx, s.newCard(profileID, "overdue", now.Add(-48*time.Hour)))
	s.Require().NoError(err)
	_, err = s.repo.Insert(ctx, s.newCard(profileID, "due now", now.Add(-time.Minute)))
	s.Require().NoError(err)
	_, err = s.repo.Insert(ctx, s.newCard(profileID, "future", now.Add(72*time.Hour)))
	s.Require().NoError(err)

	cards, err := s.repo.Due(ctx, profileID, 10)
	s.Require().NoError(err)
	s.Require().Len(cards, 2)
	// Most overdue first.
	s.Equal("overdue", cards[0].Question)
	s.Equal("due now", cards[1].Question)
}

func (s *FlashcardRepositorySuite) TestDueRespectsLimit() {
	ctx := context.Background()
	profileID := s.setupProfile()

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		_, err := s.repo.Insert(ctx, s.newCard(profileID, "card", now.Add(-time.Duration(i+1)*time.Hour)))
		s.Require().NoError(err)
	}

	cards, err := s.repo.Due(ctx, profileID, 2)
	s.Require().NoError(err)
	s.Len(cards, 2)
}

func (s *FlashcardRepositorySuite) TestUpdatePersistsSchedulingState() {
	ctx := context.Background()
	profileID := s.setupProfile()

	id, err := s.repo.Insert(ctx, s.newCard(profileID, "q", time.Now().UTC()))
	s.Require().NoError(err)

	card, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	card.Stability = 3.5
	card.Difficulty = 4.8
	card.ReviewCount = 1
	card.LastRating = models.RatingGood
	card.NextReview = time.Now().UTC().Add(4 * 24 * time.Hour)
	s.Require().NoError(s.repo.Update(ctx, *card))

	updated, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Equal(3.5, updated.Stability)
	s.Equal(4.8, updated.Difficulty)
	s.Equal(1, updated.ReviewCount)
	s.Equal(models.RatingGood, updated.LastRating)
}

func (s *FlashcardRepositorySuite) TestDelete() {
	ctx := context.Background()
	profileID := s.setupProfile()

	id, err := s.repo.Insert(ctx, s.newCard(profileID, "q", time.Now().UTC()))
	s.Require().NoError(err)

	s.Require().NoError(s.repo.Delete(ctx, id))

	card, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Nil(card)
}

func (s *FlashcardRepositorySuite) TestInsertReviewHistory() {
	ctx := context.Background()
	profileID := s.setupProfile()

	id, err := s.repo.Insert(ctx, s.newCard(profileID, "q", time.Now().UTC()))
	s.Require().NoError(err)

	s.Require().NoError(s.repo.InsertReviewHistory(ctx, id, models.RatingGood, 12.5))
	s.Require().NoError(s.repo.InsertReviewHistory(ctx, id, models.RatingAgain, 30))

	var count int
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM review_history WHERE flashcard_id = ?`, id).Scan(&count)
	s.Require().NoError(err)
	s.Equal(2, count)

	var rating int
	var seconds float64
	err = s.db.QueryRowContext(ctx, `
		SELECT rating, time_seconds FROM review_history WHERE flashcard_id = ? ORDER BY id LIMIT 1
	`, id).Scan(&rating, &seconds)
	s.Require().NoError(err)
	s.Equal(int(models.RatingGood), rating)
	s.Equal(12.5, seconds)
}

func TestFlashcardRepositorySuite(t *testing.T) {
	suite.Run(t, new(FlashcardRepositorySuite))
}
