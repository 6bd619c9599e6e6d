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

type StudyLogRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.StudyLogRepository
}

func (s *StudyLogRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewStudyLogRepository(s.db)
}

func (s *StudyLogRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *StudyLogRepositorySuite) setupProfileAndSubjects() (int64, int64, int64) {
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx, `INSERT INTO profiles (username) VALUES (?)`, "testuser")
	s.Require().NoError(err)
	var profileID int64
	err = s.db.QueryRowContext(ctx, `SELECT id FROM profiles WHERE username = ?`, "testuser").Scan(&profileID)
	s.Require().NoError(err)

	var subjectIDs []int64
	for _, name := range []string{"Math", "Physics"} {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO subjects (profile_id, name, study_duration) VALUES (?, ?, 60)
		`, profileID, name)
		s.Require().NoError(err)
		id, err := res.LastInsertId()
		s.Require().NoError(err)
		subjectIDs = append(subjectIDs, id)
	}
	return profileID, subjectIDs[0], subjectIDs[1]
}

func (s *StudyLogRepositorySuite) TestInsertGetRoundTrip() {
	ctx := context.Background()
	profileID, mathID, _ := s.setupProfileAndSubjects()

	idx := 2
	id, err := s.repo.Insert(ctx, models.StudyLogEntry{
		ProfileID:         profileID,
		SubjectID:         mathID,
		Date:              time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		DurationMinutes:   45,
		StartPage:         10,
		EndPage:           25,
		Source:            models.LogSourceManual,
		SequenceItemIndex: &idx,
	})
	s.Require().NoError(err)

	entry, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(entry)
	s.Equal(45, entry.DurationMinutes)
	s.Equal(10, entry.StartPage)
	s.Require().NotNil(entry.SequenceItemIndex)
	s.Equal(2, *entry.SequenceItemIndex)
	s.Zero(entry.TopicID)
}

func (s *StudyLogRepositorySuite) TestListFilters() {
	ctx := context.Background()
	profileID, mathID, physicsID := s.setupProfileAndSubjects()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	entries := []models.StudyLogEntry{
		{ProfileID: profileID, SubjectID: mathID, Date: base, DurationMinutes: 30, Source: "manual"},
		{ProfileID: profileID, SubjectID: mathID, Date: base.AddDate(0, 0, 5), DurationMinutes: 60, Source: "pomodoro"},
		{ProfileID: profileID, SubjectID: physicsID, Date: base.AddDate(0, 0, 10), DurationMinutes: 90, Source: "manual"},
	}
	for _, e := range entries {
		_, err := s.repo.Insert(ctx, e)
		s.Require().NoError(err)
	}

	bySubject, err := s.repo.List(ctx, models.StudyLogFilter{ProfileID: profileID, SubjectID: mathID})
	s.Require().NoError(err)
	s.Len(bySubject, 2)

	bySource, err := s.repo.List(ctx, models.StudyLogFilter{ProfileID: profileID, Source: "pomodoro"})
	s.Require().NoError(err)
	s.Require().Len(bySource, 1)
	s.Equal(60, bySource[0].DurationMinutes)

	from := base.AddDate(0, 0, 3)
	to := base.AddDate(0, 0, 7)
	byWindow, err := s.repo.List(ctx, models.StudyLogFilter{ProfileID: profileID, From: &from, To: &to})
	s.Require().NoError(err)
	s.Require().Len(byWindow, 1)
	s.Equal(60, byWindow[0].DurationMinutes)

	// Newest first.
	all, err := s.repo.List(ctx, models.StudyLogFilter{ProfileID: profileID})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal(90, all[0].DurationMinutes)
}

func (s *StudyLogRepositorySuite) TestUpdateAndDelete() {
	ctx := context.Background()
	profileID, mathID, _ := s.setupProfileAndSubjects()

	id, err := s.repo.Insert(ctx, models.StudyLogEntry{
		ProfileID:       profileID,
		SubjectID:       mathID,
		Date:            time.Now().UTC(),
		DurationMinutes: 30,
		Source:          "manual",
	})
	s.Require().NoError(err)

	entry, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	entry.DurationMinutes = 50
	s.Require().NoError(s.repo.Update(ctx, *entry))

	updated, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Equal(50, updated.DurationMinutes)

	s.Require().NoError(s.repo.Delete(ctx, id))
	gone, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Nil(gone)
}

func (s *StudyLogRepositorySuite) TestSubjectTimeStats() {
	ctx := context.Background()
	profileID, mathID, physicsID := s.setupProfileAndSubjects()

	now := time.Now().UTC()
	for _, e := range []models.StudyLogEntry{
		{ProfileID: profileID, SubjectID: mathID, Date: now, DurationMinutes: 30, Source: "manual"},
		{ProfileID: profileID, SubjectID: mathID, Date: now, DurationMinutes: 45, Source: "manual"},
		{ProfileID: profileID, SubjectID: physicsID, Date: now, DurationMinutes: 20, Source: "manual"},
	} {
		_, err := s.repo.Insert(ctx, e)
		s.Require().NoError(err)
	}

	stats, err := s.repo.SubjectTimeStats(ctx, models.StudyLogFilter{ProfileID: profileID})
	s.Require().NoError(err)
	s.Require().Len(stats, 2)
	s.Equal("Math", stats[0].SubjectName)
	s.Equal(75, stats[0].TotalMinutes)
	s.Equal(2, stats[0].Entries)
	s.Equal("Physics", stats[1].SubjectName)
	s.Equal(20, stats[1].TotalMinutes)
}

func TestStudyLogRepositorySuite(t *testing.T) {
	suite.Run(t, new(StudyLogRepositorySuite))
}
