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
	"github.com/studyflow/studyflow/internal/testutil/mocks"
)

func intPtr(i int) *int { return &i }

func newStudyFixture() (*mocks.MockSubjectRepository, *mocks.MockStudyLogRepository, *mocks.MockSequenceRepository, StudyService) {
	subjectRepo := new(mocks.MockSubjectRepository)
	logRepo := new(mocks.MockStudyLogRepository)
	seqRepo := new(mocks.MockSequenceRepository)
	svc := NewStudyService(subjectRepo, logRepo, seqRepo)
	return subjectRepo, logRepo, seqRepo, svc
}

func TestCreateSubject_DefaultsLevelAndWeight(t *testing.T) {
	subjectRepo, _, _, svc := newStudyFixture()

	subjectRepo.On("Insert", mock.Anything, mock.MatchedBy(func(s models.Subject) bool {
		return s.KnowledgeLevel == models.LevelBeginner && s.Weight == 1.0
	})).Return(int64(7), nil)

	created, err := svc.CreateSubject(context.Background(), models.Subject{
		ProfileID:     1,
		Name:          "Linear Algebra",
		StudyDuration: 60,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	assert.Equal(t, models.LevelBeginner, created.KnowledgeLevel)
	subjectRepo.AssertExpectations(t)
}

func TestCreateSubject_RejectsInvalidInput(t *testing.T) {
	_, _, _, svc := newStudyFixture()
	ctx := context.Background()

	_, err := svc.CreateSubject(ctx, models.Subject{StudyDuration: 60})
	assert.Error(t, err)

	_, err = svc.CreateSubject(ctx, models.Subject{Name: "X", StudyDuration: 0})
	assert.Error(t, err)

	_, err = svc.CreateSubject(ctx, models.Subject{Name: "X", StudyDuration: 60, Weight: 3.0})
	assert.Error(t, err)

	_, err = svc.CreateSubject(ctx, models.Subject{Name: "X", StudyDuration: 60, KnowledgeLevel: "expert"})
	assert.Error(t, err)
}

func TestAppendLog_CreditsCursorItemAndAdvances(t *testing.T) {
	subjectRepo, logRepo, seqRepo, svc := newStudyFixture()
	ctx := context.Background()

	subjectRepo.On("Get", mock.Anything, int64(2)).
		Return(&models.Subject{ID: 2, StudyDuration: 60}, nil)
	logRepo.On("Insert", mock.Anything, mock.Anything).Return(int64(10), nil)
	seqRepo.On("GetActive", mock.Anything, int64(1)).Return(&models.StudySequence{
		ID: 5,
		Items: []models.StudySequenceItem{
			{SubjectID: 2, TotalTimeStudied: 30},
			{SubjectID: 3},
		},
	}, 0, nil)
	seqRepo.On("UpdateProgress", mock.Anything, mock.MatchedBy(func(seq models.StudySequence) bool {
		return seq.Items[0].TotalTimeStudied == 60
	}), 1).Return(nil)

	entry, err := svc.AppendLog(ctx, models.StudyLogEntry{
		ProfileID:         1,
		SubjectID:         2,
		DurationMinutes:   30,
		SequenceItemIndex: intPtr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), entry.ID)
	assert.Equal(t, models.LogSourceManual, entry.Source)
	seqRepo.AssertExpectations(t)
}

func TestAppendLog_NoSequenceAttributionSkipsTracker(t *testing.T) {
	subjectRepo, logRepo, seqRepo, svc := newStudyFixture()

	subjectRepo.On("Get", mock.Anything, int64(2)).
		Return(&models.Subject{ID: 2, StudyDuration: 60}, nil)
	logRepo.On("Insert", mock.Anything, mock.Anything).Return(int64(11), nil)

	_, err := svc.AppendLog(context.Background(), models.StudyLogEntry{
		ProfileID:       1,
		SubjectID:       2,
		DurationMinutes: 45,
		Date:            time.Now(),
	})
	require.NoError(t, err)
	seqRepo.AssertNotCalled(t, "GetActive", mock.Anything, mock.Anything)
	seqRepo.AssertNotCalled(t, "UpdateProgress", mock.Anything, mock.Anything, mock.Anything)
}

func TestAppendLog_RevisionSourceBumpsProgress(t *testing.T) {
	subjectRepo, logRepo, _, svc := newStudyFixture()

	subjectRepo.On("Get", mock.Anything, int64(2)).
		Return(&models.Subject{ID: 2, StudyDuration: 60}, nil)
	logRepo.On("Insert", mock.Anything, mock.Anything).Return(int64(12), nil)
	subjectRepo.On("IncrementRevisionProgress", mock.Anything, int64(2)).Return(nil)

	_, err := svc.AppendLog(context.Background(), models.StudyLogEntry{
		ProfileID:       1,
		SubjectID:       2,
		DurationMinutes: 25,
		Source:          "revision:1",
	})
	require.NoError(t, err)
	subjectRepo.AssertExpectations(t)
}

func TestAppendLog_RejectsNonPositiveDuration(t *testing.T) {
	_, logRepo, _, svc := newStudyFixture()

	_, err := svc.AppendLog(context.Background(), models.StudyLogEntry{
		ProfileID: 1,
		SubjectID: 2,
	})
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	logRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestAppendLog_UnknownSubject(t *testing.T) {
	subjectRepo, _, _, svc := newStudyFixture()

	subjectRepo.On("Get", mock.Anything, int64(99)).Return(nil, nil)

	_, err := svc.AppendLog(context.Background(), models.StudyLogEntry{
		ProfileID:       1,
		SubjectID:       99,
		DurationMinutes: 30,
	})
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}

func TestUpdateLog_AppliesDurationDelta(t *testing.T) {
	_, logRepo, seqRepo, svc := newStudyFixture()

	old := &models.StudyLogEntry{
		ID:                10,
		ProfileID:         1,
		SubjectID:         2,
		DurationMinutes:   60,
		SequenceItemIndex: intPtr(0),
	}
	logRepo.On("Get", mock.Anything, int64(10)).Return(old, nil)
	logRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	seqRepo.On("GetActive", mock.Anything, int64(1)).Return(&models.StudySequence{
		ID:    5,
		Items: []models.StudySequenceItem{{SubjectID: 2, TotalTimeStudied: 60}},
	}, 1, nil)
	// 60 -> 45 shrinks the credited total; the cursor stays where it was.
	seqRepo.On("UpdateProgress", mock.Anything, mock.MatchedBy(func(seq models.StudySequence) bool {
		return seq.Items[0].TotalTimeStudied == 45
	}), 1).Return(nil)

	err := svc.UpdateLog(context.Background(), models.StudyLogEntry{
		ID:              10,
		DurationMinutes: 45,
	})
	require.NoError(t, err)
	seqRepo.AssertExpectations(t)
}

func TestDeleteLog_SubtractsDuration(t *testing.T) {
	_, logRepo, seqRepo, svc := newStudyFixture()

	old := &models.StudyLogEntry{
		ID:                10,
		ProfileID:         1,
		SubjectID:         2,
		DurationMinutes:   60,
		SequenceItemIndex: intPtr(0),
	}
	logRepo.On("Get", mock.Anything, int64(10)).Return(old, nil)
	logRepo.On("Delete", mock.Anything, int64(10)).Return(nil)
	seqRepo.On("GetActive", mock.Anything, int64(1)).Return(&models.StudySequence{
		ID:    5,
		Items: []models.StudySequenceItem{{SubjectID: 2, TotalTimeStudied: 60}},
	}, 1, nil)
	seqRepo.On("UpdateProgress", mock.Anything, mock.MatchedBy(func(seq models.StudySequence) bool {
		return seq.Items[0].TotalTimeStudied == 0
	}), 1).Return(nil)

	err := svc.DeleteLog(context.Background(), int64(10))
	require.NoError(t, err)
	seqRepo.AssertExpectations(t)
}

func TestDeleteLog_NotFound(t *testing.T) {
	_, logRepo, _, svc := newStudyFixture()

	logRepo.On("Get", mock.Anything, int64(404)).Return(nil, nil)

	err := svc.DeleteLog(context.Background(), int64(404))
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}
