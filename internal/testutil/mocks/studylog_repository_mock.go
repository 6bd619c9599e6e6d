package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/studyflow/studyflow/internal/models"
)

// MockStudyLogRepository is a mock implementation of repository.StudyLogRepository
type MockStudyLogRepository struct {
	mock.Mock
}

func (m *MockStudyLogRepository) Get(ctx context.Context, id int64) (*models.StudyLogEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudyLogEntry), args.Error(1)
}

func (m *MockStudyLogRepository) List(ctx context.Context, filter models.StudyLogFilter) ([]models.StudyLogEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StudyLogEntry), args.Error(1)
}

func (m *MockStudyLogRepository) Insert(ctx context.Context, entry models.StudyLogEntry) (int64, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStudyLogRepository) Update(ctx context.Context, entry models.StudyLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockStudyLogRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStudyLogRepository) SubjectTimeStats(ctx context.Context, filter models.StudyLogFilter) ([]models.SubjectTimeStat, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SubjectTimeStat), args.Error(1)
}
