package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/studyflow/studyflow/internal/models"
)

// MockSequenceRepository is a mock implementation of repository.SequenceRepository
type MockSequenceRepository struct {
	mock.Mock
}

func (m *MockSequenceRepository) GetActive(ctx context.Context, profileID int64) (*models.StudySequence, int, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).(*models.StudySequence), args.Int(1), args.Error(2)
}

func (m *MockSequenceRepository) Save(ctx context.Context, profileID int64, seq models.StudySequence, cursor int) (int64, error) {
	args := m.Called(ctx, profileID, seq, cursor)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSequenceRepository) UpdateProgress(ctx context.Context, seq models.StudySequence, cursor int) error {
	args := m.Called(ctx, seq, cursor)
	return args.Error(0)
}

func (m *MockSequenceRepository) Delete(ctx context.Context, profileID int64) error {
	args := m.Called(ctx, profileID)
	return args.Error(0)
}
