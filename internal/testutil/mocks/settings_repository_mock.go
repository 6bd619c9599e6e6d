package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/studyflow/studyflow/internal/models"
)

// MockSettingsRepository is a mock implementation of repository.SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context, profileID int64) (*models.PomodoroSettings, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PomodoroSettings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, profileID int64, settings models.PomodoroSettings) error {
	args := m.Called(ctx, profileID, settings)
	return args.Error(0)
}
