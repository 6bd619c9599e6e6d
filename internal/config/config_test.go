package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/studyflow/studyflow/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:                   ":8080",
		DBPath:                 "test.db",
		LogLevel:               "INFO",
		LogWorkerCount:         1,
		LogQueueSize:           64,
		RequestRetention:       0.9,
		MaximumIntervalDays:    36500,
		ShortBreakSeconds:      300,
		LongBreakSeconds:       900,
		CyclesUntilLongBreak:   4,
		SessionDurationMinutes: 50,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_InvalidWorkerPool(t *testing.T) {
	cfg := validConfig()
	cfg.LogWorkerCount = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.LogQueueSize = -1
	assert.Error(t, cfg.Validate())
}

func TestValidate_RetentionBounds(t *testing.T) {
	cfg := validConfig()
	cfg.RequestRetention = 0
	assert.Error(t, cfg.Validate())

	cfg.RequestRetention = 1
	assert.Error(t, cfg.Validate())

	cfg.RequestRetention = 0.85
	assert.NoError(t, cfg.Validate())
}

func TestValidate_PomodoroDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.CyclesUntilLongBreak = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.SessionDurationMinutes = 0
	assert.Error(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 0.9, cfg.RequestRetention)
	assert.Equal(t, 4, cfg.CyclesUntilLongBreak)
	assert.NoError(t, cfg.Validate())
}
