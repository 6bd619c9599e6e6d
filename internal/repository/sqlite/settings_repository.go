package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/studyflow/studyflow/internal/logger"
	"github.com/studyflow/studyflow/internal/models"
	"github.com/studyflow/studyflow/internal/repository"
)

type settingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SettingsRepository implementation
func NewSettingsRepository(db *sql.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context, profileID int64) (*models.PomodoroSettings, error) {
	var s models.PomodoroSettings
	err := r.db.QueryRowContext(ctx, `
SELECT short_break_seconds, long_break_seconds, cycles_until_long_break
FROM pomodoro_settings WHERE profile_id = ?
`, profileID).Scan(&s.ShortBreakSeconds, &s.LongBreakSeconds, &s.CyclesUntilLongBreak)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, duration_seconds FROM pomodoro_tasks WHERE profile_id = ? ORDER BY ord
`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t models.PomodoroTask
		if err := rows.Scan(&t.ID, &t.Name, &t.DurationSeconds); err != nil {
			return nil, err
		}
		s.Tasks = append(s.Tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepository) Save(ctx context.Context, profileID int64, s models.PomodoroSettings) error {
	log := logger.FromContext(ctx).WithPrefix("settings_repo")
	log.Debug("saving pomodoro settings: profile_id=%d, tasks=%d", profileID, len(s.Tasks))

	return tx(ctx, r.db, func(txn *sql.Tx) error {
		if _, err := txn.ExecContext(ctx, `
INSERT INTO pomodoro_settings (profile_id, short_break_seconds, long_break_seconds, cycles_until_long_break)
VALUES (?, ?, ?, ?)
ON CONFLICT(profile_id) DO UPDATE SET
    short_break_seconds = excluded.short_break_seconds,
    long_break_seconds = excluded.long_break_seconds,
    cycles_until_long_break = excluded.cycles_until_long_break
`, profileID, s.ShortBreakSeconds, s.LongBreakSeconds, s.CyclesUntilLongBreak); err != nil {
			return err
		}
		if _, err := txn.ExecContext(ctx, `DELETE FROM pomodoro_tasks WHERE profile_id = ?`, profileID); err != nil {
			return err
		}
		for ord, t := range s.Tasks {
			if _, err := txn.ExecContext(ctx, `
INSERT INTO pomodoro_tasks (profile_id, name, duration_seconds, ord) VALUES (?, ?, ?, ?)
`, profileID, t.Name, t.DurationSeconds, ord); err != nil {
				return err
			}
		}
		return nil
	})
}
