package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/studyflow/studyflow/internal/logger"
	"github.com/studyflow/studyflow/internal/models"
	"github.com/studyflow/studyflow/internal/repository"
)

type sequenceRepository struct {
	db *sql.DB
}

// NewSequenceRepository creates a new SequenceRepository implementation
func NewSequenceRepository(db *sql.DB) repository.SequenceRepository {
	return &sequenceRepository{db: db}
}

func (r *sequenceRepository) GetActive(ctx context.Context, profileID int64) (*models.StudySequence, int, error) {
	var seq models.StudySequence
	var cursor int
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, cursor FROM sequences WHERE profile_id = ? ORDER BY id DESC LIMIT 1
`, profileID).Scan(&seq.ID, &seq.Name, &cursor)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT subject_id, total_time_studied FROM sequence_items WHERE sequence_id = ? ORDER BY position
`, seq.ID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	for rows.Next() {
		var item models.StudySequenceItem
		if err := rows.Scan(&item.SubjectID, &item.TotalTimeStudied); err != nil {
			return nil, 0, err
		}
		seq.Items = append(seq.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return &seq, cursor, nil
}

// Save replaces the profile's active sequence wholesale and returns the
// new sequence id.
func (r *sequenceRepository) Save(ctx context.Context, profileID int64, seq models.StudySequence, cursor int) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("sequence_repo")
	log.Debug("saving sequence: profile_id=%d, items=%d", profileID, len(seq.Items))

	var id int64
	err := tx(ctx, r.db, func(txn *sql.Tx) error {
		if _, err := txn.ExecContext(ctx, `DELETE FROM sequences WHERE profile_id = ?`, profileID); err != nil {
			return err
		}
		res, err := txn.ExecContext(ctx, `
INSERT INTO sequences (profile_id, name, cursor) VALUES (?, ?, ?)
`, profileID, seq.Name, cursor)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		if err != nil {
			return err
		}
		for pos, item := range seq.Items {
			if _, err := txn.ExecContext(ctx, `
INSERT INTO sequence_items (sequence_id, position, subject_id, total_time_studied) VALUES (?, ?, ?, ?)
`, id, pos, item.SubjectID, item.TotalTimeStudied); err != nil {
				return err
			}
		}
		return nil
	})
	return id, err
}

// UpdateProgress persists item accumulated times and the cursor for an
// existing sequence. The item rows are rewritten densely: a subject
// delete cascades its row away and leaves a hole in the stored
// positions, so updating by slice index would miss every item after it.
func (r *sequenceRepository) UpdateProgress(ctx context.Context, seq models.StudySequence, cursor int) error {
	log := logger.FromContext(ctx).WithPrefix("sequence_repo")
	log.Debug("updating sequence progress: id=%d, cursor=%d", seq.ID, cursor)

	return tx(ctx, r.db, func(txn *sql.Tx) error {
		if _, err := txn.ExecContext(ctx, `UPDATE sequences SET cursor = ? WHERE id = ?`, cursor, seq.ID); err != nil {
			return err
		}
		if _, err := txn.ExecContext(ctx, `DELETE FROM sequence_items WHERE sequence_id = ?`, seq.ID); err != nil {
			return err
		}
		for pos, item := range seq.Items {
			if _, err := txn.ExecContext(ctx, `
INSERT INTO sequence_items (sequence_id, position, subject_id, total_time_studied) VALUES (?, ?, ?, ?)
`, seq.ID, pos, item.SubjectID, item.TotalTimeStudied); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *sequenceRepository) Delete(ctx context.Context, profileID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sequences WHERE profile_id = ?`, profileID)
	return err
}
