package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/studyflow/studyflow/internal/logger"
	"github.com/studyflow/studyflow/internal/models"
	"github.com/studyflow/studyflow/internal/repository"
)

type subjectRepository struct {
	db *sql.DB
}

// NewSubjectRepository creates a new SubjectRepository implementation
func NewSubjectRepository(db *sql.DB) repository.SubjectRepository {
	return &subjectRepository{db: db}
}

const subjectColumns = `id, profile_id, name, color, description, material_url, study_duration, knowledge_level, weight, revision_progress, created_at`

func scanSubject(row interface{ Scan(...any) error }) (models.Subject, error) {
	var s models.Subject
	err := row.Scan(&s.ID, &s.ProfileID, &s.Name, &s.Color, &s.Description, &s.MaterialURL,
		&s.StudyDuration, &s.KnowledgeLevel, &s.Weight, &s.RevisionProgress, &s.CreatedAt)
	return s, err
}

func (r *subjectRepository) Get(ctx context.Context, id int64) (*models.Subject, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+subjectColumns+` FROM subjects WHERE id = ?`, id)
	s, err := scanSubject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	topics, err := r.TopicsForSubject(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Topics = topics
	return &s, nil
}

func (r *subjectRepository) List(ctx context.Context, profileID int64) ([]models.Subject, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+subjectColumns+` FROM subjects WHERE profile_id = ? ORDER BY name
`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []models.Subject
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

func (r *subjectRepository) Insert(ctx context.Context, s models.Subject) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("subject_repo")
	log.Debug("inserting subject: name=%s", s.Name)

	if s.Weight == 0 {
		s.Weight = 1
	}
	res, err := r.db.ExecContext(ctx, `
INSERT INTO subjects (profile_id, name, color, description, material_url, study_duration, knowledge_level, weight, revision_progress)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, s.ProfileID, s.Name, s.Color, s.Description, s.MaterialURL, s.StudyDuration, s.KnowledgeLevel, s.Weight, s.RevisionProgress)
	if err != nil {
		log.Error("failed to insert subject: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *subjectRepository) Update(ctx context.Context, s models.Subject) error {
	log := logger.FromContext(ctx).WithPrefix("subject_repo")
	log.Debug("updating subject: id=%d", s.ID)

	_, err := r.db.ExecContext(ctx, `
UPDATE subjects
SET name = ?, color = ?, description = ?, material_url = ?, study_duration = ?, knowledge_level = ?, weight = ?, revision_progress = ?
WHERE id = ?
`, s.Name, s.Color, s.Description, s.MaterialURL, s.StudyDuration, s.KnowledgeLevel, s.Weight, s.RevisionProgress, s.ID)
	if err != nil {
		log.Error("failed to update subject: %v", err)
	}
	return err
}

func (r *subjectRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("subject_repo")
	log.Debug("deleting subject: id=%d", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete subject: %v", err)
	}
	return err
}

func (r *subjectRepository) IncrementRevisionProgress(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE subjects SET revision_progress = revision_progress + 1 WHERE id = ?
`, id)
	return err
}

func (r *subjectRepository) TopicsForSubject(ctx context.Context, subjectID int64) ([]models.Topic, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, subject_id, name, ord, is_completed FROM topics WHERE subject_id = ? ORDER BY ord
`, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []models.Topic
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(&t.ID, &t.SubjectID, &t.Name, &t.Order, &t.IsCompleted); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func (r *subjectRepository) GetTopic(ctx context.Context, id int64) (*models.Topic, error) {
	var t models.Topic
	err := r.db.QueryRowContext(ctx, `
SELECT id, subject_id, name, ord, is_completed FROM topics WHERE id = ?
`, id).Scan(&t.ID, &t.SubjectID, &t.Name, &t.Order, &t.IsCompleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *subjectRepository) InsertTopic(ctx context.Context, t models.Topic) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("subject_repo")
	log.Debug("inserting topic: subject_id=%d, name=%s", t.SubjectID, t.Name)

	var id int64
	err := tx(ctx, r.db, func(txn *sql.Tx) error {
		// Append at the end of the subject's topic list.
		var next int
		if err := txn.QueryRowContext(ctx, `
SELECT COALESCE(MAX(ord) + 1, 0) FROM topics WHERE subject_id = ?
`, t.SubjectID).Scan(&next); err != nil {
			return err
		}
		res, err := txn.ExecContext(ctx, `
INSERT INTO topics (subject_id, name, ord, is_completed) VALUES (?, ?, ?, ?)
`, t.SubjectID, t.Name, next, t.IsCompleted)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	return id, err
}

func (r *subjectRepository) UpdateTopic(ctx context.Context, t models.Topic) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE topics SET name = ?, is_completed = ? WHERE id = ?
`, t.Name, t.IsCompleted, t.ID)
	return err
}

func (r *subjectRepository) DeleteTopic(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("subject_repo")
	log.Debug("deleting topic: id=%d", id)

	return tx(ctx, r.db, func(txn *sql.Tx) error {
		var subjectID int64
		err := txn.QueryRowContext(ctx, `SELECT subject_id FROM topics WHERE id = ?`, id).Scan(&subjectID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		if _, err := txn.ExecContext(ctx, `DELETE FROM topics WHERE id = ?`, id); err != nil {
			return err
		}
		// Reassign order so it stays dense and contiguous from 0.
		rows, err := txn.QueryContext(ctx, `
SELECT id FROM topics WHERE subject_id = ? ORDER BY ord
`, subjectID)
		if err != nil {
			return err
		}
		var ids []int64
		for rows.Next() {
			var tid int64
			if err := rows.Scan(&tid); err != nil {
				rows.Close()
				return err
			}
			ids = append(ids, tid)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
		for ord, tid := range ids {
			if _, err := txn.ExecContext(ctx, `UPDATE topics SET ord = ? WHERE id = ?`, ord, tid); err != nil {
				return err
			}
		}
		return nil
	})
}
