package sqlite

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/studyflow/studyflow/internal/logger"
	"github.com/studyflow/studyflow/internal/models"
	"github.com/studyflow/studyflow/internal/repository"
)

type studyLogRepository struct {
	db *sql.DB
}

// NewStudyLogRepository creates a new StudyLogRepository implementation
func NewStudyLogRepository(db *sql.DB) repository.StudyLogRepository {
	return &studyLogRepository{db: db}
}

const studyLogColumns = `id, profile_id, subject_id, topic_id, date, duration_minutes, start_page, end_page, questions, correct, source, sequence_item_index, created_at`

func scanStudyLog(row interface{ Scan(...any) error }) (models.StudyLogEntry, error) {
	var e models.StudyLogEntry
	var topicID sql.NullInt64
	var seqIdx sql.NullInt64
	err := row.Scan(&e.ID, &e.ProfileID, &e.SubjectID, &topicID, &e.Date, &e.DurationMinutes,
		&e.StartPage, &e.EndPage, &e.Questions, &e.Correct, &e.Source, &seqIdx, &e.CreatedAt)
	if err != nil {
		return e, err
	}
	if topicID.Valid {
		e.TopicID = topicID.Int64
	}
	if seqIdx.Valid {
		idx := int(seqIdx.Int64)
		e.SequenceItemIndex = &idx
	}
	return e, nil
}

func (r *studyLogRepository) Get(ctx context.Context, id int64) (*models.StudyLogEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+studyLogColumns+` FROM study_logs WHERE id = ?`, id)
	e, err := scanStudyLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns log entries matching the filter, newest first.
func (r *studyLogRepository) List(ctx context.Context, filter models.StudyLogFilter) ([]models.StudyLogEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("studylog_repo")

	q := sq.Select(studyLogColumns).
		From("study_logs").
		Where(sq.Eq{"profile_id": filter.ProfileID}).
		OrderBy("date DESC", "id DESC")
	if filter.SubjectID != 0 {
		q = q.Where(sq.Eq{"subject_id": filter.SubjectID})
	}
	if filter.Source != "" {
		q = q.Where(sq.Eq{"source": filter.Source})
	}
	if filter.From != nil {
		q = q.Where(sq.GtOrEq{"date": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(sq.LtOrEq{"date": *filter.To})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query study logs: %v", err)
		return nil, err
	}
	defer rows.Close()

	var entries []models.StudyLogEntry
	for rows.Next() {
		e, err := scanStudyLog(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	log.Debug("found %d study logs", len(entries))
	return entries, rows.Err()
}

func (r *studyLogRepository) Insert(ctx context.Context, e models.StudyLogEntry) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("studylog_repo")
	log.Debug("inserting study log: subject_id=%d, duration=%dm, source=%s", e.SubjectID, e.DurationMinutes, e.Source)

	var topicID any
	if e.TopicID != 0 {
		topicID = e.TopicID
	}
	var seqIdx any
	if e.SequenceItemIndex != nil {
		seqIdx = *e.SequenceItemIndex
	}
	res, err := r.db.ExecContext(ctx, `
INSERT INTO study_logs (profile_id, subject_id, topic_id, date, duration_minutes, start_page, end_page, questions, correct, source, sequence_item_index)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, e.ProfileID, e.SubjectID, topicID, e.Date, e.DurationMinutes, e.StartPage, e.EndPage, e.Questions, e.Correct, e.Source, seqIdx)
	if err != nil {
		log.Error("failed to insert study log: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *studyLogRepository) Update(ctx context.Context, e models.StudyLogEntry) error {
	log := logger.FromContext(ctx).WithPrefix("studylog_repo")
	log.Debug("updating study log: id=%d", e.ID)

	var topicID any
	if e.TopicID != 0 {
		topicID = e.TopicID
	}
	var seqIdx any
	if e.SequenceItemIndex != nil {
		seqIdx = *e.SequenceItemIndex
	}
	_, err := r.db.ExecContext(ctx, `
UPDATE study_logs
SET subject_id = ?, topic_id = ?, date = ?, duration_minutes = ?, start_page = ?, end_page = ?, questions = ?, correct = ?, source = ?, sequence_item_index = ?
WHERE id = ?
`, e.SubjectID, topicID, e.Date, e.DurationMinutes, e.StartPage, e.EndPage, e.Questions, e.Correct, e.Source, seqIdx, e.ID)
	if err != nil {
		log.Error("failed to update study log: %v", err)
	}
	return err
}

func (r *studyLogRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("studylog_repo")
	log.Debug("deleting study log: id=%d", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM study_logs WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete study log: %v", err)
	}
	return err
}

// SubjectTimeStats aggregates studied minutes per subject over the
// filter's window.
func (r *studyLogRepository) SubjectTimeStats(ctx context.Context, filter models.StudyLogFilter) ([]models.SubjectTimeStat, error) {
	q := sq.Select(
		"l.subject_id",
		"s.name",
		"COALESCE(SUM(l.duration_minutes), 0) AS total_minutes",
		"COUNT(l.id) AS entries",
	).
		From("study_logs l").
		Join("subjects s ON s.id = l.subject_id").
		Where(sq.Eq{"l.profile_id": filter.ProfileID}).
		GroupBy("l.subject_id", "s.name").
		OrderBy("total_minutes DESC")
	if filter.Source != "" {
		q = q.Where(sq.Eq{"l.source": filter.Source})
	}
	if filter.From != nil {
		q = q.Where(sq.GtOrEq{"l.date": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(sq.LtOrEq{"l.date": *filter.To})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.SubjectTimeStat
	for rows.Next() {
		var s models.SubjectTimeStat
		if err := rows.Scan(&s.SubjectID, &s.SubjectName, &s.TotalMinutes, &s.Entries); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
