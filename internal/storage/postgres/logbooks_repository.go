package postgres

import (
	"context"
	"time"

	"github.com/internlog/server/internal/domain/logbooks"
	"github.com/internlog/server/internal/metrics"
	"github.com/internlog/server/internal/storage"
	"github.com/jackc/pgx/v5"
)

type LogbookRepository struct {
	db queryer
}

const logbookColumns = `l.id, l.student_id, l.internship_id, l.entry_date, l.content,
       l.faculty_approved, l.approved_by, l.approved_at, l.created_at`

func scanLogbook(row pgx.Row, extra ...any) (logbooks.Entry, error) {
	var e logbooks.Entry
	var date time.Time
	dest := append([]any{
		&e.ID, &e.StudentID, &e.InternshipID, &date, &e.Content,
		&e.FacultyApproved, &e.ApprovedBy, &e.ApprovedAt, &e.CreatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return e, err
	}
	e.EntryDate = date.Format(logbooks.DateLayout)
	return e, nil
}

func (r *LogbookRepository) CreateEntry(ctx context.Context, params logbooks.NewEntry) (_ *logbooks.Entry, err error) {
	start := time.Now()
	defer func() { metrics.RecordQuery("insert_logbook", start, err) }()

	entry, err := scanLogbook(r.db.QueryRow(ctx, `
INSERT INTO logbooks AS l (student_id, internship_id, entry_date, content, faculty_approved)
VALUES ($1, $2, $3, $4, false)
RETURNING `+logbookColumns,
		params.StudentID, params.InternshipID, params.EntryDate, params.Content,
	))
	if err != nil {
		err = mapError("insert logbook entry", err)
		return nil, err
	}
	return &entry, nil
}

func (r *LogbookRepository) GetEntry(ctx context.Context, id int64) (_ *logbooks.Entry, err error) {
	start := time.Now()
	defer func() { metrics.RecordQuery("select_logbook", start, err) }()

	entry, err := scanLogbook(r.db.QueryRow(ctx, `SELECT `+logbookColumns+` FROM logbooks l WHERE l.id = $1`, id))
	if err != nil {
		err = mapError("select logbook entry", err)
		return nil, err
	}
	return &entry, nil
}

func (r *LogbookRepository) ListByInternship(ctx context.Context, internshipID int64) (_ []logbooks.Entry, err error) {
	start := time.Now()
	defer func() { metrics.RecordQuery("list_logbooks_by_internship", start, err) }()

	rows, err := r.db.Query(ctx, `
SELECT `+logbookColumns+`, u.name
  FROM logbooks l
  JOIN users u ON u.id = l.student_id
 WHERE l.internship_id = $1
 ORDER BY l.entry_date, l.id
`, internshipID)
	if err != nil {
		err = mapError("list logbook entries", err)
		return nil, err
	}
	out, err := collectLogbooks(rows, true)
	return out, err
}

func (r *LogbookRepository) ListByStudent(ctx context.Context, studentID, internshipID int64) (_ []logbooks.Entry, err error) {
	start := time.Now()
	defer func() { metrics.RecordQuery("list_logbooks_by_student", start, err) }()

	rows, err := r.db.Query(ctx, `
SELECT `+logbookColumns+`
  FROM logbooks l
 WHERE l.student_id = $1 AND l.internship_id = $2
 ORDER BY l.entry_date, l.id
`, studentID, internshipID)
	if err != nil {
		err = mapError("list logbook entries", err)
		return nil, err
	}
	out, err := collectLogbooks(rows, false)
	return out, err
}

func collectLogbooks(rows pgx.Rows, withName bool) ([]logbooks.Entry, error) {
	defer rows.Close()

	out := []logbooks.Entry{}
	for rows.Next() {
		var (
			entry logbooks.Entry
			name  string
			err   error
		)
		if withName {
			entry, err = scanLogbook(rows, &name)
			entry.StudentName = name
		} else {
			entry, err = scanLogbook(rows)
		}
		if err != nil {
			return nil, mapError("scan logbook entry", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list logbook entries", err)
	}
	return out, nil
}

// ApproveEntry sets the flag and keeps the first approver on repeated calls.
func (r *LogbookRepository) ApproveEntry(ctx context.Context, id, approverID int64, at time.Time) (err error) {
	start := time.Now()
	defer func() { metrics.RecordQuery("approve_logbook", start, err) }()

	tag, err := r.db.Exec(ctx, `
UPDATE logbooks
   SET faculty_approved = true,
       approved_by = COALESCE(approved_by, $2),
       approved_at = COALESCE(approved_at, $3)
 WHERE id = $1
`, id, approverID, at)
	if err != nil {
		err = mapError("approve logbook entry", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		err = storage.ErrNotFound
		return err
	}
	return nil
}
