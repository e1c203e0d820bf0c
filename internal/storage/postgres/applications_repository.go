package postgres

import (
	"context"
	"time"

	"github.com/internlog/server/internal/domain/applications"
	"github.com/internlog/server/internal/metrics"
)

type ApplicationRepository struct {
	db queryer
}

// CreateApplication is a single INSERT; the applications_student_internship_key constraint
// rejects a second application for the same pair even under concurrent requests.
func (r *ApplicationRepository) CreateApplication(ctx context.Context, studentID, internshipID int64, status applications.Status) (_ *applications.Application, err error) {
	start := time.Now()
	defer func() { metrics.RecordQuery("insert_application", start, err) }()

	var a applications.Application
	var st string
	err = r.db.QueryRow(ctx, `
INSERT INTO applications (student_id, internship_id, status)
VALUES ($1, $2, $3)
RETURNING id, student_id, internship_id, status, created_at
`, studentID, internshipID, string(status)).Scan(&a.ID, &a.StudentID, &a.InternshipID, &st, &a.CreatedAt)
	if err != nil {
		err = mapError("insert application", err)
		return nil, err
	}
	a.Status = applications.Status(st)
	return &a, nil
}

func (r *ApplicationRepository) ListByStudent(ctx context.Context, studentID int64) (_ []applications.StudentApplication, err error) {
	start := time.Now()
	defer func() { metrics.RecordQuery("list_applications_by_student", start, err) }()

	rows, err := r.db.Query(ctx, `
SELECT a.id, a.student_id, a.internship_id, a.status, a.created_at, i.title, i.company
  FROM applications a
  JOIN internships i ON i.id = a.internship_id
 WHERE a.student_id = $1
 ORDER BY a.id DESC
`, studentID)
	if err != nil {
		err = mapError("list applications", err)
		return nil, err
	}
	defer rows.Close()

	out := []applications.StudentApplication{}
	for rows.Next() {
		var a applications.StudentApplication
		var st string
		if err = rows.Scan(&a.ID, &a.StudentID, &a.InternshipID, &st, &a.CreatedAt, &a.Title, &a.Company); err != nil {
			err = mapError("scan application", err)
			return nil, err
		}
		a.Status = applications.Status(st)
		out = append(out, a)
	}
	if err = rows.Err(); err != nil {
		err = mapError("list applications", err)
		return nil, err
	}
	return out, nil
}
