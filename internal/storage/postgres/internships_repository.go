package postgres

import (
	"context"
	"time"

	"github.com/internlog/server/internal/domain/internships"
	"github.com/internlog/server/internal/metrics"
	"github.com/jackc/pgx/v5"
)

type InternshipRepository struct {
	db queryer
}

const internshipColumns = `id, title, company, location, duration, credits, description, posted_by, created_at`

func scanInternship(row pgx.Row) (internships.Internship, error) {
	var i internships.Internship
	err := row.Scan(&i.ID, &i.Title, &i.Company, &i.Location, &i.Duration, &i.Credits, &i.Description, &i.PostedBy, &i.CreatedAt)
	return i, err
}

func (r *InternshipRepository) ListInternships(ctx context.Context) (_ []internships.Internship, err error) {
	start := time.Now()
	defer func() { metrics.RecordQuery("list_internships", start, err) }()

	rows, err := r.db.Query(ctx, `SELECT `+internshipColumns+` FROM internships ORDER BY id DESC`)
	if err != nil {
		err = mapError("list internships", err)
		return nil, err
	}
	defer rows.Close()

	out := []internships.Internship{}
	for rows.Next() {
		item, scanErr := scanInternship(rows)
		if scanErr != nil {
			err = mapError("scan internship", scanErr)
			return nil, err
		}
		out = append(out, item)
	}
	if err = rows.Err(); err != nil {
		err = mapError("list internships", err)
		return nil, err
	}
	return out, nil
}

func (r *InternshipRepository) GetInternship(ctx context.Context, id int64) (_ *internships.Internship, err error) {
	start := time.Now()
	defer func() { metrics.RecordQuery("select_internship", start, err) }()

	item, err := scanInternship(r.db.QueryRow(ctx, `SELECT `+internshipColumns+` FROM internships WHERE id = $1`, id))
	if err != nil {
		err = mapError("select internship", err)
		return nil, err
	}
	return &item, nil
}

func (r *InternshipRepository) CreateInternship(ctx context.Context, params internships.NewInternship) (_ *internships.Internship, err error) {
	start := time.Now()
	defer func() { metrics.RecordQuery("insert_internship", start, err) }()

	item, err := scanInternship(r.db.QueryRow(ctx, `
INSERT INTO internships (title, company, location, duration, credits, description, posted_by)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+internshipColumns,
		params.Title, params.Company, params.Location, params.Duration, params.Credits, params.Description, params.PostedBy,
	))
	if err != nil {
		err = mapError("insert internship", err)
		return nil, err
	}
	return &item, nil
}
