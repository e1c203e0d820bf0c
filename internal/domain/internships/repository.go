package internships

import "context"

type Repository interface {
	// ListInternships returns postings newest first.
	ListInternships(ctx context.Context) ([]Internship, error)
	// GetInternship yields storage.ErrNotFound for an unknown id.
	GetInternship(ctx context.Context, id int64) (*Internship, error)
	CreateInternship(ctx context.Context, params NewInternship) (*Internship, error)
}
