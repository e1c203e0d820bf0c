package applications

import "context"

type Repository interface {
	// CreateApplication inserts in one statement. A second application for the same
	// (student, internship) pair yields storage.ErrConflict; an unknown internship yields
	// storage.ErrForeignKey.
	CreateApplication(ctx context.Context, studentID, internshipID int64, status Status) (*Application, error)
	ListByStudent(ctx context.Context, studentID int64) ([]StudentApplication, error)
}
