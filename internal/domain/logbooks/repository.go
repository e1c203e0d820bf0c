package logbooks

import (
	"context"
	"time"
)

type Repository interface {
	// CreateEntry yields storage.ErrForeignKey when the internship does not exist.
	CreateEntry(ctx context.Context, params NewEntry) (*Entry, error)
	// GetEntry yields storage.ErrNotFound for an unknown id.
	GetEntry(ctx context.Context, id int64) (*Entry, error)
	// ListByInternship returns every student's entries with StudentName set.
	ListByInternship(ctx context.Context, internshipID int64) ([]Entry, error)
	ListByStudent(ctx context.Context, studentID, internshipID int64) ([]Entry, error)
	// ApproveEntry marks the entry approved, keeping the first approver and time.
	// It yields storage.ErrNotFound when no row matches.
	ApproveEntry(ctx context.Context, id, approverID int64, at time.Time) error
}
