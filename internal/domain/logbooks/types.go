package logbooks

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the wire and storage format of entry dates.
const DateLayout = "2006-01-02"

// State is the approval state of a logbook entry.
type State string

const (
	StatePending  State = "pending"
	StateApproved State = "approved"
)

var ErrInvalidTransition = errors.New("invalid logbook state transition")

// Transition checks a state change. Approval is one way; approving twice is a no-op.
func Transition(from, to State) error {
	switch {
	case from == StatePending && to == StateApproved:
		return nil
	case from == StateApproved && to == StateApproved:
		return nil
	default:
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
}

// Entry is one dated logbook record written by a student for an internship.
type Entry struct {
	ID              int64      `json:"id"`
	StudentID       int64      `json:"student_id"`
	InternshipID    int64      `json:"internship_id"`
	EntryDate       string     `json:"entry_date"`
	Content         string     `json:"content"`
	FacultyApproved bool       `json:"faculty_approved"`
	ApprovedBy      *int64     `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	// StudentName is only filled for faculty and admin listings.
	StudentName string `json:"student_name,omitempty"`
}

func (e Entry) State() State {
	if e.FacultyApproved {
		return StateApproved
	}
	return StatePending
}

// CreateParams is the request body for a new entry. EntryDate defaults to today.
type CreateParams struct {
	InternshipID int64  `json:"internship_id" validate:"required,gt=0"`
	EntryDate    string `json:"entry_date"`
	Content      string `json:"content" validate:"max=20000"`
}

// NewEntry holds the columns written when an entry is created.
type NewEntry struct {
	StudentID    int64
	InternshipID int64
	EntryDate    time.Time
	Content      string
}
