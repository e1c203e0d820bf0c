package logbooks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/internlog/server/internal/audit"
	"github.com/internlog/server/internal/auth"
	"github.com/internlog/server/internal/metrics"
	"github.com/internlog/server/internal/sanitize"
	"github.com/internlog/server/internal/storage"
	"github.com/internlog/server/internal/validation"
)

var (
	ErrEntryNotFound      = errors.New("logbook entry not found")
	ErrInternshipNotFound = errors.New("internship not found")
)

type Service struct {
	repo        Repository
	validator   *validation.Validator
	auditLogger *audit.Logger
	now         func() time.Time
}

func NewService(repo Repository, auditLogger *audit.Logger) *Service {
	return &Service{
		repo:        repo,
		validator:   validation.New(),
		auditLogger: auditLogger,
		now:         time.Now,
	}
}

// Create stores a pending entry owned by the calling student.
func (s *Service) Create(ctx context.Context, caller auth.Identity, params CreateParams) (*Entry, error) {
	if err := auth.Authorize(caller, auth.ActionCreateLogbookEntry); err != nil {
		metrics.PolicyDenialsTotal.WithLabelValues(string(auth.ActionCreateLogbookEntry), caller.Role.String()).Inc()
		return nil, err
	}

	params.Content = sanitize.Text(params.Content)
	if err := s.validator.Struct(params); err != nil {
		return nil, err
	}

	date, err := s.parseEntryDate(params.EntryDate)
	if err != nil {
		return nil, err
	}

	entry, err := s.repo.CreateEntry(ctx, NewEntry{
		StudentID:    caller.ID,
		InternshipID: params.InternshipID,
		EntryDate:    date,
		Content:      params.Content,
	})
	if err != nil {
		if errors.Is(err, storage.ErrForeignKey) {
			return nil, ErrInternshipNotFound
		}
		return nil, fmt.Errorf("create logbook entry: %w", err)
	}

	metrics.LogbookEntriesTotal.Inc()
	return entry, nil
}

// ListForInternship returns the caller's own entries for students and every entry,
// with the author's name, for faculty and admins.
func (s *Service) ListForInternship(ctx context.Context, caller auth.Identity, internshipID int64) ([]Entry, error) {
	if err := auth.Authorize(caller, auth.ActionListLogbookEntries); err != nil {
		metrics.PolicyDenialsTotal.WithLabelValues(string(auth.ActionListLogbookEntries), caller.Role.String()).Inc()
		return nil, err
	}

	var (
		items []Entry
		err   error
	)
	switch caller.Role {
	case auth.RoleStudent:
		items, err = s.repo.ListByStudent(ctx, caller.ID, internshipID)
	case auth.RoleFaculty, auth.RoleAdmin:
		items, err = s.repo.ListByInternship(ctx, internshipID)
	default:
		return nil, fmt.Errorf("list logbook entries as %q: %w", caller.Role, auth.ErrForbidden)
	}
	if err != nil {
		return nil, fmt.Errorf("list logbook entries: %w", err)
	}
	if items == nil {
		items = []Entry{}
	}
	return items, nil
}

// Approve marks an entry approved. Approving an approved entry succeeds without change.
func (s *Service) Approve(ctx context.Context, caller auth.Identity, entryID int64) error {
	if err := auth.Authorize(caller, auth.ActionApproveLogbookEntry); err != nil {
		metrics.PolicyDenialsTotal.WithLabelValues(string(auth.ActionApproveLogbookEntry), caller.Role.String()).Inc()
		return err
	}
	if entryID <= 0 {
		return ErrEntryNotFound
	}

	entry, err := s.repo.GetEntry(ctx, entryID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			metrics.LogbookApprovalsTotal.WithLabelValues("not_found").Inc()
			return ErrEntryNotFound
		}
		return fmt.Errorf("get logbook entry: %w", err)
	}
	if err := Transition(entry.State(), StateApproved); err != nil {
		return err
	}
	if entry.FacultyApproved {
		metrics.LogbookApprovalsTotal.WithLabelValues("already_approved").Inc()
		return nil
	}

	if err := s.repo.ApproveEntry(ctx, entryID, caller.ID, s.now().UTC()); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			metrics.LogbookApprovalsTotal.WithLabelValues("not_found").Inc()
			return ErrEntryNotFound
		}
		metrics.LogbookApprovalsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("approve logbook entry: %w", err)
	}

	metrics.LogbookApprovalsTotal.WithLabelValues("approved").Inc()
	s.auditLogger.LogSuccess(ctx, "logbook.approved", caller, "logbook_entry", entryID, map[string]string{
		"student_id": fmt.Sprint(entry.StudentID),
	})
	return nil
}

func (s *Service) parseEntryDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		now := s.now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	if d, err := time.Parse(DateLayout, raw); err == nil {
		return d, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, validation.Field("entry_date", "must be a date in YYYY-MM-DD format")
}
