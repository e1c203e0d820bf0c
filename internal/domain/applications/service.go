package applications

import (
	"context"
	"errors"
	"fmt"

	"github.com/internlog/server/internal/audit"
	"github.com/internlog/server/internal/auth"
	"github.com/internlog/server/internal/metrics"
	"github.com/internlog/server/internal/storage"
	"github.com/internlog/server/internal/validation"
)

var (
	ErrAlreadyApplied     = errors.New("already applied to this internship")
	ErrInternshipNotFound = errors.New("internship not found")
)

type Service struct {
	repo        Repository
	validator   *validation.Validator
	auditLogger *audit.Logger
}

func NewService(repo Repository, auditLogger *audit.Logger) *Service {
	return &Service{repo: repo, validator: validation.New(), auditLogger: auditLogger}
}

// Apply records an application by the calling student.
func (s *Service) Apply(ctx context.Context, caller auth.Identity, params ApplyParams) (*Application, error) {
	if err := auth.Authorize(caller, auth.ActionApplyInternship); err != nil {
		metrics.PolicyDenialsTotal.WithLabelValues(string(auth.ActionApplyInternship), caller.Role.String()).Inc()
		return nil, err
	}
	if err := s.validator.Struct(params); err != nil {
		return nil, err
	}

	app, err := s.repo.CreateApplication(ctx, caller.ID, params.InternshipID, StatusApplied)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrConflict):
		metrics.ApplicationsTotal.WithLabelValues("already_applied").Inc()
		return nil, ErrAlreadyApplied
	case errors.Is(err, storage.ErrForeignKey):
		metrics.ApplicationsTotal.WithLabelValues("not_found").Inc()
		return nil, ErrInternshipNotFound
	default:
		metrics.ApplicationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("create application: %w", err)
	}

	metrics.ApplicationsTotal.WithLabelValues("applied").Inc()
	s.auditLogger.LogSuccess(ctx, "application.created", caller, "application", app.ID, map[string]string{
		"internship_id": fmt.Sprint(app.InternshipID),
	})
	return app, nil
}

// ListMine returns the caller's applications with internship title and company.
func (s *Service) ListMine(ctx context.Context, caller auth.Identity) ([]StudentApplication, error) {
	if err := auth.Authorize(caller, auth.ActionListOwnApplications); err != nil {
		metrics.PolicyDenialsTotal.WithLabelValues(string(auth.ActionListOwnApplications), caller.Role.String()).Inc()
		return nil, err
	}
	items, err := s.repo.ListByStudent(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	if items == nil {
		items = []StudentApplication{}
	}
	return items, nil
}
