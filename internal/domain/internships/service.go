package internships

import (
	"context"
	"errors"
	"fmt"

	"github.com/internlog/server/internal/audit"
	"github.com/internlog/server/internal/auth"
	"github.com/internlog/server/internal/metrics"
	"github.com/internlog/server/internal/sanitize"
	"github.com/internlog/server/internal/storage"
	"github.com/internlog/server/internal/validation"
)

var ErrNotFound = errors.New("internship not found")

type Service struct {
	repo        Repository
	validator   *validation.Validator
	auditLogger *audit.Logger
}

func NewService(repo Repository, auditLogger *audit.Logger) *Service {
	return &Service{repo: repo, validator: validation.New(), auditLogger: auditLogger}
}

// List is public and returns postings newest first.
func (s *Service) List(ctx context.Context) ([]Internship, error) {
	items, err := s.repo.ListInternships(ctx)
	if err != nil {
		return nil, fmt.Errorf("list internships: %w", err)
	}
	if items == nil {
		items = []Internship{}
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Internship, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}
	item, err := s.repo.GetInternship(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get internship: %w", err)
	}
	return item, nil
}

// Post creates an internship owned by the caller.
func (s *Service) Post(ctx context.Context, caller auth.Identity, params PostParams) (*Internship, error) {
	if err := auth.Authorize(caller, auth.ActionCreateInternship); err != nil {
		metrics.PolicyDenialsTotal.WithLabelValues(string(auth.ActionCreateInternship), caller.Role.String()).Inc()
		return nil, err
	}

	params.Title = sanitize.Text(params.Title)
	params.Company = sanitize.Text(params.Company)
	params.Location = sanitize.Text(params.Location)
	params.Duration = sanitize.Text(params.Duration)
	params.Description = sanitize.Text(params.Description)

	if err := s.validator.Struct(params); err != nil {
		return nil, err
	}

	item, err := s.repo.CreateInternship(ctx, NewInternship{PostParams: params, PostedBy: caller.ID})
	if err != nil {
		if errors.Is(err, storage.ErrForeignKey) {
			// The token outlived its account.
			return nil, auth.ErrInvalidToken
		}
		return nil, fmt.Errorf("create internship: %w", err)
	}

	metrics.InternshipsPostedTotal.Inc()
	s.auditLogger.LogSuccess(ctx, "internship.posted", caller, "internship", item.ID, nil)
	return item, nil
}
