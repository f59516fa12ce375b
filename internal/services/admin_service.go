package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BradenHooton/sitebase/internal/admin"
	"github.com/BradenHooton/sitebase/internal/models"
)

// AdminListRepository is the storage side of the generic back-office list
type AdminListRepository interface {
	List(ctx context.Context, m *admin.ModelAdmin, q admin.ListQuery) (*admin.ListResult, error)
}

// ModelSummary describes a registered model for the back-office index.
type ModelSummary struct {
	Name         string   `json:"name"`
	Columns      []string `json:"columns"`
	SearchFields []string `json:"search_fields"`
	ListFilter   []string `json:"list_filter"`
	SoftDelete   bool     `json:"soft_delete"`
}

// AdminService serves the generic back-office views over the registered models.
type AdminService struct {
	site   *admin.Site
	repo   AdminListRepository
	logger *slog.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(site *admin.Site, repo AdminListRepository, logger *slog.Logger) *AdminService {
	return &AdminService{
		site:   site,
		repo:   repo,
		logger: logger,
	}
}

// Models lists every registered model in registration order.
func (s *AdminService) Models() []ModelSummary {
	registered := s.site.Models()
	out := make([]ModelSummary, 0, len(registered))
	for _, m := range registered {
		out = append(out, ModelSummary{
			Name:         m.Name,
			Columns:      m.Columns(),
			SearchFields: nonNil(m.SearchFields),
			ListFilter:   nonNil(m.ListFilter),
			SoftDelete:   m.SoftDelete,
		})
	}
	return out
}

// Fieldsets returns the edit-form grouping of a model.
func (s *AdminService) Fieldsets(name string) ([]admin.Fieldset, error) {
	m, ok := s.site.Get(name)
	if !ok {
		return nil, models.ErrNotFound
	}
	if len(m.Fieldsets) == 0 {
		return []admin.Fieldset{}, nil
	}
	return m.Fieldsets, nil
}

// List returns one page of rows for a model. Search and filter problems are validation errors.
func (s *AdminService) List(ctx context.Context, name string, q admin.ListQuery) (*admin.ListResult, error) {
	m, ok := s.site.Get(name)
	if !ok {
		return nil, models.ErrNotFound
	}

	result, err := s.repo.List(ctx, m, q)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			return nil, err
		}
		s.logger.Error("admin: failed to list rows", slog.String("model", name), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if result.Rows == nil {
		result.Rows = []map[string]any{}
	}
	return result, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
