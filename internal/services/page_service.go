package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BradenHooton/sitebase/internal/models"
	"github.com/BradenHooton/sitebase/internal/repositories"
	"github.com/BradenHooton/sitebase/pkg/logger"
)

const (
	DefaultPageListLimit = 20
	MaxPageListLimit     = 100
)

// PageRepository defines the interface for page data access
type PageRepository interface {
	GetByID(ctx context.Context, id string, scope repositories.Scope) (*models.Page, error)
	GetBySlug(ctx context.Context, slug string, scope repositories.Scope) (*models.Page, error)
	List(ctx context.Context, scope repositories.Scope, limit, offset int) ([]*models.Page, error)
	Create(ctx context.Context, page *models.Page) (*models.Page, error)
	Update(ctx context.Context, page *models.Page) (*models.Page, error)
	SoftDelete(ctx context.Context, id string) (*models.Page, error)
	Restore(ctx context.Context, id string) (*models.Page, error)
}

// PageService handles page business logic
type PageService struct {
	repo   PageRepository
	audit  *logger.AuditLogger
	logger *slog.Logger
}

// NewPageService creates a new PageService
func NewPageService(repo PageRepository, audit *logger.AuditLogger, logger *slog.Logger) *PageService {
	return &PageService{
		repo:   repo,
		audit:  audit,
		logger: logger,
	}
}

// GetPublishedPage returns a live page by slug. Soft-deleted pages are not found.
func (s *PageService) GetPublishedPage(ctx context.Context, slug string) (*models.Page, error) {
	page, err := s.repo.GetBySlug(ctx, slug, repositories.ScopeActive)
	if err != nil {
		return nil, s.readError(err, slog.String("slug", slug))
	}
	return page, nil
}

// GetPage returns a page by ID. Back-office reads see soft-deleted pages too.
func (s *PageService) GetPage(ctx context.Context, id string) (*models.Page, error) {
	page, err := s.repo.GetByID(ctx, id, repositories.ScopeAll)
	if err != nil {
		return nil, s.readError(err, slog.String("page_id", id))
	}
	return page, nil
}

// ListPages returns live pages, newest first
func (s *PageService) ListPages(ctx context.Context, scope repositories.Scope, limit, offset int) ([]*models.Page, error) {
	if limit <= 0 {
		limit = DefaultPageListLimit
	}
	if limit > MaxPageListLimit {
		limit = MaxPageListLimit
	}
	if offset < 0 {
		offset = 0
	}

	pages, err := s.repo.List(ctx, scope, limit, offset)
	if err != nil {
		s.logger.Error("failed to list pages", slog.String("scope", scope.String()), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return pages, nil
}

// CreatePage validates and stores a new page
func (s *PageService) CreatePage(ctx context.Context, page *models.Page) (*models.Page, error) {
	if err := page.FullClean(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, page)
	if err != nil {
		return nil, s.writeError(err, "failed to create page", slog.String("slug", page.Slug))
	}

	s.logger.Info("page created", slog.String("page_id", created.ID))
	recordAdminAction(ctx, s.audit, logger.ActionPageCreated, "pages", created.ID, map[string]string{"slug": created.Slug})
	return created, nil
}

// UpdatePage applies mutate to the stored page, validates and saves it.
// Empty metadata is refilled from the content on every save.
func (s *PageService) UpdatePage(ctx context.Context, id string, mutate func(p *models.Page)) (*models.Page, error) {
	page, err := s.GetPage(ctx, id)
	if err != nil {
		return nil, err
	}

	mutate(page)
	page.ID = id

	if err := page.FullClean(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, page)
	if err != nil {
		return nil, s.writeError(err, "failed to update page", slog.String("page_id", id))
	}

	s.logger.Info("page updated", slog.String("page_id", id))
	recordAdminAction(ctx, s.audit, logger.ActionPageUpdated, "pages", id, nil)
	return updated, nil
}

// DeletePage soft-deletes a page. Deleting twice keeps the first deletion time.
func (s *PageService) DeletePage(ctx context.Context, id string) (*models.Page, error) {
	page, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return nil, s.writeError(err, "failed to delete page", slog.String("page_id", id))
	}

	s.logger.Info("page deleted", slog.String("page_id", id))
	recordAdminAction(ctx, s.audit, logger.ActionPageDeleted, "pages", id, nil)
	return page, nil
}

// RestorePage clears the deletion marker of a page
func (s *PageService) RestorePage(ctx context.Context, id string) (*models.Page, error) {
	page, err := s.repo.Restore(ctx, id)
	if err != nil {
		return nil, s.writeError(err, "failed to restore page", slog.String("page_id", id))
	}

	s.logger.Info("page restored", slog.String("page_id", id))
	recordAdminAction(ctx, s.audit, logger.ActionPageRestored, "pages", id, nil)
	return page, nil
}

func (s *PageService) readError(err error, attr slog.Attr) error {
	if errors.Is(err, models.ErrNotFound) {
		return models.ErrNotFound
	}
	s.logger.Error("failed to get page", attr, slog.Any("error", err))
	return models.ErrInternalServer
}

func (s *PageService) writeError(err error, msg string, attr slog.Attr) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return models.ErrNotFound
	case errors.Is(err, models.ErrConflict):
		return models.ErrConflict
	case errors.Is(err, models.ErrBadRequest):
		return models.ErrBadRequest
	}
	s.logger.Error(msg, attr, slog.Any("error", err))
	return models.ErrInternalServer
}
