package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/BradenHooton/sitebase/internal/models"
	"github.com/BradenHooton/sitebase/internal/repositories"
	"github.com/BradenHooton/sitebase/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPageService(repo PageRepository) (*PageService, *bytes.Buffer) {
	var buf bytes.Buffer
	audit := logger.NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)))
	return NewPageService(repo, audit, slog.Default()), &buf
}

func TestPageService_GetPublishedPage_UsesActiveScope(t *testing.T) {
	var gotScope repositories.Scope = -1
	svc, _ := newTestPageService(&MockPageRepository{
		GetBySlugFunc: func(ctx context.Context, slug string, scope repositories.Scope) (*models.Page, error) {
			gotScope = scope
			return NewTestPage("p1", slug, "About"), nil
		},
	})

	page, err := svc.GetPublishedPage(context.Background(), "about")

	require.NoError(t, err)
	assert.Equal(t, "about", page.Slug)
	assert.Equal(t, repositories.ScopeActive, gotScope)
}

func TestPageService_GetPage_SeesDeleted(t *testing.T) {
	var gotScope repositories.Scope = -1
	svc, _ := newTestPageService(&MockPageRepository{
		GetByIDFunc: func(ctx context.Context, id string, scope repositories.Scope) (*models.Page, error) {
			gotScope = scope
			return NewTestPage(id, "about", "About"), nil
		},
	})

	_, err := svc.GetPage(context.Background(), "p1")

	require.NoError(t, err)
	assert.Equal(t, repositories.ScopeAll, gotScope)
}

func TestPageService_ReadErrors(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
		wantErr error
	}{
		{"not found", models.ErrNotFound, models.ErrNotFound},
		{"database error", errors.New("timeout"), models.ErrInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestPageService(&MockPageRepository{
				GetBySlugFunc: func(ctx context.Context, slug string, scope repositories.Scope) (*models.Page, error) {
					return nil, tt.repoErr
				},
			})

			_, err := svc.GetPublishedPage(context.Background(), "about")
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func TestPageService_ListPages_ClampsPaging(t *testing.T) {
	var gotLimit, gotOffset int
	svc, _ := newTestPageService(&MockPageRepository{
		ListFunc: func(ctx context.Context, scope repositories.Scope, limit, offset int) ([]*models.Page, error) {
			gotLimit, gotOffset = limit, offset
			return []*models.Page{}, nil
		},
	})

	_, err := svc.ListPages(context.Background(), repositories.ScopeActive, 0, -5)
	require.NoError(t, err)
	assert.Equal(t, DefaultPageListLimit, gotLimit)
	assert.Equal(t, 0, gotOffset)

	_, err = svc.ListPages(context.Background(), repositories.ScopeActive, 10_000, 40)
	require.NoError(t, err)
	assert.Equal(t, MaxPageListLimit, gotLimit)
	assert.Equal(t, 40, gotOffset)
}

func TestPageService_CreatePage(t *testing.T) {
	svc, buf := newTestPageService(&MockPageRepository{})
	ctx := WithActor(context.Background(), "staff-1")

	page, err := svc.CreatePage(ctx, &models.Page{Slug: " about-us ", Title: "About us"})

	require.NoError(t, err)
	assert.Equal(t, "page-1", page.ID)
	assert.Equal(t, "about-us", page.Slug)

	records := decodeAuditLines(t, buf)
	require.Len(t, records, 1)
	assert.Equal(t, logger.ActionPageCreated, records[0]["event_type"])
	assert.Equal(t, "about-us", records[0]["slug"])
	assert.Equal(t, "staff-1", records[0]["actor_id"])
}

func TestPageService_CreatePage_Validation(t *testing.T) {
	tests := []struct {
		name  string
		page  *models.Page
		field string
	}{
		{"missing title", &models.Page{Slug: "about"}, "title"},
		{"bad slug", &models.Page{Slug: "About Us", Title: "About"}, "slug"},
		{"bad robots", &models.Page{Slug: "about", Title: "About", SEO: models.SEO{MetaRobots: "follow"}}, "meta_robots"},
		{"bad canonical", &models.Page{Slug: "about", Title: "About", SEO: models.SEO{CanonicalURL: "not a url"}}, "canonical_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			svc, _ := newTestPageService(&MockPageRepository{
				CreateFunc: func(ctx context.Context, page *models.Page) (*models.Page, error) {
					called = true
					return page, nil
				},
			})

			_, err := svc.CreatePage(context.Background(), tt.page)

			var ve *models.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.False(t, called)
		})
	}
}

func TestPageService_CreatePage_DuplicateSlug(t *testing.T) {
	svc, _ := newTestPageService(&MockPageRepository{
		CreateFunc: func(ctx context.Context, page *models.Page) (*models.Page, error) {
			return nil, models.ErrConflict
		},
	})

	_, err := svc.CreatePage(context.Background(), &models.Page{Slug: "about", Title: "About"})
	assert.Equal(t, models.ErrConflict, err)
}

func TestPageService_UpdatePage_KeepsIdentity(t *testing.T) {
	stored := NewTestPage("p1", "about", "About")
	var saved *models.Page
	svc, _ := newTestPageService(&MockPageRepository{
		GetByIDFunc: func(ctx context.Context, id string, scope repositories.Scope) (*models.Page, error) {
			copied := *stored
			return &copied, nil
		},
		UpdateFunc: func(ctx context.Context, page *models.Page) (*models.Page, error) {
			saved = page
			return page, nil
		},
	})

	updated, err := svc.UpdatePage(context.Background(), "p1", func(p *models.Page) {
		p.ID = "hijacked"
		p.Title = "About the team"
	})

	require.NoError(t, err)
	assert.Equal(t, "p1", saved.ID)
	assert.Equal(t, "About the team", updated.Title)
	assert.Equal(t, stored.CreatedAt, saved.CreatedAt)
}

func TestPageService_DeleteAndRestore(t *testing.T) {
	deletedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, buf := newTestPageService(&MockPageRepository{
		SoftDeleteFunc: func(ctx context.Context, id string) (*models.Page, error) {
			p := NewTestPage(id, "about", "About")
			p.DeletedAt = &deletedAt
			return p, nil
		},
		RestoreFunc: func(ctx context.Context, id string) (*models.Page, error) {
			return NewTestPage(id, "about", "About"), nil
		},
	})

	page, err := svc.DeletePage(context.Background(), "p1")
	require.NoError(t, err)
	assert.NotNil(t, page.DeletedAt)

	page, err = svc.RestorePage(context.Background(), "p1")
	require.NoError(t, err)
	assert.Nil(t, page.DeletedAt)

	records := decodeAuditLines(t, buf)
	require.Len(t, records, 2)
	assert.Equal(t, logger.ActionPageDeleted, records[0]["event_type"])
	assert.Equal(t, logger.ActionPageRestored, records[1]["event_type"])
}

func TestPageService_DeleteMissing(t *testing.T) {
	svc, buf := newTestPageService(&MockPageRepository{})

	_, err := svc.DeletePage(context.Background(), "nope")

	assert.Equal(t, models.ErrNotFound, err)
	assert.Empty(t, decodeAuditLines(t, buf))
}
