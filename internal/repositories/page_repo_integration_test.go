//go:build integration

package repositories

import (
	"context"
	"strings"
	"testing"

	"github.com/BradenHooton/sitebase/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRepository_CreateFillsMetadata(t *testing.T) {
	cleanupTables(t)
	repo := NewPageRepository(shared.db)

	page, err := repo.Create(context.Background(), &models.Page{
		Slug:    "about",
		Title:   strings.Repeat("t", 80),
		Summary: "Who we are",
		Tags:    "team, company",
	})
	require.NoError(t, err)

	assert.Len(t, page.SEOTitle, 64)
	assert.Equal(t, page.SEOTitle, page.OGTitle)
	assert.Equal(t, page.SEOTitle, page.TwitterTitle)
	assert.Equal(t, "Who we are", page.SEODescription)
	assert.Equal(t, "team, company", page.SEOKeywords)
	assert.Equal(t, models.RobotsIndexFollow, page.MetaRobots)
	assert.False(t, page.CreatedAt.IsZero())
	assert.Nil(t, page.DeletedAt)
}

func TestPageRepository_UpdateKeepsCreatedAt(t *testing.T) {
	cleanupTables(t)
	repo := NewPageRepository(shared.db)
	ctx := context.Background()

	page, err := repo.Create(ctx, &models.Page{Slug: "pricing", Title: "Pricing"})
	require.NoError(t, err)
	created := page.CreatedAt

	page.Title = "New pricing"
	page.SEODescription = "Plans"
	updated, err := repo.Update(ctx, page)
	require.NoError(t, err)

	assert.True(t, created.Equal(updated.CreatedAt))
	assert.False(t, updated.UpdatedAt.Before(created))
	// already set on first save
	assert.Equal(t, "Pricing", updated.SEOTitle)
	assert.Equal(t, "Plans", updated.SEODescription)
}

func TestPageRepository_SoftDeleteAndRestore(t *testing.T) {
	cleanupTables(t)
	repo := NewPageRepository(shared.db)
	ctx := context.Background()

	page, err := repo.Create(ctx, &models.Page{Slug: "old-news", Title: "Old news"})
	require.NoError(t, err)

	deleted, err := repo.SoftDelete(ctx, page.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted.DeletedAt)

	_, err = repo.GetByID(ctx, page.ID, ScopeActive)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = repo.GetBySlug(ctx, "old-news", ScopeActive)
	assert.ErrorIs(t, err, models.ErrNotFound)

	all, err := repo.GetByID(ctx, page.ID, ScopeAll)
	require.NoError(t, err)
	assert.NotNil(t, all.DeletedAt)

	again, err := repo.SoftDelete(ctx, page.ID)
	require.NoError(t, err)
	assert.True(t, deleted.DeletedAt.Equal(*again.DeletedAt))

	restored, err := repo.Restore(ctx, page.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)

	live, err := repo.GetBySlug(ctx, "old-news", ScopeActive)
	require.NoError(t, err)
	assert.Equal(t, page.ID, live.ID)
}

func TestPageRepository_ListScopes(t *testing.T) {
	cleanupTables(t)
	repo := NewPageRepository(shared.db)
	ctx := context.Background()

	keep, err := repo.Create(ctx, &models.Page{Slug: "keep", Title: "Keep"})
	require.NoError(t, err)
	drop, err := repo.Create(ctx, &models.Page{Slug: "drop", Title: "Drop"})
	require.NoError(t, err)
	_, err = repo.SoftDelete(ctx, drop.ID)
	require.NoError(t, err)

	active, err := repo.List(ctx, ScopeActive, 10, 0)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, keep.ID, active[0].ID)

	all, err := repo.List(ctx, ScopeAll, 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPageRepository_DuplicateSlugAndBadRobots(t *testing.T) {
	cleanupTables(t)
	repo := NewPageRepository(shared.db)
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.Page{Slug: "dup", Title: "One"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.Page{Slug: "dup", Title: "Two"})
	assert.ErrorIs(t, err, models.ErrConflict)

	bad := &models.Page{Slug: "robots", Title: "Robots"}
	bad.MetaRobots = "follow everything"
	_, err = repo.Create(ctx, bad)
	assert.ErrorIs(t, err, models.ErrBadRequest)
}
