package services

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/BradenHooton/sitebase/internal/media"
	"github.com/BradenHooton/sitebase/internal/models"
	"github.com/BradenHooton/sitebase/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")

func newTestMediaService(repo *MockPageRepository, store *MockStorage, maxBytes int64) *MediaService {
	pages := NewPageService(repo, nil, slog.Default())
	return NewMediaService(store, pages, maxBytes, nil, slog.Default())
}

func pageRepoWith(page *models.Page) *MockPageRepository {
	return &MockPageRepository{
		GetByIDFunc: func(ctx context.Context, id string, scope repositories.Scope) (*models.Page, error) {
			if id != page.ID {
				return nil, models.ErrNotFound
			}
			copied := *page
			return &copied, nil
		},
	}
}

func TestMediaService_UploadPageImage(t *testing.T) {
	tests := []struct {
		kind   media.ImageKind
		prefix string
		field  func(p *models.Page) string
	}{
		{media.ImageOG, "og_images/", func(p *models.Page) string { return p.OGImage }},
		{media.ImageTwitter, "twitter_images/", func(p *models.Page) string { return p.TwitterImage }},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			store := &MockStorage{}
			svc := newTestMediaService(pageRepoWith(NewTestPage("p1", "about", "About")), store, 1<<20)

			page, err := svc.UploadPageImage(context.Background(), "p1", tt.kind, bytes.NewReader(testPNG))

			require.NoError(t, err)
			name := tt.field(page)
			assert.True(t, strings.HasPrefix(name, tt.prefix))
			assert.True(t, strings.HasSuffix(name, ".png"))
			assert.Equal(t, testPNG, store.Objects[name])
		})
	}
}

func TestMediaService_UploadPageImage_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		pageID   string
		kind     media.ImageKind
		body     []byte
		maxBytes int64
		wantErr  error
	}{
		{"unknown kind", "p1", "banner", testPNG, 1 << 20, models.ErrValidation},
		{"missing page", "nope", media.ImageOG, testPNG, 1 << 20, models.ErrNotFound},
		{"not an image", "p1", media.ImageOG, []byte("%PDF-1.4 hello"), 1 << 20, models.ErrValidation},
		{"too large", "p1", media.ImageOG, append(append([]byte{}, testPNG...), bytes.Repeat([]byte{0}, 64)...), 32, models.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &MockStorage{}
			svc := newTestMediaService(pageRepoWith(NewTestPage("p1", "about", "About")), store, tt.maxBytes)

			_, err := svc.UploadPageImage(context.Background(), tt.pageID, tt.kind, bytes.NewReader(tt.body))

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, store.Objects)
		})
	}
}

func TestMediaService_UploadPageImage_RemovesObjectWhenSaveFails(t *testing.T) {
	repo := pageRepoWith(NewTestPage("p1", "about", "About"))
	repo.UpdateFunc = func(ctx context.Context, page *models.Page) (*models.Page, error) {
		return nil, models.ErrNotFound
	}
	store := &MockStorage{}
	svc := newTestMediaService(repo, store, 1<<20)

	_, err := svc.UploadPageImage(context.Background(), "p1", media.ImageOG, bytes.NewReader(testPNG))

	assert.Equal(t, models.ErrNotFound, err)
	require.Len(t, store.Deleted, 1)
	assert.Empty(t, store.Objects)
}
