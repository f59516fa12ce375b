package services

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/BradenHooton/sitebase/internal/media"
	"github.com/BradenHooton/sitebase/internal/models"
	"github.com/BradenHooton/sitebase/pkg/logger"
)

// MediaService stores social preview images and attaches them to pages
type MediaService struct {
	storage  media.Storage
	pages    *PageService
	maxBytes int64
	audit    *logger.AuditLogger
	logger   *slog.Logger
}

// NewMediaService creates a new MediaService
func NewMediaService(storage media.Storage, pages *PageService, maxBytes int64, audit *logger.AuditLogger, logger *slog.Logger) *MediaService {
	return &MediaService{
		storage:  storage,
		pages:    pages,
		maxBytes: maxBytes,
		audit:    audit,
		logger:   logger,
	}
}

// UploadPageImage stores r as the page's Open Graph or Twitter image.
// The object is removed again when the page cannot be updated.
func (s *MediaService) UploadPageImage(ctx context.Context, pageID string, kind media.ImageKind, r io.Reader) (*models.Page, error) {
	if _, err := kind.Dir(); err != nil {
		return nil, models.NewValidationError("kind", "must be og or twitter")
	}

	// fail before touching storage when the page is gone
	if _, err := s.pages.GetPage(ctx, pageID); err != nil {
		return nil, err
	}

	contentType, body, err := media.SniffImage(media.LimitUpload(r, s.maxBytes))
	if err != nil {
		return nil, uploadError(err)
	}

	name, err := media.ObjectName(kind, contentType)
	if err != nil {
		return nil, uploadError(err)
	}

	stored, err := s.storage.Save(ctx, name, contentType, body)
	if err != nil {
		if errors.Is(err, media.ErrFileTooLarge) {
			return nil, uploadError(err)
		}
		s.logger.Error("failed to store image", slog.String("page_id", pageID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	page, err := s.pages.UpdatePage(ctx, pageID, func(p *models.Page) {
		if kind == media.ImageOG {
			p.OGImage = stored
		} else {
			p.TwitterImage = stored
		}
	})
	if err != nil {
		if delErr := s.storage.Delete(context.WithoutCancel(ctx), stored); delErr != nil {
			s.logger.Warn("failed to remove orphaned image", slog.String("name", stored), slog.Any("error", delErr))
		}
		return nil, err
	}

	s.logger.Info("image uploaded", slog.String("page_id", pageID), slog.String("name", stored))
	recordAdminAction(ctx, s.audit, logger.ActionImageUploaded, "pages", pageID, map[string]string{
		"kind": string(kind),
		"name": stored,
	})
	return page, nil
}

func uploadError(err error) error {
	switch {
	case errors.Is(err, media.ErrFileTooLarge):
		return models.NewValidationError("file", "exceeds the upload limit")
	case errors.Is(err, media.ErrNotImage):
		return models.NewValidationError("file", "must be a JPEG, PNG, GIF or WebP image")
	}
	return models.NewValidationError("file", err.Error())
}
