package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/BradenHooton/sitebase/internal/media"
	"github.com/BradenHooton/sitebase/internal/models"
	"github.com/BradenHooton/sitebase/internal/repositories"
	"github.com/BradenHooton/sitebase/internal/seo"
	pkghttp "github.com/BradenHooton/sitebase/pkg/http"
	"github.com/go-chi/chi/v5"
)

// PageService defines the interface for page business logic
type PageService interface {
	GetPublishedPage(ctx context.Context, slug string) (*models.Page, error)
	ListPages(ctx context.Context, scope repositories.Scope, limit, offset int) ([]*models.Page, error)
	GetPage(ctx context.Context, id string) (*models.Page, error)
	CreatePage(ctx context.Context, page *models.Page) (*models.Page, error)
	UpdatePage(ctx context.Context, id string, mutate func(p *models.Page)) (*models.Page, error)
	DeletePage(ctx context.Context, id string) (*models.Page, error)
	RestorePage(ctx context.Context, id string) (*models.Page, error)
}

// ImageUploader stores preview images for pages
type ImageUploader interface {
	UploadPageImage(ctx context.Context, pageID string, kind media.ImageKind, r io.Reader) (*models.Page, error)
}

// PageHandler serves public pages and the back-office page endpoints
type PageHandler struct {
	service   PageService
	uploader  ImageUploader
	resolver  *seo.Resolver
	maxUpload int64
	logger    *slog.Logger
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(service PageService, uploader ImageUploader, resolver *seo.Resolver, maxUpload int64, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		service:   service,
		uploader:  uploader,
		resolver:  resolver,
		maxUpload: maxUpload,
		logger:    logger,
	}
}

// PageRequest carries page content and metadata. On update, nil fields are left unchanged.
type PageRequest struct {
	Slug    *string `json:"slug" validate:"omitempty,max=128"`
	Title   *string `json:"title" validate:"omitempty,max=255"`
	Heading *string `json:"heading" validate:"omitempty,max=255"`
	Summary *string `json:"summary"`
	Body    *string `json:"body"`
	Tags    *string `json:"tags"`

	SEOTitle       *string `json:"seo_title" validate:"omitempty,max=255"`
	SEODescription *string `json:"seo_description"`
	SEOKeywords    *string `json:"seo_keywords"`

	OGTitle       *string `json:"og_title" validate:"omitempty,max=255"`
	OGDescription *string `json:"og_description"`

	TwitterTitle       *string `json:"twitter_title" validate:"omitempty,max=255"`
	TwitterDescription *string `json:"twitter_description"`

	CanonicalURL *string `json:"canonical_url" validate:"omitempty,max=200"`
	MetaRobots   *string `json:"meta_robots"`
}

func setIf(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// apply copies the set fields onto p. Images are managed by the upload endpoint.
func (req *PageRequest) apply(p *models.Page) {
	setIf(&p.Slug, req.Slug)
	setIf(&p.Title, req.Title)
	setIf(&p.Heading, req.Heading)
	setIf(&p.Summary, req.Summary)
	setIf(&p.Body, req.Body)
	setIf(&p.Tags, req.Tags)
	setIf(&p.SEOTitle, req.SEOTitle)
	setIf(&p.SEODescription, req.SEODescription)
	setIf(&p.SEOKeywords, req.SEOKeywords)
	setIf(&p.OGTitle, req.OGTitle)
	setIf(&p.OGDescription, req.OGDescription)
	setIf(&p.TwitterTitle, req.TwitterTitle)
	setIf(&p.TwitterDescription, req.TwitterDescription)
	setIf(&p.CanonicalURL, req.CanonicalURL)
	if req.MetaRobots != nil {
		p.MetaRobots = models.RobotsDirective(*req.MetaRobots)
	}
}

// PublicPageResponse is a live page with its resolved head metadata
type PublicPageResponse struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Heading   string    `json:"heading"`
	Summary   string    `json:"summary"`
	Body      string    `json:"body"`
	Tags      string    `json:"tags"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Meta      *seo.Meta `json:"meta"`
}

// RegisterPublicRoutes registers the routes anyone may call
func (h *PageHandler) RegisterPublicRoutes(router chi.Router) {
	router.Get("/pages", h.ListPublicPages)
	router.Get("/pages/{slug}", h.GetPublicPage)
}

// RegisterRoutes registers the page routes on the back-office router
func (h *PageHandler) RegisterRoutes(router chi.Router) {
	router.Post("/pages", h.CreatePage)
	router.Get("/pages/{id}", h.GetPage)
	router.Put("/pages/{id}", h.UpdatePage)
	router.Delete("/pages/{id}", h.DeletePage)
	router.Post("/pages/{id}/restore", h.RestorePage)
	router.Post("/pages/{id}/images/{kind}", h.UploadImage)
}

// PageSummary is one entry of the public page index
type PageSummary struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListPublicPages handles GET /pages?limit=&offset=
func (h *PageHandler) ListPublicPages(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query().Get("limit"))
	if err != nil {
		pkghttp.WriteValidationError(w, "limit", "must be a non-negative integer")
		return
	}
	offset, err := intParam(r.URL.Query().Get("offset"))
	if err != nil {
		pkghttp.WriteValidationError(w, "offset", "must be a non-negative integer")
		return
	}

	pages, err := h.service.ListPages(r.Context(), repositories.ScopeActive, limit, offset)
	if err != nil {
		writeServiceError(w, err, "")
		return
	}

	out := make([]PageSummary, 0, len(pages))
	for _, p := range pages {
		out = append(out, PageSummary{Slug: p.Slug, Title: p.Title, URL: p.AbsoluteURL(), UpdatedAt: p.UpdatedAt})
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"pages": out})
}

// GetPublicPage handles GET /pages/{slug}
func (h *PageHandler) GetPublicPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.GetPublishedPage(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, err, "Page not found")
		return
	}

	meta, err := h.resolver.Resolve(page)
	if err != nil {
		h.logger.Error("failed to resolve page metadata", slog.String("page_id", page.ID), slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, PublicPageResponse{
		Slug:      page.Slug,
		Title:     page.Title,
		Heading:   page.Heading,
		Summary:   page.Summary,
		Body:      page.Body,
		Tags:      page.Tags,
		URL:       page.AbsoluteURL(),
		CreatedAt: page.CreatedAt,
		UpdatedAt: page.UpdatedAt,
		Meta:      meta,
	})
}

// CreatePage handles POST /admin/pages
func (h *PageHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var req PageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	if err := ValidateRequest(req); err != nil {
		writeServiceError(w, err, "")
		return
	}

	page := &models.Page{}
	req.apply(page)

	created, err := h.service.CreatePage(r.Context(), page)
	if err != nil {
		writeServiceError(w, err, "")
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, created)
}

// GetPage handles GET /admin/pages/{id}
func (h *PageHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.GetPage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "Page not found")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, page)
}

// UpdatePage handles PUT /admin/pages/{id}
func (h *PageHandler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	var req PageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	if err := ValidateRequest(req); err != nil {
		writeServiceError(w, err, "")
		return
	}

	page, err := h.service.UpdatePage(r.Context(), chi.URLParam(r, "id"), req.apply)
	if err != nil {
		writeServiceError(w, err, "Page not found")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, page)
}

// DeletePage handles DELETE /admin/pages/{id}
func (h *PageHandler) DeletePage(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.DeletePage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "Page not found")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, page)
}

// RestorePage handles POST /admin/pages/{id}/restore
func (h *PageHandler) RestorePage(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.RestorePage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "Page not found")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, page)
}

// UploadImage handles POST /admin/pages/{id}/images/{kind} with a multipart "file" part.
// The part is streamed to storage without buffering the whole upload.
func (h *PageHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	kind := media.ImageKind(chi.URLParam(r, "kind"))
	if _, err := kind.Dir(); err != nil {
		pkghttp.WriteNotFound(w, "Unknown image kind")
		return
	}

	// room for the multipart envelope around the file
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+64<<10)

	mr, err := r.MultipartReader()
	if err != nil {
		pkghttp.WriteBadRequest(w, "Expected a multipart/form-data body")
		return
	}

	part, err := nextFilePart(mr)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			pkghttp.WriteRequestTooLarge(w, "Upload too large")
			return
		}
		pkghttp.WriteBadRequest(w, "Missing file part")
		return
	}
	defer part.Close()

	page, err := h.uploader.UploadPageImage(r.Context(), chi.URLParam(r, "id"), kind, part)
	if err != nil {
		writeServiceError(w, err, "Page not found")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, page)
}

func nextFilePart(mr *multipart.Reader) (*multipart.Part, error) {
	for {
		part, err := mr.NextPart()
		if err != nil {
			return nil, err
		}
		if part.FormName() == "file" {
			return part, nil
		}
		_ = part.Close()
	}
}
