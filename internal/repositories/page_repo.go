package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BradenHooton/sitebase/internal/database"
	"github.com/BradenHooton/sitebase/internal/models"
	"github.com/BradenHooton/sitebase/internal/seo"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var pageColumns = []string{
	"id", "slug", "title", "heading", "summary", "body", "tags",
	"seo_title", "seo_description", "seo_keywords",
	"og_title", "og_description", "og_image",
	"twitter_title", "twitter_description", "twitter_image",
	"canonical_url", "meta_robots",
	"created_at", "updated_at", "deleted_at",
}

var returningPage = "RETURNING " + strings.Join(pageColumns, ", ")

type PageRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewPageRepository(db *database.DB) *PageRepository {
	return &PageRepository{pool: db.Pool, now: time.Now}
}

func scanPageRow(scanner rowScanner) (*models.Page, error) {
	var p models.Page
	var robots string

	err := scanner.Scan(
		&p.ID, &p.Slug, &p.Title, &p.Heading, &p.Summary, &p.Body, &p.Tags,
		&p.SEOTitle, &p.SEODescription, &p.SEOKeywords,
		&p.OGTitle, &p.OGDescription, &p.OGImage,
		&p.TwitterTitle, &p.TwitterDescription, &p.TwitterImage,
		&p.CanonicalURL, &robots,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	p.MetaRobots = models.RobotsDirective(robots)

	return &p, nil
}

func scanPageRows(rows pgx.Rows) ([]*models.Page, error) {
	defer rows.Close()

	pages := make([]*models.Page, 0)

	for rows.Next() {
		page, err := scanPageRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, page)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return pages, nil
}

func (r *PageRepository) queryOne(ctx context.Context, b sq.Sqlizer) (*models.Page, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build page query: %w", err)
	}
	return scanPageRow(r.pool.QueryRow(ctx, query, args...))
}

func (r *PageRepository) GetByID(ctx context.Context, id string, scope Scope) (*models.Page, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrNotFound
	}

	b := scope.apply(psql.Select(pageColumns...).From("pages").Where(sq.Eq{"id": id}))
	return r.queryOne(ctx, b)
}

func (r *PageRepository) GetBySlug(ctx context.Context, slug string, scope Scope) (*models.Page, error) {
	b := scope.apply(psql.Select(pageColumns...).From("pages").Where(sq.Eq{"slug": slug}))
	return r.queryOne(ctx, b)
}

func (r *PageRepository) List(ctx context.Context, scope Scope, limit, offset int) ([]*models.Page, error) {
	b := scope.apply(psql.Select(pageColumns...).From("pages")).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build page query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}

	return scanPageRows(rows)
}

// Create fills the derived metadata, stamps the timestamps and inserts the page
func (r *PageRepository) Create(ctx context.Context, page *models.Page) (*models.Page, error) {
	seo.Prepare(page)
	page.ID = uuid.New().String()
	page.Touch(r.now())

	b := psql.Insert("pages").
		Columns(pageColumns...).
		Values(pageValues(page)...).
		Suffix(returningPage)

	return r.queryOne(ctx, b)
}

// Update fills the derived metadata and writes the page whether or not it is soft-deleted.
// created_at is never rewritten.
func (r *PageRepository) Update(ctx context.Context, page *models.Page) (*models.Page, error) {
	if _, err := uuid.Parse(page.ID); err != nil {
		return nil, models.ErrNotFound
	}

	seo.Prepare(page)
	page.Touch(r.now())

	values := pageValues(page)
	b := psql.Update("pages")
	// skip id, created_at and deleted_at
	for i, col := range pageColumns {
		switch col {
		case "id", "created_at", "deleted_at":
			continue
		}
		b = b.Set(col, values[i])
	}
	b = b.Where(sq.Eq{"id": page.ID}).Suffix(returningPage)

	return r.queryOne(ctx, b)
}

// SoftDelete marks the page deleted. A page already deleted keeps its original deletion time.
func (r *PageRepository) SoftDelete(ctx context.Context, id string) (*models.Page, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrNotFound
	}

	now := r.now()
	b := psql.Update("pages").
		Set("deleted_at", sq.Expr("COALESCE(deleted_at, ?)", now)).
		Set("updated_at", now).
		Where(sq.Eq{"id": id}).
		Suffix(returningPage)

	return r.queryOne(ctx, b)
}

// Restore clears the deletion marker
func (r *PageRepository) Restore(ctx context.Context, id string) (*models.Page, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrNotFound
	}

	b := psql.Update("pages").
		Set("deleted_at", nil).
		Set("updated_at", r.now()).
		Where(sq.Eq{"id": id}).
		Suffix(returningPage)

	return r.queryOne(ctx, b)
}

func pageValues(p *models.Page) []any {
	return []any{
		p.ID, p.Slug, p.Title, p.Heading, p.Summary, p.Body, p.Tags,
		p.SEOTitle, p.SEODescription, p.SEOKeywords,
		p.OGTitle, p.OGDescription, p.OGImage,
		p.TwitterTitle, p.TwitterDescription, p.TwitterImage,
		p.CanonicalURL, string(p.MetaRobots),
		p.CreatedAt, p.UpdatedAt, p.DeletedAt,
	}
}
