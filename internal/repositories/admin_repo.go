package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/sitebase/internal/admin"
	"github.com/BradenHooton/sitebase/internal/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminRepository runs the generic back-office list queries
type AdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(db *database.DB) *AdminRepository {
	return &AdminRepository{pool: db.Pool}
}

// List returns one page of rows for a registered model, keyed by field name
func (r *AdminRepository) List(ctx context.Context, m *admin.ModelAdmin, q admin.ListQuery) (*admin.ListResult, error) {
	rowsQuery, countQuery, err := m.ListQueries(q)
	if err != nil {
		return nil, err
	}

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, database.MapPostgresError(err)
	}

	rowsSQL, rowsArgs, err := rowsQuery.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.pool.Query(ctx, rowsSQL, rowsArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", m.Table, err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", m.Table, err)
	}

	return &admin.ListResult{
		Model:   m.Name,
		Columns: m.Columns(),
		Rows:    records,
		Total:   total,
	}, nil
}
