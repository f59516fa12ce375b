package admin

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/BradenHooton/sitebase/internal/models"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListQuery is a back-office list request
type ListQuery struct {
	Search         string
	Filters        map[string]string
	Limit          int
	Offset         int
	IncludeDeleted bool
}

// ListResult is one page of a back-office list
type ListResult struct {
	Model   string           `json:"model"`
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
	Total   int64            `json:"total"`
}

// Columns returns the primary key followed by the list display columns
func (m *ModelAdmin) Columns() []string {
	cols := []string{m.PrimaryKey}
	for _, name := range m.ListDisplay {
		if name != m.PrimaryKey {
			cols = append(cols, name)
		}
	}
	return cols
}

func (m *ModelAdmin) selectExpr(name string) string {
	f, _ := m.field(name)
	col := f.column()
	if f.Kind == KindUUID {
		return fmt.Sprintf("%s::text AS %s", col, f.Name)
	}
	if col != f.Name {
		return fmt.Sprintf("%s AS %s", col, f.Name)
	}
	return col
}

// ListQueries builds the row query and the matching count query
func (m *ModelAdmin) ListQueries(q ListQuery) (sq.SelectBuilder, sq.SelectBuilder, error) {
	where, err := m.conditions(q)
	if err != nil {
		return sq.SelectBuilder{}, sq.SelectBuilder{}, err
	}

	cols := m.Columns()
	exprs := make([]string, 0, len(cols))
	for _, name := range cols {
		exprs = append(exprs, m.selectExpr(name))
	}

	rows := psql.Select(exprs...).From(m.Table)
	count := psql.Select("COUNT(*)").From(m.Table)
	if len(where) > 0 {
		rows = rows.Where(where)
		count = count.Where(where)
	}

	rows = rows.OrderBy(m.orderBy()...)

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	rows = rows.Limit(uint64(limit))
	if q.Offset > 0 {
		rows = rows.Offset(uint64(q.Offset))
	}

	return rows, count, nil
}

func (m *ModelAdmin) conditions(q ListQuery) (sq.And, error) {
	where := sq.And{}

	if m.SoftDelete && !q.IncludeDeleted {
		where = append(where, sq.Eq{"deleted_at": nil})
	}

	// every search term must match at least one search field
	if len(m.SearchFields) > 0 {
		for _, term := range strings.Fields(q.Search) {
			pattern := "%" + likeEscaper.Replace(term) + "%"
			anyField := sq.Or{}
			for _, name := range m.SearchFields {
				f, _ := m.field(name)
				anyField = append(anyField, sq.ILike{f.column(): pattern})
			}
			where = append(where, anyField)
		}
	}

	names := make([]string, 0, len(q.Filters))
	for name := range q.Filters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		raw := q.Filters[name]
		if !slices.Contains(m.ListFilter, name) {
			return nil, models.NewValidationError(name, "is not a filterable field")
		}
		f, _ := m.field(name)
		value, err := parseFilterValue(f, raw)
		if err != nil {
			return nil, models.NewValidationError(name, err.Error())
		}
		where = append(where, sq.Eq{f.column(): value})
	}

	return where, nil
}

func parseFilterValue(f Field, raw string) (any, error) {
	switch f.Kind {
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("must be true or false")
		}
		return b, nil
	default:
		return raw, nil
	}
}

func (m *ModelAdmin) orderBy() []string {
	if len(m.Ordering) == 0 {
		f, _ := m.field(m.PrimaryKey)
		return []string{f.column()}
	}

	out := make([]string, 0, len(m.Ordering))
	for _, o := range m.Ordering {
		desc := strings.HasPrefix(o, "-")
		f, _ := m.field(strings.TrimPrefix(o, "-"))
		if desc {
			out = append(out, f.column()+" DESC")
		} else {
			out = append(out, f.column()+" ASC")
		}
	}
	return out
}
