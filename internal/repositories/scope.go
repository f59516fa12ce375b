package repositories

import (
	sq "github.com/Masterminds/squirrel"
)

// Scope selects which rows of a soft-deletable table a read may return
type Scope int

const (
	// ScopeActive hides soft-deleted rows
	ScopeActive Scope = iota
	// ScopeAll returns every row, deleted or not
	ScopeAll
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (s Scope) apply(b sq.SelectBuilder) sq.SelectBuilder {
	if s == ScopeAll {
		return b
	}
	return b.Where(sq.Eq{"deleted_at": nil})
}

func (s Scope) String() string {
	if s == ScopeAll {
		return "all"
	}
	return "active"
}
