package store

import (
	"strings"

	"github.com/uptrace/bun"
)

// ArticleFilter is the predicate set for listing articles. The zero value
// matches every article in the default order (newest first).
type ArticleFilter struct {
	// Search matches title or body, case-insensitively, as a substring.
	Search string
	// ColumnID restricts the result to one column when set.
	ColumnID *int64
	// Tag restricts the result to articles carrying this label.
	Tag string
	// OrderByViews sorts by total_views descending instead of the default.
	OrderByViews bool
}

var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

// where adds the filter predicates to q. It is shared by Count and Find so
// both see the same set.
func (f ArticleFilter) where(db bun.IDB, q *bun.SelectQuery) *bun.SelectQuery {
	if f.Search != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(f.Search)) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where(`ulower(a.title) LIKE ? ESCAPE '!'`, like).
				WhereOr(`ulower(a.body) LIKE ? ESCAPE '!'`, like)
		})
	}

	if f.ColumnID != nil {
		q = q.Where("a.column_id = ?", *f.ColumnID)
	}

	if f.Tag != "" {
		tagged := db.NewSelect().
			TableExpr("article_tags AS at").
			Column("at.article_id").
			Join("JOIN tags AS t ON t.id = at.tag_id").
			Where("t.name = ?", f.Tag)
		q = q.Where("a.id IN (?)", tagged)
	}

	return q
}

func (f ArticleFilter) order(q *bun.SelectQuery) *bun.SelectQuery {
	if f.OrderByViews {
		return q.OrderExpr("a.total_views DESC").OrderExpr("a.id DESC")
	}

	return q.OrderExpr("a.created DESC").OrderExpr("a.id DESC")
}
