package article

import (
	"net/url"
	"strconv"

	"github.com/SergeyParamoshkin/blog/internal/store"
)

const (
	OrderTotalViews = "total_views"
	// TagNone is what list links send when no tag is selected.
	TagNone = "None"
)

// ListQuery holds the list parameters exactly as received so they can be
// echoed back into pagination and sorting links.
type ListQuery struct {
	Search string
	Order  string
	Column string
	Tag    string
	Page   string
}

func ParseListQuery(v url.Values) ListQuery {
	return ListQuery{
		Search: v.Get("search"),
		Order:  v.Get("order"),
		Column: v.Get("column"),
		Tag:    v.Get("tag"),
		Page:   v.Get("page"),
	}
}

// Filter builds the store predicate set. A column that is not made of
// digits only and a tag equal to TagNone are ignored.
func (q ListQuery) Filter() store.ArticleFilter {
	f := store.ArticleFilter{
		Search:       q.Search,
		OrderByViews: q.Order == OrderTotalViews,
	}

	if isDigits(q.Column) {
		if id, err := strconv.ParseInt(q.Column, 10, 64); err == nil {
			f.ColumnID = &id
		}
	}

	if q.Tag != "" && q.Tag != TagNone {
		f.Tag = q.Tag
	}

	return f
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}

	return true
}

// PageURL is the list query string for page n with the current search,
// order, column and tag kept.
func (l *ListResult) PageURL(n int) string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(n))
	if l.Order != "" {
		v.Set("order", l.Order)
	}
	if l.Search != "" {
		v.Set("search", l.Search)
	}
	if l.Column != "" {
		v.Set("column", l.Column)
	}
	if l.Tag != "" {
		v.Set("tag", l.Tag)
	}

	return "?" + v.Encode()
}

// OrderURL switches the ordering and returns to the first page.
func (l *ListResult) OrderURL(order string) string {
	v := url.Values{}
	if order != "" {
		v.Set("order", order)
	}
	if l.Search != "" {
		v.Set("search", l.Search)
	}
	if l.Column != "" {
		v.Set("column", l.Column)
	}
	if l.Tag != "" {
		v.Set("tag", l.Tag)
	}

	return "?" + v.Encode()
}
