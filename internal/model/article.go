package model

import (
	"time"

	"github.com/uptrace/bun"
)

// Article data model. Body holds raw markdown as stored; the detail view
// replaces it with rendered HTML on the copy it hands to the page.
type Article struct {
	bun.BaseModel `bun:"table:articles,alias:a"`

	ID         int64          `bun:",pk,autoincrement" json:"id"`
	AuthorID   int64          `bun:"author_id,notnull" json:"authorId"`
	Author     *User          `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
	ColumnID   *int64         `bun:"column_id" json:"columnId,omitempty"`
	Column     *ArticleColumn `bun:"rel:belongs-to,join:column_id=id" json:"column,omitempty"`
	Title      string         `bun:"title,notnull" json:"title"`
	Body       string         `bun:"body,notnull" json:"body"`
	Avatar     string         `bun:"avatar,nullzero" json:"avatar,omitempty"`
	TotalViews int64          `bun:"total_views,notnull,default:0" json:"totalViews"`
	Tags       []Tag          `bun:"m2m:article_tags,join:Article=Tag" json:"tags,omitempty"`
	Created    time.Time      `bun:"created,notnull" json:"created"`
	Updated    time.Time      `bun:"updated,notnull" json:"updated"`
}

// TagNames returns the article's tag labels in stored order.
func (a *Article) TagNames() []string {
	names := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		names = append(names, t.Name)
	}

	return names
}

type ArticleColumn struct {
	bun.BaseModel `bun:"table:article_columns,alias:c"`

	ID      int64     `bun:",pk,autoincrement" json:"id"`
	Title   string    `bun:"title,notnull" json:"title"`
	Created time.Time `bun:"created,notnull" json:"created"`
}

type Tag struct {
	bun.BaseModel `bun:"table:tags,alias:t"`

	ID   int64  `bun:",pk,autoincrement" json:"-"`
	Name string `bun:"name,notnull,unique" json:"name"`
}

// ArticleTag is the join row behind Article.Tags. It must be registered
// with the bun.DB before any m2m query runs.
type ArticleTag struct {
	bun.BaseModel `bun:"table:article_tags,alias:at"`

	ArticleID int64    `bun:"article_id,pk"`
	Article   *Article `bun:"rel:belongs-to,join:article_id=id"`
	TagID     int64    `bun:"tag_id,pk"`
	Tag       *Tag     `bun:"rel:belongs-to,join:tag_id=id"`
}
