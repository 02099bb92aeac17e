package model

import (
	"time"

	"github.com/uptrace/bun"
)

// Comment is owned by the comment subsystem; articles only read it.
type Comment struct {
	bun.BaseModel `bun:"table:comments,alias:cm"`

	ID        int64     `bun:",pk,autoincrement" json:"id"`
	ArticleID int64     `bun:"article_id,notnull" json:"articleId"`
	UserID    int64     `bun:"user_id,notnull" json:"userId"`
	User      *User     `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Body      string    `bun:"body,notnull" json:"body"`
	Created   time.Time `bun:"created,notnull" json:"created"`
}
