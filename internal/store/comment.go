package store

import (
	"context"
	"fmt"

	"github.com/SergeyParamoshkin/blog/internal/model"
	"github.com/uptrace/bun"
)

// CommentStore is a read-only view of the comments table.
type CommentStore struct {
	db bun.IDB
}

func NewCommentStore(db bun.IDB) *CommentStore {
	return &CommentStore{db: db}
}

// ForArticle returns the comments on an article in posting order.
func (s *CommentStore) ForArticle(ctx context.Context, articleID int64) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := s.db.NewSelect().
		Model(&comments).
		Relation("User").
		Where("cm.article_id = ?", articleID).
		OrderExpr("cm.created ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("comments of article %d: %w", articleID, err)
	}

	return comments, nil
}
