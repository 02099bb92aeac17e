package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SergeyParamoshkin/blog/internal/model"
)

// Columns returns every column, oldest first.
func (s *ArticleStore) Columns(ctx context.Context) ([]*model.ArticleColumn, error) {
	var columns []*model.ArticleColumn
	if err := s.db.NewSelect().Model(&columns).OrderExpr("c.id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}

	return columns, nil
}

func (s *ArticleStore) Column(ctx context.Context, id int64) (*model.ArticleColumn, error) {
	c := new(model.ArticleColumn)
	err := s.db.NewSelect().Model(c).Where("c.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrColumnNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get column %d: %w", id, err)
	}

	return c, nil
}

func (s *ArticleStore) CreateColumn(ctx context.Context, c *model.ArticleColumn) error {
	if _, err := s.db.NewInsert().Model(c).Exec(ctx); err != nil {
		return fmt.Errorf("insert column %q: %w", c.Title, err)
	}

	return nil
}
