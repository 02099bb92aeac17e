package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SergeyParamoshkin/blog/internal/model"
	"github.com/uptrace/bun"
)

var (
	ErrNotFound       = errors.New("article not found")
	ErrColumnNotFound = errors.New("column not found")
)

// ArticleStore persists articles, their tag sets and the columns they
// belong to.
type ArticleStore struct {
	db *bun.DB
}

func NewArticleStore(db *bun.DB) *ArticleStore {
	db.RegisterModel((*model.ArticleTag)(nil))

	return &ArticleStore{db: db}
}

func (s *ArticleStore) Count(ctx context.Context, f ArticleFilter) (int, error) {
	q := s.db.NewSelect().Model((*model.Article)(nil))
	n, err := f.where(s.db, q).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}

	return n, nil
}

// Find returns one window of the filtered, ordered article set.
func (s *ArticleStore) Find(ctx context.Context, f ArticleFilter, limit, offset int) ([]*model.Article, error) {
	var articles []*model.Article
	q := s.db.NewSelect().
		Model(&articles).
		Relation("Author").
		Relation("Column").
		Relation("Tags")
	q = f.order(f.where(s.db, q))
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("find articles: %w", err)
	}

	return articles, nil
}

func (s *ArticleStore) Get(ctx context.Context, id int64) (*model.Article, error) {
	a := new(model.Article)
	err := s.db.NewSelect().
		Model(a).
		Relation("Author").
		Relation("Column").
		Relation("Tags").
		Where("a.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get article %d: %w", id, err)
	}

	return a, nil
}

// Create inserts the article and then its tag associations; the second
// step needs the id assigned by the first.
func (s *ArticleStore) Create(ctx context.Context, a *model.Article, tags []string) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(a).Exec(ctx); err != nil {
			return fmt.Errorf("insert article: %w", err)
		}

		return replaceTags(ctx, tx, a, tags)
	})
}

// Update rewrites the editable fields and replaces the whole tag set.
func (s *ArticleStore) Update(ctx context.Context, a *model.Article, tags []string) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model(a).
			Column("title", "body", "column_id", "avatar", "updated").
			WherePK().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update article %d: %w", a.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}

		return replaceTags(ctx, tx, a, tags)
	})
}

// SaveViews persists total_views and nothing else.
func (s *ArticleStore) SaveViews(ctx context.Context, a *model.Article) error {
	if _, err := s.db.NewUpdate().Model(a).Column("total_views").WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("save views of article %d: %w", a.ID, err)
	}

	return nil
}

// Delete removes the article with its tag links and comments.
func (s *ArticleStore) Delete(ctx context.Context, id int64) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*model.ArticleTag)(nil)).Where("article_id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("delete tags of article %d: %w", id, err)
		}
		if _, err := tx.NewDelete().Model((*model.Comment)(nil)).Where("article_id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("delete comments of article %d: %w", id, err)
		}
		res, err := tx.NewDelete().Model((*model.Article)(nil)).Where("id = ?", id).Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete article %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}

		return nil
	})
}

func replaceTags(ctx context.Context, tx bun.Tx, a *model.Article, names []string) error {
	if _, err := tx.NewDelete().Model((*model.ArticleTag)(nil)).Where("article_id = ?", a.ID).Exec(ctx); err != nil {
		return fmt.Errorf("clear tags of article %d: %w", a.ID, err)
	}

	tags := make([]model.Tag, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		tag := model.Tag{Name: name}
		err := tx.NewSelect().Model(&tag).Where("t.name = ?", name).Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			_, err = tx.NewInsert().Model(&tag).Exec(ctx)
		}
		if err != nil {
			return fmt.Errorf("resolve tag %q: %w", name, err)
		}
		link := &model.ArticleTag{ArticleID: a.ID, TagID: tag.ID}
		if _, err := tx.NewInsert().Model(link).Exec(ctx); err != nil {
			return fmt.Errorf("link tag %q: %w", name, err)
		}
		tags = append(tags, tag)
	}
	a.Tags = tags

	return nil
}
