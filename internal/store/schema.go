package store

import (
	"context"
	"fmt"
	"time"

	"github.com/SergeyParamoshkin/blog/internal/model"
	"github.com/uptrace/bun"
)

// Models lists every table the service owns or reads, in creation order.
var Models = []any{
	(*model.User)(nil),
	(*model.ArticleColumn)(nil),
	(*model.Tag)(nil),
	(*model.Article)(nil),
	(*model.ArticleTag)(nil),
	(*model.Comment)(nil),
}

func CreateSchema(ctx context.Context, db *bun.DB) error {
	db.RegisterModel((*model.ArticleTag)(nil))
	for _, m := range Models {
		if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table %T: %w", m, err)
		}
	}

	return nil
}

// Seed adds fixture columns and articles when the articles table is empty.
// Fixture users must already exist.
func Seed(ctx context.Context, s *ArticleStore) error {
	n, err := s.Count(ctx, ArticleFilter{})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	now := time.Now().UTC()
	goColumn := &model.ArticleColumn{Title: "Go", Created: now}
	notes := &model.ArticleColumn{Title: "Notes", Created: now}
	for _, c := range []*model.ArticleColumn{goColumn, notes} {
		if err := s.CreateColumn(ctx, c); err != nil {
			return err
		}
	}

	// nolint
	fixtures := []struct {
		article *model.Article
		tags    []string
	}{
		{&model.Article{AuthorID: 100, ColumnID: &goColumn.ID, Title: "Hi", Body: "# Hi\n\nFirst post."}, []string{"intro"}},
		{&model.Article{AuthorID: 200, ColumnID: &goColumn.ID, Title: "sup", Body: "## Code\n\n```go\nfmt.Println(\"sup\")\n```"}, []string{"go", "code"}},
		{&model.Article{AuthorID: 100, ColumnID: &notes.ID, Title: "alo", Body: "| a | b |\n|---|---|\n| 1 | 2 |"}, nil},
		{&model.Article{AuthorID: 200, Title: "bonjour", Body: "Bonjour *le monde*."}, []string{"intro"}},
		{&model.Article{AuthorID: 100, Title: "whats up", Body: "Nothing much."}, nil},
	}
	for i, f := range fixtures {
		f.article.Created = now.Add(time.Duration(i) * time.Minute)
		f.article.Updated = f.article.Created
		if err := s.Create(ctx, f.article, f.tags); err != nil {
			return err
		}
	}

	return nil
}
