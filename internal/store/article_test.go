package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/SergeyParamoshkin/blog/internal/model"
	"github.com/SergeyParamoshkin/blog/internal/store"
	"github.com/SergeyParamoshkin/blog/internal/testsupport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)

func newArticleStore(t *testing.T) *store.ArticleStore {
	t.Helper()

	db := testsupport.NewBunDB(t)
	_, err := db.NewInsert().Model(&model.User{ID: 1, Name: "u1"}).Exec(context.Background())
	require.NoError(t, err)

	return store.NewArticleStore(db)
}

func mustCreate(t *testing.T, s *store.ArticleStore, title, body string, views int64, column *int64, tags ...string) *model.Article {
	t.Helper()

	a := &model.Article{
		AuthorID:   1,
		ColumnID:   column,
		Title:      title,
		Body:       body,
		TotalViews: views,
		Created:    base,
		Updated:    base,
	}
	require.NoError(t, s.Create(context.Background(), a, tags))
	require.NotZero(t, a.ID)

	return a
}

func titles(articles []*model.Article) []string {
	out := make([]string, 0, len(articles))
	for _, a := range articles {
		out = append(out, a.Title)
	}

	return out
}

func TestFindSearchMatchesTitleOrBody(t *testing.T) {
	ctx := context.Background()
	s := newArticleStore(t)

	mustCreate(t, s, "Gopher Notes", "nothing here", 0, nil)
	mustCreate(t, s, "Unrelated", "a GOPHER in the body", 0, nil)
	mustCreate(t, s, "Other", "plain", 0, nil)
	mustCreate(t, s, "100% done", "percent", 0, nil)

	got, err := s.Find(ctx, store.ArticleFilter{Search: "gopher"}, 0, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Gopher Notes", "Unrelated"}, titles(got))

	n, err := s.Count(ctx, store.ArticleFilter{Search: "gopher"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err = s.Find(ctx, store.ArticleFilter{Search: "0%"}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"100% done"}, titles(got))
}

func TestFindSearchFoldsNonASCIICase(t *testing.T) {
	ctx := context.Background()
	s := newArticleStore(t)

	mustCreate(t, s, "Ärger im Büro", "nothing here", 0, nil)
	mustCreate(t, s, "Plain", "ÜBER ALLES", 0, nil)
	mustCreate(t, s, "Other", "plain", 0, nil)

	for _, search := range []string{"Ärger", "ärger", "ÄRGER IM BÜRO"} {
		got, err := s.Find(ctx, store.ArticleFilter{Search: search}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"Ärger im Büro"}, titles(got), "search %q", search)
	}

	n, err := s.Count(ctx, store.ArticleFilter{Search: "über"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFindColumnAndTag(t *testing.T) {
	ctx := context.Background()
	s := newArticleStore(t)

	col := &model.ArticleColumn{Title: "Go", Created: base}
	require.NoError(t, s.CreateColumn(ctx, col))

	mustCreate(t, s, "in column", "x", 0, &col.ID, "go")
	mustCreate(t, s, "no column", "x", 0, nil, "go", "misc")
	mustCreate(t, s, "untagged", "x", 0, nil)

	got, err := s.Find(ctx, store.ArticleFilter{ColumnID: &col.ID}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"in column"}, titles(got))
	require.NotNil(t, got[0].Column)
	assert.Equal(t, "Go", got[0].Column.Title)

	got, err = s.Find(ctx, store.ArticleFilter{Tag: "go"}, 0, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"in column", "no column"}, titles(got))

	got, err = s.Find(ctx, store.ArticleFilter{Tag: "misc", ColumnID: &col.ID}, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindOrderByViews(t *testing.T) {
	ctx := context.Background()
	s := newArticleStore(t)

	mustCreate(t, s, "low", "x", 1, nil)
	mustCreate(t, s, "high", "x", 10, nil)
	mustCreate(t, s, "mid", "x", 5, nil)

	got, err := s.Find(ctx, store.ArticleFilter{OrderByViews: true}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"high", "mid", "low"}, titles(got))

	got, err = s.Find(ctx, store.ArticleFilter{OrderByViews: true}, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"mid", "low"}, titles(got))
}

func TestUpdateReplacesTags(t *testing.T) {
	ctx := context.Background()
	s := newArticleStore(t)

	a := mustCreate(t, s, "t", "b", 0, nil, "old", "keep")
	a.Title = "t2"
	require.NoError(t, s.Update(ctx, a, []string{"a", "b", "c"}))

	got, err := s.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "t2", got.Title)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, got.TagNames())
}

func TestSaveViewsWritesOnlyCounter(t *testing.T) {
	ctx := context.Background()
	s := newArticleStore(t)

	a := mustCreate(t, s, "title", "body", 3, nil)
	a.TotalViews++
	a.Title = "not persisted"
	require.NoError(t, s.SaveViews(ctx, a))

	got, err := s.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.TotalViews)
	assert.Equal(t, "title", got.Title)
}

func TestDeleteAndNotFound(t *testing.T) {
	ctx := context.Background()
	s := newArticleStore(t)

	a := mustCreate(t, s, "gone", "b", 0, nil, "x")
	require.NoError(t, s.Delete(ctx, a.ID))

	_, err := s.Get(ctx, a.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, a.ID), store.ErrNotFound)

	_, err = s.Column(ctx, 42)
	assert.ErrorIs(t, err, store.ErrColumnNotFound)
}
