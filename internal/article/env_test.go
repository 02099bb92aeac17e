package article

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/SergeyParamoshkin/blog/internal/markdown"
	"github.com/SergeyParamoshkin/blog/internal/model"
	"github.com/SergeyParamoshkin/blog/internal/store"
	"github.com/SergeyParamoshkin/blog/internal/testsupport"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

var (
	u1 = &model.User{ID: 1, Name: "u1"}
	u2 = &model.User{ID: 2, Name: "u2"}
)

type testEnv struct {
	db     *bun.DB
	store  *store.ArticleStore
	svc    *Service
	column *model.ArticleColumn
	media  *fakeMedia
	views  *countingViews
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db := testsupport.NewBunDB(t)
	for _, u := range []*model.User{u1, u2} {
		_, err := db.NewInsert().Model(&model.User{ID: u.ID, Name: u.Name}).Exec(ctx)
		require.NoError(t, err)
	}

	st := store.NewArticleStore(db)
	col := &model.ArticleColumn{Title: "Go", Created: time.Now()}
	require.NoError(t, st.CreateColumn(ctx, col))

	env := &testEnv{
		db:     db,
		store:  st,
		column: col,
		media:  &fakeMedia{},
		views:  &countingViews{},
	}

	tick := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	now := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick = tick.Add(time.Second)
		return tick
	}

	env.svc = NewService(st, store.NewCommentStore(db), markdown.NewRenderer(),
		WithMedia(env.media),
		WithViewRecorder(env.views),
		WithNow(now),
	)

	return env
}

type fakeMedia struct {
	names []string
	data  []string
}

func (f *fakeMedia) Save(_ context.Context, name string, _ string, body io.Reader) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.names = append(f.names, name)
	f.data = append(f.data, string(b))

	return "article/" + name, nil
}

type countingViews struct {
	ids []int64
}

func (c *countingViews) ArticleViewed(_ context.Context, id int64) {
	c.ids = append(c.ids, id)
}
