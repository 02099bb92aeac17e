package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SergeyParamoshkin/blog/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUsers map[int64]*model.User

func (f fakeUsers) Get(_ context.Context, id int64) (*model.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}

	return nil, errors.New("user not found")
}

func newProvider() *Provider {
	users := fakeUsers{100: {ID: 100, Name: "Peter"}}

	return NewProvider("secret", users, "", zap.NewNop().Sugar())
}

func TestPrincipalFromBearerAndCookie(t *testing.T) {
	p := newProvider()
	token, err := p.Token(100, time.Hour)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	u, err := p.Principal(r)
	require.NoError(t, err)
	assert.Equal(t, "Peter", u.Name)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	u, err = p.Principal(r)
	require.NoError(t, err)
	assert.Equal(t, int64(100), u.ID)
}

func TestPrincipalAnonymousAndInvalid(t *testing.T) {
	p := newProvider()

	u, err := p.Principal(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Nil(t, u)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer not-a-token")
	_, err = p.Principal(r)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewProvider("other-secret", fakeUsers{}, "", zap.NewNop().Sugar())
	forged, err := other.Token(100, time.Hour)
	require.NoError(t, err)
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+forged)
	_, err = p.Principal(r)
	assert.ErrorIs(t, err, ErrInvalidToken)

	p.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	expired, err := p.Token(100, time.Hour)
	require.NoError(t, err)
	p.now = time.Now
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+expired)
	_, err = p.Principal(r)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddlewareAndRequire(t *testing.T) {
	p := newProvider()
	token, err := p.Token(100, time.Hour)
	require.NoError(t, err)

	var got Decision
	h := p.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = p.Require(r)
	}))

	r := httptest.NewRequest(http.MethodGet, "/article/article-create/", nil)
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.False(t, got.Allowed())
	assert.Equal(t, "/userprofile/login/?next=%2Farticle%2Farticle-create%2F", got.Redirect)

	r = httptest.NewRequest(http.MethodGet, "/article/article-create/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), r)
	require.True(t, got.Allowed())
	assert.Equal(t, int64(100), got.Principal.ID)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer garbage")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.False(t, got.Allowed())
}

func TestFromContextDefaultsToAnonymous(t *testing.T) {
	rc := FromContext(context.Background())
	require.NotNil(t, rc)
	assert.Nil(t, rc.Principal)
	assert.NotNil(t, rc.Logger)
}
