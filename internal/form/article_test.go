package form

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindURLEncoded(t *testing.T) {
	v := url.Values{"title": {" T1 "}, "body": {"B1"}, "column": {"none"}, "tags": {"a, b"}}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(v.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	f, err := Bind(r)
	require.NoError(t, err)
	assert.Equal(t, " T1 ", f.Title)
	assert.Equal(t, "T1", f.CleanTitle())
	assert.Equal(t, []string{"a", "b"}, f.TagList())
	assert.Nil(t, f.Avatar)

	_, ok, err := f.ColumnID()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBindMultipartWithAvatar(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title", "T"))
	require.NoError(t, w.WriteField("body", "B"))
	require.NoError(t, w.WriteField("column", "7"))
	fw, err := w.CreateFormFile("avatar", "cover.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("png"))
	require.NoError(t, w.Close())

	r := httptest.NewRequest(http.MethodPost, "/", &buf)
	r.Header.Set("Content-Type", w.FormDataContentType())

	f, err := Bind(r)
	require.NoError(t, err)
	require.NotNil(t, f.Avatar)
	assert.Equal(t, "cover.png", f.Avatar.Filename)
	data, err := io.ReadAll(f.Avatar.File)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	id, ok, err := f.ColumnID()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)
}

func TestValidate(t *testing.T) {
	f := &ArticleForm{Title: "ok", Body: "ok", Column: "none"}
	require.NoError(t, f.Validate())
	assert.Nil(t, f.Errors)

	f = &ArticleForm{Title: "   ", Body: "", Column: "abc"}
	require.Error(t, f.Validate())
	assert.Contains(t, f.Errors, "title")
	assert.Contains(t, f.Errors, "body")
	assert.Contains(t, f.Errors, "column")

	f = &ArticleForm{Title: strings.Repeat("x", TitleMaxLength+1), Body: "b"}
	require.Error(t, f.Validate())
	assert.Contains(t, f.Errors, "title")
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitTags("a,b,c"))
	assert.Equal(t, []string{"a", "b"}, SplitTags(" a ,, b,a "))
	assert.Nil(t, SplitTags(""))
	assert.Equal(t, "a,b", JoinTags([]string{"a", "b"}))
}
