package markdown

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRenderParagraph(t *testing.T) {
	out, err := NewRenderer().Render(context.Background(), "", "B1")
	require.NoError(t, err)
	assert.Contains(t, out.HTML, "<p>B1</p>")
	assert.Empty(t, out.TOC)
}

func TestRenderExtendedSyntax(t *testing.T) {
	src := "| a | b |\n|---|---|\n| 1 | 2 |\n\nTerm\n: Definition\n\nNote[^1]\n\n[^1]: footnote text\n"
	out, err := NewRenderer().Render(context.Background(), "", src)
	require.NoError(t, err)
	assert.Contains(t, out.HTML, "<table>")
	assert.Contains(t, out.HTML, "<dl>")
	assert.Contains(t, out.HTML, "footnote text")
}

func TestRenderHighlightsCode(t *testing.T) {
	src := "```go\nfunc main() {}\n```\n"
	out, err := NewRenderer().Render(context.Background(), "", src)
	require.NoError(t, err)
	assert.Contains(t, out.HTML, `class="chroma"`)
}

func TestRenderTOC(t *testing.T) {
	src := "# Intro\n\ntext\n\n## Setup *fast*\n\n## Usage\n\n# End\n"
	out, err := NewRenderer().Render(context.Background(), "", src)
	require.NoError(t, err)

	require.Len(t, out.TOC, 2)
	intro := out.TOC[0]
	assert.Equal(t, "Intro", intro.Title)
	assert.Equal(t, "intro", intro.ID)
	require.Len(t, intro.Children, 2)
	assert.Equal(t, "Setup fast", intro.Children[0].Title)
	assert.Equal(t, "Usage", intro.Children[1].Title)
	assert.Equal(t, "End", out.TOC[1].Title)

	assert.Contains(t, out.TOCHTML, `<div class="toc">`)
	assert.Contains(t, out.TOCHTML, `<a href="#intro">Intro</a>`)
	assert.Contains(t, out.HTML, `<h1 id="intro">Intro</h1>`)
}

func TestRenderSafeMode(t *testing.T) {
	out, err := NewRenderer(WithSafeMode(true)).Render(context.Background(), "", "<script>x</script>\n")
	require.NoError(t, err)
	assert.NotContains(t, out.HTML, "<script>")
}

func TestCachedRenderer(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	c := NewCachedRenderer(NewRenderer(), rdb, time.Minute, zap.NewNop().Sugar())
	ctx := context.Background()

	first, err := c.Render(ctx, "article:1:1", "# Title")
	require.NoError(t, err)
	assert.True(t, mr.Exists("markdown:article:1:1"))

	// Same key with different source returns the cached rendering.
	second, err := c.Render(ctx, "article:1:1", "something else")
	require.NoError(t, err)
	assert.Equal(t, first.HTML, second.HTML)
	assert.Equal(t, first.TOCHTML, second.TOCHTML)

	mr.FastForward(2 * time.Minute)
	third, err := c.Render(ctx, "article:1:1", "something else")
	require.NoError(t, err)
	assert.Contains(t, third.HTML, "<p>something else</p>")
}

func TestCachedRendererFallsBackWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	c := NewCachedRenderer(NewRenderer(), rdb, time.Minute, zap.NewNop().Sugar())
	out, err := c.Render(context.Background(), "k", "B1")
	require.NoError(t, err)
	assert.Contains(t, out.HTML, "<p>B1</p>")
}

func TestStyleCSS(t *testing.T) {
	css, err := StyleCSS(DefaultStyle)
	require.NoError(t, err)
	assert.Contains(t, css, ".chroma")
}
