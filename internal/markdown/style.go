package markdown

import (
	"bytes"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// StyleCSS returns the stylesheet for the class names emitted into
// highlighted code blocks. Unknown styles fall back to chroma's default.
func StyleCSS(style string) (string, error) {
	var buf bytes.Buffer
	if err := chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(&buf, styles.Get(style)); err != nil {
		return "", err
	}

	return buf.String(), nil
}
