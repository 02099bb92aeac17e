package markdown

import (
	"html"
	"strings"

	"github.com/yuin/goldmark/ast"
)

// TOCEntry is one heading; deeper headings that follow it are its Children.
type TOCEntry struct {
	Level    int         `json:"level"`
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Children []*TOCEntry `json:"children,omitempty"`
}

func buildTOC(doc ast.Node, src []byte) []*TOCEntry {
	var (
		roots []*TOCEntry
		stack []*TOCEntry
	)

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		h, ok := n.(*ast.Heading)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}

		entry := &TOCEntry{Level: h.Level, Title: headingText(h, src)}
		if id, ok := h.AttributeString("id"); ok {
			if b, ok := id.([]byte); ok {
				entry.ID = string(b)
			}
		}

		for len(stack) > 0 && stack[len(stack)-1].Level >= entry.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, entry)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, entry)
		}
		stack = append(stack, entry)

		return ast.WalkSkipChildren, nil
	})

	return roots
}

func headingText(h ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(h, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}

		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

// renderTOC writes the nested list wrapped in <div class="toc">, the
// markup the detail template places beside the article.
func renderTOC(entries []*TOCEntry) string {
	var b strings.Builder
	b.WriteString("<div class=\"toc\">\n")
	writeTOCList(&b, entries)
	b.WriteString("</div>\n")

	return b.String()
}

func writeTOCList(b *strings.Builder, entries []*TOCEntry) {
	if len(entries) == 0 {
		return
	}

	b.WriteString("<ul>\n")
	for _, e := range entries {
		b.WriteString(`<li><a href="#`)
		b.WriteString(html.EscapeString(e.ID))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(e.Title))
		b.WriteString("</a>")
		if len(e.Children) > 0 {
			b.WriteString("\n")
			writeTOCList(b, e.Children)
		}
		b.WriteString("</li>\n")
	}
	b.WriteString("</ul>\n")
}
