// Package view renders article pages from embedded templates and writes
// plain-text responses.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/SergeyParamoshkin/blog/internal/model"
	"github.com/go-chi/render"
	"github.com/gorilla/csrf"
)

const (
	PageList   = "list.html"
	PageDetail = "detail.html"
	PageCreate = "create.html"
	PageUpdate = "update.html"
)

//go:embed templates
var embededFiles embed.FS

// Context is handed to every page: the caller and the page's own data.
// CSRFField is the hidden token input for forms that post back; it is
// filled in by HTML.
type Context struct {
	Principal *model.User
	Data      any
	CSRFField template.HTML
}

type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	// safe marks already-rendered markup (article bodies, the TOC).
	"safe": func(s string) template.HTML { return template.HTML(s) },
	"join": strings.Join,
	"isAuthor": func(u *model.User, a *model.Article) bool {
		return u != nil && a != nil && u.ID == a.AuthorID
	},
	"columnSelected": func(a *model.Article, c *model.ArticleColumn) bool {
		return a != nil && a.ColumnID != nil && *a.ColumnID == c.ID
	},
}

func New() (*Renderer, error) {
	fsys, err := fs.Sub(embededFiles, "templates")
	if err != nil {
		return nil, err
	}

	v := &Renderer{pages: map[string]*template.Template{}}
	for _, page := range []string{PageList, PageDetail, PageCreate, PageUpdate} {
		t, err := template.New(page).Funcs(funcs).ParseFS(fsys, "layout.html", page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		v.pages[page] = t
	}

	return v, nil
}

// HTML executes page into a buffer first so a template error never leaves
// a half-written response.
func (v *Renderer) HTML(w http.ResponseWriter, r *http.Request, status int, page string, data Context) error {
	t, ok := v.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	data.CSRFField = csrf.TemplateField(r)

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("execute %s: %w", page, err)
	}

	render.Status(r, status)
	render.HTML(w, r, buf.String())

	return nil
}

// Text writes msg as a plain-text body with status.
func Text(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.PlainText(w, r, msg)
}
