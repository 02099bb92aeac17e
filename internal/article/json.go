package article

import (
	"context"
	"errors"
	"net/http"

	"github.com/SergeyParamoshkin/blog/internal/articleresponse"
	"github.com/SergeyParamoshkin/blog/internal/errresponse"
	"github.com/SergeyParamoshkin/blog/internal/identity"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

var errBadArticleID = errors.New("article id must be a positive integer")

type ctxKey int8

const ctxKeyListQuery ctxKey = iota

// APIRoutes is the read-only JSON API, mounted under /api/articles.
func (h *Handler) APIRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.With(paginate).Get("/", h.ListArticles)
	r.Get("/{articleID}", h.GetArticle)

	return r
}

// paginate reads the list parameters once and hands them down the chain.
func paginate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := ParseListQuery(r.URL.Query())
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyListQuery, q)))
	})
}

func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	q, _ := r.Context().Value(ctxKeyListQuery).(ListQuery)

	res, err := h.svc.List(r.Context(), q)
	if err != nil {
		h.renderErr(w, r, err)
		return
	}

	resp := articleresponse.NewListResponse(res.Articles)
	resp.Search, resp.Order, resp.Column, resp.Tag = res.Search, res.Order, res.Column, res.Tag
	if err := render.Render(w, r, resp); err != nil {
		h.respond(w, r, errresponse.ErrRender(err))
	}
}

// GetArticle returns the rendered article. Like the page, it counts a view.
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := articleID(r)
	if !ok {
		h.renderErr(w, r, errBadArticleID)
		return
	}

	res, err := h.svc.Detail(r.Context(), id)
	if err != nil {
		h.renderErr(w, r, err)
		return
	}

	if err := render.Render(w, r, articleresponse.NewDetailResponse(res.Article, res.TOC, res.Comments)); err != nil {
		h.respond(w, r, errresponse.ErrRender(err))
	}
}

func (h *Handler) renderErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errBadArticleID):
		h.respond(w, r, errresponse.ErrInvalidRequest(err))
	case errors.Is(err, ErrNotFound):
		h.respond(w, r, errresponse.ErrNotFound)
	default:
		identity.FromContext(r.Context()).Logger.Errorw("api request failed", "path", r.URL.Path, "error", err)
		h.respond(w, r, errresponse.ErrInternal(err))
	}
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, resp render.Renderer) {
	if err := render.Render(w, r, resp); err != nil {
		identity.FromContext(r.Context()).Logger.Errorw(err.Error())
	}
}
