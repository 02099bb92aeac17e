package article

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SergeyParamoshkin/blog/internal/form"
	"github.com/SergeyParamoshkin/blog/internal/identity"
	"github.com/SergeyParamoshkin/blog/internal/view"
	"github.com/go-chi/chi/v5"
)

const (
	listPath   = "/article/article-list/"
	detailPath = "/article/article-detail/"

	msgMethodNotAllowed = "Only POST requests are allowed."
	msgNoDeletePerm     = "You are not allowed to delete this article."
	msgNoUpdatePerm     = "You are not allowed to modify this article."
	msgInvalidForm      = "The form is invalid, please fill it in again."
)

// Gate decides whether a request may continue to a login-only handler.
type Gate interface {
	Require(r *http.Request) identity.Decision
}

// Handler serves the article pages.
type Handler struct {
	svc  *Service
	gate Gate
	view *view.Renderer
}

func NewHandler(svc *Service, gate Gate, v *view.Renderer) *Handler {
	return &Handler{svc: svc, gate: gate, view: v}
}

// Routes are mounted under /article.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/article-list/", h.List)
	r.Get("/article-detail/{articleID}/", h.Detail)
	r.HandleFunc("/article-create/", h.Create)
	r.HandleFunc("/article-safe-delete/{articleID}/", h.SafeDelete)
	r.HandleFunc("/article-update/{articleID}/", h.Update)

	return r
}

// List renders one page of articles filtered by the search, column and
// tag parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.List(r.Context(), ParseListQuery(r.URL.Query()))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.page(w, r, http.StatusOK, view.PageList, res)
}

// Detail renders an article and counts the view.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := articleID(r)
	if !ok {
		h.fail(w, r, ErrNotFound)
		return
	}

	res, err := h.svc.Detail(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.page(w, r, http.StatusOK, view.PageDetail, res)
}

// Create shows the empty form on GET and stores the article on POST.
// An invalid submission re-renders the form with its errors.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	d := h.gate.Require(r)
	if !d.Allowed() {
		http.Redirect(w, r, d.Redirect, http.StatusFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		res, err := h.svc.NewForm(r.Context())
		if err != nil {
			h.fail(w, r, err)
			return
		}
		h.page(w, r, http.StatusOK, view.PageCreate, res)

	case http.MethodPost:
		f, err := form.Bind(r)
		if err != nil {
			view.Text(w, r, http.StatusBadRequest, msgInvalidForm)
			return
		}

		_, err = h.svc.Create(r.Context(), d.Principal, f)
		if errors.Is(err, ErrValidation) {
			res, ferr := h.svc.NewForm(r.Context())
			if ferr != nil {
				h.fail(w, r, ferr)
				return
			}
			res.Form = f
			h.page(w, r, http.StatusOK, view.PageCreate, res)
			return
		}
		if err != nil {
			h.fail(w, r, err)
			return
		}

		http.Redirect(w, r, listPath, http.StatusFound)

	default:
		view.Text(w, r, http.StatusMethodNotAllowed, "Only GET and POST requests are allowed.")
	}
}

// SafeDelete removes an article. Only POST from the author is accepted.
func (h *Handler) SafeDelete(w http.ResponseWriter, r *http.Request) {
	d := h.gate.Require(r)
	if !d.Allowed() {
		http.Redirect(w, r, d.Redirect, http.StatusFound)
		return
	}

	if r.Method != http.MethodPost {
		view.Text(w, r, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}

	id, ok := articleID(r)
	if !ok {
		h.fail(w, r, ErrNotFound)
		return
	}

	err := h.svc.Delete(r.Context(), d.Principal, id)
	if errors.Is(err, ErrNotAuthorized) {
		view.Text(w, r, http.StatusForbidden, msgNoDeletePerm)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	http.Redirect(w, r, listPath, http.StatusFound)
}

// Update shows the edit page on GET and applies the submission on POST.
// Failures on POST are reported as plain text.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	d := h.gate.Require(r)
	if !d.Allowed() {
		http.Redirect(w, r, d.Redirect, http.StatusFound)
		return
	}

	id, ok := articleID(r)
	if !ok {
		h.fail(w, r, ErrNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		res, err := h.svc.EditForm(r.Context(), id)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		h.page(w, r, http.StatusOK, view.PageUpdate, res)

	case http.MethodPost:
		f, err := form.Bind(r)
		if err != nil {
			view.Text(w, r, http.StatusBadRequest, msgInvalidForm)
			return
		}

		_, err = h.svc.Update(r.Context(), d.Principal, id, f)
		switch {
		case errors.Is(err, ErrNotAuthorized):
			view.Text(w, r, http.StatusForbidden, msgNoUpdatePerm)
		case errors.Is(err, ErrValidation):
			view.Text(w, r, http.StatusBadRequest, msgInvalidForm)
		case err != nil:
			h.fail(w, r, err)
		default:
			http.Redirect(w, r, detailPath+strconv.FormatInt(id, 10)+"/", http.StatusFound)
		}

	default:
		view.Text(w, r, http.StatusMethodNotAllowed, "Only GET and POST requests are allowed.")
	}
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	rc := identity.FromContext(r.Context())
	if err := h.view.HTML(w, r, status, page, view.Context{Principal: rc.Principal, Data: data}); err != nil {
		h.fail(w, r, err)
	}
}

// fail maps service errors onto plain-text responses.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		view.Text(w, r, http.StatusNotFound, "Article not found.")
	case errors.Is(err, ErrColumnNotFound):
		view.Text(w, r, http.StatusBadRequest, "Column not found.")
	case errors.Is(err, ErrValidation):
		view.Text(w, r, http.StatusBadRequest, msgInvalidForm)
	case errors.Is(err, ErrNotAuthorized):
		view.Text(w, r, http.StatusForbidden, "Not allowed.")
	default:
		identity.FromContext(r.Context()).Logger.Errorw("article request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		view.Text(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

func articleID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "articleID"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}

	return id, true
}
