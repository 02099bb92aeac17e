// Package article implements the blog's article pages: listing, detail,
// and the author-only create, update and delete operations.
package article

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SergeyParamoshkin/blog/internal/form"
	"github.com/SergeyParamoshkin/blog/internal/markdown"
	"github.com/SergeyParamoshkin/blog/internal/media"
	"github.com/SergeyParamoshkin/blog/internal/model"
	"github.com/SergeyParamoshkin/blog/internal/paginator"
	"github.com/SergeyParamoshkin/blog/internal/store"
	"go.uber.org/zap"
)

var (
	ErrNotFound       = store.ErrNotFound
	ErrColumnNotFound = store.ErrColumnNotFound
	ErrNotAuthorized  = errors.New("not the author of this article")
	ErrValidation     = errors.New("invalid article form")
)

// Store is the persistence the service needs; *store.ArticleStore
// implements it.
type Store interface {
	Count(ctx context.Context, f store.ArticleFilter) (int, error)
	Find(ctx context.Context, f store.ArticleFilter, limit, offset int) ([]*model.Article, error)
	Get(ctx context.Context, id int64) (*model.Article, error)
	Create(ctx context.Context, a *model.Article, tags []string) error
	Update(ctx context.Context, a *model.Article, tags []string) error
	SaveViews(ctx context.Context, a *model.Article) error
	Delete(ctx context.Context, id int64) error
	Columns(ctx context.Context) ([]*model.ArticleColumn, error)
	Column(ctx context.Context, id int64) (*model.ArticleColumn, error)
}

type Comments interface {
	ForArticle(ctx context.Context, articleID int64) ([]*model.Comment, error)
}

// ContentRenderer converts an article body; key identifies the source
// version for caching.
type ContentRenderer interface {
	Render(ctx context.Context, key, source string) (*markdown.Rendered, error)
}

type ViewRecorder interface {
	ArticleViewed(ctx context.Context, id int64)
}

type nopViews struct{}

func (nopViews) ArticleViewed(context.Context, int64) {}

type Service struct {
	store    Store
	comments Comments
	renderer ContentRenderer
	media    media.Storage
	views    ViewRecorder
	perPage  int
	now      func() time.Time
	logger   *zap.SugaredLogger
}

type Option func(*Service)

func WithMedia(m media.Storage) Option { return func(s *Service) { s.media = m } }

func WithViewRecorder(v ViewRecorder) Option { return func(s *Service) { s.views = v } }

func WithPerPage(n int) Option { return func(s *Service) { s.perPage = n } }

func WithNow(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func WithLogger(l *zap.SugaredLogger) Option { return func(s *Service) { s.logger = l } }

func NewService(st Store, comments Comments, renderer ContentRenderer, opts ...Option) *Service {
	s := &Service{
		store:    st,
		comments: comments,
		renderer: renderer,
		views:    nopViews{},
		perPage:  paginator.DefaultPerPage,
		now:      time.Now,
		logger:   zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ListResult is one page of articles plus the parameters that produced it.
type ListResult struct {
	Articles *paginator.Page[*model.Article]
	Search   string
	Order    string
	Column   string
	Tag      string
}

func (s *Service) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	f := q.Filter()

	count, err := s.store.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	p := paginator.New(count, s.perPage)
	number := p.Number(q.Page)
	offset, limit := p.Bounds(number)

	articles, err := s.store.Find(ctx, f, limit, offset)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Articles: paginator.NewPage(articles, number, p),
		Search:   q.Search,
		Order:    q.Order,
		Column:   q.Column,
		Tag:      q.Tag,
	}, nil
}

// DetailResult carries an article whose Body has been replaced with HTML.
type DetailResult struct {
	Article     *model.Article
	TOC         []*markdown.TOCEntry
	TOCHTML     string
	Comments    []*model.Comment
	CommentForm *form.CommentForm
}

// Detail loads an article for reading and counts the view. Every call
// counts, repeated views by the same reader included.
func (s *Service) Detail(ctx context.Context, id int64) (*DetailResult, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ForArticle(ctx, id)
	if err != nil {
		return nil, err
	}

	a.TotalViews++
	if err := s.store.SaveViews(ctx, a); err != nil {
		return nil, err
	}
	s.views.ArticleViewed(ctx, a.ID)

	key := fmt.Sprintf("article:%d:%d", a.ID, a.Updated.UnixNano())
	rendered, err := s.renderer.Render(ctx, key, a.Body)
	if err != nil {
		return nil, err
	}
	a.Body = rendered.HTML

	return &DetailResult{
		Article:     a,
		TOC:         rendered.TOC,
		TOCHTML:     rendered.TOCHTML,
		Comments:    comments,
		CommentForm: &form.CommentForm{},
	}, nil
}

// FormResult backs the create and update pages.
type FormResult struct {
	Form    *form.ArticleForm
	Columns []*model.ArticleColumn
	// Article and Tags are set on the update page only.
	Article *model.Article
	Tags    string
}

// NewForm returns an empty create form with the selectable columns.
func (s *Service) NewForm(ctx context.Context) (*FormResult, error) {
	columns, err := s.store.Columns(ctx)
	if err != nil {
		return nil, err
	}

	return &FormResult{Form: &form.ArticleForm{}, Columns: columns}, nil
}

// Create stores a new article authored by principal. On ErrValidation the
// messages are in f.Errors.
func (s *Service) Create(ctx context.Context, principal *model.User, f *form.ArticleForm) (*model.Article, error) {
	if principal == nil {
		return nil, ErrNotAuthorized
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	now := s.now()
	a := &model.Article{
		AuthorID: principal.ID,
		Title:    f.CleanTitle(),
		Body:     f.CleanBody(),
		Created:  now,
		Updated:  now,
	}
	if err := s.resolveColumn(ctx, a, f); err != nil {
		return nil, err
	}
	if err := s.saveAvatar(ctx, a, f); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, a, f.TagList()); err != nil {
		return nil, err
	}
	a.Author = principal
	s.logger.Infow("article created", "id", a.ID, "author", principal.ID)

	return a, nil
}

// Delete removes an article for good. Only its author may do so.
func (s *Service) Delete(ctx context.Context, principal *model.User, id int64) error {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !isAuthor(principal, a) {
		return ErrNotAuthorized
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Infow("article deleted", "id", id, "author", principal.ID)

	return nil
}

// EditForm backs the update page. The form itself starts empty; current
// values come from Article and the comma-joined Tags.
func (s *Service) EditForm(ctx context.Context, id int64) (*FormResult, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	columns, err := s.store.Columns(ctx)
	if err != nil {
		return nil, err
	}

	return &FormResult{
		Form:    &form.ArticleForm{},
		Columns: columns,
		Article: a,
		Tags:    form.JoinTags(a.TagNames()),
	}, nil
}

// Update applies a submitted form to an article owned by principal. Title
// and body are stored as submitted, without trimming; the tag set is
// replaced, not merged.
func (s *Service) Update(ctx context.Context, principal *model.User, id int64, f *form.ArticleForm) (*model.Article, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAuthor(principal, a) {
		return nil, ErrNotAuthorized
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	a.Title = f.Title
	a.Body = f.Body
	if err := s.resolveColumn(ctx, a, f); err != nil {
		return nil, err
	}
	if err := s.saveAvatar(ctx, a, f); err != nil {
		return nil, err
	}
	a.Updated = s.now()

	if err := s.store.Update(ctx, a, f.TagList()); err != nil {
		return nil, err
	}
	s.logger.Infow("article updated", "id", a.ID, "author", principal.ID)

	return a, nil
}

func (s *Service) resolveColumn(ctx context.Context, a *model.Article, f *form.ArticleForm) error {
	id, ok, err := f.ColumnID()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if !ok {
		a.ColumnID, a.Column = nil, nil
		return nil
	}

	c, err := s.store.Column(ctx, id)
	if err != nil {
		return err
	}
	a.ColumnID, a.Column = &c.ID, c

	return nil
}

func (s *Service) saveAvatar(ctx context.Context, a *model.Article, f *form.ArticleForm) error {
	if f.Avatar == nil || s.media == nil {
		return nil
	}
	defer f.Avatar.File.Close()

	key, err := s.media.Save(ctx, f.Avatar.Filename, f.Avatar.ContentType, f.Avatar.File)
	if err != nil {
		return fmt.Errorf("save avatar: %w", err)
	}
	a.Avatar = key

	return nil
}

func isAuthor(principal *model.User, a *model.Article) bool {
	return principal != nil && principal.ID == a.AuthorID
}
