package articleresponse

import (
	"net/http"

	"github.com/SergeyParamoshkin/blog/internal/markdown"
	"github.com/SergeyParamoshkin/blog/internal/model"
	"github.com/SergeyParamoshkin/blog/internal/paginator"
	"github.com/SergeyParamoshkin/blog/internal/userpayload"
	"github.com/go-chi/render"
)

// ArticleResponse is the response payload for the Article data model.
//
// Author and Tags shadow the embedded model fields of the same JSON name,
// so the author is rendered as a payload and tags as plain labels.
type ArticleResponse struct {
	*model.Article

	Author *userpayload.UserPayload `json:"author,omitempty"`
	Tags   []string                 `json:"tags"`
}

func NewArticleResponse(article *model.Article) *ArticleResponse {
	resp := &ArticleResponse{
		Article: article,
		Tags:    article.TagNames(),
	}

	if article.Author != nil {
		resp.Author = userpayload.NewUserPayloadResponse(article.Author)
	}

	return resp
}

// Render is called before the nested Author payload renders itself.
func (rd *ArticleResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// ListResponse is one page of articles with its position.
type ListResponse struct {
	Articles []render.Renderer `json:"articles"`
	Page     int               `json:"page"`
	NumPages int               `json:"numPages"`
	Count    int               `json:"count"`
	Search   string            `json:"search,omitempty"`
	Order    string            `json:"order,omitempty"`
	Column   string            `json:"column,omitempty"`
	Tag      string            `json:"tag,omitempty"`
}

func NewListResponse(page *paginator.Page[*model.Article]) *ListResponse {
	list := []render.Renderer{}
	for _, article := range page.Items {
		list = append(list, NewArticleResponse(article))
	}

	return &ListResponse{
		Articles: list,
		Page:     page.Number,
		NumPages: page.NumPages(),
		Count:    page.Paginator().Count,
	}
}

func (lr *ListResponse) Render(w http.ResponseWriter, r *http.Request) error {
	for _, a := range lr.Articles {
		if err := a.Render(w, r); err != nil {
			return err
		}
	}

	return nil
}

// DetailResponse is an article with its body rendered to HTML.
type DetailResponse struct {
	*ArticleResponse

	TOC      []*markdown.TOCEntry `json:"toc"`
	Comments []*model.Comment     `json:"comments"`
}

func NewDetailResponse(article *model.Article, toc []*markdown.TOCEntry, comments []*model.Comment) *DetailResponse {
	if comments == nil {
		comments = []*model.Comment{}
	}

	return &DetailResponse{
		ArticleResponse: NewArticleResponse(article),
		TOC:             toc,
		Comments:        comments,
	}
}
