package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

var ErrNotFound = errors.New("article not found")

type Client struct {
	http.Client
	Addr string
}

type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type Column struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type Article struct {
	ID         int64    `json:"id"`
	AuthorID   int64    `json:"authorId"`
	Author     *User    `json:"author,omitempty"`
	Column     *Column  `json:"column,omitempty"`
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	Avatar     string   `json:"avatar,omitempty"`
	TotalViews int64    `json:"totalViews"`
	Tags       []string `json:"tags"`
}

type TOCEntry struct {
	Level    int         `json:"level"`
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Children []*TOCEntry `json:"children,omitempty"`
}

type Comment struct {
	ID   int64  `json:"id"`
	User *User  `json:"user,omitempty"`
	Body string `json:"body"`
}

// ArticleDetail is an article whose Body is rendered HTML.
type ArticleDetail struct {
	Article
	TOC      []*TOCEntry `json:"toc"`
	Comments []*Comment  `json:"comments"`
}

type ArticleList struct {
	Articles []*Article `json:"articles"`
	Page     int        `json:"page"`
	NumPages int        `json:"numPages"`
	Count    int        `json:"count"`
	Search   string     `json:"search,omitempty"`
	Order    string     `json:"order,omitempty"`
	Column   string     `json:"column,omitempty"`
	Tag      string     `json:"tag,omitempty"`
}

// ListQuery mirrors the list page parameters. Zero values are omitted.
type ListQuery struct {
	Search string
	Order  string
	Column string
	Tag    string
	Page   int
}

func (q ListQuery) values() url.Values {
	v := url.Values{}
	set := func(k, s string) {
		if s != "" {
			v.Set(k, s)
		}
	}
	set("search", q.Search)
	set("order", q.Order)
	set("column", q.Column)
	set("tag", q.Tag)
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}

	return v
}

// StatusError is returned for any non-2xx answer other than 404.
type StatusError struct {
	Code   int
	Status string `json:"status"`
	Detail string `json:"error"`
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("blog: %d %s: %s", e.Code, e.Status, e.Detail)
	}

	return fmt.Sprintf("blog: %d %s", e.Code, e.Status)
}

func (c *Client) Ping() (string, error) {
	req, err := http.NewRequest("GET", c.Addr+"/ping", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), err
}

func (c *Client) ListArticles(ctx context.Context, q ListQuery) (*ArticleList, error) {
	u := c.Addr + "/api/articles/"
	if v := q.values(); len(v) > 0 {
		u += "?" + v.Encode()
	}

	var list ArticleList
	if err := c.getJSON(ctx, u, &list); err != nil {
		return nil, err
	}

	return &list, nil
}

// GetArticle fetches the rendered article. The server counts it as a view.
func (c *Client) GetArticle(ctx context.Context, id int64) (*ArticleDetail, error) {
	var a ArticleDetail
	if err := c.getJSON(ctx, fmt.Sprintf("%s/api/articles/%d", c.Addr, id), &a); err != nil {
		return nil, err
	}

	return &a, nil
}

func (c *Client) getJSON(ctx context.Context, u string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		se := &StatusError{Code: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
		_ = json.Unmarshal(body, se)

		return se
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", u, err)
	}

	return nil
}
