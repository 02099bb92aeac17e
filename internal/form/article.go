package form

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// ColumnNone is the selector value meaning "no column".
	ColumnNone = "none"

	TitleMaxLength = 100
	maxMemory      = 32 << 20
)

var errBadColumn = validation.NewError("validation_column_invalid", "select a valid column")

// Upload is a file field from a multipart submission.
type Upload struct {
	Filename    string
	ContentType string
	File        multipart.File
}

// ArticleForm holds a submitted article exactly as it arrived. Cleaned
// values (trimmed) are available through the Clean* methods.
type ArticleForm struct {
	Title  string  `json:"title"`
	Body   string  `json:"body"`
	Column string  `json:"column"`
	Tags   string  `json:"tags"`
	Avatar *Upload `json:"-"`

	// Errors maps field names to messages after a failed Validate.
	Errors map[string]string `json:"-"`
}

// Bind reads an article form from a urlencoded or multipart request.
func Bind(r *http.Request) (*ArticleForm, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}

	f := &ArticleForm{
		Title:  r.PostForm.Get("title"),
		Body:   r.PostForm.Get("body"),
		Column: r.PostForm.Get("column"),
		Tags:   r.PostForm.Get("tags"),
	}

	if r.MultipartForm != nil {
		file, header, err := r.FormFile("avatar")
		switch {
		case err == nil:
			f.Avatar = &Upload{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				File:        file,
			}
		case !errors.Is(err, http.ErrMissingFile):
			return nil, fmt.Errorf("read avatar: %w", err)
		}
	}

	return f, nil
}

func (f *ArticleForm) CleanTitle() string { return strings.TrimSpace(f.Title) }

func (f *ArticleForm) CleanBody() string { return strings.TrimSpace(f.Body) }

// Validate checks the cleaned values and records per-field messages in
// Errors. The returned error is a validation.Errors on failure.
func (f *ArticleForm) Validate() error {
	clean := struct {
		Title  string `json:"title"`
		Body   string `json:"body"`
		Column string `json:"column"`
	}{f.CleanTitle(), f.CleanBody(), strings.TrimSpace(f.Column)}

	err := validation.ValidateStruct(&clean,
		validation.Field(&clean.Title, validation.Required, validation.RuneLength(1, TitleMaxLength)),
		validation.Field(&clean.Body, validation.Required),
		validation.Field(&clean.Column, validation.By(func(value any) error {
			if _, _, err := ParseColumn(value.(string)); err != nil {
				return errBadColumn
			}
			return nil
		})),
	)
	if err == nil {
		f.Errors = nil
		return nil
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		f.Errors = make(map[string]string, len(verrs))
		for field, ferr := range verrs {
			f.Errors[field] = ferr.Error()
		}
	}

	return err
}

// ColumnID resolves the column selector; ok is false for "none" or blank.
func (f *ArticleForm) ColumnID() (id int64, ok bool, err error) {
	return ParseColumn(f.Column)
}

// TagList splits the comma separated tags, trimming blanks and dropping
// empty and repeated labels.
func (f *ArticleForm) TagList() []string {
	return SplitTags(f.Tags)
}

func ParseColumn(raw string) (int64, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == ColumnNone {
		return 0, false, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, false, fmt.Errorf("invalid column %q", raw)
	}

	return id, true, nil
}

func SplitTags(raw string) []string {
	var tags []string
	seen := map[string]struct{}{}
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		tags = append(tags, name)
	}

	return tags
}

// JoinTags is the inverse of SplitTags for prefilling the tags input.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// CommentForm is the empty comment box shown under an article.
type CommentForm struct {
	Body string
}
