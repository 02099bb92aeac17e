// Package paginator splits a counted result set into fixed-size pages.
//
// Page lookup is forgiving: a missing or non-integer page number yields the
// first page and any number outside 1..NumPages yields the last page.
package paginator

import (
	"errors"
	"strconv"
	"strings"
)

const DefaultPerPage = 3

type Paginator struct {
	Count   int
	PerPage int
}

func New(count, perPage int) *Paginator {
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	return &Paginator{Count: count, PerPage: perPage}
}

// NumPages is never less than one; an empty set still has an empty first page.
func (p *Paginator) NumPages() int {
	if p.Count == 0 {
		return 1
	}

	return (p.Count + p.PerPage - 1) / p.PerPage
}

// Number resolves a raw page parameter to a valid page number.
func (p *Paginator) Number(raw string) int {
	n, ok := parseNumber(raw)
	if !ok {
		return 1
	}
	if n < 1 || n > p.NumPages() {
		return p.NumPages()
	}

	return n
}

// Bounds returns the offset and limit of page number.
func (p *Paginator) Bounds(number int) (offset, limit int) {
	return (number - 1) * p.PerPage, p.PerPage
}

func parseNumber(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) {
		// An integer too large to hold is still an integer, just out of range.
		return -1, true
	}
	if err != nil {
		return 0, false
	}

	return n, true
}

// Page is one window of items together with its position.
type Page[T any] struct {
	Items  []T
	Number int

	paginator *Paginator
}

func NewPage[T any](items []T, number int, p *Paginator) *Page[T] {
	return &Page[T]{Items: items, Number: number, paginator: p}
}

func (pg *Page[T]) Paginator() *Paginator { return pg.paginator }

func (pg *Page[T]) NumPages() int { return pg.paginator.NumPages() }

func (pg *Page[T]) HasNext() bool { return pg.Number < pg.paginator.NumPages() }

func (pg *Page[T]) HasPrevious() bool { return pg.Number > 1 }

func (pg *Page[T]) HasOtherPages() bool { return pg.HasNext() || pg.HasPrevious() }

func (pg *Page[T]) NextNumber() int { return pg.Number + 1 }

func (pg *Page[T]) PreviousNumber() int { return pg.Number - 1 }

// StartIndex is the 1-based index of the first item on the page, 0 when empty.
func (pg *Page[T]) StartIndex() int {
	if pg.paginator.Count == 0 {
		return 0
	}

	return pg.paginator.PerPage*(pg.Number-1) + 1
}

func (pg *Page[T]) EndIndex() int {
	if pg.Number == pg.paginator.NumPages() {
		return pg.paginator.Count
	}

	return pg.Number * pg.paginator.PerPage
}
