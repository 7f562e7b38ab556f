// Package pagination turns page/limit query parameters into an offset,
// runs one page fetch against a store and reports the page together with
// the size of the whole table.
package pagination

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

var (
	// ErrInvalidPage is returned for a negative page number.
	ErrInvalidPage = errors.New("page must be a positive integer")

	// ErrInvalidLimit is returned for a zero or negative limit.
	ErrInvalidLimit = errors.New("limit must be a positive integer")
)

// Params is a validated page request. Page and Limit are both >= 1.
type Params struct {
	Page  int
	Limit int
}

// Offset is the number of rows to skip before the page starts. It
// saturates at math.MaxInt, which no table reaches, so a page far past
// the end is still empty.
func (p Params) Offset() int {
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// ParseParams reads "page" and "limit" from a query string.
//
// Absent or non-numeric values fall back to the defaults, and page=0 is
// treated as the first page, which is what existing clients rely on.
// A negative page or a limit below 1 is a client error.
func ParseParams(query url.Values) (Params, error) {
	p := Params{Page: DefaultPage, Limit: DefaultLimit}

	if page, err := strconv.Atoi(query.Get("page")); err == nil {
		switch {
		case page < 0:
			return Params{}, ErrInvalidPage
		case page > 0:
			p.Page = page
		}
	}

	if limit, err := strconv.Atoi(query.Get("limit")); err == nil {
		if limit < 1 {
			return Params{}, ErrInvalidLimit
		}
		p.Limit = limit
	}

	return p, nil
}

// TotalPages is ceil(total / limit).
func TotalPages(total int64, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	l := int64(limit)
	pages := total / l
	if total%l != 0 {
		pages++
	}
	return int(pages)
}

// Fetcher loads up to limit rows starting at offset and reports the row
// count of the unfiltered table. storage.Storage list methods satisfy it.
type Fetcher[T any] func(ctx context.Context, limit, offset int) ([]T, int64, error)

// Result is one page of rows plus the metadata clients need to render
// pagination controls.
type Result[T any] struct {
	Rows        []T
	TotalCount  int64
	CurrentPage int
	TotalPages  int
}

// Query fetches the page described by p. A store failure is returned as
// an error and never as an empty page; an offset past the end of the table
// yields no rows but the true totals.
func Query[T any](ctx context.Context, p Params, fetch Fetcher[T]) (Result[T], error) {
	rows, total, err := fetch(ctx, p.Limit, p.Offset())
	if err != nil {
		return Result[T]{}, fmt.Errorf("pagination.Query: %w", err)
	}

	if rows == nil {
		rows = make([]T, 0)
	}

	return Result[T]{
		Rows:        rows,
		TotalCount:  total,
		CurrentPage: p.Page,
		TotalPages:  TotalPages(total, p.Limit),
	}, nil
}
