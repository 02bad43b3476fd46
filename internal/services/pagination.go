package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MuhammadMouostafa/library-management-system/internal/apperr"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

type PageRequest struct {
	Page  int
	Limit int
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one slice of a sorted result set.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Limit int
}

// TotalPages is ceil(Total / Limit).
func (p Page[T]) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Limit) - 1) / int64(p.Limit))
}

func newPage[T any](items []T, total int64, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Page: req.Page, Limit: req.Limit}
}

// ParsePageRequest reads page and limit query values. Missing values take
// the defaults; anything that is not a positive integer, or a limit above
// maxLimit, is a validation error.
func ParsePageRequest(page, limit string, defaultLimit, maxLimit int) (PageRequest, error) {
	if defaultLimit <= 0 {
		defaultLimit = DefaultPageLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxPageLimit
	}

	req := PageRequest{Page: 1, Limit: defaultLimit}
	var fe apperr.FieldErrors

	if s := strings.TrimSpace(page); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			fe.Add("page", apperr.CodeInvalidFormat, "Page must be a positive integer")
		} else {
			req.Page = n
		}
	}
	if s := strings.TrimSpace(limit); s != "" {
		n, err := strconv.Atoi(s)
		switch {
		case err != nil || n < 1:
			fe.Add("limit", apperr.CodeInvalidFormat, "Limit must be a positive integer")
		case n > maxLimit:
			fe.Add("limit", apperr.CodeInvalidFormat, fmt.Sprintf("Limit cannot exceed %d", maxLimit))
		default:
			req.Limit = n
		}
	}
	return req, fe.Err()
}
