package service

import (
	"fmt"
	"strings"

	"github.com/otakulist/watchlist-api/internal/core/domain"
	"github.com/otakulist/watchlist-api/internal/core/ports"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Sort fields exposed on the list endpoints, mapped to their stored names.
var animeSortFields = map[string]string{
	"id":         "_id",
	"title":      "title",
	"type":       "type",
	"status":     "status",
	"rating":     "rating",
	"isFavorite": "is_favorite",
	"isComplete": "is_complete",
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
}

var mangaSortFields = map[string]string{
	"id":         "_id",
	"title":      "title",
	"status":     "status",
	"rating":     "rating",
	"isFavorite": "is_favorite",
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
}

// buildPageQuery validates a raw page request against the allowed sort
// fields. An unknown field or direction fails with ErrInvalidSort; it is
// never silently defaulted.
func buildPageQuery(req ports.PageRequest, sortFields map[string]string) (ports.PageQuery, error) {
	field, ok := sortFields[req.SortBy]
	if !ok {
		return ports.PageQuery{}, fmt.Errorf("%w: unknown sort field %q", domain.ErrInvalidSort, req.SortBy)
	}

	var desc bool
	switch strings.ToLower(req.SortDir) {
	case "asc":
	case "desc":
		desc = true
	default:
		return ports.PageQuery{}, fmt.Errorf("%w: unknown direction %q", domain.ErrInvalidSort, req.SortDir)
	}

	page := req.Page
	if page < 0 {
		page = 0
	}
	size := req.Size
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	return ports.PageQuery{
		Page: page,
		Size: size,
		Sort: ports.SortSpec{Field: field, Descending: desc},
	}, nil
}

// pageMeta derives the page envelope: isLast holds exactly when
// (page+1)*size >= total.
func pageMeta(q ports.PageQuery, total int64) (totalPages int, isLast bool) {
	totalPages = int((total + int64(q.Size) - 1) / int64(q.Size))
	isLast = int64(q.Page+1)*int64(q.Size) >= total
	return totalPages, isLast
}
