package ports

import "github.com/otakulist/watchlist-api/internal/core/domain"

// PageRequest carries raw pagination parameters from the transport layer.
// Page is 0-based. SortBy uses exposed field names ("title", "rating", ...)
// and is validated by the service layer before reaching persistence; an
// unknown field or direction fails with domain.ErrInvalidSort.
type PageRequest struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
}

// SortSpec is a validated sort ready for the persistence layer.
type SortSpec struct {
	Field      string // stored field name
	Descending bool
}

// PageQuery is a validated page window passed to repositories.
type PageQuery struct {
	Page int
	Size int
	Sort SortSpec
}

// AnimePage is one page of a user's anime list.
type AnimePage struct {
	Items         []*domain.Anime
	PageNumber    int
	PageSize      int
	TotalElements int64
	TotalPages    int
	IsLast        bool
}

// MangaPage is one page of a user's manga list.
type MangaPage struct {
	Items         []*domain.Manga
	PageNumber    int
	PageSize      int
	TotalElements int64
	TotalPages    int
	IsLast        bool
}
