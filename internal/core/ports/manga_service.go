package ports

import (
	"context"

	"github.com/otakulist/watchlist-api/internal/core/domain"
)

// MangaInput carries every mutable field of a manga entry (full-replacement
// update semantics, as with AnimeInput).
type MangaInput struct {
	Title      string
	Status     domain.MangaStatus
	Rating     *int
	IsFavorite bool
}

// MangaService defines the ownership-scoped use cases for manga entries.
type MangaService interface {
	Create(ctx context.Context, ident domain.Identity, in MangaInput, idempotencyKey string) (manga *domain.Manga, replayed bool, err error)
	List(ctx context.Context, ident domain.Identity, page PageRequest) (*MangaPage, error)
	Get(ctx context.Context, ident domain.Identity, id string) (*domain.Manga, error)
	Update(ctx context.Context, ident domain.Identity, id string, in MangaInput) (*domain.Manga, error)
	Delete(ctx context.Context, ident domain.Identity, id string) error
	Search(ctx context.Context, ident domain.Identity, filter MangaFilter) ([]*domain.Manga, error)
	MeanRating(ctx context.Context, ident domain.Identity) (float64, error)
}
