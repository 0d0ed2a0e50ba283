package ports

import (
	"context"

	"github.com/otakulist/watchlist-api/internal/core/domain"
)

// MangaFilter mirrors AnimeFilter for manga entries (no type, no complete
// flag).
type MangaFilter struct {
	UserID     string
	Title      string // case-insensitive substring
	Status     *domain.MangaStatus
	Rating     *int
	IsFavorite *bool
}

// MangaRepository defines persistence for manga entries, with the same
// unique-index backstop contract as AnimeRepository.
type MangaRepository interface {
	Create(ctx context.Context, manga *domain.Manga) (*domain.Manga, error)
	FindByID(ctx context.Context, id string) (*domain.Manga, error)
	FindPageByUser(ctx context.Context, userID string, page PageQuery) ([]*domain.Manga, int64, error)
	FindAllByFilter(ctx context.Context, filter MangaFilter) ([]*domain.Manga, error)
	ExistsByTitleAndUser(ctx context.Context, title, userID string) (bool, error)
	Update(ctx context.Context, manga *domain.Manga) (*domain.Manga, error)
	Delete(ctx context.Context, id string) error
	AverageRatingByUser(ctx context.Context, userID string) (float64, error)
}
