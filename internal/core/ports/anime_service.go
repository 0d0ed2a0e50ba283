package ports

import (
	"context"

	"github.com/otakulist/watchlist-api/internal/core/domain"
)

// AnimeInput carries every mutable field of an anime entry. Updates are full
// replacements: all fields are rewritten. ID, owner, and timestamps are
// server-assigned and never accepted from the caller.
type AnimeInput struct {
	Title      string
	Type       domain.AnimeType
	Status     domain.AnimeStatus
	Rating     *int
	IsFavorite bool
	IsComplete bool
	StudioID   string
}

// AnimeService defines the ownership-scoped use cases for anime entries. The
// identity parameter is the resolved caller; every operation is restricted to
// that caller's own entries.
type AnimeService interface {
	// Create stores a new entry owned by the caller. A non-empty
	// idempotencyKey makes the call replay-safe: a repeated key returns the
	// originally created entry with replayed=true and no side effects.
	Create(ctx context.Context, ident domain.Identity, in AnimeInput, idempotencyKey string) (anime *domain.Anime, replayed bool, err error)
	List(ctx context.Context, ident domain.Identity, page PageRequest) (*AnimePage, error)
	Get(ctx context.Context, ident domain.Identity, id string) (*domain.Anime, error)
	Update(ctx context.Context, ident domain.Identity, id string, in AnimeInput) (*domain.Anime, error)
	Delete(ctx context.Context, ident domain.Identity, id string) error
	Search(ctx context.Context, ident domain.Identity, filter AnimeFilter) ([]*domain.Anime, error)
	ByStudio(ctx context.Context, ident domain.Identity, studioID string) ([]*domain.Anime, error)
	// MeanRating averages the caller's non-nil ratings; 0.0 when none exist.
	MeanRating(ctx context.Context, ident domain.Identity) (float64, error)
}
