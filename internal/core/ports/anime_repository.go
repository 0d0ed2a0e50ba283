package ports

import (
	"context"

	"github.com/otakulist/watchlist-api/internal/core/domain"
)

// AnimeFilter carries the optional search predicates for anime. A nil (or
// empty, for Title) field contributes no constraint to the query. UserID is
// always set by the service layer; filter results never cross ownership
// boundaries.
type AnimeFilter struct {
	UserID     string
	Title      string // case-insensitive substring
	Type       *domain.AnimeType
	Status     *domain.AnimeStatus
	Rating     *int
	IsFavorite *bool
	IsComplete *bool
}

// AnimeRepository defines persistence for anime entries. Implementations must
// back the title-uniqueness check with a unique index on (user_id, title) and
// report index conflicts as domain.ErrDuplicateTitle, since the check-then-
// write sequence in the service layer is racy on its own.
type AnimeRepository interface {
	Create(ctx context.Context, anime *domain.Anime) (*domain.Anime, error)
	FindByID(ctx context.Context, id string) (*domain.Anime, error)
	FindPageByUser(ctx context.Context, userID string, page PageQuery) ([]*domain.Anime, int64, error)
	FindAllByFilter(ctx context.Context, filter AnimeFilter) ([]*domain.Anime, error)
	FindByStudioAndUser(ctx context.Context, studioID, userID string) ([]*domain.Anime, error)
	ExistsByTitleAndUser(ctx context.Context, title, userID string) (bool, error)
	Update(ctx context.Context, anime *domain.Anime) (*domain.Anime, error)
	Delete(ctx context.Context, id string) error
	DeleteByStudio(ctx context.Context, studioID string) error
	AverageRatingByUser(ctx context.Context, userID string) (float64, error)
}
