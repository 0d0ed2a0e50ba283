package ports

import (
	"context"

	"github.com/otakulist/watchlist-api/internal/core/domain"
)

// StudioRepository defines persistence for the shared studio catalogue.
// Name uniqueness is global; implementations must enforce it with a unique
// index and report conflicts as domain.ErrDuplicateName.
type StudioRepository interface {
	Create(ctx context.Context, studio *domain.Studio) (*domain.Studio, error)
	FindAll(ctx context.Context) ([]*domain.Studio, error)
	FindByID(ctx context.Context, id string) (*domain.Studio, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Update(ctx context.Context, studio *domain.Studio) (*domain.Studio, error)
	Delete(ctx context.Context, id string) error
}
