package ports

import (
	"context"

	"github.com/otakulist/watchlist-api/internal/core/domain"
)

// StudioService manages the shared studio catalogue. Reads are open to any
// authenticated caller; mutations require domain.RoleAdmin and fail with
// domain.ErrForbidden otherwise.
type StudioService interface {
	Create(ctx context.Context, ident domain.Identity, name string) (*domain.Studio, error)
	List(ctx context.Context) ([]*domain.Studio, error)
	Get(ctx context.Context, id string) (*domain.Studio, error)
	Update(ctx context.Context, ident domain.Identity, id, name string) (*domain.Studio, error)
	// Delete removes the studio and, first, every anime that references it.
	Delete(ctx context.Context, ident domain.Identity, id string) error
}
