package service

import (
	"context"
	"errors"

	"github.com/otakulist/watchlist-api/internal/core/domain"
	"github.com/otakulist/watchlist-api/internal/core/ports"
)

// AccessResolver turns bearer tokens into request identities.
type AccessResolver struct {
	tokens *TokenService
	users  ports.UserRepository
}

func NewAccessResolver(tokens *TokenService, users ports.UserRepository) *AccessResolver {
	return &AccessResolver{tokens: tokens, users: users}
}

// Resolve verifies the token and re-fetches its subject from the user store.
// The re-fetch is deliberate: tokens are stateless and cannot be revoked, so
// a token issued for a since-deleted account must still be rejected.
func (r *AccessResolver) Resolve(ctx context.Context, token string) (domain.Identity, error) {
	username, err := r.tokens.Verify(token)
	if err != nil {
		return domain.Identity{}, err
	}

	user, err := r.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Identity{}, domain.ErrUnknownSubject
		}
		return domain.Identity{}, err
	}

	return domain.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Roles:    user.Roles,
	}, nil
}
