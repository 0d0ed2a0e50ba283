package ports

import (
	"context"

	"github.com/otakulist/watchlist-api/internal/core/domain"
)

// RegisterInput carries the fields needed to create an account. The password
// arrives in plain text over the boundary and is hashed before persistence.
type RegisterInput struct {
	FirstName string
	LastName  string
	Username  string
	Password  string
}

// AuthService handles registration and login. Registration never logs the
// user in; the client must call Login afterwards.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// AccessResolver turns a bearer token into the caller's identity. The subject
// is re-fetched from the user store on every call, so tokens for deleted
// users fail with domain.ErrUnknownSubject.
type AccessResolver interface {
	Resolve(ctx context.Context, token string) (domain.Identity, error)
}
