package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/otakulist/watchlist-api/internal/core/domain"
)

type stubResolver struct {
	ident     domain.Identity
	err       error
	lastToken string
}

func (s *stubResolver) Resolve(_ context.Context, token string) (domain.Identity, error) {
	s.lastToken = token
	if s.err != nil {
		return domain.Identity{}, s.err
	}
	return s.ident, nil
}

func invoke(t *testing.T, resolver *stubResolver, authHeader string) (echo.Context, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := Auth(resolver)(next)(c)
	return c, err
}

func TestAuthResolvesIdentity(t *testing.T) {
	resolver := &stubResolver{ident: domain.Identity{
		UserID:   "u1",
		Username: "naruto_fan",
		Roles:    []string{domain.RoleUser},
	}}

	c, err := invoke(t, resolver, "Bearer good-token")
	if err != nil {
		t.Fatalf("middleware: %v", err)
	}
	if resolver.lastToken != "good-token" {
		t.Fatalf("token = %q, want %q", resolver.lastToken, "good-token")
	}

	ident, ok := c.Get(IdentityKey).(domain.Identity)
	if !ok {
		t.Fatal("identity not stored in context")
	}
	if ident.UserID != "u1" || ident.Username != "naruto_fan" {
		t.Fatalf("identity = %+v", ident)
	}
}

func TestAuthMissingHeader(t *testing.T) {
	_, err := invoke(t, &stubResolver{}, "")
	if !errors.Is(err, domain.ErrEmptyToken) {
		t.Fatalf("err = %v, want ErrEmptyToken", err)
	}
}

func TestAuthBadScheme(t *testing.T) {
	for _, header := range []string{"Token abc", "Bearer", "Bearer "} {
		if _, err := invoke(t, &stubResolver{}, header); !errors.Is(err, domain.ErrMalformedToken) {
			t.Fatalf("header %q: err = %v, want ErrMalformedToken", header, err)
		}
	}
}

func TestAuthResolverErrorPropagates(t *testing.T) {
	resolver := &stubResolver{err: domain.ErrUnknownSubject}

	c, err := invoke(t, resolver, "Bearer stale-token")
	if !errors.Is(err, domain.ErrUnknownSubject) {
		t.Fatalf("err = %v, want ErrUnknownSubject", err)
	}
	if c.Get(IdentityKey) != nil {
		t.Fatal("identity must not be set on failure")
	}
}
