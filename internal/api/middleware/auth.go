package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/otakulist/watchlist-api/internal/api/metrics"
	"github.com/otakulist/watchlist-api/internal/core/domain"
	"github.com/otakulist/watchlist-api/internal/core/ports"
)

// IdentityKey is the echo context key under which the resolved caller
// identity is stored.
const IdentityKey = "identity"

// Auth extracts the bearer token, resolves the caller's identity (including
// the re-check that the token subject still exists), and stores it in the
// request context. Resolution failures propagate to the central error
// handler, which maps them to 401 responses.
func Auth(resolver ports.AccessResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c.Request())
			if err != nil {
				metrics.TokenRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
				return err
			}

			ident, err := resolver.Resolve(c.Request().Context(), token)
			if err != nil {
				metrics.TokenRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
				return err
			}

			c.Set(IdentityKey, ident)
			return next(c)
		}
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", domain.ErrEmptyToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", domain.ErrMalformedToken
	}
	return parts[1], nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyToken):
		return "empty"
	case errors.Is(err, domain.ErrExpiredToken):
		return "expired"
	case errors.Is(err, domain.ErrUnsupportedToken):
		return "unsupported"
	case errors.Is(err, domain.ErrUnknownSubject):
		return "unknown_subject"
	default:
		return "malformed"
	}
}
