package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/otakulist/watchlist-api/internal/api/middleware"
	"github.com/otakulist/watchlist-api/internal/core/domain"
)

// callerIdentity extracts the identity stored by the Auth middleware.
func callerIdentity(c echo.Context) (domain.Identity, error) {
	ident, ok := c.Get(middleware.IdentityKey).(domain.Identity)
	if !ok || ident.UserID == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return ident, nil
}
