package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/otakulist/watchlist-api/internal/api/middleware"
	"github.com/otakulist/watchlist-api/internal/core/domain"
)

// newTestContext builds an echo context with the production validator
// installed, mirroring how requests arrive through the router.
func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func authed(c echo.Context, ident domain.Identity) echo.Context {
	c.Set(middleware.IdentityKey, ident)
	return c
}

func userIdent(id string) domain.Identity {
	return domain.Identity{UserID: id, Username: "user-" + id, Roles: []string{domain.RoleUser}}
}

func wantHTTPStatus(t *testing.T, err error, code int) {
	t.Helper()
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("err = %v, want *echo.HTTPError", err)
	}
	if httpErr.Code != code {
		t.Fatalf("code = %d, want %d", httpErr.Code, code)
	}
}
