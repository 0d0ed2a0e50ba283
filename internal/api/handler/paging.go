package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/otakulist/watchlist-api/internal/core/ports"
)

const (
	defaultPageNo   = "0"
	defaultPageSize = "10"
	defaultSortBy   = "id"
	defaultSortDir  = "asc"
)

// pageRequest parses the shared pagination query parameters, applying the
// documented defaults for any that are absent.
func pageRequest(c echo.Context) (ports.PageRequest, error) {
	pageNo, err := intParam(c, "pageNo", defaultPageNo)
	if err != nil {
		return ports.PageRequest{}, err
	}
	pageSize, err := intParam(c, "pageSize", defaultPageSize)
	if err != nil {
		return ports.PageRequest{}, err
	}

	return ports.PageRequest{
		Page:    pageNo,
		Size:    pageSize,
		SortBy:  queryOrDefault(c, "sortBy", defaultSortBy),
		SortDir: queryOrDefault(c, "sortDir", defaultSortDir),
	}, nil
}

func intParam(c echo.Context, name, fallback string) (int, error) {
	raw := queryOrDefault(c, name, fallback)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s must be an integer", name))
	}
	return v, nil
}

func queryOrDefault(c echo.Context, name, fallback string) string {
	if v := c.QueryParam(name); v != "" {
		return v
	}
	return fallback
}
