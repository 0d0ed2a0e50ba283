package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/otakulist/watchlist-api/internal/api/metrics"
	"github.com/otakulist/watchlist-api/internal/core/domain"
)

// errorResponse is the JSON body returned for every failed request.
type errorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns the central echo error handler. All handlers
// return raw domain errors; this is the single place where they are mapped
// to HTTP statuses.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, message := resolveError(err)

		if status >= http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			if err := c.NoContent(status); err != nil {
				log.Error().Err(err).Msg("failed to write error response")
			}
			return
		}

		body := errorResponse{Status: status, Message: message}
		if err := c.JSON(status, body); err != nil {
			log.Error().Err(err).Msg("failed to write error response")
		}
	}
}

func resolveError(err error) (int, string) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, httpErrMessage(httpErr)
	}

	switch {
	case errors.Is(err, domain.ErrBadCredentials),
		errors.Is(err, domain.ErrEmptyToken),
		errors.Is(err, domain.ErrMalformedToken),
		errors.Is(err, domain.ErrExpiredToken),
		errors.Is(err, domain.ErrUnsupportedToken),
		errors.Is(err, domain.ErrUnknownSubject):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrDuplicateTitle):
		metrics.UniquenessConflictsTotal.WithLabelValues("title").Inc()
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrDuplicateName):
		metrics.UniquenessConflictsTotal.WithLabelValues("name").Inc()
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrDuplicateUsername):
		metrics.UniquenessConflictsTotal.WithLabelValues("username").Inc()
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrInvalidSort):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func httpErrMessage(httpErr *echo.HTTPError) string {
	if msg, ok := httpErr.Message.(string); ok {
		return msg
	}
	return http.StatusText(httpErr.Code)
}
