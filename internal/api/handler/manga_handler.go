package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/otakulist/watchlist-api/internal/api/metrics"
	"github.com/otakulist/watchlist-api/internal/core/domain"
	"github.com/otakulist/watchlist-api/internal/core/ports"
)

// MangaHandler serves the authenticated manga endpoints.
type MangaHandler struct {
	manga ports.MangaService
}

func NewMangaHandler(manga ports.MangaService) *MangaHandler {
	return &MangaHandler{manga: manga}
}

type mangaRequest struct {
	Title      string `json:"title" validate:"required,max=100"`
	Status     string `json:"status" validate:"required"`
	Rating     *int   `json:"rating" validate:"omitempty,min=1,max=10"`
	IsFavorite bool   `json:"is_favorite"`
}

func (r mangaRequest) toInput() (ports.MangaInput, error) {
	status, ok := domain.ParseMangaStatus(r.Status)
	if !ok {
		return ports.MangaInput{}, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown manga status %q", r.Status))
	}
	return ports.MangaInput{
		Title:      r.Title,
		Status:     status,
		Rating:     r.Rating,
		IsFavorite: r.IsFavorite,
	}, nil
}

type mangaPageResponse struct {
	Items         []*domain.Manga `json:"items"`
	PageNumber    int             `json:"page_number"`
	PageSize      int             `json:"page_size"`
	TotalElements int64           `json:"total_elements"`
	TotalPages    int             `json:"total_pages"`
	IsLast        bool            `json:"is_last"`
}

// Create adds a new manga entry for the caller.
// @Summary      Create a manga entry
// @Tags         manga
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string        false  "retry-safe creation key"
// @Param        body             body      mangaRequest  true   "entry fields"
// @Success      201              {object}  domain.Manga
// @Success      200              {object}  domain.Manga  "replayed idempotent request"
// @Failure      400              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Router       /manga [post]
func (h *MangaHandler) Create(c echo.Context) error {
	ident, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req mangaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}

	key := c.Request().Header.Get("Idempotency-Key")
	created, replayed, err := h.manga.Create(c.Request().Context(), ident, in, key)
	if err != nil {
		return err
	}

	if replayed {
		return c.JSON(http.StatusOK, created)
	}
	metrics.EntriesCreatedTotal.WithLabelValues("manga").Inc()
	return c.JSON(http.StatusCreated, created)
}

// List returns one page of the caller's manga entries.
// @Summary      List manga entries
// @Tags         manga
// @Produce      json
// @Security     BearerAuth
// @Param        pageNo    query     int     false  "0-based page number"  default(0)
// @Param        pageSize  query     int     false  "page size"            default(10)
// @Param        sortBy    query     string  false  "sort field"           default(id)
// @Param        sortDir   query     string  false  "asc or desc"          default(asc)
// @Success      200       {object}  mangaPageResponse
// @Failure      400       {object}  errorResponse
// @Router       /manga [get]
func (h *MangaHandler) List(c echo.Context) error {
	ident, err := callerIdentity(c)
	if err != nil {
		return err
	}
	page, err := pageRequest(c)
	if err != nil {
		return err
	}

	result, err := h.manga.List(c.Request().Context(), ident, page)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, mangaPageResponse{
		Items:         result.Items,
		PageNumber:    result.PageNumber,
		PageSize:      result.PageSize,
		TotalElements: result.TotalElements,
		TotalPages:    result.TotalPages,
		IsLast:        result.IsLast,
	})
}

// Get returns a single entry owned by the caller.
// @Summary      Get a manga entry
// @Tags         manga
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "entry id"
// @Success      200  {object}  domain.Manga
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /manga/{id} [get]
func (h *MangaHandler) Get(c echo.Context) error {
	ident, err := callerIdentity(c)
	if err != nil {
		return err
	}

	manga, err := h.manga.Get(c.Request().Context(), ident, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, manga)
}

// Update replaces every mutable field of an entry owned by the caller.
// @Summary      Update a manga entry
// @Tags         manga
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "entry id"
// @Param        body  body      mangaRequest  true  "entry fields"
// @Success      200   {object}  domain.Manga
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /manga/{id} [put]
func (h *MangaHandler) Update(c echo.Context) error {
	ident, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req mangaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}

	updated, err := h.manga.Update(c.Request().Context(), ident, c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes an entry owned by the caller.
// @Summary      Delete a manga entry
// @Tags         manga
// @Security     BearerAuth
// @Param        id  path  string  true  "entry id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /manga/{id} [delete]
func (h *MangaHandler) Delete(c echo.Context) error {
	ident, err := callerIdentity(c)
	if err != nil {
		return err
	}

	if err := h.manga.Delete(c.Request().Context(), ident, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Search filters the caller's entries by any combination of predicates.
// @Summary      Search manga entries
// @Tags         manga
// @Produce      json
// @Security     BearerAuth
// @Param        title        query     string  false  "case-insensitive substring"
// @Param        status       query     string  false  "READING, COMPLETED, or PLAN TO READ"
// @Param        rating       query     int     false  "exact rating"
// @Param        is_favorite  query     bool    false  "favorite flag"
// @Success      200          {array}   domain.Manga
// @Failure      400          {object}  errorResponse
// @Router       /manga/search [get]
func (h *MangaHandler) Search(c echo.Context) error {
	ident, err := callerIdentity(c)
	if err != nil {
		return err
	}
	filter, err := mangaFilter(c)
	if err != nil {
		return err
	}

	items, err := h.manga.Search(c.Request().Context(), ident, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// MeanRating returns the average of the caller's rated entries.
// @Summary      Mean rating of the caller's manga entries
// @Tags         manga
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meanRatingResponse
// @Router       /manga/mean-rating [get]
func (h *MangaHandler) MeanRating(c echo.Context) error {
	ident, err := callerIdentity(c)
	if err != nil {
		return err
	}

	mean, err := h.manga.MeanRating(c.Request().Context(), ident)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meanRatingResponse{MeanRating: mean})
}

func mangaFilter(c echo.Context) (ports.MangaFilter, error) {
	params := c.QueryParams()
	filter := ports.MangaFilter{Title: params.Get("title")}

	if params.Has("status") {
		status, ok := domain.ParseMangaStatus(params.Get("status"))
		if !ok {
			return filter, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown manga status %q", params.Get("status")))
		}
		filter.Status = &status
	}
	if params.Has("rating") {
		rating, err := strconv.Atoi(params.Get("rating"))
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "rating must be an integer")
		}
		filter.Rating = &rating
	}
	if params.Has("is_favorite") {
		fav, err := strconv.ParseBool(params.Get("is_favorite"))
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "is_favorite must be a boolean")
		}
		filter.IsFavorite = &fav
	}

	return filter, nil
}
