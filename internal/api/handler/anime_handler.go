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

// AnimeHandler serves the authenticated anime endpoints. Every operation acts
// on the caller's own entries; identity comes from the Auth middleware.
type AnimeHandler struct {
	anime ports.AnimeService
}

func NewAnimeHandler(anime ports.AnimeService) *AnimeHandler {
	return &AnimeHandler{anime: anime}
}

type animeRequest struct {
	Title      string `json:"title" validate:"required,max=100"`
	Type       string `json:"type" validate:"required"`
	Status     string `json:"status" validate:"required"`
	Rating     *int   `json:"rating" validate:"omitempty,min=1,max=10"`
	IsFavorite bool   `json:"is_favorite"`
	IsComplete bool   `json:"is_complete"`
	StudioID   string `json:"studio_id" validate:"required"`
}

func (r animeRequest) toInput() (ports.AnimeInput, error) {
	typ, ok := domain.ParseAnimeType(r.Type)
	if !ok {
		return ports.AnimeInput{}, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown anime type %q", r.Type))
	}
	status, ok := domain.ParseAnimeStatus(r.Status)
	if !ok {
		return ports.AnimeInput{}, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown anime status %q", r.Status))
	}
	return ports.AnimeInput{
		Title:      r.Title,
		Type:       typ,
		Status:     status,
		Rating:     r.Rating,
		IsFavorite: r.IsFavorite,
		IsComplete: r.IsComplete,
		StudioID:   r.StudioID,
	}, nil
}

type animePageResponse struct {
	Items         []*domain.Anime `json:"items"`
	PageNumber    int             `json:"page_number"`
	PageSize      int             `json:"page_size"`
	TotalElements int64           `json:"total_elements"`
	TotalPages    int             `json:"total_pages"`
	IsLast        bool            `json:"is_last"`
}

type meanRatingResponse struct {
	MeanRating float64 `json:"mean_rating"`
}

// Create adds a new anime entry for the caller.
// @Summary      Create an anime entry
// @Tags         anime
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string        false  "retry-safe creation key"
// @Param        body             body      animeRequest  true   "entry fields"
// @Success      201              {object}  domain.Anime
// @Success      200              {object}  domain.Anime  "replayed idempotent request"
// @Failure      400              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Router       /anime [post]
func (h *AnimeHandler) Create(c echo.Context) error {
	ident, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req animeRequest
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
	created, replayed, err := h.anime.Create(c.Request().Context(), ident, in, key)
	if err != nil {
		return err
	}

	if replayed {
		return c.JSON(http.StatusOK, created)
	}
	metrics.EntriesCreatedTotal.WithLabelValues("anime").Inc()
	return c.JSON(http.StatusCreated, created)
}

// List returns one page of the caller's anime entries.
// @Summary      List anime entries
// @Tags         anime
// @Produce      json
// @Security     BearerAuth
// @Param        pageNo    query     int     false  "0-based page number"  default(0)
// @Param        pageSize  query     int     false  "page size"            default(10)
// @Param        sortBy    query     string  false  "sort field"           default(id)
// @Param        sortDir   query     string  false  "asc or desc"          default(asc)
// @Success      200       {object}  animePageResponse
// @Failure      400       {object}  errorResponse
// @Router       /anime [get]
func (h *AnimeHandler) List(c echo.Context) error {
	ident, err := callerIdentity(c)
	if err != nil {
		return err
	}
	page, err := pageRequest(c)
	if err != nil {
		return err
	}

	result, err := h.anime.List(c.Request().Context(), ident, page)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, animePageResponse{
		Items:         result.Items,
		PageNumber:    result.PageNumber,
		PageSize:      result.PageSize,
		TotalElements: result.TotalElements,
		TotalPages:    result.TotalPages,
		IsLast:        result.IsLast,
	})
}

// Get returns a single entry owned by the caller.
// @Summary      Get an anime entry
// @Tags         anime
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "entry id"
// @Success      200  {object}  domain.Anime
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /anime/{id} [get]
func (h *AnimeHandler) Get(c echo.Context) error {
	ident, err := callerIdentity(c)
	if err != nil {
		return err
	}

	anime, err := h.anime.Get(c.Request().Context(), ident, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, anime)
}

// Update replaces every mutable field of an entry owned by the caller.
// @Summary      Update an anime entry
// @Tags         anime
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "entry id"
// @Param        body  body      animeRequest  true  "entry fields"
// @Success      200   {object}  domain.Anime
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /anime/{id} [put]
func (h *AnimeHandler) Update(c echo.Context) error {
	ident, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req animeRequest
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

	updated, err := h.anime.Update(c.Request().Context(), ident, c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes an entry owned by the caller.
// @Summary      Delete an anime entry
// @Tags         anime
// @Security     BearerAuth
// @Param        id  path  string  true  "entry id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /anime/{id} [delete]
func (h *AnimeHandler) Delete(c echo.Context) error {
	ident, err := callerIdentity(c)
	if err != nil {
		return err
	}

	if err := h.anime.Delete(c.Request().Context(), ident, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Search filters the caller's entries by any combination of predicates.
// @Summary      Search anime entries
// @Tags         anime
// @Produce      json
// @Security     BearerAuth
// @Param        title        query     string  false  "case-insensitive substring"
// @Param        type         query     string  false  "TV or MOVIE"
// @Param        status       query     string  false  "WATCHING, COMPLETED, or PLAN TO WATCH"
// @Param        rating       query     int     false  "exact rating"
// @Param        is_favorite  query     bool    false  "favorite flag"
// @Param        is_complete  query     bool    false  "complete flag"
// @Success      200          {array}   domain.Anime
// @Failure      400          {object}  errorResponse
// @Router       /anime/search [get]
func (h *AnimeHandler) Search(c echo.Context) error {
	ident, err := callerIdentity(c)
	if err != nil {
		return err
	}
	filter, err := animeFilter(c)
	if err != nil {
		return err
	}

	items, err := h.anime.Search(c.Request().Context(), ident, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// ByStudio lists the caller's entries produced by one studio.
// @Summary      List anime entries by studio
// @Tags         anime
// @Produce      json
// @Security     BearerAuth
// @Param        studio-id  path      string  true  "studio id"
// @Success      200        {array}   domain.Anime
// @Failure      404        {object}  errorResponse
// @Router       /anime/studio/{studio-id} [get]
func (h *AnimeHandler) ByStudio(c echo.Context) error {
	ident, err := callerIdentity(c)
	if err != nil {
		return err
	}

	items, err := h.anime.ByStudio(c.Request().Context(), ident, c.Param("studio-id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// MeanRating returns the average of the caller's rated entries.
// @Summary      Mean rating of the caller's anime entries
// @Tags         anime
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meanRatingResponse
// @Router       /anime/mean-rating [get]
func (h *AnimeHandler) MeanRating(c echo.Context) error {
	ident, err := callerIdentity(c)
	if err != nil {
		return err
	}

	mean, err := h.anime.MeanRating(c.Request().Context(), ident)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meanRatingResponse{MeanRating: mean})
}

func animeFilter(c echo.Context) (ports.AnimeFilter, error) {
	params := c.QueryParams()
	filter := ports.AnimeFilter{Title: params.Get("title")}

	if params.Has("type") {
		typ, ok := domain.ParseAnimeType(params.Get("type"))
		if !ok {
			return filter, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown anime type %q", params.Get("type")))
		}
		filter.Type = &typ
	}
	if params.Has("status") {
		status, ok := domain.ParseAnimeStatus(params.Get("status"))
		if !ok {
			return filter, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown anime status %q", params.Get("status")))
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
	if params.Has("is_complete") {
		complete, err := strconv.ParseBool(params.Get("is_complete"))
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "is_complete must be a boolean")
		}
		filter.IsComplete = &complete
	}

	return filter, nil
}
