package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/otakulist/watchlist-api/internal/core/ports"
)

// StudioHandler serves the shared studio catalogue. Reads are open to any
// authenticated caller; mutations are admin-only, enforced in the service.
type StudioHandler struct {
	studios ports.StudioService
}

func NewStudioHandler(studios ports.StudioService) *StudioHandler {
	return &StudioHandler{studios: studios}
}

type studioRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// Create adds a studio to the catalogue (admin only).
// @Summary      Create a studio
// @Tags         studios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      studioRequest  true  "studio fields"
// @Success      201   {object}  domain.Studio
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /studios [post]
func (h *StudioHandler) Create(c echo.Context) error {
	ident, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req studioRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	studio, err := h.studios.Create(c.Request().Context(), ident, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, studio)
}

// List returns the whole studio catalogue.
// @Summary      List studios
// @Tags         studios
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Studio
// @Router       /studios [get]
func (h *StudioHandler) List(c echo.Context) error {
	studios, err := h.studios.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, studios)
}

// Get returns one studio by id.
// @Summary      Get a studio
// @Tags         studios
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "studio id"
// @Success      200  {object}  domain.Studio
// @Failure      404  {object}  errorResponse
// @Router       /studios/{id} [get]
func (h *StudioHandler) Get(c echo.Context) error {
	studio, err := h.studios.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, studio)
}

// Update renames a studio (admin only).
// @Summary      Rename a studio
// @Tags         studios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "studio id"
// @Param        body  body      studioRequest  true  "studio fields"
// @Success      200   {object}  domain.Studio
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /studios/{id} [put]
func (h *StudioHandler) Update(c echo.Context) error {
	ident, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req studioRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	studio, err := h.studios.Update(c.Request().Context(), ident, c.Param("id"), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, studio)
}

// Delete removes a studio and every anime entry referencing it (admin only).
// @Summary      Delete a studio
// @Tags         studios
// @Security     BearerAuth
// @Param        id  path  string  true  "studio id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /studios/{id} [delete]
func (h *StudioHandler) Delete(c echo.Context) error {
	ident, err := callerIdentity(c)
	if err != nil {
		return err
	}

	if err := h.studios.Delete(c.Request().Context(), ident, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
