package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dmlogistics/portal/internal/core/ports"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 500
)

// ActivityHandler serves the back-office activity log.
type ActivityHandler struct {
	repo ports.ActivityRepository
}

func NewActivityHandler(repo ports.ActivityRepository) *ActivityHandler {
	return &ActivityHandler{repo: repo}
}

// List handles GET /v1/admin/activity.
//
// @Summary      Recent back-office activity
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum entries (1-500, default 50)"
// @Success      200    {object}  activityResponse
// @Failure      400    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /v1/admin/activity [get]
func (h *ActivityHandler) List(c echo.Context) error {
	limit := defaultActivityLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxActivityLimit {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be between 1 and 500")
		}
		limit = n
	}

	entries, err := h.repo.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, activityResponse{Data: entries, Count: len(entries)})
}
