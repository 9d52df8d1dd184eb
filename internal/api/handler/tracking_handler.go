package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dmlogistics/portal/internal/core/domain"
	"github.com/dmlogistics/portal/internal/core/ports"
)

// HeaderTrackingSession names the browser tab issuing tracking queries.
// Requests sharing it are treated as one search box: a newer query makes the
// older one answer 409 instead of returning stale data.
const HeaderTrackingSession = "X-Tracking-Session"

const maxSessionIDLength = 128

// SessionTracker resolves tracking queries within a client session.
type SessionTracker interface {
	Track(ctx context.Context, sessionID, rawID string) (*domain.TrackingView, error)
}

// TrackingHandler serves the public tracking lookup.
type TrackingHandler struct {
	resolver ports.TrackingResolver
	sessions SessionTracker
}

func NewTrackingHandler(resolver ports.TrackingResolver, sessions SessionTracker) *TrackingHandler {
	return &TrackingHandler{resolver: resolver, sessions: sessions}
}

// Track handles GET /v1/tracking/:tracking_number.
//
// @Summary      Track a shipment
// @Description  Merges shipment details and status history into one timeline. Identifiers are tried upper-cased first, then as given.
// @Tags         tracking
// @Produce      json
// @Param        tracking_number     path      string  true   "Tracking number (case-insensitive)"
// @Param        X-Tracking-Session  header    string  false  "Client session for stale-response suppression"
// @Success      200                 {object}  trackingResponse
// @Failure      400                 {object}  errorResponse
// @Failure      404                 {object}  errorResponse
// @Failure      409                 {object}  errorResponse
// @Router       /v1/tracking/{tracking_number} [get]
func (h *TrackingHandler) Track(c echo.Context) error {
	raw := c.Param("tracking_number")
	ctx := c.Request().Context()

	var (
		view *domain.TrackingView
		err  error
	)
	session := strings.TrimSpace(c.Request().Header.Get(HeaderTrackingSession))
	if session != "" && h.sessions != nil {
		if len(session) > maxSessionIDLength {
			return echo.NewHTTPError(http.StatusBadRequest, "tracking session id too long")
		}
		view, err = h.sessions.Track(ctx, session, raw)
	} else {
		view, err = h.resolver.Resolve(ctx, raw)
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, presentTracking(view))
}
