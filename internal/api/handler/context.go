package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmlogistics/portal/internal/api/middleware"
	"github.com/dmlogistics/portal/internal/core/domain"
)

// ctxActor builds the caller from the claims the Auth middleware injected.
// A missing role means the middleware did not run; a non-admin without an
// email cannot be scoped to any shipments. Both are rejected with 401.
func ctxActor(c echo.Context) (domain.Actor, error) {
	role, _ := c.Get(middleware.CtxRole).(string)
	if role == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	email, _ := c.Get(middleware.CtxEmail).(string)
	name, _ := c.Get(middleware.CtxName).(string)
	actor := domain.Actor{Email: email, Name: name, Role: role}

	if !actor.IsAdmin() && email == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "token missing user identity")
	}
	return actor, nil
}
