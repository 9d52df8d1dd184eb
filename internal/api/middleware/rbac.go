package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/dmlogistics/portal/internal/core/domain"
)

// AdminTier lets through roles of the back-office tier (admin, super admin,
// superadmin, manager, support). Role matching ignores case and padding.
// Other roles get domain.ErrForbidden for the HTTP error handler to render.
func AdminTier() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if !domain.IsAdminTier(role) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
