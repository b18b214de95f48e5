package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/quotemate/gateway/internal/core/domain"
)

// RequireRole enforces role-based access control. Anonymous users are sent to
// the login view, users without an allowed role to the unauthorized view.
// Admins pass every role check.
func RequireRole(allowed ...domain.Role) echo.MiddlewareFunc {
	roles := append([]domain.Role(nil), allowed...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return enforce(c, "role", domain.RequireRole(MustAuth(c).State(), roles...), next)
		}
	}
}
