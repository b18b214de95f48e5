package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quotemate/gateway/internal/api/metrics"
	"github.com/quotemate/gateway/internal/core/domain"
	"github.com/quotemate/gateway/internal/core/service"
)

const authKey = "qm.auth"

// AuthProvider restores the session for the request scope and makes the
// AuthContext available to everything after it. It must run after Scope.
func AuthProvider(svc *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ac := svc.Context(ScopeFrom(c))
			ac.Init(c.Request().Context())
			metrics.SessionRestoresTotal.WithLabelValues(string(ac.Outcome())).Inc()

			c.Set(authKey, ac)
			return next(c)
		}
	}
}

// MustAuth returns the request's AuthContext. Calling it on a route that is
// not behind AuthProvider is a wiring bug and panics.
func MustAuth(c echo.Context) *service.AuthContext {
	ac, ok := c.Get(authKey).(*service.AuthContext)
	if !ok || ac == nil {
		panic("middleware: MustAuth called outside AuthProvider")
	}
	return ac
}

// RequireAuth lets authenticated users through.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return enforce(c, "auth", domain.RequireAuth(MustAuth(c).State()), next)
		}
	}
}

// enforce renders a guard decision: Pending becomes 503 with Retry-After,
// a redirect to the login view 401 and any other redirect 403. Both
// redirects carry the target in the body for the SPA router.
func enforce(c echo.Context, guard string, d domain.Decision, next echo.HandlerFunc) error {
	metrics.GuardDecisionsTotal.WithLabelValues(guard, string(d.Kind)).Inc()

	switch d.Kind {
	case domain.DecisionAllow:
		return next(c)
	case domain.DecisionPending:
		c.Response().Header().Set("Retry-After", "1")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "session is initialising"})
	}

	if d.Location == domain.PathLogin {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error":    "authentication required",
			"redirect": d.Location,
		})
	}
	return c.JSON(http.StatusForbidden, map[string]string{
		"error":    "forbidden",
		"redirect": d.Location,
	})
}
