package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quotemate/gateway/internal/api/middleware"
	"github.com/quotemate/gateway/internal/core/domain"
	"github.com/quotemate/gateway/internal/core/service"
)

// TabHeader lets a browser tab keep its own current project.
const TabHeader = "X-QM-Tab"

var errInvalidPayload = echo.NewHTTPError(http.StatusBadRequest, "invalid payload")

// ctxUser returns the signed in user. Role guards run before every handler
// that calls it, so a missing user means the route was wired without one.
func ctxUser(c echo.Context) (*domain.User, error) {
	u := middleware.MustAuth(c).User()
	if u == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return u, nil
}

// ctxProject returns the project context of the requesting tab.
func ctxProject(c echo.Context, projects *service.ProjectContexts) *service.ProjectContext {
	return projects.For(middleware.ScopeFrom(c), c.Request().Header.Get(TabHeader))
}

// bindAndValidate binds the request body into req and validates it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errInvalidPayload
	}
	return c.Validate(req)
}
