package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quotemate/gateway/internal/api/metrics"
	"github.com/quotemate/gateway/internal/api/middleware"
	"github.com/quotemate/gateway/internal/core/domain"
)

// NavigationHandler answers the SPA router's guard questions.
type NavigationHandler struct{}

func NewNavigationHandler() *NavigationHandler {
	return &NavigationHandler{}
}

type navigationResponse struct {
	domain.Decision
	Path string `json:"path"`
	View string `json:"view,omitempty"`
}

// Navigate resolves a client-side path against the route table.
//
// @Summary      Resolve a view
// @Tags         navigation
// @Produce      json
// @Param        path  query     string  true  "Client-side path, e.g. /builder-dashboard"
// @Success      200   {object}  navigationResponse
// @Router       /api/navigate [get]
func (h *NavigationHandler) Navigate(c echo.Context) error {
	path := c.QueryParam("path")
	d := domain.Resolve(middleware.MustAuth(c).State(), path)
	metrics.GuardDecisionsTotal.WithLabelValues("navigate", string(d.Kind)).Inc()

	resp := navigationResponse{Decision: d, Path: path}
	if r, ok := domain.Lookup(path); ok {
		resp.Path = r.Path
		resp.View = r.View
	}
	if d.Kind == domain.DecisionPending {
		c.Response().Header().Set("Retry-After", "1")
	}
	return c.JSON(http.StatusOK, resp)
}

// Home decides whether the public home page is shown or the user is sent to
// their landing view.
//
// @Summary      Home page decision
// @Tags         navigation
// @Produce      json
// @Success      200  {object}  navigationResponse
// @Router       /api/home [get]
func (h *NavigationHandler) Home(c echo.Context) error {
	d := domain.Home(middleware.MustAuth(c).State())
	metrics.GuardDecisionsTotal.WithLabelValues("navigate", string(d.Kind)).Inc()
	return c.JSON(http.StatusOK, navigationResponse{Decision: d, Path: domain.PathHome, View: "Homepage"})
}
