package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quotemate/gateway/internal/core/domain"
	"github.com/quotemate/gateway/internal/core/service"
)

// ProjectHandler exposes the current project of the calling tab.
type ProjectHandler struct {
	projects *service.ProjectContexts
}

func NewProjectHandler(projects *service.ProjectContexts) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// Get godoc
// @Summary  Current project
// @Tags     project
// @Produce  json
// @Success  200 {object} domain.ProjectInfo
// @Router   /api/project [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, ctxProject(c, h.projects).Current())
}

// Put replaces the current project. Fields left out are cleared.
//
// @Summary  Replace current project
// @Tags     project
// @Accept   json
// @Produce  json
// @Param    body body     domain.ProjectInfo true "Project reference"
// @Success  200  {object} domain.ProjectInfo
// @Router   /api/project [put]
func (h *ProjectHandler) Put(c echo.Context) error {
	var info domain.ProjectInfo
	if err := c.Bind(&info); err != nil {
		return errInvalidPayload
	}
	pc := ctxProject(c, h.projects)
	pc.SetProjectInfo(info)
	return c.JSON(http.StatusOK, pc.Current())
}

// Delete godoc
// @Summary  Clear current project
// @Tags     project
// @Success  204
// @Router   /api/project [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	ctxProject(c, h.projects).Clear()
	return c.NoContent(http.StatusNoContent)
}
