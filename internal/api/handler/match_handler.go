package handler

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quotemate/gateway/internal/core/domain"
	"github.com/quotemate/gateway/internal/core/ports"
	"github.com/quotemate/gateway/internal/core/service"
)

const exportFileName = "subcontractor_matches.csv"

// MatchHandler runs subcontractor and project searches.
type MatchHandler struct {
	matches  ports.MatchService
	projects *service.ProjectContexts
}

func NewMatchHandler(matches ports.MatchService, projects *service.ProjectContexts) *MatchHandler {
	return &MatchHandler{matches: matches, projects: projects}
}

type exportRequest struct {
	Results []domain.SubcontractorMatch `json:"results"`
}

// Subcontractors godoc
// @Summary  Match subcontractors by criteria
// @Tags     matches
// @Accept   json
// @Produce  json
// @Param    body body     domain.MatchFilter true "Search criteria"
// @Success  200  {object} domain.MatchSet
// @Failure  502  {object} map[string]string
// @Router   /api/matches/subcontractors [post]
func (h *MatchHandler) Subcontractors(c echo.Context) error {
	var f domain.MatchFilter
	if err := c.Bind(&f); err != nil {
		return errInvalidPayload
	}
	set, err := h.matches.SearchSubcontractors(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, set)
}

// SubcontractorsFromFile matches against an uploaded project. The project id
// defaults to the tab's current project.
//
// @Summary  Match subcontractors for an uploaded project
// @Tags     matches
// @Accept   json
// @Produce  json
// @Param    body body     domain.MatchFilter true "Search criteria"
// @Success  200  {object} domain.MatchSet
// @Failure  400  {object} map[string]string
// @Failure  502  {object} map[string]string
// @Router   /api/matches/subcontractors/from-file [post]
func (h *MatchHandler) SubcontractorsFromFile(c echo.Context) error {
	var f domain.MatchFilter
	if err := c.Bind(&f); err != nil {
		return errInvalidPayload
	}
	if f.ProjectID == nil || *f.ProjectID == "" {
		cur := ctxProject(c, h.projects).Current()
		if cur.ProjectID == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "no project selected, upload project documents first")
		}
		f.ProjectID = &cur.ProjectID
	}
	set, err := h.matches.SearchSubcontractorsFromFile(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, set)
}

// Projects godoc
// @Summary  Match projects for a subcontractor
// @Tags     matches
// @Accept   json
// @Produce  json
// @Param    body body     domain.MatchFilter true "Search criteria"
// @Success  200  {object} map[string]any
// @Failure  502  {object} map[string]string
// @Router   /api/matches/projects [post]
func (h *MatchHandler) Projects(c echo.Context) error {
	var f domain.MatchFilter
	if err := c.Bind(&f); err != nil {
		return errInvalidPayload
	}
	res, err := h.matches.SearchProjects(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"results": res})
}

// Export renders posted match rows as a CSV download.
//
// @Summary  Export matches as CSV
// @Tags     matches
// @Accept   json
// @Produce  text/csv
// @Param    body body     exportRequest true "Rows to export"
// @Success  200  {file}   file
// @Router   /api/matches/export [post]
func (h *MatchHandler) Export(c echo.Context) error {
	var req exportRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}
	var buf bytes.Buffer
	if err := service.WriteMatchesCSV(&buf, req.Results); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+exportFileName+`"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
