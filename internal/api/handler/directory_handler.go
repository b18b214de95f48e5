package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quotemate/gateway/internal/core/ports"
)

// DirectoryHandler imports a builder's own subcontractor database.
type DirectoryHandler struct {
	directory ports.DirectoryService
}

func NewDirectoryHandler(directory ports.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// Import godoc
// @Summary  Import a subcontractor database
// @Tags     builder
// @Accept   multipart/form-data
// @Produce  json
// @Param    file formData file true "CSV or XLSX export"
// @Success  200  {object} domain.DirectoryImport
// @Failure  400  {object} map[string]string
// @Failure  415  {object} map[string]string
// @Router   /api/builder/directory [post]
func (h *DirectoryHandler) Import(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := h.directory.Import(fh.Filename, f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
