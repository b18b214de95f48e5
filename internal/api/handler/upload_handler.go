package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/quotemate/gateway/internal/core/domain"
	"github.com/quotemate/gateway/internal/core/ports"
	"github.com/quotemate/gateway/internal/core/service"
)

const (
	maxUploadFiles    = 10
	maxUploadFileSize = 25 << 20
)

// UploadHandler forwards project documents for extraction.
type UploadHandler struct {
	uploads  ports.UploadService
	projects *service.ProjectContexts
	log      zerolog.Logger
}

func NewUploadHandler(uploads ports.UploadService, projects *service.ProjectContexts, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{uploads: uploads, projects: projects, log: log}
}

type uploadResponse struct {
	Result  *domain.ProcessResult `json:"result"`
	Project domain.ProjectInfo    `json:"project"`
	Saved   bool                  `json:"saved"`
}

// Process uploads documents for extraction. When the backend saved the
// extracted project it becomes the tab's current project.
//
// @Summary  Process project documents
// @Tags     upload
// @Accept   multipart/form-data
// @Produce  json
// @Param    files formData file true "Documents (repeatable)"
// @Success  200   {object} uploadResponse
// @Failure  400   {object} map[string]string
// @Failure  415   {object} map[string]string
// @Failure  502   {object} map[string]string
// @Router   /api/files/process [post]
func (h *UploadHandler) Process(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "expected a multipart form with files")
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		return domain.ErrNoFiles
	}
	if len(headers) > maxUploadFiles {
		return echo.NewHTTPError(http.StatusBadRequest, "too many files")
	}

	files := make([]domain.UploadFile, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > maxUploadFileSize {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, fh.Filename+" is too large")
		}
		f, err := fh.Open()
		if err != nil {
			return err
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return err
		}
		files = append(files, domain.UploadFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Data:        data,
		})
	}

	res, err := h.uploads.Process(c.Request().Context(), user.ID, files)
	if err != nil {
		return err
	}

	pc := ctxProject(c, h.projects)
	info, saved := res.PersistedProject()
	if saved {
		pc.SetProjectInfo(info)
		h.log.Info().Str("user_id", user.ID).Str("project_id", info.ProjectID).Msg("project extracted and selected")
	}
	return c.JSON(http.StatusOK, uploadResponse{Result: res, Project: pc.Current(), Saved: saved})
}
