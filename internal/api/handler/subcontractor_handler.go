package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/quotemate/gateway/internal/core/domain"
	"github.com/quotemate/gateway/internal/core/ports"
)

// SubcontractorHandler handles the subcontractor profile form.
type SubcontractorHandler struct {
	matches ports.MatchService
}

func NewSubcontractorHandler(matches ports.MatchService) *SubcontractorHandler {
	return &SubcontractorHandler{matches: matches}
}

type registerProfileRequest struct {
	Name        string `json:"name" validate:"max=200"`
	CompanyName string `json:"company_name" validate:"required,max=200"`
	Trade       string `json:"trade" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Description string `json:"description" validate:"max=5000"`
	Experience  string `json:"experience" validate:"max=2000"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"omitempty,max=20"`
}

// searchDescription folds experience into the description; the project
// matcher has no separate field for it.
func (r registerProfileRequest) searchDescription() string {
	desc := strings.TrimSpace(r.Description)
	exp := strings.TrimSpace(r.Experience)
	switch {
	case exp == "":
		return desc
	case desc == "":
		return "Experience: " + exp
	default:
		return desc + "\n\nExperience: " + exp
	}
}

type registerProfileResponse struct {
	Results  []domain.ProjectMatch `json:"results"`
	Redirect string                `json:"redirect"`
}

// Register submits the profile and returns matching projects.
//
// @Summary  Register a subcontractor profile
// @Tags     subcontractor
// @Accept   json
// @Produce  json
// @Param    body body     registerProfileRequest true "Profile"
// @Success  200  {object} registerProfileResponse
// @Failure  422  {object} map[string]any
// @Failure  502  {object} map[string]string
// @Router   /api/subcontractor/register [post]
func (h *SubcontractorHandler) Register(c echo.Context) error {
	var req registerProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	desc := req.searchDescription()
	res, err := h.matches.SearchProjects(c.Request().Context(), domain.MatchFilter{
		Trade:       &req.Trade,
		Location:    &req.Location,
		Description: &desc,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, registerProfileResponse{Results: res, Redirect: domain.PathSubcontractorResults})
}
