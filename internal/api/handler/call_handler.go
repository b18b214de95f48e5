package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/quotemate/gateway/internal/api/metrics"
	"github.com/quotemate/gateway/internal/core/domain"
	"github.com/quotemate/gateway/internal/core/ports"
	"github.com/quotemate/gateway/internal/core/service"
)

// CallHandler covers the RFQ flow: detail lookups, outbound calls and the
// call log.
type CallHandler struct {
	calls    ports.CallService
	retell   ports.RetellBackend
	projects *service.ProjectContexts
}

func NewCallHandler(calls ports.CallService, retell ports.RetellBackend, projects *service.ProjectContexts) *CallHandler {
	return &CallHandler{calls: calls, retell: retell, projects: projects}
}

type startCallRequest struct {
	PhoneNumber     string `json:"phone_number" validate:"required,min=7,max=20"`
	RFQ             string `json:"rfq" validate:"max=10000"`
	SubcontractorID string `json:"subcontractor_id"`
}

type startCallResponse struct {
	Status       string `json:"status"`
	PopupSeconds int    `json:"popup_seconds"`
	Redirect     string `json:"redirect"`
	BackendOK    bool   `json:"backend_ok"`
	Message      string `json:"message,omitempty"`
	CallID       string `json:"call_id"`
}

type webhookRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
}

// Subcontractor godoc
// @Summary  Subcontractor details
// @Tags     rfq
// @Produce  json
// @Param    id  path     string true "Subcontractor id"
// @Success  200 {object} map[string]any
// @Failure  404 {object} map[string]string
// @Router   /api/subcontractors/{id} [get]
func (h *CallHandler) Subcontractor(c echo.Context) error {
	data, err := h.retell.Subcontractor(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"data": data})
}

// Project godoc
// @Summary  Project details
// @Tags     rfq
// @Produce  json
// @Param    id  path     string true "Project id"
// @Success  200 {object} map[string]any
// @Failure  404 {object} map[string]string
// @Router   /api/projects/{id} [get]
func (h *CallHandler) Project(c echo.Context) error {
	data, err := h.retell.Project(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"data": data})
}

// Contacted lists the subcontractors the signed in builder already called.
//
// @Summary  Contacted subcontractors
// @Tags     rfq
// @Produce  json
// @Success  200 {object} map[string]any
// @Router   /api/builder/contacted-subcontractors [get]
func (h *CallHandler) Contacted(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	data, err := h.retell.ContactedSubcontractors(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"data": data})
}

// StartCall asks the backend to phone a subcontractor with the RFQ. The
// response always tells the SPA to show the in-progress popup; backend_ok
// reports whether the call actually started.
//
// @Summary  Start an RFQ call
// @Tags     rfq
// @Accept   json
// @Produce  json
// @Param    body body     startCallRequest true "Call details"
// @Success  202  {object} startCallResponse
// @Failure  409  {object} map[string]string
// @Failure  422  {object} map[string]any
// @Router   /api/calls [post]
func (h *CallHandler) StartCall(c echo.Context) error {
	var req startCallRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	out, err := h.calls.StartCall(c.Request().Context(), ports.StartCallInput{
		Builder:         user,
		Project:         ctxProject(c, h.projects).Current(),
		PhoneNumber:     req.PhoneNumber,
		RFQ:             req.RFQ,
		SubcontractorID: req.SubcontractorID,
	})
	if err != nil {
		return err
	}
	metrics.CallsTotal.WithLabelValues(strconv.FormatBool(out.BackendOK)).Inc()

	return c.JSON(http.StatusAccepted, startCallResponse{
		Status:       "in_progress",
		PopupSeconds: domain.CallPopupSeconds,
		Redirect:     domain.PathBuilderDashboard,
		BackendOK:    out.BackendOK,
		Message:      out.Message,
		CallID:       out.Record.ID,
	})
}

// History godoc
// @Summary  Call log
// @Tags     rfq
// @Produce  json
// @Param    limit query    int false "Maximum number of calls (default 50)"
// @Success  200   {object} map[string]any
// @Router   /api/calls [get]
func (h *CallHandler) History(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(strings.TrimSpace(c.QueryParam("limit")))
	calls, err := h.calls.History(c.Request().Context(), user, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"calls": calls})
}

// Webhook godoc
// @Summary  Trigger the call webhook
// @Tags     rfq
// @Accept   json
// @Produce  json
// @Param    body body     webhookRequest true "Contact"
// @Success  202  {object} map[string]string
// @Router   /api/calls/webhook [post]
func (h *CallHandler) Webhook(c echo.Context) error {
	var req webhookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.calls.TriggerWebhook(c.Request().Context(), domain.WebhookCall{Name: req.Name, Phone: req.Phone}); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, map[string]string{"status": "triggered"})
}
