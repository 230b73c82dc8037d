package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campusconnect/portal-api/internal/models"
	"github.com/campusconnect/portal-api/internal/service"
	appErrors "github.com/campusconnect/portal-api/pkg/errors"
	"github.com/campusconnect/portal-api/pkg/response"
)

// HostelHandler serves hostel permission routing. The respond endpoint is
// public: hostel heads act through the emailed link without a portal login.
type HostelHandler struct {
	service *service.HostelService
}

// NewHostelHandler constructs a hostel handler.
func NewHostelHandler(svc *service.HostelService) *HostelHandler {
	return &HostelHandler{service: svc}
}

// List godoc
// @Summary List hostel permissions for a section
// @Tags Hostel
// @Produce json
// @Param section query string true "Class section"
// @Success 200 {object} response.Envelope
// @Router /hostel-permissions [get]
func (h *HostelHandler) List(c *gin.Context) {
	section := strings.TrimSpace(c.Query("section"))
	if section == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "section is required"))
		return
	}

	permissions, err := h.service.ListBySection(c.Request.Context(), section)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, permissions, nil)
}

// Submit godoc
// @Summary Submit a hostel permission request
// @Description Files the request; the FA dispatches the hostel-head mail later
// @Tags Hostel
// @Accept json
// @Produce json
// @Param payload body models.HostelPermission true "Permission request"
// @Success 201 {object} response.Envelope
// @Router /hostel-permissions [post]
func (h *HostelHandler) Submit(c *gin.Context) {
	var perm models.HostelPermission
	if err := c.ShouldBindJSON(&perm); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid permission payload"))
		return
	}

	if err := h.service.Submit(c.Request.Context(), &perm); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, perm)
}

// Send godoc
// @Summary Send the hostel-head mail for a request
// @Description Queues the mail carrying the respond link; repeatable while pending
// @Tags Hostel
// @Produce json
// @Param id path string true "Permission ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /hostel-permissions/{id}/send [post]
func (h *HostelHandler) Send(c *gin.Context) {
	perm, err := h.service.Send(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, perm, nil)
}

// Respond godoc
// @Summary Record the hostel head's decision
// @Description Public link target; each request accepts exactly one decision
// @Tags Hostel
// @Produce json
// @Param id path string true "Permission ID"
// @Param decision query string true "Approved or Rejected"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /hostel-permissions/{id}/respond [get]
func (h *HostelHandler) Respond(c *gin.Context) {
	decision := c.Query("decision")
	if decision == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "decision is required"))
		return
	}

	perm, err := h.service.Respond(c.Request.Context(), c.Param("id"), decision)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, perm, nil)
}
