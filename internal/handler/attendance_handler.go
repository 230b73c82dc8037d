package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusconnect/portal-api/internal/models"
	"github.com/campusconnect/portal-api/internal/service"
	appErrors "github.com/campusconnect/portal-api/pkg/errors"
	"github.com/campusconnect/portal-api/pkg/response"
)

// AttendanceHandler serves event attendance claims and verification.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler constructs an attendance handler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// ListByEvent godoc
// @Summary List attendance claims for an event
// @Tags Attendance
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{id}/attendance [get]
func (h *AttendanceHandler) ListByEvent(c *gin.Context) {
	records, err := h.service.ListByEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Claim godoc
// @Summary Claim attendance at an event
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body models.AttendanceRecord true "Claim"
// @Success 201 {object} response.Envelope
// @Router /events/{id}/attendance [post]
func (h *AttendanceHandler) Claim(c *gin.Context) {
	var record models.AttendanceRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid attendance payload"))
		return
	}
	record.EventID = c.Param("id")
	if claims := claimsFromContext(c); claims != nil && record.StudentID == "" {
		record.StudentID = claims.UserID
		record.StudentName = claims.FullName
	}

	if err := h.service.Claim(c.Request.Context(), &record); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Decide godoc
// @Summary Verify or reject an attendance claim
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param payload body decisionPayload true "Decision"
// @Success 204 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /attendance/{id}/decide [post]
func (h *AttendanceHandler) Decide(c *gin.Context) {
	decision, ok := bindDecision(c)
	if !ok {
		return
	}
	if err := h.service.Decide(c.Request.Context(), c.Param("id"), decision); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export an event's attendance as CSV
// @Tags Attendance
// @Produce text/csv
// @Param id path string true "Event ID"
// @Success 200 {file} binary
// @Router /events/{id}/attendance/export [get]
func (h *AttendanceHandler) Export(c *gin.Context) {
	data, filename, err := h.service.ExportCSV(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", data)
}
