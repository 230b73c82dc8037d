package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusconnect/portal-api/internal/models"
	"github.com/campusconnect/portal-api/internal/service"
	appErrors "github.com/campusconnect/portal-api/pkg/errors"
	"github.com/campusconnect/portal-api/pkg/response"
)

// VacancyHandler serves club recruitment vacancies and applications.
type VacancyHandler struct {
	service *service.VacancyService
}

// NewVacancyHandler constructs a vacancy handler.
func NewVacancyHandler(svc *service.VacancyService) *VacancyHandler {
	return &VacancyHandler{service: svc}
}

// List godoc
// @Summary List open vacancies
// @Tags Vacancies
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /vacancies [get]
func (h *VacancyHandler) List(c *gin.Context) {
	if clubID := c.Query("club_id"); clubID != "" {
		vacancies, err := h.service.ListByClub(c.Request.Context(), clubID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, vacancies, nil)
		return
	}

	vacancies, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, vacancies, nil)
}

// Post godoc
// @Summary Post a vacancy
// @Tags Vacancies
// @Accept json
// @Produce json
// @Param payload body models.Vacancy true "Vacancy"
// @Success 201 {object} response.Envelope
// @Router /vacancies [post]
func (h *VacancyHandler) Post(c *gin.Context) {
	var vacancy models.Vacancy
	if err := c.ShouldBindJSON(&vacancy); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid vacancy payload"))
		return
	}

	if err := h.service.Post(c.Request.Context(), &vacancy); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, vacancy)
}

// Apply godoc
// @Summary Apply for a vacancy
// @Tags Vacancies
// @Produce json
// @Param id path string true "Vacancy ID"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /vacancies/{id}/apply [post]
func (h *VacancyHandler) Apply(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	application, err := h.service.Apply(c.Request.Context(), c.Param("id"), claims.UserID, claims.FullName)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, application)
}

// Applications godoc
// @Summary List applications for a vacancy
// @Tags Vacancies
// @Produce json
// @Param id path string true "Vacancy ID"
// @Success 200 {object} response.Envelope
// @Router /vacancies/{id}/applications [get]
func (h *VacancyHandler) Applications(c *gin.Context) {
	apps, err := h.service.ListApplications(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apps, nil)
}

// MyApplications godoc
// @Summary List the student's own applications
// @Tags Vacancies
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /applications [get]
func (h *VacancyHandler) MyApplications(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	apps, err := h.service.ListApplicationsByStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apps, nil)
}

// Review godoc
// @Summary Shortlist or reject an application
// @Tags Vacancies
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body object true "Review"
// @Success 204 {object} response.Envelope
// @Router /applications/{id}/review [post]
func (h *VacancyHandler) Review(c *gin.Context) {
	var payload struct {
		Status    string `json:"status" binding:"required"`
		StudentID string `json:"student_id"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "status is required"))
		return
	}

	if err := h.service.Review(c.Request.Context(), c.Param("id"), payload.StudentID, payload.Status); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
