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

// CertificateHandler serves issued certificates and credit progress.
type CertificateHandler struct {
	service *service.CertificateService
}

// NewCertificateHandler constructs a certificate handler.
func NewCertificateHandler(svc *service.CertificateService) *CertificateHandler {
	return &CertificateHandler{service: svc}
}

// List godoc
// @Summary List the student's certificates
// @Tags Certificates
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /certificates [get]
func (h *CertificateHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	certs, err := h.service.ListByStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, certs, nil)
}

// Progress godoc
// @Summary Credit progress per group
// @Description Earned versus required credits for Group2, Group3 and EE
// @Tags Certificates
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /certificates/progress [get]
func (h *CertificateHandler) Progress(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	progress, err := h.service.CreditProgress(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, progress, nil)
}

// Issue godoc
// @Summary Issue a certificate
// @Tags Certificates
// @Accept json
// @Produce json
// @Param payload body models.Certificate true "Certificate"
// @Success 201 {object} response.Envelope
// @Router /certificates [post]
func (h *CertificateHandler) Issue(c *gin.Context) {
	var cert models.Certificate
	if err := c.ShouldBindJSON(&cert); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid certificate payload"))
		return
	}

	if err := h.service.Issue(c.Request.Context(), &cert); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cert)
}

// Download godoc
// @Summary Download a certificate as PDF
// @Tags Certificates
// @Produce application/pdf
// @Param id path string true "Certificate ID"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Router /certificates/{id}/download [get]
func (h *CertificateHandler) Download(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	pdf, err := h.service.Download(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=certificate-%s.pdf", c.Param("id")))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
