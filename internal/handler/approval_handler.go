package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusconnect/portal-api/internal/models"
	"github.com/campusconnect/portal-api/internal/service"
	appErrors "github.com/campusconnect/portal-api/pkg/errors"
	"github.com/campusconnect/portal-api/pkg/response"
)

// ApprovalHandler serves the FA's three approval queues: OD requests,
// external event proposals and external certificate submissions.
type ApprovalHandler struct {
	service *service.ApprovalService
}

// NewApprovalHandler constructs an approval handler.
func NewApprovalHandler(svc *service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{service: svc}
}

type decisionPayload struct {
	Decision string `json:"decision" binding:"required"`
}

func bindDecision(c *gin.Context) (string, bool) {
	var payload decisionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "decision is required"))
		return "", false
	}
	return payload.Decision, true
}

// ListODRequests godoc
// @Summary List OD requests
// @Description Pending-first queue of on-duty requests
// @Tags Approvals
// @Produce json
// @Param status query string false "Pending, Approved or Rejected"
// @Success 200 {object} response.Envelope
// @Router /od-requests [get]
func (h *ApprovalHandler) ListODRequests(c *gin.Context) {
	requests, err := h.service.ListODRequests(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, nil)
}

// SubmitODRequest godoc
// @Summary Submit an OD request
// @Tags Approvals
// @Accept json
// @Produce json
// @Param payload body models.ODRequest true "OD request"
// @Success 201 {object} response.Envelope
// @Router /od-requests [post]
func (h *ApprovalHandler) SubmitODRequest(c *gin.Context) {
	var req models.ODRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid od request payload"))
		return
	}
	if claims := claimsFromContext(c); claims != nil && req.StudentID == "" {
		req.StudentID = claims.UserID
		req.StudentName = claims.FullName
	}

	if err := h.service.SubmitODRequest(c.Request.Context(), &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, req)
}

// DecideODRequest godoc
// @Summary Decide an OD request
// @Description Approve or reject; a request can be decided only once
// @Tags Approvals
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body decisionPayload true "Decision"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /od-requests/{id}/decide [post]
func (h *ApprovalHandler) DecideODRequest(c *gin.Context) {
	decision, ok := bindDecision(c)
	if !ok {
		return
	}
	req, err := h.service.DecideODRequest(c.Request.Context(), c.Param("id"), decision)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, req, nil)
}

// ListProposals godoc
// @Summary List external event proposals
// @Tags Approvals
// @Produce json
// @Param status query string false "Pending, Approved or Rejected"
// @Success 200 {object} response.Envelope
// @Router /proposals [get]
func (h *ApprovalHandler) ListProposals(c *gin.Context) {
	proposals, err := h.service.ListProposals(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, proposals, nil)
}

// SubmitProposal godoc
// @Summary Submit an external event proposal
// @Tags Approvals
// @Accept json
// @Produce json
// @Param payload body models.ExternalProposal true "Proposal"
// @Success 201 {object} response.Envelope
// @Router /proposals [post]
func (h *ApprovalHandler) SubmitProposal(c *gin.Context) {
	var p models.ExternalProposal
	if err := c.ShouldBindJSON(&p); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid proposal payload"))
		return
	}

	if err := h.service.SubmitProposal(c.Request.Context(), &p); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, p)
}

// DecideProposal godoc
// @Summary Decide an external event proposal
// @Tags Approvals
// @Accept json
// @Produce json
// @Param id path string true "Proposal ID"
// @Param payload body decisionPayload true "Decision"
// @Success 204 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /proposals/{id}/decide [post]
func (h *ApprovalHandler) DecideProposal(c *gin.Context) {
	decision, ok := bindDecision(c)
	if !ok {
		return
	}
	if err := h.service.DecideProposal(c.Request.Context(), c.Param("id"), decision); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListExternalCertificates godoc
// @Summary List external certificate submissions
// @Tags Approvals
// @Produce json
// @Param status query string false "Pending, Approved or Rejected"
// @Success 200 {object} response.Envelope
// @Router /external-certificates [get]
func (h *ApprovalHandler) ListExternalCertificates(c *gin.Context) {
	certs, err := h.service.ListExternalCertificates(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, certs, nil)
}

// SubmitExternalCertificate godoc
// @Summary Submit an external achievement for credit approval
// @Tags Approvals
// @Accept json
// @Produce json
// @Param payload body models.ExternalCertificate true "Submission"
// @Success 201 {object} response.Envelope
// @Router /external-certificates [post]
func (h *ApprovalHandler) SubmitExternalCertificate(c *gin.Context) {
	var cert models.ExternalCertificate
	if err := c.ShouldBindJSON(&cert); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid submission payload"))
		return
	}
	if claims := claimsFromContext(c); claims != nil && cert.StudentID == "" {
		cert.StudentID = claims.UserID
		cert.StudentName = claims.FullName
	}

	if err := h.service.SubmitExternalCertificate(c.Request.Context(), &cert); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cert)
}

// DecideExternalCertificate godoc
// @Summary Decide an external certificate submission
// @Description Approval issues a portal certificate so the credit counts
// @Tags Approvals
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param payload body decisionPayload true "Decision"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /external-certificates/{id}/decide [post]
func (h *ApprovalHandler) DecideExternalCertificate(c *gin.Context) {
	decision, ok := bindDecision(c)
	if !ok {
		return
	}
	cert, err := h.service.DecideExternalCertificate(c.Request.Context(), c.Param("id"), decision)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cert, nil)
}
