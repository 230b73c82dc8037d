package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusconnect/portal-api/internal/middleware"
	"github.com/campusconnect/portal-api/internal/service"
	"github.com/campusconnect/portal-api/pkg/response"
)

// SummaryHandler serves the HOD's club activity rollup.
type SummaryHandler struct {
	service *service.SummaryService
}

// NewSummaryHandler constructs a summary handler.
func NewSummaryHandler(svc *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{service: svc}
}

// ClubActivity godoc
// @Summary Club activity summary
// @Description Per-club event counts bucketed into technical and non-technical
// @Tags Summary
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /summary/club-activity [get]
func (h *SummaryHandler) ClubActivity(c *gin.Context) {
	summaries, cached, err := h.service.ClubActivity(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, summaries, nil, middleware.ExtractMeta(c))
}
