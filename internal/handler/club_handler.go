package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campusconnect/portal-api/internal/service"
	"github.com/campusconnect/portal-api/pkg/response"
)

// ClubHandler serves the club directory.
type ClubHandler struct {
	service *service.ClubService
}

// NewClubHandler constructs a club handler.
func NewClubHandler(svc *service.ClubService) *ClubHandler {
	return &ClubHandler{service: svc}
}

// List godoc
// @Summary List clubs
// @Tags Clubs
// @Produce json
// @Param search query string false "Search keyword"
// @Success 200 {object} response.Envelope
// @Router /clubs [get]
func (h *ClubHandler) List(c *gin.Context) {
	clubs, err := h.service.List(c.Request.Context(), strings.TrimSpace(c.Query("search")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, clubs, nil)
}

// Get godoc
// @Summary Get club by id
// @Tags Clubs
// @Produce json
// @Param id path string true "Club ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /clubs/{id} [get]
func (h *ClubHandler) Get(c *gin.Context) {
	club, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, club, nil)
}
