package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campusconnect/portal-api/internal/filter"
	"github.com/campusconnect/portal-api/internal/models"
	"github.com/campusconnect/portal-api/internal/service"
	appErrors "github.com/campusconnect/portal-api/pkg/errors"
	"github.com/campusconnect/portal-api/pkg/response"
)

// EventHandler handles the public event directory and admin publishing.
type EventHandler struct {
	service *service.EventService
}

// NewEventHandler constructs an event handler.
func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{service: svc}
}

// List godoc
// @Summary List events
// @Description Newest-first event directory with tab and text filters
// @Tags Events
// @Produce json
// @Param tab query string false "All, Internal, External, Registered, Technical or NonTechnical"
// @Param search query string false "Search keyword"
// @Param registered query bool false "Only the viewer's registered events"
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	tab, err := filter.ParseTab(c.Query("tab"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	query := filter.Query{
		Text:           strings.TrimSpace(c.Query("search")),
		Tab:            tab,
		RegisteredOnly: c.Query("registered") == "true",
	}

	var studentID string
	if claims := claimsFromContext(c); claims != nil {
		studentID = claims.UserID
	}

	views, err := h.service.List(c.Request.Context(), studentID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, nil)
}

// Get godoc
// @Summary Get event by id
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	var studentID string
	if claims := claimsFromContext(c); claims != nil {
		studentID = claims.UserID
	}

	event, err := h.service.Get(c.Request.Context(), c.Param("id"), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Publish godoc
// @Summary Publish a new event
// @Description Publishes an event at the head of the directory
// @Tags Events
// @Accept json
// @Produce json
// @Param payload body models.PublishEventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /events [post]
func (h *EventHandler) Publish(c *gin.Context) {
	var req models.PublishEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event payload"))
		return
	}

	event, err := h.service.Publish(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// Register godoc
// @Summary Register for an event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /events/{id}/register [post]
func (h *EventHandler) Register(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	registration, err := h.service.Register(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, registration)
}

// ListByOrganizer godoc
// @Summary List events published by one organizer
// @Tags Events
// @Produce json
// @Param organizer query string true "Organizer name"
// @Success 200 {object} response.Envelope
// @Router /admin/events [get]
func (h *EventHandler) ListByOrganizer(c *gin.Context) {
	organizer := strings.TrimSpace(c.Query("organizer"))
	if organizer == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "organizer is required"))
		return
	}

	views, err := h.service.ListByOrganizer(c.Request.Context(), organizer)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, nil)
}
