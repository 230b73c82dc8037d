package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusconnect/portal-api/internal/navigation"
	"github.com/campusconnect/portal-api/internal/service"
	appErrors "github.com/campusconnect/portal-api/pkg/errors"
	"github.com/campusconnect/portal-api/pkg/response"
)

// NavigationHandler exposes the per-session navigation state machine. All
// endpoints resolve the session from the X-Session-ID header or, when
// authenticated, the user ID.
type NavigationHandler struct {
	service *service.NavigationService
}

// NewNavigationHandler constructs a navigation handler.
func NewNavigationHandler(svc *service.NavigationService) *NavigationHandler {
	return &NavigationHandler{service: svc}
}

func (h *NavigationHandler) session(c *gin.Context) (string, bool) {
	sid := sessionIDFromContext(c)
	if sid == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "X-Session-ID header is required"))
		return "", false
	}
	return sid, true
}

func (h *NavigationHandler) apply(c *gin.Context, transition service.Transition) {
	sid, ok := h.session(c)
	if !ok {
		return
	}
	state, err := h.service.Apply(c.Request.Context(), sid, transition)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// State godoc
// @Summary Current navigation state
// @Tags Session
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /session [get]
func (h *NavigationHandler) State(c *gin.Context) {
	sid, ok := h.session(c)
	if !ok {
		return
	}
	state, err := h.service.Current(c.Request.Context(), sid)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// Login godoc
// @Summary Enter the authenticated shell
// @Description Lands the session on the role's default view
// @Tags Session
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /session/login [post]
func (h *NavigationHandler) Login(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	h.apply(c, func(s navigation.State) (navigation.State, error) {
		return s.Login(claims.Role)
	})
}

// Navigate godoc
// @Summary Navigate to a view
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body object true "Target view"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /session/navigate [post]
func (h *NavigationHandler) Navigate(c *gin.Context) {
	var payload struct {
		View string `json:"view" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "view is required"))
		return
	}
	h.apply(c, func(s navigation.State) (navigation.State, error) {
		return s.Navigate(navigation.View(payload.View))
	})
}

// SelectEvent godoc
// @Summary Open an event's detail view
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body object true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /session/select-event [post]
func (h *NavigationHandler) SelectEvent(c *gin.Context) {
	var payload struct {
		EventID string `json:"event_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "event_id is required"))
		return
	}
	h.apply(c, func(s navigation.State) (navigation.State, error) {
		return s.SelectEvent(payload.EventID)
	})
}

// SelectClub godoc
// @Summary Open a club's detail view
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body object true "Club ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /session/select-club [post]
func (h *NavigationHandler) SelectClub(c *gin.Context) {
	var payload struct {
		ClubID string `json:"club_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "club_id is required"))
		return
	}
	h.apply(c, func(s navigation.State) (navigation.State, error) {
		return s.SelectClub(payload.ClubID)
	})
}

// Search godoc
// @Summary Update the session's search query
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body object true "Search query"
// @Success 200 {object} response.Envelope
// @Router /session/search [post]
func (h *NavigationHandler) Search(c *gin.Context) {
	var payload struct {
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	h.apply(c, func(s navigation.State) (navigation.State, error) {
		return s.SetSearch(payload.Query), nil
	})
}

// RequestLogout godoc
// @Summary Request logout confirmation
// @Tags Session
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /session/logout [post]
func (h *NavigationHandler) RequestLogout(c *gin.Context) {
	h.apply(c, func(s navigation.State) (navigation.State, error) {
		return s.RequestLogout()
	})
}

// CancelLogout godoc
// @Summary Cancel a pending logout request
// @Tags Session
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /session/logout [delete]
func (h *NavigationHandler) CancelLogout(c *gin.Context) {
	h.apply(c, func(s navigation.State) (navigation.State, error) {
		return s.CancelLogout(), nil
	})
}

// ConfirmLogout godoc
// @Summary Confirm logout and reset the session
// @Tags Session
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /session/logout/confirm [post]
func (h *NavigationHandler) ConfirmLogout(c *gin.Context) {
	h.apply(c, func(s navigation.State) (navigation.State, error) {
		return s.ConfirmLogout()
	})
}
