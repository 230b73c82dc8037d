package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusconnect/portal-api/internal/middleware"
	"github.com/campusconnect/portal-api/internal/models"
	"github.com/campusconnect/portal-api/internal/service"
)

type stubEventRepo struct {
	events []models.Event
}

func (s *stubEventRepo) List(context.Context) ([]models.Event, error) {
	return s.events, nil
}

func (s *stubEventRepo) ListByOrganizer(_ context.Context, organizer string) ([]models.Event, error) {
	var out []models.Event
	for _, e := range s.events {
		if e.Organizer == organizer {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubEventRepo) FindByID(_ context.Context, id string) (*models.Event, error) {
	for i := range s.events {
		if s.events[i].ID == id {
			e := s.events[i]
			return &e, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubEventRepo) Create(_ context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = "new"
	}
	s.events = append([]models.Event{*event}, s.events...)
	return nil
}

func (s *stubEventRepo) Register(_ context.Context, eventID, studentID string) (*models.EventRegistration, error) {
	return &models.EventRegistration{ID: "r1", EventID: eventID, StudentID: studentID}, nil
}

func (s *stubEventRepo) RegisteredEventIDs(context.Context, string) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}

func newTestEventHandler(repo *stubEventRepo) *EventHandler {
	svc := service.NewEventService(repo, validator.New(), zap.NewNop(), service.EventDefaults{Capacity: 50, Fees: "Free"})
	return NewEventHandler(svc)
}

func TestEventHandlerListFiltersByTab(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTestEventHandler(&stubEventRepo{events: []models.Event{
		{ID: "e1", Title: "Hack Night", Organizer: "Coding Club", Category: models.CategoryHackathon,
			Scope: models.ScopeInternal, Status: models.StatusUpcoming, MaxCapacity: 100},
		{ID: "e2", Title: "Spring Fest", Organizer: "Arts Club", Category: models.CategoryCultural,
			Scope: models.ScopeInternal, Status: models.StatusUpcoming, MaxCapacity: 100},
	}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/events?tab=Technical", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data []models.EventView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "e1", envelope.Data[0].ID)
}

func TestEventHandlerListRejectsUnknownTab(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTestEventHandler(&stubEventRepo{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/events?tab=Bogus", nil)

	handler.List(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventHandlerPublish(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTestEventHandler(&stubEventRepo{})

	body := `{"title":"Robotics 101","organizer":"Robotics Club","start_date":"2026-09-15","category":"Workshop","scope":"Internal"}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Publish(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var envelope struct {
		Data models.Event `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, models.StatusUpcoming, envelope.Data.Status)
	assert.Equal(t, 50, envelope.Data.MaxCapacity)
}

func TestEventHandlerPublishRejectsBadPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTestEventHandler(&stubEventRepo{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`{"title":"No category"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Publish(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventHandlerRegisterRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTestEventHandler(&stubEventRepo{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/events/e1/register", nil)
	c.Params = gin.Params{{Key: "id", Value: "e1"}}

	handler.Register(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEventHandlerRegisterSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTestEventHandler(&stubEventRepo{events: []models.Event{
		{ID: "e1", Title: "Hack Night", Organizer: "Coding Club", Category: models.CategoryHackathon,
			Scope: models.ScopeInternal, Status: models.StatusUpcoming, MaxCapacity: 100},
	}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/events/e1/register", nil)
	c.Params = gin.Params{{Key: "id", Value: "e1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "s1", Role: models.RoleStudent})

	handler.Register(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
}
