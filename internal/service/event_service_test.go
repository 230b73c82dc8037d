package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusconnect/portal-api/internal/filter"
	"github.com/campusconnect/portal-api/internal/models"
	"github.com/campusconnect/portal-api/internal/repository"
	appErrors "github.com/campusconnect/portal-api/pkg/errors"
)

type mockEventRepo struct {
	events      []models.Event
	registered  map[string]map[string]struct{}
	registerErr error
}

func (m *mockEventRepo) List(ctx context.Context) ([]models.Event, error) {
	out := make([]models.Event, len(m.events))
	copy(out, m.events)
	return out, nil
}

func (m *mockEventRepo) ListByOrganizer(ctx context.Context, organizer string) ([]models.Event, error) {
	var out []models.Event
	for _, e := range m.events {
		if e.Organizer == organizer {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEventRepo) FindByID(ctx context.Context, id string) (*models.Event, error) {
	for i := range m.events {
		if m.events[i].ID == id {
			e := m.events[i]
			return &e, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockEventRepo) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = "generated"
	}
	event.CreatedAt = time.Now().UTC()
	// Newest first, like the directory query.
	m.events = append([]models.Event{*event}, m.events...)
	return nil
}

func (m *mockEventRepo) Register(ctx context.Context, eventID, studentID string) (*models.EventRegistration, error) {
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	if m.registered == nil {
		m.registered = map[string]map[string]struct{}{}
	}
	if m.registered[studentID] == nil {
		m.registered[studentID] = map[string]struct{}{}
	}
	m.registered[studentID][eventID] = struct{}{}
	return &models.EventRegistration{ID: "r1", EventID: eventID, StudentID: studentID}, nil
}

func (m *mockEventRepo) RegisteredEventIDs(ctx context.Context, studentID string) (map[string]struct{}, error) {
	if set, ok := m.registered[studentID]; ok {
		return set, nil
	}
	return map[string]struct{}{}, nil
}

func seedEvents() []models.Event {
	return []models.Event{
		{ID: "e1", Title: "Annual Hackathon", Organizer: "Coding Club", Category: models.CategoryHackathon,
			Scope: models.ScopeInternal, Status: models.StatusUpcoming, MaxCapacity: 100, Registered: 10},
		{ID: "e2", Title: "Cultural Fest", Organizer: "Arts Club", Category: models.CategoryCultural,
			Scope: models.ScopeInternal, Status: models.StatusUpcoming, MaxCapacity: 200, Registered: 50},
		{ID: "e3", Title: "Industry Summit", Organizer: "E-Cell", Category: models.CategorySeminar,
			Scope: models.ScopeExternal, Status: models.StatusUpcoming, MaxCapacity: 50, Registered: 50},
	}
}

func newEventService(repo *mockEventRepo) *EventService {
	return NewEventService(repo, validator.New(), zap.NewNop(), EventDefaults{Capacity: 50, Fees: "Free"})
}

func TestEventServiceListAppliesFilter(t *testing.T) {
	repo := &mockEventRepo{events: seedEvents(), registered: map[string]map[string]struct{}{
		"s1": {"e1": {}},
	}}
	svc := newEventService(repo)

	views, err := svc.List(context.Background(), "s1", filter.Query{Tab: filter.TabTechnical})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "e1", views[0].ID)
	assert.True(t, views[0].IsRegistered)
	assert.Equal(t, "e3", views[1].ID)

	views, err = svc.List(context.Background(), "s1", filter.Query{RegisteredOnly: true})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "e1", views[0].ID)
}

func TestEventServiceListAnonymousViewer(t *testing.T) {
	repo := &mockEventRepo{events: seedEvents()}
	svc := newEventService(repo)

	views, err := svc.List(context.Background(), "", filter.Query{})
	require.NoError(t, err)
	require.Len(t, views, 3)
	for _, v := range views {
		assert.False(t, v.IsRegistered)
		// Anonymous visitors can only follow external registrations, and a
		// full event is never joinable.
		if v.Scope == models.ScopeInternal || v.SeatsRemaining == 0 {
			assert.False(t, v.CanRegister, "event %s", v.ID)
		}
	}
}

func TestEventServicePublishDefaults(t *testing.T) {
	repo := &mockEventRepo{}
	svc := newEventService(repo)

	event, err := svc.Publish(context.Background(), models.PublishEventRequest{
		Title:     "Robotics 101",
		Organizer: "Robotics Club",
		StartDate: "2026-09-15",
		Category:  "Workshop",
		Scope:     "Internal",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusUpcoming, event.Status)
	assert.Equal(t, 0, event.Registered)
	assert.Equal(t, 50, event.MaxCapacity)
	assert.Equal(t, "Free", event.RegistrationFees)
	assert.Equal(t, models.CreditNone, event.CreditType)
	assert.NotEmpty(t, event.ID)
}

func TestEventServicePublishHeadsDirectory(t *testing.T) {
	repo := &mockEventRepo{events: seedEvents()}
	svc := newEventService(repo)

	_, err := svc.Publish(context.Background(), models.PublishEventRequest{
		Title:     "Fresh Event",
		Organizer: "Coding Club",
		StartDate: "2026-10-01",
		Category:  "Seminar",
		Scope:     "Internal",
	})
	require.NoError(t, err)

	views, err := svc.List(context.Background(), "", filter.Query{})
	require.NoError(t, err)
	require.NotEmpty(t, views)
	assert.Equal(t, "Fresh Event", views[0].Title)
}

func TestEventServicePublishRejectsBadPayload(t *testing.T) {
	svc := newEventService(&mockEventRepo{})

	_, err := svc.Publish(context.Background(), models.PublishEventRequest{
		Title: "No category", Organizer: "X", StartDate: "2026-01-01", Scope: "Internal",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Publish(context.Background(), models.PublishEventRequest{
		Title: "Bad date", Organizer: "X", StartDate: "15-09-2026", Category: "Workshop", Scope: "Internal",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestEventServiceRegisterSeatsExhausted(t *testing.T) {
	repo := &mockEventRepo{events: seedEvents(), registerErr: repository.ErrCapacityReached}
	svc := newEventService(repo)

	_, err := svc.Register(context.Background(), "e3", "s1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSeatsExhausted.Code, appErrors.FromError(err).Code)
}

func TestEventServiceRegisterDuplicate(t *testing.T) {
	repo := &mockEventRepo{events: seedEvents(), registerErr: repository.ErrDuplicateRegistration}
	svc := newEventService(repo)

	_, err := svc.Register(context.Background(), "e1", "s1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestEventServiceRegisterUnknownEvent(t *testing.T) {
	svc := newEventService(&mockEventRepo{})

	_, err := svc.Register(context.Background(), "missing", "s1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
