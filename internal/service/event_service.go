package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusconnect/portal-api/internal/filter"
	"github.com/campusconnect/portal-api/internal/models"
	"github.com/campusconnect/portal-api/internal/repository"
	appErrors "github.com/campusconnect/portal-api/pkg/errors"
)

type eventRepository interface {
	List(ctx context.Context) ([]models.Event, error)
	ListByOrganizer(ctx context.Context, organizer string) ([]models.Event, error)
	FindByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Register(ctx context.Context, eventID, studentID string) (*models.EventRegistration, error)
	RegisteredEventIDs(ctx context.Context, studentID string) (map[string]struct{}, error)
}

// EventDefaults are applied when an organizer omits optional publish fields.
type EventDefaults struct {
	Capacity int
	Fees     string
}

// EventService serves the event directory: listing through the filter engine,
// publishing, and seat-guarded registration.
type EventService struct {
	repo       eventRepository
	validator  *validator.Validate
	logger     *zap.Logger
	defaults   EventDefaults
	onRegister func()
}

// NewEventService constructs an EventService.
func NewEventService(repo eventRepository, validate *validator.Validate, logger *zap.Logger, defaults EventDefaults) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if defaults.Capacity <= 0 {
		defaults.Capacity = 50
	}
	if defaults.Fees == "" {
		defaults.Fees = "Free"
	}
	return &EventService{repo: repo, validator: validate, logger: logger, defaults: defaults}
}

// SetRegistrationObserver registers a callback fired after each successful
// registration.
func (s *EventService) SetRegistrationObserver(fn func()) {
	s.onRegister = fn
}

// List returns the directory for one viewer, filtered. The studentID is empty
// for anonymous visitors; their view carries no registration state and only
// external events remain joinable.
func (s *EventService) List(ctx context.Context, studentID string, q filter.Query) ([]models.EventView, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}

	registered := map[string]struct{}{}
	authenticated := studentID != ""
	if authenticated {
		registered, err = s.repo.RegisteredEventIDs(ctx, studentID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve registrations")
		}
	}

	views := make([]models.EventView, 0, len(events))
	for _, e := range events {
		_, isRegistered := registered[e.ID]
		views = append(views, models.NewEventView(e, isRegistered, authenticated))
	}

	return filter.Apply(views, q), nil
}

// ListByOrganizer returns a club's own events for the admin screens.
func (s *EventService) ListByOrganizer(ctx context.Context, organizer string) ([]models.EventView, error) {
	events, err := s.repo.ListByOrganizer(ctx, organizer)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list organizer events")
	}
	views := make([]models.EventView, 0, len(events))
	for _, e := range events {
		views = append(views, models.NewEventView(e, false, true))
	}
	return views, nil
}

// Get returns one event as seen by the viewer.
func (s *EventService) Get(ctx context.Context, eventID, studentID string) (*models.EventView, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}

	isRegistered := false
	authenticated := studentID != ""
	if authenticated {
		registered, err := s.repo.RegisteredEventIDs(ctx, studentID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve registrations")
		}
		_, isRegistered = registered[event.ID]
	}

	view := models.NewEventView(*event, isRegistered, authenticated)
	return &view, nil
}

// Publish creates a new event. New events always open as Upcoming with zero
// registrations; because the directory reads newest first, the published
// event immediately heads every listing.
func (s *EventService) Publish(ctx context.Context, req models.PublishEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start date")
	}
	endDate := startDate
	if req.EndDate != "" {
		endDate, err = time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid end date")
		}
		if endDate.Before(startDate) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "end date precedes start date")
		}
	}

	capacity := req.MaxCapacity
	if capacity <= 0 {
		capacity = s.defaults.Capacity
	}
	fees := req.RegistrationFees
	if fees == "" {
		fees = s.defaults.Fees
	}
	creditType := models.CreditType(req.CreditType)
	if creditType == "" {
		creditType = models.CreditNone
	}

	event := &models.Event{
		Title:            req.Title,
		Subtitle:         req.Subtitle,
		Description:      req.Description,
		Location:         req.Location,
		Organizer:        req.Organizer,
		Image:            req.Image,
		StartDate:        startDate,
		EndDate:          endDate,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		Category:         models.EventCategory(req.Category),
		Scope:            models.EventScope(req.Scope),
		CreditType:       creditType,
		Status:           models.StatusUpcoming,
		RegistrationFees: fees,
		RegistrationURL:  req.RegistrationURL,
		MaxCapacity:      capacity,
		Registered:       0,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to publish event")
	}

	s.logger.Info("event published",
		zap.String("event_id", event.ID),
		zap.String("organizer", event.Organizer),
		zap.String("category", string(event.Category)))

	return event, nil
}

// Register records the student on the event roster, seat-guarded.
func (s *EventService) Register(ctx context.Context, eventID, studentID string) (*models.EventRegistration, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	if event.Status != models.StatusUpcoming {
		return nil, appErrors.Clone(appErrors.ErrConflict, "registration is closed for this event")
	}

	reg, err := s.repo.Register(ctx, eventID, studentID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCapacityReached):
			return nil, appErrors.Clone(appErrors.ErrSeatsExhausted, "")
		case errors.Is(err, repository.ErrDuplicateRegistration):
			return nil, appErrors.Clone(appErrors.ErrConflict, "already registered for this event")
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register")
	}

	if s.onRegister != nil {
		s.onRegister()
	}

	s.logger.Info("registration recorded",
		zap.String("event_id", eventID),
		zap.String("student_id", studentID))

	return reg, nil
}
