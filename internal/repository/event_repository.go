package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusconnect/portal-api/internal/models"
)

const eventColumns = `id, title, subtitle, description, location, organizer, image, start_date, end_date, start_time, end_time, category, scope, credit_type, status, registration_fees, registration_url, max_capacity, registered, created_at, updated_at`

// EventRepository provides database access for the event directory.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository creates a new instance of EventRepository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// List returns all events, newest first. A freshly published event therefore
// always heads the directory.
func (r *EventRepository) List(ctx context.Context) ([]models.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events ORDER BY created_at DESC, id DESC`
	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// ListByOrganizer returns a club's own events, newest first.
func (r *EventRepository) ListByOrganizer(ctx context.Context, organizer string) ([]models.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events WHERE organizer = $1 ORDER BY created_at DESC, id DESC`
	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query, organizer); err != nil {
		return nil, fmt.Errorf("list events by organizer: %w", err)
	}
	return events, nil
}

// FindByID returns an event by identifier.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events WHERE id = $1 LIMIT 1`
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find event by id: %w", err)
	}
	return &event, nil
}

// Create inserts a newly published event.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now

	const query = `INSERT INTO events (id, title, subtitle, description, location, organizer, image, start_date, end_date, start_time, end_time, category, scope, credit_type, status, registration_fees, registration_url, max_capacity, registered, created_at, updated_at) VALUES (:id, :title, :subtitle, :description, :location, :organizer, :image, :start_date, :end_date, :start_time, :end_time, :category, :scope, :credit_type, :status, :registration_fees, :registration_url, :max_capacity, :registered, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// UpdateStatus moves an event through its lifecycle.
func (r *EventRepository) UpdateStatus(ctx context.Context, id string, status models.EventStatus) error {
	const query = `UPDATE events SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update event status: %w", err)
	}
	return nil
}

// Register records a student registration inside a transaction. The row lock
// on the event makes the capacity check race-free: the count never exceeds
// max_capacity no matter how many registrations arrive concurrently.
func (r *EventRepository) Register(ctx context.Context, eventID, studentID string) (*models.EventRegistration, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin register tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var event models.Event
	const lockQuery = `SELECT id, max_capacity, registered, status FROM events WHERE id = $1 FOR UPDATE`
	if err := tx.GetContext(ctx, &event, lockQuery, eventID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("lock event: %w", err)
	}
	if event.Registered >= event.MaxCapacity {
		return nil, ErrCapacityReached
	}

	var exists bool
	const dupQuery = `SELECT EXISTS (SELECT 1 FROM event_registrations WHERE event_id = $1 AND student_id = $2)`
	if err := tx.GetContext(ctx, &exists, dupQuery, eventID, studentID); err != nil {
		return nil, fmt.Errorf("check duplicate registration: %w", err)
	}
	if exists {
		return nil, ErrDuplicateRegistration
	}

	reg := &models.EventRegistration{
		ID:        uuid.NewString(),
		EventID:   eventID,
		StudentID: studentID,
		CreatedAt: time.Now().UTC(),
	}
	const insertQuery = `INSERT INTO event_registrations (id, event_id, student_id, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := tx.ExecContext(ctx, insertQuery, reg.ID, reg.EventID, reg.StudentID, reg.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert registration: %w", err)
	}

	const bumpQuery = `UPDATE events SET registered = registered + 1, updated_at = $2 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, bumpQuery, eventID, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("increment registered count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit register tx: %w", err)
	}
	return reg, nil
}

// RegisteredEventIDs returns the set of event IDs a student has registered for.
func (r *EventRepository) RegisteredEventIDs(ctx context.Context, studentID string) (map[string]struct{}, error) {
	const query = `SELECT event_id FROM event_registrations WHERE student_id = $1`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, studentID); err != nil {
		return nil, fmt.Errorf("list registered event ids: %w", err)
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// OrganizerCategoryCount is one row of the per-club category tally.
type OrganizerCategoryCount struct {
	Organizer string               `db:"organizer"`
	Category  models.EventCategory `db:"category"`
	Count     int                  `db:"count"`
}

// CountByOrganizerCategory tallies events per organizer and category. The HOD
// activity summary buckets these through the canonical category partition.
func (r *EventRepository) CountByOrganizerCategory(ctx context.Context) ([]OrganizerCategoryCount, error) {
	const query = `SELECT organizer, category, COUNT(*) AS count FROM events GROUP BY organizer, category ORDER BY organizer, category`
	var counts []OrganizerCategoryCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count events by organizer: %w", err)
	}
	return counts, nil
}
