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

const hostelColumns = `id, student_id, student_name, roll_number, section, reason, from_date, to_date, hostel_head_email, status, sent_at, responded_at, created_at`

// HostelRepository provides database access for hostel permission requests.
type HostelRepository struct {
	db *sqlx.DB
}

// NewHostelRepository creates a new instance of HostelRepository.
func NewHostelRepository(db *sqlx.DB) *HostelRepository {
	return &HostelRepository{db: db}
}

// ListBySection returns all permission requests for a section, newest first.
func (r *HostelRepository) ListBySection(ctx context.Context, section string) ([]models.HostelPermission, error) {
	const query = `SELECT ` + hostelColumns + ` FROM hostel_permissions WHERE section = $1 ORDER BY created_at DESC`
	var perms []models.HostelPermission
	if err := r.db.SelectContext(ctx, &perms, query, section); err != nil {
		return nil, fmt.Errorf("list hostel permissions: %w", err)
	}
	return perms, nil
}

// ListPending returns permission requests still awaiting a response. The
// snapshot poller feeds these into the FA dashboard counter.
func (r *HostelRepository) ListPending(ctx context.Context) ([]models.HostelPermission, error) {
	const query = `SELECT ` + hostelColumns + ` FROM hostel_permissions WHERE status = 'Pending' ORDER BY created_at ASC`
	var perms []models.HostelPermission
	if err := r.db.SelectContext(ctx, &perms, query); err != nil {
		return nil, fmt.Errorf("list pending hostel permissions: %w", err)
	}
	return perms, nil
}

// FindByID returns one permission request by identifier.
func (r *HostelRepository) FindByID(ctx context.Context, id string) (*models.HostelPermission, error) {
	const query = `SELECT ` + hostelColumns + ` FROM hostel_permissions WHERE id = $1 LIMIT 1`
	var perm models.HostelPermission
	if err := r.db.GetContext(ctx, &perm, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find hostel permission: %w", err)
	}
	return &perm, nil
}

// Create inserts a permission request.
func (r *HostelRepository) Create(ctx context.Context, perm *models.HostelPermission) error {
	if perm.ID == "" {
		perm.ID = uuid.NewString()
	}
	if perm.CreatedAt.IsZero() {
		perm.CreatedAt = time.Now().UTC()
	}
	perm.Status = models.ApprovalPending

	const query = `INSERT INTO hostel_permissions (id, student_id, student_name, roll_number, section, reason, from_date, to_date, hostel_head_email, status, created_at) VALUES (:id, :student_id, :student_name, :roll_number, :section, :reason, :from_date, :to_date, :hostel_head_email, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, perm); err != nil {
		return fmt.Errorf("create hostel permission: %w", err)
	}
	return nil
}

// MarkSent records that the request was mailed to the hostel head.
func (r *HostelRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	const query = `UPDATE hostel_permissions SET sent_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, sentAt); err != nil {
		return fmt.Errorf("mark hostel permission sent: %w", err)
	}
	return nil
}

// Respond records the hostel head's once-only decision.
func (r *HostelRepository) Respond(ctx context.Context, id string, status models.ApprovalStatus) error {
	const query = `UPDATE hostel_permissions SET status = $2, responded_at = $3 WHERE id = $1 AND status = 'Pending'`
	res, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("respond hostel permission: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrAlreadyDecided
	}
	return nil
}
