package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusconnect/portal-api/internal/models"
)

const attendanceColumns = `id, event_id, student_id, student_name, roll_number, status, marked_at, decided_at`

// AttendanceRepository provides database access for event attendance claims.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository creates a new instance of AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ListByEvent returns attendance claims for an event, pending first.
func (r *AttendanceRepository) ListByEvent(ctx context.Context, eventID string) ([]models.AttendanceRecord, error) {
	const query = `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE event_id = $1 ORDER BY (status = 'Pending') DESC, marked_at ASC`
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, eventID); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// Create inserts a student's attendance claim.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.MarkedAt.IsZero() {
		record.MarkedAt = time.Now().UTC()
	}
	record.Status = models.ApprovalPending

	const query = `INSERT INTO attendance_records (id, event_id, student_id, student_name, roll_number, status, marked_at) VALUES (:id, :event_id, :student_id, :student_name, :roll_number, :status, :marked_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create attendance record: %w", err)
	}
	return nil
}

// Decide records the organizer's once-only verification of a claim.
func (r *AttendanceRepository) Decide(ctx context.Context, id string, status models.ApprovalStatus) error {
	const query = `UPDATE attendance_records SET status = $2, decided_at = $3 WHERE id = $1 AND status = 'Pending'`
	res, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("decide attendance: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrAlreadyDecided
	}
	return nil
}

// ListApprovedByEvent returns verified attendees, for certificate issuance.
func (r *AttendanceRepository) ListApprovedByEvent(ctx context.Context, eventID string) ([]models.AttendanceRecord, error) {
	const query = `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE event_id = $1 AND status = 'Approved' ORDER BY roll_number ASC`
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, eventID); err != nil {
		return nil, fmt.Errorf("list approved attendance: %w", err)
	}
	return records, nil
}
