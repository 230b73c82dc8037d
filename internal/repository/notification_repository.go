package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusconnect/portal-api/internal/models"
)

const notificationColumns = `id, student_id, title, message, type, reference_id, is_read, created_at`

// NotificationRepository provides database access for the student inbox.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new instance of NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// ListByStudent returns a student's notifications, newest first.
func (r *NotificationRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Notification, error) {
	const query = `SELECT ` + notificationColumns + ` FROM notifications WHERE student_id = $1 ORDER BY created_at DESC`
	var notifications []models.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, studentID); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// CountUnread returns the unread badge count for a student.
func (r *NotificationRepository) CountUnread(ctx context.Context, studentID string) (int, error) {
	const query = `SELECT COUNT(*) FROM notifications WHERE student_id = $1 AND is_read = FALSE`
	var count int
	if err := r.db.GetContext(ctx, &count, query, studentID); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// Create inserts a notification, deduplicated per (student, type, reference):
// re-running an approval flow never produces a second inbox entry.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO notifications (id, student_id, title, message, type, reference_id, is_read, created_at) VALUES (:id, :student_id, :title, :message, :type, :reference_id, :is_read, :created_at) ON CONFLICT (student_id, type, reference_id) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, query, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// MarkRead flags one notification as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, studentID string) error {
	const query = `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND student_id = $2`
	if _, err := r.db.ExecContext(ctx, query, id, studentID); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead flags every notification of a student as read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, studentID string) error {
	const query = `UPDATE notifications SET is_read = TRUE WHERE student_id = $1 AND is_read = FALSE`
	if _, err := r.db.ExecContext(ctx, query, studentID); err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}
