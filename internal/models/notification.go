package models

import "time"

// Notification types, used for inbox grouping and dedupe scoping.
const (
	NotificationTypeOD          = "od"
	NotificationTypeCertificate = "certificate"
	NotificationTypeApplication = "application"
)

// Notification is a persisted student inbox entry. Approval flows write at
// most one notification per (student, type, reference).
type Notification struct {
	ID          string    `db:"id" json:"id"`
	StudentID   string    `db:"student_id" json:"student_id"`
	Title       string    `db:"title" json:"title"`
	Message     string    `db:"message" json:"message"`
	Type        string    `db:"type" json:"type"`
	ReferenceID string    `db:"reference_id" json:"reference_id"`
	IsRead      bool      `db:"is_read" json:"is_read"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
