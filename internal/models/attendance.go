package models

import "time"

// AttendanceRecord is a student's claimed presence at an event, verified by
// the organizing club admin.
type AttendanceRecord struct {
	ID          string         `db:"id" json:"id"`
	EventID     string         `db:"event_id" json:"event_id"`
	StudentID   string         `db:"student_id" json:"student_id"`
	StudentName string         `db:"student_name" json:"student_name"`
	RollNumber  string         `db:"roll_number" json:"roll_number"`
	Status      ApprovalStatus `db:"status" json:"status"`
	MarkedAt    time.Time      `db:"marked_at" json:"marked_at"`
	DecidedAt   *time.Time     `db:"decided_at" json:"decided_at,omitempty"`
}
