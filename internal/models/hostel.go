package models

import "time"

// HostelPermission is a stay-out/leave request routed from the FA to the
// hostel head, who responds through a signed link rather than a portal login.
type HostelPermission struct {
	ID              string         `db:"id" json:"id"`
	StudentID       string         `db:"student_id" json:"student_id"`
	StudentName     string         `db:"student_name" json:"student_name"`
	RollNumber      string         `db:"roll_number" json:"roll_number"`
	Section         string         `db:"section" json:"section"`
	Reason          string         `db:"reason" json:"reason"`
	FromDate        time.Time      `db:"from_date" json:"from_date"`
	ToDate          time.Time      `db:"to_date" json:"to_date"`
	HostelHeadEmail string         `db:"hostel_head_email" json:"hostel_head_email"`
	Status          ApprovalStatus `db:"status" json:"status"`
	SentAt          *time.Time     `db:"sent_at" json:"sent_at,omitempty"`
	RespondedAt     *time.Time     `db:"responded_at" json:"responded_at,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
}
