package models

import "time"

// Certificate is an issued credential counting toward a credit group.
type Certificate struct {
	ID          string     `db:"id" json:"id"`
	StudentID   string     `db:"student_id" json:"student_id"`
	StudentName string     `db:"student_name" json:"student_name"`
	EventID     *string    `db:"event_id" json:"event_id,omitempty"`
	EventName   string     `db:"event_name" json:"event_name"`
	Title       string     `db:"title" json:"title"`
	CreditType  CreditType `db:"credit_type" json:"credit_type"`
	IssuedBy    string     `db:"issued_by" json:"issued_by"`
	IssuedAt    time.Time  `db:"issued_at" json:"issued_at"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// Department-defined credit requirements for graduation.
const (
	RequiredGroup2Credits = 7
	RequiredGroup3Credits = 7
	RequiredEECredits     = 8
)

// CreditProgress summarises a student's standing in one credit group.
type CreditProgress struct {
	Group    CreditType `json:"group"`
	Earned   int        `json:"earned"`
	Required int        `json:"required"`
}
