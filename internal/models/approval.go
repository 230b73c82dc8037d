package models

import "time"

// ApprovalStatus is the decision state of a routed request.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "Pending"
	ApprovalApproved ApprovalStatus = "Approved"
	ApprovalRejected ApprovalStatus = "Rejected"
)

// ODRequest is a student's on-duty excusal request awaiting FA decision.
type ODRequest struct {
	ID          string         `db:"id" json:"id"`
	StudentID   string         `db:"student_id" json:"student_id"`
	StudentName string         `db:"student_name" json:"student_name"`
	RollNumber  string         `db:"roll_number" json:"roll_number"`
	EventName   string         `db:"event_name" json:"event_name"`
	EventDate   time.Time      `db:"event_date" json:"event_date"`
	Status      ApprovalStatus `db:"status" json:"status"`
	DecidedAt   *time.Time     `db:"decided_at" json:"decided_at,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

// ExternalProposal is a club's request to host or attend an off-campus event.
type ExternalProposal struct {
	ID        string         `db:"id" json:"id"`
	ClubName  string         `db:"club_name" json:"club_name"`
	EventName string         `db:"event_name" json:"event_name"`
	EventDate time.Time      `db:"event_date" json:"event_date"`
	Venue     string         `db:"venue" json:"venue"`
	EventType string         `db:"event_type" json:"event_type"`
	Status    ApprovalStatus `db:"status" json:"status"`
	DecidedAt *time.Time     `db:"decided_at" json:"decided_at,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// ExternalCertificate is a student-submitted proof of an external achievement
// awaiting credit approval.
type ExternalCertificate struct {
	ID          string         `db:"id" json:"id"`
	StudentID   string         `db:"student_id" json:"student_id"`
	StudentName string         `db:"student_name" json:"student_name"`
	RollNumber  string         `db:"roll_number" json:"roll_number"`
	EventName   string         `db:"event_name" json:"event_name"`
	EventDate   time.Time      `db:"event_date" json:"event_date"`
	Proof       string         `db:"proof" json:"proof"`
	CreditType  CreditType     `db:"credit_type" json:"credit_type"`
	Status      ApprovalStatus `db:"status" json:"status"`
	DecidedAt   *time.Time     `db:"decided_at" json:"decided_at,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}
