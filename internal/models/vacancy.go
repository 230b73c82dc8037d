package models

import (
	"time"

	"github.com/lib/pq"
)

// Vacancy is a club-posted open role for student recruitment.
type Vacancy struct {
	ID        string         `db:"id" json:"id"`
	ClubID    string         `db:"club_id" json:"club_id"`
	ClubName  string         `db:"club_name" json:"club_name"`
	Title     string         `db:"title" json:"title"`
	Skills    pq.StringArray `db:"skills" json:"skills"`
	Openings  int            `db:"openings" json:"openings"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// ApplicationStatus tracks a recruitment application.
type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "Pending"
	ApplicationShortlisted ApplicationStatus = "Shortlisted"
	ApplicationRejected    ApplicationStatus = "Rejected"
)

// JobApplication is a student's application against a vacancy.
type JobApplication struct {
	ID          string            `db:"id" json:"id"`
	VacancyID   string            `db:"vacancy_id" json:"vacancy_id"`
	StudentID   string            `db:"student_id" json:"student_id"`
	StudentName string            `db:"student_name" json:"student_name"`
	Status      ApplicationStatus `db:"status" json:"status"`
	AppliedAt   time.Time         `db:"applied_at" json:"applied_at"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`
}
