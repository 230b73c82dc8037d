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

// VacancyRepository provides database access for club recruitment.
type VacancyRepository struct {
	db *sqlx.DB
}

// NewVacancyRepository creates a new instance of VacancyRepository.
func NewVacancyRepository(db *sqlx.DB) *VacancyRepository {
	return &VacancyRepository{db: db}
}

const vacancyColumns = `id, club_id, club_name, title, skills, openings, created_at`

// List returns all open vacancies, newest first.
func (r *VacancyRepository) List(ctx context.Context) ([]models.Vacancy, error) {
	const query = `SELECT ` + vacancyColumns + ` FROM vacancies WHERE openings > 0 ORDER BY created_at DESC`
	var vacancies []models.Vacancy
	if err := r.db.SelectContext(ctx, &vacancies, query); err != nil {
		return nil, fmt.Errorf("list vacancies: %w", err)
	}
	return vacancies, nil
}

// ListByClub returns a club's own postings, newest first.
func (r *VacancyRepository) ListByClub(ctx context.Context, clubID string) ([]models.Vacancy, error) {
	const query = `SELECT ` + vacancyColumns + ` FROM vacancies WHERE club_id = $1 ORDER BY created_at DESC`
	var vacancies []models.Vacancy
	if err := r.db.SelectContext(ctx, &vacancies, query, clubID); err != nil {
		return nil, fmt.Errorf("list vacancies by club: %w", err)
	}
	return vacancies, nil
}

// FindByID returns one vacancy by identifier.
func (r *VacancyRepository) FindByID(ctx context.Context, id string) (*models.Vacancy, error) {
	const query = `SELECT ` + vacancyColumns + ` FROM vacancies WHERE id = $1 LIMIT 1`
	var vacancy models.Vacancy
	if err := r.db.GetContext(ctx, &vacancy, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find vacancy: %w", err)
	}
	return &vacancy, nil
}

// Create inserts a vacancy posting.
func (r *VacancyRepository) Create(ctx context.Context, vacancy *models.Vacancy) error {
	if vacancy.ID == "" {
		vacancy.ID = uuid.NewString()
	}
	if vacancy.CreatedAt.IsZero() {
		vacancy.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO vacancies (id, club_id, club_name, title, skills, openings, created_at) VALUES (:id, :club_id, :club_name, :title, :skills, :openings, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, vacancy); err != nil {
		return fmt.Errorf("create vacancy: %w", err)
	}
	return nil
}

const applicationColumns = `id, vacancy_id, student_id, student_name, status, applied_at, updated_at`

// CreateApplication records a student's application. One application per
// student per vacancy.
func (r *VacancyRepository) CreateApplication(ctx context.Context, app *models.JobApplication) error {
	var exists bool
	const dupQuery = `SELECT EXISTS (SELECT 1 FROM job_applications WHERE vacancy_id = $1 AND student_id = $2)`
	if err := r.db.GetContext(ctx, &exists, dupQuery, app.VacancyID, app.StudentID); err != nil {
		return fmt.Errorf("check duplicate application: %w", err)
	}
	if exists {
		return ErrDuplicateRegistration
	}

	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if app.AppliedAt.IsZero() {
		app.AppliedAt = now
	}
	app.UpdatedAt = now
	app.Status = models.ApplicationPending

	const query = `INSERT INTO job_applications (id, vacancy_id, student_id, student_name, status, applied_at, updated_at) VALUES (:id, :vacancy_id, :student_id, :student_name, :status, :applied_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, app); err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

// ListApplications returns applications against a vacancy, oldest first.
func (r *VacancyRepository) ListApplications(ctx context.Context, vacancyID string) ([]models.JobApplication, error) {
	const query = `SELECT ` + applicationColumns + ` FROM job_applications WHERE vacancy_id = $1 ORDER BY applied_at ASC`
	var apps []models.JobApplication
	if err := r.db.SelectContext(ctx, &apps, query, vacancyID); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// ListApplicationsByStudent returns a student's applications, newest first.
func (r *VacancyRepository) ListApplicationsByStudent(ctx context.Context, studentID string) ([]models.JobApplication, error) {
	const query = `SELECT ` + applicationColumns + ` FROM job_applications WHERE student_id = $1 ORDER BY applied_at DESC`
	var apps []models.JobApplication
	if err := r.db.SelectContext(ctx, &apps, query, studentID); err != nil {
		return nil, fmt.Errorf("list applications by student: %w", err)
	}
	return apps, nil
}

// UpdateApplicationStatus moves an application through the review pipeline.
func (r *VacancyRepository) UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	const query = `UPDATE job_applications SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	return nil
}
