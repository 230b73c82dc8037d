package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusconnect/portal-api/internal/models"
	"github.com/campusconnect/portal-api/internal/repository"
	appErrors "github.com/campusconnect/portal-api/pkg/errors"
)

type vacancyRepository interface {
	List(ctx context.Context) ([]models.Vacancy, error)
	ListByClub(ctx context.Context, clubID string) ([]models.Vacancy, error)
	FindByID(ctx context.Context, id string) (*models.Vacancy, error)
	Create(ctx context.Context, vacancy *models.Vacancy) error
	CreateApplication(ctx context.Context, app *models.JobApplication) error
	ListApplications(ctx context.Context, vacancyID string) ([]models.JobApplication, error)
	ListApplicationsByStudent(ctx context.Context, studentID string) ([]models.JobApplication, error)
	UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus) error
}

// VacancyService runs club recruitment: postings, applications and review.
type VacancyService struct {
	repo      vacancyRepository
	notifier  approvalNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewVacancyService constructs a VacancyService.
func NewVacancyService(repo vacancyRepository, notifier approvalNotifier, validate *validator.Validate, logger *zap.Logger) *VacancyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &VacancyService{repo: repo, notifier: notifier, validator: validate, logger: logger}
}

// List returns open vacancies for the student board.
func (s *VacancyService) List(ctx context.Context) ([]models.Vacancy, error) {
	vacancies, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list vacancies")
	}
	return vacancies, nil
}

// ListByClub returns a club's own postings.
func (s *VacancyService) ListByClub(ctx context.Context, clubID string) ([]models.Vacancy, error) {
	vacancies, err := s.repo.ListByClub(ctx, clubID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list club vacancies")
	}
	return vacancies, nil
}

// Post publishes a vacancy.
func (s *VacancyService) Post(ctx context.Context, vacancy *models.Vacancy) error {
	if vacancy.ClubID == "" || vacancy.Title == "" {
		return appErrors.Clone(appErrors.ErrValidation, "club and title are required")
	}
	if vacancy.Openings <= 0 {
		vacancy.Openings = 1
	}
	if err := s.repo.Create(ctx, vacancy); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to post vacancy")
	}
	return nil
}

// Apply records a student's application against a vacancy.
func (s *VacancyService) Apply(ctx context.Context, vacancyID, studentID, studentName string) (*models.JobApplication, error) {
	if _, err := s.repo.FindByID(ctx, vacancyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "vacancy not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load vacancy")
	}

	app := &models.JobApplication{
		VacancyID:   vacancyID,
		StudentID:   studentID,
		StudentName: studentName,
	}
	if err := s.repo.CreateApplication(ctx, app); err != nil {
		if errors.Is(err, repository.ErrDuplicateRegistration) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "already applied to this vacancy")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to apply")
	}
	return app, nil
}

// ListApplications returns applications against a vacancy for review.
func (s *VacancyService) ListApplications(ctx context.Context, vacancyID string) ([]models.JobApplication, error) {
	apps, err := s.repo.ListApplications(ctx, vacancyID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}
	return apps, nil
}

// ListApplicationsByStudent returns a student's own applications.
func (s *VacancyService) ListApplicationsByStudent(ctx context.Context, studentID string) ([]models.JobApplication, error) {
	apps, err := s.repo.ListApplicationsByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student applications")
	}
	return apps, nil
}

// Review moves an application to Shortlisted or Rejected and notifies the
// applicant.
func (s *VacancyService) Review(ctx context.Context, applicationID, studentID, statusRaw string) error {
	status := models.ApplicationStatus(statusRaw)
	switch status {
	case models.ApplicationShortlisted, models.ApplicationRejected:
	default:
		return appErrors.Clone(appErrors.ErrValidation, "status must be Shortlisted or Rejected")
	}

	if err := s.repo.UpdateApplicationStatus(ctx, applicationID, status); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update application")
	}

	if s.notifier != nil && studentID != "" {
		title := "Application update"
		message := "Your club application status changed to " + string(status) + "."
		if err := s.notifier.Notify(ctx, &models.Notification{
			StudentID:   studentID,
			Title:       title,
			Message:     message,
			Type:        models.NotificationTypeApplication,
			ReferenceID: applicationID,
		}); err != nil {
			s.logger.Warn("failed to enqueue application notification", zap.Error(err))
		}
	}
	return nil
}
