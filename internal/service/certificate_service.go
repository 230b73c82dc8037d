package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campusconnect/portal-api/internal/models"
	"github.com/campusconnect/portal-api/internal/repository"
	appErrors "github.com/campusconnect/portal-api/pkg/errors"
	"github.com/campusconnect/portal-api/pkg/export"
)

type certificateRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Certificate, error)
	FindByID(ctx context.Context, id string) (*models.Certificate, error)
	Create(ctx context.Context, cert *models.Certificate) error
	CountCreditsByStudent(ctx context.Context, studentID string) ([]repository.CreditCount, error)
	CountIssuedSince(ctx context.Context, since time.Time) (int, error)
}

type certificateRenderer interface {
	RenderCertificate(cert export.Certificate) ([]byte, error)
}

type certificateCache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CertificateSnapshotKey is where the recently-issued tally lives in Redis.
const CertificateSnapshotKey = "certificates:issued_snapshot"

// IssuedCertificateSnapshot is the cached payload the poller refreshes for
// the admin certificates screen.
type IssuedCertificateSnapshot struct {
	IssuedLastDay int       `json:"issued_last_day"`
	RefreshedAt   time.Time `json:"refreshed_at"`
}

// CertificateService issues credentials and tracks credit progress against
// the department requirements.
type CertificateService struct {
	repo     certificateRepository
	renderer certificateRenderer
	cache    certificateCache
	logger   *zap.Logger
}

// NewCertificateService constructs a CertificateService.
func NewCertificateService(repo certificateRepository, renderer certificateRenderer, cache certificateCache, logger *zap.Logger) *CertificateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CertificateService{repo: repo, renderer: renderer, cache: cache, logger: logger}
}

// ListByStudent returns a student's issued certificates.
func (s *CertificateService) ListByStudent(ctx context.Context, studentID string) ([]models.Certificate, error) {
	certs, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list certificates")
	}
	return certs, nil
}

// Issue creates a certificate for a verified participant.
func (s *CertificateService) Issue(ctx context.Context, cert *models.Certificate) error {
	if cert.StudentID == "" || cert.EventName == "" {
		return appErrors.Clone(appErrors.ErrValidation, "student and event are required")
	}
	if cert.CreditType == "" {
		cert.CreditType = models.CreditNone
	}
	if err := s.repo.Create(ctx, cert); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue certificate")
	}
	s.logger.Info("certificate issued",
		zap.String("certificate_id", cert.ID),
		zap.String("student_id", cert.StudentID),
		zap.String("credit_type", string(cert.CreditType)))
	return nil
}

// IssueForExternal converts an approved external submission into an issued
// certificate. Invoked by the approval flow.
func (s *CertificateService) IssueForExternal(ctx context.Context, submission *models.ExternalCertificate) error {
	return s.Issue(ctx, &models.Certificate{
		StudentID:   submission.StudentID,
		StudentName: submission.StudentName,
		EventName:   submission.EventName,
		Title:       "External Achievement",
		CreditType:  submission.CreditType,
		IssuedBy:    "Department Office",
		IssuedAt:    time.Now().UTC(),
	})
}

// CreditProgress reports earned versus required credits for every group.
// Groups with no certificates still appear with a zero tally.
func (s *CertificateService) CreditProgress(ctx context.Context, studentID string) ([]models.CreditProgress, error) {
	counts, err := s.repo.CountCreditsByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count credits")
	}

	earned := map[models.CreditType]int{}
	for _, c := range counts {
		earned[c.CreditType] = c.Count
	}

	return []models.CreditProgress{
		{Group: models.CreditGroup2, Earned: earned[models.CreditGroup2], Required: models.RequiredGroup2Credits},
		{Group: models.CreditGroup3, Earned: earned[models.CreditGroup3], Required: models.RequiredGroup3Credits},
		{Group: models.CreditEE, Earned: earned[models.CreditEE], Required: models.RequiredEECredits},
	}, nil
}

// Download renders a certificate as a PDF document.
func (s *CertificateService) Download(ctx context.Context, id, studentID string) ([]byte, error) {
	cert, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "certificate not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load certificate")
	}
	if studentID != "" && cert.StudentID != studentID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "certificate belongs to another student")
	}

	doc, err := s.renderer.RenderCertificate(export.Certificate{
		StudentName: cert.StudentName,
		EventName:   cert.EventName,
		Title:       cert.Title,
		CreditGroup: string(cert.CreditType),
		IssuedBy:    cert.IssuedBy,
		IssuedOn:    cert.IssuedAt.Format("02 Jan 2006"),
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render certificate")
	}
	return doc, nil
}

// RefreshSnapshot recomputes the recently-issued tally. Registered as a poll
// task.
func (s *CertificateService) RefreshSnapshot(ctx context.Context) error {
	count, err := s.repo.CountIssuedSince(ctx, time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		return fmt.Errorf("count issued certificates: %w", err)
	}
	if s.cache == nil {
		return nil
	}
	snapshot := IssuedCertificateSnapshot{IssuedLastDay: count, RefreshedAt: time.Now().UTC()}
	if err := s.cache.Set(ctx, CertificateSnapshotKey, snapshot, 0); err != nil {
		return fmt.Errorf("store certificate snapshot: %w", err)
	}
	return nil
}
