package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/campusconnect/portal-api/internal/models"
	"github.com/campusconnect/portal-api/internal/repository"
	appErrors "github.com/campusconnect/portal-api/pkg/errors"
	"github.com/campusconnect/portal-api/pkg/export"
)

type attendanceRepository interface {
	ListByEvent(ctx context.Context, eventID string) ([]models.AttendanceRecord, error)
	Create(ctx context.Context, record *models.AttendanceRecord) error
	Decide(ctx context.Context, id string, status models.ApprovalStatus) error
	ListApprovedByEvent(ctx context.Context, eventID string) ([]models.AttendanceRecord, error)
}

type attendanceExporter interface {
	Render(data export.Dataset) ([]byte, error)
}

// AttendanceService verifies event participation claims and exports
// attendance sheets.
type AttendanceService struct {
	repo     attendanceRepository
	exporter attendanceExporter
	logger   *zap.Logger
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(repo attendanceRepository, exporter attendanceExporter, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, exporter: exporter, logger: logger}
}

// ListByEvent returns an event's attendance claims for the admin screen.
func (s *AttendanceService) ListByEvent(ctx context.Context, eventID string) ([]models.AttendanceRecord, error) {
	records, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	return records, nil
}

// Claim records a student's participation claim.
func (s *AttendanceService) Claim(ctx context.Context, record *models.AttendanceRecord) error {
	if record.EventID == "" || record.StudentID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "event and student are required")
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attendance claim")
	}
	return nil
}

// Decide verifies or rejects a claim, once only.
func (s *AttendanceService) Decide(ctx context.Context, id, decisionRaw string) error {
	decision, err := parseDecision(decisionRaw)
	if err != nil {
		return err
	}
	if err := s.repo.Decide(ctx, id, decision); err != nil {
		if errors.Is(err, repository.ErrAlreadyDecided) {
			return appErrors.Clone(appErrors.ErrAlreadyDecided, "")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decide attendance")
	}
	return nil
}

// ExportCSV renders the full attendance sheet of an event.
func (s *AttendanceService) ExportCSV(ctx context.Context, eventID string) ([]byte, string, error) {
	records, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}

	dataset := export.Dataset{
		Headers: []string{"Roll Number", "Student Name", "Status", "Marked At", "Decided At"},
	}
	for _, r := range records {
		decided := ""
		if r.DecidedAt != nil {
			decided = r.DecidedAt.Format("2006-01-02 15:04")
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Roll Number":  r.RollNumber,
			"Student Name": r.StudentName,
			"Status":       string(r.Status),
			"Marked At":    r.MarkedAt.Format("2006-01-02 15:04"),
			"Decided At":   decided,
		})
	}

	payload, err := s.exporter.Render(dataset)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render attendance sheet")
	}

	filename := fmt.Sprintf("attendance-%s.csv", eventID)
	return payload, filename, nil
}

// VerifiedAttendees returns the approved roster for certificate issuance.
func (s *AttendanceService) VerifiedAttendees(ctx context.Context, eventID string) ([]models.AttendanceRecord, error) {
	records, err := s.repo.ListApprovedByEvent(ctx, eventID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list verified attendees")
	}
	return records, nil
}
