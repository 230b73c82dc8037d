package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusconnect/portal-api/internal/models"
	"github.com/campusconnect/portal-api/internal/repository"
	appErrors "github.com/campusconnect/portal-api/pkg/errors"
)

type approvalRepository interface {
	ListODRequests(ctx context.Context, status *models.ApprovalStatus) ([]models.ODRequest, error)
	FindODRequest(ctx context.Context, id string) (*models.ODRequest, error)
	CreateODRequest(ctx context.Context, req *models.ODRequest) error
	DecideODRequest(ctx context.Context, id string, status models.ApprovalStatus) error
	ListProposals(ctx context.Context, status *models.ApprovalStatus) ([]models.ExternalProposal, error)
	CreateProposal(ctx context.Context, p *models.ExternalProposal) error
	DecideProposal(ctx context.Context, id string, status models.ApprovalStatus) error
	ListExternalCertificates(ctx context.Context, status *models.ApprovalStatus) ([]models.ExternalCertificate, error)
	FindExternalCertificate(ctx context.Context, id string) (*models.ExternalCertificate, error)
	CreateExternalCertificate(ctx context.Context, cert *models.ExternalCertificate) error
	DecideExternalCertificate(ctx context.Context, id string, status models.ApprovalStatus) error
}

type approvalNotifier interface {
	Notify(ctx context.Context, n *models.Notification) error
}

type certificateIssuer interface {
	IssueForExternal(ctx context.Context, cert *models.ExternalCertificate) error
}

// ApprovalService runs the FA decision queues. Every decision is once-only:
// a request already decided rejects a second decision instead of silently
// overwriting it, and each decision notifies the student at most once.
type ApprovalService struct {
	repo      approvalRepository
	notifier  approvalNotifier
	issuer    certificateIssuer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewApprovalService constructs an ApprovalService.
func NewApprovalService(repo approvalRepository, notifier approvalNotifier, issuer certificateIssuer, validate *validator.Validate, logger *zap.Logger) *ApprovalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ApprovalService{repo: repo, notifier: notifier, issuer: issuer, validator: validate, logger: logger}
}

func parseStatusFilter(raw string) (*models.ApprovalStatus, error) {
	if raw == "" {
		return nil, nil
	}
	status := models.ApprovalStatus(raw)
	switch status {
	case models.ApprovalPending, models.ApprovalApproved, models.ApprovalRejected:
		return &status, nil
	}
	return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", raw))
}

func parseDecision(raw string) (models.ApprovalStatus, error) {
	status := models.ApprovalStatus(raw)
	switch status {
	case models.ApprovalApproved, models.ApprovalRejected:
		return status, nil
	}
	return "", appErrors.Clone(appErrors.ErrValidation, "decision must be Approved or Rejected")
}

// ListODRequests returns the OD queue, optionally narrowed by status.
func (s *ApprovalService) ListODRequests(ctx context.Context, statusRaw string) ([]models.ODRequest, error) {
	status, err := parseStatusFilter(statusRaw)
	if err != nil {
		return nil, err
	}
	requests, err := s.repo.ListODRequests(ctx, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list od requests")
	}
	return requests, nil
}

// SubmitODRequest files a student's OD request.
func (s *ApprovalService) SubmitODRequest(ctx context.Context, req *models.ODRequest) error {
	if req.StudentID == "" || req.EventName == "" {
		return appErrors.Clone(appErrors.ErrValidation, "student and event are required")
	}
	if err := s.repo.CreateODRequest(ctx, req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create od request")
	}
	return nil
}

// DecideODRequest records the FA's decision and notifies the student once.
func (s *ApprovalService) DecideODRequest(ctx context.Context, id, decisionRaw string) (*models.ODRequest, error) {
	decision, err := parseDecision(decisionRaw)
	if err != nil {
		return nil, err
	}

	req, err := s.repo.FindODRequest(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "od request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load od request")
	}

	if err := s.repo.DecideODRequest(ctx, id, decision); err != nil {
		if errors.Is(err, repository.ErrAlreadyDecided) {
			return nil, appErrors.Clone(appErrors.ErrAlreadyDecided, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decide od request")
	}

	s.notifyDecision(ctx, req.StudentID, models.NotificationTypeOD, req.ID,
		fmt.Sprintf("OD request %s", decision),
		fmt.Sprintf("Your on-duty request for %q has been %s.", req.EventName, lower(decision)))

	req.Status = decision
	return req, nil
}

// ListProposals returns the external event proposal queue.
func (s *ApprovalService) ListProposals(ctx context.Context, statusRaw string) ([]models.ExternalProposal, error) {
	status, err := parseStatusFilter(statusRaw)
	if err != nil {
		return nil, err
	}
	proposals, err := s.repo.ListProposals(ctx, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list proposals")
	}
	return proposals, nil
}

// SubmitProposal files a club's external event proposal.
func (s *ApprovalService) SubmitProposal(ctx context.Context, p *models.ExternalProposal) error {
	if p.ClubName == "" || p.EventName == "" {
		return appErrors.Clone(appErrors.ErrValidation, "club and event are required")
	}
	if err := s.repo.CreateProposal(ctx, p); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create proposal")
	}
	return nil
}

// DecideProposal records the FA's once-only decision on a proposal.
func (s *ApprovalService) DecideProposal(ctx context.Context, id, decisionRaw string) error {
	decision, err := parseDecision(decisionRaw)
	if err != nil {
		return err
	}
	if err := s.repo.DecideProposal(ctx, id, decision); err != nil {
		if errors.Is(err, repository.ErrAlreadyDecided) {
			return appErrors.Clone(appErrors.ErrAlreadyDecided, "")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decide proposal")
	}
	return nil
}

// ListExternalCertificates returns the external certificate queue.
func (s *ApprovalService) ListExternalCertificates(ctx context.Context, statusRaw string) ([]models.ExternalCertificate, error) {
	status, err := parseStatusFilter(statusRaw)
	if err != nil {
		return nil, err
	}
	certs, err := s.repo.ListExternalCertificates(ctx, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list external certificates")
	}
	return certs, nil
}

// SubmitExternalCertificate files a student's external achievement proof.
func (s *ApprovalService) SubmitExternalCertificate(ctx context.Context, cert *models.ExternalCertificate) error {
	if cert.StudentID == "" || cert.EventName == "" || cert.Proof == "" {
		return appErrors.Clone(appErrors.ErrValidation, "student, event and proof are required")
	}
	if err := s.repo.CreateExternalCertificate(ctx, cert); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create external certificate")
	}
	return nil
}

// DecideExternalCertificate records the FA's decision; an approval converts
// the submission into an issued certificate so the credits count immediately.
func (s *ApprovalService) DecideExternalCertificate(ctx context.Context, id, decisionRaw string) (*models.ExternalCertificate, error) {
	decision, err := parseDecision(decisionRaw)
	if err != nil {
		return nil, err
	}

	cert, err := s.repo.FindExternalCertificate(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "external certificate not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load external certificate")
	}

	if err := s.repo.DecideExternalCertificate(ctx, id, decision); err != nil {
		if errors.Is(err, repository.ErrAlreadyDecided) {
			return nil, appErrors.Clone(appErrors.ErrAlreadyDecided, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decide external certificate")
	}

	if decision == models.ApprovalApproved && s.issuer != nil {
		if err := s.issuer.IssueForExternal(ctx, cert); err != nil {
			s.logger.Error("failed to issue certificate for approved submission",
				zap.String("submission_id", cert.ID), zap.Error(err))
		}
	}

	s.notifyDecision(ctx, cert.StudentID, models.NotificationTypeCertificate, cert.ID,
		fmt.Sprintf("External certificate %s", decision),
		fmt.Sprintf("Your certificate for %q has been %s.", cert.EventName, lower(decision)))

	cert.Status = decision
	return cert, nil
}

func (s *ApprovalService) notifyDecision(ctx context.Context, studentID, notifType, referenceID, title, message string) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Notify(ctx, &models.Notification{
		StudentID:   studentID,
		Title:       title,
		Message:     message,
		Type:        notifType,
		ReferenceID: referenceID,
	})
	if err != nil {
		s.logger.Warn("failed to enqueue decision notification",
			zap.String("student_id", studentID), zap.Error(err))
	}
}

func lower(status models.ApprovalStatus) string {
	switch status {
	case models.ApprovalApproved:
		return "approved"
	case models.ApprovalRejected:
		return "rejected"
	}
	return "updated"
}
