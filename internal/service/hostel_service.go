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
	"github.com/campusconnect/portal-api/pkg/jobs"
)

type hostelRepository interface {
	ListBySection(ctx context.Context, section string) ([]models.HostelPermission, error)
	ListPending(ctx context.Context) ([]models.HostelPermission, error)
	FindByID(ctx context.Context, id string) (*models.HostelPermission, error)
	Create(ctx context.Context, perm *models.HostelPermission) error
	MarkSent(ctx context.Context, id string, sentAt time.Time) error
	Respond(ctx context.Context, id string, status models.ApprovalStatus) error
}

type hostelMailer interface {
	Send(ctx context.Context, to, toName, subject, htmlBody string) error
}

type hostelCache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

const hostelMailJobType = "hostel_permission_mail"

// PendingHostelSnapshot is the cached payload the poller refreshes for the
// FA dashboard counter.
type PendingHostelSnapshot struct {
	Count       int       `json:"count"`
	OldestID    string    `json:"oldest_id,omitempty"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// HostelSnapshotKey is where the pending-permissions snapshot lives in Redis.
const HostelSnapshotKey = "hostel:pending_snapshot"

// HostelService manages permission requests routed from the FA to the hostel
// head: mail dispatch runs through the job queue, the head answers via a
// signed link, and a background poller keeps a pending-count snapshot warm.
type HostelService struct {
	repo      hostelRepository
	mailer    hostelMailer
	cache     hostelCache
	queue     *jobs.Queue
	logger    *zap.Logger
	publicURL string
	onMail    func()
}

// NewHostelService constructs a HostelService. Call StartQueue before Send.
func NewHostelService(repo hostelRepository, mailer hostelMailer, cache hostelCache, logger *zap.Logger, publicURL string, queueCfg jobs.QueueConfig) *HostelService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &HostelService{
		repo:      repo,
		mailer:    mailer,
		cache:     cache,
		logger:    logger,
		publicURL: publicURL,
	}
	s.queue = jobs.NewQueue("hostel-mail", s.handleMailJob, queueCfg)
	return s
}

// SetMailObserver registers a callback fired after each successful dispatch.
func (s *HostelService) SetMailObserver(fn func()) {
	s.onMail = fn
}

// StartQueue launches the mail dispatch workers.
func (s *HostelService) StartQueue(ctx context.Context) {
	s.queue.Start(ctx)
}

// StopQueue drains the mail dispatch workers.
func (s *HostelService) StopQueue() {
	s.queue.Stop()
}

// ListBySection returns a section's permission requests for the FA screen.
func (s *HostelService) ListBySection(ctx context.Context, section string) ([]models.HostelPermission, error) {
	perms, err := s.repo.ListBySection(ctx, section)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list hostel permissions")
	}
	return perms, nil
}

// Submit files a permission request. No mail goes out here: the FA reviews
// the request on the section list and triggers dispatch with Send.
func (s *HostelService) Submit(ctx context.Context, perm *models.HostelPermission) error {
	if perm.StudentID == "" || perm.HostelHeadEmail == "" {
		return appErrors.Clone(appErrors.ErrValidation, "student and hostel head email are required")
	}
	if perm.ToDate.Before(perm.FromDate) {
		return appErrors.Clone(appErrors.ErrValidation, "to date precedes from date")
	}

	if err := s.repo.Create(ctx, perm); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create hostel permission")
	}
	return nil
}

// Send queues the hostel-head mail for a pending request. Re-sending a
// still-pending request re-issues the link; a decided request is rejected.
func (s *HostelService) Send(ctx context.Context, id string) (*models.HostelPermission, error) {
	perm, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "permission request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load permission request")
	}

	if perm.Status != models.ApprovalPending {
		return nil, appErrors.Clone(appErrors.ErrAlreadyDecided, "")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: perm.ID, Type: hostelMailJobType, Payload: perm.ID}); err != nil {
		s.logger.Warn("failed to enqueue hostel mail", zap.String("permission_id", perm.ID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue hostel mail")
	}
	return perm, nil
}

// Respond records the hostel head's decision arriving through the mail link.
func (s *HostelService) Respond(ctx context.Context, id, decisionRaw string) (*models.HostelPermission, error) {
	decision, err := parseDecision(decisionRaw)
	if err != nil {
		return nil, err
	}

	perm, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "permission request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load permission request")
	}

	if err := s.repo.Respond(ctx, id, decision); err != nil {
		if errors.Is(err, repository.ErrAlreadyDecided) {
			return nil, appErrors.Clone(appErrors.ErrAlreadyDecided, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record response")
	}

	perm.Status = decision
	now := time.Now().UTC()
	perm.RespondedAt = &now
	return perm, nil
}

// RefreshSnapshot recomputes the pending-permissions snapshot. Registered as
// a poll task; the poller guarantees one run in flight at a time.
func (s *HostelService) RefreshSnapshot(ctx context.Context) error {
	pending, err := s.repo.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("load pending permissions: %w", err)
	}

	snapshot := PendingHostelSnapshot{
		Count:       len(pending),
		RefreshedAt: time.Now().UTC(),
	}
	if len(pending) > 0 {
		snapshot.OldestID = pending[0].ID
	}

	if s.cache == nil {
		return nil
	}
	if err := s.cache.Set(ctx, HostelSnapshotKey, snapshot, 0); err != nil {
		return fmt.Errorf("store pending snapshot: %w", err)
	}
	return nil
}

func (s *HostelService) handleMailJob(ctx context.Context, job jobs.Job) error {
	id, ok := job.Payload.(string)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}

	perm, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load permission %s: %w", id, err)
	}

	respondURL := fmt.Sprintf("%s/api/v1/hostel-permissions/%s/respond", s.publicURL, perm.ID)
	subject := fmt.Sprintf("Hostel permission request: %s (%s)", perm.StudentName, perm.RollNumber)
	body := fmt.Sprintf(
		`<p>%s (%s, section %s) has requested permission from %s to %s.</p>
<p>Reason: %s</p>
<p><a href="%s?decision=Approved">Approve</a> &nbsp; <a href="%s?decision=Rejected">Reject</a></p>`,
		perm.StudentName, perm.RollNumber, perm.Section,
		perm.FromDate.Format("02 Jan 2006"), perm.ToDate.Format("02 Jan 2006"),
		perm.Reason, respondURL, respondURL)

	if err := s.mailer.Send(ctx, perm.HostelHeadEmail, "", subject, body); err != nil {
		return fmt.Errorf("send hostel mail: %w", err)
	}

	if err := s.repo.MarkSent(ctx, perm.ID, time.Now().UTC()); err != nil {
		s.logger.Warn("failed to mark permission sent", zap.String("permission_id", perm.ID), zap.Error(err))
	}
	if s.onMail != nil {
		s.onMail()
	}
	return nil
}
