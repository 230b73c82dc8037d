package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campusconnect/portal-api/internal/models"
	appErrors "github.com/campusconnect/portal-api/pkg/errors"
	"github.com/campusconnect/portal-api/pkg/jobs"
)

type notificationRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Notification, error)
	CountUnread(ctx context.Context, studentID string) (int, error)
	Create(ctx context.Context, n *models.Notification) error
	MarkRead(ctx context.Context, id, studentID string) error
	MarkAllRead(ctx context.Context, studentID string) error
}

const notificationJobType = "student_notification"

// NotificationService maintains the student inbox. Writes flow through the
// job queue so approval decisions never block on inbox persistence; the
// repository's conflict target keeps delivery once-only per reference.
type NotificationService struct {
	repo   notificationRepository
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewNotificationService constructs a NotificationService. Call StartQueue
// before Notify.
func NewNotificationService(repo notificationRepository, logger *zap.Logger, queueCfg jobs.QueueConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{repo: repo, logger: logger}
	s.queue = jobs.NewQueue("notifications", s.handleJob, queueCfg)
	return s
}

// StartQueue launches the dispatch workers.
func (s *NotificationService) StartQueue(ctx context.Context) {
	s.queue.Start(ctx)
}

// StopQueue drains the dispatch workers.
func (s *NotificationService) StopQueue() {
	s.queue.Stop()
}

// Notify enqueues an inbox write.
func (s *NotificationService) Notify(ctx context.Context, n *models.Notification) error {
	return s.queue.Enqueue(jobs.Job{ID: n.ReferenceID, Type: notificationJobType, Payload: n})
}

// List returns a student's inbox, newest first.
func (s *NotificationService) List(ctx context.Context, studentID string) ([]models.Notification, error) {
	notifications, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	return notifications, nil
}

// UnreadCount returns the badge count.
func (s *NotificationService) UnreadCount(ctx context.Context, studentID string) (int, error) {
	count, err := s.repo.CountUnread(ctx, studentID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count unread notifications")
	}
	return count, nil
}

// MarkRead flags one notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, id, studentID string) error {
	if err := s.repo.MarkRead(ctx, id, studentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notification read")
	}
	return nil
}

// MarkAllRead clears the badge.
func (s *NotificationService) MarkAllRead(ctx context.Context, studentID string) error {
	if err := s.repo.MarkAllRead(ctx, studentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notifications read")
	}
	return nil
}

func (s *NotificationService) handleJob(ctx context.Context, job jobs.Job) error {
	n, ok := job.Payload.(*models.Notification)
	if !ok {
		s.logger.Error("unexpected notification payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.repo.Create(ctx, n)
}
