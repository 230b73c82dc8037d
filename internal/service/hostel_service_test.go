package service

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusconnect/portal-api/internal/models"
	appErrors "github.com/campusconnect/portal-api/pkg/errors"
	"github.com/campusconnect/portal-api/pkg/jobs"
)

type mockHostelRepo struct {
	mu       sync.Mutex
	perms    map[string]*models.HostelPermission
	markSent chan string
}

func (m *mockHostelRepo) ListBySection(ctx context.Context, section string) ([]models.HostelPermission, error) {
	return nil, nil
}

func (m *mockHostelRepo) ListPending(ctx context.Context) ([]models.HostelPermission, error) {
	return nil, nil
}

func (m *mockHostelRepo) FindByID(ctx context.Context, id string) (*models.HostelPermission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.perms[id]; ok {
		copy := *p
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockHostelRepo) Create(ctx context.Context, perm *models.HostelPermission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.perms == nil {
		m.perms = map[string]*models.HostelPermission{}
	}
	if perm.ID == "" {
		perm.ID = "hp-new"
	}
	perm.Status = models.ApprovalPending
	m.perms[perm.ID] = perm
	return nil
}

func (m *mockHostelRepo) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	m.mu.Lock()
	if p, ok := m.perms[id]; ok {
		p.SentAt = &sentAt
	}
	m.mu.Unlock()
	if m.markSent != nil {
		m.markSent <- id
	}
	return nil
}

func (m *mockHostelRepo) Respond(ctx context.Context, id string, status models.ApprovalStatus) error {
	return nil
}

type mockHostelMailer struct {
	mu   sync.Mutex
	to   []string
	body string
}

func (m *mockHostelMailer) Send(ctx context.Context, to, toName, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.to = append(m.to, to)
	m.body = htmlBody
	return nil
}

func (m *mockHostelMailer) sent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.to)
}

func newTestHostelService(repo *mockHostelRepo, mailer *mockHostelMailer) *HostelService {
	cfg := jobs.QueueConfig{Workers: 1, MaxRetries: 1, RetryDelay: 10 * time.Millisecond}
	return NewHostelService(repo, mailer, nil, zap.NewNop(), "http://localhost:8080", cfg)
}

func TestHostelServiceSubmitFilesWithoutMailing(t *testing.T) {
	repo := &mockHostelRepo{}
	mailer := &mockHostelMailer{}
	svc := newTestHostelService(repo, mailer)
	// Queue deliberately not started; filing a request must not need it.

	perm := &models.HostelPermission{
		StudentID:       "s1",
		StudentName:     "Priya Raman",
		Section:         "A",
		HostelHeadEmail: "head@hostel.edu",
		FromDate:        time.Now(),
		ToDate:          time.Now().Add(48 * time.Hour),
	}
	require.NoError(t, svc.Submit(context.Background(), perm))

	assert.Equal(t, models.ApprovalPending, perm.Status)
	assert.Zero(t, mailer.sent())
}

func TestHostelServiceSendQueuesHostelHeadMail(t *testing.T) {
	repo := &mockHostelRepo{
		perms: map[string]*models.HostelPermission{
			"h1": {ID: "h1", StudentID: "s1", StudentName: "Priya Raman", RollNumber: "21CS042",
				Section: "A", HostelHeadEmail: "head@hostel.edu", Status: models.ApprovalPending,
				FromDate: time.Now(), ToDate: time.Now().Add(24 * time.Hour)},
		},
		markSent: make(chan string, 1),
	}
	mailer := &mockHostelMailer{}
	svc := newTestHostelService(repo, mailer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.StartQueue(ctx)
	defer svc.StopQueue()

	perm, err := svc.Send(context.Background(), "h1")
	require.NoError(t, err)
	assert.Equal(t, "h1", perm.ID)

	select {
	case id := <-repo.markSent:
		assert.Equal(t, "h1", id)
	case <-time.After(2 * time.Second):
		t.Fatal("hostel mail was never dispatched")
	}

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	require.Len(t, mailer.to, 1)
	assert.Equal(t, "head@hostel.edu", mailer.to[0])
	assert.True(t, strings.Contains(mailer.body, "/hostel-permissions/h1/respond"))
}

func TestHostelServiceSendUnknownRequest(t *testing.T) {
	svc := newTestHostelService(&mockHostelRepo{}, &mockHostelMailer{})

	_, err := svc.Send(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestHostelServiceSendDecidedRequest(t *testing.T) {
	repo := &mockHostelRepo{
		perms: map[string]*models.HostelPermission{
			"h1": {ID: "h1", StudentID: "s1", HostelHeadEmail: "head@hostel.edu",
				Status: models.ApprovalApproved},
		},
	}
	mailer := &mockHostelMailer{}
	svc := newTestHostelService(repo, mailer)

	_, err := svc.Send(context.Background(), "h1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAlreadyDecided.Code, appErrors.FromError(err).Code)
	assert.Zero(t, mailer.sent())
}
