package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusconnect/portal-api/internal/models"
	"github.com/campusconnect/portal-api/internal/repository"
	appErrors "github.com/campusconnect/portal-api/pkg/errors"
)

type mockApprovalRepo struct {
	odRequests map[string]*models.ODRequest
	certs      map[string]*models.ExternalCertificate
}

func (m *mockApprovalRepo) ListODRequests(ctx context.Context, status *models.ApprovalStatus) ([]models.ODRequest, error) {
	var out []models.ODRequest
	for _, r := range m.odRequests {
		if status == nil || r.Status == *status {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockApprovalRepo) FindODRequest(ctx context.Context, id string) (*models.ODRequest, error) {
	if r, ok := m.odRequests[id]; ok {
		copy := *r
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockApprovalRepo) CreateODRequest(ctx context.Context, req *models.ODRequest) error {
	if m.odRequests == nil {
		m.odRequests = map[string]*models.ODRequest{}
	}
	if req.ID == "" {
		req.ID = "od-new"
	}
	req.Status = models.ApprovalPending
	m.odRequests[req.ID] = req
	return nil
}

func (m *mockApprovalRepo) DecideODRequest(ctx context.Context, id string, status models.ApprovalStatus) error {
	r, ok := m.odRequests[id]
	if !ok || r.Status != models.ApprovalPending {
		return repository.ErrAlreadyDecided
	}
	r.Status = status
	return nil
}

func (m *mockApprovalRepo) ListProposals(ctx context.Context, status *models.ApprovalStatus) ([]models.ExternalProposal, error) {
	return nil, nil
}

func (m *mockApprovalRepo) CreateProposal(ctx context.Context, p *models.ExternalProposal) error {
	return nil
}

func (m *mockApprovalRepo) DecideProposal(ctx context.Context, id string, status models.ApprovalStatus) error {
	return nil
}

func (m *mockApprovalRepo) ListExternalCertificates(ctx context.Context, status *models.ApprovalStatus) ([]models.ExternalCertificate, error) {
	return nil, nil
}

func (m *mockApprovalRepo) FindExternalCertificate(ctx context.Context, id string) (*models.ExternalCertificate, error) {
	if c, ok := m.certs[id]; ok {
		copy := *c
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockApprovalRepo) CreateExternalCertificate(ctx context.Context, cert *models.ExternalCertificate) error {
	return nil
}

func (m *mockApprovalRepo) DecideExternalCertificate(ctx context.Context, id string, status models.ApprovalStatus) error {
	c, ok := m.certs[id]
	if !ok || c.Status != models.ApprovalPending {
		return repository.ErrAlreadyDecided
	}
	c.Status = status
	return nil
}

// mockNotifier dedupes like the real inbox: one entry per (student, type,
// reference).
type mockNotifier struct {
	delivered map[string]*models.Notification
}

func (m *mockNotifier) Notify(ctx context.Context, n *models.Notification) error {
	if m.delivered == nil {
		m.delivered = map[string]*models.Notification{}
	}
	key := n.StudentID + "|" + n.Type + "|" + n.ReferenceID
	if _, exists := m.delivered[key]; !exists {
		m.delivered[key] = n
	}
	return nil
}

type mockIssuer struct {
	issued []*models.ExternalCertificate
}

func (m *mockIssuer) IssueForExternal(ctx context.Context, cert *models.ExternalCertificate) error {
	m.issued = append(m.issued, cert)
	return nil
}

func TestApprovalServiceDecideODNotifiesOnce(t *testing.T) {
	repo := &mockApprovalRepo{odRequests: map[string]*models.ODRequest{
		"od1": {ID: "od1", StudentID: "s1", EventName: "Hackathon", Status: models.ApprovalPending},
	}}
	notifier := &mockNotifier{}
	svc := NewApprovalService(repo, notifier, nil, validator.New(), zap.NewNop())

	decided, err := svc.DecideODRequest(context.Background(), "od1", "Approved")
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalApproved, decided.Status)
	assert.Len(t, notifier.delivered, 1)

	// Second decision is rejected and produces no second notification.
	_, err = svc.DecideODRequest(context.Background(), "od1", "Rejected")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAlreadyDecided.Code, appErrors.FromError(err).Code)
	assert.Len(t, notifier.delivered, 1)
}

func TestApprovalServiceDecideODUnknownRequest(t *testing.T) {
	svc := NewApprovalService(&mockApprovalRepo{}, &mockNotifier{}, nil, validator.New(), zap.NewNop())

	_, err := svc.DecideODRequest(context.Background(), "missing", "Approved")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestApprovalServiceDecideODRejectsBadDecision(t *testing.T) {
	svc := NewApprovalService(&mockApprovalRepo{}, &mockNotifier{}, nil, validator.New(), zap.NewNop())

	_, err := svc.DecideODRequest(context.Background(), "od1", "Maybe")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestApprovalServiceApprovedExternalCertificateIssues(t *testing.T) {
	repo := &mockApprovalRepo{certs: map[string]*models.ExternalCertificate{
		"c1": {ID: "c1", StudentID: "s1", EventName: "National Quiz",
			CreditType: models.CreditGroup2, Status: models.ApprovalPending},
	}}
	notifier := &mockNotifier{}
	issuer := &mockIssuer{}
	svc := NewApprovalService(repo, notifier, issuer, validator.New(), zap.NewNop())

	decided, err := svc.DecideExternalCertificate(context.Background(), "c1", "Approved")
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalApproved, decided.Status)
	require.Len(t, issuer.issued, 1)
	assert.Equal(t, "s1", issuer.issued[0].StudentID)
	assert.Len(t, notifier.delivered, 1)
}

func TestApprovalServiceRejectedExternalCertificateDoesNotIssue(t *testing.T) {
	repo := &mockApprovalRepo{certs: map[string]*models.ExternalCertificate{
		"c1": {ID: "c1", StudentID: "s1", EventName: "National Quiz", Status: models.ApprovalPending},
	}}
	issuer := &mockIssuer{}
	svc := NewApprovalService(repo, &mockNotifier{}, issuer, validator.New(), zap.NewNop())

	_, err := svc.DecideExternalCertificate(context.Background(), "c1", "Rejected")
	require.NoError(t, err)
	assert.Empty(t, issuer.issued)
}
