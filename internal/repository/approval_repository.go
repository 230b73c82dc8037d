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

// ApprovalRepository provides database access for the FA approval queues:
// on-duty requests, external event proposals and external certificates.
type ApprovalRepository struct {
	db *sqlx.DB
}

// NewApprovalRepository creates a new instance of ApprovalRepository.
func NewApprovalRepository(db *sqlx.DB) *ApprovalRepository {
	return &ApprovalRepository{db: db}
}

const odColumns = `id, student_id, student_name, roll_number, event_name, event_date, status, decided_at, created_at`

// ListODRequests returns OD requests, optionally narrowed to one status.
// Pending requests first, then newest first within a status.
func (r *ApprovalRepository) ListODRequests(ctx context.Context, status *models.ApprovalStatus) ([]models.ODRequest, error) {
	query := `SELECT ` + odColumns + ` FROM od_requests`
	var args []interface{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY (status = 'Pending') DESC, created_at DESC`

	var requests []models.ODRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("list od requests: %w", err)
	}
	return requests, nil
}

// FindODRequest returns one OD request by identifier.
func (r *ApprovalRepository) FindODRequest(ctx context.Context, id string) (*models.ODRequest, error) {
	const query = `SELECT ` + odColumns + ` FROM od_requests WHERE id = $1 LIMIT 1`
	var req models.ODRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find od request: %w", err)
	}
	return &req, nil
}

// CreateODRequest inserts a student's OD request.
func (r *ApprovalRepository) CreateODRequest(ctx context.Context, req *models.ODRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	req.Status = models.ApprovalPending

	const query = `INSERT INTO od_requests (id, student_id, student_name, roll_number, event_name, event_date, status, created_at) VALUES (:id, :student_id, :student_name, :roll_number, :event_name, :event_date, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("create od request: %w", err)
	}
	return nil
}

// DecideODRequest records a decision. The status guard makes the decision
// once-only: a second decide affects zero rows and reports ErrAlreadyDecided.
func (r *ApprovalRepository) DecideODRequest(ctx context.Context, id string, status models.ApprovalStatus) error {
	const query = `UPDATE od_requests SET status = $2, decided_at = $3 WHERE id = $1 AND status = 'Pending'`
	res, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("decide od request: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrAlreadyDecided
	}
	return nil
}

const proposalColumns = `id, club_name, event_name, event_date, venue, event_type, status, decided_at, created_at`

// ListProposals returns external event proposals, pending first.
func (r *ApprovalRepository) ListProposals(ctx context.Context, status *models.ApprovalStatus) ([]models.ExternalProposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM external_proposals`
	var args []interface{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY (status = 'Pending') DESC, created_at DESC`

	var proposals []models.ExternalProposal
	if err := r.db.SelectContext(ctx, &proposals, query, args...); err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	return proposals, nil
}

// CreateProposal inserts a club's external event proposal.
func (r *ApprovalRepository) CreateProposal(ctx context.Context, p *models.ExternalProposal) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.Status = models.ApprovalPending

	const query = `INSERT INTO external_proposals (id, club_name, event_name, event_date, venue, event_type, status, created_at) VALUES (:id, :club_name, :event_name, :event_date, :venue, :event_type, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("create proposal: %w", err)
	}
	return nil
}

// DecideProposal records a once-only decision on a proposal.
func (r *ApprovalRepository) DecideProposal(ctx context.Context, id string, status models.ApprovalStatus) error {
	const query = `UPDATE external_proposals SET status = $2, decided_at = $3 WHERE id = $1 AND status = 'Pending'`
	res, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("decide proposal: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrAlreadyDecided
	}
	return nil
}

const externalCertColumns = `id, student_id, student_name, roll_number, event_name, event_date, proof, credit_type, status, decided_at, created_at`

// ListExternalCertificates returns submitted external certificates, pending first.
func (r *ApprovalRepository) ListExternalCertificates(ctx context.Context, status *models.ApprovalStatus) ([]models.ExternalCertificate, error) {
	query := `SELECT ` + externalCertColumns + ` FROM external_certificates`
	var args []interface{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY (status = 'Pending') DESC, created_at DESC`

	var certs []models.ExternalCertificate
	if err := r.db.SelectContext(ctx, &certs, query, args...); err != nil {
		return nil, fmt.Errorf("list external certificates: %w", err)
	}
	return certs, nil
}

// FindExternalCertificate returns one submission by identifier.
func (r *ApprovalRepository) FindExternalCertificate(ctx context.Context, id string) (*models.ExternalCertificate, error) {
	const query = `SELECT ` + externalCertColumns + ` FROM external_certificates WHERE id = $1 LIMIT 1`
	var cert models.ExternalCertificate
	if err := r.db.GetContext(ctx, &cert, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find external certificate: %w", err)
	}
	return &cert, nil
}

// CreateExternalCertificate inserts a student's external achievement proof.
func (r *ApprovalRepository) CreateExternalCertificate(ctx context.Context, cert *models.ExternalCertificate) error {
	if cert.ID == "" {
		cert.ID = uuid.NewString()
	}
	if cert.CreatedAt.IsZero() {
		cert.CreatedAt = time.Now().UTC()
	}
	cert.Status = models.ApprovalPending

	const query = `INSERT INTO external_certificates (id, student_id, student_name, roll_number, event_name, event_date, proof, credit_type, status, created_at) VALUES (:id, :student_id, :student_name, :roll_number, :event_name, :event_date, :proof, :credit_type, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, cert); err != nil {
		return fmt.Errorf("create external certificate: %w", err)
	}
	return nil
}

// DecideExternalCertificate records a once-only decision on a submission.
func (r *ApprovalRepository) DecideExternalCertificate(ctx context.Context, id string, status models.ApprovalStatus) error {
	const query = `UPDATE external_certificates SET status = $2, decided_at = $3 WHERE id = $1 AND status = 'Pending'`
	res, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("decide external certificate: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrAlreadyDecided
	}
	return nil
}
