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

const certificateColumns = `id, student_id, student_name, event_id, event_name, title, credit_type, issued_by, issued_at, created_at`

// CertificateRepository provides database access for issued certificates.
type CertificateRepository struct {
	db *sqlx.DB
}

// NewCertificateRepository creates a new instance of CertificateRepository.
func NewCertificateRepository(db *sqlx.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

// ListByStudent returns a student's certificates, newest first.
func (r *CertificateRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Certificate, error) {
	const query = `SELECT ` + certificateColumns + ` FROM certificates WHERE student_id = $1 ORDER BY issued_at DESC`
	var certs []models.Certificate
	if err := r.db.SelectContext(ctx, &certs, query, studentID); err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	return certs, nil
}

// FindByID returns one certificate by identifier.
func (r *CertificateRepository) FindByID(ctx context.Context, id string) (*models.Certificate, error) {
	const query = `SELECT ` + certificateColumns + ` FROM certificates WHERE id = $1 LIMIT 1`
	var cert models.Certificate
	if err := r.db.GetContext(ctx, &cert, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find certificate: %w", err)
	}
	return &cert, nil
}

// Create inserts an issued certificate.
func (r *CertificateRepository) Create(ctx context.Context, cert *models.Certificate) error {
	if cert.ID == "" {
		cert.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if cert.IssuedAt.IsZero() {
		cert.IssuedAt = now
	}
	if cert.CreatedAt.IsZero() {
		cert.CreatedAt = now
	}

	const query = `INSERT INTO certificates (id, student_id, student_name, event_id, event_name, title, credit_type, issued_by, issued_at, created_at) VALUES (:id, :student_id, :student_name, :event_id, :event_name, :title, :credit_type, :issued_by, :issued_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, cert); err != nil {
		return fmt.Errorf("create certificate: %w", err)
	}
	return nil
}

// CreditCount is an earned tally for one credit group.
type CreditCount struct {
	CreditType models.CreditType `db:"credit_type"`
	Count      int               `db:"count"`
}

// CountIssuedSince counts certificates issued after the given instant.
func (r *CertificateRepository) CountIssuedSince(ctx context.Context, since time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM certificates WHERE issued_at >= $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, since); err != nil {
		return 0, fmt.Errorf("count issued certificates: %w", err)
	}
	return count, nil
}

// CountCreditsByStudent tallies a student's certificates per credit group.
func (r *CertificateRepository) CountCreditsByStudent(ctx context.Context, studentID string) ([]CreditCount, error) {
	const query = `SELECT credit_type, COUNT(*) AS count FROM certificates WHERE student_id = $1 AND credit_type <> 'None' GROUP BY credit_type`
	var counts []CreditCount
	if err := r.db.SelectContext(ctx, &counts, query, studentID); err != nil {
		return nil, fmt.Errorf("count credits: %w", err)
	}
	return counts, nil
}
