package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"hindsight/internal/company/models"
	id "hindsight/pkg/domain"
	"hindsight/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// Postgres persists companies in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed company store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, company *models.Company) error {
	query := `
		INSERT INTO companies (id, name, plan, status, credential_hash, anonymization_salt, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(company.ID),
		company.Name,
		string(company.Plan),
		string(company.Status),
		company.CredentialHash,
		company.Salt,
		company.CreatedAt,
		company.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, companyID id.CompanyID) (*models.Company, error) {
	query := `
		SELECT id, name, plan, status, credential_hash, anonymization_salt, created_at, updated_at
		FROM companies WHERE id = $1
	`
	return s.scanOne(s.db.QueryRowContext(ctx, query, uuid.UUID(companyID)))
}

func (s *Postgres) UpdatePlan(ctx context.Context, companyID id.CompanyID, plan models.Plan, now time.Time) (*models.Company, error) {
	query := `
		UPDATE companies SET plan = $2, updated_at = $3
		WHERE id = $1
		RETURNING id, name, plan, status, credential_hash, anonymization_salt, created_at, updated_at
	`
	return s.scanOne(s.db.QueryRowContext(ctx, query, uuid.UUID(companyID), string(plan), now))
}

func (s *Postgres) UpdateCredentialHash(ctx context.Context, companyID id.CompanyID, hash string, now time.Time) (*models.Company, error) {
	query := `
		UPDATE companies SET credential_hash = $2, updated_at = $3
		WHERE id = $1
		RETURNING id, name, plan, status, credential_hash, anonymization_salt, created_at, updated_at
	`
	return s.scanOne(s.db.QueryRowContext(ctx, query, uuid.UUID(companyID), hash, now))
}

func (s *Postgres) scanOne(row *sql.Row) (*models.Company, error) {
	var (
		companyID uuid.UUID
		company   models.Company
		plan      string
		status    string
	)
	err := row.Scan(
		&companyID,
		&company.Name,
		&plan,
		&status,
		&company.CredentialHash,
		&company.Salt,
		&company.CreatedAt,
		&company.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan company: %w", err)
	}
	company.ID = id.CompanyID(companyID)
	company.Plan = models.Plan(plan)
	company.Status = models.Status(status)
	return &company, nil
}
