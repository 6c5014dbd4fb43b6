// Package store defines persistence for company aggregates. Two
// implementations exist: an in-memory store for tests and single-node use,
// and a PostgreSQL store for production.
package store

import (
	"context"
	"time"

	"hindsight/internal/company/models"
	id "hindsight/pkg/domain"
)

// Store persists companies. Companies are never deleted; the interface
// exposes exactly the mutations the domain permits.
type Store interface {
	// Create inserts a new company. Returns sentinel.ErrConflict if the
	// name is already taken (case-insensitive).
	Create(ctx context.Context, company *models.Company) error

	// FindByID returns the company or sentinel.ErrNotFound.
	FindByID(ctx context.Context, companyID id.CompanyID) (*models.Company, error)

	// UpdatePlan changes the billing tier. Audited at the service layer.
	UpdatePlan(ctx context.Context, companyID id.CompanyID, plan models.Plan, now time.Time) (*models.Company, error)

	// UpdateCredentialHash swaps the stored credential hash after a reset.
	UpdateCredentialHash(ctx context.Context, companyID id.CompanyID, hash string, now time.Time) (*models.Company, error)
}
