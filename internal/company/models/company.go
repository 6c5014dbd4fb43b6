package models

import (
	"time"

	id "hindsight/pkg/domain"
	dErrors "hindsight/pkg/domain-errors"
)

// Plan is the billing tier a company signed up under.
type Plan string

const (
	PlanStarter    Plan = "starter"
	PlanTeam       Plan = "team"
	PlanEnterprise Plan = "enterprise"
)

// ParsePlan validates an externally supplied plan string.
func ParsePlan(raw string) (Plan, error) {
	switch Plan(raw) {
	case PlanStarter, PlanTeam, PlanEnterprise:
		return Plan(raw), nil
	}
	return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown plan %q", raw)
}

// Status is the company lifecycle state. Companies are never deleted;
// suspension is the only off switch.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// Company is the tenant aggregate.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - CredentialHash stores only a bcrypt hash; the plaintext credential is
//     returned exactly once, at registration or reset
//   - Salt is the per-tenant anonymization key and never leaves the service
//   - The only permitted mutations are plan changes, credential resets, and
//     status changes, all of which emit audit events
type Company struct {
	ID             id.CompanyID `json:"id"`
	Name           string       `json:"name"`
	Plan           Plan         `json:"plan"`
	Status         Status       `json:"status"`
	CredentialHash string       `json:"-"`
	Salt           []byte       `json:"-"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (c *Company) IsActive() bool { return c.Status == StatusActive }

// NewCompany validates and constructs a company aggregate.
func NewCompany(companyID id.CompanyID, name string, plan Plan, credentialHash string, salt []byte, now time.Time) (*Company, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "company name is required")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "company name must be 128 characters or less")
	}
	if credentialHash == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "credential hash is required")
	}
	if len(salt) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "anonymization salt is required")
	}
	return &Company{
		ID:             companyID,
		Name:           name,
		Plan:           plan,
		Status:         StatusActive,
		CredentialHash: credentialHash,
		Salt:           salt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}
