// Package service orchestrates the tenant lifecycle: registration,
// credential authentication, and the few audited mutations companies allow.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hindsight/internal/audit"
	"hindsight/internal/company/cache"
	companymetrics "hindsight/internal/company/metrics"
	"hindsight/internal/company/models"
	"hindsight/internal/company/secrets"
	"hindsight/internal/company/store"
	id "hindsight/pkg/domain"
	dErrors "hindsight/pkg/domain-errors"
	"hindsight/pkg/platform/sentinel"
	"hindsight/pkg/requestcontext"
)

// Service manages company registration and credential authentication.
type Service struct {
	companies store.Store
	cache     *cache.CredentialCache
	audit     *audit.Emitter
	metrics   *companymetrics.Metrics
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithCache attaches the Redis credential cache.
func WithCache(c *cache.CredentialCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithMetrics attaches prometheus metrics.
func WithMetrics(m *companymetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the company service.
func New(companies store.Store, emitter *audit.Emitter, opts ...Option) *Service {
	s := &Service{companies: companies, audit: emitter}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a company and returns it together with the API
// credential. The credential is returned exactly once; only its bcrypt hash
// is stored. Loss of the credential requires ResetCredential.
func (s *Service) Register(ctx context.Context, name, plan string) (*models.Company, string, error) {
	name = strings.TrimSpace(name)
	parsedPlan, err := models.ParsePlan(plan)
	if err != nil {
		return nil, "", err
	}

	companyID := id.CompanyID(uuid.New())
	secret, err := secrets.Generate()
	if err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to register company")
	}
	hash, err := secrets.Hash(secret)
	if err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to register company")
	}
	salt, err := secrets.GenerateSalt()
	if err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to register company")
	}

	company, err := models.NewCompany(companyID, name, parsedPlan, hash, salt, requestcontext.Now(ctx))
	if err != nil {
		return nil, "", err
	}

	if err := s.companies.Create(ctx, company); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, "", dErrors.New(dErrors.CodeConflict, "company name must be unique")
		}
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to create company")
	}

	s.audit.Emit(ctx, audit.Event{
		CompanyID: company.ID,
		Action:    audit.ActionCompanyRegistered,
		Subject:   company.Name,
		Detail:    fmt.Sprintf("plan=%s", company.Plan),
	})
	s.metrics.IncrementRegistered()

	return company, Credential(company.ID, secret), nil
}

// Credential builds the wire form of an API credential. Embedding the
// company id lets Authenticate find the bcrypt hash without a table scan.
func Credential(companyID id.CompanyID, secret string) string {
	return companyID.String() + "." + secret
}

// Authenticate resolves a credential to the company that owns it.
// Fails with unauthorized for unknown, malformed, or suspended credentials;
// callers cannot distinguish those cases by design.
func (s *Service) Authenticate(ctx context.Context, credential string) (id.CompanyID, error) {
	start := time.Now()
	defer s.metrics.ObserveAuthenticate(start)

	if companyID, ok := s.cache.Lookup(ctx, credential); ok {
		s.metrics.IncrementCacheHit()
		return companyID, nil
	}

	rawID, secret, found := strings.Cut(credential, ".")
	if !found || secret == "" {
		return id.CompanyID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credential")
	}
	companyID, err := id.ParseCompanyID(rawID)
	if err != nil {
		return id.CompanyID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credential")
	}

	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return id.CompanyID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credential")
		}
		return id.CompanyID{}, dErrors.Wrap(err, dErrors.CodeInternal, "authentication unavailable")
	}
	if !company.IsActive() {
		return id.CompanyID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credential")
	}
	if err := secrets.Verify(secret, company.CredentialHash); err != nil {
		return id.CompanyID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credential")
	}

	s.cache.Store(ctx, credential, company.ID)
	return company.ID, nil
}

// Get returns the caller's own company record.
func (s *Service) Get(ctx context.Context, companyID id.CompanyID) (*models.Company, error) {
	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "company not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load company")
	}
	return company, nil
}

// UpdatePlan changes the billing tier. This is one of the two permitted
// company mutations and always emits an audit event.
func (s *Service) UpdatePlan(ctx context.Context, companyID id.CompanyID, plan string) (*models.Company, error) {
	parsedPlan, err := models.ParsePlan(plan)
	if err != nil {
		return nil, err
	}
	company, err := s.companies.UpdatePlan(ctx, companyID, parsedPlan, requestcontext.Now(ctx))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "company not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update plan")
	}
	s.audit.Emit(ctx, audit.Event{
		CompanyID: companyID,
		Action:    audit.ActionPlanChanged,
		Subject:   company.Name,
		Detail:    fmt.Sprintf("plan=%s", parsedPlan),
	})
	return company, nil
}

// ResetCredential issues a fresh credential, replacing the stored hash.
// The previous credential stops working immediately.
func (s *Service) ResetCredential(ctx context.Context, companyID id.CompanyID) (string, error) {
	secret, err := secrets.Generate()
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset credential")
	}
	hash, err := secrets.Hash(secret)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset credential")
	}

	company, err := s.companies.UpdateCredentialHash(ctx, companyID, hash, requestcontext.Now(ctx))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.New(dErrors.CodeNotFound, "company not found")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset credential")
	}

	s.cache.Invalidate(ctx, companyID)
	s.audit.Emit(ctx, audit.Event{
		CompanyID: companyID,
		Action:    audit.ActionCredentialReset,
		Subject:   company.Name,
	})
	return Credential(companyID, secret), nil
}

// Salt returns the per-tenant anonymization key. Only the anonymization
// module should call this; the salt never crosses the API boundary.
func (s *Service) Salt(ctx context.Context, companyID id.CompanyID) ([]byte, error) {
	company, err := s.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return company.Salt, nil
}
