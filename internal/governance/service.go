// Package governance keeps the immutable ledger of sign-offs and vendor
// claims for AI systems. There is no workflow engine: each record is one
// more point-in-time assertion, by design.
package governance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"hindsight/internal/record"
	recordmetrics "hindsight/internal/record/metrics"
	id "hindsight/pkg/domain"
	dErrors "hindsight/pkg/domain-errors"
	"hindsight/pkg/platform/sentinel"
	"hindsight/pkg/requestcontext"
)

// Service records governance approvals and vendor assertions.
type Service struct {
	store   record.Store
	metrics *recordmetrics.Metrics
}

// New constructs the governance service.
func New(store record.Store, metrics *recordmetrics.Metrics) *Service {
	return &Service{store: store, metrics: metrics}
}

// ApprovalInput is one governance sign-off outcome.
type ApprovalInput struct {
	SystemKey    string
	ApproverRole string
	Decision     string
	Conditions   string
	GrantedAt    time.Time
}

// RecordApproval appends an approval outcome for an existing AI system.
func (s *Service) RecordApproval(ctx context.Context, companyID id.CompanyID, input ApprovalInput) (*record.GovernanceApproval, error) {
	decision, err := record.ParseApprovalDecision(input.Decision)
	if err != nil {
		return nil, err
	}
	partition := s.store.ForCompany(companyID)
	system, err := partition.FindAISystemByKey(ctx, input.SystemKey)
	if err != nil {
		return nil, translate(err, "ai system")
	}

	grantedAt := input.GrantedAt
	if grantedAt.IsZero() {
		grantedAt = requestcontext.Now(ctx)
	}
	approval := &record.GovernanceApproval{
		ID:           id.ApprovalID(uuid.New()),
		SystemID:     system.ID,
		ApproverRole: input.ApproverRole,
		Decision:     decision,
		Conditions:   input.Conditions,
		GrantedAt:    grantedAt,
	}
	if err := approval.Validate(); err != nil {
		return nil, err
	}
	if err := partition.CreateApproval(ctx, approval); err != nil {
		return nil, translate(err, "ai system")
	}
	s.metrics.IncrementCreated("governance_approval")
	return approval, nil
}

// AssertionInput is one vendor self-reported claim.
type AssertionInput struct {
	SystemKey     string
	AssertionType string
	Statement     string
	HasEvidence   bool
	Risk          string
	AssertedAt    time.Time
}

// RecordAssertion appends a vendor assertion for an existing AI system.
func (s *Service) RecordAssertion(ctx context.Context, companyID id.CompanyID, input AssertionInput) (*record.VendorAssertion, error) {
	risk, err := record.ParseRiskClass(input.Risk)
	if err != nil {
		return nil, err
	}
	partition := s.store.ForCompany(companyID)
	system, err := partition.FindAISystemByKey(ctx, input.SystemKey)
	if err != nil {
		return nil, translate(err, "ai system")
	}

	assertedAt := input.AssertedAt
	if assertedAt.IsZero() {
		assertedAt = requestcontext.Now(ctx)
	}
	assertion := &record.VendorAssertion{
		ID:            id.AssertionID(uuid.New()),
		SystemID:      system.ID,
		AssertionType: input.AssertionType,
		Statement:     input.Statement,
		HasEvidence:   input.HasEvidence,
		Risk:          risk,
		AssertedAt:    assertedAt,
	}
	if err := assertion.Validate(); err != nil {
		return nil, err
	}
	if err := partition.CreateAssertion(ctx, assertion); err != nil {
		return nil, translate(err, "ai system")
	}
	s.metrics.IncrementCreated("vendor_assertion")
	return assertion, nil
}

// ListApprovals returns all approvals for the tenant, optionally narrowed
// to one system key.
func (s *Service) ListApprovals(ctx context.Context, companyID id.CompanyID, systemKey string) ([]*record.GovernanceApproval, error) {
	partition := s.store.ForCompany(companyID)
	systemIDs, err := resolveSystems(ctx, partition, systemKey)
	if err != nil {
		return nil, err
	}
	recs, err := partition.ListApprovals(ctx, systemIDs)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list approvals")
	}
	return recs, nil
}

// ListAssertions returns all vendor assertions for the tenant, optionally
// narrowed to one system key.
func (s *Service) ListAssertions(ctx context.Context, companyID id.CompanyID, systemKey string) ([]*record.VendorAssertion, error) {
	partition := s.store.ForCompany(companyID)
	systemIDs, err := resolveSystems(ctx, partition, systemKey)
	if err != nil {
		return nil, err
	}
	recs, err := partition.ListAssertions(ctx, systemIDs)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list assertions")
	}
	return recs, nil
}

func resolveSystems(ctx context.Context, partition record.Partition, systemKey string) ([]id.AISystemID, error) {
	if systemKey == "" {
		return nil, nil
	}
	system, err := partition.FindAISystemByKey(ctx, systemKey)
	if err != nil {
		return nil, translate(err, "ai system")
	}
	return []id.AISystemID{system.ID}, nil
}

func translate(err error, kind string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Newf(dErrors.CodeNotFound, "%s not found", kind)
	case errors.Is(err, sentinel.ErrForbidden):
		return dErrors.Newf(dErrors.CodeForbidden, "%s belongs to another tenant", kind)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "store unavailable")
}
