// Package registry manages the declarative record kinds: AI system records
// and regulatory context snapshots. Both are created once and referenced by
// everything else, so this service sits upstream of disclosures, decisions,
// and governance.
package registry

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"hindsight/internal/audit"
	"hindsight/internal/record"
	recordmetrics "hindsight/internal/record/metrics"
	id "hindsight/pkg/domain"
	dErrors "hindsight/pkg/domain-errors"
	"hindsight/pkg/platform/sentinel"
	"hindsight/pkg/requestcontext"
)

// Service creates and reads AI system records and regulatory contexts.
type Service struct {
	store   record.Store
	audit   *audit.Emitter
	metrics *recordmetrics.Metrics
}

// New constructs the registry service.
func New(store record.Store, emitter *audit.Emitter, metrics *recordmetrics.Metrics) *Service {
	return &Service{store: store, audit: emitter, metrics: metrics}
}

// NewSystemInput carries the declared facts for one AI system.
type NewSystemInput struct {
	SystemKey      string
	Name           string
	Vendor         string
	SystemType     string
	Influence      string
	DataInputs     []string
	OverridePoints []string
	IntendedUse    string
	DeployedAt     time.Time
}

// RegisterSystem creates an AISystemRecord. The system key is unique within
// the tenant; a duplicate fails with conflict and never overwrites.
func (s *Service) RegisterSystem(ctx context.Context, companyID id.CompanyID, input NewSystemInput) (*record.AISystemRecord, error) {
	influence, err := record.ParseInfluenceLevel(input.Influence)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	deployedAt := input.DeployedAt
	if deployedAt.IsZero() {
		deployedAt = now
	}
	rec := &record.AISystemRecord{
		ID:             id.AISystemID(uuid.New()),
		SystemKey:      input.SystemKey,
		Name:           input.Name,
		Vendor:         input.Vendor,
		SystemType:     input.SystemType,
		Influence:      influence,
		DataInputs:     input.DataInputs,
		OverridePoints: input.OverridePoints,
		IntendedUse:    input.IntendedUse,
		DeployedAt:     deployedAt,
		Status:         record.SystemActive,
		CreatedAt:      now,
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	partition := s.store.ForCompany(companyID)
	if err := partition.CreateAISystem(ctx, rec); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Newf(dErrors.CodeConflict, "ai system %q already registered", input.SystemKey)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register ai system")
	}
	s.metrics.IncrementCreated("ai_system")
	return rec, nil
}

// GetSystem returns one AI system record by row id.
func (s *Service) GetSystem(ctx context.Context, companyID id.CompanyID, systemID id.AISystemID) (*record.AISystemRecord, error) {
	rec, err := s.store.ForCompany(companyID).GetAISystem(ctx, systemID)
	if err != nil {
		return nil, translateRead(err, "ai system")
	}
	return rec, nil
}

// ListSystems returns the tenant's AI systems, optionally narrowed by key.
func (s *Service) ListSystems(ctx context.Context, companyID id.CompanyID, systemKey string) ([]*record.AISystemRecord, error) {
	recs, err := s.store.ForCompany(companyID).ListAISystems(ctx, record.SystemFilter{SystemKey: systemKey})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list ai systems")
	}
	return recs, nil
}

// RetireSystem is the one sanctioned AI system mutation: an audited status
// change. The declared facts stay untouched.
func (s *Service) RetireSystem(ctx context.Context, companyID id.CompanyID, systemID id.AISystemID) (*record.AISystemRecord, error) {
	rec, err := s.store.ForCompany(companyID).RetireAISystem(ctx, systemID, requestcontext.Now(ctx))
	if err != nil {
		return nil, translateRead(err, "ai system")
	}
	s.audit.Emit(ctx, audit.Event{
		CompanyID: companyID,
		Action:    audit.ActionSystemRetired,
		Subject:   rec.SystemKey,
	})
	return rec, nil
}

// NewRegContextInput carries one regulation capture.
type NewRegContextInput struct {
	Jurisdiction  string
	Regulation    string
	Version       string
	EffectiveDate time.Time
	Obligations   map[string]string
	SourceRef     string
}

// CaptureRegContext snapshots a regulation as of now. New regulation
// versions are new snapshots; nothing is ever edited in place.
func (s *Service) CaptureRegContext(ctx context.Context, companyID id.CompanyID, input NewRegContextInput) (*record.RegContextSnapshot, error) {
	rec := &record.RegContextSnapshot{
		ID:            id.RegContextID(uuid.New()),
		Jurisdiction:  input.Jurisdiction,
		Regulation:    input.Regulation,
		Version:       input.Version,
		EffectiveDate: input.EffectiveDate,
		Obligations:   input.Obligations,
		SourceRef:     input.SourceRef,
		CapturedAt:    requestcontext.Now(ctx),
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.ForCompany(companyID).CreateRegContext(ctx, rec); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to capture regulatory context")
	}
	s.metrics.IncrementCreated("regulatory_context")
	return rec, nil
}

// GetRegContext returns one snapshot by id.
func (s *Service) GetRegContext(ctx context.Context, companyID id.CompanyID, regContextID id.RegContextID) (*record.RegContextSnapshot, error) {
	rec, err := s.store.ForCompany(companyID).GetRegContext(ctx, regContextID)
	if err != nil {
		return nil, translateRead(err, "regulatory context")
	}
	return rec, nil
}

// ListRegContexts returns snapshots, optionally narrowed by jurisdiction.
func (s *Service) ListRegContexts(ctx context.Context, companyID id.CompanyID, jurisdiction string) ([]*record.RegContextSnapshot, error) {
	recs, err := s.store.ForCompany(companyID).ListRegContexts(ctx, record.RegContextFilter{Jurisdiction: jurisdiction})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list regulatory contexts")
	}
	return recs, nil
}

// translateRead maps store sentinels on read paths into coded errors.
func translateRead(err error, kind string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Newf(dErrors.CodeNotFound, "%s not found", kind)
	case errors.Is(err, sentinel.ErrForbidden):
		return dErrors.Newf(dErrors.CodeForbidden, "%s belongs to another tenant", kind)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "store unavailable")
}
