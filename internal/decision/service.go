// Package decision captures hiring decision events and the human rationale
// entries appended to them. Both kinds are write-once; the rationale trail
// grows over time but never rewrites history.
package decision

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"hindsight/internal/anonymize"
	"hindsight/internal/record"
	recordmetrics "hindsight/internal/record/metrics"
	id "hindsight/pkg/domain"
	dErrors "hindsight/pkg/domain-errors"
	"hindsight/pkg/platform/sentinel"
	"hindsight/pkg/requestcontext"
)

// Service records decisions and rationales.
type Service struct {
	store   record.Store
	hasher  *anonymize.Hasher
	metrics *recordmetrics.Metrics
}

// New constructs the decision service.
func New(store record.Store, hasher *anonymize.Hasher, metrics *recordmetrics.Metrics) *Service {
	return &Service{store: store, hasher: hasher, metrics: metrics}
}

// RecordInput carries the decision facts. CandidateRawID is hashed at this
// boundary and discarded.
type RecordInput struct {
	CandidateRawID string
	RoleID         string
	SystemKey      string
	Decision       string
	Involvement    string
	DeciderRole    string
	DecidedAt      time.Time
}

// Record creates one immutable HiringDecisionEvent. A referenced AI system,
// if named, must already exist.
func (s *Service) Record(ctx context.Context, companyID id.CompanyID, input RecordInput) (*record.HiringDecisionEvent, error) {
	decisionType, err := record.ParseDecisionType(input.Decision)
	if err != nil {
		return nil, err
	}
	involvement, err := record.ParseInvolvement(input.Involvement)
	if err != nil {
		return nil, err
	}
	token, err := s.hasher.Token(ctx, companyID, input.CandidateRawID)
	if err != nil {
		return nil, err
	}

	partition := s.store.ForCompany(companyID)
	var systemID *id.AISystemID
	if input.SystemKey != "" {
		system, err := partition.FindAISystemByKey(ctx, input.SystemKey)
		if err != nil {
			return nil, translate(err, "ai system")
		}
		systemID = &system.ID
	}

	now := requestcontext.Now(ctx)
	decidedAt := input.DecidedAt
	if decidedAt.IsZero() {
		decidedAt = now
	}
	event := &record.HiringDecisionEvent{
		ID:             id.DecisionID(uuid.New()),
		CandidateToken: token,
		RoleID:         input.RoleID,
		SystemID:       systemID,
		Decision:       decisionType,
		Involvement:    involvement,
		DeciderRole:    input.DeciderRole,
		DecidedAt:      decidedAt,
		CreatedAt:      now,
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	if err := partition.CreateDecision(ctx, event); err != nil {
		return nil, translate(err, "ai system")
	}
	s.metrics.IncrementCreated("hiring_decision")
	return event, nil
}

// RationaleInput is one human-authored justification.
type RationaleInput struct {
	RationaleType string
	Summary       string
	Artifacts     []string
	Author        string
}

// LogRationale appends a rationale entry to an existing decision event.
// Fails with not_found when the decision does not exist; an orphaned
// rationale is never created.
func (s *Service) LogRationale(ctx context.Context, companyID id.CompanyID, decisionID id.DecisionID, input RationaleInput) (*record.RationaleEntry, error) {
	entry := &record.RationaleEntry{
		ID:            id.RationaleID(uuid.New()),
		DecisionID:    decisionID,
		RationaleType: input.RationaleType,
		Summary:       input.Summary,
		Artifacts:     input.Artifacts,
		Author:        input.Author,
		EnteredAt:     requestcontext.Now(ctx),
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.ForCompany(companyID).CreateRationale(ctx, entry); err != nil {
		return nil, translate(err, "decision event")
	}
	s.metrics.IncrementCreated("decision_rationale")
	return entry, nil
}

// Get returns one decision event.
func (s *Service) Get(ctx context.Context, companyID id.CompanyID, decisionID id.DecisionID) (*record.HiringDecisionEvent, error) {
	rec, err := s.store.ForCompany(companyID).GetDecision(ctx, decisionID)
	if err != nil {
		return nil, translate(err, "decision event")
	}
	return rec, nil
}

// List returns decision events within an optional range.
func (s *Service) List(ctx context.Context, companyID id.CompanyID, timeRange record.TimeRange) ([]*record.HiringDecisionEvent, error) {
	recs, err := s.store.ForCompany(companyID).ListDecisions(ctx, record.DecisionFilter{Range: timeRange})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list decisions")
	}
	return recs, nil
}

// Rationales returns a decision's rationale entries in entry order.
func (s *Service) Rationales(ctx context.Context, companyID id.CompanyID, decisionID id.DecisionID) ([]*record.RationaleEntry, error) {
	partition := s.store.ForCompany(companyID)
	if _, err := partition.GetDecision(ctx, decisionID); err != nil {
		return nil, translate(err, "decision event")
	}
	recs, err := partition.ListRationales(ctx, decisionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list rationales")
	}
	return recs, nil
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
