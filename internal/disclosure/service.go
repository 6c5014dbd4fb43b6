package disclosure

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

// Service renders disclosures and records their delivery.
type Service struct {
	store    record.Store
	renderer *Renderer
	hasher   *anonymize.Hasher
	metrics  *recordmetrics.Metrics
}

// New constructs the disclosure service.
func New(store record.Store, renderer *Renderer, hasher *anonymize.Hasher, metrics *recordmetrics.Metrics) *Service {
	return &Service{store: store, renderer: renderer, hasher: hasher, metrics: metrics}
}

// RenderInput identifies what should be disclosed and to which role context.
type RenderInput struct {
	SystemKey    string
	RegContextID id.RegContextID
	RoleID       string
	Stage        string
}

// Render composes disclosure text without persisting anything. Fails with
// not_found when either referenced record is absent for the tenant.
func (s *Service) Render(ctx context.Context, companyID id.CompanyID, input RenderInput) (string, error) {
	if input.SystemKey == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "system_key is required")
	}
	if input.RoleID == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role_id is required")
	}

	partition := s.store.ForCompany(companyID)
	system, err := partition.FindAISystemByKey(ctx, input.SystemKey)
	if err != nil {
		return "", translate(err, "ai system")
	}
	regContext, err := partition.GetRegContext(ctx, input.RegContextID)
	if err != nil {
		return "", translate(err, "regulatory context")
	}

	text, err := s.renderer.Render(system, regContext, input.RoleID, input.Stage)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to render disclosure")
	}
	return text, nil
}

// DeliverInput carries the delivery facts. CandidateRawID is consumed at
// this boundary: it is hashed immediately and never stored or logged.
type DeliverInput struct {
	SystemKey      string
	RegContextID   id.RegContextID
	CandidateRawID string
	RoleID         string
	Stage          string
	DeliveryMethod string
	DeliveredAt    time.Time
	AckStatus      string
}

// Deliver renders the notice, hashes the candidate id, and persists the
// artifact. Each call creates a new artifact; repeated delivery to the same
// candidate for the same stage is a legitimate re-disclosure.
func (s *Service) Deliver(ctx context.Context, companyID id.CompanyID, input DeliverInput) (*record.DisclosureArtifact, error) {
	token, err := s.hasher.Token(ctx, companyID, input.CandidateRawID)
	if err != nil {
		return nil, err
	}

	text, err := s.Render(ctx, companyID, RenderInput{
		SystemKey:    input.SystemKey,
		RegContextID: input.RegContextID,
		RoleID:       input.RoleID,
		Stage:        input.Stage,
	})
	if err != nil {
		return nil, err
	}

	partition := s.store.ForCompany(companyID)
	system, err := partition.FindAISystemByKey(ctx, input.SystemKey)
	if err != nil {
		return nil, translate(err, "ai system")
	}

	ack := record.AckPending
	if input.AckStatus != "" {
		switch record.AckStatus(input.AckStatus) {
		case record.AckPending, record.AckAcknowledged, record.AckDeclined:
			ack = record.AckStatus(input.AckStatus)
		default:
			return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown acknowledgment status %q", input.AckStatus)
		}
	}
	deliveredAt := input.DeliveredAt
	if deliveredAt.IsZero() {
		deliveredAt = requestcontext.Now(ctx)
	}

	artifact := &record.DisclosureArtifact{
		ID:             id.DisclosureID(uuid.New()),
		SystemID:       system.ID,
		RegContextID:   input.RegContextID,
		CandidateToken: token,
		RoleID:         input.RoleID,
		Stage:          input.Stage,
		RenderedText:   text,
		DeliveryMethod: input.DeliveryMethod,
		DeliveredAt:    deliveredAt,
		AckStatus:      ack,
	}
	if err := artifact.Validate(); err != nil {
		return nil, err
	}
	if err := partition.CreateDisclosure(ctx, artifact); err != nil {
		return nil, translate(err, "disclosure reference")
	}
	s.metrics.IncrementCreated("disclosure")
	return artifact, nil
}

// Get returns one disclosure artifact.
func (s *Service) Get(ctx context.Context, companyID id.CompanyID, disclosureID id.DisclosureID) (*record.DisclosureArtifact, error) {
	rec, err := s.store.ForCompany(companyID).GetDisclosure(ctx, disclosureID)
	if err != nil {
		return nil, translate(err, "disclosure")
	}
	return rec, nil
}

// List returns the tenant's disclosure artifacts within an optional range.
func (s *Service) List(ctx context.Context, companyID id.CompanyID, timeRange record.TimeRange) ([]*record.DisclosureArtifact, error) {
	recs, err := s.store.ForCompany(companyID).ListDisclosures(ctx, record.DisclosureFilter{Range: timeRange})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list disclosures")
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
