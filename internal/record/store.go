package record

import (
	"context"
	"time"

	id "hindsight/pkg/domain"
)

// TimeRange bounds a query by record timestamp. Nil endpoints are open.
// Bounds are inclusive: audit packs are scoped "from this date to that date".
type TimeRange struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether t falls inside the range.
func (r TimeRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// SystemFilter narrows AI system listings. Zero value matches everything in
// the partition.
type SystemFilter struct {
	SystemKey string
}

// RegContextFilter narrows regulatory context listings.
type RegContextFilter struct {
	Jurisdiction string
}

// DisclosureFilter narrows disclosure listings. A nil id slice means no
// constraint; an empty non-nil slice matches nothing (the audit pack
// generator relies on that distinction when a jurisdiction has no contexts).
type DisclosureFilter struct {
	SystemIDs     []id.AISystemID
	RegContextIDs []id.RegContextID
	Candidate     id.CandidateToken
	Range         TimeRange
}

// DecisionFilter narrows decision listings. Same nil/empty slice semantics
// as DisclosureFilter.
type DecisionFilter struct {
	SystemIDs []id.AISystemID
	Candidate id.CandidateToken
	Range     TimeRange
}

// Partition is a store handle scoped to exactly one tenant. Components only
// ever hold a Partition, so reading another tenant's records is impossible
// by construction, not by a filter someone must remember.
//
// Write-once kinds get no update or delete here. The sole mutation is
// RetireAISystem, a sanctioned, audited status change.
type Partition interface {
	CompanyID() id.CompanyID

	// CreateAISystem fails with sentinel.ErrConflict when the system key is
	// already taken within the tenant. Never overwrites.
	CreateAISystem(ctx context.Context, rec *AISystemRecord) error
	GetAISystem(ctx context.Context, systemID id.AISystemID) (*AISystemRecord, error)
	FindAISystemByKey(ctx context.Context, systemKey string) (*AISystemRecord, error)
	ListAISystems(ctx context.Context, filter SystemFilter) ([]*AISystemRecord, error)
	RetireAISystem(ctx context.Context, systemID id.AISystemID, now time.Time) (*AISystemRecord, error)

	CreateRegContext(ctx context.Context, rec *RegContextSnapshot) error
	GetRegContext(ctx context.Context, regContextID id.RegContextID) (*RegContextSnapshot, error)
	ListRegContexts(ctx context.Context, filter RegContextFilter) ([]*RegContextSnapshot, error)

	// CreateDisclosure validates that the referenced system and regulatory
	// context exist in this partition before committing; a dangling
	// reference fails the whole write with sentinel.ErrNotFound.
	CreateDisclosure(ctx context.Context, rec *DisclosureArtifact) error
	GetDisclosure(ctx context.Context, disclosureID id.DisclosureID) (*DisclosureArtifact, error)
	ListDisclosures(ctx context.Context, filter DisclosureFilter) ([]*DisclosureArtifact, error)

	// CreateDecision validates the optional system reference the same way.
	CreateDecision(ctx context.Context, rec *HiringDecisionEvent) error
	GetDecision(ctx context.Context, decisionID id.DecisionID) (*HiringDecisionEvent, error)
	ListDecisions(ctx context.Context, filter DecisionFilter) ([]*HiringDecisionEvent, error)

	// CreateRationale fails with sentinel.ErrNotFound when the decision
	// event does not exist; an orphaned rationale is never written.
	CreateRationale(ctx context.Context, rec *RationaleEntry) error
	ListRationales(ctx context.Context, decisionID id.DecisionID) ([]*RationaleEntry, error)

	CreateApproval(ctx context.Context, rec *GovernanceApproval) error
	ListApprovals(ctx context.Context, systemIDs []id.AISystemID) ([]*GovernanceApproval, error)

	CreateAssertion(ctx context.Context, rec *VendorAssertion) error
	ListAssertions(ctx context.Context, systemIDs []id.AISystemID) ([]*VendorAssertion, error)
}

// Store hands out tenant-scoped partitions. This is the only way to reach
// records; there is no unscoped read path.
type Store interface {
	ForCompany(companyID id.CompanyID) Partition
}
