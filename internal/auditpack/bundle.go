package auditpack

import (
	"time"

	"hindsight/internal/record"
	id "hindsight/pkg/domain"
)

// ComplianceStatus summarizes whether the bundled evidence is internally
// complete.
type ComplianceStatus string

const (
	// ComplianceComplete means every bundled AI system carries at least one
	// non-rejected governance approval and every bundled decision carries at
	// least one rationale entry.
	ComplianceComplete ComplianceStatus = "complete"
	// ComplianceIncomplete flags the gaps an auditor will ask about first.
	ComplianceIncomplete ComplianceStatus = "incomplete"
)

// Criteria scopes a pack. Zero-value fields impose no constraint.
type Criteria struct {
	Range          record.TimeRange
	Jurisdiction   string
	SystemKey      string
	CandidateRawID string
}

// criteriaEcho is the criteria as recorded inside the pack body. The raw
// candidate id never appears; only its token does.
type criteriaEcho struct {
	From           *time.Time        `json:"from,omitempty"`
	To             *time.Time        `json:"to,omitempty"`
	Jurisdiction   string            `json:"jurisdiction,omitempty"`
	SystemKey      string            `json:"system_key,omitempty"`
	CandidateToken id.CandidateToken `json:"candidate_token,omitempty"`
}

// DecisionWithRationales pairs a decision event with its full rationale
// trail, in entry order.
type DecisionWithRationales struct {
	Decision   *record.HiringDecisionEvent `json:"decision"`
	Rationales []*record.RationaleEntry    `json:"rationales"`
}

// Summary is the pack's headline counts and compliance verdict.
type Summary struct {
	TotalAISystems   int              `json:"total_ai_systems"`
	TotalDecisions   int              `json:"total_decisions"`
	TotalDisclosures int              `json:"total_disclosures"`
	Compliance       ComplianceStatus `json:"compliance_status"`
}

// Body is everything the digest covers. GeneratedAt lives outside it so the
// same evidence always digests to the same value no matter when the pack is
// produced.
type Body struct {
	CompanyID   id.CompanyID                 `json:"company_id"`
	Criteria    criteriaEcho                 `json:"criteria"`
	Systems     []*record.AISystemRecord     `json:"ai_systems"`
	RegContexts []*record.RegContextSnapshot `json:"regulatory_contexts"`
	Disclosures []*record.DisclosureArtifact `json:"disclosures"`
	Decisions   []DecisionWithRationales     `json:"decisions"`
	Approvals   []*record.GovernanceApproval `json:"governance_approvals"`
	Assertions  []*record.VendorAssertion    `json:"vendor_assertions"`
	Summary     Summary                      `json:"summary"`
}

// Bundle is one generated audit pack.
type Bundle struct {
	GeneratedAt time.Time `json:"generated_at"`
	Body        Body      `json:"body"`
	// Digest is hex SHA-256 over the canonical JSON encoding of Body.
	Digest string `json:"digest"`
}
