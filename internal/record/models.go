// Package record holds the append-only evidence store: the seven record
// kinds, their invariants, and tenant-partitioned persistence.
//
// Records are immutable once written. The store interface exposes no update
// or delete for the write-once kinds, so mutation is impossible at the
// contract level rather than a convention callers must remember. The one
// sanctioned mutation is retiring an AI system, which is an audited status
// change, never an edit of the declared facts.
package record

import (
	"time"

	id "hindsight/pkg/domain"
	dErrors "hindsight/pkg/domain-errors"
)

// InfluenceLevel declares how much weight an AI system carries in decisions.
type InfluenceLevel string

const (
	InfluenceAssistive     InfluenceLevel = "assistive"
	InfluenceAdvisory      InfluenceLevel = "advisory"
	InfluenceDeterminative InfluenceLevel = "determinative"
)

// ParseInfluenceLevel validates an externally supplied influence level.
func ParseInfluenceLevel(raw string) (InfluenceLevel, error) {
	switch InfluenceLevel(raw) {
	case InfluenceAssistive, InfluenceAdvisory, InfluenceDeterminative:
		return InfluenceLevel(raw), nil
	}
	return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown influence level %q", raw)
}

// SystemStatus is the AI system lifecycle state.
type SystemStatus string

const (
	SystemActive  SystemStatus = "active"
	SystemRetired SystemStatus = "retired"
)

// AISystemRecord declares one AI tool a tenant uses in hiring. SystemKey is
// the tenant-facing identifier and is unique within the tenant; records from
// two tenants may share a key without colliding.
type AISystemRecord struct {
	ID             id.AISystemID  `json:"id"`
	CompanyID      id.CompanyID   `json:"-"`
	SystemKey      string         `json:"system_key"`
	Name           string         `json:"name"`
	Vendor         string         `json:"vendor"`
	SystemType     string         `json:"system_type"`
	Influence      InfluenceLevel `json:"influence_level"`
	DataInputs     []string       `json:"data_inputs"`
	OverridePoints []string       `json:"override_points"`
	IntendedUse    string         `json:"intended_use"`
	DeployedAt     time.Time      `json:"deployed_at"`
	Status         SystemStatus   `json:"status"`
	RetiredAt      *time.Time     `json:"retired_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Validate enforces the required declared facts before any write.
func (r *AISystemRecord) Validate() error {
	switch {
	case r.SystemKey == "":
		return dErrors.New(dErrors.CodeInvalidInput, "system_key is required")
	case r.Name == "":
		return dErrors.New(dErrors.CodeInvalidInput, "system_name is required")
	case r.Vendor == "":
		return dErrors.New(dErrors.CodeInvalidInput, "vendor is required")
	case r.Influence == "":
		return dErrors.New(dErrors.CodeInvalidInput, "influence_level is required")
	case r.IntendedUse == "":
		return dErrors.New(dErrors.CodeInvalidInput, "intended_use is required")
	}
	return nil
}

// RegContextSnapshot is an immutable capture of a regulation as of a point
// in time. New regulation versions are new snapshots; "what rule applied
// when" is preserved because nothing here is ever edited.
type RegContextSnapshot struct {
	ID            id.RegContextID   `json:"id"`
	CompanyID     id.CompanyID      `json:"-"`
	Jurisdiction  string            `json:"jurisdiction"`
	Regulation    string            `json:"regulation"`
	Version       string            `json:"version"`
	EffectiveDate time.Time         `json:"effective_date"`
	Obligations   map[string]string `json:"obligations"`
	SourceRef     string            `json:"source_ref"`
	CapturedAt    time.Time         `json:"captured_at"`
}

func (r *RegContextSnapshot) Validate() error {
	switch {
	case r.Jurisdiction == "":
		return dErrors.New(dErrors.CodeInvalidInput, "jurisdiction is required")
	case r.Regulation == "":
		return dErrors.New(dErrors.CodeInvalidInput, "regulation is required")
	case r.EffectiveDate.IsZero():
		return dErrors.New(dErrors.CodeInvalidInput, "effective_date is required")
	}
	return nil
}

// AckStatus tracks whether a candidate acknowledged a disclosure.
type AckStatus string

const (
	AckPending      AckStatus = "pending"
	AckAcknowledged AckStatus = "acknowledged"
	AckDeclined     AckStatus = "declined"
)

// DisclosureArtifact records disclosure text actually delivered to a
// candidate. Only the candidate's one-way token is stored. Repeated delivery
// for the same stage is a legitimate re-disclosure and yields a new artifact.
type DisclosureArtifact struct {
	ID             id.DisclosureID   `json:"id"`
	CompanyID      id.CompanyID      `json:"-"`
	SystemID       id.AISystemID     `json:"ai_system_id"`
	RegContextID   id.RegContextID   `json:"regulatory_context_id"`
	CandidateToken id.CandidateToken `json:"candidate_token"`
	RoleID         string            `json:"role_id"`
	Stage          string            `json:"stage"`
	RenderedText   string            `json:"rendered_text"`
	DeliveryMethod string            `json:"delivery_method"`
	DeliveredAt    time.Time         `json:"delivered_at"`
	AckStatus      AckStatus         `json:"acknowledgment_status"`
}

func (r *DisclosureArtifact) Validate() error {
	switch {
	case r.SystemID.IsNil():
		return dErrors.New(dErrors.CodeInvalidInput, "ai_system_id is required")
	case r.RegContextID.IsNil():
		return dErrors.New(dErrors.CodeInvalidInput, "regulatory_context_id is required")
	case r.CandidateToken.IsZero():
		return dErrors.New(dErrors.CodeInvalidInput, "candidate token is required")
	case r.RoleID == "":
		return dErrors.New(dErrors.CodeInvalidInput, "role_id is required")
	case r.RenderedText == "":
		return dErrors.New(dErrors.CodeInvalidInput, "rendered_text is required")
	case r.DeliveryMethod == "":
		return dErrors.New(dErrors.CodeInvalidInput, "delivery_method is required")
	}
	return nil
}

// DecisionType is the outcome a decision event records.
type DecisionType string

const (
	DecisionAdvance  DecisionType = "advance"
	DecisionReject   DecisionType = "reject"
	DecisionHire     DecisionType = "hire"
	DecisionOffer    DecisionType = "offer"
	DecisionWithdraw DecisionType = "withdraw"
)

// ParseDecisionType validates an externally supplied decision type.
func ParseDecisionType(raw string) (DecisionType, error) {
	switch DecisionType(raw) {
	case DecisionAdvance, DecisionReject, DecisionHire, DecisionOffer, DecisionWithdraw:
		return DecisionType(raw), nil
	}
	return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown decision type %q", raw)
}

// Involvement is the human-involvement level in a decision.
type Involvement string

const (
	InvolvementAutomated     Involvement = "automated"
	InvolvementHumanReviewed Involvement = "human_reviewed"
	InvolvementHumanDecided  Involvement = "human_decided"
)

// ParseInvolvement validates an externally supplied involvement level.
func ParseInvolvement(raw string) (Involvement, error) {
	switch Involvement(raw) {
	case InvolvementAutomated, InvolvementHumanReviewed, InvolvementHumanDecided:
		return Involvement(raw), nil
	}
	return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown involvement level %q", raw)
}

// HiringDecisionEvent is the decision itself. SystemID is optional: purely
// human decisions carry no AI system reference.
type HiringDecisionEvent struct {
	ID             id.DecisionID     `json:"id"`
	CompanyID      id.CompanyID      `json:"-"`
	CandidateToken id.CandidateToken `json:"candidate_token"`
	RoleID         string            `json:"role_id"`
	SystemID       *id.AISystemID    `json:"ai_system_id,omitempty"`
	Decision       DecisionType      `json:"decision_type"`
	Involvement    Involvement       `json:"human_involvement"`
	DeciderRole    string            `json:"decision_maker_role"`
	DecidedAt      time.Time         `json:"decided_at"`
	CreatedAt      time.Time         `json:"created_at"`
}

func (r *HiringDecisionEvent) Validate() error {
	switch {
	case r.CandidateToken.IsZero():
		return dErrors.New(dErrors.CodeInvalidInput, "candidate token is required")
	case r.RoleID == "":
		return dErrors.New(dErrors.CodeInvalidInput, "role_id is required")
	case r.Decision == "":
		return dErrors.New(dErrors.CodeInvalidInput, "decision_type is required")
	case r.Involvement == "":
		return dErrors.New(dErrors.CodeInvalidInput, "human_involvement is required")
	case r.DeciderRole == "":
		return dErrors.New(dErrors.CodeInvalidInput, "decision_maker_role is required")
	case r.DecidedAt.IsZero():
		return dErrors.New(dErrors.CodeInvalidInput, "decided_at is required")
	}
	return nil
}

// RationaleEntry is a human-authored justification appended to a decision
// event. Entries accumulate over time; ordering by EnteredAt is preserved
// for the audit narrative.
type RationaleEntry struct {
	ID            id.RationaleID `json:"id"`
	CompanyID     id.CompanyID   `json:"-"`
	DecisionID    id.DecisionID  `json:"decision_event_id"`
	RationaleType string         `json:"rationale_type"`
	Summary       string         `json:"summary"`
	Artifacts     []string       `json:"supporting_artifacts"`
	Author        string         `json:"author"`
	EnteredAt     time.Time      `json:"entered_at"`
}

func (r *RationaleEntry) Validate() error {
	switch {
	case r.DecisionID.IsNil():
		return dErrors.New(dErrors.CodeInvalidInput, "decision_event_id is required")
	case r.RationaleType == "":
		return dErrors.New(dErrors.CodeInvalidInput, "rationale_type is required")
	case r.Summary == "":
		return dErrors.New(dErrors.CodeInvalidInput, "summary is required")
	case r.Author == "":
		return dErrors.New(dErrors.CodeInvalidInput, "author is required")
	}
	return nil
}

// ApprovalDecision is the governance workflow outcome.
type ApprovalDecision string

const (
	ApprovalApproved    ApprovalDecision = "approved"
	ApprovalRejected    ApprovalDecision = "rejected"
	ApprovalConditional ApprovalDecision = "conditional"
)

// ParseApprovalDecision validates an externally supplied approval decision.
func ParseApprovalDecision(raw string) (ApprovalDecision, error) {
	switch ApprovalDecision(raw) {
	case ApprovalApproved, ApprovalRejected, ApprovalConditional:
		return ApprovalDecision(raw), nil
	}
	return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown approval decision %q", raw)
}

// GovernanceApproval captures one point-in-time sign-off for an AI system.
// There is no workflow engine here, only a ledger of what was asserted and
// when.
type GovernanceApproval struct {
	ID           id.ApprovalID    `json:"id"`
	CompanyID    id.CompanyID     `json:"-"`
	SystemID     id.AISystemID    `json:"ai_system_id"`
	ApproverRole string           `json:"approver_role"`
	Decision     ApprovalDecision `json:"decision"`
	Conditions   string           `json:"conditions,omitempty"`
	GrantedAt    time.Time        `json:"granted_at"`
}

func (r *GovernanceApproval) Validate() error {
	switch {
	case r.SystemID.IsNil():
		return dErrors.New(dErrors.CodeInvalidInput, "ai_system_id is required")
	case r.ApproverRole == "":
		return dErrors.New(dErrors.CodeInvalidInput, "approver_role is required")
	case r.Decision == "":
		return dErrors.New(dErrors.CodeInvalidInput, "decision is required")
	}
	return nil
}

// RiskClass is the vendor assertion risk classification.
type RiskClass string

const (
	RiskGreen  RiskClass = "green"
	RiskYellow RiskClass = "yellow"
	RiskRed    RiskClass = "red"
)

// ParseRiskClass validates an externally supplied risk classification.
func ParseRiskClass(raw string) (RiskClass, error) {
	switch RiskClass(raw) {
	case RiskGreen, RiskYellow, RiskRed:
		return RiskClass(raw), nil
	}
	return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown risk class %q", raw)
}

// VendorAssertion is a vendor's self-reported claim about a system.
type VendorAssertion struct {
	ID            id.AssertionID `json:"id"`
	CompanyID     id.CompanyID   `json:"-"`
	SystemID      id.AISystemID  `json:"ai_system_id"`
	AssertionType string         `json:"assertion_type"`
	Statement     string         `json:"statement"`
	HasEvidence   bool           `json:"has_evidence"`
	Risk          RiskClass      `json:"risk_classification"`
	AssertedAt    time.Time      `json:"asserted_at"`
}

func (r *VendorAssertion) Validate() error {
	switch {
	case r.SystemID.IsNil():
		return dErrors.New(dErrors.CodeInvalidInput, "ai_system_id is required")
	case r.AssertionType == "":
		return dErrors.New(dErrors.CodeInvalidInput, "assertion_type is required")
	case r.Statement == "":
		return dErrors.New(dErrors.CodeInvalidInput, "statement is required")
	case r.Risk == "":
		return dErrors.New(dErrors.CodeInvalidInput, "risk_classification is required")
	}
	return nil
}
