package record

import (
	"context"
	"sort"
	"sync"
	"time"

	id "hindsight/pkg/domain"
	"hindsight/pkg/platform/sentinel"
)

// InMemory keeps all partitions behind one RWMutex. Every read and write
// clones records so nothing a caller holds can mutate committed state.
type InMemory struct {
	mu          sync.RWMutex
	systems     map[id.AISystemID]*AISystemRecord
	systemKeys  map[systemKeyIndex]id.AISystemID
	regContexts map[id.RegContextID]*RegContextSnapshot
	disclosures map[id.DisclosureID]*DisclosureArtifact
	decisions   map[id.DecisionID]*HiringDecisionEvent
	rationales  map[id.RationaleID]*RationaleEntry
	approvals   map[id.ApprovalID]*GovernanceApproval
	assertions  map[id.AssertionID]*VendorAssertion
}

type systemKeyIndex struct {
	company id.CompanyID
	key     string
}

// NewInMemory constructs an empty in-memory record store.
func NewInMemory() *InMemory {
	return &InMemory{
		systems:     make(map[id.AISystemID]*AISystemRecord),
		systemKeys:  make(map[systemKeyIndex]id.AISystemID),
		regContexts: make(map[id.RegContextID]*RegContextSnapshot),
		disclosures: make(map[id.DisclosureID]*DisclosureArtifact),
		decisions:   make(map[id.DecisionID]*HiringDecisionEvent),
		rationales:  make(map[id.RationaleID]*RationaleEntry),
		approvals:   make(map[id.ApprovalID]*GovernanceApproval),
		assertions:  make(map[id.AssertionID]*VendorAssertion),
	}
}

// ForCompany returns a handle that can only touch companyID's records.
func (s *InMemory) ForCompany(companyID id.CompanyID) Partition {
	return &memoryPartition{store: s, companyID: companyID}
}

type memoryPartition struct {
	store     *InMemory
	companyID id.CompanyID
}

func (p *memoryPartition) CompanyID() id.CompanyID { return p.companyID }

// --- AI systems ---

func (p *memoryPartition) CreateAISystem(_ context.Context, rec *AISystemRecord) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	index := systemKeyIndex{company: p.companyID, key: rec.SystemKey}
	if _, taken := p.store.systemKeys[index]; taken {
		return sentinel.ErrConflict
	}
	clone := cloneSystem(rec)
	clone.CompanyID = p.companyID
	p.store.systems[rec.ID] = clone
	p.store.systemKeys[index] = rec.ID
	return nil
}

func (p *memoryPartition) GetAISystem(_ context.Context, systemID id.AISystemID) (*AISystemRecord, error) {
	p.store.mu.RLock()
	defer p.store.mu.RUnlock()
	return p.getSystemLocked(systemID)
}

// getSystemLocked distinguishes "absent" from "owned by another tenant" so
// cross-tenant reads surface as Forbidden per the gateway contract.
func (p *memoryPartition) getSystemLocked(systemID id.AISystemID) (*AISystemRecord, error) {
	rec, ok := p.store.systems[systemID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if rec.CompanyID != p.companyID {
		return nil, sentinel.ErrForbidden
	}
	return cloneSystem(rec), nil
}

func (p *memoryPartition) FindAISystemByKey(_ context.Context, systemKey string) (*AISystemRecord, error) {
	p.store.mu.RLock()
	defer p.store.mu.RUnlock()

	systemID, ok := p.store.systemKeys[systemKeyIndex{company: p.companyID, key: systemKey}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneSystem(p.store.systems[systemID]), nil
}

func (p *memoryPartition) ListAISystems(_ context.Context, filter SystemFilter) ([]*AISystemRecord, error) {
	p.store.mu.RLock()
	defer p.store.mu.RUnlock()

	var out []*AISystemRecord
	for _, rec := range p.store.systems {
		if rec.CompanyID != p.companyID {
			continue
		}
		if filter.SystemKey != "" && rec.SystemKey != filter.SystemKey {
			continue
		}
		out = append(out, cloneSystem(rec))
	}
	sort.Slice(out, func(i, j int) bool { return systemLess(out[i], out[j]) })
	return out, nil
}

func (p *memoryPartition) RetireAISystem(_ context.Context, systemID id.AISystemID, now time.Time) (*AISystemRecord, error) {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	rec, ok := p.store.systems[systemID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if rec.CompanyID != p.companyID {
		return nil, sentinel.ErrForbidden
	}
	rec.Status = SystemRetired
	rec.RetiredAt = &now
	return cloneSystem(rec), nil
}

// --- Regulatory contexts ---

func (p *memoryPartition) CreateRegContext(_ context.Context, rec *RegContextSnapshot) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	clone := cloneRegContext(rec)
	clone.CompanyID = p.companyID
	p.store.regContexts[rec.ID] = clone
	return nil
}

func (p *memoryPartition) GetRegContext(_ context.Context, regContextID id.RegContextID) (*RegContextSnapshot, error) {
	p.store.mu.RLock()
	defer p.store.mu.RUnlock()
	return p.getRegContextLocked(regContextID)
}

func (p *memoryPartition) getRegContextLocked(regContextID id.RegContextID) (*RegContextSnapshot, error) {
	rec, ok := p.store.regContexts[regContextID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if rec.CompanyID != p.companyID {
		return nil, sentinel.ErrForbidden
	}
	return cloneRegContext(rec), nil
}

func (p *memoryPartition) ListRegContexts(_ context.Context, filter RegContextFilter) ([]*RegContextSnapshot, error) {
	p.store.mu.RLock()
	defer p.store.mu.RUnlock()

	var out []*RegContextSnapshot
	for _, rec := range p.store.regContexts {
		if rec.CompanyID != p.companyID {
			continue
		}
		if filter.Jurisdiction != "" && rec.Jurisdiction != filter.Jurisdiction {
			continue
		}
		out = append(out, cloneRegContext(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CapturedAt.Equal(out[j].CapturedAt) {
			return out[i].CapturedAt.Before(out[j].CapturedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// --- Disclosures ---

func (p *memoryPartition) CreateDisclosure(_ context.Context, rec *DisclosureArtifact) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	if _, err := p.getSystemLocked(rec.SystemID); err != nil {
		return err
	}
	if _, err := p.getRegContextLocked(rec.RegContextID); err != nil {
		return err
	}
	clone := cloneDisclosure(rec)
	clone.CompanyID = p.companyID
	p.store.disclosures[rec.ID] = clone
	return nil
}

func (p *memoryPartition) GetDisclosure(_ context.Context, disclosureID id.DisclosureID) (*DisclosureArtifact, error) {
	p.store.mu.RLock()
	defer p.store.mu.RUnlock()

	rec, ok := p.store.disclosures[disclosureID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if rec.CompanyID != p.companyID {
		return nil, sentinel.ErrForbidden
	}
	return cloneDisclosure(rec), nil
}

func (p *memoryPartition) ListDisclosures(_ context.Context, filter DisclosureFilter) ([]*DisclosureArtifact, error) {
	p.store.mu.RLock()
	defer p.store.mu.RUnlock()

	systemSet := systemIDSet(filter.SystemIDs)
	contextSet := regContextIDSet(filter.RegContextIDs)

	var out []*DisclosureArtifact
	for _, rec := range p.store.disclosures {
		if rec.CompanyID != p.companyID {
			continue
		}
		if systemSet != nil {
			if _, ok := systemSet[rec.SystemID]; !ok {
				continue
			}
		}
		if contextSet != nil {
			if _, ok := contextSet[rec.RegContextID]; !ok {
				continue
			}
		}
		if !filter.Candidate.IsZero() && rec.CandidateToken != filter.Candidate {
			continue
		}
		if !filter.Range.Contains(rec.DeliveredAt) {
			continue
		}
		out = append(out, cloneDisclosure(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DeliveredAt.Equal(out[j].DeliveredAt) {
			return out[i].DeliveredAt.Before(out[j].DeliveredAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// --- Decisions and rationales ---

func (p *memoryPartition) CreateDecision(_ context.Context, rec *HiringDecisionEvent) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	if rec.SystemID != nil {
		if _, err := p.getSystemLocked(*rec.SystemID); err != nil {
			return err
		}
	}
	clone := cloneDecision(rec)
	clone.CompanyID = p.companyID
	p.store.decisions[rec.ID] = clone
	return nil
}

func (p *memoryPartition) GetDecision(_ context.Context, decisionID id.DecisionID) (*HiringDecisionEvent, error) {
	p.store.mu.RLock()
	defer p.store.mu.RUnlock()
	return p.getDecisionLocked(decisionID)
}

func (p *memoryPartition) getDecisionLocked(decisionID id.DecisionID) (*HiringDecisionEvent, error) {
	rec, ok := p.store.decisions[decisionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if rec.CompanyID != p.companyID {
		return nil, sentinel.ErrForbidden
	}
	return cloneDecision(rec), nil
}

func (p *memoryPartition) ListDecisions(_ context.Context, filter DecisionFilter) ([]*HiringDecisionEvent, error) {
	p.store.mu.RLock()
	defer p.store.mu.RUnlock()

	systemSet := systemIDSet(filter.SystemIDs)

	var out []*HiringDecisionEvent
	for _, rec := range p.store.decisions {
		if rec.CompanyID != p.companyID {
			continue
		}
		if systemSet != nil {
			if rec.SystemID == nil {
				continue
			}
			if _, ok := systemSet[*rec.SystemID]; !ok {
				continue
			}
		}
		if !filter.Candidate.IsZero() && rec.CandidateToken != filter.Candidate {
			continue
		}
		if !filter.Range.Contains(rec.DecidedAt) {
			continue
		}
		out = append(out, cloneDecision(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DecidedAt.Equal(out[j].DecidedAt) {
			return out[i].DecidedAt.Before(out[j].DecidedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (p *memoryPartition) CreateRationale(_ context.Context, rec *RationaleEntry) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	if _, err := p.getDecisionLocked(rec.DecisionID); err != nil {
		return err
	}
	clone := cloneRationale(rec)
	clone.CompanyID = p.companyID
	p.store.rationales[rec.ID] = clone
	return nil
}

func (p *memoryPartition) ListRationales(_ context.Context, decisionID id.DecisionID) ([]*RationaleEntry, error) {
	p.store.mu.RLock()
	defer p.store.mu.RUnlock()

	var out []*RationaleEntry
	for _, rec := range p.store.rationales {
		if rec.CompanyID != p.companyID || rec.DecisionID != decisionID {
			continue
		}
		out = append(out, cloneRationale(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EnteredAt.Equal(out[j].EnteredAt) {
			return out[i].EnteredAt.Before(out[j].EnteredAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// --- Governance ---

func (p *memoryPartition) CreateApproval(_ context.Context, rec *GovernanceApproval) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	if _, err := p.getSystemLocked(rec.SystemID); err != nil {
		return err
	}
	clone := cloneApproval(rec)
	clone.CompanyID = p.companyID
	p.store.approvals[rec.ID] = clone
	return nil
}

func (p *memoryPartition) ListApprovals(_ context.Context, systemIDs []id.AISystemID) ([]*GovernanceApproval, error) {
	p.store.mu.RLock()
	defer p.store.mu.RUnlock()

	systemSet := systemIDSet(systemIDs)
	var out []*GovernanceApproval
	for _, rec := range p.store.approvals {
		if rec.CompanyID != p.companyID {
			continue
		}
		if systemSet != nil {
			if _, ok := systemSet[rec.SystemID]; !ok {
				continue
			}
		}
		out = append(out, cloneApproval(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].GrantedAt.Equal(out[j].GrantedAt) {
			return out[i].GrantedAt.Before(out[j].GrantedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (p *memoryPartition) CreateAssertion(_ context.Context, rec *VendorAssertion) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	if _, err := p.getSystemLocked(rec.SystemID); err != nil {
		return err
	}
	clone := cloneAssertion(rec)
	clone.CompanyID = p.companyID
	p.store.assertions[rec.ID] = clone
	return nil
}

func (p *memoryPartition) ListAssertions(_ context.Context, systemIDs []id.AISystemID) ([]*VendorAssertion, error) {
	p.store.mu.RLock()
	defer p.store.mu.RUnlock()

	systemSet := systemIDSet(systemIDs)
	var out []*VendorAssertion
	for _, rec := range p.store.assertions {
		if rec.CompanyID != p.companyID {
			continue
		}
		if systemSet != nil {
			if _, ok := systemSet[rec.SystemID]; !ok {
				continue
			}
		}
		out = append(out, cloneAssertion(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AssertedAt.Equal(out[j].AssertedAt) {
			return out[i].AssertedAt.Before(out[j].AssertedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// --- helpers ---

func systemLess(a, b *AISystemRecord) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}

func systemIDSet(ids []id.AISystemID) map[id.AISystemID]struct{} {
	if ids == nil {
		return nil
	}
	set := make(map[id.AISystemID]struct{}, len(ids))
	for _, systemID := range ids {
		set[systemID] = struct{}{}
	}
	return set
}

func regContextIDSet(ids []id.RegContextID) map[id.RegContextID]struct{} {
	if ids == nil {
		return nil
	}
	set := make(map[id.RegContextID]struct{}, len(ids))
	for _, regContextID := range ids {
		set[regContextID] = struct{}{}
	}
	return set
}

func cloneSystem(rec *AISystemRecord) *AISystemRecord {
	clone := *rec
	clone.DataInputs = append([]string(nil), rec.DataInputs...)
	clone.OverridePoints = append([]string(nil), rec.OverridePoints...)
	if rec.RetiredAt != nil {
		retiredAt := *rec.RetiredAt
		clone.RetiredAt = &retiredAt
	}
	return &clone
}

func cloneRegContext(rec *RegContextSnapshot) *RegContextSnapshot {
	clone := *rec
	if rec.Obligations != nil {
		clone.Obligations = make(map[string]string, len(rec.Obligations))
		for k, v := range rec.Obligations {
			clone.Obligations[k] = v
		}
	}
	return &clone
}

func cloneDisclosure(rec *DisclosureArtifact) *DisclosureArtifact {
	clone := *rec
	return &clone
}

func cloneDecision(rec *HiringDecisionEvent) *HiringDecisionEvent {
	clone := *rec
	if rec.SystemID != nil {
		systemID := *rec.SystemID
		clone.SystemID = &systemID
	}
	return &clone
}

func cloneRationale(rec *RationaleEntry) *RationaleEntry {
	clone := *rec
	clone.Artifacts = append([]string(nil), rec.Artifacts...)
	return &clone
}

func cloneApproval(rec *GovernanceApproval) *GovernanceApproval {
	clone := *rec
	return &clone
}

func cloneAssertion(rec *VendorAssertion) *VendorAssertion {
	clone := *rec
	return &clone
}
