// Package auditpack assembles cross-referenced evidence bundles for
// regulator and auditor requests. A pack is a read-only projection over the
// record store: generating one writes nothing and the same evidence always
// produces the same digest.
package auditpack

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"hindsight/internal/anonymize"
	"hindsight/internal/auditpack/metrics"
	"hindsight/internal/record"
	id "hindsight/pkg/domain"
	dErrors "hindsight/pkg/domain-errors"
	"hindsight/pkg/platform/sentinel"
	"hindsight/pkg/requestcontext"
)

// Generator builds audit packs.
type Generator struct {
	store   record.Store
	hasher  *anonymize.Hasher
	metrics *metrics.Metrics
}

// New constructs the pack generator.
func New(store record.Store, hasher *anonymize.Hasher, m *metrics.Metrics) *Generator {
	return &Generator{store: store, hasher: hasher, metrics: m}
}

// Generate assembles one pack for the tenant under the given criteria.
//
// Scoping works outward from the criteria: an explicit system key pins the
// system set, a jurisdiction pins the regulatory contexts and, through the
// disclosures that cite them, narrows the system set further. Decisions and
// disclosures are then filtered by system set, candidate token, and time
// range, and the governance trail follows the final system set plus any
// system the matched decisions reference.
func (g *Generator) Generate(ctx context.Context, companyID id.CompanyID, criteria Criteria) (*Bundle, error) {
	start := time.Now()
	partition := g.store.ForCompany(companyID)

	var candidate id.CandidateToken
	if criteria.CandidateRawID != "" {
		token, err := g.hasher.Token(ctx, companyID, criteria.CandidateRawID)
		if err != nil {
			return nil, err
		}
		candidate = token
	}

	systems, systemIDs, err := g.resolveSystems(ctx, partition, criteria.SystemKey)
	if err != nil {
		return nil, err
	}

	regContexts, err := partition.ListRegContexts(ctx, record.RegContextFilter{Jurisdiction: criteria.Jurisdiction})
	if err != nil {
		return nil, translate(err)
	}
	var regContextIDs []id.RegContextID
	if criteria.Jurisdiction != "" {
		regContextIDs = make([]id.RegContextID, 0, len(regContexts))
		for _, rc := range regContexts {
			regContextIDs = append(regContextIDs, rc.ID)
		}
	}

	var (
		disclosures []*record.DisclosureArtifact
		decisions   []*record.HiringDecisionEvent
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		recs, err := partition.ListDisclosures(groupCtx, record.DisclosureFilter{
			SystemIDs:     systemIDs,
			RegContextIDs: regContextIDs,
			Candidate:     candidate,
			Range:         criteria.Range,
		})
		if err != nil {
			return err
		}
		disclosures = recs
		return nil
	})
	group.Go(func() error {
		recs, err := partition.ListDecisions(groupCtx, record.DecisionFilter{
			SystemIDs: systemIDs,
			Candidate: candidate,
			Range:     criteria.Range,
		})
		if err != nil {
			return err
		}
		decisions = recs
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, translate(err)
	}

	// A jurisdiction scope only pulls in systems that actually disclosed
	// under that jurisdiction's contexts.
	if criteria.Jurisdiction != "" && criteria.SystemKey == "" {
		systems = narrowSystems(systems, disclosures)
	}
	// The governance trail covers every system in the bundle's system set
	// plus any system a matched decision references, even when that system
	// never disclosed under the scoped jurisdiction.
	seen := make(map[id.AISystemID]struct{}, len(systems))
	bundleSystemIDs := make([]id.AISystemID, 0, len(systems))
	for _, system := range systems {
		seen[system.ID] = struct{}{}
		bundleSystemIDs = append(bundleSystemIDs, system.ID)
	}
	for _, decision := range decisions {
		if decision.SystemID == nil {
			continue
		}
		if _, ok := seen[*decision.SystemID]; ok {
			continue
		}
		seen[*decision.SystemID] = struct{}{}
		bundleSystemIDs = append(bundleSystemIDs, *decision.SystemID)
	}

	var (
		approvals  []*record.GovernanceApproval
		assertions []*record.VendorAssertion
	)
	group, groupCtx = errgroup.WithContext(ctx)
	group.Go(func() error {
		recs, err := partition.ListApprovals(groupCtx, bundleSystemIDs)
		if err != nil {
			return err
		}
		approvals = recs
		return nil
	})
	group.Go(func() error {
		recs, err := partition.ListAssertions(groupCtx, bundleSystemIDs)
		if err != nil {
			return err
		}
		assertions = recs
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, translate(err)
	}

	withRationales := make([]DecisionWithRationales, 0, len(decisions))
	for _, decision := range decisions {
		rationales, err := partition.ListRationales(ctx, decision.ID)
		if err != nil {
			return nil, translate(err)
		}
		withRationales = append(withRationales, DecisionWithRationales{
			Decision:   decision,
			Rationales: rationales,
		})
	}

	body := Body{
		CompanyID: companyID,
		Criteria: criteriaEcho{
			From:           criteria.Range.Start,
			To:             criteria.Range.End,
			Jurisdiction:   criteria.Jurisdiction,
			SystemKey:      criteria.SystemKey,
			CandidateToken: candidate,
		},
		Systems:     systems,
		RegContexts: regContexts,
		Disclosures: disclosures,
		Decisions:   withRationales,
		Approvals:   approvals,
		Assertions:  assertions,
		Summary: Summary{
			TotalAISystems:   len(systems),
			TotalDecisions:   len(decisions),
			TotalDisclosures: len(disclosures),
			Compliance:       complianceOf(systems, withRationales, approvals),
		},
	}

	canonical, err := canonicalize(body)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode audit pack")
	}
	digest := sha256.Sum256(canonical)

	g.metrics.ObserveGenerate(start)
	return &Bundle{
		GeneratedAt: requestcontext.Now(ctx),
		Body:        body,
		Digest:      hex.EncodeToString(digest[:]),
	}, nil
}

func (g *Generator) resolveSystems(ctx context.Context, partition record.Partition, systemKey string) ([]*record.AISystemRecord, []id.AISystemID, error) {
	if systemKey == "" {
		systems, err := partition.ListAISystems(ctx, record.SystemFilter{})
		if err != nil {
			return nil, nil, translate(err)
		}
		// Nil system id list leaves disclosures and decisions unconstrained,
		// so purely human decisions stay in scope.
		return systems, nil, nil
	}
	system, err := partition.FindAISystemByKey(ctx, systemKey)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil, dErrors.Newf(dErrors.CodeNotFound, "ai system %q not found", systemKey)
		}
		return nil, nil, translate(err)
	}
	return []*record.AISystemRecord{system}, []id.AISystemID{system.ID}, nil
}

func narrowSystems(systems []*record.AISystemRecord, disclosures []*record.DisclosureArtifact) []*record.AISystemRecord {
	cited := make(map[id.AISystemID]struct{}, len(disclosures))
	for _, d := range disclosures {
		cited[d.SystemID] = struct{}{}
	}
	narrowed := make([]*record.AISystemRecord, 0, len(cited))
	for _, system := range systems {
		if _, ok := cited[system.ID]; ok {
			narrowed = append(narrowed, system)
		}
	}
	return narrowed
}

// complianceOf applies the pack's completeness rule: every bundled system
// needs at least one approved or conditional sign-off, and every bundled
// decision needs at least one rationale entry.
func complianceOf(systems []*record.AISystemRecord, decisions []DecisionWithRationales, approvals []*record.GovernanceApproval) ComplianceStatus {
	signedOff := make(map[id.AISystemID]bool, len(approvals))
	for _, approval := range approvals {
		if approval.Decision != record.ApprovalRejected {
			signedOff[approval.SystemID] = true
		}
	}
	for _, system := range systems {
		if !signedOff[system.ID] {
			return ComplianceIncomplete
		}
	}
	for _, decision := range decisions {
		if len(decision.Rationales) == 0 {
			return ComplianceIncomplete
		}
	}
	return ComplianceComplete
}

func translate(err error) error {
	if errors.Is(err, sentinel.ErrForbidden) {
		return dErrors.New(dErrors.CodeForbidden, "record belongs to another tenant")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "store unavailable")
}
