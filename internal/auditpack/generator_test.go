package auditpack

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"hindsight/internal/anonymize"
	"hindsight/internal/record"
	id "hindsight/pkg/domain"
	dErrors "hindsight/pkg/domain-errors"
)

type staticSalt []byte

func (s staticSalt) Salt(context.Context, id.CompanyID) ([]byte, error) { return s, nil }

// =============================================================================
// Audit Pack Generator Test Suite
// =============================================================================
// The pack's value rests on two promises: the same evidence always digests
// to the same value, and nothing from another tenant can leak into a bundle.

type GeneratorSuite struct {
	suite.Suite
	store     *record.InMemory
	generator *Generator
	hasher    *anonymize.Hasher
	companyID id.CompanyID
	baseTime  time.Time
}

func TestGeneratorSuite(t *testing.T) {
	suite.Run(t, new(GeneratorSuite))
}

func (s *GeneratorSuite) SetupTest() {
	s.store = record.NewInMemory()
	s.hasher = anonymize.NewHasher(staticSalt("0123456789abcdef0123456789abcdef"))
	s.generator = New(s.store, s.hasher, nil)
	s.companyID = id.CompanyID(uuid.New())
	s.baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
}

func (s *GeneratorSuite) addSystem(key string) *record.AISystemRecord {
	rec := &record.AISystemRecord{
		ID:          id.AISystemID(uuid.New()),
		SystemKey:   key,
		Name:        "Resume Screener",
		Vendor:      "ScreenCo",
		Influence:   record.InfluenceAdvisory,
		IntendedUse: "rank applicants",
		DeployedAt:  s.baseTime,
		Status:      record.SystemActive,
		CreatedAt:   s.baseTime,
	}
	s.Require().NoError(s.store.ForCompany(s.companyID).CreateAISystem(context.Background(), rec))
	return rec
}

func (s *GeneratorSuite) addRegContext(jurisdiction string) *record.RegContextSnapshot {
	rec := &record.RegContextSnapshot{
		ID:            id.RegContextID(uuid.New()),
		Jurisdiction:  jurisdiction,
		Regulation:    "Local Law 144",
		EffectiveDate: s.baseTime,
		CapturedAt:    s.baseTime,
	}
	s.Require().NoError(s.store.ForCompany(s.companyID).CreateRegContext(context.Background(), rec))
	return rec
}

func (s *GeneratorSuite) addDisclosure(system *record.AISystemRecord, regContext *record.RegContextSnapshot, token string) *record.DisclosureArtifact {
	rec := &record.DisclosureArtifact{
		ID:             id.DisclosureID(uuid.New()),
		SystemID:       system.ID,
		RegContextID:   regContext.ID,
		CandidateToken: id.CandidateToken(token),
		RoleID:         "role-1",
		RenderedText:   "notice",
		DeliveryMethod: "email",
		DeliveredAt:    s.baseTime,
		AckStatus:      record.AckPending,
	}
	s.Require().NoError(s.store.ForCompany(s.companyID).CreateDisclosure(context.Background(), rec))
	return rec
}

func (s *GeneratorSuite) addDecision(system *record.AISystemRecord, token string, decidedAt time.Time) *record.HiringDecisionEvent {
	rec := &record.HiringDecisionEvent{
		ID:             id.DecisionID(uuid.New()),
		CandidateToken: id.CandidateToken(token),
		RoleID:         "role-1",
		Decision:       record.DecisionAdvance,
		Involvement:    record.InvolvementHumanReviewed,
		DeciderRole:    "recruiter",
		DecidedAt:      decidedAt,
		CreatedAt:      decidedAt,
	}
	if system != nil {
		rec.SystemID = &system.ID
	}
	s.Require().NoError(s.store.ForCompany(s.companyID).CreateDecision(context.Background(), rec))
	return rec
}

func (s *GeneratorSuite) addApproval(system *record.AISystemRecord, decision record.ApprovalDecision) {
	s.Require().NoError(s.store.ForCompany(s.companyID).CreateApproval(context.Background(), &record.GovernanceApproval{
		ID:           id.ApprovalID(uuid.New()),
		SystemID:     system.ID,
		ApproverRole: "counsel",
		Decision:     decision,
		GrantedAt:    s.baseTime,
	}))
}

func (s *GeneratorSuite) addRationale(decision *record.HiringDecisionEvent) {
	s.Require().NoError(s.store.ForCompany(s.companyID).CreateRationale(context.Background(), &record.RationaleEntry{
		ID:            id.RationaleID(uuid.New()),
		DecisionID:    decision.ID,
		RationaleType: "explanation",
		Summary:       "strong portfolio",
		Author:        "recruiter",
		EnteredAt:     s.baseTime,
	}))
}

// =============================================================================
// Determinism Tests
// =============================================================================

func (s *GeneratorSuite) TestDigestDeterminism() {
	ctx := context.Background()
	system := s.addSystem("screener")
	regContext := s.addRegContext("NYC")
	s.addDisclosure(system, regContext, "tok-1")
	decision := s.addDecision(system, "tok-1", s.baseTime)
	s.addRationale(decision)
	s.addApproval(system, record.ApprovalApproved)

	s.Run("same evidence digests identically across generations", func() {
		first, err := s.generator.Generate(ctx, s.companyID, Criteria{})
		s.Require().NoError(err)
		second, err := s.generator.Generate(ctx, s.companyID, Criteria{})
		s.Require().NoError(err)
		s.Equal(first.Digest, second.Digest)
		s.Len(first.Digest, 64)
	})

	s.Run("a new record changes the digest", func() {
		before, err := s.generator.Generate(ctx, s.companyID, Criteria{})
		s.Require().NoError(err)

		s.addDecision(system, "tok-2", s.baseTime.Add(time.Hour))

		after, err := s.generator.Generate(ctx, s.companyID, Criteria{})
		s.Require().NoError(err)
		s.NotEqual(before.Digest, after.Digest)
	})
}

// =============================================================================
// Scoping Tests
// =============================================================================

func (s *GeneratorSuite) TestCriteriaScoping() {
	ctx := context.Background()
	screener := s.addSystem("screener")
	analyzer := s.addSystem("analyzer")
	nyc := s.addRegContext("NYC")
	eu := s.addRegContext("EU")
	s.addDisclosure(screener, nyc, "tok-1")
	s.addDisclosure(analyzer, eu, "tok-2")
	s.addDecision(screener, "tok-1", s.baseTime)
	s.addDecision(nil, "tok-3", s.baseTime.Add(time.Hour))

	s.Run("unscoped pack includes everything", func() {
		bundle, err := s.generator.Generate(ctx, s.companyID, Criteria{})
		s.Require().NoError(err)
		s.Equal(2, bundle.Body.Summary.TotalAISystems)
		s.Equal(2, bundle.Body.Summary.TotalDecisions)
		s.Equal(2, bundle.Body.Summary.TotalDisclosures)
	})

	s.Run("jurisdiction narrows contexts, disclosures, and systems", func() {
		bundle, err := s.generator.Generate(ctx, s.companyID, Criteria{Jurisdiction: "NYC"})
		s.Require().NoError(err)
		s.Require().Len(bundle.Body.RegContexts, 1)
		s.Equal("NYC", bundle.Body.RegContexts[0].Jurisdiction)
		s.Require().Len(bundle.Body.Disclosures, 1)
		s.Require().Len(bundle.Body.Systems, 1)
		s.Equal(screener.ID, bundle.Body.Systems[0].ID)
	})

	s.Run("system key pins the system set", func() {
		bundle, err := s.generator.Generate(ctx, s.companyID, Criteria{SystemKey: "analyzer"})
		s.Require().NoError(err)
		s.Require().Len(bundle.Body.Systems, 1)
		s.Equal(analyzer.ID, bundle.Body.Systems[0].ID)
		s.Empty(bundle.Body.Decisions)
	})

	s.Run("unknown system key is not found", func() {
		_, err := s.generator.Generate(ctx, s.companyID, Criteria{SystemKey: "nonexistent"})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("time range bounds decision and disclosure inclusion", func() {
		end := s.baseTime
		bundle, err := s.generator.Generate(ctx, s.companyID, Criteria{Range: record.TimeRange{End: &end}})
		s.Require().NoError(err)
		s.Equal(1, bundle.Body.Summary.TotalDecisions)
	})

	s.Run("candidate criteria narrows by token without exposing the raw id", func() {
		token, err := s.hasher.Token(ctx, s.companyID, "alice@example.com")
		s.Require().NoError(err)
		s.addDecision(screener, string(token), s.baseTime)

		bundle, err := s.generator.Generate(ctx, s.companyID, Criteria{CandidateRawID: "alice@example.com"})
		s.Require().NoError(err)
		s.Require().Len(bundle.Body.Decisions, 1)
		s.Equal(token, bundle.Body.Criteria.CandidateToken)
		s.NotContains(string(bundle.Body.Criteria.CandidateToken), "alice")
	})
}

func (s *GeneratorSuite) TestGovernanceTrailFollowsDecisions() {
	ctx := context.Background()
	screener := s.addSystem("screener")
	analyzer := s.addSystem("analyzer")
	nyc := s.addRegContext("NYC")
	s.addDisclosure(screener, nyc, "tok-1")
	s.addDecision(analyzer, "tok-2", s.baseTime)
	s.addApproval(analyzer, record.ApprovalApproved)

	bundle, err := s.generator.Generate(ctx, s.companyID, Criteria{Jurisdiction: "NYC"})
	s.Require().NoError(err)

	s.Run("system set stays narrowed to the jurisdiction's disclosures", func() {
		s.Require().Len(bundle.Body.Systems, 1)
		s.Equal(screener.ID, bundle.Body.Systems[0].ID)
	})

	s.Run("approvals cover systems referenced by matched decisions", func() {
		s.Require().Len(bundle.Body.Decisions, 1)
		s.Require().Len(bundle.Body.Approvals, 1)
		s.Equal(analyzer.ID, bundle.Body.Approvals[0].SystemID)
	})
}

func (s *GeneratorSuite) TestTenantIsolation() {
	ctx := context.Background()
	system := s.addSystem("screener")
	regContext := s.addRegContext("NYC")
	s.addDisclosure(system, regContext, "tok-1")

	otherTenant := id.CompanyID(uuid.New())
	bundle, err := s.generator.Generate(ctx, otherTenant, Criteria{})
	s.Require().NoError(err)
	s.Empty(bundle.Body.Systems)
	s.Empty(bundle.Body.RegContexts)
	s.Empty(bundle.Body.Disclosures)
	s.Equal(otherTenant, bundle.Body.CompanyID)
}

// =============================================================================
// Compliance Status Tests
// =============================================================================

func (s *GeneratorSuite) TestComplianceStatus() {
	ctx := context.Background()
	system := s.addSystem("screener")

	s.Run("system without approval is incomplete", func() {
		bundle, err := s.generator.Generate(ctx, s.companyID, Criteria{})
		s.Require().NoError(err)
		s.Equal(ComplianceIncomplete, bundle.Body.Summary.Compliance)
	})

	s.Run("rejected approval does not count", func() {
		s.addApproval(system, record.ApprovalRejected)
		bundle, err := s.generator.Generate(ctx, s.companyID, Criteria{})
		s.Require().NoError(err)
		s.Equal(ComplianceIncomplete, bundle.Body.Summary.Compliance)
	})

	s.Run("approved system with rationalized decisions is complete", func() {
		s.addApproval(system, record.ApprovalApproved)
		decision := s.addDecision(system, "tok-1", s.baseTime)
		s.addRationale(decision)

		bundle, err := s.generator.Generate(ctx, s.companyID, Criteria{})
		s.Require().NoError(err)
		s.Equal(ComplianceComplete, bundle.Body.Summary.Compliance)
	})

	s.Run("decision without rationale flips back to incomplete", func() {
		s.addDecision(system, "tok-2", s.baseTime.Add(time.Hour))
		bundle, err := s.generator.Generate(ctx, s.companyID, Criteria{})
		s.Require().NoError(err)
		s.Equal(ComplianceIncomplete, bundle.Body.Summary.Compliance)
	})
}
