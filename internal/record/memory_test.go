package record

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "hindsight/pkg/domain"
	"hindsight/pkg/platform/sentinel"
)

// =============================================================================
// In-Memory Record Store Test Suite
// =============================================================================
// The store carries the contracts everything else leans on: per-tenant key
// uniqueness, referential integrity at write time, cross-tenant reads failing
// as Forbidden, and deterministic list ordering.

type MemoryStoreSuite struct {
	suite.Suite
	store    *InMemory
	tenantA  Partition
	tenantB  Partition
	baseTime time.Time
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.tenantA = s.store.ForCompany(id.CompanyID(uuid.New()))
	s.tenantB = s.store.ForCompany(id.CompanyID(uuid.New()))
	s.baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *MemoryStoreSuite) newSystem(key string) *AISystemRecord {
	return &AISystemRecord{
		ID:          id.AISystemID(uuid.New()),
		SystemKey:   key,
		Name:        "Resume Screener",
		Vendor:      "ScreenCo",
		SystemType:  "resume_screening",
		Influence:   InfluenceAdvisory,
		IntendedUse: "rank applicants",
		DeployedAt:  s.baseTime,
		Status:      SystemActive,
		CreatedAt:   s.baseTime,
	}
}

func (s *MemoryStoreSuite) newRegContext(jurisdiction string) *RegContextSnapshot {
	return &RegContextSnapshot{
		ID:            id.RegContextID(uuid.New()),
		Jurisdiction:  jurisdiction,
		Regulation:    "Local Law 144",
		EffectiveDate: s.baseTime,
		CapturedAt:    s.baseTime,
	}
}

// =============================================================================
// AI System Tests
// =============================================================================

func (s *MemoryStoreSuite) TestCreateAISystem() {
	ctx := context.Background()

	s.Run("duplicate key within tenant conflicts", func() {
		s.Require().NoError(s.tenantA.CreateAISystem(ctx, s.newSystem("screener")))
		err := s.tenantA.CreateAISystem(ctx, s.newSystem("screener"))
		s.ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("same key in another tenant does not conflict", func() {
		s.NoError(s.tenantB.CreateAISystem(ctx, s.newSystem("screener")))
	})

	s.Run("committed record is isolated from caller mutation", func() {
		rec := s.newSystem("mutable")
		rec.DataInputs = []string{"resume"}
		s.Require().NoError(s.tenantA.CreateAISystem(ctx, rec))

		rec.Name = "changed after commit"
		rec.DataInputs[0] = "changed"

		stored, err := s.tenantA.GetAISystem(ctx, rec.ID)
		s.Require().NoError(err)
		s.Equal("Resume Screener", stored.Name)
		s.Equal([]string{"resume"}, stored.DataInputs)
	})
}

func (s *MemoryStoreSuite) TestCrossTenantReads() {
	ctx := context.Background()

	system := s.newSystem("private")
	s.Require().NoError(s.tenantA.CreateAISystem(ctx, system))

	s.Run("get by id from another tenant is forbidden", func() {
		_, err := s.tenantB.GetAISystem(ctx, system.ID)
		s.ErrorIs(err, sentinel.ErrForbidden)
	})

	s.Run("lookup by key from another tenant is not found", func() {
		_, err := s.tenantB.FindAISystemByKey(ctx, "private")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("retire from another tenant is forbidden", func() {
		_, err := s.tenantB.RetireAISystem(ctx, system.ID, s.baseTime)
		s.ErrorIs(err, sentinel.ErrForbidden)

		stored, err := s.tenantA.GetAISystem(ctx, system.ID)
		s.Require().NoError(err)
		s.Equal(SystemActive, stored.Status)
	})

	s.Run("list only sees own records", func() {
		recs, err := s.tenantB.ListAISystems(ctx, SystemFilter{})
		s.NoError(err)
		s.Empty(recs)
	})
}

func (s *MemoryStoreSuite) TestRetireAISystem() {
	ctx := context.Background()

	system := s.newSystem("retiring")
	s.Require().NoError(s.tenantA.CreateAISystem(ctx, system))

	rec, err := s.tenantA.RetireAISystem(ctx, system.ID, s.baseTime)
	s.Require().NoError(err)
	s.Equal(SystemRetired, rec.Status)
	s.Equal(system.SystemKey, rec.SystemKey)
	s.Require().NotNil(rec.RetiredAt)
	s.Equal(s.baseTime, *rec.RetiredAt)

	_, err = s.tenantA.RetireAISystem(ctx, id.AISystemID(uuid.New()), s.baseTime)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// =============================================================================
// Referential Integrity Tests
// =============================================================================

func (s *MemoryStoreSuite) TestReferentialIntegrity() {
	ctx := context.Background()

	system := s.newSystem("referenced")
	regContext := s.newRegContext("NYC")
	s.Require().NoError(s.tenantA.CreateAISystem(ctx, system))
	s.Require().NoError(s.tenantA.CreateRegContext(ctx, regContext))

	s.Run("disclosure with dangling system reference fails", func() {
		artifact := s.newDisclosure(id.AISystemID(uuid.New()), regContext.ID, "tok-1", s.baseTime)
		s.ErrorIs(s.tenantA.CreateDisclosure(ctx, artifact), sentinel.ErrNotFound)
	})

	s.Run("disclosure referencing another tenant's system is forbidden", func() {
		foreign := s.newSystem("foreign")
		s.Require().NoError(s.tenantB.CreateAISystem(ctx, foreign))

		artifact := s.newDisclosure(foreign.ID, regContext.ID, "tok-1", s.baseTime)
		s.ErrorIs(s.tenantA.CreateDisclosure(ctx, artifact), sentinel.ErrForbidden)
	})

	s.Run("rationale without decision fails and writes nothing", func() {
		missing := id.DecisionID(uuid.New())
		err := s.tenantA.CreateRationale(ctx, &RationaleEntry{
			ID:            id.RationaleID(uuid.New()),
			DecisionID:    missing,
			RationaleType: "explanation",
			Summary:       "orphan",
			Author:        "reviewer",
			EnteredAt:     s.baseTime,
		})
		s.ErrorIs(err, sentinel.ErrNotFound)

		recs, listErr := s.tenantA.ListRationales(ctx, missing)
		s.NoError(listErr)
		s.Empty(recs)
	})

	s.Run("approval requires an existing system", func() {
		err := s.tenantA.CreateApproval(ctx, &GovernanceApproval{
			ID:           id.ApprovalID(uuid.New()),
			SystemID:     id.AISystemID(uuid.New()),
			ApproverRole: "counsel",
			Decision:     ApprovalApproved,
			GrantedAt:    s.baseTime,
		})
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *MemoryStoreSuite) newDisclosure(systemID id.AISystemID, regContextID id.RegContextID, token string, deliveredAt time.Time) *DisclosureArtifact {
	return &DisclosureArtifact{
		ID:             id.DisclosureID(uuid.New()),
		SystemID:       systemID,
		RegContextID:   regContextID,
		CandidateToken: id.CandidateToken(token),
		RoleID:         "role-9",
		RenderedText:   "notice text",
		DeliveryMethod: "email",
		DeliveredAt:    deliveredAt,
		AckStatus:      AckPending,
	}
}

// =============================================================================
// Filter Semantics Tests
// =============================================================================

func (s *MemoryStoreSuite) TestListFilters() {
	ctx := context.Background()

	system := s.newSystem("filtered")
	regContext := s.newRegContext("NYC")
	s.Require().NoError(s.tenantA.CreateAISystem(ctx, system))
	s.Require().NoError(s.tenantA.CreateRegContext(ctx, regContext))

	early := s.newDisclosure(system.ID, regContext.ID, "tok-early", s.baseTime)
	late := s.newDisclosure(system.ID, regContext.ID, "tok-late", s.baseTime.Add(48*time.Hour))
	s.Require().NoError(s.tenantA.CreateDisclosure(ctx, early))
	s.Require().NoError(s.tenantA.CreateDisclosure(ctx, late))

	s.Run("nil system id list means no constraint", func() {
		recs, err := s.tenantA.ListDisclosures(ctx, DisclosureFilter{})
		s.NoError(err)
		s.Len(recs, 2)
	})

	s.Run("empty non-nil system id list matches nothing", func() {
		recs, err := s.tenantA.ListDisclosures(ctx, DisclosureFilter{SystemIDs: []id.AISystemID{}})
		s.NoError(err)
		s.Empty(recs)
	})

	s.Run("time range bounds are inclusive", func() {
		start := s.baseTime
		end := s.baseTime
		recs, err := s.tenantA.ListDisclosures(ctx, DisclosureFilter{Range: TimeRange{Start: &start, End: &end}})
		s.NoError(err)
		s.Require().Len(recs, 1)
		s.Equal(early.ID, recs[0].ID)
	})

	s.Run("candidate filter narrows to one token", func() {
		recs, err := s.tenantA.ListDisclosures(ctx, DisclosureFilter{Candidate: "tok-late"})
		s.NoError(err)
		s.Require().Len(recs, 1)
		s.Equal(late.ID, recs[0].ID)
	})

	s.Run("results ordered by delivery time", func() {
		recs, err := s.tenantA.ListDisclosures(ctx, DisclosureFilter{})
		s.NoError(err)
		s.Require().Len(recs, 2)
		s.Equal(early.ID, recs[0].ID)
		s.Equal(late.ID, recs[1].ID)
	})
}

func (s *MemoryStoreSuite) TestDecisionFilters() {
	ctx := context.Background()

	system := s.newSystem("decider")
	s.Require().NoError(s.tenantA.CreateAISystem(ctx, system))

	assisted := &HiringDecisionEvent{
		ID:             id.DecisionID(uuid.New()),
		CandidateToken: "tok-1",
		RoleID:         "role-1",
		SystemID:       &system.ID,
		Decision:       DecisionAdvance,
		Involvement:    InvolvementHumanReviewed,
		DeciderRole:    "recruiter",
		DecidedAt:      s.baseTime,
		CreatedAt:      s.baseTime,
	}
	manual := &HiringDecisionEvent{
		ID:             id.DecisionID(uuid.New()),
		CandidateToken: "tok-2",
		RoleID:         "role-1",
		Decision:       DecisionReject,
		Involvement:    InvolvementHumanDecided,
		DeciderRole:    "manager",
		DecidedAt:      s.baseTime.Add(time.Hour),
		CreatedAt:      s.baseTime.Add(time.Hour),
	}
	s.Require().NoError(s.tenantA.CreateDecision(ctx, assisted))
	s.Require().NoError(s.tenantA.CreateDecision(ctx, manual))

	s.Run("nil system list includes purely human decisions", func() {
		recs, err := s.tenantA.ListDecisions(ctx, DecisionFilter{})
		s.NoError(err)
		s.Len(recs, 2)
	})

	s.Run("explicit system list excludes decisions without a system", func() {
		recs, err := s.tenantA.ListDecisions(ctx, DecisionFilter{SystemIDs: []id.AISystemID{system.ID}})
		s.NoError(err)
		s.Require().Len(recs, 1)
		s.Equal(assisted.ID, recs[0].ID)
	})
}

// =============================================================================
// Rationale Ordering Tests
// =============================================================================

func (s *MemoryStoreSuite) TestListRationalesOrdered() {
	ctx := context.Background()

	decision := &HiringDecisionEvent{
		ID:             id.DecisionID(uuid.New()),
		CandidateToken: "tok-1",
		RoleID:         "role-1",
		Decision:       DecisionReject,
		Involvement:    InvolvementHumanDecided,
		DeciderRole:    "manager",
		DecidedAt:      s.baseTime,
		CreatedAt:      s.baseTime,
	}
	s.Require().NoError(s.tenantA.CreateDecision(ctx, decision))

	second := &RationaleEntry{
		ID:            id.RationaleID(uuid.New()),
		DecisionID:    decision.ID,
		RationaleType: "follow_up",
		Summary:       "second entry",
		Author:        "counsel",
		EnteredAt:     s.baseTime.Add(time.Hour),
	}
	first := &RationaleEntry{
		ID:            id.RationaleID(uuid.New()),
		DecisionID:    decision.ID,
		RationaleType: "explanation",
		Summary:       "first entry",
		Author:        "manager",
		EnteredAt:     s.baseTime,
	}
	s.Require().NoError(s.tenantA.CreateRationale(ctx, second))
	s.Require().NoError(s.tenantA.CreateRationale(ctx, first))

	recs, err := s.tenantA.ListRationales(ctx, decision.ID)
	s.Require().NoError(err)
	s.Require().Len(recs, 2)
	s.Equal("first entry", recs[0].Summary)
	s.Equal("second entry", recs[1].Summary)
}
