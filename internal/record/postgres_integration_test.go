//go:build integration

package record_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"hindsight/internal/record"
	id "hindsight/pkg/domain"
	"hindsight/pkg/platform/sentinel"
	"hindsight/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	store    *record.PostgresStore
	tenantA  record.Partition
	tenantB  record.Partition
	baseTime time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	pg := containers.NewPostgresContainer(t, "file://../../cmd/migrate/migrations")
	s := &PostgresStoreSuite{store: record.NewPostgres(pg.DB)}
	suite.Run(t, s)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.tenantA = s.store.ForCompany(id.CompanyID(uuid.New()))
	s.tenantB = s.store.ForCompany(id.CompanyID(uuid.New()))
	s.baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) newSystem(key string) *record.AISystemRecord {
	return &record.AISystemRecord{
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
}

func (s *PostgresStoreSuite) TestAISystemRoundTrip() {
	ctx := context.Background()
	system := s.newSystem("screener")
	s.Require().NoError(s.tenantA.CreateAISystem(ctx, system))

	s.Run("get returns the stored record", func() {
		got, err := s.tenantA.GetAISystem(ctx, system.ID)
		s.Require().NoError(err)
		s.Equal(system.SystemKey, got.SystemKey)
		s.Equal(system.Influence, got.Influence)
	})

	s.Run("duplicate key within the tenant conflicts", func() {
		err := s.tenantA.CreateAISystem(ctx, s.newSystem("screener"))
		s.ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("same key in another tenant is fine", func() {
		s.NoError(s.tenantB.CreateAISystem(ctx, s.newSystem("screener")))
	})

	s.Run("foreign tenant get is forbidden", func() {
		_, err := s.tenantB.GetAISystem(ctx, system.ID)
		s.ErrorIs(err, sentinel.ErrForbidden)
	})

	s.Run("retire flips status and stamps the retirement time", func() {
		retired, err := s.tenantA.RetireAISystem(ctx, system.ID, s.baseTime.Add(time.Hour))
		s.Require().NoError(err)
		s.Equal(record.SystemRetired, retired.Status)
		s.Require().NotNil(retired.RetiredAt)

		got, err := s.tenantA.GetAISystem(ctx, system.ID)
		s.Require().NoError(err)
		s.Equal(record.SystemRetired, got.Status)
		s.Require().NotNil(got.RetiredAt)
		s.True(got.RetiredAt.Equal(s.baseTime.Add(time.Hour)))
	})
}

func (s *PostgresStoreSuite) TestDecisionFilters() {
	ctx := context.Background()
	system := s.newSystem("screener")
	s.Require().NoError(s.tenantA.CreateAISystem(ctx, system))

	withSystem := &record.HiringDecisionEvent{
		ID:             id.DecisionID(uuid.New()),
		SystemID:       &system.ID,
		CandidateToken: "tok-1",
		RoleID:         "role-1",
		Decision:       record.DecisionAdvance,
		Involvement:    record.InvolvementHumanReviewed,
		DeciderRole:    "recruiter",
		DecidedAt:      s.baseTime,
		CreatedAt:      s.baseTime,
	}
	humanOnly := &record.HiringDecisionEvent{
		ID:             id.DecisionID(uuid.New()),
		CandidateToken: "tok-2",
		RoleID:         "role-1",
		Decision:       record.DecisionReject,
		Involvement:    record.InvolvementHumanDecided,
		DeciderRole:    "recruiter",
		DecidedAt:      s.baseTime.Add(time.Hour),
		CreatedAt:      s.baseTime.Add(time.Hour),
	}
	s.Require().NoError(s.tenantA.CreateDecision(ctx, withSystem))
	s.Require().NoError(s.tenantA.CreateDecision(ctx, humanOnly))

	s.Run("nil system list returns everything in timestamp order", func() {
		decisions, err := s.tenantA.ListDecisions(ctx, record.DecisionFilter{})
		s.Require().NoError(err)
		s.Require().Len(decisions, 2)
		s.Equal(withSystem.ID, decisions[0].ID)
	})

	s.Run("explicit system list excludes human-only decisions", func() {
		decisions, err := s.tenantA.ListDecisions(ctx, record.DecisionFilter{
			SystemIDs: []id.AISystemID{system.ID},
		})
		s.Require().NoError(err)
		s.Require().Len(decisions, 1)
		s.Equal(withSystem.ID, decisions[0].ID)
	})

	s.Run("empty non-nil system list matches nothing", func() {
		decisions, err := s.tenantA.ListDecisions(ctx, record.DecisionFilter{
			SystemIDs: []id.AISystemID{},
		})
		s.Require().NoError(err)
		s.Empty(decisions)
	})

	s.Run("inclusive time range bounds", func() {
		end := s.baseTime
		decisions, err := s.tenantA.ListDecisions(ctx, record.DecisionFilter{
			Range: record.TimeRange{End: &end},
		})
		s.Require().NoError(err)
		s.Require().Len(decisions, 1)
		s.Equal(withSystem.ID, decisions[0].ID)
	})

	s.Run("candidate token narrows", func() {
		decisions, err := s.tenantA.ListDecisions(ctx, record.DecisionFilter{Candidate: "tok-2"})
		s.Require().NoError(err)
		s.Require().Len(decisions, 1)
		s.Equal(humanOnly.ID, decisions[0].ID)
	})

	s.Run("other tenant sees nothing", func() {
		decisions, err := s.tenantB.ListDecisions(ctx, record.DecisionFilter{})
		s.Require().NoError(err)
		s.Empty(decisions)
	})
}

func (s *PostgresStoreSuite) TestRationaleIntegrity() {
	ctx := context.Background()
	decision := &record.HiringDecisionEvent{
		ID:             id.DecisionID(uuid.New()),
		CandidateToken: "tok-1",
		RoleID:         "role-1",
		Decision:       record.DecisionAdvance,
		Involvement:    record.InvolvementHumanDecided,
		DeciderRole:    "recruiter",
		DecidedAt:      s.baseTime,
		CreatedAt:      s.baseTime,
	}
	s.Require().NoError(s.tenantA.CreateDecision(ctx, decision))

	entry := &record.RationaleEntry{
		ID:            id.RationaleID(uuid.New()),
		DecisionID:    decision.ID,
		RationaleType: "explanation",
		Summary:       "strong portfolio",
		Author:        "recruiter",
		Artifacts:     []string{"https://evidence.example.com/audit-2026.pdf"},
		EnteredAt:     s.baseTime,
	}
	s.Require().NoError(s.tenantA.CreateRationale(ctx, entry))

	s.Run("artifacts survive the array round trip", func() {
		entries, err := s.tenantA.ListRationales(ctx, decision.ID)
		s.Require().NoError(err)
		s.Require().Len(entries, 1)
		s.Equal(entry.Artifacts, entries[0].Artifacts)
	})

	s.Run("orphan rationale is rejected", func() {
		orphan := &record.RationaleEntry{
			ID:            id.RationaleID(uuid.New()),
			DecisionID:    id.DecisionID(uuid.New()),
			RationaleType: "explanation",
			Summary:       "orphan",
			Author:        "recruiter",
			EnteredAt:     s.baseTime,
		}
		s.ErrorIs(s.tenantA.CreateRationale(ctx, orphan), sentinel.ErrNotFound)
	})

	s.Run("foreign decision rationale is forbidden", func() {
		foreign := &record.RationaleEntry{
			ID:            id.RationaleID(uuid.New()),
			DecisionID:    decision.ID,
			RationaleType: "explanation",
			Summary:       "cross tenant",
			Author:        "recruiter",
			EnteredAt:     s.baseTime,
		}
		s.ErrorIs(s.tenantB.CreateRationale(ctx, foreign), sentinel.ErrForbidden)
	})
}
