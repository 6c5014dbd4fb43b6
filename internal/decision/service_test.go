package decision

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

type DecisionServiceSuite struct {
	suite.Suite
	store     *record.InMemory
	service   *Service
	companyID id.CompanyID
	system    *record.AISystemRecord
}

func TestDecisionServiceSuite(t *testing.T) {
	suite.Run(t, new(DecisionServiceSuite))
}

func (s *DecisionServiceSuite) SetupTest() {
	s.store = record.NewInMemory()
	s.companyID = id.CompanyID(uuid.New())
	s.service = New(s.store, anonymize.NewHasher(staticSalt("0123456789abcdef0123456789abcdef")), nil)

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.system = &record.AISystemRecord{
		ID:          id.AISystemID(uuid.New()),
		SystemKey:   "screener",
		Name:        "Resume Screener",
		Vendor:      "ScreenCo",
		Influence:   record.InfluenceAdvisory,
		IntendedUse: "rank applicants",
		DeployedAt:  now,
		Status:      record.SystemActive,
		CreatedAt:   now,
	}
	s.Require().NoError(s.store.ForCompany(s.companyID).CreateAISystem(context.Background(), s.system))
}

func (s *DecisionServiceSuite) input() RecordInput {
	return RecordInput{
		CandidateRawID: "alice@example.com",
		RoleID:         "role-1",
		SystemKey:      "screener",
		Decision:       "advance",
		Involvement:    "human_reviewed",
		DeciderRole:    "recruiter",
	}
}

func (s *DecisionServiceSuite) TestRecord() {
	ctx := context.Background()

	s.Run("records a decision referencing the system", func() {
		event, err := s.service.Record(ctx, s.companyID, s.input())
		s.Require().NoError(err)
		s.Require().NotNil(event.SystemID)
		s.Equal(s.system.ID, *event.SystemID)
		s.Equal(record.DecisionAdvance, event.Decision)
		s.NotContains(string(event.CandidateToken), "alice")
	})

	s.Run("records a purely human decision without a system", func() {
		input := s.input()
		input.SystemKey = ""
		input.Involvement = "human_decided"
		event, err := s.service.Record(ctx, s.companyID, input)
		s.Require().NoError(err)
		s.Nil(event.SystemID)
	})

	s.Run("unknown system key is not found", func() {
		input := s.input()
		input.SystemKey = "nonexistent"
		_, err := s.service.Record(ctx, s.companyID, input)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("unknown decision type is invalid", func() {
		input := s.input()
		input.Decision = "maybe"
		_, err := s.service.Record(ctx, s.companyID, input)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("unknown involvement level is invalid", func() {
		input := s.input()
		input.Involvement = "robot_only"
		_, err := s.service.Record(ctx, s.companyID, input)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("same candidate correlates across decisions", func() {
		first, err := s.service.Record(ctx, s.companyID, s.input())
		s.Require().NoError(err)
		second, err := s.service.Record(ctx, s.companyID, s.input())
		s.Require().NoError(err)
		s.Equal(first.CandidateToken, second.CandidateToken)
	})
}

func (s *DecisionServiceSuite) TestLogRationale() {
	ctx := context.Background()
	event, err := s.service.Record(ctx, s.companyID, s.input())
	s.Require().NoError(err)

	s.Run("appends to an existing decision", func() {
		entry, err := s.service.LogRationale(ctx, s.companyID, event.ID, RationaleInput{
			RationaleType: "explanation",
			Summary:       "strong portfolio",
			Author:        "recruiter",
		})
		s.Require().NoError(err)
		s.Equal(event.ID, entry.DecisionID)
	})

	s.Run("missing decision is not found and nothing is written", func() {
		missing := id.DecisionID(uuid.New())
		_, err := s.service.LogRationale(ctx, s.companyID, missing, RationaleInput{
			RationaleType: "explanation",
			Summary:       "orphan",
			Author:        "recruiter",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("missing summary is invalid", func() {
		_, err := s.service.LogRationale(ctx, s.companyID, event.ID, RationaleInput{
			RationaleType: "explanation",
			Author:        "recruiter",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *DecisionServiceSuite) TestRationales() {
	ctx := context.Background()
	event, err := s.service.Record(ctx, s.companyID, s.input())
	s.Require().NoError(err)

	for _, summary := range []string{"first", "second"} {
		_, err := s.service.LogRationale(ctx, s.companyID, event.ID, RationaleInput{
			RationaleType: "explanation",
			Summary:       summary,
			Author:        "recruiter",
		})
		s.Require().NoError(err)
	}

	recs, err := s.service.Rationales(ctx, s.companyID, event.ID)
	s.Require().NoError(err)
	s.Len(recs, 2)

	_, err = s.service.Rationales(ctx, s.companyID, id.DecisionID(uuid.New()))
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
