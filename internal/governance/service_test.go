package governance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"hindsight/internal/record"
	id "hindsight/pkg/domain"
	dErrors "hindsight/pkg/domain-errors"
)

type GovernanceServiceSuite struct {
	suite.Suite
	store     *record.InMemory
	service   *Service
	companyID id.CompanyID
	system    *record.AISystemRecord
}

func TestGovernanceServiceSuite(t *testing.T) {
	suite.Run(t, new(GovernanceServiceSuite))
}

func (s *GovernanceServiceSuite) SetupTest() {
	s.store = record.NewInMemory()
	s.companyID = id.CompanyID(uuid.New())
	s.service = New(s.store, nil)

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

func (s *GovernanceServiceSuite) TestRecordApproval() {
	ctx := context.Background()

	s.Run("records a sign-off for an existing system", func() {
		approval, err := s.service.RecordApproval(ctx, s.companyID, ApprovalInput{
			SystemKey:    "screener",
			ApproverRole: "general_counsel",
			Decision:     "conditional",
			Conditions:   "quarterly bias audit",
		})
		s.Require().NoError(err)
		s.Equal(s.system.ID, approval.SystemID)
		s.Equal(record.ApprovalConditional, approval.Decision)
	})

	s.Run("unknown system key is not found", func() {
		_, err := s.service.RecordApproval(ctx, s.companyID, ApprovalInput{
			SystemKey:    "nonexistent",
			ApproverRole: "general_counsel",
			Decision:     "approved",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("unknown decision is invalid", func() {
		_, err := s.service.RecordApproval(ctx, s.companyID, ApprovalInput{
			SystemKey:    "screener",
			ApproverRole: "general_counsel",
			Decision:     "probably",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *GovernanceServiceSuite) TestRecordAssertion() {
	ctx := context.Background()

	s.Run("records a vendor claim for an existing system", func() {
		assertion, err := s.service.RecordAssertion(ctx, s.companyID, AssertionInput{
			SystemKey:     "screener",
			AssertionType: "bias_audit",
			Statement:     "audited by ThirdParty LLC",
			HasEvidence:   true,
			Risk:          "yellow",
		})
		s.Require().NoError(err)
		s.Equal(record.RiskYellow, assertion.Risk)
		s.True(assertion.HasEvidence)
	})

	s.Run("unknown risk class is invalid", func() {
		_, err := s.service.RecordAssertion(ctx, s.companyID, AssertionInput{
			SystemKey:     "screener",
			AssertionType: "bias_audit",
			Statement:     "audited",
			Risk:          "purple",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *GovernanceServiceSuite) TestLists() {
	ctx := context.Background()

	_, err := s.service.RecordApproval(ctx, s.companyID, ApprovalInput{
		SystemKey:    "screener",
		ApproverRole: "ciso",
		Decision:     "approved",
	})
	s.Require().NoError(err)
	_, err = s.service.RecordAssertion(ctx, s.companyID, AssertionInput{
		SystemKey:     "screener",
		AssertionType: "data_handling",
		Statement:     "data retained 12 months",
		Risk:          "green",
	})
	s.Require().NoError(err)

	s.Run("list all for tenant", func() {
		approvals, err := s.service.ListApprovals(ctx, s.companyID, "")
		s.NoError(err)
		s.Len(approvals, 1)

		assertions, err := s.service.ListAssertions(ctx, s.companyID, "")
		s.NoError(err)
		s.Len(assertions, 1)
	})

	s.Run("narrowing to an unknown key is not found", func() {
		_, err := s.service.ListApprovals(ctx, s.companyID, "nonexistent")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("another tenant sees nothing", func() {
		approvals, err := s.service.ListApprovals(ctx, id.CompanyID(uuid.New()), "")
		s.NoError(err)
		s.Empty(approvals)
	})
}
