package disclosure

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"hindsight/internal/record"
	id "hindsight/pkg/domain"
)

type RendererSuite struct {
	suite.Suite
	renderer *Renderer
	system   *record.AISystemRecord
}

func TestRendererSuite(t *testing.T) {
	suite.Run(t, new(RendererSuite))
}

func (s *RendererSuite) SetupTest() {
	var err error
	s.renderer, err = NewRenderer()
	s.Require().NoError(err)

	s.system = &record.AISystemRecord{
		ID:          id.AISystemID(uuid.New()),
		SystemKey:   "screener",
		Name:        "Resume Screener",
		Vendor:      "ScreenCo",
		Influence:   record.InfluenceAdvisory,
		IntendedUse: "rank applicants",
	}
}

func (s *RendererSuite) regContext(jurisdiction string, obligations map[string]string) *record.RegContextSnapshot {
	return &record.RegContextSnapshot{
		ID:            id.RegContextID(uuid.New()),
		Jurisdiction:  jurisdiction,
		Regulation:    "Local Law 144",
		EffectiveDate: time.Date(2023, 7, 5, 0, 0, 0, 0, time.UTC),
		Obligations:   obligations,
	}
}

func (s *RendererSuite) TestRender() {
	s.Run("identical inputs render identical text", func() {
		regContext := s.regContext("NYC", map[string]string{"disclosure_timing": "at least 10 business days before use"})
		first, err := s.renderer.Render(s.system, regContext, "role-1", "screening")
		s.Require().NoError(err)
		second, err := s.renderer.Render(s.system, regContext, "role-1", "screening")
		s.Require().NoError(err)
		s.Equal(first, second)
	})

	s.Run("jurisdiction template is selected when present", func() {
		text, err := s.renderer.Render(s.system, s.regContext("NYC", nil), "role-1", "screening")
		s.Require().NoError(err)
		s.Contains(text, "Local Law 144")
		s.Contains(text, "alternative selection process")
	})

	s.Run("unknown jurisdiction falls back to the default template", func() {
		text, err := s.renderer.Render(s.system, s.regContext("Mars", nil), "role-1", "screening")
		s.Require().NoError(err)
		s.Contains(text, "Resume Screener")
		s.Contains(text, "ScreenCo")
		s.Contains(text, "Mars")
	})

	s.Run("timing obligation is substituted from the snapshot", func() {
		regContext := s.regContext("NYC", map[string]string{"disclosure_timing": "ten days prior"})
		text, err := s.renderer.Render(s.system, regContext, "role-1", "screening")
		s.Require().NoError(err)
		s.Contains(text, "ten days prior")
	})

	s.Run("missing timing obligation uses the fallback wording", func() {
		text, err := s.renderer.Render(s.system, s.regContext("NYC", nil), "role-1", "screening")
		s.Require().NoError(err)
		s.Contains(text, timingFallback)
	})
}
