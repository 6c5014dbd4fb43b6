// Package disclosure renders and records the legally required candidate
// notices. Rendering is a pure function of the AI system record, the
// regulatory context snapshot, and the role context, so a delivered artifact
// can later be verified against what should have been sent.
package disclosure

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"hindsight/internal/record"
)

//go:embed templates.yaml
var templatesYAML []byte

// timingObligationKey is the obligations-map entry substituted into every
// template. Snapshots without it get the fallback wording.
const timingObligationKey = "disclosure_timing"

const timingFallback = "prior to or at the time the tool is used"

type templateFile struct {
	Default       string            `yaml:"default"`
	Jurisdictions map[string]string `yaml:"jurisdictions"`
}

// Renderer composes disclosure text from jurisdiction templates.
type Renderer struct {
	fallback      *template.Template
	jurisdictions map[string]*template.Template
}

// NewRenderer parses the embedded template set. Parse failures are
// programming errors and surface at construction, not at render time.
func NewRenderer() (*Renderer, error) {
	var file templateFile
	if err := yaml.Unmarshal(templatesYAML, &file); err != nil {
		return nil, fmt.Errorf("parse disclosure templates: %w", err)
	}
	if file.Default == "" {
		return nil, fmt.Errorf("disclosure template set has no default template")
	}

	fallback, err := template.New("default").Parse(file.Default)
	if err != nil {
		return nil, fmt.Errorf("parse default disclosure template: %w", err)
	}
	jurisdictions := make(map[string]*template.Template, len(file.Jurisdictions))
	for jurisdiction, text := range file.Jurisdictions {
		tmpl, err := template.New(jurisdiction).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parse %s disclosure template: %w", jurisdiction, err)
		}
		jurisdictions[jurisdiction] = tmpl
	}
	return &Renderer{fallback: fallback, jurisdictions: jurisdictions}, nil
}

type templateData struct {
	CompanyNoun      string
	SystemName       string
	Vendor           string
	IntendedUse      string
	RoleID           string
	Stage            string
	Jurisdiction     string
	Regulation       string
	TimingObligation string
}

// Render composes the notice text. Identical inputs always produce
// identical text; there is no clock, randomness, or store access here.
func (r *Renderer) Render(system *record.AISystemRecord, regContext *record.RegContextSnapshot, roleID, stage string) (string, error) {
	timing := regContext.Obligations[timingObligationKey]
	if timing == "" {
		timing = timingFallback
	}
	data := templateData{
		CompanyNoun:      "This organization",
		SystemName:       system.Name,
		Vendor:           system.Vendor,
		IntendedUse:      system.IntendedUse,
		RoleID:           roleID,
		Stage:            stage,
		Jurisdiction:     regContext.Jurisdiction,
		Regulation:       regContext.Regulation,
		TimingObligation: timing,
	}

	tmpl, ok := r.jurisdictions[regContext.Jurisdiction]
	if !ok {
		tmpl = r.fallback
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render disclosure: %w", err)
	}
	return buf.String(), nil
}
