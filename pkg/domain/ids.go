// Package domain defines typed identifiers shared across features.
//
// Every record kind gets its own UUID-backed type so a rationale id can never
// be passed where a decision id is expected. Parsing happens once, at the
// trust boundary; everything past the handlers works with typed values.
package domain

import (
	"github.com/google/uuid"

	dErrors "hindsight/pkg/domain-errors"
)

type (
	// CompanyID identifies a tenant. All stored records carry one.
	CompanyID uuid.UUID

	// AISystemID is the row identity of an AISystemRecord. The tenant-facing
	// system key (unique per tenant) is a separate string field on the record.
	AISystemID uuid.UUID

	// RegContextID identifies a regulatory context snapshot.
	RegContextID uuid.UUID

	// DisclosureID identifies a delivered disclosure artifact.
	DisclosureID uuid.UUID

	// DecisionID identifies a hiring decision event.
	DecisionID uuid.UUID

	// RationaleID identifies a decision rationale entry.
	RationaleID uuid.UUID

	// ApprovalID identifies a governance approval record.
	ApprovalID uuid.UUID

	// AssertionID identifies a vendor assertion record.
	AssertionID uuid.UUID
)

// CandidateToken is the one-way hash of a candidate identifier. It is the
// only form in which a candidate is ever referenced after ingestion.
type CandidateToken string

func (c CandidateToken) IsZero() bool { return c == "" }

func (c CompanyID) IsNil() bool       { return uuid.UUID(c) == uuid.Nil }
func (c CompanyID) String() string    { return uuid.UUID(c).String() }
func (a AISystemID) IsNil() bool      { return uuid.UUID(a) == uuid.Nil }
func (a AISystemID) String() string   { return uuid.UUID(a).String() }
func (r RegContextID) IsNil() bool    { return uuid.UUID(r) == uuid.Nil }
func (r RegContextID) String() string { return uuid.UUID(r).String() }
func (d DisclosureID) String() string { return uuid.UUID(d).String() }
func (d DecisionID) IsNil() bool      { return uuid.UUID(d) == uuid.Nil }
func (d DecisionID) String() string   { return uuid.UUID(d).String() }
func (r RationaleID) String() string  { return uuid.UUID(r).String() }
func (a ApprovalID) String() string   { return uuid.UUID(a).String() }
func (a AssertionID) String() string  { return uuid.UUID(a).String() }

// Defined types do not inherit uuid.UUID's text marshalling, so each ID
// implements encoding.TextMarshaler/TextUnmarshaler explicitly. Without these
// encoding/json would render an ID as a byte array.

func (c CompanyID) MarshalText() ([]byte, error)    { return []byte(c.String()), nil }
func (a AISystemID) MarshalText() ([]byte, error)   { return []byte(a.String()), nil }
func (r RegContextID) MarshalText() ([]byte, error) { return []byte(r.String()), nil }
func (d DisclosureID) MarshalText() ([]byte, error) { return []byte(d.String()), nil }
func (d DecisionID) MarshalText() ([]byte, error)   { return []byte(d.String()), nil }
func (r RationaleID) MarshalText() ([]byte, error)  { return []byte(r.String()), nil }
func (a ApprovalID) MarshalText() ([]byte, error)   { return []byte(a.String()), nil }
func (a AssertionID) MarshalText() ([]byte, error)  { return []byte(a.String()), nil }

func (c *CompanyID) UnmarshalText(text []byte) error {
	parsed, err := parseUUID(string(text))
	if err != nil {
		return err
	}
	*c = CompanyID(parsed)
	return nil
}

func (a *AISystemID) UnmarshalText(text []byte) error {
	parsed, err := parseUUID(string(text))
	if err != nil {
		return err
	}
	*a = AISystemID(parsed)
	return nil
}

func (r *RegContextID) UnmarshalText(text []byte) error {
	parsed, err := parseUUID(string(text))
	if err != nil {
		return err
	}
	*r = RegContextID(parsed)
	return nil
}

func (d *DisclosureID) UnmarshalText(text []byte) error {
	parsed, err := parseUUID(string(text))
	if err != nil {
		return err
	}
	*d = DisclosureID(parsed)
	return nil
}

func (d *DecisionID) UnmarshalText(text []byte) error {
	parsed, err := parseUUID(string(text))
	if err != nil {
		return err
	}
	*d = DecisionID(parsed)
	return nil
}

func (r *RationaleID) UnmarshalText(text []byte) error {
	parsed, err := parseUUID(string(text))
	if err != nil {
		return err
	}
	*r = RationaleID(parsed)
	return nil
}

func (a *ApprovalID) UnmarshalText(text []byte) error {
	parsed, err := parseUUID(string(text))
	if err != nil {
		return err
	}
	*a = ApprovalID(parsed)
	return nil
}

func (a *AssertionID) UnmarshalText(text []byte) error {
	parsed, err := parseUUID(string(text))
	if err != nil {
		return err
	}
	*a = AssertionID(parsed)
	return nil
}

func parseUUID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return parsed, nil
}

// ParseCompanyID parses an external company id string.
func ParseCompanyID(raw string) (CompanyID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return CompanyID{}, err
	}
	return CompanyID(parsed), nil
}

// ParseAISystemID parses an external AI system record id string.
func ParseAISystemID(raw string) (AISystemID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return AISystemID{}, err
	}
	return AISystemID(parsed), nil
}

// ParseRegContextID parses an external regulatory context id string.
func ParseRegContextID(raw string) (RegContextID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return RegContextID{}, err
	}
	return RegContextID(parsed), nil
}

// ParseDisclosureID parses an external disclosure artifact id string.
func ParseDisclosureID(raw string) (DisclosureID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return DisclosureID{}, err
	}
	return DisclosureID(parsed), nil
}

// ParseDecisionID parses an external decision event id string.
func ParseDecisionID(raw string) (DecisionID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return DecisionID{}, err
	}
	return DecisionID(parsed), nil
}
