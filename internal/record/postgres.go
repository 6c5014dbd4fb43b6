package record

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "hindsight/pkg/domain"
	"hindsight/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// PostgresStore persists evidence records in PostgreSQL. Tenant scoping is
// applied at partition construction; every query carries the company id.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed record store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// ForCompany returns a handle that can only touch companyID's rows.
func (s *PostgresStore) ForCompany(companyID id.CompanyID) Partition {
	return &pgPartition{db: s.db, companyID: companyID}
}

type pgPartition struct {
	db        *sql.DB
	companyID id.CompanyID
}

func (p *pgPartition) CompanyID() id.CompanyID { return p.companyID }

// checkOwned verifies a referenced row exists and belongs to this partition.
// Runs inside the surrounding transaction so referential integrity holds at
// commit time, not merely at read time.
func (p *pgPartition) checkOwned(ctx context.Context, tx *sql.Tx, table string, rowID uuid.UUID) error {
	var owner uuid.UUID
	query := fmt.Sprintf(`SELECT company_id FROM %s WHERE id = $1`, table)
	err := tx.QueryRowContext(ctx, query, rowID).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("check reference in %s: %w", table, err)
	}
	if id.CompanyID(owner) != p.companyID {
		return sentinel.ErrForbidden
	}
	return nil
}

func (p *pgPartition) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// --- AI systems ---

func (p *pgPartition) CreateAISystem(ctx context.Context, rec *AISystemRecord) error {
	query := `
		INSERT INTO ai_systems (
			id, company_id, system_key, name, vendor, system_type, influence_level,
			data_inputs, override_points, intended_use, deployed_at, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := p.db.ExecContext(ctx, query,
		uuid.UUID(rec.ID),
		uuid.UUID(p.companyID),
		rec.SystemKey,
		rec.Name,
		rec.Vendor,
		rec.SystemType,
		string(rec.Influence),
		pq.Array(rec.DataInputs),
		pq.Array(rec.OverridePoints),
		rec.IntendedUse,
		rec.DeployedAt,
		string(rec.Status),
		rec.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert ai system: %w", err)
	}
	return nil
}

const systemColumns = `id, company_id, system_key, name, vendor, system_type, influence_level,
	data_inputs, override_points, intended_use, deployed_at, status, retired_at, created_at`

func (p *pgPartition) scanSystem(row interface{ Scan(...any) error }) (*AISystemRecord, error) {
	var (
		rec       AISystemRecord
		rowID     uuid.UUID
		owner     uuid.UUID
		influence string
		status    string
		inputs    pq.StringArray
		overrides pq.StringArray
	)
	err := row.Scan(&rowID, &owner, &rec.SystemKey, &rec.Name, &rec.Vendor, &rec.SystemType,
		&influence, &inputs, &overrides, &rec.IntendedUse, &rec.DeployedAt, &status, &rec.RetiredAt,
		&rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan ai system: %w", err)
	}
	rec.ID = id.AISystemID(rowID)
	rec.CompanyID = id.CompanyID(owner)
	rec.Influence = InfluenceLevel(influence)
	rec.Status = SystemStatus(status)
	rec.DataInputs = inputs
	rec.OverridePoints = overrides
	if rec.CompanyID != p.companyID {
		return nil, sentinel.ErrForbidden
	}
	return &rec, nil
}

func (p *pgPartition) GetAISystem(ctx context.Context, systemID id.AISystemID) (*AISystemRecord, error) {
	query := `SELECT ` + systemColumns + ` FROM ai_systems WHERE id = $1`
	return p.scanSystem(p.db.QueryRowContext(ctx, query, uuid.UUID(systemID)))
}

func (p *pgPartition) FindAISystemByKey(ctx context.Context, systemKey string) (*AISystemRecord, error) {
	query := `SELECT ` + systemColumns + ` FROM ai_systems WHERE company_id = $1 AND system_key = $2`
	return p.scanSystem(p.db.QueryRowContext(ctx, query, uuid.UUID(p.companyID), systemKey))
}

func (p *pgPartition) ListAISystems(ctx context.Context, filter SystemFilter) ([]*AISystemRecord, error) {
	query := `SELECT ` + systemColumns + ` FROM ai_systems WHERE company_id = $1`
	args := []any{uuid.UUID(p.companyID)}
	if filter.SystemKey != "" {
		query += ` AND system_key = $2`
		args = append(args, filter.SystemKey)
	}
	query += ` ORDER BY created_at, id`

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ai systems: %w", err)
	}
	defer rows.Close()

	var out []*AISystemRecord
	for rows.Next() {
		rec, err := p.scanSystem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (p *pgPartition) RetireAISystem(ctx context.Context, systemID id.AISystemID, now time.Time) (*AISystemRecord, error) {
	query := `
		UPDATE ai_systems SET status = $3, retired_at = $4
		WHERE id = $1 AND company_id = $2
		RETURNING ` + systemColumns
	rec, err := p.scanSystem(p.db.QueryRowContext(ctx, query,
		uuid.UUID(systemID), uuid.UUID(p.companyID), string(SystemRetired), now))
	if err != nil && errors.Is(err, sentinel.ErrNotFound) {
		// Distinguish absent from foreign-owned for the Forbidden contract.
		if _, getErr := p.GetAISystem(ctx, systemID); errors.Is(getErr, sentinel.ErrForbidden) {
			return nil, sentinel.ErrForbidden
		}
	}
	return rec, err
}

// --- Regulatory contexts ---

func (p *pgPartition) CreateRegContext(ctx context.Context, rec *RegContextSnapshot) error {
	obligations, err := json.Marshal(rec.Obligations)
	if err != nil {
		return fmt.Errorf("marshal obligations: %w", err)
	}
	query := `
		INSERT INTO regulatory_contexts (
			id, company_id, jurisdiction, regulation, version, effective_date,
			obligations, source_ref, captured_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = p.db.ExecContext(ctx, query,
		uuid.UUID(rec.ID),
		uuid.UUID(p.companyID),
		rec.Jurisdiction,
		rec.Regulation,
		rec.Version,
		rec.EffectiveDate,
		obligations,
		rec.SourceRef,
		rec.CapturedAt,
	)
	if err != nil {
		return fmt.Errorf("insert regulatory context: %w", err)
	}
	return nil
}

const regContextColumns = `id, company_id, jurisdiction, regulation, version, effective_date,
	obligations, source_ref, captured_at`

func (p *pgPartition) scanRegContext(row interface{ Scan(...any) error }) (*RegContextSnapshot, error) {
	var (
		rec         RegContextSnapshot
		rowID       uuid.UUID
		owner       uuid.UUID
		obligations []byte
	)
	err := row.Scan(&rowID, &owner, &rec.Jurisdiction, &rec.Regulation, &rec.Version,
		&rec.EffectiveDate, &obligations, &rec.SourceRef, &rec.CapturedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan regulatory context: %w", err)
	}
	if len(obligations) > 0 {
		if err := json.Unmarshal(obligations, &rec.Obligations); err != nil {
			return nil, fmt.Errorf("unmarshal obligations: %w", err)
		}
	}
	rec.ID = id.RegContextID(rowID)
	rec.CompanyID = id.CompanyID(owner)
	if rec.CompanyID != p.companyID {
		return nil, sentinel.ErrForbidden
	}
	return &rec, nil
}

func (p *pgPartition) GetRegContext(ctx context.Context, regContextID id.RegContextID) (*RegContextSnapshot, error) {
	query := `SELECT ` + regContextColumns + ` FROM regulatory_contexts WHERE id = $1`
	return p.scanRegContext(p.db.QueryRowContext(ctx, query, uuid.UUID(regContextID)))
}

func (p *pgPartition) ListRegContexts(ctx context.Context, filter RegContextFilter) ([]*RegContextSnapshot, error) {
	query := `SELECT ` + regContextColumns + ` FROM regulatory_contexts WHERE company_id = $1`
	args := []any{uuid.UUID(p.companyID)}
	if filter.Jurisdiction != "" {
		query += ` AND jurisdiction = $2`
		args = append(args, filter.Jurisdiction)
	}
	query += ` ORDER BY captured_at, id`

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list regulatory contexts: %w", err)
	}
	defer rows.Close()

	var out []*RegContextSnapshot
	for rows.Next() {
		rec, err := p.scanRegContext(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// --- Disclosures ---

func (p *pgPartition) CreateDisclosure(ctx context.Context, rec *DisclosureArtifact) error {
	return p.inTx(ctx, func(tx *sql.Tx) error {
		if err := p.checkOwned(ctx, tx, "ai_systems", uuid.UUID(rec.SystemID)); err != nil {
			return err
		}
		if err := p.checkOwned(ctx, tx, "regulatory_contexts", uuid.UUID(rec.RegContextID)); err != nil {
			return err
		}
		query := `
			INSERT INTO disclosures (
				id, company_id, ai_system_id, reg_context_id, candidate_token, role_id,
				stage, rendered_text, delivery_method, delivered_at, ack_status
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`
		_, err := tx.ExecContext(ctx, query,
			uuid.UUID(rec.ID),
			uuid.UUID(p.companyID),
			uuid.UUID(rec.SystemID),
			uuid.UUID(rec.RegContextID),
			string(rec.CandidateToken),
			rec.RoleID,
			rec.Stage,
			rec.RenderedText,
			rec.DeliveryMethod,
			rec.DeliveredAt,
			string(rec.AckStatus),
		)
		if err != nil {
			return fmt.Errorf("insert disclosure: %w", err)
		}
		return nil
	})
}

const disclosureColumns = `id, company_id, ai_system_id, reg_context_id, candidate_token, role_id,
	stage, rendered_text, delivery_method, delivered_at, ack_status`

func (p *pgPartition) scanDisclosure(row interface{ Scan(...any) error }) (*DisclosureArtifact, error) {
	var (
		rec       DisclosureArtifact
		rowID     uuid.UUID
		owner     uuid.UUID
		systemID  uuid.UUID
		contextID uuid.UUID
		token     string
		ack       string
	)
	err := row.Scan(&rowID, &owner, &systemID, &contextID, &token, &rec.RoleID,
		&rec.Stage, &rec.RenderedText, &rec.DeliveryMethod, &rec.DeliveredAt, &ack)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan disclosure: %w", err)
	}
	rec.ID = id.DisclosureID(rowID)
	rec.CompanyID = id.CompanyID(owner)
	rec.SystemID = id.AISystemID(systemID)
	rec.RegContextID = id.RegContextID(contextID)
	rec.CandidateToken = id.CandidateToken(token)
	rec.AckStatus = AckStatus(ack)
	if rec.CompanyID != p.companyID {
		return nil, sentinel.ErrForbidden
	}
	return &rec, nil
}

func (p *pgPartition) GetDisclosure(ctx context.Context, disclosureID id.DisclosureID) (*DisclosureArtifact, error) {
	query := `SELECT ` + disclosureColumns + ` FROM disclosures WHERE id = $1`
	return p.scanDisclosure(p.db.QueryRowContext(ctx, query, uuid.UUID(disclosureID)))
}

func (p *pgPartition) ListDisclosures(ctx context.Context, filter DisclosureFilter) ([]*DisclosureArtifact, error) {
	if emptyNonNilSystems(filter.SystemIDs) || emptyNonNilContexts(filter.RegContextIDs) {
		return nil, nil
	}
	query := `SELECT ` + disclosureColumns + ` FROM disclosures WHERE company_id = $1`
	args := []any{uuid.UUID(p.companyID)}
	if filter.SystemIDs != nil {
		args = append(args, pq.Array(uuidsOfSystems(filter.SystemIDs)))
		query += fmt.Sprintf(` AND ai_system_id = ANY($%d)`, len(args))
	}
	if filter.RegContextIDs != nil {
		args = append(args, pq.Array(uuidsOfContexts(filter.RegContextIDs)))
		query += fmt.Sprintf(` AND reg_context_id = ANY($%d)`, len(args))
	}
	if !filter.Candidate.IsZero() {
		args = append(args, string(filter.Candidate))
		query += fmt.Sprintf(` AND candidate_token = $%d`, len(args))
	}
	if filter.Range.Start != nil {
		args = append(args, *filter.Range.Start)
		query += fmt.Sprintf(` AND delivered_at >= $%d`, len(args))
	}
	if filter.Range.End != nil {
		args = append(args, *filter.Range.End)
		query += fmt.Sprintf(` AND delivered_at <= $%d`, len(args))
	}
	query += ` ORDER BY delivered_at, id`

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list disclosures: %w", err)
	}
	defer rows.Close()

	var out []*DisclosureArtifact
	for rows.Next() {
		rec, err := p.scanDisclosure(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// --- Decisions and rationales ---

func (p *pgPartition) CreateDecision(ctx context.Context, rec *HiringDecisionEvent) error {
	return p.inTx(ctx, func(tx *sql.Tx) error {
		var systemID any
		if rec.SystemID != nil {
			if err := p.checkOwned(ctx, tx, "ai_systems", uuid.UUID(*rec.SystemID)); err != nil {
				return err
			}
			systemID = uuid.UUID(*rec.SystemID)
		}
		query := `
			INSERT INTO hiring_decisions (
				id, company_id, candidate_token, role_id, ai_system_id, decision_type,
				human_involvement, decider_role, decided_at, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		_, err := tx.ExecContext(ctx, query,
			uuid.UUID(rec.ID),
			uuid.UUID(p.companyID),
			string(rec.CandidateToken),
			rec.RoleID,
			systemID,
			string(rec.Decision),
			string(rec.Involvement),
			rec.DeciderRole,
			rec.DecidedAt,
			rec.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert hiring decision: %w", err)
		}
		return nil
	})
}

const decisionColumns = `id, company_id, candidate_token, role_id, ai_system_id, decision_type,
	human_involvement, decider_role, decided_at, created_at`

func (p *pgPartition) scanDecision(row interface{ Scan(...any) error }) (*HiringDecisionEvent, error) {
	var (
		rec         HiringDecisionEvent
		rowID       uuid.UUID
		owner       uuid.UUID
		token       string
		systemID    *uuid.UUID
		decision    string
		involvement string
	)
	err := row.Scan(&rowID, &owner, &token, &rec.RoleID, &systemID, &decision,
		&involvement, &rec.DeciderRole, &rec.DecidedAt, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan hiring decision: %w", err)
	}
	rec.ID = id.DecisionID(rowID)
	rec.CompanyID = id.CompanyID(owner)
	rec.CandidateToken = id.CandidateToken(token)
	rec.Decision = DecisionType(decision)
	rec.Involvement = Involvement(involvement)
	if systemID != nil {
		converted := id.AISystemID(*systemID)
		rec.SystemID = &converted
	}
	if rec.CompanyID != p.companyID {
		return nil, sentinel.ErrForbidden
	}
	return &rec, nil
}

func (p *pgPartition) GetDecision(ctx context.Context, decisionID id.DecisionID) (*HiringDecisionEvent, error) {
	query := `SELECT ` + decisionColumns + ` FROM hiring_decisions WHERE id = $1`
	return p.scanDecision(p.db.QueryRowContext(ctx, query, uuid.UUID(decisionID)))
}

func (p *pgPartition) ListDecisions(ctx context.Context, filter DecisionFilter) ([]*HiringDecisionEvent, error) {
	if emptyNonNilSystems(filter.SystemIDs) {
		return nil, nil
	}
	query := `SELECT ` + decisionColumns + ` FROM hiring_decisions WHERE company_id = $1`
	args := []any{uuid.UUID(p.companyID)}
	if filter.SystemIDs != nil {
		args = append(args, pq.Array(uuidsOfSystems(filter.SystemIDs)))
		query += fmt.Sprintf(` AND ai_system_id = ANY($%d)`, len(args))
	}
	if !filter.Candidate.IsZero() {
		args = append(args, string(filter.Candidate))
		query += fmt.Sprintf(` AND candidate_token = $%d`, len(args))
	}
	if filter.Range.Start != nil {
		args = append(args, *filter.Range.Start)
		query += fmt.Sprintf(` AND decided_at >= $%d`, len(args))
	}
	if filter.Range.End != nil {
		args = append(args, *filter.Range.End)
		query += fmt.Sprintf(` AND decided_at <= $%d`, len(args))
	}
	query += ` ORDER BY decided_at, id`

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list hiring decisions: %w", err)
	}
	defer rows.Close()

	var out []*HiringDecisionEvent
	for rows.Next() {
		rec, err := p.scanDecision(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (p *pgPartition) CreateRationale(ctx context.Context, rec *RationaleEntry) error {
	return p.inTx(ctx, func(tx *sql.Tx) error {
		if err := p.checkOwned(ctx, tx, "hiring_decisions", uuid.UUID(rec.DecisionID)); err != nil {
			return err
		}
		query := `
			INSERT INTO decision_rationales (
				id, company_id, decision_id, rationale_type, summary, artifacts, author, entered_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		_, err := tx.ExecContext(ctx, query,
			uuid.UUID(rec.ID),
			uuid.UUID(p.companyID),
			uuid.UUID(rec.DecisionID),
			rec.RationaleType,
			rec.Summary,
			pq.Array(rec.Artifacts),
			rec.Author,
			rec.EnteredAt,
		)
		if err != nil {
			return fmt.Errorf("insert rationale: %w", err)
		}
		return nil
	})
}

func (p *pgPartition) ListRationales(ctx context.Context, decisionID id.DecisionID) ([]*RationaleEntry, error) {
	query := `
		SELECT id, company_id, decision_id, rationale_type, summary, artifacts, author, entered_at
		FROM decision_rationales
		WHERE company_id = $1 AND decision_id = $2
		ORDER BY entered_at, id
	`
	rows, err := p.db.QueryContext(ctx, query, uuid.UUID(p.companyID), uuid.UUID(decisionID))
	if err != nil {
		return nil, fmt.Errorf("list rationales: %w", err)
	}
	defer rows.Close()

	var out []*RationaleEntry
	for rows.Next() {
		var (
			rec       RationaleEntry
			rowID     uuid.UUID
			owner     uuid.UUID
			decision  uuid.UUID
			artifacts pq.StringArray
		)
		if err := rows.Scan(&rowID, &owner, &decision, &rec.RationaleType, &rec.Summary,
			&artifacts, &rec.Author, &rec.EnteredAt); err != nil {
			return nil, fmt.Errorf("scan rationale: %w", err)
		}
		rec.ID = id.RationaleID(rowID)
		rec.CompanyID = id.CompanyID(owner)
		rec.DecisionID = id.DecisionID(decision)
		rec.Artifacts = artifacts
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// --- Governance ---

func (p *pgPartition) CreateApproval(ctx context.Context, rec *GovernanceApproval) error {
	return p.inTx(ctx, func(tx *sql.Tx) error {
		if err := p.checkOwned(ctx, tx, "ai_systems", uuid.UUID(rec.SystemID)); err != nil {
			return err
		}
		query := `
			INSERT INTO governance_approvals (
				id, company_id, ai_system_id, approver_role, decision, conditions, granted_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		_, err := tx.ExecContext(ctx, query,
			uuid.UUID(rec.ID),
			uuid.UUID(p.companyID),
			uuid.UUID(rec.SystemID),
			rec.ApproverRole,
			string(rec.Decision),
			rec.Conditions,
			rec.GrantedAt,
		)
		if err != nil {
			return fmt.Errorf("insert governance approval: %w", err)
		}
		return nil
	})
}

func (p *pgPartition) ListApprovals(ctx context.Context, systemIDs []id.AISystemID) ([]*GovernanceApproval, error) {
	if emptyNonNilSystems(systemIDs) {
		return nil, nil
	}
	query := `
		SELECT id, company_id, ai_system_id, approver_role, decision, conditions, granted_at
		FROM governance_approvals WHERE company_id = $1
	`
	args := []any{uuid.UUID(p.companyID)}
	if systemIDs != nil {
		args = append(args, pq.Array(uuidsOfSystems(systemIDs)))
		query += fmt.Sprintf(` AND ai_system_id = ANY($%d)`, len(args))
	}
	query += ` ORDER BY granted_at, id`

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list governance approvals: %w", err)
	}
	defer rows.Close()

	var out []*GovernanceApproval
	for rows.Next() {
		var (
			rec      GovernanceApproval
			rowID    uuid.UUID
			owner    uuid.UUID
			systemID uuid.UUID
			decision string
		)
		if err := rows.Scan(&rowID, &owner, &systemID, &rec.ApproverRole, &decision,
			&rec.Conditions, &rec.GrantedAt); err != nil {
			return nil, fmt.Errorf("scan governance approval: %w", err)
		}
		rec.ID = id.ApprovalID(rowID)
		rec.CompanyID = id.CompanyID(owner)
		rec.SystemID = id.AISystemID(systemID)
		rec.Decision = ApprovalDecision(decision)
		out = append(out, &rec)
	}
	return out, rows.Err()
}

func (p *pgPartition) CreateAssertion(ctx context.Context, rec *VendorAssertion) error {
	return p.inTx(ctx, func(tx *sql.Tx) error {
		if err := p.checkOwned(ctx, tx, "ai_systems", uuid.UUID(rec.SystemID)); err != nil {
			return err
		}
		query := `
			INSERT INTO vendor_assertions (
				id, company_id, ai_system_id, assertion_type, statement, has_evidence, risk_class, asserted_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		_, err := tx.ExecContext(ctx, query,
			uuid.UUID(rec.ID),
			uuid.UUID(p.companyID),
			uuid.UUID(rec.SystemID),
			rec.AssertionType,
			rec.Statement,
			rec.HasEvidence,
			string(rec.Risk),
			rec.AssertedAt,
		)
		if err != nil {
			return fmt.Errorf("insert vendor assertion: %w", err)
		}
		return nil
	})
}

func (p *pgPartition) ListAssertions(ctx context.Context, systemIDs []id.AISystemID) ([]*VendorAssertion, error) {
	if emptyNonNilSystems(systemIDs) {
		return nil, nil
	}
	query := `
		SELECT id, company_id, ai_system_id, assertion_type, statement, has_evidence, risk_class, asserted_at
		FROM vendor_assertions WHERE company_id = $1
	`
	args := []any{uuid.UUID(p.companyID)}
	if systemIDs != nil {
		args = append(args, pq.Array(uuidsOfSystems(systemIDs)))
		query += fmt.Sprintf(` AND ai_system_id = ANY($%d)`, len(args))
	}
	query += ` ORDER BY asserted_at, id`

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vendor assertions: %w", err)
	}
	defer rows.Close()

	var out []*VendorAssertion
	for rows.Next() {
		var (
			rec      VendorAssertion
			rowID    uuid.UUID
			owner    uuid.UUID
			systemID uuid.UUID
			risk     string
		)
		if err := rows.Scan(&rowID, &owner, &systemID, &rec.AssertionType, &rec.Statement,
			&rec.HasEvidence, &risk, &rec.AssertedAt); err != nil {
			return nil, fmt.Errorf("scan vendor assertion: %w", err)
		}
		rec.ID = id.AssertionID(rowID)
		rec.CompanyID = id.CompanyID(owner)
		rec.SystemID = id.AISystemID(systemID)
		rec.Risk = RiskClass(risk)
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// --- helpers ---

func emptyNonNilSystems(ids []id.AISystemID) bool { return ids != nil && len(ids) == 0 }

func emptyNonNilContexts(ids []id.RegContextID) bool { return ids != nil && len(ids) == 0 }

func uuidsOfSystems(ids []id.AISystemID) []uuid.UUID {
	out := make([]uuid.UUID, len(ids))
	for i, systemID := range ids {
		out[i] = uuid.UUID(systemID)
	}
	return out
}

func uuidsOfContexts(ids []id.RegContextID) []uuid.UUID {
	out := make([]uuid.UUID, len(ids))
	for i, contextID := range ids {
		out[i] = uuid.UUID(contextID)
	}
	return out
}
