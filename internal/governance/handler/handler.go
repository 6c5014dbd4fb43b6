package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hindsight/internal/governance"
	"hindsight/internal/record"
	id "hindsight/pkg/domain"
	dErrors "hindsight/pkg/domain-errors"
	"hindsight/pkg/platform/httputil"
	"hindsight/pkg/requestcontext"
)

// Service defines the interface for governance operations.
type Service interface {
	RecordApproval(ctx context.Context, companyID id.CompanyID, input governance.ApprovalInput) (*record.GovernanceApproval, error)
	RecordAssertion(ctx context.Context, companyID id.CompanyID, input governance.AssertionInput) (*record.VendorAssertion, error)
	ListApprovals(ctx context.Context, companyID id.CompanyID, systemKey string) ([]*record.GovernanceApproval, error)
	ListAssertions(ctx context.Context, companyID id.CompanyID, systemKey string) ([]*record.VendorAssertion, error)
}

// Handler handles governance approval and vendor assertion endpoints.
type Handler struct {
	logger     *slog.Logger
	governance Service
}

// New creates a governance Handler.
func New(governanceService Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, governance: governanceService}
}

// Register registers the governance routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/governance-approvals", h.handleRecordApproval)
	r.Get("/governance-approvals", h.handleListApprovals)
	r.Post("/vendor-assertions", h.handleRecordAssertion)
	r.Get("/vendor-assertions", h.handleListAssertions)
}

type approvalRequest struct {
	SystemKey    string    `json:"system_key"`
	ApproverRole string    `json:"approver_role"`
	Decision     string    `json:"decision"`
	Conditions   string    `json:"conditions"`
	GrantedAt    time.Time `json:"granted_at"`
}

func (h *Handler) handleRecordApproval(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := httputil.Decode[approvalRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	approval, err := h.governance.RecordApproval(ctx, requestcontext.CompanyID(ctx), governance.ApprovalInput{
		SystemKey:    req.SystemKey,
		ApproverRole: req.ApproverRole,
		Decision:     req.Decision,
		Conditions:   req.Conditions,
		GrantedAt:    req.GrantedAt,
	})
	if err != nil {
		h.logError(ctx, "failed to record approval", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, approval)
}

func (h *Handler) handleListApprovals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recs, err := h.governance.ListApprovals(ctx, requestcontext.CompanyID(ctx), r.URL.Query().Get("system_key"))
	if err != nil {
		h.logError(ctx, "failed to list approvals", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, recs)
}

type assertionRequest struct {
	SystemKey     string    `json:"system_key"`
	AssertionType string    `json:"assertion_type"`
	Statement     string    `json:"statement"`
	HasEvidence   bool      `json:"has_evidence"`
	Risk          string    `json:"risk_classification"`
	AssertedAt    time.Time `json:"asserted_at"`
}

func (h *Handler) handleRecordAssertion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := httputil.Decode[assertionRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	assertion, err := h.governance.RecordAssertion(ctx, requestcontext.CompanyID(ctx), governance.AssertionInput{
		SystemKey:     req.SystemKey,
		AssertionType: req.AssertionType,
		Statement:     req.Statement,
		HasEvidence:   req.HasEvidence,
		Risk:          req.Risk,
		AssertedAt:    req.AssertedAt,
	})
	if err != nil {
		h.logError(ctx, "failed to record vendor assertion", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, assertion)
}

func (h *Handler) handleListAssertions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recs, err := h.governance.ListAssertions(ctx, requestcontext.CompanyID(ctx), r.URL.Query().Get("system_key"))
	if err != nil {
		h.logError(ctx, "failed to list vendor assertions", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, recs)
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	if dErrors.CodeOf(err) != dErrors.CodeInternal {
		return
	}
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
}
