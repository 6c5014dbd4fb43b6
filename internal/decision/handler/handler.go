package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hindsight/internal/decision"
	"hindsight/internal/record"
	id "hindsight/pkg/domain"
	dErrors "hindsight/pkg/domain-errors"
	"hindsight/pkg/platform/httputil"
	"hindsight/pkg/requestcontext"
)

// Service defines the interface for decision operations.
type Service interface {
	Record(ctx context.Context, companyID id.CompanyID, input decision.RecordInput) (*record.HiringDecisionEvent, error)
	LogRationale(ctx context.Context, companyID id.CompanyID, decisionID id.DecisionID, input decision.RationaleInput) (*record.RationaleEntry, error)
	Get(ctx context.Context, companyID id.CompanyID, decisionID id.DecisionID) (*record.HiringDecisionEvent, error)
	List(ctx context.Context, companyID id.CompanyID, timeRange record.TimeRange) ([]*record.HiringDecisionEvent, error)
	Rationales(ctx context.Context, companyID id.CompanyID, decisionID id.DecisionID) ([]*record.RationaleEntry, error)
}

// Handler handles hiring decision endpoints.
type Handler struct {
	logger    *slog.Logger
	decisions Service
}

// New creates a decision Handler.
func New(decisions Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, decisions: decisions}
}

// Register registers the decision routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/hiring-decisions", h.handleRecord)
	r.Get("/hiring-decisions", h.handleList)
	r.Get("/hiring-decisions/{decisionID}", h.handleGet)
	r.Post("/hiring-decisions/{decisionID}/rationales", h.handleLogRationale)
	r.Get("/hiring-decisions/{decisionID}/rationales", h.handleListRationales)
}

type recordRequest struct {
	CandidateID string    `json:"candidate_id"`
	RoleID      string    `json:"role_id"`
	SystemKey   string    `json:"system_key"`
	Decision    string    `json:"decision_type"`
	Involvement string    `json:"human_involvement"`
	DeciderRole string    `json:"decision_maker_role"`
	DecidedAt   time.Time `json:"decided_at"`
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := httputil.Decode[recordRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	event, err := h.decisions.Record(ctx, requestcontext.CompanyID(ctx), decision.RecordInput{
		CandidateRawID: req.CandidateID,
		RoleID:         req.RoleID,
		SystemKey:      req.SystemKey,
		Decision:       req.Decision,
		Involvement:    req.Involvement,
		DeciderRole:    req.DeciderRole,
		DecidedAt:      req.DecidedAt,
	})
	if err != nil {
		h.logError(ctx, "failed to record hiring decision", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, event)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	timeRange, err := queryTimeRange(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	recs, err := h.decisions.List(ctx, requestcontext.CompanyID(ctx), timeRange)
	if err != nil {
		h.logError(ctx, "failed to list hiring decisions", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, recs)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	decisionID, err := id.ParseDecisionID(chi.URLParam(r, "decisionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	rec, err := h.decisions.Get(ctx, requestcontext.CompanyID(ctx), decisionID)
	if err != nil {
		h.logError(ctx, "failed to load hiring decision", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

type logRationaleRequest struct {
	RationaleType string   `json:"rationale_type"`
	Summary       string   `json:"summary"`
	Artifacts     []string `json:"supporting_artifacts"`
	Author        string   `json:"author"`
}

func (h *Handler) handleLogRationale(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	decisionID, err := id.ParseDecisionID(chi.URLParam(r, "decisionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, err := httputil.Decode[logRationaleRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entry, err := h.decisions.LogRationale(ctx, requestcontext.CompanyID(ctx), decisionID, decision.RationaleInput{
		RationaleType: req.RationaleType,
		Summary:       req.Summary,
		Artifacts:     req.Artifacts,
		Author:        req.Author,
	})
	if err != nil {
		h.logError(ctx, "failed to log rationale", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, entry)
}

func (h *Handler) handleListRationales(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	decisionID, err := id.ParseDecisionID(chi.URLParam(r, "decisionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	recs, err := h.decisions.Rationales(ctx, requestcontext.CompanyID(ctx), decisionID)
	if err != nil {
		h.logError(ctx, "failed to list rationales", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, recs)
}

func queryTimeRange(r *http.Request) (record.TimeRange, error) {
	from, err := httputil.ParseTime(r.URL.Query().Get("from"), "from")
	if err != nil {
		return record.TimeRange{}, err
	}
	to, err := httputil.ParseTime(r.URL.Query().Get("to"), "to")
	if err != nil {
		return record.TimeRange{}, err
	}
	return record.TimeRange{Start: from, End: to}, nil
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
