package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hindsight/internal/disclosure"
	"hindsight/internal/record"
	id "hindsight/pkg/domain"
	dErrors "hindsight/pkg/domain-errors"
	"hindsight/pkg/platform/httputil"
	"hindsight/pkg/requestcontext"
)

// Service defines the interface for disclosure operations.
type Service interface {
	Render(ctx context.Context, companyID id.CompanyID, input disclosure.RenderInput) (string, error)
	Deliver(ctx context.Context, companyID id.CompanyID, input disclosure.DeliverInput) (*record.DisclosureArtifact, error)
	Get(ctx context.Context, companyID id.CompanyID, disclosureID id.DisclosureID) (*record.DisclosureArtifact, error)
	List(ctx context.Context, companyID id.CompanyID, timeRange record.TimeRange) ([]*record.DisclosureArtifact, error)
}

// Handler handles disclosure endpoints.
type Handler struct {
	logger      *slog.Logger
	disclosures Service
}

// New creates a disclosure Handler.
func New(disclosures Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, disclosures: disclosures}
}

// Register registers the disclosure routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/disclosures/render", h.handleRender)
	r.Post("/disclosures", h.handleDeliver)
	r.Get("/disclosures", h.handleList)
	r.Get("/disclosures/{disclosureID}", h.handleGet)
}

type renderRequest struct {
	SystemKey    string          `json:"system_key"`
	RegContextID id.RegContextID `json:"regulatory_context_id"`
	RoleID       string          `json:"role_id"`
	Stage        string          `json:"stage"`
}

type renderResponse struct {
	RenderedText string `json:"rendered_text"`
}

// handleRender previews disclosure text without persisting anything.
func (h *Handler) handleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := httputil.Decode[renderRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	text, err := h.disclosures.Render(ctx, requestcontext.CompanyID(ctx), disclosure.RenderInput{
		SystemKey:    req.SystemKey,
		RegContextID: req.RegContextID,
		RoleID:       req.RoleID,
		Stage:        req.Stage,
	})
	if err != nil {
		h.logError(ctx, "failed to render disclosure", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, renderResponse{RenderedText: text})
}

type deliverRequest struct {
	SystemKey      string          `json:"system_key"`
	RegContextID   id.RegContextID `json:"regulatory_context_id"`
	CandidateID    string          `json:"candidate_id"`
	RoleID         string          `json:"role_id"`
	Stage          string          `json:"stage"`
	DeliveryMethod string          `json:"delivery_method"`
	DeliveredAt    time.Time       `json:"delivered_at"`
	AckStatus      string          `json:"acknowledgment_status"`
}

func (h *Handler) handleDeliver(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := httputil.Decode[deliverRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	artifact, err := h.disclosures.Deliver(ctx, requestcontext.CompanyID(ctx), disclosure.DeliverInput{
		SystemKey:      req.SystemKey,
		RegContextID:   req.RegContextID,
		CandidateRawID: req.CandidateID,
		RoleID:         req.RoleID,
		Stage:          req.Stage,
		DeliveryMethod: req.DeliveryMethod,
		DeliveredAt:    req.DeliveredAt,
		AckStatus:      req.AckStatus,
	})
	if err != nil {
		h.logError(ctx, "failed to record disclosure delivery", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, artifact)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	timeRange, err := queryTimeRange(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	recs, err := h.disclosures.List(ctx, requestcontext.CompanyID(ctx), timeRange)
	if err != nil {
		h.logError(ctx, "failed to list disclosures", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, recs)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	disclosureID, err := id.ParseDisclosureID(chi.URLParam(r, "disclosureID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	rec, err := h.disclosures.Get(ctx, requestcontext.CompanyID(ctx), disclosureID)
	if err != nil {
		h.logError(ctx, "failed to load disclosure", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
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
