package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hindsight/internal/record"
	"hindsight/internal/registry"
	id "hindsight/pkg/domain"
	dErrors "hindsight/pkg/domain-errors"
	"hindsight/pkg/platform/httputil"
	"hindsight/pkg/requestcontext"
)

// Service defines the interface for registry operations.
type Service interface {
	RegisterSystem(ctx context.Context, companyID id.CompanyID, input registry.NewSystemInput) (*record.AISystemRecord, error)
	GetSystem(ctx context.Context, companyID id.CompanyID, systemID id.AISystemID) (*record.AISystemRecord, error)
	ListSystems(ctx context.Context, companyID id.CompanyID, systemKey string) ([]*record.AISystemRecord, error)
	RetireSystem(ctx context.Context, companyID id.CompanyID, systemID id.AISystemID) (*record.AISystemRecord, error)
	CaptureRegContext(ctx context.Context, companyID id.CompanyID, input registry.NewRegContextInput) (*record.RegContextSnapshot, error)
	GetRegContext(ctx context.Context, companyID id.CompanyID, regContextID id.RegContextID) (*record.RegContextSnapshot, error)
	ListRegContexts(ctx context.Context, companyID id.CompanyID, jurisdiction string) ([]*record.RegContextSnapshot, error)
}

// Handler handles AI system and regulatory context endpoints.
type Handler struct {
	logger   *slog.Logger
	registry Service
}

// New creates a registry Handler.
func New(registryService Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, registry: registryService}
}

// Register registers the registry routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/ai-systems", h.handleRegisterSystem)
	r.Get("/ai-systems", h.handleListSystems)
	r.Get("/ai-systems/{systemID}", h.handleGetSystem)
	r.Post("/ai-systems/{systemID}/retire", h.handleRetireSystem)

	r.Post("/regulatory-contexts", h.handleCaptureRegContext)
	r.Get("/regulatory-contexts", h.handleListRegContexts)
	r.Get("/regulatory-contexts/{regContextID}", h.handleGetRegContext)
}

type registerSystemRequest struct {
	SystemKey      string    `json:"system_key"`
	Name           string    `json:"name"`
	Vendor         string    `json:"vendor"`
	SystemType     string    `json:"system_type"`
	Influence      string    `json:"influence_level"`
	DataInputs     []string  `json:"data_inputs"`
	OverridePoints []string  `json:"override_points"`
	IntendedUse    string    `json:"intended_use"`
	DeployedAt     time.Time `json:"deployed_at"`
}

func (h *Handler) handleRegisterSystem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := httputil.Decode[registerSystemRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	rec, err := h.registry.RegisterSystem(ctx, requestcontext.CompanyID(ctx), registry.NewSystemInput{
		SystemKey:      req.SystemKey,
		Name:           req.Name,
		Vendor:         req.Vendor,
		SystemType:     req.SystemType,
		Influence:      req.Influence,
		DataInputs:     req.DataInputs,
		OverridePoints: req.OverridePoints,
		IntendedUse:    req.IntendedUse,
		DeployedAt:     req.DeployedAt,
	})
	if err != nil {
		h.logError(ctx, "failed to register ai system", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, rec)
}

func (h *Handler) handleListSystems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recs, err := h.registry.ListSystems(ctx, requestcontext.CompanyID(ctx), r.URL.Query().Get("system_key"))
	if err != nil {
		h.logError(ctx, "failed to list ai systems", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, recs)
}

func (h *Handler) handleGetSystem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	systemID, err := id.ParseAISystemID(chi.URLParam(r, "systemID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	rec, err := h.registry.GetSystem(ctx, requestcontext.CompanyID(ctx), systemID)
	if err != nil {
		h.logError(ctx, "failed to load ai system", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleRetireSystem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	systemID, err := id.ParseAISystemID(chi.URLParam(r, "systemID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	rec, err := h.registry.RetireSystem(ctx, requestcontext.CompanyID(ctx), systemID)
	if err != nil {
		h.logError(ctx, "failed to retire ai system", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

type captureRegContextRequest struct {
	Jurisdiction  string            `json:"jurisdiction"`
	Regulation    string            `json:"regulation"`
	Version       string            `json:"version"`
	EffectiveDate time.Time         `json:"effective_date"`
	Obligations   map[string]string `json:"obligations"`
	SourceRef     string            `json:"source_ref"`
}

func (h *Handler) handleCaptureRegContext(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := httputil.Decode[captureRegContextRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	rec, err := h.registry.CaptureRegContext(ctx, requestcontext.CompanyID(ctx), registry.NewRegContextInput{
		Jurisdiction:  req.Jurisdiction,
		Regulation:    req.Regulation,
		Version:       req.Version,
		EffectiveDate: req.EffectiveDate,
		Obligations:   req.Obligations,
		SourceRef:     req.SourceRef,
	})
	if err != nil {
		h.logError(ctx, "failed to capture regulatory context", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, rec)
}

func (h *Handler) handleListRegContexts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recs, err := h.registry.ListRegContexts(ctx, requestcontext.CompanyID(ctx), r.URL.Query().Get("jurisdiction"))
	if err != nil {
		h.logError(ctx, "failed to list regulatory contexts", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, recs)
}

func (h *Handler) handleGetRegContext(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	regContextID, err := id.ParseRegContextID(chi.URLParam(r, "regContextID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	rec, err := h.registry.GetRegContext(ctx, requestcontext.CompanyID(ctx), regContextID)
	if err != nil {
		h.logError(ctx, "failed to load regulatory context", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
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
