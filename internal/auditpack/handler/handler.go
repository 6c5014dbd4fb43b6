package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hindsight/internal/auditpack"
	"hindsight/internal/record"
	id "hindsight/pkg/domain"
	dErrors "hindsight/pkg/domain-errors"
	"hindsight/pkg/platform/httputil"
	"hindsight/pkg/requestcontext"
)

// Service defines the interface for audit pack generation.
type Service interface {
	Generate(ctx context.Context, companyID id.CompanyID, criteria auditpack.Criteria) (*auditpack.Bundle, error)
}

// Handler handles audit pack endpoints.
type Handler struct {
	logger *slog.Logger
	packs  Service
}

// New creates an audit pack Handler.
func New(packs Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, packs: packs}
}

// Register registers the audit pack routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/audit-packs/generate", h.handleGenerate)
}

type generateRequest struct {
	From         *time.Time `json:"from"`
	To           *time.Time `json:"to"`
	Jurisdiction string     `json:"jurisdiction"`
	SystemKey    string     `json:"system_key"`
	CandidateID  string     `json:"candidate_id"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := httputil.Decode[generateRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	bundle, err := h.packs.Generate(ctx, requestcontext.CompanyID(ctx), auditpack.Criteria{
		Range:          record.TimeRange{Start: req.From, End: req.To},
		Jurisdiction:   req.Jurisdiction,
		SystemKey:      req.SystemKey,
		CandidateRawID: req.CandidateID,
	})
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to generate audit pack",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, bundle)
}
