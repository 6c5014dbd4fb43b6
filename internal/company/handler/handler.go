package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hindsight/internal/company/models"
	id "hindsight/pkg/domain"
	dErrors "hindsight/pkg/domain-errors"
	"hindsight/pkg/platform/httputil"
	"hindsight/pkg/requestcontext"
)

// Service defines the interface for company operations.
type Service interface {
	Register(ctx context.Context, name, plan string) (*models.Company, string, error)
	Get(ctx context.Context, companyID id.CompanyID) (*models.Company, error)
	UpdatePlan(ctx context.Context, companyID id.CompanyID, plan string) (*models.Company, error)
	ResetCredential(ctx context.Context, companyID id.CompanyID) (string, error)
}

// Handler handles company lifecycle endpoints.
type Handler struct {
	logger    *slog.Logger
	companies Service
}

// New creates a company Handler.
func New(companies Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, companies: companies}
}

// RegisterPublic registers the routes that work without a credential.
// Registration is the bootstrap: there is nothing to authenticate with yet.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/companies", h.handleRegister)
}

// Register registers the credentialed company routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/company", h.handleGet)
	r.Patch("/company/plan", h.handleUpdatePlan)
	r.Post("/company/credential/reset", h.handleResetCredential)
}

type registerRequest struct {
	Name string `json:"name"`
	Plan string `json:"plan"`
}

type registerResponse struct {
	Company    *companyResponse `json:"company"`
	Credential string           `json:"credential"`
}

type companyResponse struct {
	ID        id.CompanyID  `json:"id"`
	Name      string        `json:"name"`
	Plan      models.Plan   `json:"plan"`
	Status    models.Status `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

func toCompanyResponse(company *models.Company) *companyResponse {
	return &companyResponse{
		ID:        company.ID,
		Name:      company.Name,
		Plan:      company.Plan,
		Status:    company.Status,
		CreatedAt: company.CreatedAt,
	}
}

// handleRegister creates a company. The credential in the response is shown
// exactly once and cannot be retrieved again.
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := httputil.Decode[registerRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	company, credential, err := h.companies.Register(ctx, req.Name, req.Plan)
	if err != nil {
		h.logError(ctx, "failed to register company", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, registerResponse{
		Company:    toCompanyResponse(company),
		Credential: credential,
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	company, err := h.companies.Get(ctx, requestcontext.CompanyID(ctx))
	if err != nil {
		h.logError(ctx, "failed to load company", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCompanyResponse(company))
}

type updatePlanRequest struct {
	Plan string `json:"plan"`
}

func (h *Handler) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := httputil.Decode[updatePlanRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	company, err := h.companies.UpdatePlan(ctx, requestcontext.CompanyID(ctx), req.Plan)
	if err != nil {
		h.logError(ctx, "failed to update plan", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCompanyResponse(company))
}

type resetCredentialResponse struct {
	Credential string `json:"credential"`
}

func (h *Handler) handleResetCredential(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	credential, err := h.companies.ResetCredential(ctx, requestcontext.CompanyID(ctx))
	if err != nil {
		h.logError(ctx, "failed to reset credential", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resetCredentialResponse{Credential: credential})
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
