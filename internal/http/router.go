// Package http assembles the API surface: public registration, the
// credentialed evidence routes, and the operational endpoints.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hindsight/internal/platform/middleware"
	"hindsight/pkg/platform/httputil"
)

// RouteRegistrar registers a feature's routes on a router.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps collects everything the router needs.
type Deps struct {
	Logger        *slog.Logger
	Authenticator middleware.Authenticator

	// Public carries handlers that work without a credential.
	Public []func(chi.Router)
	// Authenticated carries handlers mounted behind RequireCompany.
	Authenticated []RouteRegistrar

	// HealthChecks are probed by /healthz; nil entries are skipped.
	HealthChecks map[string]HealthChecker
}

// New builds the top-level router.
func New(deps Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))

	r.Get("/healthz", handleHealth(deps.HealthChecks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, register := range deps.Public {
		register(r)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireCompany(deps.Authenticator, deps.Logger))
		for _, handler := range deps.Authenticated {
			handler.Register(r)
		}
	})

	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func handleHealth(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok", Checks: map[string]string{}}
		status := http.StatusOK
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check.Health(r.Context()); err != nil {
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		if len(resp.Checks) == 0 {
			resp.Checks = nil
		}
		httputil.WriteJSON(w, status, resp)
	}
}
