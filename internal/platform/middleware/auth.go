package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	id "hindsight/pkg/domain"
	"hindsight/pkg/requestcontext"
)

// Authenticator resolves an API credential to the company that owns it.
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (id.CompanyID, error)
}

// RequireCompany validates the bearer credential on every request and scopes
// the context to exactly one tenant. Handlers behind this middleware can
// assume requestcontext.CompanyID is set.
func RequireCompany(auth Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			credential, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || credential == "" {
				logger.WarnContext(ctx, "missing credential",
					"request_id", requestcontext.RequestID(ctx),
				)
				unauthorized(w, "Missing or invalid Authorization header")
				return
			}

			companyID, err := auth.Authenticate(ctx, credential)
			if err != nil {
				logger.WarnContext(ctx, "credential rejected",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				unauthorized(w, "Invalid credential")
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithCompanyID(ctx, companyID)))
		})
	}
}

func unauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
