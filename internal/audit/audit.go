// Package audit captures the operational trail of privileged mutations.
// The evidence records themselves are the store's content; this trail covers
// the few permitted mutations around them (plan changes, credential resets,
// system retirement) so "explicitly-audited update" means exactly that.
package audit

import (
	"context"
	"log/slog"
	"time"

	id "hindsight/pkg/domain"
	"hindsight/pkg/requestcontext"
)

// Action names one privileged mutation kind.
type Action string

const (
	ActionCompanyRegistered Action = "company_registered"
	ActionPlanChanged       Action = "plan_changed"
	ActionCredentialReset   Action = "credential_reset"
	ActionSystemRetired     Action = "ai_system_retired"
)

// Event is emitted from domain logic to capture a privileged mutation.
// Keep it transport-agnostic so sinks can fan out.
type Event struct {
	Timestamp time.Time
	CompanyID id.CompanyID
	Action    Action
	Subject   string
	Detail    string
	RequestID string
}

// Emitter records audit events. The default sink is the structured log;
// a durable sink can be swapped in without touching services.
type Emitter struct {
	logger *slog.Logger
}

// NewEmitter builds an emitter over the given logger. A nil logger yields a
// no-op emitter, which keeps service construction simple in tests.
func NewEmitter(logger *slog.Logger) *Emitter {
	return &Emitter{logger: logger}
}

// Emit records one audit event.
func (e *Emitter) Emit(ctx context.Context, event Event) {
	if e == nil || e.logger == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	e.logger.InfoContext(ctx, "audit event",
		"action", string(event.Action),
		"company_id", event.CompanyID.String(),
		"subject", event.Subject,
		"detail", event.Detail,
		"request_id", event.RequestID,
		"timestamp", event.Timestamp.Format(time.RFC3339Nano),
	)
}
