// Package followup decides and executes outbound lead communications:
// the recurring follow-up decision table, the new-lead onboarding sequence,
// and aged-lead reactivation.
package followup

import (
	"context"
	"time"

	"leadflow_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// LeadStore is the slice of the lead repository follow-up needs.
type LeadStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	TouchLastContacted(ctx context.Context, id uuid.UUID, at time.Time) error
	ListAged(ctx context.Context, cutoff time.Time) ([]domain.Lead, error)
}

// CommunicationLog is the append-only record store for dispatches.
type CommunicationLog interface {
	AppendCommunication(ctx context.Context, p domain.AppendCommunicationParams) (domain.CommunicationRecord, error)
	ListRecentCommunications(ctx context.Context, leadID uuid.UUID, limit int) ([]domain.CommunicationRecord, error)
}

// Messenger abstracts the delivery providers. Every send returns the
// provider message id on success.
type Messenger interface {
	SendEmail(ctx context.Context, to, subject, html, text string) (string, error)
	SendSMS(ctx context.Context, to, body string) (string, error)
	SendWhatsApp(ctx context.Context, to, body string) (string, error)
}

// ActionScheduler hands a delayed touch to the delivery queue. Immediate
// actions never pass through it.
type ActionScheduler interface {
	ScheduleDispatch(ctx context.Context, payload DispatchPayload, delay time.Duration) error
}
