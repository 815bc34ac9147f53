package crm

import (
	"context"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

// LeadStore is the slice of the lead repository the ingestion path needs.
type LeadStore interface {
	Create(ctx context.Context, p domain.CreateLeadParams) (domain.Lead, error)
	Update(ctx context.Context, id uuid.UUID, p domain.UpdateLeadParams) (domain.Lead, error)
	FindByEmail(ctx context.Context, email string) ([]domain.Lead, error)
	FindByPhone(ctx context.Context, phone string) ([]domain.Lead, error)
}

// Matcher locates an existing lead for an inbound payload.
type Matcher struct {
	store LeadStore
	log   *logger.Logger
}

func NewMatcher(store LeadStore, log *logger.Logger) *Matcher {
	return &Matcher{store: store, log: log}
}

// FindExisting returns the lead matching the given contact details, or nil.
// Email wins over phone: when an email match exists the phone is never
// consulted. Store read errors degrade to "no match" so ingestion keeps
// accepting leads while the store is unhealthy; the degraded branch is
// logged because it can create duplicates.
func (m *Matcher) FindExisting(ctx context.Context, email *string, phoneNumber string) *domain.Lead {
	if (email == nil || *email == "") && phoneNumber == "" {
		return nil
	}

	if email != nil && *email != "" {
		matches, err := m.store.FindByEmail(ctx, *email)
		if err != nil {
			m.log.MatchDegraded("email", err)
		} else if len(matches) > 0 {
			return &matches[0]
		}
	}

	if phoneNumber != "" {
		matches, err := m.store.FindByPhone(ctx, phoneNumber)
		if err != nil {
			m.log.MatchDegraded("phone", err)
		} else if len(matches) > 0 {
			return &matches[0]
		}
	}

	return nil
}
