package crm

import (
	"context"
	"encoding/json"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

// UpsertResult reports what the orchestrator actually did, independent of
// what the upstream event type claimed.
type UpsertResult struct {
	LeadID     uuid.UUID
	WasCreated bool
}

// Ack is the webhook acknowledgment body. Deliveries are acknowledged even
// when the event is not processed, so the CRM does not redeliver.
type Ack struct {
	Message string     `json:"message"`
	LeadID  *uuid.UUID `json:"leadId,omitempty"`
	Action  string     `json:"action,omitempty"`
}

// Service is the upsert orchestrator for inbound CRM deliveries.
type Service struct {
	store   LeadStore
	matcher *Matcher
	bus     events.Bus
	log     *logger.Logger
}

func NewService(store LeadStore, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		store:   store,
		matcher: NewMatcher(store, log),
		bus:     bus,
		log:     log,
	}
}

// ProcessWebhook routes a delivery by event type. person.created and
// person.updated both run through the upsert; every other type is
// acknowledged without processing.
func (s *Service) ProcessWebhook(ctx context.Context, event WebhookEvent) (Ack, error) {
	if event.Type == "" || len(event.Data) == 0 {
		s.log.Warn("webhook delivery missing type or data, acknowledged unprocessed")
		return Ack{Message: "event received but not processed"}, nil
	}

	switch event.Type {
	case EventPersonCreated, EventPersonUpdated:
		var raw RawLead
		if err := json.Unmarshal(event.Data, &raw); err != nil {
			s.log.Warn("webhook lead payload malformed, acknowledged unprocessed", "error", err)
			return Ack{Message: "event received but not processed"}, nil
		}
		return s.upsertAndRoute(ctx, raw, event.Type == EventPersonCreated)

	case EventCreated:
		s.log.Info("crm activity event received", "type", event.Type)
		return Ack{Message: "event received but not processed"}, nil

	default:
		s.log.Info("unhandled crm event type", "type", event.Type)
		return Ack{Message: "event received but not processed"}, nil
	}
}

func (s *Service) upsertAndRoute(ctx context.Context, raw RawLead, isCreateHint bool) (Ack, error) {
	result, err := s.Upsert(ctx, raw, isCreateHint)
	if err != nil {
		return Ack{}, err
	}

	s.bus.Publish(ctx, events.LeadIngested{
		LeadID:     result.LeadID,
		WasCreated: result.WasCreated,
		Source:     "crm_webhook",
	})

	action := "updated"
	if result.WasCreated {
		action = "created"
	}
	return Ack{Message: "lead processed", LeadID: &result.LeadID, Action: action}, nil
}

// Upsert normalizes the raw payload, matches it against stored leads, and
// writes exactly once. isCreateHint is the upstream event classification;
// the actual match outcome is authoritative and the hint never overrides it.
func (s *Service) Upsert(ctx context.Context, raw RawLead, isCreateHint bool) (UpsertResult, error) {
	normalized := Normalize(raw)

	existing := s.matcher.FindExisting(ctx, normalized.Email, normalized.Phone)

	if existing != nil {
		updated, err := s.store.Update(ctx, existing.ID, mergeParams(normalized))
		if err != nil {
			return UpsertResult{}, apperr.Wrap(apperr.KindInternal, "failed to update lead", err).WithOp("crm.Upsert")
		}
		if isCreateHint {
			s.log.Info("person.created matched an existing lead, updated instead", "lead_id", updated.ID)
		}
		return UpsertResult{LeadID: updated.ID, WasCreated: false}, nil
	}

	created, err := s.store.Create(ctx, domain.CreateLeadParams{
		FirstName:        normalized.FirstName,
		LastName:         normalized.LastName,
		Email:            normalized.Email,
		Phone:            normalized.Phone,
		Status:           normalized.Status,
		Source:           normalized.Source,
		Priority:         normalized.Priority,
		Timeline:         normalized.Timeline,
		Notes:            normalized.Notes,
		Tags:             normalized.Tags,
		PropertyInterest: normalized.PropertyInterest,
		Budget:           normalized.Budget,
		LastContacted:    normalized.LastContacted,
		ConsentGiven:     normalized.ConsentGiven,
	})
	if err != nil {
		return UpsertResult{}, apperr.Wrap(apperr.KindInternal, "failed to create lead", err).WithOp("crm.Upsert")
	}
	if !isCreateHint {
		s.log.Info("person.updated matched no lead, created instead", "lead_id", created.ID)
	}
	return UpsertResult{LeadID: created.ID, WasCreated: true}, nil
}

// mergeParams carries only the fields the payload actually provided, so an
// update never blanks stored values with empty ones.
func mergeParams(n NormalizedLead) domain.UpdateLeadParams {
	params := domain.UpdateLeadParams{
		Status:           &n.Status,
		Source:           &n.Source,
		Priority:         &n.Priority,
		Timeline:         n.Timeline,
		Notes:            n.Notes,
		PropertyInterest: n.PropertyInterest,
		Budget:           n.Budget,
		LastContacted:    n.LastContacted,
		ConsentGiven:     &n.ConsentGiven,
	}

	if n.FirstName != "" {
		params.FirstName = &n.FirstName
	}
	if n.LastName != "" {
		params.LastName = &n.LastName
	}
	if n.Email != nil && *n.Email != "" {
		params.Email = n.Email
	}
	if n.Phone != "" {
		params.Phone = &n.Phone
	}
	if len(n.Tags) > 0 {
		params.Tags = n.Tags
	}
	return params
}
