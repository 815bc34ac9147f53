// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"leadflow_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// CRM Ingestion Events
// =============================================================================

// LeadIngested is published after the upsert orchestrator has persisted an
// inbound lead. WasCreated reflects the actual match outcome, not the
// upstream event type, and decides new-lead vs follow-up routing downstream.
type LeadIngested struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	WasCreated bool      `json:"wasCreated"`
	Source     string    `json:"source,omitempty"`
}

func (e LeadIngested) EventName() string { return "crm.lead.ingested" }

// =============================================================================
// Follow-Up Events
// =============================================================================

// CommunicationLogged is published after the dispatcher has appended a
// communication record, whether the provider accepted the message or not.
type CommunicationLogged struct {
	BaseEvent
	LeadID      uuid.UUID `json:"leadId"`
	Channel     string    `json:"channel"`
	TemplateKey string    `json:"templateKey"`
	Success     bool      `json:"success"`
}

func (e CommunicationLogged) EventName() string { return "followup.communication.logged" }
