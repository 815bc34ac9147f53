// Package crm ingests lead webhooks from the external CRM and upserts them
// into the canonical lead store.
package crm

import (
	"bytes"
	"encoding/json"
	"time"

	"leadflow_backend/internal/leads/domain"
)

// Webhook event types the CRM delivers.
const (
	EventPersonCreated = "person.created"
	EventPersonUpdated = "person.updated"
	EventCreated       = "event.created"
)

// WebhookEvent is the envelope of an inbound CRM delivery.
type WebhookEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// RawLead is the loosely typed lead representation the CRM sends. Every
// field may be absent; property_interest and budget arrive as arbitrary
// JSON values.
type RawLead struct {
	ID               string          `json:"id"`
	FirstName        string          `json:"first_name"`
	LastName         string          `json:"last_name"`
	Email            string          `json:"email"`
	Phone            string          `json:"phone"`
	Status           string          `json:"status"`
	Source           string          `json:"source"`
	CreatedAt        string          `json:"created_at"`
	UpdatedAt        string          `json:"updated_at"`
	Tags             []string        `json:"tags"`
	Notes            string          `json:"notes"`
	PropertyInterest json.RawMessage `json:"property_interest"`
	Budget           json.RawMessage `json:"budget"`
	Timeline         string          `json:"timeline"`
}

// NormalizedLead is the mapper's output: canonical enums plus the optional
// fields carried through from the raw payload.
type NormalizedLead struct {
	FirstName        string
	LastName         string
	Email            *string
	Phone            string
	Status           domain.Status
	Source           domain.Source
	Priority         domain.Priority
	Timeline         *domain.Timeline
	Notes            *string
	Tags             []string
	PropertyInterest *string
	Budget           *string
	LastContacted    *time.Time
	ConsentGiven     bool
}

// rawValueString flattens an arbitrary JSON value to text. Plain strings
// lose their quotes; objects and arrays are kept as compact JSON.
func rawValueString(raw json.RawMessage) *string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		if s == "" {
			return nil
		}
		return &s
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return nil
	}
	out := compact.String()
	return &out
}
