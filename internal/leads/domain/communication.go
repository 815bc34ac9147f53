package domain

import (
	"time"

	"github.com/google/uuid"
)

// Channel is the delivery mechanism of a communication.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

// Direction of a communication. This core only produces outbound records;
// inbound exists for replies captured by the dashboard.
type Direction string

const (
	DirectionOutbound Direction = "outbound"
	DirectionInbound  Direction = "inbound"
)

// CommStatus is the delivery state of a communication record.
type CommStatus string

const (
	CommStatusSent      CommStatus = "sent"
	CommStatusFailed    CommStatus = "failed"
	CommStatusScheduled CommStatus = "scheduled"
)

// CommunicationRecord is an append-only log entry owned by a single lead.
// Records are created once per dispatch attempt and never mutated.
type CommunicationRecord struct {
	ID                uuid.UUID
	LeadID            uuid.UUID
	Channel           Channel
	Direction         Direction
	Content           string
	Status            CommStatus
	TemplateKey       string
	ProviderMessageID *string
	ErrorDetail       *string
	CreatedAt         time.Time
}

// AppendCommunicationParams are the fields for a new log entry.
type AppendCommunicationParams struct {
	LeadID            uuid.UUID
	Channel           Channel
	Direction         Direction
	Content           string
	Status            CommStatus
	TemplateKey       string
	ProviderMessageID *string
	ErrorDetail       *string
}
