// Package transport defines the JSON request/response contracts for the
// leads module.
package transport

import (
	"time"

	"leadflow_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// CreateLeadRequest is the body for manual lead entry from the dashboard.
type CreateLeadRequest struct {
	FirstName        string   `json:"firstName" validate:"required,min=1,max=100"`
	LastName         string   `json:"lastName" validate:"required,min=1,max=100"`
	Email            *string  `json:"email" validate:"omitempty,email"`
	Phone            string   `json:"phone" validate:"required,min=7,max=32"`
	Timeline         *string  `json:"timeline" validate:"omitempty,oneof=immediate one_to_three_months three_to_six_months six_to_twelve_months just_browsing"`
	Notes            *string  `json:"notes" validate:"omitempty,max=10000"`
	Tags             []string `json:"tags" validate:"max=50,dive,max=100"`
	PropertyInterest *string  `json:"propertyInterest" validate:"omitempty,max=2000"`
	Budget           *string  `json:"budget" validate:"omitempty,max=200"`
	ConsentGiven     bool     `json:"consentGiven"`
}

// UpdateLeadRequest carries partial updates; absent fields are untouched.
type UpdateLeadRequest struct {
	FirstName        *string  `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName         *string  `json:"lastName" validate:"omitempty,min=1,max=100"`
	Email            *string  `json:"email" validate:"omitempty,email"`
	Phone            *string  `json:"phone" validate:"omitempty,min=7,max=32"`
	Status           *string  `json:"status" validate:"omitempty,oneof=new contacted qualified proposal negotiation closed_won closed_lost nurture opted_out"`
	Priority         *string  `json:"priority" validate:"omitempty,oneof=hot warm cold"`
	Timeline         *string  `json:"timeline" validate:"omitempty,oneof=immediate one_to_three_months three_to_six_months six_to_twelve_months just_browsing"`
	Notes            *string  `json:"notes" validate:"omitempty,max=10000"`
	Tags             []string `json:"tags" validate:"max=50,dive,max=100"`
	PropertyInterest *string  `json:"propertyInterest" validate:"omitempty,max=2000"`
	Budget           *string  `json:"budget" validate:"omitempty,max=200"`
	ConsentGiven     *bool    `json:"consentGiven"`
}

// LeadResponse is the lead representation returned to the dashboard.
type LeadResponse struct {
	ID               uuid.UUID  `json:"id"`
	FirstName        string     `json:"firstName"`
	LastName         string     `json:"lastName"`
	Email            *string    `json:"email,omitempty"`
	Phone            string     `json:"phone"`
	Status           string     `json:"status"`
	Source           string     `json:"source"`
	Priority         string     `json:"priority"`
	Timeline         *string    `json:"timeline,omitempty"`
	Notes            *string    `json:"notes,omitempty"`
	Tags             []string   `json:"tags"`
	PropertyInterest *string    `json:"propertyInterest,omitempty"`
	Budget           *string    `json:"budget,omitempty"`
	LastContacted    *time.Time `json:"lastContacted,omitempty"`
	NextFollowUp     *time.Time `json:"nextFollowUp,omitempty"`
	ConsentGiven     bool       `json:"consentGiven"`
	OptOutDate       *time.Time `json:"optOutDate,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// CommunicationResponse is a single log entry for the conversation view.
type CommunicationResponse struct {
	ID                uuid.UUID `json:"id"`
	LeadID            uuid.UUID `json:"leadId"`
	Channel           string    `json:"channel"`
	Direction         string    `json:"direction"`
	Content           string    `json:"content"`
	Status            string    `json:"status"`
	TemplateKey       string    `json:"templateKey,omitempty"`
	ProviderMessageID *string   `json:"providerMessageId,omitempty"`
	ErrorDetail       *string   `json:"errorDetail,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// ToLeadResponse maps a domain lead to its transport representation.
func ToLeadResponse(l domain.Lead) LeadResponse {
	var timeline *string
	if l.Timeline != nil {
		t := string(*l.Timeline)
		timeline = &t
	}

	tags := l.Tags
	if tags == nil {
		tags = []string{}
	}

	return LeadResponse{
		ID:               l.ID,
		FirstName:        l.FirstName,
		LastName:         l.LastName,
		Email:            l.Email,
		Phone:            l.Phone,
		Status:           string(l.Status),
		Source:           string(l.Source),
		Priority:         string(l.Priority),
		Timeline:         timeline,
		Notes:            l.Notes,
		Tags:             tags,
		PropertyInterest: l.PropertyInterest,
		Budget:           l.Budget,
		LastContacted:    l.LastContacted,
		NextFollowUp:     l.NextFollowUp,
		ConsentGiven:     l.ConsentGiven,
		OptOutDate:       l.OptOutDate,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

// ToCommunicationResponse maps a log entry to its transport representation.
func ToCommunicationResponse(c domain.CommunicationRecord) CommunicationResponse {
	return CommunicationResponse{
		ID:                c.ID,
		LeadID:            c.LeadID,
		Channel:           string(c.Channel),
		Direction:         string(c.Direction),
		Content:           c.Content,
		Status:            string(c.Status),
		TemplateKey:       c.TemplateKey,
		ProviderMessageID: c.ProviderMessageID,
		ErrorDetail:       c.ErrorDetail,
		CreatedAt:         c.CreatedAt,
	}
}
