// Package domain holds the canonical lead model shared by the CRM ingestion
// and follow-up bounded contexts.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the position of a lead in the sales pipeline.
type Status string

const (
	StatusNew         Status = "new"
	StatusContacted   Status = "contacted"
	StatusQualified   Status = "qualified"
	StatusProposal    Status = "proposal"
	StatusNegotiation Status = "negotiation"
	StatusClosedWon   Status = "closed_won"
	StatusClosedLost  Status = "closed_lost"
	StatusNurture     Status = "nurture"
	StatusOptedOut    Status = "opted_out"
)

// Source is the acquisition channel a lead arrived through.
type Source string

const (
	SourceWebsite      Source = "website"
	SourceReferral     Source = "referral"
	SourceSocialMedia  Source = "social_media"
	SourceColdOutreach Source = "cold_outreach"
	SourceEvent        Source = "event"
	SourceAdvertising  Source = "advertising"
	SourceZillow       Source = "zillow"
	SourceRealtorCom   Source = "realtor_com"
	SourceHomesCom     Source = "homes_com"
	SourceManualEntry  Source = "manual_entry"
	SourceEmailParsing Source = "email_parsing"
	SourceOther        Source = "other"
)

// Priority is the derived contact urgency of a lead.
type Priority string

const (
	PriorityHot  Priority = "hot"
	PriorityWarm Priority = "warm"
	PriorityCold Priority = "cold"
)

// Timeline is the lead's self-reported purchase or sale horizon.
type Timeline string

const (
	TimelineImmediate        Timeline = "immediate"
	TimelineOneToThreeMonths Timeline = "one_to_three_months"
	TimelineThreeToSixMonths Timeline = "three_to_six_months"
	TimelineSixToTwelve      Timeline = "six_to_twelve_months"
	TimelineJustBrowsing     Timeline = "just_browsing"
)

// Lead is the canonical lead record. Phone and the name pair are always
// present; everything else is optional.
type Lead struct {
	ID               uuid.UUID
	FirstName        string
	LastName         string
	Email            *string
	Phone            string
	Status           Status
	Source           Source
	Priority         Priority
	Timeline         *Timeline
	Notes            *string
	Tags             []string
	PropertyInterest *string
	Budget           *string
	LastContacted    *time.Time
	NextFollowUp     *time.Time
	ConsentGiven     bool
	OptOutDate       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Contactable reports whether outbound contact is permitted.
// An opted-out or non-consenting lead must never be messaged.
func (l Lead) Contactable() bool {
	return l.Status != StatusOptedOut && l.ConsentGiven
}

// CreateLeadParams are the fields persisted when a lead is first created.
type CreateLeadParams struct {
	FirstName        string
	LastName         string
	Email            *string
	Phone            string
	Status           Status
	Source           Source
	Priority         Priority
	Timeline         *Timeline
	Notes            *string
	Tags             []string
	PropertyInterest *string
	Budget           *string
	LastContacted    *time.Time
	ConsentGiven     bool
}

// UpdateLeadParams carry merge-semantics updates: nil fields leave the
// stored value untouched, non-nil fields overwrite.
type UpdateLeadParams struct {
	FirstName        *string
	LastName         *string
	Email            *string
	Phone            *string
	Status           *Status
	Source           *Source
	Priority         *Priority
	Timeline         *Timeline
	Notes            *string
	Tags             []string
	PropertyInterest *string
	Budget           *string
	LastContacted    *time.Time
	NextFollowUp     *time.Time
	ConsentGiven     *bool
	OptOutDate       *time.Time
}
