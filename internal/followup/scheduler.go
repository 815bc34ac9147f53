package followup

import (
	"math"
	"strings"
	"time"

	"leadflow_backend/internal/leads/domain"
)

// Action is one outbound touch the scheduler has decided on. DelayHours is
// relative to the moment the decision is made; zero means dispatch now.
type Action struct {
	Channel     domain.Channel
	TemplateKey string
	DelayHours  int
	Reason      string
}

// Intent is the crude buying/selling classification derived from notes.
type Intent string

const (
	IntentBuying  Intent = "buying"
	IntentSelling Intent = "selling"
	IntentUnknown Intent = "unknown"
)

// neverContactedDays is the sentinel for leads without any contact
// timestamp. It keeps never-contacted leads permanently eligible for the
// reactivation branch.
const neverContactedDays = 999

// NextActions is the follow-up decision table. Rules are evaluated top to
// bottom and the first match wins:
//
//  1. opted-out or non-consenting leads are never contacted
//  2. a brand-new lead gets the welcome email now and the first SMS a day later
//  3. a lead with no communications at all gets an initial contact email
//  4. no contact for 30+ days triggers a reactivation SMS
//  5. no contact for 7+ days triggers the weekly follow-up SMS
//
// An empty result means no action is due. The reactivation branch is the
// only one that also stamps lastContacted; the caller owns that write.
func NextActions(lead domain.Lead, recent []domain.CommunicationRecord, isNewLead bool, now time.Time) []Action {
	if !lead.Contactable() {
		return nil
	}

	if isNewLead {
		return []Action{
			{Channel: domain.ChannelEmail, TemplateKey: "welcome", DelayHours: 0, Reason: "new lead"},
			{Channel: domain.ChannelSMS, TemplateKey: "initial_follow_up", DelayHours: 24, Reason: "new lead"},
		}
	}

	if len(recent) == 0 {
		return []Action{
			{Channel: domain.ChannelEmail, TemplateKey: "initial_contact", DelayHours: 0, Reason: "no communications yet"},
		}
	}

	days := DaysSince(&recent[0].CreatedAt, now)
	switch {
	case days >= 30:
		return []Action{
			{Channel: domain.ChannelSMS, TemplateKey: "reactivation", DelayHours: 0, Reason: "no contact for 30+ days"},
		}
	case days >= 7:
		return []Action{
			{Channel: domain.ChannelSMS, TemplateKey: "weekly_follow_up", DelayHours: 0, Reason: "no contact for 7+ days"},
		}
	default:
		return nil
	}
}

// OnboardingSequence is the fixed set of touches scheduled once, when a
// lead is first created: welcome email immediately, SMS follow-up the next
// day, property recommendations on day 3, a check-in SMS on day 7, and a
// market update on day 14.
func OnboardingSequence() []Action {
	return []Action{
		{Channel: domain.ChannelEmail, TemplateKey: "welcome", DelayHours: 0, Reason: "onboarding day 0"},
		{Channel: domain.ChannelSMS, TemplateKey: "initial_follow_up", DelayHours: 24, Reason: "onboarding day 1"},
		{Channel: domain.ChannelEmail, TemplateKey: "property_recommendations", DelayHours: 72, Reason: "onboarding day 3"},
		{Channel: domain.ChannelSMS, TemplateKey: "weekly_check_in", DelayHours: 168, Reason: "onboarding day 7"},
		{Channel: domain.ChannelEmail, TemplateKey: "market_update", DelayHours: 336, Reason: "onboarding day 14"},
	}
}

// DaysSince returns the age of a timestamp in whole days, rounded up.
// A nil timestamp returns the never-contacted sentinel.
func DaysSince(t *time.Time, now time.Time) int {
	if t == nil {
		return neverContactedDays
	}

	diff := now.Sub(*t)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24))
}

// DetectIntent scans the lead's notes for buying or selling signals.
// Selling markers are checked first, so notes mentioning both classify
// as selling.
func DetectIntent(lead domain.Lead) Intent {
	if lead.Notes == nil {
		return IntentUnknown
	}
	notes := strings.ToLower(*lead.Notes)

	for _, marker := range []string{"sell", "listing", "market value"} {
		if strings.Contains(notes, marker) {
			return IntentSelling
		}
	}
	for _, marker := range []string{"buy", "purchase", "looking for"} {
		if strings.Contains(notes, marker) {
			return IntentBuying
		}
	}
	return IntentUnknown
}
