package crm

import (
	"strings"
	"time"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/platform/phone"
)

// statusTable maps the CRM's free-text status to a pipeline status.
// Unrecognized or absent values fall through to "new".
var statusTable = map[string]domain.Status{
	"new":            domain.StatusNew,
	"active":         domain.StatusContacted,
	"hot":            domain.StatusQualified,
	"warm":           domain.StatusContacted,
	"cold":           domain.StatusNurture,
	"closed":         domain.StatusClosedWon,
	"lost":           domain.StatusClosedLost,
	"unsubscribed":   domain.StatusOptedOut,
	"do_not_contact": domain.StatusOptedOut,
}

// sourceTable maps the CRM's source strings to acquisition channels.
var sourceTable = map[string]domain.Source{
	"website":     domain.SourceWebsite,
	"zillow":      domain.SourceZillow,
	"realtor.com": domain.SourceRealtorCom,
	"homes.com":   domain.SourceHomesCom,
	"facebook":    domain.SourceSocialMedia,
	"google":      domain.SourceAdvertising,
	"referral":    domain.SourceReferral,
	"manual":      domain.SourceManualEntry,
	"email":       domain.SourceEmailParsing,
	"event":       domain.SourceEvent,
	"cold_call":   domain.SourceColdOutreach,
}

// timelineTable maps the CRM's timeline strings to purchase horizons.
var timelineTable = map[string]domain.Timeline{
	"asap":         domain.TimelineImmediate,
	"immediate":    domain.TimelineImmediate,
	"1-3 months":   domain.TimelineOneToThreeMonths,
	"3-6 months":   domain.TimelineThreeToSixMonths,
	"6-12 months":  domain.TimelineSixToTwelve,
	"browsing":     domain.TimelineJustBrowsing,
	"just looking": domain.TimelineJustBrowsing,
}

// Normalize maps a raw CRM lead onto the canonical enums. It is a pure
// function; missing optional fields never cause an error.
func Normalize(raw RawLead) NormalizedLead {
	n := NormalizedLead{
		FirstName: raw.FirstName,
		LastName:  raw.LastName,
		Phone:     phone.NormalizeE164(raw.Phone),
		Status:    mapStatus(raw.Status),
		Source:    mapSource(raw.Source),
		Priority:  derivePriority(raw),
		Timeline:  mapTimeline(raw.Timeline),
		Tags:      raw.Tags,
		// Leads arriving through the CRM have already consented there.
		ConsentGiven: true,
	}

	if email := strings.TrimSpace(raw.Email); email != "" {
		n.Email = &email
	}
	if raw.Notes != "" {
		notes := raw.Notes
		n.Notes = &notes
	}
	n.PropertyInterest = rawValueString(raw.PropertyInterest)
	n.Budget = rawValueString(raw.Budget)

	if raw.UpdatedAt != "" {
		if t, err := time.Parse(time.RFC3339, raw.UpdatedAt); err == nil {
			n.LastContacted = &t
		}
	}

	return n
}

func mapStatus(raw string) domain.Status {
	if status, ok := statusTable[strings.ToLower(raw)]; ok {
		return status
	}
	return domain.StatusNew
}

func mapSource(raw string) domain.Source {
	if source, ok := sourceTable[strings.ToLower(raw)]; ok {
		return source
	}
	return domain.SourceOther
}

// mapTimeline is deliberately asymmetric: an absent timeline stays absent,
// but a non-empty unrecognized one maps to just_browsing. This mirrors the
// upstream CRM contract and changing it would reclassify existing leads.
func mapTimeline(raw string) *domain.Timeline {
	if raw == "" {
		return nil
	}

	timeline, ok := timelineTable[strings.ToLower(raw)]
	if !ok {
		timeline = domain.TimelineJustBrowsing
	}
	return &timeline
}

// derivePriority ranks contact urgency from the raw status and timeline.
// Rules are checked in order; the first match wins.
func derivePriority(raw RawLead) domain.Priority {
	status := strings.ToLower(raw.Status)
	timeline := strings.ToLower(raw.Timeline)

	switch {
	case status == "hot" || timeline == "asap" || timeline == "immediate":
		return domain.PriorityHot
	case status == "warm" || timeline == "1-3 months":
		return domain.PriorityWarm
	default:
		return domain.PriorityCold
	}
}
