package crm

import (
	"encoding/json"
	"reflect"
	"testing"

	"leadflow_backend/internal/leads/domain"
)

func TestNormalizeStatusMapping(t *testing.T) {
	cases := []struct {
		raw  string
		want domain.Status
	}{
		{"new", domain.StatusNew},
		{"active", domain.StatusContacted},
		{"hot", domain.StatusQualified},
		{"HOT", domain.StatusQualified},
		{"warm", domain.StatusContacted},
		{"cold", domain.StatusNurture},
		{"closed", domain.StatusClosedWon},
		{"lost", domain.StatusClosedLost},
		{"unsubscribed", domain.StatusOptedOut},
		{"do_not_contact", domain.StatusOptedOut},
		{"something else", domain.StatusNew},
		{"", domain.StatusNew},
	}

	for _, tc := range cases {
		got := Normalize(RawLead{Status: tc.raw}).Status
		if got != tc.want {
			t.Errorf("status %q: got %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeSourceMapping(t *testing.T) {
	cases := []struct {
		raw  string
		want domain.Source
	}{
		{"website", domain.SourceWebsite},
		{"zillow", domain.SourceZillow},
		{"realtor.com", domain.SourceRealtorCom},
		{"homes.com", domain.SourceHomesCom},
		{"facebook", domain.SourceSocialMedia},
		{"google", domain.SourceAdvertising},
		{"referral", domain.SourceReferral},
		{"manual", domain.SourceManualEntry},
		{"email", domain.SourceEmailParsing},
		{"event", domain.SourceEvent},
		{"cold_call", domain.SourceColdOutreach},
		{"carrier pigeon", domain.SourceOther},
		{"", domain.SourceOther},
	}

	for _, tc := range cases {
		got := Normalize(RawLead{Source: tc.raw}).Source
		if got != tc.want {
			t.Errorf("source %q: got %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeTimelineAsymmetry(t *testing.T) {
	// An absent timeline stays absent.
	if got := Normalize(RawLead{}).Timeline; got != nil {
		t.Fatalf("absent timeline: got %v, want nil", *got)
	}

	// A non-empty unrecognized timeline maps to just_browsing.
	got := Normalize(RawLead{Timeline: "whenever"}).Timeline
	if got == nil || *got != domain.TimelineJustBrowsing {
		t.Fatalf("unrecognized timeline: got %v, want just_browsing", got)
	}

	cases := []struct {
		raw  string
		want domain.Timeline
	}{
		{"asap", domain.TimelineImmediate},
		{"immediate", domain.TimelineImmediate},
		{"1-3 months", domain.TimelineOneToThreeMonths},
		{"3-6 months", domain.TimelineThreeToSixMonths},
		{"6-12 months", domain.TimelineSixToTwelve},
		{"browsing", domain.TimelineJustBrowsing},
		{"just looking", domain.TimelineJustBrowsing},
	}
	for _, tc := range cases {
		got := Normalize(RawLead{Timeline: tc.raw}).Timeline
		if got == nil || *got != tc.want {
			t.Errorf("timeline %q: got %v, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizePriorityFirstMatchWins(t *testing.T) {
	cases := []struct {
		name     string
		status   string
		timeline string
		want     domain.Priority
	}{
		{"hot status", "hot", "", domain.PriorityHot},
		{"asap timeline", "", "asap", domain.PriorityHot},
		{"immediate timeline", "", "immediate", domain.PriorityHot},
		{"hot status beats warm timeline", "hot", "1-3 months", domain.PriorityHot},
		{"warm status", "warm", "", domain.PriorityWarm},
		{"warm timeline", "", "1-3 months", domain.PriorityWarm},
		{"neither", "new", "6-12 months", domain.PriorityCold},
		{"empty", "", "", domain.PriorityCold},
	}

	for _, tc := range cases {
		got := Normalize(RawLead{Status: tc.status, Timeline: tc.timeline}).Priority
		if got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestNormalizeHotLead(t *testing.T) {
	raw := RawLead{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@x.com",
		Phone:     "555-0001",
		Status:    "hot",
		Timeline:  "asap",
	}

	n := Normalize(raw)

	if n.Status != domain.StatusQualified {
		t.Errorf("status: got %q, want qualified", n.Status)
	}
	if n.Priority != domain.PriorityHot {
		t.Errorf("priority: got %q, want hot", n.Priority)
	}
	if n.Timeline == nil || *n.Timeline != domain.TimelineImmediate {
		t.Errorf("timeline: got %v, want immediate", n.Timeline)
	}
	if n.Email == nil || *n.Email != "jane@x.com" {
		t.Errorf("email: got %v, want jane@x.com", n.Email)
	}
	if !n.ConsentGiven {
		t.Error("consentGiven: got false, want true")
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	raw := RawLead{
		FirstName: "Jane",
		Status:    "warm",
		Source:    "zillow",
		Timeline:  "browsing",
		Notes:     "wants to sell",
		Tags:      []string{"vip"},
		UpdatedAt: "2026-08-01T10:00:00Z",
	}

	first := Normalize(raw)
	second := Normalize(raw)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("normalize not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestNormalizeOptionalFields(t *testing.T) {
	n := Normalize(RawLead{
		PropertyInterest: json.RawMessage(`"3 bed condo"`),
		Budget:           json.RawMessage(`{"min": 300000, "max": 450000}`),
		UpdatedAt:        "2026-08-01T10:00:00Z",
	})

	if n.PropertyInterest == nil || *n.PropertyInterest != "3 bed condo" {
		t.Errorf("propertyInterest: got %v, want flattened string", n.PropertyInterest)
	}
	if n.Budget == nil || *n.Budget != `{"min":300000,"max":450000}` {
		t.Errorf("budget: got %v, want compact JSON", n.Budget)
	}
	if n.LastContacted == nil {
		t.Error("lastContacted: got nil, want parsed timestamp")
	}

	empty := Normalize(RawLead{})
	if empty.Email != nil || empty.Notes != nil || empty.PropertyInterest != nil || empty.Budget != nil || empty.LastContacted != nil {
		t.Error("empty payload should leave all optional fields nil")
	}
}
