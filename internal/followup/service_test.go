package followup

import (
	"context"
	"errors"
	"testing"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

func newTestService(leads *fakeLeads, commLog *fakeCommLog, messenger *fakeMessenger, scheduler ActionScheduler) *Service {
	log := logger.New("development")
	dispatcher := NewDispatcher(leads, commLog, messenger, silentBus{}, "Alex Agent", log)
	return NewService(leads, commLog, dispatcher, scheduler, log)
}

func countByStatus(records []domain.AppendCommunicationParams, status domain.CommStatus) int {
	n := 0
	for _, r := range records {
		if r.Status == status {
			n++
		}
	}
	return n
}

func TestProcessTriggerNewLeadRunsOnboarding(t *testing.T) {
	lead := emailLead()
	leads := &fakeLeads{lead: lead}
	commLog := &fakeCommLog{}
	messenger := &fakeMessenger{}
	scheduler := &fakeScheduler{}
	svc := newTestService(leads, commLog, messenger, scheduler)

	result, err := svc.ProcessTrigger(context.Background(), lead.ID, TriggerNewLead)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ActionTaken != "onboarding_started" {
		t.Errorf("actionTaken: got %q, want onboarding_started", result.ActionTaken)
	}

	// One immediate welcome email, four delayed touches recorded and queued.
	if messenger.emailCalls != 1 {
		t.Errorf("email calls: got %d, want 1 immediate welcome", messenger.emailCalls)
	}
	if got := countByStatus(commLog.appended, domain.CommStatusSent); got != 1 {
		t.Errorf("sent records: got %d, want 1", got)
	}
	if got := countByStatus(commLog.appended, domain.CommStatusScheduled); got != 4 {
		t.Errorf("scheduled records: got %d, want 4", got)
	}

	if len(scheduler.delays) != 4 {
		t.Fatalf("queued touches: got %d, want 4", len(scheduler.delays))
	}
	wantDelays := []time.Duration{24 * time.Hour, 72 * time.Hour, 168 * time.Hour, 336 * time.Hour}
	for i, want := range wantDelays {
		if scheduler.delays[i] != want {
			t.Errorf("delay %d: got %v, want %v", i, scheduler.delays[i], want)
		}
	}
	if scheduler.payloads[0].TemplateKey != "initial_follow_up" || scheduler.payloads[0].LeadID != lead.ID.String() {
		t.Errorf("first payload: got %+v", scheduler.payloads[0])
	}
}

func TestProcessTriggerNewLeadNotContactable(t *testing.T) {
	lead := emailLead()
	lead.ConsentGiven = false
	leads := &fakeLeads{lead: lead}
	commLog := &fakeCommLog{}
	messenger := &fakeMessenger{}
	svc := newTestService(leads, commLog, messenger, &fakeScheduler{})

	result, err := svc.ProcessTrigger(context.Background(), lead.ID, TriggerNewLead)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ActionTaken != "skipped_not_contactable" {
		t.Errorf("actionTaken: got %q, want skipped_not_contactable", result.ActionTaken)
	}
	if messenger.emailCalls != 0 || messenger.smsCalls != 0 || len(commLog.appended) != 0 {
		t.Error("non-contactable lead must produce no sends and no records")
	}
}

func TestProcessTriggerAgedLead(t *testing.T) {
	cases := []struct {
		name        string
		lastContact *time.Duration
		wantAction  string
		wantSMS     int
	}{
		{"45 days silent", durPtr(45 * 24 * time.Hour), "reactivation_sent", 1},
		{"never contacted", nil, "reactivation_sent", 1},
		{"10 days silent", durPtr(10 * 24 * time.Hour), "no_action_needed", 0},
	}

	for _, tc := range cases {
		lead := emailLead()
		if tc.lastContact != nil {
			ts := time.Now().Add(-*tc.lastContact)
			lead.LastContacted = &ts
		}
		leads := &fakeLeads{lead: lead}
		commLog := &fakeCommLog{}
		messenger := &fakeMessenger{}
		svc := newTestService(leads, commLog, messenger, &fakeScheduler{})

		result, err := svc.ProcessTrigger(context.Background(), lead.ID, TriggerAgedLeadCheck)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
			continue
		}
		if result.ActionTaken != tc.wantAction {
			t.Errorf("%s: actionTaken got %q, want %q", tc.name, result.ActionTaken, tc.wantAction)
		}
		if messenger.smsCalls != tc.wantSMS {
			t.Errorf("%s: sms calls got %d, want %d", tc.name, messenger.smsCalls, tc.wantSMS)
		}
		// A successful reactivation stamps lastContacted.
		if tc.wantSMS == 1 && leads.touchCalls != 1 {
			t.Errorf("%s: touch calls got %d, want 1", tc.name, leads.touchCalls)
		}
	}
}

func TestProcessTriggerFollowUpRecentContact(t *testing.T) {
	lead := emailLead()
	leads := &fakeLeads{lead: lead}
	commLog := &fakeCommLog{
		recent: []domain.CommunicationRecord{{CreatedAt: time.Now().Add(-3 * 24 * time.Hour)}},
	}
	messenger := &fakeMessenger{}
	svc := newTestService(leads, commLog, messenger, &fakeScheduler{})

	result, err := svc.ProcessTrigger(context.Background(), lead.ID, TriggerFollowUp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ActionTaken != "no_action_needed" {
		t.Errorf("actionTaken: got %q, want no_action_needed", result.ActionTaken)
	}
	if messenger.emailCalls != 0 || messenger.smsCalls != 0 {
		t.Error("recently contacted lead must not be messaged")
	}
}

func TestProcessTriggerFollowUpHistoryUnavailable(t *testing.T) {
	lead := emailLead()
	leads := &fakeLeads{lead: lead}
	commLog := &fakeCommLog{listErr: errors.New("query timeout")}
	messenger := &fakeMessenger{}
	svc := newTestService(leads, commLog, messenger, &fakeScheduler{})

	result, err := svc.ProcessTrigger(context.Background(), lead.ID, TriggerFollowUp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ActionTaken != "skipped_history_unavailable" {
		t.Errorf("actionTaken: got %q, want skipped_history_unavailable", result.ActionTaken)
	}
	if messenger.emailCalls != 0 || messenger.smsCalls != 0 {
		t.Error("no message may go out when history cannot be read")
	}
}

func TestProcessTriggerFollowUpInitialContact(t *testing.T) {
	lead := emailLead()
	leads := &fakeLeads{lead: lead}
	commLog := &fakeCommLog{}
	messenger := &fakeMessenger{}
	svc := newTestService(leads, commLog, messenger, &fakeScheduler{})

	result, err := svc.ProcessTrigger(context.Background(), lead.ID, TriggerFollowUp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ActionTaken != "initial_contact" {
		t.Errorf("actionTaken: got %q, want initial_contact", result.ActionTaken)
	}
	if messenger.emailCalls != 1 {
		t.Errorf("email calls: got %d, want 1", messenger.emailCalls)
	}
}

func TestProcessTriggerUnknownAction(t *testing.T) {
	lead := emailLead()
	svc := newTestService(&fakeLeads{lead: lead}, &fakeCommLog{}, &fakeMessenger{}, &fakeScheduler{})

	_, err := svc.ProcessTrigger(context.Background(), lead.ID, "escalate")
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("got %v, want bad request", err)
	}
}

func TestProcessTriggerLeadNotFound(t *testing.T) {
	leads := &fakeLeads{getErr: repository.ErrNotFound}
	svc := newTestService(leads, &fakeCommLog{}, &fakeMessenger{}, &fakeScheduler{})

	_, err := svc.ProcessTrigger(context.Background(), uuid.New(), TriggerNewLead)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestRegisterHandlersRoutesIngestionEvents(t *testing.T) {
	lead := emailLead()
	leads := &fakeLeads{lead: lead}
	commLog := &fakeCommLog{}
	messenger := &fakeMessenger{}
	svc := newTestService(leads, commLog, messenger, &fakeScheduler{})

	bus := events.NewInMemoryBus(logger.New("development"))
	svc.RegisterHandlers(bus)

	// A created lead enters onboarding.
	if err := bus.PublishSync(context.Background(), events.LeadIngested{LeadID: lead.ID, WasCreated: true}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if messenger.emailCalls != 1 {
		t.Errorf("email calls after creation event: got %d, want 1", messenger.emailCalls)
	}

	// An updated lead runs the decision table; 3-day-old history means quiet.
	commLog.recent = []domain.CommunicationRecord{{CreatedAt: time.Now().Add(-3 * 24 * time.Hour)}}
	if err := bus.PublishSync(context.Background(), events.LeadIngested{LeadID: lead.ID, WasCreated: false}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if messenger.emailCalls != 1 || messenger.smsCalls != 0 {
		t.Errorf("update event must not message a recently contacted lead, got %d email %d sms", messenger.emailCalls, messenger.smsCalls)
	}
}

func durPtr(d time.Duration) *time.Duration { return &d }
