package crm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

type recordingBus struct {
	mu        sync.Mutex
	published []events.Event
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) Publish(_ context.Context, e events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, e)
}

func (b *recordingBus) PublishSync(ctx context.Context, e events.Event) error {
	b.Publish(ctx, e)
	return nil
}

func (b *recordingBus) events() []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]events.Event, len(b.published))
	copy(out, b.published)
	return out
}

func newTestService(store *fakeLeadStore) (*Service, *recordingBus) {
	bus := &recordingBus{}
	return NewService(store, bus, logger.New("development")), bus
}

func TestUpsertCreatesWhenNoMatch(t *testing.T) {
	store := &fakeLeadStore{}
	svc, _ := newTestService(store)

	result, err := svc.Upsert(context.Background(), RawLead{
		FirstName: "Jane",
		Email:     "jane@x.com",
		Status:    "hot",
	}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.WasCreated {
		t.Error("wasCreated: got false, want true")
	}
	if store.createCalls != 1 || store.updateCalls != 0 {
		t.Errorf("got %d creates, %d updates, want exactly one create", store.createCalls, store.updateCalls)
	}
	if store.lastCreate.Status != domain.StatusQualified {
		t.Errorf("create status: got %q, want qualified", store.lastCreate.Status)
	}
}

func TestUpsertUpdatesWhenMatched(t *testing.T) {
	existing := domain.Lead{ID: uuid.New()}
	store := &fakeLeadStore{emailMatches: []domain.Lead{existing}}
	svc, _ := newTestService(store)

	result, err := svc.Upsert(context.Background(), RawLead{
		FirstName: "Jane",
		Email:     "jane@x.com",
	}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The match outcome beats the create hint.
	if result.WasCreated {
		t.Error("wasCreated: got true, want false for a matched lead")
	}
	if result.LeadID != existing.ID {
		t.Errorf("leadID: got %s, want %s", result.LeadID, existing.ID)
	}
	if store.updateCalls != 1 || store.createCalls != 0 {
		t.Errorf("got %d creates, %d updates, want exactly one update", store.createCalls, store.updateCalls)
	}
}

func TestUpsertHintNeverOverridesMatch(t *testing.T) {
	// person.updated with no existing lead still creates.
	store := &fakeLeadStore{}
	svc, _ := newTestService(store)

	result, err := svc.Upsert(context.Background(), RawLead{FirstName: "Jane", Phone: "+15550001"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.WasCreated {
		t.Error("wasCreated: got false, want true when no lead matches an update hint")
	}
}

func TestUpsertMergeDoesNotBlankFields(t *testing.T) {
	existing := domain.Lead{ID: uuid.New()}
	store := &fakeLeadStore{phoneMatches: []domain.Lead{existing}}
	svc, _ := newTestService(store)

	_, err := svc.Upsert(context.Background(), RawLead{Phone: "+15550001"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := store.lastUpdate
	if p.FirstName != nil || p.LastName != nil || p.Email != nil {
		t.Errorf("absent payload fields must stay nil in update params, got %+v", p)
	}
	if p.Phone == nil || *p.Phone != "+15550001" {
		t.Errorf("phone: got %v, want +15550001", p.Phone)
	}
	if p.Status == nil || p.Source == nil || p.Priority == nil {
		t.Error("derived fields must always be carried on update")
	}
}

func TestUpsertPropagatesWriteFailure(t *testing.T) {
	store := &fakeLeadStore{createErr: errors.New("insert failed")}
	svc, _ := newTestService(store)

	if _, err := svc.Upsert(context.Background(), RawLead{FirstName: "Jane"}, true); err == nil {
		t.Fatal("got nil error, want create failure to propagate")
	}

	store = &fakeLeadStore{
		emailMatches: []domain.Lead{{ID: uuid.New()}},
		updateErr:    errors.New("update failed"),
	}
	svc, _ = newTestService(store)
	if _, err := svc.Upsert(context.Background(), RawLead{Email: "jane@x.com"}, false); err == nil {
		t.Fatal("got nil error, want update failure to propagate")
	}
}

func TestProcessWebhookPublishesIngestionEvent(t *testing.T) {
	store := &fakeLeadStore{}
	svc, bus := newTestService(store)

	data, _ := json.Marshal(RawLead{FirstName: "Jane", Email: "jane@x.com"})
	ack, err := svc.ProcessWebhook(context.Background(), WebhookEvent{Type: EventPersonCreated, Data: data})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ack.Action != "created" || ack.LeadID == nil {
		t.Errorf("ack: got %+v, want created action with lead id", ack)
	}

	published := bus.events()
	if len(published) != 1 {
		t.Fatalf("got %d published events, want 1", len(published))
	}
	ingested, ok := published[0].(events.LeadIngested)
	if !ok {
		t.Fatalf("got event %T, want LeadIngested", published[0])
	}
	if !ingested.WasCreated || ingested.Source != "crm_webhook" {
		t.Errorf("event: got %+v, want wasCreated crm_webhook", ingested)
	}
}

func TestProcessWebhookAcknowledgesUnprocessableDeliveries(t *testing.T) {
	cases := []struct {
		name  string
		event WebhookEvent
	}{
		{"missing type", WebhookEvent{Data: json.RawMessage(`{}`)}},
		{"missing data", WebhookEvent{Type: EventPersonCreated}},
		{"malformed person payload", WebhookEvent{Type: EventPersonUpdated, Data: json.RawMessage(`"not an object"`)}},
		{"activity event", WebhookEvent{Type: EventCreated, Data: json.RawMessage(`{}`)}},
		{"unknown type", WebhookEvent{Type: "deal.closed", Data: json.RawMessage(`{}`)}},
	}

	for _, tc := range cases {
		store := &fakeLeadStore{}
		svc, bus := newTestService(store)

		ack, err := svc.ProcessWebhook(context.Background(), tc.event)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
			continue
		}
		if ack.Message != "event received but not processed" {
			t.Errorf("%s: ack message %q", tc.name, ack.Message)
		}
		if store.createCalls != 0 || store.updateCalls != 0 {
			t.Errorf("%s: store written (%d creates, %d updates), want none", tc.name, store.createCalls, store.updateCalls)
		}
		if len(bus.events()) != 0 {
			t.Errorf("%s: events published, want none", tc.name)
		}
	}
}
