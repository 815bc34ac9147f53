package crm

import (
	"context"
	"errors"
	"testing"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeLeadStore struct {
	emailMatches []domain.Lead
	phoneMatches []domain.Lead
	emailErr     error
	phoneErr     error

	emailCalls int
	phoneCalls int

	createCalls  int
	updateCalls  int
	createErr    error
	updateErr    error
	lastCreate   domain.CreateLeadParams
	lastUpdate   domain.UpdateLeadParams
	lastUpdateID uuid.UUID
}

func (f *fakeLeadStore) Create(_ context.Context, p domain.CreateLeadParams) (domain.Lead, error) {
	f.createCalls++
	f.lastCreate = p
	if f.createErr != nil {
		return domain.Lead{}, f.createErr
	}
	return domain.Lead{ID: uuid.New(), FirstName: p.FirstName, Phone: p.Phone}, nil
}

func (f *fakeLeadStore) Update(_ context.Context, id uuid.UUID, p domain.UpdateLeadParams) (domain.Lead, error) {
	f.updateCalls++
	f.lastUpdateID = id
	f.lastUpdate = p
	if f.updateErr != nil {
		return domain.Lead{}, f.updateErr
	}
	return domain.Lead{ID: id}, nil
}

func (f *fakeLeadStore) FindByEmail(_ context.Context, _ string) ([]domain.Lead, error) {
	f.emailCalls++
	return f.emailMatches, f.emailErr
}

func (f *fakeLeadStore) FindByPhone(_ context.Context, _ string) ([]domain.Lead, error) {
	f.phoneCalls++
	return f.phoneMatches, f.phoneErr
}

func strPtr(s string) *string { return &s }

func TestMatcherEmailWinsOverPhone(t *testing.T) {
	emailLead := domain.Lead{ID: uuid.New()}
	phoneLead := domain.Lead{ID: uuid.New()}
	store := &fakeLeadStore{
		emailMatches: []domain.Lead{emailLead},
		phoneMatches: []domain.Lead{phoneLead},
	}
	m := NewMatcher(store, logger.New("development"))

	got := m.FindExisting(context.Background(), strPtr("jane@x.com"), "+15550001")

	if got == nil || got.ID != emailLead.ID {
		t.Fatalf("got %v, want email match %s", got, emailLead.ID)
	}
	if store.phoneCalls != 0 {
		t.Errorf("phone consulted %d times, want 0 when email matched", store.phoneCalls)
	}
}

func TestMatcherFallsBackToPhone(t *testing.T) {
	phoneLead := domain.Lead{ID: uuid.New()}
	store := &fakeLeadStore{phoneMatches: []domain.Lead{phoneLead}}
	m := NewMatcher(store, logger.New("development"))

	got := m.FindExisting(context.Background(), strPtr("jane@x.com"), "+15550001")

	if got == nil || got.ID != phoneLead.ID {
		t.Fatalf("got %v, want phone match %s", got, phoneLead.ID)
	}
	if store.emailCalls != 1 {
		t.Errorf("email consulted %d times, want 1", store.emailCalls)
	}
}

func TestMatcherNoIdentifiersSkipsStore(t *testing.T) {
	store := &fakeLeadStore{}
	m := NewMatcher(store, logger.New("development"))

	cases := []struct {
		name  string
		email *string
		phone string
	}{
		{"both absent", nil, ""},
		{"empty email string", strPtr(""), ""},
	}
	for _, tc := range cases {
		if got := m.FindExisting(context.Background(), tc.email, tc.phone); got != nil {
			t.Errorf("%s: got %v, want nil", tc.name, got)
		}
	}
	if store.emailCalls != 0 || store.phoneCalls != 0 {
		t.Errorf("store consulted (%d email, %d phone), want no queries", store.emailCalls, store.phoneCalls)
	}
}

func TestMatcherDegradesOnStoreError(t *testing.T) {
	// An email lookup failure must not abort matching; phone still runs.
	phoneLead := domain.Lead{ID: uuid.New()}
	store := &fakeLeadStore{
		emailErr:     errors.New("connection refused"),
		phoneMatches: []domain.Lead{phoneLead},
	}
	m := NewMatcher(store, logger.New("development"))

	got := m.FindExisting(context.Background(), strPtr("jane@x.com"), "+15550001")
	if got == nil || got.ID != phoneLead.ID {
		t.Fatalf("got %v, want phone match despite email error", got)
	}

	// Both lookups failing degrades to no match.
	store = &fakeLeadStore{
		emailErr: errors.New("connection refused"),
		phoneErr: errors.New("connection refused"),
	}
	m = NewMatcher(store, logger.New("development"))
	if got := m.FindExisting(context.Background(), strPtr("jane@x.com"), "+15550001"); got != nil {
		t.Fatalf("got %v, want nil when both lookups fail", got)
	}
}
