// Package service implements lead management for the dashboard API.
package service

import (
	"context"
	"errors"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/phone"

	"github.com/google/uuid"
)

type Service struct {
	repo *repository.Repository
	bus  events.Bus
}

func New(repo *repository.Repository, bus events.Bus) *Service {
	return &Service{repo: repo, bus: bus}
}

// List returns leads filtered by optional status and priority.
func (s *Service) List(ctx context.Context, f repository.ListFilter) ([]domain.Lead, error) {
	leads, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list leads", err).WithOp("leads.List")
	}
	return leads, nil
}

// GetByID returns a single lead.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Lead{}, apperr.NotFound("lead not found").WithOp("leads.GetByID")
	}
	if err != nil {
		return domain.Lead{}, apperr.Wrap(apperr.KindInternal, "failed to load lead", err).WithOp("leads.GetByID")
	}
	return lead, nil
}

// Create registers a manually entered lead. Manual entries start in the
// pipeline exactly like webhook leads so follow-up scheduling treats both
// the same way.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (domain.Lead, error) {
	normalized := phone.NormalizeE164(req.Phone)

	var timeline *domain.Timeline
	if req.Timeline != nil {
		t := domain.Timeline(*req.Timeline)
		timeline = &t
	}

	lead, err := s.repo.Create(ctx, domain.CreateLeadParams{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            normalized,
		Status:           domain.StatusNew,
		Source:           domain.SourceManualEntry,
		Priority:         domain.PriorityCold,
		Timeline:         timeline,
		Notes:            req.Notes,
		Tags:             req.Tags,
		PropertyInterest: req.PropertyInterest,
		Budget:           req.Budget,
		ConsentGiven:     req.ConsentGiven,
	})
	if err != nil {
		return domain.Lead{}, apperr.Wrap(apperr.KindInternal, "failed to create lead", err).WithOp("leads.Create")
	}

	s.bus.Publish(ctx, events.LeadIngested{
		LeadID:     lead.ID,
		WasCreated: true,
		Source:     string(lead.Source),
	})

	return lead, nil
}

// Update applies a partial update. Marking a lead opted out also stamps the
// opt-out date so scheduling decisions can see when consent was withdrawn.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest) (domain.Lead, error) {
	params := domain.UpdateLeadParams{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Notes:            req.Notes,
		Tags:             req.Tags,
		PropertyInterest: req.PropertyInterest,
		Budget:           req.Budget,
		ConsentGiven:     req.ConsentGiven,
	}

	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		params.Phone = &normalized
	}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		params.Status = &status
		if status == domain.StatusOptedOut {
			now := time.Now().UTC()
			params.OptOutDate = &now
		}
	}
	if req.Priority != nil {
		priority := domain.Priority(*req.Priority)
		params.Priority = &priority
	}
	if req.Timeline != nil {
		timeline := domain.Timeline(*req.Timeline)
		params.Timeline = &timeline
	}

	lead, err := s.repo.Update(ctx, id, params)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Lead{}, apperr.NotFound("lead not found").WithOp("leads.Update")
	}
	if err != nil {
		return domain.Lead{}, apperr.Wrap(apperr.KindInternal, "failed to update lead", err).WithOp("leads.Update")
	}
	return lead, nil
}

// Communications returns the full outbound/inbound history for a lead.
func (s *Service) Communications(ctx context.Context, leadID uuid.UUID) ([]domain.CommunicationRecord, error) {
	if _, err := s.GetByID(ctx, leadID); err != nil {
		return nil, err
	}

	records, err := s.repo.ListCommunications(ctx, leadID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list communications", err).WithOp("leads.Communications")
	}
	return records, nil
}
