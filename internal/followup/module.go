// Package followup provides the follow-up bounded context module.
// This file defines the module that encapsulates all follow-up setup and route registration.
package followup

import (
	"leadflow_backend/internal/events"
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the follow-up bounded context module implementing http.Module.
type Module struct {
	handler    *Handler
	service    *Service
	dispatcher *Dispatcher
	repo       *repository.Repository
}

// NewModule creates and initializes the follow-up module. scheduler may be
// nil when no queue is configured; delayed touches are then logged but not
// delivered.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, messenger Messenger, scheduler ActionScheduler, agentName string, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	dispatcher := NewDispatcher(repo, repo, messenger, eventBus, agentName, log)
	service := NewService(repo, repo, dispatcher, scheduler, log)
	handler := NewHandler(service, val)

	return &Module{
		handler:    handler,
		service:    service,
		dispatcher: dispatcher,
		repo:       repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "followup"
}

// Service returns the follow-up service for external use.
func (m *Module) Service() *Service {
	return m.service
}

// Dispatcher returns the dispatcher for the queue worker.
func (m *Module) Dispatcher() *Dispatcher {
	return m.dispatcher
}

// Repository returns the shared lead repository.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterHandlers subscribes the module to ingestion events.
func (m *Module) RegisterHandlers(bus events.Bus) {
	m.service.RegisterHandlers(bus)
}

// RegisterRoutes mounts the trigger endpoint on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/triggers", m.handler.HandleTrigger)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
