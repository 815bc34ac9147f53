// Package crm provides the CRM ingestion bounded context module.
// This file defines the module that encapsulates all ingestion setup and route registration.
package crm

import (
	"leadflow_backend/internal/events"
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the CRM ingestion bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates and initializes the CRM ingestion module.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	service := NewService(repo, eventBus, log)
	handler := NewHandler(service)

	return &Module{
		handler: handler,
		service: service,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "crm"
}

// Service returns the upsert orchestrator for external use.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes mounts the webhook endpoint on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	crmGroup := ctx.Webhooks.Group("/crm")
	crmGroup.Use(SignatureMiddleware(ctx.Config.GetCRMWebhookSecret()))
	crmGroup.POST("", m.handler.HandleDelivery)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
