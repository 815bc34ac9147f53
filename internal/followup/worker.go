package followup

import (
	"context"
	"errors"
	"fmt"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Worker consumes queued follow-up tasks: delayed onboarding touches and
// aged-lead checks.
type Worker struct {
	server     *asynq.Server
	mux        *asynq.ServeMux
	leads      LeadStore
	service    *Service
	dispatcher *Dispatcher
	log        *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, leads LeadStore, service *Service, dispatcher *Dispatcher, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:     server,
		mux:        mux,
		leads:      leads,
		service:    service,
		dispatcher: dispatcher,
		log:        log,
	}

	mux.HandleFunc(TaskFollowUpDispatch, w.handleDispatch)
	mux.HandleFunc(TaskAgedLeadCheck, w.handleAgedLeadCheck)

	return w, nil
}

// handleDispatch delivers a delayed touch. Consent is re-checked at
// delivery time: a lead that opted out after the touch was queued is
// silently skipped.
func (w *Worker) handleDispatch(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFollowUpDispatchPayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	lead, err := w.leads.GetByID(ctx, leadID)
	if errors.Is(err, repository.ErrNotFound) {
		w.log.Warn("queued touch for deleted lead dropped", "lead_id", payload.LeadID)
		return nil
	}
	if err != nil {
		return err
	}

	if !lead.Contactable() {
		w.log.Info("queued touch skipped, lead no longer contactable", "lead_id", lead.ID)
		return nil
	}

	w.dispatcher.Dispatch(ctx, lead, Action{
		Channel:     domain.Channel(payload.Channel),
		TemplateKey: payload.TemplateKey,
		Reason:      payload.Reason,
	})
	return nil
}

func (w *Worker) handleAgedLeadCheck(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAgedLeadCheckPayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	_, err = w.service.ProcessTrigger(ctx, leadID, TriggerAgedLeadCheck)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil
	}
	return err
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("follow-up worker stopped", "error", err)
	}
}
