package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadflow_backend/internal/email"
	"leadflow_backend/internal/events"
	"leadflow_backend/internal/followup"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/sms"
	"leadflow_backend/internal/whatsapp"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/db"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	// Messaging providers
	sender := email.NewSender(cfg, log)
	smsClient := sms.NewClient(cfg, log)
	whatsappClient := whatsapp.NewClient(cfg, log)
	messenger := followup.NewProviderMessenger(sender, smsClient, whatsappClient)

	queueClient, err := followup.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize follow-up queue client", "error", err)
		panic("failed to initialize follow-up queue client: " + err.Error())
	}
	defer func() { _ = queueClient.Close() }()

	val := validator.New()

	followupModule := followup.NewModule(pool, eventBus, messenger, queueClient, cfg.AgentName, val, log)
	followupModule.RegisterHandlers(eventBus)

	// Periodic aged-lead sweep feeds reactivation checks into the queue.
	sweeper := followup.NewSweeper(repository.New(pool), queueClient, cfg.AgedLeadScanInterval, log)
	go sweeper.Run(ctx)

	worker, err := followup.NewWorker(cfg, followupModule.Repository(), followupModule.Service(), followupModule.Dispatcher(), log)
	if err != nil {
		log.Error("failed to initialize follow-up worker", "error", err)
		panic("failed to initialize follow-up worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
