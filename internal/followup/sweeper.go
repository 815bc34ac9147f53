package followup

import (
	"context"
	"sync/atomic"
	"time"

	"leadflow_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

// agedCutoff is how long a lead can go without contact before the sweep
// queues a reactivation check for it.
const agedCutoff = 30 * 24 * time.Hour

// Sweeper periodically scans for aged leads and queues a reactivation
// check for each. The per-lead check re-verifies eligibility at delivery
// time, so a generous scan is harmless.
type Sweeper struct {
	leads    LeadStore
	client   *Client
	interval time.Duration
	log      *logger.Logger
}

func NewSweeper(leads LeadStore, client *Client, interval time.Duration, log *logger.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{
		leads:    leads,
		client:   client,
		interval: interval,
		log:      log,
	}
}

func (s *Sweeper) Run(ctx context.Context) {
	if s == nil || s.client == nil {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		s.sweep(ctx)
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-agedCutoff)

	leads, err := s.leads.ListAged(ctx, cutoff)
	if err != nil {
		s.log.Warn("aged lead scan failed", "error", err)
		return
	}
	if len(leads) == 0 {
		return
	}

	var queued atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, lead := range leads {
		g.Go(func() error {
			err := s.client.EnqueueAgedLeadCheck(gctx, AgedLeadCheckPayload{LeadID: lead.ID.String()})
			if err != nil {
				s.log.Warn("failed to queue aged lead check", "lead_id", lead.ID, "error", err)
				return nil
			}
			queued.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	s.log.Info("aged lead sweep complete", "candidates", len(leads), "queued", queued.Load())
}
