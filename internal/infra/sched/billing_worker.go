// File: internal/infra/sched/billing_worker.go
package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"academy-platform/internal/usecase"
)

// BillingWorker runs the monthly charge generation on a fixed interval. The
// engine is idempotent per (subscription, period), so overlapping or repeated
// runs are harmless.
type BillingWorker struct {
	interval      time.Duration
	orgID         string
	lookaheadDays int
	billingUC     usecase.BillingUseCase
	log           *zerolog.Logger
}

func NewBillingWorker(interval time.Duration, orgID string, lookaheadDays int, billingUC usecase.BillingUseCase, logger *zerolog.Logger) *BillingWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	l := logger.With().Str("component", "BillingWorker").Logger()
	return &BillingWorker{
		interval:      interval,
		orgID:         orgID,
		lookaheadDays: lookaheadDays,
		billingUC:     billingUC,
		log:           &l,
	}
}

func (w *BillingWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting billing worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping billing worker")
			return ctx.Err()
		case <-ticker.C:
			res, err := w.billingUC.GenerateCharges(ctx, w.orgID, w.lookaheadDays)
			if err != nil {
				w.log.Error().Err(err).Msg("billing run failed")
				continue
			}
			if res.Succeeded+res.Failed > 0 {
				w.log.Info().
					Int("succeeded", res.Succeeded).
					Int("failed", res.Failed).
					Int("skipped", res.Skipped).
					Msg("billing run finished")
			}
		}
	}
}
