// File: internal/infra/sched/payment_reconciler.go
package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"academy-platform/internal/usecase"
)

// PaymentReconciler periodically finalizes payments that settled at the
// provider without a webhook landing, and backfills phantom charges created
// right before a crash.
type PaymentReconciler struct {
	paymentUC     usecase.PaymentUseCase
	orgID         string
	lookaheadDays int
	interval      time.Duration
	staleAfter    time.Duration
	log           *zerolog.Logger
}

func NewPaymentReconciler(paymentUC usecase.PaymentUseCase, orgID string, lookaheadDays int, interval, staleAfter time.Duration, logger *zerolog.Logger) *PaymentReconciler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 30 * time.Minute
	}
	l := logger.With().Str("component", "PaymentReconciler").Logger()
	return &PaymentReconciler{
		paymentUC:     paymentUC,
		orgID:         orgID,
		lookaheadDays: lookaheadDays,
		interval:      interval,
		staleAfter:    staleAfter,
		log:           &l,
	}
}

func (w *PaymentReconciler) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting payment reconciler")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping payment reconciler")
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *PaymentReconciler) tick(ctx context.Context) {
	synced, err := w.paymentUC.SyncStalePending(ctx, w.staleAfter, 200)
	if err != nil {
		w.log.Error().Err(err).Msg("sync stale pending failed")
	} else if synced > 0 {
		w.log.Info().Int("count", synced).Msg("stale pending payments finalized")
	}

	backfilled, err := w.paymentUC.BackfillPhantoms(ctx, w.orgID, w.lookaheadDays)
	if err != nil {
		w.log.Error().Err(err).Msg("phantom backfill failed")
	} else if backfilled > 0 {
		w.log.Info().Int("count", backfilled).Msg("phantom charges backfilled")
	}
}
