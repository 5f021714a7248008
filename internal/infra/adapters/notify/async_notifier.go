// File: internal/infra/adapters/notify/async_notifier.go
package notify

import (
	"context"

	"github.com/rs/zerolog"

	"academy-platform/internal/domain/ports/adapter"
	"academy-platform/internal/infra/worker"
)

var _ adapter.Notifier = (*AsyncNotifier)(nil)

// AsyncNotifier hands sends to the worker pool so callers never block on SMTP.
// A full queue drops the message; notifications are best-effort everywhere.
type AsyncNotifier struct {
	inner adapter.Notifier
	pool  *worker.Pool
	log   *zerolog.Logger
}

func NewAsyncNotifier(inner adapter.Notifier, pool *worker.Pool, log *zerolog.Logger) *AsyncNotifier {
	l := log.With().Str("component", "async_notifier").Logger()
	return &AsyncNotifier{inner: inner, pool: pool, log: &l}
}

func (a *AsyncNotifier) Send(ctx context.Context, n adapter.Notification) error {
	err := a.pool.Submit(func(taskCtx context.Context) error {
		return a.inner.Send(taskCtx, n)
	})
	if err != nil {
		a.log.Warn().Err(err).Str("to", n.To).Msg("notification dropped")
	}
	return nil
}
