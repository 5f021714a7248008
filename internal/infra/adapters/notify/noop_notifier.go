// File: internal/infra/adapters/notify/noop_notifier.go
package notify

import (
	"context"

	"github.com/rs/zerolog"

	"academy-platform/internal/domain/ports/adapter"
)

var _ adapter.Notifier = (*NoopNotifier)(nil)

// NoopNotifier logs instead of sending. Default when SMTP is not configured.
type NoopNotifier struct {
	log *zerolog.Logger
}

func NewNoopNotifier(log *zerolog.Logger) *NoopNotifier {
	l := log.With().Str("component", "noop_notifier").Logger()
	return &NoopNotifier{log: &l}
}

func (n *NoopNotifier) Send(ctx context.Context, msg adapter.Notification) error {
	n.log.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("notification suppressed")
	return nil
}
