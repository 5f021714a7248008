// File: internal/infra/adapters/notify/smtp_notifier.go
package notify

import (
	"context"

	"gopkg.in/gomail.v2"

	"academy-platform/internal/domain/ports/adapter"
)

var _ adapter.Notifier = (*SMTPNotifier)(nil)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// SMTPNotifier delivers student notifications over SMTP. Sends are treated as
// best-effort by every caller; a failed dial never fails a check-in or a
// billing run.
type SMTPNotifier struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPNotifier(config SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

func (s *SMTPNotifier) Send(ctx context.Context, n adapter.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetHeader("To", n.To)
	m.SetHeader("Subject", n.Subject)
	m.SetBody("text/plain", n.Body)
	return s.dialer.DialAndSend(m)
}
