package adapter

import "context"

// Notification is a message to a student. Delivery channel details (SMTP,
// push) live behind the implementation; callers treat sends as best-effort.
type Notification struct {
	To      string // email address
	Subject string
	Body    string
}

type Notifier interface {
	Send(ctx context.Context, n Notification) error
}
