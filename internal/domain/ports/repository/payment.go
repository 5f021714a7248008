package repository

import (
	"context"
	"time"

	"academy-platform/internal/domain/model"
)

type PaymentRepository interface {
	// CreateIfAbsent inserts the payment, relying on the durable unique
	// constraint on (subscription_id, period_key). Returns domain.ErrConflict
	// when a payment for that period already exists; this is the idempotency
	// guarantee the billing engine builds on and MUST hold across processes.
	CreateIfAbsent(ctx context.Context, tx Tx, p *model.Payment) error
	Save(ctx context.Context, tx Tx, p *model.Payment) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Payment, error)
	FindBySubscriptionAndPeriod(ctx context.Context, tx Tx, subscriptionID, periodKey string) (*model.Payment, error)
	FindByGatewayChargeID(ctx context.Context, tx Tx, chargeID string) (*model.Payment, error)
	ListByStudent(ctx context.Context, tx Tx, studentID string, offset, limit int) ([]*model.Payment, error)
	ListPendingOlderThan(ctx context.Context, tx Tx, olderThan time.Time, limit int) ([]*model.Payment, error)
	// UpdateStatusIfPending flips status only while the row is still PENDING,
	// so webhook retries and the reconciler cannot regress a PAID row.
	UpdateStatusIfPending(ctx context.Context, tx Tx, id string, status model.PaymentStatus, paidDate *time.Time) (bool, error)
	SumPaidSince(ctx context.Context, tx Tx, orgID string, since time.Time) (int64, error)
}
