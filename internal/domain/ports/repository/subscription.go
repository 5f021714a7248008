package repository

import (
	"context"
	"time"

	"academy-platform/internal/domain/model"
)

type SubscriptionRepository interface {
	Save(ctx context.Context, tx Tx, s *model.Subscription) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Subscription, error)
	FindActiveByStudent(ctx context.Context, tx Tx, studentID string) ([]*model.Subscription, error)
	ListByStudent(ctx context.Context, tx Tx, studentID string) ([]*model.Subscription, error)
	// FindDue returns ACTIVE subscriptions with next_billing_date <= cutoff,
	// i.e. those inside the billing lookahead window.
	FindDue(ctx context.Context, tx Tx, orgID string, cutoff time.Time) ([]*model.Subscription, error)
	// FindExpiring returns ACTIVE subscriptions whose end_date has passed at
	// the given instant (candidates for the expiry worker).
	FindExpiring(ctx context.Context, tx Tx, at time.Time) ([]*model.Subscription, error)
	CountActiveByPlan(ctx context.Context, tx Tx, orgID string) (map[string]int, error)
}
