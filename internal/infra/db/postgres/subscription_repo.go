package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"academy-platform/internal/domain"
	"academy-platform/internal/domain/model"
	"academy-platform/internal/domain/ports/repository"
)

var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct{ pool *pgxpool.Pool }

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

const subscriptionColumns = `id, organization_id, student_id, plan_id, current_price, billing_type, status, start_date, next_billing_date, end_date, created_at, updated_at`

func (r *subscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	const q = `
INSERT INTO subscriptions (
  id, organization_id, student_id, plan_id, current_price, billing_type, status, start_date, next_billing_date, end_date, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12
) ON CONFLICT (id) DO UPDATE SET
  current_price=$5, status=$7, next_billing_date=$9, end_date=$10, updated_at=$12;`

	_, err := execSQL(ctx, r.pool, tx, q, s.ID, s.OrganizationID, s.StudentID, s.PlanID, s.CurrentPrice, s.BillingType, s.Status, s.StartDate, s.NextBillingDate, s.EndDate, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *subscriptionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
	q := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanSubscription(row)
}

func (r *subscriptionRepo) FindActiveByStudent(ctx context.Context, tx repository.Tx, studentID string) ([]*model.Subscription, error) {
	const q = `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE student_id=$1 AND status='ACTIVE';`
	return r.querySubscriptions(ctx, tx, q, studentID)
}

func (r *subscriptionRepo) ListByStudent(ctx context.Context, tx repository.Tx, studentID string) ([]*model.Subscription, error) {
	const q = `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE student_id=$1 ORDER BY created_at DESC;`
	return r.querySubscriptions(ctx, tx, q, studentID)
}

func (r *subscriptionRepo) FindDue(ctx context.Context, tx repository.Tx, orgID string, cutoff time.Time) ([]*model.Subscription, error) {
	const q = `SELECT ` + subscriptionColumns + ` FROM subscriptions
WHERE organization_id=$1 AND status='ACTIVE' AND next_billing_date <= $2
ORDER BY next_billing_date;`
	return r.querySubscriptions(ctx, tx, q, orgID, cutoff)
}

func (r *subscriptionRepo) FindExpiring(ctx context.Context, tx repository.Tx, at time.Time) ([]*model.Subscription, error) {
	const q = `SELECT ` + subscriptionColumns + ` FROM subscriptions
WHERE status='ACTIVE' AND end_date IS NOT NULL AND end_date < $1;`
	return r.querySubscriptions(ctx, tx, q, at)
}

func (r *subscriptionRepo) CountActiveByPlan(ctx context.Context, tx repository.Tx, orgID string) (map[string]int, error) {
	const q = `SELECT plan_id, COUNT(*) FROM subscriptions WHERE organization_id=$1 AND status='ACTIVE' GROUP BY plan_id;`
	rows, err := queryRows(ctx, r.pool, tx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var planID string
		var n int
		if err := rows.Scan(&planID, &n); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out[planID] = n
	}
	return out, rows.Err()
}

func (r *subscriptionRepo) querySubscriptions(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.Subscription, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSubscription(row pgx.Row) (*model.Subscription, error) {
	s := &model.Subscription{}
	err := row.Scan(&s.ID, &s.OrganizationID, &s.StudentID, &s.PlanID, &s.CurrentPrice, &s.BillingType, &s.Status, &s.StartDate, &s.NextBillingDate, &s.EndDate, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return s, nil
}
