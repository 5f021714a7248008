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

var _ repository.PaymentRepository = (*paymentRepo)(nil)

// paymentRepo persists payments. The unique index on
// (subscription_id, period_key) is the durable idempotency guarantee the
// billing engine relies on.
type paymentRepo struct{ pool *pgxpool.Pool }

func NewPaymentRepo(pool *pgxpool.Pool) *paymentRepo {
	return &paymentRepo{pool: pool}
}

const paymentColumns = `id, organization_id, subscription_id, student_id, amount, currency, period_key, due_date, paid_date, status, gateway_charge_id, invoice_url, description, created_at, updated_at`

func (r *paymentRepo) CreateIfAbsent(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	const q = `
INSERT INTO payments (
  id, organization_id, subscription_id, student_id, amount, currency, period_key, due_date, paid_date, status, gateway_charge_id, invoice_url, description, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15
) ON CONFLICT (subscription_id, period_key) DO NOTHING;`

	tag, err := execSQL(ctx, r.pool, tx, q, p.ID, p.OrganizationID, p.SubscriptionID, p.StudentID, p.Amount, p.Currency, p.PeriodKey, p.DueDate, p.PaidDate, p.Status, p.GatewayChargeID, p.InvoiceURL, p.Description, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *paymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	const q = `
INSERT INTO payments (
  id, organization_id, subscription_id, student_id, amount, currency, period_key, due_date, paid_date, status, gateway_charge_id, invoice_url, description, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15
) ON CONFLICT (id) DO UPDATE SET
  paid_date=$9, status=$10, gateway_charge_id=$11, invoice_url=$12, updated_at=$15;`

	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.OrganizationID, p.SubscriptionID, p.StudentID, p.Amount, p.Currency, p.PeriodKey, p.DueDate, p.PaidDate, p.Status, p.GatewayChargeID, p.InvoiceURL, p.Description, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *paymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanPayment(row)
}

func (r *paymentRepo) FindBySubscriptionAndPeriod(ctx context.Context, tx repository.Tx, subscriptionID, periodKey string) (*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE subscription_id=$1 AND period_key=$2 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, subscriptionID, periodKey)
	if err != nil {
		return nil, err
	}
	return scanPayment(row)
}

func (r *paymentRepo) FindByGatewayChargeID(ctx context.Context, tx repository.Tx, chargeID string) (*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE gateway_charge_id=$1 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, chargeID)
	if err != nil {
		return nil, err
	}
	return scanPayment(row)
}

func (r *paymentRepo) ListByStudent(ctx context.Context, tx repository.Tx, studentID string, offset, limit int) ([]*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE student_id=$1 ORDER BY due_date DESC OFFSET $2 LIMIT $3;`
	return r.queryPayments(ctx, tx, q, studentID, offset, limit)
}

func (r *paymentRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE status='PENDING' AND created_at < $1 ORDER BY created_at LIMIT $2;`
	return r.queryPayments(ctx, tx, q, olderThan, limit)
}

func (r *paymentRepo) UpdateStatusIfPending(ctx context.Context, tx repository.Tx, id string, status model.PaymentStatus, paidDate *time.Time) (bool, error) {
	const q = `UPDATE payments SET status=$2, paid_date=COALESCE($3, paid_date), updated_at=NOW() WHERE id=$1 AND status='PENDING';`
	tag, err := execSQL(ctx, r.pool, tx, q, id, status, paidDate)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return tag.RowsAffected() > 0, nil
}

func (r *paymentRepo) SumPaidSince(ctx context.Context, tx repository.Tx, orgID string, since time.Time) (int64, error) {
	const q = `SELECT COALESCE(SUM(amount),0) FROM payments WHERE organization_id=$1 AND status='PAID' AND paid_date >= $2;`
	row, err := pickRow(ctx, r.pool, tx, q, orgID, since)
	if err != nil {
		return 0, err
	}
	var sum int64
	if err := row.Scan(&sum); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return sum, nil
}

func (r *paymentRepo) queryPayments(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.Payment, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPayment(row pgx.Row) (*model.Payment, error) {
	p := &model.Payment{}
	err := row.Scan(&p.ID, &p.OrganizationID, &p.SubscriptionID, &p.StudentID, &p.Amount, &p.Currency, &p.PeriodKey, &p.DueDate, &p.PaidDate, &p.Status, &p.GatewayChargeID, &p.InvoiceURL, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}
