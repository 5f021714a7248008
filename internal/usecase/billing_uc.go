// File: internal/usecase/billing_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"academy-platform/internal/domain"
	"academy-platform/internal/domain/model"
	"academy-platform/internal/domain/ports/adapter"
	"academy-platform/internal/domain/ports/repository"
	"academy-platform/internal/infra/metrics"
)

// Compile-time check
var _ BillingUseCase = (*billingUC)(nil)

// Locker is the distributed mutual-exclusion primitive the engine holds per
// subscription across the gateway call. The redis implementation satisfies it.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

// BillingError is one per-subscription failure collected during a run.
type BillingError struct {
	SubscriptionID string `json:"subscription_id"`
	Reason         string `json:"reason"`
	Retryable      bool   `json:"retryable"`
}

// BillingResult aggregates one GenerateCharges run. Failures never abort the
// run; the caller decides whether Failed > 0 warrants an alert.
type BillingResult struct {
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Skipped   int            `json:"skipped"`
	Errors    []BillingError `json:"errors,omitempty"`
}

type BillingUseCase interface {
	// GenerateCharges walks ACTIVE subscriptions due within lookaheadDays and
	// creates one gateway charge + local Payment per billing period.
	GenerateCharges(ctx context.Context, orgID string, lookaheadDays int) (*BillingResult, error)
}

type billingUC struct {
	subs     repository.SubscriptionRepository
	payments repository.PaymentRepository
	students repository.StudentRepository
	gateway  adapter.PaymentGateway
	locker   Locker
	txm      repository.TransactionManager
	log      *zerolog.Logger

	gatewayTimeout time.Duration
	lockTTL        time.Duration
	now            func() time.Time
}

// NewBillingUseCase constructs the engine. The trailing option injects a
// clock for tests; production callers omit it.
func NewBillingUseCase(
	subs repository.SubscriptionRepository,
	payments repository.PaymentRepository,
	students repository.StudentRepository,
	gateway adapter.PaymentGateway,
	locker Locker,
	txm repository.TransactionManager,
	logger *zerolog.Logger,
	nowOpt ...func() time.Time,
) *billingUC {
	uc := &billingUC{
		subs:           subs,
		payments:       payments,
		students:       students,
		gateway:        gateway,
		locker:         locker,
		txm:            txm,
		log:            logger,
		gatewayTimeout: 10 * time.Second,
		lockTTL:        30 * time.Second,
		now:            time.Now,
	}
	if len(nowOpt) > 0 && nowOpt[0] != nil {
		uc.now = nowOpt[0]
	}
	return uc
}

// ChargeReference is the external reference attached to gateway charges so a
// reconciliation pass can match provider history against local Payment rows.
func ChargeReference(subscriptionID, periodKey string) string {
	return fmt.Sprintf("sub:%s:%s", subscriptionID, periodKey)
}

func (uc *billingUC) GenerateCharges(ctx context.Context, orgID string, lookaheadDays int) (*BillingResult, error) {
	if orgID == "" || lookaheadDays < 0 {
		return nil, domain.ErrInvalidArgument
	}

	cutoff := uc.now().AddDate(0, 0, lookaheadDays)
	due, err := uc.subs.FindDue(ctx, repository.NoTX, orgID, cutoff)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &BillingResult{}, nil
		}
		return nil, err
	}

	res := &BillingResult{}
	for _, sub := range due {
		uc.chargeOne(ctx, sub, res)
	}

	metrics.IncBillingRun(res.Succeeded, res.Failed, res.Skipped)
	uc.log.Info().
		Int("due", len(due)).
		Int("succeeded", res.Succeeded).
		Int("failed", res.Failed).
		Int("skipped", res.Skipped).
		Msg("billing run finished")
	return res, nil
}

// chargeOne processes a single subscription. All failures are collected into
// res; one subscription must never abort the others.
func (uc *billingUC) chargeOne(ctx context.Context, sub *model.Subscription, res *BillingResult) {
	periodKey := sub.PeriodKey()
	log := uc.log.With().Str("subscription_id", sub.ID).Str("period", periodKey).Logger()

	// Idempotent fast path: this period is already charged.
	if existing, err := uc.payments.FindBySubscriptionAndPeriod(ctx, repository.NoTX, sub.ID, periodKey); err == nil && existing != nil {
		res.Skipped++
		return
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		res.Failed++
		res.Errors = append(res.Errors, BillingError{SubscriptionID: sub.ID, Reason: err.Error(), Retryable: true})
		return
	}

	// Per-subscription lock held across the gateway call. The unique
	// constraint on payments(subscription_id, period_key) is the durable
	// backstop; the lock just avoids paying the gateway round-trip twice.
	token, err := uc.locker.TryLock(ctx, "billing:sub:"+sub.ID, uc.lockTTL)
	if err != nil {
		// Another run owns this subscription right now; it stays due and the
		// next run picks it up if the owner fails.
		res.Skipped++
		log.Debug().Msg("subscription locked by concurrent run; skipping")
		return
	}
	defer func() { _ = uc.locker.Unlock(ctx, "billing:sub:"+sub.ID, token) }()

	student, err := uc.students.FindByID(ctx, repository.NoTX, sub.StudentID)
	if err != nil {
		res.Failed++
		res.Errors = append(res.Errors, BillingError{SubscriptionID: sub.ID, Reason: "student lookup: " + err.Error(), Retryable: true})
		return
	}
	if !student.Active {
		res.Skipped++
		return
	}

	customerID, err := uc.ensureGatewayCustomer(ctx, student)
	if err != nil {
		retryable := !errors.Is(err, domain.ErrMissingGatewayCustomer) && adapter.IsRetryable(err)
		res.Failed++
		res.Errors = append(res.Errors, BillingError{SubscriptionID: sub.ID, Reason: err.Error(), Retryable: retryable})
		log.Warn().Err(err).Bool("retryable", retryable).Msg("gateway customer resolution failed")
		return
	}

	gctx, cancel := context.WithTimeout(ctx, uc.gatewayTimeout)
	charge, err := uc.gateway.CreateCharge(gctx, adapter.ChargeRequest{
		CustomerID:        customerID,
		Amount:            sub.CurrentPrice,
		DueDate:           sub.NextBillingDate,
		Description:       fmt.Sprintf("Mensalidade %s", periodKey),
		ExternalReference: ChargeReference(sub.ID, periodKey),
	})
	cancel()
	if err != nil {
		// NextBillingDate stays put so the next run retries the same period.
		res.Failed++
		res.Errors = append(res.Errors, BillingError{SubscriptionID: sub.ID, Reason: err.Error(), Retryable: adapter.IsRetryable(err)})
		metrics.IncChargeFailure(adapter.IsRetryable(err))
		log.Error().Err(err).Msg("gateway charge creation failed")
		return
	}

	now := uc.now()
	payment := &model.Payment{
		ID:              uuid.NewString(),
		OrganizationID:  sub.OrganizationID,
		SubscriptionID:  sub.ID,
		StudentID:       sub.StudentID,
		Amount:          sub.CurrentPrice,
		Currency:        "BRL",
		PeriodKey:       periodKey,
		DueDate:         sub.NextBillingDate,
		Status:          model.PaymentStatusPending,
		GatewayChargeID: charge.ID,
		InvoiceURL:      charge.InvoiceURL,
		Description:     fmt.Sprintf("Mensalidade %s", periodKey),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = uc.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := uc.payments.CreateIfAbsent(ctx, tx, payment); err != nil {
			return err
		}
		sub.AdvanceBillingDate()
		return uc.subs.Save(ctx, tx, sub)
	})
	if errors.Is(err, domain.ErrConflict) {
		// A concurrent run won the race after our gateway call; void our
		// duplicate provider charge and treat the period as handled.
		if cerr := uc.gateway.CancelCharge(ctx, charge.ID); cerr != nil {
			log.Error().Err(cerr).Str("charge_id", charge.ID).Msg("failed to cancel duplicate gateway charge")
		}
		res.Skipped++
		return
	}
	if err != nil {
		// Gateway charge exists but the local row does not: the phantom-charge
		// gap. The reconciler backfills from provider history by reference.
		res.Failed++
		res.Errors = append(res.Errors, BillingError{SubscriptionID: sub.ID, Reason: "persist payment: " + err.Error(), Retryable: true})
		log.Error().Err(err).Str("charge_id", charge.ID).Msg("charge created at gateway but local persistence failed")
		return
	}

	res.Succeeded++
	metrics.IncChargeCreated()
	log.Info().Str("payment_id", payment.ID).Str("charge_id", charge.ID).Msg("charge generated")
}

// ensureGatewayCustomer resolves (or lazily creates) the provider customer id
// for a student. A student without the data the provider requires is a
// configuration error, fatal for this subscription but not for the run.
func (uc *billingUC) ensureGatewayCustomer(ctx context.Context, student *model.Student) (string, error) {
	if student.GatewayCustomerID != "" {
		return student.GatewayCustomerID, nil
	}
	if student.Email == "" || student.Document == "" {
		return "", fmt.Errorf("%w: student %s lacks email or document", domain.ErrMissingGatewayCustomer, student.ID)
	}

	gctx, cancel := context.WithTimeout(ctx, uc.gatewayTimeout)
	defer cancel()
	customerID, err := uc.gateway.CreateCustomer(gctx, adapter.CustomerInfo{
		Name:     student.FullName(),
		Document: student.Document,
		Email:    student.Email,
	})
	if err != nil {
		return "", err
	}

	// Mirror the id locally. A failure here is logged, not fatal: the charge
	// can proceed and the mirror is repaired on the next run.
	if err := uc.students.SetGatewayCustomerID(ctx, repository.NoTX, student.ID, customerID); err != nil {
		uc.log.Error().Err(err).Str("student_id", student.ID).Msg("failed to mirror gateway customer id")
	}
	student.GatewayCustomerID = customerID
	return customerID, nil
}
