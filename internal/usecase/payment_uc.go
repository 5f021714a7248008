// File: internal/usecase/payment_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"academy-platform/internal/domain"
	"academy-platform/internal/domain/model"
	"academy-platform/internal/domain/ports/adapter"
	"academy-platform/internal/domain/ports/repository"
	"academy-platform/internal/infra/metrics"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

// MapGatewayStatus translates a provider payment status to the local one.
// Unknown statuses map to PENDING so the reconciler looks again later.
func MapGatewayStatus(providerStatus string) model.PaymentStatus {
	switch providerStatus {
	case "RECEIVED", "CONFIRMED", "RECEIVED_IN_CASH":
		return model.PaymentStatusPaid
	case "REFUNDED", "REFUND_REQUESTED":
		return model.PaymentStatusRefunded
	case "CHARGEBACK_REQUESTED", "CHARGEBACK_DISPUTE", "AWAITING_CHARGEBACK_REVERSAL":
		return model.PaymentStatusFailed
	case "DELETED", "CANCELED":
		return model.PaymentStatusCanceled
	default:
		return model.PaymentStatusPending
	}
}

type PaymentUseCase interface {
	Get(ctx context.Context, id string) (*model.Payment, error)
	ListByStudent(ctx context.Context, studentID string, offset, limit int) ([]*model.Payment, error)

	// HandleGatewayEvent applies a webhook notification from the provider.
	// Events for unknown charges and replays of already-settled payments are
	// acknowledged silently.
	HandleGatewayEvent(ctx context.Context, charge adapter.Charge) error

	// SyncStalePending polls the provider for PENDING payments older than
	// olderThan and finalizes those that settled without a webhook landing.
	SyncStalePending(ctx context.Context, olderThan time.Duration, limit int) (int, error)

	// BackfillPhantoms repairs the crash window between gateway charge
	// creation and local persistence: for each due subscription with no local
	// payment for its period, it asks the provider for charges carrying the
	// period reference and recreates the missing row instead of re-charging.
	BackfillPhantoms(ctx context.Context, orgID string, lookaheadDays int) (int, error)
}

type paymentUC struct {
	payments   repository.PaymentRepository
	subs       repository.SubscriptionRepository
	students   repository.StudentRepository
	gateway    adapter.PaymentGateway
	notifier   adapter.Notifier
	translator Translator
	log        *zerolog.Logger
	now        func() time.Time
}

func NewPaymentUseCase(
	payments repository.PaymentRepository,
	subs repository.SubscriptionRepository,
	students repository.StudentRepository,
	gateway adapter.PaymentGateway,
	notifier adapter.Notifier,
	translator Translator,
	logger *zerolog.Logger,
	nowOpt ...func() time.Time,
) *paymentUC {
	uc := &paymentUC{
		payments:   payments,
		subs:       subs,
		students:   students,
		gateway:    gateway,
		notifier:   notifier,
		translator: translator,
		log:        logger,
		now:        time.Now,
	}
	if len(nowOpt) > 0 && nowOpt[0] != nil {
		uc.now = nowOpt[0]
	}
	return uc
}

func (uc *paymentUC) Get(ctx context.Context, id string) (*model.Payment, error) {
	if id == "" {
		return nil, domain.ErrInvalidArgument
	}
	return uc.payments.FindByID(ctx, repository.NoTX, id)
}

func (uc *paymentUC) ListByStudent(ctx context.Context, studentID string, offset, limit int) ([]*model.Payment, error) {
	if studentID == "" {
		return nil, domain.ErrInvalidArgument
	}
	out, err := uc.payments.ListByStudent(ctx, repository.NoTX, studentID, offset, limit)
	if errors.Is(err, domain.ErrNotFound) {
		return []*model.Payment{}, nil
	}
	return out, err
}

func (uc *paymentUC) HandleGatewayEvent(ctx context.Context, charge adapter.Charge) error {
	payment, err := uc.payments.FindByGatewayChargeID(ctx, repository.NoTX, charge.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Charge we never issued (or backfill has not run yet). Ack so the
			// provider stops retrying; the reconciler covers the gap.
			uc.log.Warn().Str("charge_id", charge.ID).Msg("webhook for unknown charge ignored")
			return nil
		}
		return err
	}
	return uc.applyProviderState(ctx, payment, charge)
}

func (uc *paymentUC) SyncStalePending(ctx context.Context, olderThan time.Duration, limit int) (int, error) {
	cutoff := uc.now().Add(-olderThan)
	pending, err := uc.payments.ListPendingOlderThan(ctx, repository.NoTX, cutoff, limit)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	finalized := 0
	for _, p := range pending {
		if p.GatewayChargeID == "" {
			continue
		}
		charge, err := uc.gateway.GetCharge(ctx, p.GatewayChargeID)
		if err != nil {
			uc.log.Warn().Err(err).Str("payment_id", p.ID).Msg("charge poll failed")
			continue
		}
		if MapGatewayStatus(charge.Status) == model.PaymentStatusPending {
			continue
		}
		if err := uc.applyProviderState(ctx, p, charge); err != nil {
			uc.log.Error().Err(err).Str("payment_id", p.ID).Msg("failed to finalize stale payment")
			continue
		}
		finalized++
	}
	return finalized, nil
}

func (uc *paymentUC) BackfillPhantoms(ctx context.Context, orgID string, lookaheadDays int) (int, error) {
	if orgID == "" || lookaheadDays < 0 {
		return 0, domain.ErrInvalidArgument
	}
	cutoff := uc.now().AddDate(0, 0, lookaheadDays)
	due, err := uc.subs.FindDue(ctx, repository.NoTX, orgID, cutoff)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	backfilled := 0
	for _, sub := range due {
		periodKey := sub.PeriodKey()
		if _, err := uc.payments.FindBySubscriptionAndPeriod(ctx, repository.NoTX, sub.ID, periodKey); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			uc.log.Warn().Err(err).Str("subscription_id", sub.ID).Msg("backfill lookup failed")
			continue
		}

		charges, err := uc.gateway.ListChargesByReference(ctx, ChargeReference(sub.ID, periodKey))
		if err != nil || len(charges) == 0 {
			continue
		}
		charge := charges[0]

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
		if err := uc.payments.CreateIfAbsent(ctx, repository.NoTX, payment); err != nil {
			if !errors.Is(err, domain.ErrConflict) {
				uc.log.Error().Err(err).Str("subscription_id", sub.ID).Msg("backfill insert failed")
			}
			continue
		}

		// The crash also left NextBillingDate unadvanced; move it so the next
		// billing run does not re-charge the period we just recovered.
		sub.AdvanceBillingDate()
		if err := uc.subs.Save(ctx, repository.NoTX, sub); err != nil {
			uc.log.Error().Err(err).Str("subscription_id", sub.ID).Msg("backfill advance failed")
		}

		if st := MapGatewayStatus(charge.Status); st != model.PaymentStatusPending {
			payment.Status = st
			if err := uc.applyProviderState(ctx, payment, charge); err != nil {
				uc.log.Error().Err(err).Str("payment_id", payment.ID).Msg("backfill finalize failed")
			}
		}

		metrics.IncPhantomBackfill()
		uc.log.Warn().
			Str("subscription_id", sub.ID).
			Str("period", periodKey).
			Str("charge_id", charge.ID).
			Msg("phantom gateway charge backfilled")
		backfilled++
	}
	return backfilled, nil
}

// applyProviderState flips the local row per the provider status. The guarded
// update means replays and out-of-order webhooks cannot regress a settled row.
func (uc *paymentUC) applyProviderState(ctx context.Context, payment *model.Payment, charge adapter.Charge) error {
	status := MapGatewayStatus(charge.Status)
	if status == model.PaymentStatusPending {
		return nil
	}

	var paidDate *time.Time
	if status == model.PaymentStatusPaid {
		if charge.PaidAt != nil {
			paidDate = charge.PaidAt
		} else {
			now := uc.now()
			paidDate = &now
		}
	}

	updated, err := uc.payments.UpdateStatusIfPending(ctx, repository.NoTX, payment.ID, status, paidDate)
	if err != nil {
		return err
	}
	if !updated {
		return nil
	}

	metrics.IncPaymentStatus(string(status))
	uc.log.Info().
		Str("payment_id", payment.ID).
		Str("status", string(status)).
		Msg("payment settled")

	if status == model.PaymentStatusPaid {
		uc.notifyPaid(ctx, payment)
	}
	return nil
}

// notifyPaid emails the payment confirmation. Best-effort.
func (uc *paymentUC) notifyPaid(ctx context.Context, payment *model.Payment) {
	if uc.notifier == nil {
		return
	}
	student, err := uc.students.FindByID(ctx, repository.NoTX, payment.StudentID)
	if err != nil || student.Email == "" {
		return
	}
	subject := "Pagamento confirmado"
	body := payment.Description
	if uc.translator != nil {
		subject = uc.translator.T("payment.paid.subject")
		body = uc.translator.T("payment.paid.body", student.FirstName, payment.PeriodKey, float64(payment.Amount)/100)
	}
	if err := uc.notifier.Send(ctx, adapter.Notification{To: student.Email, Subject: subject, Body: body}); err != nil {
		uc.log.Warn().Err(err).Str("payment_id", payment.ID).Msg("payment notification failed")
	}
}
