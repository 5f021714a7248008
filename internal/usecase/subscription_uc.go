// File: internal/usecase/subscription_uc.go
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
	"academy-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ SubscriptionUseCase = (*subscriptionUC)(nil)

type SubscriptionUseCase interface {
	// Enroll creates an ACTIVE subscription for the student on the plan, with
	// the first charge due at firstBillingDate (zero value means today).
	Enroll(ctx context.Context, orgID, studentID, planID string, firstBillingDate time.Time) (*model.Subscription, error)
	Get(ctx context.Context, id string) (*model.Subscription, error)
	ListByStudent(ctx context.Context, studentID string) ([]*model.Subscription, error)
	Cancel(ctx context.Context, id string) error
	// ScheduleEnd sets the date after which the expiry worker flips the
	// subscription to EXPIRED.
	ScheduleEnd(ctx context.Context, id string, at time.Time) error
	// FinishExpired transitions ACTIVE subscriptions past their end date to
	// EXPIRED. Called periodically by the expiry worker.
	FinishExpired(ctx context.Context) (int, error)
}

type subscriptionUC struct {
	subs     repository.SubscriptionRepository
	students repository.StudentRepository
	plans    repository.PlanRepository
	log      *zerolog.Logger
	now      func() time.Time
}

func NewSubscriptionUseCase(
	subs repository.SubscriptionRepository,
	students repository.StudentRepository,
	plans repository.PlanRepository,
	logger *zerolog.Logger,
	nowOpt ...func() time.Time,
) *subscriptionUC {
	uc := &subscriptionUC{subs: subs, students: students, plans: plans, log: logger, now: time.Now}
	if len(nowOpt) > 0 && nowOpt[0] != nil {
		uc.now = nowOpt[0]
	}
	return uc
}

func (uc *subscriptionUC) Enroll(ctx context.Context, orgID, studentID, planID string, firstBillingDate time.Time) (*model.Subscription, error) {
	if orgID == "" || studentID == "" || planID == "" {
		return nil, domain.ErrInvalidArgument
	}

	student, err := uc.students.FindByID(ctx, repository.NoTX, studentID)
	if err != nil {
		return nil, err
	}
	if !student.Active {
		return nil, domain.ErrStudentInactive
	}

	plan, err := uc.plans.FindByID(ctx, repository.NoTX, planID)
	if err != nil {
		return nil, err
	}
	if !plan.Active {
		return nil, fmt.Errorf("%w: plan %s is inactive", domain.ErrInvalidArgument, planID)
	}

	// One active subscription per (student, plan); parallel plans for other
	// courses are fine.
	active, err := uc.subs.FindActiveByStudent(ctx, repository.NoTX, studentID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	for _, s := range active {
		if s.PlanID == planID {
			return nil, domain.ErrAlreadyExists
		}
	}

	if firstBillingDate.IsZero() {
		firstBillingDate = uc.now()
	}
	sub, err := model.NewSubscription(uuid.NewString(), orgID, studentID, plan, firstBillingDate)
	if err != nil {
		return nil, err
	}
	if err := uc.subs.Save(ctx, repository.NoTX, sub); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("subscription_id", sub.ID).
		Str("student_id", studentID).
		Str("plan_id", planID).
		Msg("student enrolled")
	return sub, nil
}

func (uc *subscriptionUC) Get(ctx context.Context, id string) (*model.Subscription, error) {
	if id == "" {
		return nil, domain.ErrInvalidArgument
	}
	return uc.subs.FindByID(ctx, repository.NoTX, id)
}

func (uc *subscriptionUC) ListByStudent(ctx context.Context, studentID string) ([]*model.Subscription, error) {
	if studentID == "" {
		return nil, domain.ErrInvalidArgument
	}
	out, err := uc.subs.ListByStudent(ctx, repository.NoTX, studentID)
	if errors.Is(err, domain.ErrNotFound) {
		return []*model.Subscription{}, nil
	}
	return out, err
}

func (uc *subscriptionUC) Cancel(ctx context.Context, id string) error {
	sub, err := uc.subs.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return err
	}
	if err := sub.Cancel(); err != nil {
		return err
	}
	if err := uc.subs.Save(ctx, repository.NoTX, sub); err != nil {
		return err
	}
	uc.log.Info().Str("subscription_id", id).Msg("subscription canceled")
	return nil
}

func (uc *subscriptionUC) ScheduleEnd(ctx context.Context, id string, at time.Time) error {
	if at.Before(uc.now()) {
		return domain.ErrInvalidArgument
	}
	sub, err := uc.subs.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return err
	}
	if sub.Status != model.SubscriptionStatusActive {
		return domain.ErrTerminalStatus
	}
	sub.EndDate = &at
	sub.UpdatedAt = uc.now()
	return uc.subs.Save(ctx, repository.NoTX, sub)
}

func (uc *subscriptionUC) FinishExpired(ctx context.Context) (int, error) {
	expiring, err := uc.subs.FindExpiring(ctx, repository.NoTX, uc.now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	finished := 0
	for _, sub := range expiring {
		if err := sub.Expire(); err != nil {
			continue
		}
		if err := uc.subs.Save(ctx, repository.NoTX, sub); err != nil {
			uc.log.Error().Err(err).Str("subscription_id", sub.ID).Msg("failed to expire subscription")
			continue
		}
		finished++
	}
	if finished > 0 {
		uc.log.Info().Int("count", finished).Msg("subscriptions expired")
	}
	return finished, nil
}
