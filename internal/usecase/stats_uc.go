// File: internal/usecase/stats_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"academy-platform/internal/domain"
	"academy-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

// Dashboard is the admin home-screen aggregate.
type Dashboard struct {
	ActiveStudents   int            `json:"active_students"`
	ActiveByPlan     map[string]int `json:"active_by_plan"`
	RevenueThisMonth int64          `json:"revenue_this_month"` // centavos, PAID payments since month start
	GeneratedAt      time.Time      `json:"generated_at"`
}

type StatsUseCase interface {
	Dashboard(ctx context.Context, orgID string) (*Dashboard, error)
}

type statsUC struct {
	students repository.StudentRepository
	subs     repository.SubscriptionRepository
	payments repository.PaymentRepository
	log      *zerolog.Logger
	now      func() time.Time
}

func NewStatsUseCase(
	students repository.StudentRepository,
	subs repository.SubscriptionRepository,
	payments repository.PaymentRepository,
	logger *zerolog.Logger,
	nowOpt ...func() time.Time,
) *statsUC {
	uc := &statsUC{students: students, subs: subs, payments: payments, log: logger, now: time.Now}
	if len(nowOpt) > 0 && nowOpt[0] != nil {
		uc.now = nowOpt[0]
	}
	return uc
}

func (uc *statsUC) Dashboard(ctx context.Context, orgID string) (*Dashboard, error) {
	if orgID == "" {
		return nil, domain.ErrInvalidArgument
	}

	active, err := uc.students.CountActive(ctx, repository.NoTX, orgID)
	if err != nil {
		return nil, err
	}
	byPlan, err := uc.subs.CountActiveByPlan(ctx, repository.NoTX, orgID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	revenue, err := uc.payments.SumPaidSince(ctx, repository.NoTX, orgID, monthStart)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		ActiveStudents:   active,
		ActiveByPlan:     byPlan,
		RevenueThisMonth: revenue,
		GeneratedAt:      now,
	}, nil
}
