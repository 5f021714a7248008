// File: internal/usecase/plan_uc.go
package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"academy-platform/internal/domain"
	"academy-platform/internal/domain/model"
	"academy-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ PlanUseCase = (*planUC)(nil)

type PlanUseCase interface {
	Create(ctx context.Context, orgID, name, description string, price int64, billingType string) (*model.Plan, error)
	Get(ctx context.Context, id string) (*model.Plan, error)
	ListActive(ctx context.Context, orgID string) ([]*model.Plan, error)
	Deactivate(ctx context.Context, id string) error
}

type planUC struct {
	plans repository.PlanRepository
	log   *zerolog.Logger
}

func NewPlanUseCase(plans repository.PlanRepository, logger *zerolog.Logger) *planUC {
	return &planUC{plans: plans, log: logger}
}

func (uc *planUC) Create(ctx context.Context, orgID, name, description string, price int64, billingType string) (*model.Plan, error) {
	plan, err := model.NewPlan(uuid.NewString(), orgID, name, price, model.BillingType(billingType))
	if err != nil {
		return nil, err
	}
	plan.Description = description
	if err := uc.plans.Save(ctx, repository.NoTX, plan); err != nil {
		return nil, err
	}
	uc.log.Info().Str("plan_id", plan.ID).Str("name", name).Msg("plan created")
	return plan, nil
}

func (uc *planUC) Get(ctx context.Context, id string) (*model.Plan, error) {
	if id == "" {
		return nil, domain.ErrInvalidArgument
	}
	return uc.plans.FindByID(ctx, repository.NoTX, id)
}

func (uc *planUC) ListActive(ctx context.Context, orgID string) ([]*model.Plan, error) {
	if orgID == "" {
		return nil, domain.ErrInvalidArgument
	}
	out, err := uc.plans.ListActive(ctx, repository.NoTX, orgID)
	if errors.Is(err, domain.ErrNotFound) {
		return []*model.Plan{}, nil
	}
	return out, err
}

func (uc *planUC) Deactivate(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidArgument
	}
	return uc.plans.Deactivate(ctx, repository.NoTX, id)
}
