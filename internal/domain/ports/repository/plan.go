package repository

import (
	"context"

	"academy-platform/internal/domain/model"
)

type PlanRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Plan) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Plan, error)
	ListActive(ctx context.Context, tx Tx, orgID string) ([]*model.Plan, error)
	Deactivate(ctx context.Context, tx Tx, id string) error
}
