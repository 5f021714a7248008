package repository

import (
	"context"

	"academy-platform/internal/domain/model"
)

type StudentRepository interface {
	Save(ctx context.Context, tx Tx, s *model.Student) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Student, error)
	FindByEmail(ctx context.Context, tx Tx, orgID, email string) (*model.Student, error)
	List(ctx context.Context, tx Tx, orgID string, offset, limit int) ([]*model.Student, error)
	// SetGatewayCustomerID mirrors the provider customer id after first contact
	// with the gateway. Written in the same transaction as the charge when possible.
	SetGatewayCustomerID(ctx context.Context, tx Tx, studentID, customerID string) error
	AddPoints(ctx context.Context, tx Tx, studentID string, delta int) error
	CountActive(ctx context.Context, tx Tx, orgID string) (int, error)
}
