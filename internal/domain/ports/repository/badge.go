package repository

import (
	"context"

	"academy-platform/internal/domain/model"
)

type BadgeRepository interface {
	// Award inserts the badge; returns domain.ErrConflict when the student
	// already holds a badge with the same code.
	Award(ctx context.Context, tx Tx, b *model.Badge) error
	ListByStudent(ctx context.Context, tx Tx, studentID string) ([]*model.Badge, error)
}
