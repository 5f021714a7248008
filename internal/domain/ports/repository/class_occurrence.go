package repository

import (
	"context"
	"time"

	"academy-platform/internal/domain/model"
)

type ClassOccurrenceRepository interface {
	Save(ctx context.Context, tx Tx, c *model.ClassOccurrence) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.ClassOccurrence, error)
	ListBetween(ctx context.Context, tx Tx, orgID string, from, to time.Time) ([]*model.ClassOccurrence, error)
	EnrollStudent(ctx context.Context, tx Tx, occurrenceID, studentID string) error
	UnenrollStudent(ctx context.Context, tx Tx, occurrenceID, studentID string) error
}
