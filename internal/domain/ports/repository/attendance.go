package repository

import (
	"context"
	"time"

	"academy-platform/internal/domain/model"
)

type AttendanceRepository interface {
	// Upsert is the single atomic conditional-write keyed by
	// (class_occurrence_id, student_id): insert when absent, otherwise update
	// recorded_at, method, status and position. It reports created=true only
	// for a first check-in, which drives gamification.
	Upsert(ctx context.Context, tx Tx, rec *model.AttendanceRecord) (created bool, err error)
	Find(ctx context.Context, tx Tx, occurrenceID, studentID string) (*model.AttendanceRecord, error)
	ListByOccurrence(ctx context.Context, tx Tx, occurrenceID string) ([]*model.AttendanceRecord, error)
	ListByStudent(ctx context.Context, tx Tx, studentID string, from, to time.Time) ([]*model.AttendanceRecord, error)
	CountByStudent(ctx context.Context, tx Tx, studentID string) (int, error)
}
