// File: internal/usecase/schedule_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"academy-platform/internal/domain"
	"academy-platform/internal/domain/model"
	"academy-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ ScheduleUseCase = (*scheduleUC)(nil)

// ScheduleOccurrenceInput describes one class slot on the academy calendar.
type ScheduleOccurrenceInput struct {
	CourseID     string
	InstructorID string
	Type         string // COLLECTIVE | PRIVATE
	StartTime    time.Time
	EndTime      time.Time
	MaxStudents  int
}

type ScheduleUseCase interface {
	ScheduleOccurrence(ctx context.Context, orgID string, in ScheduleOccurrenceInput) (*model.ClassOccurrence, error)
	Get(ctx context.Context, id string) (*model.ClassOccurrence, error)
	ListBetween(ctx context.Context, orgID string, from, to time.Time) ([]*model.ClassOccurrence, error)
	Enroll(ctx context.Context, occurrenceID, studentID string) error
	Unenroll(ctx context.Context, occurrenceID, studentID string) error
}

type scheduleUC struct {
	occurrences repository.ClassOccurrenceRepository
	students    repository.StudentRepository
	log         *zerolog.Logger
}

func NewScheduleUseCase(
	occurrences repository.ClassOccurrenceRepository,
	students repository.StudentRepository,
	logger *zerolog.Logger,
) *scheduleUC {
	return &scheduleUC{occurrences: occurrences, students: students, log: logger}
}

func (uc *scheduleUC) ScheduleOccurrence(ctx context.Context, orgID string, in ScheduleOccurrenceInput) (*model.ClassOccurrence, error) {
	occ, err := model.NewClassOccurrence(uuid.NewString(), orgID, in.CourseID, in.InstructorID, model.ClassType(in.Type), in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}
	occ.MaxStudents = in.MaxStudents
	if err := uc.occurrences.Save(ctx, repository.NoTX, occ); err != nil {
		return nil, err
	}
	uc.log.Info().Str("occurrence_id", occ.ID).Str("type", in.Type).Time("start", in.StartTime).Msg("class scheduled")
	return occ, nil
}

func (uc *scheduleUC) Get(ctx context.Context, id string) (*model.ClassOccurrence, error) {
	if id == "" {
		return nil, domain.ErrInvalidArgument
	}
	return uc.occurrences.FindByID(ctx, repository.NoTX, id)
}

func (uc *scheduleUC) ListBetween(ctx context.Context, orgID string, from, to time.Time) ([]*model.ClassOccurrence, error) {
	if orgID == "" || to.Before(from) {
		return nil, domain.ErrInvalidArgument
	}
	out, err := uc.occurrences.ListBetween(ctx, repository.NoTX, orgID, from, to)
	if errors.Is(err, domain.ErrNotFound) {
		return []*model.ClassOccurrence{}, nil
	}
	return out, err
}

func (uc *scheduleUC) Enroll(ctx context.Context, occurrenceID, studentID string) error {
	if occurrenceID == "" || studentID == "" {
		return domain.ErrInvalidArgument
	}

	occ, err := uc.occurrences.FindByID(ctx, repository.NoTX, occurrenceID)
	if err != nil {
		return err
	}
	if occ.IsEnrolled(studentID) {
		return nil
	}
	if occ.MaxStudents > 0 && len(occ.EnrolledStudentIDs) >= occ.MaxStudents {
		return domain.ErrConflict
	}

	student, err := uc.students.FindByID(ctx, repository.NoTX, studentID)
	if err != nil {
		return err
	}
	if !student.Active {
		return domain.ErrStudentInactive
	}

	return uc.occurrences.EnrollStudent(ctx, repository.NoTX, occurrenceID, studentID)
}

func (uc *scheduleUC) Unenroll(ctx context.Context, occurrenceID, studentID string) error {
	if occurrenceID == "" || studentID == "" {
		return domain.ErrInvalidArgument
	}
	return uc.occurrences.UnenrollStudent(ctx, repository.NoTX, occurrenceID, studentID)
}
