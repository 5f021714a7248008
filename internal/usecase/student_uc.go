// File: internal/usecase/student_uc.go
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
var _ StudentUseCase = (*studentUC)(nil)

// RegisterStudentInput is the front-desk registration form.
type RegisterStudentInput struct {
	FirstName string
	LastName  string
	Email     string
	Document  string // CPF, digits only
	Phone     string
	BeltRank  string
}

type StudentUseCase interface {
	Register(ctx context.Context, orgID string, in RegisterStudentInput) (*model.Student, error)
	Get(ctx context.Context, id string) (*model.Student, error)
	List(ctx context.Context, orgID string, offset, limit int) ([]*model.Student, error)
	Deactivate(ctx context.Context, id string) error
	Promote(ctx context.Context, id, beltRank string) error
}

type studentUC struct {
	students repository.StudentRepository
	log      *zerolog.Logger
}

func NewStudentUseCase(students repository.StudentRepository, logger *zerolog.Logger) *studentUC {
	return &studentUC{students: students, log: logger}
}

func (uc *studentUC) Register(ctx context.Context, orgID string, in RegisterStudentInput) (*model.Student, error) {
	if orgID == "" {
		return nil, domain.ErrInvalidArgument
	}

	// Email is the natural key within an academy.
	if in.Email != "" {
		if _, err := uc.students.FindByEmail(ctx, repository.NoTX, orgID, in.Email); err == nil {
			return nil, domain.ErrAlreadyExists
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	student, err := model.NewStudent(uuid.NewString(), orgID, in.FirstName, in.LastName, in.Email, in.Document)
	if err != nil {
		return nil, err
	}
	student.Phone = in.Phone
	student.BeltRank = in.BeltRank
	if err := uc.students.Save(ctx, repository.NoTX, student); err != nil {
		return nil, err
	}
	uc.log.Info().Str("student_id", student.ID).Msg("student registered")
	return student, nil
}

func (uc *studentUC) Get(ctx context.Context, id string) (*model.Student, error) {
	if id == "" {
		return nil, domain.ErrInvalidArgument
	}
	return uc.students.FindByID(ctx, repository.NoTX, id)
}

func (uc *studentUC) List(ctx context.Context, orgID string, offset, limit int) ([]*model.Student, error) {
	if orgID == "" {
		return nil, domain.ErrInvalidArgument
	}
	out, err := uc.students.List(ctx, repository.NoTX, orgID, offset, limit)
	if errors.Is(err, domain.ErrNotFound) {
		return []*model.Student{}, nil
	}
	return out, err
}

func (uc *studentUC) Deactivate(ctx context.Context, id string) error {
	student, err := uc.students.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return err
	}
	if !student.Active {
		return nil
	}
	student.Active = false
	if err := uc.students.Save(ctx, repository.NoTX, student); err != nil {
		return err
	}
	uc.log.Info().Str("student_id", id).Msg("student deactivated")
	return nil
}

func (uc *studentUC) Promote(ctx context.Context, id, beltRank string) error {
	if beltRank == "" {
		return domain.ErrInvalidArgument
	}
	student, err := uc.students.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return err
	}
	student.BeltRank = beltRank
	if err := uc.students.Save(ctx, repository.NoTX, student); err != nil {
		return err
	}
	uc.log.Info().Str("student_id", id).Str("belt", beltRank).Msg("student promoted")
	return nil
}
