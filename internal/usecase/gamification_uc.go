// File: internal/usecase/gamification_uc.go
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
	"academy-platform/internal/domain/ports/adapter"
	"academy-platform/internal/domain/ports/repository"
	"academy-platform/internal/infra/metrics"
)

// Compile-time check
var _ GamificationUseCase = (*gamificationUC)(nil)

// PointsPerCheckIn is awarded once per (occurrence, student) pair.
const PointsPerCheckIn = 10

// Translator resolves a message key to localized text. The i18n package
// implements it; a nil translator falls back to the key itself.
type Translator interface {
	T(key string, args ...any) string
}

type GamificationUseCase interface {
	// OnCheckIn awards points for a first check-in and grants any attendance
	// milestone badge the student just crossed.
	OnCheckIn(ctx context.Context, orgID, studentID string) error
	Badges(ctx context.Context, studentID string) ([]*model.Badge, error)
}

type gamificationUC struct {
	students   repository.StudentRepository
	attendance repository.AttendanceRepository
	badges     repository.BadgeRepository
	notifier   adapter.Notifier
	translator Translator
	log        *zerolog.Logger
	now        func() time.Time
}

func NewGamificationUseCase(
	students repository.StudentRepository,
	attendance repository.AttendanceRepository,
	badges repository.BadgeRepository,
	notifier adapter.Notifier,
	translator Translator,
	logger *zerolog.Logger,
	nowOpt ...func() time.Time,
) *gamificationUC {
	uc := &gamificationUC{
		students:   students,
		attendance: attendance,
		badges:     badges,
		notifier:   notifier,
		translator: translator,
		log:        logger,
		now:        time.Now,
	}
	if len(nowOpt) > 0 && nowOpt[0] != nil {
		uc.now = nowOpt[0]
	}
	return uc
}

func (uc *gamificationUC) OnCheckIn(ctx context.Context, orgID, studentID string) error {
	if err := uc.students.AddPoints(ctx, repository.NoTX, studentID, PointsPerCheckIn); err != nil {
		return fmt.Errorf("add points: %w", err)
	}

	count, err := uc.attendance.CountByStudent(ctx, repository.NoTX, studentID)
	if err != nil {
		return fmt.Errorf("count attendance: %w", err)
	}

	for _, m := range model.AttendanceMilestones {
		if count != m.Count {
			continue
		}
		badge := &model.Badge{
			ID:        uuid.NewString(),
			StudentID: studentID,
			Code:      m.Code,
			Name:      m.Name,
			AwardedAt: uc.now(),
		}
		if err := uc.badges.Award(ctx, repository.NoTX, badge); err != nil {
			// Conflict means a concurrent check-in already granted it.
			if errors.Is(err, domain.ErrConflict) {
				return nil
			}
			return fmt.Errorf("award badge %s: %w", m.Code, err)
		}
		metrics.IncBadgeAwarded(m.Code)
		uc.log.Info().Str("student_id", studentID).Str("badge", m.Code).Msg("milestone badge awarded")
		uc.congratulate(ctx, studentID, badge, m.Count)
	}
	return nil
}

func (uc *gamificationUC) Badges(ctx context.Context, studentID string) ([]*model.Badge, error) {
	if studentID == "" {
		return nil, domain.ErrInvalidArgument
	}
	out, err := uc.badges.ListByStudent(ctx, repository.NoTX, studentID)
	if errors.Is(err, domain.ErrNotFound) {
		return []*model.Badge{}, nil
	}
	return out, err
}

// congratulate emails the student about the new badge. Best-effort.
func (uc *gamificationUC) congratulate(ctx context.Context, studentID string, badge *model.Badge, count int) {
	if uc.notifier == nil {
		return
	}
	student, err := uc.students.FindByID(ctx, repository.NoTX, studentID)
	if err != nil || student.Email == "" {
		return
	}
	subject := badge.Name
	body := fmt.Sprintf("%s: %d", badge.Code, count)
	if uc.translator != nil {
		subject = uc.translator.T("badge.subject", badge.Name)
		body = uc.translator.T("badge.body", student.FirstName, badge.Name, count)
	}
	if err := uc.notifier.Send(ctx, adapter.Notification{To: student.Email, Subject: subject, Body: body}); err != nil {
		uc.log.Warn().Err(err).Str("student_id", studentID).Msg("badge notification failed")
	}
}
