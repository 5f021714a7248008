// File: internal/usecase/insight_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"academy-platform/internal/domain"
	"academy-platform/internal/domain/ports/adapter"
	"academy-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ InsightUseCase = (*insightUC)(nil)

type InsightUseCase interface {
	// StudentSummary produces a short instructor-facing paragraph about the
	// student's training rhythm, generated from attendance facts.
	StudentSummary(ctx context.Context, studentID string) (string, error)
}

type insightUC struct {
	students   repository.StudentRepository
	badges     repository.BadgeRepository
	attendance AttendanceUseCase
	generator  adapter.InsightGenerator
	log        *zerolog.Logger
}

func NewInsightUseCase(
	students repository.StudentRepository,
	badges repository.BadgeRepository,
	attendance AttendanceUseCase,
	generator adapter.InsightGenerator,
	logger *zerolog.Logger,
) *insightUC {
	return &insightUC{students: students, badges: badges, attendance: attendance, generator: generator, log: logger}
}

func (uc *insightUC) StudentSummary(ctx context.Context, studentID string) (string, error) {
	if studentID == "" {
		return "", domain.ErrInvalidArgument
	}

	student, err := uc.students.FindByID(ctx, repository.NoTX, studentID)
	if err != nil {
		return "", err
	}
	stats, err := uc.attendance.Stats(ctx, studentID)
	if err != nil {
		return "", err
	}
	badges, err := uc.badges.ListByStudent(ctx, repository.NoTX, studentID)
	if err != nil {
		badges = nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Student: %s (belt: %s)\n", student.FullName(), student.BeltRank)
	fmt.Fprintf(&b, "Total classes attended: %d\n", stats.Total)
	fmt.Fprintf(&b, "Classes in last 30 days: %d\n", stats.Last30Days)
	fmt.Fprintf(&b, "Current weekly streak: %d weeks\n", stats.CurrentStreakWeek)
	fmt.Fprintf(&b, "Gamification points: %d\n", student.Points)
	if len(badges) > 0 {
		names := make([]string, 0, len(badges))
		for _, bd := range badges {
			names = append(names, bd.Name)
		}
		fmt.Fprintf(&b, "Badges: %s\n", strings.Join(names, ", "))
	}

	summary, err := uc.generator.Summarize(ctx, b.String())
	if err != nil {
		return "", fmt.Errorf("generate insight: %w", err)
	}
	uc.log.Debug().Str("student_id", studentID).Msg("insight generated")
	return summary, nil
}
