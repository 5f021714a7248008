//go:build !integration

package usecase_test

import (
	"context"
	"testing"
	"time"

	"academy-platform/internal/domain"
	"academy-platform/internal/domain/model"
	"academy-platform/internal/domain/ports/repository"
	"academy-platform/internal/usecase"
)

func TestGamificationUseCase_OnCheckIn(t *testing.T) {
	ctx := context.Background()
	testLogger := newTestLogger()
	fixedNow := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return fixedNow }

	seed := func(attCount int) (*MockStudentRepo, *MockAttendanceRepo, *MockBadgeRepo, *MockNotifier) {
		students := NewMockStudentRepo()
		attendance := NewMockAttendanceRepo()
		badges := NewMockBadgeRepo()
		notifier := &MockNotifier{}
		students.Save(ctx, nil, &model.Student{
			ID:             "student-1",
			OrganizationID: testOrg,
			FirstName:      "Dani",
			Email:          "dani@example.com",
			Active:         true,
		})
		for i := 0; i < attCount; i++ {
			attendance.Upsert(ctx, nil, &model.AttendanceRecord{
				ID:                "rec",
				ClassOccurrenceID: "occ-" + string(rune('a'+i%26)) + string(rune('a'+i/26)),
				StudentID:         "student-1",
				RecordedAt:        fixedNow,
			})
		}
		return students, attendance, badges, notifier
	}

	t.Run("awards points on every first check-in", func(t *testing.T) {
		students, attendance, badges, notifier := seed(3)
		uc := usecase.NewGamificationUseCase(students, attendance, badges, notifier, staticTranslator{}, testLogger, clock)

		if err := uc.OnCheckIn(ctx, testOrg, "student-1"); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		student, _ := students.FindByID(ctx, nil, "student-1")
		if student.Points != usecase.PointsPerCheckIn {
			t.Errorf("expected %d points, got %d", usecase.PointsPerCheckIn, student.Points)
		}
	})

	t.Run("grants the milestone badge exactly at the threshold", func(t *testing.T) {
		students, attendance, badges, notifier := seed(10)
		uc := usecase.NewGamificationUseCase(students, attendance, badges, notifier, staticTranslator{}, testLogger, clock)

		if err := uc.OnCheckIn(ctx, testOrg, "student-1"); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		got, _ := badges.ListByStudent(ctx, nil, "student-1")
		if len(got) != 1 || got[0].Code != "ATTEND_10" {
			t.Fatalf("expected ATTEND_10 badge, got %+v", got)
		}
		if len(notifier.Sent) != 1 {
			t.Errorf("expected one congratulation email, got %d", len(notifier.Sent))
		}
	})

	t.Run("no badge off the threshold", func(t *testing.T) {
		students, attendance, badges, notifier := seed(11)
		uc := usecase.NewGamificationUseCase(students, attendance, badges, notifier, staticTranslator{}, testLogger, clock)

		if err := uc.OnCheckIn(ctx, testOrg, "student-1"); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if got, _ := badges.ListByStudent(ctx, nil, "student-1"); len(got) != 0 {
			t.Errorf("expected no badge at count 11, got %+v", got)
		}
	})

	t.Run("tolerates a concurrent award of the same badge", func(t *testing.T) {
		students, attendance, badges, notifier := seed(10)
		badges.AwardFunc = func(ctx context.Context, tx repository.Tx, b *model.Badge) error {
			return domain.ErrConflict
		}
		uc := usecase.NewGamificationUseCase(students, attendance, badges, notifier, staticTranslator{}, testLogger, clock)

		if err := uc.OnCheckIn(ctx, testOrg, "student-1"); err != nil {
			t.Fatalf("a badge conflict must not surface as an error, got: %v", err)
		}
	})
}
