//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"academy-platform/internal/domain"
	"academy-platform/internal/domain/model"
	"academy-platform/internal/usecase"
)

type subscriptionUCTestDeps struct {
	subs     *MockSubscriptionRepo
	students *MockStudentRepo
	plans    *MockPlanRepo
}

func newSubscriptionDeps(ctx context.Context) *subscriptionUCTestDeps {
	deps := &subscriptionUCTestDeps{
		subs:     NewMockSubscriptionRepo(),
		students: NewMockStudentRepo(),
		plans:    NewMockPlanRepo(),
	}
	deps.students.Save(ctx, nil, &model.Student{
		ID:             "student-1",
		OrganizationID: testOrg,
		FirstName:      "Edu",
		Email:          "edu@example.com",
		Active:         true,
	})
	deps.plans.Save(ctx, nil, &model.Plan{
		ID:             "plan-1",
		OrganizationID: testOrg,
		Name:           "Adult BJJ",
		Price:          25000,
		BillingType:    model.BillingTypeMonthly,
		Active:         true,
	})
	return deps
}

func TestSubscriptionUseCase_Enroll(t *testing.T) {
	ctx := context.Background()
	testLogger := newTestLogger()
	firstBilling := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	t.Run("enrolls an active student on an active plan", func(t *testing.T) {
		deps := newSubscriptionDeps(ctx)
		uc := usecase.NewSubscriptionUseCase(deps.subs, deps.students, deps.plans, testLogger)

		sub, err := uc.Enroll(ctx, testOrg, "student-1", "plan-1", firstBilling)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if sub.Status != model.SubscriptionStatusActive {
			t.Errorf("expected ACTIVE, got %s", sub.Status)
		}
		if sub.CurrentPrice != 25000 {
			t.Errorf("expected the plan price snapshot, got %d", sub.CurrentPrice)
		}
		if !sub.NextBillingDate.Equal(firstBilling) {
			t.Errorf("expected first billing %s, got %s", firstBilling, sub.NextBillingDate)
		}
	})

	t.Run("rejects a second active subscription on the same plan", func(t *testing.T) {
		deps := newSubscriptionDeps(ctx)
		uc := usecase.NewSubscriptionUseCase(deps.subs, deps.students, deps.plans, testLogger)

		if _, err := uc.Enroll(ctx, testOrg, "student-1", "plan-1", firstBilling); err != nil {
			t.Fatalf("first enrollment failed: %v", err)
		}
		_, err := uc.Enroll(ctx, testOrg, "student-1", "plan-1", firstBilling)
		if !errors.Is(err, domain.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got: %v", err)
		}
	})

	t.Run("rejects an inactive student", func(t *testing.T) {
		deps := newSubscriptionDeps(ctx)
		student, _ := deps.students.FindByID(ctx, nil, "student-1")
		student.Active = false
		deps.students.Save(ctx, nil, student)
		uc := usecase.NewSubscriptionUseCase(deps.subs, deps.students, deps.plans, testLogger)

		_, err := uc.Enroll(ctx, testOrg, "student-1", "plan-1", firstBilling)
		if !errors.Is(err, domain.ErrStudentInactive) {
			t.Fatalf("expected ErrStudentInactive, got: %v", err)
		}
	})
}

func TestSubscriptionUseCase_Lifecycle(t *testing.T) {
	ctx := context.Background()
	testLogger := newTestLogger()
	firstBilling := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	t.Run("cancel is terminal", func(t *testing.T) {
		deps := newSubscriptionDeps(ctx)
		uc := usecase.NewSubscriptionUseCase(deps.subs, deps.students, deps.plans, testLogger)
		sub, _ := uc.Enroll(ctx, testOrg, "student-1", "plan-1", firstBilling)

		if err := uc.Cancel(ctx, sub.ID); err != nil {
			t.Fatalf("cancel failed: %v", err)
		}
		if err := uc.Cancel(ctx, sub.ID); !errors.Is(err, domain.ErrTerminalStatus) {
			t.Fatalf("expected ErrTerminalStatus on second cancel, got: %v", err)
		}
	})

	t.Run("expiry worker finishes subscriptions past their end date", func(t *testing.T) {
		fixedNow := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
		clock := func() time.Time { return fixedNow }
		deps := newSubscriptionDeps(ctx)
		uc := usecase.NewSubscriptionUseCase(deps.subs, deps.students, deps.plans, testLogger, clock)

		past := fixedNow.AddDate(0, 0, -1)
		deps.subs.Save(ctx, nil, &model.Subscription{
			ID:             "sub-ended",
			OrganizationID: testOrg,
			StudentID:      "student-1",
			PlanID:         "plan-1",
			Status:         model.SubscriptionStatusActive,
			EndDate:        &past,
		})
		deps.subs.Save(ctx, nil, &model.Subscription{
			ID:             "sub-open",
			OrganizationID: testOrg,
			StudentID:      "student-1",
			PlanID:         "plan-1",
			Status:         model.SubscriptionStatusActive,
		})

		n, err := uc.FinishExpired(ctx)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if n != 1 {
			t.Fatalf("expected 1 expired, got %d", n)
		}
		ended, _ := deps.subs.FindByID(ctx, nil, "sub-ended")
		if ended.Status != model.SubscriptionStatusExpired {
			t.Errorf("expected EXPIRED, got %s", ended.Status)
		}
		open, _ := deps.subs.FindByID(ctx, nil, "sub-open")
		if open.Status != model.SubscriptionStatusActive {
			t.Errorf("open-ended subscription must stay ACTIVE, got %s", open.Status)
		}
	})
}
