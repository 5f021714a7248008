package model

import (
	"fmt"
	"time"

	"academy-platform/internal/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "ACTIVE"
	SubscriptionStatusExpired  SubscriptionStatus = "EXPIRED"
	SubscriptionStatusCanceled SubscriptionStatus = "CANCELED"
)

// Subscription ties a student to a billing plan. It owns the chain of Payment
// rows produced by the billing engine, one per billing period.
type Subscription struct {
	ID              string // UUID
	OrganizationID  string
	StudentID       string
	PlanID          string
	CurrentPrice    int64 // centavos; snapshot of the plan price at enrollment, adjustable later
	BillingType     BillingType
	Status          SubscriptionStatus
	StartDate       time.Time
	NextBillingDate time.Time
	EndDate         *time.Time // nil while open-ended; set by cancel/expire
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewSubscription enrolls a student on a plan. The first charge falls due on
// firstBillingDate (usually enrollment day or the academy's billing day).
func NewSubscription(id, orgID, studentID string, plan *Plan, firstBillingDate time.Time) (*Subscription, error) {
	if id == "" || orgID == "" || studentID == "" || plan == nil {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Subscription{
		ID:              id,
		OrganizationID:  orgID,
		StudentID:       studentID,
		PlanID:          plan.ID,
		CurrentPrice:    plan.Price,
		BillingType:     plan.BillingType,
		Status:          SubscriptionStatusActive,
		StartDate:       now,
		NextBillingDate: firstBillingDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// PeriodKey derives the billing-period idempotency key from NextBillingDate.
// MONTHLY -> "2025-07", QUARTERLY -> "2025-Q3", YEARLY -> "2025".
func (s *Subscription) PeriodKey() string {
	return PeriodKeyFor(s.NextBillingDate, s.BillingType)
}

func PeriodKeyFor(due time.Time, bt BillingType) string {
	due = due.UTC()
	switch bt {
	case BillingTypeQuarterly:
		q := (int(due.Month())-1)/3 + 1
		return fmt.Sprintf("%04d-Q%d", due.Year(), q)
	case BillingTypeYearly:
		return fmt.Sprintf("%04d", due.Year())
	default:
		return due.Format("2006-01")
	}
}

// AdvanceBillingDate moves NextBillingDate forward by one billing cycle.
// It never moves backwards: the billing engine calls this only after a
// successful charge creation.
func (s *Subscription) AdvanceBillingDate() {
	s.NextBillingDate = s.NextBillingDate.AddDate(0, s.BillingType.Months(), 0)
	s.UpdatedAt = time.Now()
}

// Cancel marks the subscription CANCELED. Terminal statuses never transition back.
func (s *Subscription) Cancel() error {
	if s.Status != SubscriptionStatusActive {
		return domain.ErrTerminalStatus
	}
	now := time.Now()
	s.Status = SubscriptionStatusCanceled
	s.EndDate = &now
	s.UpdatedAt = now
	return nil
}

// Expire marks the subscription EXPIRED. Terminal statuses never transition back.
func (s *Subscription) Expire() error {
	if s.Status != SubscriptionStatusActive {
		return domain.ErrTerminalStatus
	}
	now := time.Now()
	s.Status = SubscriptionStatusExpired
	if s.EndDate == nil {
		s.EndDate = &now
	}
	s.UpdatedAt = now
	return nil
}
