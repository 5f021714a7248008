package model

import (
	"time"

	"academy-platform/internal/domain"
)

type BillingType string

const (
	BillingTypeMonthly   BillingType = "MONTHLY"
	BillingTypeQuarterly BillingType = "QUARTERLY"
	BillingTypeYearly    BillingType = "YEARLY"
)

// ValidBillingType reports whether s names a known billing cycle.
func ValidBillingType(s string) bool {
	switch BillingType(s) {
	case BillingTypeMonthly, BillingTypeQuarterly, BillingTypeYearly:
		return true
	}
	return false
}

// Months returns the cycle length in calendar months.
func (b BillingType) Months() int {
	switch b {
	case BillingTypeQuarterly:
		return 3
	case BillingTypeYearly:
		return 12
	default:
		return 1
	}
}

// Plan is a billing plan students subscribe to (e.g. "Adult BJJ 2x/week").
type Plan struct {
	ID             string // UUID
	OrganizationID string
	Name           string
	Description    string
	Price          int64 // centavos (integer) to avoid float drift
	BillingType    BillingType
	Active         bool
	CreatedAt      time.Time
}

func NewPlan(id, orgID, name string, price int64, billingType BillingType) (*Plan, error) {
	if id == "" || orgID == "" || name == "" || price <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	if !ValidBillingType(string(billingType)) {
		return nil, domain.ErrInvalidArgument
	}
	return &Plan{
		ID:             id,
		OrganizationID: orgID,
		Name:           name,
		Price:          price,
		BillingType:    billingType,
		Active:         true,
		CreatedAt:      time.Now(),
	}, nil
}
