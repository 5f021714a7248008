package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"  // charge created at the gateway; awaiting payment
	PaymentStatusPaid     PaymentStatus = "PAID"     // gateway confirmed receipt
	PaymentStatusFailed   PaymentStatus = "FAILED"   // gateway rejected or charge-back
	PaymentStatusRefunded PaymentStatus = "REFUNDED" // refunded after payment
	PaymentStatusCanceled PaymentStatus = "CANCELED" // charge canceled before payment
)

// Payment mirrors one gateway charge for a subscription billing period.
// (subscription_id, period_key) is unique: the billing engine must never
// create two charges for the same period.
type Payment struct {
	ID              string // UUID
	OrganizationID  string
	SubscriptionID  string
	StudentID       string
	Amount          int64  // centavos
	Currency        string // "BRL"
	PeriodKey       string // e.g. "2025-07"; see Subscription.PeriodKey
	DueDate         time.Time
	PaidDate        *time.Time // set when status becomes PAID
	Status          PaymentStatus
	GatewayChargeID string // provider charge id; set after gateway accepts the charge
	InvoiceURL      string // provider-hosted invoice/boleto/pix page
	Description     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
