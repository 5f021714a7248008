package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// CustomerInfo is the minimal identity the gateway needs to bill a person.
type CustomerInfo struct {
	Name     string
	Document string // CPF/CNPJ digits only
	Email    string
}

// ChargeRequest asks the provider to create one charge against a customer.
type ChargeRequest struct {
	CustomerID        string
	Amount            int64 // centavos
	DueDate           time.Time
	Description       string
	ExternalReference string // our payment/subscription reference, used by reconciliation
}

// Charge is the provider-side view of a charge.
type Charge struct {
	ID                string
	Status            string // provider status, e.g. PENDING / RECEIVED / CONFIRMED
	InvoiceURL        string
	ExternalReference string
	PaidAt            *time.Time
}

// GatewayError carries the classification the billing engine needs: transport
// failures and 5xx are retryable (the period stays due); business rejections
// (invalid document, deleted customer) are not.
type GatewayError struct {
	StatusCode int // 0 for transport-level failures
	Message    string
	Business   bool // true when the provider rejected the request as invalid
}

func (e *GatewayError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("gateway: %s", e.Message)
	}
	return fmt.Sprintf("gateway: http %d: %s", e.StatusCode, e.Message)
}

// Retryable reports whether retrying the same request on a later run can succeed.
func (e *GatewayError) Retryable() bool {
	return !e.Business && (e.StatusCode == 0 || e.StatusCode >= 500 || e.StatusCode == 429)
}

// IsRetryable classifies any error from a gateway call. Unknown error types
// (context timeouts, connection resets) count as retryable.
func IsRetryable(err error) bool {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge.Retryable()
	}
	return true
}

// PaymentGateway is the hex port for the payment provider.
type PaymentGateway interface {
	Name() string

	// CreateCustomer registers the person with the provider and returns the
	// provider customer id.
	CreateCustomer(ctx context.Context, info CustomerInfo) (string, error)
	// CreateCharge creates a charge due at req.DueDate.
	CreateCharge(ctx context.Context, req ChargeRequest) (Charge, error)
	// GetCharge fetches current provider state for a charge.
	GetCharge(ctx context.Context, chargeID string) (Charge, error)
	// ListChargesByReference returns provider charges carrying the external
	// reference; the reconciler uses it to detect phantom charges created
	// right before a crash.
	ListChargesByReference(ctx context.Context, externalReference string) ([]Charge, error)
	// CancelCharge voids an unpaid charge.
	CancelCharge(ctx context.Context, chargeID string) error
}
