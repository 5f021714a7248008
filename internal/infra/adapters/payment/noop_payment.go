// File: internal/infra/adapters/payment/noop_payment.go
package payment

import (
	"context"
	"fmt"
	"sync"

	"academy-platform/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*NoopGateway)(nil)

// NoopGateway accepts every request without touching a provider. Used by dev
// installs that have no Asaas credentials.
type NoopGateway struct {
	mu     sync.Mutex
	nextID int
}

func NewNoopGateway() *NoopGateway { return &NoopGateway{} }

func (n *NoopGateway) Name() string { return "noop" }

func (n *NoopGateway) CreateCustomer(ctx context.Context, info adapter.CustomerInfo) (string, error) {
	return "cus_noop", nil
}

func (n *NoopGateway) CreateCharge(ctx context.Context, req adapter.ChargeRequest) (adapter.Charge, error) {
	n.mu.Lock()
	n.nextID++
	id := fmt.Sprintf("pay_noop_%d", n.nextID)
	n.mu.Unlock()
	return adapter.Charge{ID: id, Status: "PENDING", ExternalReference: req.ExternalReference}, nil
}

func (n *NoopGateway) GetCharge(ctx context.Context, chargeID string) (adapter.Charge, error) {
	return adapter.Charge{ID: chargeID, Status: "PENDING"}, nil
}

func (n *NoopGateway) ListChargesByReference(ctx context.Context, externalReference string) ([]adapter.Charge, error) {
	return nil, nil
}

func (n *NoopGateway) CancelCharge(ctx context.Context, chargeID string) error { return nil }
