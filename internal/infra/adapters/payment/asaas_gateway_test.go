//go:build !integration

// File: internal/infra/adapters/payment/asaas_gateway_test.go
package payment_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"academy-platform/internal/domain/ports/adapter"
	"academy-platform/internal/infra/adapters/payment"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *payment.AsaasGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	gw, err := payment.NewAsaasGateway("test-key", true)
	if err != nil {
		t.Fatalf("NewAsaasGateway: %v", err)
	}
	gw.SetBaseURL(srv.URL)
	return gw
}

func TestAsaasGateway_CreateCharge(t *testing.T) {
	// Arrange
	var gotAuth, gotPath string
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("access_token")
		gotPath = r.URL.Path
		w.Write([]byte(`{"id":"pay_123","status":"PENDING","invoiceUrl":"https://inv","externalReference":"sub:s1:2025-07"}`))
	})

	// Act
	charge, err := gw.CreateCharge(context.Background(), adapter.ChargeRequest{
		CustomerID:        "cus_1",
		Amount:            15000,
		DueDate:           time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		Description:       "Mensalidade",
		ExternalReference: "sub:s1:2025-07",
	})

	// Assert
	if err != nil {
		t.Fatalf("CreateCharge: %v", err)
	}
	if gotAuth != "test-key" {
		t.Errorf("access_token = %q, want test-key", gotAuth)
	}
	if gotPath != "/payments" {
		t.Errorf("path = %q, want /payments", gotPath)
	}
	if charge.ID != "pay_123" || charge.Status != "PENDING" {
		t.Errorf("charge = %+v", charge)
	}
	if charge.ExternalReference != "sub:s1:2025-07" {
		t.Errorf("external reference = %q", charge.ExternalReference)
	}
}

func TestAsaasGateway_ErrorClassification(t *testing.T) {
	cases := []struct {
		name          string
		status        int
		body          string
		wantBusiness  bool
		wantRetryable bool
	}{
		{"invalid document is business", 400, `{"errors":[{"code":"invalid_cpfCnpj","description":"CPF invalido"}]}`, true, false},
		{"rate limit is retryable", 429, `{}`, false, true},
		{"server error is retryable", 503, `{}`, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})

			_, err := gw.CreateCustomer(context.Background(), adapter.CustomerInfo{Name: "A", Document: "1", Email: "a@b.c"})
			if err == nil {
				t.Fatal("expected error")
			}
			var ge *adapter.GatewayError
			if !errors.As(err, &ge) {
				t.Fatalf("error %T is not *adapter.GatewayError", err)
			}
			if ge.Business != tc.wantBusiness {
				t.Errorf("Business = %v, want %v", ge.Business, tc.wantBusiness)
			}
			if ge.Retryable() != tc.wantRetryable {
				t.Errorf("Retryable = %v, want %v", ge.Retryable(), tc.wantRetryable)
			}
		})
	}
}

func TestAsaasGateway_ErrorMessageFromEnvelope(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(400)
		w.Write([]byte(`{"errors":[{"code":"invalid_value","description":"valor minimo 5 reais"}]}`))
	})

	_, err := gw.CreateCharge(context.Background(), adapter.ChargeRequest{CustomerID: "c", Amount: 100, DueDate: time.Now()})
	var ge *adapter.GatewayError
	if !errors.As(err, &ge) {
		t.Fatalf("error %T", err)
	}
	if ge.Message != "valor minimo 5 reais" {
		t.Errorf("Message = %q", ge.Message)
	}
}

func TestAsaasGateway_ListChargesByReference(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("externalReference") != "sub:s1:2025-07" {
			t.Errorf("externalReference = %q", r.URL.Query().Get("externalReference"))
		}
		w.Write([]byte(`{"data":[{"id":"pay_1","status":"RECEIVED","paymentDate":"2025-07-02"}]}`))
	})

	charges, err := gw.ListChargesByReference(context.Background(), "sub:s1:2025-07")
	if err != nil {
		t.Fatalf("ListChargesByReference: %v", err)
	}
	if len(charges) != 1 {
		t.Fatalf("got %d charges, want 1", len(charges))
	}
	if charges[0].PaidAt == nil || !charges[0].PaidAt.Equal(time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("PaidAt = %v", charges[0].PaidAt)
	}
}

func TestAsaasGateway_CancelCharge(t *testing.T) {
	var gotMethod string
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.Write([]byte(`{"deleted":true}`))
	})

	if err := gw.CancelCharge(context.Background(), "pay_9"); err != nil {
		t.Fatalf("CancelCharge: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("method = %q, want DELETE", gotMethod)
	}
}
