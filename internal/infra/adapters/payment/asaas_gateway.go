// File: internal/infra/adapters/payment/asaas_gateway.go
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"academy-platform/internal/domain/ports/adapter"
	"academy-platform/internal/infra/metrics"
)

var _ adapter.PaymentGateway = (*AsaasGateway)(nil)

// AsaasGateway implements adapter.PaymentGateway against the Asaas REST v3 API
// (the dominant boleto/pix billing provider in Brazil). All amounts cross the
// wire in reais; internally the platform holds centavos.
type AsaasGateway struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

const (
	asaasProdBase    = "https://api.asaas.com/v3"
	asaasSandboxBase = "https://sandbox.asaas.com/api/v3"
)

func NewAsaasGateway(apiKey string, sandbox bool) (*AsaasGateway, error) {
	if apiKey == "" {
		return nil, errors.New("asaas api key empty")
	}
	base := asaasProdBase
	if sandbox {
		base = asaasSandboxBase
	}
	return &AsaasGateway{
		apiKey:  apiKey,
		baseURL: base,
		client:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// SetBaseURL overrides the endpoint; tests point it at a local server.
func (g *AsaasGateway) SetBaseURL(u string) { g.baseURL = u }

func (g *AsaasGateway) Name() string { return "asaas" }

func (g *AsaasGateway) CreateCustomer(ctx context.Context, info adapter.CustomerInfo) (string, error) {
	payload := map[string]any{
		"name":    info.Name,
		"cpfCnpj": info.Document,
		"email":   info.Email,
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := g.call(ctx, "create_customer", http.MethodPost, "/customers", payload, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", &adapter.GatewayError{Message: "customer created without id", Business: true}
	}
	return out.ID, nil
}

func (g *AsaasGateway) CreateCharge(ctx context.Context, req adapter.ChargeRequest) (adapter.Charge, error) {
	payload := map[string]any{
		"customer":          req.CustomerID,
		"billingType":       "BOLETO",
		"value":             float64(req.Amount) / 100,
		"dueDate":           req.DueDate.Format("2006-01-02"),
		"description":       req.Description,
		"externalReference": req.ExternalReference,
	}
	var out asaasCharge
	if err := g.call(ctx, "create_charge", http.MethodPost, "/payments", payload, &out); err != nil {
		return adapter.Charge{}, err
	}
	return out.toCharge(), nil
}

func (g *AsaasGateway) GetCharge(ctx context.Context, chargeID string) (adapter.Charge, error) {
	var out asaasCharge
	if err := g.call(ctx, "get_charge", http.MethodGet, "/payments/"+chargeID, nil, &out); err != nil {
		return adapter.Charge{}, err
	}
	return out.toCharge(), nil
}

func (g *AsaasGateway) ListChargesByReference(ctx context.Context, externalReference string) ([]adapter.Charge, error) {
	path := "/payments?externalReference=" + url.QueryEscape(externalReference)
	var out struct {
		Data []asaasCharge `json:"data"`
	}
	if err := g.call(ctx, "list_charges", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	charges := make([]adapter.Charge, 0, len(out.Data))
	for _, c := range out.Data {
		charges = append(charges, c.toCharge())
	}
	return charges, nil
}

func (g *AsaasGateway) CancelCharge(ctx context.Context, chargeID string) error {
	return g.call(ctx, "cancel_charge", http.MethodDelete, "/payments/"+chargeID, nil, nil)
}

// asaasCharge is the provider wire shape for a payment object.
type asaasCharge struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	InvoiceURL        string `json:"invoiceUrl"`
	ExternalReference string `json:"externalReference"`
	PaymentDate       string `json:"paymentDate"` // "2006-01-02", empty until paid
}

func (c asaasCharge) toCharge() adapter.Charge {
	out := adapter.Charge{
		ID:                c.ID,
		Status:            c.Status,
		InvoiceURL:        c.InvoiceURL,
		ExternalReference: c.ExternalReference,
	}
	if c.PaymentDate != "" {
		if t, err := time.Parse("2006-01-02", c.PaymentDate); err == nil {
			out.PaidAt = &t
		}
	}
	return out
}

// call performs one API request, classifying failures into adapter.GatewayError:
// transport errors and 5xx stay retryable, 4xx are business rejections.
func (g *AsaasGateway) call(ctx context.Context, op, method, path string, payload, out any) error {
	started := time.Now()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("access_token", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		metrics.ObserveGatewayCall(op, "transport_error", time.Since(started).Seconds())
		return &adapter.GatewayError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		outcome := "business_error"
		business := resp.StatusCode < 500 && resp.StatusCode != 429
		if !business {
			outcome = "transport_error"
		}
		metrics.ObserveGatewayCall(op, outcome, time.Since(started).Seconds())
		return &adapter.GatewayError{
			StatusCode: resp.StatusCode,
			Message:    asaasErrorMessage(resp.Body),
			Business:   business,
		}
	}

	metrics.ObserveGatewayCall(op, "ok", time.Since(started).Seconds())
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &adapter.GatewayError{Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

// asaasErrorMessage extracts the first description from the provider's
// {"errors":[{"code":...,"description":...}]} envelope.
func asaasErrorMessage(r io.Reader) string {
	var out struct {
		Errors []struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(r).Decode(&out); err == nil && len(out.Errors) > 0 {
		return out.Errors[0].Description
	}
	return "request rejected"
}
