// File: internal/infra/web/webhook.go
package web

import (
	"crypto/subtle"
	"net/http"
	"time"

	"academy-platform/internal/domain/ports/adapter"
)

// asaasEvent is the provider webhook envelope. Only the payment object
// matters; the event name is logged for traceability.
type asaasEvent struct {
	Event   string `json:"event"`
	Payment struct {
		ID                string `json:"id"`
		Status            string `json:"status"`
		InvoiceURL        string `json:"invoiceUrl"`
		ExternalReference string `json:"externalReference"`
		PaymentDate       string `json:"paymentDate"`
	} `json:"payment"`
}

// asaasWebhookHandler applies provider payment events. The handler must answer
// 200 for anything it processed, even no-ops, or the provider keeps retrying.
func (s *Server) asaasWebhookHandler(w http.ResponseWriter, r *http.Request) {
	if s.webhookToken != "" {
		got := r.Header.Get("asaas-access-token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.webhookToken)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
	}

	var ev asaasEvent
	if err := decodeJSON(r, &ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if ev.Payment.ID == "" {
		writeError(w, http.StatusBadRequest, "missing payment id")
		return
	}

	charge := adapter.Charge{
		ID:                ev.Payment.ID,
		Status:            ev.Payment.Status,
		InvoiceURL:        ev.Payment.InvoiceURL,
		ExternalReference: ev.Payment.ExternalReference,
	}
	if ev.Payment.PaymentDate != "" {
		if t, err := time.Parse("2006-01-02", ev.Payment.PaymentDate); err == nil {
			charge.PaidAt = &t
		}
	}

	if err := s.paymentUC.HandleGatewayEvent(r.Context(), charge); err != nil {
		s.log.Error().Err(err).Str("charge_id", charge.ID).Str("event", ev.Event).Msg("webhook processing failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.log.Info().Str("charge_id", charge.ID).Str("event", ev.Event).Msg("webhook processed")
	writeData(w, http.StatusOK, nil)
}
