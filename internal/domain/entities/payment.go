package entities

import (
	"encoding/json"
	"time"
)

// PaymentStatus represents the payment processing outcome.
//
// Transitions: PENDING → PROCESSING → {APPROVED, REJECTED}; APPROVED → REFUNDED
// via saga compensation. REJECTED is terminal.

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "PENDING"
	PaymentStatusProcessing PaymentStatus = "PROCESSING"
	PaymentStatusApproved   PaymentStatus = "APPROVED"
	PaymentStatusRejected   PaymentStatus = "REJECTED"
	PaymentStatusRefunded   PaymentStatus = "REFUNDED"
)

type PaymentMethod string

const (
	PaymentMethodPix        PaymentMethod = "PIX"
	PaymentMethodCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentMethodBoleto     PaymentMethod = "BOLETO"
)

// PaymentError records the last processing failure on the payment.
type PaymentError struct {
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Payment is the payment entity persisted by the billing-service.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (work_order_id-index): work_order_id
//
// Gateway payload:
//   - GatewayResponse keeps the original provider body (JSON) for traceability/audit.
//   - GatewayID/GatewayStatus mirror the provider's identifiers for reconciliation.
type Payment struct {
	ID          string        `json:"id"`
	QuoteID     string        `json:"quote_id"`
	WorkOrderID string        `json:"work_order_id"`
	CustomerID  string        `json:"customer_id"`
	Amount      float64       `json:"amount"`
	Method      PaymentMethod `json:"payment_method"`
	Status      PaymentStatus `json:"status"`

	GatewayID       string          `json:"gateway_id,omitempty"`
	GatewayStatus   string          `json:"gateway_status,omitempty"`
	GatewayResponse json.RawMessage `json:"gateway_response,omitempty"`

	ApprovedAt *time.Time    `json:"approved_at,omitempty"`
	LastError  *PaymentError `json:"last_error,omitempty"`
	Version    int64         `json:"version"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// CanTransition reports whether the payment may move to the given status.
func (p Payment) CanTransition(to PaymentStatus) bool {
	switch p.Status {
	case PaymentStatusPending:
		return to == PaymentStatusProcessing || to == PaymentStatusRejected
	case PaymentStatusProcessing:
		return to == PaymentStatusApproved || to == PaymentStatusRejected
	case PaymentStatusApproved:
		return to == PaymentStatusApproved || to == PaymentStatusRefunded
	default:
		return false
	}
}

// Cancellable reports whether saga compensation may still cancel this payment.
func (p Payment) Cancellable() bool {
	return p.Status == PaymentStatusPending || p.Status == PaymentStatusProcessing
}
