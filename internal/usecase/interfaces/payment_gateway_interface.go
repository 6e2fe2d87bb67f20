package interfaces

import (
	"context"
	"encoding/json"
)

// ChargeResult is the provider-agnostic view of a gateway charge/refund/status
// response. Raw keeps the original provider body for traceability/audit.
type ChargeResult struct {
	ExternalID   string
	Status       string
	StatusDetail string
	Raw          json.RawMessage
}

// IPaymentGateway abstracts external payment providers (e.g. Mercado Pago).
//
// Failure of any call surfaces as an error to the caller; the payment use case is
// responsible for recording it and emitting the compensating event.
type IPaymentGateway interface {
	CreateCharge(ctx context.Context, amount float64, description, methodCode, payerEmail string) (ChargeResult, error)
	GetStatus(ctx context.Context, externalID string) (ChargeResult, error)
	Refund(ctx context.Context, externalID string) (ChargeResult, error)
}
