package request

import "strings"

// CreatePaymentRequest is the public payload for manual payment creation. Amount
// is taken from the referenced quote, never from the client.
type CreatePaymentRequest struct {
	QuoteID string `json:"quote_id" binding:"required"`
	Method  string `json:"payment_method"`
}

func (r CreatePaymentRequest) ResolveQuoteID() string {
	return strings.TrimSpace(r.QuoteID)
}

// CancelPaymentRequest carries the optional cancellation reason.
type CancelPaymentRequest struct {
	Reason string `json:"reason"`
}
