package entities

import "time"

// QuoteStatus represents the lifecycle of a quote (orçamento).
//
// Domain notes:
//   - The billing-service is the source of truth for quote/payment state.
//   - Transitions are monotonic: PENDING → SENT → {APPROVED, REJECTED, EXPIRED}.
//   - REJECTED and EXPIRED are terminal; APPROVED is terminal for this aggregate
//     (payment handling is a separate aggregate).

type QuoteStatus string

const (
	QuoteStatusPending  QuoteStatus = "PENDING"
	QuoteStatusSent     QuoteStatus = "SENT"
	QuoteStatusApproved QuoteStatus = "APPROVED"
	QuoteStatusRejected QuoteStatus = "REJECTED"
	QuoteStatusExpired  QuoteStatus = "EXPIRED"
)

// QuoteItem is a single line of a quote. Quantity is a positive integer and
// UnitPrice a non-negative amount.
type QuoteItem struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// Quote is the billing quote persisted in DynamoDB.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (work_order_id-index): work_order_id
//
// TotalAmount is computed once at creation from the items and never recomputed
// afterward. Version backs the optimistic save condition in the repository.
type Quote struct {
	ID          string      `json:"id"`
	WorkOrderID string      `json:"work_order_id"`
	CustomerID  string      `json:"customer_id"`
	Items       []QuoteItem `json:"items"`
	TotalAmount float64     `json:"total_amount"`
	Status      QuoteStatus `json:"status"`
	ValidUntil  time.Time   `json:"valid_until"`
	ApprovedAt  *time.Time  `json:"approved_at,omitempty"`
	Version     int64       `json:"version"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TotalOf sums quantity × unitPrice over the given items.
func TotalOf(items []QuoteItem) float64 {
	total := 0.0
	for _, it := range items {
		total += float64(it.Quantity) * it.UnitPrice
	}
	return total
}

// CanTransition reports whether the quote may move to the given status.
// Re-rejecting an already rejected quote is allowed (idempotent reject).
func (q Quote) CanTransition(to QuoteStatus) bool {
	switch q.Status {
	case QuoteStatusPending:
		return to == QuoteStatusSent || to == QuoteStatusApproved || to == QuoteStatusRejected || to == QuoteStatusExpired
	case QuoteStatusSent:
		return to == QuoteStatusApproved || to == QuoteStatusRejected || to == QuoteStatusExpired
	case QuoteStatusRejected:
		return to == QuoteStatusRejected
	default:
		return false
	}
}

// Expired reports whether the quote validity window has passed at the given instant.
func (q Quote) Expired(now time.Time) bool {
	return now.After(q.ValidUntil)
}
