package request

import (
	"strings"
	"time"

	"garage_billing/internal/domain/entities"
)

type QuoteItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity" binding:"required"`
	UnitPrice   float64 `json:"unit_price"`
}

// CreateQuoteRequest is the public payload for manual quote creation. The total
// is always computed server-side from the items.
type CreateQuoteRequest struct {
	WorkOrderID string             `json:"work_order_id" binding:"required"`
	CustomerID  string             `json:"customer_id" binding:"required"`
	Items       []QuoteItemRequest `json:"items" binding:"required"`
	ValidUntil  *time.Time         `json:"valid_until"`
}

func (r CreateQuoteRequest) ResolveWorkOrderID() string {
	return strings.TrimSpace(r.WorkOrderID)
}

func (r CreateQuoteRequest) ToItems() []entities.QuoteItem {
	items := make([]entities.QuoteItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, entities.QuoteItem{
			Name:        it.Name,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return items
}
