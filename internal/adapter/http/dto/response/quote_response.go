package response

import (
	"time"

	"garage_billing/internal/domain/entities"
)

type QuoteItemResponse struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type QuoteResponse struct {
	ID          string              `json:"id"`
	WorkOrderID string              `json:"work_order_id"`
	CustomerID  string              `json:"customer_id"`
	Items       []QuoteItemResponse `json:"items"`
	TotalAmount float64             `json:"total_amount"`
	Status      string              `json:"status"`
	ValidUntil  time.Time           `json:"valid_until"`
	ApprovedAt  *time.Time          `json:"approved_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func FromQuote(q entities.Quote) QuoteResponse {
	items := make([]QuoteItemResponse, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, QuoteItemResponse{
			Name:        it.Name,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return QuoteResponse{
		ID:          q.ID,
		WorkOrderID: q.WorkOrderID,
		CustomerID:  q.CustomerID,
		Items:       items,
		TotalAmount: q.TotalAmount,
		Status:      string(q.Status),
		ValidUntil:  q.ValidUntil,
		ApprovedAt:  q.ApprovedAt,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

func FromQuotes(quotes []entities.Quote) []QuoteResponse {
	out := make([]QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, FromQuote(q))
	}
	return out
}
