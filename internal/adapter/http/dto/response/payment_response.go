package response

import (
	"time"

	"garage_billing/internal/domain/entities"
)

type PaymentErrorResponse struct {
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

type PaymentResponse struct {
	ID            string                `json:"id"`
	QuoteID       string                `json:"quote_id"`
	WorkOrderID   string                `json:"work_order_id"`
	CustomerID    string                `json:"customer_id,omitempty"`
	Amount        float64               `json:"amount"`
	Method        string                `json:"payment_method"`
	Status        string                `json:"status"`
	GatewayID     string                `json:"gateway_id,omitempty"`
	GatewayStatus string                `json:"gateway_status,omitempty"`
	ApprovedAt    *time.Time            `json:"approved_at,omitempty"`
	LastError     *PaymentErrorResponse `json:"last_error,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

func FromPayment(p entities.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:            p.ID,
		QuoteID:       p.QuoteID,
		WorkOrderID:   p.WorkOrderID,
		CustomerID:    p.CustomerID,
		Amount:        p.Amount,
		Method:        string(p.Method),
		Status:        string(p.Status),
		GatewayID:     p.GatewayID,
		GatewayStatus: p.GatewayStatus,
		ApprovedAt:    p.ApprovedAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.LastError != nil {
		resp.LastError = &PaymentErrorResponse{
			Message:    p.LastError.Message,
			OccurredAt: p.LastError.OccurredAt,
		}
	}
	return resp
}

func FromPayments(payments []entities.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, FromPayment(p))
	}
	return out
}
