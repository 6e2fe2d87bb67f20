package response

import (
	"time"

	"garage_billing/internal/domain/entities"
)

type PartResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	PartNumber    string    `json:"part_number"`
	Category      string    `json:"category"`
	Price         float64   `json:"price"`
	CostPrice     float64   `json:"cost_price"`
	StockQuantity int       `json:"stock_quantity"`
	MinStockLevel int       `json:"min_stock_level"`
	Unit          string    `json:"unit"`
	Supplier      string    `json:"supplier"`
	Status        string    `json:"status"`
	LowStock      bool      `json:"low_stock"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func FromPart(p entities.Part) PartResponse {
	return PartResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		PartNumber:    p.PartNumber,
		Category:      p.Category,
		Price:         p.Price,
		CostPrice:     p.CostPrice,
		StockQuantity: p.StockQuantity,
		MinStockLevel: p.MinStockLevel,
		Unit:          p.Unit,
		Supplier:      p.Supplier,
		Status:        string(p.Status),
		LowStock:      p.LowStock(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func FromParts(parts []entities.Part) []PartResponse {
	out := make([]PartResponse, 0, len(parts))
	for _, p := range parts {
		out = append(out, FromPart(p))
	}
	return out
}
