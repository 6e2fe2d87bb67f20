package entities

import "time"

type PartStatus string

const (
	PartStatusActive   PartStatus = "ACTIVE"
	PartStatusInactive PartStatus = "INACTIVE"
)

// Part is a catalog/inventory part. Pure CRUD, no coordination logic.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (part_number-index): part_number
type Part struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	PartNumber    string     `json:"part_number"`
	Category      string     `json:"category"`
	Price         float64    `json:"price"`
	CostPrice     float64    `json:"cost_price"`
	StockQuantity int        `json:"stock_quantity"`
	MinStockLevel int        `json:"min_stock_level"`
	Unit          string     `json:"unit"`
	Supplier      string     `json:"supplier"`
	Status        PartStatus `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// LowStock reports whether the stock level reached the configured minimum.
func (p Part) LowStock() bool {
	return p.StockQuantity <= p.MinStockLevel
}
