package request

type PartRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	PartNumber    string  `json:"part_number" binding:"required"`
	Category      string  `json:"category"`
	Price         float64 `json:"price" binding:"required"`
	CostPrice     float64 `json:"cost_price"`
	StockQuantity int     `json:"stock_quantity"`
	MinStockLevel int     `json:"min_stock_level"`
	Unit          string  `json:"unit"`
	Supplier      string  `json:"supplier"`
}

type UpdatePartRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Price         float64 `json:"price"`
	CostPrice     float64 `json:"cost_price"`
	MinStockLevel int     `json:"min_stock_level"`
	Unit          string  `json:"unit"`
	Supplier      string  `json:"supplier"`
}

type UpdateStockRequest struct {
	Quantity int `json:"quantity"`
}
