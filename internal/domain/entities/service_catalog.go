package entities

import "time"

// CatalogService is an entry in the garage's service catalog (labor services with a
// fixed price and expected duration in minutes). Pure CRUD, no coordination logic.
type CatalogService struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Active      bool      `json:"active"`
	Duration    int       `json:"duration"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
