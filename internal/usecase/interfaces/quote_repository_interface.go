package interfaces

import (
	"context"
	"garage_billing/internal/domain/entities"
)

// IQuoteRepository abstracts DynamoDB persistence for Quote.
//
// Lookup misses return a zero-value entity and a nil error; use cases translate
// that into their NotFound sentinel. Save performs an optimistic write conditioned
// on the entity's previous version and returns a zero-value entity when the
// condition fails (the caller lost a concurrent update).
type IQuoteRepository interface {
	Create(ctx context.Context, q entities.Quote) (entities.Quote, error)
	GetByID(ctx context.Context, id string) (entities.Quote, error)
	ListByWorkOrderID(ctx context.Context, workOrderID string) ([]entities.Quote, error)
	ListAll(ctx context.Context) ([]entities.Quote, error)
	Save(ctx context.Context, q entities.Quote) (entities.Quote, error)
}
