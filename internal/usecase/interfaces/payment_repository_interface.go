package interfaces

import (
	"context"
	"garage_billing/internal/domain/entities"
)

// IPaymentRepository abstracts DynamoDB persistence for Payment.
//
// Same conventions as IQuoteRepository: zero-value entity on miss, optimistic
// version condition on Save.
type IPaymentRepository interface {
	Create(ctx context.Context, p entities.Payment) (entities.Payment, error)
	GetByID(ctx context.Context, id string) (entities.Payment, error)
	ListByWorkOrderID(ctx context.Context, workOrderID string) ([]entities.Payment, error)
	ListAll(ctx context.Context) ([]entities.Payment, error)
	Save(ctx context.Context, p entities.Payment) (entities.Payment, error)
}
