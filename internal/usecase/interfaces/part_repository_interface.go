package interfaces

import (
	"context"
	"garage_billing/internal/domain/entities"
)

// IPartRepository abstracts DynamoDB persistence for Part.
type IPartRepository interface {
	Create(ctx context.Context, p entities.Part) (entities.Part, error)
	GetByID(ctx context.Context, id string) (entities.Part, error)
	GetByPartNumber(ctx context.Context, partNumber string) (entities.Part, error)
	ListAll(ctx context.Context) ([]entities.Part, error)
	Save(ctx context.Context, p entities.Part) (entities.Part, error)
	Delete(ctx context.Context, id string) (bool, error)
}
