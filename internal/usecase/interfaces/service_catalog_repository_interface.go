package interfaces

import (
	"context"
	"garage_billing/internal/domain/entities"
)

// IServiceCatalogRepository abstracts DynamoDB persistence for CatalogService.
type IServiceCatalogRepository interface {
	Create(ctx context.Context, s entities.CatalogService) (entities.CatalogService, error)
	GetByID(ctx context.Context, id string) (entities.CatalogService, error)
	ListAll(ctx context.Context) ([]entities.CatalogService, error)
	Save(ctx context.Context, s entities.CatalogService) (entities.CatalogService, error)
	Delete(ctx context.Context, id string) (bool, error)
}
