package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"garage_billing/internal/domain/entities"
	"garage_billing/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrServiceNotFound  = errors.New("catalog service not found")
	ErrInvalidServiceID = errors.New("invalid service id")
	ErrInvalidService   = errors.New("invalid service payload")
)

type CreateServiceInput struct {
	Name        string
	Description string
	Price       float64
	Duration    int
}

type IServiceCatalogUseCase interface {
	Create(ctx context.Context, in CreateServiceInput) (entities.CatalogService, error)
	GetByID(ctx context.Context, id string) (entities.CatalogService, error)
	ListAll(ctx context.Context) ([]entities.CatalogService, error)
	Update(ctx context.Context, id string, in CreateServiceInput) (entities.CatalogService, error)
	Remove(ctx context.Context, id string) error
}

type ServiceCatalogUseCase struct {
	repo interfaces.IServiceCatalogRepository
}

var _ IServiceCatalogUseCase = (*ServiceCatalogUseCase)(nil)

func NewServiceCatalogUseCase(repo interfaces.IServiceCatalogRepository) *ServiceCatalogUseCase {
	return &ServiceCatalogUseCase{repo: repo}
}

func (u *ServiceCatalogUseCase) Create(ctx context.Context, in CreateServiceInput) (entities.CatalogService, error) {
	if strings.TrimSpace(in.Name) == "" || in.Price < 0 || in.Duration < 0 {
		return entities.CatalogService{}, ErrInvalidService
	}

	now := time.Now().UTC()
	s := entities.CatalogService{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Active:      true,
		Duration:    in.Duration,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return u.repo.Create(ctx, s)
}

func (u *ServiceCatalogUseCase) GetByID(ctx context.Context, id string) (entities.CatalogService, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.CatalogService{}, ErrInvalidServiceID
	}
	s, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.CatalogService{}, err
	}
	if s.ID == "" {
		return entities.CatalogService{}, ErrServiceNotFound
	}
	return s, nil
}

func (u *ServiceCatalogUseCase) ListAll(ctx context.Context) ([]entities.CatalogService, error) {
	return u.repo.ListAll(ctx)
}

func (u *ServiceCatalogUseCase) Update(ctx context.Context, id string, in CreateServiceInput) (entities.CatalogService, error) {
	s, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.CatalogService{}, err
	}

	if v := strings.TrimSpace(in.Name); v != "" {
		s.Name = v
	}
	if in.Description != "" {
		s.Description = in.Description
	}
	if in.Price > 0 {
		s.Price = in.Price
	}
	if in.Duration > 0 {
		s.Duration = in.Duration
	}
	s.UpdatedAt = time.Now().UTC()

	return u.repo.Save(ctx, s)
}

func (u *ServiceCatalogUseCase) Remove(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidServiceID
	}
	deleted, err := u.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrServiceNotFound
	}
	return nil
}
