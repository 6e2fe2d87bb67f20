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
	ErrPartNotFound      = errors.New("part not found")
	ErrPartAlreadyExists = errors.New("part with this part number already exists")
	ErrInvalidPartID     = errors.New("invalid part id")
	ErrInvalidPart       = errors.New("invalid part payload")
)

// CreatePartInput carries the writable Part fields.
type CreatePartInput struct {
	Name          string
	Description   string
	PartNumber    string
	Category      string
	Price         float64
	CostPrice     float64
	StockQuantity int
	MinStockLevel int
	Unit          string
	Supplier      string
}

type IPartUseCase interface {
	Create(ctx context.Context, in CreatePartInput) (entities.Part, error)
	GetByID(ctx context.Context, id string) (entities.Part, error)
	GetByPartNumber(ctx context.Context, partNumber string) (entities.Part, error)
	ListAll(ctx context.Context) ([]entities.Part, error)
	ListLowStock(ctx context.Context) ([]entities.Part, error)
	Update(ctx context.Context, id string, in CreatePartInput) (entities.Part, error)
	UpdateStock(ctx context.Context, id string, quantity int) (entities.Part, error)
	Remove(ctx context.Context, id string) error
}

type PartUseCase struct {
	repo interfaces.IPartRepository
}

var _ IPartUseCase = (*PartUseCase)(nil)

func NewPartUseCase(repo interfaces.IPartRepository) *PartUseCase {
	return &PartUseCase{repo: repo}
}

func (u *PartUseCase) Create(ctx context.Context, in CreatePartInput) (entities.Part, error) {
	in.PartNumber = strings.TrimSpace(in.PartNumber)
	if strings.TrimSpace(in.Name) == "" || in.PartNumber == "" || in.Price < 0 {
		return entities.Part{}, ErrInvalidPart
	}

	// One part per part number.
	if existing, err := u.repo.GetByPartNumber(ctx, in.PartNumber); err != nil {
		return entities.Part{}, err
	} else if existing.ID != "" {
		return entities.Part{}, ErrPartAlreadyExists
	}

	now := time.Now().UTC()
	p := entities.Part{
		ID:            uuid.NewString(),
		Name:          in.Name,
		Description:   in.Description,
		PartNumber:    in.PartNumber,
		Category:      in.Category,
		Price:         in.Price,
		CostPrice:     in.CostPrice,
		StockQuantity: in.StockQuantity,
		MinStockLevel: in.MinStockLevel,
		Unit:          in.Unit,
		Supplier:      in.Supplier,
		Status:        entities.PartStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if p.MinStockLevel == 0 {
		p.MinStockLevel = 5
	}
	if p.Unit == "" {
		p.Unit = "unit"
	}
	return u.repo.Create(ctx, p)
}

func (u *PartUseCase) GetByID(ctx context.Context, id string) (entities.Part, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Part{}, ErrInvalidPartID
	}
	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Part{}, err
	}
	if p.ID == "" {
		return entities.Part{}, ErrPartNotFound
	}
	return p, nil
}

func (u *PartUseCase) GetByPartNumber(ctx context.Context, partNumber string) (entities.Part, error) {
	partNumber = strings.TrimSpace(partNumber)
	if partNumber == "" {
		return entities.Part{}, ErrInvalidPart
	}
	p, err := u.repo.GetByPartNumber(ctx, partNumber)
	if err != nil {
		return entities.Part{}, err
	}
	if p.ID == "" {
		return entities.Part{}, ErrPartNotFound
	}
	return p, nil
}

func (u *PartUseCase) ListAll(ctx context.Context) ([]entities.Part, error) {
	return u.repo.ListAll(ctx)
}

func (u *PartUseCase) ListLowStock(ctx context.Context) ([]entities.Part, error) {
	parts, err := u.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]entities.Part, 0, len(parts))
	for _, p := range parts {
		if p.LowStock() {
			low = append(low, p)
		}
	}
	return low, nil
}

func (u *PartUseCase) Update(ctx context.Context, id string, in CreatePartInput) (entities.Part, error) {
	p, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Part{}, err
	}

	if v := strings.TrimSpace(in.Name); v != "" {
		p.Name = v
	}
	if in.Description != "" {
		p.Description = in.Description
	}
	if in.Category != "" {
		p.Category = in.Category
	}
	if in.Price > 0 {
		p.Price = in.Price
	}
	if in.CostPrice > 0 {
		p.CostPrice = in.CostPrice
	}
	if in.MinStockLevel > 0 {
		p.MinStockLevel = in.MinStockLevel
	}
	if in.Unit != "" {
		p.Unit = in.Unit
	}
	if in.Supplier != "" {
		p.Supplier = in.Supplier
	}
	p.UpdatedAt = time.Now().UTC()

	return u.repo.Save(ctx, p)
}

func (u *PartUseCase) UpdateStock(ctx context.Context, id string, quantity int) (entities.Part, error) {
	if quantity < 0 {
		return entities.Part{}, ErrInvalidPart
	}
	p, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Part{}, err
	}
	p.StockQuantity = quantity
	p.UpdatedAt = time.Now().UTC()
	return u.repo.Save(ctx, p)
}

func (u *PartUseCase) Remove(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidPartID
	}
	deleted, err := u.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrPartNotFound
	}
	return nil
}
