package usecase

import (
	"context"
	"errors"
	"testing"

	"garage_billing/internal/domain/entities"
	mock_interfaces "garage_billing/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestPartUseCase_Create(t *testing.T) {
	t.Run("invalid payload", func(t *testing.T) {
		uc := NewPartUseCase(nil)
		_, err := uc.Create(context.Background(), CreatePartInput{Name: "", PartNumber: "PN-1", Price: 10})
		if !errors.Is(err, ErrInvalidPart) {
			t.Fatalf("expected ErrInvalidPart, got %v", err)
		}
	})

	t.Run("duplicate part number", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockIPartRepository(ctrl)
		uc := NewPartUseCase(repo)

		repo.EXPECT().GetByPartNumber(gomock.Any(), "PN-1").Return(entities.Part{ID: "existing"}, nil)

		_, err := uc.Create(context.Background(), CreatePartInput{Name: "Brake pad", PartNumber: "PN-1", Price: 80})
		if !errors.Is(err, ErrPartAlreadyExists) {
			t.Fatalf("expected ErrPartAlreadyExists, got %v", err)
		}
	})

	t.Run("create with defaults", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockIPartRepository(ctrl)
		uc := NewPartUseCase(repo)

		repo.EXPECT().GetByPartNumber(gomock.Any(), "PN-1").Return(entities.Part{}, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.Part{})).DoAndReturn(
			func(_ context.Context, p entities.Part) (entities.Part, error) {
				if p.Status != entities.PartStatusActive {
					t.Fatalf("expected ACTIVE, got %s", p.Status)
				}
				if p.MinStockLevel != 5 || p.Unit != "unit" {
					t.Fatalf("expected defaults, got min=%d unit=%q", p.MinStockLevel, p.Unit)
				}
				return p, nil
			},
		)

		_, err := uc.Create(context.Background(), CreatePartInput{Name: "Brake pad", PartNumber: "PN-1", Price: 80})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestPartUseCase_ListLowStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_interfaces.NewMockIPartRepository(ctrl)
	uc := NewPartUseCase(repo)

	repo.EXPECT().ListAll(gomock.Any()).Return([]entities.Part{
		{ID: "p-1", StockQuantity: 2, MinStockLevel: 5},
		{ID: "p-2", StockQuantity: 50, MinStockLevel: 5},
	}, nil)

	low, err := uc.ListLowStock(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(low) != 1 || low[0].ID != "p-1" {
		t.Fatalf("expected only p-1 low on stock, got %+v", low)
	}
}

func TestPartUseCase_Remove(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockIPartRepository(ctrl)
		uc := NewPartUseCase(repo)

		repo.EXPECT().Delete(gomock.Any(), "p-1").Return(false, nil)

		if err := uc.Remove(context.Background(), "p-1"); !errors.Is(err, ErrPartNotFound) {
			t.Fatalf("expected ErrPartNotFound, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockIPartRepository(ctrl)
		uc := NewPartUseCase(repo)

		repo.EXPECT().Delete(gomock.Any(), "p-1").Return(true, nil)

		if err := uc.Remove(context.Background(), "p-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestPartUseCase_UpdateStock(t *testing.T) {
	t.Run("negative quantity", func(t *testing.T) {
		uc := NewPartUseCase(nil)
		_, err := uc.UpdateStock(context.Background(), "p-1", -1)
		if !errors.Is(err, ErrInvalidPart) {
			t.Fatalf("expected ErrInvalidPart, got %v", err)
		}
	})

	t.Run("updates quantity", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockIPartRepository(ctrl)
		uc := NewPartUseCase(repo)

		repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(entities.Part{ID: "p-1", StockQuantity: 3}, nil)
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Part) (entities.Part, error) {
				if p.StockQuantity != 10 {
					t.Fatalf("expected quantity 10, got %d", p.StockQuantity)
				}
				return p, nil
			},
		)

		_, err := uc.UpdateStock(context.Background(), "p-1", 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
