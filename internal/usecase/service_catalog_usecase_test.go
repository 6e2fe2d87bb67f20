package usecase

import (
	"context"
	"errors"
	"testing"

	"garage_billing/internal/domain/entities"
	mock_interfaces "garage_billing/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestServiceCatalogUseCase_Create(t *testing.T) {
	t.Run("invalid payload", func(t *testing.T) {
		uc := NewServiceCatalogUseCase(nil)
		_, err := uc.Create(context.Background(), CreateServiceInput{Name: "  ", Price: 10})
		if !errors.Is(err, ErrInvalidService) {
			t.Fatalf("expected ErrInvalidService, got %v", err)
		}
	})

	t.Run("create success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockIServiceCatalogRepository(ctrl)
		uc := NewServiceCatalogUseCase(repo)

		repo.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.CatalogService{})).DoAndReturn(
			func(_ context.Context, s entities.CatalogService) (entities.CatalogService, error) {
				if s.ID == "" || !s.Active {
					t.Fatalf("expected active service with id, got %+v", s)
				}
				return s, nil
			},
		)

		service, err := uc.Create(context.Background(), CreateServiceInput{Name: "Alignment", Price: 120, Duration: 45})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if service.Name != "Alignment" {
			t.Fatalf("unexpected service: %+v", service)
		}
	})
}

func TestServiceCatalogUseCase_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_interfaces.NewMockIServiceCatalogRepository(ctrl)
	uc := NewServiceCatalogUseCase(repo)

	repo.EXPECT().GetByID(gomock.Any(), "s-1").Return(entities.CatalogService{
		ID:       "s-1",
		Name:     "Alignment",
		Price:    120,
		Duration: 45,
	}, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, s entities.CatalogService) (entities.CatalogService, error) {
			if s.Price != 150 {
				t.Fatalf("expected price update to 150, got %v", s.Price)
			}
			if s.Name != "Alignment" {
				t.Fatalf("empty name must not overwrite, got %q", s.Name)
			}
			return s, nil
		},
	)

	_, err := uc.Update(context.Background(), "s-1", CreateServiceInput{Price: 150})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestServiceCatalogUseCase_Remove(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_interfaces.NewMockIServiceCatalogRepository(ctrl)
	uc := NewServiceCatalogUseCase(repo)

	repo.EXPECT().Delete(gomock.Any(), "s-1").Return(false, nil)

	if err := uc.Remove(context.Background(), "s-1"); !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("expected ErrServiceNotFound, got %v", err)
	}
}
