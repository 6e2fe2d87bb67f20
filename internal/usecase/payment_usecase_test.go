package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"garage_billing/internal/domain/entities"
	"garage_billing/internal/domain/events"
	"garage_billing/internal/usecase/interfaces"
	mock_interfaces "garage_billing/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func newPaymentUseCaseForTest(t *testing.T) (*PaymentUseCase, *mock_interfaces.MockIPaymentRepository, *mock_interfaces.MockIPaymentGateway, *mock_interfaces.MockIEventPublisher) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
	gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
	pub := mock_interfaces.NewMockIEventPublisher(ctrl)

	uc := NewPaymentUseCase(repo, gateway, pub)
	uc.now = func() time.Time { return fixedNow }
	return uc, repo, gateway, pub
}

func TestPaymentUseCase_Create(t *testing.T) {
	t.Run("invalid quote id", func(t *testing.T) {
		uc := NewPaymentUseCase(nil, nil, nil)
		_, err := uc.Create(context.Background(), CreatePaymentInput{QuoteID: " ", WorkOrderID: "wo-1"})
		if !errors.Is(err, ErrInvalidPaymentQuote) {
			t.Fatalf("expected ErrInvalidPaymentQuote, got %v", err)
		}
	})

	t.Run("negative amount", func(t *testing.T) {
		uc := NewPaymentUseCase(nil, nil, nil)
		_, err := uc.Create(context.Background(), CreatePaymentInput{QuoteID: "q-1", WorkOrderID: "wo-1", Amount: -1})
		if !errors.Is(err, ErrInvalidPaymentAmount) {
			t.Fatalf("expected ErrInvalidPaymentAmount, got %v", err)
		}
	})

	t.Run("create defaults method to pix", func(t *testing.T) {
		uc, repo, _, pub := newPaymentUseCaseForTest(t)

		repo.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.Payment{})).DoAndReturn(
			func(_ context.Context, p entities.Payment) (entities.Payment, error) {
				if p.Method != entities.PaymentMethodPix {
					t.Fatalf("expected PIX default, got %s", p.Method)
				}
				if p.Status != entities.PaymentStatusPending {
					t.Fatalf("expected PENDING, got %s", p.Status)
				}
				if p.Version != 1 {
					t.Fatalf("expected version 1, got %d", p.Version)
				}
				return p, nil
			},
		)
		pub.EXPECT().Publish(gomock.Any(), events.PaymentCreatedKey, gomock.Any()).Return(nil)

		_, err := uc.Create(context.Background(), CreatePaymentInput{QuoteID: "q-1", WorkOrderID: "wo-1", Amount: 500})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestPaymentUseCase_ProcessPayment(t *testing.T) {
	pending := entities.Payment{
		ID:          "p-1",
		QuoteID:     "q-1",
		WorkOrderID: "wo-1",
		Amount:      500,
		Method:      entities.PaymentMethodPix,
		Status:      entities.PaymentStatusPending,
		Version:     1,
	}

	t.Run("approved charge", func(t *testing.T) {
		uc, repo, gateway, pub := newPaymentUseCaseForTest(t)

		repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(pending, nil)
		// PENDING -> PROCESSING, then PROCESSING -> APPROVED.
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Payment) (entities.Payment, error) { return p, nil },
		).Times(2)
		gateway.EXPECT().CreateCharge(gomock.Any(), 500.0, "Pagamento OS wo-1", "pix", gomock.Any()).Return(interfaces.ChargeResult{
			ExternalID: "mp-1",
			Status:     "approved",
		}, nil)
		pub.EXPECT().Publish(gomock.Any(), events.PaymentApprovedKey, gomock.Any()).Return(nil)

		payment, err := uc.ProcessPayment(context.Background(), "p-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if payment.Status != entities.PaymentStatusApproved {
			t.Fatalf("expected APPROVED, got %s", payment.Status)
		}
		if payment.GatewayID != "mp-1" {
			t.Fatalf("expected gateway reference mp-1, got %q", payment.GatewayID)
		}
		if payment.ApprovedAt == nil {
			t.Fatalf("expected ApprovedAt to be set")
		}
	})

	t.Run("rejected charge", func(t *testing.T) {
		uc, repo, gateway, pub := newPaymentUseCaseForTest(t)

		repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(pending, nil)
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Payment) (entities.Payment, error) { return p, nil },
		).Times(2)
		gateway.EXPECT().CreateCharge(gomock.Any(), 500.0, gomock.Any(), "pix", gomock.Any()).Return(interfaces.ChargeResult{
			ExternalID:   "mp-2",
			Status:       "rejected",
			StatusDetail: "insufficient_funds",
		}, nil)
		pub.EXPECT().Publish(gomock.Any(), events.PaymentRejectedKey, gomock.AssignableToTypeOf(events.PaymentRejected{})).DoAndReturn(
			func(_ context.Context, _ string, payload any) error {
				ev := payload.(events.PaymentRejected)
				if ev.Reason != "insufficient_funds" {
					t.Fatalf("expected rejection reason, got %q", ev.Reason)
				}
				return nil
			},
		)

		payment, err := uc.ProcessPayment(context.Background(), "p-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if payment.Status != entities.PaymentStatusRejected {
			t.Fatalf("expected REJECTED, got %s", payment.Status)
		}
	})

	t.Run("gateway failure records error and emits payment.failed", func(t *testing.T) {
		uc, repo, gateway, pub := newPaymentUseCaseForTest(t)

		repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(pending, nil)
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Payment) (entities.Payment, error) { return p, nil },
		).Times(2)
		gateway.EXPECT().CreateCharge(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(interfaces.ChargeResult{}, errors.New("gateway timeout"))
		pub.EXPECT().Publish(gomock.Any(), events.PaymentFailedKey, gomock.Any()).Return(nil)

		payment, err := uc.ProcessPayment(context.Background(), "p-1")
		if err == nil || err.Error() != "gateway timeout" {
			t.Fatalf("expected gateway error to surface, got %v", err)
		}
		if payment.Status != entities.PaymentStatusRejected {
			t.Fatalf("expected REJECTED, got %s", payment.Status)
		}
		if payment.LastError == nil || payment.LastError.Message != "gateway timeout" {
			t.Fatalf("expected LastError with gateway message, got %+v", payment.LastError)
		}
	})

	t.Run("already processed", func(t *testing.T) {
		uc, repo, _, _ := newPaymentUseCaseForTest(t)

		done := pending
		done.Status = entities.PaymentStatusApproved
		repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(done, nil)

		_, err := uc.ProcessPayment(context.Background(), "p-1")
		if !errors.Is(err, ErrPaymentTransition) {
			t.Fatalf("expected ErrPaymentTransition, got %v", err)
		}
	})
}

func TestPaymentUseCase_VerifyPayment(t *testing.T) {
	t.Run("no gateway reference is a no-op", func(t *testing.T) {
		uc, repo, _, _ := newPaymentUseCaseForTest(t)

		repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(entities.Payment{
			ID:     "p-1",
			Status: entities.PaymentStatusPending,
		}, nil)

		payment, err := uc.VerifyPayment(context.Background(), "p-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if payment.Status != entities.PaymentStatusPending {
			t.Fatalf("expected untouched payment, got %s", payment.Status)
		}
	})

	t.Run("reconciles approval", func(t *testing.T) {
		uc, repo, gateway, pub := newPaymentUseCaseForTest(t)

		repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(entities.Payment{
			ID:          "p-1",
			WorkOrderID: "wo-1",
			Status:      entities.PaymentStatusProcessing,
			GatewayID:   "mp-1",
			Version:     2,
		}, nil)
		gateway.EXPECT().GetStatus(gomock.Any(), "mp-1").Return(interfaces.ChargeResult{
			ExternalID: "mp-1",
			Status:     "approved",
		}, nil)
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Payment) (entities.Payment, error) { return p, nil },
		)
		pub.EXPECT().Publish(gomock.Any(), events.PaymentApprovedKey, gomock.Any()).Return(nil)

		payment, err := uc.VerifyPayment(context.Background(), "p-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if payment.Status != entities.PaymentStatusApproved {
			t.Fatalf("expected APPROVED, got %s", payment.Status)
		}
	})
}

func TestPaymentUseCase_CancelPayment(t *testing.T) {
	t.Run("cancels pending payment", func(t *testing.T) {
		uc, repo, _, _ := newPaymentUseCaseForTest(t)

		repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(entities.Payment{
			ID:     "p-1",
			Status: entities.PaymentStatusPending,
		}, nil)
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Payment) (entities.Payment, error) {
				if p.Status != entities.PaymentStatusRejected {
					t.Fatalf("expected REJECTED, got %s", p.Status)
				}
				if p.LastError == nil || p.LastError.Message != "Work order cancelled" {
					t.Fatalf("expected cancellation reason, got %+v", p.LastError)
				}
				return p, nil
			},
		)

		_, err := uc.CancelPayment(context.Background(), "p-1", "Work order cancelled")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("approved payment is left untouched", func(t *testing.T) {
		uc, repo, _, _ := newPaymentUseCaseForTest(t)

		repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(entities.Payment{
			ID:     "p-1",
			Status: entities.PaymentStatusApproved,
		}, nil)

		payment, err := uc.CancelPayment(context.Background(), "p-1", "too late")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if payment.Status != entities.PaymentStatusApproved {
			t.Fatalf("expected APPROVED untouched, got %s", payment.Status)
		}
	})
}

func TestPaymentUseCase_RefundPayment(t *testing.T) {
	t.Run("refund approved payment", func(t *testing.T) {
		uc, repo, gateway, pub := newPaymentUseCaseForTest(t)

		repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(entities.Payment{
			ID:          "p-1",
			WorkOrderID: "wo-1",
			Amount:      500,
			Status:      entities.PaymentStatusApproved,
			GatewayID:   "mp-1",
			Version:     3,
		}, nil)
		gateway.EXPECT().Refund(gomock.Any(), "mp-1").Return(interfaces.ChargeResult{Status: "refunded"}, nil)
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Payment) (entities.Payment, error) { return p, nil },
		)
		pub.EXPECT().Publish(gomock.Any(), events.PaymentRefundedKey, gomock.Any()).Return(nil)

		payment, err := uc.RefundPayment(context.Background(), "p-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if payment.Status != entities.PaymentStatusRefunded {
			t.Fatalf("expected REFUNDED, got %s", payment.Status)
		}
	})

	t.Run("only approved payments refund", func(t *testing.T) {
		uc, repo, _, _ := newPaymentUseCaseForTest(t)

		repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(entities.Payment{
			ID:     "p-1",
			Status: entities.PaymentStatusPending,
		}, nil)

		_, err := uc.RefundPayment(context.Background(), "p-1")
		if !errors.Is(err, ErrPaymentNotRefundable) {
			t.Fatalf("expected ErrPaymentNotRefundable, got %v", err)
		}
	})

	t.Run("gateway refund failure aborts", func(t *testing.T) {
		uc, repo, gateway, _ := newPaymentUseCaseForTest(t)

		repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(entities.Payment{
			ID:        "p-1",
			Status:    entities.PaymentStatusApproved,
			GatewayID: "mp-1",
		}, nil)
		gateway.EXPECT().Refund(gomock.Any(), "mp-1").Return(interfaces.ChargeResult{}, errors.New("provider error"))

		_, err := uc.RefundPayment(context.Background(), "p-1")
		if err == nil || err.Error() != "provider error" {
			t.Fatalf("expected provider error, got %v", err)
		}
	})
}

func TestMapPaymentMethod(t *testing.T) {
	cases := map[entities.PaymentMethod]string{
		entities.PaymentMethodPix:        "pix",
		entities.PaymentMethodCreditCard: "credit_card",
		entities.PaymentMethodDebitCard:  "debit_card",
		entities.PaymentMethodBoleto:     "boleto",
		entities.PaymentMethod("WEIRD"):  "pix",
	}
	for method, want := range cases {
		if got := MapPaymentMethod(method); got != want {
			t.Fatalf("MapPaymentMethod(%s) = %q, want %q", method, got, want)
		}
	}
}
