package saga

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"garage_billing/internal/domain/entities"
	"garage_billing/internal/domain/events"
	"garage_billing/internal/usecase"
	mock_interfaces "garage_billing/internal/usecase/interfaces/mocks"
	mock_usecase "garage_billing/internal/usecase/mocks"

	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newRouterForTest(t *testing.T) (*Router, *mock_usecase.MockIQuoteUseCase, *mock_usecase.MockIPaymentUseCase, *mock_interfaces.MockIEventPublisher) {
	t.Helper()
	ctrl := gomock.NewController(t)
	quotes := mock_usecase.NewMockIQuoteUseCase(ctrl)
	payments := mock_usecase.NewMockIPaymentUseCase(ctrl)
	pub := mock_interfaces.NewMockIEventPublisher(ctrl)

	r := NewRouter(quotes, payments, pub)
	r.now = func() time.Time { return fixedNow }
	return r, quotes, payments, pub
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestRouter_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	sub := mock_interfaces.NewMockIEventSubscriber(ctrl)
	r, _, _, _ := newRouterForTest(t)

	sub.EXPECT().Subscribe(events.QueueWorkOrderCreated, events.WorkOrderCreatedKey, gomock.Any()).Return(nil)
	sub.EXPECT().Subscribe(events.QueueWorkOrderApproved, events.WorkOrderApprovedKey, gomock.Any()).Return(nil)
	sub.EXPECT().Subscribe(events.QueueWorkOrderCancelled, events.WorkOrderCancelledKey, gomock.Any()).Return(nil)
	sub.EXPECT().Subscribe(events.QueueExecutionFailed, events.ExecutionFailedKey, gomock.Any()).Return(nil)
	sub.EXPECT().Subscribe(events.QueuePaymentCancelled, events.PaymentCancelledKey, gomock.Any()).Return(nil)
	sub.EXPECT().Subscribe(events.QueuePaymentRefundRequested, events.PaymentRefundRequestedKey, gomock.Any()).Return(nil)

	if err := r.Register(sub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRouter_HandleWorkOrderCreated(t *testing.T) {
	t.Run("creates the initial quote", func(t *testing.T) {
		r, quotes, _, _ := newRouterForTest(t)

		quotes.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(usecase.CreateQuoteInput{})).DoAndReturn(
			func(_ context.Context, in usecase.CreateQuoteInput) (entities.Quote, error) {
				if in.WorkOrderID != "wo-1" || in.CustomerID != "c-1" {
					t.Fatalf("unexpected input: %+v", in)
				}
				if len(in.Items) != 1 {
					t.Fatalf("expected single evaluation item, got %d", len(in.Items))
				}
				item := in.Items[0]
				if item.Quantity != 1 || item.UnitPrice != 350 {
					t.Fatalf("unexpected item: %+v", item)
				}
				return entities.Quote{ID: "q-1"}, nil
			},
		)

		body := mustMarshal(t, events.WorkOrderCreated{
			WorkOrderID:   "wo-1",
			CustomerID:    "c-1",
			Description:   "Engine noise",
			EstimatedCost: 350,
			Timestamp:     fixedNow,
		})
		if err := r.HandleWorkOrderCreated(context.Background(), body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("malformed payload", func(t *testing.T) {
		r, _, _, _ := newRouterForTest(t)
		if err := r.HandleWorkOrderCreated(context.Background(), []byte("{")); err == nil {
			t.Fatalf("expected unmarshal error")
		}
	})
}

func TestRouter_HandleWorkOrderApproved(t *testing.T) {
	t.Run("approves latest quote and creates payment", func(t *testing.T) {
		r, quotes, payments, _ := newRouterForTest(t)

		older := entities.Quote{ID: "q-1", Status: entities.QuoteStatusSent, CreatedAt: fixedNow.Add(-time.Hour)}
		latest := entities.Quote{ID: "q-2", Status: entities.QuoteStatusSent, TotalAmount: 750, CreatedAt: fixedNow}

		quotes.EXPECT().ListByWorkOrder(gomock.Any(), "wo-1").Return([]entities.Quote{older, latest}, nil)
		quotes.EXPECT().Approve(gomock.Any(), "q-2").DoAndReturn(
			func(_ context.Context, id string) (entities.Quote, error) {
				latest.Status = entities.QuoteStatusApproved
				return latest, nil
			},
		)
		payments.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(usecase.CreatePaymentInput{})).DoAndReturn(
			func(_ context.Context, in usecase.CreatePaymentInput) (entities.Payment, error) {
				if in.QuoteID != "q-2" || in.Amount != 750 {
					t.Fatalf("unexpected payment input: %+v", in)
				}
				if in.Method != entities.PaymentMethodPix {
					t.Fatalf("expected PIX, got %s", in.Method)
				}
				return entities.Payment{ID: "p-1"}, nil
			},
		)

		body := mustMarshal(t, events.WorkOrderApproved{WorkOrderID: "wo-1", CustomerID: "c-1", Timestamp: fixedNow})
		if err := r.HandleWorkOrderApproved(context.Background(), body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("no quote is not an error", func(t *testing.T) {
		r, quotes, _, _ := newRouterForTest(t)

		quotes.EXPECT().ListByWorkOrder(gomock.Any(), "wo-1").Return(nil, nil)

		body := mustMarshal(t, events.WorkOrderApproved{WorkOrderID: "wo-1", Timestamp: fixedNow})
		if err := r.HandleWorkOrderApproved(context.Background(), body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("already approved quote skips re-approval", func(t *testing.T) {
		r, quotes, payments, _ := newRouterForTest(t)

		approved := entities.Quote{ID: "q-1", Status: entities.QuoteStatusApproved, TotalAmount: 300, CreatedAt: fixedNow}
		quotes.EXPECT().ListByWorkOrder(gomock.Any(), "wo-1").Return([]entities.Quote{approved}, nil)
		payments.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Payment{ID: "p-1"}, nil)

		body := mustMarshal(t, events.WorkOrderApproved{WorkOrderID: "wo-1", Timestamp: fixedNow})
		if err := r.HandleWorkOrderApproved(context.Background(), body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestRouter_HandleWorkOrderCancelled(t *testing.T) {
	t.Run("rejects open quotes and emits one payment.cancelled per in-flight payment", func(t *testing.T) {
		r, quotes, payments, pub := newRouterForTest(t)

		quotes.EXPECT().ListByWorkOrder(gomock.Any(), "wo-1").Return([]entities.Quote{
			{ID: "q-1", Status: entities.QuoteStatusSent},
			{ID: "q-2", Status: entities.QuoteStatusApproved},
		}, nil)
		quotes.EXPECT().Reject(gomock.Any(), "q-1").Return(entities.Quote{ID: "q-1", Status: entities.QuoteStatusRejected}, nil)

		payments.EXPECT().ListByWorkOrder(gomock.Any(), "wo-1").Return([]entities.Payment{
			{ID: "p-1", Status: entities.PaymentStatusPending},
			{ID: "p-2", Status: entities.PaymentStatusApproved},
		}, nil)
		pub.EXPECT().Publish(gomock.Any(), events.PaymentCancelledKey, gomock.AssignableToTypeOf(events.PaymentCancelled{})).DoAndReturn(
			func(_ context.Context, _ string, payload any) error {
				ev := payload.(events.PaymentCancelled)
				if ev.PaymentID != "p-1" {
					t.Fatalf("expected compensation for p-1 only, got %s", ev.PaymentID)
				}
				if ev.Reason != "Customer gave up" {
					t.Fatalf("unexpected reason %q", ev.Reason)
				}
				return nil
			},
		)

		body := mustMarshal(t, events.WorkOrderCancelled{WorkOrderID: "wo-1", Reason: "Customer gave up", Timestamp: fixedNow})
		if err := r.HandleWorkOrderCancelled(context.Background(), body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("empty reason gets a default", func(t *testing.T) {
		r, quotes, payments, pub := newRouterForTest(t)

		quotes.EXPECT().ListByWorkOrder(gomock.Any(), "wo-1").Return(nil, nil)
		payments.EXPECT().ListByWorkOrder(gomock.Any(), "wo-1").Return([]entities.Payment{
			{ID: "p-1", Status: entities.PaymentStatusProcessing},
		}, nil)
		pub.EXPECT().Publish(gomock.Any(), events.PaymentCancelledKey, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, payload any) error {
				if payload.(events.PaymentCancelled).Reason != "Work order cancelled" {
					t.Fatalf("expected default reason")
				}
				return nil
			},
		)

		body := mustMarshal(t, events.WorkOrderCancelled{WorkOrderID: "wo-1", Timestamp: fixedNow})
		if err := r.HandleWorkOrderCancelled(context.Background(), body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestRouter_HandleExecutionFailed(t *testing.T) {
	r, _, payments, pub := newRouterForTest(t)

	payments.EXPECT().ListByWorkOrder(gomock.Any(), "wo-1").Return([]entities.Payment{
		{ID: "p-1", Status: entities.PaymentStatusApproved, Amount: 500},
		{ID: "p-2", Status: entities.PaymentStatusRejected},
	}, nil)
	pub.EXPECT().Publish(gomock.Any(), events.PaymentRefundRequestedKey, gomock.AssignableToTypeOf(events.PaymentRefundRequested{})).DoAndReturn(
		func(_ context.Context, _ string, payload any) error {
			ev := payload.(events.PaymentRefundRequested)
			if ev.PaymentID != "p-1" || ev.Amount != 500 {
				t.Fatalf("unexpected refund request: %+v", ev)
			}
			return nil
		},
	)

	body := mustMarshal(t, events.ExecutionFailed{WorkOrderID: "wo-1", Reason: "Part broke during install", Timestamp: fixedNow})
	if err := r.HandleExecutionFailed(context.Background(), body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRouter_HandlePaymentCancelled(t *testing.T) {
	r, _, payments, _ := newRouterForTest(t)

	payments.EXPECT().CancelPayment(gomock.Any(), "p-1", "Work order cancelled").Return(entities.Payment{ID: "p-1"}, nil)

	body := mustMarshal(t, events.PaymentCancelled{PaymentID: "p-1", WorkOrderID: "wo-1", Reason: "Work order cancelled", Timestamp: fixedNow})
	if err := r.HandlePaymentCancelled(context.Background(), body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRouter_HandlePaymentRefundRequested(t *testing.T) {
	r, _, payments, _ := newRouterForTest(t)

	payments.EXPECT().RefundPayment(gomock.Any(), "p-1").Return(entities.Payment{ID: "p-1"}, nil)

	body := mustMarshal(t, events.PaymentRefundRequested{PaymentID: "p-1", WorkOrderID: "wo-1", Amount: 500, Timestamp: fixedNow})
	if err := r.HandlePaymentRefundRequested(context.Background(), body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
