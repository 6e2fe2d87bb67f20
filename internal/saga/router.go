package saga

import (
	"context"
	"encoding/json"
	"time"

	"garage_billing/internal/domain/entities"
	"garage_billing/internal/domain/events"
	"garage_billing/internal/usecase"
	"garage_billing/internal/usecase/interfaces"
	"garage_billing/internal/util"

	"go.uber.org/zap"
)

// Router binds inbound work-order lifecycle events to quote/payment operations and
// emits compensating events when a downstream step failed.
//
// The router is a pure orchestrator: it never mutates aggregate fields directly and
// never talks to the payment gateway. Payment-side compensation travels as new
// outbound events (payment.cancelled, payment.refund-requested) consumed by the
// payment component's own subscriptions.
type Router struct {
	quotes    usecase.IQuoteUseCase
	payments  usecase.IPaymentUseCase
	publisher interfaces.IEventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewRouter(quotes usecase.IQuoteUseCase, payments usecase.IPaymentUseCase, publisher interfaces.IEventPublisher) *Router {
	return &Router{
		quotes:    quotes,
		payments:  payments,
		publisher: publisher,
		logger:    util.GetLogger(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Register declares every saga subscription on the given subscriber. Run once at
// startup; the connector re-establishes the queues after each reconnect.
func (r *Router) Register(sub interfaces.IEventSubscriber) error {
	regs := []struct {
		queue      string
		routingKey string
		handler    interfaces.EventHandler
	}{
		{events.QueueWorkOrderCreated, events.WorkOrderCreatedKey, r.HandleWorkOrderCreated},
		{events.QueueWorkOrderApproved, events.WorkOrderApprovedKey, r.HandleWorkOrderApproved},
		{events.QueueWorkOrderCancelled, events.WorkOrderCancelledKey, r.HandleWorkOrderCancelled},
		{events.QueueExecutionFailed, events.ExecutionFailedKey, r.HandleExecutionFailed},
		{events.QueuePaymentCancelled, events.PaymentCancelledKey, r.HandlePaymentCancelled},
		{events.QueuePaymentRefundRequested, events.PaymentRefundRequestedKey, r.HandlePaymentRefundRequested},
	}

	for _, reg := range regs {
		if err := sub.Subscribe(reg.queue, reg.routingKey, reg.handler); err != nil {
			return err
		}
	}
	return nil
}

// HandleWorkOrderCreated generates the initial quote with a single
// evaluation/diagnostic line item priced at the event's estimated cost.
func (r *Router) HandleWorkOrderCreated(ctx context.Context, body []byte) error {
	var ev events.WorkOrderCreated
	if err := json.Unmarshal(body, &ev); err != nil {
		return err
	}

	r.logger.Info("work order created - generating initial quote",
		zap.String("work_order_id", ev.WorkOrderID))

	description := ev.Description
	if description == "" {
		description = "Verificação geral"
	}

	quote, err := r.quotes.Create(ctx, usecase.CreateQuoteInput{
		WorkOrderID: ev.WorkOrderID,
		CustomerID:  ev.CustomerID,
		Items: []entities.QuoteItem{
			{
				Name:        "Avaliação/Diagnóstico",
				Description: "Avaliação inicial: " + description,
				Quantity:    1,
				UnitPrice:   ev.EstimatedCost,
			},
		},
	})
	if err != nil {
		r.logger.Error("failed to create quote for work order",
			zap.String("work_order_id", ev.WorkOrderID),
			zap.Error(err))
		return err
	}

	r.logger.Info("quote created for work order",
		zap.String("quote_id", quote.ID),
		zap.String("work_order_id", ev.WorkOrderID))
	return nil
}

// HandleWorkOrderApproved approves the most recent quote for the work order (when
// not already approved) and creates a payment from its total, defaulting to PIX.
func (r *Router) HandleWorkOrderApproved(ctx context.Context, body []byte) error {
	var ev events.WorkOrderApproved
	if err := json.Unmarshal(body, &ev); err != nil {
		return err
	}

	r.logger.Info("work order approved - creating payment",
		zap.String("work_order_id", ev.WorkOrderID))

	quotes, err := r.quotes.ListByWorkOrder(ctx, ev.WorkOrderID)
	if err != nil {
		return err
	}
	if len(quotes) == 0 {
		r.logger.Warn("no quote found for work order",
			zap.String("work_order_id", ev.WorkOrderID))
		return nil
	}

	quote := mostRecentQuote(quotes)

	if quote.Status != entities.QuoteStatusApproved {
		quote, err = r.quotes.Approve(ctx, quote.ID)
		if err != nil {
			r.logger.Error("failed to approve quote",
				zap.String("quote_id", quote.ID),
				zap.String("work_order_id", ev.WorkOrderID),
				zap.Error(err))
			return err
		}
	}

	payment, err := r.payments.Create(ctx, usecase.CreatePaymentInput{
		QuoteID:     quote.ID,
		WorkOrderID: ev.WorkOrderID,
		CustomerID:  ev.CustomerID,
		Amount:      quote.TotalAmount,
		Method:      entities.PaymentMethodPix,
	})
	if err != nil {
		r.logger.Error("failed to create payment for work order",
			zap.String("work_order_id", ev.WorkOrderID),
			zap.Error(err))
		return err
	}

	r.logger.Info("payment created for work order",
		zap.String("payment_id", payment.ID),
		zap.String("work_order_id", ev.WorkOrderID))
	return nil
}

// HandleWorkOrderCancelled is the saga compensation for cancellation: open quotes
// are rejected locally; in-flight payments are compensated by delegation, through a
// payment.cancelled event per payment.
func (r *Router) HandleWorkOrderCancelled(ctx context.Context, body []byte) error {
	var ev events.WorkOrderCancelled
	if err := json.Unmarshal(body, &ev); err != nil {
		return err
	}

	r.logger.Info("work order cancelled - compensating quotes/payments",
		zap.String("work_order_id", ev.WorkOrderID))

	var firstErr error

	quotes, err := r.quotes.ListByWorkOrder(ctx, ev.WorkOrderID)
	if err != nil {
		return err
	}
	for _, q := range quotes {
		if q.Status != entities.QuoteStatusPending && q.Status != entities.QuoteStatusSent {
			continue
		}
		if _, err := r.quotes.Reject(ctx, q.ID); err != nil {
			r.logger.Error("failed to reject quote during compensation",
				zap.String("quote_id", q.ID),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		r.logger.Info("rejected quote for cancelled work order",
			zap.String("quote_id", q.ID),
			zap.String("work_order_id", ev.WorkOrderID))
	}

	reason := ev.Reason
	if reason == "" {
		reason = "Work order cancelled"
	}

	payments, err := r.payments.ListByWorkOrder(ctx, ev.WorkOrderID)
	if err != nil {
		if firstErr == nil {
			firstErr = err
		}
		return firstErr
	}
	for _, p := range payments {
		if !p.Cancellable() {
			continue
		}
		err := r.publisher.Publish(ctx, events.PaymentCancelledKey, events.PaymentCancelled{
			PaymentID:   p.ID,
			WorkOrderID: ev.WorkOrderID,
			Reason:      reason,
			Timestamp:   r.now(),
		})
		if err != nil {
			r.logger.Error("failed to publish payment.cancelled",
				zap.String("payment_id", p.ID),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		util.SagaCompensationsTotal.WithLabelValues(events.PaymentCancelledKey).Inc()
	}

	return firstErr
}

// HandleExecutionFailed requests a refund for every approved payment on the failed
// work order.
func (r *Router) HandleExecutionFailed(ctx context.Context, body []byte) error {
	var ev events.ExecutionFailed
	if err := json.Unmarshal(body, &ev); err != nil {
		return err
	}

	r.logger.Info("execution failed - requesting refunds",
		zap.String("work_order_id", ev.WorkOrderID))

	payments, err := r.payments.ListByWorkOrder(ctx, ev.WorkOrderID)
	if err != nil {
		return err
	}

	reason := ev.Reason
	if reason == "" {
		reason = "Execution failed"
	}

	var firstErr error
	for _, p := range payments {
		if p.Status != entities.PaymentStatusApproved {
			continue
		}
		err := r.publisher.Publish(ctx, events.PaymentRefundRequestedKey, events.PaymentRefundRequested{
			PaymentID:   p.ID,
			WorkOrderID: ev.WorkOrderID,
			Amount:      p.Amount,
			Reason:      reason,
			Timestamp:   r.now(),
		})
		if err != nil {
			r.logger.Error("failed to publish payment.refund-requested",
				zap.String("payment_id", p.ID),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		util.SagaCompensationsTotal.WithLabelValues(events.PaymentRefundRequestedKey).Inc()
	}

	return firstErr
}

// HandlePaymentCancelled is the payment component's side of the cancellation
// compensation published by HandleWorkOrderCancelled.
func (r *Router) HandlePaymentCancelled(ctx context.Context, body []byte) error {
	var ev events.PaymentCancelled
	if err := json.Unmarshal(body, &ev); err != nil {
		return err
	}

	_, err := r.payments.CancelPayment(ctx, ev.PaymentID, ev.Reason)
	if err != nil {
		r.logger.Error("failed to cancel payment",
			zap.String("payment_id", ev.PaymentID),
			zap.Error(err))
	}
	return err
}

// HandlePaymentRefundRequested executes the refund against the gateway through the
// payment use case.
func (r *Router) HandlePaymentRefundRequested(ctx context.Context, body []byte) error {
	var ev events.PaymentRefundRequested
	if err := json.Unmarshal(body, &ev); err != nil {
		return err
	}

	_, err := r.payments.RefundPayment(ctx, ev.PaymentID)
	if err != nil {
		r.logger.Error("failed to refund payment",
			zap.String("payment_id", ev.PaymentID),
			zap.Error(err))
	}
	return err
}

func mostRecentQuote(quotes []entities.Quote) entities.Quote {
	latest := quotes[0]
	for _, q := range quotes[1:] {
		if q.CreatedAt.After(latest.CreatedAt) {
			latest = q
		}
	}
	return latest
}
