package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"garage_billing/internal/domain/entities"
	"garage_billing/internal/domain/events"
	"garage_billing/internal/usecase/interfaces"
	"garage_billing/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrInvalidPaymentID     = errors.New("invalid payment id")
	ErrInvalidPaymentQuote  = errors.New("invalid quote_id")
	ErrInvalidPaymentAmount = errors.New("invalid payment amount")
	ErrPaymentTransition    = errors.New("invalid payment status transition")
	ErrPaymentConflict      = errors.New("payment was modified concurrently")
	ErrPaymentNotRefundable = errors.New("payment is not refundable")
)

// Gateway status values shared with Mercado Pago's payment API.
const (
	gatewayStatusApproved = "approved"
	gatewayStatusRejected = "rejected"
)

// CreatePaymentInput is the domain command for payment creation. Amount is fixed
// from the source quote's total and never recomputed.
type CreatePaymentInput struct {
	QuoteID     string
	WorkOrderID string
	CustomerID  string
	Amount      float64
	Method      entities.PaymentMethod
}

// IPaymentUseCase encapsulates payment creation, gateway processing, verification
// and saga compensation (cancel/refund).

type IPaymentUseCase interface {
	Create(ctx context.Context, in CreatePaymentInput) (entities.Payment, error)
	ProcessPayment(ctx context.Context, id string) (entities.Payment, error)
	VerifyPayment(ctx context.Context, id string) (entities.Payment, error)
	CancelPayment(ctx context.Context, id, reason string) (entities.Payment, error)
	RefundPayment(ctx context.Context, id string) (entities.Payment, error)
	GetByID(ctx context.Context, id string) (entities.Payment, error)
	ListByWorkOrder(ctx context.Context, workOrderID string) ([]entities.Payment, error)
	ListAll(ctx context.Context) ([]entities.Payment, error)
}

type PaymentUseCase struct {
	repo      interfaces.IPaymentRepository
	gateway   interfaces.IPaymentGateway
	publisher interfaces.IEventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

var _ IPaymentUseCase = (*PaymentUseCase)(nil)

func NewPaymentUseCase(repo interfaces.IPaymentRepository, gateway interfaces.IPaymentGateway, publisher interfaces.IEventPublisher) *PaymentUseCase {
	return &PaymentUseCase{
		repo:      repo,
		gateway:   gateway,
		publisher: publisher,
		logger:    util.GetLogger(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (u *PaymentUseCase) Create(ctx context.Context, in CreatePaymentInput) (entities.Payment, error) {
	in.QuoteID = strings.TrimSpace(in.QuoteID)
	if in.QuoteID == "" {
		return entities.Payment{}, ErrInvalidPaymentQuote
	}
	in.WorkOrderID = strings.TrimSpace(in.WorkOrderID)
	if in.WorkOrderID == "" {
		return entities.Payment{}, ErrInvalidWorkOrder
	}
	if in.Amount < 0 {
		return entities.Payment{}, ErrInvalidPaymentAmount
	}
	if in.Method == "" {
		in.Method = entities.PaymentMethodPix
	}

	now := u.now()
	p := entities.Payment{
		ID:          uuid.NewString(),
		QuoteID:     in.QuoteID,
		WorkOrderID: in.WorkOrderID,
		CustomerID:  strings.TrimSpace(in.CustomerID),
		Amount:      in.Amount,
		Method:      in.Method,
		Status:      entities.PaymentStatusPending,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := u.repo.Create(ctx, p)
	if err != nil {
		return entities.Payment{}, err
	}

	u.emit(ctx, events.PaymentCreatedKey, events.PaymentCreated{
		PaymentID:   created.ID,
		QuoteID:     created.QuoteID,
		WorkOrderID: created.WorkOrderID,
		Amount:      created.Amount,
		Timestamp:   u.now(),
	})
	return created, nil
}

// ProcessPayment drives PENDING → PROCESSING → {APPROVED, REJECTED}. A gateway
// call failure marks the payment REJECTED, records the error, emits payment.failed
// and re-raises the failure so the invoking saga step can compensate.
func (u *PaymentUseCase) ProcessPayment(ctx context.Context, id string) (entities.Payment, error) {
	p, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Payment{}, err
	}
	if !p.CanTransition(entities.PaymentStatusProcessing) {
		return entities.Payment{}, ErrPaymentTransition
	}

	p.Status = entities.PaymentStatusProcessing
	p, err = u.save(ctx, p)
	if err != nil {
		return entities.Payment{}, err
	}

	u.logger.Info("processing payment",
		zap.String("payment_id", p.ID),
		zap.String("work_order_id", p.WorkOrderID),
		zap.Float64("amount", p.Amount))

	start := time.Now()
	res, gwErr := u.gateway.CreateCharge(ctx,
		p.Amount,
		fmt.Sprintf("Pagamento OS %s", p.WorkOrderID),
		MapPaymentMethod(p.Method),
		payerEmail(),
	)
	util.GatewayCallLatency.Observe(time.Since(start).Seconds())

	if gwErr != nil {
		u.logger.Error("payment gateway call failed",
			zap.String("payment_id", p.ID),
			zap.Error(gwErr))

		p.Status = entities.PaymentStatusRejected
		p.LastError = &entities.PaymentError{Message: gwErr.Error(), OccurredAt: u.now()}
		if p, err = u.save(ctx, p); err != nil {
			return entities.Payment{}, err
		}
		util.PaymentsRejectedTotal.Inc()

		u.emit(ctx, events.PaymentFailedKey, events.PaymentFailed{
			PaymentID:   p.ID,
			WorkOrderID: p.WorkOrderID,
			Error:       gwErr.Error(),
			Timestamp:   u.now(),
		})
		return p, gwErr
	}

	p.GatewayID = res.ExternalID
	p.GatewayStatus = res.Status
	p.GatewayResponse = res.Raw

	switch res.Status {
	case gatewayStatusApproved:
		now := u.now()
		p.Status = entities.PaymentStatusApproved
		p.ApprovedAt = &now
		if p, err = u.save(ctx, p); err != nil {
			return entities.Payment{}, err
		}
		util.PaymentsApprovedTotal.Inc()

		u.emit(ctx, events.PaymentApprovedKey, events.PaymentApproved{
			PaymentID:   p.ID,
			WorkOrderID: p.WorkOrderID,
			QuoteID:     p.QuoteID,
			Amount:      p.Amount,
			Timestamp:   u.now(),
		})

	case gatewayStatusRejected:
		p.Status = entities.PaymentStatusRejected
		if p, err = u.save(ctx, p); err != nil {
			return entities.Payment{}, err
		}
		util.PaymentsRejectedTotal.Inc()

		u.emit(ctx, events.PaymentRejectedKey, events.PaymentRejected{
			PaymentID:   p.ID,
			WorkOrderID: p.WorkOrderID,
			Reason:      res.StatusDetail,
			Timestamp:   u.now(),
		})

	default:
		// In-flight gateway statuses (in_process, pending, ...) are persisted
		// as-is and resolved later by VerifyPayment.
		if p, err = u.save(ctx, p); err != nil {
			return entities.Payment{}, err
		}
	}

	return p, nil
}

// VerifyPayment polls the gateway for payments that already have an external
// reference and reconciles an approved charge into the local state.
func (u *PaymentUseCase) VerifyPayment(ctx context.Context, id string) (entities.Payment, error) {
	p, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Payment{}, err
	}
	if p.GatewayID == "" {
		return p, nil
	}

	res, err := u.gateway.GetStatus(ctx, p.GatewayID)
	if err != nil {
		return entities.Payment{}, err
	}
	p.GatewayStatus = res.Status

	if res.Status == gatewayStatusApproved && p.Status != entities.PaymentStatusApproved {
		now := u.now()
		p.Status = entities.PaymentStatusApproved
		p.ApprovedAt = &now
		if p, err = u.save(ctx, p); err != nil {
			return entities.Payment{}, err
		}
		util.PaymentsApprovedTotal.Inc()

		u.emit(ctx, events.PaymentApprovedKey, events.PaymentApproved{
			PaymentID:   p.ID,
			WorkOrderID: p.WorkOrderID,
			QuoteID:     p.QuoteID,
			Amount:      p.Amount,
			Timestamp:   u.now(),
		})
		return p, nil
	}

	return u.save(ctx, p)
}

// CancelPayment applies the payment.cancelled compensation: a payment still in
// PENDING or PROCESSING is rejected with the cancellation reason recorded.
// Payments already settled are left untouched (idempotent at this level).
func (u *PaymentUseCase) CancelPayment(ctx context.Context, id, reason string) (entities.Payment, error) {
	p, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Payment{}, err
	}
	if !p.Cancellable() {
		u.logger.Info("payment not cancellable, skipping",
			zap.String("payment_id", p.ID),
			zap.String("status", string(p.Status)))
		return p, nil
	}

	p.Status = entities.PaymentStatusRejected
	p.LastError = &entities.PaymentError{Message: reason, OccurredAt: u.now()}
	p, err = u.save(ctx, p)
	if err != nil {
		return entities.Payment{}, err
	}
	util.PaymentsRejectedTotal.Inc()
	return p, nil
}

// RefundPayment applies the payment.refund-requested compensation. Refund is only
// valid from APPROVED.
func (u *PaymentUseCase) RefundPayment(ctx context.Context, id string) (entities.Payment, error) {
	p, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Payment{}, err
	}
	if p.Status != entities.PaymentStatusApproved {
		return entities.Payment{}, ErrPaymentNotRefundable
	}

	if p.GatewayID != "" {
		res, err := u.gateway.Refund(ctx, p.GatewayID)
		if err != nil {
			u.logger.Error("gateway refund failed",
				zap.String("payment_id", p.ID),
				zap.Error(err))
			return entities.Payment{}, err
		}
		p.GatewayStatus = res.Status
	}

	p.Status = entities.PaymentStatusRefunded
	p, err = u.save(ctx, p)
	if err != nil {
		return entities.Payment{}, err
	}

	u.emit(ctx, events.PaymentRefundedKey, events.PaymentRefunded{
		PaymentID:   p.ID,
		WorkOrderID: p.WorkOrderID,
		Amount:      p.Amount,
		Timestamp:   u.now(),
	})
	return p, nil
}

func (u *PaymentUseCase) GetByID(ctx context.Context, id string) (entities.Payment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Payment{}, ErrInvalidPaymentID
	}

	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Payment{}, err
	}
	if p.ID == "" {
		return entities.Payment{}, ErrPaymentNotFound
	}
	return p, nil
}

func (u *PaymentUseCase) ListByWorkOrder(ctx context.Context, workOrderID string) ([]entities.Payment, error) {
	workOrderID = strings.TrimSpace(workOrderID)
	if workOrderID == "" {
		return nil, ErrInvalidWorkOrder
	}
	return u.repo.ListByWorkOrderID(ctx, workOrderID)
}

func (u *PaymentUseCase) ListAll(ctx context.Context) ([]entities.Payment, error) {
	return u.repo.ListAll(ctx)
}

func (u *PaymentUseCase) save(ctx context.Context, p entities.Payment) (entities.Payment, error) {
	p.Version++
	p.UpdatedAt = u.now()

	updated, err := u.repo.Save(ctx, p)
	if err != nil {
		return entities.Payment{}, err
	}
	if updated.ID == "" {
		return entities.Payment{}, ErrPaymentConflict
	}
	return updated, nil
}

func (u *PaymentUseCase) emit(ctx context.Context, routingKey string, payload any) {
	if u.publisher == nil {
		return
	}
	if err := u.publisher.Publish(ctx, routingKey, payload); err != nil {
		u.logger.Warn("failed to publish payment event",
			zap.String("routing_key", routingKey),
			zap.Error(err))
	}
}

// MapPaymentMethod translates the domain payment method to the gateway's code.
// Unrecognized values fall back to pix.
func MapPaymentMethod(method entities.PaymentMethod) string {
	switch method {
	case entities.PaymentMethodPix:
		return "pix"
	case entities.PaymentMethodCreditCard:
		return "credit_card"
	case entities.PaymentMethodDebitCard:
		return "debit_card"
	case entities.PaymentMethodBoleto:
		return "boleto"
	default:
		return "pix"
	}
}

func payerEmail() string {
	if v := strings.TrimSpace(os.Getenv("BILLING_PAYER_EMAIL")); v != "" {
		return v
	}
	// Placeholder until payer contact comes from the customer service.
	return "customer@example.com"
}
