package usecase

import (
	"context"
	"errors"
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
	ErrQuoteNotFound     = errors.New("quote not found")
	ErrInvalidWorkOrder  = errors.New("invalid work_order_id")
	ErrInvalidCustomerID = errors.New("invalid customer_id")
	ErrInvalidQuoteID    = errors.New("invalid quote id")
	ErrInvalidQuoteItems = errors.New("invalid quote items")
	ErrQuoteExpired      = errors.New("quote has expired")
	ErrQuoteTransition   = errors.New("invalid quote status transition")
	ErrQuoteConflict     = errors.New("quote was modified concurrently")
)

const quoteValidityDays = 7

// CreateQuoteInput is the domain command for quote creation. ValidUntil is
// optional; it defaults to creation time + 7 days.
type CreateQuoteInput struct {
	WorkOrderID string
	CustomerID  string
	Items       []entities.QuoteItem
	ValidUntil  *time.Time
}

// IQuoteUseCase exposes quote operations.
//
// Every state transition emits its domain event through the publisher; emission is
// best-effort (the persisted quote is the source of truth, a publish failure is
// logged and dropped).

type IQuoteUseCase interface {
	Create(ctx context.Context, in CreateQuoteInput) (entities.Quote, error)
	Approve(ctx context.Context, id string) (entities.Quote, error)
	Reject(ctx context.Context, id string) (entities.Quote, error)
	Send(ctx context.Context, id string) (entities.Quote, error)
	GetByID(ctx context.Context, id string) (entities.Quote, error)
	ListByWorkOrder(ctx context.Context, workOrderID string) ([]entities.Quote, error)
	ListAll(ctx context.Context) ([]entities.Quote, error)
}

type QuoteUseCase struct {
	repo      interfaces.IQuoteRepository
	publisher interfaces.IEventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

var _ IQuoteUseCase = (*QuoteUseCase)(nil)

func NewQuoteUseCase(repo interfaces.IQuoteRepository, publisher interfaces.IEventPublisher) *QuoteUseCase {
	return &QuoteUseCase{
		repo:      repo,
		publisher: publisher,
		logger:    util.GetLogger(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (u *QuoteUseCase) Create(ctx context.Context, in CreateQuoteInput) (entities.Quote, error) {
	in.WorkOrderID = strings.TrimSpace(in.WorkOrderID)
	if in.WorkOrderID == "" {
		return entities.Quote{}, ErrInvalidWorkOrder
	}
	in.CustomerID = strings.TrimSpace(in.CustomerID)
	if in.CustomerID == "" {
		return entities.Quote{}, ErrInvalidCustomerID
	}
	if len(in.Items) == 0 {
		return entities.Quote{}, ErrInvalidQuoteItems
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 || it.UnitPrice < 0 {
			return entities.Quote{}, ErrInvalidQuoteItems
		}
	}

	now := u.now()
	validUntil := now.AddDate(0, 0, quoteValidityDays)
	if in.ValidUntil != nil {
		validUntil = in.ValidUntil.UTC()
	}

	q := entities.Quote{
		ID:          uuid.NewString(),
		WorkOrderID: in.WorkOrderID,
		CustomerID:  in.CustomerID,
		Items:       in.Items,
		TotalAmount: entities.TotalOf(in.Items),
		Status:      entities.QuoteStatusPending,
		ValidUntil:  validUntil,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := u.repo.Create(ctx, q)
	if err != nil {
		return entities.Quote{}, err
	}
	util.QuotesCreatedTotal.Inc()

	u.emit(ctx, events.QuoteCreatedKey, events.QuoteCreated{
		QuoteID:     created.ID,
		WorkOrderID: created.WorkOrderID,
		CustomerID:  created.CustomerID,
		TotalAmount: created.TotalAmount,
		Timestamp:   u.now(),
	})
	return created, nil
}

func (u *QuoteUseCase) Approve(ctx context.Context, id string) (entities.Quote, error) {
	q, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Quote{}, err
	}

	now := u.now()
	if q.Expired(now) {
		q.Status = entities.QuoteStatusExpired
		if _, err := u.save(ctx, q); err != nil {
			return entities.Quote{}, err
		}
		return entities.Quote{}, ErrQuoteExpired
	}

	if !q.CanTransition(entities.QuoteStatusApproved) {
		return entities.Quote{}, ErrQuoteTransition
	}
	q.Status = entities.QuoteStatusApproved
	q.ApprovedAt = &now

	updated, err := u.save(ctx, q)
	if err != nil {
		return entities.Quote{}, err
	}
	util.QuotesApprovedTotal.Inc()

	u.emit(ctx, events.QuoteApprovedKey, events.QuoteApproved{
		QuoteID:     updated.ID,
		WorkOrderID: updated.WorkOrderID,
		TotalAmount: updated.TotalAmount,
		Timestamp:   u.now(),
	})
	return updated, nil
}

func (u *QuoteUseCase) Reject(ctx context.Context, id string) (entities.Quote, error) {
	q, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Quote{}, err
	}
	if !q.CanTransition(entities.QuoteStatusRejected) {
		return entities.Quote{}, ErrQuoteTransition
	}
	q.Status = entities.QuoteStatusRejected

	updated, err := u.save(ctx, q)
	if err != nil {
		return entities.Quote{}, err
	}

	u.emit(ctx, events.QuoteRejectedKey, events.QuoteRejected{
		QuoteID:     updated.ID,
		WorkOrderID: updated.WorkOrderID,
		Timestamp:   u.now(),
	})
	return updated, nil
}

func (u *QuoteUseCase) Send(ctx context.Context, id string) (entities.Quote, error) {
	q, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Quote{}, err
	}
	if !q.CanTransition(entities.QuoteStatusSent) {
		return entities.Quote{}, ErrQuoteTransition
	}
	q.Status = entities.QuoteStatusSent

	updated, err := u.save(ctx, q)
	if err != nil {
		return entities.Quote{}, err
	}

	u.emit(ctx, events.QuoteSentKey, events.QuoteSent{
		QuoteID:     updated.ID,
		WorkOrderID: updated.WorkOrderID,
		CustomerID:  updated.CustomerID,
		TotalAmount: updated.TotalAmount,
		Timestamp:   u.now(),
	})
	return updated, nil
}

func (u *QuoteUseCase) GetByID(ctx context.Context, id string) (entities.Quote, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Quote{}, ErrInvalidQuoteID
	}

	q, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Quote{}, err
	}
	if q.ID == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}
	return q, nil
}

func (u *QuoteUseCase) ListByWorkOrder(ctx context.Context, workOrderID string) ([]entities.Quote, error) {
	workOrderID = strings.TrimSpace(workOrderID)
	if workOrderID == "" {
		return nil, ErrInvalidWorkOrder
	}
	return u.repo.ListByWorkOrderID(ctx, workOrderID)
}

func (u *QuoteUseCase) ListAll(ctx context.Context) ([]entities.Quote, error) {
	return u.repo.ListAll(ctx)
}

// save bumps the optimistic version and persists. A zero-value result from the
// repository means the conditional write lost a concurrent update.
func (u *QuoteUseCase) save(ctx context.Context, q entities.Quote) (entities.Quote, error) {
	q.Version++
	q.UpdatedAt = u.now()

	updated, err := u.repo.Save(ctx, q)
	if err != nil {
		return entities.Quote{}, err
	}
	if updated.ID == "" {
		return entities.Quote{}, ErrQuoteConflict
	}
	return updated, nil
}

func (u *QuoteUseCase) emit(ctx context.Context, routingKey string, payload any) {
	if u.publisher == nil {
		return
	}
	if err := u.publisher.Publish(ctx, routingKey, payload); err != nil {
		u.logger.Warn("failed to publish quote event",
			zap.String("routing_key", routingKey),
			zap.Error(err))
	}
}
