package handlers

import (
	"errors"
	"net/http"

	request "garage_billing/internal/adapter/http/dto/request"
	response "garage_billing/internal/adapter/http/dto/response"
	"garage_billing/internal/domain/entities"
	"garage_billing/internal/usecase"
	"garage_billing/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidPaymentPayload = pkg.NewDomainErrorSimple("INVALID_PAYMENT_INPUT", "Invalid payment payload", http.StatusBadRequest)
)

// PaymentHandler handles HTTP requests for payments. The quote use case is needed
// on creation: the charged amount always comes from the approved quote's total.

type PaymentHandler struct {
	payments usecase.IPaymentUseCase
	quotes   usecase.IQuoteUseCase
}

func NewPaymentHandler(payments usecase.IPaymentUseCase, quotes usecase.IQuoteUseCase) *PaymentHandler {
	return &PaymentHandler{payments: payments, quotes: quotes}
}

func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var payload request.CreatePaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPaymentPayload.HTTPStatus, errInvalidPaymentPayload.ToHTTPError())
		return
	}

	quote, err := h.quotes.GetByID(c.Request.Context(), payload.ResolveQuoteID())
	if err != nil {
		appErr := mapQuoteError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	payment, err := h.payments.Create(c.Request.Context(), usecase.CreatePaymentInput{
		QuoteID:     quote.ID,
		WorkOrderID: quote.WorkOrderID,
		CustomerID:  quote.CustomerID,
		Amount:      quote.TotalAmount,
		Method:      entities.PaymentMethod(payload.Method),
	})
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromPayment(payment))
}

func (h *PaymentHandler) GetPayment(c *gin.Context) {
	payment, err := h.payments.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromPayment(payment))
}

func (h *PaymentHandler) ListPayments(c *gin.Context) {
	if workOrderID := c.Query("work_order_id"); workOrderID != "" {
		payments, err := h.payments.ListByWorkOrder(c.Request.Context(), workOrderID)
		if err != nil {
			appErr := mapPaymentError(err)
			c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
			return
		}
		c.JSON(http.StatusOK, response.FromPayments(payments))
		return
	}

	payments, err := h.payments.ListAll(c.Request.Context())
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromPayments(payments))
}

// ProcessPayment submits the pending payment to the gateway.
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	payment, err := h.payments.ProcessPayment(c.Request.Context(), c.Param("id"))
	if err != nil && payment.ID == "" {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	// A rejected charge still returns the persisted payment with its error.
	c.JSON(http.StatusOK, response.FromPayment(payment))
}

// VerifyPayment reconciles the local state against the gateway's view.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	payment, err := h.payments.VerifyPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromPayment(payment))
}

func (h *PaymentHandler) CancelPayment(c *gin.Context) {
	var payload request.CancelPaymentRequest
	_ = c.ShouldBindJSON(&payload)

	reason := payload.Reason
	if reason == "" {
		reason = "Cancelled via API"
	}

	payment, err := h.payments.CancelPayment(c.Request.Context(), c.Param("id"), reason)
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromPayment(payment))
}

func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	payment, err := h.payments.RefundPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromPayment(payment))
}

func mapPaymentError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidPaymentID),
		errors.Is(err, usecase.ErrInvalidPaymentQuote),
		errors.Is(err, usecase.ErrInvalidPaymentAmount),
		errors.Is(err, usecase.ErrInvalidWorkOrder):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrPaymentNotRefundable):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_REFUNDABLE", "Only approved payments can be refunded", http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrPaymentTransition):
		return pkg.NewDomainErrorSimple("INVALID_PAYMENT_TRANSITION", "Payment status does not allow this operation", http.StatusConflict)
	case errors.Is(err, usecase.ErrPaymentConflict):
		return pkg.NewDomainErrorSimple("PAYMENT_CONFLICT", "Payment was modified concurrently, retry", http.StatusConflict)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
