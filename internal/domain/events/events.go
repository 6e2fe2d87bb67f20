package events

import "time"

// Routing keys on the garage-events topic exchange. Inbound keys are produced by
// the work-order service; outbound keys are produced here.
const (
	WorkOrderCreatedKey   = "work-order.created"
	WorkOrderApprovedKey  = "work-order.approved"
	WorkOrderCancelledKey = "work-order.cancelled"
	ExecutionFailedKey    = "execution.failed"

	QuoteCreatedKey  = "quote.created"
	QuoteApprovedKey = "quote.approved"
	QuoteRejectedKey = "quote.rejected"
	QuoteSentKey     = "quote.sent"

	PaymentCreatedKey         = "payment.created"
	PaymentApprovedKey        = "payment.approved"
	PaymentRejectedKey        = "payment.rejected"
	PaymentFailedKey          = "payment.failed"
	PaymentCancelledKey       = "payment.cancelled"
	PaymentRefundRequestedKey = "payment.refund-requested"
	PaymentRefundedKey        = "payment.refunded"
)

// Durable queue names, one per consumer purpose.
const (
	QueueWorkOrderCreated       = "billing-work-order-created"
	QueueWorkOrderApproved      = "billing-work-order-approved"
	QueueWorkOrderCancelled     = "billing-work-order-cancelled"
	QueueExecutionFailed        = "billing-execution-failed"
	QueuePaymentCancelled       = "billing-payment-cancelled"
	QueuePaymentRefundRequested = "billing-payment-refund-requested"
)

// Inbound events.

type WorkOrderCreated struct {
	WorkOrderID   string    `json:"workOrderId"`
	CustomerID    string    `json:"customerId"`
	Description   string    `json:"description"`
	EstimatedCost float64   `json:"estimatedCost"`
	Timestamp     time.Time `json:"timestamp"`
}

type WorkOrderApproved struct {
	WorkOrderID string    `json:"workOrderId"`
	CustomerID  string    `json:"customerId"`
	Timestamp   time.Time `json:"timestamp"`
}

type WorkOrderCancelled struct {
	WorkOrderID string    `json:"workOrderId"`
	Reason      string    `json:"reason"`
	Timestamp   time.Time `json:"timestamp"`
}

type ExecutionFailed struct {
	WorkOrderID string    `json:"workOrderId"`
	Reason      string    `json:"reason"`
	Timestamp   time.Time `json:"timestamp"`
}

// Outbound events. Every payload carries an ISO-8601 timestamp.

type QuoteCreated struct {
	QuoteID     string    `json:"quoteId"`
	WorkOrderID string    `json:"workOrderId"`
	CustomerID  string    `json:"customerId"`
	TotalAmount float64   `json:"totalAmount"`
	Timestamp   time.Time `json:"timestamp"`
}

type QuoteApproved struct {
	QuoteID     string    `json:"quoteId"`
	WorkOrderID string    `json:"workOrderId"`
	TotalAmount float64   `json:"totalAmount"`
	Timestamp   time.Time `json:"timestamp"`
}

type QuoteRejected struct {
	QuoteID     string    `json:"quoteId"`
	WorkOrderID string    `json:"workOrderId"`
	Timestamp   time.Time `json:"timestamp"`
}

type QuoteSent struct {
	QuoteID     string    `json:"quoteId"`
	WorkOrderID string    `json:"workOrderId"`
	CustomerID  string    `json:"customerId"`
	TotalAmount float64   `json:"totalAmount"`
	Timestamp   time.Time `json:"timestamp"`
}

type PaymentCreated struct {
	PaymentID   string    `json:"paymentId"`
	QuoteID     string    `json:"quoteId"`
	WorkOrderID string    `json:"workOrderId"`
	Amount      float64   `json:"amount"`
	Timestamp   time.Time `json:"timestamp"`
}

type PaymentApproved struct {
	PaymentID   string    `json:"paymentId"`
	WorkOrderID string    `json:"workOrderId"`
	QuoteID     string    `json:"quoteId"`
	Amount      float64   `json:"amount"`
	Timestamp   time.Time `json:"timestamp"`
}

type PaymentRejected struct {
	PaymentID   string    `json:"paymentId"`
	WorkOrderID string    `json:"workOrderId"`
	Reason      string    `json:"reason"`
	Timestamp   time.Time `json:"timestamp"`
}

type PaymentFailed struct {
	PaymentID   string    `json:"paymentId"`
	WorkOrderID string    `json:"workOrderId"`
	Error       string    `json:"error"`
	Timestamp   time.Time `json:"timestamp"`
}

type PaymentCancelled struct {
	PaymentID   string    `json:"paymentId"`
	WorkOrderID string    `json:"workOrderId"`
	Reason      string    `json:"reason"`
	Timestamp   time.Time `json:"timestamp"`
}

type PaymentRefundRequested struct {
	PaymentID   string    `json:"paymentId"`
	WorkOrderID string    `json:"workOrderId"`
	Amount      float64   `json:"amount"`
	Reason      string    `json:"reason"`
	Timestamp   time.Time `json:"timestamp"`
}

type PaymentRefunded struct {
	PaymentID   string    `json:"paymentId"`
	WorkOrderID string    `json:"workOrderId"`
	Amount      float64   `json:"amount"`
	Timestamp   time.Time `json:"timestamp"`
}
