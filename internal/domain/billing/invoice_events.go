package billing

import (
	"github.com/google/uuid"
	"github.com/mfg-erp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Invoice event types
const (
	EventInvoiceCreated   = "invoice.created"
	EventInvoiceIssued    = "invoice.issued"
	EventPaymentRecorded  = "invoice.payment_recorded"
	EventInvoiceCancelled = "invoice.cancelled"
)

// InvoiceCreatedEvent is raised when a new invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string    `json:"invoiceNumber"`
	CustomerID    uuid.UUID `json:"customerId"`
}

// NewInvoiceCreatedEvent creates a new invoice created event
func NewInvoiceCreatedEvent(invoice *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvoiceCreated, "Invoice", invoice.ID),
		InvoiceNumber:   invoice.InvoiceNumber,
		CustomerID:      invoice.CustomerID,
	}
}

// InvoiceIssuedEvent is raised when an invoice is finalized
type InvoiceIssuedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoiceNumber"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
}

// NewInvoiceIssuedEvent creates a new issued event
func NewInvoiceIssuedEvent(invoice *Invoice) *InvoiceIssuedEvent {
	return &InvoiceIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvoiceIssued, "Invoice", invoice.ID),
		InvoiceNumber:   invoice.InvoiceNumber,
		GrandTotal:      invoice.GrandTotal,
	}
}

// PaymentRecordedEvent is raised when a payment is recorded on an invoice
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoiceNumber"`
	PaymentID     uuid.UUID       `json:"paymentId"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
}

// NewPaymentRecordedEvent creates a new payment recorded event
func NewPaymentRecordedEvent(invoice *Invoice, payment *Payment) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPaymentRecorded, "Invoice", invoice.ID),
		InvoiceNumber:   invoice.InvoiceNumber,
		PaymentID:       payment.ID,
		Amount:          payment.Amount,
		PaymentStatus:   invoice.PaymentStatus,
	}
}

// InvoiceCancelledEvent is raised when an invoice is cancelled
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoiceNumber"`
	Reason        string `json:"reason"`
}

// NewInvoiceCancelledEvent creates a new cancelled event
func NewInvoiceCancelledEvent(invoice *Invoice, reason string) *InvoiceCancelledEvent {
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvoiceCancelled, "Invoice", invoice.ID),
		InvoiceNumber:   invoice.InvoiceNumber,
		Reason:          reason,
	}
}
