package procurement

import (
	"github.com/google/uuid"
	"github.com/mfg-erp/backend/internal/domain/shared"
)

// Purchase order event types
const (
	EventPurchaseOrderCreated   = "purchase_order.created"
	EventPurchaseOrderSubmitted = "purchase_order.submitted"
	EventPurchaseOrderApproved  = "purchase_order.approved"
	EventPurchaseOrderRejected  = "purchase_order.rejected"
	EventPurchaseOrderSent      = "purchase_order.sent"
	EventPurchaseOrderReceived  = "purchase_order.received"
	EventPurchaseOrderCancelled = "purchase_order.cancelled"
)

// PurchaseOrderCreatedEvent is raised when a new purchase order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"orderNumber"`
	SupplierID  uuid.UUID `json:"supplierId"`
}

// NewPurchaseOrderCreatedEvent creates a new purchase order created event
func NewPurchaseOrderCreatedEvent(order *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPurchaseOrderCreated, "PurchaseOrder", order.ID),
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
	}
}

// PurchaseOrderSubmittedEvent is raised when an order is sent for approval
type PurchaseOrderSubmittedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"orderNumber"`
}

// NewPurchaseOrderSubmittedEvent creates a new submitted event
func NewPurchaseOrderSubmittedEvent(order *PurchaseOrder) *PurchaseOrderSubmittedEvent {
	return &PurchaseOrderSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPurchaseOrderSubmitted, "PurchaseOrder", order.ID),
		OrderNumber:     order.OrderNumber,
	}
}

// PurchaseOrderApprovedEvent is raised when an order is approved
type PurchaseOrderApprovedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"orderNumber"`
	ApprovedBy  uuid.UUID `json:"approvedBy"`
}

// NewPurchaseOrderApprovedEvent creates a new approved event
func NewPurchaseOrderApprovedEvent(order *PurchaseOrder, approvedBy uuid.UUID) *PurchaseOrderApprovedEvent {
	return &PurchaseOrderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPurchaseOrderApproved, "PurchaseOrder", order.ID),
		OrderNumber:     order.OrderNumber,
		ApprovedBy:      approvedBy,
	}
}

// PurchaseOrderRejectedEvent is raised when approval is refused and the order
// returns to draft
type PurchaseOrderRejectedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"orderNumber"`
	Reason      string `json:"reason"`
}

// NewPurchaseOrderRejectedEvent creates a new rejected event
func NewPurchaseOrderRejectedEvent(order *PurchaseOrder, reason string) *PurchaseOrderRejectedEvent {
	return &PurchaseOrderRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPurchaseOrderRejected, "PurchaseOrder", order.ID),
		OrderNumber:     order.OrderNumber,
		Reason:          reason,
	}
}

// PurchaseOrderSentEvent is raised when an approved order is placed with the supplier
type PurchaseOrderSentEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"orderNumber"`
	SupplierID  uuid.UUID `json:"supplierId"`
}

// NewPurchaseOrderSentEvent creates a new sent event
func NewPurchaseOrderSentEvent(order *PurchaseOrder) *PurchaseOrderSentEvent {
	return &PurchaseOrderSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPurchaseOrderSent, "PurchaseOrder", order.ID),
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
	}
}

// PurchaseOrderReceivedEvent is raised on every goods receipt against the order
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	OrderNumber   string        `json:"orderNumber"`
	Lines         []ReceiptLine `json:"lines"`
	FullyReceived bool          `json:"fullyReceived"`
}

// NewPurchaseOrderReceivedEvent creates a new received event
func NewPurchaseOrderReceivedEvent(order *PurchaseOrder, lines []ReceiptLine) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPurchaseOrderReceived, "PurchaseOrder", order.ID),
		OrderNumber:     order.OrderNumber,
		Lines:           lines,
		FullyReceived:   order.Status == PurchaseOrderStatusReceived,
	}
}

// PurchaseOrderCancelledEvent is raised when an order is cancelled
type PurchaseOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"orderNumber"`
	Reason      string `json:"reason"`
}

// NewPurchaseOrderCancelledEvent creates a new cancelled event
func NewPurchaseOrderCancelledEvent(order *PurchaseOrder, reason string) *PurchaseOrderCancelledEvent {
	return &PurchaseOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPurchaseOrderCancelled, "PurchaseOrder", order.ID),
		OrderNumber:     order.OrderNumber,
		Reason:          reason,
	}
}
