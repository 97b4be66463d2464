package sales

import (
	"github.com/google/uuid"
	"github.com/mfg-erp/backend/internal/domain/shared"
)

// Sales order event types
const (
	EventSalesOrderCreated   = "sales_order.created"
	EventSalesOrderConfirmed = "sales_order.confirmed"
	EventSalesOrderDelivered = "sales_order.delivered"
	EventSalesOrderCancelled = "sales_order.cancelled"
)

// SalesOrderCreatedEvent is raised when a new sales order is created
type SalesOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"orderNumber"`
	CustomerID  uuid.UUID `json:"customerId"`
}

// NewSalesOrderCreatedEvent creates a new sales order created event
func NewSalesOrderCreatedEvent(order *SalesOrder) *SalesOrderCreatedEvent {
	return &SalesOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventSalesOrderCreated, "SalesOrder", order.ID),
		OrderNumber:     order.OrderNumber,
		CustomerID:      order.CustomerID,
	}
}

// SalesOrderConfirmedEvent is raised when an order is confirmed, signalling
// inventory to hold the reservation made for it
type SalesOrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"orderNumber"`
	CustomerID  uuid.UUID `json:"customerId"`
}

// NewSalesOrderConfirmedEvent creates a new confirmed event
func NewSalesOrderConfirmedEvent(order *SalesOrder) *SalesOrderConfirmedEvent {
	return &SalesOrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventSalesOrderConfirmed, "SalesOrder", order.ID),
		OrderNumber:     order.OrderNumber,
		CustomerID:      order.CustomerID,
	}
}

// SalesOrderDeliveredEvent is raised on every delivery against the order
type SalesOrderDeliveredEvent struct {
	shared.BaseDomainEvent
	OrderNumber    string         `json:"orderNumber"`
	Lines          []DeliveryLine `json:"lines"`
	FullyDelivered bool           `json:"fullyDelivered"`
}

// NewSalesOrderDeliveredEvent creates a new delivered event
func NewSalesOrderDeliveredEvent(order *SalesOrder, lines []DeliveryLine) *SalesOrderDeliveredEvent {
	return &SalesOrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventSalesOrderDelivered, "SalesOrder", order.ID),
		OrderNumber:     order.OrderNumber,
		Lines:           lines,
		FullyDelivered:  order.Status == SalesOrderStatusDelivered,
	}
}

// SalesOrderCancelledEvent is raised when an order is cancelled. WasConfirmed
// tells inventory whether a reservation needs releasing.
type SalesOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber  string `json:"orderNumber"`
	Reason       string `json:"reason"`
	WasConfirmed bool   `json:"wasConfirmed"`
}

// NewSalesOrderCancelledEvent creates a new cancelled event
func NewSalesOrderCancelledEvent(order *SalesOrder, reason string, wasConfirmed bool) *SalesOrderCancelledEvent {
	return &SalesOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventSalesOrderCancelled, "SalesOrder", order.ID),
		OrderNumber:     order.OrderNumber,
		Reason:          reason,
		WasConfirmed:    wasConfirmed,
	}
}
