package sales

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mfg-erp/backend/internal/domain/shared"
	"github.com/mfg-erp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// SalesOrderStatus represents the status of a sales order
type SalesOrderStatus string

const (
	SalesOrderStatusDraft              SalesOrderStatus = "DRAFT"
	SalesOrderStatusConfirmed          SalesOrderStatus = "CONFIRMED"
	SalesOrderStatusProcessing         SalesOrderStatus = "PROCESSING"
	SalesOrderStatusPartiallyDelivered SalesOrderStatus = "PARTIALLY_DELIVERED"
	SalesOrderStatusDelivered          SalesOrderStatus = "DELIVERED"
	SalesOrderStatusCancelled          SalesOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid SalesOrderStatus
func (s SalesOrderStatus) IsValid() bool {
	switch s {
	case SalesOrderStatusDraft, SalesOrderStatusConfirmed, SalesOrderStatusProcessing,
		SalesOrderStatusPartiallyDelivered, SalesOrderStatusDelivered, SalesOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SalesOrderStatus
func (s SalesOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s SalesOrderStatus) CanTransitionTo(target SalesOrderStatus) bool {
	if target == SalesOrderStatusCancelled {
		return s != SalesOrderStatusDelivered && s != SalesOrderStatusCancelled
	}
	switch s {
	case SalesOrderStatusDraft:
		return target == SalesOrderStatusConfirmed
	case SalesOrderStatusConfirmed:
		return target == SalesOrderStatusProcessing
	case SalesOrderStatusProcessing:
		return target == SalesOrderStatusPartiallyDelivered || target == SalesOrderStatusDelivered
	case SalesOrderStatusPartiallyDelivered:
		return target == SalesOrderStatusPartiallyDelivered || target == SalesOrderStatusDelivered
	case SalesOrderStatusDelivered, SalesOrderStatusCancelled:
		return false
	}
	return false
}

// CanDeliver returns true if goods can be delivered in this status
func (s SalesOrderStatus) CanDeliver() bool {
	return s == SalesOrderStatusProcessing || s == SalesOrderStatusPartiallyDelivered
}

// SalesOrderItem represents a line item in a sales order with GST split
// between CGST/SGST (intra-state) and IGST (inter-state). Derived amounts
// are recomputed on every mutation.
type SalesOrderItem struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	FinishedGoodID    uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName       string          `gorm:"type:varchar(200);not null"`
	ProductCode       string          `gorm:"type:varchar(50);not null"`
	Unit              string          `gorm:"type:varchar(10);not null"`
	Quantity          decimal.Decimal `gorm:"type:decimal(15,3);not null"`
	DeliveredQuantity decimal.Decimal `gorm:"type:decimal(15,3);not null;default:0"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	DiscountPercent   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	CGSTPercent       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	SGSTPercent       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	IGSTPercent       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountAmount    decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	TaxableAmount     decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	CGSTAmount        decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	SGSTAmount        decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	IGSTAmount        decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	CreatedAt         time.Time       `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SalesOrderItem) TableName() string {
	return "sales_order_items"
}

// NewSalesOrderItem creates a new sales order item
func NewSalesOrderItem(orderID, finishedGoodID uuid.UUID, productName, productCode, unit string,
	quantity, unitPrice, discountPercent, cgstPercent, sgstPercent, igstPercent decimal.Decimal) (*SalesOrderItem, error) {

	if finishedGoodID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("VALIDATION", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION", "Unit price cannot be negative")
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(hundred) {
		return nil, shared.NewDomainError("VALIDATION", "Discount percent must be between 0 and 100")
	}
	for _, p := range []decimal.Decimal{cgstPercent, sgstPercent, igstPercent} {
		if p.IsNegative() {
			return nil, shared.NewDomainError("VALIDATION", "Tax percent cannot be negative")
		}
	}

	now := time.Now()
	item := &SalesOrderItem{
		ID:                uuid.New(),
		OrderID:           orderID,
		FinishedGoodID:    finishedGoodID,
		ProductName:       productName,
		ProductCode:       productCode,
		Unit:              unit,
		Quantity:          quantity,
		DeliveredQuantity: decimal.Zero,
		UnitPrice:         unitPrice,
		DiscountPercent:   discountPercent,
		CGSTPercent:       cgstPercent,
		SGSTPercent:       sgstPercent,
		IGSTPercent:       igstPercent,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	item.recalculate()

	return item, nil
}

// recalculate derives the line amounts: base = quantity * unitPrice,
// discount = base * dp/100, taxable = base - discount, each GST component
// = taxable * pct/100, total = taxable + cgst + sgst + igst.
func (i *SalesOrderItem) recalculate() {
	base := valueobject.NewMoneyINR(i.Quantity.Mul(i.UnitPrice))
	discount := base.CalculatePercentage(i.DiscountPercent)
	taxable := base.MustSubtract(discount)
	cgst := taxable.CalculatePercentage(i.CGSTPercent)
	sgst := taxable.CalculatePercentage(i.SGSTPercent)
	igst := taxable.CalculatePercentage(i.IGSTPercent)

	i.DiscountAmount = discount.Amount()
	i.TaxableAmount = taxable.Amount()
	i.CGSTAmount = cgst.Amount()
	i.SGSTAmount = sgst.Amount()
	i.IGSTAmount = igst.Amount()
	i.TotalAmount = taxable.MustAdd(cgst).MustAdd(sgst).MustAdd(igst).Amount()
}

// TaxAmount returns the summed GST components of the line
func (i *SalesOrderItem) TaxAmount() decimal.Decimal {
	return i.CGSTAmount.Add(i.SGSTAmount).Add(i.IGSTAmount)
}

// UpdateQuantity updates the ordered quantity and rederives the amounts
func (i *SalesOrderItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION", "Quantity must be positive")
	}
	if quantity.LessThan(i.DeliveredQuantity) {
		return shared.NewDomainError("VALIDATION", "Ordered quantity cannot be less than delivered quantity")
	}
	i.Quantity = quantity
	i.recalculate()
	i.UpdatedAt = time.Now()
	return nil
}

// PendingQuantity returns the quantity still to be delivered
func (i *SalesOrderItem) PendingQuantity() decimal.Decimal {
	return i.Quantity.Sub(i.DeliveredQuantity)
}

// IsFullyDelivered returns true if all ordered quantity has been delivered
func (i *SalesOrderItem) IsFullyDelivered() bool {
	return i.DeliveredQuantity.GreaterThanOrEqual(i.Quantity)
}

// AddDeliveredQuantity adds to the delivered quantity, rejecting over-delivery
func (i *SalesOrderItem) AddDeliveredQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION", "Delivery quantity must be positive")
	}
	newDelivered := i.DeliveredQuantity.Add(quantity)
	if newDelivered.GreaterThan(i.Quantity) {
		return shared.NewDomainError("BUSINESS_RULE",
			fmt.Sprintf("Cannot deliver %s of %s, only %s pending", quantity.String(), i.ProductCode, i.PendingQuantity().String()))
	}
	i.DeliveredQuantity = newDelivered
	i.UpdatedAt = time.Now()
	return nil
}

// DeliveryLine is one line of a delivery against a processing sales order
type DeliveryLine struct {
	FinishedGoodID uuid.UUID       `json:"finishedGoodId"`
	Quantity       decimal.Decimal `json:"quantity"`
}

// SalesOrder is the aggregate root for a customer order, from draft through
// confirmation, processing and delivery.
type SalesOrder struct {
	shared.BaseAggregateRoot
	OrderNumber     string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	CustomerName    string           `gorm:"type:varchar(200);not null"`
	WarehouseID     *uuid.UUID       `gorm:"type:uuid;index"`
	OrderDate       time.Time        `gorm:"not null"`
	DeliveryDate    *time.Time       ``
	Items           []SalesOrderItem `gorm:"foreignKey:OrderID;references:ID"`
	Subtotal        decimal.Decimal  `gorm:"type:decimal(15,4);not null;default:0"`
	DiscountPercent decimal.Decimal  `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountAmount  decimal.Decimal  `gorm:"type:decimal(15,4);not null;default:0"`
	TaxAmount       decimal.Decimal  `gorm:"type:decimal(15,4);not null;default:0"`
	ShippingCharges decimal.Decimal  `gorm:"type:decimal(15,4);not null;default:0"`
	GrandTotal      decimal.Decimal  `gorm:"type:decimal(15,4);not null;default:0"`
	Status          SalesOrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Notes           string           `gorm:"type:varchar(1000)"`
	ConfirmedAt     *time.Time       ``
	DeliveredAt     *time.Time       ``
	CancelledAt     *time.Time       ``
	CancelReason    string           `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (SalesOrder) TableName() string {
	return "sales_orders"
}

// NewSalesOrder creates a new sales order in DRAFT status
func NewSalesOrder(orderNumber string, customerID uuid.UUID, customerName string, orderDate time.Time) (*SalesOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("VALIDATION", "Order number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("VALIDATION", "Customer name cannot be empty")
	}
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	order := &SalesOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerID:        customerID,
		CustomerName:      customerName,
		OrderDate:         orderDate,
		Items:             make([]SalesOrderItem, 0),
		Subtotal:          decimal.Zero,
		DiscountPercent:   decimal.Zero,
		DiscountAmount:    decimal.Zero,
		TaxAmount:         decimal.Zero,
		ShippingCharges:   decimal.Zero,
		GrandTotal:        decimal.Zero,
		Status:            SalesOrderStatusDraft,
	}

	order.AddDomainEvent(NewSalesOrderCreatedEvent(order))

	return order, nil
}

// AddItem adds a new line to the order. Only allowed in DRAFT status.
func (o *SalesOrder) AddItem(finishedGoodID uuid.UUID, productName, productCode, unit string,
	quantity, unitPrice, discountPercent, cgstPercent, sgstPercent, igstPercent decimal.Decimal) (*SalesOrderItem, error) {

	if o.Status != SalesOrderStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot add items to order in %s status", o.Status))
	}
	for _, item := range o.Items {
		if item.FinishedGoodID == finishedGoodID {
			return nil, shared.NewDomainError("BUSINESS_RULE", "Product already exists in order, update quantity instead")
		}
	}

	item, err := NewSalesOrderItem(o.ID, finishedGoodID, productName, productCode, unit,
		quantity, unitPrice, discountPercent, cgstPercent, sgstPercent, igstPercent)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return item, nil
}

// UpdateItemQuantity updates the ordered quantity of a line. Only allowed in DRAFT status.
func (o *SalesOrder) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if o.Status != SalesOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot update items of order in %s status", o.Status))
	}
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			if err := o.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}
	return shared.NewNotFoundError("Order item", "id", itemID)
}

// RemoveItem removes a line from the order. Only allowed in DRAFT status.
func (o *SalesOrder) RemoveItem(itemID uuid.UUID) error {
	if o.Status != SalesOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot remove items from order in %s status", o.Status))
	}
	for idx, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}
	return shared.NewNotFoundError("Order item", "id", itemID)
}

// ItemInput carries the caller-supplied fields of one line for ReplaceItems
type ItemInput struct {
	FinishedGoodID  uuid.UUID
	ProductName     string
	ProductCode     string
	Unit            string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	CGSTPercent     decimal.Decimal
	SGSTPercent     decimal.Decimal
	IGSTPercent     decimal.Decimal
}

// ReplaceItems swaps the full line set of a DRAFT order
func (o *SalesOrder) ReplaceItems(inputs []ItemInput) error {
	if o.Status != SalesOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot replace items of order in %s status", o.Status))
	}
	if len(inputs) == 0 {
		return shared.NewDomainError("VALIDATION", "Order must have at least one item")
	}

	items := make([]SalesOrderItem, 0, len(inputs))
	seen := make(map[uuid.UUID]bool, len(inputs))
	for _, in := range inputs {
		if seen[in.FinishedGoodID] {
			return shared.NewDomainError("VALIDATION", "Duplicate product in item list")
		}
		seen[in.FinishedGoodID] = true
		item, err := NewSalesOrderItem(o.ID, in.FinishedGoodID, in.ProductName, in.ProductCode, in.Unit,
			in.Quantity, in.UnitPrice, in.DiscountPercent, in.CGSTPercent, in.SGSTPercent, in.IGSTPercent)
		if err != nil {
			return err
		}
		items = append(items, *item)
	}

	o.Items = items
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// SetDiscountPercent applies an order-level discount rate. Only allowed in DRAFT status.
func (o *SalesOrder) SetDiscountPercent(percent decimal.Decimal) error {
	if o.Status != SalesOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change discount of order in %s status", o.Status))
	}
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return shared.NewDomainError("VALIDATION", "Discount percent must be between 0 and 100")
	}
	o.DiscountPercent = percent
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// SetShippingCharges sets the shipping charges. Only allowed in DRAFT status.
func (o *SalesOrder) SetShippingCharges(charges decimal.Decimal) error {
	if o.Status != SalesOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change shipping charges of order in %s status", o.Status))
	}
	if charges.IsNegative() {
		return shared.NewDomainError("VALIDATION", "Shipping charges cannot be negative")
	}
	o.ShippingCharges = charges
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// SetDeliveryDate sets the promised delivery date
func (o *SalesOrder) SetDeliveryDate(date time.Time) {
	o.DeliveryDate = &date
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// SetWarehouse sets the dispatching warehouse.
// Allowed any time before deliveries start.
func (o *SalesOrder) SetWarehouse(warehouseID uuid.UUID) error {
	if o.Status == SalesOrderStatusPartiallyDelivered || o.Status == SalesOrderStatusDelivered ||
		o.Status == SalesOrderStatusCancelled {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot set warehouse for order in %s status", o.Status))
	}
	if warehouseID == uuid.Nil {
		return shared.NewDomainError("VALIDATION", "Warehouse ID cannot be empty")
	}
	o.WarehouseID = &warehouseID
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// SetNotes sets the order notes
func (o *SalesOrder) SetNotes(notes string) {
	o.Notes = notes
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// Confirm confirms the order, DRAFT to CONFIRMED. Stock reservation happens
// in the application layer before this is persisted.
func (o *SalesOrder) Confirm() error {
	if !o.Status.CanTransitionTo(SalesOrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot confirm order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("BUSINESS_RULE", "Cannot confirm order without items")
	}

	now := time.Now()
	o.Status = SalesOrderStatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewSalesOrderConfirmedEvent(o))

	return nil
}

// StartProcessing moves the order into fulfilment, CONFIRMED to PROCESSING
func (o *SalesOrder) StartProcessing() error {
	if !o.Status.CanTransitionTo(SalesOrderStatusProcessing) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot start processing order in %s status", o.Status))
	}

	o.Status = SalesOrderStatusProcessing
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Deliver records a delivery against the order. Over-delivery on any line
// fails the whole delivery. Moves the order to DELIVERED when every line is
// fully delivered, otherwise PARTIALLY_DELIVERED.
func (o *SalesOrder) Deliver(lines []DeliveryLine) error {
	if !o.Status.CanDeliver() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot deliver goods for order in %s status", o.Status))
	}
	if len(lines) == 0 {
		return shared.NewDomainError("VALIDATION", "Delivery lines cannot be empty")
	}

	for _, line := range lines {
		item := o.itemByProduct(line.FinishedGoodID)
		if item == nil {
			return shared.NewNotFoundError("Order item", "product", line.FinishedGoodID)
		}
		if err := item.AddDeliveredQuantity(line.Quantity); err != nil {
			return err
		}
	}

	if o.isFullyDelivered() {
		now := time.Now()
		o.Status = SalesOrderStatusDelivered
		o.DeliveredAt = &now
	} else {
		o.Status = SalesOrderStatusPartiallyDelivered
	}
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewSalesOrderDeliveredEvent(o, lines))

	return nil
}

// Cancel cancels the order with a reason.
// Allowed in every status except DELIVERED and CANCELLED.
func (o *SalesOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(SalesOrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION", "Cancel reason is required")
	}

	wasConfirmed := o.Status != SalesOrderStatusDraft
	now := time.Now()
	o.Status = SalesOrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewSalesOrderCancelledEvent(o, reason, wasConfirmed))

	return nil
}

// Delete soft-deletes the order. Only allowed in DRAFT status.
func (o *SalesOrder) Delete() error {
	if o.Status != SalesOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot delete order in %s status", o.Status))
	}
	o.MarkDeleted()
	o.IncrementVersion()
	return nil
}

// recalculateTotals rederives the header totals from the lines:
// subtotal = sum of line totals (tax inclusive), discount = subtotal * dp/100,
// tax = sum of line GST amounts, grand total = subtotal - discount + tax + shipping.
func (o *SalesOrder) recalculateTotals() {
	subtotal := valueobject.ZeroINR()
	tax := valueobject.ZeroINR()
	for _, item := range o.Items {
		subtotal = subtotal.MustAdd(valueobject.NewMoneyINR(item.TotalAmount))
		tax = tax.MustAdd(valueobject.NewMoneyINR(item.TaxAmount()))
	}
	discount := subtotal.CalculatePercentage(o.DiscountPercent)

	o.Subtotal = subtotal.Amount()
	o.DiscountAmount = discount.Amount()
	o.TaxAmount = tax.Amount()
	o.GrandTotal = subtotal.MustSubtract(discount).MustAdd(tax).
		MustAdd(valueobject.NewMoneyINR(o.ShippingCharges)).Amount()
}

func (o *SalesOrder) itemByProduct(finishedGoodID uuid.UUID) *SalesOrderItem {
	for idx := range o.Items {
		if o.Items[idx].FinishedGoodID == finishedGoodID {
			return &o.Items[idx]
		}
	}
	return nil
}

func (o *SalesOrder) isFullyDelivered() bool {
	for _, item := range o.Items {
		if !item.IsFullyDelivered() {
			return false
		}
	}
	return len(o.Items) > 0
}

// GetItem returns a line by its ID
func (o *SalesOrder) GetItem(itemID uuid.UUID) *SalesOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// ItemCount returns the number of lines in the order
func (o *SalesOrder) ItemCount() int {
	return len(o.Items)
}

// IsDraft returns true if the order is in draft status
func (o *SalesOrder) IsDraft() bool {
	return o.Status == SalesOrderStatusDraft
}

// IsCancelled returns true if the order is cancelled
func (o *SalesOrder) IsCancelled() bool {
	return o.Status == SalesOrderStatusCancelled
}

// IsTerminal returns true if the order is delivered or cancelled
func (o *SalesOrder) IsTerminal() bool {
	return o.Status == SalesOrderStatusDelivered || o.Status == SalesOrderStatusCancelled
}

// CanModify returns true if lines and charges can still change
func (o *SalesOrder) CanModify() bool {
	return o.IsDraft()
}
