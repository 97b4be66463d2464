package procurement

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mfg-erp/backend/internal/domain/shared"
	"github.com/mfg-erp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft             PurchaseOrderStatus = "DRAFT"
	PurchaseOrderStatusPendingApproval   PurchaseOrderStatus = "PENDING_APPROVAL"
	PurchaseOrderStatusApproved          PurchaseOrderStatus = "APPROVED"
	PurchaseOrderStatusOrdered           PurchaseOrderStatus = "ORDERED"
	PurchaseOrderStatusPartiallyReceived PurchaseOrderStatus = "PARTIALLY_RECEIVED"
	PurchaseOrderStatusReceived          PurchaseOrderStatus = "RECEIVED"
	PurchaseOrderStatusCancelled         PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusPendingApproval, PurchaseOrderStatusApproved,
		PurchaseOrderStatusOrdered, PurchaseOrderStatusPartiallyReceived,
		PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	if target == PurchaseOrderStatusCancelled {
		return s != PurchaseOrderStatusReceived && s != PurchaseOrderStatusCancelled
	}
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusPendingApproval
	case PurchaseOrderStatusPendingApproval:
		return target == PurchaseOrderStatusApproved || target == PurchaseOrderStatusDraft
	case PurchaseOrderStatusApproved:
		return target == PurchaseOrderStatusOrdered
	case PurchaseOrderStatusOrdered:
		return target == PurchaseOrderStatusPartiallyReceived || target == PurchaseOrderStatusReceived
	case PurchaseOrderStatusPartiallyReceived:
		return target == PurchaseOrderStatusPartiallyReceived || target == PurchaseOrderStatusReceived
	case PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return false
	}
	return false
}

// CanReceive returns true if receiving goods is allowed in this status
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == PurchaseOrderStatusOrdered || s == PurchaseOrderStatusPartiallyReceived
}

// PurchaseOrderItem represents a line item in a purchase order.
// All derived amounts are recomputed by recalculate on every mutation;
// they are never accepted from the outside.
type PurchaseOrderItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	MaterialID       uuid.UUID       `gorm:"type:uuid;not null"`
	MaterialName     string          `gorm:"type:varchar(200);not null"`
	MaterialCode     string          `gorm:"type:varchar(50);not null"`
	Unit             string          `gorm:"type:varchar(10);not null"`
	Quantity         decimal.Decimal `gorm:"type:decimal(15,3);not null"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(15,3);not null;default:0"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	DiscountPercent  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TaxPercent       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountAmount   decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	TaxableAmount    decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	TaxAmount        decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// NewPurchaseOrderItem creates a new purchase order item
func NewPurchaseOrderItem(orderID, materialID uuid.UUID, materialName, materialCode, unit string,
	quantity, unitPrice, discountPercent, taxPercent decimal.Decimal) (*PurchaseOrderItem, error) {

	if materialID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "Material ID cannot be empty")
	}
	if materialName == "" {
		return nil, shared.NewDomainError("VALIDATION", "Material name cannot be empty")
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
	if taxPercent.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION", "Tax percent cannot be negative")
	}

	now := time.Now()
	item := &PurchaseOrderItem{
		ID:               uuid.New(),
		OrderID:          orderID,
		MaterialID:       materialID,
		MaterialName:     materialName,
		MaterialCode:     materialCode,
		Unit:             unit,
		Quantity:         quantity,
		ReceivedQuantity: decimal.Zero,
		UnitPrice:        unitPrice,
		DiscountPercent:  discountPercent,
		TaxPercent:       taxPercent,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	item.recalculate()

	return item, nil
}

// recalculate derives all line amounts from quantity, price and rates:
// base = quantity * unitPrice, discount = base * dp/100,
// taxable = base - discount, tax = taxable * tp/100, total = taxable + tax.
func (i *PurchaseOrderItem) recalculate() {
	base := valueobject.NewMoneyINR(i.Quantity.Mul(i.UnitPrice))
	discount := base.CalculatePercentage(i.DiscountPercent)
	taxable := base.MustSubtract(discount)
	tax := taxable.CalculatePercentage(i.TaxPercent)

	i.DiscountAmount = discount.Amount()
	i.TaxableAmount = taxable.Amount()
	i.TaxAmount = tax.Amount()
	i.TotalAmount = taxable.MustAdd(tax).Amount()
}

// UpdateQuantity updates the ordered quantity and rederives the amounts
func (i *PurchaseOrderItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION", "Quantity must be positive")
	}
	if quantity.LessThan(i.ReceivedQuantity) {
		return shared.NewDomainError("VALIDATION", "Ordered quantity cannot be less than received quantity")
	}
	i.Quantity = quantity
	i.recalculate()
	i.UpdatedAt = time.Now()
	return nil
}

// UpdatePricing updates unit price, discount and tax rates and rederives the amounts
func (i *PurchaseOrderItem) UpdatePricing(unitPrice, discountPercent, taxPercent decimal.Decimal) error {
	if unitPrice.IsNegative() {
		return shared.NewDomainError("VALIDATION", "Unit price cannot be negative")
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(hundred) {
		return shared.NewDomainError("VALIDATION", "Discount percent must be between 0 and 100")
	}
	if taxPercent.IsNegative() {
		return shared.NewDomainError("VALIDATION", "Tax percent cannot be negative")
	}
	i.UnitPrice = unitPrice
	i.DiscountPercent = discountPercent
	i.TaxPercent = taxPercent
	i.recalculate()
	i.UpdatedAt = time.Now()
	return nil
}

// PendingQuantity returns the quantity still to be received
func (i *PurchaseOrderItem) PendingQuantity() decimal.Decimal {
	return i.Quantity.Sub(i.ReceivedQuantity)
}

// IsFullyReceived returns true if all ordered quantity has been received
func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.ReceivedQuantity.GreaterThanOrEqual(i.Quantity)
}

// AddReceivedQuantity adds to the received quantity, rejecting over-receipt
func (i *PurchaseOrderItem) AddReceivedQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION", "Receive quantity must be positive")
	}
	newReceived := i.ReceivedQuantity.Add(quantity)
	if newReceived.GreaterThan(i.Quantity) {
		return shared.NewDomainError("BUSINESS_RULE",
			fmt.Sprintf("Cannot receive %s of %s, only %s pending", quantity.String(), i.MaterialCode, i.PendingQuantity().String()))
	}
	i.ReceivedQuantity = newReceived
	i.UpdatedAt = time.Now()
	return nil
}

// ReceiptLine is one line of a goods receipt against an ordered purchase order
type ReceiptLine struct {
	MaterialID uuid.UUID       `json:"materialId"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// PurchaseOrder is the aggregate root for a supplier order, managing its
// lifecycle from draft through approval, ordering and goods receipt.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	OrderNumber     string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	SupplierName    string              `gorm:"type:varchar(200);not null"`
	WarehouseID     *uuid.UUID          `gorm:"type:uuid;index"`
	OrderDate       time.Time           `gorm:"not null"`
	ExpectedDate    *time.Time          ``
	Items           []PurchaseOrderItem `gorm:"foreignKey:OrderID;references:ID"`
	Subtotal        decimal.Decimal     `gorm:"type:decimal(15,4);not null;default:0"`
	DiscountPercent decimal.Decimal     `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountAmount  decimal.Decimal     `gorm:"type:decimal(15,4);not null;default:0"`
	TaxAmount       decimal.Decimal     `gorm:"type:decimal(15,4);not null;default:0"`
	ShippingCharges decimal.Decimal     `gorm:"type:decimal(15,4);not null;default:0"`
	GrandTotal      decimal.Decimal     `gorm:"type:decimal(15,4);not null;default:0"`
	Status          PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Notes           string              `gorm:"type:varchar(1000)"`
	InternalNotes   string              `gorm:"type:text"`
	ApprovedBy      *uuid.UUID          `gorm:"type:uuid"`
	ApprovedAt      *time.Time          ``
	OrderedAt       *time.Time          ``
	CancelledAt     *time.Time          ``
	CancelReason    string              `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new purchase order in DRAFT status
func NewPurchaseOrder(orderNumber string, supplierID uuid.UUID, supplierName string, orderDate time.Time) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("VALIDATION", "Order number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("VALIDATION", "Supplier name cannot be empty")
	}
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	order := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		SupplierID:        supplierID,
		SupplierName:      supplierName,
		OrderDate:         orderDate,
		Items:             make([]PurchaseOrderItem, 0),
		Subtotal:          decimal.Zero,
		DiscountPercent:   decimal.Zero,
		DiscountAmount:    decimal.Zero,
		TaxAmount:         decimal.Zero,
		ShippingCharges:   decimal.Zero,
		GrandTotal:        decimal.Zero,
		Status:            PurchaseOrderStatusDraft,
	}

	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))

	return order, nil
}

// AddItem adds a new line to the order. Only allowed in DRAFT status.
func (o *PurchaseOrder) AddItem(materialID uuid.UUID, materialName, materialCode, unit string,
	quantity, unitPrice, discountPercent, taxPercent decimal.Decimal) (*PurchaseOrderItem, error) {

	if o.Status != PurchaseOrderStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot add items to order in %s status", o.Status))
	}
	for _, item := range o.Items {
		if item.MaterialID == materialID {
			return nil, shared.NewDomainError("BUSINESS_RULE", "Material already exists in order, update quantity instead")
		}
	}

	item, err := NewPurchaseOrderItem(o.ID, materialID, materialName, materialCode, unit,
		quantity, unitPrice, discountPercent, taxPercent)
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
func (o *PurchaseOrder) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if o.Status != PurchaseOrderStatusDraft {
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

// UpdateItemPricing updates price and rates of a line. Only allowed in DRAFT status.
func (o *PurchaseOrder) UpdateItemPricing(itemID uuid.UUID, unitPrice, discountPercent, taxPercent decimal.Decimal) error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot update items of order in %s status", o.Status))
	}
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			if err := o.Items[idx].UpdatePricing(unitPrice, discountPercent, taxPercent); err != nil {
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
func (o *PurchaseOrder) RemoveItem(itemID uuid.UUID) error {
	if o.Status != PurchaseOrderStatusDraft {
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
	MaterialID      uuid.UUID
	MaterialName    string
	MaterialCode    string
	Unit            string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
}

// ReplaceItems swaps the full line set of a DRAFT order. Old lines are
// discarded and every amount rederived, so a partial update cannot leave
// stale derived values behind.
func (o *PurchaseOrder) ReplaceItems(inputs []ItemInput) error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot replace items of order in %s status", o.Status))
	}
	if len(inputs) == 0 {
		return shared.NewDomainError("VALIDATION", "Order must have at least one item")
	}

	items := make([]PurchaseOrderItem, 0, len(inputs))
	seen := make(map[uuid.UUID]bool, len(inputs))
	for _, in := range inputs {
		if seen[in.MaterialID] {
			return shared.NewDomainError("VALIDATION", "Duplicate material in item list")
		}
		seen[in.MaterialID] = true
		item, err := NewPurchaseOrderItem(o.ID, in.MaterialID, in.MaterialName, in.MaterialCode, in.Unit,
			in.Quantity, in.UnitPrice, in.DiscountPercent, in.TaxPercent)
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
func (o *PurchaseOrder) SetDiscountPercent(percent decimal.Decimal) error {
	if o.Status != PurchaseOrderStatusDraft {
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
func (o *PurchaseOrder) SetShippingCharges(charges decimal.Decimal) error {
	if o.Status != PurchaseOrderStatusDraft {
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

// SetExpectedDate sets the expected delivery date
func (o *PurchaseOrder) SetExpectedDate(date time.Time) {
	o.ExpectedDate = &date
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// SetWarehouse sets the target warehouse for receiving.
// Allowed any time before goods start arriving.
func (o *PurchaseOrder) SetWarehouse(warehouseID uuid.UUID) error {
	if o.Status == PurchaseOrderStatusPartiallyReceived || o.Status == PurchaseOrderStatusReceived ||
		o.Status == PurchaseOrderStatusCancelled {
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

// SetNotes sets the external order notes
func (o *PurchaseOrder) SetNotes(notes string) {
	o.Notes = notes
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// Submit sends the order for approval, DRAFT to PENDING_APPROVAL
func (o *PurchaseOrder) Submit() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusPendingApproval) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot submit order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("BUSINESS_RULE", "Cannot submit order without items")
	}

	o.Status = PurchaseOrderStatusPendingApproval
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderSubmittedEvent(o))

	return nil
}

// Approve approves the order, stamping the approver and approval time
func (o *PurchaseOrder) Approve(approverID uuid.UUID) error {
	if o.Status != PurchaseOrderStatusPendingApproval {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot approve order in %s status", o.Status))
	}
	if approverID == uuid.Nil {
		return shared.NewDomainError("VALIDATION", "Approver ID cannot be empty")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusApproved
	o.ApprovedBy = &approverID
	o.ApprovedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderApprovedEvent(o, approverID))

	return nil
}

// Reject sends the order back to DRAFT, appending the reason to internal notes
func (o *PurchaseOrder) Reject(reason string) error {
	if o.Status != PurchaseOrderStatusPendingApproval {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot reject order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION", "Rejection reason is required")
	}

	note := fmt.Sprintf("[%s] Rejected: %s", time.Now().Format("2006-01-02 15:04"), reason)
	if o.InternalNotes == "" {
		o.InternalNotes = note
	} else {
		o.InternalNotes = strings.Join([]string{o.InternalNotes, note}, "\n")
	}

	o.Status = PurchaseOrderStatusDraft
	o.ApprovedBy = nil
	o.ApprovedAt = nil
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderRejectedEvent(o, reason))

	return nil
}

// SendToSupplier marks the approved order as placed with the supplier
func (o *PurchaseOrder) SendToSupplier() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusOrdered) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot send order in %s status to supplier", o.Status))
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusOrdered
	o.OrderedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderSentEvent(o))

	return nil
}

// Receive records a goods receipt against the order. Over-receipt on any line
// fails the whole receipt. Moves the order to RECEIVED when every line is
// fully received, otherwise PARTIALLY_RECEIVED.
func (o *PurchaseOrder) Receive(lines []ReceiptLine) error {
	if !o.Status.CanReceive() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot receive goods for order in %s status", o.Status))
	}
	if len(lines) == 0 {
		return shared.NewDomainError("VALIDATION", "Receipt lines cannot be empty")
	}
	if o.WarehouseID == nil {
		return shared.NewDomainError("BUSINESS_RULE", "Warehouse must be set before receiving")
	}

	for _, line := range lines {
		item := o.itemByMaterial(line.MaterialID)
		if item == nil {
			return shared.NewNotFoundError("Order item", "material", line.MaterialID)
		}
		if err := item.AddReceivedQuantity(line.Quantity); err != nil {
			return err
		}
	}

	if o.isFullyReceived() {
		o.Status = PurchaseOrderStatusReceived
	} else {
		o.Status = PurchaseOrderStatusPartiallyReceived
	}
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderReceivedEvent(o, lines))

	return nil
}

// Cancel cancels the order with a reason.
// Allowed in every status except RECEIVED and CANCELLED.
func (o *PurchaseOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION", "Cancel reason is required")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderCancelledEvent(o, reason))

	return nil
}

// Delete soft-deletes the order. Only allowed in DRAFT status.
func (o *PurchaseOrder) Delete() error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot delete order in %s status", o.Status))
	}
	o.MarkDeleted()
	o.IncrementVersion()
	return nil
}

// recalculateTotals rederives the header totals from the lines:
// subtotal = sum of line totals (tax inclusive), discount = subtotal * dp/100,
// tax = sum of line tax amounts, grand total = subtotal - discount + tax + shipping.
func (o *PurchaseOrder) recalculateTotals() {
	subtotal := valueobject.ZeroINR()
	tax := valueobject.ZeroINR()
	for _, item := range o.Items {
		subtotal = subtotal.MustAdd(valueobject.NewMoneyINR(item.TotalAmount))
		tax = tax.MustAdd(valueobject.NewMoneyINR(item.TaxAmount))
	}
	discount := subtotal.CalculatePercentage(o.DiscountPercent)

	o.Subtotal = subtotal.Amount()
	o.DiscountAmount = discount.Amount()
	o.TaxAmount = tax.Amount()
	o.GrandTotal = subtotal.MustSubtract(discount).MustAdd(tax).
		MustAdd(valueobject.NewMoneyINR(o.ShippingCharges)).Amount()
}

func (o *PurchaseOrder) itemByMaterial(materialID uuid.UUID) *PurchaseOrderItem {
	for idx := range o.Items {
		if o.Items[idx].MaterialID == materialID {
			return &o.Items[idx]
		}
	}
	return nil
}

func (o *PurchaseOrder) isFullyReceived() bool {
	for _, item := range o.Items {
		if !item.IsFullyReceived() {
			return false
		}
	}
	return len(o.Items) > 0
}

// GetItem returns a line by its ID
func (o *PurchaseOrder) GetItem(itemID uuid.UUID) *PurchaseOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// ItemCount returns the number of lines in the order
func (o *PurchaseOrder) ItemCount() int {
	return len(o.Items)
}

// IsDraft returns true if the order is in draft status
func (o *PurchaseOrder) IsDraft() bool {
	return o.Status == PurchaseOrderStatusDraft
}

// IsCancelled returns true if the order is cancelled
func (o *PurchaseOrder) IsCancelled() bool {
	return o.Status == PurchaseOrderStatusCancelled
}

// IsTerminal returns true if the order is fully received or cancelled
func (o *PurchaseOrder) IsTerminal() bool {
	return o.Status == PurchaseOrderStatusReceived || o.Status == PurchaseOrderStatusCancelled
}

// CanModify returns true if lines and charges can still change
func (o *PurchaseOrder) CanModify() bool {
	return o.IsDraft()
}
