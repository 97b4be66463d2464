package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mfg-erp/backend/internal/domain/shared"
	"github.com/mfg-erp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// InvoiceStatus represents the lifecycle status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusIssued    InvoiceStatus = "ISSUED"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// PaymentStatus is derived purely from paid amount against grand total
type PaymentStatus string

const (
	PaymentStatusUnpaid        PaymentStatus = "UNPAID"
	PaymentStatusPartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	PaymentStatusPaid          PaymentStatus = "PAID"
)

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// DerivePaymentStatus computes the payment status from amounts: zero paid is
// UNPAID, paid covering the grand total is PAID, anything between is
// PARTIALLY_PAID.
func DerivePaymentStatus(paidAmount, grandTotal decimal.Decimal) PaymentStatus {
	if paidAmount.LessThanOrEqual(decimal.Zero) {
		return PaymentStatusUnpaid
	}
	if paidAmount.GreaterThanOrEqual(grandTotal) {
		return PaymentStatusPaid
	}
	return PaymentStatusPartiallyPaid
}

// InvoiceItem is one line of an invoice. Amount is the pre-tax line value,
// GST components are computed on it, TotalAmount includes them.
type InvoiceItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	FinishedGoodID uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName    string          `gorm:"type:varchar(200);not null"`
	ProductCode    string          `gorm:"type:varchar(50);not null"`
	HSNCode        string          `gorm:"type:varchar(20)"`
	Unit           string          `gorm:"type:varchar(10);not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(15,3);not null"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	CGSTPercent    decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	SGSTPercent    decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	IGSTPercent    decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	CGSTAmount     decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	SGSTAmount     decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	IGSTAmount     decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// NewInvoiceItem creates a new invoice line
func NewInvoiceItem(invoiceID, finishedGoodID uuid.UUID, productName, productCode, hsnCode, unit string,
	quantity, unitPrice, cgstPercent, sgstPercent, igstPercent decimal.Decimal) (*InvoiceItem, error) {

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
	for _, p := range []decimal.Decimal{cgstPercent, sgstPercent, igstPercent} {
		if p.IsNegative() {
			return nil, shared.NewDomainError("VALIDATION", "Tax percent cannot be negative")
		}
	}

	now := time.Now()
	item := &InvoiceItem{
		ID:             uuid.New(),
		InvoiceID:      invoiceID,
		FinishedGoodID: finishedGoodID,
		ProductName:    productName,
		ProductCode:    productCode,
		HSNCode:        hsnCode,
		Unit:           unit,
		Quantity:       quantity,
		UnitPrice:      unitPrice,
		CGSTPercent:    cgstPercent,
		SGSTPercent:    sgstPercent,
		IGSTPercent:    igstPercent,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	item.recalculate()

	return item, nil
}

// recalculate derives the line amounts: amount = quantity * unitPrice,
// each GST component = amount * pct/100, total = amount + components.
func (i *InvoiceItem) recalculate() {
	amount := valueobject.NewMoneyINR(i.Quantity.Mul(i.UnitPrice))
	cgst := amount.CalculatePercentage(i.CGSTPercent)
	sgst := amount.CalculatePercentage(i.SGSTPercent)
	igst := amount.CalculatePercentage(i.IGSTPercent)

	i.Amount = amount.Amount()
	i.CGSTAmount = cgst.Amount()
	i.SGSTAmount = sgst.Amount()
	i.IGSTAmount = igst.Amount()
	i.TotalAmount = amount.MustAdd(cgst).MustAdd(sgst).MustAdd(igst).Amount()
}

// UpdateQuantity updates the billed quantity and rederives the amounts
func (i *InvoiceItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION", "Quantity must be positive")
	}
	i.Quantity = quantity
	i.recalculate()
	i.UpdatedAt = time.Now()
	return nil
}

// PaymentMode classifies how a payment was made
type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "CASH"
	PaymentModeCheque       PaymentMode = "CHEQUE"
	PaymentModeBankTransfer PaymentMode = "BANK_TRANSFER"
	PaymentModeUPI          PaymentMode = "UPI"
	PaymentModeCard         PaymentMode = "CARD"
)

// IsValid checks if the mode is a known PaymentMode
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeCash, PaymentModeCheque, PaymentModeBankTransfer, PaymentModeUPI, PaymentModeCard:
		return true
	}
	return false
}

// Payment is one recorded payment against an invoice
type Payment struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	PaymentDate time.Time       `gorm:"not null"`
	Mode        PaymentMode     `gorm:"type:varchar(20);not null"`
	Reference   string          `gorm:"type:varchar(100)"`
	Notes       string          `gorm:"type:varchar(500)"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "invoice_payments"
}

// Invoice is the aggregate root for customer billing. Unlike the order
// headers its subtotal is pre-tax, and the grand total is rounded to the
// whole rupee with the remainder kept in RoundOff.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber   string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerName    string          `gorm:"type:varchar(200);not null"`
	CustomerGSTN    string          `gorm:"type:varchar(20)"`
	SalesOrderID    *uuid.UUID      `gorm:"type:uuid;index"`
	InvoiceDate     time.Time       `gorm:"not null"`
	DueDate         *time.Time      ``
	Items           []InvoiceItem   `gorm:"foreignKey:InvoiceID;references:ID"`
	Payments        []Payment       `gorm:"foreignKey:InvoiceID;references:ID"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	TaxableAmount   decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	CGSTAmount      decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	SGSTAmount      decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	IGSTAmount      decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	TotalTax        decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	ShippingCharges decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	RoundOff        decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	GrandTotal      decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	PaidAmount      decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0"`
	Status          InvoiceStatus   `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);not null;default:'UNPAID'"`
	Notes           string          `gorm:"type:varchar(1000)"`
	IssuedAt        *time.Time      ``
	CancelledAt     *time.Time      ``
	CancelReason    string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new invoice in DRAFT status
func NewInvoice(invoiceNumber string, customerID uuid.UUID, customerName string, invoiceDate time.Time) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("VALIDATION", "Invoice number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("VALIDATION", "Customer name cannot be empty")
	}
	if invoiceDate.IsZero() {
		invoiceDate = time.Now()
	}

	invoice := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		CustomerID:        customerID,
		CustomerName:      customerName,
		InvoiceDate:       invoiceDate,
		Items:             make([]InvoiceItem, 0),
		Payments:          make([]Payment, 0),
		Subtotal:          decimal.Zero,
		DiscountPercent:   decimal.Zero,
		DiscountAmount:    decimal.Zero,
		TaxableAmount:     decimal.Zero,
		CGSTAmount:        decimal.Zero,
		SGSTAmount:        decimal.Zero,
		IGSTAmount:        decimal.Zero,
		TotalTax:          decimal.Zero,
		ShippingCharges:   decimal.Zero,
		RoundOff:          decimal.Zero,
		GrandTotal:        decimal.Zero,
		PaidAmount:        decimal.Zero,
		Status:            InvoiceStatusDraft,
		PaymentStatus:     PaymentStatusUnpaid,
	}

	invoice.AddDomainEvent(NewInvoiceCreatedEvent(invoice))

	return invoice, nil
}

// SetSalesOrder links the invoice to the sales order it bills
func (inv *Invoice) SetSalesOrder(salesOrderID uuid.UUID) error {
	if salesOrderID == uuid.Nil {
		return shared.NewDomainError("VALIDATION", "Sales order ID cannot be empty")
	}
	inv.SalesOrderID = &salesOrderID
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}

// AddItem adds a new line to the invoice. Only allowed in DRAFT status.
func (inv *Invoice) AddItem(finishedGoodID uuid.UUID, productName, productCode, hsnCode, unit string,
	quantity, unitPrice, cgstPercent, sgstPercent, igstPercent decimal.Decimal) (*InvoiceItem, error) {

	if inv.Status != InvoiceStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot add items to invoice in %s status", inv.Status))
	}

	item, err := NewInvoiceItem(inv.ID, finishedGoodID, productName, productCode, hsnCode, unit,
		quantity, unitPrice, cgstPercent, sgstPercent, igstPercent)
	if err != nil {
		return nil, err
	}

	inv.Items = append(inv.Items, *item)
	inv.recalculateTotals()
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	return item, nil
}

// RemoveItem removes a line from the invoice. Only allowed in DRAFT status.
func (inv *Invoice) RemoveItem(itemID uuid.UUID) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot remove items from invoice in %s status", inv.Status))
	}
	for idx, item := range inv.Items {
		if item.ID == itemID {
			inv.Items = append(inv.Items[:idx], inv.Items[idx+1:]...)
			inv.recalculateTotals()
			inv.UpdatedAt = time.Now()
			inv.IncrementVersion()
			return nil
		}
	}
	return shared.NewNotFoundError("Invoice item", "id", itemID)
}

// ItemInput carries the caller-supplied fields of one line for ReplaceItems
type ItemInput struct {
	FinishedGoodID uuid.UUID
	ProductName    string
	ProductCode    string
	HSNCode        string
	Unit           string
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	CGSTPercent    decimal.Decimal
	SGSTPercent    decimal.Decimal
	IGSTPercent    decimal.Decimal
}

// ReplaceItems swaps the full line set of a DRAFT invoice
func (inv *Invoice) ReplaceItems(inputs []ItemInput) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot replace items of invoice in %s status", inv.Status))
	}
	if len(inputs) == 0 {
		return shared.NewDomainError("VALIDATION", "Invoice must have at least one item")
	}

	items := make([]InvoiceItem, 0, len(inputs))
	for _, in := range inputs {
		item, err := NewInvoiceItem(inv.ID, in.FinishedGoodID, in.ProductName, in.ProductCode, in.HSNCode, in.Unit,
			in.Quantity, in.UnitPrice, in.CGSTPercent, in.SGSTPercent, in.IGSTPercent)
		if err != nil {
			return err
		}
		items = append(items, *item)
	}

	inv.Items = items
	inv.recalculateTotals()
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}

// SetDiscountPercent applies an invoice-level discount rate. Only allowed in DRAFT status.
func (inv *Invoice) SetDiscountPercent(percent decimal.Decimal) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change discount of invoice in %s status", inv.Status))
	}
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return shared.NewDomainError("VALIDATION", "Discount percent must be between 0 and 100")
	}
	inv.DiscountPercent = percent
	inv.recalculateTotals()
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}

// SetShippingCharges sets the shipping charges. Only allowed in DRAFT status.
func (inv *Invoice) SetShippingCharges(charges decimal.Decimal) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change shipping charges of invoice in %s status", inv.Status))
	}
	if charges.IsNegative() {
		return shared.NewDomainError("VALIDATION", "Shipping charges cannot be negative")
	}
	inv.ShippingCharges = charges
	inv.recalculateTotals()
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}

// SetDueDate sets the payment due date
func (inv *Invoice) SetDueDate(date time.Time) {
	inv.DueDate = &date
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
}

// Issue finalizes the invoice, DRAFT to ISSUED. Payments can only be
// recorded against an issued invoice.
func (inv *Invoice) Issue() error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot issue invoice in %s status", inv.Status))
	}
	if len(inv.Items) == 0 {
		return shared.NewDomainError("BUSINESS_RULE", "Cannot issue invoice without items")
	}

	now := time.Now()
	inv.Status = InvoiceStatusIssued
	inv.IssuedAt = &now
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceIssuedEvent(inv))

	return nil
}

// RecordPayment appends a payment, accumulates the paid amount and rederives
// the payment status. Overpayment is allowed and simply leaves a negative
// balance.
func (inv *Invoice) RecordPayment(amount decimal.Decimal, paymentDate time.Time, mode PaymentMode, reference, notes string) (*Payment, error) {
	if inv.Status != InvoiceStatusIssued {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot record payment on invoice in %s status", inv.Status))
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION", "Payment amount must be positive")
	}
	if !mode.IsValid() {
		return nil, shared.NewDomainError("VALIDATION", fmt.Sprintf("Unknown payment mode: %s", mode))
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	payment := Payment{
		ID:          uuid.New(),
		InvoiceID:   inv.ID,
		Amount:      amount,
		PaymentDate: paymentDate,
		Mode:        mode,
		Reference:   reference,
		Notes:       notes,
		CreatedAt:   time.Now(),
	}

	inv.Payments = append(inv.Payments, payment)
	inv.PaidAmount = inv.PaidAmount.Add(amount)
	inv.PaymentStatus = DerivePaymentStatus(inv.PaidAmount, inv.GrandTotal)
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	inv.AddDomainEvent(NewPaymentRecordedEvent(inv, &payment))

	return &payment, nil
}

// BalanceAmount returns the outstanding balance, negative when overpaid
func (inv *Invoice) BalanceAmount() decimal.Decimal {
	return inv.GrandTotal.Sub(inv.PaidAmount)
}

// Cancel cancels the invoice. A fully paid invoice cannot be cancelled.
func (inv *Invoice) Cancel(reason string) error {
	if inv.Status == InvoiceStatusCancelled {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel invoice in %s status", inv.Status))
	}
	if inv.PaymentStatus == PaymentStatusPaid {
		return shared.NewDomainError("BUSINESS_RULE", "Cannot cancel a fully paid invoice")
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION", "Cancel reason is required")
	}

	now := time.Now()
	inv.Status = InvoiceStatusCancelled
	inv.CancelledAt = &now
	inv.CancelReason = reason
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceCancelledEvent(inv, reason))

	return nil
}

// Delete soft-deletes the invoice. Only allowed while nothing has been paid.
func (inv *Invoice) Delete() error {
	if inv.PaymentStatus != PaymentStatusUnpaid {
		return shared.NewDomainError("BUSINESS_RULE", "Cannot delete an invoice with recorded payments")
	}
	inv.MarkDeleted()
	inv.IncrementVersion()
	return nil
}

// recalculateTotals rederives the invoice totals from the lines:
// subtotal = sum of pre-tax line amounts, discount = subtotal * dp/100,
// taxable = subtotal - discount, GST components summed per line,
// grand total = taxable + tax + shipping rounded half-up to the whole unit,
// with the rounding remainder kept in RoundOff.
func (inv *Invoice) recalculateTotals() {
	subtotal := valueobject.ZeroINR()
	cgst := valueobject.ZeroINR()
	sgst := valueobject.ZeroINR()
	igst := valueobject.ZeroINR()
	for _, item := range inv.Items {
		subtotal = subtotal.MustAdd(valueobject.NewMoneyINR(item.Amount))
		cgst = cgst.MustAdd(valueobject.NewMoneyINR(item.CGSTAmount))
		sgst = sgst.MustAdd(valueobject.NewMoneyINR(item.SGSTAmount))
		igst = igst.MustAdd(valueobject.NewMoneyINR(item.IGSTAmount))
	}

	discount := subtotal.CalculatePercentage(inv.DiscountPercent)
	taxable := subtotal.MustSubtract(discount)
	totalTax := cgst.MustAdd(sgst).MustAdd(igst)

	inv.Subtotal = subtotal.Amount()
	inv.DiscountAmount = discount.Amount()
	inv.TaxableAmount = taxable.Amount()
	inv.CGSTAmount = cgst.Amount()
	inv.SGSTAmount = sgst.Amount()
	inv.IGSTAmount = igst.Amount()
	inv.TotalTax = totalTax.Amount()

	totalBeforeRounding := taxable.MustAdd(totalTax).
		MustAdd(valueobject.NewMoneyINR(inv.ShippingCharges))
	grand := totalBeforeRounding.RoundHalfUp(0)
	inv.GrandTotal = grand.Amount()
	inv.RoundOff = grand.MustSubtract(totalBeforeRounding).Amount()

	inv.PaymentStatus = DerivePaymentStatus(inv.PaidAmount, inv.GrandTotal)
}

// ItemCount returns the number of lines in the invoice
func (inv *Invoice) ItemCount() int {
	return len(inv.Items)
}

// IsDraft returns true if the invoice is in draft status
func (inv *Invoice) IsDraft() bool {
	return inv.Status == InvoiceStatusDraft
}

// IsCancelled returns true if the invoice is cancelled
func (inv *Invoice) IsCancelled() bool {
	return inv.Status == InvoiceStatusCancelled
}

// IsFullyPaid returns true when payments cover the grand total
func (inv *Invoice) IsFullyPaid() bool {
	return inv.PaymentStatus == PaymentStatusPaid
}
