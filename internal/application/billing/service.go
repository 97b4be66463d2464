package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mfg-erp/backend/internal/domain/billing"
	"github.com/mfg-erp/backend/internal/domain/catalog"
	"github.com/mfg-erp/backend/internal/domain/partner"
	"github.com/mfg-erp/backend/internal/domain/sales"
	"github.com/mfg-erp/backend/internal/domain/shared"
	"github.com/mfg-erp/backend/internal/infrastructure/numbering"
)

// LineInput carries one caller-supplied invoice line.
// Product fields and GST rates default from the catalog.
type LineInput struct {
	FinishedGoodID uuid.UUID
	Quantity       decimal.Decimal
	UnitPrice      *decimal.Decimal
	CGSTPercent    *decimal.Decimal
	SGSTPercent    *decimal.Decimal
	IGSTPercent    *decimal.Decimal
}

// CreateInvoiceCommand carries the fields for invoice creation
type CreateInvoiceCommand struct {
	CustomerID      uuid.UUID
	SalesOrderID    *uuid.UUID
	InvoiceDate     time.Time
	DueDate         *time.Time
	Items           []LineInput
	DiscountPercent decimal.Decimal
	ShippingCharges decimal.Decimal
	Notes           string
}

// RecordPaymentCommand carries the fields of one payment receipt
type RecordPaymentCommand struct {
	Amount      decimal.Decimal
	PaymentDate time.Time
	Mode        billing.PaymentMode
	Reference   string
	Notes       string
}

// Service orchestrates the invoice lifecycle and payment tracking
type Service struct {
	invoices  billing.InvoiceRepository
	customers partner.CustomerRepository
	goods     catalog.FinishedGoodRepository
	orders    sales.SalesOrderRepository
	numbers   *numbering.Generator
	log       *zap.Logger
}

// NewService creates a billing application service
func NewService(invoices billing.InvoiceRepository, customers partner.CustomerRepository,
	goods catalog.FinishedGoodRepository, orders sales.SalesOrderRepository,
	numbers *numbering.Generator, log *zap.Logger) *Service {
	return &Service{
		invoices:  invoices,
		customers: customers,
		goods:     goods,
		orders:    orders,
		numbers:   numbers,
		log:       log,
	}
}

// CreateInvoice creates a draft invoice with an allocated number
func (s *Service) CreateInvoice(ctx context.Context, cmd CreateInvoiceCommand, userID uuid.UUID) (*billing.Invoice, error) {
	customer, err := s.customers.FindByID(ctx, cmd.CustomerID)
	if err != nil {
		return nil, shared.NewNotFoundError("Customer", "id", cmd.CustomerID)
	}

	invoiceDate := cmd.InvoiceDate
	if invoiceDate.IsZero() {
		invoiceDate = time.Now()
	}

	number, err := s.numbers.Next(ctx, numbering.PrefixInvoice)
	if err != nil {
		return nil, err
	}

	invoice, err := billing.NewInvoice(number, customer.ID, customer.Name, invoiceDate)
	if err != nil {
		return nil, err
	}
	invoice.CustomerGSTN = customer.GSTNumber
	invoice.SetCreatedBy(userID)

	if cmd.SalesOrderID != nil {
		if _, err := s.orders.FindByID(ctx, *cmd.SalesOrderID); err != nil {
			return nil, shared.NewNotFoundError("Sales order", "id", *cmd.SalesOrderID)
		}
		if err := invoice.SetSalesOrder(*cmd.SalesOrderID); err != nil {
			return nil, err
		}
	}
	if cmd.DueDate != nil {
		invoice.SetDueDate(*cmd.DueDate)
	}
	invoice.Notes = cmd.Notes

	for _, line := range cmd.Items {
		input, err := s.resolveLine(ctx, line)
		if err != nil {
			return nil, err
		}
		if _, err := invoice.AddItem(input.FinishedGoodID, input.ProductName, input.ProductCode,
			input.HSNCode, input.Unit, input.Quantity, input.UnitPrice,
			input.CGSTPercent, input.SGSTPercent, input.IGSTPercent); err != nil {
			return nil, err
		}
	}
	if !cmd.DiscountPercent.IsZero() {
		if err := invoice.SetDiscountPercent(cmd.DiscountPercent); err != nil {
			return nil, err
		}
	}
	if !cmd.ShippingCharges.IsZero() {
		if err := invoice.SetShippingCharges(cmd.ShippingCharges); err != nil {
			return nil, err
		}
	}

	if err := s.invoices.Save(ctx, invoice); err != nil {
		return nil, err
	}
	s.log.Info("invoice created",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("customer", customer.Code),
	)
	return invoice, nil
}

// CreateFromSalesOrder drafts an invoice carrying the undelivered-agnostic
// full line set of a sales order
func (s *Service) CreateFromSalesOrder(ctx context.Context, salesOrderID uuid.UUID, userID uuid.UUID) (*billing.Invoice, error) {
	order, err := s.orders.FindByID(ctx, salesOrderID)
	if err != nil {
		return nil, err
	}

	cmd := CreateInvoiceCommand{
		CustomerID:      order.CustomerID,
		SalesOrderID:    &order.ID,
		DiscountPercent: order.DiscountPercent,
		ShippingCharges: order.ShippingCharges,
	}
	for _, item := range order.Items {
		price := item.UnitPrice
		cgst, sgst, igst := item.CGSTPercent, item.SGSTPercent, item.IGSTPercent
		cmd.Items = append(cmd.Items, LineInput{
			FinishedGoodID: item.FinishedGoodID,
			Quantity:       item.Quantity,
			UnitPrice:      &price,
			CGSTPercent:    &cgst,
			SGSTPercent:    &sgst,
			IGSTPercent:    &igst,
		})
	}
	return s.CreateInvoice(ctx, cmd, userID)
}

// GetInvoice returns an invoice by ID
func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	return s.invoices.FindByID(ctx, id)
}

// ListInvoices returns a page of invoices
func (s *Service) ListInvoices(ctx context.Context, filter shared.Filter) (*shared.Paginated[billing.Invoice], error) {
	return s.invoices.FindAll(ctx, filter)
}

// ReplaceItems swaps the full line set of a draft invoice
func (s *Service) ReplaceItems(ctx context.Context, id uuid.UUID, lines []LineInput, userID uuid.UUID) (*billing.Invoice, error) {
	invoice, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := invoice.Version

	inputs := make([]billing.ItemInput, 0, len(lines))
	for _, line := range lines {
		input, err := s.resolveLine(ctx, line)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input)
	}

	if err := invoice.ReplaceItems(inputs); err != nil {
		return nil, err
	}
	if err := s.invoices.SaveWithLock(ctx, invoice, expected); err != nil {
		return nil, err
	}
	return invoice, nil
}

// Issue finalizes a draft invoice
func (s *Service) Issue(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*billing.Invoice, error) {
	invoice, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := invoice.Version

	if err := invoice.Issue(); err != nil {
		return nil, err
	}
	if err := s.invoices.SaveWithLock(ctx, invoice, expected); err != nil {
		return nil, err
	}
	s.log.Info("invoice issued",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("grand_total", invoice.GrandTotal.String()),
	)
	return invoice, nil
}

// RecordPayment records a payment against an issued invoice and rederives
// the payment status
func (s *Service) RecordPayment(ctx context.Context, id uuid.UUID, cmd RecordPaymentCommand, userID uuid.UUID) (*billing.Invoice, error) {
	invoice, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := invoice.Version

	paymentDate := cmd.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	if _, err := invoice.RecordPayment(cmd.Amount, paymentDate, cmd.Mode, cmd.Reference, cmd.Notes); err != nil {
		return nil, err
	}

	if err := s.invoices.SaveWithLock(ctx, invoice, expected); err != nil {
		return nil, err
	}
	s.log.Info("payment recorded",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("amount", cmd.Amount.String()),
		zap.String("payment_status", string(invoice.PaymentStatus)),
	)
	return invoice, nil
}

// Cancel cancels an invoice; fully paid invoices cannot be cancelled
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string, userID uuid.UUID) (*billing.Invoice, error) {
	invoice, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := invoice.Version

	if err := invoice.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.invoices.SaveWithLock(ctx, invoice, expected); err != nil {
		return nil, err
	}
	return invoice, nil
}

// Delete soft-deletes an invoice with no payments against it
func (s *Service) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	invoice, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := invoice.Delete(); err != nil {
		return err
	}
	return s.invoices.Delete(ctx, id)
}

func (s *Service) resolveLine(ctx context.Context, line LineInput) (billing.ItemInput, error) {
	good, err := s.goods.FindByID(ctx, line.FinishedGoodID)
	if err != nil {
		return billing.ItemInput{}, shared.NewNotFoundError("Finished good", "id", line.FinishedGoodID)
	}

	input := billing.ItemInput{
		FinishedGoodID: good.ID,
		ProductName:    good.Name,
		ProductCode:    good.Code,
		HSNCode:        good.HSNCode,
		Unit:           good.UnitCode,
		Quantity:       line.Quantity,
		UnitPrice:      good.SellingPrice,
		CGSTPercent:    good.CGSTPercent,
		SGSTPercent:    good.SGSTPercent,
		IGSTPercent:    good.IGSTPercent,
	}
	if line.UnitPrice != nil {
		input.UnitPrice = *line.UnitPrice
	}
	if line.CGSTPercent != nil {
		input.CGSTPercent = *line.CGSTPercent
	}
	if line.SGSTPercent != nil {
		input.SGSTPercent = *line.SGSTPercent
	}
	if line.IGSTPercent != nil {
		input.IGSTPercent = *line.IGSTPercent
	}
	return input, nil
}
