package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	inventoryapp "github.com/mfg-erp/backend/internal/application/inventory"
	"github.com/mfg-erp/backend/internal/domain/catalog"
	"github.com/mfg-erp/backend/internal/domain/inventory"
	"github.com/mfg-erp/backend/internal/domain/partner"
	"github.com/mfg-erp/backend/internal/domain/sales"
	"github.com/mfg-erp/backend/internal/domain/shared"
	"github.com/mfg-erp/backend/internal/infrastructure/numbering"
)

// LineInput carries one caller-supplied sales order line.
// Product name, code, unit and GST rates default from the catalog; the GST
// overrides let interstate orders switch to IGST.
type LineInput struct {
	FinishedGoodID  uuid.UUID
	Quantity        decimal.Decimal
	UnitPrice       *decimal.Decimal
	DiscountPercent decimal.Decimal
	CGSTPercent     *decimal.Decimal
	SGSTPercent     *decimal.Decimal
	IGSTPercent     *decimal.Decimal
}

// CreateOrderCommand carries the fields for sales order creation
type CreateOrderCommand struct {
	CustomerID      uuid.UUID
	WarehouseID     *uuid.UUID
	OrderDate       time.Time
	DeliveryDate    *time.Time
	Items           []LineInput
	DiscountPercent decimal.Decimal
	ShippingCharges decimal.Decimal
	Notes           string
}

// UpdateOrderCommand carries the header fields editable while in draft
type UpdateOrderCommand struct {
	WarehouseID     *uuid.UUID
	DeliveryDate    *time.Time
	DiscountPercent *decimal.Decimal
	ShippingCharges *decimal.Decimal
	Notes           *string
}

// Service orchestrates the sales order lifecycle including stock
// reservation on confirmation and issue on delivery
type Service struct {
	orders    sales.SalesOrderRepository
	customers partner.CustomerRepository
	goods     catalog.FinishedGoodRepository
	stock     *inventoryapp.Service
	numbers   *numbering.Generator
	log       *zap.Logger
}

// NewService creates a sales application service
func NewService(orders sales.SalesOrderRepository, customers partner.CustomerRepository,
	goods catalog.FinishedGoodRepository, stock *inventoryapp.Service,
	numbers *numbering.Generator, log *zap.Logger) *Service {
	return &Service{
		orders:    orders,
		customers: customers,
		goods:     goods,
		stock:     stock,
		numbers:   numbers,
		log:       log,
	}
}

// CreateOrder creates a draft sales order with an allocated number
func (s *Service) CreateOrder(ctx context.Context, cmd CreateOrderCommand, userID uuid.UUID) (*sales.SalesOrder, error) {
	customer, err := s.customers.FindByID(ctx, cmd.CustomerID)
	if err != nil {
		return nil, shared.NewNotFoundError("Customer", "id", cmd.CustomerID)
	}

	orderDate := cmd.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	number, err := s.numbers.Next(ctx, numbering.PrefixSalesOrder)
	if err != nil {
		return nil, err
	}

	order, err := sales.NewSalesOrder(number, customer.ID, customer.Name, orderDate)
	if err != nil {
		return nil, err
	}
	order.SetCreatedBy(userID)

	if cmd.WarehouseID != nil {
		if err := order.SetWarehouse(*cmd.WarehouseID); err != nil {
			return nil, err
		}
	}
	if cmd.DeliveryDate != nil {
		order.SetDeliveryDate(*cmd.DeliveryDate)
	}
	order.SetNotes(cmd.Notes)

	for _, line := range cmd.Items {
		input, err := s.resolveLine(ctx, line)
		if err != nil {
			return nil, err
		}
		if _, err := order.AddItem(input.FinishedGoodID, input.ProductName, input.ProductCode, input.Unit,
			input.Quantity, input.UnitPrice, input.DiscountPercent,
			input.CGSTPercent, input.SGSTPercent, input.IGSTPercent); err != nil {
			return nil, err
		}
	}
	if !cmd.DiscountPercent.IsZero() {
		if err := order.SetDiscountPercent(cmd.DiscountPercent); err != nil {
			return nil, err
		}
	}
	if !cmd.ShippingCharges.IsZero() {
		if err := order.SetShippingCharges(cmd.ShippingCharges); err != nil {
			return nil, err
		}
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	s.log.Info("sales order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("customer", customer.Code),
	)
	return order, nil
}

// GetOrder returns a sales order by ID
func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*sales.SalesOrder, error) {
	return s.orders.FindByID(ctx, id)
}

// ListOrders returns a page of sales orders
func (s *Service) ListOrders(ctx context.Context, filter shared.Filter) (*shared.Paginated[sales.SalesOrder], error) {
	return s.orders.FindAll(ctx, filter)
}

// UpdateOrder edits draft header fields
func (s *Service) UpdateOrder(ctx context.Context, id uuid.UUID, cmd UpdateOrderCommand, userID uuid.UUID) (*sales.SalesOrder, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := order.Version

	if cmd.WarehouseID != nil {
		if err := order.SetWarehouse(*cmd.WarehouseID); err != nil {
			return nil, err
		}
	}
	if cmd.DeliveryDate != nil {
		order.SetDeliveryDate(*cmd.DeliveryDate)
	}
	if cmd.DiscountPercent != nil {
		if err := order.SetDiscountPercent(*cmd.DiscountPercent); err != nil {
			return nil, err
		}
	}
	if cmd.ShippingCharges != nil {
		if err := order.SetShippingCharges(*cmd.ShippingCharges); err != nil {
			return nil, err
		}
	}
	if cmd.Notes != nil {
		order.SetNotes(*cmd.Notes)
	}

	if err := s.orders.SaveWithLock(ctx, order, expected); err != nil {
		return nil, err
	}
	return order, nil
}

// ReplaceItems swaps the full line set of a draft order
func (s *Service) ReplaceItems(ctx context.Context, id uuid.UUID, lines []LineInput, userID uuid.UUID) (*sales.SalesOrder, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := order.Version

	inputs := make([]sales.ItemInput, 0, len(lines))
	for _, line := range lines {
		input, err := s.resolveLine(ctx, line)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input)
	}

	if err := order.ReplaceItems(inputs); err != nil {
		return nil, err
	}
	if err := s.orders.SaveWithLock(ctx, order, expected); err != nil {
		return nil, err
	}
	return order, nil
}

// Confirm confirms a draft order and reserves stock for every line at the
// order's warehouse. Any shortfall aborts the whole confirmation. Orders
// without a warehouse confirm as plain documents, with no reservation.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*sales.SalesOrder, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := order.Version

	if err := order.Confirm(); err != nil {
		return nil, err
	}

	if order.WarehouseID != nil {
		for _, item := range order.Items {
			if err := s.stock.Reserve(ctx, s.posting(order, item, item.Quantity), userID); err != nil {
				return nil, err
			}
		}
	}

	if err := s.orders.SaveWithLock(ctx, order, expected); err != nil {
		return nil, err
	}
	s.log.Info("sales order confirmed", zap.String("order_number", order.OrderNumber))
	return order, nil
}

// StartProcessing moves a confirmed order into processing
func (s *Service) StartProcessing(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*sales.SalesOrder, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := order.Version
	if err := order.StartProcessing(); err != nil {
		return nil, err
	}
	if err := s.orders.SaveWithLock(ctx, order, expected); err != nil {
		return nil, err
	}
	return order, nil
}

// Deliver records a delivery and issues the delivered quantities from the
// reserved stock at the order's warehouse
func (s *Service) Deliver(ctx context.Context, id uuid.UUID, lines []sales.DeliveryLine, userID uuid.UUID) (*sales.SalesOrder, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := order.Version

	if err := order.Deliver(lines); err != nil {
		return nil, err
	}
	if err := s.orders.SaveWithLock(ctx, order, expected); err != nil {
		return nil, err
	}

	if order.WarehouseID != nil {
		for _, line := range lines {
			item := itemByProduct(order, line.FinishedGoodID)
			if item == nil {
				continue
			}
			if err := s.stock.Issue(ctx, s.posting(order, *item, line.Quantity), true, userID); err != nil {
				return nil, err
			}
		}
	}

	s.log.Info("delivery posted",
		zap.String("order_number", order.OrderNumber),
		zap.String("status", string(order.Status)),
	)
	return order, nil
}

// Cancel cancels the order; reservations taken at confirmation are released
// for the undelivered remainder
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string, userID uuid.UUID) (*sales.SalesOrder, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := order.Version

	wasConfirmed := order.Status != sales.SalesOrderStatusDraft
	if err := order.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.orders.SaveWithLock(ctx, order, expected); err != nil {
		return nil, err
	}

	if wasConfirmed && order.WarehouseID != nil {
		for _, item := range order.Items {
			remaining := item.PendingQuantity()
			if remaining.IsPositive() {
				if err := s.stock.Release(ctx, s.posting(order, item, remaining), userID); err != nil {
					return nil, err
				}
			}
		}
	}
	return order, nil
}

// Delete soft-deletes a draft order
func (s *Service) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := order.Delete(); err != nil {
		return err
	}
	return s.orders.Delete(ctx, id)
}

func (s *Service) resolveLine(ctx context.Context, line LineInput) (sales.ItemInput, error) {
	good, err := s.goods.FindByID(ctx, line.FinishedGoodID)
	if err != nil {
		return sales.ItemInput{}, shared.NewNotFoundError("Finished good", "id", line.FinishedGoodID)
	}

	input := sales.ItemInput{
		FinishedGoodID:  good.ID,
		ProductName:     good.Name,
		ProductCode:     good.Code,
		Unit:            good.UnitCode,
		Quantity:        line.Quantity,
		UnitPrice:       good.SellingPrice,
		DiscountPercent: line.DiscountPercent,
		CGSTPercent:     good.CGSTPercent,
		SGSTPercent:     good.SGSTPercent,
		IGSTPercent:     good.IGSTPercent,
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

func (s *Service) posting(order *sales.SalesOrder, item sales.SalesOrderItem, qty decimal.Decimal) inventoryapp.StockPosting {
	orderID := order.ID
	return inventoryapp.StockPosting{
		WarehouseID:   *order.WarehouseID,
		ItemType:      inventory.ItemTypeFinishedGood,
		ItemID:        item.FinishedGoodID,
		ItemName:      item.ProductName,
		ItemCode:      item.ProductCode,
		Unit:          item.Unit,
		Quantity:      qty,
		MovementType:  inventory.MovementSaleDelivery,
		ReferenceType: inventory.ReferenceSalesOrder,
		ReferenceID:   &orderID,
	}
}

func itemByProduct(order *sales.SalesOrder, finishedGoodID uuid.UUID) *sales.SalesOrderItem {
	for i := range order.Items {
		if order.Items[i].FinishedGoodID == finishedGoodID {
			return &order.Items[i]
		}
	}
	return nil
}
