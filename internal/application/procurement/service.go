package procurement

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
	"github.com/mfg-erp/backend/internal/domain/procurement"
	"github.com/mfg-erp/backend/internal/domain/shared"
	"github.com/mfg-erp/backend/internal/infrastructure/numbering"
)

// LineInput carries one caller-supplied purchase order line.
// Material name, code and unit are resolved from the catalog.
type LineInput struct {
	MaterialID      uuid.UUID
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
}

// CreateOrderCommand carries the fields for purchase order creation
type CreateOrderCommand struct {
	SupplierID      uuid.UUID
	WarehouseID     *uuid.UUID
	OrderDate       time.Time
	ExpectedDate    *time.Time
	Items           []LineInput
	DiscountPercent decimal.Decimal
	ShippingCharges decimal.Decimal
	Notes           string
}

// UpdateOrderCommand carries the header fields editable while in draft
type UpdateOrderCommand struct {
	WarehouseID     *uuid.UUID
	ExpectedDate    *time.Time
	DiscountPercent *decimal.Decimal
	ShippingCharges *decimal.Decimal
	Notes           *string
}

// Service orchestrates the purchase order lifecycle
type Service struct {
	orders    procurement.PurchaseOrderRepository
	suppliers partner.SupplierRepository
	materials catalog.RawMaterialRepository
	stock     *inventoryapp.Service
	numbers   *numbering.Generator
	log       *zap.Logger
}

// NewService creates a procurement application service
func NewService(orders procurement.PurchaseOrderRepository, suppliers partner.SupplierRepository,
	materials catalog.RawMaterialRepository, stock *inventoryapp.Service,
	numbers *numbering.Generator, log *zap.Logger) *Service {
	return &Service{
		orders:    orders,
		suppliers: suppliers,
		materials: materials,
		stock:     stock,
		numbers:   numbers,
		log:       log,
	}
}

// CreateOrder creates a draft purchase order with an allocated number
func (s *Service) CreateOrder(ctx context.Context, cmd CreateOrderCommand, userID uuid.UUID) (*procurement.PurchaseOrder, error) {
	supplier, err := s.suppliers.FindByID(ctx, cmd.SupplierID)
	if err != nil {
		return nil, shared.NewNotFoundError("Supplier", "id", cmd.SupplierID)
	}
	if !supplier.IsActive() {
		return nil, shared.NewDomainError("BUSINESS_RULE", "Cannot order from an inactive supplier")
	}

	orderDate := cmd.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	number, err := s.numbers.Next(ctx, numbering.PrefixPurchaseOrder)
	if err != nil {
		return nil, err
	}

	order, err := procurement.NewPurchaseOrder(number, supplier.ID, supplier.Name, orderDate)
	if err != nil {
		return nil, err
	}
	order.SetCreatedBy(userID)

	if cmd.WarehouseID != nil {
		if err := order.SetWarehouse(*cmd.WarehouseID); err != nil {
			return nil, err
		}
	}
	if cmd.ExpectedDate != nil {
		order.SetExpectedDate(*cmd.ExpectedDate)
	}
	order.SetNotes(cmd.Notes)

	for _, line := range cmd.Items {
		material, err := s.materials.FindByID(ctx, line.MaterialID)
		if err != nil {
			return nil, shared.NewNotFoundError("Raw material", "id", line.MaterialID)
		}
		if _, err := order.AddItem(material.ID, material.Name, material.Code, material.UnitCode,
			line.Quantity, line.UnitPrice, line.DiscountPercent, line.TaxPercent); err != nil {
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
	s.log.Info("purchase order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("supplier", supplier.Code),
	)
	return order, nil
}

// GetOrder returns a purchase order by ID
func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	return s.orders.FindByID(ctx, id)
}

// ListOrders returns a page of purchase orders
func (s *Service) ListOrders(ctx context.Context, filter shared.Filter) (*shared.Paginated[procurement.PurchaseOrder], error) {
	return s.orders.FindAll(ctx, filter)
}

// UpdateOrder edits draft header fields
func (s *Service) UpdateOrder(ctx context.Context, id uuid.UUID, cmd UpdateOrderCommand, userID uuid.UUID) (*procurement.PurchaseOrder, error) {
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
	if cmd.ExpectedDate != nil {
		order.SetExpectedDate(*cmd.ExpectedDate)
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
func (s *Service) ReplaceItems(ctx context.Context, id uuid.UUID, lines []LineInput, userID uuid.UUID) (*procurement.PurchaseOrder, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := order.Version

	inputs := make([]procurement.ItemInput, 0, len(lines))
	for _, line := range lines {
		material, err := s.materials.FindByID(ctx, line.MaterialID)
		if err != nil {
			return nil, shared.NewNotFoundError("Raw material", "id", line.MaterialID)
		}
		inputs = append(inputs, procurement.ItemInput{
			MaterialID:      material.ID,
			MaterialName:    material.Name,
			MaterialCode:    material.Code,
			Unit:            material.UnitCode,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			DiscountPercent: line.DiscountPercent,
			TaxPercent:      line.TaxPercent,
		})
	}

	if err := order.ReplaceItems(inputs); err != nil {
		return nil, err
	}
	if err := s.orders.SaveWithLock(ctx, order, expected); err != nil {
		return nil, err
	}
	return order, nil
}

// Submit moves a draft order to pending approval
func (s *Service) Submit(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*procurement.PurchaseOrder, error) {
	return s.transition(ctx, id, func(order *procurement.PurchaseOrder) error {
		return order.Submit()
	})
}

// Approve approves a pending order, stamping the approver
func (s *Service) Approve(ctx context.Context, id uuid.UUID, approverID uuid.UUID) (*procurement.PurchaseOrder, error) {
	return s.transition(ctx, id, func(order *procurement.PurchaseOrder) error {
		return order.Approve(approverID)
	})
}

// Reject returns a pending order to draft with the reason on record
func (s *Service) Reject(ctx context.Context, id uuid.UUID, reason string, userID uuid.UUID) (*procurement.PurchaseOrder, error) {
	return s.transition(ctx, id, func(order *procurement.PurchaseOrder) error {
		return order.Reject(reason)
	})
}

// SendToSupplier marks an approved order as placed with the supplier
func (s *Service) SendToSupplier(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*procurement.PurchaseOrder, error) {
	return s.transition(ctx, id, func(order *procurement.PurchaseOrder) error {
		return order.SendToSupplier()
	})
}

// Cancel cancels a non-terminal order
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string, userID uuid.UUID) (*procurement.PurchaseOrder, error) {
	return s.transition(ctx, id, func(order *procurement.PurchaseOrder) error {
		return order.Cancel(reason)
	})
}

// ReceiveGoods records a goods receipt and posts the received quantities
// into stock at the order's warehouse
func (s *Service) ReceiveGoods(ctx context.Context, id uuid.UUID, lines []procurement.ReceiptLine, userID uuid.UUID) (*procurement.PurchaseOrder, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := order.Version

	if err := order.Receive(lines); err != nil {
		return nil, err
	}
	if err := s.orders.SaveWithLock(ctx, order, expected); err != nil {
		return nil, err
	}

	orderID := order.ID
	for _, line := range lines {
		item := itemByMaterial(order, line.MaterialID)
		if item == nil {
			continue
		}
		posting := inventoryapp.StockPosting{
			WarehouseID:   *order.WarehouseID,
			ItemType:      inventory.ItemTypeRawMaterial,
			ItemID:        item.MaterialID,
			ItemName:      item.MaterialName,
			ItemCode:      item.MaterialCode,
			Unit:          item.Unit,
			Quantity:      line.Quantity,
			MovementType:  inventory.MovementPurchaseReceipt,
			ReferenceType: inventory.ReferencePurchaseOrder,
			ReferenceID:   &orderID,
		}
		if err := s.stock.Receive(ctx, posting, userID); err != nil {
			return nil, err
		}
	}

	s.log.Info("goods receipt posted",
		zap.String("order_number", order.OrderNumber),
		zap.Int("lines", len(lines)),
		zap.String("status", string(order.Status)),
	)
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

func (s *Service) transition(ctx context.Context, id uuid.UUID, mutate func(*procurement.PurchaseOrder) error) (*procurement.PurchaseOrder, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := order.Version

	if err := mutate(order); err != nil {
		return nil, err
	}
	if err := s.orders.SaveWithLock(ctx, order, expected); err != nil {
		return nil, err
	}
	return order, nil
}

func itemByMaterial(order *procurement.PurchaseOrder, materialID uuid.UUID) *procurement.PurchaseOrderItem {
	for i := range order.Items {
		if order.Items[i].MaterialID == materialID {
			return &order.Items[i]
		}
	}
	return nil
}
