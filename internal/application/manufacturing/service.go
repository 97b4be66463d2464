package manufacturing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	inventoryapp "github.com/mfg-erp/backend/internal/application/inventory"
	"github.com/mfg-erp/backend/internal/domain/catalog"
	"github.com/mfg-erp/backend/internal/domain/inventory"
	"github.com/mfg-erp/backend/internal/domain/manufacturing"
	"github.com/mfg-erp/backend/internal/domain/shared"
	"github.com/mfg-erp/backend/internal/infrastructure/numbering"
)

// ComponentInput carries one caller-supplied BOM component.
// Unit cost defaults from the raw material's standard cost.
type ComponentInput struct {
	RawMaterialID  uuid.UUID
	Quantity       decimal.Decimal
	WastagePercent decimal.Decimal
	UnitCost       *decimal.Decimal
}

// CreateBomCommand carries the fields for BOM creation
type CreateBomCommand struct {
	Code           string
	Name           string
	FinishedGoodID uuid.UUID
	OutputQuantity decimal.Decimal
	Components     []ComponentInput
}

// CreateWorkOrderCommand carries the fields for work order creation
type CreateWorkOrderCommand struct {
	FinishedGoodID  uuid.UUID
	BomID           *uuid.UUID
	WarehouseID     *uuid.UUID
	SalesOrderID    *uuid.UUID
	PlannedQuantity decimal.Decimal
	PlannedStart    *time.Time
	PlannedEnd      *time.Time
	Priority        *manufacturing.WorkOrderPriority
}

// Service orchestrates BOMs and the work order lifecycle including the
// stock effects of production
type Service struct {
	boms       manufacturing.BomRepository
	workOrders manufacturing.WorkOrderRepository
	goods      catalog.FinishedGoodRepository
	materials  catalog.RawMaterialRepository
	stock      *inventoryapp.Service
	numbers    *numbering.Generator
	log        *zap.Logger
}

// NewService creates a manufacturing application service
func NewService(boms manufacturing.BomRepository, workOrders manufacturing.WorkOrderRepository,
	goods catalog.FinishedGoodRepository, materials catalog.RawMaterialRepository,
	stock *inventoryapp.Service, numbers *numbering.Generator, log *zap.Logger) *Service {
	return &Service{
		boms:       boms,
		workOrders: workOrders,
		goods:      goods,
		materials:  materials,
		stock:      stock,
		numbers:    numbers,
		log:        log,
	}
}

// CreateBom creates a BOM with its components
func (s *Service) CreateBom(ctx context.Context, cmd CreateBomCommand, userID uuid.UUID) (*manufacturing.BomHeader, error) {
	exists, err := s.boms.ExistsByCode(ctx, cmd.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDuplicateError("BOM", "code", cmd.Code)
	}

	good, err := s.goods.FindByID(ctx, cmd.FinishedGoodID)
	if err != nil {
		return nil, shared.NewNotFoundError("Finished good", "id", cmd.FinishedGoodID)
	}

	bom, err := manufacturing.NewBomHeader(cmd.Code, cmd.Name, good.ID, good.Name, good.Code,
		cmd.OutputQuantity, good.UnitCode)
	if err != nil {
		return nil, err
	}
	bom.SetCreatedBy(userID)

	for _, comp := range cmd.Components {
		if err := s.addComponent(ctx, bom, comp); err != nil {
			return nil, err
		}
	}

	if err := s.boms.Save(ctx, bom); err != nil {
		return nil, err
	}
	s.log.Info("bom created", zap.String("code", bom.Code), zap.Int("components", bom.ComponentCount()))
	return bom, nil
}

// GetBom returns a BOM by ID
func (s *Service) GetBom(ctx context.Context, id uuid.UUID) (*manufacturing.BomHeader, error) {
	return s.boms.FindByID(ctx, id)
}

// ListBoms returns a page of BOMs
func (s *Service) ListBoms(ctx context.Context, filter shared.Filter) (*shared.Paginated[manufacturing.BomHeader], error) {
	return s.boms.FindAll(ctx, filter)
}

// AddComponent adds one component to a BOM
func (s *Service) AddComponent(ctx context.Context, bomID uuid.UUID, comp ComponentInput, userID uuid.UUID) (*manufacturing.BomHeader, error) {
	bom, err := s.boms.FindByID(ctx, bomID)
	if err != nil {
		return nil, err
	}
	expected := bom.Version

	if err := s.addComponent(ctx, bom, comp); err != nil {
		return nil, err
	}
	if err := s.boms.SaveWithLock(ctx, bom, expected); err != nil {
		return nil, err
	}
	return bom, nil
}

// UpdateComponent updates quantity, wastage or cost of one component
func (s *Service) UpdateComponent(ctx context.Context, bomID, componentID uuid.UUID,
	quantity, wastagePercent, unitCost decimal.Decimal, userID uuid.UUID) (*manufacturing.BomHeader, error) {
	bom, err := s.boms.FindByID(ctx, bomID)
	if err != nil {
		return nil, err
	}
	expected := bom.Version

	if err := bom.UpdateComponent(componentID, quantity, wastagePercent, unitCost); err != nil {
		return nil, err
	}
	if err := s.boms.SaveWithLock(ctx, bom, expected); err != nil {
		return nil, err
	}
	return bom, nil
}

// RemoveComponent removes one component from a BOM
func (s *Service) RemoveComponent(ctx context.Context, bomID, componentID uuid.UUID, userID uuid.UUID) (*manufacturing.BomHeader, error) {
	bom, err := s.boms.FindByID(ctx, bomID)
	if err != nil {
		return nil, err
	}
	expected := bom.Version

	if err := bom.RemoveComponent(componentID); err != nil {
		return nil, err
	}
	if err := s.boms.SaveWithLock(ctx, bom, expected); err != nil {
		return nil, err
	}
	return bom, nil
}

// ActivateBom makes a BOM the active version for its finished good,
// deactivating any currently active one
func (s *Service) ActivateBom(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*manufacturing.BomHeader, error) {
	bom, err := s.boms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	current, err := s.boms.FindActiveByFinishedGood(ctx, bom.FinishedGoodID)
	if err == nil && current.ID != bom.ID {
		expected := current.Version
		current.Deactivate()
		if err := s.boms.SaveWithLock(ctx, current, expected); err != nil {
			return nil, err
		}
	}

	expected := bom.Version
	bom.Activate()
	if err := s.boms.SaveWithLock(ctx, bom, expected); err != nil {
		return nil, err
	}
	return bom, nil
}

// DuplicateBom creates the next inactive version of a BOM
func (s *Service) DuplicateBom(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*manufacturing.BomHeader, error) {
	bom, err := s.boms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	copied := bom.Duplicate()
	exists, err := s.boms.ExistsByCode(ctx, copied.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDuplicateError("BOM", "code", copied.Code)
	}
	copied.SetCreatedBy(userID)

	if err := s.boms.Save(ctx, copied); err != nil {
		return nil, err
	}
	s.log.Info("bom duplicated",
		zap.String("source", bom.Code),
		zap.String("code", copied.Code),
	)
	return copied, nil
}

// ExplodeBom returns the material requirements for a production quantity
func (s *Service) ExplodeBom(ctx context.Context, id uuid.UUID, productionQuantity decimal.Decimal) ([]manufacturing.MaterialRequirement, error) {
	bom, err := s.boms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return bom.Explode(productionQuantity)
}

// DeleteBom soft-deletes a BOM
func (s *Service) DeleteBom(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	bom, err := s.boms.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if bom.IsActive {
		return shared.NewDomainError("BUSINESS_RULE", "Cannot delete the active BOM, deactivate it first")
	}
	return s.boms.Delete(ctx, id)
}

// CreateWorkOrder creates a draft work order against the product's BOM.
// When no BOM is named the active one is used.
func (s *Service) CreateWorkOrder(ctx context.Context, cmd CreateWorkOrderCommand, userID uuid.UUID) (*manufacturing.WorkOrder, error) {
	good, err := s.goods.FindByID(ctx, cmd.FinishedGoodID)
	if err != nil {
		return nil, shared.NewNotFoundError("Finished good", "id", cmd.FinishedGoodID)
	}

	var bom *manufacturing.BomHeader
	if cmd.BomID != nil {
		bom, err = s.boms.FindByID(ctx, *cmd.BomID)
		if err != nil {
			return nil, shared.NewNotFoundError("BOM", "id", *cmd.BomID)
		}
		if bom.FinishedGoodID != good.ID {
			return nil, shared.NewDomainError("BUSINESS_RULE", "BOM does not belong to the finished good")
		}
	} else {
		bom, err = s.boms.FindActiveByFinishedGood(ctx, good.ID)
		if err != nil {
			return nil, shared.NewDomainError("BUSINESS_RULE", "Finished good has no active BOM")
		}
	}

	number, err := s.numbers.Next(ctx, numbering.PrefixWorkOrder)
	if err != nil {
		return nil, err
	}

	wo, err := manufacturing.NewWorkOrder(number, good.ID, good.Name, good.Code,
		bom.ID, cmd.PlannedQuantity, good.UnitCode)
	if err != nil {
		return nil, err
	}
	wo.SetCreatedBy(userID)

	if cmd.PlannedStart != nil || cmd.PlannedEnd != nil {
		if err := wo.UpdatePlan(cmd.PlannedQuantity, cmd.PlannedStart, cmd.PlannedEnd); err != nil {
			return nil, err
		}
	}
	if cmd.Priority != nil {
		if err := wo.SetPriority(*cmd.Priority); err != nil {
			return nil, err
		}
	}
	if cmd.WarehouseID != nil {
		if err := wo.SetWarehouse(*cmd.WarehouseID); err != nil {
			return nil, err
		}
	}
	if cmd.SalesOrderID != nil {
		if err := wo.LinkSalesOrder(*cmd.SalesOrderID); err != nil {
			return nil, err
		}
	}

	if err := s.workOrders.Save(ctx, wo); err != nil {
		return nil, err
	}
	s.log.Info("work order created",
		zap.String("work_order_number", wo.WorkOrderNumber),
		zap.String("product", good.Code),
	)
	return wo, nil
}

// GetWorkOrder returns a work order by ID
func (s *Service) GetWorkOrder(ctx context.Context, id uuid.UUID) (*manufacturing.WorkOrder, error) {
	return s.workOrders.FindByID(ctx, id)
}

// ListWorkOrders returns a page of work orders
func (s *Service) ListWorkOrders(ctx context.Context, filter shared.Filter) (*shared.Paginated[manufacturing.WorkOrder], error) {
	return s.workOrders.FindAll(ctx, filter)
}

// UpdateWorkOrderPlan edits planned quantity and dates while modifiable
func (s *Service) UpdateWorkOrderPlan(ctx context.Context, id uuid.UUID, plannedQuantity decimal.Decimal,
	plannedStart, plannedEnd *time.Time, userID uuid.UUID) (*manufacturing.WorkOrder, error) {
	return s.transition(ctx, id, func(wo *manufacturing.WorkOrder) error {
		return wo.UpdatePlan(plannedQuantity, plannedStart, plannedEnd)
	})
}

// PlanWorkOrder moves a draft work order to planned
func (s *Service) PlanWorkOrder(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*manufacturing.WorkOrder, error) {
	return s.transition(ctx, id, (*manufacturing.WorkOrder).Plan)
}

// ReleaseWorkOrder releases a work order to the shop floor
func (s *Service) ReleaseWorkOrder(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*manufacturing.WorkOrder, error) {
	return s.transition(ctx, id, (*manufacturing.WorkOrder).Release)
}

// StartWorkOrder starts production, stamping the actual start date
func (s *Service) StartWorkOrder(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*manufacturing.WorkOrder, error) {
	return s.transition(ctx, id, (*manufacturing.WorkOrder).Start)
}

// RecordProgress accumulates produced and rejected quantities
func (s *Service) RecordProgress(ctx context.Context, id uuid.UUID, completed, rejected decimal.Decimal, userID uuid.UUID) (*manufacturing.WorkOrder, error) {
	return s.transition(ctx, id, func(wo *manufacturing.WorkOrder) error {
		return wo.RecordProgress(completed, rejected)
	})
}

// CompleteWorkOrder completes production: good output enters finished goods
// stock and the BOM materials consumed (wastage-adjusted, for the full
// produced quantity including rejects) leave raw material stock.
func (s *Service) CompleteWorkOrder(ctx context.Context, id uuid.UUID, completed, rejected decimal.Decimal, userID uuid.UUID) (*manufacturing.WorkOrder, error) {
	wo, err := s.workOrders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wo.WarehouseID == nil {
		return nil, shared.NewDomainError("BUSINESS_RULE", "Warehouse must be set before completing the work order")
	}

	bom, err := s.boms.FindByID(ctx, wo.BomID)
	if err != nil {
		return nil, shared.NewNotFoundError("BOM", "id", wo.BomID)
	}

	expected := wo.Version
	if err := wo.Complete(completed, rejected); err != nil {
		return nil, err
	}

	// Post the stock effects before persisting the completion so a shortfall
	// leaves the work order in its prior status.
	woID := wo.ID
	produced := completed.Add(rejected)
	requirements, err := bom.Explode(produced)
	if err != nil {
		return nil, err
	}
	for _, req := range requirements {
		posting := inventoryapp.StockPosting{
			WarehouseID:   *wo.WarehouseID,
			ItemType:      inventory.ItemTypeRawMaterial,
			ItemID:        req.RawMaterialID,
			ItemName:      req.MaterialName,
			ItemCode:      req.MaterialCode,
			Unit:          req.Unit,
			Quantity:      req.Quantity,
			MovementType:  inventory.MovementProductionOut,
			ReferenceType: inventory.ReferenceWorkOrder,
			ReferenceID:   &woID,
		}
		if err := s.stock.Issue(ctx, posting, false, userID); err != nil {
			return nil, err
		}
	}

	if completed.IsPositive() {
		posting := inventoryapp.StockPosting{
			WarehouseID:   *wo.WarehouseID,
			ItemType:      inventory.ItemTypeFinishedGood,
			ItemID:        wo.FinishedGoodID,
			ItemName:      wo.ProductName,
			ItemCode:      wo.ProductCode,
			Unit:          wo.Unit,
			Quantity:      completed,
			MovementType:  inventory.MovementProductionIn,
			ReferenceType: inventory.ReferenceWorkOrder,
			ReferenceID:   &woID,
		}
		if err := s.stock.Receive(ctx, posting, userID); err != nil {
			return nil, err
		}
	}

	if err := s.workOrders.SaveWithLock(ctx, wo, expected); err != nil {
		return nil, err
	}

	s.log.Info("work order completed",
		zap.String("work_order_number", wo.WorkOrderNumber),
		zap.String("completed", completed.String()),
		zap.String("rejected", rejected.String()),
	)
	return wo, nil
}

// CancelWorkOrder cancels a work order with a reason
func (s *Service) CancelWorkOrder(ctx context.Context, id uuid.UUID, reason string, userID uuid.UUID) (*manufacturing.WorkOrder, error) {
	return s.transition(ctx, id, func(wo *manufacturing.WorkOrder) error {
		return wo.Cancel(reason)
	})
}

// DeleteWorkOrder soft-deletes a draft or planned work order
func (s *Service) DeleteWorkOrder(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	wo, err := s.workOrders.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := wo.Delete(); err != nil {
		return err
	}
	return s.workOrders.Delete(ctx, id)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, mutate func(*manufacturing.WorkOrder) error) (*manufacturing.WorkOrder, error) {
	wo, err := s.workOrders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := wo.Version

	if err := mutate(wo); err != nil {
		return nil, err
	}
	if err := s.workOrders.SaveWithLock(ctx, wo, expected); err != nil {
		return nil, err
	}
	return wo, nil
}

func (s *Service) addComponent(ctx context.Context, bom *manufacturing.BomHeader, comp ComponentInput) error {
	material, err := s.materials.FindByID(ctx, comp.RawMaterialID)
	if err != nil {
		return shared.NewNotFoundError("Raw material", "id", comp.RawMaterialID)
	}
	unitCost := material.UnitCost
	if comp.UnitCost != nil {
		unitCost = *comp.UnitCost
	}
	_, err = bom.AddComponent(material.ID, material.Name, material.Code, material.UnitCode,
		comp.Quantity, comp.WastagePercent, unitCost)
	return err
}
