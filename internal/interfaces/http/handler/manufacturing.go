package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	manufacturingapp "github.com/mfg-erp/backend/internal/application/manufacturing"
	"github.com/mfg-erp/backend/internal/domain/manufacturing"
)

// ManufacturingHandler exposes BOM and work order endpoints
type ManufacturingHandler struct {
	BaseHandler
	production *manufacturingapp.Service
}

// NewManufacturingHandler creates a manufacturing handler
func NewManufacturingHandler(production *manufacturingapp.Service) *ManufacturingHandler {
	return &ManufacturingHandler{production: production}
}

// BomComponentRequest is one component in a BOM create/add request.
// Unit cost defaults from the raw material's standard cost.
type BomComponentRequest struct {
	RawMaterialID  string   `json:"raw_material_id" binding:"required,uuid"`
	Quantity       float64  `json:"quantity" binding:"required,gt=0"`
	WastagePercent float64  `json:"wastage_percent" binding:"min=0,max=100"`
	UnitCost       *float64 `json:"unit_cost" binding:"omitempty,min=0"`
}

// CreateBomRequest is the body for BOM creation
type CreateBomRequest struct {
	Code           string                `json:"code" binding:"required,min=1,max=50"`
	Name           string                `json:"name" binding:"required,min=1,max=200"`
	FinishedGoodID string                `json:"finished_good_id" binding:"required,uuid"`
	OutputQuantity float64               `json:"output_quantity" binding:"required,gt=0"`
	Components     []BomComponentRequest `json:"components" binding:"omitempty,dive"`
}

func toComponentInput(req BomComponentRequest) manufacturingapp.ComponentInput {
	return manufacturingapp.ComponentInput{
		RawMaterialID:  uuid.MustParse(req.RawMaterialID),
		Quantity:       toDecimal(req.Quantity),
		WastagePercent: toDecimal(req.WastagePercent),
		UnitCost:       toDecimalPtr(req.UnitCost),
	}
}

// CreateBom handles POST /manufacturing/boms
func (h *ManufacturingHandler) CreateBom(c *gin.Context) {
	var req CreateBomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := manufacturingapp.CreateBomCommand{
		Code:           req.Code,
		Name:           req.Name,
		FinishedGoodID: uuid.MustParse(req.FinishedGoodID),
		OutputQuantity: toDecimal(req.OutputQuantity),
	}
	for _, comp := range req.Components {
		cmd.Components = append(cmd.Components, toComponentInput(comp))
	}

	bom, err := h.production.CreateBom(c.Request.Context(), cmd, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, bom)
}

// GetBom handles GET /manufacturing/boms/:id
func (h *ManufacturingHandler) GetBom(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid BOM ID")
		return
	}
	bom, err := h.production.GetBom(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, bom)
}

// ListBoms handles GET /manufacturing/boms
func (h *ManufacturingHandler) ListBoms(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	page, err := h.production.ListBoms(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// AddComponent handles POST /manufacturing/boms/:id/components
func (h *ManufacturingHandler) AddComponent(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid BOM ID")
		return
	}
	var req BomComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	bom, err := h.production.AddComponent(c.Request.Context(), id, toComponentInput(req), getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, bom)
}

// UpdateComponentRequest is the body for a component update
type UpdateComponentRequest struct {
	Quantity       float64 `json:"quantity" binding:"required,gt=0"`
	WastagePercent float64 `json:"wastage_percent" binding:"min=0,max=100"`
	UnitCost       float64 `json:"unit_cost" binding:"min=0"`
}

// UpdateComponent handles PUT /manufacturing/boms/:id/components/:component_id
func (h *ManufacturingHandler) UpdateComponent(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid BOM ID")
		return
	}
	componentID, err := uuid.Parse(c.Param("component_id"))
	if err != nil {
		h.BadRequest(c, "Invalid component ID")
		return
	}
	var req UpdateComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	bom, err := h.production.UpdateComponent(c.Request.Context(), id, componentID,
		toDecimal(req.Quantity), toDecimal(req.WastagePercent), toDecimal(req.UnitCost), getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, bom)
}

// RemoveComponent handles DELETE /manufacturing/boms/:id/components/:component_id
func (h *ManufacturingHandler) RemoveComponent(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid BOM ID")
		return
	}
	componentID, err := uuid.Parse(c.Param("component_id"))
	if err != nil {
		h.BadRequest(c, "Invalid component ID")
		return
	}
	bom, err := h.production.RemoveComponent(c.Request.Context(), id, componentID, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, bom)
}

// ActivateBom handles POST /manufacturing/boms/:id/activate
func (h *ManufacturingHandler) ActivateBom(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid BOM ID")
		return
	}
	bom, err := h.production.ActivateBom(c.Request.Context(), id, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, bom)
}

// DuplicateBom handles POST /manufacturing/boms/:id/duplicate
func (h *ManufacturingHandler) DuplicateBom(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid BOM ID")
		return
	}
	bom, err := h.production.DuplicateBom(c.Request.Context(), id, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, bom)
}

// ExplodeBomRequest is the query for a BOM explosion
type ExplodeBomRequest struct {
	Quantity float64 `form:"quantity" binding:"required,gt=0"`
}

// ExplodeBom handles GET /manufacturing/boms/:id/explode
func (h *ManufacturingHandler) ExplodeBom(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid BOM ID")
		return
	}
	var req ExplodeBomRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	requirements, err := h.production.ExplodeBom(c.Request.Context(), id, toDecimal(req.Quantity))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, requirements)
}

// DeleteBom handles DELETE /manufacturing/boms/:id
func (h *ManufacturingHandler) DeleteBom(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid BOM ID")
		return
	}
	if err := h.production.DeleteBom(c.Request.Context(), id, getUserID(c)); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateWorkOrderRequest is the body for work order creation.
// When bom_id is omitted the finished good's active BOM is used.
type CreateWorkOrderRequest struct {
	FinishedGoodID  string     `json:"finished_good_id" binding:"required,uuid"`
	BomID           *string    `json:"bom_id" binding:"omitempty,uuid"`
	WarehouseID     *string    `json:"warehouse_id" binding:"omitempty,uuid"`
	SalesOrderID    *string    `json:"sales_order_id" binding:"omitempty,uuid"`
	PlannedQuantity float64    `json:"planned_quantity" binding:"required,gt=0"`
	PlannedStart    *time.Time `json:"planned_start"`
	PlannedEnd      *time.Time `json:"planned_end"`
	Priority        *string    `json:"priority" binding:"omitempty,oneof=LOW NORMAL HIGH URGENT"`
}

// CreateWorkOrder handles POST /manufacturing/work-orders
func (h *ManufacturingHandler) CreateWorkOrder(c *gin.Context) {
	var req CreateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := manufacturingapp.CreateWorkOrderCommand{
		FinishedGoodID:  uuid.MustParse(req.FinishedGoodID),
		PlannedQuantity: toDecimal(req.PlannedQuantity),
		PlannedStart:    req.PlannedStart,
		PlannedEnd:      req.PlannedEnd,
	}
	if req.BomID != nil {
		id := uuid.MustParse(*req.BomID)
		cmd.BomID = &id
	}
	if req.WarehouseID != nil {
		id := uuid.MustParse(*req.WarehouseID)
		cmd.WarehouseID = &id
	}
	if req.SalesOrderID != nil {
		id := uuid.MustParse(*req.SalesOrderID)
		cmd.SalesOrderID = &id
	}
	if req.Priority != nil {
		priority := manufacturing.WorkOrderPriority(*req.Priority)
		cmd.Priority = &priority
	}

	wo, err := h.production.CreateWorkOrder(c.Request.Context(), cmd, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, wo)
}

// GetWorkOrder handles GET /manufacturing/work-orders/:id
func (h *ManufacturingHandler) GetWorkOrder(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid work order ID")
		return
	}
	wo, err := h.production.GetWorkOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, wo)
}

// ListWorkOrders handles GET /manufacturing/work-orders
func (h *ManufacturingHandler) ListWorkOrders(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	page, err := h.production.ListWorkOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// UpdateWorkOrderPlanRequest is the body for plan edits
type UpdateWorkOrderPlanRequest struct {
	PlannedQuantity float64    `json:"planned_quantity" binding:"required,gt=0"`
	PlannedStart    *time.Time `json:"planned_start"`
	PlannedEnd      *time.Time `json:"planned_end"`
}

// UpdateWorkOrderPlan handles PUT /manufacturing/work-orders/:id/plan
func (h *ManufacturingHandler) UpdateWorkOrderPlan(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid work order ID")
		return
	}
	var req UpdateWorkOrderPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	wo, err := h.production.UpdateWorkOrderPlan(c.Request.Context(), id,
		toDecimal(req.PlannedQuantity), req.PlannedStart, req.PlannedEnd, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, wo)
}

// PlanWorkOrder handles POST /manufacturing/work-orders/:id/plan
func (h *ManufacturingHandler) PlanWorkOrder(c *gin.Context) {
	h.workOrderTransition(c, h.production.PlanWorkOrder)
}

// ReleaseWorkOrder handles POST /manufacturing/work-orders/:id/release
func (h *ManufacturingHandler) ReleaseWorkOrder(c *gin.Context) {
	h.workOrderTransition(c, h.production.ReleaseWorkOrder)
}

// StartWorkOrder handles POST /manufacturing/work-orders/:id/start
func (h *ManufacturingHandler) StartWorkOrder(c *gin.Context) {
	h.workOrderTransition(c, h.production.StartWorkOrder)
}

// ProgressRequest is the body for progress and completion postings
type ProgressRequest struct {
	CompletedQuantity float64 `json:"completed_quantity" binding:"min=0"`
	RejectedQuantity  float64 `json:"rejected_quantity" binding:"min=0"`
}

// RecordProgress handles POST /manufacturing/work-orders/:id/progress
func (h *ManufacturingHandler) RecordProgress(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid work order ID")
		return
	}
	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	wo, err := h.production.RecordProgress(c.Request.Context(), id,
		toDecimal(req.CompletedQuantity), toDecimal(req.RejectedQuantity), getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, wo)
}

// CompleteWorkOrder handles POST /manufacturing/work-orders/:id/complete
func (h *ManufacturingHandler) CompleteWorkOrder(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid work order ID")
		return
	}
	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	wo, err := h.production.CompleteWorkOrder(c.Request.Context(), id,
		toDecimal(req.CompletedQuantity), toDecimal(req.RejectedQuantity), getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, wo)
}

// CancelWorkOrder handles POST /manufacturing/work-orders/:id/cancel
func (h *ManufacturingHandler) CancelWorkOrder(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid work order ID")
		return
	}
	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	wo, err := h.production.CancelWorkOrder(c.Request.Context(), id, req.Reason, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, wo)
}

// DeleteWorkOrder handles DELETE /manufacturing/work-orders/:id
func (h *ManufacturingHandler) DeleteWorkOrder(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid work order ID")
		return
	}
	if err := h.production.DeleteWorkOrder(c.Request.Context(), id, getUserID(c)); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *ManufacturingHandler) workOrderTransition(c *gin.Context,
	op func(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*manufacturing.WorkOrder, error)) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid work order ID")
		return
	}
	wo, err := op(c.Request.Context(), id, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, wo)
}
