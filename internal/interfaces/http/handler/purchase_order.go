package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	procurementapp "github.com/mfg-erp/backend/internal/application/procurement"
	"github.com/mfg-erp/backend/internal/domain/procurement"
)

// PurchaseOrderHandler exposes the purchase order lifecycle endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orders *procurementapp.Service
}

// NewPurchaseOrderHandler creates a purchase order handler
func NewPurchaseOrderHandler(orders *procurementapp.Service) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orders: orders}
}

// PurchaseOrderLineRequest is one order line in a create/replace request
type PurchaseOrderLineRequest struct {
	MaterialID      string  `json:"material_id" binding:"required,uuid"`
	Quantity        float64 `json:"quantity" binding:"required,gt=0"`
	UnitPrice       float64 `json:"unit_price" binding:"min=0"`
	DiscountPercent float64 `json:"discount_percent" binding:"min=0,max=100"`
	TaxPercent      float64 `json:"tax_percent" binding:"min=0,max=100"`
}

// CreatePurchaseOrderRequest is the body for purchase order creation
type CreatePurchaseOrderRequest struct {
	SupplierID      string                     `json:"supplier_id" binding:"required,uuid"`
	WarehouseID     *string                    `json:"warehouse_id" binding:"omitempty,uuid"`
	OrderDate       *time.Time                 `json:"order_date"`
	ExpectedDate    *time.Time                 `json:"expected_date"`
	Items           []PurchaseOrderLineRequest `json:"items" binding:"omitempty,dive"`
	DiscountPercent float64                    `json:"discount_percent" binding:"min=0,max=100"`
	ShippingCharges float64                    `json:"shipping_charges" binding:"min=0"`
	Notes           string                     `json:"notes" binding:"max=2000"`
}

// ReceiptLineRequest is one received line in a goods receipt
type ReceiptLineRequest struct {
	MaterialID string  `json:"material_id" binding:"required,uuid"`
	Quantity   float64 `json:"quantity" binding:"required,gt=0"`
}

// ReasonRequest is the body for reject/cancel operations
type ReasonRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

func toProcurementLines(lines []PurchaseOrderLineRequest) []procurementapp.LineInput {
	inputs := make([]procurementapp.LineInput, 0, len(lines))
	for _, line := range lines {
		inputs = append(inputs, procurementapp.LineInput{
			MaterialID:      uuid.MustParse(line.MaterialID),
			Quantity:        toDecimal(line.Quantity),
			UnitPrice:       toDecimal(line.UnitPrice),
			DiscountPercent: toDecimal(line.DiscountPercent),
			TaxPercent:      toDecimal(line.TaxPercent),
		})
	}
	return inputs
}

// Create handles POST /purchase-orders
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := procurementapp.CreateOrderCommand{
		SupplierID:      uuid.MustParse(req.SupplierID),
		ExpectedDate:    req.ExpectedDate,
		Items:           toProcurementLines(req.Items),
		DiscountPercent: toDecimal(req.DiscountPercent),
		ShippingCharges: toDecimal(req.ShippingCharges),
		Notes:           req.Notes,
	}
	if req.OrderDate != nil {
		cmd.OrderDate = *req.OrderDate
	}
	if req.WarehouseID != nil {
		id := uuid.MustParse(*req.WarehouseID)
		cmd.WarehouseID = &id
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), cmd, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, order)
}

// Get handles GET /purchase-orders/:id
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID")
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// List handles GET /purchase-orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	page, err := h.orders.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// UpdatePurchaseOrderRequest is the body for draft header edits
type UpdatePurchaseOrderRequest struct {
	WarehouseID     *string    `json:"warehouse_id" binding:"omitempty,uuid"`
	ExpectedDate    *time.Time `json:"expected_date"`
	DiscountPercent *float64   `json:"discount_percent" binding:"omitempty,min=0,max=100"`
	ShippingCharges *float64   `json:"shipping_charges" binding:"omitempty,min=0"`
	Notes           *string    `json:"notes" binding:"omitempty,max=2000"`
}

// Update handles PUT /purchase-orders/:id
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID")
		return
	}
	var req UpdatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := procurementapp.UpdateOrderCommand{
		ExpectedDate:    req.ExpectedDate,
		DiscountPercent: toDecimalPtr(req.DiscountPercent),
		ShippingCharges: toDecimalPtr(req.ShippingCharges),
		Notes:           req.Notes,
	}
	if req.WarehouseID != nil {
		wid := uuid.MustParse(*req.WarehouseID)
		cmd.WarehouseID = &wid
	}

	order, err := h.orders.UpdateOrder(c.Request.Context(), id, cmd, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// ReplaceItemsRequest is the body for replacing the full line set
type ReplaceItemsRequest struct {
	Items []PurchaseOrderLineRequest `json:"items" binding:"required,min=1,dive"`
}

// ReplaceItems handles PUT /purchase-orders/:id/items
func (h *PurchaseOrderHandler) ReplaceItems(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID")
		return
	}
	var req ReplaceItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	order, err := h.orders.ReplaceItems(c.Request.Context(), id, toProcurementLines(req.Items), getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// Submit handles POST /purchase-orders/:id/submit
func (h *PurchaseOrderHandler) Submit(c *gin.Context) {
	h.transition(c, h.orders.Submit)
}

// Approve handles POST /purchase-orders/:id/approve
func (h *PurchaseOrderHandler) Approve(c *gin.Context) {
	h.transition(c, h.orders.Approve)
}

// SendToSupplier handles POST /purchase-orders/:id/send
func (h *PurchaseOrderHandler) SendToSupplier(c *gin.Context) {
	h.transition(c, h.orders.SendToSupplier)
}

// Reject handles POST /purchase-orders/:id/reject
func (h *PurchaseOrderHandler) Reject(c *gin.Context) {
	h.transitionWithReason(c, h.orders.Reject)
}

// Cancel handles POST /purchase-orders/:id/cancel
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	h.transitionWithReason(c, h.orders.Cancel)
}

// ReceiveGoodsRequest is the body for a goods receipt
type ReceiveGoodsRequest struct {
	Lines []ReceiptLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ReceiveGoods handles POST /purchase-orders/:id/receive
func (h *PurchaseOrderHandler) ReceiveGoods(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID")
		return
	}
	var req ReceiveGoodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lines := make([]procurement.ReceiptLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, procurement.ReceiptLine{
			MaterialID: uuid.MustParse(line.MaterialID),
			Quantity:   toDecimal(line.Quantity),
		})
	}

	order, err := h.orders.ReceiveGoods(c.Request.Context(), id, lines, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete handles DELETE /purchase-orders/:id
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID")
		return
	}
	if err := h.orders.Delete(c.Request.Context(), id, getUserID(c)); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *PurchaseOrderHandler) transition(c *gin.Context,
	op func(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*procurement.PurchaseOrder, error)) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID")
		return
	}
	order, err := op(c.Request.Context(), id, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

func (h *PurchaseOrderHandler) transitionWithReason(c *gin.Context,
	op func(ctx context.Context, id uuid.UUID, reason string, userID uuid.UUID) (*procurement.PurchaseOrder, error)) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID")
		return
	}
	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	order, err := op(c.Request.Context(), id, req.Reason, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}
