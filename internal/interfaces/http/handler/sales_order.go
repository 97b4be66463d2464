package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	salesapp "github.com/mfg-erp/backend/internal/application/sales"
	"github.com/mfg-erp/backend/internal/domain/sales"
)

// SalesOrderHandler exposes the sales order lifecycle endpoints
type SalesOrderHandler struct {
	BaseHandler
	orders *salesapp.Service
}

// NewSalesOrderHandler creates a sales order handler
func NewSalesOrderHandler(orders *salesapp.Service) *SalesOrderHandler {
	return &SalesOrderHandler{orders: orders}
}

// SalesOrderLineRequest is one order line in a create/replace request.
// Price and GST rates default from the finished good when omitted.
type SalesOrderLineRequest struct {
	FinishedGoodID  string   `json:"finished_good_id" binding:"required,uuid"`
	Quantity        float64  `json:"quantity" binding:"required,gt=0"`
	UnitPrice       *float64 `json:"unit_price" binding:"omitempty,min=0"`
	DiscountPercent float64  `json:"discount_percent" binding:"min=0,max=100"`
	CGSTPercent     *float64 `json:"cgst_percent" binding:"omitempty,min=0,max=100"`
	SGSTPercent     *float64 `json:"sgst_percent" binding:"omitempty,min=0,max=100"`
	IGSTPercent     *float64 `json:"igst_percent" binding:"omitempty,min=0,max=100"`
}

// CreateSalesOrderRequest is the body for sales order creation
type CreateSalesOrderRequest struct {
	CustomerID      string                  `json:"customer_id" binding:"required,uuid"`
	WarehouseID     *string                 `json:"warehouse_id" binding:"omitempty,uuid"`
	OrderDate       *time.Time              `json:"order_date"`
	DeliveryDate    *time.Time              `json:"delivery_date"`
	Items           []SalesOrderLineRequest `json:"items" binding:"omitempty,dive"`
	DiscountPercent float64                 `json:"discount_percent" binding:"min=0,max=100"`
	ShippingCharges float64                 `json:"shipping_charges" binding:"min=0"`
	Notes           string                  `json:"notes" binding:"max=2000"`
}

func toSalesLines(lines []SalesOrderLineRequest) []salesapp.LineInput {
	inputs := make([]salesapp.LineInput, 0, len(lines))
	for _, line := range lines {
		inputs = append(inputs, salesapp.LineInput{
			FinishedGoodID:  uuid.MustParse(line.FinishedGoodID),
			Quantity:        toDecimal(line.Quantity),
			UnitPrice:       toDecimalPtr(line.UnitPrice),
			DiscountPercent: toDecimal(line.DiscountPercent),
			CGSTPercent:     toDecimalPtr(line.CGSTPercent),
			SGSTPercent:     toDecimalPtr(line.SGSTPercent),
			IGSTPercent:     toDecimalPtr(line.IGSTPercent),
		})
	}
	return inputs
}

// Create handles POST /sales-orders
func (h *SalesOrderHandler) Create(c *gin.Context) {
	var req CreateSalesOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := salesapp.CreateOrderCommand{
		CustomerID:      uuid.MustParse(req.CustomerID),
		DeliveryDate:    req.DeliveryDate,
		Items:           toSalesLines(req.Items),
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

// Get handles GET /sales-orders/:id
func (h *SalesOrderHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid sales order ID")
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// List handles GET /sales-orders
func (h *SalesOrderHandler) List(c *gin.Context) {
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

// UpdateSalesOrderRequest is the body for draft header edits
type UpdateSalesOrderRequest struct {
	WarehouseID     *string    `json:"warehouse_id" binding:"omitempty,uuid"`
	DeliveryDate    *time.Time `json:"delivery_date"`
	DiscountPercent *float64   `json:"discount_percent" binding:"omitempty,min=0,max=100"`
	ShippingCharges *float64   `json:"shipping_charges" binding:"omitempty,min=0"`
	Notes           *string    `json:"notes" binding:"omitempty,max=2000"`
}

// Update handles PUT /sales-orders/:id
func (h *SalesOrderHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid sales order ID")
		return
	}
	var req UpdateSalesOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := salesapp.UpdateOrderCommand{
		DeliveryDate:    req.DeliveryDate,
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

// ReplaceSalesItemsRequest is the body for replacing the full line set
type ReplaceSalesItemsRequest struct {
	Items []SalesOrderLineRequest `json:"items" binding:"required,min=1,dive"`
}

// ReplaceItems handles PUT /sales-orders/:id/items
func (h *SalesOrderHandler) ReplaceItems(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid sales order ID")
		return
	}
	var req ReplaceSalesItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	order, err := h.orders.ReplaceItems(c.Request.Context(), id, toSalesLines(req.Items), getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// Confirm handles POST /sales-orders/:id/confirm
func (h *SalesOrderHandler) Confirm(c *gin.Context) {
	h.transition(c, h.orders.Confirm)
}

// StartProcessing handles POST /sales-orders/:id/process
func (h *SalesOrderHandler) StartProcessing(c *gin.Context) {
	h.transition(c, h.orders.StartProcessing)
}

// DeliveryLineRequest is one delivered line
type DeliveryLineRequest struct {
	FinishedGoodID string  `json:"finished_good_id" binding:"required,uuid"`
	Quantity       float64 `json:"quantity" binding:"required,gt=0"`
}

// DeliverRequest is the body for a delivery posting
type DeliverRequest struct {
	Lines []DeliveryLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// Deliver handles POST /sales-orders/:id/deliver
func (h *SalesOrderHandler) Deliver(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid sales order ID")
		return
	}
	var req DeliverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lines := make([]sales.DeliveryLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, sales.DeliveryLine{
			FinishedGoodID: uuid.MustParse(line.FinishedGoodID),
			Quantity:       toDecimal(line.Quantity),
		})
	}

	order, err := h.orders.Deliver(c.Request.Context(), id, lines, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel handles POST /sales-orders/:id/cancel
func (h *SalesOrderHandler) Cancel(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid sales order ID")
		return
	}
	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	order, err := h.orders.Cancel(c.Request.Context(), id, req.Reason, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete handles DELETE /sales-orders/:id
func (h *SalesOrderHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid sales order ID")
		return
	}
	if err := h.orders.Delete(c.Request.Context(), id, getUserID(c)); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *SalesOrderHandler) transition(c *gin.Context,
	op func(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*sales.SalesOrder, error)) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid sales order ID")
		return
	}
	order, err := op(c.Request.Context(), id, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}
