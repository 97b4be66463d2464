package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/mfg-erp/backend/internal/application/inventory"
	"github.com/mfg-erp/backend/internal/domain/inventory"
)

// InventoryHandler exposes stock level and movement endpoints
type InventoryHandler struct {
	BaseHandler
	stock *inventoryapp.Service
}

// NewInventoryHandler creates an inventory handler
func NewInventoryHandler(stock *inventoryapp.Service) *InventoryHandler {
	return &InventoryHandler{stock: stock}
}

func parseItemType(raw string) (inventory.ItemType, bool) {
	switch inventory.ItemType(raw) {
	case inventory.ItemTypeRawMaterial, inventory.ItemTypeFinishedGood:
		return inventory.ItemType(raw), true
	}
	return "", false
}

// GetStock handles GET /inventory/stock/:warehouse_id/:item_type/:item_id
func (h *InventoryHandler) GetStock(c *gin.Context) {
	warehouseID, err := uuid.Parse(c.Param("warehouse_id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}
	itemType, ok := parseItemType(c.Param("item_type"))
	if !ok {
		h.BadRequest(c, "Item type must be RAW_MATERIAL or FINISHED_GOOD")
		return
	}
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	item, err := h.stock.GetStock(c.Request.Context(), warehouseID, itemType, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, item)
}

// ListWarehouseStock handles GET /inventory/warehouses/:warehouse_id/stock
func (h *InventoryHandler) ListWarehouseStock(c *gin.Context) {
	warehouseID, err := uuid.Parse(c.Param("warehouse_id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	items, err := h.stock.ListByWarehouse(c.Request.Context(), warehouseID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, items)
}

// ListItemStock handles GET /inventory/items/:item_type/:item_id/stock
func (h *InventoryHandler) ListItemStock(c *gin.Context) {
	itemType, ok := parseItemType(c.Param("item_type"))
	if !ok {
		h.BadRequest(c, "Item type must be RAW_MATERIAL or FINISHED_GOOD")
		return
	}
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}
	items, err := h.stock.ListByItem(c.Request.Context(), itemType, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, items)
}

// ListMovements handles GET /inventory/items/:item_type/:item_id/movements
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	itemType, ok := parseItemType(c.Param("item_type"))
	if !ok {
		h.BadRequest(c, "Item type must be RAW_MATERIAL or FINISHED_GOOD")
		return
	}
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	movements, err := h.stock.ListMovements(c.Request.Context(), itemType, itemID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, movements)
}

// AdjustStockRequest is the body for a manual stock adjustment.
// Quantity is signed, negative removes stock.
type AdjustStockRequest struct {
	WarehouseID string  `json:"warehouse_id" binding:"required,uuid"`
	ItemType    string  `json:"item_type" binding:"required,oneof=RAW_MATERIAL FINISHED_GOOD"`
	ItemID      string  `json:"item_id" binding:"required,uuid"`
	ItemName    string  `json:"item_name" binding:"required,max=200"`
	ItemCode    string  `json:"item_code" binding:"required,max=50"`
	Unit        string  `json:"unit" binding:"required,max=20"`
	Quantity    float64 `json:"quantity" binding:"required"`
}

// AdjustStock handles POST /inventory/adjustments
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	posting := inventoryapp.StockPosting{
		WarehouseID: uuid.MustParse(req.WarehouseID),
		ItemType:    inventory.ItemType(req.ItemType),
		ItemID:      uuid.MustParse(req.ItemID),
		ItemName:    req.ItemName,
		ItemCode:    req.ItemCode,
		Unit:        req.Unit,
		Quantity:    toDecimal(req.Quantity),
	}
	if err := h.stock.Adjust(c.Request.Context(), posting, getUserID(c)); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
