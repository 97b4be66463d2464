package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/mfg-erp/backend/internal/application/catalog"
)

// CatalogHandler exposes unit, raw material and finished good endpoints
type CatalogHandler struct {
	BaseHandler
	catalog *catalogapp.Service
}

// NewCatalogHandler creates a catalog handler
func NewCatalogHandler(catalog *catalogapp.Service) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// CreateUnitRequest is the body for unit creation
type CreateUnitRequest struct {
	Code        string `json:"code" binding:"required,min=1,max=20"`
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// CreateUnit handles POST /catalog/units
func (h *CatalogHandler) CreateUnit(c *gin.Context) {
	var req CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	unit, err := h.catalog.CreateUnit(c.Request.Context(), req.Code, req.Name, req.Description, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, unit)
}

// ListUnits handles GET /catalog/units
func (h *CatalogHandler) ListUnits(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	units, err := h.catalog.ListUnits(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, units)
}

// CreateRawMaterialRequest is the body for raw material creation
type CreateRawMaterialRequest struct {
	Code         string   `json:"code" binding:"required,min=1,max=50"`
	Name         string   `json:"name" binding:"required,min=1,max=200"`
	Description  string   `json:"description" binding:"max=1000"`
	UnitID       string   `json:"unit_id" binding:"required,uuid"`
	HSNCode      string   `json:"hsn_code" binding:"max=20"`
	UnitCost     float64  `json:"unit_cost" binding:"min=0"`
	TaxPercent   *float64 `json:"tax_percent" binding:"omitempty,min=0,max=100"`
	ReorderLevel float64  `json:"reorder_level" binding:"min=0"`
}

// CreateRawMaterial handles POST /catalog/raw-materials
func (h *CatalogHandler) CreateRawMaterial(c *gin.Context) {
	var req CreateRawMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	material, err := h.catalog.CreateRawMaterial(c.Request.Context(), catalogapp.CreateRawMaterialCommand{
		Code:         req.Code,
		Name:         req.Name,
		Description:  req.Description,
		UnitID:       uuid.MustParse(req.UnitID),
		HSNCode:      req.HSNCode,
		UnitCost:     toDecimal(req.UnitCost),
		TaxPercent:   toDecimalPtr(req.TaxPercent),
		ReorderLevel: toDecimal(req.ReorderLevel),
	}, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, material)
}

// GetRawMaterial handles GET /catalog/raw-materials/:id
func (h *CatalogHandler) GetRawMaterial(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid raw material ID")
		return
	}
	material, err := h.catalog.GetRawMaterial(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, material)
}

// ListRawMaterials handles GET /catalog/raw-materials
func (h *CatalogHandler) ListRawMaterials(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	materials, err := h.catalog.ListRawMaterials(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, materials)
}

// UpdateCostRequest is the body for a raw material cost update
type UpdateCostRequest struct {
	UnitCost float64 `json:"unit_cost" binding:"min=0"`
}

// UpdateRawMaterialCost handles PUT /catalog/raw-materials/:id/cost
func (h *CatalogHandler) UpdateRawMaterialCost(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid raw material ID")
		return
	}
	var req UpdateCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	material, err := h.catalog.UpdateRawMaterialCost(c.Request.Context(), id, toDecimal(req.UnitCost))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, material)
}

// DeleteRawMaterial handles DELETE /catalog/raw-materials/:id
func (h *CatalogHandler) DeleteRawMaterial(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid raw material ID")
		return
	}
	if err := h.catalog.DeleteRawMaterial(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateFinishedGoodRequest is the body for finished good creation
type CreateFinishedGoodRequest struct {
	Code         string   `json:"code" binding:"required,min=1,max=50"`
	Name         string   `json:"name" binding:"required,min=1,max=200"`
	Description  string   `json:"description" binding:"max=1000"`
	UnitID       string   `json:"unit_id" binding:"required,uuid"`
	HSNCode      string   `json:"hsn_code" binding:"max=20"`
	SellingPrice float64  `json:"selling_price" binding:"min=0"`
	CGSTPercent  *float64 `json:"cgst_percent" binding:"omitempty,min=0,max=100"`
	SGSTPercent  *float64 `json:"sgst_percent" binding:"omitempty,min=0,max=100"`
	IGSTPercent  *float64 `json:"igst_percent" binding:"omitempty,min=0,max=100"`
}

// CreateFinishedGood handles POST /catalog/finished-goods
func (h *CatalogHandler) CreateFinishedGood(c *gin.Context) {
	var req CreateFinishedGoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	good, err := h.catalog.CreateFinishedGood(c.Request.Context(), catalogapp.CreateFinishedGoodCommand{
		Code:         req.Code,
		Name:         req.Name,
		Description:  req.Description,
		UnitID:       uuid.MustParse(req.UnitID),
		HSNCode:      req.HSNCode,
		SellingPrice: toDecimal(req.SellingPrice),
		CGSTPercent:  toDecimalPtr(req.CGSTPercent),
		SGSTPercent:  toDecimalPtr(req.SGSTPercent),
		IGSTPercent:  toDecimalPtr(req.IGSTPercent),
	}, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, good)
}

// GetFinishedGood handles GET /catalog/finished-goods/:id
func (h *CatalogHandler) GetFinishedGood(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid finished good ID")
		return
	}
	good, err := h.catalog.GetFinishedGood(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, good)
}

// ListFinishedGoods handles GET /catalog/finished-goods
func (h *CatalogHandler) ListFinishedGoods(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	goods, err := h.catalog.ListFinishedGoods(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, goods)
}

// UpdatePriceRequest is the body for a selling price update
type UpdatePriceRequest struct {
	SellingPrice float64 `json:"selling_price" binding:"min=0"`
}

// UpdateFinishedGoodPrice handles PUT /catalog/finished-goods/:id/price
func (h *CatalogHandler) UpdateFinishedGoodPrice(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid finished good ID")
		return
	}
	var req UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	good, err := h.catalog.UpdateFinishedGoodPrice(c.Request.Context(), id, toDecimal(req.SellingPrice))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, good)
}

// DeleteFinishedGood handles DELETE /catalog/finished-goods/:id
func (h *CatalogHandler) DeleteFinishedGood(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid finished good ID")
		return
	}
	if err := h.catalog.DeleteFinishedGood(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
