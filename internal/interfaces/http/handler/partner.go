package handler

import (
	"github.com/gin-gonic/gin"

	partnerapp "github.com/mfg-erp/backend/internal/application/partner"
	"github.com/mfg-erp/backend/internal/domain/partner"
)

// PartnerHandler exposes supplier, customer and warehouse endpoints
type PartnerHandler struct {
	BaseHandler
	partners *partnerapp.Service
}

// NewPartnerHandler creates a partner handler
func NewPartnerHandler(partners *partnerapp.Service) *PartnerHandler {
	return &PartnerHandler{partners: partners}
}

// CreateSupplierRequest is the body for supplier creation
type CreateSupplierRequest struct {
	Code         string `json:"code" binding:"required,min=1,max=50"`
	Name         string `json:"name" binding:"required,min=1,max=200"`
	ContactName  string `json:"contact_name" binding:"max=100"`
	Phone        string `json:"phone" binding:"max=50"`
	Email        string `json:"email" binding:"omitempty,email,max=200"`
	Address      string `json:"address" binding:"max=500"`
	City         string `json:"city" binding:"max=100"`
	State        string `json:"state" binding:"max=100"`
	Pincode      string `json:"pincode" binding:"max=20"`
	GSTNumber    string `json:"gst_number" binding:"omitempty,gstin"`
	PaymentTerms string `json:"payment_terms" binding:"max=200"`
}

// UpdatePartnerRequest is the body for supplier/customer contact updates
type UpdatePartnerRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	ContactName string `json:"contact_name" binding:"max=100"`
	Phone       string `json:"phone" binding:"max=50"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
}

// CreateSupplier handles POST /partners/suppliers
func (h *PartnerHandler) CreateSupplier(c *gin.Context) {
	var req CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	supplier, err := h.partners.CreateSupplier(c.Request.Context(), partnerapp.CreateSupplierCommand{
		Code:         req.Code,
		Name:         req.Name,
		ContactName:  req.ContactName,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		Pincode:      req.Pincode,
		GSTNumber:    req.GSTNumber,
		PaymentTerms: req.PaymentTerms,
	}, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, supplier)
}

// GetSupplier handles GET /partners/suppliers/:id
func (h *PartnerHandler) GetSupplier(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}
	supplier, err := h.partners.GetSupplier(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, supplier)
}

// ListSuppliers handles GET /partners/suppliers
func (h *PartnerHandler) ListSuppliers(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	suppliers, err := h.partners.ListSuppliers(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, suppliers)
}

// UpdateSupplier handles PUT /partners/suppliers/:id
func (h *PartnerHandler) UpdateSupplier(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}
	var req UpdatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	supplier, err := h.partners.UpdateSupplier(c.Request.Context(), id,
		req.Name, req.ContactName, req.Phone, req.Email)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, supplier)
}

// DeactivateSupplier handles POST /partners/suppliers/:id/deactivate
func (h *PartnerHandler) DeactivateSupplier(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}
	if err := h.partners.DeactivateSupplier(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// DeleteSupplier handles DELETE /partners/suppliers/:id
func (h *PartnerHandler) DeleteSupplier(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}
	if err := h.partners.DeleteSupplier(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateCustomerRequest is the body for customer creation
type CreateCustomerRequest struct {
	Code            string   `json:"code" binding:"required,min=1,max=50"`
	Name            string   `json:"name" binding:"required,min=1,max=200"`
	ContactName     string   `json:"contact_name" binding:"max=100"`
	Phone           string   `json:"phone" binding:"max=50"`
	Email           string   `json:"email" binding:"omitempty,email,max=200"`
	BillingAddress  string   `json:"billing_address" binding:"max=500"`
	ShippingAddress string   `json:"shipping_address" binding:"max=500"`
	City            string   `json:"city" binding:"max=100"`
	State           string   `json:"state" binding:"max=100"`
	Pincode         string   `json:"pincode" binding:"max=20"`
	GSTNumber       string   `json:"gst_number" binding:"omitempty,gstin"`
	CreditDays      int      `json:"credit_days" binding:"min=0"`
	CreditLimit     *float64 `json:"credit_limit" binding:"omitempty,min=0"`
}

// CreateCustomer handles POST /partners/customers
func (h *PartnerHandler) CreateCustomer(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := partnerapp.CreateCustomerCommand{
		Code:            req.Code,
		Name:            req.Name,
		ContactName:     req.ContactName,
		Phone:           req.Phone,
		Email:           req.Email,
		BillingAddress:  req.BillingAddress,
		ShippingAddress: req.ShippingAddress,
		City:            req.City,
		State:           req.State,
		Pincode:         req.Pincode,
		GSTNumber:       req.GSTNumber,
		CreditDays:      req.CreditDays,
	}
	if req.CreditLimit != nil {
		cmd.CreditLimit = toDecimal(*req.CreditLimit)
	}

	customer, err := h.partners.CreateCustomer(c.Request.Context(), cmd, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, customer)
}

// GetCustomer handles GET /partners/customers/:id
func (h *PartnerHandler) GetCustomer(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}
	customer, err := h.partners.GetCustomer(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, customer)
}

// ListCustomers handles GET /partners/customers
func (h *PartnerHandler) ListCustomers(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	customers, err := h.partners.ListCustomers(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, customers)
}

// UpdateCustomer handles PUT /partners/customers/:id
func (h *PartnerHandler) UpdateCustomer(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}
	var req UpdatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	customer, err := h.partners.UpdateCustomer(c.Request.Context(), id,
		req.Name, req.ContactName, req.Phone, req.Email)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, customer)
}

// DeleteCustomer handles DELETE /partners/customers/:id
func (h *PartnerHandler) DeleteCustomer(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}
	if err := h.partners.DeleteCustomer(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateWarehouseRequest is the body for warehouse creation
type CreateWarehouseRequest struct {
	Code    string `json:"code" binding:"required,min=1,max=50"`
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Type    string `json:"type" binding:"required,oneof=RAW_MATERIAL FINISHED_GOODS GENERAL"`
	Address string `json:"address" binding:"max=500"`
	City    string `json:"city" binding:"max=100"`
}

// CreateWarehouse handles POST /partners/warehouses
func (h *PartnerHandler) CreateWarehouse(c *gin.Context) {
	var req CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	warehouse, err := h.partners.CreateWarehouse(c.Request.Context(), partnerapp.CreateWarehouseCommand{
		Code:    req.Code,
		Name:    req.Name,
		Type:    partner.WarehouseType(req.Type),
		Address: req.Address,
		City:    req.City,
	}, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, warehouse)
}

// GetWarehouse handles GET /partners/warehouses/:id
func (h *PartnerHandler) GetWarehouse(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}
	warehouse, err := h.partners.GetWarehouse(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, warehouse)
}

// ListWarehouses handles GET /partners/warehouses
func (h *PartnerHandler) ListWarehouses(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	warehouses, err := h.partners.ListWarehouses(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, warehouses)
}

// DeleteWarehouse handles DELETE /partners/warehouses/:id
func (h *PartnerHandler) DeleteWarehouse(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}
	if err := h.partners.DeleteWarehouse(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
