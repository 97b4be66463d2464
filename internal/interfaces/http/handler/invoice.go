package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/mfg-erp/backend/internal/application/billing"
	"github.com/mfg-erp/backend/internal/domain/billing"
)

// InvoiceHandler exposes the invoice lifecycle and payment endpoints
type InvoiceHandler struct {
	BaseHandler
	invoices *billingapp.Service
}

// NewInvoiceHandler creates an invoice handler
func NewInvoiceHandler(invoices *billingapp.Service) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// InvoiceLineRequest is one invoice line in a create/replace request.
// Price and GST rates default from the finished good when omitted.
type InvoiceLineRequest struct {
	FinishedGoodID string   `json:"finished_good_id" binding:"required,uuid"`
	Quantity       float64  `json:"quantity" binding:"required,gt=0"`
	UnitPrice      *float64 `json:"unit_price" binding:"omitempty,min=0"`
	CGSTPercent    *float64 `json:"cgst_percent" binding:"omitempty,min=0,max=100"`
	SGSTPercent    *float64 `json:"sgst_percent" binding:"omitempty,min=0,max=100"`
	IGSTPercent    *float64 `json:"igst_percent" binding:"omitempty,min=0,max=100"`
}

// CreateInvoiceRequest is the body for invoice creation
type CreateInvoiceRequest struct {
	CustomerID      string               `json:"customer_id" binding:"required,uuid"`
	SalesOrderID    *string              `json:"sales_order_id" binding:"omitempty,uuid"`
	InvoiceDate     *time.Time           `json:"invoice_date"`
	DueDate         *time.Time           `json:"due_date"`
	Items           []InvoiceLineRequest `json:"items" binding:"omitempty,dive"`
	DiscountPercent float64              `json:"discount_percent" binding:"min=0,max=100"`
	ShippingCharges float64              `json:"shipping_charges" binding:"min=0"`
	Notes           string               `json:"notes" binding:"max=2000"`
}

func toInvoiceLines(lines []InvoiceLineRequest) []billingapp.LineInput {
	inputs := make([]billingapp.LineInput, 0, len(lines))
	for _, line := range lines {
		inputs = append(inputs, billingapp.LineInput{
			FinishedGoodID: uuid.MustParse(line.FinishedGoodID),
			Quantity:       toDecimal(line.Quantity),
			UnitPrice:      toDecimalPtr(line.UnitPrice),
			CGSTPercent:    toDecimalPtr(line.CGSTPercent),
			SGSTPercent:    toDecimalPtr(line.SGSTPercent),
			IGSTPercent:    toDecimalPtr(line.IGSTPercent),
		})
	}
	return inputs
}

// Create handles POST /invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := billingapp.CreateInvoiceCommand{
		CustomerID:      uuid.MustParse(req.CustomerID),
		DueDate:         req.DueDate,
		Items:           toInvoiceLines(req.Items),
		DiscountPercent: toDecimal(req.DiscountPercent),
		ShippingCharges: toDecimal(req.ShippingCharges),
		Notes:           req.Notes,
	}
	if req.InvoiceDate != nil {
		cmd.InvoiceDate = *req.InvoiceDate
	}
	if req.SalesOrderID != nil {
		soID := uuid.MustParse(*req.SalesOrderID)
		cmd.SalesOrderID = &soID
	}

	invoice, err := h.invoices.CreateInvoice(c.Request.Context(), cmd, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, invoice)
}

// CreateFromSalesOrder handles POST /sales-orders/:id/invoice
func (h *InvoiceHandler) CreateFromSalesOrder(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid sales order ID")
		return
	}
	invoice, err := h.invoices.CreateFromSalesOrder(c.Request.Context(), id, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, invoice)
}

// Get handles GET /invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	invoice, err := h.invoices.GetInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, invoice)
}

// List handles GET /invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	page, err := h.invoices.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ReplaceInvoiceItemsRequest is the body for replacing the full line set
type ReplaceInvoiceItemsRequest struct {
	Items []InvoiceLineRequest `json:"items" binding:"required,min=1,dive"`
}

// ReplaceItems handles PUT /invoices/:id/items
func (h *InvoiceHandler) ReplaceItems(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	var req ReplaceInvoiceItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	invoice, err := h.invoices.ReplaceItems(c.Request.Context(), id, toInvoiceLines(req.Items), getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Issue handles POST /invoices/:id/issue
func (h *InvoiceHandler) Issue(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	invoice, err := h.invoices.Issue(c.Request.Context(), id, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, invoice)
}

// RecordPaymentRequest is the body for a payment receipt
type RecordPaymentRequest struct {
	Amount      float64    `json:"amount" binding:"required,gt=0"`
	PaymentDate *time.Time `json:"payment_date"`
	Mode        string     `json:"mode" binding:"required,oneof=CASH CHEQUE BANK_TRANSFER UPI CARD"`
	Reference   string     `json:"reference" binding:"max=100"`
	Notes       string     `json:"notes" binding:"max=1000"`
}

// RecordPayment handles POST /invoices/:id/payments
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := billingapp.RecordPaymentCommand{
		Amount:    toDecimal(req.Amount),
		Mode:      billing.PaymentMode(req.Mode),
		Reference: req.Reference,
		Notes:     req.Notes,
	}
	if req.PaymentDate != nil {
		cmd.PaymentDate = *req.PaymentDate
	}

	invoice, err := h.invoices.RecordPayment(c.Request.Context(), id, cmd, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Cancel handles POST /invoices/:id/cancel
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	invoice, err := h.invoices.Cancel(c.Request.Context(), id, req.Reason, getUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Delete handles DELETE /invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	if err := h.invoices.Delete(c.Request.Context(), id, getUserID(c)); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
