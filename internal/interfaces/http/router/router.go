package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mfg-erp/backend/internal/infrastructure/auth"
	"github.com/mfg-erp/backend/internal/interfaces/http/handler"
	"github.com/mfg-erp/backend/internal/interfaces/http/middleware"
)

const apiPrefix = "/api/v1"

// Handlers groups the HTTP handlers wired into the router
type Handlers struct {
	Partner        *handler.PartnerHandler
	Catalog        *handler.CatalogHandler
	Inventory      *handler.InventoryHandler
	PurchaseOrders *handler.PurchaseOrderHandler
	SalesOrders    *handler.SalesOrderHandler
	Invoices       *handler.InvoiceHandler
	Manufacturing  *handler.ManufacturingHandler
}

// New builds the gin engine with middleware and all API routes.
// The health endpoint stays outside the authenticated group.
func New(h Handlers, tokens *auth.TokenService, log *zap.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.RequestLogger(log),
	)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group(apiPrefix)
	api.Use(middleware.JWTAuth(tokens))

	registerPartnerRoutes(api, h.Partner)
	registerCatalogRoutes(api, h.Catalog)
	registerInventoryRoutes(api, h.Inventory)
	registerPurchaseOrderRoutes(api, h.PurchaseOrders)
	registerSalesOrderRoutes(api, h.SalesOrders, h.Invoices)
	registerInvoiceRoutes(api, h.Invoices)
	registerManufacturingRoutes(api, h.Manufacturing)

	return engine
}

func registerPartnerRoutes(api *gin.RouterGroup, h *handler.PartnerHandler) {
	suppliers := api.Group("/partners/suppliers")
	suppliers.POST("", h.CreateSupplier)
	suppliers.GET("", h.ListSuppliers)
	suppliers.GET("/:id", h.GetSupplier)
	suppliers.PUT("/:id", h.UpdateSupplier)
	suppliers.POST("/:id/deactivate", h.DeactivateSupplier)
	suppliers.DELETE("/:id", h.DeleteSupplier)

	customers := api.Group("/partners/customers")
	customers.POST("", h.CreateCustomer)
	customers.GET("", h.ListCustomers)
	customers.GET("/:id", h.GetCustomer)
	customers.PUT("/:id", h.UpdateCustomer)
	customers.DELETE("/:id", h.DeleteCustomer)

	warehouses := api.Group("/partners/warehouses")
	warehouses.POST("", h.CreateWarehouse)
	warehouses.GET("", h.ListWarehouses)
	warehouses.GET("/:id", h.GetWarehouse)
	warehouses.DELETE("/:id", h.DeleteWarehouse)
}

func registerCatalogRoutes(api *gin.RouterGroup, h *handler.CatalogHandler) {
	units := api.Group("/catalog/units")
	units.POST("", h.CreateUnit)
	units.GET("", h.ListUnits)

	materials := api.Group("/catalog/raw-materials")
	materials.POST("", h.CreateRawMaterial)
	materials.GET("", h.ListRawMaterials)
	materials.GET("/:id", h.GetRawMaterial)
	materials.PUT("/:id/cost", h.UpdateRawMaterialCost)
	materials.DELETE("/:id", h.DeleteRawMaterial)

	goods := api.Group("/catalog/finished-goods")
	goods.POST("", h.CreateFinishedGood)
	goods.GET("", h.ListFinishedGoods)
	goods.GET("/:id", h.GetFinishedGood)
	goods.PUT("/:id/price", h.UpdateFinishedGoodPrice)
	goods.DELETE("/:id", h.DeleteFinishedGood)
}

func registerInventoryRoutes(api *gin.RouterGroup, h *handler.InventoryHandler) {
	inventory := api.Group("/inventory")
	inventory.GET("/stock/:warehouse_id/:item_type/:item_id", h.GetStock)
	inventory.GET("/warehouses/:warehouse_id/stock", h.ListWarehouseStock)
	inventory.GET("/items/:item_type/:item_id/stock", h.ListItemStock)
	inventory.GET("/items/:item_type/:item_id/movements", h.ListMovements)
	inventory.POST("/adjustments", h.AdjustStock)
}

func registerPurchaseOrderRoutes(api *gin.RouterGroup, h *handler.PurchaseOrderHandler) {
	orders := api.Group("/purchase-orders")
	orders.POST("", h.Create)
	orders.GET("", h.List)
	orders.GET("/:id", h.Get)
	orders.PUT("/:id", h.Update)
	orders.PUT("/:id/items", h.ReplaceItems)
	orders.POST("/:id/submit", h.Submit)
	orders.POST("/:id/approve", h.Approve)
	orders.POST("/:id/reject", h.Reject)
	orders.POST("/:id/send", h.SendToSupplier)
	orders.POST("/:id/receive", h.ReceiveGoods)
	orders.POST("/:id/cancel", h.Cancel)
	orders.DELETE("/:id", h.Delete)
}

func registerSalesOrderRoutes(api *gin.RouterGroup, h *handler.SalesOrderHandler, invoices *handler.InvoiceHandler) {
	orders := api.Group("/sales-orders")
	orders.POST("", h.Create)
	orders.GET("", h.List)
	orders.GET("/:id", h.Get)
	orders.PUT("/:id", h.Update)
	orders.PUT("/:id/items", h.ReplaceItems)
	orders.POST("/:id/confirm", h.Confirm)
	orders.POST("/:id/process", h.StartProcessing)
	orders.POST("/:id/deliver", h.Deliver)
	orders.POST("/:id/cancel", h.Cancel)
	orders.POST("/:id/invoice", invoices.CreateFromSalesOrder)
	orders.DELETE("/:id", h.Delete)
}

func registerInvoiceRoutes(api *gin.RouterGroup, h *handler.InvoiceHandler) {
	invoices := api.Group("/invoices")
	invoices.POST("", h.Create)
	invoices.GET("", h.List)
	invoices.GET("/:id", h.Get)
	invoices.PUT("/:id/items", h.ReplaceItems)
	invoices.POST("/:id/issue", h.Issue)
	invoices.POST("/:id/payments", h.RecordPayment)
	invoices.POST("/:id/cancel", h.Cancel)
	invoices.DELETE("/:id", h.Delete)
}

func registerManufacturingRoutes(api *gin.RouterGroup, h *handler.ManufacturingHandler) {
	boms := api.Group("/manufacturing/boms")
	boms.POST("", h.CreateBom)
	boms.GET("", h.ListBoms)
	boms.GET("/:id", h.GetBom)
	boms.POST("/:id/components", h.AddComponent)
	boms.PUT("/:id/components/:component_id", h.UpdateComponent)
	boms.DELETE("/:id/components/:component_id", h.RemoveComponent)
	boms.POST("/:id/activate", h.ActivateBom)
	boms.POST("/:id/duplicate", h.DuplicateBom)
	boms.GET("/:id/explode", h.ExplodeBom)
	boms.DELETE("/:id", h.DeleteBom)

	workOrders := api.Group("/manufacturing/work-orders")
	workOrders.POST("", h.CreateWorkOrder)
	workOrders.GET("", h.ListWorkOrders)
	workOrders.GET("/:id", h.GetWorkOrder)
	workOrders.PUT("/:id/plan", h.UpdateWorkOrderPlan)
	workOrders.POST("/:id/plan", h.PlanWorkOrder)
	workOrders.POST("/:id/release", h.ReleaseWorkOrder)
	workOrders.POST("/:id/start", h.StartWorkOrder)
	workOrders.POST("/:id/progress", h.RecordProgress)
	workOrders.POST("/:id/complete", h.CompleteWorkOrder)
	workOrders.POST("/:id/cancel", h.CancelWorkOrder)
	workOrders.DELETE("/:id", h.DeleteWorkOrder)
}
