package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billingapp "github.com/mfg-erp/backend/internal/application/billing"
	catalogapp "github.com/mfg-erp/backend/internal/application/catalog"
	inventoryapp "github.com/mfg-erp/backend/internal/application/inventory"
	manufacturingapp "github.com/mfg-erp/backend/internal/application/manufacturing"
	partnerapp "github.com/mfg-erp/backend/internal/application/partner"
	procurementapp "github.com/mfg-erp/backend/internal/application/procurement"
	salesapp "github.com/mfg-erp/backend/internal/application/sales"
	"github.com/mfg-erp/backend/internal/infrastructure/auth"
	"github.com/mfg-erp/backend/internal/infrastructure/config"
	"github.com/mfg-erp/backend/internal/infrastructure/logger"
	"github.com/mfg-erp/backend/internal/infrastructure/numbering"
	"github.com/mfg-erp/backend/internal/infrastructure/persistence"
	"github.com/mfg-erp/backend/internal/interfaces/http/handler"
	"github.com/mfg-erp/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting manufacturing erp backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()

	rdb, err := persistence.NewRedisClient(&cfg.Redis, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error("error closing redis client", zap.Error(err))
		}
	}()

	tokens, err := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.TokenExpiration, cfg.JWT.Issuer)
	if err != nil {
		log.Fatal("failed to initialize token service", zap.Error(err))
	}

	// Repositories
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	unitRepo := persistence.NewGormUnitRepository(db.DB)
	rawMaterialRepo := persistence.NewGormRawMaterialRepository(db.DB)
	finishedGoodRepo := persistence.NewGormFinishedGoodRepository(db.DB)
	stockItemRepo := persistence.NewGormStockItemRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	salesOrderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	bomRepo := persistence.NewGormBomRepository(db.DB)
	workOrderRepo := persistence.NewGormWorkOrderRepository(db.DB)

	// Document numbering backed by Redis, reseeded from the database
	seeder := persistence.NewGormSequenceSeeder(db.DB)
	numbers := numbering.NewGenerator(rdb, seeder, log)

	// Application services
	partnerService := partnerapp.NewService(supplierRepo, customerRepo, warehouseRepo, log)
	catalogService := catalogapp.NewService(rawMaterialRepo, finishedGoodRepo, unitRepo, log)
	inventoryService := inventoryapp.NewService(stockItemRepo, movementRepo, log)
	procurementService := procurementapp.NewService(purchaseOrderRepo, supplierRepo, rawMaterialRepo,
		inventoryService, numbers, log)
	salesService := salesapp.NewService(salesOrderRepo, customerRepo, finishedGoodRepo,
		inventoryService, numbers, log)
	billingService := billingapp.NewService(invoiceRepo, customerRepo, finishedGoodRepo,
		salesOrderRepo, numbers, log)
	manufacturingService := manufacturingapp.NewService(bomRepo, workOrderRepo, finishedGoodRepo,
		rawMaterialRepo, inventoryService, numbers, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.New(router.Handlers{
		Partner:        handler.NewPartnerHandler(partnerService),
		Catalog:        handler.NewCatalogHandler(catalogService),
		Inventory:      handler.NewInventoryHandler(inventoryService),
		PurchaseOrders: handler.NewPurchaseOrderHandler(procurementService),
		SalesOrders:    handler.NewSalesOrderHandler(salesService),
		Invoices:       handler.NewInvoiceHandler(billingService),
		Manufacturing:  handler.NewManufacturingHandler(manufacturingService),
	}, tokens, log)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exited")
}
