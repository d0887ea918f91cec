package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "salepoint/internal/adapters/web"
	"salepoint/internal/app"
	"salepoint/internal/core"
	"salepoint/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	orderService := core.NewOrderService(pool)
	reportService := core.NewReportService(pool, orderService)
	catalogService := core.NewCatalogService(pool)
	customerService := core.NewCustomerService(pool)
	tableService := core.NewTableService(pool)
	supplierService := core.NewSupplierService(pool)
	purchaseService := core.NewPurchaseOrderService(pool)
	inventoryService := core.NewInventoryService(pool)
	orgService := core.NewOrgService(pool)

	svc := app.NewAppService(pool, orderService, reportService, catalogService,
		customerService, tableService, supplierService, purchaseService,
		inventoryService, orgService)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
