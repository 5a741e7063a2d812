package main

import (
	"context"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/mryoshq/Accounting-AI/internal/adapters/web"
	"github.com/mryoshq/Accounting-AI/internal/app"
	"github.com/mryoshq/Accounting-AI/internal/config"
	"github.com/mryoshq/Accounting-AI/internal/core"
	"github.com/mryoshq/Accounting-AI/internal/credentials"
	"github.com/mryoshq/Accounting-AI/internal/db"
	"github.com/mryoshq/Accounting-AI/internal/extraction"
	"github.com/mryoshq/Accounting-AI/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	extractor, err := extraction.NewClient()
	if err != nil {
		zl.Fatal("extraction client", zap.Error(err))
	}
	pipeline := extraction.NewPipeline(extraction.NewNormalizer(), extractor, zl)
	resolver := credentials.NewResolver(pool, cfg.JWTSecret)

	svc := app.NewAppService(app.Services{
		Suppliers: core.NewSupplierService(pool),
		Customers: core.NewCustomerService(pool),
		Projects:  core.NewProjectService(pool),
		Parts:     core.NewPartService(pool),
		Invoices:  core.NewInvoiceService(pool),
		Payments:  core.NewPaymentService(pool),
		Users:     core.NewUserService(pool),
		Reporting: core.NewReportingService(pool),
	}, pipeline, resolver, cfg.JWTSecret, zl)

	handler := web.NewHandler(svc, cfg.AllowedOrigins, cfg.JWTSecret, zl)

	zl.Info("server starting", zap.String("port", cfg.ServerPort))
	if err := http.ListenAndServe(":"+cfg.ServerPort, handler); err != nil {
		zl.Fatal("server", zap.Error(err))
	}
}
