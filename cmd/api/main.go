package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/dishfeed/merchant-backend/api/routes"
	"github.com/dishfeed/merchant-backend/internal/agentruns"
	"github.com/dishfeed/merchant-backend/internal/cartdrafts"
	"github.com/dishfeed/merchant-backend/internal/catalog"
	"github.com/dishfeed/merchant-backend/internal/checkout"
	"github.com/dishfeed/merchant-backend/pkg/config"
	"github.com/dishfeed/merchant-backend/pkg/db"
	"github.com/dishfeed/merchant-backend/pkg/db/models"
	"github.com/dishfeed/merchant-backend/pkg/logger"
	"github.com/dishfeed/merchant-backend/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	catalogStore, err := db.Open(context.Background(), cfg.Catalog.Path, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to open catalog store", err)
		os.Exit(1)
	}
	txnStore, err := db.Open(context.Background(), cfg.Txn.Path, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to open transactions store", err)
		os.Exit(1)
	}
	defer func() {
		if err := multierr.Append(catalogStore.Close(), txnStore.Close()); err != nil {
			logg.Error(context.Background(), "error closing stores", err)
		}
	}()

	if err := catalog.EnsureSchema(context.Background(), catalogStore.DB()); err != nil {
		logg.Error(context.Background(), "failed to ensure catalog schema", err)
		os.Exit(1)
	}
	caps, err := catalog.ProbeCapabilities(context.Background(), catalogStore.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to probe catalog capabilities", err)
		os.Exit(1)
	}

	if err := txnStore.AutoMigrate(
		&models.Inventory{},
		&models.CheckoutSession{},
		&models.Order{},
		&models.Customer{},
		&models.CustomerAddress{},
		&models.PaymentInstrument{},
		&models.Discount{},
		&models.ShippingRate{},
		&models.RequestLog{},
		&models.IdempotencyRecord{},
		&models.AgentRun{},
		&models.AgentRunStepLog{},
		&models.Approval{},
		&models.CartDraft{},
		&models.CartDraftLineItem{},
		&models.CartDraftAlternative{},
	); err != nil {
		logg.Error(context.Background(), "failed to migrate transactions store", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	checkoutService := checkout.NewService(txnStore)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":           cfg.App.Env,
		"addr":          addr,
		"catalog_db":    cfg.Catalog.Path,
		"has_inventory": caps.InventoryQuantity,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:           cfg,
			Logger:           logg,
			CatalogStore:     catalogStore,
			TransactionStore: txnStore,
			HTTPMetrics:      httpMetrics,
			MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			IdempotencyStore: checkout.NewRepository(txnStore.DB()),
			CatalogService:   catalog.NewService(catalogStore, caps),
			AgentRunService:  agentruns.NewService(txnStore),
			CartDraftService: cartdrafts.NewService(txnStore),
			CheckoutService:  checkoutService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
