package main

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"tailorder-be/internal/api"
	"tailorder-be/internal/catalog"
	"tailorder-be/internal/config"
	"tailorder-be/internal/db"
	"tailorder-be/internal/export"
	"tailorder-be/internal/invoice"
	"tailorder-be/internal/logger"
	"tailorder-be/internal/metrics"
	"tailorder-be/internal/middleware"
	"tailorder-be/internal/order"
	"tailorder-be/internal/stats"
)

// Swappable for tests.
var (
	initDBFunc      = db.InitDB
	startServerFunc = http.ListenAndServe
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	root := newServer(cfg, database)

	log.Printf("🚀 API server running at http://localhost:%s/", cfg.AppPort)
	return startServerFunc(":"+cfg.AppPort, root)
}

// newServer wires repositories, services and the HTTP surface.
func newServer(cfg *config.Config, database *sql.DB) http.Handler {
	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, time.Now)

	catalogRepo := catalog.NewRepository(database)
	catalogSvc := catalog.NewService(catalogRepo, catalog.NewCache())

	statsRepo := stats.NewRepository(database)
	statsSvc := stats.NewService(statsRepo)

	biz := invoice.BusinessFromConfig(cfg)
	exporter := export.NewExporter(biz, time.Now)

	handler := api.NewHandler(orderSvc, catalogSvc, statsSvc, exporter, biz, time.Now)

	var root http.Handler = handler.Routes()
	root = metrics.Middleware(root)
	root = middleware.RateLimitMiddleware(root)
	root = logger.LoggingMiddleware(root)
	root = logger.RequestIDMiddleware(root)
	root = middleware.CORS(root)
	return root
}
