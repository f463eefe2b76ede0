package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/unicornstore/prebook/internal/api"
	"github.com/unicornstore/prebook/internal/catalog"
	"github.com/unicornstore/prebook/internal/config"
	"github.com/unicornstore/prebook/internal/logger"
	"github.com/unicornstore/prebook/internal/repository"
	"github.com/unicornstore/prebook/internal/repository/postgres"
	"github.com/unicornstore/prebook/internal/service"
	"github.com/unicornstore/prebook/internal/zoho"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	products, err := catalog.Load()
	if err != nil {
		log.Fatal("Failed to load catalog", zap.Error(err))
	}
	counts := products.Counts()
	log.Info("Catalog loaded",
		zap.Int("products", counts.TotalProducts),
		zap.Int("variants", counts.TotalVariants),
	)

	// The audit log is optional
	var repos *repository.Repositories
	if cfg.Database.Enabled() {
		db, err := openDatabase(cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		repos = postgres.NewRepositories(db, log)
		log.Info("Lead audit log enabled", zap.String("db_host", cfg.Database.Host))
	}

	crm := zoho.NewClient(cfg.CRM, log)
	router := api.NewRouter(cfg, api.Services{
		Leads:   service.NewLeadService(crm, repos, log),
		Catalog: service.NewCatalogService(products, log),
	}, repos, log)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Leave room for the CRM round trip
		WriteTimeout: cfg.CRM.Timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Server listening",
			zap.String("addr", server.Addr),
			zap.String("environment", cfg.Environment),
			zap.String("crm_success_mode", cfg.CRM.SuccessMode),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-shutdown
	log.Info("Shutdown signal received, draining requests")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func openDatabase(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := postgres.NewConnection(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := postgres.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
