// Package main - Entry point for the landed-cost quote server
package main

import (
	"context"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"landed-cost/api"
	"landed-cost/core/calc"
	"landed-cost/db"
	"landed-cost/internal/config"
	"landed-cost/internal/logging"
	"landed-cost/rates"
)

const version = "1.0.0"

func main() {
	cfgPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg := config.Get()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			logging.Fatal("failed to load config", zap.Error(err))
		}
		config.Set(loaded)
		cfg = loaded
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		logging.Fatal("failed to initialize logging", zap.Error(err))
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Catalog.MigrateOnStart {
		if err := db.Migrate(cfg.Catalog.DSN); err != nil {
			logging.Fatal("migrations failed", zap.Error(err))
		}
		logging.Info("migrations applied")
	}

	store, err := db.Connect(ctx, cfg.Catalog.DSN)
	if err != nil {
		logging.Fatal("catalog connect failed", zap.Error(err))
	}
	defer store.Close()

	table, err := loadRates(cfg.Rates.Path)
	if err != nil {
		logging.Fatal("rate table load failed", zap.Error(err))
	}

	calculator := calc.NewService(table, logging.Named("calc"))
	apiServer := api.NewServer(version, store, calculator, cfg.Server.EnableMetrics)

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      apiServer,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logging.Info("quote server listening", zap.String("addr", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	logging.Info("graceful shutdown complete")
}

func loadRates(path string) (*rates.Table, error) {
	if path == "" {
		return rates.Default()
	}
	return rates.Load(path)
}
