package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"truckboard/config"
	"truckboard/pkg/bot"
	"truckboard/pkg/logger"
	"truckboard/storage/postgres"
)

func main() {
	// 1. Load Config
	cfg := config.Load()

	// 2. Initialize Logger
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)

	// 3. Initialize Shared Storage (Postgres)
	pgStore, err := postgres.New(context.Background(), cfg, log)
	if err != nil {
		log.Error("Failed to connect to postgres", logger.Error(err))
		os.Exit(1)
	}
	defer pgStore.Close()

	if cfg.DashboardPassword == "" {
		log.Warning("DASHBOARD_PASSWORD is empty, nobody will be able to sign in")
	}

	// 4. Initialize Dashboard Bot
	dashBot, err := bot.New(&cfg, pgStore, log)
	if err != nil {
		log.Error("Failed to initialize dashboard bot", logger.Error(err))
		os.Exit(1)
	}

	go func() {
		dashBot.Start()
	}()

	log.Info("🚚 Trucking dashboard is now running.")

	// 5. Graceful Shutdown listener
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	log.Info("Stopping dashboard and shutting down...")
	dashBot.Stop()
}
