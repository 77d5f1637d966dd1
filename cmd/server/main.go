package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/cropsight/backend/config"
	httpDelivery "github.com/cropsight/backend/internal/delivery/http"
	"github.com/cropsight/backend/internal/infrastructure/storage"
	"github.com/cropsight/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting CropSight Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Storage DSN: %s", cfg.Storage.DSN)

	// Initialize infrastructure dependencies
	db, err := storage.Open(cfg.Storage.DSN)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}

	products := storage.NewProductRepository(db)
	analyses := storage.NewAnalysisRepository(db)
	prices := storage.NewPriceRepository(db)

	// Bootstrap synthetic price history for the catalog
	seedStart, err := cfg.SeedStartDate()
	if err != nil {
		log.Fatalf("Invalid seed start date: %v", err)
	}
	seeder := usecase.NewHistorySeeder(products, prices, usecase.SeederConfig{
		Start: seedStart,
		Days:  cfg.Pricing.SeedDays,
	})
	if err := seeder.EnsureAll(context.Background()); err != nil {
		log.Fatalf("Failed to seed price history: %v", err)
	}

	// Initialize usecase layer
	classifier := usecase.NewClassifierService(products, analyses)
	statistics := usecase.NewStatisticsService(prices, cfg.Pricing.StatsWindow)
	forecaster := usecase.NewForecastService(prices, cfg.Forecast.HistoryDays)
	realtime := usecase.NewRealTimeService(prices, cfg.Realtime.UpdateInterval)

	log.Printf("Forecast: history=%dd, horizon=%dd", cfg.Forecast.HistoryDays, cfg.Forecast.HorizonDays)
	log.Printf("Realtime update interval: %s", cfg.Realtime.UpdateInterval)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(classifier, statistics, forecaster, realtime, cfg.Forecast.HorizonDays)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
