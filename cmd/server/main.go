package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"featreq/internal/config"
	"featreq/internal/db"
	"featreq/internal/metrics"
	"featreq/internal/server"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Seed demo data in development
	if cfg.IsDev() {
		if err := database.SeedDemoData(ctx); err != nil {
			log.Printf("Failed to seed demo data: %v", err)
		}
	}

	// Register metrics collector
	metrics.Init(database)

	// Initialize server and routes
	srv := server.New(cfg)
	srv.RegisterRoutes(database)

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("Shutting down server...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Starting server on %s", cfg.ServerAddr)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
