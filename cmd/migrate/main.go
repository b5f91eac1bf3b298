package main

import (
	"log"

	"ambassador-program/internal/config"
	"ambassador-program/internal/database"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed tier ladder and achievement catalog
	if err := database.Seed(); err != nil {
		log.Fatalf("Failed to seed reference data: %v", err)
	}

	log.Println("Migrations and seed applied successfully")
}
