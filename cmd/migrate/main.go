package main

import (
	"flag"
	"log"

	"hr-helpdesk-be/internal/config"
	"hr-helpdesk-be/pkg/database"
)

func main() {
	withVectors := flag.Bool("vectors", false, "also create the pgvector extension and chunk_embeddings table")
	flag.Parse()

	// 1. Load Environment Variables
	cfg := config.Load()
	if cfg.Rag.IndexBackend == "pgvector" {
		*withVectors = true
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.App.Debug)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// 3. AutoMigrate
	log.Printf("Starting migration (vectors=%v)...", *withVectors)
	if err := database.Migrate(db, *withVectors); err != nil {
		log.Fatalf("Error: migration failed: %v", err)
	}

	log.Println("Success: database migration completed")
}
