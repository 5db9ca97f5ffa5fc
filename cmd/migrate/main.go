package main

import (
	"log"

	"pc-autobuild-be/internal/config"
	"pc-autobuild-be/internal/model"
	"pc-autobuild-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.Verbose, database.DefaultPoolConfig())
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Step 1: Setting up Extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("Warn: Failed to create pgcrypto extension: %v. Continuing...", err)
	}

	log.Println("Step 2: Running AutoMigrate...")
	if err := db.AutoMigrate(&model.Part{}, &model.CompatibilityEdge{}); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// Name lookups rank with to_tsvector('simple', ...), so the indexes must use
	// the same expression.
	log.Println("Step 3: Creating full text indexes...")
	indexSQL := []string{
		`CREATE INDEX IF NOT EXISTS idx_parts_name_fts ON parts USING GIN (to_tsvector('simple', name));`,
		`CREATE INDEX IF NOT EXISTS idx_parts_chipset_fts ON parts USING GIN (to_tsvector('simple', chipset));`,
		`CREATE INDEX IF NOT EXISTS idx_edges_from ON compatibility_edges (from_category, from_name);`,
	}
	for _, sql := range indexSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Fatalf("Error: Failed to create index: %v", err)
		}
	}

	log.Println("Migration completed successfully.")
}
