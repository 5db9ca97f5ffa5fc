package main

import (
	"context"
	"log"

	"pc-autobuild-be/internal/config"
	"pc-autobuild-be/internal/repository/implementation"
	"pc-autobuild-be/pkg/autobuild/autobuildtest"
	"pc-autobuild-be/pkg/database"
)

// Seeds the demo desktop catalog and its compatibility edges. Safe to rerun:
// parts are upserted by (category, name) and existing edges are skipped.
func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.Verbose, database.DefaultPoolConfig())
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	repo := implementation.NewPartRepository(db, cfg.Resolver.NameMatchMinRank, cfg.Resolver.PoolLimit)
	parts, edges := autobuildtest.NewDesktopCatalog().Snapshot()

	log.Println("Seeding parts...")
	for _, p := range parts {
		if err := repo.Upsert(ctx, p); err != nil {
			log.Fatalf("Error upserting %s %q: %v", p.Category, p.Name, err)
		}
	}

	log.Println("Seeding compatibility edges...")
	for _, e := range edges {
		if err := repo.Connect(ctx, e[0], e[1]); err != nil {
			log.Fatalf("Error connecting %s -> %s: %v", e[0].Name, e[1].Name, err)
		}
	}

	total, err := repo.Count(ctx)
	if err != nil {
		log.Fatalf("Error counting parts: %v", err)
	}
	log.Printf("Seeding completed: %d parts, %d edges written.", total, len(edges))
}
