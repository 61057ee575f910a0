package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"pixpoll/config"
	"pixpoll/internal/repository"
	"pixpoll/pkg/database"

	"gorm.io/gorm"
)

const usage = `
pixpoll - Database CLI Tool

Usage:
  migrate [command]

Commands:
  up          Create the polls, candidates and votes tables
  down        Drop all tables (votes, candidates, polls)
  status      Show connection status and row counts
  seed-dev    Seed a sample poll with candidates and votes
  reset       Drop all tables and re-create them (DANGEROUS)

The target database is read from DATABASE_URL.

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go seed-dev
  go run cmd/migrate/main.go status
`

func main() {
	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	if cfg.Database.IsInMemory() {
		log.Println("⚠️  DATABASE_URL is not set or in-memory; changes are lost on exit")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer database.Close(db)

	ctx := context.Background()

	switch command {
	case "up":
		runMigrationsUp(db)
	case "down":
		runMigrationsDown(db)
	case "status":
		showStatus(ctx, db)
	case "seed-dev":
		runSeedDevelopment(ctx, db)
	case "reset":
		runReset(db)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runMigrationsUp(db *gorm.DB) {
	log.Println("🚀 Running migrations UP...")

	if err := repository.InitSchema(db); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	log.Println("✅ Migrations completed successfully!")
}

func runMigrationsDown(db *gorm.DB) {
	log.Println("⬇️  Dropping tables...")

	if err := repository.DropSchema(db); err != nil {
		log.Fatalf("❌ Rollback failed: %v", err)
	}

	log.Println("✅ Rollback completed successfully!")
}

func showStatus(ctx context.Context, db *gorm.DB) {
	log.Println("🔍 Checking database status...")

	if err := database.HealthCheck(ctx, db); err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	log.Println("✅ Database connection: OK")

	for _, table := range repository.Tables {
		if !db.Migrator().HasTable(table) {
			log.Printf("❌ Table %-12s does not exist", table)
			continue
		}
		counts, err := database.TableCounts(ctx, db, []string{table})
		if err != nil {
			log.Printf("⚠️  Error counting table %s: %v", table, err)
			continue
		}
		log.Printf("✅ Table %-12s exists (%d rows)", table, counts[table])
	}
}

func runSeedDevelopment(ctx context.Context, db *gorm.DB) {
	log.Println("🌱 Seeding database (development mode)...")

	if err := repository.InitSchema(db); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	result, err := database.SeedDevelopment(ctx, db)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("📊 Seed Summary:")
	log.Printf("   - Poll: %s (ID: %d)", result.Poll.Title, result.Poll.ID)
	log.Printf("   - Candidates: %d", len(result.Candidates))
	log.Printf("   - Votes: %d", result.Votes)
	log.Println("✅ Development seeding completed!")
}

func runReset(db *gorm.DB) {
	log.Println("⚠️  WARNING: This will DROP all tables and re-create them!")

	log.Println("🗑️  Dropping all tables...")
	if err := repository.DropSchema(db); err != nil {
		log.Fatalf("❌ Failed to drop tables: %v", err)
	}

	log.Println("🚀 Running migrations...")
	if err := repository.InitSchema(db); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	log.Println("✅ Database reset completed!")
}
