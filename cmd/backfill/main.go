package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/foxxcyber/backoffice/internal/config"
	"github.com/foxxcyber/backoffice/internal/database"
	"github.com/foxxcyber/backoffice/internal/services"
)

func main() {
	// Command line flags
	from := flag.String("from", "", "First shift date to rebuild (YYYY-MM-DD)")
	to := flag.String("to", "", "Last shift date to rebuild (YYYY-MM-DD, inclusive)")
	withUsage := flag.Bool("usage", false, "Also derive ingredient usage for each date")
	flag.Parse()

	if *from == "" || *to == "" {
		log.Fatal("both -from and -to are required")
	}

	// Load .env
	godotenv.Load()

	// Load config
	cfg := config.Load()

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	window, err := services.NewShiftWindow(cfg)
	if err != nil {
		log.Fatalf("Failed to configure shift window: %v", err)
	}

	posFeed := services.NewPOSFeedClient(cfg)
	aggregator := services.NewAggregator(db, posFeed, window, cfg)
	cascade := services.NewCascade(db, cfg)
	orchestrator := services.NewOrchestrator(aggregator, cascade)

	ctx := context.Background()

	log.Printf("Rebuilding shifts %s..%s", *from, *to)
	results, err := orchestrator.RebuildRange(ctx, *from, *to)
	if err != nil {
		log.Printf("Some rebuilds failed: %v", err)
	}

	for _, result := range results {
		log.Printf("%s: %d items, %d modifiers, %d unmapped",
			result.Date, result.ItemsAggregated, result.ModifiersAggregated, len(result.UnmappedCategories))

		if *withUsage {
			usage, err := orchestrator.DeriveUsage(ctx, result.Date)
			if err != nil {
				log.Printf("%s: usage derivation failed: %v", result.Date, err)
				continue
			}
			log.Printf("%s: %d usage rows, %d without recipes", result.Date, usage.RowCount, usage.Skipped)
		}
	}

	log.Printf("Backfill complete: %d dates rebuilt", len(results))
}
