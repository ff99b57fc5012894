// Command importer loads an xlsx workbook of locations straight into the
// store, for seeding a fresh deployment without going through the dashboard.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"petapintar/internal/config"
	"petapintar/internal/spreadsheet"
	"petapintar/internal/store"
)

func main() {
	path := flag.String("file", "", "path to the xlsx workbook")
	flag.Parse()
	if *path == "" {
		log.Fatal("usage: importer -file <workbook.xlsx>")
	}

	config.LoadEnv()
	dsn := config.MustGetEnv("DATABASE_DSN")

	f, err := os.Open(*path)
	if err != nil {
		log.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	ctx := context.Background()
	start := time.Now()

	result, err := spreadsheet.Import(ctx, f)
	if err != nil {
		log.Fatalf("read workbook: %v", err)
	}
	if len(result.Locations) == 0 {
		log.Fatalf("no valid rows found (%d skipped)", result.Skipped)
	}

	db, err := store.Open(ctx, dsn)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer db.Close()
	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	if err := db.Locations().InsertBatch(ctx, result.Locations); err != nil {
		log.Fatalf("insert locations: %v", err)
	}

	log.Printf("imported %d locations (%d rows skipped), took %s",
		len(result.Locations), result.Skipped, time.Since(start))
}
