package main

import (
	"fmt"
	"log"
	"os"

	"github.com/salgsflyt/salgsflyt-backend/config"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/repository"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/service"
	"github.com/salgsflyt/salgsflyt-backend/internal/db"
)

// Leser et BRREG-uttrekk (CSV eller XLSX) og fyller snapshot-tabellen.
// Kjøres typisk én gang ved oppsett, deretter ved behov for oppfrisking.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Filsti fra argument, ellers fra konfigurasjon
	filePath := cfg.Import.FilePath
	if len(os.Args) > 1 {
		filePath = os.Args[1]
	}
	if filePath == "" {
		log.Fatal("Usage: go run cmd/import/main.go <file_path>")
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	brregRepo := repository.NewBrregRepository(db.GetDB())
	importService := service.NewImportService(brregRepo)

	fmt.Printf("Importing registry snapshots from: %s\n", filePath)

	summary, err := importService.ImportSnapshots(filePath, cfg.Import.SamplePath, cfg.Import.MaxRecords)
	if err != nil {
		log.Fatal("Import failed:", err)
	}

	fmt.Printf("Processed: %d\n", summary.Processed)
	fmt.Printf("Created:   %d\n", summary.Created)
	fmt.Printf("Skipped:   %d\n", summary.Skipped)
	fmt.Printf("Failed:    %d\n", summary.Failed)
}
