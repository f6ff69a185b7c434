package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/hoops-sim/internal/catalog"
	"github.com/stitts-dev/hoops-sim/internal/models"
	"github.com/stitts-dev/hoops-sim/pkg/config"
	"github.com/stitts-dev/hoops-sim/pkg/database"
	"github.com/stitts-dev/hoops-sim/pkg/logger"
)

const usage = "Usage: catalog [migrate|import <players.csv>|check <players.csv>|drop]"

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	lg := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())

	command := os.Args[1]

	// check reads the CSV only and needs no database
	if command == "check" {
		path := csvArg(cfg)
		records, err := catalog.LoadCSV(path)
		if err != nil {
			lg.Fatalf("Catalog file is invalid: %v", err)
		}
		if _, err := catalog.NewMemoryCatalog(records); err != nil {
			lg.Fatalf("Catalog file is invalid: %v", err)
		}
		difficulties, err := models.LoadDifficulties(cfg.DifficultyFile)
		if err != nil {
			lg.Fatalf("Failed to load difficulties: %v", err)
		}
		printSummary(os.Stdout, records, difficulties)
		return
	}

	db, err := database.NewConnection(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		lg.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	switch command {
	case "migrate":
		if err := runMigrations(db); err != nil {
			lg.Fatalf("Failed to run migrations: %v", err)
		}
		lg.Info("Migrations completed successfully")

	case "import":
		path := csvArg(cfg)
		records, err := catalog.LoadCSV(path)
		if err != nil {
			lg.Fatalf("Failed to read %s: %v", path, err)
		}
		if _, err := catalog.NewMemoryCatalog(records); err != nil {
			lg.Fatalf("Refusing to import %s: %v", path, err)
		}
		if err := runMigrations(db); err != nil {
			lg.Fatalf("Failed to run migrations: %v", err)
		}
		if err := catalog.Import(db.DB, records); err != nil {
			lg.Fatalf("Failed to import players: %v", err)
		}
		lg.WithFields(logrus.Fields{"path": path, "players": len(records)}).Info("Players imported successfully")

	case "drop":
		if err := db.Migrator().DropTable(&models.PlayerRecord{}); err != nil {
			lg.Fatalf("Failed to drop tables: %v", err)
		}
		lg.Info("Tables dropped successfully")

	default:
		log.Fatalf("Unknown command: %s\n%s", command, usage)
	}
}

func runMigrations(db *database.DB) error {
	if err := db.AutoMigrate(&models.PlayerRecord{}); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}
	return nil
}

func csvArg(cfg *config.Config) string {
	if len(os.Args) > 2 {
		return os.Args[2]
	}
	return cfg.CatalogPath
}

// printSummary writes, per preset, how many players clear each threshold.
func printSummary(w io.Writer, records []models.PlayerRecord, difficulties *models.DifficultySet) {
	fmt.Fprintf(w, "%d players\n", len(records))
	for _, preset := range difficulties.All() {
		columns := []string{models.ColPTS, models.ColREB, models.ColAST, models.ColSTL}
		counts := make([]string, 0, len(columns))
		for i, col := range columns {
			threshold := preset.Thresholds()[i]
			n := 0
			for _, r := range records {
				if catalog.Exceeds(col, threshold)(r) {
					n++
				}
			}
			counts = append(counts, fmt.Sprintf("%s>%d: %d", col, threshold, n))
		}
		fmt.Fprintf(w, "%-12s %s\n", preset.Name, strings.Join(counts, "  "))
	}
}
