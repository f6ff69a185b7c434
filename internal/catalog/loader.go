package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stitts-dev/hoops-sim/internal/models"
)

const importBatchSize = 500

// LoadCSV reads a player catalog export from disk.
func LoadCSV(path string) ([]models.PlayerRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	records, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	return records, nil
}

// ReadCSV parses a header-first CSV using the catalog's upper-case column names.
// Derived lower-case name columns are ignored; blank percentages read as zero.
func ReadCSV(r io.Reader) ([]models.PlayerRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("catalog is empty")
		}
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToUpper(strings.TrimSpace(col))] = i
	}
	if _, ok := index["FULL_NAME"]; !ok {
		return nil, fmt.Errorf("catalog header is missing FULL_NAME")
	}

	var records []models.PlayerRecord
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec, err := parseRow(row, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string, index map[string]int) (models.PlayerRecord, error) {
	field := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var parseErr error
	count := func(col string) int {
		raw := field(col)
		if raw == "" || parseErr != nil {
			return 0
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			parseErr = fmt.Errorf("column %s: %w", col, err)
			return 0
		}
		return int(math.Round(v))
	}
	pct := func(col string) float64 {
		raw := field(col)
		if raw == "" || parseErr != nil {
			return 0
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			parseErr = fmt.Errorf("column %s: %w", col, err)
			return 0
		}
		if math.IsNaN(v) {
			return 0
		}
		return v
	}

	rec := models.PlayerRecord{
		FullName:  field("FULL_NAME"),
		FirstName: field("FIRST_NAME"),
		LastName:  field("LAST_NAME"),
		IsActive:  parseBool(field("IS_ACTIVE")),
		AST:       count(models.ColAST),
		BLK:       count(models.ColBLK),
		DREB:      count(models.ColDREB),
		FG3A:      count(models.ColFG3A),
		FG3M:      count(models.ColFG3M),
		FG3Pct:    pct(models.ColFG3Pct),
		FGA:       count(models.ColFGA),
		FGM:       count(models.ColFGM),
		FGPct:     pct(models.ColFGPct),
		FTA:       count(models.ColFTA),
		FTM:       count(models.ColFTM),
		FTPct:     pct(models.ColFTPct),
		GP:        count(models.ColGP),
		GS:        count(models.ColGS),
		MIN:       count(models.ColMIN),
		OREB:      count(models.ColOREB),
		PF:        count(models.ColPF),
		PTS:       count(models.ColPTS),
		REB:       count(models.ColREB),
		STL:       count(models.ColSTL),
		TOV:       count(models.ColTOV),
	}
	if parseErr != nil {
		return models.PlayerRecord{}, parseErr
	}
	return rec, nil
}

func parseBool(raw string) bool {
	switch strings.ToLower(raw) {
	case "1", "true", "t", "yes", "y":
		return true
	}
	return false
}

// LoadFromDatabase reads every catalog row from the players table.
func LoadFromDatabase(db *gorm.DB) ([]models.PlayerRecord, error) {
	var records []models.PlayerRecord
	if err := db.Order("full_name").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	return records, nil
}

// Import upserts records into the players table in batches.
func Import(db *gorm.DB, records []models.PlayerRecord) error {
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return err
		}
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "full_name"}},
		UpdateAll: true,
	}).CreateInBatches(records, importBatchSize).Error
	if err != nil {
		return fmt.Errorf("failed to import players: %w", err)
	}
	return nil
}
