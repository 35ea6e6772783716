// Command seed_roster loads workbook CSV exports into the sheet_rows table.
// Each CSV file becomes one sheet, named after the file without extension,
// with the first line kept as the header row.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/sie-ecommerce/enrollment-api/internal/roster"
	"github.com/sie-ecommerce/enrollment-api/pkg/config"
	"github.com/sie-ecommerce/enrollment-api/pkg/database"
)

func main() {
	var dir string
	flag.StringVar(&dir, "dir", "./seed", "directory with one CSV per sheet")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("postgres connection failed: %v", err)
	}
	defer db.Close() //nolint:errcheck

	store := roster.NewPostgresStore(db)
	ctx := context.Background()

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatalf("failed to read seed directory: %v", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}

		sheet := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		rows, err := readCSV(filepath.Join(dir, entry.Name()))
		if err != nil {
			log.Fatalf("failed to read %s: %v", entry.Name(), err)
		}

		for _, row := range rows {
			if err := store.AppendRow(ctx, sheet, row); err != nil {
				log.Fatalf("failed to append to %s: %v", sheet, err)
			}
		}
		log.Printf("seeded sheet %s with %d rows", sheet, len(rows))
	}
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close() //nolint:errcheck

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}
