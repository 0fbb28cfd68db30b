package ingest

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/akarmiris/riskalloc/internal/domain"
)

// LoadHistoryDir ingests a directory of per-symbol history databases, one
// <SYMBOL>.db file per asset with a daily_prices table. Assets are ordered
// by file name and closes ascend by date.
func LoadHistoryDir(dir string) ([]domain.Asset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".db") {
			continue
		}
		files = append(files, entry.Name())
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no history databases in %s", dir)
	}

	assets := make([]domain.Asset, 0, len(files))
	for _, name := range files {
		symbol := strings.TrimSuffix(name, ".db")
		prices, err := readHistoryCloses(filepath.Join(dir, name), symbol)
		if err != nil {
			return nil, err
		}
		assets = append(assets, domain.Asset{ID: symbol, Prices: prices})
	}

	if err := domain.ValidateAssets(assets); err != nil {
		return nil, err
	}
	return assets, nil
}

// readHistoryCloses opens one symbol database and pulls its closing prices
// in date order.
func readHistoryCloses(path, symbol string) ([]float64, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database for %s: %w", symbol, err)
	}
	defer db.Close()

	// Verify database is accessible
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping history database for %s: %w", symbol, err)
	}

	rows, err := db.Query(`SELECT close_price FROM daily_prices ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily prices for %s: %w", symbol, err)
	}
	defer rows.Close()

	var prices []float64
	for rows.Next() {
		var closePrice float64
		if err := rows.Scan(&closePrice); err != nil {
			return nil, fmt.Errorf("failed to scan daily price: %w", err)
		}
		prices = append(prices, closePrice)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily prices: %w", err)
	}

	return prices, nil
}
