package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jask/practicum/internal/center"
	"github.com/jask/practicum/internal/database/repository"
)

// LoadCatalog opens (creating if needed) the catalog at path, migrates it,
// seeds it from seed when empty and returns its centers as a dataset.
func LoadCatalog(ctx context.Context, path string, seed []center.Center) (*center.Dataset, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("catalog: mkdir: %w", err)
	}
	if err := RunMigrations(path); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	db, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open: %w", err)
	}
	defer db.Close()

	if _, err := SeedDefaults(ctx, db, seed); err != nil {
		return nil, fmt.Errorf("catalog: seed: %w", err)
	}
	rows, err := repository.NewCenterRepo(db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	records := make([]center.Center, len(rows))
	for i, r := range rows {
		records[i] = r.Center()
	}
	return center.NewDataset(records)
}
