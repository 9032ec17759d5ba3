package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/practicum/internal/center"
	"github.com/jask/practicum/internal/database/repository"
)

// CenterID derives a stable id for a record that arrives without one.
func CenterID(code string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("center:"+strings.TrimSpace(code))).String()
}

// SeedDefaults fills an empty catalog with records in order. It is idempotent
// and safe to run on every startup; a catalog that already holds centers is
// left alone. It returns the number of rows written.
func SeedDefaults(ctx context.Context, db *sql.DB, records []center.Center) (int, error) {
	repo := repository.NewCenterRepo(db)
	n, err := repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		txRepo := repository.NewCenterRepo(tx)
		for idx, c := range records {
			if strings.TrimSpace(c.ID) == "" {
				c.ID = CenterID(c.Code)
			}
			if err := txRepo.Upsert(ctx, repository.FromCenter(c, idx)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(records), nil
}
