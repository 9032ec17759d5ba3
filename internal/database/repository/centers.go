package repository

import (
	"context"
	"database/sql"

	"github.com/jask/practicum/internal/center"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CenterRow is a catalog row.
type CenterRow struct {
	ID        string
	Code      string
	Name      string
	Zone      string
	Status    string
	Capacity  int
	SortOrder int
}

func FromCenter(c center.Center, order int) CenterRow {
	return CenterRow{
		ID:        c.ID,
		Code:      c.Code,
		Name:      c.Name,
		Zone:      c.Zone,
		Status:    c.Status,
		Capacity:  c.Capacity,
		SortOrder: order,
	}
}

func (r CenterRow) Center() center.Center {
	return center.Center{ID: r.ID, Code: r.Code, Name: r.Name, Zone: r.Zone, Status: r.Status, Capacity: r.Capacity}
}

// CenterRepo handles centers.
type CenterRepo struct {
	db DBTX
}

func NewCenterRepo(db DBTX) *CenterRepo {
	return &CenterRepo{db: db}
}

func (r *CenterRepo) Upsert(ctx context.Context, c CenterRow) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO centers(id, code, name, zone, status, capacity, sort_order)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 code=excluded.code,
	 name=excluded.name,
	 zone=excluded.zone,
	 status=excluded.status,
	 capacity=excluded.capacity,
	 sort_order=excluded.sort_order,
	 updated_at=CURRENT_TIMESTAMP;
	`, c.ID, c.Code, c.Name, c.Zone, c.Status, c.Capacity, c.SortOrder)
	return err
}

func (r *CenterRepo) List(ctx context.Context) ([]CenterRow, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, code, name, zone, status, capacity, sort_order FROM centers ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CenterRow
	for rows.Next() {
		var c CenterRow
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.Zone, &c.Status, &c.Capacity, &c.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Get returns sql.ErrNoRows when id is absent.
func (r *CenterRepo) Get(ctx context.Context, id string) (CenterRow, error) {
	var c CenterRow
	err := r.db.QueryRowContext(ctx, `SELECT id, code, name, zone, status, capacity, sort_order FROM centers WHERE id = ?`, id).
		Scan(&c.ID, &c.Code, &c.Name, &c.Zone, &c.Status, &c.Capacity, &c.SortOrder)
	return c, err
}

func (r *CenterRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM centers`).Scan(&n)
	return n, err
}
