package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/guitar-lab/internal/model"
)

// ErrTuningNotFound is returned when a tuning cannot be found in the DB.
var ErrTuningNotFound = errors.New("tuning not found")

// TuningRepo encapsulates all database queries related to tunings.
type TuningRepo struct {
	db *sql.DB
}

func NewTuningRepo(db *sql.DB) *TuningRepo {
	return &TuningRepo{db: db}
}

// Create inserts a new tuning and backfills generated fields.
func (r *TuningRepo) Create(ctx context.Context, t *model.Tuning) error {
	const qInsert = "INSERT INTO tunings (name, notes) VALUES (?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, t.Name, t.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)

	const qSelect = "SELECT is_active, created_at, updated_at FROM tunings WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, t.ID).Scan(&t.IsActive, &t.CreatedAt, &t.UpdatedAt)
}

// GetByID fetches a tuning by id, ErrTuningNotFound when absent.
func (r *TuningRepo) GetByID(ctx context.Context, id uint64) (*model.Tuning, error) {
	const q = "SELECT id, name, notes, is_active, created_at, updated_at FROM tunings WHERE id = ?"
	var t model.Tuning
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name, &t.Notes, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTuningNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns all tunings ordered by id.
func (r *TuningRepo) List(ctx context.Context) ([]*model.Tuning, error) {
	const q = "SELECT id, name, notes, is_active, created_at, updated_at FROM tunings ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Tuning
	for rows.Next() {
		t := new(model.Tuning)
		if err := rows.Scan(&t.ID, &t.Name, &t.Notes, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update changes name and notes. Returns sql.ErrNoRows when no row is
// affected.
func (r *TuningRepo) Update(ctx context.Context, id uint64, name, notes string) error {
	const q = `UPDATE tunings
	           SET name = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, name, notes, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a tuning unless exercises still reference it.
func (r *TuningRepo) Delete(ctx context.Context, id uint64) error {
	var dependents int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM exercises WHERE tuning_id = ?", id).Scan(&dependents); err != nil {
		return err
	}
	if dependents > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM tunings WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
