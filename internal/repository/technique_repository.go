// Package repository contains data access logic separated from HTTP handlers.
// This file defines repository methods for techniques. A technique is the
// subject a lesson teaches; lessons reference techniques by foreign key, so
// a technique with dependent lessons cannot be deleted.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/guitar-lab/internal/model"
)

// ErrTechniqueNotFound is returned when a technique cannot be found in the DB.
var ErrTechniqueNotFound = errors.New("technique not found")

// TechniqueRepo encapsulates all database queries related to techniques.
type TechniqueRepo struct {
	db *sql.DB
}

func NewTechniqueRepo(db *sql.DB) *TechniqueRepo {
	return &TechniqueRepo{db: db}
}

// Create inserts a new technique. On success the ID, CreatedAt and
// UpdatedAt fields are populated from the stored row.
func (r *TechniqueRepo) Create(ctx context.Context, t *model.Technique) error {
	const qInsert = "INSERT INTO techniques (name, description) VALUES (?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, t.Name, t.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)

	const qSelect = "SELECT is_active, created_at, updated_at FROM techniques WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, t.ID).Scan(&t.IsActive, &t.CreatedAt, &t.UpdatedAt)
}

// GetByID fetches a technique by its ID. Returns ErrTechniqueNotFound
// when no row matches.
func (r *TechniqueRepo) GetByID(ctx context.Context, id uint64) (*model.Technique, error) {
	const q = "SELECT id, name, description, is_active, created_at, updated_at FROM techniques WHERE id = ?"
	var t model.Technique
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name, &t.Description, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTechniqueNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns all techniques ordered by id.
func (r *TechniqueRepo) List(ctx context.Context) ([]*model.Technique, error) {
	const q = "SELECT id, name, description, is_active, created_at, updated_at FROM techniques ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Technique
	for rows.Next() {
		t := new(model.Technique)
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update changes name and description. Returns sql.ErrNoRows when no
// row is affected.
func (r *TechniqueRepo) Update(ctx context.Context, id uint64, name, description string) error {
	const q = `UPDATE techniques
	           SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, name, description, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a technique. When lessons still reference it the
// delete is refused with ErrConflict.
func (r *TechniqueRepo) Delete(ctx context.Context, id uint64) error {
	var dependents int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM lessons WHERE technique_id = ?", id).Scan(&dependents); err != nil {
		return err
	}
	if dependents > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM techniques WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
