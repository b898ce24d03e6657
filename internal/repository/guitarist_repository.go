package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/guitar-lab/internal/model"
)

// ErrGuitaristNotFound is returned when a guitarist profile is absent.
var ErrGuitaristNotFound = errors.New("guitarist not found")

// GuitaristRepo encapsulates queries on the guitarists table. Profiles
// are created by UserRepo.Create alongside the owning user, so this
// repo only reads and updates.
type GuitaristRepo struct {
	db *sql.DB
}

func NewGuitaristRepo(db *sql.DB) *GuitaristRepo {
	return &GuitaristRepo{db: db}
}

// GetByID fetches a profile by id.
func (r *GuitaristRepo) GetByID(ctx context.Context, id uint64) (*model.Guitarist, error) {
	const q = "SELECT id, name, skill_level, experience_years, is_active, created_at, updated_at FROM guitarists WHERE id = ?"
	var g model.Guitarist
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&g.ID, &g.Name, &g.SkillLevel, &g.ExperienceYears, &g.IsActive, &g.CreatedAt, &g.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGuitaristNotFound
		}
		return nil, err
	}
	return &g, nil
}

// List returns all profiles ordered by id.
func (r *GuitaristRepo) List(ctx context.Context) ([]*model.Guitarist, error) {
	const q = "SELECT id, name, skill_level, experience_years, is_active, created_at, updated_at FROM guitarists ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Guitarist
	for rows.Next() {
		g := new(model.Guitarist)
		if err := rows.Scan(&g.ID, &g.Name, &g.SkillLevel, &g.ExperienceYears, &g.IsActive, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update changes the profile fields. Returns sql.ErrNoRows when no row
// is affected.
func (r *GuitaristRepo) Update(ctx context.Context, id uint64, name, skillLevel string, experienceYears int) error {
	const q = `UPDATE guitarists
	           SET name = ?, skill_level = ?, experience_years = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, name, skillLevel, experienceYears, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
