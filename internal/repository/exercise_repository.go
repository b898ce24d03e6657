package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/guitar-lab/internal/model"
)

// ErrExerciseNotFound is returned when an exercise cannot be found in the DB.
var ErrExerciseNotFound = errors.New("exercise not found")

// ExerciseRepo encapsulates all database queries related to exercises.
type ExerciseRepo struct {
	db *sql.DB
}

func NewExerciseRepo(db *sql.DB) *ExerciseRepo {
	return &ExerciseRepo{db: db}
}

// Create inserts a new exercise. The tuning must exist.
func (r *ExerciseRepo) Create(ctx context.Context, e *model.Exercise) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM tunings WHERE id = ?)", e.TuningID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrTuningNotFound
	}

	const qInsert = "INSERT INTO exercises (name, description, difficulty, tuning_id) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, e.Name, e.Description, e.Difficulty, e.TuningID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)

	const qSelect = "SELECT is_active, created_at, updated_at FROM exercises WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, e.ID).Scan(&e.IsActive, &e.CreatedAt, &e.UpdatedAt)
}

// GetByID fetches an exercise by id, ErrExerciseNotFound when absent.
func (r *ExerciseRepo) GetByID(ctx context.Context, id uint64) (*model.Exercise, error) {
	const q = "SELECT id, name, description, difficulty, tuning_id, is_active, created_at, updated_at FROM exercises WHERE id = ?"
	var e model.Exercise
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&e.ID, &e.Name, &e.Description, &e.Difficulty, &e.TuningID, &e.IsActive, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return &e, nil
}

// List returns all exercises ordered by id, optionally narrowed to one
// tuning when tuningID is non-zero.
func (r *ExerciseRepo) List(ctx context.Context, tuningID uint64) ([]*model.Exercise, error) {
	q := "SELECT id, name, description, difficulty, tuning_id, is_active, created_at, updated_at FROM exercises"
	args := []any{}
	if tuningID != 0 {
		q += " WHERE tuning_id = ?"
		args = append(args, tuningID)
	}
	q += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Exercise
	for rows.Next() {
		e := new(model.Exercise)
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.Difficulty, &e.TuningID, &e.IsActive, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update changes the mutable exercise fields. Returns sql.ErrNoRows
// when no row is affected.
func (r *ExerciseRepo) Update(ctx context.Context, id uint64, name, description string, difficulty int, tuningID uint64) error {
	const q = `UPDATE exercises
	           SET name = ?, description = ?, difficulty = ?, tuning_id = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, name, description, difficulty, tuningID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an exercise together with its lesson links.
func (r *ExerciseRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM lesson_exercises WHERE exercise_id = ?", id); err != nil {
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, "DELETE FROM exercises WHERE id = ?", id); err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = sql.ErrNoRows
		return err
	}
	return nil
}
