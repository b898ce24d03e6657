package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/guitar-lab/internal/model"
)

// ErrLessonNotFound is returned when a lesson cannot be found in the DB.
var ErrLessonNotFound = errors.New("lesson not found")

// LessonRepo encapsulates all database queries related to lessons and
// the lesson_exercises join table.
type LessonRepo struct {
	db *sql.DB
}

func NewLessonRepo(db *sql.DB) *LessonRepo {
	return &LessonRepo{db: db}
}

// Create inserts a new lesson. The technique must exist; a failed FK
// check surfaces as ErrTechniqueNotFound so handlers can answer 404.
func (r *LessonRepo) Create(ctx context.Context, l *model.Lesson) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM techniques WHERE id = ?)", l.TechniqueID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrTechniqueNotFound
	}

	const qInsert = "INSERT INTO lessons (name, description, technique_id) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, l.Name, l.Description, l.TechniqueID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)

	const qSelect = "SELECT is_active, created_at, updated_at FROM lessons WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, l.ID).Scan(&l.IsActive, &l.CreatedAt, &l.UpdatedAt)
}

// GetByID fetches a lesson by id, ErrLessonNotFound when absent.
func (r *LessonRepo) GetByID(ctx context.Context, id uint64) (*model.Lesson, error) {
	const q = "SELECT id, name, description, technique_id, is_active, created_at, updated_at FROM lessons WHERE id = ?"
	var l model.Lesson
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&l.ID, &l.Name, &l.Description, &l.TechniqueID, &l.IsActive, &l.CreatedAt, &l.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}
	return &l, nil
}

// List returns all lessons ordered by id. When techniqueID is non-zero
// the result is narrowed to that technique.
func (r *LessonRepo) List(ctx context.Context, techniqueID uint64) ([]*model.Lesson, error) {
	q := "SELECT id, name, description, technique_id, is_active, created_at, updated_at FROM lessons"
	args := []any{}
	if techniqueID != 0 {
		q += " WHERE technique_id = ?"
		args = append(args, techniqueID)
	}
	q += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Lesson
	for rows.Next() {
		l := new(model.Lesson)
		if err := rows.Scan(&l.ID, &l.Name, &l.Description, &l.TechniqueID, &l.IsActive, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update changes the mutable lesson fields. Returns sql.ErrNoRows when
// no row is affected.
func (r *LessonRepo) Update(ctx context.Context, id uint64, name, description string, techniqueID uint64) error {
	const q = `UPDATE lessons
	           SET name = ?, description = ?, technique_id = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, name, description, techniqueID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a lesson and its dependent records (exercise links and
// enrollments) within a transaction to maintain integrity.
func (r *LessonRepo) Delete(ctx context.Context, id uint64) error {
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

	var exists bool
	if err = tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM lessons WHERE id = ?)", id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		err = sql.ErrNoRows
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM lesson_exercises WHERE lesson_id = ?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM guitarist_lessons WHERE lesson_id = ?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM lessons WHERE id = ?", id); err != nil {
		return err
	}
	return nil
}
