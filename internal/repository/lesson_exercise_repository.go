package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/guitar-lab/internal/model"
)

// ErrAlreadyAttached is returned when an exercise is attached to the
// same lesson twice.
var ErrAlreadyAttached = errors.New("exercise already attached")

// LessonExerciseRepo manages the lesson_exercises join table.
type LessonExerciseRepo struct {
	db *sql.DB
}

func NewLessonExerciseRepo(db *sql.DB) *LessonExerciseRepo {
	return &LessonExerciseRepo{db: db}
}

// Attach links an exercise to a lesson. Both rows must exist.
func (r *LessonExerciseRepo) Attach(ctx context.Context, lessonID, exerciseID uint64) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM lessons WHERE id = ?)", lessonID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrLessonNotFound
	}
	if err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM exercises WHERE id = ?)", exerciseID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrExerciseNotFound
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO lesson_exercises (lesson_id, exercise_id) VALUES (?,?)",
		lessonID, exerciseID)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return ErrAlreadyAttached
	}
	return err
}

// Detach removes the link. Returns sql.ErrNoRows when it was absent.
func (r *LessonExerciseRepo) Detach(ctx context.Context, lessonID, exerciseID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM lesson_exercises WHERE lesson_id = ? AND exercise_id = ?",
		lessonID, exerciseID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByLesson returns the exercises attached to a lesson ordered by id.
func (r *LessonExerciseRepo) ListByLesson(ctx context.Context, lessonID uint64) ([]*model.Exercise, error) {
	const q = `SELECT e.id, e.name, e.description, e.difficulty, e.tuning_id, e.is_active, e.created_at, e.updated_at
	           FROM exercises e
	           JOIN lesson_exercises le ON le.exercise_id = e.id
	           WHERE le.lesson_id = ? ORDER BY e.id`
	rows, err := r.db.QueryContext(ctx, q, lessonID)
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
