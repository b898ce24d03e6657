package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/guitar-lab/internal/model"
)

// ErrAlreadyEnrolled is returned when a guitarist enrolls twice in the
// same lesson.
var ErrAlreadyEnrolled = errors.New("already enrolled")

// ErrEnrollmentNotFound is returned when no enrollment row matches.
var ErrEnrollmentNotFound = errors.New("enrollment not found")

// EnrollmentRepo manages the guitarist_lessons join table: which
// lessons a guitarist takes and how far along each one is.
type EnrollmentRepo struct {
	db *sql.DB
}

func NewEnrollmentRepo(db *sql.DB) *EnrollmentRepo {
	return &EnrollmentRepo{db: db}
}

// Enroll creates a NOT_STARTED enrollment. The unique index on
// (guitarist_id, lesson_id) turns a duplicate into ErrAlreadyEnrolled.
func (r *EnrollmentRepo) Enroll(ctx context.Context, guitaristID, lessonID uint64) (*model.GuitaristLesson, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM lessons WHERE id = ?)", lessonID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrLessonNotFound
	}

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO guitarist_lessons (guitarist_id, lesson_id, status, progress_percent) VALUES (?,?,?,0)",
		guitaristID, lessonID, model.LessonNotStarted)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	gl := &model.GuitaristLesson{ID: uint64(id), GuitaristID: guitaristID, LessonID: lessonID}
	const q = "SELECT status, progress_percent, created_at, updated_at FROM guitarist_lessons WHERE id = ?"
	if err := r.db.QueryRowContext(ctx, q, gl.ID).Scan(&gl.Status, &gl.ProgressPercent, &gl.CreatedAt, &gl.UpdatedAt); err != nil {
		return nil, err
	}
	return gl, nil
}

// UpdateProgress stores a 0..100 progress value and derives the status
// from it. The guitarist_id guard keeps one guitarist from moving
// another's progress; a mismatch surfaces as ErrEnrollmentNotFound.
func (r *EnrollmentRepo) UpdateProgress(ctx context.Context, guitaristID, lessonID uint64, percent float64) error {
	status := model.LessonInProgress
	switch {
	case percent <= 0:
		status = model.LessonNotStarted
	case percent >= 100:
		percent = 100
		status = model.LessonCompleted
	}
	const q = `UPDATE guitarist_lessons
	           SET progress_percent = ?, status = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE guitarist_id = ? AND lesson_id = ?`
	res, err := r.db.ExecContext(ctx, q, percent, status, guitaristID, lessonID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEnrollmentNotFound
	}
	return nil
}

// ListByGuitarist returns the guitarist's enrollments ordered by lesson id.
func (r *EnrollmentRepo) ListByGuitarist(ctx context.Context, guitaristID uint64) ([]*model.GuitaristLesson, error) {
	const q = `SELECT id, guitarist_id, lesson_id, status, progress_percent, created_at, updated_at
	           FROM guitarist_lessons WHERE guitarist_id = ? ORDER BY lesson_id`
	rows, err := r.db.QueryContext(ctx, q, guitaristID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.GuitaristLesson
	for rows.Next() {
		gl := new(model.GuitaristLesson)
		if err := rows.Scan(&gl.ID, &gl.GuitaristID, &gl.LessonID, &gl.Status, &gl.ProgressPercent, &gl.CreatedAt, &gl.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, gl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Unenroll removes the enrollment row.
func (r *EnrollmentRepo) Unenroll(ctx context.Context, guitaristID, lessonID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM guitarist_lessons WHERE guitarist_id = ? AND lesson_id = ?",
		guitaristID, lessonID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEnrollmentNotFound
	}
	return nil
}
