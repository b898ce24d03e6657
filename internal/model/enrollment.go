package model

import "time"

// Lesson progress states stored in guitarist_lessons.status.
const (
	LessonNotStarted = "NOT_STARTED"
	LessonInProgress = "IN_PROGRESS"
	LessonCompleted  = "COMPLETED"
)

// GuitaristLesson links a guitarist to a lesson they are taking and
// tracks completion. One row per (guitarist, lesson) pair in the
// `guitarist_lessons` table.
type GuitaristLesson struct {
	ID              uint64    // guitarist_lessons.id
	GuitaristID     uint64    // guitarist_lessons.guitarist_id
	LessonID        uint64    // guitarist_lessons.lesson_id
	Status          string    // guitarist_lessons.status
	ProgressPercent float64   // guitarist_lessons.progress_percent (0..100)
	CreatedAt       time.Time // guitarist_lessons.created_at
	UpdatedAt       time.Time // guitarist_lessons.updated_at
}

// LessonExercise links a lesson to one of its exercises. One row per
// (lesson, exercise) pair in the `lesson_exercises` table.
type LessonExercise struct {
	ID         uint64    // lesson_exercises.id
	LessonID   uint64    // lesson_exercises.lesson_id
	ExerciseID uint64    // lesson_exercises.exercise_id
	CreatedAt  time.Time // lesson_exercises.created_at
}
