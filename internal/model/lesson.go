package model

import "time"

// Lesson represents a row in the `lessons` table. A lesson teaches
// exactly one technique and bundles any number of exercises via the
// lesson_exercises join table.
type Lesson struct {
	ID          uint64    // lessons.id
	Name        string    // lessons.name
	Description string    // lessons.description
	TechniqueID uint64    // lessons.technique_id (references techniques.id)
	IsActive    bool      // lessons.is_active
	CreatedAt   time.Time // lessons.created_at
	UpdatedAt   time.Time // lessons.updated_at
}

// Technique represents a row in the `techniques` table, e.g.
// "Alternate picking" or "Legato".
type Technique struct {
	ID          uint64    // techniques.id
	Name        string    // techniques.name
	Description string    // techniques.description
	IsActive    bool      // techniques.is_active
	CreatedAt   time.Time // techniques.created_at
	UpdatedAt   time.Time // techniques.updated_at
}
