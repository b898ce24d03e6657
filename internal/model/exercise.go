package model

import "time"

// Exercise represents a row in the `exercises` table. An exercise is
// played in a specific tuning; difficulty is a free 1..10 scale.
type Exercise struct {
	ID          uint64    // exercises.id
	Name        string    // exercises.name
	Description string    // exercises.description
	Difficulty  int       // exercises.difficulty (1..10)
	TuningID    uint64    // exercises.tuning_id (references tunings.id)
	IsActive    bool      // exercises.is_active
	CreatedAt   time.Time // exercises.created_at
	UpdatedAt   time.Time // exercises.updated_at
}

// Tuning represents a row in the `tunings` table. Notes holds the six
// string pitches low to high, e.g. "EADGBE" for standard tuning.
type Tuning struct {
	ID        uint64    // tunings.id
	Name      string    // tunings.name
	Notes     string    // tunings.notes
	IsActive  bool      // tunings.is_active
	CreatedAt time.Time // tunings.created_at
	UpdatedAt time.Time // tunings.updated_at
}
