package model

import "time"

// Skill levels stored in guitarists.skill_level.
const (
	SkillBeginner     = "BEGINNER"
	SkillIntermediate = "INTERMEDIATE"
	SkillAdvanced     = "ADVANCED"
)

// Guitarist is the playing profile attached to a user account.
// It corresponds to a row in the `guitarists` table.
//
// Fields:
//  ID              – primary key identifier.
//  Name            – profile display name.
//  SkillLevel      – one of the Skill* constants.
//  ExperienceYears – years of playing experience.
//  IsActive        – soft-delete flag.
//  CreatedAt       – timestamp when the profile was created.
//  UpdatedAt       – timestamp of last update.
type Guitarist struct {
	ID              uint64    // guitarists.id
	Name            string    // guitarists.name
	SkillLevel      string    // guitarists.skill_level
	ExperienceYears int       // guitarists.experience_years
	IsActive        bool      // guitarists.is_active
	CreatedAt       time.Time // guitarists.created_at
	UpdatedAt       time.Time // guitarists.updated_at
}
