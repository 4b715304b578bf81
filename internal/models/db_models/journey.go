package db_models

import (
	"github.com/google/uuid"
)

// Journey is a generated learning path for one account.
type Journey struct {
	BaseModel
	AccountID      uuid.UUID `gorm:"type:uuid;index"`
	Title          string
	TargetLanguage string `gorm:"index"`
	Level          string // "beginner" | "intermediate" | "advanced"
	OutlineJSON    string `gorm:"type:jsonb;default:'{}'"`

	Lessons []Lesson
}
