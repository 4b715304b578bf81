package db_models

import (
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type AudioStatus string

const (
	AudioStatusNone    AudioStatus = "none"
	AudioStatusPending AudioStatus = "pending"
	AudioStatusReady   AudioStatus = "ready"
)

// Lesson is one generated piece of learning content. The embedding column
// backs the related-lesson lookup; the actual TTS render for audio lessons
// happens outside this service, we only keep the script and its status.
type Lesson struct {
	BaseModel
	AccountID uuid.UUID  `gorm:"type:uuid;index"`
	JourneyID *uuid.UUID `gorm:"type:uuid;index"`

	Title   string
	Topic   string
	Content string `gorm:"type:text"`

	AudioScript string      `gorm:"type:text"`
	AudioStatus AudioStatus `gorm:"default:none"`

	Embedding pgvector.Vector `gorm:"type:vector(1536)"`
}
