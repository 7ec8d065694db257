package db_models

import (
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// MealEmbedding stores a vector per favorited meal, used for "similar
// favorites" lookups by cosine distance.
type MealEmbedding struct {
	BaseModel
	MealID    uuid.UUID `gorm:"uniqueIndex"`
	AccountID uuid.UUID `gorm:"index"`

	Embedding pgvector.Vector `gorm:"type:vector(1536)"`
}
