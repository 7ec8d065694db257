package db_models

import (
	"github.com/google/uuid"
)

// CalorieEntry is one logged food intake. MealID links back to a generated
// meal when the entry came from a plan; free-form entries leave it nil.
type CalorieEntry struct {
	BaseModel
	AccountID uuid.UUID  `gorm:"index"`
	MealID    *uuid.UUID `gorm:"index"`
	Name      string
	Calories  int   `gorm:"not null"`
	EatenAt   int64 `gorm:"index"` // unix seconds
}
