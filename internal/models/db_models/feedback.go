package db_models

import (
	"github.com/google/uuid"
)

type Feedback struct {
	BaseModel
	AccountID  uuid.UUID `gorm:"type:uuid;not null;index"`
	MealPlanID uuid.UUID `gorm:"type:uuid;not null;index"`
	Comment    string    `gorm:"type:text"`
	Rating     int       `gorm:"type:int;not null;check:rating >= 1 AND rating <= 5"`
}
