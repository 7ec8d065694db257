package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type MealSlot string

const (
	SlotBreakfast MealSlot = "breakfast"
	SlotLunch     MealSlot = "lunch"
	SlotDinner    MealSlot = "dinner"
	SlotSnack     MealSlot = "snack"
)

type MealPlan struct {
	BaseModel
	AccountID    uuid.UUID `gorm:"index"`
	Title        string
	Goal         string
	Diet         string
	DurationDays int

	Days []MealPlanDay `gorm:"foreignKey:MealPlanID"`

	Account Account `gorm:"foreignKey:AccountID"`
}

type MealPlanDay struct {
	BaseModel
	MealPlanID uuid.UUID `gorm:"index"`
	DayNumber  int       `gorm:"not null"`

	// unix seconds at local midnight once the user pins the day to a
	// calendar date; nil while unscheduled
	ScheduledFor *int64 `gorm:"index"`

	Meals []Meal `gorm:"foreignKey:MealPlanDayID"`
}

type Meal struct {
	BaseModel
	MealPlanDayID uuid.UUID `gorm:"index"`
	Name          string
	Slot          MealSlot `gorm:"type:varchar(12)"`

	// Base nutrition at portion multiplier 1; responses report these scaled.
	Calories int
	ProteinG int
	CarbsG   int
	FatG     int

	Ingredients datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	Recipe      string         `gorm:"type:text"`

	PortionMultiplier float64 `gorm:"default:1"`
	IsFavorite        bool    `gorm:"index"`
}
