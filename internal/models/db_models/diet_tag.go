package db_models

// DietTag is a selectable dietary preference offered to the client form
// ("vegetarian", "keto", ...). The Code is what ends up in MealPlan.Diet.
type DietTag struct {
	BaseModel
	Code  string `gorm:"unique"`
	Label string
	Icon  string
}
