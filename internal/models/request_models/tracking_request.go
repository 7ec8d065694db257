package request_models

type AddCalorieEntryRequest struct {
	// MealID ties the entry to a generated meal; when set, name and calories
	// are taken from the meal at its current portion multiplier.
	MealID   *string `json:"meal_id" binding:"omitempty,uuid4"`
	Name     string  `json:"name" binding:"max=200"`
	Calories int     `json:"calories" binding:"min=0,max=10000"`
	EatenAt  string  `json:"eaten_at" binding:"omitempty"` // RFC3339, defaults to now
}
