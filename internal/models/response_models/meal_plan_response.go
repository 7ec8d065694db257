package response_models

type MealResponse struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Slot              string   `json:"slot"`
	PortionMultiplier float64  `json:"portion_multiplier"`
	Calories          int      `json:"calories"` // scaled by the portion multiplier
	ProteinG          int      `json:"protein_g"`
	CarbsG            int      `json:"carbs_g"`
	FatG              int      `json:"fat_g"`
	Ingredients       []string `json:"ingredients"`
	Recipe            string   `json:"recipe,omitempty"`
	IsFavorite        bool     `json:"is_favorite"`
}

type MealPlanDayResponse struct {
	ID           string         `json:"id"`
	DayNumber    int            `json:"day_number"`
	ScheduledFor string         `json:"scheduled_for,omitempty"` // RFC3339
	Meals        []MealResponse `json:"meals"`
}

type MealPlanResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Goal         string `json:"goal"`
	Diet         string `json:"diet,omitempty"`
	DurationDays int    `json:"duration_days"`
	CreatedAt    string `json:"created_at"`
}

type MealPlanDetailResponse struct {
	MealPlanResponse
	Days []MealPlanDayResponse `json:"days"`
}

type SimilarMealResponse struct {
	Meal       MealResponse `json:"meal"`
	Similarity float64      `json:"similarity"`
}
