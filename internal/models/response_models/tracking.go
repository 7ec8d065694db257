package response_models

type CalorieEntryResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Calories int    `json:"calories"`
	EatenAt  string `json:"eaten_at"` // RFC3339
}

type DailySummaryResponse struct {
	Date          string                 `json:"date"` // YYYY-MM-DD
	TotalCalories int                    `json:"total_calories"`
	Target        int                    `json:"target"`
	Remaining     int                    `json:"remaining"` // floors at 0
	Entries       []CalorieEntryResponse `json:"entries"`
}
