package request_models

type GenerateMealPlanRequest struct {
	Goal string `json:"goal" binding:"required,min=3,max=200"`
	Diet string `json:"diet" binding:"max=50"`
	Days int    `json:"days" binding:"required,min=1,max=14"`
}

type UpdatePortionRequest struct {
	Multiplier float64 `json:"multiplier" binding:"required,gt=0,lte=10"`
}

type SetFavoriteRequest struct {
	Favorite bool `json:"favorite"`
}

type ScheduleDayRequest struct {
	DayNumber int    `json:"day_number" binding:"required,min=1"`
	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
}

type FeedbackRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}
