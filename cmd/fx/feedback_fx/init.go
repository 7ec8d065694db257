package feedback_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"mealforge/internal/api/controllers"
	"mealforge/internal/repositories"
	"mealforge/internal/services"
)

var Module = fx.Provide(
	provideFeedbackRepo,
	provideFeedbackService,
	provideFeedbackController,
)

func provideFeedbackRepo(db *gorm.DB) repositories.FeedbackRepositoryInterface {
	return repositories.NewFeedbackRepository(db)
}

func provideFeedbackService(
	feedbackRepo repositories.FeedbackRepositoryInterface,
	mealPlanRepo repositories.MealPlanRepository,
) services.FeedbackServiceInterface {
	return services.NewFeedbackService(feedbackRepo, mealPlanRepo)
}

func provideFeedbackController(feedbackService services.FeedbackServiceInterface) *controllers.FeedbackController {
	return controllers.NewFeedbackController(feedbackService)
}
