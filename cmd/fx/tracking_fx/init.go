package tracking_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"mealforge/internal/api/controllers"
	"mealforge/internal/repositories"
	"mealforge/internal/services"
)

var Module = fx.Provide(
	provideTrackingRepo,
	provideTrackingService,
	provideTrackingController,
)

func provideTrackingRepo(db *gorm.DB) repositories.TrackingRepository {
	return repositories.NewTrackingRepository(db)
}

func provideTrackingService(
	trackingRepo repositories.TrackingRepository,
	mealPlanRepo repositories.MealPlanRepository,
	accountRepo repositories.AccountRepository,
) services.TrackingServiceInterface {
	return services.NewTrackingService(trackingRepo, mealPlanRepo, accountRepo)
}

func provideTrackingController(trackingService services.TrackingServiceInterface) *controllers.TrackingController {
	return controllers.NewTrackingController(trackingService)
}
