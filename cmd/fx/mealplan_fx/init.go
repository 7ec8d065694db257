package mealplan_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"mealforge/internal/api/controllers"
	"mealforge/internal/repositories"
	"mealforge/internal/services"
	"mealforge/pkg/utils"
)

var Module = fx.Provide(
	provideMealPlanRepo,
	provideMealEmbeddingRepo,
	provideMealPlanService,
	provideMealPlanController,
)

func provideMealPlanRepo(db *gorm.DB) repositories.MealPlanRepository {
	return repositories.NewMealPlanRepository(db)
}

func provideMealEmbeddingRepo(db *gorm.DB) repositories.MealEmbeddingRepository {
	return repositories.NewMealEmbeddingRepository(db)
}

func provideMealPlanService(
	entitlement services.EntitlementServiceInterface,
	generator utils.MealGeneratorInterface,
	accountRepo repositories.AccountRepository,
	mealPlanRepo repositories.MealPlanRepository,
	embeddingRepo repositories.MealEmbeddingRepository,
) services.MealPlanServiceInterface {
	return services.NewMealPlanService(entitlement, generator, accountRepo, mealPlanRepo, embeddingRepo)
}

func provideMealPlanController(mealPlanService services.MealPlanServiceInterface) *controllers.MealPlanController {
	return controllers.NewMealPlanController(mealPlanService)
}
