package entitlement_fx

import (
	"go.uber.org/fx"

	"mealforge/internal/api/controllers"
	"mealforge/internal/repositories"
	"mealforge/internal/services"
)

var Module = fx.Provide(
	provideEntitlementService,
	provideEntitlementController,
)

func provideEntitlementService(accountRepo repositories.AccountRepository) services.EntitlementServiceInterface {
	return services.NewEntitlementService(accountRepo)
}

func provideEntitlementController(entitlementService services.EntitlementServiceInterface) *controllers.EntitlementController {
	return controllers.NewEntitlementController(entitlementService)
}
