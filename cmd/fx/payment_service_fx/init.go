package payment_service_fx

import (
	"log"
	"os"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"mealforge/internal/api/controllers"
	"mealforge/internal/repositories"
	"mealforge/internal/services"
)

var Module = fx.Provide(
	providePlanRepo,
	providePlanService,
	providePaymentService,
	providePaymentController,
)

func providePlanRepo(db *gorm.DB) repositories.IPlanRepository {
	return repositories.NewPlanRepository(db)
}

func providePlanService(planRepo repositories.IPlanRepository) services.PlanServiceInterface {
	return services.NewPlanService(planRepo)
}

func providePaymentService(
	db *gorm.DB,
	planRepo repositories.IPlanRepository,
	accountRepo repositories.AccountRepository,
	entitlement services.EntitlementServiceInterface,
) services.PaymentService {
	cfg := services.PayOSConfig{
		ClientID:     os.Getenv("PAYOS_CLIENT_ID"),
		ApiKey:       os.Getenv("PAYOS_API_KEY"),
		ChecksumKey:  os.Getenv("PAYOS_CHECKSUM_KEY"),
		ReturnURL:    os.Getenv("PAYOS_RETURN_URL"),
		CancelURL:    os.Getenv("PAYOS_CANCEL_URL"),
		ProviderName: "payos",
	}

	instance, err := services.NewPaymentService(db, cfg, planRepo, accountRepo, entitlement)
	if err != nil {
		log.Fatalf("Error initializing PaymentService: %v", err)
	}
	return instance
}

func providePaymentController(paymentService services.PaymentService, planService services.PlanServiceInterface) *controllers.PaymentController {
	return controllers.NewPaymentController(paymentService, planService)
}
