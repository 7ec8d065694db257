package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"mealforge/cmd/fx/account_fx"
	"mealforge/cmd/fx/ai_fx"
	"mealforge/cmd/fx/db_fx"
	"mealforge/cmd/fx/entitlement_fx"
	"mealforge/cmd/fx/feedback_fx"
	"mealforge/cmd/fx/mail_fx"
	"mealforge/cmd/fx/mealplan_fx"
	"mealforge/cmd/fx/memcache_fx"
	"mealforge/cmd/fx/payment_service_fx"
	"mealforge/cmd/fx/tagsfx"
	"mealforge/cmd/fx/tracking_fx"
	"mealforge/internal/api/controllers"
	"mealforge/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment directly")
	}

	app := fx.New(
		db_fx.Module,
		memcache_fx.Module,
		mail_fx.Module,
		ai_fx.Module,

		account_fx.Module,
		entitlement_fx.Module,
		mealplan_fx.Module,
		payment_service_fx.Module,
		tracking_fx.Module,
		tagsfx.Module,
		feedback_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server on :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	accountController *controllers.AccountController,
	entitlementController *controllers.EntitlementController,
	mealPlanController *controllers.MealPlanController,
	paymentController *controllers.PaymentController,
	trackingController *controllers.TrackingController,
	tagsController *controllers.TagController,
	feedbackController *controllers.FeedbackController,
) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r,
		accountController,
		entitlementController,
		mealPlanController,
		paymentController,
		trackingController,
		tagsController,
		feedbackController,
	)

	return r
}

func RegisterRoutes(r *gin.Engine,
	accountController *controllers.AccountController,
	entitlementController *controllers.EntitlementController,
	mealPlanController *controllers.MealPlanController,
	paymentController *controllers.PaymentController,
	trackingController *controllers.TrackingController,
	tagsController *controllers.TagController,
	feedbackController *controllers.FeedbackController,
) {
	// Public routes
	accounts := r.Group("/accounts")
	accounts.POST("/register", accountController.Register)
	accounts.POST("/login", accountController.Login)
	accounts.POST("/forgot-password", accountController.ForgotPassword)
	accounts.POST("/reset-password", accountController.ResetPassword)

	r.GET("/plans", paymentController.ListPlans)
	r.GET("/tags", tagsController.ListAllTagsHandler)

	// Provider-to-server, authenticated by HMAC signature instead of JWT.
	r.POST("/payments/webhook", paymentController.Webhook)

	// Authenticated routes
	auth := r.Group("/")
	auth.Use(middleware.JWTAuthMiddleware())

	auth.GET("/entitlements/status", entitlementController.GetStatus)

	auth.POST("/meal-plans", mealPlanController.Generate)
	auth.GET("/meal-plans", mealPlanController.List)
	auth.GET("/meal-plans/:id", mealPlanController.Detail)
	auth.DELETE("/meal-plans/:id", mealPlanController.Delete)
	auth.POST("/meal-plans/:id/schedule", mealPlanController.ScheduleDay)
	auth.POST("/meal-plans/:id/feedback", feedbackController.AddFeedback)
	auth.GET("/meal-plans/:id/feedback", feedbackController.ListFeedback)

	auth.GET("/meals/favorites", mealPlanController.ListFavorites)
	auth.PUT("/meals/:id/portion", mealPlanController.UpdatePortion)
	auth.PUT("/meals/:id/favorite", mealPlanController.SetFavorite)
	auth.GET("/meals/:id/similar", mealPlanController.SimilarFavorites)

	auth.POST("/tracking/entries", trackingController.AddEntry)
	auth.GET("/tracking/summary", trackingController.DailySummary)

	auth.POST("/payments/checkout", paymentController.CreateCheckout)
	auth.POST("/payments/confirm", paymentController.ConfirmCheckout)
	auth.POST("/payments/cancel", paymentController.CancelSubscription)
}
