package mail_fx

import (
	"log"
	"os"
	"strconv"

	"go.uber.org/fx"

	"mealforge/internal/services"
)

var Module = fx.Provide(provideMailService)

func provideMailService() services.IMailService {
	port := 587
	if raw := os.Getenv("SMTP_PORT"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			port = parsed
		}
	}

	cfg := services.SMTPConfig{
		Host:       envOr("SMTP_HOST", "smtp.gmail.com"),
		Port:       port, // 587 for STARTTLS; 465 with UseSSL
		Username:   os.Getenv("SMTP_USERNAME"),
		Password:   os.Getenv("SMTP_PASSWORD"),
		From:       envOr("SMTP_FROM", "no-reply@mealforge.app"),
		FromName:   "Mealforge",
		UseSSL:     port == 465,
		RequireTLS: true,

		AppName:    "Mealforge",
		AppBaseURL: envOr("APP_BASE_URL", "https://mealforge.app"),
	}

	mailService, err := services.NewSMTPMailService(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize SMTP mail service: %v", err)
	}
	return mailService
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
