// cmd/fx/ai_fx/init.go
package ai_fx

import (
	"log"
	"os"
	"strings"

	"go.uber.org/fx"

	"mealforge/pkg/utils"
)

var Module = fx.Provide(ProvideMealGenerator)

type generatorConfig struct {
	Provider string
	APIKey   string
	Model    string
}

// ProvideMealGenerator creates the AI client that turns generation requests
// into structured meal-plan JSON. Provider is selected via environment.
func ProvideMealGenerator() (utils.MealGeneratorInterface, error) {
	config := getGeneratorConfig()

	log.Printf("Initializing %s meal generator with model: %s", config.Provider, config.Model)

	return utils.NewMealGenerator(config.Provider, config.APIKey, config.Model)
}

func getGeneratorConfig() generatorConfig {
	provider := getEnvWithDefault("GENERATOR_PROVIDER", "gemini")

	var apiKey, model string
	switch strings.ToLower(provider) {
	case "openai":
		apiKey = os.Getenv("OPENAI_API_KEY")
		model = getEnvWithDefault("OPENAI_MODEL", "gpt-4o-mini")
		if apiKey == "" {
			log.Fatal("OPENAI_API_KEY is required when using OpenAI provider")
		}
	case "gemini":
		apiKey = os.Getenv("GEMINI_API_KEY")
		model = getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash")
		if apiKey == "" {
			log.Fatal("GEMINI_API_KEY is required when using Gemini provider")
		}
	}

	return generatorConfig{Provider: provider, APIKey: apiKey, Model: model}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
