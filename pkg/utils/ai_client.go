package utils

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
)

// MealGeneratorInterface is the boundary to the generative model. It is
// deliberately small: one fallible call that returns the plan as raw JSON, and
// an embedding call used for favorite-meal similarity. Everything upstream of
// it (token gate) and downstream (persistence) lives in the services layer.
type MealGeneratorInterface interface {
	GenerateMealPlanJSON(ctx context.Context, goal, diet string, days int, exclusions []string) (string, error)
	GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
	Close() error
}

// NewMealGenerator picks the concrete client from config.
func NewMealGenerator(provider, apiKey, model string) (MealGeneratorInterface, error) {
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIMealClient(apiKey, model), nil
	case "gemini":
		return NewGeminiMealClient(apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported generator provider: %s", provider)
	}
}
