package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/pgvector/pgvector-go"
	"google.golang.org/api/option"
)

// GeminiMealClient implements MealGeneratorInterface on top of Google's Gemini
// models.
type GeminiMealClient struct {
	client *genai.Client
	model  string
}

func NewGeminiMealClient(apiKey, model string) (MealGeneratorInterface, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiMealClient{
		client: client,
		model:  model,
	}, nil
}

const mealPlanSchema = `
{
  "title": "string",
  "days": [
    {
      "day": 1,
      "meals": [
        {
          "name": "string",
          "slot": "breakfast|lunch|dinner|snack",
          "calories": 450,
          "protein_g": 30,
          "carbs_g": 40,
          "fat_g": 15,
          "ingredients": ["string"],
          "recipe": "string"
        }
      ]
    }
  ]
}`

func (c *GeminiMealClient) GenerateMealPlanJSON(ctx context.Context, goal, diet string, days int, exclusions []string) (string, error) {
	if strings.TrimSpace(goal) == "" {
		return "", fmt.Errorf("goal cannot be empty")
	}
	if days < 1 || days > 14 {
		return "", fmt.Errorf("day count must be between 1 and 14")
	}

	m := c.client.GenerativeModel(c.model)
	// Force JSON-only output so no markdown stripping is needed in the happy path.
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0.2)
	m.SetTopP(0.5)
	m.SetTopK(20)
	m.SetMaxOutputTokens(8000)

	prompt := buildMealPrompt(goal, diet, days, exclusions)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 45*time.Second)
	defer cancel()

	resp, err := m.GenerateContent(ctxWithTimeout, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	content := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	content = cleanJSONResponse(content)

	if err := quickValidateMealPlanJSON(content, days); err != nil {
		return "", fmt.Errorf("invalid plan structure: %w", err)
	}

	return content, nil
}

func buildMealPrompt(goal, diet string, days int, exclusions []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a nutritionist building a %d-day meal plan. Return **JSON only** that exactly matches this schema:\n%s\n\n", days, mealPlanSchema)
	fmt.Fprintf(&b, "Fitness goal: %s\n", goal)
	if diet != "" {
		fmt.Fprintf(&b, "Dietary preference: %s\n", diet)
	}
	if len(exclusions) > 0 {
		fmt.Fprintf(&b, "Never include these ingredients: %s\n", strings.Join(exclusions, ", "))
	}

	fmt.Fprintf(&b, `
Hard constraints:
- Exactly %d entries in "days", day = 1..%d with no gaps.
- 3-4 meals per day covering breakfast, lunch, dinner (snack optional).
- calories, protein_g, carbs_g, fat_g are integers and consistent with each other.
- ingredients is a flat list of plain ingredient names.

Return JSON only. No comments, no markdown.
`, days, days)

	return b.String()
}

// quickValidateMealPlanJSON checks that the model respected the schema at the
// level the persistence layer depends on. Full semantic checks happen when the
// services layer unmarshals into its typed payload.
func quickValidateMealPlanJSON(content string, expectedDays int) error {
	var plan struct {
		Days []struct {
			Day   int `json:"day"`
			Meals []struct {
				Name     string `json:"name"`
				Slot     string `json:"slot"`
				Calories int    `json:"calories"`
			} `json:"meals"`
		} `json:"days"`
	}

	if err := json.Unmarshal([]byte(content), &plan); err != nil {
		return fmt.Errorf("failed to unmarshal plan: %w", err)
	}
	if len(plan.Days) != expectedDays {
		return fmt.Errorf("expected %d days, got %d", expectedDays, len(plan.Days))
	}
	for i, day := range plan.Days {
		if day.Day != i+1 {
			return fmt.Errorf("day %d has incorrect day number: %d", i+1, day.Day)
		}
		if len(day.Meals) == 0 {
			return fmt.Errorf("day %d has no meals", day.Day)
		}
		for j, meal := range day.Meals {
			if strings.TrimSpace(meal.Name) == "" {
				return fmt.Errorf("day %d meal %d has no name", day.Day, j+1)
			}
		}
	}
	return nil
}

// cleanJSONResponse strips markdown fences and prose the model sometimes wraps
// around the payload even with a JSON response MIME type.
func cleanJSONResponse(response string) string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```JSON", "")
	response = strings.ReplaceAll(response, "```", "")
	response = strings.TrimSpace(response)

	start := strings.Index(response, "{")
	if start == -1 {
		return response
	}
	end := findMatchingBrace(response, start)
	if end == -1 {
		return response
	}
	return strings.TrimSpace(response[start : end+1])
}

// findMatchingBrace finds the closing brace paired with the opening brace at
// start, skipping braces inside JSON strings.
func findMatchingBrace(s string, start int) int {
	if start >= len(s) || s[start] != '{' {
		return -1
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}
		if char == '\\' && inString {
			escaped = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch char {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// GetEmbedding produces a vector for favorite-meal similarity. The free Gemini
// tier has no dedicated embedding endpoint, so this uses a deterministic
// hash-based projection; the OpenAI client returns real embeddings.
func (c *GeminiMealClient) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	return textToVector(text), nil
}

func textToVector(text string) pgvector.Vector {
	text = strings.ToLower(strings.TrimSpace(text))
	words := strings.Fields(text)

	const dimensions = 1536
	vector := make([]float32, dimensions)

	for _, word := range words {
		hash := hashWord(word)
		for i := 0; i < dimensions; i++ {
			influence := math.Sin(float64(hash+uint32(i))) * 0.1
			vector[i] += float32(influence)
		}
	}

	magnitude := float32(0)
	for _, val := range vector {
		magnitude += val * val
	}
	magnitude = float32(math.Sqrt(float64(magnitude)))

	if magnitude > 0 {
		for i := range vector {
			vector[i] /= magnitude
		}
	}

	return pgvector.NewVector(vector)
}

func hashWord(word string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(word))
	return h.Sum32()
}

func (c *GeminiMealClient) Close() error {
	return c.client.Close()
}
