package utils

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIMealClient implements MealGeneratorInterface against the OpenAI chat
// and embedding APIs.
type OpenAIMealClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIMealClient(apiKey, model string) MealGeneratorInterface {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIMealClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *OpenAIMealClient) GenerateMealPlanJSON(ctx context.Context, goal, diet string, days int, exclusions []string) (string, error) {
	if days < 1 || days > 14 {
		return "", fmt.Errorf("day count must be between 1 and 14")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a nutritionist. Answer with a single JSON object and nothing else.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildMealPrompt(goal, diet, days, exclusions),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	content := cleanJSONResponse(resp.Choices[0].Message.Content)
	if err := quickValidateMealPlanJSON(content, days); err != nil {
		return "", fmt.Errorf("invalid plan structure: %w", err)
	}
	return content, nil
}

func (c *OpenAIMealClient) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.SmallEmbedding3,
	})
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return pgvector.Vector{}, fmt.Errorf("empty embedding response")
	}
	return pgvector.NewVector(resp.Data[0].Embedding), nil
}

func (c *OpenAIMealClient) Close() error { return nil }
