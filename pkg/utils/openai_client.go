package utils

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pgvector/pgvector-go"
	openai "github.com/sashabaranov/go-openai"
)

type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *OpenAIClient) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.SmallEmbedding3,
	})
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("openai embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return pgvector.Vector{}, fmt.Errorf("openai embedding: empty response")
	}
	return pgvector.NewVector(resp.Data[0].Embedding), nil
}

func (c *OpenAIClient) RerankCandidates(ctx context.Context, query string, candidates []CandidateSummary) ([]string, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no candidates to rerank")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildRerankPrompt(query, candidates),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai rerank: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai rerank: empty response")
	}

	var ids []string
	if err := json.Unmarshal([]byte(cleanJSONResponse(resp.Choices[0].Message.Content)), &ids); err != nil {
		return nil, fmt.Errorf("openai rerank: invalid JSON: %w", err)
	}
	return ids, nil
}
