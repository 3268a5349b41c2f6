package utils

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/pgvector/pgvector-go"
	"google.golang.org/api/option"
)

type GeminiClient struct {
	client         *genai.Client
	model          string
	embeddingModel string
}

func NewGeminiClient(apiKey, model string) (*GeminiClient, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client:         client,
		model:          model,
		embeddingModel: "text-embedding-004",
	}, nil
}

func (c *GeminiClient) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	em := c.client.EmbeddingModel(c.embeddingModel)
	resp, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("gemini embedding: %w", err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return pgvector.Vector{}, fmt.Errorf("gemini embedding: empty response")
	}
	return pgvector.NewVector(resp.Embedding.Values), nil
}

func (c *GeminiClient) RerankCandidates(ctx context.Context, query string, candidates []CandidateSummary) ([]string, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no candidates to rerank")
	}

	m := c.client.GenerativeModel(c.model)
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0.1)
	m.SetTopP(0.5)
	m.SetTopK(10)

	resp, err := m.GenerateContent(ctx, genai.Text(buildRerankPrompt(query, candidates)))
	if err != nil {
		return nil, fmt.Errorf("gemini rerank: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini rerank: no content")
	}

	content := cleanJSONResponse(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
	var ids []string
	if err := json.Unmarshal([]byte(content), &ids); err != nil {
		return nil, fmt.Errorf("gemini rerank: invalid JSON: %w", err)
	}
	return ids, nil
}
