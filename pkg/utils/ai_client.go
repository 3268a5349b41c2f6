package utils

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
)

// CandidateSummary is the only view of a candidate the rerank provider
// ever sees. Providers reorder ids; they never author them.
type CandidateSummary struct {
	ID          string
	Name        string
	Type        string
	Description string
	Tags        []string
}

type AIClientInterface interface {
	// GetEmbedding turns a retrieval query into a vector for pgvector search.
	GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error)

	// RerankCandidates returns the candidate ids reordered by fit for the
	// query. Ids not present in the input are discarded by the caller.
	RerankCandidates(ctx context.Context, query string, candidates []CandidateSummary) ([]string, error)
}

// NewAIClient picks a provider the same way the rest of the config
// surface works: by name, with the key and model supplied alongside.
func NewAIClient(provider, apiKey, model string) (AIClientInterface, error) {
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIClient(apiKey, model), nil
	case "gemini":
		return NewGeminiClient(apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s. Use 'openai' or 'gemini'", provider)
	}
}

func buildRerankPrompt(query string, candidates []CandidateSummary) string {
	var b strings.Builder
	b.WriteString("You are ranking travel places for a visitor. Return a JSON array of ids only, best match first.\n")
	b.WriteString("Use only ids from the list. No prose, no markdown.\n\nPlaces:\n")
	for _, c := range candidates {
		fmt.Fprintf(&b, "- ID:%s | Name:%s | Type:%s | Tags:%s | %s\n",
			c.ID, c.Name, c.Type, strings.Join(c.Tags, ","), c.Description)
	}
	fmt.Fprintf(&b, "\nVisitor request: %s\n", query)
	b.WriteString("\nReturn JSON: [\"id1\",\"id2\",...]")
	return b.String()
}

func cleanJSONResponse(raw string) string {
	raw = strings.ReplaceAll(raw, "```json", "")
	raw = strings.ReplaceAll(raw, "```", "")
	return strings.TrimSpace(raw)
}
