// File: internal/infra/adapters/ai/gemini_adapter.go
package ai

import (
	"context"
	"errors"

	"google.golang.org/genai"

	"academy-platform/internal/domain/ports/adapter"
)

var _ adapter.InsightGenerator = (*GeminiAdapter)(nil)

const summaryInstruction = "Voce e um assistente de uma academia de artes marciais. " +
	"Escreva um resumo curto (3 a 5 frases, em portugues) sobre o aluno a partir dos fatos abaixo, " +
	"destacando frequencia, pontualidade e conquistas. Nao invente dados."

type GeminiAdapter struct {
	client *genai.Client
	model  string
	maxOut int
}

// NewGeminiAdapter creates an insight generator on the official Gemini SDK.
func NewGeminiAdapter(ctx context.Context, apiKey, model string, maxOut int) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdapter{client: c, model: model, maxOut: maxOut}, nil
}

func (g *GeminiAdapter) Summarize(ctx context.Context, facts string) (string, error) {
	if facts == "" {
		return "", errors.New("gemini: empty fact sheet")
	}
	contents := []*genai.Content{
		{Role: genai.RoleUser, Parts: []*genai.Part{{Text: facts}}},
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		MaxOutputTokens:   int32(g.maxOut),
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: summaryInstruction}}},
	})
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini: empty response")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
