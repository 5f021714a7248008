// File: internal/infra/adapters/ai/noop_ai.go
package ai

import (
	"context"

	"academy-platform/internal/domain/ports/adapter"
)

var _ adapter.InsightGenerator = (*NoopInsightGenerator)(nil)

// NoopInsightGenerator returns a canned line for installs without an API key.
type NoopInsightGenerator struct{}

func NewNoopInsightGenerator() *NoopInsightGenerator { return &NoopInsightGenerator{} }

func (n *NoopInsightGenerator) Summarize(ctx context.Context, facts string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "Resumo indisponivel: geracao de insights nao configurada.", nil
}
