package adapter

import "context"

// InsightGenerator produces a short natural-language summary for instructors
// from structured attendance facts. Implementations wrap an LLM provider; the
// noop implementation returns a canned line for installs without an API key.
type InsightGenerator interface {
	// Summarize receives a plain-text fact sheet and returns prose.
	Summarize(ctx context.Context, facts string) (string, error)
}
