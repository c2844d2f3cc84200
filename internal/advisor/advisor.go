// Package advisor provides the client for the external AI advisory service.
// The advisory capability is an optional enhancement: callers must treat any
// failure as a signal to fall back to rule-based logic, never as a hard error.
package advisor

import "context"

// Client is the advisory capability consumed by the signal service.
// Implementations send a textual analysis request and return free text.
// No retries are performed; a single failure triggers caller-side fallback.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
