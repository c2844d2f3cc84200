package advisor

import (
	"context"
	"fmt"
	"time"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"golang.org/x/time/rate"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o-mini"

	// DefaultTimeout bounds a single advisory call so a slow external
	// service cannot stall the issuing request.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the outbound requests-per-second cap.
	DefaultRateLimit = 2

	maxCompletionTokens = 300
)

// OpenAIClient implements Client against the OpenAI chat completions API.
type OpenAIClient struct {
	cli     oa.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*OpenAIClient)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *OpenAIClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTimeout sets the per-call timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *OpenAIClient) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithRateLimit sets the outbound requests-per-second cap
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *OpenAIClient) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// NewOpenAIClient creates an advisory client backed by OpenAI.
func NewOpenAIClient(apiKey string, opts ...ClientOption) *OpenAIClient {
	c := &OpenAIClient{
		cli:     oa.NewClient(option.WithAPIKey(apiKey)),
		model:   DefaultModel,
		timeout: DefaultTimeout,
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Complete sends one analysis request and returns the reply text.
// The call is bounded by the configured timeout and outbound rate limit.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("advisory rate limiter: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.cli.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
		Model: c.model,
		Messages: []oa.ChatCompletionMessageParamUnion{
			oa.SystemMessage(systemPrompt),
			oa.UserMessage(userPrompt),
		},
		MaxTokens:   oa.Int(maxCompletionTokens),
		Temperature: oa.Float(0.3),
	})
	if err != nil {
		return "", fmt.Errorf("advisory API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from advisory service")
	}

	return resp.Choices[0].Message.Content, nil
}

var _ Client = (*OpenAIClient)(nil)
