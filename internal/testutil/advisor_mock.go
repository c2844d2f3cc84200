package testutil

import (
	"context"
)

// MockAdvisorClient is a mock implementation of advisor.Client for testing.
// It returns predefined replies instead of making actual API calls.
type MockAdvisorClient struct {
	// MockReply is the reply text to return from Complete
	MockReply string
	// MockError is the error to return from Complete
	MockError error
	// CallCount tracks how many times Complete was called
	CallCount int
	// LastSystemPrompt records the system prompt of the most recent call
	LastSystemPrompt string
	// LastUserPrompt records the user prompt of the most recent call
	LastUserPrompt string
}

// NewMockAdvisorClient creates a new mock advisory client with a well-formed
// default reply suitable for signal generation tests.
func NewMockAdvisorClient() *MockAdvisorClient {
	return &MockAdvisorClient{
		MockReply: "BUY|0.8|120.00|95.00|Momentum and volume both support an entry here.",
	}
}

// Complete returns the configured MockReply and MockError.
func (m *MockAdvisorClient) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	m.CallCount++
	m.LastSystemPrompt = systemPrompt
	m.LastUserPrompt = userPrompt
	if m.MockError != nil {
		return "", m.MockError
	}
	return m.MockReply, nil
}

// WithReply configures the mock to return the specified reply.
func (m *MockAdvisorClient) WithReply(reply string) *MockAdvisorClient {
	m.MockReply = reply
	return m
}

// WithError configures the mock to return the specified error.
func (m *MockAdvisorClient) WithError(err error) *MockAdvisorClient {
	m.MockError = err
	return m
}
