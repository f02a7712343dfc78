package llm

import (
	"context"
	"fmt"

	"github.com/voxlab/interviewd/internal/domain"
)

// MockProvider is a deterministic stand-in interviewer used in tests and
// when the service runs with INTERVIEWD_MODE=MOCK.
type MockProvider struct{}

// NewMockProvider creates a new mock provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Name returns the provider name.
func (m *MockProvider) Name() string { return "mock" }

// Complete generates a canned interviewer reply derived from the
// transcript shape: a greeting on the opening call, then one numbered
// question per user answer.
func (m *MockProvider) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	answers := 0
	var lastAnswer string
	for _, msg := range messages {
		if msg.Role == domain.RoleUser {
			answers++
			lastAnswer = msg.Content
		}
	}

	if answers == 0 {
		return "Hello! Thanks for joining today. To get us started, could you walk me through your background?", nil
	}
	return fmt.Sprintf(
		"Question %d: you mentioned %q. Can you tell me more about that?",
		answers+1, truncate(lastAnswer, 60),
	), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

var _ Provider = (*MockProvider)(nil)
