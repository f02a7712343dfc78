package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxlab/interviewd/internal/domain"
)

func TestMockProviderGreetsOnOpeningCall(t *testing.T) {
	m := NewMockProvider()

	reply, err := m.Complete(context.Background(), []domain.Message{
		domain.SystemMessage("You are an interviewer."),
	})
	require.NoError(t, err)
	assert.Contains(t, reply, "Hello")
}

func TestMockProviderAsksNumberedQuestions(t *testing.T) {
	m := NewMockProvider()

	reply, err := m.Complete(context.Background(), []domain.Message{
		domain.SystemMessage("You are an interviewer."),
		domain.AssistantMessage("Hello! Tell me about yourself."),
		domain.UserMessage("I built a sharded cache"),
	})
	require.NoError(t, err)
	assert.Contains(t, reply, "Question 2")
	assert.Contains(t, reply, "sharded cache")
}

func TestMockProviderHonorsCanceledContext(t *testing.T) {
	m := NewMockProvider()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Complete(ctx, []domain.Message{domain.SystemMessage("prompt")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFactorySelectsMock(t *testing.T) {
	t.Setenv(EnvMode, ModeMock)

	p, err := NewProvider(context.Background(), Config{Name: "openai"})
	require.NoError(t, err)
	assert.Equal(t, "mock", p.Name())
}

func TestFactoryRejectsUnknownProvider(t *testing.T) {
	t.Setenv(EnvMode, "")

	_, err := NewProvider(context.Background(), Config{Name: "carrier-pigeon"})
	assert.Error(t, err)
}

func TestFactoryRequiresAPIKey(t *testing.T) {
	t.Setenv(EnvMode, "")

	_, err := NewProvider(context.Background(), Config{Name: "openai"})
	assert.Error(t, err)
}
