package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxlab/interviewd/internal/domain"
)

// blockingProvider waits for the context to be canceled.
type blockingProvider struct{}

func (blockingProvider) Name() string { return "blocking" }

func (blockingProvider) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestWithTimeoutMapsDeadlineToErrTimeout(t *testing.T) {
	p := WithTimeout(blockingProvider{}, 10*time.Millisecond)

	_, err := p.Complete(context.Background(), []domain.Message{domain.SystemMessage("prompt")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestWithTimeoutPassesThroughSuccess(t *testing.T) {
	p := WithTimeout(NewMockProvider(), time.Second)

	reply, err := p.Complete(context.Background(), []domain.Message{domain.SystemMessage("prompt")})
	require.NoError(t, err)
	assert.NotEmpty(t, reply)
}

func TestWithTimeoutPassesThroughOtherErrors(t *testing.T) {
	failing := &failingProvider{err: errors.New("boom")}
	p := WithTimeout(failing, time.Second)

	_, err := p.Complete(context.Background(), nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestWithTimeoutZeroIsNoop(t *testing.T) {
	inner := NewMockProvider()
	assert.Equal(t, Provider(inner), WithTimeout(inner, 0))
}

type failingProvider struct{ err error }

func (p *failingProvider) Name() string { return "failing" }

func (p *failingProvider) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	return "", p.err
}
