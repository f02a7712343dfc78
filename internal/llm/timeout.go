package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/voxlab/interviewd/internal/domain"
)

// timeoutProvider enforces a per-call deadline so one hung completion
// cannot stall a session indefinitely.
type timeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps a provider with a bounded per-call deadline.
// Deadline overruns surface as ErrTimeout. A non-positive timeout
// returns the provider unchanged.
func WithTimeout(p Provider, timeout time.Duration) Provider {
	if timeout <= 0 {
		return p
	}
	return &timeoutProvider{inner: p, timeout: timeout}
}

func (t *timeoutProvider) Name() string { return t.inner.Name() }

func (t *timeoutProvider) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	reply, err := t.inner.Complete(ctx, messages)
	if err != nil && (errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)) {
		return "", fmt.Errorf("%w after %s: %s", ErrTimeout, t.timeout, err)
	}
	return reply, err
}
