// Package llm abstracts the language-model backend that produces the
// interviewer's side of the conversation.
package llm

import (
	"context"
	"errors"

	"github.com/voxlab/interviewd/internal/domain"
)

var (
	// ErrTimeout is returned when a completion exceeds its deadline.
	ErrTimeout = errors.New("completion provider timed out")
	// ErrEmptyCompletion is returned when the backend answers with no
	// usable text.
	ErrEmptyCompletion = errors.New("completion provider returned empty response")
)

// Provider produces the next assistant message for an ordered transcript.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Complete sends the transcript and returns the assistant reply.
	Complete(ctx context.Context, messages []domain.Message) (string, error)

	// Name returns the provider name for logging.
	Name() string
}
