// Package engine implements the conversational interview session engine:
// it owns the turn-taking protocol, rebuilds the full prompt context on
// every turn, and keeps each session's transcript invariants intact.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/voxlab/interviewd/internal/domain"
	"github.com/voxlab/interviewd/internal/llm"
	"github.com/voxlab/interviewd/internal/policy"
	"github.com/voxlab/interviewd/internal/prompt"
	"github.com/voxlab/interviewd/internal/store"
)

// ErrInterviewConcluded is returned when answering an interview the
// engine has already terminated.
var ErrInterviewConcluded = errors.New("interview has concluded")

// AdmissionError reports a start-interview request rejected by the
// admission policy.
type AdmissionError struct {
	Reason string
}

func (e *AdmissionError) Error() string {
	return fmt.Sprintf("interview not admitted: %s", e.Reason)
}

// Archiver receives finished transcripts. Save failures are logged, not
// surfaced: archiving is best-effort.
type Archiver interface {
	Save(ctx context.Context, sess *domain.Session) error
}

// ContextBuilder decides which part of a transcript is resent to the
// provider each turn. The default resends everything; a windowing or
// summarizing strategy can be swapped in here.
type ContextBuilder interface {
	Build(transcript []domain.Message) []domain.Message
}

// FullHistory resends the entire transcript every turn, the reference
// behavior. Context grows unboundedly with turn count.
type FullHistory struct{}

// Build returns the transcript unchanged.
func (FullHistory) Build(transcript []domain.Message) []domain.Message {
	return transcript
}

// Config tunes engine behavior beyond the prompt template.
type Config struct {
	// MinResumeChars is the admission floor for extracted résumé text.
	MinResumeChars int
}

// Engine drives interviews: StartInterview opens a session with the
// system prompt and greeting, Advance exchanges one answer for the next
// question. All transcript mutation for a given session happens inside
// one critical section keyed by session id; different sessions proceed
// in parallel.
type Engine struct {
	sessions store.SessionStore
	provider llm.Provider
	prompts  *prompt.Builder
	admit    *policy.Engine
	archive  Archiver
	cfg      Config
	log      *zap.Logger
	context  ContextBuilder

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates an Engine. The admission policy and archiver are optional.
func New(sessions store.SessionStore, provider llm.Provider, prompts *prompt.Builder,
	admit *policy.Engine, archive Archiver, cfg Config, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		sessions: sessions,
		provider: provider,
		prompts:  prompts,
		admit:    admit,
		archive:  archive,
		cfg:      cfg,
		log:      log,
		context:  FullHistory{},
		locks:    make(map[string]*sync.Mutex),
	}
}

// SetContextBuilder swaps the strategy that selects which part of the
// transcript is resent each turn.
func (e *Engine) SetContextBuilder(cb ContextBuilder) {
	if cb != nil {
		e.context = cb
	}
}

// sessionLock returns the mutex serializing one session's turns.
func (e *Engine) sessionLock(sessionID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[sessionID] = l
	}
	return l
}

// Forget releases the lock entry of a session that no longer exists.
// Called from the store's eviction path.
func (e *Engine) Forget(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.locks, sessionID)
}

// StartInterview builds the system prompt, requests the opening greeting
// and stores the new session. Creation is all-or-nothing: a provider
// failure leaves no session behind.
func (e *Engine) StartInterview(ctx context.Context, jobRole, candidateName, resumeText string) (string, string, error) {
	if e.admit != nil {
		res, err := e.admit.Evaluate(ctx, policy.Input{
			JobRole:        jobRole,
			CandidateName:  candidateName,
			ResumeChars:    len(resumeText),
			MinResumeChars: e.cfg.MinResumeChars,
		})
		if err != nil {
			return "", "", fmt.Errorf("admission policy: %w", err)
		}
		if !res.Allowed() {
			return "", "", &AdmissionError{Reason: res.Reason}
		}
	}

	system := domain.SystemMessage(e.prompts.System(jobRole, candidateName, resumeText))

	greeting, err := e.provider.Complete(ctx, []domain.Message{system})
	if err != nil {
		return "", "", fmt.Errorf("opening completion: %w", err)
	}

	now := time.Now().UTC()
	sess := &domain.Session{
		SessionID:     uuid.NewString(),
		CandidateName: candidateName,
		JobRole:       jobRole,
		Transcript:    []domain.Message{system, domain.AssistantMessage(greeting)},
		CreatedAt:     now,
		LastActiveAt:  now,
	}
	if err := e.sessions.Create(ctx, sess); err != nil {
		return "", "", fmt.Errorf("store session: %w", err)
	}

	e.log.Info("interview started",
		zap.String("session_id", sess.SessionID),
		zap.String("job_role", jobRole),
		zap.String("candidate", candidateName),
		zap.String("provider", e.provider.Name()))

	return sess.SessionID, greeting, nil
}

// Advance appends the candidate's answer, requests the next interviewer
// turn over the full context, commits both messages, and returns the
// reply. The user message is rolled back when the provider fails:
// nothing is committed unless the whole turn succeeds.
func (e *Engine) Advance(ctx context.Context, sessionID, answer string) (string, error) {
	lock := e.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := e.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if sess.Concluded {
		return "", ErrInterviewConcluded
	}

	// Work on the copy; the store is only touched again on success.
	sess.Transcript = append(sess.Transcript, domain.UserMessage(answer))
	sess.Turns++
	closing := sess.Turns >= e.prompts.Options().QuestionMax

	wire := e.context.Build(sess.Transcript)
	if closing {
		// The closing nudge goes only over the wire, never into the
		// stored transcript, so the single-system-message invariant
		// holds for the session itself.
		wire = append(append([]domain.Message{}, wire...), domain.SystemMessage(e.prompts.Closing()))
	}

	reply, err := e.provider.Complete(ctx, wire)
	if err != nil {
		return "", fmt.Errorf("completion: %w", err)
	}

	sess.Transcript = append(sess.Transcript, domain.AssistantMessage(reply))
	sess.Concluded = closing
	sess.LastActiveAt = time.Now().UTC()
	if err := e.sessions.Update(ctx, sess); err != nil {
		return "", fmt.Errorf("store turn: %w", err)
	}

	if sess.Concluded {
		e.log.Info("interview concluded",
			zap.String("session_id", sessionID),
			zap.Int("turns", sess.Turns))
		e.archiveSession(sess)
	}

	return reply, nil
}

// Transcript returns a copy of a live session's transcript and whether
// the interview has concluded.
func (e *Engine) Transcript(ctx context.Context, sessionID string) ([]domain.Message, bool, error) {
	sess, err := e.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	return sess.Transcript, sess.Concluded, nil
}

// HandleEvicted archives a session removed from the store and drops its
// lock. Wired as the memory store's OnEvict callback.
func (e *Engine) HandleEvicted(sess *domain.Session) {
	e.archiveSession(sess)
	e.Forget(sess.SessionID)
}

func (e *Engine) archiveSession(sess *domain.Session) {
	if e.archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.archive.Save(ctx, sess); err != nil {
		e.log.Warn("failed to archive interview",
			zap.String("session_id", sess.SessionID),
			zap.Error(err))
	}
}
