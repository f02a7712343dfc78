// Package domain defines the interview data model shared across the service.
package domain

import (
	"slices"
	"time"
)

// Session is one candidate's ongoing interview. The transcript always
// starts with exactly one system message; after that, roles strictly
// alternate assistant/user, beginning with the interviewer's greeting.
type Session struct {
	SessionID     string    `json:"session_id"`
	CandidateName string    `json:"candidate_name"`
	JobRole       string    `json:"job_role"`
	Transcript    []Message `json:"transcript"`
	// Turns counts completed user-answer/assistant-reply pairs. The
	// opening greeting is not a turn.
	Turns        int       `json:"turns"`
	Concluded    bool      `json:"concluded"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// Clone returns a deep copy so callers can mutate freely without
// affecting the stored session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Transcript = slices.Clone(s.Transcript)
	return &cp
}

// LastMessage returns the most recent transcript entry, or a zero
// Message for an empty transcript.
func (s *Session) LastMessage() Message {
	if len(s.Transcript) == 0 {
		return Message{}
	}
	return s.Transcript[len(s.Transcript)-1]
}
