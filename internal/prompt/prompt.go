// Package prompt assembles the deterministic system prompt that anchors
// every interview session.
package prompt

import (
	"fmt"
	"strings"
)

// Options are the instructional knobs of the interviewer template.
type Options struct {
	// QuestionMin and QuestionMax bound how many questions the model is
	// told to ask before wrapping up.
	QuestionMin int
	QuestionMax int
	// ScoreMin and ScoreMax bound the final numeric score.
	ScoreMin int
	ScoreMax int
	// Tone describes the interviewer's manner.
	Tone string
	// ResumeCharLimit caps how much résumé text enters the prompt.
	// Longer résumés are truncated silently.
	ResumeCharLimit int
}

// DefaultOptions mirror the reference interviewer behavior.
func DefaultOptions() Options {
	return Options{
		QuestionMin:     8,
		QuestionMax:     10,
		ScoreMin:        1,
		ScoreMax:        10,
		Tone:            "professional, encouraging, and adaptive",
		ResumeCharLimit: 10000,
	}
}

// Builder renders system prompts from fixed options.
type Builder struct {
	opts Options
}

// NewBuilder creates a Builder, filling zero options from defaults.
func NewBuilder(opts Options) *Builder {
	def := DefaultOptions()
	if opts.QuestionMin <= 0 {
		opts.QuestionMin = def.QuestionMin
	}
	if opts.QuestionMax < opts.QuestionMin {
		opts.QuestionMax = max(def.QuestionMax, opts.QuestionMin)
	}
	if opts.ScoreMin <= 0 {
		opts.ScoreMin = def.ScoreMin
	}
	if opts.ScoreMax <= opts.ScoreMin {
		opts.ScoreMax = def.ScoreMax
	}
	if opts.Tone == "" {
		opts.Tone = def.Tone
	}
	if opts.ResumeCharLimit <= 0 {
		opts.ResumeCharLimit = def.ResumeCharLimit
	}
	return &Builder{opts: opts}
}

// Options returns the effective options.
func (b *Builder) Options() Options {
	return b.opts
}

// System renders the interview system prompt for one candidate.
func (b *Builder) System(jobRole, candidateName, resumeText string) string {
	return fmt.Sprintf(`You are an expert interviewer for the role: %s.
Candidate: %s
Resume:
%s

Instructions:
- Greet the candidate by name
- Ask ONE thoughtful question at a time based on their experience
- Be %s
- After %d-%d questions, give a final summary and score (%d-%d) with clear reasoning`,
		jobRole,
		candidateName,
		TruncateRunes(resumeText, b.opts.ResumeCharLimit),
		b.opts.Tone,
		b.opts.QuestionMin, b.opts.QuestionMax,
		b.opts.ScoreMin, b.opts.ScoreMax,
	)
}

// Closing renders the instruction injected when the engine ends an
// interview that the model has not wrapped up on its own.
func (b *Builder) Closing() string {
	return fmt.Sprintf(
		"The interview is now over. Do not ask another question. "+
			"Give the final summary and a score (%d-%d) with clear reasoning.",
		b.opts.ScoreMin, b.opts.ScoreMax,
	)
}

// TruncateRunes cuts s to at most limit runes. Truncation is silent.
func TruncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit])
}
