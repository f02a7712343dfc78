// Package policy gates interview admission with an OPA rego policy.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Decision values.
const (
	DecisionAllow  = "allow"
	DecisionReject = "reject"
)

// Input is the admission request handed to the policy.
type Input struct {
	JobRole        string `json:"job_role"`
	CandidateName  string `json:"candidate_name"`
	ResumeChars    int    `json:"resume_chars"`
	MinResumeChars int    `json:"min_resume_chars"`
}

// Result is the policy's verdict.
type Result struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
}

// Allowed reports whether the interview may start.
func (r Result) Allowed() bool {
	return r.Decision == DecisionAllow
}

// Engine evaluates the admission policy.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine compiles the given rego module. The module must define
// data.interview_admission.result as an object with decision and reason.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.interview_admission.result"),
		rego.Module("interview_admission.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare rego: %w", err)
	}
	return &Engine{query: query}, nil
}

// Evaluate runs the admission policy for one start-interview request.
func (e *Engine) Evaluate(ctx context.Context, input Input) (Result, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return Result{}, fmt.Errorf("evaluate policy: %w", err)
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		// The shipped policy always defines a result; an undefined one
		// means a custom policy dropped the rule.
		return Result{}, fmt.Errorf("policy produced no result")
	}

	obj, ok := results[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return Result{}, fmt.Errorf("policy result has unexpected type %T", results[0].Expressions[0].Value)
	}

	res := Result{}
	if d, ok := obj["decision"].(string); ok {
		res.Decision = d
	}
	if r, ok := obj["reason"].(string); ok {
		res.Reason = r
	}
	if res.Decision == "" {
		return Result{}, fmt.Errorf("policy result missing decision")
	}
	return res, nil
}

// DefaultPolicy is the shipped admission policy: a job role is required
// and the extracted résumé must carry a minimum amount of text.
const DefaultPolicy = `
package interview_admission

import rego.v1

default result := {"decision": "allow", "reason": ""}

result := {"decision": "reject", "reason": "job role is required"} if {
	trim_space(input.job_role) == ""
}

result := {"decision": "reject", "reason": "resume text too short to interview on"} if {
	trim_space(input.job_role) != ""
	input.resume_chars < input.min_resume_chars
}
`
