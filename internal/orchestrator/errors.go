package orchestrator

import (
	"errors"
	"fmt"
)

// FailureKind classifies how a collaborator call failed.
type FailureKind string

const (
	FailureConnection FailureKind = "connection_failure"
	FailureTimeout    FailureKind = "timeout"
	FailureUpstream   FailureKind = "upstream_error"
	FailureMalformed  FailureKind = "malformed_response"
)

// AgentError is the normalized failure of a single collaborator call. Every
// failure crossing the client boundary is one of these; nothing panics or
// leaks raw transport errors past it.
type AgentError struct {
	Agent  string
	Kind   FailureKind
	Status int
	Detail string
}

func (e *AgentError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s agent: %s (status %d): %s", e.Agent, e.Kind, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s agent: %s: %s", e.Agent, e.Kind, e.Detail)
}

// Transient reports whether retrying the call could plausibly succeed.
func (e *AgentError) Transient() bool {
	return e.Kind == FailureConnection || e.Kind == FailureTimeout
}

// ErrNoSpeechDetected is returned by the voice path when transcription
// succeeds but yields no usable text. There is no fallback query to build a
// brief from, so the pipeline stops here.
var ErrNoSpeechDetected = errors.New("no speech detected")

// SynthesisError marks the one pipeline failure with no safe degradation: a
// brief without a narrative would have to fabricate one.
type SynthesisError struct {
	Err error
}

func (e *SynthesisError) Error() string {
	return "narrative synthesis failed: " + e.Err.Error()
}

func (e *SynthesisError) Unwrap() error {
	return e.Err
}
