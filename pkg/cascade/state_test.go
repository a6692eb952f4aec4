package cascade

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input    string
		expected Mode
	}{
		{"rag", ModeRAG},
		{"web", ModeWeb},
		{"deep", ModeDeep},
		{"", ModeRAG},
		{"error", ModeRAG}, // clients cannot request the error mode
		{"RAG", ModeRAG},
		{"turbo", ModeRAG},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseMode(tt.input), "input %q", tt.input)
	}
}

func TestTransition(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		outcome  StepOutcome
		expected State
	}{
		{"rag answered", StateRAG, StepAnswered, StateDone},
		{"rag falls through to web", StateRAG, StepNoEvidence, StateWeb},
		{"web answered", StateWeb, StepAnswered, StateDone},
		{"web falls through to deep", StateWeb, StepNoEvidence, StateDeep},
		{"deep answered", StateDeep, StepAnswered, StateDone},
		{"deep cannot fall through", StateDeep, StepNoEvidence, StateError},
		{"fault is terminal from rag", StateRAG, StepFault, StateError},
		{"fault is terminal from deep", StateDeep, StepFault, StateError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Transition(tt.state, tt.outcome))
		})
	}
}

func TestEntryState(t *testing.T) {
	assert.Equal(t, StateRAG, entryState(ModeRAG))
	assert.Equal(t, StateWeb, entryState(ModeWeb))
	assert.Equal(t, StateDeep, entryState(ModeDeep))
	assert.Equal(t, StateRAG, entryState(ModeError))
}
