package cascade

// State is a step in the fallback chain. Execution starts at the state
// matching the requested mode and advances through Transition until it
// reaches StateDone or StateError.
type State int

const (
	StateRAG State = iota
	StateWeb
	StateDeep
	StateDone
	StateError
)

func (s State) String() string {
	switch s {
	case StateRAG:
		return "RAG"
	case StateWeb:
		return "WEB"
	case StateDeep:
		return "DEEP"
	case StateDone:
		return "DONE"
	case StateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// StepOutcome is the result of attempting one state.
type StepOutcome int

const (
	// StepAnswered means the state produced a final answer.
	StepAnswered StepOutcome = iota
	// StepNoEvidence means the state found nothing usable and the chain
	// should fall through to the next strategy.
	StepNoEvidence
	// StepFault means the state failed in a way no later strategy can
	// recover from.
	StepFault
)

// entryState maps a requested mode to the state the chain starts from.
func entryState(m Mode) State {
	switch m {
	case ModeWeb:
		return StateWeb
	case ModeDeep:
		return StateDeep
	default:
		return StateRAG
	}
}

// Transition is the pure fallback function: RAG falls through to WEB,
// WEB falls through to DEEP, and DEEP is terminal. Any answered step
// completes the chain.
func Transition(s State, out StepOutcome) State {
	if out == StepFault {
		return StateError
	}
	if out == StepAnswered {
		return StateDone
	}
	switch s {
	case StateRAG:
		return StateWeb
	case StateWeb:
		return StateDeep
	case StateDeep:
		// Deep mode has no external evidence to run out of; it always
		// answers or faults, so falling through is a bug upstream.
		return StateError
	default:
		return StateError
	}
}
