package cascade

// Mode is the retrieval strategy a chat request starts from. The
// orchestrator may fall through to later modes when an earlier one finds
// nothing usable.
type Mode string

const (
	ModeRAG   Mode = "rag"
	ModeWeb   Mode = "web"
	ModeDeep  Mode = "deep"
	ModeError Mode = "error"
)

// ParseMode maps a client-supplied mode string to a Mode, defaulting to
// RAG for anything unrecognized.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeRAG, ModeWeb, ModeDeep:
		return Mode(s)
	default:
		return ModeRAG
	}
}
