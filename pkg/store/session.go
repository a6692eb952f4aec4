package store

// Turn is a single conversation turn kept in the rolling session history.
type Turn struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}

// Session represents the active conversation state in memory.
// Turns is a flat sliding window: the store caps it at 2*HistoryWindow
// entries, evicting oldest first. Eviction does not keep user/assistant
// pairs together.
type Session struct {
	ID            string `json:"id"`
	Turns         []Turn `json:"turns"`
	HistoryWindow int    `json:"history_window"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// MaxTurns returns the turn cap implied by the configured window.
func (s *Session) MaxTurns() int {
	return 2 * s.HistoryWindow
}
