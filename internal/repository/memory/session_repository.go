package memory

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"wiki-chat-be/pkg/store"
)

// SessionRepository keeps conversation histories in process memory. Idle
// sessions expire after the configured TTL; active ones are capped to a
// sliding window of 2*historyWindow turns, oldest evicted first.
type SessionRepository struct {
	mu            sync.Mutex
	cache         *cache.Cache
	historyWindow int
}

func NewSessionRepository(historyWindow int, ttl time.Duration) *SessionRepository {
	if historyWindow <= 0 {
		historyWindow = 5
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{
		cache:         cache.New(ttl, 10*time.Minute),
		historyWindow: historyWindow,
	}
}

// get returns the stored session, lazily creating it. Caller holds mu.
func (r *SessionRepository) get(sessionID string) *store.Session {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session)
	}
	s := &store.Session{
		ID:            sessionID,
		HistoryWindow: r.historyWindow,
	}
	r.cache.Set(sessionID, s, cache.DefaultExpiration)
	return s
}

// History returns a copy of the session's turns, oldest first. An unknown
// session yields an empty history without creating one.
func (r *SessionRepository) History(sessionID string) []store.Turn {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(sessionID)
	if !found {
		return nil
	}
	s := x.(*store.Session)
	turns := make([]store.Turn, len(s.Turns))
	copy(turns, s.Turns)
	return turns
}

// AppendExchange records one completed user/assistant exchange and trims
// the window. Setting the value back refreshes the idle TTL.
func (r *SessionRepository) AppendExchange(sessionID, userMessage, assistantMessage string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.get(sessionID)
	s.Turns = append(s.Turns,
		store.Turn{Role: store.RoleUser, Content: userMessage},
		store.Turn{Role: store.RoleAssistant, Content: assistantMessage},
	)
	if max := s.MaxTurns(); len(s.Turns) > max {
		s.Turns = s.Turns[len(s.Turns)-max:]
	}
	r.cache.Set(sessionID, s, cache.DefaultExpiration)
}

// Clear drops a session's history. It reports whether the session existed.
func (r *SessionRepository) Clear(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, found := r.cache.Get(sessionID)
	r.cache.Delete(sessionID)
	return found
}
