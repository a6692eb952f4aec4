package cascade

import (
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wiki-chat-be/pkg/llm"
	"wiki-chat-be/pkg/retrieval"
	"wiki-chat-be/pkg/store"
)

type fakeVector struct {
	hits  []retrieval.ScoredResult
	err   error
	panic bool
}

func (f *fakeVector) SearchSimilar(ctx context.Context, query string, limit int) ([]retrieval.ScoredResult, error) {
	if f.panic {
		panic("vector store exploded")
	}
	return f.hits, f.err
}

type fakeWeb struct {
	results []retrieval.ScoredResult
}

func (f *fakeWeb) Search(ctx context.Context, query string) []retrieval.ScoredResult {
	return f.results
}

type exchange struct {
	user      string
	assistant string
}

type fakeSessions struct {
	history  []store.Turn
	appended []exchange
}

func (f *fakeSessions) History(sessionID string) []store.Turn {
	return f.history
}

func (f *fakeSessions) AppendExchange(sessionID, userMessage, assistantMessage string) {
	f.appended = append(f.appended, exchange{user: userMessage, assistant: assistantMessage})
}

type fakeLLM struct {
	reply        string
	err          error
	lastMessages []llm.Message
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.lastMessages = history
	return f.reply, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.reply, f.err
}

func quietLogger() *log.Logger {
	return log.New(devNull{}, "", 0)
}

type devNull struct{}

func (devNull) Write(p []byte) (int, error) { return len(p), nil }

func kbHit(score float64) retrieval.ScoredResult {
	return retrieval.ScoredResult{
		Title:   "Stored doc",
		Content: "stored content",
		Source:  retrieval.SourceKnowledgeBase,
		Score:   score,
	}
}

func webHit() retrieval.ScoredResult {
	return retrieval.ScoredResult{
		Title:   "Web doc",
		Content: "web content",
		URL:     "https://example.com/doc",
		Source:  retrieval.SourceWebTextDetailed,
		Score:   0.9,
	}
}

func newTestOrchestrator(v VectorSearcher, w WebSearcher, s SessionStore, provider llm.LLMProvider) *Orchestrator {
	return NewOrchestrator(v, w, s, provider, 0.3, quietLogger())
}

func TestRAGAnswersAboveThreshold(t *testing.T) {
	sessions := &fakeSessions{}
	o := newTestOrchestrator(
		&fakeVector{hits: []retrieval.ScoredResult{kbHit(0.31)}},
		&fakeWeb{},
		sessions,
		&fakeLLM{reply: "grounded answer"},
	)

	res := o.Execute(context.Background(), Request{Query: "what is stored?", Mode: ModeRAG, SessionID: "s1"})

	assert.Equal(t, ModeRAG, res.ModeUsed)
	assert.False(t, res.FallbackUsed)
	assert.Equal(t, "grounded answer", res.Response)
	require.Len(t, res.Sources, 1)
	assert.Equal(t, 0.31, res.Sources[0].Score)

	require.Len(t, sessions.appended, 1)
	assert.Equal(t, "what is stored?", sessions.appended[0].user)
	assert.Equal(t, "grounded answer", sessions.appended[0].assistant)
}

func TestRAGThresholdIsStrict(t *testing.T) {
	// A hit scoring exactly the threshold does not count as evidence.
	o := newTestOrchestrator(
		&fakeVector{hits: []retrieval.ScoredResult{kbHit(0.30)}},
		&fakeWeb{results: []retrieval.ScoredResult{webHit()}},
		&fakeSessions{},
		&fakeLLM{reply: "web answer"},
	)

	res := o.Execute(context.Background(), Request{Query: "q", Mode: ModeRAG, SessionID: "s1"})

	assert.Equal(t, ModeWeb, res.ModeUsed)
	assert.True(t, res.FallbackUsed)
	assert.Empty(t, res.Sources)
}

func TestRAGFallsBackToWebWithDisclosure(t *testing.T) {
	sessions := &fakeSessions{}
	o := newTestOrchestrator(
		&fakeVector{hits: nil},
		&fakeWeb{results: []retrieval.ScoredResult{webHit()}},
		sessions,
		&fakeLLM{reply: "web answer"},
	)

	res := o.Execute(context.Background(), Request{Query: "q", Mode: ModeRAG, SessionID: "s1"})

	assert.Equal(t, ModeWeb, res.ModeUsed)
	assert.Equal(t, ModeRAG, res.OriginalMode)
	assert.True(t, res.FallbackUsed)
	assert.Contains(t, res.Response, "web answer")
	assert.Contains(t, res.Response, "⚠️ Note: I used WEB mode instead of RAG because I couldn't find relevant information in my knowledge base.")
	assert.NotEmpty(t, res.WebContext)

	// The session keeps the raw answer without the disclosure.
	require.Len(t, sessions.appended, 1)
	assert.Equal(t, "web answer", sessions.appended[0].assistant)
}

func TestVectorFaultIsTreatedAsNoEvidence(t *testing.T) {
	o := newTestOrchestrator(
		&fakeVector{err: errors.New("index offline")},
		&fakeWeb{results: []retrieval.ScoredResult{webHit()}},
		&fakeSessions{},
		&fakeLLM{reply: "web answer"},
	)

	res := o.Execute(context.Background(), Request{Query: "q", Mode: ModeRAG, SessionID: "s1"})

	assert.Equal(t, ModeWeb, res.ModeUsed)
	assert.True(t, res.FallbackUsed)
}

func TestFullCascadeToDeep(t *testing.T) {
	sessions := &fakeSessions{}
	o := newTestOrchestrator(
		&fakeVector{hits: nil},
		&fakeWeb{results: nil},
		sessions,
		&fakeLLM{reply: "Step 1 reasoning...\nFinal Response: the deep answer"},
	)

	res := o.Execute(context.Background(), Request{Query: "q", Mode: ModeRAG, SessionID: "s1"})

	assert.Equal(t, ModeDeep, res.ModeUsed)
	assert.Equal(t, ModeRAG, res.OriginalMode)
	assert.True(t, res.FallbackUsed)

	assert.True(t, strings.HasPrefix(res.Reasoning, "Engaging in comprehensive analysis without external data sources..."))
	assert.Contains(t, res.Reasoning, "Step 1 reasoning...")

	assert.Contains(t, res.Response, "🔍 Note: I couldn't find specific information in my knowledge base")
	assert.Contains(t, res.Response, "the deep answer")
	assert.Contains(t, res.Response, "⚠️ Note: I used DEEP mode instead of RAG")

	require.Len(t, sessions.appended, 1)
	assert.Equal(t, "the deep answer", sessions.appended[0].assistant)
}

func TestDeepDirectRequest(t *testing.T) {
	o := newTestOrchestrator(
		&fakeVector{},
		&fakeWeb{},
		&fakeSessions{},
		&fakeLLM{reply: "analysis\nFinal Response: draft\nFinal Response: the final answer"},
	)

	res := o.Execute(context.Background(), Request{Query: "q", Mode: ModeDeep, SessionID: "s1"})

	assert.Equal(t, ModeDeep, res.ModeUsed)
	assert.False(t, res.FallbackUsed)
	// The last marker wins.
	assert.Equal(t, "the final answer", res.Response)
	assert.NotContains(t, res.Response, "🔍")
	assert.NotContains(t, res.Response, "⚠️")
}

func TestDeepWithoutMarkerReturnsWholeOutput(t *testing.T) {
	o := newTestOrchestrator(
		&fakeVector{},
		&fakeWeb{},
		&fakeSessions{},
		&fakeLLM{reply: "  just an answer  "},
	)

	res := o.Execute(context.Background(), Request{Query: "q", Mode: ModeDeep, SessionID: "s1"})
	assert.Equal(t, "just an answer", res.Response)
}

func TestGenerationFaultDegradesToApology(t *testing.T) {
	o := newTestOrchestrator(
		&fakeVector{hits: []retrieval.ScoredResult{kbHit(0.9)}},
		&fakeWeb{},
		&fakeSessions{},
		&fakeLLM{err: errors.New("model offline")},
	)

	res := o.Execute(context.Background(), Request{Query: "quantum", Mode: ModeRAG, SessionID: "s1"})

	assert.Equal(t, ModeRAG, res.ModeUsed)
	assert.Equal(t, "I'm having trouble accessing my knowledge base for 'quantum'.", res.Response)
}

func TestPanicBecomesErrorMode(t *testing.T) {
	sessions := &fakeSessions{}
	o := newTestOrchestrator(
		&fakeVector{panic: true},
		&fakeWeb{},
		sessions,
		&fakeLLM{reply: "unused"},
	)

	res := o.Execute(context.Background(), Request{Query: "q", Mode: ModeRAG, SessionID: "s1"})

	assert.Equal(t, ModeError, res.ModeUsed)
	assert.Error(t, res.Err)
	assert.Contains(t, res.Response, "I apologize, but I encountered an issue while processing your request.")
	assert.Empty(t, sessions.appended, "failed turns must not be recorded")
}

func TestHistoryIsThreadedIntoPrompt(t *testing.T) {
	provider := &fakeLLM{reply: "answer"}
	o := newTestOrchestrator(
		&fakeVector{hits: []retrieval.ScoredResult{kbHit(0.9)}},
		&fakeWeb{},
		&fakeSessions{history: []store.Turn{
			{Role: store.RoleUser, Content: "earlier question"},
			{Role: store.RoleAssistant, Content: "earlier answer"},
		}},
		provider,
	)

	o.Execute(context.Background(), Request{Query: "follow-up", Mode: ModeRAG, SessionID: "s1"})

	require.Len(t, provider.lastMessages, 4)
	assert.Equal(t, "system", provider.lastMessages[0].Role)
	assert.Equal(t, "earlier question", provider.lastMessages[1].Content)
	assert.Equal(t, "earlier answer", provider.lastMessages[2].Content)
	assert.Equal(t, "follow-up", provider.lastMessages[3].Content)
}
