package cascade

import (
	"context"
	"fmt"
	"log"
	"strings"

	"wiki-chat-be/pkg/cascade/prompt"
	"wiki-chat-be/pkg/llm"
	"wiki-chat-be/pkg/retrieval"
	"wiki-chat-be/pkg/store"
)

const ragSearchLimit = 3

// VectorSearcher is the knowledge-base port used by RAG mode.
type VectorSearcher interface {
	SearchSimilar(ctx context.Context, query string, limit int) ([]retrieval.ScoredResult, error)
}

// WebSearcher is the aggregated web-search port used by web mode.
type WebSearcher interface {
	Search(ctx context.Context, query string) []retrieval.ScoredResult
}

// SessionStore is the conversation-history port. AppendExchange records a
// completed user/assistant exchange; History returns the rolling window.
type SessionStore interface {
	History(sessionID string) []store.Turn
	AppendExchange(sessionID, userMessage, assistantMessage string)
}

// Request is one chat turn to run through the fallback chain.
type Request struct {
	Query     string
	Mode      Mode
	SessionID string
}

// Result is the outcome of a chat turn. When ModeUsed is ModeError, Err
// carries the failure and Response holds a user-facing apology.
type Result struct {
	Response     string
	Sources      []retrieval.ScoredResult
	WebContext   string
	Reasoning    string
	ModeUsed     Mode
	OriginalMode Mode
	FallbackUsed bool
	Err          error
}

// Orchestrator runs the RAG -> WEB -> DEEP fallback chain for chat turns.
type Orchestrator struct {
	vector    VectorSearcher
	web       WebSearcher
	sessions  SessionStore
	llm       llm.LLMProvider
	threshold float64
	logger    *log.Logger
}

func NewOrchestrator(vector VectorSearcher, web WebSearcher, sessions SessionStore, provider llm.LLMProvider, threshold float64, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		vector:    vector,
		web:       web,
		sessions:  sessions,
		llm:       provider,
		threshold: threshold,
		logger:    logger,
	}
}

// Execute runs one chat turn. It never returns an error: failures no mode
// can recover from come back as a Result with ModeUsed == ModeError, and
// the exchange is only recorded in the session when a mode answered.
func (o *Orchestrator) Execute(ctx context.Context, req Request) (res Result) {
	res.OriginalMode = req.Mode
	res.ModeUsed = req.Mode

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("cascade panic: %v", r)
			o.logger.Printf("[ERROR] Chat execution failed for session %s: %v", req.SessionID, err)
			res = Result{
				Response:     fmt.Sprintf("I apologize, but I encountered an issue while processing your request. Please try again or rephrase your question. Error: %v", err),
				ModeUsed:     ModeError,
				OriginalMode: req.Mode,
				Err:          err,
			}
		}
	}()

	history := o.sessions.History(req.SessionID)

	state := entryState(req.Mode)

	for state != StateDone && state != StateError {
		var out StepOutcome
		switch state {
		case StateRAG:
			out = o.stepRAG(ctx, req, history, &res)
		case StateWeb:
			out = o.stepWeb(ctx, req, history, &res)
		case StateDeep:
			out = o.stepDeep(ctx, req, history, &res)
		}

		next := Transition(state, out)
		if out == StepNoEvidence {
			res.FallbackUsed = true
			o.logger.Printf("[INFO] Falling back from %s to %s for session %s", state, next, req.SessionID)
		}
		state = next
	}

	if state == StateError {
		if res.Err == nil {
			res.Err = fmt.Errorf("cascade exhausted without an answer")
		}
		res.Response = fmt.Sprintf("I apologize, but I encountered an issue while processing your request. Please try again or rephrase your question. Error: %v", res.Err)
		res.ModeUsed = ModeError
		return res
	}

	// The session keeps the raw answer; the fallback disclosures below are
	// presentation only.
	o.sessions.AppendExchange(req.SessionID, req.Query, res.Response)

	if res.FallbackUsed && res.ModeUsed == ModeDeep && res.OriginalMode != ModeDeep {
		res.Response = "🔍 Note: I couldn't find specific information in my knowledge base, so I'm providing a general analysis:\n\n" + res.Response
	}
	if res.FallbackUsed && res.ModeUsed != res.OriginalMode {
		reason := ""
		switch res.OriginalMode {
		case ModeRAG:
			reason = "I couldn't find relevant information in my knowledge base."
		case ModeWeb:
			reason = "I couldn't find web results for your query."
		}
		if reason != "" {
			res.Response += fmt.Sprintf("\n\n⚠️ Note: I used %s mode instead of %s because %s",
				strings.ToUpper(string(res.ModeUsed)), strings.ToUpper(string(res.OriginalMode)), reason)
		}
	}
	return res
}

// stepRAG answers from the vector knowledge base when it holds anything
// scoring strictly above the relevance threshold.
func (o *Orchestrator) stepRAG(ctx context.Context, req Request, history []store.Turn, res *Result) StepOutcome {
	hits, err := o.vector.SearchSimilar(ctx, req.Query, ragSearchLimit)
	if err != nil {
		// An unreachable index is treated like an empty one so the chain
		// can still answer from the web.
		o.logger.Printf("[WARN] Vector search failed, treating as no results: %v", err)
		hits = nil
	}

	relevant := hits[:0:0]
	for _, h := range hits {
		if h.Score > o.threshold {
			relevant = append(relevant, h)
		}
	}
	if len(relevant) == 0 {
		return StepNoEvidence
	}

	answer, err := o.generate(ctx, prompt.SystemRAG(prompt.FormatRAGContext(relevant)), history, req.Query)
	if err != nil {
		o.logger.Printf("[WARN] RAG generation failed: %v", err)
		answer = fmt.Sprintf("I'm having trouble accessing my knowledge base for '%s'.", req.Query)
	}

	res.Response = answer
	res.Sources = relevant
	res.ModeUsed = ModeRAG
	return StepAnswered
}

// stepWeb answers from aggregated web results.
func (o *Orchestrator) stepWeb(ctx context.Context, req Request, history []store.Turn, res *Result) StepOutcome {
	results := o.web.Search(ctx, req.Query)
	if len(results) == 0 {
		return StepNoEvidence
	}

	answer, err := o.generate(ctx, prompt.SystemWeb(prompt.FormatWebContext(results)), history, req.Query)
	if err != nil {
		o.logger.Printf("[WARN] Web generation failed: %v", err)
		answer = fmt.Sprintf("I'm having trouble using the web snippets for '%s'.", req.Query)
	}

	res.Response = answer
	res.WebContext = prompt.FormatWebDigest(results)
	res.ModeUsed = ModeWeb
	return StepAnswered
}

// stepDeep answers with unaided reasoning. It is the terminal strategy:
// generation faults degrade to an apology rather than falling through.
func (o *Orchestrator) stepDeep(ctx context.Context, req Request, history []store.Turn, res *Result) StepOutcome {
	raw, err := o.generate(ctx, prompt.SystemDeep(), history, prompt.DeepUserPrompt(req.Query))
	if err != nil {
		o.logger.Printf("[WARN] Deep generation failed: %v", err)
		res.Response = fmt.Sprintf("I'm having trouble performing deep analysis on '%s'.", req.Query)
		res.ModeUsed = ModeDeep
		return StepAnswered
	}

	res.Reasoning = "Engaging in comprehensive analysis without external data sources...\n" + raw
	res.Response = extractFinalResponse(raw)
	res.ModeUsed = ModeDeep
	return StepAnswered
}

func (o *Orchestrator) generate(ctx context.Context, system string, history []store.Turn, userMessage string) (string, error) {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: system})
	for _, t := range history {
		messages = append(messages, llm.Message{Role: t.Role, Content: t.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: userMessage})
	return o.llm.Chat(ctx, messages)
}

// extractFinalResponse strips the reasoning scaffold: everything after the
// last "Final Response:" marker is the user-facing answer. Without the
// marker, the whole output is returned.
func extractFinalResponse(raw string) string {
	const marker = "Final Response:"
	if idx := strings.LastIndex(raw, marker); idx >= 0 {
		return strings.TrimSpace(raw[idx+len(marker):])
	}
	return strings.TrimSpace(raw)
}
