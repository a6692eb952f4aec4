package prompt

import (
	"fmt"
	"strings"

	"wiki-chat-be/pkg/retrieval"
)

const baseSystem = "You are a helpful, precise assistant. If unsure, say you don't know."

const (
	maxRAGSources = 6
	maxWebSources = 8
	maxDigestRows = 3
)

// SystemRAG builds the grounded-answer system prompt: the model may use
// only the provided context.
func SystemRAG(context string) string {
	var b strings.Builder
	b.WriteString(baseSystem)
	b.WriteString(" Use ONLY the provided context to answer. ")
	b.WriteString("If the answer isn't in the context, say you don't know.\n")
	b.WriteString("=== CONTEXT START ===\n")
	b.WriteString(context)
	b.WriteString("\n=== CONTEXT END ===")
	return b.String()
}

// SystemWeb builds the web-snippet system prompt with inline citation
// guidance.
func SystemWeb(context string) string {
	var b strings.Builder
	b.WriteString(baseSystem)
	b.WriteString(" Use the following web snippets to answer factually. ")
	b.WriteString("Cite inline with (Source: <title>) when appropriate.\n")
	b.WriteString("=== WEB RESULTS ===\n")
	b.WriteString(context)
	return b.String()
}

// SystemDeep builds the unaided-analysis system prompt.
func SystemDeep() string {
	return baseSystem + " Provide a deep, structured analysis. Cover assumptions, alternatives, and edge cases."
}

// DeepUserPrompt wraps the query in the chain-of-thought scaffold used by
// deep mode. The model is expected to end with a "Final Response:" section.
func DeepUserPrompt(query string) string {
	var b strings.Builder
	b.WriteString("Analyze the following query deeply and provide a well-reasoned response:\n\n")
	b.WriteString("Query: " + query + "\n\n")
	b.WriteString("Please follow this thought process:\n")
	b.WriteString("1. Understand the core concept and context\n")
	b.WriteString("2. Break down the query into key components\n")
	b.WriteString("3. Apply logical reasoning and critical thinking\n")
	b.WriteString("4. Consider multiple perspectives if applicable\n")
	b.WriteString("5. Provide a comprehensive, insightful response\n\n")
	b.WriteString("Reasoning:")
	return b.String()
}

// FormatRAGContext renders vector hits for the RAG system prompt.
func FormatRAGContext(sources []retrieval.ScoredResult) string {
	if len(sources) > maxRAGSources {
		sources = sources[:maxRAGSources]
	}
	lines := make([]string, 0, len(sources))
	for _, s := range sources {
		title := s.Title
		if title == "" {
			title = "Unknown"
		}
		lines = append(lines, fmt.Sprintf("[Source: %s | Relevance: %.3f]\n%s", title, s.Score, s.Content))
	}
	return strings.Join(lines, "\n\n")
}

// FormatWebContext renders aggregated web results for the web system prompt.
func FormatWebContext(results []retrieval.ScoredResult) string {
	if len(results) > maxWebSources {
		results = results[:maxWebSources]
	}
	lines := make([]string, 0, len(results))
	for _, r := range results {
		title := r.Title
		if title == "" {
			title = "Web result"
		}
		lines = append(lines, fmt.Sprintf("[%s]\n%s", title, r.Content))
	}
	return strings.Join(lines, "\n\n")
}

// FormatWebDigest renders the short source digest returned to the client in
// the web_context field: the top results with their origin and URL.
func FormatWebDigest(results []retrieval.ScoredResult) string {
	if len(results) == 0 {
		return ""
	}
	if len(results) > maxDigestRows {
		results = results[:maxDigestRows]
	}

	var lines []string
	for i, r := range results {
		title := r.Title
		if title == "" {
			title = "Unknown"
		}
		sourceDisplay := strings.ToUpper(strings.ReplaceAll(string(r.Source), "_", " "))
		lines = append(lines, fmt.Sprintf("%d. [%s] %s", i+1, sourceDisplay, title))
		if r.URL != "" {
			lines = append(lines, "   URL: "+r.URL)
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
