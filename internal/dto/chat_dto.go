package dto

import "wiki-chat-be/pkg/retrieval"

type ChatRequest struct {
	Message   string `json:"message" validate:"required"`
	ChatMode  string `json:"chat_mode"`
	SessionID string `json:"session_id"`
}

// ChatResponse mirrors the cascade outcome. Sources is populated for rag
// answers, WebContext for web answers, Reasoning for deep answers.
type ChatResponse struct {
	Response     string                   `json:"response"`
	Sources      []retrieval.ScoredResult `json:"sources"`
	WebContext   string                   `json:"web_context"`
	Reasoning    string                   `json:"reasoning"`
	ModeUsed     string                   `json:"mode_used"`
	FallbackUsed bool                     `json:"fallback_used"`
	OriginalMode string                   `json:"original_mode"`
	Success      bool                     `json:"success"`
	ErrorMessage string                   `json:"error_message"`
}
