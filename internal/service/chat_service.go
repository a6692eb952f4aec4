package service

import (
	"context"
	"log"
	"time"

	"wiki-chat-be/internal/dto"
	"wiki-chat-be/internal/repository/memory"
	"wiki-chat-be/pkg/cascade"
	"wiki-chat-be/pkg/retrieval"
)

const defaultSessionID = "default"

type IChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	ClearSession(ctx context.Context, sessionID string) bool
}

type chatService struct {
	orchestrator *cascade.Orchestrator
	sessions     *memory.SessionRepository
	deadline     time.Duration // 0 means no per-request deadline
}

func NewChatService(orchestrator *cascade.Orchestrator, sessions *memory.SessionRepository, deadline time.Duration) IChatService {
	return &chatService{
		orchestrator: orchestrator,
		sessions:     sessions,
		deadline:     deadline,
	}
}

func (s *chatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = defaultSessionID
	}

	if s.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.deadline)
		defer cancel()
	}

	res := s.orchestrator.Execute(ctx, cascade.Request{
		Query:     req.Message,
		Mode:      cascade.ParseMode(req.ChatMode),
		SessionID: sessionID,
	})

	log.Printf("[INFO] Chat completed: mode=%s, fallback=%t, original=%s", res.ModeUsed, res.FallbackUsed, res.OriginalMode)

	out := &dto.ChatResponse{
		Response:     res.Response,
		Sources:      []retrieval.ScoredResult{},
		ModeUsed:     string(res.ModeUsed),
		FallbackUsed: res.FallbackUsed,
		OriginalMode: string(res.OriginalMode),
		Success:      res.ModeUsed != cascade.ModeError,
	}

	// Evidence fields are scoped to the mode that actually answered.
	// Sources always serializes as an array, never null.
	switch res.ModeUsed {
	case cascade.ModeRAG:
		if len(res.Sources) > 0 {
			out.Sources = res.Sources
		}
	case cascade.ModeWeb:
		out.WebContext = res.WebContext
	case cascade.ModeDeep:
		out.Reasoning = res.Reasoning
	case cascade.ModeError:
		if res.Err != nil {
			out.ErrorMessage = res.Err.Error()
		}
	}
	return out, nil
}

func (s *chatService) ClearSession(ctx context.Context, sessionID string) bool {
	return s.sessions.Clear(sessionID)
}
