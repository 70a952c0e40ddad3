package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nimbusdesk/supportchat/classify"
	"github.com/nimbusdesk/supportchat/internal/domain"
)

// ChatReply is the outcome of a successful send.
type ChatReply struct {
	SessionID string
	Reply     string
}

// SendMessage appends the user's message to the session, asks the LLM for a
// reply with a bounded context window, persists the reply, and returns it.
// When the LLM call fails the user's message stays persisted and the error is
// returned as a *classify.Error; no rollback happens.
func (s *Service) SendMessage(ctx context.Context, sessionID, content string) (*ChatReply, error) {
	sid := s.resolveSession(ctx, sessionID)

	if err := s.appendMessage(ctx, sid, domain.RoleUser, content); err != nil {
		return nil, fmt.Errorf("failed to store user message: %w", err)
	}

	history, err := s.buildContextWindow(ctx, sid, content)
	if err != nil {
		return nil, fmt.Errorf("failed to build context window: %w", err)
	}

	llmCtx, cancel := context.WithTimeout(ctx, s.config.LLMTimeout)
	defer cancel()

	reply, err := s.complete(llmCtx, history, content)
	if err != nil {
		result := s.classifier.Classify(ctx, err)
		log.Printf("WARN: completion failed for session %s (%s): %v", sid, result.Category, err)
		return nil, &classify.Error{Result: result, Err: err}
	}

	if err := s.appendMessage(ctx, sid, domain.RoleAssistant, reply); err != nil {
		return nil, fmt.Errorf("failed to store assistant reply: %w", err)
	}

	return &ChatReply{SessionID: sid, Reply: reply}, nil
}

// resolveSession returns a session id that exists in the store whenever
// storage cooperates. A request must never fail on session identity alone:
// unknown client-supplied ids are adopted, and any persistence error degrades
// to minting a fresh id instead of propagating.
func (s *Service) resolveSession(ctx context.Context, requested string) string {
	if requested != "" {
		session, err := s.store.GetSession(ctx, requested)
		if err == nil && session != nil {
			return requested
		}
		if err != nil {
			log.Printf("WARN: session lookup failed for %q: %v", requested, err)
		} else {
			// Stale or forged id: adopt it so the client keeps its handle.
			createErr := s.store.CreateSession(ctx, &domain.Session{
				SessionID: requested,
				CreatedAt: time.Now(),
			})
			if createErr == nil {
				return requested
			}
			log.Printf("WARN: could not adopt session id %q: %v", requested, createErr)
		}
	}

	fresh := uuid.New().String()
	if err := s.store.CreateSession(ctx, &domain.Session{SessionID: fresh, CreatedAt: time.Now()}); err != nil {
		// Let the message append surface the storage failure.
		log.Printf("WARN: could not create session %q: %v", fresh, err)
	}
	return fresh
}

func (s *Service) appendMessage(ctx context.Context, sessionID string, role domain.Role, content string) error {
	return s.store.CreateMessage(ctx, &domain.Message{
		MessageID: uuid.New().String(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	})
}
