package service

import (
	"context"
	"fmt"

	"github.com/nimbusdesk/supportchat/internal/domain"
)

// History returns the full ordered transcript for a session, oldest first.
// Unknown session ids yield an empty history rather than an error so a client
// holding a stale id sees a fresh transcript.
func (s *Service) History(ctx context.Context, sessionID string) ([]domain.Message, error) {
	messages, err := s.store.Messages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	return messages, nil
}
