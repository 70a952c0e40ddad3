package service

import (
	"context"

	"github.com/nimbusdesk/supportchat/internal/domain"
)

// historyFetchSize is how many recent rows are pulled when assembling the
// provider context. The just-appended user message is normally among them and
// gets dropped, leaving at most 6 prior turns.
const historyFetchSize = 7

// Turn is one prior exchange as presented to the provider.
type Turn struct {
	Role string
	Text string
}

// buildContextWindow returns the prior turns for a completion call, oldest
// first, excluding the message that was just appended.
func (s *Service) buildContextWindow(ctx context.Context, sessionID, justSent string) ([]Turn, error) {
	recent, err := s.store.RecentMessages(ctx, sessionID, historyFetchSize)
	if err != nil {
		return nil, err
	}

	// The newest row is usually the message that was just appended; drop it
	// rather than repeating it in the history. If the append is not visible
	// yet (concurrent send on the same session), keep all rows. Best-effort
	// only: a duplicated turn degrades context quality, not persistence.
	if len(recent) > 0 && recent[0].Content == justSent {
		recent = recent[1:]
	}

	turns := make([]Turn, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		role := "assistant"
		if recent[i].Role == domain.RoleUser {
			role = "user"
		}
		turns = append(turns, Turn{Role: role, Text: recent[i].Content})
	}
	return turns, nil
}
