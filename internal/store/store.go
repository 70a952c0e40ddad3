// Package store provides durable persistence for sessions and messages.
package store

import (
	"context"

	"github.com/nimbusdesk/supportchat/internal/domain"
)

// Store is the persistence boundary for conversation state.
type Store interface {
	// CreateSession inserts a new session row.
	CreateSession(ctx context.Context, session *domain.Session) error

	// GetSession retrieves a session by ID. Returns (nil, nil) if the
	// session does not exist.
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)

	// CreateMessage appends a single message to a session's log. The
	// session must already exist.
	CreateMessage(ctx context.Context, message *domain.Message) error

	// Messages returns the full history for a session, oldest first.
	Messages(ctx context.Context, sessionID string) ([]domain.Message, error)

	// RecentMessages returns up to limit messages for a session, newest
	// first.
	RecentMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error)

	// Close releases the underlying storage handle.
	Close() error
}
