// Package domain defines the core domain models for the support chat server.
package domain

import "time"

// Role is the persisted author of a message. Only user and assistant turns
// are ever stored; presentation-layer renames (e.g. "agent") happen in the
// widget, never here.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Session represents a conversation thread.
type Session struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Message represents a single turn within a session. Messages are
// append-only and totally ordered by CreatedAt within their session.
type Message struct {
	MessageID string    `json:"message_id"`
	SessionID string    `json:"session_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
