// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single transcript entry. Messages are immutable once
// appended; the transcript only ever grows, and is only emptied by a full
// session clear or the transcript reset on document processing.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// ImageData holds the base64-encoded artifact bytes for assistant
	// messages produced by the visualization session. Empty otherwise.
	ImageData string `json:"imageData,omitempty"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) Message {
	return NewMessage(RoleAssistant, content)
}

// NewArtifactMessage creates an assistant message that carries an image
// artifact alongside its text content.
func NewArtifactMessage(content, imageData string) Message {
	msg := NewMessage(RoleAssistant, content)
	msg.ImageData = imageData
	return msg
}

// HasArtifact reports whether the message carries image data.
func (m Message) HasArtifact() bool {
	return m.ImageData != ""
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// EqualContent reports whether two messages match by role and content.
// IDs and timestamps are identity metadata and deliberately ignored; this
// is the equality the persistence round-trip guarantees.
func (m Message) EqualContent(other Message) bool {
	return m.Role == other.Role && m.Content == other.Content
}
