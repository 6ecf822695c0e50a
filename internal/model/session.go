// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// SESSION KIND
// =============================================================================

// SessionKind identifies one of the two parallel session instances. The
// kind selects the backend endpoints a prompt routes to and the mirror keys
// the session persists under.
type SessionKind string

const (
	KindChat      SessionKind = "chat"
	KindVisualize SessionKind = "visualize"
)

// String returns the kind name.
func (k SessionKind) String() string {
	return string(k)
}

// Title returns the session's display heading.
func (k SessionKind) Title() string {
	switch k {
	case KindVisualize:
		return "Data Visualize"
	default:
		return "Document Chat"
	}
}

// =============================================================================
// SESSION STATE
// =============================================================================

// SessionState is the canonical in-memory state of one session, owned by
// session.Store and mutated only through reducer outcomes.
//
// Invariants:
//   - IsLoading is true only while exactly one ask call is in flight.
//   - IsProcessing is true only while a document upload is in flight.
//   - A prompt may be submitted only when Document reports Processed.
type SessionState struct {
	Kind SessionKind

	// Transcript is the ordered, append-only message sequence. It is
	// replaced wholesale only by document processing and by session clear.
	Transcript []Message

	// Document is the descriptor for the session's uploaded document, nil
	// when nothing has been selected or processed.
	Document *DocumentDescriptor

	// Pending is the locally selected file awaiting processing. Nil after
	// a restart even when Document is set (the bytes do not survive).
	Pending *FileSelection

	// LatestArtifact is the most recent visualization result, nil for the
	// chat session.
	LatestArtifact *VisualizationArtifact

	IsLoading    bool
	IsProcessing bool

	// LastError is the inline banner text, empty when no error is shown.
	LastError string
}

// NewSessionState creates an empty session of the given kind.
func NewSessionState(kind SessionKind) SessionState {
	return SessionState{Kind: kind}
}

// DocumentStatus derives the lifecycle position from the state.
func (s SessionState) DocumentStatus() DocumentStatus {
	switch {
	case s.IsProcessing:
		return DocProcessing
	case s.Document != nil && s.Document.Processed:
		return DocProcessed
	case s.Pending != nil || s.Document != nil:
		return DocSelected
	default:
		return DocUnselected
	}
}

// CanAsk reports whether a prompt submission would be accepted.
func (s SessionState) CanAsk() bool {
	return s.Document != nil && s.Document.Processed && !s.IsLoading
}

// Clone returns a deep copy of the state. Store.Set callers hand over
// ownership, so snapshots returned by Store.Get must not alias the
// canonical slices.
func (s SessionState) Clone() SessionState {
	out := s
	if s.Transcript != nil {
		out.Transcript = make([]Message, len(s.Transcript))
		copy(out.Transcript, s.Transcript)
	}
	if s.Document != nil {
		doc := *s.Document
		out.Document = &doc
	}
	if s.Pending != nil {
		pending := *s.Pending
		out.Pending = &pending
	}
	if s.LatestArtifact != nil {
		art := *s.LatestArtifact
		out.LatestArtifact = &art
	}
	return out
}
