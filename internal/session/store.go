// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"

	"github.com/jeranaias/finchat-tui/internal/localstore"
	"github.com/jeranaias/finchat-tui/internal/model"
)

// =============================================================================
// SESSION STORE
// =============================================================================

// Listener is called synchronously after a session's state changes.
// It receives a snapshot; mutating it has no effect on the store.
type Listener func(kind model.SessionKind, state model.SessionState)

// Store holds the current state of every session. It is the single
// source of truth while the process is running; the persistence bridge
// is only a mirror consulted at startup.
type Store struct {
	mu       sync.Mutex
	sessions map[model.SessionKind]*model.SessionState
	bridge   *localstore.Bridge
	onChange Listener
}

// NewStore creates a store with empty state for both session kinds.
// The bridge may be nil, in which case nothing is persisted.
func NewStore(bridge *localstore.Bridge) *Store {
	chat := model.NewSessionState(model.KindChat)
	viz := model.NewSessionState(model.KindVisualize)
	return &Store{
		sessions: map[model.SessionKind]*model.SessionState{
			model.KindChat:      &chat,
			model.KindVisualize: &viz,
		},
		bridge: bridge,
	}
}

// SetOnChange registers the change listener. Only one listener is
// supported; passing nil removes it.
func (s *Store) SetOnChange(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Get returns a deep-copied snapshot of the session's state.
func (s *Store) Get(kind model.SessionKind) model.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[kind].Clone()
}

// Set replaces the session's state, mirrors it, and notifies the
// listener. Mirror write failures are ignored: the mirror is advisory
// and must never block a state change.
func (s *Store) Set(kind model.SessionKind, state model.SessionState) {
	s.Update(kind, func(st *model.SessionState) {
		*st = state
		st.Kind = kind
	})
}

// Update applies fn to the session's state under the lock, then
// mirrors the result and notifies the listener.
func (s *Store) Update(kind model.SessionKind, fn func(*model.SessionState)) {
	s.mutate(kind, fn, true)
}

// UpdateEphemeral applies fn and notifies the listener without
// touching the mirror. Used for transient flags (loading, processing)
// that should not survive a restart, and for the clear-failure path
// where the mirror is deliberately left alone.
func (s *Store) UpdateEphemeral(kind model.SessionKind, fn func(*model.SessionState)) {
	s.mutate(kind, fn, false)
}

func (s *Store) mutate(kind model.SessionKind, fn func(*model.SessionState), mirror bool) {
	s.mu.Lock()
	state := s.sessions[kind]
	fn(state)
	snapshot := state.Clone()
	onChange := s.onChange
	bridge := s.bridge
	s.mu.Unlock()

	if mirror && bridge != nil {
		_ = bridge.Save(kind, fragmentOf(snapshot))
	}
	if onChange != nil {
		onChange(kind, snapshot)
	}
}

// Reset returns the session to its empty initial state and erases all
// of its mirror keys.
func (s *Store) Reset(kind model.SessionKind) error {
	s.mu.Lock()
	fresh := model.NewSessionState(kind)
	s.sessions[kind] = &fresh
	snapshot := fresh.Clone()
	onChange := s.onChange
	bridge := s.bridge
	s.mu.Unlock()

	var err error
	if bridge != nil {
		err = bridge.Clear(kind)
	}
	if onChange != nil {
		onChange(kind, snapshot)
	}
	return err
}

// Hydrate restores the session's transcript, document descriptor and
// artifact from the mirror. A corrupt or absent mirror hydrates to the
// empty state. The restored descriptor is the client's cached belief
// about server-side state; the file bytes themselves are gone after a
// restart, so Pending stays nil.
func (s *Store) Hydrate(kind model.SessionKind) {
	if s.bridge == nil {
		return
	}
	frag := s.bridge.LoadOrEmpty(kind)
	if frag.IsEmpty() {
		return
	}

	s.mu.Lock()
	state := s.sessions[kind]
	state.Transcript = frag.Transcript
	state.Document = frag.Document
	if frag.ImageData != "" {
		state.LatestArtifact = &model.VisualizationArtifact{Image: frag.ImageData}
	}
	snapshot := state.Clone()
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange(kind, snapshot)
	}
}

// fragmentOf extracts the durable slice of a session's state. Live
// flags and the pending file selection are never mirrored.
func fragmentOf(state model.SessionState) localstore.Fragment {
	frag := localstore.Fragment{
		Transcript: state.Transcript,
		Document:   state.Document,
	}
	if state.LatestArtifact != nil {
		frag.ImageData = state.LatestArtifact.Image
	}
	return frag
}
