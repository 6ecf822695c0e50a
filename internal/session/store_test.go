// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"path/filepath"
	"testing"

	"github.com/jeranaias/finchat-tui/internal/localstore"
	"github.com/jeranaias/finchat-tui/internal/model"
)

func testStore(t *testing.T) (*Store, *localstore.Store) {
	t.Helper()
	mirror, err := localstore.Open(filepath.Join(t.TempDir(), "mirror.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { mirror.Close() })
	return NewStore(localstore.NewBridge(mirror)), mirror
}

func TestStore_GetReturnsSnapshot(t *testing.T) {
	store, _ := testStore(t)

	store.Update(model.KindChat, func(st *model.SessionState) {
		st.Transcript = []model.Message{model.NewUserMessage("hello")}
	})

	snap := store.Get(model.KindChat)
	snap.Transcript[0].Content = "mutated"
	snap.Transcript = append(snap.Transcript, model.NewUserMessage("extra"))

	state := store.Get(model.KindChat)
	if len(state.Transcript) != 1 || state.Transcript[0].Content != "hello" {
		t.Error("Mutating a snapshot must not affect the store")
	}
}

func TestStore_UpdateMirrors(t *testing.T) {
	store, mirror := testStore(t)

	store.Update(model.KindChat, func(st *model.SessionState) {
		st.Transcript = []model.Message{model.NewUserMessage("hello")}
	})

	if _, found, _ := mirror.Get(localstore.KeyChatMessages); !found {
		t.Error("Update should write the mirror")
	}
}

func TestStore_UpdateEphemeralSkipsMirror(t *testing.T) {
	store, mirror := testStore(t)

	store.UpdateEphemeral(model.KindChat, func(st *model.SessionState) {
		st.Transcript = []model.Message{model.NewUserMessage("hello")}
		st.IsLoading = true
	})

	if _, found, _ := mirror.Get(localstore.KeyChatMessages); found {
		t.Error("UpdateEphemeral must not touch the mirror")
	}
	if !store.Get(model.KindChat).IsLoading {
		t.Error("In-memory state should still change")
	}
}

func TestStore_NotifiesListenerSynchronously(t *testing.T) {
	store, _ := testStore(t)

	var gotKind model.SessionKind
	var gotLen int
	store.SetOnChange(func(kind model.SessionKind, state model.SessionState) {
		gotKind = kind
		gotLen = len(state.Transcript)
	})

	store.Update(model.KindVisualize, func(st *model.SessionState) {
		st.Transcript = append(st.Transcript, model.NewUserMessage("plot revenue"))
	})

	if gotKind != model.KindVisualize || gotLen != 1 {
		t.Errorf("Listener saw (%s, %d), want (visualize, 1)", gotKind, gotLen)
	}
}

func TestStore_HydrateRestoresDurableFields(t *testing.T) {
	mirror, err := localstore.Open(filepath.Join(t.TempDir(), "mirror.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer mirror.Close()
	bridge := localstore.NewBridge(mirror)

	if err := bridge.Save(model.KindVisualize, localstore.Fragment{
		Transcript: []model.Message{model.NewAssistantMessage("previous answer")},
		Document:   &model.DocumentDescriptor{Name: "report.pdf", SizeBytes: 2048, Processed: true},
		ImageData:  "aW1n",
	}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	store := NewStore(bridge)
	store.Hydrate(model.KindVisualize)

	state := store.Get(model.KindVisualize)
	if len(state.Transcript) != 1 || state.Transcript[0].Content != "previous answer" {
		t.Errorf("Transcript = %+v", state.Transcript)
	}
	if state.Document == nil || !state.Document.Processed {
		t.Errorf("Document = %+v", state.Document)
	}
	if state.LatestArtifact == nil || state.LatestArtifact.Image != "aW1n" {
		t.Errorf("Artifact = %+v", state.LatestArtifact)
	}
	// The file bytes are gone after a restart.
	if state.Pending != nil {
		t.Error("Pending selection must not be restored")
	}
}

func TestStore_ResetClearsMirror(t *testing.T) {
	store, mirror := testStore(t)

	store.Update(model.KindChat, func(st *model.SessionState) {
		st.Transcript = []model.Message{model.NewUserMessage("hello")}
		st.Document = &model.DocumentDescriptor{Name: "report.pdf", Processed: true}
	})

	if err := store.Reset(model.KindChat); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	state := store.Get(model.KindChat)
	if len(state.Transcript) != 0 || state.Document != nil {
		t.Errorf("State not reset: %+v", state)
	}
	for _, key := range []string{localstore.KeyChatMessages, localstore.KeyChatDocumentState} {
		if _, found, _ := mirror.Get(key); found {
			t.Errorf("Mirror key %q should be erased", key)
		}
	}
}

func TestStore_NilBridge(t *testing.T) {
	store := NewStore(nil)

	store.Update(model.KindChat, func(st *model.SessionState) {
		st.Transcript = []model.Message{model.NewUserMessage("hello")}
	})
	store.Hydrate(model.KindChat)
	if err := store.Reset(model.KindChat); err != nil {
		t.Errorf("Reset with nil bridge errored: %v", err)
	}
}
