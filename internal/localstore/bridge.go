// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package localstore

import (
	"encoding/json"

	"github.com/jeranaias/finchat-tui/internal/model"
)

// =============================================================================
// MIRROR KEYS
// =============================================================================

// Mirror keys, one namespace per session kind. These names are part of the
// stored-data contract and must not change: a mirror written by an earlier
// build has to keep loading.
const (
	KeyChatMessages           = "chatMessages"
	KeyChatDocumentState      = "chatDocumentState"
	KeyVisualizeChatMessages  = "VisualizeChatMessages"
	KeyVisualizeDocumentState = "VisualizeDocumentState"
	KeyVisualizeImageData     = "VisualizeImageData"
)

// sessionKeys holds the mirror keys for one session kind.
type sessionKeys struct {
	messages string
	document string
	image    string // empty for kinds that store no artifact
}

func keysFor(kind model.SessionKind) sessionKeys {
	if kind == model.KindVisualize {
		return sessionKeys{
			messages: KeyVisualizeChatMessages,
			document: KeyVisualizeDocumentState,
			image:    KeyVisualizeImageData,
		}
	}
	return sessionKeys{
		messages: KeyChatMessages,
		document: KeyChatDocumentState,
	}
}

// =============================================================================
// PARSE ERROR
// =============================================================================

// ParseError reports that a stored mirror value is not valid JSON. The
// fail-soft path treats it as "absent"; the strict path surfaces it so the
// fallback stays an explicit, testable branch instead of a silent catch.
type ParseError struct {
	Key   string
	Cause error
}

func (e *ParseError) Error() string {
	return "mirror value for " + e.Key + " is not valid JSON: " + e.Cause.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// =============================================================================
// FRAGMENT
// =============================================================================

// Fragment is the slice of session state the mirror persists: transcript,
// document descriptor, and (visualize only) the latest artifact image. The
// live flags (IsLoading, IsProcessing, LastError) are deliberately not
// mirrored; they describe in-flight work that cannot survive a restart.
type Fragment struct {
	Transcript []model.Message
	Document   *model.DocumentDescriptor
	ImageData  string
}

// IsEmpty reports whether the fragment carries nothing worth restoring.
func (f Fragment) IsEmpty() bool {
	return len(f.Transcript) == 0 && f.Document == nil && f.ImageData == ""
}

// =============================================================================
// BRIDGE
// =============================================================================

// Bridge serializes session fragments to and from the Store, namespaced
// per session kind so the two sessions never cross-contaminate.
type Bridge struct {
	store *Store
}

// NewBridge creates a bridge over the given store.
func NewBridge(store *Store) *Bridge {
	return &Bridge{store: store}
}

// Save mirrors a fragment under the kind's keys. Values are JSON text,
// except the artifact image which is already a base64 string and is stored
// as-is. Empty parts remove their key so a cleared transcript does not
// resurrect on the next load.
func (b *Bridge) Save(kind model.SessionKind, frag Fragment) error {
	keys := keysFor(kind)

	if len(frag.Transcript) > 0 {
		data, err := json.Marshal(frag.Transcript)
		if err != nil {
			return err
		}
		if err := b.store.Put(keys.messages, string(data)); err != nil {
			return err
		}
	} else if err := b.store.Delete(keys.messages); err != nil {
		return err
	}

	if frag.Document != nil {
		data, err := json.Marshal(frag.Document)
		if err != nil {
			return err
		}
		if err := b.store.Put(keys.document, string(data)); err != nil {
			return err
		}
	} else if err := b.store.Delete(keys.document); err != nil {
		return err
	}

	if keys.image != "" {
		if frag.ImageData != "" {
			if err := b.store.Put(keys.image, frag.ImageData); err != nil {
				return err
			}
		} else if err := b.store.Delete(keys.image); err != nil {
			return err
		}
	}

	return nil
}

// Load reads the kind's fragment strictly: a stored value that fails to
// parse returns a *ParseError. Callers that want the soft behavior use
// LoadOrEmpty.
func (b *Bridge) Load(kind model.SessionKind) (Fragment, error) {
	keys := keysFor(kind)
	var frag Fragment

	if raw, found, err := b.store.Get(keys.messages); err != nil {
		return Fragment{}, err
	} else if found {
		if err := json.Unmarshal([]byte(raw), &frag.Transcript); err != nil {
			return Fragment{}, &ParseError{Key: keys.messages, Cause: err}
		}
	}

	if raw, found, err := b.store.Get(keys.document); err != nil {
		return Fragment{}, err
	} else if found {
		if err := json.Unmarshal([]byte(raw), &frag.Document); err != nil {
			return Fragment{}, &ParseError{Key: keys.document, Cause: err}
		}
	}

	if keys.image != "" {
		if raw, found, err := b.store.Get(keys.image); err != nil {
			return Fragment{}, err
		} else if found {
			// Plain text, not JSON; nothing to parse.
			frag.ImageData = raw
		}
	}

	return frag, nil
}

// LoadOrEmpty reads the kind's fragment, treating unparseable stored
// values as absent. This is the rehydration entry point: a corrupt mirror
// must never prevent a session from starting.
func (b *Bridge) LoadOrEmpty(kind model.SessionKind) Fragment {
	frag, err := b.Load(kind)
	if err != nil {
		return Fragment{}
	}
	return frag
}

// Clear erases every mirror key for the kind.
func (b *Bridge) Clear(kind model.SessionKind) error {
	keys := keysFor(kind)

	if err := b.store.Delete(keys.messages); err != nil {
		return err
	}
	if err := b.store.Delete(keys.document); err != nil {
		return err
	}
	if keys.image != "" {
		if err := b.store.Delete(keys.image); err != nil {
			return err
		}
	}
	return nil
}
