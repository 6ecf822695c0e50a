// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// DOCUMENT DESCRIPTOR
// =============================================================================

// DocumentDescriptor is the client's belief about a server-side document
// resource. It survives restarts via the local mirror, but the mirror is
// advisory: after a restart the descriptor may claim Processed while the
// original file bytes (FileSelection) are gone, and only the backend knows
// whether its session state still holds the document.
type DocumentDescriptor struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"size"`
	Processed bool   `json:"isProcessed"`
}

// FileSelection holds a locally selected file awaiting upload. Unlike the
// descriptor it carries the actual bytes, so it never survives a restart.
type FileSelection struct {
	Name string
	Size int64
	Data []byte
}

// Descriptor derives the client-side descriptor for an unprocessed
// selection.
func (f *FileSelection) Descriptor() *DocumentDescriptor {
	if f == nil {
		return nil
	}
	return &DocumentDescriptor{
		Name:      f.Name,
		SizeBytes: f.Size,
		Processed: false,
	}
}

// =============================================================================
// DOCUMENT STATUS
// =============================================================================

// DocumentStatus is the document lifecycle position:
// unselected -> selected -> processing -> processed, with processed ->
// unselected on a session clear. A fresh selection overrides a mid-flight
// processing call; the in-flight response is still applied if it lands
// later (last response wins).
type DocumentStatus int

const (
	DocUnselected DocumentStatus = iota
	DocSelected
	DocProcessing
	DocProcessed
)

// String returns the status name for display and logging.
func (s DocumentStatus) String() string {
	switch s {
	case DocUnselected:
		return "unselected"
	case DocSelected:
		return "selected"
	case DocProcessing:
		return "processing"
	case DocProcessed:
		return "processed"
	default:
		return "unknown"
	}
}
