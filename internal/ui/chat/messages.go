// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/finchat-tui/internal/config"
	"github.com/jeranaias/finchat-tui/internal/gateway"
	"github.com/jeranaias/finchat-tui/internal/model"
)

// =============================================================================
// BUBBLE TEA MESSAGES
// =============================================================================

// fileReadMsg carries the bytes of a file chosen in the file picker.
type fileReadMsg struct {
	Kind model.SessionKind
	File model.FileSelection
	Err  error
}

// documentResultMsg is the settlement of a process-document call.
type documentResultMsg struct {
	Kind model.SessionKind
	Name string
	Err  error
}

// askResultMsg is the settlement of an ask call.
type askResultMsg struct {
	Kind model.SessionKind
	Resp *gateway.AskResponse
	Err  error
}

// clearResultMsg is the settlement of a clear-session call. The reducer
// has already applied both phases by the time this message arrives; it
// only carries the outcome for the status line.
type clearResultMsg struct {
	Kind model.SessionKind
	Err  error
}

// fileWrittenMsg reports a finished export or image save.
type fileWrittenMsg struct {
	Path string
	Err  error
}

// checkDocumentsMsg carries the backend's document inventory, fetched
// once at startup to sanity-check a mirror that claims a processed
// document. Advisory only: the mirror stays authoritative.
type checkDocumentsMsg struct {
	Resp *gateway.CheckDocumentsResponse
	Err  error
}

// ConfigReloadedMsg is sent from outside the program when the config
// file changes on disk. Only display settings take effect live.
type ConfigReloadedMsg struct {
	Config *config.Config
}
