// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// handlers.go - One-shot maintenance commands.

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jeranaias/finchat-tui/internal/export"
	"github.com/jeranaias/finchat-tui/internal/model"
	"github.com/jeranaias/finchat-tui/internal/session"
)

// Version information, set by main at startup.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// CLEAR
// =============================================================================

// HandleClear clears the backend uploads and both local sessions.
func HandleClear(args []string) error {
	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	// One backend clear covers both sessions; the second call only
	// resets the remaining local state.
	for _, kind := range []model.SessionKind{model.KindChat, model.KindVisualize} {
		if err := app.Reducer.ClearSession(context.Background(), kind); err != nil {
			return fmt.Errorf("%s: %w", session.ClearFailureMessage, err)
		}
	}

	fmt.Println(successStyle.Render("All sessions cleared."))
	return nil
}

// =============================================================================
// CHECK
// =============================================================================

// HandleCheck reports whether the backend holds processed documents.
func HandleCheck(args []string) error {
	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	resp, err := app.Client.CheckDocuments(context.Background())
	if err != nil {
		return err
	}

	if resp.OK() {
		fmt.Println(successStyle.Render("Backend has processed documents."))
	} else {
		fmt.Println(warningStyle.Render("Backend has no processed documents."))
	}
	return nil
}

// =============================================================================
// EXPORT
// =============================================================================

// HandleExport writes a mirrored transcript to disk without touching
// the backend. Flags: --session chat|visualize (default chat),
// --format md|json (default md), --output <dir>.
func HandleExport(args []string) error {
	parser := NewArgParser(args)

	kind := model.KindChat
	switch parser.FlagOr("session", "chat") {
	case "chat":
		kind = model.KindChat
	case "visualize", "viz":
		kind = model.KindVisualize
	default:
		return fmt.Errorf("unknown session %q (want chat or visualize)", parser.Flag("session"))
	}

	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	state := app.Reducer.Store().Get(kind)
	if len(state.Transcript) == 0 {
		return fmt.Errorf("no %s transcript to export", kind)
	}

	opts := exportOptions(app)
	if dir := parser.Flag("output"); dir != "" {
		opts.OutputDir = dir
	}

	var path string
	switch parser.FlagOr("format", "md") {
	case "md", "markdown":
		path, err = export.ExportMarkdown(&state, opts)
	case "json":
		path, err = export.ExportJSON(&state, opts)
	default:
		return fmt.Errorf("unknown format %q (want md or json)", parser.Flag("format"))
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", successStyle.Render("Exported"), path)
	return nil
}

// =============================================================================
// VERSION AND USAGE
// =============================================================================

// HandleVersion prints build information.
func HandleVersion(args []string) error {
	fmt.Printf("finchat %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	return nil
}

// PrintUsage writes the top-level usage text.
func PrintUsage() {
	fmt.Fprint(os.Stderr, `finchat - chat with your documents and visualize their data

Usage:
  finchat                Launch the full-screen interface
  finchat chat           Line-mode document chat
  finchat visualize      Line-mode data visualization
  finchat clear          Clear backend uploads and local sessions
  finchat export         Export a mirrored transcript
  finchat check          Ask the backend whether documents exist
  finchat version        Print version information

Chat and visualize flags:
  --file <path>          Upload a document before the prompt loop
  --advanced             Start with advanced charts (visualize only)

Export flags:
  --session <name>       chat (default) or visualize
  --format <fmt>         md (default) or json
  --output <dir>         Destination directory

Environment:
  FINCHAT_BACKEND_URL    Override the backend base URL
  FINCHAT_DATA_DIR       Override the data directory
  NO_COLOR               Disable colored output
`)
}
