// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-mode REPL for document chat and visualization.
//
// This is the plain-terminal front end used when stdout is not a TTY
// or when the user asks for it explicitly. It drives the same session
// reducer as the full-screen interface, so optimistic updates, the
// local mirror, and error handling behave identically.

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/finchat-tui/internal/export"
	"github.com/jeranaias/finchat-tui/internal/model"
	"github.com/jeranaias/finchat-tui/internal/session"
	"github.com/jeranaias/finchat-tui/internal/util"
)

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

// HandleChat runs the line-mode document chat REPL.
func HandleChat(args []string) error {
	return runREPL(model.KindChat, args)
}

// HandleVisualize runs the line-mode visualization REPL.
func HandleVisualize(args []string) error {
	return runREPL(model.KindVisualize, args)
}

// runREPL drives one session kind until the user exits.
func runREPL(kind model.SessionKind, args []string) error {
	parser := NewArgParser(args)

	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	advanced := app.Config.Backend.AdvancedVisuals || parser.BoolFlag("advanced")

	reader := NewLineReader()
	defer reader.Close()

	fmt.Printf("%s %s\n", promptStyle.Render("finchat"), dimStyle.Render(kind.Title()))
	fmt.Println(dimStyle.Render("Type /help for commands, /exit to quit."))

	// --file uploads before the loop starts
	if path := parser.Flag("file"); path != "" {
		if err := openDocument(app, kind, path); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		}
	}
	printDocumentLine(app, kind)

	for {
		input, err := reader.ReadInput(promptStyle.Render(string(kind) + "> "))
		if err != nil {
			// Ctrl+C or EOF ends the session cleanly
			if err == liner.ErrPromptAborted {
				fmt.Println()
			}
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			keepGoing, adv, err := handleSlashCommand(app, kind, input, advanced)
			advanced = adv
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
			}
			if !keepGoing {
				return nil
			}
			continue
		}

		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			return nil
		}

		askOnce(app, kind, input, advanced)
	}
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand dispatches one /command. It returns whether the
// loop should continue and the (possibly toggled) advanced flag.
func handleSlashCommand(app *App, kind model.SessionKind, input string, advanced bool) (bool, bool, error) {
	fields := strings.Fields(input)
	cmd := fields[0]

	switch cmd {
	case "/help":
		printREPLHelp(kind)
		return true, advanced, nil

	case "/exit", "/quit":
		return false, advanced, nil

	case "/open":
		if len(fields) < 2 {
			return true, advanced, fmt.Errorf("usage: /open <path>")
		}
		path := strings.Join(fields[1:], " ")
		err := openDocument(app, kind, path)
		printDocumentLine(app, kind)
		return true, advanced, err

	case "/clear":
		if err := app.Reducer.ClearSession(context.Background(), kind); err != nil {
			return true, advanced, fmt.Errorf("%s: %w", session.ClearFailureMessage, err)
		}
		fmt.Println(successStyle.Render("Session cleared."))
		return true, advanced, nil

	case "/advanced":
		if kind != model.KindVisualize {
			return true, advanced, fmt.Errorf("/advanced only applies to the visualize session")
		}
		advanced = !advanced
		if advanced {
			fmt.Println(successStyle.Render("Advanced charts on."))
		} else {
			fmt.Println(dimStyle.Render("Advanced charts off."))
		}
		return true, advanced, nil

	case "/save":
		state := app.Reducer.Store().Get(kind)
		opts := exportOptions(app)
		path, err := export.SaveArtifactPNG(&state, opts)
		if err != nil {
			return true, advanced, err
		}
		fmt.Printf("%s %s\n", successStyle.Render("Saved"), path)
		return true, advanced, nil

	case "/export":
		state := app.Reducer.Store().Get(kind)
		opts := exportOptions(app)
		path, err := export.ExportMarkdown(&state, opts)
		if err != nil {
			return true, advanced, err
		}
		fmt.Printf("%s %s\n", successStyle.Render("Exported"), path)
		return true, advanced, nil

	case "/check":
		resp, err := app.Client.CheckDocuments(context.Background())
		if err != nil {
			return true, advanced, err
		}
		if resp.OK() {
			fmt.Println(successStyle.Render("Backend has processed documents."))
		} else {
			fmt.Println(warningStyle.Render("Backend has no processed documents."))
		}
		return true, advanced, nil

	default:
		return true, advanced, fmt.Errorf("unknown command %s (try /help)", cmd)
	}
}

func printREPLHelp(kind model.SessionKind) {
	fmt.Println(dimStyle.Render("Commands:"))
	fmt.Println("  /open <path>   Upload and process a document")
	fmt.Println("  /clear         Clear the session and backend uploads")
	fmt.Println("  /export        Export the transcript as Markdown")
	if kind == model.KindVisualize {
		fmt.Println("  /save          Save the latest chart as PNG")
		fmt.Println("  /advanced      Toggle advanced charts")
	}
	fmt.Println("  /check         Ask the backend whether documents exist")
	fmt.Println("  /exit          Quit")
}

// =============================================================================
// SESSION ACTIONS
// =============================================================================

// openDocument reads a file from disk and runs the full process cycle.
func openDocument(app *App, kind model.SessionKind, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	app.Reducer.SelectFile(kind, model.FileSelection{
		Name: filepath.Base(path),
		Size: int64(len(data)),
		Data: data,
	})

	fmt.Println(dimStyle.Render("Processing..."))
	if _, err := app.Reducer.SubmitDocument(context.Background(), kind); err != nil {
		return err
	}

	state := app.Reducer.Store().Get(kind)
	if n := len(state.Transcript); n > 0 {
		fmt.Println(successStyle.Render(state.Transcript[n-1].Content))
	}
	return nil
}

// askOnce submits one prompt and prints the reply.
func askOnce(app *App, kind model.SessionKind, prompt string, advanced bool) {
	if !app.Reducer.SubmitPrompt(context.Background(), kind, prompt, advanced) {
		fmt.Println(warningStyle.Render("Process a document first with /open <path>."))
		return
	}

	state := app.Reducer.Store().Get(kind)
	if n := len(state.Transcript); n > 0 {
		last := state.Transcript[n-1]
		fmt.Printf("%s %s\n", roleStyle.Render(last.Role.DisplayName()+":"), last.Content)
		if last.HasArtifact() {
			fmt.Println(dimStyle.Render("A chart was generated. Use /save to write it as PNG."))
		}
	}
}

// printDocumentLine shows the active document, if any.
func printDocumentLine(app *App, kind model.SessionKind) {
	state := app.Reducer.Store().Get(kind)
	if state.Document == nil {
		fmt.Println(dimStyle.Render("No document loaded. Use /open <path>."))
		return
	}
	status := "not processed"
	if state.Document.Processed {
		status = "processed"
	}
	fmt.Printf("%s %s (%s, %s)\n",
		dimStyle.Render("Document:"),
		state.Document.Name,
		util.FormatBytes(state.Document.SizeBytes),
		status)
}

// exportOptions resolves the export directory from config.
func exportOptions(app *App) *export.Options {
	opts := export.DefaultOptions()
	if app.Config.Storage.ExportDir != "" {
		opts.OutputDir = app.Config.Storage.ExportDir
	}
	return opts
}
