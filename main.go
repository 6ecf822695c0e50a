// finchat TUI - Chat with your documents and visualize their data.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/finchat-tui/internal/cli"
	"github.com/jeranaias/finchat-tui/internal/config"
	"github.com/jeranaias/finchat-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.2.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse(os.Args[1:])

	var err error
	switch cmd {
	case cli.CmdTUI:
		err = runTUI()
	case cli.CmdChat:
		err = cli.HandleChat(args)
	case cli.CmdVisualize:
		err = cli.HandleVisualize(args)
	case cli.CmdClear:
		err = cli.HandleClear(args)
	case cli.CmdExport:
		err = cli.HandleExport(args)
	case cli.CmdCheck:
		err = cli.HandleCheck(args)
	case cli.CmdVersion:
		err = cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.PrintUsage()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI launches the full-screen interface, falling back to the
// line-mode REPL when there is no usable terminal.
func runTUI() error {
	if !cli.Interactive() {
		return cli.HandleChat(nil)
	}

	app, err := cli.NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	m := chat.New(app.Reducer, app.Client, app.Config)
	program := tea.NewProgram(m, tea.WithAltScreen())

	// Hot-reload display settings when the config file changes on disk
	if path, err := config.ConfigPath(); err == nil {
		watcher, werr := config.NewWatcher(path,
			func(cfg *config.Config) {
				program.Send(chat.ConfigReloadedMsg{Config: cfg})
			},
			func(error) {},
		)
		if werr == nil {
			if watcher.Watch() == nil {
				defer watcher.Close()
			}
		}
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run interface: %w", err)
	}
	return nil
}
