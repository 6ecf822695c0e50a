// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared lipgloss styles for CLI output.

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/finchat-tui/internal/ui/styles"
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	roleStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	warningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	dimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)
)
