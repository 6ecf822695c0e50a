// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// args.go - Argument parsing for the finchat CLI.

package cli

import (
	"strings"
)

// =============================================================================
// COMMANDS
// =============================================================================

// Command identifies a top-level CLI command.
type Command string

const (
	CmdTUI       Command = "tui"       // Default: full-screen interface
	CmdChat      Command = "chat"      // Line-mode document chat REPL
	CmdVisualize Command = "visualize" // Line-mode visualization REPL
	CmdClear     Command = "clear"     // Clear backend uploads and local mirror
	CmdExport    Command = "export"    // Export a mirrored transcript
	CmdCheck     Command = "check"     // Ask the backend whether documents exist
	CmdVersion   Command = "version"   // Print version information
	CmdHelp      Command = "help"      // Print usage
)

// Parse splits os.Args-style input into a command and its remaining
// arguments. No arguments means the full-screen interface.
func Parse(args []string) (Command, []string) {
	if len(args) == 0 {
		return CmdTUI, nil
	}
	switch args[0] {
	case "chat", "--no-tui":
		return CmdChat, args[1:]
	case "visualize", "viz":
		return CmdVisualize, args[1:]
	case "clear":
		return CmdClear, args[1:]
	case "export":
		return CmdExport, args[1:]
	case "check":
		return CmdCheck, args[1:]
	case "version", "--version", "-v":
		return CmdVersion, args[1:]
	case "help", "--help", "-h":
		return CmdHelp, args[1:]
	default:
		// Unknown word: treat it as a request for usage rather than
		// guessing at intent.
		return CmdHelp, args
	}
}

// =============================================================================
// ARG PARSER
// =============================================================================

// ArgParser provides flag and positional parsing for command arguments.
// It handles the formats used across finchat commands:
//
//	--flag value     Long flag with space-separated value
//	--flag=value     Long flag with equals sign
//	--flag           Boolean flag (no value)
type ArgParser struct {
	flags      map[string]string
	boolFlags  map[string]bool
	positional []string
}

// NewArgParser parses raw arguments into flags and positionals.
func NewArgParser(raw []string) *ArgParser {
	parser := &ArgParser{
		flags:     make(map[string]string),
		boolFlags: make(map[string]bool),
	}

	i := 0
	for i < len(raw) {
		arg := raw[i]

		if !strings.HasPrefix(arg, "-") {
			parser.positional = append(parser.positional, arg)
			i++
			continue
		}

		if strings.Contains(arg, "=") {
			parts := strings.SplitN(arg, "=", 2)
			name := strings.TrimLeft(parts[0], "-")
			value := parts[1]
			if value == "true" || value == "false" {
				parser.boolFlags[name] = value == "true"
			} else {
				parser.flags[name] = value
			}
			i++
			continue
		}

		name := strings.TrimLeft(arg, "-")
		if i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "-") {
			parser.flags[name] = raw[i+1]
			i += 2
		} else {
			parser.boolFlags[name] = true
			i++
		}
	}

	return parser
}

// Flag returns the value of a string flag, or empty string if absent.
func (p *ArgParser) Flag(name string) string {
	return p.flags[name]
}

// FlagOr returns the value of a string flag, or def if absent.
func (p *ArgParser) FlagOr(name, def string) string {
	if v, ok := p.flags[name]; ok {
		return v
	}
	return def
}

// BoolFlag returns true if a boolean flag was set.
func (p *ArgParser) BoolFlag(name string) bool {
	return p.boolFlags[name]
}

// Positional returns the nth positional argument, or empty string.
func (p *ArgParser) Positional(n int) string {
	if n < len(p.positional) {
		return p.positional[n]
	}
	return ""
}

// Positionals returns all positional arguments.
func (p *ArgParser) Positionals() []string {
	return p.positional
}
