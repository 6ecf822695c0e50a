// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/jeranaias/finchat-tui/internal/model"
	"github.com/jeranaias/finchat-tui/internal/util"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for session exporters.
type Exporter interface {
	// Export converts a session to the target format and returns the content.
	Export(state *model.SessionState) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g., ".md").
	FileExtension() string
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files will be saved.
	// Default: current working directory
	OutputDir string

	// OpenAfterExport opens the file in the default application.
	OpenAfterExport bool

	// IncludeMetadata includes a metadata header (session, document, counts).
	IncludeMetadata bool

	// IncludeTimestamps includes per-message timestamps.
	IncludeTimestamps bool
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:         ".",
		OpenAfterExport:   false,
		IncludeMetadata:   true,
		IncludeTimestamps: true,
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile exports a session to a file using the specified exporter.
// Returns the output file path or an error.
func ExportToFile(state *model.SessionState, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(state)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s%s",
		sanitizeFilename(exportLabel(state)),
		timestamp,
		exporter.FileExtension(),
	)

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	outputPath := filepath.Join(opts.OutputDir, filename)
	if err := os.WriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	if opts.OpenAfterExport {
		if err := openFile(outputPath); err != nil {
			// Non-fatal - file was still created successfully
			fmt.Printf("Warning: Could not open file: %v\n", err)
		}
	}

	return outputPath, nil
}

// ExportMarkdown exports a session to Markdown format.
func ExportMarkdown(state *model.SessionState, opts *Options) (string, error) {
	return ExportToFile(state, NewMarkdownExporter(opts), opts)
}

// ExportJSON exports a session to JSON format.
func ExportJSON(state *model.SessionState, opts *Options) (string, error) {
	return ExportToFile(state, NewJSONExporter(), opts)
}

// =============================================================================
// ARTIFACT EXPORT
// =============================================================================

// SaveArtifactPNG decodes the session's latest visualization image and
// writes it as a PNG file. Returns the output file path.
func SaveArtifactPNG(state *model.SessionState, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if state == nil || state.LatestArtifact == nil || state.LatestArtifact.Image == "" {
		return "", fmt.Errorf("no visualization image to save")
	}

	raw, err := base64.StdEncoding.DecodeString(state.LatestArtifact.Image)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.png", sanitizeFilename(exportLabel(state)), timestamp)
	outputPath := filepath.Join(opts.OutputDir, filename)

	if err := util.AtomicWriteFile(outputPath, raw, 0644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return outputPath, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// exportLabel derives a base filename from the session.
func exportLabel(state *model.SessionState) string {
	if state == nil {
		return "session"
	}
	if state.Document != nil && state.Document.Name != "" {
		return fmt.Sprintf("%s_%s", state.Kind, state.Document.Name)
	}
	return string(state.Kind)
}

// sanitizeFilename removes or replaces characters that are invalid in
// filenames.
func sanitizeFilename(s string) string {
	maxLen := 50
	runes := []rune(s)
	if len(runes) > maxLen {
		s = string(runes[:maxLen])
	}

	// Problematic on Windows and Unix
	replacer := map[rune]rune{
		'/':  '-',
		'\\': '-',
		':':  '-',
		'*':  '-',
		'?':  '-',
		'"':  '-',
		'<':  '-',
		'>':  '-',
		'|':  '-',
		' ':  '_',
		'\t': '_',
		'\n': '_',
		'\r': '_',
	}

	result := []rune{}
	for _, r := range s {
		if replacement, found := replacer[r]; found {
			result = append(result, replacement)
		} else if r < 32 || r == 127 {
			result = append(result, '-')
		} else {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return "session"
	}
	return string(result)
}

// openFile opens a file in the default application for the OS.
func openFile(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", `""`, path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
