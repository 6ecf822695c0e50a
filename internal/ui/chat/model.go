// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/finchat-tui/internal/config"
	"github.com/jeranaias/finchat-tui/internal/export"
	"github.com/jeranaias/finchat-tui/internal/model"
	"github.com/jeranaias/finchat-tui/internal/session"
	"github.com/jeranaias/finchat-tui/internal/ui/styles"
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the root Bubble Tea model for finchat.
type Model struct {
	reducer *session.Reducer
	backend session.Backend
	cfg     *config.Config
	theme   *styles.Theme
	keys    KeyMap

	// Components
	input      textinput.Model
	viewport   viewport.Model
	spin       spinner.Model
	picker     filepicker.Model
	help       help.Model
	renderer   *glamour.TermRenderer

	// View state
	active       model.SessionKind
	advanced     bool
	picking      bool
	showHelp     bool
	confirmClear bool
	statusNote   string
	width        int
	height       int
	ready        bool
}

// New creates the root model over an already-hydrated session store.
func New(reducer *session.Reducer, backend session.Backend, cfg *config.Config) *Model {
	theme := styles.NewTheme()

	ti := textinput.New()
	ti.Placeholder = "Ask a question about your document..."
	ti.Prompt = "> "
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	fp := filepicker.New()
	fp.AllowedTypes = []string{".pdf", ".csv", ".txt", ".xlsx", ".docx"}
	if home, err := os.UserHomeDir(); err == nil {
		fp.CurrentDirectory = home
	}

	return &Model{
		reducer:  reducer,
		backend:  backend,
		cfg:      cfg,
		theme:    theme,
		keys:     DefaultKeyMap(),
		input:    ti,
		spin:     sp,
		picker:   fp,
		help:     help.New(),
		active:   model.KindChat,
		advanced: cfg.Backend.AdvancedVisuals,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spin.Tick}
	if cmd := checkDocumentsCmd(m.backend); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// state returns a snapshot of the active session.
func (m *Model) state() model.SessionState {
	return m.reducer.Store().Get(m.active)
}

// busy reports whether the active session has a call in flight.
func (m *Model) busy() bool {
	st := m.state()
	return st.IsLoading || st.IsProcessing
}

// exportOptions resolves the export directory from config.
func (m *Model) exportOptions() *export.Options {
	opts := export.DefaultOptions()
	if m.cfg.Storage.ExportDir != "" {
		opts.OutputDir = m.cfg.Storage.ExportDir
	}
	return opts
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		// Keep ticking so the spinner resumes cleanly on the next call
		return m, m.spin.Tick

	case fileReadMsg:
		if msg.Err != nil {
			m.statusNote = styles.RenderError(fmt.Sprintf("Could not read file: %v", msg.Err))
			return m, nil
		}
		m.reducer.SelectFile(msg.Kind, msg.File)
		file, ok := m.reducer.ApplyDocument(msg.Kind)
		if !ok {
			return m, nil
		}
		m.statusNote = styles.RenderInfo(fmt.Sprintf("Processing %s...", file.Name))
		m.refreshTranscript()
		return m, tea.Batch(processDocumentCmd(m.backend, msg.Kind, file), m.spin.Tick)

	case documentResultMsg:
		m.reducer.ReconcileDocument(msg.Kind, msg.Name, msg.Err)
		if msg.Err != nil {
			m.statusNote = styles.RenderError(fmt.Sprintf("Processing failed: %v", msg.Err))
		} else {
			m.statusNote = styles.RenderSuccess(fmt.Sprintf("%s processed", msg.Name))
		}
		m.refreshTranscript()
		return m, nil

	case askResultMsg:
		m.reducer.ReconcilePrompt(msg.Kind, msg.Resp, msg.Err)
		m.refreshTranscript()
		return m, nil

	case clearResultMsg:
		if msg.Err != nil {
			m.statusNote = styles.RenderError(session.ClearFailureMessage)
		} else {
			m.statusNote = styles.RenderSuccess("Session cleared")
		}
		m.refreshTranscript()
		return m, nil

	case fileWrittenMsg:
		if msg.Err != nil {
			m.statusNote = styles.RenderError(fmt.Sprintf("Save failed: %v", msg.Err))
		} else {
			m.statusNote = styles.RenderSuccess(fmt.Sprintf("Saved %s", msg.Path))
		}
		return m, nil

	case checkDocumentsMsg:
		// Advisory only: a mirror claiming a processed document that
		// the backend no longer holds means the next ask will fail.
		if msg.Err != nil || msg.Resp == nil || msg.Resp.OK() {
			return m, nil
		}
		for _, kind := range []model.SessionKind{model.KindChat, model.KindVisualize} {
			st := m.reducer.Store().Get(kind)
			if st.Document != nil && st.Document.Processed {
				m.statusNote = styles.RenderWarning("Backend restarted; re-upload your document (C-o)")
				break
			}
		}
		return m, nil

	case ConfigReloadedMsg:
		if msg.Config != nil {
			m.cfg.UI = msg.Config.UI
			m.resize(m.width, m.height)
			m.refreshTranscript()
			m.statusNote = styles.RenderInfo("Configuration reloaded")
		}
		return m, nil
	}

	if m.picking {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		cmds = append(cmds, cmd)
		if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
			m.picking = false
			cmds = append(cmds, readFileCmd(m.active, path))
		}
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// handleKey processes a key press.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// File picker captures all other keys while open
	if m.picking {
		if msg.String() == "esc" {
			m.picking = false
			return m, nil
		}
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		cmds = append(cmds, cmd)
		if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
			m.picking = false
			cmds = append(cmds, readFileCmd(m.active, path))
		}
		return m, tea.Batch(cmds...)
	}

	if m.confirmClear && !key.Matches(msg, m.keys.Clear) {
		m.confirmClear = false
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.SwitchTab):
		if m.active == model.KindChat {
			m.active = model.KindVisualize
			m.input.Placeholder = "Describe the chart you want..."
		} else {
			m.active = model.KindChat
			m.input.Placeholder = "Ask a question about your document..."
		}
		m.statusNote = ""
		m.refreshTranscript()
		return m, nil

	case key.Matches(msg, m.keys.OpenFile):
		m.picking = true
		return m, m.picker.Init()

	case key.Matches(msg, m.keys.Clear):
		// Clearing drops the backend uploads too, so ask twice
		if !m.confirmClear {
			m.confirmClear = true
			m.statusNote = styles.RenderWarning("Press C-x again to clear the session")
			return m, nil
		}
		m.confirmClear = false
		m.statusNote = ""
		return m, clearCmd(m.reducer, m.active)

	case key.Matches(msg, m.keys.ToggleMode):
		if m.active == model.KindVisualize {
			m.advanced = !m.advanced
			if m.advanced {
				m.statusNote = styles.RenderInfo("Advanced charts on")
			} else {
				m.statusNote = styles.RenderInfo("Advanced charts off")
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.SaveImage):
		state := m.state()
		if state.LatestArtifact == nil {
			m.statusNote = styles.RenderWarning("No chart to save")
			return m, nil
		}
		return m, saveImageCmd(state, m.exportOptions())

	case key.Matches(msg, m.keys.Export):
		state := m.state()
		if len(state.Transcript) == 0 {
			m.statusNote = styles.RenderWarning("Nothing to export")
			return m, nil
		}
		return m, exportCmd(state, m.exportOptions())

	case key.Matches(msg, m.keys.Submit):
		prompt := m.input.Value()
		if !m.reducer.ApplyPrompt(m.active, prompt) {
			if !m.state().CanAsk() {
				m.statusNote = styles.RenderWarning("Process a document first (C-o)")
			}
			return m, nil
		}
		m.input.Reset()
		m.statusNote = ""
		m.refreshTranscript()
		advanced := m.active == model.KindVisualize && m.advanced
		return m, tea.Batch(askCmd(m.backend, m.active, prompt, advanced), m.spin.Tick)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// resize lays the components out for a new terminal size.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
	m.help.Width = width

	contentHeight := height - chromeHeight
	if contentHeight < 3 {
		contentHeight = 3
	}
	if !m.ready {
		m.viewport = viewport.New(width, contentHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = contentHeight
	}

	wrap := width - 10
	if wrap < 20 {
		wrap = 20
	}
	if m.cfg.UI.Markdown {
		if r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrap),
		); err == nil {
			m.renderer = r
		}
	}
}

// refreshTranscript re-renders the active transcript into the viewport
// and pins the view to the newest message.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript(m.state()))
	m.viewport.GotoBottom()
}
