package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/textan/internal/analyzer"
	"github.com/verte-zerg/textan/internal/export"
	"github.com/verte-zerg/textan/internal/model"
	"github.com/verte-zerg/textan/internal/session"
	"github.com/verte-zerg/textan/internal/textfile"
)

const defaultExportName = "analysis.txt"

func (m *Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.picking {
		return m.updatePicker(msg)
	}
	switch m.prompt {
	case promptSavePath:
		return m.updateSavePrompt(msg)
	case promptOverwrite:
		return m.updateOverwrite(msg)
	}
	switch msg.String() {
	case "ctrl+a":
		m.analyze()
		return m, nil
	case "ctrl+o":
		return m, m.openPicker()
	case "ctrl+s":
		return m, m.beginSave()
	case "ctrl+l":
		m.clear()
		return m, nil
	case "esc":
		return m, m.switchScreen(screenStart)
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// syncSession loads the editor buffer into the session once it has been
// edited. A buffer that only differs from a loaded file by the textarea's
// tab expansion is not an edit.
func (m *Model) syncSession() {
	text := m.editor.Value()
	if text == m.synced {
		return
	}
	m.session.Load(text)
	m.synced = text
	m.fragments = nil
}

func (m *Model) analyze() {
	m.syncSession()
	res, err := m.session.Analyze()
	if err != nil {
		if errors.Is(err, analyzer.ErrEmptyInput) {
			m.setStatus(statusWarn, "Enter some text or load a file before running the analysis.")
			return
		}
		m.setStatus(statusError, err.Error())
		return
	}
	m.fragments = analyzer.Segment(m.session.Text())
	m.log.Debugf("analyzed %d sentences, %d words", res.SentenceCount, res.WordCount)
	m.setStatus(statusInfo, "Analysis complete.")
}

func (m *Model) clear() {
	m.session.Clear()
	m.editor.Reset()
	m.synced = ""
	m.fragments = nil
	m.setStatus(statusInfo, "Cleared.")
}

func (m *Model) openPicker() tea.Cmd {
	fp := filepicker.New()
	fp.AllowedTypes = []string{textfile.Ext}
	fp.AutoHeight = true
	dir, err := os.Getwd()
	if err != nil || dir == "" {
		dir = "."
	}
	fp.CurrentDirectory = dir
	m.picker = fp
	m.picking = true
	m.setStatus(statusInfo, "Select a .txt file (esc to cancel).")
	cmds := []tea.Cmd{m.picker.Init()}
	if m.width > 0 && m.height > 0 {
		size := tea.WindowSizeMsg{Width: m.width, Height: m.height}
		cmds = append(cmds, func() tea.Msg { return size })
	}
	return tea.Batch(cmds...)
}

func (m *Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.picking = false
		m.setStatus(statusInfo, "Load cancelled.")
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.picking = false
		m.loadFile(path)
		return m, cmd
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.setStatus(statusWarn, filepath.Base(path)+" is not a .txt file.")
	}
	return m, cmd
}

func (m *Model) beginSave() tea.Cmd {
	m.syncSession()
	payload, err := m.session.Export()
	if err != nil {
		if errors.Is(err, session.ErrNothingToExport) {
			m.setStatus(statusWarn, "Nothing to save: enter text and run the analysis first.")
			return nil
		}
		m.setStatus(statusError, err.Error())
		return nil
	}
	m.pending = payload
	m.pathInput = textinput.New()
	m.pathInput.Prompt = "Save as: "
	m.pathInput.Placeholder = defaultExportName
	m.pathInput.CharLimit = 4096
	if m.width > 0 {
		m.pathInput.Width = m.editor.Width()
	}
	m.pathInput.SetValue(filepath.Join(m.cfg.ExportDir, defaultExportName))
	m.prompt = promptSavePath
	m.editor.Blur()
	m.setStatus(statusInfo, "Enter a file name (.txt is added when missing), esc to cancel.")
	return m.pathInput.Focus()
}

func (m *Model) updateSavePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.cancelOverlay()
		m.setStatus(statusInfo, "Save cancelled.")
		return m, m.editor.Focus()
	case "enter":
		path := strings.TrimSpace(m.pathInput.Value())
		if path == "" {
			m.setStatus(statusWarn, "File name is empty.")
			return m, nil
		}
		return m, m.save(path, false)
	}
	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func (m *Model) updateOverwrite(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y":
		return m, m.save(m.pendingAt, true)
	case "n", "esc":
		m.cancelOverlay()
		m.setStatus(statusInfo, "Save cancelled.")
		return m, m.editor.Focus()
	}
	return m, nil
}

func (m *Model) save(path string, overwrite bool) tea.Cmd {
	saved, err := export.SaveFile(path, m.pending, overwrite)
	if errors.Is(err, export.ErrExists) {
		m.prompt = promptOverwrite
		m.pendingAt = saved
		m.setStatus(statusWarn, "File "+saved+" already exists. Overwrite? (y/n)")
		return nil
	}
	if err != nil {
		m.log.Errorf("save %s: %v", path, err)
		m.cancelOverlay()
		m.setStatus(statusError, err.Error())
		return m.editor.Focus()
	}
	m.log.Infof("saved export to %s", saved)
	m.recordHistory(saved, m.pending)
	m.cancelOverlay()
	m.setStatus(statusInfo, "Saved to "+saved)
	return m.editor.Focus()
}

func (m *Model) recordHistory(path string, p model.ExportPayload) {
	if m.store == nil {
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	entry := model.HistoryEntry{
		SavedAt:   time.Now(),
		Path:      path,
		TextChars: utf8.RuneCountInString(p.Text),
		Result:    p.Result,
	}
	if _, err := m.store.InsertExport(context.Background(), entry); err != nil {
		m.log.Warnf("failed to record export history: %v", err)
	}
}

func (m *Model) cancelOverlay() {
	m.picking = false
	m.prompt = promptNone
	m.pending = model.ExportPayload{}
	m.pendingAt = ""
	m.pathInput.Blur()
}
