package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/textan/internal/export"
	"github.com/verte-zerg/textan/internal/model"
	"github.com/verte-zerg/textan/internal/session"
	"github.com/verte-zerg/textan/internal/store"
)

func newTestModel(t *testing.T, opts Options) *Model {
	t.Helper()
	m := NewModel(opts)
	t.Cleanup(m.Close)
	return m
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestStartNavigation(t *testing.T) {
	m := newTestModel(t, Options{})
	if m.screen != screenStart {
		t.Fatalf("expected start screen, got %v", m.screen)
	}
	send(m, key(tea.KeyDown), key(tea.KeyEnter))
	if m.screen != screenAboutProgram {
		t.Fatalf("expected about program screen, got %v", m.screen)
	}
	send(m, key(tea.KeyEsc))
	if m.screen != screenStart {
		t.Fatalf("expected back on start screen, got %v", m.screen)
	}
	send(m, key(tea.KeyUp), key(tea.KeyUp))
	if m.startIndex != len(startButtons)-1 {
		t.Fatalf("expected wrap to last button, got %d", m.startIndex)
	}
	if cmd := send(m, key(tea.KeyEnter)); !isQuit(cmd) {
		t.Fatalf("expected exit button to quit")
	}
}

func TestInfoScreensReturnToEditor(t *testing.T) {
	m := newTestModel(t, Options{})
	send(m, key(tea.KeyEnter))
	if m.screen != screenEditor {
		t.Fatalf("expected editor screen, got %v", m.screen)
	}
	for _, k := range []tea.KeyType{tea.KeyF1, tea.KeyF2, tea.KeyF3, tea.KeyF4} {
		send(m, key(k))
		if m.screen == screenEditor {
			t.Fatalf("expected %v to open an info screen", k)
		}
	}
	send(m, key(tea.KeyEsc))
	if m.screen != screenEditor {
		t.Fatalf("expected return to editor, got %v", m.screen)
	}
	if !strings.Contains(m.View(), "Analysis results") {
		t.Fatalf("expected editor view")
	}
}

func TestEachScreenArmsFreshWatchdog(t *testing.T) {
	m := newTestModel(t, Options{})
	m.armWatchdog()
	first := m.watchdog
	send(m, key(tea.KeyEnter))
	if m.watchdog == first {
		t.Fatalf("expected a new watchdog for the editor screen")
	}
	select {
	case <-first.Done():
	default:
		t.Fatalf("expected previous watchdog to be stopped")
	}
}

func TestAnalyzeUpdatesResults(t *testing.T) {
	m := newTestModel(t, Options{})
	send(m, key(tea.KeyEnter))
	m.editor.SetValue("Is it here? Yes. Run! and then")
	send(m, key(tea.KeyCtrlA))

	res, ok := m.session.Result()
	if !ok {
		t.Fatalf("expected a result after analysis")
	}
	want := model.AnalysisResult{SentenceCount: 3, WordCount: 7, DeclarativeCount: 1, QuestionCount: 1, ExclamatoryCount: 1}
	if res != want {
		t.Fatalf("result = %+v, want %+v", res, want)
	}
	if m.session.State() != session.Analyzed {
		t.Fatalf("expected analyzed state, got %v", m.session.State())
	}
	if len(m.fragments) != 4 {
		t.Fatalf("expected 4 preview fragments, got %d", len(m.fragments))
	}
	panel := m.renderResults()
	for _, want := range []string{"Sentences:   3", "Words:       7", "Declarative: 1", "Questions:   1", "Exclamatory: 1"} {
		if !strings.Contains(panel, want) {
			t.Fatalf("results panel missing %q:\n%s", want, panel)
		}
	}
}

func TestAnalyzeEmptyWarns(t *testing.T) {
	m := newTestModel(t, Options{})
	send(m, key(tea.KeyEnter))
	m.editor.SetValue("   ")
	send(m, key(tea.KeyCtrlA))
	if m.statusKind != statusWarn {
		t.Fatalf("expected warning status, got %q", m.status)
	}
	if _, ok := m.session.Result(); ok {
		t.Fatalf("expected no result")
	}
}

func TestClearResetsEditor(t *testing.T) {
	m := newTestModel(t, Options{})
	send(m, key(tea.KeyEnter))
	m.editor.SetValue("Done.")
	send(m, key(tea.KeyCtrlA), key(tea.KeyCtrlL))
	if m.editor.Value() != "" || m.session.State() != session.Empty || m.fragments != nil {
		t.Fatalf("expected cleared editor and session")
	}
}

func TestSaveWithOverwriteConfirmation(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	m := newTestModel(t, Options{Config: model.AppConfig{ExportDir: dir}, Store: st})
	send(m, key(tea.KeyEnter))
	m.editor.SetValue("  Hello there. How are you?  ")
	send(m, key(tea.KeyCtrlA), key(tea.KeyCtrlS))
	if m.prompt != promptSavePath {
		t.Fatalf("expected save prompt")
	}
	target := filepath.Join(dir, defaultExportName)
	if got := m.pathInput.Value(); got != target {
		t.Fatalf("default path = %q, want %q", got, target)
	}
	send(m, key(tea.KeyEnter))
	if m.prompt != promptNone || !strings.HasPrefix(m.status, "Saved to") {
		t.Fatalf("expected saved status, got %q", m.status)
	}
	payload, err := export.ParseFile(target)
	if err != nil {
		t.Fatalf("parse saved file: %v", err)
	}
	if payload.Text != "Hello there. How are you?" || payload.Result.QuestionCount != 1 {
		t.Fatalf("unexpected payload: %+v", payload)
	}

	send(m, key(tea.KeyCtrlS), key(tea.KeyEnter))
	if m.prompt != promptOverwrite {
		t.Fatalf("expected overwrite confirmation, status %q", m.status)
	}
	send(m, runes("n"))
	if m.prompt != promptNone {
		t.Fatalf("expected prompt closed after decline")
	}
	send(m, key(tea.KeyCtrlS), key(tea.KeyEnter), runes("y"))
	if !strings.HasPrefix(m.status, "Saved to") {
		t.Fatalf("expected overwrite to save, got %q", m.status)
	}

	entries, err := st.ListExports(context.Background(), model.HistoryFilter{})
	if err != nil {
		t.Fatalf("list exports: %v", err)
	}
	if len(entries) != 2 || entries[0].Result.SentenceCount != 2 || entries[0].TextChars != 25 {
		t.Fatalf("unexpected history: %+v", entries)
	}
}

func TestSaveAppendsExtension(t *testing.T) {
	dir := t.TempDir()
	m := newTestModel(t, Options{})
	send(m, key(tea.KeyEnter))
	m.editor.SetValue("Done.")
	send(m, key(tea.KeyCtrlA), key(tea.KeyCtrlS))
	m.pathInput.SetValue(filepath.Join(dir, "report"))
	send(m, key(tea.KeyEnter))
	if _, err := os.Stat(filepath.Join(dir, "report.txt")); err != nil {
		t.Fatalf("expected report.txt: %v", err)
	}
}

func TestSaveRequiresCurrentAnalysis(t *testing.T) {
	m := newTestModel(t, Options{})
	send(m, key(tea.KeyEnter))
	send(m, key(tea.KeyCtrlS))
	if m.prompt != promptNone || m.statusKind != statusWarn {
		t.Fatalf("expected warning without analysis, got %q", m.status)
	}

	m.editor.SetValue("First.")
	send(m, key(tea.KeyCtrlA))
	m.editor.SetValue("Second text.")
	send(m, key(tea.KeyCtrlS))
	if m.prompt != promptNone || m.statusKind != statusWarn {
		t.Fatalf("expected stale result to block saving, got %q", m.status)
	}
}

func TestKeepStaleExportsPreviousCounts(t *testing.T) {
	m := newTestModel(t, Options{Config: model.AppConfig{KeepStale: true}})
	send(m, key(tea.KeyEnter))
	m.editor.SetValue("First.")
	send(m, key(tea.KeyCtrlA))
	m.editor.SetValue("Second text here")
	send(m, key(tea.KeyCtrlS))
	if m.prompt != promptSavePath {
		t.Fatalf("expected save prompt in keep-stale mode, got %q", m.status)
	}
	if m.pending.Text != "Second text here" || m.pending.Result.WordCount != 1 {
		t.Fatalf("unexpected pending payload: %+v", m.pending)
	}
}

func TestInitialFileLoadsIntoEditor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(path, []byte("Line one.\nLine two?\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	m := newTestModel(t, Options{Config: model.AppConfig{InitialFile: path}})
	if m.screen != screenEditor {
		t.Fatalf("expected editor screen")
	}
	if m.editor.Value() != "Line one.\nLine two?" {
		t.Fatalf("unexpected editor value %q", m.editor.Value())
	}
	if m.session.State() != session.Loaded {
		t.Fatalf("expected loaded state, got %v", m.session.State())
	}
}

func TestLoadedTabsSurviveSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tabs.txt")
	loaded := "Col1\tCol2 is here.\nSecond line!"
	if err := os.WriteFile(path, []byte(loaded+"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	m := newTestModel(t, Options{Config: model.AppConfig{InitialFile: path, ExportDir: dir}})
	send(m, key(tea.KeyCtrlA), key(tea.KeyCtrlS), key(tea.KeyEnter))
	if !strings.HasPrefix(m.status, "Saved to") {
		t.Fatalf("expected saved status, got %q", m.status)
	}
	payload, err := export.ParseFile(filepath.Join(dir, defaultExportName))
	if err != nil {
		t.Fatalf("parse saved file: %v", err)
	}
	if payload.Text != loaded {
		t.Fatalf("exported text %q, want %q", payload.Text, loaded)
	}
	if payload.Result.SentenceCount != 2 || payload.Result.WordCount != 6 {
		t.Fatalf("unexpected counts: %+v", payload.Result)
	}

	m.editor.SetValue("Edited.")
	send(m, key(tea.KeyCtrlA))
	if m.session.Text() != "Edited." {
		t.Fatalf("expected edit to reach the session, got %q", m.session.Text())
	}
}

func TestInitialFileMissingShowsError(t *testing.T) {
	m := newTestModel(t, Options{Config: model.AppConfig{InitialFile: filepath.Join(t.TempDir(), "none.txt")}})
	if m.statusKind != statusError || m.status == "" {
		t.Fatalf("expected error status, got %q", m.status)
	}
	if m.session.State() != session.Empty {
		t.Fatalf("expected empty session")
	}
}

func TestLogoPlaceholder(t *testing.T) {
	m := newTestModel(t, Options{Config: model.AppConfig{LogoPath: filepath.Join(t.TempDir(), "missing.txt")}})
	if m.logo != logoPlaceholder {
		t.Fatalf("expected placeholder, got %q", m.logo)
	}
	if !strings.Contains(m.View(), logoPlaceholder) {
		t.Fatalf("expected placeholder on start screen")
	}

	path := filepath.Join(t.TempDir(), "logo.txt")
	if err := os.WriteFile(path, []byte("[ TA ]\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	m = newTestModel(t, Options{Config: model.AppConfig{LogoPath: path}})
	if m.logo != "[ TA ]" {
		t.Fatalf("unexpected logo %q", m.logo)
	}
}

func TestCopyContact(t *testing.T) {
	var copied string
	orig := copyToClipboard
	t.Cleanup(func() { copyToClipboard = orig })
	copyToClipboard = func(s string) error {
		copied = s
		return nil
	}

	m := newTestModel(t, Options{Config: model.AppConfig{Author: "Text Analyzer maintainers", Contact: "textan@example.org"}})
	send(m, key(tea.KeyF4), runes("c"))
	if copied != "textan@example.org" || m.statusKind != statusInfo {
		t.Fatalf("expected contact copied, got %q (%q)", copied, m.status)
	}

	copyToClipboard = func(string) error { return errors.New("no clipboard") }
	send(m, runes("c"))
	if m.statusKind != statusError {
		t.Fatalf("expected clipboard error status, got %q", m.status)
	}
}

func TestIdleExpiryQuits(t *testing.T) {
	m := newTestModel(t, Options{Config: model.AppConfig{IdleTimeout: 20 * time.Millisecond}})
	wait := m.armWatchdog()
	msg := wait()
	if _, ok := msg.(idleExpiredMsg); !ok {
		t.Fatalf("expected idle expiry message, got %T", msg)
	}
	_, cmd := m.Update(msg)
	if !isQuit(cmd) || !m.IdleExpired() {
		t.Fatalf("expected quit on idle expiry")
	}
}

func TestStaleIdleMessageIgnored(t *testing.T) {
	m := newTestModel(t, Options{})
	m.armWatchdog()
	_, cmd := m.Update(idleExpiredMsg{gen: m.idleGen - 1})
	if cmd != nil || m.IdleExpired() {
		t.Fatalf("expected stale expiry to be ignored")
	}
}

func TestStoppedWatchdogYieldsNoMessage(t *testing.T) {
	m := newTestModel(t, Options{})
	wait := m.armWatchdog()
	m.Close()
	if msg := wait(); msg != nil {
		t.Fatalf("expected nil message, got %T", msg)
	}
}

func TestFooterShowsEditorHints(t *testing.T) {
	m := newTestModel(t, Options{Config: model.AppConfig{IdleTimeout: 90 * time.Second}})
	send(m, key(tea.KeyEnter))
	out := m.renderFooter()
	for _, want := range []string{"ctrl+a analyze", "ctrl+s save", "idle exit 1m30s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("footer missing %q: %s", want, out)
		}
	}
}
