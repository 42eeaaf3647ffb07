// Package tui provides the Bubble Tea text analysis interface.
package tui

import (
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/textan/internal/idle"
	"github.com/verte-zerg/textan/internal/logging"
	"github.com/verte-zerg/textan/internal/model"
	"github.com/verte-zerg/textan/internal/session"
	"github.com/verte-zerg/textan/internal/store"
	"github.com/verte-zerg/textan/internal/textfile"
)

type screen int

const (
	screenStart screen = iota
	screenEditor
	screenAboutProgram
	screenAboutAuthor
	screenHelp
	screenVersions
)

type promptMode int

const (
	promptNone promptMode = iota
	promptSavePath
	promptOverwrite
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusWarn
	statusError
)

const logoPlaceholder = "Image not found"

var startButtons = []string{"Start", "About program", "About author", "Exit"}

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

// Options configures the interactive shell.
type Options struct {
	Config  model.AppConfig
	Store   *store.Store
	Logger  *logging.Logger
	Version string
}

// Model implements the Bubble Tea text analysis UI.
type Model struct {
	cfg     model.AppConfig
	store   *store.Store
	log     *logging.Logger
	version string
	logo    string

	session   *session.Session
	fragments []model.Fragment

	screen     screen
	backScreen screen
	startIndex int

	editor    textarea.Model
	synced    string // editor value the session text was last taken from
	picker    filepicker.Model
	picking   bool
	pathInput textinput.Model
	prompt    promptMode
	pending   model.ExportPayload
	pendingAt string

	status     string
	statusKind statusKind

	watchdog    *idle.Watchdog
	idleGen     int
	idleExpired bool

	width  int
	height int
}

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	subtitleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	buttonStyle      = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("#8C8C8C"))
	activeButton     = buttonStyle.Copy().Foreground(lipgloss.Color("#0F0F0F")).Background(lipgloss.Color("#C89A3A"))
	panelStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#3A3A3A")).Padding(0, 1)
	panelTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	infoStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FB77E"))
	warnStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0B341"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	declarativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	questionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5DA9E9"))
	exclamatoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF7A45"))
	incompleteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E")).Italic(true)
	gapStyle         = lipgloss.NewStyle()
)

// NewModel constructs the shell. A configured initial file is loaded into
// the editor and the shell opens on the editor screen.
func NewModel(opts Options) *Model {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	m := &Model{
		cfg:     opts.Config,
		store:   opts.Store,
		log:     log.WithComponent("tui"),
		version: opts.Version,
		session: session.New(session.WithKeepStale(opts.Config.KeepStale)),
		editor:  newEditor(),
	}
	if m.version == "" {
		m.version = "dev"
	}
	m.logo = m.loadLogo()
	if path := opts.Config.InitialFile; path != "" {
		m.screen = screenEditor
		m.editor.Focus()
		m.loadFile(path)
	}
	return m
}

func newEditor() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Type or load the text to analyze..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	return ta
}

func (m *Model) loadLogo() string {
	path := m.cfg.LogoPath
	if path == "" {
		return logoPlaceholder
	}
	data, err := os.ReadFile(path)
	if err != nil {
		m.log.Debugf("logo unavailable at %s: %v", path, err)
		return logoPlaceholder
	}
	logo := strings.TrimRight(string(data), "\n")
	if strings.TrimSpace(logo) == "" {
		return logoPlaceholder
	}
	return logo
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.armWatchdog()}
	if m.screen == screenEditor {
		cmds = append(cmds, textarea.Blink)
	}
	return tea.Batch(cmds...)
}

// IdleExpired reports whether the shell quit because of inactivity.
func (m *Model) IdleExpired() bool {
	return m.idleExpired
}

// IdleTimeout returns the inactivity period of the current screen.
func (m *Model) IdleTimeout() time.Duration {
	if m.watchdog != nil {
		return m.watchdog.Timeout()
	}
	if m.cfg.IdleTimeout <= 0 {
		return idle.DefaultTimeout
	}
	return m.cfg.IdleTimeout
}

// Close stops the current screen's watchdog.
func (m *Model) Close() {
	if m.watchdog != nil {
		m.watchdog.Stop()
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		if m.picking {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			return m, cmd
		}
		return m, nil
	case idleExpiredMsg:
		if msg.gen != m.idleGen {
			return m, nil
		}
		m.idleExpired = true
		m.log.Infof("closing after %s of inactivity", m.watchdog.Timeout())
		return m, tea.Quit
	case tea.MouseMsg:
		m.touch()
		return m, nil
	case tea.KeyMsg:
		m.touch()
		return m.handleKey(msg)
	}
	return m.forward(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "ctrl+q":
		m.Close()
		return m, tea.Quit
	case "f1":
		return m, m.openInfo(screenHelp)
	case "f2":
		return m, m.openInfo(screenVersions)
	case "f3":
		return m, m.openInfo(screenAboutProgram)
	case "f4":
		return m, m.openInfo(screenAboutAuthor)
	}
	switch m.screen {
	case screenStart:
		return m.updateStart(msg)
	case screenEditor:
		return m.updateEditor(msg)
	default:
		return m.updateInfo(msg)
	}
}

// forward routes non-input messages such as cursor blinks and directory
// listings to the active component.
func (m *Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.picking:
		m.picker, cmd = m.picker.Update(msg)
	case m.prompt == promptSavePath:
		m.pathInput, cmd = m.pathInput.Update(msg)
	case m.screen == screenEditor:
		m.editor, cmd = m.editor.Update(msg)
	}
	return m, cmd
}

func (m *Model) updateStart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "left", "k", "h", "shift+tab":
		m.startIndex = (m.startIndex - 1 + len(startButtons)) % len(startButtons)
	case "down", "right", "j", "l", "tab":
		m.startIndex = (m.startIndex + 1) % len(startButtons)
	case "q", "esc":
		m.Close()
		return m, tea.Quit
	case "enter", " ":
		switch m.startIndex {
		case 0:
			return m, m.openEditor()
		case 1:
			return m, m.openInfo(screenAboutProgram)
		case 2:
			return m, m.openInfo(screenAboutAuthor)
		default:
			m.Close()
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) updateInfo(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace", "b", "enter":
		return m, m.switchScreen(m.backScreen)
	case "q":
		m.Close()
		return m, tea.Quit
	case "c":
		if m.screen == screenAboutAuthor {
			m.copyContact()
		}
	}
	return m, nil
}

func (m *Model) openEditor() tea.Cmd {
	return tea.Batch(m.switchScreen(screenEditor), textarea.Blink)
}

func (m *Model) openInfo(target screen) tea.Cmd {
	if m.screen == target {
		return nil
	}
	if m.picking || m.prompt != promptNone {
		m.cancelOverlay()
	}
	if m.screen == screenStart || m.screen == screenEditor {
		m.backScreen = m.screen
	}
	return m.switchScreen(target)
}

// switchScreen tears down the current screen's watchdog and arms a new one.
func (m *Model) switchScreen(target screen) tea.Cmd {
	if m.screen == screenEditor && target != screenEditor {
		m.editor.Blur()
	}
	m.screen = target
	m.status = ""
	cmd := m.armWatchdog()
	if target == screenEditor {
		return tea.Batch(cmd, m.editor.Focus())
	}
	return cmd
}

func (m *Model) copyContact() {
	contact := m.cfg.Contact
	if contact == "" {
		m.setStatus(statusWarn, "No contact configured.")
		return
	}
	if err := copyToClipboard(contact); err != nil {
		m.log.Warnf("clipboard copy failed: %v", err)
		m.setStatus(statusError, "Clipboard unavailable: "+err.Error())
		return
	}
	m.setStatus(statusInfo, "Contact copied to clipboard.")
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.statusKind = kind
	m.status = text
}

func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	editorWidth := int(float64(m.width)*0.70) - 4
	if editorWidth < 20 {
		editorWidth = 20
	}
	m.editor.SetWidth(editorWidth)
	editorHeight := m.height / 3
	if editorHeight < 3 {
		editorHeight = 3
	}
	m.editor.SetHeight(editorHeight)
	m.pathInput.Width = editorWidth
}

func (m *Model) loadFile(path string) {
	text, err := textfile.Load(path)
	if err != nil {
		m.log.Errorf("load %s: %v", path, err)
		m.setStatus(statusError, err.Error())
		return
	}
	m.session.Load(text)
	m.editor.SetValue(text)
	m.synced = m.editor.Value()
	m.fragments = nil
	m.log.Infof("loaded %s (%d bytes)", path, len(text))
	m.setStatus(statusInfo, "Loaded "+path)
}
