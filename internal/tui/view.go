package tui

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var featureList = []string{
	"Analyze text typed in the editor or loaded from a file.",
	"Count words, sentences and sentence types.",
	"Load text from .txt files.",
	"Clear the editor.",
	"Show the analysis results next to the text.",
	"Save the text and its results to a separate .txt file.",
}

var helpSteps = []string{
	"Type text in the editor or load a file with ctrl+o.",
	"Press ctrl+a to run the analysis.",
	"Save the results to a file with ctrl+s if needed.",
	"Press ctrl+l to clear the text.",
}

var changelog = []struct {
	version string
	notes   []string
}{
	{"1.0.0", []string{"All main screens", "Basic analysis", "Navigation between screens"}},
	{"1.1.0", []string{"Extended analysis", "Refreshed interface", "Empty file protection"}},
	{"1.1.1", []string{"Information and help menus", "About author and about program screens"}},
	{"1.1.2", []string{"Versions menu", "Analysis fixes", "Empty file protection"}},
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.screen {
	case screenEditor:
		return m.viewEditor()
	case screenAboutProgram:
		content = m.viewAboutProgram()
	case screenAboutAuthor:
		content = m.viewAboutAuthor()
	case screenHelp:
		content = m.viewHelp()
	case screenVersions:
		content = m.viewVersions()
	default:
		content = m.viewStart()
	}
	return m.place(content)
}

func (m *Model) place(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := m.renderFooter()
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	return body + "\n" + lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
}

func (m *Model) viewStart() string {
	buttons := make([]string, 0, len(startButtons))
	for i, label := range startButtons {
		style := buttonStyle
		if i == m.startIndex {
			style = activeButton
		}
		buttons = append(buttons, style.Render(label))
	}
	parts := []string{
		titleStyle.Render("Text Analyzer"),
		subtitleStyle.Render("Word and sentence statistics · ver. " + m.version),
		"",
		m.logo,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, buttons...),
	}
	if status := m.renderStatus(); status != "" {
		parts = append(parts, "", status)
	}
	return lipgloss.JoinVertical(lipgloss.Center, parts...)
}

func (m *Model) viewAboutProgram() string {
	lines := make([]string, 0, len(featureList))
	for i, f := range featureList {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, f))
	}
	features := panelStyle.Render(panelTitleStyle.Render("Features") + "\n" + strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Text Analyzer"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center, m.logo, "  ", features),
		"",
		subtitleStyle.Italic(true).Render("Version: "+m.version),
	)
}

func (m *Model) viewAboutAuthor() string {
	author := m.cfg.Author
	if author == "" {
		author = "Unknown"
	}
	contact := m.cfg.Contact
	if contact == "" {
		contact = "not configured"
	}
	card := panelStyle.Render(strings.Join([]string{
		panelTitleStyle.Render("Author"),
		author,
		"",
		panelTitleStyle.Render("Contact"),
		contact,
	}, "\n"))
	parts := []string{titleStyle.Render("About the author"), "", card, "", footerStyle.Render("c copy contact")}
	if status := m.renderStatus(); status != "" {
		parts = append(parts, status)
	}
	return lipgloss.JoinVertical(lipgloss.Center, parts...)
}

func (m *Model) viewHelp() string {
	lines := make([]string, 0, len(helpSteps))
	for i, step := range helpSteps {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, step))
	}
	return panelStyle.Render(panelTitleStyle.Render("How to use") + "\n" + strings.Join(lines, "\n"))
}

func (m *Model) viewVersions() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Versions"))
	for _, entry := range changelog {
		b.WriteString("\n\n")
		b.WriteString(titleStyle.Render("Version " + entry.version))
		for _, note := range entry.notes {
			b.WriteString("\n- " + note)
		}
	}
	b.WriteString("\n\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Build %s · %s", m.version, runtime.Version())))
	return panelStyle.Render(b.String())
}

func (m *Model) viewEditor() string {
	var body string
	if m.picking {
		body = panelStyle.Render(panelTitleStyle.Render("Load file") + "\n" + m.picker.View())
	} else {
		top := lipgloss.JoinHorizontal(lipgloss.Top,
			panelStyle.Render(panelTitleStyle.Render("Text for analysis")+"\n"+m.editor.View()),
			panelStyle.Render(m.renderResults()),
		)
		parts := []string{top}
		if preview := m.renderPreview(); preview != "" {
			parts = append(parts, panelStyle.Render(panelTitleStyle.Render("Sentences")+"\n"+preview))
		}
		if m.prompt == promptSavePath {
			parts = append(parts, m.pathInput.View())
		}
		body = lipgloss.JoinVertical(lipgloss.Left, parts...)
	}
	lines := []string{m.renderMenu(), body}
	if status := m.renderStatus(); status != "" {
		lines = append(lines, status)
	}
	lines = append(lines, m.renderFooter())
	return strings.Join(lines, "\n")
}

func (m *Model) renderMenu() string {
	return footerStyle.Render("F1 Help  F2 Versions  F3 About program  F4 About author")
}

// renderResults lists the five counts of the last analysis, zero when none.
func (m *Model) renderResults() string {
	res, _ := m.session.Result()
	lines := []string{
		panelTitleStyle.Render("Analysis results"),
		fmt.Sprintf("Sentences:   %d", res.SentenceCount),
		fmt.Sprintf("Words:       %d", res.WordCount),
		fmt.Sprintf("Declarative: %d", res.DeclarativeCount),
		fmt.Sprintf("Questions:   %d", res.QuestionCount),
		fmt.Sprintf("Exclamatory: %d", res.ExclamatoryCount),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderPreview() string {
	if len(m.fragments) == 0 {
		return ""
	}
	text := strings.TrimSpace(m.session.Text())
	width := 0
	if m.width > 0 {
		width = int(float64(m.width)*0.70) - 4
		if width < 1 {
			width = 1
		}
	}
	return wrapStyledRunes(buildStyledRunes(text, m.fragments), width)
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	switch m.statusKind {
	case statusWarn:
		return warnStyle.Render(m.status)
	case statusError:
		return errorStyle.Render(m.status)
	default:
		return infoStyle.Render(m.status)
	}
}

func (m *Model) renderFooter() string {
	var segments []string
	switch m.screen {
	case screenStart:
		segments = []string{"←/→ select", "enter open", "q exit"}
	case screenEditor:
		switch {
		case m.picking:
			segments = []string{"↑/↓ move", "enter open", "esc cancel"}
		case m.prompt == promptSavePath:
			segments = []string{"enter save", "esc cancel"}
		case m.prompt == promptOverwrite:
			segments = []string{"y overwrite", "n cancel"}
		default:
			segments = []string{"ctrl+a analyze", "ctrl+o load", "ctrl+s save", "ctrl+l clear", "esc back", "ctrl+q exit"}
		}
	default:
		segments = []string{"esc back", "ctrl+q exit"}
	}
	segments = append(segments, fmt.Sprintf("idle exit %s", m.IdleTimeout()))
	return footerStyle.Render(strings.Join(segments, "  "))
}
