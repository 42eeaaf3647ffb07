package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/textan/internal/idle"
)

type idleExpiredMsg struct {
	gen int
}

// waitForIdle blocks until the watchdog expires or is stopped. A stopped
// watchdog yields no message.
func waitForIdle(w *idle.Watchdog, gen int) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-w.Expired():
			return idleExpiredMsg{gen: gen}
		case <-w.Done():
			return nil
		}
	}
}

func (m *Model) armWatchdog() tea.Cmd {
	if m.watchdog != nil {
		m.watchdog.Stop()
	}
	m.idleGen++
	m.watchdog = idle.New(m.cfg.IdleTimeout)
	m.watchdog.Start()
	return waitForIdle(m.watchdog, m.idleGen)
}

func (m *Model) touch() {
	if m.watchdog != nil {
		m.watchdog.Reset()
	}
}
