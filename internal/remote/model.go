package remote

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/webos3d/internal/protocol"
	"github.com/muurk/webos3d/internal/ui"
)

// maxLogEntries is how many sent events the log keeps
const maxLogEntries = 8

// Remote is what the model drives. *tv.Client satisfies it.
type Remote interface {
	SendButton(protocol.RemoteButton) error
	SendClick() error
	Get3DMode() protocol.Display3dMode
}

// Messages for async operations
type sentMsg struct {
	label string
	err   error
	at    time.Time
}

type modeMsg struct {
	mode protocol.Display3dMode
}

// logEntry is one line of the rolling log
type logEntry struct {
	label string
	err   error
	at    time.Time
}

// Model is the interactive remote
type Model struct {
	remote Remote
	host   string
	keys   keyMap
	help   help.Model

	log  []logEntry
	mode protocol.Display3dMode

	// haveMode is set once the mode was queried
	haveMode bool

	Width int
}

// NewModel creates a remote for the TV at host
func NewModel(r Remote, host string) Model {
	return Model{
		remote: r,
		host:   host,
		keys:   newKeyMap(),
		help:   help.New(),
		mode:   protocol.ModeError,
		Width:  ui.GetTerminalWidth(),
	}
}

// Run starts the remote and blocks until the user quits
func Run(r Remote, host string) error {
	_, err := tea.NewProgram(NewModel(r, host)).Run()
	return err
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.queryMode()
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Get3D):
			return m, m.queryMode()
		case key.Matches(msg, m.keys.Click):
			return m, m.click()
		}
		if button, ok := m.keys.buttonFor(msg); ok {
			return m, m.press(button)
		}

	case sentMsg:
		m.log = append(m.log, logEntry(msg))
		if len(m.log) > maxLogEntries {
			m.log = m.log[len(m.log)-maxLogEntries:]
		}
		return m, nil

	case modeMsg:
		m.mode = msg.mode
		m.haveMode = true
		return m, nil
	}

	return m, nil
}

func (m Model) press(button protocol.RemoteButton) tea.Cmd {
	r := m.remote
	return func() tea.Msg {
		err := r.SendButton(button)
		return sentMsg{label: string(button), err: err, at: time.Now()}
	}
}

func (m Model) click() tea.Cmd {
	r := m.remote
	return func() tea.Msg {
		err := r.SendClick()
		return sentMsg{label: "CLICK", err: err, at: time.Now()}
	}
}

func (m Model) queryMode() tea.Cmd {
	r := m.remote
	return func() tea.Msg {
		return modeMsg{mode: r.Get3DMode()}
	}
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	title := ui.HeaderTitleStyle.Render("WEBOS3D REMOTE")
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, title, ui.HeaderCommandStyle.Render(m.host)))
	b.WriteString("\n\n")

	mode := "press g to query"
	if m.haveMode {
		mode = m.mode.String()
	}
	b.WriteString(ui.HeaderParamKeyStyle.Render("3D mode:") + " " + ui.HeaderParamValueStyle.Render(mode))
	b.WriteString("\n\n")

	if len(m.log) == 0 {
		b.WriteString(ui.StepPendingStyle.PaddingLeft(2).Render("No buttons sent yet"))
		b.WriteString("\n")
	}
	for _, e := range m.log {
		stamp := ui.StepPendingStyle.Render(e.at.Format("15:04:05"))
		line := fmt.Sprintf("  %s  %s", stamp, ui.KeyStyle.Render(e.label))
		if e.err != nil {
			line += "  " + ui.ErrorMessageStyle.Render(ui.FailureMarker+" "+e.err.Error())
		} else {
			line += "  " + ui.StepCompleteStyle.Render(ui.SuccessMarker)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(m.help.View(m.keys)))
	b.WriteString("\n")

	return b.String()
}
