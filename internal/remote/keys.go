package remote

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/webos3d/internal/protocol"
)

// keyMap defines key bindings for the remote
type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Home  key.Binding
	Back  key.Binding
	Mode  key.Binding
	Click key.Binding
	Get3D key.Binding
	Help  key.Binding
	Quit  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Mode, k.Click, k.Get3D, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Home, k.Back, k.Mode, k.Click},
		{k.Get3D, k.Help, k.Quit},
	}
}

func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		Home: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "home"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "backspace"),
			key.WithHelp("b", "back"),
		),
		Mode: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "3D menu"),
		),
		Click: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "click"),
		),
		Get3D: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "show 3D mode"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// buttonFor maps a key press to the button it sends
func (k keyMap) buttonFor(msg tea.KeyMsg) (protocol.RemoteButton, bool) {
	switch {
	case key.Matches(msg, k.Up):
		return protocol.ButtonUp, true
	case key.Matches(msg, k.Down):
		return protocol.ButtonDown, true
	case key.Matches(msg, k.Left):
		return protocol.ButtonLeft, true
	case key.Matches(msg, k.Right):
		return protocol.ButtonRight, true
	case key.Matches(msg, k.Home):
		return protocol.ButtonHome, true
	case key.Matches(msg, k.Back):
		return protocol.ButtonBack, true
	case key.Matches(msg, k.Mode):
		return protocol.ButtonMode3D, true
	}
	return "", false
}
