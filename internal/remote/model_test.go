package remote

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/webos3d/internal/protocol"
)

type fakeRemote struct {
	sent    []string
	mode    protocol.Display3dMode
	failing bool
}

func (f *fakeRemote) SendButton(b protocol.RemoteButton) error {
	if f.failing {
		return errors.New("pointer closed")
	}
	f.sent = append(f.sent, string(b))
	return nil
}

func (f *fakeRemote) SendClick() error {
	f.sent = append(f.sent, "click")
	return nil
}

func (f *fakeRemote) Get3DMode() protocol.Display3dMode {
	return f.mode
}

// step feeds msg to m and runs the resulting command once
func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd != nil {
		if out := cmd(); out != nil {
			next, _ = m.Update(out)
			m = next.(Model)
		}
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_KeysSendButtons(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want string
	}{
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, "LEFT"},
		{"right arrow", tea.KeyMsg{Type: tea.KeyRight}, "RIGHT"},
		{"up arrow", tea.KeyMsg{Type: tea.KeyUp}, "UP"},
		{"down vim", runes("j"), "DOWN"},
		{"home", runes("h"), "HOME"},
		{"back", runes("b"), "BACK"},
		{"3d menu", runes("3"), "3D_MODE"},
		{"click", tea.KeyMsg{Type: tea.KeyEnter}, "click"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRemote{}
			m := step(t, NewModel(r, "ws://tv:3000"), tt.msg)

			if len(r.sent) != 1 || r.sent[0] != tt.want {
				t.Errorf("sent = %v, want [%s]", r.sent, tt.want)
			}
			if len(m.log) != 1 {
				t.Errorf("Expected one log entry, got %d", len(m.log))
			}
		})
	}
}

func TestModel_LogIsBounded(t *testing.T) {
	r := &fakeRemote{}
	m := NewModel(r, "ws://tv:3000")

	for i := 0; i < maxLogEntries+3; i++ {
		m = step(t, m, tea.KeyMsg{Type: tea.KeyRight})
	}

	if len(m.log) != maxLogEntries {
		t.Errorf("Expected %d log entries, got %d", maxLogEntries, len(m.log))
	}
	if len(r.sent) != maxLogEntries+3 {
		t.Errorf("Expected %d presses, got %d", maxLogEntries+3, len(r.sent))
	}
}

func TestModel_ShowsErrors(t *testing.T) {
	r := &fakeRemote{failing: true}
	m := step(t, NewModel(r, "ws://tv:3000"), runes("3"))

	if !strings.Contains(m.View(), "pointer closed") {
		t.Error("Expected the send error in the view")
	}
}

func TestModel_QueriesMode(t *testing.T) {
	r := &fakeRemote{mode: protocol.ModeTopBottom}
	m := NewModel(r, "ws://tv:3000")

	if strings.Contains(m.View(), "TOP_BOTTOM") {
		t.Error("Mode should not be shown before it was queried")
	}

	m = step(t, m, runes("g"))

	if !strings.Contains(m.View(), "TOP_BOTTOM") {
		t.Error("Expected the 3D mode in the view")
	}
}

func TestModel_Quit(t *testing.T) {
	m := NewModel(&fakeRemote{}, "ws://tv:3000")

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("Expected a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected quit")
	}
}
