package protocol

import (
	"fmt"
	"strings"
)

// RemoteButton is a symbolic remote-control key sent on the input pointer
// channel.
type RemoteButton string

const (
	ButtonHome   RemoteButton = "HOME"
	ButtonBack   RemoteButton = "BACK"
	ButtonUp     RemoteButton = "UP"
	ButtonDown   RemoteButton = "DOWN"
	ButtonLeft   RemoteButton = "LEFT"
	ButtonRight  RemoteButton = "RIGHT"
	ButtonMode3D RemoteButton = "3D_MODE"
)

// Buttons lists every supported button.
var Buttons = []RemoteButton{
	ButtonHome,
	ButtonBack,
	ButtonUp,
	ButtonDown,
	ButtonLeft,
	ButtonRight,
	ButtonMode3D,
}

// ClickFrame is the pointer frame for a click at the current pointer position.
// The TV uses it to confirm the highlighted menu entry.
const ClickFrame = "type:click\n\n"

// ButtonFrame returns the pointer frame for a single button press.
func ButtonFrame(b RemoteButton) string {
	return "type:button\nname:" + string(b) + "\n\n"
}

// ParseButton parses a button name, case-insensitively. "3d" is accepted as
// an alias for 3D_MODE.
func ParseButton(s string) (RemoteButton, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	if norm == "3D" {
		return ButtonMode3D, nil
	}
	for _, b := range Buttons {
		if string(b) == norm {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown remote button %q", s)
}
