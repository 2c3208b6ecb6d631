package protocol

import (
	"fmt"
	"strings"
)

// Display3dMode is a stereoscopic rendering mode of the TV.
//
// The declared order matches the order in which the TV's 3D menu cycles
// through modes, so ordinals double as menu cursor positions.
type Display3dMode int

const (
	// ModeError means the current mode could not be determined
	ModeError Display3dMode = -1

	ModeOff                Display3dMode = 0
	ModeConvert2DTo3D      Display3dMode = 1
	ModeSideSideHalf       Display3dMode = 2
	ModeTopBottom          Display3dMode = 3
	ModeCheckBoard         Display3dMode = 4
	ModeFrameSequential    Display3dMode = 5
	ModeColumnInterleave   Display3dMode = 6
	ModeLineInterleaveHalf Display3dMode = 7
)

type modeInfo struct {
	mode    Display3dMode
	name    string
	pattern string
}

// modeTable lists the valid modes in menu order.
var modeTable = []modeInfo{
	{ModeOff, "OFF", "2d"},
	{ModeConvert2DTo3D, "CONVERT_2D_TO_3D", "2dto3d"},
	{ModeSideSideHalf, "SIDE_SIDE_HALF", "side_side_half"},
	{ModeTopBottom, "TOP_BOTTOM", "top_bottom"},
	{ModeCheckBoard, "CHECK_BOARD", "check_board"},
	{ModeFrameSequential, "FRAME_SEQUENTIAL", "frame_sequential"},
	{ModeColumnInterleave, "COLUMN_INTERLEAVE", "column_interleave"},
	{ModeLineInterleaveHalf, "LINE_INTERLEAVE_HALF", "line_interleave_half"},
}

// AllModes returns the valid modes in menu order.
func AllModes() []Display3dMode {
	modes := make([]Display3dMode, len(modeTable))
	for i, info := range modeTable {
		modes[i] = info.mode
	}
	return modes
}

func lookupMode(m Display3dMode) (modeInfo, int, bool) {
	for i, info := range modeTable {
		if info.mode == m {
			return info, i, true
		}
	}
	return modeInfo{}, -1, false
}

// Ordinal returns the menu position of the mode, or -1 for ModeError and
// unknown values.
func (m Display3dMode) Ordinal() int {
	_, idx, _ := lookupMode(m)
	return idx
}

// Valid reports whether m lies in [ModeOff, ModeLineInterleaveHalf].
func (m Display3dMode) Valid() bool {
	_, _, ok := lookupMode(m)
	return ok
}

// String returns the symbolic name of the mode (e.g. "SIDE_SIDE_HALF").
func (m Display3dMode) String() string {
	if info, _, ok := lookupMode(m); ok {
		return info.name
	}
	if m == ModeError {
		return "ERROR"
	}
	return fmt.Sprintf("Display3dMode(%d)", int(m))
}

// Pattern returns the string the TV uses for this mode in get3DStatus
// responses. It is empty for ModeError.
func (m Display3dMode) Pattern() string {
	info, _, _ := lookupMode(m)
	return info.pattern
}

// ParsePattern decodes a status3D.pattern value reported by the TV.
// Unrecognized strings decode to ModeError.
func ParsePattern(pattern string) Display3dMode {
	for _, info := range modeTable {
		if info.pattern == pattern {
			return info.mode
		}
	}
	return ModeError
}

// ParseMode parses user input. Both symbolic names ("top_bottom",
// "TOP_BOTTOM", "top-bottom") and wire patterns ("2d", "2dto3d") are accepted.
func ParseMode(s string) (Display3dMode, error) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for _, info := range modeTable {
		if info.name == norm || strings.ToUpper(info.pattern) == norm {
			return info.mode, nil
		}
	}
	return ModeError, fmt.Errorf("unknown 3D mode %q", s)
}

// Navigation returns the directional button and the number of presses that
// move the 3D menu cursor from one mode to another. The menu is a linear
// cursor over the ordinal order with no wraparound. Equal modes need zero
// presses. Invalid modes yield zero presses.
func Navigation(from, to Display3dMode) (RemoteButton, int) {
	a, b := from.Ordinal(), to.Ordinal()
	if a < 0 || b < 0 {
		return ButtonRight, 0
	}
	delta := b - a
	if delta < 0 {
		return ButtonLeft, -delta
	}
	return ButtonRight, delta
}
