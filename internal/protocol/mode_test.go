package protocol

import (
	"testing"
)

func TestParsePattern(t *testing.T) {
	tests := []struct {
		pattern string
		want    Display3dMode
	}{
		{"2d", ModeOff},
		{"2dto3d", ModeConvert2DTo3D},
		{"side_side_half", ModeSideSideHalf},
		{"top_bottom", ModeTopBottom},
		{"check_board", ModeCheckBoard},
		{"frame_sequential", ModeFrameSequential},
		{"column_interleave", ModeColumnInterleave},
		{"line_interleave_half", ModeLineInterleaveHalf},
		{"", ModeError},
		{"side_side_full", ModeError},
		{"TOP_BOTTOM", ModeError}, // wire patterns are lowercase
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			if got := ParsePattern(tt.pattern); got != tt.want {
				t.Errorf("ParsePattern(%q) = %v, want %v", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestPatternRoundTrip(t *testing.T) {
	for _, m := range AllModes() {
		if got := ParsePattern(m.Pattern()); got != m {
			t.Errorf("ParsePattern(%v.Pattern()) = %v", m, got)
		}
	}
	if ModeError.Pattern() != "" {
		t.Errorf("ModeError.Pattern() = %q, want empty", ModeError.Pattern())
	}
}

func TestOrdinal(t *testing.T) {
	tests := []struct {
		mode Display3dMode
		want int
	}{
		{ModeOff, 0},
		{ModeConvert2DTo3D, 1},
		{ModeSideSideHalf, 2},
		{ModeTopBottom, 3},
		{ModeCheckBoard, 4},
		{ModeFrameSequential, 5},
		{ModeColumnInterleave, 6},
		{ModeLineInterleaveHalf, 7},
		{ModeError, -1},
		{Display3dMode(42), -1},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			if got := tt.mode.Ordinal(); got != tt.want {
				t.Errorf("%v.Ordinal() = %d, want %d", tt.mode, got, tt.want)
			}
		})
	}
}

func TestValid(t *testing.T) {
	for _, m := range AllModes() {
		if !m.Valid() {
			t.Errorf("%v.Valid() = false, want true", m)
		}
	}
	for _, m := range []Display3dMode{ModeError, Display3dMode(8), Display3dMode(-2)} {
		if m.Valid() {
			t.Errorf("%v.Valid() = true, want false", m)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Display3dMode
		wantErr bool
	}{
		{"OFF", ModeOff, false},
		{"off", ModeOff, false},
		{"2d", ModeOff, false},
		{"side_side_half", ModeSideSideHalf, false},
		{"side-side-half", ModeSideSideHalf, false},
		{" TOP_BOTTOM ", ModeTopBottom, false},
		{"2dto3d", ModeConvert2DTo3D, false},
		{"convert_2d_to_3d", ModeConvert2DTo3D, false},
		{"line_interleave_half", ModeLineInterleaveHalf, false},
		{"error", ModeError, true},
		{"", ModeError, true},
		{"anaglyph", ModeError, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNavigation_AllPairs(t *testing.T) {
	modes := AllModes()
	for _, from := range modes {
		for _, to := range modes {
			button, presses := Navigation(from, to)

			want := to.Ordinal() - from.Ordinal()
			wantButton := ButtonRight
			if want < 0 {
				want = -want
				wantButton = ButtonLeft
			}

			if presses != want {
				t.Errorf("Navigation(%v, %v) presses = %d, want %d", from, to, presses, want)
			}
			if presses > 0 && button != wantButton {
				t.Errorf("Navigation(%v, %v) button = %v, want %v", from, to, button, wantButton)
			}
			if from == to && presses != 0 {
				t.Errorf("Navigation(%v, %v) should need no presses", from, to)
			}
		}
	}
}

func TestNavigation_Examples(t *testing.T) {
	tests := []struct {
		name        string
		from, to    Display3dMode
		wantButton  RemoteButton
		wantPresses int
	}{
		{"top_bottom to side_side_half", ModeTopBottom, ModeSideSideHalf, ButtonLeft, 1},
		{"side_side_half to top_bottom", ModeSideSideHalf, ModeTopBottom, ButtonRight, 1},
		{"2dto3d to line_interleave_half", ModeConvert2DTo3D, ModeLineInterleaveHalf, ButtonRight, 6},
		{"column_interleave to 2dto3d", ModeColumnInterleave, ModeConvert2DTo3D, ButtonLeft, 5},
		{"from error", ModeError, ModeTopBottom, ButtonRight, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			button, presses := Navigation(tt.from, tt.to)
			if button != tt.wantButton || presses != tt.wantPresses {
				t.Errorf("Navigation() = (%v, %d), want (%v, %d)", button, presses, tt.wantButton, tt.wantPresses)
			}
		})
	}
}

func TestDisplay3dModeString(t *testing.T) {
	if ModeSideSideHalf.String() != "SIDE_SIDE_HALF" {
		t.Errorf("String() = %q", ModeSideSideHalf.String())
	}
	if ModeError.String() != "ERROR" {
		t.Errorf("String() = %q", ModeError.String())
	}
	if Display3dMode(99).String() != "Display3dMode(99)" {
		t.Errorf("String() = %q", Display3dMode(99).String())
	}
}
