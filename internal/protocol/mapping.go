package protocol

import (
	"fmt"
	"sort"
	"strings"
)

// Renderer stereo modes, as exposed by media players that render 3D
// themselves and expect the display to match.
const (
	RenderOff                  = "off"
	RenderSplitHorizontal      = "split_horizontal"
	RenderSplitVertical        = "split_vertical"
	RenderAnaglyphRedCyan      = "anaglyph_red_cyan"
	RenderAnaglyphGreenMagenta = "anaglyph_green_magenta"
	RenderAnaglyphYellowBlue   = "anaglyph_yellow_blue"
	RenderInterlaced           = "interlaced"
	RenderCheckerboard         = "checkerboard"
	RenderHardwareBased        = "hardware_based"
	RenderMono                 = "mono"
)

// RenderMapping maps a renderer stereo mode to the display mode the TV must
// be switched to.
type RenderMapping map[string]Display3dMode

// DefaultRenderMapping returns the built-in mapping. Anaglyph modes need no
// display support and mono plays 3D content as 2D, so they map to ModeOff.
//
// hardware_based -> ModeFrameSequential has not been confirmed on real
// hardware; override it in the configuration if a TV disagrees.
func DefaultRenderMapping() RenderMapping {
	return RenderMapping{
		RenderOff:                  ModeOff,
		RenderSplitHorizontal:      ModeTopBottom,
		RenderSplitVertical:        ModeSideSideHalf,
		RenderAnaglyphRedCyan:      ModeOff,
		RenderAnaglyphGreenMagenta: ModeOff,
		RenderAnaglyphYellowBlue:   ModeOff,
		RenderInterlaced:           ModeLineInterleaveHalf,
		RenderCheckerboard:         ModeCheckBoard,
		RenderHardwareBased:        ModeFrameSequential,
		RenderMono:                 ModeOff,
	}
}

// Resolve looks up a renderer mode name (case-insensitive).
func (m RenderMapping) Resolve(render string) (Display3dMode, error) {
	mode, ok := m[strings.ToLower(strings.TrimSpace(render))]
	if !ok {
		return ModeError, fmt.Errorf("unknown render mode %q (known: %s)", render, strings.Join(m.Names(), ", "))
	}
	return mode, nil
}

// Override returns a copy of m with entries replaced by overrides, where each
// override value is parsed with ParseMode.
func (m RenderMapping) Override(overrides map[string]string) (RenderMapping, error) {
	merged := make(RenderMapping, len(m)+len(overrides))
	for k, v := range m {
		merged[k] = v
	}
	for render, name := range overrides {
		mode, err := ParseMode(name)
		if err != nil {
			return nil, fmt.Errorf("render mode %q: %w", render, err)
		}
		merged[strings.ToLower(render)] = mode
	}
	return merged, nil
}

// Names returns the renderer mode names in sorted order.
func (m RenderMapping) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
