package tv

import (
	"time"

	"go.uber.org/zap"

	"github.com/muurk/webos3d/internal/logging"
	"github.com/muurk/webos3d/internal/protocol"
)

// SwitchTiming holds the fixed delays of a 3D switch. The TV drops button
// presses that arrive before its menu is ready.
type SwitchTiming struct {
	PreMenu    time.Duration // before opening the 3D menu
	MenuOpen   time.Duration // for the menu to render
	Settle     time.Duration // after directional presses, before verifying
	Correction time.Duration // before the corrective pass
	Close      time.Duration // after the closing click, before the final check
}

// DefaultSwitchTiming returns delays that work on 2014-2016 webOS sets.
// About one second is the observed minimum for MenuOpen.
func DefaultSwitchTiming() SwitchTiming {
	return SwitchTiming{
		PreMenu:    250 * time.Millisecond,
		MenuOpen:   1500 * time.Millisecond,
		Settle:     250 * time.Millisecond,
		Correction: 2 * time.Second,
		Close:      250 * time.Millisecond,
	}
}

// SwitchResult describes one run of the 3D switch
type SwitchResult struct {
	Success   bool
	Target    protocol.Display3dMode
	Initial   protocol.Display3dMode // mode before anything was sent
	Baseline  protocol.Display3dMode // menu cursor position the navigation started from
	Observed  protocol.Display3dMode // mode after the first navigation pass
	Final     protocol.Display3dMode // mode after the last check
	Presses   int                    // directional presses sent in total
	Corrected bool                   // a corrective pass was needed
	Error     error
}

func (r *SwitchResult) fail(err error) *SwitchResult {
	r.Success = false
	r.Error = err
	return r
}

func (r *SwitchResult) succeed(final protocol.Display3dMode) *SwitchResult {
	r.Success = true
	r.Final = final
	return r
}

// Set3DMode switches the TV to target. It succeeds only if the TV reports
// target afterwards.
func (c *Client) Set3DMode(target protocol.Display3dMode) error {
	return c.Switch3DMode(target).Error
}

// Switch3DMode switches the TV to target and reports each step.
//
// There is no API to select a 3D mode, so the TV's 3D menu is driven with
// remote buttons. The menu opens with the cursor on the mode 3D resumes into,
// which is learned by enabling 3D once. The cursor is then moved by the
// ordinal distance to target, verified, and corrected at most once. The menu
// is closed before returning whenever it was opened.
//
// Concurrent switches on one client are serialised.
func (c *Client) Switch3DMode(target protocol.Display3dMode) *SwitchResult {
	c.stereoMu.Lock()
	defer c.stereoMu.Unlock()

	res := &SwitchResult{
		Target:   target,
		Initial:  protocol.ModeError,
		Baseline: protocol.ModeError,
		Observed: protocol.ModeError,
		Final:    protocol.ModeError,
	}

	if !target.Valid() {
		return res.fail(NewValidationError("invalid 3D mode " + target.String()))
	}

	current := c.Get3DMode()
	res.Initial = current
	logging.Info("Switching 3D mode",
		zap.Stringer("from", current),
		zap.Stringer("to", target),
	)

	if current == target {
		return res.succeed(current)
	}
	if current == protocol.ModeError {
		return res.fail(newUnknownStateError("could not get current 3D mode"))
	}

	if target == protocol.ModeOff {
		if err := c.Disable3D(); err != nil {
			return res.fail(err)
		}
		return res.succeed(protocol.ModeOff)
	}

	if current != protocol.ModeOff {
		// With 3D off the 3D button opens the selection menu instead of
		// toggling the active mode
		if err := c.Disable3D(); err != nil {
			return res.fail(err)
		}
	} else {
		// 3D resumes into the last used mode, which is where the menu cursor
		// will start
		if err := c.Enable3D(); err != nil {
			logging.Warn("Could not enable 3D to probe the resumed mode", zap.Error(err))
		}
		current = c.Get3DMode()
		if current == target {
			res.Baseline = current
			return res.succeed(current)
		}
		if err := c.Disable3D(); err != nil {
			return res.fail(err)
		}
		if current == protocol.ModeError {
			return res.fail(newUnknownStateError("could not get resumed 3D mode"))
		}
	}
	res.Baseline = current

	c.pause(c.Timing.PreMenu)
	if err := c.SendButton(protocol.ButtonMode3D); err != nil {
		return res.fail(err)
	}
	c.pause(c.Timing.MenuOpen)

	if err := c.navigate(res, current, target); err != nil {
		return res.fail(c.closeMenu(err))
	}

	c.pause(c.Timing.Settle)
	observed := c.Get3DMode()
	res.Observed = observed

	switch observed {
	case target:
		if err := c.SendClick(); err != nil {
			return res.fail(err)
		}
		return res.succeed(observed)
	case protocol.ModeOff:
		return res.fail(c.closeMenu(newConvergenceError("sending remote buttons resulted in 3D turned off")))
	case protocol.ModeError:
		return res.fail(c.closeMenu(newUnknownStateError("could not get 3D mode after navigation")))
	}

	logging.Warn("3D menu missed the target, correcting",
		zap.Stringer("observed", observed),
		zap.Stringer("target", target),
	)
	res.Corrected = true
	c.pause(c.Timing.Correction)
	if err := c.navigate(res, observed, target); err != nil {
		return res.fail(c.closeMenu(err))
	}

	c.pause(c.Timing.Settle)
	if err := c.SendClick(); err != nil {
		logging.Warn("Could not close 3D menu", zap.Error(err))
	}
	c.pause(c.Timing.Close)

	final := c.Get3DMode()
	res.Final = final
	if final != target {
		return res.fail(newConvergenceError("remote-button navigation did not converge, TV reports " + final.String()))
	}
	return res.succeed(final)
}

// navigate moves the menu cursor from one mode to another
func (c *Client) navigate(res *SwitchResult, from, to protocol.Display3dMode) error {
	button, presses := protocol.Navigation(from, to)
	logging.Debug("Navigating 3D menu",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.String("button", string(button)),
		zap.Int("presses", presses),
	)
	for i := 0; i < presses; i++ {
		if err := c.SendButton(button); err != nil {
			return err
		}
		res.Presses++
	}
	return nil
}

// closeMenu clicks to leave the 3D menu and returns cause
func (c *Client) closeMenu(cause error) error {
	if err := c.SendClick(); err != nil {
		logging.Warn("Could not close 3D menu", zap.Error(err))
	}
	return cause
}

// Reswitch applies target again if the TV left it, e.g. after an input
// change. It reports whether a switch was attempted.
func (c *Client) Reswitch(target protocol.Display3dMode) (bool, error) {
	if c.Get3DMode() == target {
		return false, nil
	}
	return true, c.Set3DMode(target)
}

func (c *Client) pause(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
