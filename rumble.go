package girl

import (
	"fmt"
	"time"

	"github.com/zohnannor/girl/backend"
	"github.com/zohnannor/girl/pkg"
)

// rumbleEffect tracks one active vibration on one motor pair. There is
// at most one effect per pair per device; setting a new one replaces
// whatever was playing.
type rumbleEffect struct {
	low       uint16
	high      uint16
	remaining time.Duration
	active    bool
}

// SetRumble starts the body motors at the given intensities for the
// given duration. Any effect already playing is replaced in place,
// without a stop being sent for it; the new start command goes out
// immediately and the countdown restarts at d.
//
// The countdown is charged by [Girl.Update]; on expiry a stop command is
// sent exactly once.
func (p *Gamepad) SetRumble(low, high uint16, d time.Duration) error {
	return p.setEffect(false, low, high, d)
}

// EndRumble stops the body motors. When no effect is playing, it
// succeeds without sending anything, so an effect is never stopped
// twice.
func (p *Gamepad) EndRumble() error {
	return p.endEffect(false)
}

// SetRumbleTriggers starts the trigger motors. Trigger rumble is an
// independent effect with the same lifecycle as [Gamepad.SetRumble].
func (p *Gamepad) SetRumbleTriggers(left, right uint16, d time.Duration) error {
	return p.setEffect(true, left, right, d)
}

// EndRumbleTriggers stops the trigger motors. Idempotent like
// [Gamepad.EndRumble].
func (p *Gamepad) EndRumbleTriggers() error {
	return p.endEffect(true)
}

// Rumbling reports whether a body rumble effect is currently playing.
func (p *Gamepad) Rumbling() bool {
	s := p.slot()
	return s != nil && s.rumble.active
}

// setEffect validates, replaces the selected effect, and forwards the
// start command.
func (p *Gamepad) setEffect(trigger bool, low, high uint16, d time.Duration) error {
	s := p.slot()
	if s == nil {
		return pkg.ErrDeviceNotFound
	}

	supported, eff := s.caps.Rumble, &s.rumble
	start := backend.SetRumble(low, high)
	if trigger {
		supported, eff = s.caps.TriggerRumble, &s.trigRumble
		start = backend.SetRumbleTriggers(low, high)
	}
	if !supported {
		return fmt.Errorf("%w: %s", pkg.ErrUnsupportedCapability, start.Op)
	}
	if d <= 0 {
		return fmt.Errorf("%w: rumble duration %v", pkg.ErrInvalidArgument, d)
	}

	*eff = rumbleEffect{low: low, high: high, remaining: d, active: true}
	if err := p.girl.backend.SendOutput(s.devID, start); err != nil {
		*eff = rumbleEffect{}
		return fmt.Errorf("%w: %v", pkg.ErrBackendFailure, err)
	}
	return nil
}

// endEffect deactivates the selected effect and sends its stop command
// if it was playing.
func (p *Gamepad) endEffect(trigger bool) error {
	s := p.slot()
	if s == nil {
		return pkg.ErrDeviceNotFound
	}

	supported, eff := s.caps.Rumble, &s.rumble
	stop := backend.StopRumble()
	if trigger {
		supported, eff = s.caps.TriggerRumble, &s.trigRumble
		stop = backend.StopRumbleTriggers()
	}
	if !supported {
		return fmt.Errorf("%w: %s", pkg.ErrUnsupportedCapability, stop.Op)
	}
	if !eff.active {
		return nil
	}

	*eff = rumbleEffect{}
	if err := p.girl.backend.SendOutput(s.devID, stop); err != nil {
		return fmt.Errorf("%w: %v", pkg.ErrBackendFailure, err)
	}
	return nil
}

// tickRumble charges the update interval against both of the slot's
// effects.
func (g *Girl) tickRumble(s *slot, interval time.Duration) {
	g.tickEffect(s, &s.rumble, backend.StopRumble(), interval)
	g.tickEffect(s, &s.trigRumble, backend.StopRumbleTriggers(), interval)
}

// tickEffect decrements one effect's countdown and sends its stop
// command on expiry. The effect deactivates before the send, so the
// stop goes out exactly once even if the backend errors.
func (g *Girl) tickEffect(s *slot, eff *rumbleEffect, stop backend.OutputCommand, interval time.Duration) {
	if !eff.active {
		return
	}
	eff.remaining -= interval
	if eff.remaining > 0 {
		return
	}

	*eff = rumbleEffect{}
	if err := g.backend.SendOutput(s.devID, stop); err != nil {
		pkg.LogDebug(pkg.ComponentGirl, "rumble stop failed",
			"id", s.id, "error", err)
	}
}
