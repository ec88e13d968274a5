package girl

import "github.com/zohnannor/girl/backend"

// applyTouch folds one touch transition into the slot's snapshot and
// emits the matching event. Entries outside the device's advertised
// surfaces or finger slots are dropped.
func (g *Girl) applyTouch(s *slot, tr *backend.TouchReport) {
	if tr.Pad < 0 || tr.Pad >= s.caps.Touchpads {
		return
	}
	if tr.Finger < 0 || tr.Finger >= s.caps.Fingers {
		return
	}

	prev := s.state.Touches[tr.Pad][tr.Finger]

	if !tr.Active {
		// A lift is reported once; repeats for an already idle finger
		// carry no information.
		if prev.Active {
			s.state.Touches[tr.Pad][tr.Finger] = Touch{}
			g.pushEvent(Event{
				Kind:   EventTouchpadUp,
				Device: s.id,
				Pad:    tr.Pad,
				Finger: tr.Finger,
				Touch:  prev,
			})
		}
		return
	}

	cur := Touch{
		Active:   true,
		X:        clampUnit(tr.X),
		Y:        clampUnit(tr.Y),
		Pressure: clampUnit(tr.Pressure),
	}
	s.state.Touches[tr.Pad][tr.Finger] = cur

	kind := EventTouchpadMotion
	if !prev.Active {
		kind = EventTouchpadDown
	} else if cur == prev {
		return
	}
	g.pushEvent(Event{
		Kind:   kind,
		Device: s.id,
		Pad:    tr.Pad,
		Finger: tr.Finger,
		Touch:  cur,
	})
}
