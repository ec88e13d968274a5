package girl

// EventKind identifies what an event describes.
type EventKind uint8

// Event kinds.
const (
	EventConnected      EventKind = iota // Device appeared; handle is live
	EventDisconnected                    // Device went away; handle is dead
	EventButtonPressed                   // One button went down
	EventButtonReleased                  // One button went up
	EventTouchpadDown                    // Finger touched a surface
	EventTouchpadMotion                  // Finger moved or pressure changed
	EventTouchpadUp                      // Finger lifted
)

// String returns a human-readable event kind name.
func (k EventKind) String() string {
	switch k {
	case EventConnected:
		return "Connected"
	case EventDisconnected:
		return "Disconnected"
	case EventButtonPressed:
		return "ButtonPressed"
	case EventButtonReleased:
		return "ButtonReleased"
	case EventTouchpadDown:
		return "TouchpadDown"
	case EventTouchpadMotion:
		return "TouchpadMotion"
	case EventTouchpadUp:
		return "TouchpadUp"
	default:
		return "Unknown"
	}
}

// Event is one thing that happened during an Update. Fields beyond Kind
// and Device are meaningful only for the kinds that use them.
type Event struct {
	Kind   EventKind
	Device DeviceID // Registry identity of the device involved
	Button Button   // Button events: exactly one bit set
	Pad    int      // Touch events: surface index
	Finger int      // Touch events: finger slot
	Touch  Touch    // Touch events: state after the transition
}

// maxQueuedEvents bounds the event queue. When an Update would push the
// queue past the bound, the oldest events are dropped first.
const maxQueuedEvents = 256

// pushEvent appends to the event queue, dropping the oldest entry when
// the queue is full.
func (g *Girl) pushEvent(ev Event) {
	if len(g.events) >= maxQueuedEvents {
		n := copy(g.events, g.events[1:])
		g.events = g.events[:n]
	}
	g.events = append(g.events, ev)
}

// PollEvent pops the oldest queued event. It returns false when the
// queue is empty. Events accumulate only inside [Girl.Update]; a loop
// that drains after every update never hits the queue bound.
func (g *Girl) PollEvent() (Event, bool) {
	if len(g.events) == 0 {
		return Event{}, false
	}
	ev := g.events[0]
	n := copy(g.events, g.events[1:])
	g.events = g.events[:n]
	return ev, true
}

// emitButtonEvents appends one event per button bit that changed between
// the two sets.
func (g *Girl) emitButtonEvents(id DeviceID, prev, cur Button) {
	if prev == cur {
		return
	}
	pressed := cur &^ prev
	released := prev &^ cur
	for bit := Button(1); bit != 0 && bit <= cur|prev; bit <<= 1 {
		if pressed&bit != 0 {
			g.pushEvent(Event{Kind: EventButtonPressed, Device: id, Button: bit})
		}
		if released&bit != 0 {
			g.pushEvent(Event{Kind: EventButtonReleased, Device: id, Button: bit})
		}
	}
}
