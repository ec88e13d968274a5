package girl

import (
	"fmt"
	"time"

	"github.com/zohnannor/girl/backend"
	"github.com/zohnannor/girl/pkg"
)

// DeviceID identifies one device connection within the registry. It
// packs the slot index and a per-slot generation counter, so a slot
// reused after a disconnect yields a new identity and stale handles can
// never alias the newcomer. For live devices, ascending DeviceID order
// equals ascending slot order.
type DeviceID uint64

// makeDeviceID packs a slot index and generation into an identity.
func makeDeviceID(slot int, gen uint32) DeviceID {
	return DeviceID(uint64(slot)<<32 | uint64(gen))
}

// Slot returns the registry slot the identity refers to.
func (id DeviceID) Slot() int {
	return int(id >> 32)
}

// Generation returns the slot reuse counter of the identity.
func (id DeviceID) Generation() uint32 {
	return uint32(id)
}

// String returns the identity as "slot:generation".
func (id DeviceID) String() string {
	return fmt.Sprintf("%d:%d", id.Slot(), id.Generation())
}

// MissedReportPolicy selects what happens to a device's analog values on
// an update where the backend delivered no report for it. Buttons always
// hold; only sticks and triggers are affected.
type MissedReportPolicy uint8

// Missed-report policies.
const (
	MissedHold  MissedReportPolicy = iota // Keep the last values (default)
	MissedDecay                           // Scale analog values toward zero
)

// maxTickInterval caps the wall-clock time charged against rumble
// countdowns in a single update, so a paused process does not burn whole
// effects at once.
const maxTickInterval = 250 * time.Millisecond

// slot is one entry of the registry's device table.
type slot struct {
	occupied   bool
	gen        uint32
	id         DeviceID
	devID      backend.DeviceID
	info       backend.DeviceInfo
	caps       CapabilityTable
	state      State
	sensorOn   [NumSensorKinds]bool
	rumble     rumbleEffect
	trigRumble rumbleEffect
	handle     *Gamepad
	fresh      bool // received a report during the current update
}

// Girl is the gamepad registry. It owns the slot table, the event
// queue, and the backend connection; all of it mutates only inside
// [Girl.Update].
//
// A Girl and the handles it returns are confined to a single goroutine.
// Read state between updates, not concurrently with one.
type Girl struct {
	backend backend.Backend

	slots [MaxGamepads]slot
	count int

	events []Event

	deadzone     float64
	missedPolicy MissedReportPolicy
	decayRate    float64
	fixedTick    time.Duration // 0 means wall-clock ticks
	lastUpdate   time.Time
	nowFunc      func() time.Time

	closed bool
}

// Option adjusts registry behavior. Options apply at [New] and at
// runtime through [Girl.Apply].
type Option func(*Girl)

// WithStickDeadzone sets the per-axis stick dead zone. Values are
// clamped to [0,1); out-of-range input falls back to the nearest bound.
func WithStickDeadzone(dz float64) Option {
	return func(g *Girl) {
		if dz < 0 {
			dz = 0
		}
		if dz >= 1 {
			dz = DefaultStickDeadzone
		}
		g.deadzone = dz
	}
}

// WithMissedReportHold keeps the last analog values on updates without a
// report. This is the default.
func WithMissedReportHold() Option {
	return func(g *Girl) {
		g.missedPolicy = MissedHold
	}
}

// WithMissedReportDecay scales analog values toward zero by rate per
// update without a report. A rate of 1 zeroes them immediately; rate is
// clamped to [0,1].
func WithMissedReportDecay(rate float64) Option {
	return func(g *Girl) {
		if rate < 0 {
			rate = 0
		}
		if rate > 1 {
			rate = 1
		}
		g.missedPolicy = MissedDecay
		g.decayRate = rate
	}
}

// WithFixedTick charges rumble countdowns a fixed interval per update
// instead of elapsed wall-clock time. Non-positive intervals are
// ignored.
func WithFixedTick(d time.Duration) Option {
	return func(g *Girl) {
		if d > 0 {
			g.fixedTick = d
		}
	}
}

// WithWallClockTick charges rumble countdowns the elapsed wall-clock
// time between updates, capped at 250ms per update. This is the
// default.
func WithWallClockTick() Option {
	return func(g *Girl) {
		g.fixedTick = 0
	}
}

// New creates a registry over the given backend and opens it. The
// backend must not be shared with another registry.
func New(b backend.Backend, opts ...Option) (*Girl, error) {
	g := &Girl{
		backend:  b,
		deadzone: DefaultStickDeadzone,
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}

	if err := b.Open(); err != nil {
		return nil, fmt.Errorf("%w: %v", pkg.ErrInitializationFailure, err)
	}
	g.lastUpdate = g.nowFunc()

	pkg.LogInfo(pkg.ComponentGirl, "registry opened")
	return g, nil
}

// Apply adjusts options on a live registry. Call it from the same
// goroutine that calls Update.
func (g *Girl) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(g)
	}
}

// Close stops any active rumble best-effort, closes the backend, and
// invalidates every handle. Closing twice is a no-op.
func (g *Girl) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true

	for i := range g.slots {
		s := &g.slots[i]
		if !s.occupied {
			continue
		}
		if s.rumble.active {
			g.backend.SendOutput(s.devID, backend.StopRumble())
		}
		if s.trigRumble.active {
			g.backend.SendOutput(s.devID, backend.StopRumbleTriggers())
		}
		s.occupied = false
	}
	g.count = 0

	if err := g.backend.Close(); err != nil {
		return fmt.Errorf("%w: %v", pkg.ErrBackendFailure, err)
	}

	pkg.LogInfo(pkg.ComponentGirl, "registry closed")
	return nil
}

// Update advances the registry by one tick: it reconciles the slot table
// against the backend's device list, folds in new input reports, and
// ticks rumble countdowns. It is the only mutation point; call it once
// per frame.
//
// On an update without a report for a device, the device's analog
// values follow the configured [MissedReportPolicy], buttons hold, and
// the previous-buttons snapshot still advances, so edge queries go
// quiet instead of repeating.
//
// Backend-level failures are returned wrapped in pkg.ErrBackendFailure;
// individual malformed reports are skipped and never abort the update.
func (g *Girl) Update() error {
	if g.closed {
		return pkg.ErrClosed
	}

	now := g.nowFunc()
	interval := g.tickInterval(now)
	g.lastUpdate = now

	if err := g.syncDevices(); err != nil {
		return err
	}

	// The previous-buttons snapshot advances exactly once per update for
	// every connected device, reports or not.
	for i := range g.slots {
		s := &g.slots[i]
		if !s.occupied {
			continue
		}
		s.state.PrevButtons = s.state.Buttons
		s.fresh = false
	}

	pollErr := g.applyReports()

	for i := range g.slots {
		s := &g.slots[i]
		if !s.occupied {
			continue
		}
		if !s.fresh && g.missedPolicy == MissedDecay {
			decayState(&s.state, g.decayRate)
		}
		g.emitButtonEvents(s.id, s.state.PrevButtons, s.state.Buttons)
		g.tickRumble(s, interval)
	}

	return pollErr
}

// GamepadsConnected returns handles for every connected device, ordered
// by DeviceID ascending. The order is stable across calls as long as no
// device connects or disconnects.
func (g *Girl) GamepadsConnected() []*Gamepad {
	pads := make([]*Gamepad, 0, g.count)
	for i := range g.slots {
		if g.slots[i].occupied {
			pads = append(pads, g.slots[i].handle)
		}
	}
	return pads
}

// Gamepad returns the handle at the given logical index, where index 0
// is the connected device with the lowest DeviceID. It returns false
// when fewer than index+1 devices are connected.
func (g *Girl) Gamepad(index int) (*Gamepad, bool) {
	if index < 0 || index >= g.count {
		return nil, false
	}
	n := 0
	for i := range g.slots {
		if !g.slots[i].occupied {
			continue
		}
		if n == index {
			return g.slots[i].handle, true
		}
		n++
	}
	return nil, false
}

// Count returns the number of connected devices.
func (g *Girl) Count() int {
	return g.count
}

// tickInterval returns the duration to charge against rumble countdowns
// for the current update.
func (g *Girl) tickInterval(now time.Time) time.Duration {
	if g.fixedTick > 0 {
		return g.fixedTick
	}
	d := now.Sub(g.lastUpdate)
	if d < 0 {
		return 0
	}
	if d > maxTickInterval {
		return maxTickInterval
	}
	return d
}

// syncDevices reconciles the slot table against the backend's device
// list. Newly listed devices allocate the lowest free slot; devices
// missing from the list free theirs.
func (g *Girl) syncDevices() error {
	infos, err := g.backend.ListDevices()
	if err != nil {
		return fmt.Errorf("%w: %v", pkg.ErrBackendFailure, err)
	}

	for i := range g.slots {
		s := &g.slots[i]
		if !s.occupied {
			continue
		}
		present := false
		for j := range infos {
			if infos[j].ID == s.devID {
				present = true
				break
			}
		}
		if !present {
			g.freeSlot(s)
		}
	}

	for j := range infos {
		if g.slotByDevice(infos[j].ID) == nil {
			g.allocSlot(&infos[j])
		}
	}
	return nil
}

// allocSlot places a newly connected device into the lowest free slot.
// With the table full, the device is ignored until a slot frees up.
func (g *Girl) allocSlot(info *backend.DeviceInfo) {
	for i := range g.slots {
		s := &g.slots[i]
		if s.occupied {
			continue
		}

		s.occupied = true
		s.gen++
		s.id = makeDeviceID(i, s.gen)
		s.devID = info.ID
		s.info = *info
		s.caps = newCapabilityTable(info.Caps)
		s.state = State{Connected: true}
		s.sensorOn = [NumSensorKinds]bool{}
		s.rumble = rumbleEffect{}
		s.trigRumble = rumbleEffect{}
		s.fresh = false
		s.handle = &Gamepad{girl: g, index: i, gen: s.gen, id: s.id}
		g.count++

		g.pushEvent(Event{Kind: EventConnected, Device: s.id})
		pkg.LogDebug(pkg.ComponentGirl, "device connected",
			"id", s.id, "backend", s.devID, "name", info.Name)
		return
	}
	pkg.LogWarn(pkg.ComponentGirl, "slot table full, ignoring device",
		"backend", info.ID, "name", info.Name)
}

// freeSlot releases a slot whose device went away. The snapshot resets
// to safe defaults and rumble bookkeeping is dropped without sending
// anything; the device is gone.
func (g *Girl) freeSlot(s *slot) {
	g.pushEvent(Event{Kind: EventDisconnected, Device: s.id})
	pkg.LogDebug(pkg.ComponentGirl, "device disconnected",
		"id", s.id, "backend", s.devID)

	s.occupied = false
	s.devID = 0
	s.info = backend.DeviceInfo{}
	s.caps = CapabilityTable{}
	s.state = State{}
	s.sensorOn = [NumSensorKinds]bool{}
	s.rumble = rumbleEffect{}
	s.trigRumble = rumbleEffect{}
	s.handle = nil
	g.count--
}

// slotByDevice finds the occupied slot bound to a backend device.
func (g *Girl) slotByDevice(id backend.DeviceID) *slot {
	for i := range g.slots {
		if g.slots[i].occupied && g.slots[i].devID == id {
			return &g.slots[i]
		}
	}
	return nil
}

// applyReports drains the backend's report queue into the slot table.
// Reports for unknown devices are skipped.
func (g *Girl) applyReports() error {
	reports, err := g.backend.PollReports()
	if err != nil {
		return fmt.Errorf("%w: %v", pkg.ErrBackendFailure, err)
	}

	for i := range reports {
		r := &reports[i]
		s := g.slotByDevice(r.Device)
		if s == nil {
			pkg.LogDebug(pkg.ComponentGirl, "report for unknown device",
				"backend", r.Device)
			continue
		}
		g.applyReport(s, r)
		s.fresh = true
	}
	return nil
}

// decayState scales analog values toward zero after a missed report.
func decayState(st *State, rate float64) {
	f := 1 - rate
	if f <= 0 {
		st.Sticks = [2]Vec2{}
		st.Triggers = [2]float64{}
		return
	}
	for side := 0; side < 2; side++ {
		st.Sticks[side].X *= f
		st.Sticks[side].Y *= f
		st.Triggers[side] *= f
	}
}
