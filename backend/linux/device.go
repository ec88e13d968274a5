//go:build linux

package linux

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"github.com/kenshaw/evdev"
	"golang.org/x/sys/unix"

	"github.com/zohnannor/girl/backend"
	"github.com/zohnannor/girl/pkg"
	"github.com/zohnannor/girl/pkg/padid"
)

// errNotGamepad rejects event nodes that belong to keyboards, mice, and
// the auxiliary nodes pad drivers create for touchpads and sensors.
var errNotGamepad = errors.New("not a gamepad node")

// eventSize matches struct input_event for this platform.
const eventSize = int(unsafe.Sizeof(evdev.Event{}))

// pad is one open evdev gamepad.
type pad struct {
	id      backend.DeviceID
	node    string // directory entry name, e.g. "event7"
	fd      int
	name    string
	vendor  uint16
	product uint16
	caps    backend.Capabilities
	axes    axisMap
	power   backend.PowerLevel
	state   padState
	ffID    int16
	dead    bool
}

// openPad opens one event node and qualifies it as a gamepad. The node
// is probed twice: once through the evdev wrapper for its metadata, and
// then through a raw non-blocking descriptor that the Go runtime poller
// never sees, so draining it from PollReports cannot block.
func openPad(dir, node string, id backend.DeviceID, db *padid.Database, classInput string) (*pad, error) {
	path := filepath.Join(dir, node)

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	d := evdev.Open(f)
	name := d.Name()
	serial := d.Serial()
	isPad := d.KeyTypes()[evdev.BtnGamepad]
	f.Close()
	if !isPad {
		return nil, errNotGamepad
	}

	// Write access is needed for force feedback; fall back to
	// read-only and advertise no rumble if the node denies it.
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	writable := err == nil
	if err != nil {
		fd, err = unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	ident, err := deviceID(fd)
	if err != nil {
		unix.Close(fd)
		return nil, err
	}
	axes, err := absAxes(fd)
	if err != nil {
		unix.Close(fd)
		return nil, err
	}
	keys, err := keyBits(fd)
	if err != nil {
		unix.Close(fd)
		return nil, err
	}

	p := &pad{
		id:      id,
		node:    node,
		fd:      fd,
		name:    name,
		vendor:  ident.Vendor,
		product: ident.Product,
		axes:    resolveAxes(axes, testBit(keys, btnTL2) && testBit(keys, btnTR2)),
		power:   readPower(classInput, node),
		ffID:    -1,
	}
	if n := db.Name(ident.Vendor, ident.Product); n != "" {
		p.name = n
	}
	p.caps = backend.Capabilities{Rumble: writable && hasFFRumble(fd)}

	// Start dirty so the first poll emits a baseline snapshot carrying
	// the battery level before any physical input arrives.
	p.state.dirty = true

	pkg.LogDebug(pkg.ComponentLinux, "pad opened",
		"node", node, "name", p.name, "serial", serial,
		"vendor", fmt.Sprintf("%04x", p.vendor),
		"product", fmt.Sprintf("%04x", p.product),
		"rumble", p.caps.Rumble)
	return p, nil
}

func (p *pad) info() backend.DeviceInfo {
	return backend.DeviceInfo{
		ID:      p.id,
		Name:    p.name,
		Vendor:  p.vendor,
		Product: p.product,
		Caps:    p.caps,
	}
}

// readEvents drains pending kernel events into the running state. It
// returns false once the device is gone.
func (p *pad) readEvents(buf []byte) bool {
	for {
		n, err := unix.Read(p.fd, buf)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
				return true
			}
			p.dead = true
			return false
		}
		if n <= 0 {
			return true
		}
		for off := 0; off+eventSize <= n; off += eventSize {
			ev := (*evdev.Event)(unsafe.Pointer(&buf[off]))
			p.axes.apply(&p.state, uint16(ev.Type), ev.Code, ev.Value)
		}
		if n < len(buf) {
			return true
		}
	}
}

// snapshot captures the current full state as a report and clears the
// dirty mark.
func (p *pad) snapshot() backend.Report {
	p.state.dirty = false
	return backend.Report{
		Device:   p.id,
		Buttons:  p.state.buttons,
		Sticks:   p.state.sticks,
		Triggers: p.state.triggers,
		Power:    p.power,
	}
}

// sendOutput applies one output command to the device.
func (p *pad) sendOutput(cmd backend.OutputCommand) error {
	switch cmd.Op {
	case backend.OpSetRumble:
		if !p.caps.Rumble {
			return fmt.Errorf("%s on %s: %w", cmd.Op, p.node, pkg.ErrUnsupportedCapability)
		}
		id, err := uploadRumble(p.fd, p.ffID, cmd.Low, cmd.High)
		if err != nil {
			return err
		}
		p.ffID = id
		return playEffect(p.fd, p.ffID, true)
	case backend.OpStopRumble:
		if !p.caps.Rumble {
			return fmt.Errorf("%s on %s: %w", cmd.Op, p.node, pkg.ErrUnsupportedCapability)
		}
		if p.ffID < 0 {
			return nil
		}
		return playEffect(p.fd, p.ffID, false)
	case backend.OpSetLED, backend.OpSetRumbleTriggers, backend.OpStopRumbleTriggers,
		backend.OpEnableSensor, backend.OpDisableSensor:
		return fmt.Errorf("%s on %s: %w", cmd.Op, p.node, pkg.ErrUnsupportedCapability)
	default:
		return fmt.Errorf("%s: %w", cmd.Op, pkg.ErrUnknownCommand)
	}
}

func (p *pad) close() {
	if p.ffID >= 0 {
		if err := eraseEffect(p.fd, p.ffID); err != nil {
			pkg.LogDebug(pkg.ComponentLinux, "erase effect failed", "node", p.node, "error", err)
		}
		p.ffID = -1
	}
	unix.Close(p.fd)
}
