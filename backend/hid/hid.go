package hid

import (
	"fmt"
	"sort"
	"time"

	"github.com/sstallion/go-hid"

	"github.com/zohnannor/girl/backend"
	"github.com/zohnannor/girl/pkg"
	"github.com/zohnannor/girl/pkg/padid"
)

// enumInterval throttles hidapi enumeration, which walks the OS device
// tree on every call.
const enumInterval = time.Second

// Backend implements the backend contract over raw HID for
// DualSense-family controllers. Pads without a dedicated HID driver are
// better served by the evdev backend.
type Backend struct {
	db       *padid.Database
	devices  map[backend.DeviceID]*dualsense
	byPath   map[string]backend.DeviceID
	nextID   backend.DeviceID
	lastEnum time.Time
	force    bool
	closed   bool
	buf      []byte
}

// New creates a HID backend.
func New() *Backend {
	return &Backend{
		db:      padid.New(),
		devices: make(map[backend.DeviceID]*dualsense),
		byPath:  make(map[string]backend.DeviceID),
		nextID:  1,
		buf:     make([]byte, 128),
	}
}

// Open initializes hidapi and performs the first enumeration.
func (b *Backend) Open() error {
	if b.closed {
		return pkg.ErrClosed
	}
	if err := hid.Init(); err != nil {
		return fmt.Errorf("hidapi init: %w", err)
	}
	b.enumerate()
	b.lastEnum = time.Now()
	pkg.LogDebug(pkg.ComponentHID, "backend opened", "devices", len(b.devices))
	return nil
}

// Close closes every controller and tears down hidapi.
func (b *Backend) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	for id := range b.devices {
		b.drop(id)
	}
	hid.Exit()
	pkg.LogDebug(pkg.ComponentHID, "backend closed")
	return nil
}

// ListDevices re-enumerates at most once per interval, or immediately
// after a controller dropped, and returns the connected set in
// discovery order.
func (b *Backend) ListDevices() ([]backend.DeviceInfo, error) {
	if b.closed {
		return nil, pkg.ErrClosed
	}
	if b.force || time.Since(b.lastEnum) >= enumInterval {
		b.force = false
		b.lastEnum = time.Now()
		b.enumerate()
	}
	infos := make([]backend.DeviceInfo, 0, len(b.devices))
	for _, id := range b.sortedIDs() {
		infos = append(infos, b.devices[id].info())
	}
	return infos, nil
}

// PollReports drains every controller and emits one snapshot per
// controller that saw input. Controllers whose transport failed are
// closed here; the next ListDevices reflects the removal.
func (b *Backend) PollReports() ([]backend.Report, error) {
	if b.closed {
		return nil, pkg.ErrClosed
	}
	var reports []backend.Report
	var gone []backend.DeviceID
	for _, id := range b.sortedIDs() {
		d := b.devices[id]
		d.poll(b.buf)
		if d.dead {
			gone = append(gone, id)
			continue
		}
		if d.dirty {
			reports = append(reports, d.snapshot())
		}
	}
	for _, id := range gone {
		b.drop(id)
		b.force = true
	}
	return reports, nil
}

// SendOutput routes one command to the controller that owns the id.
func (b *Backend) SendOutput(id backend.DeviceID, cmd backend.OutputCommand) error {
	if b.closed {
		return pkg.ErrClosed
	}
	d, ok := b.devices[id]
	if !ok || d.dead {
		return fmt.Errorf("device %d: %w", id, pkg.ErrDeviceNotFound)
	}
	return d.sendOutput(cmd)
}

// enumerate reconciles the open set against what hidapi can see.
func (b *Backend) enumerate() {
	seen := make(map[string]bool)
	err := hid.Enumerate(vendorSony, hid.ProductIDAny, func(info *hid.DeviceInfo) error {
		if !supportedPad(info) {
			return nil
		}
		seen[info.Path] = true
		if _, ok := b.byPath[info.Path]; ok {
			return nil
		}
		d, err := openDualsense(info, b.nextID, b.db)
		if err != nil {
			pkg.LogDebug(pkg.ComponentHID, "skipping device", "path", info.Path, "error", err)
			return nil
		}
		b.nextID++
		b.devices[d.id] = d
		b.byPath[d.path] = d.id
		return nil
	})
	if err != nil {
		// hidapi reports "nothing attached" and real failures the same
		// way, so keep the current set; transport errors in poll catch
		// genuine removals.
		pkg.LogDebug(pkg.ComponentHID, "enumerate", "error", err)
		return
	}
	for path, id := range b.byPath {
		if !seen[path] {
			b.drop(id)
		}
	}
}

// drop closes one controller and forgets it.
func (b *Backend) drop(id backend.DeviceID) {
	d, ok := b.devices[id]
	if !ok {
		return
	}
	delete(b.byPath, d.path)
	delete(b.devices, id)
	d.close()
	pkg.LogDebug(pkg.ComponentHID, "controller closed", "path", d.path, "id", id)
}

func (b *Backend) sortedIDs() []backend.DeviceID {
	ids := make([]backend.DeviceID, 0, len(b.devices))
	for id := range b.devices {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
