package sim

import (
	"fmt"
	"sync"

	"github.com/zohnannor/girl/backend"
	"github.com/zohnannor/girl/pkg"
)

// device holds the scripted state for one simulated device.
type device struct {
	info      backend.DeviceInfo
	connected bool
	output    []backend.OutputCommand
}

// Backend implements the backend.Backend interface entirely in memory.
// The zero value is not usable; create instances with New.
type Backend struct {
	mu     sync.Mutex
	opened bool
	closed bool

	nextID  backend.DeviceID
	devices map[backend.DeviceID]*device
	order   []backend.DeviceID
	reports []backend.Report

	openErr error
	listErr error
	pollErr error
	sendErr error
}

// New creates an empty simulated backend.
func New() *Backend {
	return &Backend{
		nextID:  1,
		devices: make(map[backend.DeviceID]*device),
	}
}

// Open prepares the backend. Fails with the error armed by FailOpen.
func (b *Backend) Open() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return pkg.ErrClosed
	}
	if err := b.openErr; err != nil {
		b.openErr = nil
		return err
	}
	b.opened = true
	pkg.LogDebug(pkg.ComponentSim, "backend opened")
	return nil
}

// Close shuts the backend down. Subsequent contract calls fail.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return pkg.ErrClosed
	}
	b.closed = true
	b.opened = false
	pkg.LogDebug(pkg.ComponentSim, "backend closed")
	return nil
}

// ListDevices returns the connected devices in connect order.
func (b *Backend) ListDevices() ([]backend.DeviceInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, pkg.ErrClosed
	}
	if err := b.listErr; err != nil {
		b.listErr = nil
		return nil, err
	}

	infos := make([]backend.DeviceInfo, 0, len(b.order))
	for _, id := range b.order {
		if d := b.devices[id]; d != nil && d.connected {
			infos = append(infos, d.info)
		}
	}
	return infos, nil
}

// PollReports drains every queued report, oldest first.
func (b *Backend) PollReports() ([]backend.Report, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, pkg.ErrClosed
	}
	if err := b.pollErr; err != nil {
		b.pollErr = nil
		return nil, err
	}

	reports := b.reports
	b.reports = nil
	return reports, nil
}

// SendOutput records the command on the target device.
func (b *Backend) SendOutput(id backend.DeviceID, cmd backend.OutputCommand) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return pkg.ErrClosed
	}
	if err := b.sendErr; err != nil {
		b.sendErr = nil
		return err
	}

	d := b.devices[id]
	if d == nil || !d.connected {
		return fmt.Errorf("send %s to device %d: %w", cmd, id, pkg.ErrDeviceNotFound)
	}
	d.output = append(d.output, cmd)
	return nil
}

// Connect attaches a simulated device and returns its ID. A zero info.ID
// gets the next free ID assigned; a nonzero one is kept, letting scripts
// reconnect "the same" physical device.
func (b *Backend) Connect(info backend.DeviceInfo) backend.DeviceID {
	b.mu.Lock()
	defer b.mu.Unlock()

	if info.ID == 0 {
		info.ID = b.nextID
		b.nextID++
	} else if info.ID >= b.nextID {
		b.nextID = info.ID + 1
	}

	d := b.devices[info.ID]
	if d == nil {
		d = &device{}
		b.devices[info.ID] = d
		b.order = append(b.order, info.ID)
	}
	d.info = info
	d.connected = true
	pkg.LogDebug(pkg.ComponentSim, "device connected", "id", info.ID, "name", info.Name)
	return info.ID
}

// Disconnect detaches a device. Its recorded output stays inspectable.
func (b *Backend) Disconnect(id backend.DeviceID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if d := b.devices[id]; d != nil {
		d.connected = false
		pkg.LogDebug(pkg.ComponentSim, "device disconnected", "id", id)
	}
}

// QueueReport appends a report for the next PollReports call.
func (b *Backend) QueueReport(r backend.Report) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reports = append(b.reports, r)
}

// Output returns a copy of every command sent to the device so far,
// including commands sent before a disconnect.
func (b *Backend) Output(id backend.DeviceID) []backend.OutputCommand {
	b.mu.Lock()
	defer b.mu.Unlock()

	d := b.devices[id]
	if d == nil {
		return nil
	}
	out := make([]backend.OutputCommand, len(d.output))
	copy(out, d.output)
	return out
}

// ClearOutput forgets the commands recorded for the device.
func (b *Backend) ClearOutput(id backend.DeviceID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if d := b.devices[id]; d != nil {
		d.output = nil
	}
}

// FailOpen arms a one-shot error for the next Open call.
func (b *Backend) FailOpen(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.openErr = err
}

// FailNextList arms a one-shot error for the next ListDevices call.
func (b *Backend) FailNextList(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listErr = err
}

// FailNextPoll arms a one-shot error for the next PollReports call.
func (b *Backend) FailNextPoll(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pollErr = err
}

// FailNextSend arms a one-shot error for the next SendOutput call.
func (b *Backend) FailNextSend(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sendErr = err
}

// Ensure Backend implements backend.Backend.
var _ backend.Backend = (*Backend)(nil)
