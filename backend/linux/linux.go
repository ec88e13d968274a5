//go:build linux

package linux

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"golang.org/x/sys/unix"

	"github.com/zohnannor/girl/backend"
	"github.com/zohnannor/girl/pkg"
	"github.com/zohnannor/girl/pkg/padid"
)

// devInputDir is where the kernel exposes event nodes.
const devInputDir = "/dev/input"

// Backend implements the backend contract over evdev. All methods must
// be called from one goroutine; the backend runs none of its own.
type Backend struct {
	dir        string
	classInput string
	db         *padid.Database

	epfd   int
	watch  *hotplug
	pads   map[backend.DeviceID]*pad
	byNode map[string]backend.DeviceID
	byFd   map[int32]*pad
	nextID backend.DeviceID
	rescan bool
	closed bool

	evbuf []unix.EpollEvent
	rdbuf []byte
}

// New creates a backend that scans /dev/input.
func New() *Backend {
	return newBackend(devInputDir, classInputDir)
}

func newBackend(dir, classInput string) *Backend {
	return &Backend{
		dir:        dir,
		classInput: classInput,
		db:         padid.New(),
		epfd:       -1,
		pads:       make(map[backend.DeviceID]*pad),
		byNode:     make(map[string]backend.DeviceID),
		byFd:       make(map[int32]*pad),
		nextID:     1,
		evbuf:      make([]unix.EpollEvent, 64),
		rdbuf:      make([]byte, eventSize*64),
	}
}

// Open sets up the epoll instance and the hotplug watch, then performs
// the initial device scan.
func (b *Backend) Open() error {
	if b.closed {
		return pkg.ErrClosed
	}
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return fmt.Errorf("epoll create: %w", err)
	}
	watch, err := newHotplug(b.dir)
	if err != nil {
		unix.Close(epfd)
		return err
	}
	b.epfd = epfd
	b.watch = watch
	if err := b.scan(); err != nil {
		b.Close()
		return err
	}
	pkg.LogDebug(pkg.ComponentLinux, "backend opened", "dir", b.dir, "devices", len(b.pads))
	return nil
}

// Close releases every pad and the polling descriptors.
func (b *Backend) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	for id := range b.pads {
		b.drop(id)
	}
	if b.watch != nil {
		b.watch.close()
		b.watch = nil
	}
	if b.epfd >= 0 {
		unix.Close(b.epfd)
		b.epfd = -1
	}
	pkg.LogDebug(pkg.ComponentLinux, "backend closed")
	return nil
}

// ListDevices drains the hotplug watch, rescans if anything changed, and
// returns the connected pads in discovery order.
func (b *Backend) ListDevices() ([]backend.DeviceInfo, error) {
	if b.closed {
		return nil, pkg.ErrClosed
	}
	if b.rescan || b.watch.pending() {
		b.rescan = false
		if err := b.scan(); err != nil {
			return nil, err
		}
	}
	infos := make([]backend.DeviceInfo, 0, len(b.pads))
	for _, id := range b.sortedIDs() {
		infos = append(infos, b.pads[id].info())
	}
	return infos, nil
}

// PollReports drains every ready descriptor and emits one full-state
// snapshot per pad that saw events. Pads whose node vanished are closed
// here; the next ListDevices reflects the removal.
func (b *Backend) PollReports() ([]backend.Report, error) {
	if b.closed {
		return nil, pkg.ErrClosed
	}
	for {
		n, err := unix.EpollWait(b.epfd, b.evbuf, 0)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return nil, fmt.Errorf("epoll wait: %w", err)
		}
		for i := 0; i < n; i++ {
			p := b.byFd[b.evbuf[i].Fd]
			if p == nil {
				continue
			}
			if b.evbuf[i].Events&(unix.EPOLLHUP|unix.EPOLLERR) != 0 {
				p.dead = true
				continue
			}
			p.readEvents(b.rdbuf)
		}
		if n < len(b.evbuf) {
			break
		}
	}

	var reports []backend.Report
	var gone []backend.DeviceID
	for _, id := range b.sortedIDs() {
		p := b.pads[id]
		if p.dead {
			gone = append(gone, id)
			continue
		}
		if p.state.dirty {
			reports = append(reports, p.snapshot())
		}
	}
	for _, id := range gone {
		b.drop(id)
		b.rescan = true
	}
	return reports, nil
}

// SendOutput routes one output command to the pad that owns the id.
func (b *Backend) SendOutput(id backend.DeviceID, cmd backend.OutputCommand) error {
	if b.closed {
		return pkg.ErrClosed
	}
	p, ok := b.pads[id]
	if !ok || p.dead {
		return fmt.Errorf("device %d: %w", id, pkg.ErrDeviceNotFound)
	}
	return p.sendOutput(cmd)
}

// scan reconciles the open pad set against the directory contents.
func (b *Backend) scan() error {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return fmt.Errorf("scan %s: %w", b.dir, err)
	}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		name := e.Name()
		if !isEventNode(name) {
			continue
		}
		seen[name] = true
		if _, ok := b.byNode[name]; ok {
			continue
		}
		p, err := openPad(b.dir, name, b.nextID, b.db, b.classInput)
		if err != nil {
			// Permission failures right after attach are normal; the
			// IN_ATTRIB watch retries once udev fixes the node up.
			if !errors.Is(err, errNotGamepad) {
				pkg.LogDebug(pkg.ComponentLinux, "skipping node", "node", name, "error", err)
			}
			continue
		}
		b.nextID++
		b.pads[p.id] = p
		b.byNode[p.node] = p.id
		b.byFd[int32(p.fd)] = p
		b.addPoll(p)
	}
	for node, id := range b.byNode {
		if !seen[node] {
			b.drop(id)
		}
	}
	return nil
}

func (b *Backend) addPoll(p *pad) {
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(p.fd)}
	if err := unix.EpollCtl(b.epfd, unix.EPOLL_CTL_ADD, p.fd, &ev); err != nil {
		pkg.LogWarn(pkg.ComponentLinux, "epoll add failed", "node", p.node, "error", err)
	}
}

// drop closes one pad and forgets it.
func (b *Backend) drop(id backend.DeviceID) {
	p, ok := b.pads[id]
	if !ok {
		return
	}
	unix.EpollCtl(b.epfd, unix.EPOLL_CTL_DEL, p.fd, nil)
	delete(b.byFd, int32(p.fd))
	delete(b.byNode, p.node)
	delete(b.pads, id)
	p.close()
	pkg.LogDebug(pkg.ComponentLinux, "pad closed", "node", p.node, "id", id)
}

func (b *Backend) sortedIDs() []backend.DeviceID {
	ids := make([]backend.DeviceID, 0, len(b.pads))
	for id := range b.pads {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
