//go:build linux

package linux

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"
)

// hotplug watches a device directory with a non-blocking inotify
// descriptor. It is drained opportunistically from ListDevices, so node
// arrival and removal turn into a rescan without any extra goroutine.
//
// IN_ATTRIB is included because udev grants access permissions shortly
// after a node appears; watching only IN_CREATE would make the backend
// scan before the node is readable and then never retry.
type hotplug struct {
	fd  int
	buf [4096]byte
}

func newHotplug(dir string) (*hotplug, error) {
	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("inotify init: %w", err)
	}
	mask := uint32(unix.IN_CREATE | unix.IN_DELETE | unix.IN_ATTRIB | unix.IN_MOVED_TO)
	if _, err := unix.InotifyAddWatch(fd, dir, mask); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("inotify watch %s: %w", dir, err)
	}
	return &hotplug{fd: fd}, nil
}

// pending drains every queued notification and reports whether any of
// them touched an event node.
func (h *hotplug) pending() bool {
	changed := false
	for {
		n, err := unix.Read(h.fd, h.buf[:])
		if err != nil || n <= 0 {
			if err != nil && !errors.Is(err, unix.EAGAIN) {
				return changed
			}
			return changed
		}
		for off := 0; off+unix.SizeofInotifyEvent <= n; {
			ev := (*unix.InotifyEvent)(unsafe.Pointer(&h.buf[off]))
			end := off + unix.SizeofInotifyEvent + int(ev.Len)
			if end > n {
				break
			}
			if ev.Len > 0 {
				name := h.buf[off+unix.SizeofInotifyEvent : end]
				if isEventNode(string(bytes.TrimRight(name, "\x00"))) {
					changed = true
				}
			}
			off = end
		}
	}
}

func (h *hotplug) close() error {
	return unix.Close(h.fd)
}

// isEventNode reports whether a directory entry names an evdev node.
func isEventNode(name string) bool {
	rest, ok := strings.CutPrefix(name, "event")
	return ok && rest != ""
}
