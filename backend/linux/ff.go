//go:build linux

package linux

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/kenshaw/evdev"
	"golang.org/x/sys/unix"
)

// ffEffectSize is the size of struct ff_effect. The union member carries
// a pointer, so the size follows the platform word size (48 on 64-bit
// kernels, 44 on 32-bit).
const ffEffectSize = 40 + unsafe.Sizeof(uintptr(0))

// ffRumbleOffset is where the ff_rumble_effect union member starts. The
// union is pointer-aligned, which lands on 16 for both word sizes.
const ffRumbleOffset = 16

// encodeRumble serializes a struct ff_effect carrying an FF_RUMBLE
// payload. id is the effect slot to replace, or -1 to allocate a new
// one. Replay length stays zero so the effect plays until stopped.
func encodeRumble(id int16, strong, weak uint16) [ffEffectSize]byte {
	var buf [ffEffectSize]byte
	binary.LittleEndian.PutUint16(buf[0:], ffRumble)
	binary.LittleEndian.PutUint16(buf[2:], uint16(id))
	binary.LittleEndian.PutUint16(buf[ffRumbleOffset:], strong)
	binary.LittleEndian.PutUint16(buf[ffRumbleOffset+2:], weak)
	return buf
}

// uploadRumble uploads (or, with id >= 0, replaces) a rumble effect and
// returns the kernel-assigned effect id.
func uploadRumble(fd int, id int16, strong, weak uint16) (int16, error) {
	buf := encodeRumble(id, strong, weak)
	req := ioc(iocWrite, evIoc, 0x80, ffEffectSize) // EVIOCSFF
	if err := ioctl(fd, req, unsafe.Pointer(&buf[0])); err != nil {
		return -1, fmt.Errorf("EVIOCSFF: %w", err)
	}
	// The kernel writes the allocated id back into the struct.
	return int16(binary.LittleEndian.Uint16(buf[2:])), nil
}

// playEffect starts or stops a previously uploaded effect by writing an
// EV_FF event to the device.
func playEffect(fd int, id int16, on bool) error {
	var ev evdev.Event
	ev.Type = evdev.EventType(evFF)
	ev.Code = uint16(id)
	if on {
		ev.Value = 1
	}
	buf := (*[unsafe.Sizeof(ev)]byte)(unsafe.Pointer(&ev))[:]
	if _, err := unix.Write(fd, buf); err != nil {
		return fmt.Errorf("play effect %d: %w", id, err)
	}
	return nil
}

// eraseEffect frees an uploaded effect slot. EVIOCRMFF passes the id as
// the ioctl argument itself, not through a pointer.
func eraseEffect(fd int, id int16) error {
	req := ioc(iocWrite, evIoc, 0x81, unsafe.Sizeof(int32(0))) // EVIOCRMFF
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(id))
	if errno != 0 {
		return fmt.Errorf("EVIOCRMFF: %w", errno)
	}
	return nil
}
