//go:build linux

package linux

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// _IOC encoding, as in asm-generic/ioctl.h.
const (
	iocNrShift   = 0
	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30

	iocWrite uintptr = 1
	iocRead  uintptr = 2
)

// evIoc is the ioctl magic shared by all evdev requests.
const evIoc uintptr = 'E'

func ioc(dir, typ, nr, size uintptr) uintptr {
	return dir<<iocDirShift | typ<<iocTypeShift | nr<<iocNrShift | size<<iocSizeShift
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// inputID mirrors struct input_id.
type inputID struct {
	BusType uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// absInfo mirrors struct input_absinfo.
type absInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

// Bitmap sizes for the event groups we query. Each covers the matching
// *_MAX code from the kernel headers.
const (
	keyBitBytes = 0x2ff/8 + 1 // KEY_MAX
	absBitBytes = absMax/8 + 1
	ffBitBytes  = 0x7f/8 + 1 // FF_MAX
)

// ffRumble is the FF_RUMBLE effect type code.
const ffRumble = 0x50

func testBit(bits []byte, code uint16) bool {
	i := int(code / 8)
	return i < len(bits) && bits[i]&(1<<(code%8)) != 0
}

// deviceID reads the bus/vendor/product identity of an event node.
func deviceID(fd int) (inputID, error) {
	var id inputID
	req := ioc(iocRead, evIoc, 0x02, unsafe.Sizeof(id)) // EVIOCGID
	if err := ioctl(fd, req, unsafe.Pointer(&id)); err != nil {
		return inputID{}, fmt.Errorf("EVIOCGID: %w", err)
	}
	return id, nil
}

// eventBits reads the code bitmap for one event type (EVIOCGBIT).
func eventBits(fd int, typ uint16, size int) ([]byte, error) {
	bits := make([]byte, size)
	req := ioc(iocRead, evIoc, 0x20+uintptr(typ), uintptr(size))
	if err := ioctl(fd, req, unsafe.Pointer(&bits[0])); err != nil {
		return nil, fmt.Errorf("EVIOCGBIT(%#x): %w", typ, err)
	}
	return bits, nil
}

// absAxes queries every advertised absolute axis and its calibration.
func absAxes(fd int) (map[uint16]axisRange, error) {
	bits, err := eventBits(fd, evAbs, absBitBytes)
	if err != nil {
		return nil, err
	}
	axes := make(map[uint16]axisRange)
	for code := uint16(0); code <= absMax; code++ {
		if !testBit(bits, code) {
			continue
		}
		var info absInfo
		req := ioc(iocRead, evIoc, 0x40+uintptr(code), unsafe.Sizeof(info)) // EVIOCGABS
		if err := ioctl(fd, req, unsafe.Pointer(&info)); err != nil {
			return nil, fmt.Errorf("EVIOCGABS(%#x): %w", code, err)
		}
		axes[code] = axisRange{min: float64(info.Minimum), max: float64(info.Maximum)}
	}
	return axes, nil
}

// hasFFRumble reports whether the device can play FF_RUMBLE effects.
func hasFFRumble(fd int) bool {
	bits, err := eventBits(fd, evFF, ffBitBytes)
	if err != nil {
		return false
	}
	return testBit(bits, ffRumble)
}

// keyBits reads the key code bitmap, used for the trigger key fallback.
func keyBits(fd int) ([]byte, error) {
	return eventBits(fd, evKey, keyBitBytes)
}
