package hid

import (
	"fmt"

	"github.com/sstallion/go-hid"

	"github.com/zohnannor/girl/backend"
	"github.com/zohnannor/girl/pkg"
	"github.com/zohnannor/girl/pkg/padid"
)

// Sony vendor and DualSense-family product ids.
const (
	vendorSony       = 0x054C
	pidDualSense     = 0x0CE6
	pidDualSenseEdge = 0x0DF2
)

// dualsense is one open controller.
type dualsense struct {
	id      backend.DeviceID
	path    string
	dev     *hid.Device
	name    string
	vendor  uint16
	product uint16
	bt      bool
	caps    backend.Capabilities

	frame     inputFrame
	touch     [2]touchPoint
	pending   []backend.TouchReport
	sensorsOn [backend.NumSensorKinds]bool
	power     backend.PowerLevel

	motorLow  uint8
	motorHigh uint8
	led       backend.LEDColor
	seq       uint8

	dirty bool
	dead  bool
}

// supportedPad reports whether an enumerated interface belongs to a
// controller this driver speaks. The usage filter skips the audio and
// vendor interfaces the same hardware exposes; it is applied only when
// the platform fills the usage fields in.
func supportedPad(info *hid.DeviceInfo) bool {
	if info.VendorID != vendorSony {
		return false
	}
	if info.ProductID != pidDualSense && info.ProductID != pidDualSenseEdge {
		return false
	}
	if info.UsagePage != 0 && (info.UsagePage != 0x0001 || info.Usage != 0x05) {
		return false
	}
	return true
}

// openDualsense opens one enumerated controller and switches it into
// full report mode.
func openDualsense(info *hid.DeviceInfo, id backend.DeviceID, db *padid.Database) (*dualsense, error) {
	dev, err := hid.OpenPath(info.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", info.Path, err)
	}
	if err := dev.SetNonblock(true); err != nil {
		dev.Close()
		return nil, fmt.Errorf("set nonblocking: %w", err)
	}

	bt := info.BusType == hid.BusBluetooth
	if bt {
		// Reading the calibration feature report flips the controller
		// from compact to full input reports over Bluetooth.
		buf := make([]byte, 64)
		buf[0] = dsFeatureCalibration
		if _, err := dev.GetFeatureReport(buf); err != nil {
			pkg.LogWarn(pkg.ComponentHID, "calibration probe failed",
				"path", info.Path, "error", err)
		}
	}

	name := db.Name(info.VendorID, info.ProductID)
	if name == "" {
		name = info.ProductStr
	}

	d := &dualsense{
		id:      id,
		path:    info.Path,
		dev:     dev,
		name:    name,
		vendor:  info.VendorID,
		product: info.ProductID,
		bt:      bt,
		caps: backend.Capabilities{
			LED:    true,
			Rumble: true,
			Sensors: []backend.SensorKind{
				backend.SensorGyroscope,
				backend.SensorAccelerometer,
			},
			Touchpads: 1,
			Fingers:   2,
		},
		power: backend.PowerUnknown,
	}

	pkg.LogDebug(pkg.ComponentHID, "controller opened",
		"path", d.path, "name", d.name, "bluetooth", bt)
	return d, nil
}

func (d *dualsense) info() backend.DeviceInfo {
	return backend.DeviceInfo{
		ID:      d.id,
		Name:    d.name,
		Vendor:  d.vendor,
		Product: d.product,
		Caps:    d.caps,
	}
}

// poll drains every queued input report and folds each into the device
// state. Marks the device dead on a transport error.
func (d *dualsense) poll(buf []byte) {
	for {
		n, err := d.dev.Read(buf)
		if err != nil {
			d.dead = true
			return
		}
		if n == 0 {
			return
		}
		payload, ok := slicePayload(buf[:n], d.bt)
		if !ok {
			continue
		}
		fr, err := parseFrame(payload)
		if err != nil {
			pkg.LogDebug(pkg.ComponentHID, "dropping report", "path", d.path, "error", err)
			continue
		}
		d.apply(fr)
	}
}

// apply folds one frame into the state, turning touch point deltas into
// transition reports. A lift is reported exactly once.
func (d *dualsense) apply(fr inputFrame) {
	for i := range fr.touches {
		cur, prev := fr.touches[i], d.touch[i]
		switch {
		case cur.active:
			if !prev.active || cur.x != prev.x || cur.y != prev.y {
				d.pending = append(d.pending, backend.TouchReport{
					Finger:   i,
					Active:   true,
					X:        cur.x,
					Y:        cur.y,
					Pressure: 1,
				})
			}
		case prev.active:
			d.pending = append(d.pending, backend.TouchReport{
				Finger: i,
				X:      cur.x,
				Y:      cur.y,
			})
		}
		d.touch[i] = cur
	}
	d.frame = fr
	d.power = fr.power
	d.dirty = true
}

// snapshot emits the current full state plus whatever touch transitions
// and enabled sensor samples accumulated since the last snapshot.
func (d *dualsense) snapshot() backend.Report {
	r := backend.Report{
		Device:   d.id,
		Buttons:  d.frame.buttons,
		Sticks:   d.frame.sticks,
		Triggers: d.frame.triggers,
		Touches:  d.pending,
		Power:    d.power,
	}
	if d.sensorsOn[backend.SensorGyroscope] {
		r.Sensors = append(r.Sensors, backend.SensorSample{
			Kind: backend.SensorGyroscope,
			Data: d.frame.gyro,
		})
	}
	if d.sensorsOn[backend.SensorAccelerometer] {
		r.Sensors = append(r.Sensors, backend.SensorSample{
			Kind: backend.SensorAccelerometer,
			Data: d.frame.accel,
		})
	}
	d.pending = nil
	d.dirty = false
	return r
}

// sendOutput applies one output command.
func (d *dualsense) sendOutput(cmd backend.OutputCommand) error {
	switch cmd.Op {
	case backend.OpSetRumble:
		d.motorLow = uint8(cmd.Low >> 8)
		d.motorHigh = uint8(cmd.High >> 8)
		return d.writeOutput(true, false)
	case backend.OpStopRumble:
		d.motorLow, d.motorHigh = 0, 0
		return d.writeOutput(true, false)
	case backend.OpSetLED:
		d.led = cmd.LED
		return d.writeOutput(false, true)
	case backend.OpEnableSensor, backend.OpDisableSensor:
		if !d.caps.HasSensor(cmd.Kind) {
			return fmt.Errorf("%s %s: %w", cmd.Op, cmd.Kind, pkg.ErrUnsupportedCapability)
		}
		// The IMU streams inside every report; the flag gates whether
		// samples are surfaced.
		d.sensorsOn[cmd.Kind] = cmd.Op == backend.OpEnableSensor
		return nil
	case backend.OpSetRumbleTriggers, backend.OpStopRumbleTriggers:
		return fmt.Errorf("%s: %w", cmd.Op, pkg.ErrUnsupportedCapability)
	default:
		return fmt.Errorf("%s: %w", cmd.Op, pkg.ErrUnknownCommand)
	}
}

func (d *dualsense) writeOutput(rumble, setLED bool) error {
	common := buildCommon(rumble, d.motorLow, d.motorHigh, setLED, d.led)
	var report []byte
	if d.bt {
		report = wrapBT(common, d.seq)
		d.seq = (d.seq + 1) & 0x0f
	} else {
		report = wrapUSB(common)
	}
	if _, err := d.dev.Write(report); err != nil {
		return fmt.Errorf("output report: %w", err)
	}
	return nil
}

func (d *dualsense) close() {
	d.dev.Close()
}
