// Package hid implements the backend contract over raw HID reports for
// DualSense-family controllers. Talking to the hardware directly, below
// the OS input stack, unlocks the surfaces generic input APIs cannot
// reach: the lightbar, the touchpad, and the motion sensors.
//
// The package is a device driver, not a generic HID mapper: it decodes
// the DualSense input report layout and builds its output reports,
// including the CRC framing Bluetooth links require. Controllers the
// driver does not recognize are skipped during enumeration; on Linux
// they are picked up by the evdev backend instead.
package hid
