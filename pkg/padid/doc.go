// Package padid resolves gamepad vendor and product IDs to display
// names.
//
// Two sources feed a lookup. A built-in table covers the gamepads the
// library has first-hand knowledge of and doubles as an enumeration
// filter through [IsGamepad]. Everything else falls through to the
// system USB ID database (usb.ids), a file maintained by the USB
// Implementers Forum and shipped with most Linux systems.
//
// # Usage
//
// Create a database once and share it:
//
//	db := padid.New()
//	name := db.Name(0x054C, 0x0CE6) // "DualSense Wireless Controller"
//
// The usb.ids file loads lazily on the first lookup that needs it; a
// missing file costs one search and lookups keep working from the
// built-in table.
//
// # Thread Safety
//
// All methods are safe for concurrent use.
package padid
