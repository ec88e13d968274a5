package padid

// builtinVendors names the vendors whose controllers the library knows
// first-hand. These answers beat the system database, which tends to
// carry stale or overly formal names for game hardware.
var builtinVendors = map[uint16]string{
	0x045E: "Microsoft",
	0x046D: "Logitech",
	0x054C: "Sony",
	0x057E: "Nintendo",
	0x0F0D: "HORI",
	0x146B: "Nacon",
	0x28DE: "Valve",
	0x2DC8: "8BitDo",
}

// builtinProducts names well-known gamepads by VID/PID pair. The set
// doubles as the enumeration filter for backends that scan buses full
// of non-gamepad hardware.
var builtinProducts = map[uint32]string{
	// Sony
	key(0x054C, 0x0268): "DualShock 3",
	key(0x054C, 0x05C4): "DualShock 4",
	key(0x054C, 0x09CC): "DualShock 4 (2nd Gen)",
	key(0x054C, 0x0BA0): "DualShock 4 Wireless Adaptor",
	key(0x054C, 0x0CE6): "DualSense Wireless Controller",
	key(0x054C, 0x0DF2): "DualSense Edge Wireless Controller",

	// Microsoft
	key(0x045E, 0x028E): "Xbox 360 Controller",
	key(0x045E, 0x02D1): "Xbox One Controller",
	key(0x045E, 0x02DD): "Xbox One Controller (2015)",
	key(0x045E, 0x02EA): "Xbox One S Controller",
	key(0x045E, 0x0B12): "Xbox Series X|S Controller",

	// Nintendo
	key(0x057E, 0x2006): "Joy-Con (L)",
	key(0x057E, 0x2007): "Joy-Con (R)",
	key(0x057E, 0x2009): "Switch Pro Controller",

	// Logitech
	key(0x046D, 0xC21D): "F310 Gamepad",
	key(0x046D, 0xC21E): "F510 Gamepad",
	key(0x046D, 0xC21F): "F710 Gamepad",

	// Valve
	key(0x28DE, 0x1102): "Steam Controller",
	key(0x28DE, 0x1205): "Steam Deck Controller",

	// 8BitDo
	key(0x2DC8, 0x6101): "SN30 Pro",
}

// IsGamepad reports whether the VID/PID pair belongs to a known
// gamepad. Backends scanning generic HID buses use it to skip
// keyboards, mice, and the rest.
func IsGamepad(vid, pid uint16) bool {
	_, ok := builtinProducts[key(vid, pid)]
	return ok
}

// GamepadName returns the built-in name for a known gamepad, or "".
// Unlike [Database.Name] it never touches the filesystem.
func GamepadName(vid, pid uint16) string {
	return builtinProducts[key(vid, pid)]
}
