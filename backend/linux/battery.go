//go:build linux

package linux

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zohnannor/girl/backend"
)

// classInputDir is where sysfs exposes input device attributes.
const classInputDir = "/sys/class/input"

// readPower resolves the battery supply the kernel pad drivers nest
// under an event node's sysfs entry and maps it to a power level.
// Devices without a battery (or without permission to read one) report
// PowerUnknown.
func readPower(classInput, node string) backend.PowerLevel {
	supply := filepath.Join(classInput, node, "device", "device", "power_supply")
	entries, err := os.ReadDir(supply)
	if err != nil || len(entries) == 0 {
		return backend.PowerUnknown
	}
	base := filepath.Join(supply, entries[0].Name())

	status, err := os.ReadFile(filepath.Join(base, "status"))
	if err != nil {
		return backend.PowerUnknown
	}
	capacity, err := os.ReadFile(filepath.Join(base, "capacity"))
	if err != nil {
		return backend.PowerUnknown
	}
	pct, err := strconv.Atoi(strings.TrimSpace(string(capacity)))
	if err != nil {
		return backend.PowerUnknown
	}
	return powerFromSupply(strings.TrimSpace(string(status)), pct)
}

// powerFromSupply buckets a kernel power_supply reading. Charging and
// Full both mean a cable is attached.
func powerFromSupply(status string, capacity int) backend.PowerLevel {
	switch status {
	case "Charging", "Full":
		return backend.PowerWired
	}
	switch {
	case capacity <= 5:
		return backend.PowerEmpty
	case capacity <= 20:
		return backend.PowerLow
	case capacity <= 70:
		return backend.PowerMedium
	default:
		return backend.PowerFull
	}
}
