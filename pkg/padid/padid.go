package padid

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

// DefaultPaths lists the standard Linux locations for the USB ID
// database. On other systems the files simply do not exist and lookups
// fall back to the built-in table alone.
var DefaultPaths = []string{
	"/usr/share/hwdata/usb.ids",
	"/var/lib/usbutils/usb.ids",
	"/usr/share/misc/usb.ids",
}

// Database resolves controller vendor and product IDs to display names.
// The built-in table of well-known gamepads answers first; the system
// USB ID database, when present, fills in everything else.
//
// The zero value is not usable; create instances with [New]. Lookups
// load the file database on first use.
type Database struct {
	mu       sync.RWMutex
	vendors  map[uint16]string // VID -> vendor name
	products map[uint32]string // VID<<16|PID -> product name
	loaded   bool
	paths    []string
}

// New creates a database that searches the default paths.
func New() *Database {
	return NewWithPaths(DefaultPaths)
}

// NewWithPaths creates a database that searches the given paths.
func NewWithPaths(paths []string) *Database {
	return &Database{
		vendors:  make(map[uint16]string),
		products: make(map[uint32]string),
		paths:    paths,
	}
}

// Load parses the first USB ID file found on the search paths. It is
// idempotent; later calls do nothing. It reports whether a file was
// parsed on this or an earlier call.
func (db *Database) Load() bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.load()
}

// load runs under db.mu. A failed search still marks the database
// loaded, so the paths are probed once.
func (db *Database) load() bool {
	if db.loaded {
		return len(db.vendors) > 0
	}
	db.loaded = true

	for _, path := range db.paths {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		db.parse(f)
		f.Close()
		return true
	}
	return false
}

// parse reads the usb.ids format: vendor lines are "VVVV  name",
// product lines are tab-indented "PPPP  name" under their vendor, and
// trailing sections (device classes and so on) no longer parse as hex.
func (db *Database) parse(r io.Reader) {
	scanner := bufio.NewScanner(r)
	var vid uint16
	var haveVendor bool

	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		if rest, indented := strings.CutPrefix(line, "\t"); indented {
			// Interface subentries are indented twice; skip them along
			// with products of an unparsed vendor.
			if !haveVendor || strings.HasPrefix(rest, "\t") {
				continue
			}
			if pid, name, ok := cutIDLine(rest); ok {
				db.products[key(vid, pid)] = name
			}
			continue
		}

		id, name, ok := cutIDLine(line)
		if !ok {
			// A class/audio/HID section header ends the vendor list.
			haveVendor = false
			continue
		}
		vid = id
		haveVendor = true
		db.vendors[vid] = name
	}
}

// cutIDLine splits "XXXX  Some Name" into its hex ID and name.
func cutIDLine(line string) (uint16, string, bool) {
	if len(line) < 6 || line[4] != ' ' {
		return 0, "", false
	}
	id, err := strconv.ParseUint(line[:4], 16, 16)
	if err != nil {
		return 0, "", false
	}
	name := strings.TrimLeft(line[5:], " ")
	if name == "" {
		return 0, "", false
	}
	return uint16(id), name, true
}

// key packs a VID/PID pair into a product map key.
func key(vid, pid uint16) uint32 {
	return uint32(vid)<<16 | uint32(pid)
}

// Vendor returns the vendor name for the given VID, preferring the
// built-in table, or "" when it is unknown everywhere.
func (db *Database) Vendor(vid uint16) string {
	if name, ok := builtinVendors[vid]; ok {
		return name
	}
	db.mu.Lock()
	db.load()
	name := db.vendors[vid]
	db.mu.Unlock()
	return name
}

// Product returns the product name for the given VID/PID pair,
// preferring the built-in table, or "" when it is unknown everywhere.
func (db *Database) Product(vid, pid uint16) string {
	if name, ok := builtinProducts[key(vid, pid)]; ok {
		return name
	}
	db.mu.Lock()
	db.load()
	name := db.products[key(vid, pid)]
	db.mu.Unlock()
	return name
}

// Name returns the best display name for a device: its product name if
// one is known, otherwise "<vendor> controller", otherwise "".
// Backends use it when the device itself reports no usable name.
func (db *Database) Name(vid, pid uint16) string {
	if name := db.Product(vid, pid); name != "" {
		return name
	}
	if vendor := db.Vendor(vid); vendor != "" {
		return vendor + " controller"
	}
	return ""
}

// VendorCount returns the number of vendors known to the file database.
func (db *Database) VendorCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.vendors)
}

// ProductCount returns the number of products known to the file database.
func (db *Database) ProductCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.products)
}
