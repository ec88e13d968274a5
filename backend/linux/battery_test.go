//go:build linux

package linux

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zohnannor/girl/backend"
)

func writeSupply(t *testing.T, root, node, supply, status, capacity string) {
	t.Helper()
	dir := filepath.Join(root, node, "device", "device", "power_supply", supply)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "status"), []byte(status+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "capacity"), []byte(capacity+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReadPower(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "event3", "ps-controller-battery-aa:bb:cc", "Discharging", "45")
	writeSupply(t, root, "event4", "ps-controller-battery-dd:ee:ff", "Charging", "45")

	if got := readPower(root, "event3"); got != backend.PowerMedium {
		t.Errorf("discharging at 45%% = %v, want Medium", got)
	}
	if got := readPower(root, "event4"); got != backend.PowerWired {
		t.Errorf("charging = %v, want Wired", got)
	}
	if got := readPower(root, "event9"); got != backend.PowerUnknown {
		t.Errorf("missing supply = %v, want Unknown", got)
	}
}

func TestReadPower_MalformedCapacity(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "event3", "gip-battery", "Discharging", "many")
	if got := readPower(root, "event3"); got != backend.PowerUnknown {
		t.Errorf("malformed capacity = %v, want Unknown", got)
	}
}

func TestPowerFromSupply(t *testing.T) {
	tests := []struct {
		status   string
		capacity int
		want     backend.PowerLevel
	}{
		{"Charging", 10, backend.PowerWired},
		{"Full", 100, backend.PowerWired},
		{"Discharging", 0, backend.PowerEmpty},
		{"Discharging", 5, backend.PowerEmpty},
		{"Discharging", 6, backend.PowerLow},
		{"Discharging", 20, backend.PowerLow},
		{"Discharging", 45, backend.PowerMedium},
		{"Discharging", 70, backend.PowerMedium},
		{"Discharging", 71, backend.PowerFull},
		{"Not charging", 90, backend.PowerFull},
	}
	for _, tt := range tests {
		if got := powerFromSupply(tt.status, tt.capacity); got != tt.want {
			t.Errorf("powerFromSupply(%q, %d) = %v, want %v", tt.status, tt.capacity, got, tt.want)
		}
	}
}
