package girl

import (
	"math"
	"testing"

	"github.com/zohnannor/girl/backend"
)

func TestClampAxis(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		deadzone float64
		want     float64
	}{
		{"in range", 0.5, 0.1, 0.5},
		{"negative in range", -0.5, 0.1, -0.5},
		{"above range", 1.3, 0.1, 1},
		{"below range", -1.7, 0.1, -1},
		{"NaN", math.NaN(), 0.1, 0},
		{"positive infinity", math.Inf(1), 0.1, 0},
		{"negative infinity", math.Inf(-1), 0.1, 0},
		{"inside dead zone", 0.05, 0.1, 0},
		{"negative inside dead zone", -0.09, 0.1, 0},
		{"on dead zone bound", 0.1, 0.1, 0.1},
		{"no dead zone", 0.05, 0, 0.05},
		{"exactly minus one", -1, 0.1, -1},
	}
	for _, tt := range tests {
		if got := clampAxis(tt.v, tt.deadzone); got != tt.want {
			t.Errorf("%s: clampAxis(%v, %v) = %v, want %v",
				tt.name, tt.v, tt.deadzone, got, tt.want)
		}
	}
}

func TestClampUnit(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want float64
	}{
		{"in range", 0.7, 0.7},
		{"above range", 1.5, 1},
		{"below range", -0.5, 0},
		{"zero", 0, 0},
		{"one", 1, 1},
		{"NaN", math.NaN(), 0},
		{"positive infinity", math.Inf(1), 0},
	}
	for _, tt := range tests {
		if got := clampUnit(tt.v); got != tt.want {
			t.Errorf("%s: clampUnit(%v) = %v, want %v", tt.name, tt.v, got, tt.want)
		}
	}
}

func TestGateSensor(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want float64
	}{
		{"jitter", 0.005, 0},
		{"negative jitter", -0.009, 0},
		{"on gate bound", 0.01, 0.01},
		{"signal", 9.81, 9.81},
		{"large signal uncapped", 250, 250},
		{"NaN", math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := gateSensor(tt.v); got != tt.want {
			t.Errorf("%s: gateSensor(%v) = %v, want %v", tt.name, tt.v, got, tt.want)
		}
	}
}

func TestNewCapabilityTable(t *testing.T) {
	table := newCapabilityTable(backend.Capabilities{
		LED:           true,
		Rumble:        true,
		TriggerRumble: false,
		Sensors: []backend.SensorKind{
			backend.SensorGyroscope,
			backend.SensorLeftAccelerometer,
			backend.SensorKind(99), // out of range, dropped
		},
		Touchpads: 5,
		Fingers:   10,
	})

	if !table.LED || !table.Rumble || table.TriggerRumble {
		t.Errorf("flags = LED:%v Rumble:%v TriggerRumble:%v, want true true false",
			table.LED, table.Rumble, table.TriggerRumble)
	}
	if table.Touchpads != MaxTouchpads {
		t.Errorf("Touchpads = %d, want capped at %d", table.Touchpads, MaxTouchpads)
	}
	if table.Fingers != MaxTouchFingers {
		t.Errorf("Fingers = %d, want capped at %d", table.Fingers, MaxTouchFingers)
	}

	if !table.HasSensor(SensorGyroscope) {
		t.Error("HasSensor(Gyroscope) = false, want true")
	}
	if !table.HasSensor(SensorLeftAccelerometer) {
		t.Error("HasSensor(LeftAccelerometer) = false, want true")
	}
	if table.HasSensor(SensorAccelerometer) {
		t.Error("HasSensor(Accelerometer) = true, want false")
	}
	if table.HasSensor(SensorKind(99)) {
		t.Error("HasSensor(99) = true for an out-of-range kind")
	}
}

func TestCapabilityTable_Zero(t *testing.T) {
	var table CapabilityTable
	for k := SensorKind(0); k < NumSensorKinds; k++ {
		if table.HasSensor(k) {
			t.Errorf("zero table HasSensor(%v) = true", k)
		}
	}
}

func TestDecayState(t *testing.T) {
	st := State{
		Buttons:  ButtonSouth,
		Sticks:   [2]Vec2{{X: 0.8, Y: -0.4}, {X: 0.2}},
		Triggers: [2]float64{1, 0.5},
	}

	decayState(&st, 0.5)
	if st.Sticks[0] != (Vec2{X: 0.4, Y: -0.2}) {
		t.Errorf("Sticks[0] = %v after decay, want {0.4 -0.2}", st.Sticks[0])
	}
	if st.Sticks[1] != (Vec2{X: 0.1}) {
		t.Errorf("Sticks[1] = %v after decay, want {0.1 0}", st.Sticks[1])
	}
	if st.Triggers != [2]float64{0.5, 0.25} {
		t.Errorf("Triggers = %v after decay, want [0.5 0.25]", st.Triggers)
	}
	if st.Buttons != ButtonSouth {
		t.Errorf("Buttons = %v after decay, want South untouched", st.Buttons)
	}

	decayState(&st, 1)
	if st.Sticks != ([2]Vec2{}) || st.Triggers != ([2]float64{}) {
		t.Errorf("full-rate decay left Sticks=%v Triggers=%v, want zeros",
			st.Sticks, st.Triggers)
	}
}
