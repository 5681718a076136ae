package surface

import (
	"encoding/json"
	"testing"
)

func TestFixedJSONRoundTrip(t *testing.T) {
	f := NewFixed("doorknob", 2, 3, 0.3, 0.1, 2.0, 0.05)
	f.AddLoad(1.5)

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Fixed
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	x, y := got.Cell()
	if got.Name() != "doorknob" || x != 2 || y != 3 {
		t.Errorf("round trip identity mismatch: %+v", got)
	}
	if got.TransferRate() != f.TransferRate() {
		t.Errorf("TransferRate mismatch: got %v, want %v", got.TransferRate(), f.TransferRate())
	}
}

func TestMovableJSONRoundTrip(t *testing.T) {
	m := NewMovable("mug", 4, 5, 0.2, 0.05, 0.02)

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Movable
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	x, y := got.Cell()
	if got.Name() != "mug" || x != 4 || y != 5 {
		t.Errorf("round trip identity mismatch: %+v", got)
	}
}

func TestFixedJSONFieldNames(t *testing.T) {
	f := NewFixed("counter", 0, 0, 0.1, 0.1, 1, 0.05)
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, key := range []string{"name", "x", "y", "transfer_efficiency", "surface_ratio", "touch_frequency", "surface_decay_rate"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing wire field %q", key)
		}
	}
}
