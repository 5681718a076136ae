package simmodel

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/pthm-cable/qvemod/agent"
	"github.com/pthm-cable/qvemod/surface"
)

func TestModelJSONRoundTripSplitsAndRestoresSurfaces(t *testing.T) {
	a := agent.New(0, "patient", 1.0, agent.Script{0: {Type: agent.ActionEnter, X: 1, Y: 1}}, rand.New(rand.NewSource(1)))
	m, _ := newTestModel(t, 10, []*agent.Agent{a}, []surface.Surface{
		surface.NewFixed("doorknob", 1, 1, 0.1, 0.1, 1, 0.05),
		surface.NewMovable("mug", 2, 2, 0.1, 0.1, 0.05),
	})

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal raw: %v", err)
	}
	items, _ := raw["items"].([]any)
	fixtures, _ := raw["fixtures"].([]any)
	if len(items) != 1 || len(fixtures) != 1 {
		t.Fatalf("items=%d fixtures=%d, want 1 and 1", len(items), len(fixtures))
	}

	var got Model
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.Name != m.Name || got.Ticks != m.Ticks {
		t.Errorf("Name/Ticks mismatch: %+v", got)
	}
	if len(got.Agents) != 1 || got.Agents[0].Name != "patient" {
		t.Errorf("Agents mismatch: %+v", got.Agents)
	}
	if len(got.Surfaces) != 2 {
		t.Fatalf("Surfaces = %d, want 2", len(got.Surfaces))
	}
	var sawFixed, sawMovable bool
	for _, s := range got.Surfaces {
		switch v := s.(type) {
		case *surface.Fixed:
			sawFixed = v.Name() == "doorknob"
		case *surface.Movable:
			sawMovable = v.Name() == "mug"
		}
	}
	if !sawFixed || !sawMovable {
		t.Errorf("expected to recover both a Fixed doorknob and a Movable mug, got %+v", got.Surfaces)
	}
	if got.Env == nil {
		t.Error("Env should be reconstructed (even if not yet runnable)")
	}
}
