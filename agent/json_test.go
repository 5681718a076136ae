package agent

import (
	"encoding/json"
	"math/rand"
	"testing"
)

func TestAgentJSONRoundTrip(t *testing.T) {
	a := New(7, "patient", 1.0, Script{
		0:  {Type: ActionEnter, X: 2, Y: 3},
		10: {Type: ActionMove, DX: 1, DY: 0},
	}, rand.New(rand.NewSource(1)))
	a.EmissionRateAir = 0.1
	a.EmissionRateDroplet = 0.05
	a.PickUpAir = 0.3
	a.PickUpDroplet = 0.3
	a.ContaminationLoadAir = 0.2
	a.ContaminationLoadDroplet = 0.1
	a.ContaminationLoadSurface = 0.4
	a.IsActive = true
	a.DonMask()

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal raw: %v", err)
	}
	if raw["wearing_mask"] != true {
		t.Errorf("wearing_mask = %v, want true", raw["wearing_mask"])
	}
	script, ok := raw["script"].(map[string]any)
	if !ok {
		t.Fatalf("script field missing or wrong type: %+v", raw["script"])
	}
	if _, ok := script["0"]; !ok {
		t.Errorf("script keys should be stringified tick numbers, got %+v", script)
	}

	var got Agent
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Name != "patient" || got.ViralLoad != 1.0 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.ContaminationLoadAir != 0.2 || got.ContaminationLoadDroplet != 0.1 || got.ContaminationLoadSurface != 0.4 {
		t.Errorf("contamination loads mismatch: %+v", got)
	}
	if !got.UnderEffect(EffectWearingMask) {
		t.Error("wearing_mask should be reinstalled as an effect after unmarshal")
	}
	if len(got.Script) != 2 {
		t.Errorf("Script len = %d, want 2", len(got.Script))
	}
	if act, ok := got.Script[10]; !ok || act.Type != ActionMove || act.DX != 1 {
		t.Errorf("Script[10] = %+v, ok=%v", act, ok)
	}
}

func TestAgentJSONUnmarshalWithoutMask(t *testing.T) {
	a := New(1, "visitor", 0, Script{0: {Type: ActionEnter, X: 0, Y: 0}}, rand.New(rand.NewSource(1)))

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Agent
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.UnderEffect(EffectWearingMask) {
		t.Error("wearing_mask effect should not be installed when not worn")
	}
}
