package agent

import (
	"encoding/json"
	"strconv"

	"github.com/pthm-cable/qvemod/grid"
)

type agentWire struct {
	Name                     string           `json:"name"`
	ViralLoad                float64          `json:"viral_load"`
	ContaminationLoadAir     float64          `json:"contamination_load_air"`
	ContaminationLoadDroplet float64          `json:"contamination_load_droplet"`
	ContaminationLoadSurface float64          `json:"contamination_load_surface"`
	EmissionRateAir          float64          `json:"emission_rate_air"`
	EmissionRateDroplet      float64          `json:"emission_rate_droplet"`
	PickUpAir                float64          `json:"pick_up_air"`
	PickUpDroplet            float64          `json:"pick_up_droplet"`
	Script                   map[string]Action `json:"script"`
	IsActive                 bool             `json:"is_active"`
	WearingMask              bool             `json:"wearing_mask"`
}

// MarshalJSON renders the agent's static configuration and current state
// using the field names of spec.md §6. The ID and RNG are session-local and
// not part of the wire format; a deserialized Agent needs a fresh
// IDAllocator and *rand.Rand supplied by the caller.
func (a *Agent) MarshalJSON() ([]byte, error) {
	script := make(map[string]Action, len(a.Script))
	for tick, act := range a.Script {
		script[strconv.Itoa(tick)] = act
	}
	return json.Marshal(agentWire{
		Name:                     a.Name,
		ViralLoad:                a.ViralLoad,
		ContaminationLoadAir:     a.ContaminationLoadAir,
		ContaminationLoadDroplet: a.ContaminationLoadDroplet,
		ContaminationLoadSurface: a.ContaminationLoadSurface,
		EmissionRateAir:          a.EmissionRateAir,
		EmissionRateDroplet:      a.EmissionRateDroplet,
		PickUpAir:                a.PickUpAir,
		PickUpDroplet:            a.PickUpDroplet,
		Script:                   script,
		IsActive:                 a.IsActive,
		WearingMask:              a.UnderEffect(EffectWearingMask),
	})
}

// UnmarshalJSON parses an agent's static configuration and state. The
// caller must still assign an ID and call Configure before running it.
func (a *Agent) UnmarshalJSON(data []byte) error {
	var w agentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	script := make(Script, len(w.Script))
	for k, act := range w.Script {
		tick, err := strconv.Atoi(k)
		if err != nil {
			return err
		}
		script[tick] = act
	}

	a.Name = w.Name
	a.ViralLoad = w.ViralLoad
	a.ContaminationLoadAir = w.ContaminationLoadAir
	a.ContaminationLoadDroplet = w.ContaminationLoadDroplet
	a.ContaminationLoadSurface = w.ContaminationLoadSurface
	a.EmissionRateAir = w.EmissionRateAir
	a.EmissionRateDroplet = w.EmissionRateDroplet
	a.PickUpAir = w.PickUpAir
	a.PickUpDroplet = w.PickUpDroplet
	a.Script = script
	a.IsActive = w.IsActive
	a.Facing = grid.North
	if first, ok := script.First(); ok && first.Type == ActionEnter && first.Facing != nil {
		a.Facing = *first.Facing
	}
	if w.WearingMask {
		a.effects = append(a.effects, &Effect{Name: EffectWearingMask})
	}
	return nil
}
