package environment

import (
	"encoding/json"

	"github.com/pthm-cable/qvemod/grid"
)

type environmentWire struct {
	Height                       int            `json:"height"`
	Width                        int            `json:"width"`
	DecayRateAir                 float64        `json:"decay_rate_air"`
	DecayRateSurface             float64        `json:"decay_rate_surface"`
	DecayRateDroplet             float64        `json:"decay_rate_droplet"`
	AirExchangeRate              float64        `json:"air_exchange_rate"`
	DropletToSurfaceTransferRate float64        `json:"droplet_to_surface_transfer_rate"`
	Barriers                     []grid.Barrier `json:"barriers"`
	Walls                        []grid.Void    `json:"walls"`
}

// MarshalJSON renders the environment's static construction parameters
// using the field names of spec.md §6. Mobility-space occupancy, the
// surface layer, and the evolving air field are run state, not
// configuration, and are not part of this wire shape.
func (e *Environment) MarshalJSON() ([]byte, error) {
	return json.Marshal(environmentWire{
		Height:                       e.height,
		Width:                        e.width,
		DecayRateAir:                 e.aerosolDecayRate,
		DecayRateSurface:             e.decayRateSurface,
		DecayRateDroplet:             e.dropletDecayRate,
		AirExchangeRate:              e.airExchangeRate,
		DropletToSurfaceTransferRate: e.dropletToSurfaceTransferRate,
		Barriers:                     e.barriers,
		Walls:                        e.voids,
	})
}

// UnmarshalJSON restores the fields MarshalJSON writes, so
// MarshalJSON(UnmarshalJSON(x)) round-trips a reference-produced
// environment record. It does not rebuild the runnable air field or
// mobility-space occupancy grid: those need a *config.EnvConfig (for
// Diffusivity, WallAbsorbingProportion, MobilityRatio, AgentReach) that is
// not part of this wire shape. Call New with the restored Width, Height,
// Barriers, Walls, and decay rates plus your own config to get a working
// Environment.
func (e *Environment) UnmarshalJSON(data []byte) error {
	var w environmentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	e.height = w.Height
	e.width = w.Width
	e.aerosolDecayRate = w.DecayRateAir
	e.decayRateSurface = w.DecayRateSurface
	e.dropletDecayRate = w.DecayRateDroplet
	e.airExchangeRate = w.AirExchangeRate
	e.dropletToSurfaceTransferRate = w.DropletToSurfaceTransferRate
	e.barriers = w.Barriers
	e.voids = w.Walls
	return nil
}
