package surface

import "encoding/json"

type fixedWire struct {
	Name               string  `json:"name"`
	X                  int     `json:"x"`
	Y                  int     `json:"y"`
	TransferEfficiency float64 `json:"transfer_efficiency"`
	SurfaceRatio       float64 `json:"surface_ratio"`
	TouchFrequency     float64 `json:"touch_frequency"`
	SurfaceDecayRate   float64 `json:"surface_decay_rate"`
}

// MarshalJSON renders a Fixed surface using the fixture wire shape of spec §6.
func (f *Fixed) MarshalJSON() ([]byte, error) {
	return json.Marshal(fixedWire{
		Name:               f.name,
		X:                  f.x,
		Y:                  f.y,
		TransferEfficiency: f.transferEfficiency,
		SurfaceRatio:       f.surfaceRatio,
		TouchFrequency:     f.touchFrequency,
		SurfaceDecayRate:   f.surfaceDecayRate,
	})
}

// UnmarshalJSON parses a Fixed surface from its fixture wire shape.
func (f *Fixed) UnmarshalJSON(data []byte) error {
	var w fixedWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*f = *NewFixed(w.Name, w.X, w.Y, w.TransferEfficiency, w.SurfaceRatio, w.TouchFrequency, w.SurfaceDecayRate)
	return nil
}

type movableWire struct {
	Name               string  `json:"name"`
	X                  int     `json:"x"`
	Y                  int     `json:"y"`
	TransferEfficiency float64 `json:"transfer_efficiency"`
	SurfaceRatio       float64 `json:"surface_ratio"`
	SurfaceDecayRate   float64 `json:"surface_decay_rate"`
}

// MarshalJSON renders a Movable surface using the item wire shape of spec §6.
func (m *Movable) MarshalJSON() ([]byte, error) {
	return json.Marshal(movableWire{
		Name:               m.name,
		X:                  m.x,
		Y:                  m.y,
		TransferEfficiency: m.transferEfficiency,
		SurfaceRatio:       m.surfaceRatio,
		SurfaceDecayRate:   m.surfaceDecayRate,
	})
}

// UnmarshalJSON parses a Movable surface from its item wire shape.
func (m *Movable) UnmarshalJSON(data []byte) error {
	var w movableWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*m = *NewMovable(w.Name, w.X, w.Y, w.TransferEfficiency, w.SurfaceRatio, w.SurfaceDecayRate)
	return nil
}
