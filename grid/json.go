package grid

import (
	"encoding/json"
	"fmt"
)

type barrierWire struct {
	Type string `json:"type"`
	X1   int    `json:"x1"`
	Y1   int    `json:"y1"`
	X2   int    `json:"x2"`
	Y2   int    `json:"y2"`
}

// MarshalJSON renders a Barrier using the {type,x1,y1,x2,y2} wire shape of spec §6.
func (b Barrier) MarshalJSON() ([]byte, error) {
	return json.Marshal(barrierWire{
		Type: b.Kind.String(),
		X1:   b.X1,
		Y1:   b.Y1,
		X2:   b.X2,
		Y2:   b.Y2,
	})
}

// UnmarshalJSON parses a Barrier from its {type,x1,y1,x2,y2} wire shape.
func (b *Barrier) UnmarshalJSON(data []byte) error {
	var w barrierWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Type {
	case "wall":
		b.Kind = Wall
	case "shield":
		b.Kind = Shield
	default:
		return fmt.Errorf("grid: unknown barrier type %q", w.Type)
	}
	b.X1, b.Y1, b.X2, b.Y2 = w.X1, w.Y1, w.X2, w.Y2
	return nil
}

type voidWire struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// MarshalJSON renders a Void using the {x,y} wire shape of spec §6.
func (v Void) MarshalJSON() ([]byte, error) {
	return json.Marshal(voidWire{X: v.X, Y: v.Y})
}

// UnmarshalJSON parses a Void from its {x,y} wire shape.
func (v *Void) UnmarshalJSON(data []byte) error {
	var w voidWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	v.X, v.Y = w.X, w.Y
	return nil
}
