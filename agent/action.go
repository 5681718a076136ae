package agent

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pthm-cable/qvemod/grid"
)

// ActionType discriminates the script action variants.
type ActionType string

const (
	ActionEnter    ActionType = "enter"
	ActionMove     ActionType = "move"
	ActionLeave    ActionType = "leave"
	ActionPickup   ActionType = "pickup"
	ActionPutdown  ActionType = "putdown"
	ActionHandwash ActionType = "handwash"
	ActionDonMask  ActionType = "donmask"
	ActionDoffMask ActionType = "doffmask"
	ActionFace     ActionType = "face"
)

// Action is a single discriminated-union script entry. Which fields are
// meaningful depends on Type: X,Y,Facing for Enter; DX,DY,Facing for Move
// (Facing optional — a nil Facing means derive orientation from the
// displacement); Target for Pickup/Putdown; Facing for Face. Leave,
// Handwash, DonMask, and DoffMask use none.
type Action struct {
	Type ActionType

	X, Y int
	DX, DY int
	Facing *grid.Facing
	Target string
}

// Script maps tick number to the action an agent performs at that tick.
type Script map[int]Action

// First returns the action at the earliest tick in the script.
func (s Script) First() (Action, bool) {
	if len(s) == 0 {
		return Action{}, false
	}
	ticks := make([]int, 0, len(s))
	for t := range s {
		ticks = append(ticks, t)
	}
	sort.Ints(ticks)
	return s[ticks[0]], true
}

type actionWire struct {
	Type    string `json:"type"`
	X       *int   `json:"x,omitempty"`
	Y       *int   `json:"y,omitempty"`
	Facing  string `json:"facing,omitempty"`
	Target  string `json:"target,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// MarshalJSON renders an Action using the reference model's per-type wire
// shapes: {type,x,y,facing} for enter, {type,x,y,facing?} for move (DX/DY
// carried in X/Y on the wire, matching the original's absolute-looking but
// actually-relative move fields), {type,target} for pickup/putdown,
// {type,direction} for face, {type} for the rest.
func (a Action) MarshalJSON() ([]byte, error) {
	w := actionWire{Type: string(a.Type)}
	switch a.Type {
	case ActionEnter:
		w.X, w.Y = &a.X, &a.Y
		if a.Facing != nil {
			w.Facing = a.Facing.String()
		}
	case ActionMove:
		w.X, w.Y = &a.DX, &a.DY
		if a.Facing != nil {
			w.Facing = a.Facing.String()
		}
	case ActionPickup, ActionPutdown:
		w.Target = a.Target
	case ActionFace:
		if a.Facing != nil {
			w.Direction = a.Facing.String()
		}
	}
	return json.Marshal(w)
}

// UnmarshalJSON parses an Action from its per-type wire shape.
func (a *Action) UnmarshalJSON(data []byte) error {
	var w actionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	a.Type = ActionType(w.Type)
	switch a.Type {
	case ActionEnter:
		if w.X == nil || w.Y == nil {
			return fmt.Errorf("agent: enter action missing x/y")
		}
		a.X, a.Y = *w.X, *w.Y
		if w.Facing != "" {
			f, err := grid.ParseFacing(w.Facing)
			if err != nil {
				return err
			}
			a.Facing = &f
		}
	case ActionMove:
		if w.X == nil || w.Y == nil {
			return fmt.Errorf("agent: move action missing x/y")
		}
		a.DX, a.DY = *w.X, *w.Y
		if w.Facing != "" {
			f, err := grid.ParseFacing(w.Facing)
			if err != nil {
				return err
			}
			a.Facing = &f
		}
	case ActionPickup, ActionPutdown:
		a.Target = w.Target
	case ActionFace:
		if w.Direction == "" {
			return fmt.Errorf("agent: face action missing direction")
		}
		f, err := grid.ParseFacing(w.Direction)
		if err != nil {
			return err
		}
		a.Facing = &f
	case ActionLeave, ActionHandwash, ActionDonMask, ActionDoffMask:
		// no fields
	default:
		return fmt.Errorf("agent: unknown action type %q", w.Type)
	}
	return nil
}
