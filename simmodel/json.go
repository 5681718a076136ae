package simmodel

import (
	"encoding/json"

	"github.com/pthm-cable/qvemod/agent"
	"github.com/pthm-cable/qvemod/environment"
	"github.com/pthm-cable/qvemod/surface"
)

type modelWire struct {
	Name     string           `json:"name"`
	Ticks    int              `json:"ticks"`
	Env      json.RawMessage  `json:"env"`
	Agents   []*agent.Agent   `json:"agents"`
	Items    []*surface.Movable `json:"items"`
	Fixtures []*surface.Fixed   `json:"fixtures"`
}

// MarshalJSON renders the model using the {name,ticks,env,agents,items,
// fixtures} wire shape of spec.md §6, splitting the surface list back into
// its two concrete variants.
func (m *Model) MarshalJSON() ([]byte, error) {
	w := modelWire{Name: m.Name, Ticks: m.Ticks, Agents: m.Agents}
	for _, s := range m.Surfaces {
		switch v := s.(type) {
		case *surface.Movable:
			w.Items = append(w.Items, v)
		case *surface.Fixed:
			w.Fixtures = append(w.Fixtures, v)
		}
	}
	envJSON, err := json.Marshal(m.Env)
	if err != nil {
		return nil, err
	}
	w.Env = envJSON
	return json.Marshal(w)
}

// UnmarshalJSON restores Name, Ticks, Agents, Env, and the Items/Fixtures
// split back into a single Surfaces list. As with Environment.UnmarshalJSON,
// the restored Env is not yet runnable — it carries only the fields the
// wire format stores, not the *config.EnvConfig a live air field needs. The
// caller must still call Env's own New (or otherwise supply a config)
// before running the model.
func (m *Model) UnmarshalJSON(data []byte) error {
	var w modelWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	m.Name = w.Name
	m.Ticks = w.Ticks
	m.Agents = w.Agents

	env := &environment.Environment{}
	if len(w.Env) > 0 {
		if err := json.Unmarshal(w.Env, env); err != nil {
			return err
		}
	}
	m.Env = env

	m.Surfaces = make([]surface.Surface, 0, len(w.Items)+len(w.Fixtures))
	for _, s := range w.Fixtures {
		m.Surfaces = append(m.Surfaces, s)
	}
	for _, s := range w.Items {
		m.Surfaces = append(m.Surfaces, s)
	}
	return nil
}
