// Package simmodel assembles an environment, a set of scripted agents, and
// a set of surfaces into a runnable tick-driven simulation.
package simmodel

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/qvemod/agent"
	"github.com/pthm-cable/qvemod/config"
	"github.com/pthm-cable/qvemod/environment"
	"github.com/pthm-cable/qvemod/surface"
)

// ErrDuplicateSurfaceName is returned by New when two surfaces share a name.
var ErrDuplicateSurfaceName = environment.ErrDuplicateSurfaceName

// ExposureSink receives per-agent, per-tick exposure observations.
type ExposureSink interface {
	ObserveExposure(agentName string, tick int, airLoad, dropletLoad, surfaceLoad, surfaceExposure float64)
}

// CellSink receives per-cell, per-tick air field observations.
type CellSink interface {
	ObserveCell(tick int, x, y int, aerosol, droplet float64)
}

// SurfaceSink receives per-surface, per-tick contamination observations.
type SurfaceSink interface {
	ObserveSurface(name string, class string, tick int, x, y int, load float64)
}

// TickHook runs once per tick, after all other observation hooks, and may
// inspect (but must not mutate) model state.
type TickHook interface {
	OnTick(m *Model, tick int)
}

// Hooks bundles the optional observation callbacks a Model reports to each
// tick. Any sink left nil is simply skipped; write-interval gating uses
// config.OutputConfig the same way the reference model's writers do.
type Hooks struct {
	Exposure ExposureSink
	Cell     CellSink
	Surface  SurfaceSink
	Tick     TickHook
}

// Model is a complete runnable simulation: an environment, its agents, and
// the surfaces placed within it.
type Model struct {
	Name  string
	Ticks int

	Env      *environment.Environment
	Agents   []*agent.Agent
	Surfaces []surface.Surface

	cfg   *config.Config
	hooks Hooks
}

// New validates surface name uniqueness and builds a Model ready to Run.
func New(name string, ticks int, env *environment.Environment, agents []*agent.Agent, surfaces []surface.Surface) (*Model, error) {
	names := make(map[string]bool, len(surfaces))
	for _, s := range surfaces {
		if names[s.Name()] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSurfaceName, s.Name())
		}
		names[s.Name()] = true
	}
	return &Model{Name: name, Ticks: ticks, Env: env, Agents: agents, Surfaces: surfaces}, nil
}

// AirExposure returns each agent's current air contamination load, by name.
func (m *Model) AirExposure() map[string]float64 {
	out := make(map[string]float64, len(m.Agents))
	for _, a := range m.Agents {
		out[a.Name] = a.ContaminationLoadAir
	}
	return out
}

// DropletExposure returns each agent's current droplet contamination load, by name.
func (m *Model) DropletExposure() map[string]float64 {
	out := make(map[string]float64, len(m.Agents))
	for _, a := range m.Agents {
		out[a.Name] = a.ContaminationLoadDroplet
	}
	return out
}

// SurfaceExposure returns each agent's current accumulated surface contamination load, by name.
func (m *Model) SurfaceExposure() map[string]float64 {
	out := make(map[string]float64, len(m.Agents))
	for _, a := range m.Agents {
		out[a.Name] = a.ContaminationLoadSurface
	}
	return out
}

// Run executes the full tick loop: agent scripts, pickup/effects, periodic
// cleaning, diffusion, droplet-to-surface transfer, decay, emission, and
// finally the observation hooks — in that exact order, matching spec.md §5.
// It returns early if ctx is cancelled between ticks.
func (m *Model) Run(ctx context.Context, cfg *config.Config, hooks Hooks) error {
	m.cfg = cfg
	m.hooks = hooks

	if err := m.Env.PlaceSurfaces(m.Surfaces); err != nil {
		return err
	}
	for _, a := range m.Agents {
		a.Configure(&cfg.Env)
	}

	cleaningInterval := cfg.Env.CleaningIntervalTicks()

	for tick := 0; tick < m.Ticks; tick++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		m.runScripts(tick)
		m.runPickupAndEffects()

		if tick%cleaningInterval == 0 {
			m.Env.CleaningSurface()
		}

		m.Env.DiffuseAir()
		m.Env.DropletToSurfaceTransfer()
		m.Env.DecayAir()
		m.Env.DecaySurface()

		m.runEmission()

		m.report(tick)
	}
	return nil
}

func (m *Model) runScripts(tick int) {
	for _, a := range m.Agents {
		act, ok := a.Script[tick]
		if !ok {
			continue
		}
		if err := m.Env.ProcessAgentAction(a, act); err != nil {
			slog.Warn("script action rejected", "agent", a.Name, "tick", tick, "error", err)
		}
	}
}

func (m *Model) runPickupAndEffects() {
	for _, a := range m.Agents {
		if !a.IsActive {
			continue
		}
		m.Env.PickupAir(a)
		m.Env.PickupDroplet(a)
		if a.ViralLoad == 0 {
			m.Env.PickupFixtures(a)
		} else {
			m.Env.HandContaminateFixtures(a)
		}
		a.ProcessEffects()
	}
}

func (m *Model) runEmission() {
	for _, a := range m.Agents {
		if a.IsActive {
			m.Env.AddLoadAir(a)
		}
	}
}

func (m *Model) report(tick int) {
	if m.hooks.Exposure != nil {
		ratio := m.cfg.Env.SurfaceExposureRatio
		dt := m.cfg.Env.SimulationTimeStep
		for _, a := range m.Agents {
			if !a.IsActive {
				continue
			}
			surfaceExposure := dt * a.ContaminationLoadSurface * ratio
			m.hooks.Exposure.ObserveExposure(a.Name, tick, a.ContaminationLoadAir, a.ContaminationLoadDroplet,
				a.ContaminationLoadSurface, surfaceExposure)
		}
	}

	if m.hooks.Cell != nil && tick%m.cfg.Output.AerosolContaminationWriteInterval == 0 {
		m.reportLayer(tick, true)
	}
	if m.hooks.Cell != nil && tick%m.cfg.Output.DropletContaminationWriteInterval == 0 {
		m.reportLayer(tick, false)
	}

	if m.hooks.Surface != nil && tick%m.cfg.Output.SurfaceContaminationWriteInterval == 0 {
		for _, s := range m.Surfaces {
			x, y := m.Env.SurfaceLookup(s)
			m.hooks.Surface.ObserveSurface(s.Name(), surfaceClass(s), tick, x, y, s.Load())
		}
	}

	if m.hooks.Tick != nil {
		m.hooks.Tick.OnTick(m, tick)
	}
}

func (m *Model) reportLayer(tick int, aerosol bool) {
	w, h := m.Env.Air().Width(), m.Env.Air().Height()
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			var a, d float64
			var ok bool
			if aerosol {
				a, ok = m.Env.Air().AerosolAt(x, y)
			} else {
				d, ok = m.Env.Air().DropletAt(x, y)
			}
			if ok {
				m.hooks.Cell.ObserveCell(tick, x, y, a, d)
			}
		}
	}
}

func surfaceClass(s surface.Surface) string {
	switch s.(type) {
	case *surface.Fixed:
		return "Fixture"
	case *surface.Movable:
		return "Item"
	default:
		return "Surface"
	}
}
