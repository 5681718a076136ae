// Package environment owns the mobility-scale grid of agents and surfaces,
// the underlying air field, and the per-tick routing of agent actions and
// contamination transfer.
package environment

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/pthm-cable/qvemod/agent"
	"github.com/pthm-cable/qvemod/airgrid"
	"github.com/pthm-cable/qvemod/config"
	"github.com/pthm-cable/qvemod/grid"
	"github.com/pthm-cable/qvemod/pattern"
	"github.com/pthm-cable/qvemod/surface"
)

// ErrIllegalAgentPosition is returned when a script tries to place or move an
// agent onto a void cell.
var ErrIllegalAgentPosition = errors.New("environment: illegal agent position")

// ErrDuplicateSurfaceName is returned by PlaceSurfaces when two surfaces
// share a name; names must be globally unique across a model.
var ErrDuplicateSurfaceName = errors.New("environment: duplicate surface name")

type cellPos struct{ x, y int }

// Environment is the mobility-scale world: an agent occupancy grid, a
// per-cell surface list, and the air field those agents and surfaces sit
// above.
type Environment struct {
	width, height int

	mobilitySpace [][]*agent.Agent
	surfaces      [][][]surface.Surface
	lookup        map[*agent.Agent]cellPos

	air *airgrid.Grid
	cfg *config.EnvConfig

	reach         int
	mobilityRatio float64

	// Rates kept for wire fidelity with spec.md's Environment type (§6);
	// aerosolDecayRate/dropletDecayRate/airExchangeRate are also threaded
	// into the air grid at construction. decayRateSurface is stored but
	// not used by DecaySurface, which decays each surface by its own
	// SurfaceDecayRate instead — matching the reference model exactly.
	aerosolDecayRate             float64
	dropletDecayRate             float64
	decayRateSurface             float64
	airExchangeRate              float64
	dropletToSurfaceTransferRate float64

	barriers []grid.Barrier
	voids    []grid.Void
}

// New builds an Environment of the given mobility-scale dimensions. Barrier
// endpoints are in mobility-scale coordinates (the air grid converts them);
// voids are already in air-scale coordinates.
func New(width, height int, cfg *config.EnvConfig, barriers []grid.Barrier, voids []grid.Void,
	aerosolDecayRate, dropletDecayRate, decayRateSurface, airExchangeRate, dropletToSurfaceTransferRate float64) *Environment {

	e := &Environment{
		width:                        width,
		height:                       height,
		lookup:                       make(map[*agent.Agent]cellPos),
		cfg:                          cfg,
		reach:                        int(cfg.AgentReach / cfg.MobilityCellSize),
		mobilityRatio:                cfg.MobilityRatio(),
		aerosolDecayRate:             aerosolDecayRate,
		dropletDecayRate:             dropletDecayRate,
		decayRateSurface:             decayRateSurface,
		airExchangeRate:              airExchangeRate,
		dropletToSurfaceTransferRate: dropletToSurfaceTransferRate,
		barriers:                     barriers,
		voids:                        voids,
	}

	e.mobilitySpace = make([][]*agent.Agent, width)
	e.surfaces = make([][][]surface.Surface, width)
	for x := 0; x < width; x++ {
		e.mobilitySpace[x] = make([]*agent.Agent, height)
		e.surfaces[x] = make([][]surface.Surface, height)
	}

	e.air = airgrid.New(width, height, airgrid.Config{
		MobilityRatio:    e.mobilityRatio,
		AerosolDecayRate: aerosolDecayRate,
		DropletDecayRate: dropletDecayRate,
		AirExchangeRate:  airExchangeRate,
		Diffusivity:      cfg.Diffusivity,
		WallAbsorption:   cfg.WallAbsorbingProportion,
		TimeStep:         cfg.SimulationTimeStep,
	}, barriers, voids)

	return e
}

// Air exposes the underlying air field, mainly for observation hooks.
func (e *Environment) Air() *airgrid.Grid { return e.air }

// Dimensions returns the mobility-scale width and height.
func (e *Environment) Dimensions() (int, int) { return e.width, e.height }

// PlaceSurfaces inserts each surface into the cell it currently occupies.
// Returns ErrDuplicateSurfaceName if any two surfaces share a name.
func (e *Environment) PlaceSurfaces(surfaces []surface.Surface) error {
	seen := make(map[string]bool, len(surfaces))
	for _, s := range surfaces {
		if seen[s.Name()] {
			return fmt.Errorf("%w: %q", ErrDuplicateSurfaceName, s.Name())
		}
		seen[s.Name()] = true
		x, y := s.Cell()
		e.surfaces[x][y] = append(e.surfaces[x][y], s)
	}
	return nil
}

// SurfaceLookup returns the cell a surface currently occupies.
func (e *Environment) SurfaceLookup(s surface.Surface) (int, int) {
	return s.Cell()
}

func (e *Environment) inBounds(x, y int) bool {
	return x >= 0 && x < e.width && y >= 0 && y < e.height
}

func (e *Environment) applyEntry(ag *agent.Agent, act agent.Action) error {
	if e.air.IsVoid(act.X, act.Y) {
		return ErrIllegalAgentPosition
	}
	e.mobilitySpace[act.X][act.Y] = ag
	e.lookup[ag] = cellPos{act.X, act.Y}
	if act.Facing != nil {
		ag.SetFacing(*act.Facing)
	}
	ag.IsActive = true
	return nil
}

// direction returns the cardinal facing whose quadrant the displacement
// from (x1,y1) to (x2,y2) falls in, used as Move's fallback when no
// explicit facing is given.
func direction(x1, y1, x2, y2 int) grid.Facing {
	r := math.Atan2(float64(y2-y1), float64(x2-x1))
	d := r * 180 / math.Pi
	switch {
	case d >= 45 && d <= 135:
		return grid.North
	case d >= -45 && d <= 45:
		return grid.East
	case d >= -135 && d <= -45:
		return grid.South
	default:
		return grid.West
	}
}

// ProcessAgentAction dispatches a single script action for agent at the
// current tick, exactly as spec.md §4.4 describes.
func (e *Environment) ProcessAgentAction(ag *agent.Agent, act agent.Action) error {
	if act.Type == agent.ActionEnter {
		return e.applyEntry(ag, act)
	}
	if !ag.IsActive {
		return nil
	}
	pos, ok := e.lookup[ag]
	if !ok {
		return nil
	}
	curX, curY := pos.x, pos.y

	switch act.Type {
	case agent.ActionMove:
		newX, newY := curX+act.DX, curY+act.DY
		if e.air.IsVoid(newX, newY) {
			return ErrIllegalAgentPosition
		}
		if act.Facing != nil {
			ag.SetFacing(*act.Facing)
		} else {
			ag.SetFacing(direction(curX, curY, newX, newY))
		}
		e.mobilitySpace[curX][curY] = nil
		e.mobilitySpace[newX][newY] = ag
		e.lookup[ag] = cellPos{newX, newY}

		for _, name := range ag.HeldNames() {
			e.moveHeldItem(curX, curY, newX, newY, name)
		}

	case agent.ActionLeave:
		e.mobilitySpace[curX][curY] = nil
		delete(e.lookup, ag)
		for _, name := range ag.HeldNames() {
			e.removeHeldItem(curX, curY, name)
		}
		ag.IsActive = false

	case agent.ActionPickup, agent.ActionPutdown:
		// Pickup/Putdown act on the agent's own cell only; AgentReach
		// does not extend to them.
		_, item, found := e.findMovable(curX, curY, act.Target)
		if !found {
			slog.Warn("no item found with target name", "target", act.Target, "agent", ag.Name)
			return nil
		}
		if act.Type == agent.ActionPickup {
			ag.Hold(act.Target, item)
		} else {
			ag.Release(act.Target)
		}

	case agent.ActionHandwash:
		ag.StartHandwashEffect()

	case agent.ActionDonMask:
		ag.DonMask()

	case agent.ActionDoffMask:
		ag.DoffMask()

	case agent.ActionFace:
		if act.Facing != nil {
			ag.SetFacing(*act.Facing)
		}
	}
	return nil
}

// findMovable returns the first movable with the given name in the cell.
// Surface names are enforced globally unique by PlaceSurfaces/simmodel.New,
// so "first" never actually has to arbitrate between two matches the way
// the reference model's warn-and-no-op on multiple matches does.
func (e *Environment) findMovable(x, y int, name string) (int, *surface.Movable, bool) {
	for i, s := range e.surfaces[x][y] {
		if m, ok := s.(*surface.Movable); ok && m.Name() == name {
			return i, m, true
		}
	}
	return -1, nil, false
}

func (e *Environment) moveHeldItem(oldX, oldY, newX, newY int, name string) {
	idx, item, found := e.findMovable(oldX, oldY, name)
	if !found {
		return
	}
	list := e.surfaces[oldX][oldY]
	e.surfaces[oldX][oldY] = append(list[:idx], list[idx+1:]...)
	item.MoveTo(newX, newY)
	e.surfaces[newX][newY] = append(e.surfaces[newX][newY], item)
}

func (e *Environment) removeHeldItem(x, y int, name string) {
	idx, _, found := e.findMovable(x, y, name)
	if !found {
		return
	}
	list := e.surfaces[x][y]
	e.surfaces[x][y] = append(list[:idx], list[idx+1:]...)
}

// AddLoadAir applies an active agent's emission for this tick: a
// directional cough pattern if one is queued, or a plain point emission
// otherwise.
func (e *Environment) AddLoadAir(ag *agent.Agent) {
	pos, ok := e.lookup[ag]
	if !ok {
		return
	}
	if ag.QueuedCough() {
		e.air.AddAerosolPattern(pos.x, pos.y, ag.EmitAerosol(), ag.Facing, pattern.AerosolCough)
		e.air.AddDropletPattern(pos.x, pos.y, ag.EmitDroplet(), ag.Facing, pattern.DropletCough)
		ag.ClearQueuedCough()
	} else {
		e.air.AddAerosol(pos.x, pos.y, ag.EmitAerosol())
		e.air.AddDroplet(pos.x, pos.y, ag.EmitDroplet())
	}
}

// PickupAir overwrites the agent's air reservoir from its current cell and
// removes the picked-up amount from the air.
func (e *Environment) PickupAir(ag *agent.Agent) {
	pos, ok := e.lookup[ag]
	if !ok {
		return
	}
	airLoad, _ := e.air.Aerosol(pos.x, pos.y)
	ag.PickupAir(airLoad)
	e.air.SubtractAerosol(pos.x, pos.y, ag.ContaminationLoadAir)
}

// PickupDroplet overwrites the agent's droplet reservoir from its current
// cell and removes the picked-up amount from the air.
func (e *Environment) PickupDroplet(ag *agent.Agent) {
	pos, ok := e.lookup[ag]
	if !ok {
		return
	}
	dropletLoad, _ := e.air.Droplet(pos.x, pos.y)
	ag.PickupDroplet(dropletLoad)
	e.air.SubtractDroplet(pos.x, pos.y, ag.ContaminationLoadDroplet)
}

func (e *Environment) fixturesWithin(x, y int) []*surface.Fixed {
	var fixtures []*surface.Fixed
	for _, c := range e.ReachableSurfaces(x, y) {
		for _, s := range e.surfaces[c.X][c.Y] {
			if f, ok := s.(*surface.Fixed); ok {
				fixtures = append(fixtures, f)
			}
		}
	}
	return fixtures
}

// PickupFixtures transfers contamination from every fixed surface within
// reach into the agent's surface reservoir. Called only for susceptible
// (ViralLoad==0) agents.
func (e *Environment) PickupFixtures(ag *agent.Agent) {
	pos, ok := e.lookup[ag]
	if !ok {
		return
	}
	for _, f := range e.fixturesWithin(pos.x, pos.y) {
		ag.PickupFromSurface(f)
	}
}

// HandContaminateFixtures transfers contamination from the agent's surface
// reservoir onto every fixed surface within reach. Called only for
// infectious (ViralLoad>0) agents.
func (e *Environment) HandContaminateFixtures(ag *agent.Agent) {
	pos, ok := e.lookup[ag]
	if !ok {
		return
	}
	for _, f := range e.fixturesWithin(pos.x, pos.y) {
		ag.HandToSurfaceTransfer(f)
	}
}

// CleaningSurface zeroes the contamination load of every fixed surface in
// the environment. Movable items are never cleaned.
func (e *Environment) CleaningSurface() {
	for x := 0; x < e.width; x++ {
		for y := 0; y < e.height; y++ {
			for _, s := range e.surfaces[x][y] {
				if f, ok := s.(*surface.Fixed); ok {
					f.Clean()
				}
			}
		}
	}
}

// DecaySurface decays every surface's load by its own configured decay
// rate (not an environment-wide rate — each surface carries its own).
func (e *Environment) DecaySurface() {
	dt := e.cfg.SimulationTimeStep
	for x := 0; x < e.width; x++ {
		for y := 0; y < e.height; y++ {
			for _, s := range e.surfaces[x][y] {
				switch v := s.(type) {
				case *surface.Fixed:
					v.DecayBy(v.SurfaceDecayRate(), dt)
				case *surface.Movable:
					v.DecayBy(v.SurfaceDecayRate(), dt)
				}
			}
		}
	}
}

// DecayAir applies the air field's per-tick decay.
func (e *Environment) DecayAir() { e.air.Decay() }

// DiffuseAir applies the air field's per-tick diffusion.
func (e *Environment) DiffuseAir() { e.air.Diffuse() }

// DropletToSurfaceTransfer deposits droplet load from the air onto every
// fixed surface in the environment, scaled down by the square of the
// mobility ratio (air cells are finer-grained than mobility cells).
func (e *Environment) DropletToSurfaceTransfer() {
	dt := e.cfg.SimulationTimeStep
	scale := e.dropletToSurfaceTransferRate * dt / (e.mobilityRatio * e.mobilityRatio)
	for x := 0; x < e.width; x++ {
		for y := 0; y < e.height; y++ {
			for _, s := range e.surfaces[x][y] {
				f, ok := s.(*surface.Fixed)
				if !ok {
					continue
				}
				dropletLoad, ok := e.air.Droplet(x, y)
				if !ok {
					continue
				}
				f.AddLoad(dropletLoad * scale)
			}
		}
	}
}

// ReachableSurfaces returns the mobility-scale cells within reach of
// (x,y): a (2*(reach/2)+1) square, clipped to the grid bounds, using
// integer floor-division on each side to exactly match the reference
// model's window (not a naive reach+1 square). Returns nil if (x,y) itself
// is out of bounds.
func (e *Environment) ReachableSurfaces(x, y int) []grid.Cell {
	if !e.inBounds(x, y) {
		return nil
	}
	half := e.reach / 2
	var cells []grid.Cell
	for x1 := x - half; x1 <= x+half; x1++ {
		if x1 < 0 || x1 >= e.width {
			continue
		}
		for y1 := y - half; y1 <= y+half; y1++ {
			if y1 < 0 || y1 >= e.height {
				continue
			}
			cells = append(cells, grid.Cell{X: x1, Y: y1})
		}
	}
	return cells
}

// Position returns an active agent's current mobility-scale cell.
func (e *Environment) Position(ag *agent.Agent) (grid.Cell, bool) {
	pos, ok := e.lookup[ag]
	if !ok {
		return grid.Cell{}, false
	}
	return grid.Cell{X: pos.x, Y: pos.y}, true
}
