// Package agent implements the scripted actors that move through an
// environment, emit and pick up contamination, and carry a small stack of
// timed or indefinite effects (wearing a mask, handwashing, a queued cough).
package agent

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/qvemod/config"
	"github.com/pthm-cable/qvemod/grid"
)

// IDAllocator hands out sequential agent IDs, mirroring the reference
// model's class-level counter without relying on a package-level global.
type IDAllocator struct {
	next uint32
}

// Next returns the next unused ID.
func (a *IDAllocator) Next() uint32 {
	id := a.next
	a.next++
	return id
}

// Agent is a scripted actor in the environment.
type Agent struct {
	ID   uint32
	Name string

	// ViralLoad is 0 for a susceptible agent, >0 for an infectious one; it
	// gates whether the agent picks up from or hand-contaminates fixed
	// surfaces each tick (see spec of environment.PickupFixtures).
	ViralLoad float64

	// Contamination reservoirs. Air and Droplet are overwritten (not
	// accumulated) each tick by PickupAir/PickupDroplet; Surface
	// accumulates across ticks until a handwash partially clears it.
	ContaminationLoadAir     float64
	ContaminationLoadDroplet float64
	ContaminationLoadSurface float64

	EmissionRateAir     float64
	EmissionRateDroplet float64
	PickUpAir           float64
	PickUpDroplet       float64

	Script Script

	IsActive bool
	Facing   grid.Facing

	held    []*heldItem
	effects []*Effect

	queuedCough bool

	rng *rand.Rand
	cfg *config.EnvConfig
}

type heldItem struct {
	name string
}

// New constructs an Agent from its static script and coefficients. rng
// drives the coughing Bernoulli trial and must not be shared across agents
// run concurrently.
func New(id uint32, name string, viralLoad float64, script Script, rng *rand.Rand) *Agent {
	a := &Agent{
		ID:        id,
		Name:      name,
		ViralLoad: viralLoad,
		Script:    script,
		Facing:    grid.North,
		rng:       rng,
	}
	if first, ok := script.First(); ok && first.Type == ActionEnter && first.Facing != nil {
		a.Facing = *first.Facing
	}
	return a
}

// Configure attaches the environment configuration an agent needs for its
// per-tick arithmetic, and (if infectious) installs the standing coughing
// effect. Must be called once before the agent is run.
func (a *Agent) Configure(cfg *config.EnvConfig) {
	a.cfg = cfg
	if a.ViralLoad > 0 {
		a.effects = append(a.effects, &Effect{Name: EffectCoughing, event: a.maybeCough})
	}
}

func (a *Agent) maybeCough() {
	if a.rng.Float64() < a.cfg.CoughingRate*a.cfg.SimulationTimeStep {
		a.queuedCough = true
	}
}

// QueuedCough reports whether a cough was triggered this tick and is
// awaiting the add-load-air step.
func (a *Agent) QueuedCough() bool { return a.queuedCough }

// ClearQueuedCough resets the cough flag once the pending emission has been applied.
func (a *Agent) ClearQueuedCough() { a.queuedCough = false }

// EmitAerosol computes this tick's aerosol emission load, applying the
// coughing multiplier (if a cough is queued) and the mask reduction (if
// worn).
func (a *Agent) EmitAerosol() float64 {
	load := a.ViralLoad * a.EmissionRateAir * a.cfg.SimulationTimeStep
	if a.queuedCough {
		load = a.ViralLoad * a.EmissionRateAir * a.cfg.SimulationTimeStep *
			a.cfg.CoughingFactor * a.cfg.CoughingAerosolPercentage
	}
	if a.UnderEffect(EffectWearingMask) {
		return load * a.cfg.MaskEmissionAerosolReductionEfficiency
	}
	return load
}

// EmitDroplet computes this tick's droplet emission load. Note the cough
// branch reuses EmissionRateAir rather than EmissionRateDroplet — this
// matches the reference model exactly and is not a typo to fix.
func (a *Agent) EmitDroplet() float64 {
	load := a.ViralLoad * a.EmissionRateDroplet * a.cfg.SimulationTimeStep
	if a.queuedCough {
		load = a.ViralLoad * a.EmissionRateAir * a.cfg.SimulationTimeStep *
			a.cfg.CoughingFactor * a.cfg.CoughingDropletPercentage
	}
	if a.UnderEffect(EffectWearingMask) {
		return load * a.cfg.MaskEmissionDropletReductionEfficiency
	}
	return load
}

// PickupAir overwrites (does not add to) the agent's air contamination
// reservoir from the air load at its current cell.
func (a *Agent) PickupAir(airLoad float64) {
	if a.UnderEffect(EffectWearingMask) {
		a.ContaminationLoadAir = airLoad * a.PickUpAir * a.cfg.SimulationTimeStep * a.cfg.MaskAerosolProtectionEfficiency
	} else {
		a.ContaminationLoadAir = airLoad * a.PickUpAir * a.cfg.SimulationTimeStep
	}
}

// PickupDroplet overwrites (does not add to) the agent's droplet
// contamination reservoir from the droplet load at its current cell.
func (a *Agent) PickupDroplet(dropletLoad float64) {
	if a.UnderEffect(EffectWearingMask) {
		a.ContaminationLoadDroplet = dropletLoad * a.PickUpDroplet * a.cfg.SimulationTimeStep * a.cfg.MaskDropletProtectionEfficiency
	} else {
		a.ContaminationLoadDroplet = dropletLoad * a.PickUpDroplet * a.cfg.SimulationTimeStep
	}
}

// SurfaceTransfer is the minimal view agent needs of a surface.Surface to
// keep this package free of a dependency on the surface package; agent
// depends only on config and grid, and surface on neither.
type SurfaceTransfer interface {
	Load() float64
	AddLoad(float64)
	SetLoad(float64)
	TransferRate() float64
	PickupMultiplier(dt float64) float64
}

// PickupFromSurface transfers contamination from a surface into the
// agent's accumulating surface reservoir, and removes what was taken from
// the surface. No-op while under the handwash effect.
func (a *Agent) PickupFromSurface(s SurfaceTransfer) {
	if a.UnderEffect(EffectHandwash) {
		return
	}
	transferred := s.Load() * s.TransferRate() * s.PickupMultiplier(a.cfg.SimulationTimeStep)
	a.ContaminationLoadSurface += transferred
	s.AddLoad(-transferred)
}

// HandToSurfaceTransfer contaminates a surface from the agent's
// accumulated surface reservoir. Deliberately does not reduce the agent's
// own reservoir — contamination on hands doesn't run out by touching things,
// per the reference model.
func (a *Agent) HandToSurfaceTransfer(s SurfaceTransfer) {
	transferred := a.ContaminationLoadSurface * s.TransferRate() * s.PickupMultiplier(a.cfg.SimulationTimeStep)
	s.AddLoad(transferred)
}

// Hold picks up a named item: transfers contamination both ways (pickup
// then hand-contaminate) and adds it to the held list. Warns and no-ops if
// already held.
func (a *Agent) Hold(name string, s SurfaceTransfer) {
	for _, h := range a.held {
		if h.name == name {
			slog.Warn("agent already holding item", "agent", a.Name, "item", name)
			return
		}
	}
	a.held = append(a.held, &heldItem{name: name})
	a.PickupFromSurface(s)
	a.HandToSurfaceTransfer(s)
}

// Release drops a named item from the held list, if held.
func (a *Agent) Release(name string) {
	for i, h := range a.held {
		if h.name == name {
			a.held = append(a.held[:i], a.held[i+1:]...)
			return
		}
	}
	slog.Warn("agent not holding item, cannot release", "agent", a.Name, "item", name)
}

// HeldNames returns the names of every item currently held, in pickup order.
func (a *Agent) HeldNames() []string {
	names := make([]string, len(a.held))
	for i, h := range a.held {
		names[i] = h.name
	}
	return names
}

// StartHandwashEffect begins (or resets the duration of) the handwash
// effect: the agent's surface reservoir is reduced to a fraction of its
// prior value immediately, and restored to its pre-handwash value when the
// effect concludes.
func (a *Agent) StartHandwashEffect() {
	for _, e := range a.effects {
		if e.Name == EffectHandwash {
			e.remainingTicks = newDuration(a.cfg.HandwashDurationTicks())
			return
		}
	}

	priorLoad := a.ContaminationLoadSurface
	e := &Effect{
		Name:           EffectHandwash,
		remainingTicks: newDuration(a.cfg.HandwashDurationTicks()),
		conclusion:     func() { a.ContaminationLoadSurface = priorLoad },
	}
	a.ContaminationLoadSurface *= a.cfg.HandwashingContaminationFraction
	a.effects = append(a.effects, e)
}

// DonMask adds the wearing-mask effect if not already present.
func (a *Agent) DonMask() {
	if !a.UnderEffect(EffectWearingMask) {
		a.effects = append(a.effects, &Effect{Name: EffectWearingMask})
	}
}

// DoffMask removes the wearing-mask effect.
func (a *Agent) DoffMask() {
	for i, e := range a.effects {
		if e.Name == EffectWearingMask {
			a.effects = append(a.effects[:i], a.effects[i+1:]...)
			return
		}
	}
}

// ProcessEffects ticks every active effect and drops any whose remaining
// duration reaches zero. Uses a mark/sweep pass (collect survivors into a
// fresh slice) rather than removing from the slice mid-range, since Go's
// range does not tolerate that the way Python's list does either — here
// it's made explicit instead of accidentally working.
func (a *Agent) ProcessEffects() {
	survivors := a.effects[:0:0]
	for _, e := range a.effects {
		e.tick()
		if e.remainingTicks != nil && *e.remainingTicks == 0 {
			continue
		}
		survivors = append(survivors, e)
	}
	a.effects = survivors
}

// UnderEffect reports whether an effect with the given name is currently active.
func (a *Agent) UnderEffect(name EffectName) bool {
	for _, e := range a.effects {
		if e.Name == name {
			return true
		}
	}
	return false
}

// SetFacing sets the agent's orientation directly (used by the Face action).
func (a *Agent) SetFacing(f grid.Facing) {
	a.Facing = f
}

func (a *Agent) String() string {
	return fmt.Sprintf("%s(air=%.4f,droplet=%.4f,surface=%.4f)", a.Name,
		a.ContaminationLoadAir, a.ContaminationLoadDroplet, a.ContaminationLoadSurface)
}
