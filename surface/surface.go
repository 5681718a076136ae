// Package surface models contaminable surfaces in the environment: fixed
// fixtures that agents reach without moving, and movable items agents can
// carry between cells.
package surface

import "math"

// Surface is satisfied by both Fixed and Movable. Callers route through the
// interface rather than type-switching at every call site; PickupMultiplier
// is how the two variants' differing rate-vs-ratio transfer semantics are
// captured without a runtime type check.
type Surface interface {
	Name() string
	Cell() (x, y int)
	TransferRate() float64
	Load() float64
	AddLoad(amount float64)
	SetLoad(amount float64)
	DecayBy(rate, dt float64)
	// PickupMultiplier returns the extra factor applied to a transfer
	// across this surface: dt for a Fixed surface (a rate-based transfer
	// accumulated over the tick), or 1 for a Movable surface (a one-shot
	// ratio-based transfer that happens only when an agent picks it up).
	PickupMultiplier(dt float64) float64
}

// Fixed is a stationary surface (a fixture, doorknob, counter) that agents
// pick up contamination from and hand-contaminate without moving it.
// TransferRate is pre-multiplied by touch frequency once at construction,
// matching the reference model's Fixture.__init__.
type Fixed struct {
	name string
	x, y int

	transferEfficiency float64
	surfaceRatio       float64
	touchFrequency     float64
	surfaceDecayRate   float64

	transferRate float64
	load         float64
}

// NewFixed builds a Fixed surface at mobility-scale (x,y).
func NewFixed(name string, x, y int, transferEfficiency, surfaceRatio, touchFrequency, surfaceDecayRate float64) *Fixed {
	return &Fixed{
		name:               name,
		x:                  x,
		y:                  y,
		transferEfficiency: transferEfficiency,
		surfaceRatio:       surfaceRatio,
		touchFrequency:     touchFrequency,
		surfaceDecayRate:   surfaceDecayRate,
		transferRate:       transferEfficiency * surfaceRatio * touchFrequency,
	}
}

func (f *Fixed) Name() string             { return f.name }
func (f *Fixed) Cell() (int, int)         { return f.x, f.y }
func (f *Fixed) TransferRate() float64    { return f.transferRate }
func (f *Fixed) Load() float64            { return f.load }
func (f *Fixed) AddLoad(amount float64)   { f.load += amount }
func (f *Fixed) SetLoad(amount float64)   { f.load = amount }
func (f *Fixed) PickupMultiplier(dt float64) float64 { return dt }

func (f *Fixed) DecayBy(rate, dt float64) {
	f.load *= math.Exp(-rate * dt)
}

// Clean resets a fixture's accumulated load to zero, matching the periodic
// cleaning_surface routine (Fixed surfaces only — Movable items are never
// cleaned by the environment).
func (f *Fixed) Clean() {
	f.load = 0
}

// SurfaceDecayRate returns the per-second decay rate configured for this fixture.
func (f *Fixed) SurfaceDecayRate() float64 { return f.surfaceDecayRate }

// Movable is a surface an agent can pick up and carry between cells (an
// Item in the reference model's terms). Its position is whatever cell it is
// currently resting in or being carried through; the environment updates
// that as the holding agent moves.
type Movable struct {
	name string
	x, y int

	transferEfficiency float64
	surfaceRatio       float64
	surfaceDecayRate   float64

	transferRate float64
	load         float64
}

// NewMovable builds a Movable surface at mobility-scale (x,y).
func NewMovable(name string, x, y int, transferEfficiency, surfaceRatio, surfaceDecayRate float64) *Movable {
	return &Movable{
		name:               name,
		x:                  x,
		y:                  y,
		transferEfficiency: transferEfficiency,
		surfaceRatio:       surfaceRatio,
		surfaceDecayRate:   surfaceDecayRate,
		transferRate:       transferEfficiency * surfaceRatio,
	}
}

func (m *Movable) Name() string             { return m.name }
func (m *Movable) Cell() (int, int)         { return m.x, m.y }
func (m *Movable) TransferRate() float64    { return m.transferRate }
func (m *Movable) Load() float64            { return m.load }
func (m *Movable) AddLoad(amount float64)   { m.load += amount }
func (m *Movable) SetLoad(amount float64)   { m.load = amount }
func (m *Movable) PickupMultiplier(float64) float64 { return 1 }

func (m *Movable) DecayBy(rate, dt float64) {
	m.load *= math.Exp(-rate * dt)
}

// SurfaceDecayRate returns the per-second decay rate configured for this item.
func (m *Movable) SurfaceDecayRate() float64 { return m.surfaceDecayRate }

// MoveTo updates the item's resting cell; called by the environment when the
// carrying agent moves.
func (m *Movable) MoveTo(x, y int) {
	m.x, m.y = x, y
}
