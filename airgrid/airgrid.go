// Package airgrid implements the two-layer aerosol/droplet field: a flat
// per-cell grid covering the environment at air-cell resolution, with decay,
// diffusion, and directional emission.
package airgrid

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/qvemod/grid"
)

// Grid holds the aerosol and droplet concentration fields plus the static
// geometry (voids, barriers) that shapes their evolution. The layers are
// stored at air-scale resolution. Methods documented as taking
// mobility-scale coordinates convert them with Convert themselves;
// AerosolAt and DropletAt take air-scale cells directly.
type Grid struct {
	width, height int

	aerosol []float64
	droplet []float64
	absent  []bool // true where the cell is a Void, in neither layer

	aerosolBarriers grid.EdgeSet
	dropletBarriers grid.EdgeSet

	mobilityRatio float64

	aerosolDecayRate float64
	dropletDecayRate float64
	airExchangeRate  float64
	diffusivity      float64
	wallAbsorption   float64
	dt               float64
}

// Config bundles the constructor parameters pulled from config.EnvConfig.
type Config struct {
	MobilityRatio    float64
	AerosolDecayRate float64
	DropletDecayRate float64
	AirExchangeRate  float64
	Diffusivity      float64
	WallAbsorption   float64
	TimeStep         float64
}

// New builds a Grid sized to cover mobilityWidth x mobilityHeight mobility
// cells, rounding up to whole air cells, with the given barriers (endpoints
// in mobility-scale coordinates, converted here) and voids (already in
// air-scale coordinates).
func New(mobilityWidth, mobilityHeight int, cfg Config, barriers []grid.Barrier, voids []grid.Void) *Grid {
	w := int(math.Ceil(float64(mobilityWidth) * cfg.MobilityRatio))
	h := int(math.Ceil(float64(mobilityHeight) * cfg.MobilityRatio))

	g := &Grid{
		width:  w,
		height: h,

		aerosol: make([]float64, w*h),
		droplet: make([]float64, w*h),
		absent:  make([]bool, w*h),

		mobilityRatio: cfg.MobilityRatio,

		aerosolDecayRate: cfg.AerosolDecayRate,
		dropletDecayRate: cfg.DropletDecayRate,
		airExchangeRate:  cfg.AirExchangeRate,
		diffusivity:      cfg.Diffusivity,
		wallAbsorption:   cfg.WallAbsorption,
		dt:               cfg.TimeStep,
	}

	var aerosolEdges, dropletEdges []grid.Edge
	for _, b := range barriers {
		b.X1, b.Y1 = g.Convert(b.X1, b.Y1)
		b.X2, b.Y2 = g.Convert(b.X2, b.Y2)
		edges := b.Edges()
		if b.Kind == grid.Wall {
			aerosolEdges = append(aerosolEdges, edges...)
			dropletEdges = append(dropletEdges, edges...)
		} else {
			dropletEdges = append(dropletEdges, edges...)
		}
	}
	g.aerosolBarriers = grid.NewEdgeSet(aerosolEdges...)
	g.dropletBarriers = grid.NewEdgeSet(dropletEdges...)

	for _, v := range voids {
		g.absent[g.index(v.X, v.Y)] = true
	}

	return g
}

// Width and Height return the grid's air-scale dimensions.
func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) index(x, y int) int { return y*g.width + x }

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Convert maps mobility-scale coordinates down to the air-scale cell they
// fall in.
func (g *Grid) Convert(x, y int) (int, int) {
	return int(math.Floor(float64(x) * g.mobilityRatio)), int(math.Floor(float64(y) * g.mobilityRatio))
}

// IsVoid reports whether the mobility-scale cell (x,y) maps to a Void.
func (g *Grid) IsVoid(x, y int) bool {
	ax, ay := g.Convert(x, y)
	if !g.inBounds(ax, ay) {
		return false
	}
	return g.absent[g.index(ax, ay)]
}

// Aerosol returns the aerosol load at mobility-scale (x,y), and false if the
// underlying air cell is absent (a Void).
func (g *Grid) Aerosol(x, y int) (float64, bool) {
	ax, ay := g.Convert(x, y)
	return g.getAerosol(ax, ay)
}

// Droplet returns the droplet load at mobility-scale (x,y), and false if the
// underlying air cell is absent (a Void).
func (g *Grid) Droplet(x, y int) (float64, bool) {
	ax, ay := g.Convert(x, y)
	return g.getDroplet(ax, ay)
}

// AerosolAt returns the aerosol load at air-scale cell (ax,ay) directly,
// without a mobility-scale conversion — used for whole-grid observation
// sweeps, which iterate in the air grid's own coordinate space.
func (g *Grid) AerosolAt(ax, ay int) (float64, bool) {
	return g.getAerosol(ax, ay)
}

// DropletAt returns the droplet load at air-scale cell (ax,ay) directly.
func (g *Grid) DropletAt(ax, ay int) (float64, bool) {
	return g.getDroplet(ax, ay)
}

func (g *Grid) getAerosol(ax, ay int) (float64, bool) {
	if !g.inBounds(ax, ay) {
		return 0, false
	}
	i := g.index(ax, ay)
	if g.absent[i] {
		return 0, false
	}
	return g.aerosol[i], true
}

func (g *Grid) getDroplet(ax, ay int) (float64, bool) {
	if !g.inBounds(ax, ay) {
		return 0, false
	}
	i := g.index(ax, ay)
	if g.absent[i] {
		return 0, false
	}
	return g.droplet[i], true
}

// AddAerosol adds to the aerosol load at mobility-scale (x,y). A no-op over
// a Void cell.
func (g *Grid) AddAerosol(x, y int, amount float64) {
	ax, ay := g.Convert(x, y)
	if v, ok := g.getAerosol(ax, ay); ok {
		g.aerosol[g.index(ax, ay)] = v + amount
	}
}

// AddDroplet adds to the droplet load at mobility-scale (x,y). A no-op over
// a Void cell.
func (g *Grid) AddDroplet(x, y int, amount float64) {
	ax, ay := g.Convert(x, y)
	if v, ok := g.getDroplet(ax, ay); ok {
		g.droplet[g.index(ax, ay)] = v + amount
	}
}

// SubtractAerosol subtracts from the aerosol load at mobility-scale (x,y).
func (g *Grid) SubtractAerosol(x, y int, amount float64) {
	g.AddAerosol(x, y, -amount)
}

// SubtractDroplet subtracts from the droplet load at mobility-scale (x,y).
func (g *Grid) SubtractDroplet(x, y int, amount float64) {
	g.AddDroplet(x, y, -amount)
}

// Decay applies the per-tick aerosol exponential decay and droplet linear
// decay. Aerosol decays at rate (decayRate+airExchangeRate) compounded
// exponentially over the tick; droplet decays by a flat fraction of its
// current load per tick — the two layers are intentionally asymmetric.
func (g *Grid) Decay() {
	factor := math.Exp(-(g.aerosolDecayRate + g.airExchangeRate) * g.dt)
	floats.Scale(factor, g.aerosol)
	for i := range g.aerosol {
		if g.absent[i] {
			g.aerosol[i] = 0
		}
	}

	dropletFactor := g.dropletDecayRate * g.dt
	for i, v := range g.droplet {
		if g.absent[i] {
			continue
		}
		g.droplet[i] = v - v*dropletFactor
	}
}

// Diffuse advects both layers one step across their 4-neighbour stencil,
// subject to barriers and void boundaries. Cells with fewer than four open
// neighbours absorb the wall-absorbing proportion in place of the missing
// neighbour's contribution.
func (g *Grid) Diffuse() {
	g.diffuseLayer(g.aerosol, g.aerosolBarriers)
	g.diffuseLayer(g.droplet, g.dropletBarriers)
}

func (g *Grid) diffuseLayer(layer []float64, barriers grid.EdgeSet) {
	next := append([]float64(nil), layer...)
	for x := 0; x < g.width; x++ {
		for y := 0; y < g.height; y++ {
			i := g.index(x, y)
			if g.absent[i] {
				continue
			}
			var sum float64
			var n int
			// North
			if y+1 < g.height && !g.absent[g.index(x, y+1)] && !barriers.Has(x, y, x, y+1) {
				sum += layer[g.index(x, y+1)]
				n++
			}
			// South
			if y-1 >= 0 && !g.absent[g.index(x, y-1)] && !barriers.Has(x, y, x, y-1) {
				sum += layer[g.index(x, y-1)]
				n++
			}
			// East
			if x+1 < g.width && !g.absent[g.index(x+1, y)] && !barriers.Has(x, y, x+1, y) {
				sum += layer[g.index(x+1, y)]
				n++
			}
			// West
			if x-1 >= 0 && !g.absent[g.index(x-1, y)] && !barriers.Has(x, y, x-1, y) {
				sum += layer[g.index(x-1, y)]
				n++
			}
			next[i] += g.diffusivity * (sum - (float64(n)+float64(4-n)*g.wallAbsorption)*layer[i]) * g.dt
		}
	}
	copy(layer, next)
}

// Layer selects which field addLayerPattern writes into.
type Layer int

const (
	LayerAerosol Layer = iota
	LayerDroplet
)

// AddAerosolPattern emits addition across aerosol cells, fanned out from
// mobility-scale origin (x,y) in the given facing according to pattern.
func (g *Grid) AddAerosolPattern(x, y int, addition float64, facing grid.Facing, p Pattern) {
	g.addLayerPattern(x, y, addition, LayerAerosol, facing, p)
}

// AddDropletPattern emits addition across droplet cells, fanned out from
// mobility-scale origin (x,y) in the given facing according to pattern.
func (g *Grid) AddDropletPattern(x, y int, addition float64, facing grid.Facing, p Pattern) {
	g.addLayerPattern(x, y, addition, LayerDroplet, facing, p)
}

// Pattern is the minimal view addLayerPattern needs from pattern.Pattern,
// so this package doesn't need to import pattern (which in turn has no need
// to know about airgrid).
type Pattern interface {
	Width() int
	Depth() int
	At(i, j int) float64
}

type flow int

const (
	flowNone flow = iota
	flowLeft
	flowRight
)

// addLayerPattern is a direct transcription of the reference emitter: three
// passes over the pattern's columns (left-flow, center, right-flow), each
// walking outward from the origin and stopping at bounds, barriers, or
// voids. The two stop conditions are distinguished by column: a blockage at
// the very first step of a flow column (pattern_y == 0) sets block_at_0 and
// merely skips that one cell, since an agent never emits directly behind
// itself; any other blockage truncates the rest of that column via till_y.
func (g *Grid) addLayerPattern(x, y int, addition float64, layer Layer, facing grid.Facing, p Pattern) {
	ax, ay := g.Convert(x, y)
	center := p.Width() / 2
	depth := p.Depth()

	var x0, y0 int
	switch facing {
	case grid.North:
		x0, y0 = ax-center, ay
	case grid.South:
		x0, y0 = ax+center, ay
	case grid.East:
		x0, y0 = ax, ay+center
	case grid.West:
		x0, y0 = ax, ay-center
	}

	barriers := g.aerosolBarriers
	if layer == LayerDroplet {
		barriers = g.dropletBarriers
	}

	process := func(columns []int, fl flow) {
		blockAt0 := false
		tillY := depth
		for _, px := range columns {
			for py := 0; py < depth; py++ {
				if py == 0 && blockAt0 {
					continue
				}

				var tx, ty int
				switch facing {
				case grid.North:
					tx, ty = x0+px, y0+py
				case grid.South:
					tx, ty = x0-px, y0-py
				case grid.East:
					tx, ty = x0+py, y0-px
				case grid.West:
					tx, ty = x0-py, y0+px
				}

				if !g.inBounds(tx, ty) {
					break
				}

				if py != 0 {
					var ptx, pty int
					switch facing {
					case grid.North:
						ptx, pty = tx, ty-1
					case grid.South:
						ptx, pty = tx, ty+1
					case grid.East:
						ptx, pty = tx-1, ty
					case grid.West:
						ptx, pty = tx+1, ty
					}
					if barriers.Has(ptx, pty, tx, ty) {
						tillY = py
						break
					}
				}

				if fl != flowNone {
					var ftx, fty int
					switch facing {
					case grid.North:
						fty = ty
						if fl == flowLeft {
							ftx = tx + 1
						} else {
							ftx = tx - 1
						}
					case grid.South:
						fty = ty
						if fl == flowLeft {
							ftx = tx - 1
						} else {
							ftx = tx + 1
						}
					case grid.East:
						ftx = tx
						if fl == flowLeft {
							fty = ty + 1
						} else {
							fty = ty - 1
						}
					case grid.West:
						ftx = tx
						if fl == flowLeft {
							fty = ty - 1
						} else {
							fty = ty + 1
						}
					}
					if barriers.Has(ftx, fty, tx, ty) {
						if py == 0 {
							blockAt0 = true
							continue
						}
						tillY = py
						break
					}
				}

				if g.absent[g.index(tx, ty)] {
					if py == 0 {
						blockAt0 = true
						continue
					}
					tillY = py
					break
				}

				if py >= tillY {
					break
				}

				weight := p.At(px, py)
				if layer == LayerAerosol {
					g.aerosol[g.index(tx, ty)] += addition * weight
				} else {
					g.droplet[g.index(tx, ty)] += addition * weight
				}
			}
		}
	}

	left := make([]int, 0, center)
	for i := center - 1; i >= 0; i-- {
		left = append(left, i)
	}
	right := make([]int, 0, p.Width()-center-1)
	for i := center + 1; i < p.Width(); i++ {
		right = append(right, i)
	}

	process(left, flowLeft)
	process([]int{center}, flowNone)
	process(right, flowRight)
}
