package airgrid

import (
	"math"
	"testing"

	"github.com/pthm-cable/qvemod/grid"
)

func baseConfig() Config {
	return Config{
		MobilityRatio:    1,
		AerosolDecayRate: 0,
		DropletDecayRate: 0,
		AirExchangeRate:  0,
		Diffusivity:      0.1,
		WallAbsorption:   0,
		TimeStep:         1,
	}
}

func TestVoidCellsStayAbsent(t *testing.T) {
	g := New(5, 5, baseConfig(), nil, []grid.Void{{X: 2, Y: 2}})

	if _, ok := g.Aerosol(2, 2); ok {
		t.Error("void cell should report absent for Aerosol")
	}
	if _, ok := g.Droplet(2, 2); ok {
		t.Error("void cell should report absent for Droplet")
	}

	g.AddAerosol(2, 2, 10)
	g.AddDroplet(2, 2, 10)
	if _, ok := g.Aerosol(2, 2); ok {
		t.Error("write to void cell should remain a no-op")
	}

	g.Decay()
	g.Diffuse()
	if _, ok := g.Aerosol(2, 2); ok {
		t.Error("void cell should stay absent across decay/diffuse")
	}
}

func TestDiffusionConservesMassWithNoAbsorption(t *testing.T) {
	cfg := baseConfig()
	cfg.WallAbsorption = 0
	g := New(4, 4, cfg, nil, nil)

	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			g.aerosol[g.index(x, y)] = float64((x+1)*(y+1)) % 7
		}
	}

	before := sumLayer(g.aerosol)
	g.Diffuse()
	after := sumLayer(g.aerosol)

	if math.Abs(before-after) > 1e-9 {
		t.Errorf("mass not conserved: before=%v after=%v", before, after)
	}
}

func TestDiffusionWithFullAbsorptionMonotonicallyDecreases(t *testing.T) {
	cfg := baseConfig()
	cfg.WallAbsorption = 1
	g := New(4, 4, cfg, nil, nil)

	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			g.aerosol[g.index(x, y)] = 5
		}
	}

	prev := sumLayer(g.aerosol)
	for i := 0; i < 5; i++ {
		g.Diffuse()
		cur := sumLayer(g.aerosol)
		if cur > prev+1e-9 {
			t.Fatalf("mass increased on step %d: %v -> %v", i, prev, cur)
		}
		prev = cur
	}
}

func sumLayer(layer []float64) float64 {
	var total float64
	for _, v := range layer {
		total += v
	}
	return total
}

func TestAerosolDecayIsExponential(t *testing.T) {
	cfg := baseConfig()
	cfg.AerosolDecayRate = 0.1
	cfg.AirExchangeRate = 0.05
	cfg.TimeStep = 1
	g := New(1, 1, cfg, nil, nil)
	g.aerosol[0] = 1.0

	g.Decay()

	want := math.Exp(-0.15)
	if math.Abs(g.aerosol[0]-want) > 1e-9 {
		t.Errorf("aerosol decay = %v, want %v", g.aerosol[0], want)
	}
}

func TestDropletDecayIsLinear(t *testing.T) {
	cfg := baseConfig()
	cfg.DropletDecayRate = 0.2
	cfg.TimeStep = 1
	g := New(1, 1, cfg, nil, nil)
	g.droplet[0] = 1.0

	g.Decay()

	want := 0.8
	if math.Abs(g.droplet[0]-want) > 1e-9 {
		t.Errorf("droplet decay = %v, want %v", g.droplet[0], want)
	}
}

func TestWallBlocksBothLayersShieldBlocksOnlyDroplet(t *testing.T) {
	cfg := baseConfig()
	wallBarrier := []grid.Barrier{{Kind: grid.Wall, X1: 2, Y1: 0, X2: 2, Y2: 5}}
	g := New(5, 5, cfg, wallBarrier, nil)

	if !g.aerosolBarriers.Has(1, 2, 2, 2) {
		t.Error("wall should block the aerosol layer")
	}
	if !g.dropletBarriers.Has(1, 2, 2, 2) {
		t.Error("wall should block the droplet layer too")
	}

	cfg2 := baseConfig()
	shieldBarrier := []grid.Barrier{{Kind: grid.Shield, X1: 2, Y1: 0, X2: 2, Y2: 5}}
	g2 := New(5, 5, cfg2, shieldBarrier, nil)
	if g2.aerosolBarriers.Has(1, 2, 2, 2) {
		t.Error("shield should not block the aerosol layer")
	}
	if !g2.dropletBarriers.Has(1, 2, 2, 2) {
		t.Error("shield should block the droplet layer")
	}
}

// Mirrors the 30x30 coughing scenario: a droplet cough pattern reaches only
// to its configured depth (5 cells along the facing axis), not beyond.
func TestDropletCoughPatternDoesNotReachBeyondItsDepth(t *testing.T) {
	cfg := baseConfig()
	g := New(30, 30, cfg, nil, nil)

	p := patternStub{weights: [][]float64{
		{0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0},
		{0, 0, 0, 0.25, 0.75},
		{0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0},
	}}

	g.AddDropletPattern(5, 5, 1.0, grid.North, p)

	if v, ok := g.Droplet(5, 9); !ok || v == 0 {
		t.Errorf("expected non-zero droplet within pattern depth, got %v (ok=%v)", v, ok)
	}
	if v, ok := g.Droplet(5, 15); !ok || v != 0 {
		t.Errorf("expected zero droplet beyond pattern depth, got %v (ok=%v)", v, ok)
	}
}

type patternStub struct {
	weights [][]float64
}

func (p patternStub) Width() int          { return len(p.weights) }
func (p patternStub) Depth() int          { return len(p.weights[0]) }
func (p patternStub) At(i, j int) float64 { return p.weights[i][j] }
