// Package pattern implements validated directional emission patterns: small
// rectangular weight matrices used to fan contamination out from an agent's
// front in a cardinal direction.
package pattern

import "errors"

// ErrIllegalPattern is returned by New when a pattern matrix has rows of
// unequal length, has even width, has an entry outside [0,1], or its weights
// sum to more than 1.
var ErrIllegalPattern = errors.New("pattern: illegal emission pattern")

// Pattern is a validated emission pattern: rows indexed by depth-perpendicular
// offset (width, odd), columns indexed by depth from the emitting agent.
type Pattern struct {
	weights [][]float64
}

// New validates and wraps a weight matrix as a Pattern. The matrix must be
// rectangular (every row the same length), have an odd number of rows, all
// entries in [0,1], and total weight summing to at most 1.
func New(weights [][]float64) (Pattern, error) {
	if len(weights) == 0 || len(weights)%2 == 0 {
		return Pattern{}, ErrIllegalPattern
	}
	depth := len(weights[0])
	var total float64
	for _, row := range weights {
		if len(row) != depth {
			return Pattern{}, ErrIllegalPattern
		}
		for _, w := range row {
			if w < 0 || w > 1 {
				return Pattern{}, ErrIllegalPattern
			}
			total += w
		}
	}
	if total > 1 {
		return Pattern{}, ErrIllegalPattern
	}
	rows := make([][]float64, len(weights))
	for i, row := range weights {
		rows[i] = append([]float64(nil), row...)
	}
	return Pattern{weights: rows}, nil
}

// MustNew is like New but panics on an invalid pattern; used for package-level
// constants built from literal weight matrices known to be valid.
func MustNew(weights [][]float64) Pattern {
	p, err := New(weights)
	if err != nil {
		panic(err)
	}
	return p
}

// Width returns the number of rows (the perpendicular-to-facing extent). Always odd.
func (p Pattern) Width() int { return len(p.weights) }

// Depth returns the number of columns (the along-facing extent from the agent).
func (p Pattern) Depth() int {
	if len(p.weights) == 0 {
		return 0
	}
	return len(p.weights[0])
}

// At returns the weight at perpendicular offset i (0..Width()-1), depth j (0..Depth()-1).
func (p Pattern) At(i, j int) float64 {
	return p.weights[i][j]
}

// Center returns Width()/2, the index of the pattern's central column.
func (p Pattern) Center() int {
	return p.Width() / 2
}

// The three built-in patterns from the reference implementation: the
// instantaneous near-field aerosol spread, the ballistic droplet cough fan,
// and the initial aerosol dispersal fan. The
// literal weights are physical constants of the reference model, transcribed
// from its emissionpatterns module, not reinvented here.
var (
	AerosolCough = MustNew([][]float64{
		{0.0, 0.0, 0.000, 0.0, 0.00},
		{0.0, 0.0, 0.000, 0.125, 0.00},
		{0.0, 0.0, 0.125, 0.375, 0.25},
		{0.0, 0.0, 0.000, 0.125, 0.00},
		{0.0, 0.0, 0.000, 0.0, 0.00},
	})

	DropletCough = MustNew([][]float64{
		{0.0, 0.0, 0.0, 0.0, 0.00},
		{0.0, 0.0, 0.0, 0.0, 0.00},
		{0.0, 0.0, 0.0, 0.25, 0.75},
		{0.0, 0.0, 0.0, 0.0, 0.00},
		{0.0, 0.0, 0.0, 0.0, 0.00},
	})

	InitialCough = MustNew([][]float64{
		{0.0, 0.0, 0.0, 0.0, 0.04},
		{0.0, 0.0, 0.0, 0.0666, 0.04},
		{0.2, 0.2, 0.2, 0.0667, 0.04},
		{0.0, 0.0, 0.0, 0.0666, 0.04},
		{0.0, 0.0, 0.0, 0.0, 0.04},
	})
)
