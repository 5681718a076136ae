// Package grid provides the geometry primitives shared by the air and
// mobility grids: cell coordinates, adjacency edges, barriers, and voids.
package grid

import "fmt"

// Cell is an integer coordinate on either the mobility or the air grid scale.
// Both coordinates are always non-negative.
type Cell struct {
	X, Y int
}

// Edge is an unordered pair of adjacent air-scale cells, normalised so that
// the lower coordinate always comes first. Only two cells differing by
// exactly one in exactly one axis form a valid Edge.
type Edge struct {
	A, B Cell
}

// NewEdge builds a normalised Edge between two adjacent cells. It panics if
// the cells are not orthogonally adjacent, matching the original
// implementation's assertion that an Edge only exists between neighbours.
func NewEdge(x1, y1, x2, y2 int) Edge {
	dx := x1 - x2
	dy := y1 - y2
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if !((dx == 1 && dy == 0) || (dx == 0 && dy == 1)) {
		panic(fmt.Sprintf("grid: edge must be between adjacent cells, got (%d,%d)-(%d,%d)", x1, y1, x2, y2))
	}
	a, b := Cell{x1, y1}, Cell{x2, y2}
	if b.X < a.X || (b.X == a.X && b.Y < a.Y) {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// EdgeSet is an immutable-after-construction set of blocked edges, keyed by
// normalised Edge so lookups don't care about argument order.
type EdgeSet map[Edge]struct{}

// NewEdgeSet builds an EdgeSet from a list of edges.
func NewEdgeSet(edges ...Edge) EdgeSet {
	set := make(EdgeSet, len(edges))
	for _, e := range edges {
		set[e] = struct{}{}
	}
	return set
}

// Has reports whether the edge between two adjacent cells is present in the set.
func (s EdgeSet) Has(x1, y1, x2, y2 int) bool {
	_, ok := s[NewEdge(x1, y1, x2, y2)]
	return ok
}

// BarrierKind distinguishes the two barrier variants.
type BarrierKind uint8

const (
	// Wall blocks both aerosol and droplet transport across every edge it covers.
	Wall BarrierKind = iota
	// Shield blocks only droplet transport.
	Shield
)

// String renders the barrier kind using the wire-format names from spec §6.
func (k BarrierKind) String() string {
	if k == Shield {
		return "shield"
	}
	return "wall"
}

// Barrier is a vertical or horizontal segment in mobility-scale coordinates
// between two endpoints.
type Barrier struct {
	Kind           BarrierKind
	X1, Y1, X2, Y2 int
}

// Edges expands the barrier's endpoint pair into the set of unit air-scale
// edges it covers. The barrier must be purely vertical (X1==X2) or purely
// horizontal (Y1==Y2); endpoints are assumed to already be in air-scale
// coordinates (the caller is responsible for the mobility->air conversion).
func (b Barrier) Edges() []Edge {
	if b.X1 != b.X2 && b.Y1 != b.Y2 {
		panic("grid: barrier must be vertical or horizontal")
	}
	var edges []Edge
	if b.X1 == b.X2 { // vertical
		y1, y2 := b.Y1, b.Y2
		if y1 > y2 {
			y1, y2 = y2, y1
		}
		for y := y1; y < y2; y++ {
			edges = append(edges, NewEdge(b.X1-1, y, b.X1, y))
		}
	} else { // horizontal
		x1, x2 := b.X1, b.X2
		if x1 > x2 {
			x1, x2 = x2, x1
		}
		for x := x1; x < x2; x++ {
			edges = append(edges, NewEdge(x, b.Y1-1, x, b.Y1))
		}
	}
	return edges
}

// Void marks an air-scale cell as outside the fluid domain.
type Void struct {
	X, Y int
}

// Facing is a cardinal direction, shared by the air grid's directional
// emission and the environment's agent orientation so neither package needs
// to import the other.
type Facing uint8

const (
	North Facing = iota
	South
	East
	West
)

// String renders the facing using the reference model's single-letter wire
// code, so a round trip through JSON matches datasets produced by the
// reference implementation.
func (f Facing) String() string {
	switch f {
	case North:
		return "N"
	case South:
		return "S"
	case East:
		return "E"
	case West:
		return "W"
	default:
		return "N"
	}
}

// ParseFacing parses a facing from its single-letter wire code (N/S/E/W).
func ParseFacing(s string) (Facing, error) {
	switch s {
	case "N":
		return North, nil
	case "S":
		return South, nil
	case "E":
		return East, nil
	case "W":
		return West, nil
	default:
		return 0, fmt.Errorf("grid: unknown facing %q", s)
	}
}
