// Package lut implements dense 3D color lookup tables with trilinear
// sampling, composition, and resampling.
//
// A Grid maps an input RGB triple in the unit cube to an output RGB triple
// by interpolating a cubic lattice of sampled values. Values outside [0,1]
// are legal (out-of-gamut or super-white signal) until an explicit
// Sanitize call.
//
// # Table layout
//
// The table is stored in .cube file line order: the red axis varies
// fastest, then green, then blue. Index (r,g,b) lives at
//
//	table[(b*N+g)*N + r]
//
// Lattice point (r,g,b) represents the untransformed input
// (r/(N-1), g/(N-1), b/(N-1)).
package lut

import (
	"fmt"
	"math"
)

// Vec3 is an RGB triple.
type Vec3 [3]float64

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Grid is a dense 3D lookup table: Size lattice points per axis over the
// unit cube, Size³ output samples. Name is a provenance label carried into
// the .cube TITLE and derived output names; it has no effect on sampling.
type Grid struct {
	Size  int
	Table []Vec3
	Name  string
}

// New allocates a zero-valued grid of the given resolution.
// It panics if size < 2; callers validating user input should check first.
func New(size int, name string) *Grid {
	if size < 2 {
		panic(fmt.Sprintf("lut: grid size %d out of range", size))
	}
	return &Grid{
		Size:  size,
		Table: make([]Vec3, size*size*size),
		Name:  name,
	}
}

// NewIdentity allocates a grid whose every lattice point maps to its own
// coordinate. Composing with an identity grid is a no-op up to
// interpolation error.
func NewIdentity(size int, name string) *Grid {
	g := New(size, name)
	step := 1.0 / float64(size-1)
	i := 0
	for b := 0; b < size; b++ {
		for gr := 0; gr < size; gr++ {
			for r := 0; r < size; r++ {
				g.Table[i] = Vec3{float64(r) * step, float64(gr) * step, float64(b) * step}
				i++
			}
		}
	}
	return g
}

// Index returns the table offset of lattice point (r,g,b).
func (g *Grid) Index(r, gr, b int) int {
	return (b*g.Size+gr)*g.Size + r
}

// At returns the stored sample at lattice point (r,g,b).
func (g *Grid) At(r, gr, b int) Vec3 {
	return g.Table[g.Index(r, gr, b)]
}

// Validate checks the size/table-length invariant.
func (g *Grid) Validate() error {
	if g.Size < 2 {
		return fmt.Errorf("lut: grid size %d out of range", g.Size)
	}
	if want := g.Size * g.Size * g.Size; len(g.Table) != want {
		return fmt.Errorf("lut: table has %d entries, want %d for size %d", len(g.Table), want, g.Size)
	}
	return nil
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	table := make([]Vec3, len(g.Table))
	copy(table, g.Table)
	return &Grid{Size: g.Size, Table: table, Name: g.Name}
}

// Sample evaluates the grid at an arbitrary point by trilinear
// interpolation over the 8 surrounding lattice samples. Point components
// are clamped to [0,1] first; there is no extrapolation. The result is
// exact when the point coincides with a lattice coordinate and continuous
// (C⁰) everywhere else.
func (g *Grid) Sample(p Vec3) Vec3 {
	n := g.Size
	scale := float64(n - 1)

	ur := clamp01(p[0]) * scale
	ug := clamp01(p[1]) * scale
	ub := clamp01(p[2]) * scale

	r0 := int(math.Floor(ur))
	g0 := int(math.Floor(ug))
	b0 := int(math.Floor(ub))

	// Upper indices clamp at the edge so the last cell never reads out of
	// bounds; the fractional weight there is 0 or the query was exactly 1.0.
	r1 := minInt(r0+1, n-1)
	g1 := minInt(g0+1, n-1)
	b1 := minInt(b0+1, n-1)

	fr := ur - float64(r0)
	fg := ug - float64(g0)
	fb := ub - float64(b0)

	c000 := g.At(r0, g0, b0)
	c100 := g.At(r1, g0, b0)
	c010 := g.At(r0, g1, b0)
	c110 := g.At(r1, g1, b0)
	c001 := g.At(r0, g0, b1)
	c101 := g.At(r1, g0, b1)
	c011 := g.At(r0, g1, b1)
	c111 := g.At(r1, g1, b1)

	var out Vec3
	for c := 0; c < 3; c++ {
		// Lerp along red, then green, then blue.
		x00 := c000[c] + (c100[c]-c000[c])*fr
		x10 := c010[c] + (c110[c]-c010[c])*fr
		x01 := c001[c] + (c101[c]-c001[c])*fr
		x11 := c011[c] + (c111[c]-c011[c])*fr

		y0 := x00 + (x10-x00)*fg
		y1 := x01 + (x11-x01)*fg

		out[c] = y0 + (y1-y0)*fb
	}
	return out
}

// SampleBatch evaluates the grid at every point, order-preserving.
// Each evaluation is independent and read-only over the table.
func (g *Grid) SampleBatch(points []Vec3) []Vec3 {
	out := make([]Vec3, len(points))
	for i, p := range points {
		out[i] = g.Sample(p)
	}
	return out
}

// Expand1D turns a per-channel curve (a LUT_1D_SIZE table) into an
// equivalent 3D grid of the same resolution: the curve is replicated
// across the other two axes so that
//
//	table[r,g,b] = (curve[r].R, curve[g].G, curve[b].B)
//
// which preserves the channel-independence of the original transform.
func Expand1D(curve []Vec3, name string) (*Grid, error) {
	n := len(curve)
	if n < 2 {
		return nil, fmt.Errorf("lut: 1D curve has %d entries, need at least 2", n)
	}
	g := New(n, name)
	i := 0
	for b := 0; b < n; b++ {
		for gr := 0; gr < n; gr++ {
			for r := 0; r < n; r++ {
				g.Table[i] = Vec3{curve[r][0], curve[gr][1], curve[b][2]}
				i++
			}
		}
	}
	return g, nil
}

func clamp01(v float64) float64 {
	// NaN fails every comparison below and would flow into index math as
	// a huge negative value; pin it to the lower bound instead.
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
