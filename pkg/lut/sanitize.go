package lut

import "math"

// Sanitize normalizes a grid's table into the unit range in place:
// NaN becomes 0, +Inf becomes 1, -Inf becomes 0, and every component is
// clamped to [0,1]. Downstream consumers expect LUT files in unit range,
// so this is deliberately lossy; run Analyze first when the magnitude of
// the clipping matters. Returns the number of components that changed.
// Sanitizing twice is a no-op.
func Sanitize(g *Grid) int {
	changed := 0
	for i := range g.Table {
		for c := 0; c < 3; c++ {
			x := g.Table[i][c]
			s := sanitizeComponent(x)
			if s != x {
				g.Table[i][c] = s
				changed++
			}
		}
	}
	return changed
}

func sanitizeComponent(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return 0
	case math.IsInf(x, 1):
		return 1
	case math.IsInf(x, -1):
		return 0
	case x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}
