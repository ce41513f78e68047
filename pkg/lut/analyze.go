package lut

import "math"

// Stats summarizes the value range of a grid's table.
type Stats struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`

	// ClippedRatio is the fraction of scalar components (not triples)
	// strictly outside [0,1]. NaN components count as clipped since
	// sanitization will rewrite them.
	ClippedRatio float64 `json:"clipped_ratio"`
}

// Clipped reports whether any component fell outside the unit range.
func (s Stats) Clipped() bool {
	return s.ClippedRatio > 0
}

// Analyze scans the whole table once and returns range statistics.
// Read-only; O(N³).
func Analyze(g *Grid) Stats {
	min := math.Inf(1)
	max := math.Inf(-1)
	clipped := 0

	for _, v := range g.Table {
		for c := 0; c < 3; c++ {
			x := v[c]
			if math.IsNaN(x) {
				clipped++
				continue
			}
			if x < min {
				min = x
			}
			if x > max {
				max = x
			}
			if x < 0 || x > 1 {
				clipped++
			}
		}
	}

	total := len(g.Table) * 3
	if total == 0 {
		return Stats{}
	}
	return Stats{
		Min:          min,
		Max:          max,
		ClippedRatio: float64(clipped) / float64(total),
	}
}
