package lut

import "github.com/lutforge/lutforge/pkg/errors"

// Resize resamples a grid at a different resolution. Every lattice point
// of the new grid queries the original at its own normalized coordinate,
// so the result approximates the same continuous transform at the new
// density. Downsampling discards detail irrecoverably; upsampling only
// interpolates between existing samples.
func Resize(original *Grid, newSize int) (*Grid, error) {
	if newSize < 2 {
		return nil, errors.New(errors.ErrCodeInvalidSize, "grid size must be at least 2, got %d", newSize)
	}
	if err := original.Validate(); err != nil {
		return nil, err
	}
	if newSize == original.Size {
		return original.Clone(), nil
	}

	out := New(newSize, original.Name)
	step := 1.0 / float64(newSize-1)
	i := 0
	for b := 0; b < newSize; b++ {
		for g := 0; g < newSize; g++ {
			for r := 0; r < newSize; r++ {
				p := Vec3{float64(r) * step, float64(g) * step, float64(b) * step}
				out.Table[i] = original.Sample(p)
				i++
			}
		}
	}
	return out, nil
}
