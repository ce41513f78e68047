package pipeline

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lutforge/lutforge/pkg/colorimetry"
	"github.com/lutforge/lutforge/pkg/lut"
)

// Synthesize evaluates the full conversion at every lattice point of a
// fresh identity grid: decode the source log signal to scene-linear,
// convert gamuts through the adaptation matrix, and re-encode with the
// target curve. The raw result may carry values outside [0,1] (or
// NaN/Inf from out-of-domain curve inputs); callers analyze and
// sanitize it.
func Synthesize(ctx context.Context, source, target *colorimetry.Format, size int, method colorimetry.Adaptation) (*lut.Grid, error) {
	// Derive the gamut conversion before allocating the table so bad
	// parameters fail fast.
	m, err := colorimetry.ConversionMatrix(source.Space, target.Space, method)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("%s_to_%s", source.FileSafeKey(), target.FileSafeKey())
	grid := lut.NewIdentity(size, name)

	decode := colorimetry.PerChannel(source.Decode)
	encode := colorimetry.PerChannel(target.Encode)

	// Blue planes are contiguous in the table, so sharding by the blue
	// index gives each worker one cache-friendly slice with no overlap.
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for b := 0; b < size; b++ {
		b := b
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			plane := grid.Table[b*size*size : (b+1)*size*size]
			for i, p := range plane {
				plane[i] = encode(m.MulVec(decode(p)))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return grid, nil
}
