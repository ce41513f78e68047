package pipeline

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/lutforge/lutforge/pkg/cache"
	"github.com/lutforge/lutforge/pkg/colorimetry"
	"github.com/lutforge/lutforge/pkg/errors"
	"github.com/lutforge/lutforge/pkg/lut"
)

func quietLogger() *log.Logger {
	l := log.New(os.Stderr)
	l.SetLevel(log.ErrorLevel)
	return l
}

func TestGenerateSameFormatIsIdentity(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	grid, report, err := r.Generate(context.Background(), Options{
		Source: "S-Log3",
		Target: "S-Log3",
		Size:   17,
		Logger: quietLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if grid.Size != 17 {
		t.Fatalf("Size = %d, want 17", grid.Size)
	}
	if report.CacheHit {
		t.Error("first run must not be a cache hit")
	}

	// Same curve and same gamut on both sides collapses to encode∘decode
	// through an identity matrix, which is the identity transform.
	identity := lut.NewIdentity(17, "")
	for i, got := range grid.Table {
		want := identity.Table[i]
		for c := 0; c < 3; c++ {
			if math.Abs(got[c]-want[c]) > 1e-6 {
				t.Fatalf("Table[%d][%d] = %g, want %g", i, c, got[c], want[c])
			}
		}
	}
}

func TestGenerateUnknownFormat(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	_, _, err := r.Generate(context.Background(), Options{
		Source: "S-Log3",
		Target: "Betamax-Log",
		Logger: quietLogger(),
	})
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if code := errors.GetCode(err); code != errors.ErrCodeUnknownFormat {
		t.Errorf("code = %s, want %s", code, errors.ErrCodeUnknownFormat)
	}
}

func TestGenerateInvalidSize(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	for _, size := range []int{1, -4, 300} {
		_, _, err := r.Generate(context.Background(), Options{
			Source: "S-Log3", Target: "LogC4", Size: size, Logger: quietLogger(),
		})
		if code := errors.GetCode(err); code != errors.ErrCodeInvalidSize {
			t.Errorf("size %d: code = %s, want %s", size, code, errors.ErrCodeInvalidSize)
		}
	}
}

func TestGenerateAcceptsLooseAdaptationSpelling(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	for _, name := range []string{"bradford", "CAT02", "xyzscaling", "von kries"} {
		_, _, err := r.Generate(context.Background(), Options{
			Source: "S-Log3", Target: "LogC4", Size: 5,
			Adaptation: colorimetry.Adaptation(name), Logger: quietLogger(),
		})
		if err != nil {
			t.Errorf("%q: %v", name, err)
		}
	}

	_, _, err := r.Generate(context.Background(), Options{
		Source: "S-Log3", Target: "LogC4", Size: 5,
		Adaptation: "sharpened", Logger: quietLogger(),
	})
	if code := errors.GetCode(err); code != errors.ErrCodeUnknownAdaptation {
		t.Errorf("code = %s, want %s", code, errors.ErrCodeUnknownAdaptation)
	}
}

func TestGenerateCacheRoundTrip(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, quietLogger())
	defer r.Close()

	opts := Options{Source: "LogC3", Target: "S-Log3", Size: 9, Logger: quietLogger()}

	first, firstReport, err := r.Generate(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if firstReport.CacheHit {
		t.Fatal("first run must miss")
	}

	second, secondReport, err := r.Generate(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !secondReport.CacheHit {
		t.Fatal("second run must hit the cache")
	}
	if secondReport.Stats != firstReport.Stats {
		t.Errorf("cached stats %+v differ from original %+v", secondReport.Stats, firstReport.Stats)
	}

	if second.Size != first.Size {
		t.Fatalf("cached Size = %d, want %d", second.Size, first.Size)
	}
	// Serialization quantizes to six decimals, so allow that much drift.
	for i := range first.Table {
		for c := 0; c < 3; c++ {
			if math.Abs(first.Table[i][c]-second.Table[i][c]) > 1e-6 {
				t.Fatalf("Table[%d][%d]: cached %g vs original %g",
					i, c, second.Table[i][c], first.Table[i][c])
			}
		}
	}
}

func TestGenerateRefreshBypassesCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, quietLogger())
	defer r.Close()

	opts := Options{Source: "V-Log", Target: "S-Log3", Size: 5, Logger: quietLogger()}
	if _, _, err := r.Generate(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	opts.Refresh = true
	_, report, err := r.Generate(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if report.CacheHit {
		t.Error("refresh run must not report a cache hit")
	}
}

func TestSynthesizeSanitizesHostileCurves(t *testing.T) {
	// A decode that pushes values negative feeds log10 NaNs into the
	// table; analysis must see them as clipped and sanitization must
	// scrub them.
	source := &colorimetry.Format{
		Key:    "hostile-src",
		Decode: func(x float64) float64 { return x - 0.5 },
		Encode: func(x float64) float64 { return x },
		Space:  colorimetry.SGamut3,
	}
	target := &colorimetry.Format{
		Key:    "hostile-dst",
		Decode: func(x float64) float64 { return x },
		Encode: math.Log10,
		Space:  colorimetry.SGamut3,
	}

	grid, err := Synthesize(context.Background(), source, target, 9, colorimetry.CAT02)
	if err != nil {
		t.Fatal(err)
	}

	stats := lut.Analyze(grid)
	if !stats.Clipped() {
		t.Error("raw grid with NaNs must report clipping")
	}

	lut.Sanitize(grid)
	for i, v := range grid.Table {
		for c := 0; c < 3; c++ {
			x := v[c]
			if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 || x > 1 {
				t.Fatalf("Table[%d][%d] = %g after sanitize", i, c, x)
			}
		}
	}
}

func TestGenerateFileDerivesName(t *testing.T) {
	dir := t.TempDir()
	r := NewRunner(nil, nil, quietLogger())

	path, _, err := r.GenerateFile(context.Background(), Options{
		Source: "LogC4", Target: "S-Log3", Size: 5, Logger: quietLogger(),
	}, dir)
	if err != nil {
		t.Fatal(err)
	}

	if got := filepath.Base(path); got != "LogC4_to_S-Log3_5.cube" {
		t.Errorf("derived filename = %q", got)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestGenerateManySkipsSourceAndSurvivesCancellation(t *testing.T) {
	dir := t.TempDir()
	r := NewRunner(nil, nil, quietLogger())

	results, err := r.GenerateMany(context.Background(), Options{
		Source: "S-Log3", Size: 5, Logger: quietLogger(),
	}, []string{"S-Log3", "LogC3", "V-Log"}, dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 (source target skipped)", len(results))
	}
	for _, res := range results {
		if res.Err != nil {
			t.Errorf("%s: %v", res.Target, res.Err)
		}
		if !strings.HasPrefix(filepath.Base(res.Path), "S-Log3_to_") {
			t.Errorf("%s: unexpected path %q", res.Target, res.Path)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.GenerateMany(ctx, Options{
		Source: "S-Log3", Size: 5, Logger: quietLogger(),
	}, []string{"LogC3"}, dir); err == nil {
		t.Error("cancelled context must abort the run")
	}
}

func TestGenerateManyUnknownTargetFailsFast(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	_, err := r.GenerateMany(context.Background(), Options{
		Source: "S-Log3", Size: 5, Logger: quietLogger(),
	}, []string{"LogC3", "nope"}, t.TempDir())
	if code := errors.GetCode(err); code != errors.ErrCodeUnknownFormat {
		t.Errorf("code = %s, want %s", code, errors.ErrCodeUnknownFormat)
	}
}
