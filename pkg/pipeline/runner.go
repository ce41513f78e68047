package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lutforge/lutforge/pkg/cache"
	"github.com/lutforge/lutforge/pkg/colorimetry"
	"github.com/lutforge/lutforge/pkg/cube"
	"github.com/lutforge/lutforge/pkg/errors"
	"github.com/lutforge/lutforge/pkg/lut"
)

// Report summarizes what a generation run produced. Stats describe the
// raw synthesized table before sanitization, so ClippedRatio reflects
// what sanitization clamped away.
type Report struct {
	Stats     lut.Stats     `json:"stats"`
	Sanitized int           `json:"sanitized"`
	CacheHit  bool          `json:"cache_hit"`
	Duration  time.Duration `json:"duration"`
}

// Runner executes generation runs with caching.
type Runner struct {
	cache  cache.Cache
	keyer  cache.Keyer
	logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses the default key layout, a nil logger uses the package default.
func NewRunner(c cache.Cache, k cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if k == nil {
		k = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{cache: c, keyer: k, logger: logger}
}

// cacheEnvelope is the cached payload: the serialized LUT plus the
// analysis that would otherwise be lost on a cache hit.
type cacheEnvelope struct {
	Stats     lut.Stats `json:"stats"`
	Sanitized int       `json:"sanitized"`
	Cube      []byte    `json:"cube"`
}

// Generate synthesizes (or retrieves from cache) the conversion LUT for
// the given options. The returned grid is sanitized into unit range.
func (r *Runner) Generate(ctx context.Context, opts Options) (*lut.Grid, *Report, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}

	source, err := colorimetry.Lookup(opts.Source)
	if err != nil {
		return nil, nil, err
	}
	target, err := colorimetry.Lookup(opts.Target)
	if err != nil {
		return nil, nil, err
	}
	method, err := colorimetry.ParseAdaptation(string(opts.Adaptation))
	if err != nil {
		return nil, nil, err
	}
	opts.Adaptation = method

	start := time.Now()
	key := r.keyer.GenerationKey(source.Key, target.Key, opts.Size, string(opts.Adaptation))

	if !opts.Refresh {
		if grid, report, ok := r.lookup(ctx, key); ok {
			report.Duration = time.Since(start)
			opts.Logger.Info("cache hit",
				"source", source.Key, "target", target.Key, "size", opts.Size)
			return grid, report, nil
		}
	}

	grid, err := Synthesize(ctx, source, target, opts.Size, opts.Adaptation)
	if err != nil {
		return nil, nil, err
	}

	stats := lut.Analyze(grid)
	sanitized := lut.Sanitize(grid)

	var buf bytes.Buffer
	if err := cube.Write(&buf, grid); err != nil {
		return nil, nil, err
	}
	r.store(ctx, key, cacheEnvelope{Stats: stats, Sanitized: sanitized, Cube: buf.Bytes()})

	report := &Report{Stats: stats, Sanitized: sanitized, Duration: time.Since(start)}
	opts.Logger.Info("generated LUT",
		"source", source.Key, "target", target.Key, "size", opts.Size,
		"adaptation", string(opts.Adaptation),
		"clipped", fmt.Sprintf("%.2f%%", stats.ClippedRatio*100),
		"duration", report.Duration.Round(time.Millisecond))
	return grid, report, nil
}

// lookup tries the cache. Cache failures degrade to a miss.
func (r *Runner) lookup(ctx context.Context, key string) (*lut.Grid, *Report, bool) {
	blob, hit, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn("cache read failed", "error", err)
		return nil, nil, false
	}
	if !hit {
		return nil, nil, false
	}

	var env cacheEnvelope
	if err := json.Unmarshal(blob, &env); err != nil {
		r.logger.Warn("discarding corrupt cache entry", "error", err)
		_ = r.cache.Delete(ctx, key)
		return nil, nil, false
	}
	grid, err := cube.Read(bytes.NewReader(env.Cube), "")
	if err != nil {
		r.logger.Warn("discarding corrupt cache entry", "error", err)
		_ = r.cache.Delete(ctx, key)
		return nil, nil, false
	}
	return grid, &Report{Stats: env.Stats, Sanitized: env.Sanitized, CacheHit: true}, true
}

// store writes to the cache. Failures are logged, never fatal.
func (r *Runner) store(ctx context.Context, key string, env cacheEnvelope) {
	blob, err := json.Marshal(env)
	if err != nil {
		r.logger.Warn("cache write failed", "error", err)
		return
	}
	if err := r.cache.Set(ctx, key, blob, cache.TTLGeneration); err != nil {
		r.logger.Warn("cache write failed", "error", err)
	}
}

// GenerateFile generates a LUT and writes it to output. An empty output
// or a directory derives the filename from the conversion and size,
// e.g. "LogC4_to_S-Log3_65.cube". Returns the path written.
func (r *Runner) GenerateFile(ctx context.Context, opts Options, output string) (string, *Report, error) {
	grid, report, err := r.Generate(ctx, opts)
	if err != nil {
		return "", nil, err
	}

	path, err := resolveOutputPath(output, grid.Name, opts.Size)
	if err != nil {
		return "", nil, err
	}
	if err := cube.WriteFile(path, grid); err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeIO, err, "writing %s", path)
	}
	return path, report, nil
}

// resolveOutputPath turns a user-supplied output target into a concrete
// file path, deriving the default filename when given a directory or
// nothing at all.
func resolveOutputPath(output, name string, size int) (string, error) {
	defaultFile := fmt.Sprintf("%s_%d%s", name, size, cube.Extension)

	switch {
	case output == "":
		return defaultFile, nil
	case strings.HasSuffix(output, string(filepath.Separator)):
		return filepath.Join(output, defaultFile), nil
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, defaultFile), nil
	}
	return output, nil
}

// TargetResult is the per-target outcome of GenerateMany.
type TargetResult struct {
	Target string
	Path   string
	Report *Report
	Err    error
}

// GenerateMany generates conversions from opts.Source to every listed
// target, writing each into outputDir. All target names are resolved
// upfront so one typo fails the run before any work happens. A target
// equal to the source is skipped. Individual generation failures are
// recorded and do not stop the remaining targets.
func (r *Runner) GenerateMany(ctx context.Context, opts Options, targets []string, outputDir string) ([]TargetResult, error) {
	source, err := colorimetry.Lookup(opts.Source)
	if err != nil {
		return nil, err
	}

	resolved := make([]*colorimetry.Format, 0, len(targets))
	for _, t := range targets {
		f, err := colorimetry.Lookup(t)
		if err != nil {
			return nil, err
		}
		if f.Key == source.Key {
			continue
		}
		resolved = append(resolved, f)
	}

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "creating %s", outputDir)
		}
	}

	results := make([]TargetResult, 0, len(resolved))
	for _, target := range resolved {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		itemOpts := opts
		itemOpts.Target = target.Key
		path, report, err := r.GenerateFile(ctx, itemOpts, ensureDirPath(outputDir))
		if err != nil {
			r.logger.Error("generation failed", "target", target.Key, "error", err)
			results = append(results, TargetResult{Target: target.Key, Err: err})
			continue
		}
		results = append(results, TargetResult{Target: target.Key, Path: path, Report: report})
	}
	return results, nil
}

// ensureDirPath marks dir as a directory target for resolveOutputPath
// even before the directory exists on disk.
func ensureDirPath(dir string) string {
	if dir == "" {
		return ""
	}
	if strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir
	}
	return dir + string(filepath.Separator)
}

// Close releases the runner's cache backend.
func (r *Runner) Close() error {
	return r.cache.Close()
}
