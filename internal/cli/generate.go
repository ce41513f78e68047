package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lutforge/lutforge/pkg/colorimetry"
	"github.com/lutforge/lutforge/pkg/pipeline"
)

// cliSizes are the resolutions offered on the command line. The library
// accepts anything in range; these are the sizes grading tools expect.
var cliSizes = []int{17, 33, 65, 129}

// generateCommand creates the generate command for synthesizing
// conversion LUTs.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		source     string
		target     string
		size       int
		adaptation string
		output     string
		targetsStr string
		all        bool
		noCache    bool
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a log-to-log conversion LUT",
		Long: `Generate a 3D LUT converting between two camera log formats. The
conversion decodes the source curve to scene-linear, converts between the
native gamuts, and re-encodes with the target curve.

With --all (or --targets) one source is converted to many targets in a
single run, writing each LUT into the output directory.

Results are cached locally; identical parameters return instantly.`,
		Example: `  lutforge generate -s LogC4 -t S-Log3
  lutforge generate -s S-Log3 -t "DaVinci Intermediate" --size 33 -o dailies/
  lutforge generate -s V-Log --all -o conversions/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validSize(size) {
				return fmt.Errorf("unsupported size %d (choose one of %s)", size, sizeChoices())
			}

			opts := pipeline.Options{
				Source:     source,
				Target:     target,
				Size:       size,
				Adaptation: colorimetry.Adaptation(adaptation),
				Refresh:    refresh,
				Logger:     c.Logger,
			}

			if all || targetsStr != "" {
				targets := strings.Split(targetsStr, ",")
				if all {
					targets = colorimetry.Keys()
				}
				return c.runGenerateMany(cmd.Context(), opts, targets, output, noCache)
			}

			if target == "" {
				return fmt.Errorf("--target is required (or use --all)")
			}
			return c.runGenerate(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "source log format (see 'lutforge formats')")
	cmd.Flags().StringVarP(&target, "target", "t", "", "target log format")
	cmd.Flags().IntVar(&size, "size", defaultSize(c.Config.Size), "LUT resolution per axis: "+sizeChoices())
	cmd.Flags().StringVar(&adaptation, "cat", c.Config.Adaptation, "chromatic adaptation: cat02 (default), bradford, vonkries, xyzscaling")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file or directory")
	cmd.Flags().StringVar(&targetsStr, "targets", "", "comma-separated target formats")
	cmd.Flags().BoolVar(&all, "all", false, "generate conversions to every other format")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "regenerate even when cached")

	_ = cmd.MarkFlagRequired("source")

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Generating %s %s %s...", opts.Source, iconArrow, opts.Target))
	spinner.Start()

	path, report, err := runner.GenerateFile(ctx, opts, output)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	printSuccess("Generated %s %s %s", opts.Source, iconArrow, opts.Target)
	printFile(path)
	printStats(opts.Size, report.Stats, report.CacheHit)
	if report.Stats.Clipped() {
		printWarning("Some source values fall outside the target's range and were clamped")
	}
	return nil
}

func (c *CLI) runGenerateMany(ctx context.Context, opts pipeline.Options, targets []string, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	results, err := runner.GenerateMany(ctx, opts, targets, output)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			printError("%s: %v", res.Target, res.Err)
			continue
		}
		printSuccess("%s %s %s", opts.Source, iconArrow, res.Target)
		printFile(res.Path)
	}

	printNewline()
	switch {
	case failed == 0:
		printSuccess("Generated %d conversion LUTs", len(results))
	case failed == len(results):
		return fmt.Errorf("all %d generations failed", failed)
	default:
		printWarning("Generated %d conversion LUTs, %d failed", len(results)-failed, failed)
	}
	return nil
}

func validSize(size int) bool {
	for _, s := range cliSizes {
		if s == size {
			return true
		}
	}
	return false
}

func sizeChoices() string {
	parts := make([]string, len(cliSizes))
	for i, s := range cliSizes {
		parts[i] = fmt.Sprintf("%d", s)
	}
	return strings.Join(parts, ", ")
}

// defaultSize picks the flag default: the config value if it is one of
// the offered sizes, the pipeline default otherwise.
func defaultSize(configured int) int {
	if validSize(configured) {
		return configured
	}
	return pipeline.DefaultSize
}
