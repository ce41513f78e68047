package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lutforge/lutforge/pkg/batch"
)

// combineCommand creates the combine command for concatenating LUTs.
func (c *CLI) combineCommand() *cobra.Command {
	var (
		output  string
		workers int
		plain   bool
	)

	cmd := &cobra.Command{
		Use:   "combine <first> <second>",
		Short: "Concatenate two LUTs into one",
		Long: `Concatenate two .cube LUTs into a single LUT that applies the first,
then the second. The combined LUT keeps the first input's resolution.

Either input (but not both) may be a directory, in which case every .cube
file in it is combined against the other input and the output must be a
directory. A malformed LUT fails only its own pairing; the rest of the
batch continues.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCombine(cmd.Context(), args[0], args[1], output, workers, plain)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, or directory for batch runs")
	cmd.Flags().IntVar(&workers, "workers", c.Config.Workers, "max concurrent combines (0 = one per CPU)")
	cmd.Flags().BoolVar(&plain, "plain", false, "line-based output instead of the live progress view")

	return cmd
}

func (c *CLI) runCombine(ctx context.Context, first, second, output string, workers int, plain bool) error {
	items, err := batch.Resolve(first, second, output)
	if err != nil {
		return err
	}

	o := &batch.Orchestrator{Workers: workers, Logger: c.Logger}

	var run *batch.Run
	switch {
	case len(items) == 1:
		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Combining %s...", items[0].Name))
		spinner.Start()
		run, err = o.Run(ctx, items)
		if err != nil {
			spinner.StopWithError("Combine failed")
			return err
		}
		spinner.Stop()
	case plain:
		o.OnResult = printBatchResult
		run, err = o.Run(ctx, items)
		if err != nil {
			return err
		}
	default:
		run, err = runBatchTUI(ctx, o, items)
		if err != nil {
			return err
		}
	}

	return summarizeRun(run)
}

// printBatchResult is the plain-mode per-item line.
func printBatchResult(res batch.Result) {
	if res.Status == batch.StatusError {
		printError("%s: %s", res.Name, res.Message)
		return
	}
	printSuccess("%s", res.Name)
	printFile(res.OutputPath)
}

// summarizeRun prints the batch outcome and fails the command when every
// item failed.
func summarizeRun(run *batch.Run) error {
	failed := run.Failed()
	succeeded := len(run.Results) - failed

	switch {
	case len(run.Results) == 1:
		res := run.Results[0]
		if res.Status == batch.StatusError {
			return res.Err()
		}
		printSuccess("Combined %s", res.Name)
		printFile(res.OutputPath)
		if res.ClippedRatio > 0 {
			printWarning("%.2f%% of output values fall outside [0,1]", res.ClippedRatio*100)
		}
	case failed == 0:
		printSuccess("Combined %d LUT pairs", succeeded)
	case succeeded == 0:
		return fmt.Errorf("all %d combines failed", failed)
	default:
		printWarning("Combined %d LUT pairs, %d failed", succeeded, failed)
	}
	return nil
}
