package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lutforge/lutforge/pkg/cube"
	"github.com/lutforge/lutforge/pkg/lut"
)

// resizeCommand creates the resize command for resampling a LUT.
func (c *CLI) resizeCommand() *cobra.Command {
	var (
		size   int
		output string
	)

	cmd := &cobra.Command{
		Use:   "resize <input.cube>",
		Short: "Resample a LUT to a new resolution",
		Long: `Resample a .cube LUT to a new lattice resolution by trilinear
interpolation. Upsampling preserves the transform closely; downsampling
loses detail between the original lattice points.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResize(args[0], size, output)
		},
	}

	cmd.Flags().IntVar(&size, "size", 0, "new resolution per axis (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>_<size>.cube)")
	_ = cmd.MarkFlagRequired("size")

	return cmd
}

func (c *CLI) runResize(input string, size int, output string) error {
	grid, err := cube.ReadFile(input)
	if err != nil {
		return err
	}

	resized, err := lut.Resize(grid, size)
	if err != nil {
		return err
	}

	if output == "" {
		base := strings.TrimSuffix(input, cube.Extension)
		output = fmt.Sprintf("%s_%d%s", base, size, cube.Extension)
	}
	if err := cube.WriteFile(output, resized); err != nil {
		return err
	}

	printSuccess("Resampled %s from %d³ to %d³", grid.Name, grid.Size, size)
	printFile(output)
	return nil
}
