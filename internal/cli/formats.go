package cli

import (
	"encoding/json"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/lutforge/lutforge/pkg/colorimetry"
)

// formatsCommand creates the formats command listing supported log
// formats.
func (c *CLI) formatsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List supported camera log formats",
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				return printFormatsJSON()
			}
			printFormatsTable()
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "machine-readable output")

	return cmd
}

func printFormatsTable() {
	rows := [][]string{}
	for _, f := range colorimetry.Formats() {
		rows = append(rows, []string{f.Key, f.FullName, f.Space.Name})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Format", "Description", "Gamut").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle()
		})

	os.Stdout.WriteString(t.Render() + "\n")
	printNextStep("Generate a conversion", "lutforge generate -s <source> -t <target>")
}

func printFormatsJSON() error {
	type entry struct {
		Key      string `json:"key"`
		FullName string `json:"full_name"`
		Gamut    string `json:"gamut"`
	}
	out := []entry{}
	for _, f := range colorimetry.Formats() {
		out = append(out, entry{Key: f.Key, FullName: f.FullName, Gamut: f.Space.Name})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
