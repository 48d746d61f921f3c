// Package export contains the CSV export command.
package export

import (
	"strings"

	"github.com/TKcodes-bit/Momo-app-code-bit/cmd/root"
	csvexport "github.com/TKcodes-bit/Momo-app-code-bit/internal/export"

	"github.com/spf13/cobra"
)

// Cmd is the export command.
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export processed transactions to CSV",
	Long: `Export reads the processed transactions JSON file and writes it out as
CSV, using the configured delimiter.`,
	RunE: run,
}

func run(cmd *cobra.Command, args []string) error {
	cfg := root.Cfg

	input := root.SharedFlags.Input
	if input == "" {
		input = cfg.Data.JSONOutput
	}
	output := root.SharedFlags.Output
	if output == "" {
		output = strings.TrimSuffix(input, ".json") + ".csv"
	}

	exporter := csvexport.New(cfg.CSV.Delimiter, root.Logger())
	return exporter.ExportJSONToCSV(input, output)
}
