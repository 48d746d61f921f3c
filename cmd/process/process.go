// Package process contains the ETL pipeline command.
package process

import (
	"fmt"

	"github.com/TKcodes-bit/Momo-app-code-bit/cmd/root"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/logging"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/pipeline"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/smsparser"

	"github.com/spf13/cobra"
)

var (
	dryRun         bool
	validateOnly   bool
	generateSample int
	sampleSeed     int64
)

// Cmd is the process command.
var Cmd = &cobra.Command{
	Use:   "process",
	Short: "Run the ETL pipeline over an SMS XML export",
	Long: `Process parses the SMS XML export, normalizes and categorizes every
transaction, and writes the result as JSON together with run statistics.`,
	RunE: run,
}

func init() {
	Cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Process without writing any output")
	Cmd.Flags().BoolVar(&validateOnly, "validate-only", false, "Only validate the input file format")
	Cmd.Flags().IntVar(&generateSample, "generate-sample", 0, "Write a synthetic sample XML with N records and exit")
	Cmd.Flags().Int64Var(&sampleSeed, "sample-seed", 42, "Seed for the sample generator")
}

func run(cmd *cobra.Command, args []string) error {
	logger := root.Logger()
	cfg := root.Cfg

	input := root.SharedFlags.Input
	if input == "" {
		input = cfg.Data.XMLInput
	}
	output := root.SharedFlags.Output
	if output == "" {
		output = cfg.Data.JSONOutput
	}

	if generateSample > 0 {
		if err := smsparser.WriteSampleXML(input, generateSample, sampleSeed); err != nil {
			return fmt.Errorf("failed to write sample XML: %w", err)
		}
		logger.WithFields(
			logging.F("file", input),
			logging.F("records", generateSample),
		).Info("Wrote sample XML")
		return nil
	}

	if validateOnly {
		parser := smsparser.New(logger)
		valid, err := parser.ValidateFormat(input)
		if err != nil {
			return err
		}
		if !valid {
			return fmt.Errorf("file %s is not a valid SMS XML export", input)
		}
		logger.WithField("file", input).Info("Input file is valid")
		return nil
	}

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}

	result, err := p.ProcessFile(input)
	if err != nil {
		return err
	}

	if dryRun {
		logger.WithField("count", len(result.Transactions)).Info("Dry run complete, no data written")
		return nil
	}

	if err := p.WriteOutput(result, output); err != nil {
		return err
	}
	if err := p.WriteStats(result, cfg.Data.StatsDir); err != nil {
		return err
	}

	logger.WithFields(
		logging.F("total", result.Stats.TotalProcessed),
		logging.F("successful", result.Stats.Successful),
		logging.F("failed", result.Stats.Failed),
		logging.F("average_confidence", result.Stats.Batch.AverageConfidence),
	).Info("ETL run complete")
	return nil
}
