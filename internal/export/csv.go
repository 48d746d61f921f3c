// Package export writes processed transactions to CSV for spreadsheet use.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/TKcodes-bit/Momo-app-code-bit/internal/logging"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/models"

	"github.com/gocarina/gocsv"
)

// Exporter writes transaction lists to CSV with a configurable delimiter.
type Exporter struct {
	logger    logging.Logger
	delimiter rune
}

// New creates an Exporter. An empty delimiter string defaults to a comma.
func New(delimiter string, logger logging.Logger) *Exporter {
	if logger == nil {
		logger = logging.NewMockLogger()
	}
	delim := ','
	if delimiter != "" {
		delim = []rune(delimiter)[0]
	}
	return &Exporter{logger: logger, delimiter: delim}
}

// WriteCSV writes the transactions to a CSV file, creating the target
// directory when needed.
func (e *Exporter) WriteCSV(transactions []models.TransactionRecord, csvFile string) error {
	if transactions == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}

	e.logger.WithFields(
		logging.F("file", csvFile),
		logging.F("count", len(transactions)),
	).Info("Writing transactions to CSV file")

	if err := os.MkdirAll(filepath.Dir(csvFile), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			e.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = e.delimiter

	if err := gocsv.MarshalCSV(transactions, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	e.logger.WithField("file", csvFile).Info("Successfully wrote transactions to CSV file")
	return nil
}

// ExportJSONToCSV reads a processed transactions JSON file and writes it out
// as CSV.
func (e *Exporter) ExportJSONToCSV(jsonFile, csvFile string) error {
	data, err := os.ReadFile(jsonFile)
	if err != nil {
		return fmt.Errorf("error reading transactions file: %w", err)
	}

	var transactions []models.TransactionRecord
	if err := json.Unmarshal(data, &transactions); err != nil {
		return fmt.Errorf("error parsing transactions file %s: %w", jsonFile, err)
	}
	if transactions == nil {
		transactions = []models.TransactionRecord{}
	}

	return e.WriteCSV(transactions, csvFile)
}
