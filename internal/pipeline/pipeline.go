// Package pipeline sequences discovery, normalization and categorization over
// a batch of records. Per-record failures are isolated; only an unparsable
// source document aborts a run.
package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/TKcodes-bit/Momo-app-code-bit/internal/categorizer"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/config"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/etlerror"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/logging"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/models"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/normalizer"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/smsparser"

	"github.com/google/uuid"
)

// RunStats is the per-run processing summary written alongside the output.
type RunStats struct {
	RunID          string            `json:"run_id"`
	StartTime      string            `json:"start_time"`
	EndTime        string            `json:"end_time"`
	TotalProcessed int               `json:"total_processed"`
	Successful     int               `json:"successful"`
	Failed         int               `json:"failed"`
	Errors         []string          `json:"errors"`
	Batch          models.BatchStats `json:"batch"`
}

// Result carries everything a run produced: the ordered record list, the
// per-run summary and the typed per-record errors.
type Result struct {
	Transactions []models.TransactionRecord
	Stats        RunStats
	Errors       []*etlerror.RecordError
}

// Pipeline owns the three processing stages and the statistics accumulators.
type Pipeline struct {
	logger           logging.Logger
	parser           *smsparser.Parser
	normalizer       *normalizer.Normalizer
	categorizer      *categorizer.Categorizer
	progressInterval int

	now func() time.Time
}

// New wires up the pipeline stages from the configuration.
func New(cfg *config.Config, logger logging.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = logging.NewMockLogger()
	}

	cat, err := categorizer.New(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		logger:           logger,
		parser:           smsparser.New(logger),
		normalizer:       normalizer.New(cfg, logger),
		categorizer:      cat,
		progressInterval: cfg.Pipeline.ProgressInterval,
		now:              time.Now,
	}, nil
}

// ProcessFile runs the full pipeline over an XML file. A document that cannot
// be parsed at all is a fatal error; everything after discovery degrades
// per record.
func (p *Pipeline) ProcessFile(xmlFile string) (*Result, error) {
	raws, err := p.parser.ParseFile(xmlFile)
	if err != nil {
		return nil, err
	}
	return p.ProcessRecords(raws), nil
}

// ProcessRecords normalizes and categorizes raw records in input order. The
// output always holds one record per input; failed records carry their
// stage's fallback values and an entry in the error list.
func (p *Pipeline) ProcessRecords(raws []models.RawRecord) *Result {
	result := &Result{
		Transactions: make([]models.TransactionRecord, 0, len(raws)),
		Stats: RunStats{
			RunID:          uuid.NewString(),
			StartTime:      p.now().Format(models.TimestampLayout),
			TotalProcessed: len(raws),
			Errors:         []string{},
		},
	}

	p.logger.WithFields(
		logging.F("run_id", result.Stats.RunID),
		logging.F("records", len(raws)),
	).Info("Starting transaction processing")

	seen := make(map[string]struct{}, len(raws))
	seq := 1

	for i, raw := range raws {
		record, err := p.normalizeRecord(i, raw)
		if err != nil {
			p.logger.WithError(err).WithField("index", i).Warn("Record failed normalization")
			result.Errors = append(result.Errors, err)
			result.Stats.Errors = append(result.Stats.Errors, err.Error())
			result.Stats.Failed++
		}

		if _, dup := seen[record.ID]; dup {
			fresh := nextFreeID(seen, &seq)
			p.logger.WithFields(
				logging.F("id", record.ID),
				logging.F("assigned", fresh),
			).Debug("Duplicate transaction id reassigned")
			record.ID = fresh
		}
		seen[record.ID] = struct{}{}

		record = p.categorizer.Categorize(record)
		result.Transactions = append(result.Transactions, record)

		if (i+1)%p.progressInterval == 0 {
			p.logger.WithFields(
				logging.F("processed", i+1),
				logging.F("total", len(raws)),
			).Info("Processing progress")
		}
	}

	result.Stats.Successful = len(raws) - result.Stats.Failed
	result.Stats.EndTime = p.now().Format(models.TimestampLayout)
	result.Stats.Batch = models.ComputeBatchStats(result.Transactions)

	p.logger.WithFields(
		logging.F("run_id", result.Stats.RunID),
		logging.F("successful", result.Stats.Successful),
		logging.F("failed", result.Stats.Failed),
	).Info("Transaction processing completed")

	return result
}

// normalizeRecord guards one record's normalization. A panic becomes a typed
// record error and the record degrades to the documented fallback values.
func (p *Pipeline) normalizeRecord(index int, raw models.RawRecord) (record models.TransactionRecord, err *etlerror.RecordError) {
	defer func() {
		if r := recover(); r != nil {
			err = &etlerror.RecordError{
				Index: index,
				Stage: etlerror.StageNormalization,
				Err:   fmt.Errorf("%v", r),
			}
			record = p.fallbackRecord()
		}
	}()

	record, _ = p.normalizer.Normalize(raw)
	return record, nil
}

// fallbackRecord is the shape emitted for a record whose normalization failed
// entirely.
func (p *Pipeline) fallbackRecord() models.TransactionRecord {
	now := p.now().Format(models.TimestampLayout)
	return models.TransactionRecord{
		ID:              fmt.Sprintf("%s%d", models.IDPrefix, p.now().UnixNano()),
		TransactionType: models.TypeUnknown,
		Sender:          models.PartyUnknown,
		Receiver:        models.PartyUnknown,
		Timestamp:       now,
		Validation: models.ValidationReport{
			IsValid:   false,
			CleanedAt: now,
			Issues: []string{
				models.IssueInvalidAmount,
				models.IssueUnknownSender,
				models.IssueUnknownReceiver,
				models.IssueUnknownType,
			},
		},
	}
}

func nextFreeID(seen map[string]struct{}, seq *int) string {
	for {
		candidate := fmt.Sprintf("%s%06d", models.IDPrefix, *seq)
		*seq++
		if _, taken := seen[candidate]; !taken {
			return candidate
		}
	}
}

// WriteOutput persists the processed records as indented JSON, creating the
// target directory when needed.
func (p *Pipeline) WriteOutput(result *Result, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(result.Transactions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode transactions: %w", err)
	}

	if err := os.WriteFile(path, data, models.PermissionDataFile); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	p.logger.WithFields(
		logging.F("file", path),
		logging.F("count", len(result.Transactions)),
	).Info("Wrote transactions")
	return nil
}

// WriteStats persists the run summary into the stats directory, one file per
// run keyed by start time.
func (p *Pipeline) WriteStats(result *Result, dir string) error {
	if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
		return fmt.Errorf("failed to create stats directory: %w", err)
	}

	data, err := json.MarshalIndent(result.Stats, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode run stats: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("etl_stats_%s.json", p.now().Format("20060102_150405")))
	if err := os.WriteFile(path, data, models.PermissionDataFile); err != nil {
		return fmt.Errorf("failed to write stats file: %w", err)
	}

	p.logger.WithField("file", path).Info("Wrote run statistics")
	return nil
}
