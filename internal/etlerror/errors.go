// Package etlerror defines the typed errors produced by the ETL pipeline.
package etlerror

import "fmt"

// ParseError reports a fatal failure to parse the source XML document.
// It aborts the whole batch before any output is produced.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse XML file '%s': %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RecordError reports a recoverable per-record failure. The record is emitted
// with its stage's fallback values and the batch continues.
type RecordError struct {
	Index int
	Stage string
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %s failed: %v", e.Index, e.Stage, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Processing stages referenced by RecordError.
const (
	StageDiscovery      = "discovery"
	StageNormalization  = "normalization"
	StageCategorization = "categorization"
)

// FieldError reports a failure to coerce a single raw field value.
// Field errors degrade to documented defaults and become validation issues,
// never batch errors.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("failed to parse %s='%s': %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// CategorizationError reports a failure inside the categorizer. The record is
// assigned the error-fallback category and processing continues.
type CategorizationError struct {
	TransactionID string
	Err           error
}

func (e *CategorizationError) Error() string {
	return fmt.Sprintf("categorization failed for %s: %v", e.TransactionID, e.Err)
}

func (e *CategorizationError) Unwrap() error {
	return e.Err
}
