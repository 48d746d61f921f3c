// Package models provides the data structures used throughout the application.
package models

// RawRecord is the untyped field map produced by record discovery. Keys are
// XML attribute names or child element tags taken verbatim; a nil value means
// the source element was present but empty or self-closing. RawRecords are
// transient and discarded once a TransactionRecord has been built from them.
type RawRecord map[string]*string

// Get returns the value for a key, or "" when the key is absent or nil.
func (r RawRecord) Get(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	return *v
}

// First returns the first non-empty value among the given alias keys.
func (r RawRecord) First(keys ...string) string {
	for _, key := range keys {
		if v := r.Get(key); v != "" {
			return v
		}
	}
	return ""
}

// TransactionRecord is the durable, normalized unit flowing out of the
// pipeline. Field names and JSON tags are a stable contract for the API and
// persistence layers.
type TransactionRecord struct {
	ID              string  `json:"id" csv:"id"`
	TransactionType string  `json:"transaction_type" csv:"transaction_type"`
	Amount          float64 `json:"amount" csv:"amount"`
	Sender          string  `json:"sender" csv:"sender"`
	Receiver        string  `json:"receiver" csv:"receiver"`
	Timestamp       string  `json:"timestamp" csv:"timestamp"`
	Body            string  `json:"body,omitempty" csv:"body"`

	CategoryID               int     `json:"category_id" csv:"category_id"`
	CategoryName             string  `json:"category_name" csv:"category_name"`
	CategorizationConfidence float64 `json:"categorization_confidence" csv:"categorization_confidence"`
	CategorizationMethod     string  `json:"categorization_method" csv:"categorization_method"`

	// Optional enrichment, present only when extracted from the SMS body.
	MerchantName    string   `json:"merchant_name,omitempty" csv:"merchant_name"`
	ReferenceNumber string   `json:"reference_number,omitempty" csv:"reference_number"`
	Location        string   `json:"location,omitempty" csv:"location"`
	BalanceAfter    *float64 `json:"balance_after,omitempty" csv:"-"`
	Fee             *float64 `json:"fee,omitempty" csv:"-"`

	// Extra carries raw fields outside the canonical set. They pass through
	// unmodified and never overwrite canonical fields.
	Extra map[string]string `json:"extra,omitempty" csv:"-"`

	Validation ValidationReport `json:"_validation" csv:"-"`
}

// ValidationReport carries the advisory outcome of field normalization.
// Issues do not block a record from flowing through the pipeline.
type ValidationReport struct {
	IsValid   bool     `json:"is_valid"`
	CleanedAt string   `json:"cleaned_at"`
	Issues    []string `json:"issues,omitempty"`
}

// HasIssue reports whether the given issue text was recorded.
func (v ValidationReport) HasIssue(issue string) bool {
	for _, i := range v.Issues {
		if i == issue {
			return true
		}
	}
	return false
}
