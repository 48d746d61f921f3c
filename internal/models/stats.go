package models

// BatchStats summarizes the categorization outcome of one batch run.
// It is derived from the output records at batch end, never stored per record.
type BatchStats struct {
	TotalTransactions    int            `json:"total_transactions"`
	CategoryDistribution map[string]int `json:"category_distribution"`
	AverageConfidence    float64        `json:"average_confidence"`
	MethodDistribution   map[string]int `json:"method_distribution"`
	HighConfidenceCount  int            `json:"high_confidence_count"`
	LowConfidenceCount   int            `json:"low_confidence_count"`
}

// Confidence bands for the high/low counters.
const (
	HighConfidenceThreshold = 0.7
	LowConfidenceThreshold  = 0.3
)

// ComputeBatchStats derives batch statistics from a slice of categorized
// records. Records with an unknown category id are counted under the default
// category's name so the distribution always sums to the total.
func ComputeBatchStats(records []TransactionRecord) BatchStats {
	stats := BatchStats{
		TotalTransactions:    len(records),
		CategoryDistribution: make(map[string]int),
		MethodDistribution:   make(map[string]int),
	}

	var confidenceSum float64
	for _, rec := range records {
		name := CategoryName(rec.CategoryID)
		if name == "" {
			name = CategoryName(DefaultCategoryID)
		}
		stats.CategoryDistribution[name]++

		method := rec.CategorizationMethod
		if method == "" {
			method = "unknown"
		}
		stats.MethodDistribution[method]++

		confidenceSum += rec.CategorizationConfidence
		if rec.CategorizationConfidence >= HighConfidenceThreshold {
			stats.HighConfidenceCount++
		}
		if rec.CategorizationConfidence < LowConfidenceThreshold {
			stats.LowConfidenceCount++
		}
	}

	if len(records) > 0 {
		stats.AverageConfidence = confidenceSum / float64(len(records))
	}
	return stats
}
