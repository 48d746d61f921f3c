package pipeline

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/TKcodes-bit/Momo-app-code-bit/internal/config"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/etlerror"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/logging"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<smses count="3">
  <sms Id="TXN_000001" Type="RECEIVED" Amount="15,000 RWF" Sender="0788123456" Receiver="250789654321" Timestamp="2024-05-10T16:30:51"/>
  <sms Id="TXN_000002" Type="SENT" Amount="500" Sender="0788123456" Receiver="0788999999">
    <body>You have purchased airtime worth 500 RWF. Fee: 10 RWF</body>
  </sms>
  <sms Type="garbage" Amount="not a number" Sender="MTN" Timestamp="nonsense"/>
</smses>`

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Normalizer.CountryCode = "250"
	cfg.Normalizer.CurrencyCode = "RWF"
	cfg.Categorizer.AirtimeMaxAmount = 5000
	cfg.Categorizer.SchoolFeesMinAmount = 50000
	cfg.Pipeline.ProgressInterval = 1000
	return cfg
}

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := New(testConfig(), logging.NewMockLogger())
	require.NoError(t, err)
	p.now = func() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC) }
	return p
}

func writeTempXML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sms.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestProcessFile(t *testing.T) {
	p := newTestPipeline(t)

	result, err := p.ProcessFile(writeTempXML(t, sampleXML))
	require.NoError(t, err)
	require.Len(t, result.Transactions, 3)

	first := result.Transactions[0]
	assert.Equal(t, "TXN_000001", first.ID)
	assert.Equal(t, models.TypeReceive, first.TransactionType)
	assert.InDelta(t, 15000.0, first.Amount, 0.001)
	assert.Equal(t, "+250788123456", first.Sender)
	assert.True(t, first.Validation.IsValid)

	second := result.Transactions[1]
	assert.Equal(t, models.CategoryAirtime, second.CategoryID)
	assert.Equal(t, "transaction_type_AIRTIME", second.CategorizationMethod)
	require.NotNil(t, second.Fee)
	assert.InDelta(t, 10.0, *second.Fee, 0.001)

	// The malformed record still comes out, with fallback values and issues.
	third := result.Transactions[2]
	assert.Zero(t, third.Amount)
	assert.Equal(t, models.PartyUnknown, third.Sender)
	assert.False(t, third.Validation.IsValid)
	assert.True(t, models.ValidCategoryID(third.CategoryID))
}

func TestProcessFileUnparsableXML(t *testing.T) {
	p := newTestPipeline(t)

	_, err := p.ProcessFile(writeTempXML(t, "not xml at all <<<"))
	require.Error(t, err)

	var parseErr *etlerror.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestProcessFileMissing(t *testing.T) {
	p := newTestPipeline(t)

	_, err := p.ProcessFile(filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err)
}

func TestDuplicateIDsReassigned(t *testing.T) {
	p := newTestPipeline(t)

	id := "TXN_000042"
	raws := []models.RawRecord{
		{"Id": &id, "amount": strPtr("100")},
		{"Id": &id, "amount": strPtr("200")},
		{"Id": &id, "amount": strPtr("300")},
	}

	result := p.ProcessRecords(raws)
	require.Len(t, result.Transactions, 3)

	ids := make(map[string]bool)
	for _, tx := range result.Transactions {
		assert.False(t, ids[tx.ID], "duplicate id %s in output", tx.ID)
		ids[tx.ID] = true
	}
	assert.Equal(t, id, result.Transactions[0].ID)
}

func TestProcessRecordsEmpty(t *testing.T) {
	p := newTestPipeline(t)

	result := p.ProcessRecords(nil)

	assert.Empty(t, result.Transactions)
	assert.Zero(t, result.Stats.TotalProcessed)
	assert.Zero(t, result.Stats.Batch.AverageConfidence)
	assert.NotEmpty(t, result.Stats.RunID)
}

func TestBatchStatistics(t *testing.T) {
	p := newTestPipeline(t)

	result, err := p.ProcessFile(writeTempXML(t, sampleXML))
	require.NoError(t, err)

	stats := result.Stats.Batch
	assert.Equal(t, 3, stats.TotalTransactions)

	sum := 0
	for _, count := range stats.CategoryDistribution {
		sum += count
	}
	assert.Equal(t, 3, sum)

	sum = 0
	for _, count := range stats.MethodDistribution {
		sum += count
	}
	assert.Equal(t, 3, sum)

	assert.GreaterOrEqual(t, stats.AverageConfidence, 0.0)
	assert.LessOrEqual(t, stats.AverageConfidence, 1.0)
}

func TestWriteOutputAndStats(t *testing.T) {
	p := newTestPipeline(t)

	result, err := p.ProcessFile(writeTempXML(t, sampleXML))
	require.NoError(t, err)

	dir := t.TempDir()
	outPath := filepath.Join(dir, "out", "transactions.json")
	require.NoError(t, p.WriteOutput(result, outPath))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var decoded []models.TransactionRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, 3)

	statsDir := filepath.Join(dir, "processed")
	require.NoError(t, p.WriteStats(result, statsDir))

	entries, err := os.ReadDir(statsDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "etl_stats_")
}

func strPtr(s string) *string {
	return &s
}
