package normalizer

import (
	"testing"
	"time"

	"github.com/TKcodes-bit/Momo-app-code-bit/internal/config"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/logging"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	cfg := &config.Config{}
	cfg.Normalizer.CountryCode = "250"
	cfg.Normalizer.CurrencyCode = "RWF"

	n := New(cfg, logging.NewMockLogger())
	n.now = func() time.Time { return fixedNow }
	return n
}

func strPtr(s string) *string {
	return &s
}

func TestNormalizePhone(t *testing.T) {
	n := newTestNormalizer(t)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already canonical", "+250788123456", "+250788123456"},
		{"country code without plus", "250788123456", "+250788123456"},
		{"leading zero local form", "0788123456", "+250788123456"},
		{"bare nine digits", "788123456", "+250788123456"},
		{"whitespace around number", "  0788123456 ", "+250788123456"},
		{"empty", "", models.PartyUnknown},
		{"unknown sentinel passthrough", "unknown", models.PartyUnknown},
		{"too short", "12345", models.PartyUnknown},
		{"too long", "+2507881234567", models.PartyUnknown},
		{"non numeric", "MTN Rwanda", models.PartyUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.normalizePhone(tt.input))
		})
	}
}

func TestExtractAmount(t *testing.T) {
	n := newTestNormalizer(t)

	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{"currency suffixed with grouping", "1,500 RWF", 1500},
		{"currency suffixed decimal", "1,234.56 RWF", 1234.56},
		{"bare numeric", "5000", 5000},
		{"currency prefixed", "RWF 2000", 2000},
		{"lowercase currency", "2500 rwf", 2500},
		{"embedded in text", "You received 10,000 RWF from Alice", 10000},
		{"no digits", "free airtime", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, n.extractAmount(tt.input), 0.001)
		})
	}
}

func TestNormalizeTimestamp(t *testing.T) {
	n := newTestNormalizer(t)
	nowFormatted := fixedNow.Format(models.TimestampLayout)

	t.Run("iso string", func(t *testing.T) {
		assert.Equal(t, "2024-05-10T16:30:51", n.normalizeTimestamp("2024-05-10T16:30:51"))
	})

	t.Run("iso string with zone", func(t *testing.T) {
		assert.Equal(t, "2024-05-10T16:30:51", n.normalizeTimestamp("2024-05-10T16:30:51Z"))
	})

	t.Run("date and time year first", func(t *testing.T) {
		assert.Equal(t, "2024-05-10T16:30:51", n.normalizeTimestamp("2024-05-10 16:30:51"))
	})

	t.Run("date and time day first slashes", func(t *testing.T) {
		assert.Equal(t, "2024-05-10T16:30:51", n.normalizeTimestamp("10/05/2024 16:30:51"))
	})

	t.Run("date and time day first dashes", func(t *testing.T) {
		assert.Equal(t, "2024-05-10T16:30:51", n.normalizeTimestamp("10-05-2024 16:30:51"))
	})

	t.Run("epoch milliseconds", func(t *testing.T) {
		got := n.normalizeTimestamp("1715351451000")
		parsed, err := time.ParseInLocation(models.TimestampLayout, got, time.Local)
		require.NoError(t, err)
		assert.Equal(t, int64(1715351451), parsed.Unix())
	})

	t.Run("epoch seconds", func(t *testing.T) {
		got := n.normalizeTimestamp("1715351451")
		parsed, err := time.ParseInLocation(models.TimestampLayout, got, time.Local)
		require.NoError(t, err)
		assert.Equal(t, int64(1715351451), parsed.Unix())
	})

	t.Run("unrecognized falls back to now", func(t *testing.T) {
		assert.Equal(t, nowFormatted, n.normalizeTimestamp("last Tuesday"))
	})

	t.Run("digits of odd length fall back to now", func(t *testing.T) {
		assert.Equal(t, nowFormatted, n.normalizeTimestamp("123456"))
	})

	t.Run("empty falls back to now", func(t *testing.T) {
		assert.Equal(t, nowFormatted, n.normalizeTimestamp(""))
	})
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1", models.TypeReceive},
		{"0", models.TypeSend},
		{"sent", models.TypeSend},
		{"RECEIVED", models.TypeReceive},
		{"transfer", models.TypeSend},
		{"PAYMENT", models.TypeSend},
		{"deposit", models.TypeReceive},
		{"WITHDRAWAL", models.TypeSend},
		{"", models.TypeUnknown},
		{"purchase", "PURCHASE"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeType(tt.input))
		})
	}
}

func TestNormalizeID(t *testing.T) {
	n := newTestNormalizer(t)

	assert.Equal(t, "TXN_12345", n.normalizeID("12345"))
	assert.Equal(t, "TXN_000009", n.normalizeID("TXN_000009"))
	assert.Equal(t, "TXN_1715342400", n.normalizeID(""))
	assert.Equal(t, "TXN_abc", n.normalizeID("  abc "))
}

func TestNormalizeCompleteRecord(t *testing.T) {
	n := newTestNormalizer(t)

	raw := models.RawRecord{
		"Id":        strPtr("000123"),
		"Type":      strPtr("RECEIVED"),
		"Amount":    strPtr("15,000 RWF"),
		"Sender":    strPtr("0788123456"),
		"Receiver":  strPtr("250789654321"),
		"Timestamp": strPtr("2024-05-10T16:30:51"),
		"Status":    strPtr("SUCCESS"),
	}

	record, report := n.Normalize(raw)

	assert.Equal(t, "TXN_000123", record.ID)
	assert.Equal(t, models.TypeReceive, record.TransactionType)
	assert.InDelta(t, 15000.0, record.Amount, 0.001)
	assert.Equal(t, "+250788123456", record.Sender)
	assert.Equal(t, "+250789654321", record.Receiver)
	assert.Equal(t, "2024-05-10T16:30:51", record.Timestamp)
	assert.Equal(t, map[string]string{"Status": "SUCCESS"}, record.Extra)

	assert.True(t, report.IsValid)
	assert.Empty(t, report.Issues)
	assert.Equal(t, fixedNow.Format(models.TimestampLayout), report.CleanedAt)
}

func TestNormalizeDegradedRecord(t *testing.T) {
	n := newTestNormalizer(t)

	record, report := n.Normalize(models.RawRecord{})

	assert.Equal(t, "TXN_1715342400", record.ID)
	assert.Equal(t, models.TypeUnknown, record.TransactionType)
	assert.Zero(t, record.Amount)
	assert.Equal(t, models.PartyUnknown, record.Sender)
	assert.Equal(t, models.PartyUnknown, record.Receiver)
	assert.Equal(t, fixedNow.Format(models.TimestampLayout), record.Timestamp)

	assert.False(t, report.IsValid)
	assert.True(t, report.HasIssue(models.IssueInvalidAmount))
	assert.True(t, report.HasIssue(models.IssueUnknownSender))
	assert.True(t, report.HasIssue(models.IssueUnknownReceiver))
	assert.True(t, report.HasIssue(models.IssueUnknownType))
}

func TestNormalizeAmountFromBody(t *testing.T) {
	n := newTestNormalizer(t)

	raw := models.RawRecord{
		"Id":     strPtr("42"),
		"Type":   strPtr("DEPOSIT"),
		"Sender": strPtr("0788123456"),
		"body":   strPtr("You received 5,000 RWF from Alice. Fee: 100 RWF. New balance: 25,000 RWF"),
	}

	record, _ := n.Normalize(raw)

	assert.InDelta(t, 5000.0, record.Amount, 0.001)
	require.NotNil(t, record.Fee)
	assert.InDelta(t, 100.0, *record.Fee, 0.001)
	require.NotNil(t, record.BalanceAfter)
	assert.InDelta(t, 25000.0, *record.BalanceAfter, 0.001)
}

func TestNormalizeStructuredAmountWinsOverBody(t *testing.T) {
	n := newTestNormalizer(t)

	raw := models.RawRecord{
		"Id":     strPtr("42"),
		"amount": strPtr("3000"),
		"body":   strPtr("You sent 9,999 RWF"),
	}

	record, _ := n.Normalize(raw)
	assert.InDelta(t, 3000.0, record.Amount, 0.001)
}

func TestNormalizeAliasPrecedence(t *testing.T) {
	n := newTestNormalizer(t)

	raw := models.RawRecord{
		"transaction_id": strPtr("777"),
		"Id":             strPtr("111"),
		"from":           strPtr("0788123456"),
		"sender":         strPtr("0789999999"),
	}

	record, _ := n.Normalize(raw)

	// Earlier aliases win regardless of map order.
	assert.Equal(t, "TXN_111", record.ID)
	assert.Equal(t, "+250789999999", record.Sender)
}

func TestNormalizationIdempotence(t *testing.T) {
	n := newTestNormalizer(t)

	phone := n.normalizePhone("0788123456")
	assert.Equal(t, phone, n.normalizePhone(phone))

	ts := n.normalizeTimestamp("1715351451000")
	assert.Equal(t, ts, n.normalizeTimestamp(ts))

	amount := n.extractAmount("1,500 RWF")
	assert.InDelta(t, amount, n.extractAmount("1500"), 0.001)

	assert.Equal(t, models.TypeSend, normalizeType(normalizeType("sent")))
}

func TestValidationSingleKnownPartyIsValid(t *testing.T) {
	n := newTestNormalizer(t)

	raw := models.RawRecord{
		"Id":     strPtr("1"),
		"amount": strPtr("500"),
		"sender": strPtr("0788123456"),
		"Type":   strPtr("SENT"),
	}

	_, report := n.Normalize(raw)

	assert.True(t, report.IsValid)
	assert.True(t, report.HasIssue(models.IssueUnknownReceiver))
	assert.False(t, report.HasIssue(models.IssueUnknownSender))
}
