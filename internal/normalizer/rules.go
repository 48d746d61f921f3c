package normalizer

import (
	"regexp"

	"github.com/TKcodes-bit/Momo-app-code-bit/internal/models"
)

// Field alias tables. The first non-empty alias wins; names match what SMS
// export tools emit as attributes or child tags.
var (
	idAliases        = []string{"Id", "id", "transaction_id", "txn_id"}
	typeAliases      = []string{"transaction_type", "Type", "type"}
	amountAliases    = []string{"amount", "Amount", "value"}
	senderAliases    = []string{"sender", "Sender", "from"}
	receiverAliases  = []string{"receiver", "Receiver", "to"}
	timestampAliases = []string{"timestamp", "Timestamp", "date", "Date"}
)

// canonicalKeys is the full set of raw keys consumed by normalization.
// Anything else passes through as an extra field.
var canonicalKeys = buildCanonicalKeys()

func buildCanonicalKeys() map[string]struct{} {
	keys := make(map[string]struct{})
	for _, aliases := range [][]string{
		idAliases, typeAliases, amountAliases,
		senderAliases, receiverAliases, timestampAliases,
	} {
		for _, alias := range aliases {
			keys[alias] = struct{}{}
		}
	}
	keys["body"] = struct{}{}
	return keys
}

// typeMappings resolves transaction-type vocabulary variants (numeric codes,
// past-tense verbs, domain synonyms) to the canonical tokens. Unmapped
// non-empty values pass through uppercased.
var typeMappings = map[string]string{
	"1":          models.TypeReceive,
	"0":          models.TypeSend,
	"SENT":       models.TypeSend,
	"RECEIVED":   models.TypeReceive,
	"TRANSFER":   models.TypeSend,
	"PAYMENT":    models.TypeSend,
	"DEPOSIT":    models.TypeReceive,
	"WITHDRAWAL": models.TypeSend,
}

// phoneRule rewrites one source phone format to canonical form. Rules are
// tried in order and the first whose pattern matches is applied.
type phoneRule struct {
	pattern *regexp.Regexp
	prefix  string
}

// phoneRulesFor builds the ordered rewrite rules for a country code:
// already-canonical, country code without plus, leading-zero local form,
// bare nine-digit subscriber number.
func phoneRulesFor(countryCode string) []phoneRule {
	cc := regexp.QuoteMeta(countryCode)
	prefix := "+" + countryCode
	return []phoneRule{
		{regexp.MustCompile(`^\+` + cc + `(\d{9})$`), prefix},
		{regexp.MustCompile(`^` + cc + `(\d{9})$`), prefix},
		{regexp.MustCompile(`^0(\d{9})$`), prefix},
		{regexp.MustCompile(`^(\d{9})$`), prefix},
	}
}

func canonicalPhonePattern(countryCode string) *regexp.Regexp {
	return regexp.MustCompile(`^\+` + regexp.QuoteMeta(countryCode) + `\d{9}$`)
}

// amountPatternsFor builds the ordered amount extraction patterns for a
// currency code: currency-suffixed with grouping, bare numeric with grouping,
// currency-prefixed with grouping, then the plain-integer variants.
func amountPatternsFor(currency string) []*regexp.Regexp {
	c := regexp.QuoteMeta(currency)
	grouped := `(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`
	return []*regexp.Regexp{
		regexp.MustCompile(`(?i)` + grouped + `\s*` + c),
		regexp.MustCompile(`(?i)` + grouped),
		regexp.MustCompile(`(?i)` + c + `\s*` + grouped),
		regexp.MustCompile(`(?i)(\d+)\s*` + c),
		regexp.MustCompile(`(?i)` + c + `\s*(\d+)`),
	}
}

// dateTimeRule captures the date and time parts of one combined format.
// Every dateLayout is tried against the captured date part.
type dateTimeRule struct {
	pattern *regexp.Regexp
}

var dateTimeRules = []dateTimeRule{
	{regexp.MustCompile(`(\d{4}-\d{2}-\d{2})\s+(\d{2}:\d{2}:\d{2})`)}, // 2024-05-10 16:30:51
	{regexp.MustCompile(`(\d{2}/\d{2}/\d{4})\s+(\d{2}:\d{2}:\d{2})`)}, // 10/05/2024 16:30:51
	{regexp.MustCompile(`(\d{2}-\d{2}-\d{4})\s+(\d{2}:\d{2}:\d{2})`)}, // 10-05-2024 16:30:51
}

// dateLayouts are tried against the captured date part of any matched rule,
// covering year-month-day, day/month/year and day-month-year orderings.
var dateLayouts = []string{"2006-01-02", "02/01/2006", "02-01-2006"}

// isoLayouts are tried for strings that already carry an ISO date/time
// separator.
var isoLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// Body enrichment patterns: balance after the transaction and the fee
// charged, each labelled in the free text.
var (
	balancePattern = regexp.MustCompile(`(?i)balance[:\s]*(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`)
	feePattern     = regexp.MustCompile(`(?i)fee[:\s]*(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`)
)
