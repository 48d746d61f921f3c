// Package normalizer turns raw discovered field maps into validated
// TransactionRecords. Every rule is a fallback chain that degrades to a
// documented default instead of failing, so a record always comes out.
package normalizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/TKcodes-bit/Momo-app-code-bit/internal/config"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/logging"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/models"

	"github.com/shopspring/decimal"
)

// Normalizer applies the per-field normalization rules. Phone and amount
// rules are compiled once from the configured country and currency codes.
type Normalizer struct {
	logger logging.Logger

	phoneRules     []phoneRule
	canonicalPhone *regexp.Regexp
	amountPatterns []*regexp.Regexp

	// now is replaceable in tests to make synthesized timestamps stable.
	now func() time.Time
}

// New builds a Normalizer from the configured country and currency codes.
func New(cfg *config.Config, logger logging.Logger) *Normalizer {
	if logger == nil {
		logger = logging.NewMockLogger()
	}
	return &Normalizer{
		logger:         logger,
		phoneRules:     phoneRulesFor(cfg.Normalizer.CountryCode),
		canonicalPhone: canonicalPhonePattern(cfg.Normalizer.CountryCode),
		amountPatterns: amountPatternsFor(cfg.Normalizer.CurrencyCode),
		now:            time.Now,
	}
}

// Normalize resolves aliases, coerces each canonical field and attaches a
// validation report. It never returns an error; unusable values degrade to
// their documented defaults and are recorded as issues.
func (n *Normalizer) Normalize(raw models.RawRecord) (models.TransactionRecord, models.ValidationReport) {
	record := models.TransactionRecord{
		ID:              n.normalizeID(raw.First(idAliases...)),
		TransactionType: normalizeType(raw.First(typeAliases...)),
		Amount:          n.extractAmount(raw.First(amountAliases...)),
		Sender:          n.normalizePhone(raw.First(senderAliases...)),
		Receiver:        n.normalizePhone(raw.First(receiverAliases...)),
		Timestamp:       n.normalizeTimestamp(raw.First(timestampAliases...)),
		Body:            strings.TrimSpace(raw.Get("body")),
		Extra:           extraFields(raw),
	}

	n.enrichFromBody(&record)

	report := n.validate(&record)
	record.Validation = report

	n.logger.WithFields(
		logging.F("id", record.ID),
		logging.F("valid", report.IsValid),
	).Debug("Normalized transaction record")

	return record, report
}

// normalizeID guarantees a unique-ish prefixed identifier. Missing ids are
// synthesized from the current unix time; bare ids get the prefix.
func (n *Normalizer) normalizeID(value string) string {
	id := strings.TrimSpace(value)
	if id == "" {
		return fmt.Sprintf("%s%d", models.IDPrefix, n.now().Unix())
	}
	if !strings.HasPrefix(id, models.IDPrefix) {
		return models.IDPrefix + id
	}
	return id
}

// normalizeType maps vocabulary variants onto the canonical type tokens.
// Unmapped non-empty values pass through uppercased so downstream heuristics
// can still see them.
func normalizeType(value string) string {
	t := strings.ToUpper(strings.TrimSpace(value))
	if t == "" {
		return models.TypeUnknown
	}
	if mapped, ok := typeMappings[t]; ok {
		return mapped
	}
	return t
}

// extractAmount pulls a numeric amount out of text using the ordered currency
// patterns. Unparsable values degrade to 0.0, never to a negative number.
func (n *Normalizer) extractAmount(text string) float64 {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0.0
	}

	for _, pattern := range n.amountPatterns {
		m := pattern.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		cleaned := strings.ReplaceAll(m[1], ",", "")
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			n.logger.WithFields(
				logging.F("value", m[1]),
				logging.F("error", err),
			).Debug("Amount matched but failed to parse")
			return 0.0
		}
		return d.InexactFloat64()
	}
	return 0.0
}

// normalizePhone rewrites a party identifier to canonical +<country><9 digits>
// form. Anything the rules cannot produce in canonical form becomes the
// Unknown sentinel, never a partially rewritten number.
func (n *Normalizer) normalizePhone(value string) string {
	phone := strings.TrimSpace(value)
	if phone == "" || strings.EqualFold(phone, models.PartyUnknown) {
		return models.PartyUnknown
	}

	for _, rule := range n.phoneRules {
		if m := rule.pattern.FindStringSubmatch(phone); m != nil {
			phone = rule.prefix + m[1]
			break
		}
	}

	if !n.canonicalPhone.MatchString(phone) {
		return models.PartyUnknown
	}
	return phone
}

// normalizeTimestamp renders any supported source format as the canonical
// ISO-8601 layout. Classification order: 13-digit epoch milliseconds,
// 10-digit epoch seconds, ISO strings, then the combined date+time patterns.
// Anything else degrades to the current time.
func (n *Normalizer) normalizeTimestamp(value string) string {
	s := strings.TrimSpace(value)
	if s == "" {
		return n.now().Format(models.TimestampLayout)
	}

	if allDigits(s) {
		switch len(s) {
		case 13:
			ms, err := strconv.ParseInt(s, 10, 64)
			if err == nil {
				return time.Unix(ms/1000, (ms%1000)*int64(time.Millisecond)).Format(models.TimestampLayout)
			}
		case 10:
			sec, err := strconv.ParseInt(s, 10, 64)
			if err == nil {
				return time.Unix(sec, 0).Format(models.TimestampLayout)
			}
		}
		return n.now().Format(models.TimestampLayout)
	}

	if strings.Contains(s, "T") {
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format(models.TimestampLayout)
			}
		}
		return n.now().Format(models.TimestampLayout)
	}

	for _, rule := range dateTimeRules {
		m := rule.pattern.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		for _, dateLayout := range dateLayouts {
			if t, err := time.Parse(dateLayout+" 15:04:05", m[1]+" "+m[2]); err == nil {
				return t.Format(models.TimestampLayout)
			}
		}
	}

	n.logger.WithField("value", s).Debug("Unrecognized timestamp format, using current time")
	return n.now().Format(models.TimestampLayout)
}

// enrichFromBody mines the free-text SMS body for values the structured
// fields did not carry: a secondary amount source plus balance and fee.
func (n *Normalizer) enrichFromBody(record *models.TransactionRecord) {
	if record.Body == "" {
		return
	}

	if record.Amount <= 0 {
		if amount := n.extractAmount(record.Body); amount > 0 {
			record.Amount = amount
		}
	}

	if m := balancePattern.FindStringSubmatch(record.Body); m != nil {
		if v, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", "")); err == nil {
			f := v.InexactFloat64()
			record.BalanceAfter = &f
		}
	}

	if m := feePattern.FindStringSubmatch(record.Body); m != nil {
		if v, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", "")); err == nil {
			f := v.InexactFloat64()
			record.Fee = &f
		}
	}
}

// validate builds the advisory report. A record is valid when the required
// fields are populated, the amount is positive and at least one party is a
// real phone number.
func (n *Normalizer) validate(record *models.TransactionRecord) models.ValidationReport {
	report := models.ValidationReport{
		CleanedAt: n.now().Format(models.TimestampLayout),
	}

	if record.Amount <= 0 {
		report.Issues = append(report.Issues, models.IssueInvalidAmount)
	}
	if record.Sender == models.PartyUnknown {
		report.Issues = append(report.Issues, models.IssueUnknownSender)
	}
	if record.Receiver == models.PartyUnknown {
		report.Issues = append(report.Issues, models.IssueUnknownReceiver)
	}
	if record.TransactionType == models.TypeUnknown {
		report.Issues = append(report.Issues, models.IssueUnknownType)
	}

	report.IsValid = record.ID != "" &&
		record.Amount > 0 &&
		record.Timestamp != "" &&
		!(record.Sender == models.PartyUnknown && record.Receiver == models.PartyUnknown)

	return report
}

// extraFields collects raw keys outside the canonical set. Empty source
// elements are dropped.
func extraFields(raw models.RawRecord) map[string]string {
	var extra map[string]string
	for key, value := range raw {
		if _, ok := canonicalKeys[key]; ok {
			continue
		}
		if value == nil {
			continue
		}
		if extra == nil {
			extra = make(map[string]string)
		}
		extra[key] = *value
	}
	return extra
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
