// Package categorizer assigns each transaction a category, a confidence
// score and the method tag of the decision path that fired. The decision
// combines weak signals from the SMS body, the transaction type and the
// amount in strict priority order.
package categorizer

import (
	"math"
	"sort"
	"strings"

	"github.com/TKcodes-bit/Momo-app-code-bit/internal/config"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/logging"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/models"
)

// Method tags carried in CategorizationMethod.
const (
	MethodPatternMatching = "pattern_matching"
	MethodDefaultFallback = "default_fallback"
	MethodErrorFallback   = "error_fallback"
	methodTypePrefix      = "transaction_type_"
)

// Scoring weights and bonuses.
const (
	patternWeight      = 1.0
	keywordWeight      = 0.5
	amountBonus        = 0.2
	typeBonus          = 0.1
	fallbackConfidence = 0.1
)

// Categorizer holds the compiled signal tables and amount thresholds.
type Categorizer struct {
	logger        logging.Logger
	definitions   []compiledDefinition
	signatures    []compiledSignature
	airtimeMax    float64
	schoolFeesMin float64
}

// New builds a Categorizer from the configuration. When a rules file is
// configured it replaces the built-in category table.
func New(cfg *config.Config, logger logging.Logger) (*Categorizer, error) {
	if logger == nil {
		logger = logging.NewMockLogger()
	}

	defs := DefaultDefinitions()
	if cfg.Categorizer.RulesFile != "" {
		loaded, err := LoadDefinitions(cfg.Categorizer.RulesFile)
		if err != nil {
			return nil, err
		}
		defs = loaded
		logger.WithFields(
			logging.F("file", cfg.Categorizer.RulesFile),
			logging.F("categories", len(defs)),
		).Info("Loaded categorization rules")
	}

	// Ascending id order is the tie-break contract during resolution.
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })

	compiled, err := compileDefinitions(defs)
	if err != nil {
		return nil, err
	}

	return &Categorizer{
		logger:        logger,
		definitions:   compiled,
		signatures:    compileSignatures(typeSignatures),
		airtimeMax:    cfg.Categorizer.AirtimeMaxAmount,
		schoolFeesMin: cfg.Categorizer.SchoolFeesMinAmount,
	}, nil
}

// Categorize returns an enriched copy of the record. It never fails: any
// panic inside the decision downgrades the record to the error fallback and
// processing continues.
func (c *Categorizer) Categorize(record models.TransactionRecord) (out models.TransactionRecord) {
	out = record

	defer func() {
		if r := recover(); r != nil {
			c.logger.WithFields(
				logging.F("id", record.ID),
				logging.F("panic", r),
			).Error("Categorization failed")
			out = record
			out.CategoryID = models.DefaultCategoryID
			out.CategoryName = c.nameFor(models.DefaultCategoryID)
			out.CategorizationConfidence = 0.0
			out.CategorizationMethod = MethodErrorFallback
		}
	}()

	categoryID, confidence, method := c.determineCategory(record.Body, record.TransactionType, record.Amount)
	out.CategoryID = categoryID
	out.CategoryName = c.nameFor(categoryID)
	out.CategorizationConfidence = confidence
	out.CategorizationMethod = method

	if merchant := extractMerchant(record.Body); merchant != "" {
		out.MerchantName = merchant
	}
	if ref := extractReference(record.Body); ref != "" {
		out.ReferenceNumber = ref
	}
	if location := extractLocation(record.Body); location != "" {
		out.Location = location
	}

	return out
}

// determineCategory runs the decision stages in strict priority order:
// type-signature match, weighted pattern/keyword scoring, additive amount and
// type bonuses, then max-score resolution with the global fallback last.
func (c *Categorizer) determineCategory(body, transactionType string, amount float64) (int, float64, string) {
	for _, sig := range c.signatures {
		for _, pattern := range sig.patterns {
			if pattern.MatchString(body) {
				return sig.CategoryID, sig.Confidence, methodTypePrefix + sig.Type
			}
		}
	}

	scores := make(map[int]float64)
	lowerBody := strings.ToLower(body)

	for _, def := range c.definitions {
		score := 0.0
		hits := 0
		for _, pattern := range def.patterns {
			if pattern.MatchString(body) {
				score += patternWeight
				hits++
			}
		}
		for _, keyword := range def.keywords {
			if strings.Contains(lowerBody, keyword) {
				score += keywordWeight
				hits++
			}
		}
		if hits > 0 {
			// Normalized by the pattern count only; the keyword contribution
			// can push the raw score past 1.0 and the final clamp settles it.
			scores[def.ID] = score / float64(len(def.patterns))
		}
	}

	if categoryID, ok := c.amountCategory(amount); ok {
		scores[categoryID] += amountBonus
	}

	if categoryID, ok := typeBonuses[strings.ToUpper(transactionType)]; ok {
		scores[categoryID] += typeBonus
	}

	if len(scores) > 0 {
		bestID, bestScore := 0, 0.0
		for _, category := range models.Categories {
			if score, ok := scores[category.ID]; ok && score > bestScore {
				bestID, bestScore = category.ID, score
			}
		}
		return bestID, math.Min(bestScore, 1.0), MethodPatternMatching
	}

	return models.DefaultCategoryID, fallbackConfidence, MethodDefaultFallback
}

// amountCategory maps an amount magnitude to the category it nudges toward:
// small amounts look like airtime, large ones like school fees.
func (c *Categorizer) amountCategory(amount float64) (int, bool) {
	if amount <= 0 {
		return 0, false
	}
	if amount <= c.airtimeMax {
		return models.CategoryAirtime, true
	}
	if amount >= c.schoolFeesMin {
		return models.CategorySchoolFees, true
	}
	return 0, false
}

// nameFor resolves a category id against the active definitions, falling back
// to the fixed contract table for ids the rules file does not cover.
func (c *Categorizer) nameFor(categoryID int) string {
	for _, def := range c.definitions {
		if def.ID == categoryID {
			return def.Name
		}
	}
	return models.CategoryName(categoryID)
}
