package categorizer

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/TKcodes-bit/Momo-app-code-bit/internal/models"

	"gopkg.in/yaml.v3"
)

// Definition describes one category's scoring signals: regex patterns worth a
// full point each and plain keywords worth half a point each.
type Definition struct {
	ID       int      `yaml:"id"`
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`
	Keywords []string `yaml:"keywords"`
}

type rulesFile struct {
	Categories []Definition `yaml:"categories"`
}

// DefaultDefinitions returns the built-in category signal tables, in ascending
// id order. The order doubles as the tie-break order during resolution.
func DefaultDefinitions() []Definition {
	return []Definition{
		{
			ID:   models.CategoryAirtime,
			Name: "Airtime Purchase",
			Patterns: []string{
				`airtime`, `token`, `\*182\*`, `internet`, `data bundle`,
				`mobile data`, `data package`, `bundle`, `units`,
			},
			Keywords: []string{"airtime", "token", "internet", "data", "bundle", "units"},
		},
		{
			ID:   models.CategoryBillPayment,
			Name: "Bill Payment",
			Patterns: []string{
				`bill payment`, `utility`, `electricity`, `water`, `rent`,
				`insurance`, `tax`, `government`, `council`,
			},
			Keywords: []string{"bill", "utility", "electricity", "water", "rent", "insurance"},
		},
		{
			ID:   models.CategoryMoneyTransfer,
			Name: "Money Transfer",
			Patterns: []string{
				`transferred`, `sent`, `received`, `mobile money`, `momo`,
				`transfer`, `send money`, `receive money`, `payment to`,
			},
			Keywords: []string{"transfer", "send", "receive", "money", "payment"},
		},
		{
			ID:   models.CategorySchoolFees,
			Name: "School Fees",
			Patterns: []string{
				`school fees`, `tuition`, `education`, `student`, `university`,
				`college`, `academic`, `learning`, `school`,
			},
			Keywords: []string{"school", "tuition", "education", "student", "university"},
		},
		{
			ID:   models.CategoryShopping,
			Name: "Shopping",
			Patterns: []string{
				`payment`, `purchase`, `merchant`, `shop`, `buy`, `store`,
				`retail`, `goods`, `services`, `pos`,
			},
			Keywords: []string{"payment", "purchase", "merchant", "shop", "buy"},
		},
	}
}

// LoadDefinitions reads a YAML rules file and returns its category table in
// place of the built-in one. The file must cover only valid category ids.
func LoadDefinitions(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("rules file %s defines no categories", path)
	}

	for _, def := range file.Categories {
		if !models.ValidCategoryID(def.ID) {
			return nil, fmt.Errorf("rules file %s: invalid category id %d", path, def.ID)
		}
		if def.Name == "" {
			return nil, fmt.Errorf("rules file %s: category %d has no name", path, def.ID)
		}
		if len(def.Patterns) == 0 {
			return nil, fmt.Errorf("rules file %s: category %d has no patterns", path, def.ID)
		}
	}

	return file.Categories, nil
}

// typeSignature is a high-confidence shortcut: the first body pattern that
// matches decides the category immediately, before any scoring.
type typeSignature struct {
	Type       string
	Patterns   []string
	CategoryID int
	Confidence float64
}

// typeSignatures in table order; earlier entries shadow later ones.
var typeSignatures = []typeSignature{
	{
		Type:       "DEPOSIT",
		Patterns:   []string{`bank deposit`, `cash deposit`, `deposited`, `added to your account`},
		CategoryID: models.CategoryMoneyTransfer,
		Confidence: 0.9,
	},
	{
		Type:       "WITHDRAWAL",
		Patterns:   []string{`withdrawal`, `cash out`, `withdrawn`, `cash withdrawal`},
		CategoryID: models.CategoryMoneyTransfer,
		Confidence: 0.9,
	},
	{
		Type:       "AIRTIME",
		Patterns:   []string{`airtime`, `token`, `\*182\*`, `internet`},
		CategoryID: models.CategoryAirtime,
		Confidence: 0.95,
	},
	{
		Type:       "BILL_PAYMENT",
		Patterns:   []string{`bill payment`, `utility`, `electricity`, `water`},
		CategoryID: models.CategoryBillPayment,
		Confidence: 0.9,
	},
}

// typeBonuses maps a transaction type to the category its additive bonus
// nudges toward.
var typeBonuses = map[string]int{
	models.TypeReceive: models.CategoryMoneyTransfer,
	models.TypeSend:    models.CategoryMoneyTransfer,
	"DEPOSIT":          models.CategoryMoneyTransfer,
	"WITHDRAWAL":       models.CategoryMoneyTransfer,
	"PAYMENT":          models.CategoryBillPayment,
	"PURCHASE":         models.CategoryShopping,
}

// compiledDefinition holds a Definition with its patterns compiled
// case-insensitively and its keywords pre-lowered.
type compiledDefinition struct {
	Definition
	patterns []*regexp.Regexp
	keywords []string
}

type compiledSignature struct {
	typeSignature
	patterns []*regexp.Regexp
}

func compileDefinitions(defs []Definition) ([]compiledDefinition, error) {
	compiled := make([]compiledDefinition, 0, len(defs))
	for _, def := range defs {
		cd := compiledDefinition{Definition: def}
		for _, p := range def.Patterns {
			re, err := regexp.Compile(`(?i)` + p)
			if err != nil {
				return nil, fmt.Errorf("category %d: invalid pattern %q: %w", def.ID, p, err)
			}
			cd.patterns = append(cd.patterns, re)
		}
		for _, k := range def.Keywords {
			cd.keywords = append(cd.keywords, strings.ToLower(k))
		}
		compiled = append(compiled, cd)
	}
	return compiled, nil
}

func compileSignatures(sigs []typeSignature) []compiledSignature {
	compiled := make([]compiledSignature, 0, len(sigs))
	for _, sig := range sigs {
		cs := compiledSignature{typeSignature: sig}
		for _, p := range sig.Patterns {
			cs.patterns = append(cs.patterns, regexp.MustCompile(`(?i)`+p))
		}
		compiled = append(compiled, cs)
	}
	return compiled
}
