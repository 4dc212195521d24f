// Package categorize assigns a category to each transaction from an ordered
// table of description patterns.
package categorize

import (
	_ "embed"
	"fmt"
	"regexp"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/bankflow/internal/model"
)

//go:embed categories.yaml
var embeddedTable []byte

// Table is the YAML shape of a category rule table.
type Table struct {
	IncomeRules     int    `yaml:"income_rules"`
	FallbackExpense string `yaml:"fallback_expense"`
	FallbackIncome  string `yaml:"fallback_income"`
	Rules           []Rule `yaml:"rules"`
}

// Rule pairs a category label with the patterns that select it.
type Rule struct {
	Category string   `yaml:"category"`
	Patterns []string `yaml:"patterns"`
}

type compiledRule struct {
	category string
	patterns []*regexp.Regexp
}

// Categorizer classifies transactions. It is safe for concurrent use.
type Categorizer struct {
	rules           []compiledRule
	incomeRules     int
	fallbackExpense string
	fallbackIncome  string
}

// Load parses and compiles a YAML rule table.
func Load(data []byte) (*Categorizer, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing category table: %w", err)
	}
	return New(t)
}

// New compiles a rule table. Patterns are matched case-insensitively.
func New(t Table) (*Categorizer, error) {
	c := &Categorizer{
		incomeRules:     t.IncomeRules,
		fallbackExpense: t.FallbackExpense,
		fallbackIncome:  t.FallbackIncome,
	}
	if c.fallbackExpense == "" {
		c.fallbackExpense = "Other"
	}
	if c.fallbackIncome == "" {
		c.fallbackIncome = "Other Income"
	}
	if c.incomeRules < 0 || c.incomeRules > len(t.Rules) {
		return nil, fmt.Errorf("income_rules %d out of range [0,%d]", t.IncomeRules, len(t.Rules))
	}

	for i, r := range t.Rules {
		if r.Category == "" {
			return nil, fmt.Errorf("rule %d: empty category", i+1)
		}
		cr := compiledRule{category: r.Category}
		for _, p := range r.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("rule %q: compiling %q: %w", r.Category, p, err)
			}
			cr.patterns = append(cr.patterns, re)
		}
		c.rules = append(c.rules, cr)
	}
	return c, nil
}

var defaultCategorizer = sync.OnceValue(func() *Categorizer {
	c, err := Load(embeddedTable)
	if err != nil {
		panic("embedded category table: " + err.Error())
	}
	return c
})

// Default returns the categorizer built from the embedded table.
func Default() *Categorizer {
	return defaultCategorizer()
}

// Categorize classifies txn with the default table.
func Categorize(txn model.Transaction) string {
	return Default().Categorize(txn)
}

// Categorize returns txn's existing category when it has one, otherwise the
// first matching rule's label or the fallback for its direction.
func (c *Categorizer) Categorize(txn model.Transaction) string {
	if !txn.IsUncategorized() {
		return txn.Category
	}

	rules, fallback := c.rules, c.fallbackExpense
	if txn.Type == model.TxnIncome {
		rules, fallback = c.rules[:c.incomeRules], c.fallbackIncome
	}
	for _, r := range rules {
		for _, re := range r.patterns {
			if re.MatchString(txn.Description) {
				return r.category
			}
		}
	}
	return fallback
}

// Apply returns a copy of txns with every category filled in.
func (c *Categorizer) Apply(txns []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, len(txns))
	for i, txn := range txns {
		out[i] = txn.Clone()
		out[i].Category = c.Categorize(txn)
	}
	return out
}

// Categories lists every label the categorizer can produce, in rule order,
// followed by the two fallbacks.
func (c *Categorizer) Categories() []string {
	out := make([]string, 0, len(c.rules)+2)
	for _, r := range c.rules {
		out = append(out, r.category)
	}
	return append(out, c.fallbackExpense, c.fallbackIncome)
}
