// Package rules applies user-defined custom rules to transactions: matching
// conditions, then categorizing, renaming or splitting what matches.
package rules

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/cleared-dev/bankflow/internal/model"
)

// Active returns the enabled rules in execution order: ascending priority,
// ties kept in input order.
func Active(rules []model.CustomRule) []model.CustomRule {
	var out []model.CustomRule
	for _, r := range rules {
		if r.Enabled {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}

// Apply runs the enabled rules over txn and returns the resulting
// fragments. A transaction no rule splits comes back as a single element.
// Each rule sees the fragments produced by the rules before it.
func Apply(txn model.Transaction, rules []model.CustomRule) []model.Transaction {
	return applyActive(txn, Active(rules))
}

// ApplyAll applies the rules to every transaction and concatenates the
// results in input order.
func ApplyAll(txns []model.Transaction, rules []model.CustomRule) []model.Transaction {
	active := Active(rules)
	out := make([]model.Transaction, 0, len(txns))
	for _, txn := range txns {
		out = append(out, applyActive(txn, active)...)
	}
	return out
}

func applyActive(txn model.Transaction, active []model.CustomRule) []model.Transaction {
	frags := []model.Transaction{txn.Clone()}
	for _, r := range active {
		next := make([]model.Transaction, 0, len(frags))
		for _, f := range frags {
			if !Matches(f, r) {
				next = append(next, f)
				continue
			}
			next = append(next, applyAction(f, r.Action)...)
		}
		frags = reindex(next)
	}
	return frags
}

func applyAction(f model.Transaction, action model.Action) []model.Transaction {
	switch a := action.(type) {
	case model.CategorizeAction:
		f.Category = a.Category
	case model.RenameAction:
		f.Description = a.NewName
	case model.SplitAction:
		if parts, ok := Split(f, a.Splits); ok {
			return parts
		}
	}
	return []model.Transaction{f}
}

// reindex numbers the fragments of each split group 0..n-1 in list order.
func reindex(frags []model.Transaction) []model.Transaction {
	next := make(map[string]int)
	for i := range frags {
		s := frags[i].Split
		if s == nil {
			continue
		}
		s.Index = next[s.ParentID]
		next[s.ParentID]++
	}
	return frags
}

// Matches reports whether txn satisfies rule's conditions under its logic.
// A rule without conditions matches nothing.
func Matches(txn model.Transaction, rule model.CustomRule) bool {
	if len(rule.Conditions) == 0 {
		return false
	}
	if rule.ConditionLogic == model.LogicAny {
		for _, c := range rule.Conditions {
			if MatchCondition(txn, c) {
				return true
			}
		}
		return false
	}
	for _, c := range rule.Conditions {
		if !MatchCondition(txn, c) {
			return false
		}
	}
	return true
}

// MatchCondition evaluates one condition. Text comparisons ignore case; an
// invalid regular expression evaluates to false.
func MatchCondition(txn model.Transaction, c model.Condition) bool {
	switch c.Field {
	case model.FieldAmount:
		if c.MinAmount != nil && txn.Amount.LessThan(*c.MinAmount) {
			return false
		}
		if c.MaxAmount != nil && txn.Amount.GreaterThan(*c.MaxAmount) {
			return false
		}
		return true
	case model.FieldDescription:
		return matchText(txn.Description, c.MatchType, c.Value)
	case model.FieldCategory:
		return matchText(txn.Category, c.MatchType, c.Value)
	default:
		return false
	}
}

func matchText(field string, mt model.MatchType, pattern string) bool {
	value := strings.ToLower(field)
	p := strings.ToLower(pattern)
	switch mt {
	case model.MatchContains:
		return strings.Contains(value, p)
	case model.MatchStartsWith:
		return strings.HasPrefix(value, p)
	case model.MatchEndsWith:
		return strings.HasSuffix(value, p)
	case model.MatchExact:
		return value == p
	case model.MatchRegex:
		re, err := compileRegex(pattern)
		if err != nil {
			return false
		}
		return re.MatchString(field)
	default:
		return false
	}
}

var regexCache sync.Map // pattern -> *regexp.Regexp

// compileRegex compiles a user pattern case-insensitively, caching successes.
func compileRegex(pattern string) (*regexp.Regexp, error) {
	if re, ok := regexCache.Load(pattern); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, err
	}
	regexCache.Store(pattern, re)
	return re, nil
}
